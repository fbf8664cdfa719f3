package cmd

import (
	"context"
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
	"github.com/spf13/viper"

	"finmodel/internal/app"
	"finmodel/internal/config"
)

var rootCmd = &cobra.Command{
	Use:   "finmodel",
	Short: "Finmodel CLI",
	Long: `Finmodel is a CLI client for the AI financial modeling backend. It submits
model generation jobs (three-statement, DCF, LBO, M&A), tracks their progress
and downloads the generated Excel, PDF and PPTX artifacts.`,
	Run: func(cmd *cobra.Command, args []string) {
		cmd.Help()
	},
	// PersistentPreRunE runs before any subcommand's RunE
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		if cmd.Name() == "help" || cmd.Name() == "version" || cmd.Name() == "inspect" {
			// inspect works on local files and needs no backend
			return nil
		}

		bindPersistentFlags(cmd)

		cfg, err := config.LoadConfig()
		if err != nil {
			return fmt.Errorf("failed to load config: %w", err)
		}

		appInstance, err := app.NewApp(cfg)
		if err != nil {
			return fmt.Errorf("failed to initialize app: %w", err)
		}

		ctx := context.WithValue(cmd.Context(), appKey, appInstance)
		cmd.SetContext(ctx)
		return nil
	},
}

func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

// Define a custom type for the context key to avoid collisions.
type contextKey string

const appKey contextKey = "app"

// GetAppFromContext retrieves the app instance stored by PersistentPreRunE.
func GetAppFromContext(ctx context.Context) (*app.App, error) {
	appInstance, ok := ctx.Value(appKey).(*app.App)
	if !ok || appInstance == nil {
		return nil, fmt.Errorf("application instance not found in context")
	}
	return appInstance, nil
}

// persistent flags that override config file and environment values
var flagConfigKeys = map[string]string{
	"api-url":    "api.base_url",
	"output-dir": "output.dir",
}

func bindPersistentFlags(cmd *cobra.Command) {
	cmd.Root().PersistentFlags().VisitAll(func(f *pflag.Flag) {
		if key, ok := flagConfigKeys[f.Name]; ok && f.Changed {
			viper.Set(key, f.Value.String())
		}
	})
}

func init() {
	rootCmd.PersistentFlags().String("api-url", "", "Backend origin (overrides config file and FINMODEL_API_URL)")
	rootCmd.PersistentFlags().String("output-dir", "", "Directory for downloaded artifacts")

	rootCmd.AddCommand(doctorCmd)
}

var doctorCmd = &cobra.Command{
	Use:   "doctor",
	Short: "Check backend connectivity and other diagnostics",
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()

		appInstance, err := GetAppFromContext(ctx)
		if err != nil {
			return fmt.Errorf("failed to get app instance: %w", err)
		}

		fmt.Printf("Checking backend at %s...\n", appInstance.Client.BaseURL)

		if err := appInstance.Client.Health(ctx); err != nil {
			return fmt.Errorf("backend health check failed: %w", err)
		}

		fmt.Println("Backend connection successful.")
		return nil
	},
}
