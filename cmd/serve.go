package cmd

import (
	"fmt"

	"github.com/gin-gonic/gin"
	log "github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"finmodel/internal/apihandlers"
)

var (
	serveAddr string
	servePort string
)

// serveCmd runs the local HTTP bridge, standing in for the browser UI.
var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Run a local HTTP bridge for the job lifecycle",
	Long: `Starts an HTTP server exposing the generation lifecycle (submit, poll,
discard, download) as a small JSON API, so a browser or other tool can drive
jobs without the CLI.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		appInstance, err := GetAppFromContext(cmd.Context())
		if err != nil {
			return err
		}

		router := gin.Default()
		apihandlers.RegisterRoutes(router, apihandlers.NewAPIHandler(appInstance))

		listenAddr := fmt.Sprintf("%s:%s", serveAddr, servePort)
		log.Infof("Starting finmodel bridge on http://%s", listenAddr)

		if err := router.Run(listenAddr); err != nil {
			return fmt.Errorf("failed to run bridge server: %w", err)
		}
		return nil
	},
}

func init() {
	rootCmd.AddCommand(serveCmd)

	serveCmd.Flags().StringVar(&serveAddr, "addr", "localhost", "Address to listen on")
	serveCmd.Flags().StringVar(&servePort, "port", "8080", "Port to listen on")
}
