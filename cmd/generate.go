package cmd

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"finmodel/internal/app"
	"finmodel/internal/models"
	"finmodel/internal/workbook"
	"finmodel/pkg/format"
)

var (
	generateExchange string
	generateYears    int
	generateModels   []string
	generateWait     bool
	generateDownload bool
	generateVerify   bool
)

// generateCmd submits a stock-symbol generation request. The raw/lbo/ma
// variants are subcommands registered in their own files.
var generateCmd = &cobra.Command{
	Use:   "generate <symbol>",
	Short: "Generate a financial model for a stock symbol",
	Long: `Submits a model generation job for a listed stock. The backend fetches the
financials, classifies the industry and builds the Excel model; this command
tracks the job and can wait for completion and download the artifact.`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		appInstance, err := GetAppFromContext(cmd.Context())
		if err != nil {
			return err
		}

		req := models.NewStockRequest(args[0])
		req.Exchange = generateExchange
		req.ForecastYears = generateYears
		if len(generateModels) > 0 {
			req.ModelTypes = generateModels
		}

		return submitAndReport(cmd.Context(), appInstance, req)
	},
}

func init() {
	rootCmd.AddCommand(generateCmd)

	generateCmd.Flags().StringVar(&generateExchange, "exchange", "NSE", "Exchange the symbol is listed on (NSE or BSE)")
	generateCmd.Flags().IntVar(&generateYears, "years", 5, "Number of forecast years (1-10)")
	generateCmd.Flags().StringSliceVar(&generateModels, "models", nil, "Model types to include (default three_statement,dcf)")

	registerLifecycleFlags(generateCmd)
}

// registerLifecycleFlags adds the wait/download/verify flags shared by every
// submission command.
func registerLifecycleFlags(cmd *cobra.Command) {
	cmd.Flags().BoolVar(&generateWait, "wait", false, "Poll until the job completes or fails")
	cmd.Flags().BoolVar(&generateDownload, "download", false, "Download the model once completed (implies --wait)")
	cmd.Flags().BoolVar(&generateVerify, "verify", false, "Open the downloaded workbook to verify it is readable")
}

// submitAndReport runs the shared submit -> wait -> download flow.
func submitAndReport(ctx context.Context, appInstance *app.App, req models.GenerationRequest) error {
	jobID, err := appInstance.Tracker.Submit(ctx, req)
	if err != nil {
		return err
	}

	fmt.Printf("Job submitted: %s\n", jobID)

	if !generateWait && !generateDownload {
		fmt.Printf("Track it with: finmodel watch %s\n", jobID)
		return nil
	}

	job, err := waitWithProgress(ctx, appInstance)
	if err != nil {
		return err
	}

	reportTerminal(job)

	if job.DisplayStatus() != models.JobStatusCompleted {
		return fmt.Errorf("job %s failed: %s", job.ID, job.Message)
	}

	if generateDownload {
		return downloadArtifact(ctx, appInstance, job, generateVerify)
	}
	return nil
}

// waitWithProgress blocks until the tracked job is terminal, rendering a
// progress line on each refresh.
func waitWithProgress(ctx context.Context, appInstance *app.App) (models.Job, error) {
	result := make(chan struct {
		job models.Job
		err error
	}, 1)
	go func() {
		job, err := appInstance.Tracker.Wait(ctx)
		result <- struct {
			job models.Job
			err error
		}{job, err}
	}()

	ticker := time.NewTicker(500 * time.Millisecond)
	defer ticker.Stop()

	for {
		select {
		case res := <-result:
			fmt.Println()
			return res.job, res.err
		case <-ticker.C:
			if job, ok := appInstance.Tracker.Snapshot(); ok {
				fmt.Printf("\r%s %3d%%  %-50s", format.ProgressBar(job.Progress, 24), job.Progress, truncate(job.Message, 50))
			}
		}
	}
}

func reportTerminal(job models.Job) {
	switch job.DisplayStatus() {
	case models.JobStatusCompleted:
		color.Green("Completed: %s", job.Message)
		if job.CompanyName != "" {
			fmt.Printf("Company:  %s\n", job.CompanyName)
		}
		if job.Industry != "" {
			fmt.Printf("Industry: %s\n", job.Industry)
		}
		if v := job.Validation; v != nil {
			if v.IsValid {
				color.Green("Validation passed")
			} else {
				color.Yellow("Validation found %d issue(s):", len(v.Errors))
				for _, issue := range v.Errors {
					fmt.Printf("  - %s\n", issue.Message)
				}
			}
		}
	case models.JobStatusFailed:
		color.Red("Failed: %s", job.Message)
	}
}

func downloadArtifact(ctx context.Context, appInstance *app.App, job models.Job, verify bool) error {
	path, err := appInstance.Files.SaveModel(ctx, job)
	if err != nil {
		return err
	}
	fmt.Printf("Saved: %s\n", path)

	if verify {
		if err := workbook.Verify(path); err != nil {
			return fmt.Errorf("downloaded workbook failed verification: %w", err)
		}
		color.Green("Workbook verified")
	}
	return nil
}

func truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	return strings.TrimSpace(s[:n-3]) + "..."
}
