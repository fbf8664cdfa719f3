package cmd

import (
	"fmt"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"finmodel/internal/models"
	"finmodel/pkg/format"
)

// statusCmd fetches a single snapshot of a job, without polling.
var statusCmd = &cobra.Command{
	Use:   "status <job-id>",
	Short: "Show the current status of a generation job",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		appInstance, err := GetAppFromContext(cmd.Context())
		if err != nil {
			return err
		}

		job, err := appInstance.Client.GetJob(cmd.Context(), args[0])
		if err != nil {
			return fmt.Errorf("failed to fetch job status: %w", err)
		}

		printJob(*job)
		return nil
	},
}

// watchCmd polls an existing job until it reaches a terminal state.
var watchCmd = &cobra.Command{
	Use:   "watch <job-id>",
	Short: "Poll a generation job until it completes or fails",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		appInstance, err := GetAppFromContext(cmd.Context())
		if err != nil {
			return err
		}

		job, err := appInstance.Tracker.Track(cmd.Context(), args[0])
		if err != nil {
			return fmt.Errorf("failed to attach to job: %w", err)
		}

		if !job.Terminal() {
			job, err = waitWithProgress(cmd.Context(), appInstance)
			if err != nil {
				return err
			}
		}

		reportTerminal(job)
		if job.DisplayStatus() == models.JobStatusFailed {
			return fmt.Errorf("job %s failed: %s", job.ID, job.Message)
		}
		return nil
	},
}

func init() {
	rootCmd.AddCommand(statusCmd)
	rootCmd.AddCommand(watchCmd)
}

func printJob(job models.Job) {
	statusLine := color.New(color.FgYellow)
	switch job.DisplayStatus() {
	case models.JobStatusCompleted:
		statusLine = color.New(color.FgGreen)
	case models.JobStatusFailed:
		statusLine = color.New(color.FgRed)
	}

	fmt.Printf("Job:      %s\n", job.ID)
	statusLine.Printf("Status:   %s\n", job.DisplayStatus())
	fmt.Printf("Progress: %s %d%%\n", format.ProgressBar(job.Progress, 24), job.Progress)
	if job.Message != "" {
		fmt.Printf("Message:  %s\n", job.Message)
	}
	if job.CompanyName != "" {
		fmt.Printf("Company:  %s\n", job.CompanyName)
	}
	if job.Industry != "" {
		fmt.Printf("Industry: %s\n", job.Industry)
	}
	if job.Downloadable() {
		fmt.Printf("Download: finmodel download %s\n", job.ID)
	}
}
