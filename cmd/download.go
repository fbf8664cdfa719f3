package cmd

import (
	"fmt"

	"github.com/spf13/cobra"
)

var downloadVerify bool

// downloadCmd re-downloads the artifact of a completed job.
var downloadCmd = &cobra.Command{
	Use:   "download <job-id>",
	Short: "Download the Excel model for a completed job",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		appInstance, err := GetAppFromContext(cmd.Context())
		if err != nil {
			return err
		}

		job, err := appInstance.Client.GetJob(cmd.Context(), args[0])
		if err != nil {
			return fmt.Errorf("failed to fetch job: %w", err)
		}

		return downloadArtifact(cmd.Context(), appInstance, *job, downloadVerify)
	},
}

func init() {
	rootCmd.AddCommand(downloadCmd)
	downloadCmd.Flags().BoolVar(&downloadVerify, "verify", false, "Open the downloaded workbook to verify it is readable")
}
