package cmd

import (
	"fmt"
	"os"

	"github.com/olekukonko/tablewriter"
	"github.com/spf13/cobra"
)

// exportCmd fetches a rendered report for a completed job.
var exportCmd = &cobra.Command{
	Use:   "export <job-id> <pdf|pptx>",
	Short: "Export a completed model as a PDF or PowerPoint report",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		appInstance, err := GetAppFromContext(cmd.Context())
		if err != nil {
			return err
		}

		path, err := appInstance.Files.SaveExport(cmd.Context(), args[0], args[1])
		if err != nil {
			return err
		}
		fmt.Printf("Saved: %s\n", path)
		return nil
	},
}

// exportFormatsCmd lists the export options the backend supports.
var exportFormatsCmd = &cobra.Command{
	Use:   "formats",
	Short: "List available export formats",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		appInstance, err := GetAppFromContext(cmd.Context())
		if err != nil {
			return err
		}

		formats, err := appInstance.Files.Formats(cmd.Context())
		if err != nil {
			return fmt.Errorf("failed to list export formats: %w", err)
		}

		if len(formats) == 0 {
			fmt.Println("No export formats available.")
			return nil
		}

		table := tablewriter.NewWriter(os.Stdout)
		table.SetHeader([]string{"Format", "Name", "Available"})
		table.SetBorder(false)
		table.SetHeaderAlignment(tablewriter.ALIGN_LEFT)
		table.SetAlignment(tablewriter.ALIGN_LEFT)

		for _, f := range formats {
			available := "no"
			if f.Available {
				available = "yes"
			}
			table.Append([]string{f.Format, f.Name, available})
		}
		table.Render()
		return nil
	},
}

func init() {
	rootCmd.AddCommand(exportCmd)
	exportCmd.AddCommand(exportFormatsCmd)
}
