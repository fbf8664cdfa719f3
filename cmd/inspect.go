package cmd

import (
	"fmt"
	"os"
	"strconv"

	"github.com/olekukonko/tablewriter"
	"github.com/spf13/cobra"

	"finmodel/internal/workbook"
)

// inspectCmd summarizes a downloaded model workbook. Works offline.
var inspectCmd = &cobra.Command{
	Use:   "inspect <file.xlsx>",
	Short: "Summarize a downloaded model workbook",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		summary, err := workbook.Inspect(args[0])
		if err != nil {
			return err
		}

		if summary.CompanyName != "" {
			fmt.Printf("Company:  %s\n", summary.CompanyName)
		}
		if summary.Industry != "" {
			fmt.Printf("Industry: %s\n", summary.Industry)
		}

		table := tablewriter.NewWriter(os.Stdout)
		table.SetHeader([]string{"Sheet", "Rows"})
		table.SetBorder(false)
		table.SetHeaderAlignment(tablewriter.ALIGN_LEFT)
		table.SetAlignment(tablewriter.ALIGN_LEFT)
		for _, sheet := range summary.Sheets {
			table.Append([]string{sheet.Name, strconv.Itoa(sheet.Rows)})
		}
		table.Render()
		return nil
	},
}

func init() {
	rootCmd.AddCommand(inspectCmd)
}
