package cmd

import (
	"fmt"
	"os"
	"strconv"

	"github.com/olekukonko/tablewriter"
	"github.com/spf13/cobra"
)

var (
	historyLimit int
	historyLocal bool
)

// historyCmd lists recent generation jobs, from the backend by default or
// from the local submission record with --local.
var historyCmd = &cobra.Command{
	Use:   "history",
	Short: "List recent generation jobs",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		appInstance, err := GetAppFromContext(cmd.Context())
		if err != nil {
			return err
		}

		if historyLocal {
			if appInstance.History == nil {
				return fmt.Errorf("local history is disabled")
			}
			subs, err := appInstance.History.Recent(cmd.Context(), historyLimit)
			if err != nil {
				return fmt.Errorf("error listing local history: %w", err)
			}
			if len(subs) == 0 {
				fmt.Println("No local submissions recorded.")
				return nil
			}

			table := tablewriter.NewWriter(os.Stdout)
			table.SetHeader([]string{"Job ID", "Subject", "Source", "Status", "Filename", "Submitted At"})
			table.SetBorder(false)
			table.SetHeaderAlignment(tablewriter.ALIGN_LEFT)
			table.SetAlignment(tablewriter.ALIGN_LEFT)
			for _, sub := range subs {
				table.Append([]string{
					sub.JobID,
					sub.Subject,
					sub.Source,
					sub.Status,
					sub.Filename,
					sub.CreatedAt.Format("2006-01-02 15:04:05"),
				})
			}
			table.Render()
			return nil
		}

		jobs, err := appInstance.Client.JobHistory(cmd.Context(), historyLimit)
		if err != nil {
			return fmt.Errorf("error listing job history: %w", err)
		}
		if len(jobs) == 0 {
			fmt.Println("No jobs found.")
			return nil
		}

		table := tablewriter.NewWriter(os.Stdout)
		table.SetHeader([]string{"Job ID", "Company", "Industry", "Status", "Progress"})
		table.SetBorder(false)
		table.SetHeaderAlignment(tablewriter.ALIGN_LEFT)
		table.SetAlignment(tablewriter.ALIGN_LEFT)
		for _, job := range jobs {
			table.Append([]string{
				job.ID,
				job.CompanyName,
				job.Industry,
				job.DisplayStatus(),
				strconv.Itoa(job.Progress) + "%",
			})
		}
		table.Render()
		return nil
	},
}

func init() {
	rootCmd.AddCommand(historyCmd)

	historyCmd.Flags().IntVarP(&historyLimit, "limit", "n", 20, "Maximum number of jobs to list")
	historyCmd.Flags().BoolVar(&historyLocal, "local", false, "Show the local submission record instead of backend history")
}
