package cmd

import (
	"fmt"
	"os"
	"sort"

	"github.com/olekukonko/tablewriter"
	"github.com/spf13/cobra"
)

var compareExchange string

// compareCmd requests a side-by-side metric comparison for two or more
// symbols. The metric set is backend-defined, so columns are discovered from
// the response.
var compareCmd = &cobra.Command{
	Use:   "compare <symbol> <symbol> [symbol...]",
	Short: "Compare key metrics across companies",
	Args:  cobra.MinimumNArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		appInstance, err := GetAppFromContext(cmd.Context())
		if err != nil {
			return err
		}

		result, err := appInstance.Market.Compare(cmd.Context(), args, compareExchange)
		if err != nil {
			return err
		}
		if len(result.Companies) == 0 {
			fmt.Println("No comparison data returned.")
			return nil
		}

		columns := comparisonColumns(result.Companies)

		table := tablewriter.NewWriter(os.Stdout)
		table.SetHeader(columns)
		table.SetBorder(false)
		table.SetHeaderAlignment(tablewriter.ALIGN_LEFT)
		table.SetAlignment(tablewriter.ALIGN_LEFT)

		for _, company := range result.Companies {
			row := make([]string, len(columns))
			for i, col := range columns {
				row[i] = fmt.Sprintf("%v", company[col])
			}
			table.Append(row)
		}
		table.Render()
		return nil
	},
}

// comparisonColumns returns the union of metric keys, symbol and name first.
func comparisonColumns(companies []map[string]interface{}) []string {
	seen := map[string]bool{}
	for _, company := range companies {
		for key := range company {
			seen[key] = true
		}
	}

	var rest []string
	for key := range seen {
		if key != "symbol" && key != "name" {
			rest = append(rest, key)
		}
	}
	sort.Strings(rest)

	var columns []string
	if seen["symbol"] {
		columns = append(columns, "symbol")
	}
	if seen["name"] {
		columns = append(columns, "name")
	}
	return append(columns, rest...)
}

func init() {
	rootCmd.AddCommand(compareCmd)
	compareCmd.Flags().StringVar(&compareExchange, "exchange", "NSE", "Exchange the symbols are listed on")
}
