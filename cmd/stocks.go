package cmd

import (
	"fmt"
	"os"

	"github.com/olekukonko/tablewriter"
	"github.com/spf13/cobra"

	"finmodel/internal/api"
)

var stocksSector string

// stocksCmd lists the backend's stock universe.
var stocksCmd = &cobra.Command{
	Use:   "stocks",
	Short: "List available stocks",
	Long:  `Lists the stocks the backend can generate models for, optionally filtered by sector.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		appInstance, err := GetAppFromContext(cmd.Context())
		if err != nil {
			return err
		}

		stocks, err := appInstance.Market.Stocks(cmd.Context(), stocksSector)
		if err != nil {
			return err
		}
		renderStocks(stocks)
		return nil
	},
}

// stocksSearchCmd searches the universe by symbol or name.
var stocksSearchCmd = &cobra.Command{
	Use:   "search <query>",
	Short: "Search stocks by symbol or name",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		appInstance, err := GetAppFromContext(cmd.Context())
		if err != nil {
			return err
		}

		results, err := appInstance.Market.Search(cmd.Context(), args[0])
		if err != nil {
			return err
		}
		renderStocks(results)
		return nil
	},
}

// sectorsCmd lists the available sectors.
var sectorsCmd = &cobra.Command{
	Use:   "sectors",
	Short: "List available sectors",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		appInstance, err := GetAppFromContext(cmd.Context())
		if err != nil {
			return err
		}

		sectors, err := appInstance.Market.Sectors(cmd.Context())
		if err != nil {
			return err
		}
		for _, sector := range sectors {
			fmt.Println(sector)
		}
		return nil
	},
}

func init() {
	rootCmd.AddCommand(stocksCmd)
	rootCmd.AddCommand(sectorsCmd)
	stocksCmd.AddCommand(stocksSearchCmd)

	stocksCmd.Flags().StringVar(&stocksSector, "sector", "", "Filter by sector")
}

func renderStocks(stocks []api.Stock) {
	if len(stocks) == 0 {
		fmt.Println("No stocks found.")
		return
	}

	table := tablewriter.NewWriter(os.Stdout)
	table.SetHeader([]string{"Symbol", "Name", "Sector"})
	table.SetBorder(false)
	table.SetHeaderAlignment(tablewriter.ALIGN_LEFT)
	table.SetAlignment(tablewriter.ALIGN_LEFT)

	for _, s := range stocks {
		table.Append([]string{s.Symbol, s.Name, s.Sector})
	}
	table.Render()
}
