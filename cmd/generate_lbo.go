package cmd

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"finmodel/internal/models"
)

var (
	lboIndustry    string
	lboDataFile    string
	lboAssumptions []string
)

// generateLBOCmd submits a leveraged buyout model request.
var generateLBOCmd = &cobra.Command{
	Use:   "lbo <company-name>",
	Short: "Generate a leveraged buyout model",
	Long: `Generates an LBO model (sources & uses, debt schedule, returns analysis).
Company financials are read from a JSON file with revenue/ebitda figures;
deal assumptions can be overridden with --assume entry_multiple=8.5 etc.`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		appInstance, err := GetAppFromContext(cmd.Context())
		if err != nil {
			return err
		}

		req := models.LBORequest{
			CompanyName:    args[0],
			Industry:       lboIndustry,
			FinancialData:  map[string]float64{},
			LBOAssumptions: models.DefaultLBOAssumptions(),
		}

		if lboDataFile != "" {
			data, err := os.ReadFile(lboDataFile)
			if err != nil {
				return fmt.Errorf("read financial data file: %w", err)
			}
			if err := json.Unmarshal(data, &req.FinancialData); err != nil {
				return fmt.Errorf("parse financial data file: %w", err)
			}
		}

		overrides, err := parseAssumptions(lboAssumptions)
		if err != nil {
			return err
		}
		for name, value := range overrides {
			req.LBOAssumptions[name] = value
		}

		return submitAndReport(cmd.Context(), appInstance, req)
	},
}

func init() {
	generateCmd.AddCommand(generateLBOCmd)

	generateLBOCmd.Flags().StringVar(&lboIndustry, "industry", "general", "Industry code for template selection")
	generateLBOCmd.Flags().StringVar(&lboDataFile, "data", "", "JSON file with revenue/ebitda financials")
	generateLBOCmd.Flags().StringArrayVar(&lboAssumptions, "assume", nil, "Deal assumption override, e.g. --assume exit_multiple=9")

	registerLifecycleFlags(generateLBOCmd)
}
