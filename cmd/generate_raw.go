package cmd

import (
	"encoding/json"
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"finmodel/internal/models"
)

var (
	rawIndustry    string
	rawYears       int
	rawDataFile    string
	rawAssumptions []string
)

// generateRawCmd submits a model built from caller-supplied financials.
var generateRawCmd = &cobra.Command{
	Use:   "raw <company-name>",
	Short: "Generate a model from your own financial data",
	Long: `Generates a financial model from raw data instead of scraped market data.
Historical financials are read from a JSON file; assumptions can be overridden
with repeated --assume name=value flags.`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		appInstance, err := GetAppFromContext(cmd.Context())
		if err != nil {
			return err
		}

		req := models.NewRawDataRequest(args[0])
		req.Industry = rawIndustry
		req.ForecastYears = rawYears

		if rawDataFile != "" {
			data, err := os.ReadFile(rawDataFile)
			if err != nil {
				return fmt.Errorf("read historical data file: %w", err)
			}
			if err := json.Unmarshal(data, &req.HistoricalData); err != nil {
				return fmt.Errorf("parse historical data file: %w", err)
			}
		}

		assumptions, err := parseAssumptions(rawAssumptions)
		if err != nil {
			return err
		}
		req.Assumptions = assumptions

		return submitAndReport(cmd.Context(), appInstance, req)
	},
}

func init() {
	generateCmd.AddCommand(generateRawCmd)

	generateRawCmd.Flags().StringVar(&rawIndustry, "industry", "general", "Industry code for template selection")
	generateRawCmd.Flags().IntVar(&rawYears, "years", 5, "Number of forecast years (1-10)")
	generateRawCmd.Flags().StringVar(&rawDataFile, "data", "", "JSON file with historical financials")
	generateRawCmd.Flags().StringArrayVar(&rawAssumptions, "assume", nil, "Assumption override, e.g. --assume revenue_growth=0.12")

	registerLifecycleFlags(generateRawCmd)
}

// parseAssumptions turns repeated name=value flags into the assumptions map.
func parseAssumptions(pairs []string) (map[string]float64, error) {
	out := make(map[string]float64, len(pairs))
	for _, pair := range pairs {
		name, raw, found := strings.Cut(pair, "=")
		if !found || name == "" {
			return nil, fmt.Errorf("invalid assumption %q, expected name=value", pair)
		}
		value, err := strconv.ParseFloat(raw, 64)
		if err != nil {
			return nil, fmt.Errorf("invalid assumption value in %q: %w", pair, err)
		}
		out[name] = value
	}
	return out, nil
}
