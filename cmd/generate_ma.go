package cmd

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"finmodel/internal/models"
)

var (
	maAcquirerFile string
	maTargetFile   string
	maAssumptions  []string
)

// generateMACmd submits a merger model request for an acquirer/target pair.
var generateMACmd = &cobra.Command{
	Use:   "ma",
	Short: "Generate a merger (M&A) model",
	Long: `Generates an M&A model (transaction summary, pro forma financials,
accretion/dilution). Acquirer and target financials are read from JSON files
that must at least carry a "name" field; transaction assumptions can be
overridden with --assume offer_premium=0.30 etc.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		appInstance, err := GetAppFromContext(cmd.Context())
		if err != nil {
			return err
		}

		acquirer, err := readCompanyFile(maAcquirerFile, "acquirer")
		if err != nil {
			return err
		}
		target, err := readCompanyFile(maTargetFile, "target")
		if err != nil {
			return err
		}

		req := models.MARequest{
			AcquirerData:           acquirer,
			TargetData:             target,
			TransactionAssumptions: models.DefaultMAAssumptions(),
		}

		overrides, err := parseAssumptions(maAssumptions)
		if err != nil {
			return err
		}
		for name, value := range overrides {
			req.TransactionAssumptions[name] = value
		}

		return submitAndReport(cmd.Context(), appInstance, req)
	},
}

func init() {
	generateCmd.AddCommand(generateMACmd)

	generateMACmd.Flags().StringVar(&maAcquirerFile, "acquirer", "", "JSON file with acquirer financials (required)")
	generateMACmd.Flags().StringVar(&maTargetFile, "target", "", "JSON file with target financials (required)")
	generateMACmd.Flags().StringArrayVar(&maAssumptions, "assume", nil, "Transaction assumption override")
	generateMACmd.MarkFlagRequired("acquirer")
	generateMACmd.MarkFlagRequired("target")

	registerLifecycleFlags(generateMACmd)
}

func readCompanyFile(path, role string) (map[string]interface{}, error) {
	if path == "" {
		return nil, fmt.Errorf("--%s file is required", role)
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read %s file: %w", role, err)
	}
	var out map[string]interface{}
	if err := json.Unmarshal(data, &out); err != nil {
		return nil, fmt.Errorf("parse %s file: %w", role, err)
	}
	return out, nil
}
