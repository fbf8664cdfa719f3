package cmd

import (
	"github.com/spf13/cobra"

	"finmodel/internal/models"
)

var (
	uploadCompany   string
	uploadModelType string
)

// uploadCmd submits a user's own Excel workbook for model rebuilding.
var uploadCmd = &cobra.Command{
	Use:   "upload <file.xlsx>",
	Short: "Upload an Excel workbook and rebuild it as a full model",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		appInstance, err := GetAppFromContext(cmd.Context())
		if err != nil {
			return err
		}

		req := models.UploadRequest{
			FilePath:    args[0],
			CompanyName: uploadCompany,
			ModelType:   uploadModelType,
		}

		return submitAndReport(cmd.Context(), appInstance, req)
	},
}

func init() {
	rootCmd.AddCommand(uploadCmd)

	uploadCmd.Flags().StringVar(&uploadCompany, "company", "", "Company name (defaults to the filename)")
	uploadCmd.Flags().StringVar(&uploadModelType, "model-type", "", "Model type hint for the backend")

	registerLifecycleFlags(uploadCmd)
}
