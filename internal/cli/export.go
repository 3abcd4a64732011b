package cli

import (
	"fmt"

	"github.com/spf13/cobra"
)

var exportCmd = &cobra.Command{
	Use:   "export",
	Short: "Render a draft as PDF",
	Long: `Load a draft file, settle its totals and write the invoice as PDF.

Without --output the PDF is written to the configured output directory.

Examples:
  billdraft export -f draft.yaml
  billdraft export -f draft.yaml --theme modern -o invoice.pdf`,
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := loadDraftApp(cmd, nil)
		if err != nil {
			return err
		}
		defer a.Close()

		output, _ := cmd.Flags().GetString("output")
		path, err := a.Export(output)
		if err != nil {
			return fmt.Errorf("failed to export invoice: %w", err)
		}

		doc := a.InvoiceService.Document()
		fmt.Fprintf(cmd.OutOrStdout(), "Invoice %s written to %s\n", doc.Number, path)
		return nil
	},
}

func init() {
	addDraftFlags(exportCmd)
	exportCmd.Flags().StringP("output", "o", "", "Output PDF path")
}
