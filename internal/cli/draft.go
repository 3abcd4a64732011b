package cli

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/andy/billdraft/internal/draft"
	"github.com/andy/billdraft/internal/store"
)

var draftCmd = &cobra.Command{
	Use:   "draft",
	Short: "Work with draft files",
}

var draftNewCmd = &cobra.Command{
	Use:   "new [path]",
	Short: "Create an example draft file",
	Long: `Create a draft file with example line items, using the configured
company, currency and numbering. The file is never overwritten.

Examples:
  billdraft draft new
  billdraft draft new march.yaml --number 12`,
	Args: cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		path := "draft.yaml"
		if len(args) == 1 {
			path = args[0]
		}
		seq, _ := cmd.Flags().GetInt("number")

		d := draft.Example()
		d.Number = cfg.Invoice.InvoiceNumber(seq)
		d.Date = time.Now().Format(store.DateLayout)
		d.Currency = cfg.Invoice.DefaultCurrency
		d.Theme = cfg.Invoice.DefaultTheme
		if cfg.Company.Name != "" {
			d.Company = cfg.Company
		}

		if err := d.Save(path); err != nil {
			return fmt.Errorf("failed to write draft: %w", err)
		}
		fmt.Fprintf(cmd.OutOrStdout(), "Created %s (invoice %s)\n", path, d.Number)
		return nil
	},
}

func init() {
	draftNewCmd.Flags().Int("number", 1, "Invoice sequence number")
	draftCmd.AddCommand(draftNewCmd)
}
