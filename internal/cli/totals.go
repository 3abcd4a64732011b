package cli

import (
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/andy/billdraft/internal/app"
	"github.com/andy/billdraft/internal/calc"
	"github.com/andy/billdraft/internal/currency"
	"github.com/andy/billdraft/internal/domain"
	"github.com/andy/billdraft/internal/reactive"
	"github.com/andy/billdraft/internal/store"
)

var totalsCmd = &cobra.Command{
	Use:   "totals",
	Short: "Print a draft with its computed totals",
	Long: `Load a draft file, apply any overrides and print the line totals and
invoice totals.

Examples:
  billdraft totals -f draft.yaml
  billdraft totals -f draft.yaml --currency USD --set company.name="ACME Ltd"`,
	RunE: func(cmd *cobra.Command, args []string) error {
		out := cmd.OutOrStdout()
		p := &printer{out: out, width: termWidth()}

		a, err := loadDraftApp(cmd, p)
		if err != nil {
			return err
		}
		defer a.Close()

		if err := a.Settle(); err != nil {
			return fmt.Errorf("failed to compute totals: %w", err)
		}
		p.printTotals(a.InvoiceService.Document())

		if verbose, _ := cmd.Flags().GetBool("metrics"); verbose {
			printMetrics(out, a.Scheduler.Metrics())
		}
		return nil
	},
}

// loadDraftApp builds an app, loads the draft named by --file and applies
// the --currency, --theme and --set overrides
func loadDraftApp(cmd *cobra.Command, listener reactive.Listener) (*app.App, error) {
	a, err := newApp(cmd.Context(), app.WithListener(listener), app.WithLogOutput(cmd.ErrOrStderr()))
	if err != nil {
		return nil, err
	}

	if path, _ := cmd.Flags().GetString("file"); path != "" {
		if err := a.LoadDraft(path); err != nil {
			a.Close()
			return nil, err
		}
	}

	svc := a.InvoiceService
	if code, _ := cmd.Flags().GetString("currency"); code != "" {
		if err := svc.SetCurrency(code); err != nil {
			a.Close()
			return nil, err
		}
	}
	if id, _ := cmd.Flags().GetString("theme"); id != "" {
		if err := svc.ApplyTheme(id); err != nil {
			a.Close()
			return nil, err
		}
	}

	sets, _ := cmd.Flags().GetStringArray("set")
	for _, kv := range sets {
		k, v, ok := strings.Cut(kv, "=")
		if !ok {
			a.Close()
			return nil, fmt.Errorf("invalid --set %q: expected key=value", kv)
		}
		f, err := store.ParseField(k)
		if err != nil {
			a.Close()
			return nil, fmt.Errorf("%w (known keys: %s)", err, strings.Join(store.FieldKeys(), ", "))
		}
		if err := svc.SetField(f, v); err != nil {
			a.Close()
			return nil, err
		}
	}

	return a, nil
}

func addDraftFlags(cmd *cobra.Command) {
	cmd.Flags().StringP("file", "f", "", "Draft file (YAML)")
	cmd.Flags().String("currency", "", "Override the currency code")
	cmd.Flags().String("theme", "", "Override the theme")
	cmd.Flags().StringArray("set", nil, "Set a document field, e.g. company.name=ACME (repeatable)")
}

// printer renders the document when the scheduler refreshes the display
type printer struct {
	out   io.Writer
	width int
}

func (p *printer) TotalsUpdated(domain.Totals) error { return nil }

func (p *printer) RowUpdated(reactive.RowUpdate) error { return nil }

func (p *printer) DisplayRefreshed(doc domain.Document) error {
	descWidth := max(20, p.width-60)
	line := strings.Repeat("-", min(p.width, descWidth+60))

	fmt.Fprintf(p.out, "Invoice %s  %s  %s\n", doc.Number, doc.Date.Format(store.DateLayout), doc.Company.Name)
	fmt.Fprintln(p.out, strings.Repeat("=", len(line)))

	if len(doc.Items) > 0 {
		t := doc.Customization.ColumnTitles
		fmt.Fprintf(p.out, "%-12s %-*s %8s %16s %16s\n", t.Reference, descWidth, t.Description, t.Quantity, t.UnitPrice, t.Total)
		fmt.Fprintln(p.out, line)
		for _, item := range doc.Items {
			fmt.Fprintf(p.out, "%-12s %-*s %8g %16s %16s\n",
				truncate(item.Reference, 12),
				descWidth, truncate(item.Description, descWidth),
				item.Quantity,
				currency.Format(item.UnitPrice, doc.Currency),
				currency.Format(calc.ItemTotal(item), doc.Currency),
			)
		}
		fmt.Fprintln(p.out)
	}

	if len(doc.HourlyItems) > 0 {
		fmt.Fprintf(p.out, "%-12s %-*s %8s %16s %16s\n", "", descWidth, "Hourly services", "Hours", "Rate", "Total")
		fmt.Fprintln(p.out, line)
		for _, h := range doc.HourlyItems {
			fmt.Fprintf(p.out, "%-12s %-*s %8g %16s %16s\n",
				"",
				descWidth, truncate(h.Description, descWidth),
				h.Hours,
				currency.Format(h.HourlyRate, doc.Currency),
				currency.Format(calc.HourlyItemTotal(h), doc.Currency),
			)
		}
		fmt.Fprintln(p.out)
	}

	for _, item := range doc.Items {
		if err := item.Validate(); err != nil {
			fmt.Fprintf(p.out, "warning: item %q: %v\n", item.Reference, err)
		}
	}
	for _, h := range doc.HourlyItems {
		if err := h.Validate(); err != nil {
			fmt.Fprintf(p.out, "warning: hourly %q: %v\n", h.Description, err)
		}
	}
	return nil
}

func (p *printer) printTotals(doc domain.Document) {
	t := doc.Totals
	fmt.Fprintf(p.out, "Subtotal: %s\n", currency.Format(t.SubtotalBeforeTax, doc.Currency))
	fmt.Fprintf(p.out, "Discount: %s\n", currency.Format(t.TotalDiscount, doc.Currency))
	fmt.Fprintf(p.out, "VAT:      %s\n", currency.Format(t.TotalVAT, doc.Currency))
	fmt.Fprintf(p.out, "Total:    %s\n", currency.Format(t.TotalWithTax, doc.Currency))
}

func printMetrics(out io.Writer, m reactive.Metrics) {
	fmt.Fprintln(out)
	fmt.Fprintf(out, "Flushes:      %d (%d failed)\n", m.Flushes, m.Failures)
	fmt.Fprintf(out, "Calculation:  avg %v  max %v  (%d samples, %d over budget)\n",
		m.AverageCalculation, m.MaxCalculation, m.Calculations, m.CalculationBudgetExceeded)
	fmt.Fprintf(out, "Update:       avg %v  max %v  (%d samples, %d over budget)\n",
		m.AverageUpdate, m.MaxUpdate, m.Updates, m.UpdateBudgetExceeded)
}

// termWidth returns the width of stdout, or 100 when it is not a terminal
func termWidth() int {
	fd := int(os.Stdout.Fd())
	if !term.IsTerminal(fd) {
		return 100
	}
	w, _, err := term.GetSize(fd)
	if err != nil || w <= 0 {
		return 100
	}
	return w
}

func truncate(s string, maxLen int) string {
	r := []rune(s)
	if len(r) <= maxLen {
		return s
	}
	return string(r[:maxLen-3]) + "..."
}

func init() {
	addDraftFlags(totalsCmd)
	totalsCmd.Flags().Bool("metrics", false, "Print update metrics")
}
