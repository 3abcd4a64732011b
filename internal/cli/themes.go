package cli

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/andy/billdraft/internal/app"
	"github.com/andy/billdraft/internal/currency"
	"github.com/andy/billdraft/internal/theme"
)

var themesCmd = &cobra.Command{
	Use:   "themes",
	Short: "List and manage invoice themes",
	RunE: func(cmd *cobra.Command, args []string) error {
		return themesListCmd.RunE(cmd, args)
	},
}

var themesListCmd = &cobra.Command{
	Use:   "list",
	Short: "List the built-in themes",
	RunE: func(cmd *cobra.Command, args []string) error {
		out := cmd.OutOrStdout()
		current := currentTheme(cmd)

		fmt.Fprintf(out, "  %-12s %-22s %-9s %-9s %s\n", "ID", "Name", "Primary", "Accent", "Header font")
		fmt.Fprintln(out, strings.Repeat("-", 72))
		for _, th := range theme.All() {
			marker := " "
			if th.ID == current {
				marker = "*"
			}
			fmt.Fprintf(out, "%s %-12s %-22s %-9s %-9s %s\n",
				marker, th.ID, truncate(th.Name, 22), th.Colors.Primary, th.Colors.Accent, truncate(th.Fonts.Header, 24))
		}
		return nil
	},
}

var themesShowCmd = &cobra.Command{
	Use:   "show [id]",
	Short: "Show a theme with saved customizations applied",
	Args:  cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := newApp(cmd.Context(), app.WithLogOutput(cmd.ErrOrStderr()))
		if err != nil {
			return err
		}
		defer a.Close()

		th := a.InvoiceService.Theme()
		if len(args) == 1 {
			if th, err = theme.Get(args[0]); err != nil {
				return err
			}
		}

		out := cmd.OutOrStdout()
		fmt.Fprintf(out, "%s (%s)\n", th.Name, th.ID)
		fmt.Fprintln(out, strings.Repeat("=", 40))
		rows := []struct{ label, value string }{
			{"Primary", th.Colors.Primary},
			{"Secondary", th.Colors.Secondary},
			{"Accent", th.Colors.Accent},
			{"Text", th.Colors.Text},
			{"Background", th.Colors.Background},
			{"Border", th.Colors.Border},
			{"Header bg", th.Colors.HeaderBg},
			{"Header font", th.Fonts.Header},
			{"Body font", th.Fonts.Body},
			{"Numbers font", th.Fonts.Numbers},
			{"Header height", th.Layout.HeaderHeight},
			{"Margins", th.Layout.Margins},
			{"Border radius", th.Layout.BorderRadius},
		}
		for _, r := range rows {
			fmt.Fprintf(out, "%-14s %s\n", r.label+":", r.value)
		}
		return nil
	},
}

var themesUseCmd = &cobra.Command{
	Use:   "use <id>",
	Short: "Make a theme the active one and save it",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := newApp(cmd.Context(), app.WithLogOutput(cmd.ErrOrStderr()))
		if err != nil {
			return err
		}
		defer a.Close()

		if err := a.InvoiceService.ApplyTheme(args[0]); err != nil {
			return err
		}
		if err := a.SaveTheme(app.ThemeConfigPath()); err != nil {
			return fmt.Errorf("failed to save theme: %w", err)
		}
		fmt.Fprintf(cmd.OutOrStdout(), "Theme set to %s\n", a.Themes.Current())
		return nil
	},
}

var themesExportCmd = &cobra.Command{
	Use:   "export <path>",
	Short: "Write the active theme and customizations to a YAML file",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := newApp(cmd.Context(), app.WithLogOutput(cmd.ErrOrStderr()))
		if err != nil {
			return err
		}
		defer a.Close()

		if err := a.SaveTheme(args[0]); err != nil {
			return fmt.Errorf("failed to export theme: %w", err)
		}
		fmt.Fprintf(cmd.OutOrStdout(), "Theme exported to %s\n", args[0])
		return nil
	},
}

var themesImportCmd = &cobra.Command{
	Use:   "import <path>",
	Short: "Import a theme configuration and make it the saved one",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := newApp(cmd.Context(), app.WithLogOutput(cmd.ErrOrStderr()))
		if err != nil {
			return err
		}
		defer a.Close()

		if err := a.LoadTheme(args[0]); err != nil {
			return fmt.Errorf("failed to import theme: %w", err)
		}
		if err := a.SaveTheme(app.ThemeConfigPath()); err != nil {
			return fmt.Errorf("failed to save theme: %w", err)
		}
		fmt.Fprintf(cmd.OutOrStdout(), "Imported theme %s\n", a.Themes.Current())
		return nil
	},
}

var currenciesCmd = &cobra.Command{
	Use:   "currencies",
	Short: "List supported currencies",
	RunE: func(cmd *cobra.Command, args []string) error {
		out := cmd.OutOrStdout()
		fmt.Fprintf(out, "%-5s %-22s %-6s %s\n", "Code", "Name", "Symbol", "Example")
		fmt.Fprintln(out, strings.Repeat("-", 50))
		for _, c := range currency.All() {
			fmt.Fprintf(out, "%-5s %-22s %-6s %s\n", c.Code, c.Name, c.Symbol, c.Format(1234.5))
		}
		return nil
	},
}

// currentTheme reports the saved theme, falling back to the configured default
func currentTheme(cmd *cobra.Command) string {
	a, err := newApp(cmd.Context(), app.WithLogOutput(cmd.ErrOrStderr()))
	if err != nil {
		return ""
	}
	defer a.Close()
	return a.Themes.Current()
}

func init() {
	themesCmd.AddCommand(themesListCmd)
	themesCmd.AddCommand(themesShowCmd)
	themesCmd.AddCommand(themesUseCmd)
	themesCmd.AddCommand(themesExportCmd)
	themesCmd.AddCommand(themesImportCmd)
}
