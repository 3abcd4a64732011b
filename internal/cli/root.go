package cli

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/andy/billdraft/internal/app"
	"github.com/andy/billdraft/internal/config"
)

var (
	cfgFile string
	cfg     *config.Config
)

var rootCmd = &cobra.Command{
	Use:   "billdraft",
	Short: "A terminal invoice builder",
	Long: `Billdraft builds invoices from line items and hourly services and keeps
the totals up to date while you type.

By default, running billdraft without arguments launches the interactive TUI.
Use subcommands for CLI operations.`,
	SilenceUsage: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		var err error
		if cfgFile != "" {
			cfg, err = config.Load(cfgFile)
		} else {
			cfg, err = config.LoadDefault()
		}
		if err != nil {
			return fmt.Errorf("failed to load config: %w", err)
		}
		return nil
	},
	RunE: func(cmd *cobra.Command, args []string) error {
		// Default behavior: launch TUI
		return launchTUI(cmd, args)
	},
}

// Execute runs the root command
func Execute(ctx context.Context) error {
	return rootCmd.ExecuteContext(ctx)
}

// newApp wires an App from the loaded config
func newApp(ctx context.Context, opts ...app.Option) (*app.App, error) {
	a, err := app.NewWithConfig(ctx, cfg, opts...)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize app: %w", err)
	}
	if err := a.LoadTheme(app.ThemeConfigPath()); err != nil {
		a.Log.WithError(err).Warn("ignoring saved theme configuration")
	}
	return a, nil
}

func init() {
	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "Config file (default ~/.config/billdraft/config.yaml)")
	rootCmd.Flags().StringP("file", "f", "", "Draft file to open")

	rootCmd.AddCommand(tuiCmd)
	rootCmd.AddCommand(totalsCmd)
	rootCmd.AddCommand(exportCmd)
	rootCmd.AddCommand(themesCmd)
	rootCmd.AddCommand(currenciesCmd)
	rootCmd.AddCommand(simulateCmd)
	rootCmd.AddCommand(configCmd)
	rootCmd.AddCommand(draftCmd)
}
