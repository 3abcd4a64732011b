package cli

import (
	"errors"
	"io"
	"os"

	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/andy/billdraft/internal/app"
	"github.com/andy/billdraft/internal/tui"
)

var errNotTerminal = errors.New("the editor needs an interactive terminal; use 'billdraft totals' or 'billdraft export' in scripts")

var tuiCmd = &cobra.Command{
	Use:   "tui",
	Short: "Launch the terminal UI",
	Long:  `Launch the interactive invoice editor.`,
	RunE:  launchTUI,
}

func launchTUI(cmd *cobra.Command, args []string) error {
	if !term.IsTerminal(int(os.Stdout.Fd())) {
		return errNotTerminal
	}

	alarm := tui.NewTickAlarm()
	board := tui.NewBoard()

	// Logs would corrupt the screen; they only go to a configured log file
	a, err := newApp(cmd.Context(),
		app.WithAlarm(alarm),
		app.WithListener(board),
		app.WithLogOutput(io.Discard),
	)
	if err != nil {
		return err
	}
	defer a.Close()

	if path, _ := cmd.Flags().GetString("file"); path != "" {
		if err := a.LoadDraft(path); err != nil {
			return err
		}
	}

	return tui.Run(a, alarm, board)
}

func init() {
	tuiCmd.Flags().StringP("file", "f", "", "Draft file to open")
}
