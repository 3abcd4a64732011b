package tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/andy/billdraft/internal/app"
)

// Screen represents the current active screen
type Screen int

const (
	ScreenEditor Screen = iota
	ScreenCompany
	ScreenTheme
	ScreenMetrics
)

// String returns the screen name
func (s Screen) String() string {
	switch s {
	case ScreenEditor:
		return "Items"
	case ScreenCompany:
		return "Company"
	case ScreenTheme:
		return "Theme"
	case ScreenMetrics:
		return "Metrics"
	default:
		return "Unknown"
	}
}

// InputCapturer is implemented by screens that capture keyboard input (e.g. text forms).
// When active, global navigation keys are suppressed.
type InputCapturer interface {
	IsCapturingInput() bool
}

// Model is the root Bubble Tea model.
// All store and scheduler access happens inside Update, on the program goroutine.
type Model struct {
	app   *app.App
	alarm *TickAlarm
	board *Board

	currentScreen Screen
	screens       map[Screen]tea.Model
	width         int
	height        int

	err       error
	statusMsg string
}

// New creates a new root model. The app must have been wired with alarm and board.
func New(a *app.App, alarm *TickAlarm, board *Board) *Model {
	return &Model{
		app:           a,
		alarm:         alarm,
		board:         board,
		currentScreen: ScreenEditor,
		screens: map[Screen]tea.Model{
			ScreenEditor:  NewEditorModel(a, board),
			ScreenCompany: NewCompanyModel(a),
			ScreenTheme:   NewThemeModel(a),
			ScreenMetrics: NewMetricsModel(a, board),
		},
	}
}

// Init implements tea.Model
func (m *Model) Init() tea.Cmd {
	return m.alarm.Take()
}

// activeScreenCapturingInput returns true if the current screen is capturing text input
func (m *Model) activeScreenCapturingInput() bool {
	if ic, ok := m.screens[m.currentScreen].(InputCapturer); ok {
		return ic.IsCapturingInput()
	}
	return false
}

// Update implements tea.Model. Any debounce armed while handling msg is
// returned as a tick command.
func (m *Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	cmd := m.update(msg)
	return m, tea.Batch(cmd, m.alarm.Take())
}

func (m *Model) update(msg tea.Msg) tea.Cmd {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		return nil

	case alarmFiredMsg:
		m.board.ClearChanged()
		if m.alarm.handle(msg) {
			m.err = m.app.Scheduler.LastError()
		}
		return nil

	case tea.KeyMsg:
		m.statusMsg = ""
		m.err = nil

		if !m.activeScreenCapturingInput() {
			switch {
			case key.Matches(msg, DefaultKeyMap.Quit):
				return tea.Quit
			case key.Matches(msg, DefaultKeyMap.Editor):
				m.currentScreen = ScreenEditor
				return nil
			case key.Matches(msg, DefaultKeyMap.Company):
				m.currentScreen = ScreenCompany
				return nil
			case key.Matches(msg, DefaultKeyMap.Themes):
				m.currentScreen = ScreenTheme
				return nil
			case key.Matches(msg, DefaultKeyMap.Metrics):
				m.currentScreen = ScreenMetrics
				return nil
			}
		}

	case SwitchScreenMsg:
		m.currentScreen = msg.Screen
		return nil

	case ErrorMsg:
		m.err = msg.Err
		return nil

	case StatusMsg:
		m.statusMsg = msg.Text
		return nil
	}

	screen, cmd := m.screens[m.currentScreen].Update(msg)
	m.screens[m.currentScreen] = screen
	return cmd
}

// View implements tea.Model - renders header + current screen + footer
func (m *Model) View() string {
	if m.width == 0 {
		return "Loading..."
	}

	p := themePalette(m.app.InvoiceService.Theme())

	header := headerStyle.Render(fmt.Sprintf("billdraft - %s", m.currentScreen.String()))
	footer := footerStyle.Render("[1] Items  [2] Company  [3] Theme  [4] Metrics  [Q]uit")

	content := m.screens[m.currentScreen].View()

	errorDisplay := ""
	if m.err != nil {
		errorDisplay = errorStyle.Render(fmt.Sprintf("\nError: %s", m.err.Error()))
	} else if m.statusMsg != "" {
		errorDisplay = lipgloss.NewStyle().Foreground(successColor).Render("\n" + m.statusMsg)
	}

	innerWidth := m.width - 6 // account for border (2) + padding (4)
	if innerWidth < 20 {
		innerWidth = 20
	}
	dividerWidth := innerWidth - 12
	if dividerWidth < 10 {
		dividerWidth = 10
	}
	divider := lipgloss.NewStyle().Foreground(p.accent).Render(strings.Repeat("─", dividerWidth))

	body := fmt.Sprintf("%s\n%s\n\n%s%s\n\n%s\n%s", header, divider, content, errorDisplay, divider, footer)

	frame := p.border.
		Width(innerWidth).
		Height(m.height - 4) // leave room for border top/bottom
	return lipgloss.Place(m.width, m.height, lipgloss.Center, lipgloss.Center, frame.Render(body))
}

// Run starts the TUI
func Run(a *app.App, alarm *TickAlarm, board *Board) error {
	p := tea.NewProgram(New(a, alarm, board), tea.WithAltScreen())
	_, err := p.Run()
	return err
}
