package tui

import (
	"fmt"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/andy/billdraft/internal/app"
	"github.com/andy/billdraft/internal/currency"
	"github.com/andy/billdraft/internal/theme"
)

type themePane int

const (
	paneThemes themePane = iota
	paneCurrencies
)

// ThemeModel picks the invoice theme and the display currency
type ThemeModel struct {
	app        *app.App
	themes     []theme.Theme
	currencies []currency.Currency
	pane       themePane
	themeIdx   int
	currIdx    int
	err        error
	statusMsg  string
}

// NewThemeModel creates the theme and currency screen
func NewThemeModel(a *app.App) *ThemeModel {
	m := &ThemeModel{
		app:        a,
		themes:     theme.All(),
		currencies: currency.All(),
	}
	m.syncCursors()
	return m
}

func (m *ThemeModel) Init() tea.Cmd {
	return nil
}

// syncCursors points both lists at the active values
func (m *ThemeModel) syncCursors() {
	doc := m.app.InvoiceService.Document()
	for i, t := range m.themes {
		if t.ID == doc.Theme {
			m.themeIdx = i
		}
	}
	for i, c := range m.currencies {
		if c.Code == doc.Currency {
			m.currIdx = i
		}
	}
}

func (m *ThemeModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	keyMsg, ok := msg.(tea.KeyMsg)
	if !ok {
		return m, nil
	}

	m.statusMsg = ""
	m.err = nil

	cursor, n := &m.themeIdx, len(m.themes)
	if m.pane == paneCurrencies {
		cursor, n = &m.currIdx, len(m.currencies)
	}

	switch {
	case key.Matches(keyMsg, DefaultKeyMap.Switch):
		if m.pane == paneThemes {
			m.pane = paneCurrencies
		} else {
			m.pane = paneThemes
		}

	case key.Matches(keyMsg, DefaultKeyMap.Up):
		if *cursor > 0 {
			*cursor--
		}

	case key.Matches(keyMsg, DefaultKeyMap.Down):
		if *cursor < n-1 {
			*cursor++
		}

	case key.Matches(keyMsg, DefaultKeyMap.Select):
		if m.pane == paneThemes {
			t := m.themes[m.themeIdx]
			m.err = m.app.InvoiceService.ApplyTheme(t.ID)
			if m.err == nil {
				m.statusMsg = "Theme: " + t.Name
			}
		} else {
			c := m.currencies[m.currIdx]
			m.err = m.app.InvoiceService.SetCurrency(c.Code)
			if m.err == nil {
				m.statusMsg = "Currency: " + c.Name
			}
		}

	case key.Matches(keyMsg, DefaultKeyMap.Save):
		path := app.ThemeConfigPath()
		m.err = m.app.SaveTheme(path)
		if m.err == nil {
			m.statusMsg = "Saved theme to " + path
		}

	case key.Matches(keyMsg, DefaultKeyMap.Reset):
		m.app.Themes.Reset()
		m.err = m.app.InvoiceService.ApplyTheme(theme.DefaultID)
		m.syncCursors()
		if m.err == nil {
			m.statusMsg = "Theme reset"
		}
	}

	return m, nil
}

func (m *ThemeModel) View() string {
	active := m.app.InvoiceService.Theme()
	doc := m.app.InvoiceService.Document()

	var s string
	s += titleStyle.Render("Theme & Currency") + "\n\n"

	if m.statusMsg != "" {
		s += lipgloss.NewStyle().Foreground(successColor).Render("  "+m.statusMsg) + "\n\n"
	}
	if m.err != nil {
		s += errorStyle.Render(fmt.Sprintf("  Error: %v", m.err)) + "\n\n"
	}

	var themes string
	for i, t := range m.themes {
		line := fmt.Sprintf("%s %s", swatch(t.Colors.Primary), t.Name)
		if t.ID == doc.Theme {
			line += subtitleStyle.Render(" (active)")
		}
		themes += m.cursorLine(paneThemes, i == m.themeIdx, line) + "\n"
	}

	var currencies string
	for i, c := range m.currencies {
		line := fmt.Sprintf("%-4s %s", c.Code, c.Format(1234.5))
		if c.Code == doc.Currency {
			line += subtitleStyle.Render(" (active)")
		}
		currencies += m.cursorLine(paneCurrencies, i == m.currIdx, line) + "\n"
	}

	s += lipgloss.JoinHorizontal(lipgloss.Top,
		boxStyle.Render(themes),
		"  ",
		boxStyle.Render(currencies),
	) + "\n\n"

	p := themePalette(active)
	s += p.title.Render(active.Name) + "\n"
	c := active.Colors
	s += fmt.Sprintf("  primary %s  secondary %s  accent %s  text %s  border %s  header %s\n",
		swatch(c.Primary), swatch(c.Secondary), swatch(c.Accent), swatch(c.Text), swatch(c.Border), swatch(c.HeaderBg))
	s += subtitleStyle.Render(fmt.Sprintf("  fonts: %s / %s / %s", active.Fonts.Header, active.Fonts.Body, active.Fonts.Numbers)) + "\n"
	s += subtitleStyle.Render(fmt.Sprintf("  layout: header %s  margins %s  radius %s",
		active.Layout.HeaderHeight, active.Layout.Margins, active.Layout.BorderRadius)) + "\n\n"

	s += helpStyle.Render("  tab: switch list  j/k: navigate  enter: apply  ctrl+s: save theme  r: reset")
	return s
}

func (m *ThemeModel) cursorLine(pane themePane, selected bool, line string) string {
	if !selected {
		return "  " + line
	}
	if m.pane == pane {
		return "> " + lipgloss.NewStyle().Bold(true).Foreground(primaryColor).Render(line)
	}
	return "* " + line
}
