package tui

import (
	"fmt"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/andy/billdraft/internal/app"
	"github.com/andy/billdraft/internal/store"
)

// companyFields are the document fields edited on this screen, in form order
var companyFields = []struct {
	field store.Field
	label string
	limit int
}{
	{store.FieldNumber, "Invoice number:", 40},
	{store.FieldDate, "Date (YYYY-MM-DD):", 10},
	{store.FieldCompanyName, "Company name:", 100},
	{store.FieldCompanyAddress, "Address:", 200},
	{store.FieldCompanyPhone, "Phone:", 40},
	{store.FieldCompanyEmail, "Email:", 100},
	{store.FieldCompanyLegalInfo, "Legal info:", 200},
	{store.FieldCompanyLogo, "Logo path:", 255},
	{store.FieldFooterText, "Footer text:", 200},
	{store.FieldPaymentMethod, "Payment method:", 200},
}

// CompanyModel shows and edits the issuer block and document header
type CompanyModel struct {
	app       *app.App
	editing   bool
	fields    []textinput.Model
	focus     int
	err       error
	statusMsg string
}

// NewCompanyModel creates the company screen
func NewCompanyModel(a *app.App) *CompanyModel {
	return &CompanyModel{app: a}
}

// IsCapturingInput returns true when the form is active
func (m *CompanyModel) IsCapturingInput() bool {
	return m.editing
}

func (m *CompanyModel) Init() tea.Cmd {
	return nil
}

func (m *CompanyModel) initForm() {
	m.fields = make([]textinput.Model, len(companyFields))
	for i, f := range companyFields {
		in := textinput.New()
		in.CharLimit = f.limit
		in.Width = 50
		if v, err := m.app.Store.Value(f.field); err == nil {
			in.SetValue(v)
		}
		m.fields[i] = in
	}
	m.focus = 0
	m.editing = true
}

// save writes every changed field. The first invalid value stops the save
// and keeps the form open.
func (m *CompanyModel) save() error {
	for i, f := range companyFields {
		current, _ := m.app.Store.Value(f.field)
		v := m.fields[i].Value()
		if v == current {
			continue
		}
		if err := m.app.InvoiceService.SetField(f.field, v); err != nil {
			m.focus = i
			return err
		}
	}
	return nil
}

func (m *CompanyModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	if m.editing {
		return m.updateForm(msg)
	}

	if keyMsg, ok := msg.(tea.KeyMsg); ok {
		m.statusMsg = ""
		if key.Matches(keyMsg, DefaultKeyMap.Select) || keyMsg.String() == "e" {
			m.err = nil
			m.initForm()
			return m, m.fields[m.focus].Focus()
		}
	}
	return m, nil
}

func (m *CompanyModel) updateForm(msg tea.Msg) (tea.Model, tea.Cmd) {
	count := len(m.fields)

	if keyMsg, ok := msg.(tea.KeyMsg); ok {
		switch keyMsg.String() {
		case "esc":
			m.editing = false
			m.err = nil
			return m, nil

		case "tab", "down":
			m.fields[m.focus].Blur()
			m.focus = (m.focus + 1) % count
			return m, m.fields[m.focus].Focus()

		case "shift+tab", "up":
			m.fields[m.focus].Blur()
			m.focus = (m.focus - 1 + count) % count
			return m, m.fields[m.focus].Focus()

		case "ctrl+s", "enter":
			if keyMsg.String() == "enter" && m.focus < count-1 {
				m.fields[m.focus].Blur()
				m.focus++
				return m, m.fields[m.focus].Focus()
			}
			if err := m.save(); err != nil {
				m.err = err
				for i := range m.fields {
					m.fields[i].Blur()
				}
				return m, m.fields[m.focus].Focus()
			}
			m.editing = false
			m.err = nil
			m.statusMsg = "Saved company details"
			return m, nil
		}
	}

	var cmd tea.Cmd
	m.fields[m.focus], cmd = m.fields[m.focus].Update(msg)
	return m, cmd
}

func (m *CompanyModel) View() string {
	if m.editing {
		return m.viewForm()
	}

	var s string
	s += titleStyle.Render("Company & Document") + "\n\n"
	if m.statusMsg != "" {
		s += lipgloss.NewStyle().Foreground(successColor).Render("  "+m.statusMsg) + "\n\n"
	}

	for _, f := range companyFields {
		v, _ := m.app.Store.Value(f.field)
		if v == "" {
			v = subtitleStyle.Render("-")
		}
		s += fmt.Sprintf("  %s %s\n", subtitleStyle.Render(padRight(f.label, 20)), v)
	}

	s += "\n" + helpStyle.Render("  enter/e: edit")
	return s
}

func (m *CompanyModel) viewForm() string {
	var s string
	s += titleStyle.Render("Edit Company & Document") + "\n\n"

	for i, f := range companyFields {
		indicator := "  "
		labelStyle := subtitleStyle
		if i == m.focus {
			indicator = "> "
			labelStyle = lipgloss.NewStyle().Bold(true).Foreground(primaryColor)
		}
		s += fmt.Sprintf("%s%s %s\n", indicator, labelStyle.Render(padRight(f.label, 20)), m.fields[i].View())
	}
	s += "\n"

	if m.err != nil {
		s += errorStyle.Render(fmt.Sprintf("  Error: %v", m.err)) + "\n\n"
	}

	s += helpStyle.Render("  tab/shift+tab: navigate fields  ctrl+s: save  enter: next/save  esc: cancel")
	return s
}
