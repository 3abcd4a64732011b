package tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/andy/billdraft/internal/app"
	"github.com/andy/billdraft/internal/domain"
	"github.com/andy/billdraft/internal/reactive"
)

// editorMode represents the current screen mode
type editorMode int

const (
	editorModeList editorMode = iota
	editorModeItem
	editorModeHourly
)

// item form field indices
const (
	itemFieldReference = iota
	itemFieldDescription
	itemFieldQuantity
	itemFieldPrice
	itemFieldDiscount
	itemFieldVAT
	itemFieldCount
)

// hourly form field indices
const (
	hourlyFieldDescription = iota
	hourlyFieldHours
	hourlyFieldRate
	hourlyFieldCount
)

type editorRow struct {
	hourly bool
	id     string
}

// EditorModel lists the billable lines and edits them in place.
// Every keystroke in a form is applied to the document right away; the
// scheduler settles the totals once typing pauses.
type EditorModel struct {
	app   *app.App
	board *Board

	cursor    int
	statusMsg string
	err       error

	// Form state
	mode       editorMode
	fields     []textinput.Model
	fieldFocus int
	editingID  string
	isNew      bool
	warning    error
}

// NewEditorModel creates the line editor screen
func NewEditorModel(a *app.App, board *Board) *EditorModel {
	return &EditorModel{app: a, board: board}
}

// IsCapturingInput returns true when a form is active
func (m *EditorModel) IsCapturingInput() bool {
	return m.mode != editorModeList
}

func (m *EditorModel) Init() tea.Cmd {
	return nil
}

func (m *EditorModel) rows(doc domain.Document) []editorRow {
	rows := make([]editorRow, 0, len(doc.Items)+len(doc.HourlyItems))
	for _, item := range doc.Items {
		rows = append(rows, editorRow{id: item.ID})
	}
	for _, h := range doc.HourlyItems {
		rows = append(rows, editorRow{hourly: true, id: h.ID})
	}
	return rows
}

func newInput(placeholder string, limit, width int) textinput.Model {
	in := textinput.New()
	in.Placeholder = placeholder
	in.CharLimit = limit
	in.Width = width
	return in
}

func (m *EditorModel) initItemForm(item domain.LineItem) {
	m.fields = make([]textinput.Model, itemFieldCount)
	m.fields[itemFieldReference] = newInput("REF-001", 30, 20)
	m.fields[itemFieldDescription] = newInput("What was delivered", 120, 50)
	m.fields[itemFieldQuantity] = newInput("1", 12, 12)
	m.fields[itemFieldPrice] = newInput("0.00", 16, 16)
	m.fields[itemFieldDiscount] = newInput("0", 6, 8)
	m.fields[itemFieldVAT] = newInput("0", 6, 8)

	m.fields[itemFieldReference].SetValue(item.Reference)
	m.fields[itemFieldDescription].SetValue(item.Description)
	m.fields[itemFieldQuantity].SetValue(formatNumber(item.Quantity))
	m.fields[itemFieldPrice].SetValue(formatNumber(item.UnitPrice))
	m.fields[itemFieldDiscount].SetValue(formatNumber(item.DiscountPercent))
	m.fields[itemFieldVAT].SetValue(formatNumber(item.VATPercent))

	m.mode = editorModeItem
	m.editingID = item.ID
	m.fieldFocus = itemFieldReference
	m.warning = item.Validate()
}

func (m *EditorModel) initHourlyForm(h domain.HourlyItem) {
	m.fields = make([]textinput.Model, hourlyFieldCount)
	m.fields[hourlyFieldDescription] = newInput("Consulting", 120, 50)
	m.fields[hourlyFieldHours] = newInput("0", 8, 10)
	m.fields[hourlyFieldRate] = newInput("0.00", 12, 12)

	m.fields[hourlyFieldDescription].SetValue(h.Description)
	m.fields[hourlyFieldHours].SetValue(formatNumber(h.Hours))
	m.fields[hourlyFieldRate].SetValue(formatNumber(h.HourlyRate))

	m.mode = editorModeHourly
	m.editingID = h.ID
	m.fieldFocus = hourlyFieldDescription
	m.warning = h.Validate()
}

// apply writes the form into the document and schedules the recompute
func (m *EditorModel) apply() {
	svc := m.app.InvoiceService

	switch m.mode {
	case editorModeItem:
		var nums [4]float64
		for i, idx := range []int{itemFieldQuantity, itemFieldPrice, itemFieldDiscount, itemFieldVAT} {
			v, err := parseNumber(m.fields[idx].Value())
			if err != nil {
				m.warning = err
				return
			}
			nums[i] = v
		}
		item := domain.LineItem{
			ID:              m.editingID,
			Reference:       strings.TrimSpace(m.fields[itemFieldReference].Value()),
			Description:     strings.TrimSpace(m.fields[itemFieldDescription].Value()),
			Quantity:        nums[0],
			UnitPrice:       nums[1],
			DiscountPercent: nums[2],
			VATPercent:      nums[3],
		}
		m.err = svc.UpdateItem(m.editingID, item)
		m.warning = item.Validate()

	case editorModeHourly:
		hours, err := parseNumber(m.fields[hourlyFieldHours].Value())
		if err != nil {
			m.warning = err
			return
		}
		rate, err := parseNumber(m.fields[hourlyFieldRate].Value())
		if err != nil {
			m.warning = err
			return
		}
		h := domain.HourlyItem{
			ID:          m.editingID,
			Description: strings.TrimSpace(m.fields[hourlyFieldDescription].Value()),
			Hours:       hours,
			HourlyRate:  rate,
		}
		m.err = svc.UpdateHourlyItem(m.editingID, h)
		m.warning = h.Validate()
	}
}

// closeForm leaves the form. A new row that never became a valid entry is dropped.
func (m *EditorModel) closeForm() {
	svc := m.app.InvoiceService
	if m.isNew && m.warning != nil {
		if m.mode == editorModeItem {
			_ = svc.RemoveItem(m.editingID)
		} else {
			_ = svc.RemoveHourlyItem(m.editingID)
		}
		m.statusMsg = "Discarded incomplete line"
	} else if m.warning != nil {
		m.statusMsg = "Saved with warnings: " + m.warning.Error()
	}

	m.mode = editorModeList
	m.fields = nil
	m.isNew = false
	m.warning = nil
	m.clampCursor()
}

func (m *EditorModel) clampCursor() {
	n := len(m.rows(m.app.InvoiceService.Document()))
	if m.cursor >= n {
		m.cursor = max(0, n-1)
	}
}

func (m *EditorModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	if m.mode != editorModeList {
		return m.updateForm(msg)
	}

	keyMsg, ok := msg.(tea.KeyMsg)
	if !ok {
		return m, nil
	}

	m.statusMsg = ""
	m.err = nil

	svc := m.app.InvoiceService
	doc := svc.Document()
	rows := m.rows(doc)

	switch {
	case key.Matches(keyMsg, DefaultKeyMap.Up):
		if m.cursor > 0 {
			m.cursor--
		}

	case key.Matches(keyMsg, DefaultKeyMap.Down):
		if m.cursor < len(rows)-1 {
			m.cursor++
		}

	case key.Matches(keyMsg, DefaultKeyMap.New):
		item := domain.NewLineItem("", "", 1, 0, 0, m.app.Config.Invoice.DefaultVAT)
		item.ID = svc.AddItem(item)
		m.cursor = len(doc.Items)
		m.initItemForm(item)
		m.isNew = true
		return m, m.fields[m.fieldFocus].Focus()

	case key.Matches(keyMsg, DefaultKeyMap.NewHourly):
		h := domain.NewHourlyItem("", 0, 0)
		h.ID = svc.AddHourlyItem(h)
		m.cursor = len(rows)
		m.initHourlyForm(h)
		m.isNew = true
		return m, m.fields[m.fieldFocus].Focus()

	case key.Matches(keyMsg, DefaultKeyMap.Select):
		if m.cursor >= len(rows) {
			return m, nil
		}
		r := rows[m.cursor]
		if r.hourly {
			h, _ := m.app.Store.HourlyItem(r.id)
			m.initHourlyForm(h)
		} else {
			item, _ := m.app.Store.Item(r.id)
			m.initItemForm(item)
		}
		return m, m.fields[m.fieldFocus].Focus()

	case key.Matches(keyMsg, DefaultKeyMap.Delete):
		if m.cursor >= len(rows) {
			return m, nil
		}
		r := rows[m.cursor]
		if r.hourly {
			m.err = svc.RemoveHourlyItem(r.id)
		} else {
			m.err = svc.RemoveItem(r.id)
		}
		m.clampCursor()

	case key.Matches(keyMsg, DefaultKeyMap.Export):
		path, err := m.app.Export("")
		if err != nil {
			return m, func() tea.Msg { return ErrorMsg{Err: err} }
		}
		m.statusMsg = "Exported " + path

	case key.Matches(keyMsg, DefaultKeyMap.Force):
		m.err = m.app.Scheduler.ForceUpdate()
	}

	return m, nil
}

func (m *EditorModel) updateForm(msg tea.Msg) (tea.Model, tea.Cmd) {
	count := len(m.fields)

	if keyMsg, ok := msg.(tea.KeyMsg); ok {
		switch keyMsg.String() {
		case "esc", "ctrl+s":
			m.closeForm()
			return m, nil

		case "tab", "down":
			m.fields[m.fieldFocus].Blur()
			m.fieldFocus = (m.fieldFocus + 1) % count
			return m, m.fields[m.fieldFocus].Focus()

		case "shift+tab", "up":
			m.fields[m.fieldFocus].Blur()
			m.fieldFocus = (m.fieldFocus - 1 + count) % count
			return m, m.fields[m.fieldFocus].Focus()

		case "enter":
			if m.fieldFocus == count-1 {
				m.closeForm()
				return m, nil
			}
			m.fields[m.fieldFocus].Blur()
			m.fieldFocus++
			return m, m.fields[m.fieldFocus].Focus()
		}
	}

	before := m.fields[m.fieldFocus].Value()

	var cmd tea.Cmd
	m.fields[m.fieldFocus], cmd = m.fields[m.fieldFocus].Update(msg)

	if m.fields[m.fieldFocus].Value() != before {
		m.apply()
	}
	return m, cmd
}

func (m *EditorModel) View() string {
	if m.mode != editorModeList {
		return m.viewForm()
	}
	return m.viewList()
}

func (m *EditorModel) viewForm() string {
	var s string

	labels := []string{"Reference:", "Description:", "Quantity:", "Unit price:", "Discount %:", "VAT %:"}
	title := "Line Item"
	if m.mode == editorModeHourly {
		labels = []string{"Description:", "Hours:", "Hourly rate:"}
		title = "Hourly Service"
	}
	if m.isNew {
		title = "New " + title
	}
	s += titleStyle.Render(title) + "\n\n"

	for i, label := range labels {
		indicator := "  "
		labelStyle := subtitleStyle
		if i == m.fieldFocus {
			indicator = "> "
			labelStyle = lipgloss.NewStyle().Bold(true).Foreground(primaryColor)
		}
		s += fmt.Sprintf("%s%s\n  %s\n\n", indicator, labelStyle.Render(label), m.fields[i].View())
	}

	code := m.app.InvoiceService.Document().Currency
	line := "  Line total: "
	if total, ok := m.board.Row(m.editingID); ok {
		line += totalValueStyle.UnsetWidth().Render(formatMoney(total, code))
	}
	if m.app.Scheduler.State() != reactive.StateIdle {
		line += pendingStyle.Render("  updating...")
	}
	s += line + "\n\n"

	if m.warning != nil {
		s += lipgloss.NewStyle().Foreground(warningColor).
			Render(fmt.Sprintf("  %v", m.warning)) + "\n\n"
	}
	if m.err != nil {
		s += errorStyle.Render(fmt.Sprintf("  Error: %v", m.err)) + "\n\n"
	}

	s += helpStyle.Render("  tab/shift+tab: navigate fields  enter: next/done  esc: done")
	return s
}

func (m *EditorModel) viewList() string {
	doc := m.app.InvoiceService.Document()
	code := doc.Currency

	var s string
	s += titleStyle.Render(fmt.Sprintf("Invoice %s", doc.Number)) +
		subtitleStyle.Render(fmt.Sprintf("  %s  %s", doc.Company.Name, code)) + "\n\n"

	if m.statusMsg != "" {
		s += lipgloss.NewStyle().Foreground(successColor).Render("  "+m.statusMsg) + "\n\n"
	}
	if m.err != nil {
		s += errorStyle.Render(fmt.Sprintf("  Error: %v", m.err)) + "\n\n"
	}

	rows := m.rows(doc)
	if len(rows) == 0 {
		s += subtitleStyle.Render("  No lines yet. Press 'n' for an item or 'N' for an hourly service.") + "\n\n"
	} else {
		titles := doc.Customization.ColumnTitles
		s += subtitleStyle.Render(fmt.Sprintf("    %s %s %s %s %s",
			padRight(titles.Reference, 10),
			padRight(titles.Description, 30),
			padRight(titles.Quantity, 8),
			padRight(titles.UnitPrice, 14),
			titles.Total,
		)) + "\n"

		for i, r := range rows {
			s += m.renderRow(i, r, doc) + "\n"
		}
		s += "\n"
	}

	s += m.viewTotals(code) + "\n\n"
	s += helpStyle.Render("  j/k: navigate  n: item  N: hourly  enter: edit  d: delete  x: export  f: force update")
	return s
}

func (m *EditorModel) renderRow(index int, r editorRow, doc domain.Document) string {
	var ref, desc, qty, price string
	if r.hourly {
		h := doc.HourlyItems[doc.FindHourlyItem(r.id)]
		ref = "hourly"
		desc = h.Description
		qty = formatHours(h.Hours)
		price = formatMoney(h.HourlyRate, doc.Currency) + "/h"
	} else {
		item := doc.Items[doc.FindItem(r.id)]
		ref = item.Reference
		desc = item.Description
		qty = formatNumber(item.Quantity)
		price = formatMoney(item.UnitPrice, doc.Currency)
	}

	total := pendingStyle.Render("...")
	if v, ok := m.board.Row(r.id); ok {
		total = formatMoney(v, doc.Currency)
		if m.board.Changed(r.id) {
			total = changedStyle.Render(total)
		}
	}

	line := fmt.Sprintf("%s %s %s %s",
		padRight(ref, 10), padRight(desc, 30), padRight(qty, 8), padRight(price, 14))

	if index == m.cursor {
		return "> " + selectedStyle.Render(line) + " " + total
	}
	return "  " + line + " " + total
}

func (m *EditorModel) viewTotals(code string) string {
	t := m.board.Totals()
	lines := []struct {
		label string
		value float64
	}{
		{"Subtotal", t.SubtotalBeforeTax},
		{"Discount", t.TotalDiscount},
		{"VAT", t.TotalVAT},
		{"Total", t.TotalWithTax},
	}

	var b strings.Builder
	for i, l := range lines {
		if i > 0 {
			b.WriteString("\n")
		}
		b.WriteString(totalLabelStyle.Render(l.label) + totalValueStyle.Render(formatMoney(l.value, code)))
	}

	if m.app.Scheduler.State() != reactive.StateIdle {
		b.WriteString("\n" + pendingStyle.Render("updating..."))
	}
	return boxStyle.Render(b.String())
}
