package tui

import (
	"fmt"
	"time"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/andy/billdraft/internal/app"
)

// MetricsModel shows the scheduler's self-monitoring
type MetricsModel struct {
	app   *app.App
	board *Board
	err   error
}

// NewMetricsModel creates the metrics screen
func NewMetricsModel(a *app.App, board *Board) *MetricsModel {
	return &MetricsModel{app: a, board: board}
}

func (m *MetricsModel) Init() tea.Cmd {
	return nil
}

func (m *MetricsModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	keyMsg, ok := msg.(tea.KeyMsg)
	if !ok {
		return m, nil
	}

	switch {
	case key.Matches(keyMsg, DefaultKeyMap.Reset):
		m.app.Scheduler.ResetMetrics()
		m.err = nil
	case key.Matches(keyMsg, DefaultKeyMap.Force):
		m.err = m.app.Scheduler.ForceUpdate()
	}
	return m, nil
}

func (m *MetricsModel) View() string {
	sched := m.app.Scheduler
	metrics := sched.Metrics()
	budgets := m.app.Config.Scheduler

	var s string
	s += titleStyle.Render("Update Metrics") + "\n\n"

	state := string(sched.State())
	if sched.Pending() > 0 {
		state += fmt.Sprintf(" (%d queued)", sched.Pending())
	}

	rows := []struct {
		label string
		value string
	}{
		{"State", state},
		{"Debounce", sched.Debounce().String()},
		{"Flushes", fmt.Sprintf("%d (%d failed)", metrics.Flushes, metrics.Failures)},
		{"Display refreshes", fmt.Sprintf("%d", m.board.Refreshes())},
		{"Calculation avg", fmt.Sprintf("%s / budget %s", formatDuration(metrics.AverageCalculation), budgets.CalcBudget)},
		{"Calculation max", formatDuration(metrics.MaxCalculation)},
		{"Calculations", fmt.Sprintf("%d samples, %d over budget", metrics.Calculations, metrics.CalculationBudgetExceeded)},
		{"Update avg", fmt.Sprintf("%s / budget %s", formatDuration(metrics.AverageUpdate), budgets.FlushBudget)},
		{"Update max", formatDuration(metrics.MaxUpdate)},
		{"Updates", fmt.Sprintf("%d samples, %d over budget", metrics.Updates, metrics.UpdateBudgetExceeded)},
	}

	for _, r := range rows {
		s += fmt.Sprintf("  %s %s\n", subtitleStyle.Render(padRight(r.label, 20)), r.value)
	}
	s += "\n"

	if err := sched.LastError(); err != nil {
		s += errorStyle.Render(fmt.Sprintf("  Last flush failed: %v", err)) + "\n\n"
	}
	if m.err != nil {
		s += errorStyle.Render(fmt.Sprintf("  Error: %v", m.err)) + "\n\n"
	}

	s += helpStyle.Render("  r: reset metrics  f: force update")
	return s
}

func formatDuration(d time.Duration) string {
	return fmt.Sprintf("%.2fms", float64(d)/float64(time.Millisecond))
}
