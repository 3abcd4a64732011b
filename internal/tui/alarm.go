package tui

import (
	"time"

	tea "github.com/charmbracelet/bubbletea"
)

// alarmFiredMsg is delivered when a debounce tick elapses
type alarmFiredMsg struct {
	gen uint64
}

// TickAlarm drives the scheduler debounce through Bubble Tea ticks so the
// flush runs inside Update, on the goroutine that owns the store.
//
// Arm cannot return a command, so the pending tick is parked until the
// root model collects it with Take after every Update.
type TickAlarm struct {
	gen     uint64
	fire    func()
	pending tea.Cmd
}

// NewTickAlarm creates a disarmed alarm
func NewTickAlarm() *TickAlarm {
	return &TickAlarm{}
}

// Arm schedules fire after d, replacing any earlier tick
func (a *TickAlarm) Arm(d time.Duration, fire func()) {
	a.gen++
	a.fire = fire
	gen := a.gen
	a.pending = tea.Tick(d, func(time.Time) tea.Msg {
		return alarmFiredMsg{gen: gen}
	})
}

// Cancel disarms the alarm. Ticks already in flight are ignored when they land.
func (a *TickAlarm) Cancel() {
	a.gen++
	a.fire = nil
	a.pending = nil
}

// Take returns the tick command armed since the last call, if any
func (a *TickAlarm) Take() tea.Cmd {
	cmd := a.pending
	a.pending = nil
	return cmd
}

// handle runs the callback if msg belongs to the current arming
func (a *TickAlarm) handle(msg alarmFiredMsg) bool {
	if msg.gen != a.gen || a.fire == nil {
		return false
	}
	fire := a.fire
	a.fire = nil
	fire()
	return true
}
