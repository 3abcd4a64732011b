package reactive

import "time"

// Alarm is a single-shot deferred callback.
// Arming replaces any previously armed callback; Cancel disarms it.
// Implementations must invoke fire on the goroutine that owns the Scheduler.
type Alarm interface {
	Arm(d time.Duration, fire func())
	Cancel()
}

// ManualAlarm is an Alarm that only fires when told to.
// Tests use it to step the debounce deterministically, and synchronous
// callers pair it with Scheduler.Flush.
type ManualAlarm struct {
	fire  func()
	delay time.Duration
	arms  int
}

// Arm records fire as the pending callback
func (a *ManualAlarm) Arm(d time.Duration, fire func()) {
	a.fire = fire
	a.delay = d
	a.arms++
}

// Cancel drops the pending callback
func (a *ManualAlarm) Cancel() {
	a.fire = nil
}

// Armed reports whether a callback is pending
func (a *ManualAlarm) Armed() bool {
	return a.fire != nil
}

// Delay returns the duration of the most recent Arm call
func (a *ManualAlarm) Delay() time.Duration {
	return a.delay
}

// Arms returns how many times the alarm has been armed
func (a *ManualAlarm) Arms() int {
	return a.arms
}

// Fire runs the pending callback, if any, and reports whether it ran
func (a *ManualAlarm) Fire() bool {
	fire := a.fire
	if fire == nil {
		return false
	}
	a.fire = nil
	fire()
	return true
}
