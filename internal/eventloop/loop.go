// Package eventloop runs functions one at a time on a single goroutine.
//
// It gives headless callers the same threading model the TUI gets from
// bubbletea: the store and scheduler are only touched from inside the loop,
// and timers post their callbacks back into it.
package eventloop

import (
	"context"
	"errors"
	"io"
	"sync"
	"time"

	"github.com/sirupsen/logrus"
)

// ErrStopped is returned when work is posted to a loop that is no longer running
var ErrStopped = errors.New("event loop stopped")

// DefaultBuffer is the task queue capacity used by New when size <= 0
const DefaultBuffer = 64

// Loop is a serial executor
type Loop struct {
	tasks chan func()
	done  chan struct{}
	once  sync.Once
	log   logrus.FieldLogger
}

// New creates a loop with the given queue capacity. A nil logger discards output.
func New(size int, log logrus.FieldLogger) *Loop {
	if size <= 0 {
		size = DefaultBuffer
	}
	if log == nil {
		l := logrus.New()
		l.SetOutput(io.Discard)
		log = l
	}
	return &Loop{
		tasks: make(chan func(), size),
		done:  make(chan struct{}),
		log:   log,
	}
}

// Run executes posted tasks until ctx is cancelled.
// A loop can only be run once.
func (l *Loop) Run(ctx context.Context) error {
	defer l.stop()

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case fn := <-l.tasks:
			l.exec(fn)
		}
	}
}

func (l *Loop) stop() {
	l.once.Do(func() { close(l.done) })
}

func (l *Loop) exec(fn func()) {
	defer func() {
		if r := recover(); r != nil {
			l.log.WithField("panic", r).Error("event loop task panicked")
		}
	}()
	fn()
}

// Post queues fn for execution and reports whether it was accepted
func (l *Loop) Post(fn func()) bool {
	select {
	case <-l.done:
		return false
	default:
	}

	select {
	case l.tasks <- fn:
		return true
	case <-l.done:
		return false
	}
}

// Do runs fn on the loop and waits for it to return
func (l *Loop) Do(ctx context.Context, fn func()) error {
	finished := make(chan struct{})
	if !l.Post(func() {
		defer close(finished)
		fn()
	}) {
		return ErrStopped
	}

	select {
	case <-finished:
		return nil
	case <-l.done:
		return ErrStopped
	case <-ctx.Done():
		return ctx.Err()
	}
}

// Alarm returns a single-shot alarm whose callback runs on this loop.
// Arm and Cancel must themselves be called from inside the loop.
func (l *Loop) Alarm() *Alarm {
	return &Alarm{loop: l}
}

// Alarm is a timer that fires into a Loop
type Alarm struct {
	loop  *Loop
	timer *time.Timer
	gen   uint64
}

// Arm schedules fire after d, replacing any pending callback
func (a *Alarm) Arm(d time.Duration, fire func()) {
	a.Cancel()

	gen := a.gen
	a.timer = time.AfterFunc(d, func() {
		a.loop.Post(func() {
			// a newer Arm or a Cancel happened after this timer expired
			if gen != a.gen {
				return
			}
			a.timer = nil
			a.gen++
			fire()
		})
	})
}

// Cancel disarms the pending callback, including one already queued on the loop
func (a *Alarm) Cancel() {
	if a.timer != nil {
		a.timer.Stop()
		a.timer = nil
	}
	a.gen++
}
