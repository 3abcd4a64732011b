package reactive

import (
	"time"

	"github.com/sirupsen/logrus"

	"github.com/andy/billdraft/internal/domain"
)

// Default timings
const (
	DefaultDebounce    = 16 * time.Millisecond
	DefaultFlushBudget = 50 * time.Millisecond
	DefaultCalcBudget  = 100 * time.Millisecond
)

// Aggregator computes totals from the lines of a document
type Aggregator func(items []domain.LineItem, hourly []domain.HourlyItem) (domain.Totals, error)

// Option configures a Scheduler
type Option func(*Scheduler)

// WithDebounce sets the quiet period before a flush
func WithDebounce(d time.Duration) Option {
	return func(s *Scheduler) {
		if d > 0 {
			s.debounce = d
		}
	}
}

// WithBudgets sets the soft latency budgets for a whole flush and for the aggregate recompute
func WithBudgets(flush, calc time.Duration) Option {
	return func(s *Scheduler) {
		if flush > 0 {
			s.flushBudget = flush
		}
		if calc > 0 {
			s.calcBudget = calc
		}
	}
}

// WithWindow sets how many samples the rolling metrics keep
func WithWindow(size int) Option {
	return func(s *Scheduler) { s.metrics = newRecorder(size) }
}

// WithLogger sets the logger for flush failures and budget warnings
func WithLogger(log logrus.FieldLogger) Option {
	return func(s *Scheduler) {
		if log != nil {
			s.log = log
		}
	}
}

// WithClock replaces the time source used for latency measurements
func WithClock(now func() time.Time) Option {
	return func(s *Scheduler) {
		if now != nil {
			s.now = now
		}
	}
}

// WithAggregator replaces the totals computation
func WithAggregator(agg Aggregator) Option {
	return func(s *Scheduler) {
		if agg != nil {
			s.aggregate = agg
		}
	}
}

// WithStateHook registers a callback invoked on every state transition
func WithStateHook(hook func(from, to State)) Option {
	return func(s *Scheduler) { s.onState = hook }
}
