// Package reactive keeps document totals consistent with bursty edits.
//
// Callers mutate the store and then Submit a Request describing what changed.
// Requests are coalesced into a set keyed by category (and row id) and flushed
// once input has been quiet for the debounce period. A flush recomputes totals
// first, then refreshes standard rows, hourly rows and finally the general
// display, notifying a Listener at each step.
//
// A Scheduler is not safe for concurrent use: Submit, Flush and the alarm
// callback must all run on the goroutine that owns the store.
package reactive

import (
	"io"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/andy/billdraft/internal/calc"
	"github.com/andy/billdraft/internal/domain"
)

// State is the scheduler's position in its state machine
type State string

const (
	StateIdle     State = "idle"
	StatePending  State = "pending"
	StateFlushing State = "flushing"
)

// Document is the part of the store the scheduler reads and writes
type Document interface {
	Snapshot() domain.Document
	Item(id string) (domain.LineItem, bool)
	HourlyItem(id string) (domain.HourlyItem, bool)
	SetTotals(t domain.Totals)
}

// Scheduler coalesces update requests and runs recompute batches
type Scheduler struct {
	doc      Document
	listener Listener
	alarm    Alarm

	aggregate   Aggregator
	log         logrus.FieldLogger
	now         func() time.Time
	debounce    time.Duration
	flushBudget time.Duration
	calcBudget  time.Duration
	onState     func(from, to State)

	state   State
	queue   *queue
	metrics *recorder
	lastErr error
}

// New creates a scheduler over doc. A nil listener discards notifications.
func New(doc Document, listener Listener, alarm Alarm, opts ...Option) *Scheduler {
	if listener == nil {
		listener = ListenerFuncs{}
	}

	discard := logrus.New()
	discard.SetOutput(io.Discard)

	s := &Scheduler{
		doc:         doc,
		listener:    listener,
		alarm:       alarm,
		aggregate:   aggregateLines,
		log:         discard,
		now:         time.Now,
		debounce:    DefaultDebounce,
		flushBudget: DefaultFlushBudget,
		calcBudget:  DefaultCalcBudget,
		state:       StateIdle,
		queue:       newQueue(),
		metrics:     newRecorder(DefaultWindow),
	}

	for _, opt := range opts {
		opt(s)
	}

	return s
}

func aggregateLines(items []domain.LineItem, hourly []domain.HourlyItem) (domain.Totals, error) {
	return calc.Aggregate(items, hourly), nil
}

// State returns the current state
func (s *Scheduler) State() State {
	return s.state
}

// Pending returns the number of distinct requests waiting for the next flush
func (s *Scheduler) Pending() int {
	return s.queue.len()
}

// Metrics returns the rolling latency metrics and counters
func (s *Scheduler) Metrics() Metrics {
	return s.metrics.snapshot()
}

// ResetMetrics clears all samples and counters
func (s *Scheduler) ResetMetrics() {
	s.metrics.reset()
}

// LastError returns the error of the most recent flush, or nil if it succeeded
func (s *Scheduler) LastError() error {
	return s.lastErr
}

// Debounce returns the configured quiet period
func (s *Scheduler) Debounce() time.Duration {
	return s.debounce
}

// Submit records a request and (re)arms the debounce.
// It never fails: malformed requests are logged and dropped.
// While a flush is running the request is only recorded; it is serviced
// by the next flush.
func (s *Scheduler) Submit(req Request) {
	if !req.valid() {
		s.log.WithFields(logrus.Fields{
			"category": req.Category.String(),
			"reason":   req.Reason,
		}).Warn("dropping malformed update request")
		return
	}

	s.queue.add(req)

	if s.state == StateFlushing {
		return
	}

	s.setState(StatePending)
	s.alarm.Arm(s.debounce, s.fire)
}

// Flush runs the pending batch immediately.
// It is a no-op returning nil when nothing is pending or a flush is already running.
func (s *Scheduler) Flush() error {
	return s.flush()
}

// ForceUpdate queues a full recompute and display refresh and flushes now
func (s *Scheduler) ForceUpdate() error {
	s.queue.add(Totals("force-update"))
	s.queue.add(Display("force-update"))
	return s.flush()
}

func (s *Scheduler) fire() {
	_ = s.flush()
}

func (s *Scheduler) flush() error {
	if s.state == StateFlushing {
		return nil
	}

	s.alarm.Cancel()
	if s.queue.len() == 0 {
		s.setState(StateIdle)
		return nil
	}

	b := s.queue.drain()
	s.setState(StateFlushing)

	start := s.now()
	err := s.run(b)
	elapsed := s.now().Sub(start)

	s.metrics.flushes++
	s.lastErr = err

	fields := logrus.Fields{
		"reason":     b.reason,
		"categories": b.categories(),
	}

	if err != nil {
		s.metrics.failures++
		s.log.WithFields(fields).WithError(err).Error("flush failed, keeping last totals")
	} else {
		s.metrics.updates.add(elapsed)
		s.checkBudgets(elapsed, fields)
		s.log.WithFields(fields).WithField("elapsed_ms", ms(elapsed)).Debug("flush complete")
	}

	if s.queue.len() > 0 {
		s.setState(StatePending)
		s.alarm.Arm(s.debounce, s.fire)
	} else {
		s.setState(StateIdle)
	}

	return err
}

// run executes one batch. Any panic is turned into a FlushError for the
// stage that was running.
func (s *Scheduler) run(b batch) (err error) {
	stage := StageTotals
	defer func() {
		if r := recover(); r != nil {
			err = &FlushError{Stage: stage, Err: &PanicError{Value: r}}
		}
	}()

	if b.totals {
		totals, err := s.recompute()
		if err != nil {
			return &FlushError{Stage: stage, Err: err}
		}
		s.doc.SetTotals(totals)
		if err := s.listener.TotalsUpdated(totals); err != nil {
			return &FlushError{Stage: stage, Err: err}
		}
	}

	stage = StageItemRows
	for _, id := range b.items {
		item, ok := s.doc.Item(id)
		if !ok {
			continue
		}
		row := RowUpdate{Kind: RowItem, ID: id, Total: calc.ItemTotal(item)}
		if err := s.listener.RowUpdated(row); err != nil {
			return &FlushError{Stage: stage, Err: err}
		}
	}

	stage = StageHourlyRows
	for _, id := range b.hourly {
		item, ok := s.doc.HourlyItem(id)
		if !ok {
			continue
		}
		row := RowUpdate{Kind: RowHourly, ID: id, Total: calc.HourlyItemTotal(item)}
		if err := s.listener.RowUpdated(row); err != nil {
			return &FlushError{Stage: stage, Err: err}
		}
	}

	stage = StageDisplay
	if b.display {
		if err := s.listener.DisplayRefreshed(s.doc.Snapshot()); err != nil {
			return &FlushError{Stage: stage, Err: err}
		}
	}

	return nil
}

// recompute computes totals from a fresh snapshot without writing them
func (s *Scheduler) recompute() (domain.Totals, error) {
	snap := s.doc.Snapshot()

	start := s.now()
	totals, err := s.aggregate(snap.Items, snap.HourlyItems)
	if err != nil {
		return domain.Totals{}, err
	}
	s.metrics.calculations.add(s.now().Sub(start))

	return totals, nil
}

func (s *Scheduler) checkBudgets(elapsed time.Duration, fields logrus.Fields) {
	if elapsed > s.flushBudget {
		s.metrics.updateExceeded++
		s.log.WithFields(fields).WithFields(logrus.Fields{
			"elapsed_ms": ms(elapsed),
			"budget_ms":  ms(s.flushBudget),
		}).Warn("flush exceeded latency budget")
	}

	if avg := s.metrics.calculations.average(); avg > s.calcBudget {
		s.metrics.calcExceeded++
		s.log.WithFields(logrus.Fields{
			"average_ms": ms(avg),
			"budget_ms":  ms(s.calcBudget),
			"samples":    s.metrics.calculations.count(),
		}).Warn("average calculation time exceeded budget")
	}
}

func (s *Scheduler) setState(to State) {
	from := s.state
	if from == to {
		return
	}
	s.state = to
	if s.onState != nil {
		s.onState(from, to)
	}
}

func ms(d time.Duration) float64 {
	return float64(d) / float64(time.Millisecond)
}
