package reactive

import (
	"errors"
	"math"
	"testing"
	"time"

	"github.com/andy/billdraft/internal/calc"
	"github.com/andy/billdraft/internal/domain"
	"github.com/andy/billdraft/internal/store"
)

// recordingListener keeps every notification in arrival order
type recordingListener struct {
	events  []string
	totals  []domain.Totals
	rows    []RowUpdate
	display int
}

func (l *recordingListener) TotalsUpdated(t domain.Totals) error {
	l.events = append(l.events, "totals")
	l.totals = append(l.totals, t)
	return nil
}

func (l *recordingListener) RowUpdated(r RowUpdate) error {
	l.events = append(l.events, string(r.Kind)+":"+r.ID)
	l.rows = append(l.rows, r)
	return nil
}

func (l *recordingListener) DisplayRefreshed(domain.Document) error {
	l.events = append(l.events, "display")
	l.display++
	return nil
}

type fakeClock struct {
	t time.Time
}

func (c *fakeClock) now() time.Time          { return c.t }
func (c *fakeClock) advance(d time.Duration) { c.t = c.t.Add(d) }

func newTestScheduler(l Listener, opts ...Option) (*Scheduler, *store.Store, *ManualAlarm) {
	st := store.New()
	alarm := &ManualAlarm{}
	return New(st, l, alarm, opts...), st, alarm
}

func approx(a, b float64) bool {
	return math.Abs(a-b) <= 0.01
}

func TestSubmit_CoalescesBurst(t *testing.T) {
	l := &recordingListener{}
	s, st, alarm := newTestScheduler(l)
	id := st.AddItem(domain.NewLineItem("R1", "Widget", 2, 10, 10, 20))

	const n = 50
	for i := 0; i < n; i++ {
		s.Submit(Totals("typing"))
		s.Submit(ItemRow(id, "typing"))
	}

	if s.State() != StatePending {
		t.Fatalf("expected pending, got %s", s.State())
	}
	if s.Pending() != 2 {
		t.Fatalf("expected 2 coalesced requests, got %d", s.Pending())
	}
	if alarm.Arms() != 2*n {
		t.Fatalf("expected the debounce to restart on every request, got %d arms", alarm.Arms())
	}
	if alarm.Delay() != DefaultDebounce {
		t.Fatalf("expected %v debounce, got %v", DefaultDebounce, alarm.Delay())
	}

	if !alarm.Fire() {
		t.Fatal("expected alarm to be armed")
	}

	if got := s.Metrics().Flushes; got != 1 {
		t.Fatalf("expected exactly one flush, got %d", got)
	}
	if len(l.totals) != 1 || len(l.rows) != 1 {
		t.Fatalf("expected one totals and one row notification, got %d and %d", len(l.totals), len(l.rows))
	}
	if !approx(l.rows[0].Total, 21.6) {
		t.Fatalf("expected row total 21.6, got %v", l.rows[0].Total)
	}
	if s.State() != StateIdle || alarm.Armed() {
		t.Fatalf("expected idle with no alarm, got %s armed=%v", s.State(), alarm.Armed())
	}
}

func TestFlush_ExecutionOrder(t *testing.T) {
	l := &recordingListener{}
	s, st, alarm := newTestScheduler(l)
	a := st.AddItem(domain.NewLineItem("A", "First", 1, 10, 0, 0))
	b := st.AddItem(domain.NewLineItem("B", "Second", 1, 20, 0, 0))
	h := st.AddHourlyItem(domain.NewHourlyItem("Support", 2, 30))

	s.Submit(Display("theme"))
	s.Submit(HourlyRow(h, "edit"))
	s.Submit(ItemRow(b, "edit"))
	s.Submit(Totals("edit"))
	s.Submit(ItemRow(a, "edit"))
	s.Submit(ItemRow(b, "edit again"))
	alarm.Fire()

	want := []string{"totals", "item:" + b, "item:" + a, "hourly:" + h, "display"}
	if len(l.events) != len(want) {
		t.Fatalf("expected events %v, got %v", want, l.events)
	}
	for i := range want {
		if l.events[i] != want[i] {
			t.Fatalf("event %d: expected %q, got %q (all: %v)", i, want[i], l.events[i], l.events)
		}
	}
}

func TestFlush_WritesTotals(t *testing.T) {
	l := &recordingListener{}
	s, st, alarm := newTestScheduler(l)
	st.AddItem(domain.NewLineItem("R1", "Widget", 2, 10, 0, 20))
	st.AddHourlyItem(domain.NewHourlyItem("Consulting", 8, 50))

	s.Submit(Totals("seed"))
	alarm.Fire()

	got := st.Totals()
	if !approx(got.SubtotalBeforeTax, 420) || !approx(got.TotalVAT, 4) || !approx(got.TotalWithTax, 424) {
		t.Fatalf("unexpected totals: %+v", got)
	}
	if l.totals[0] != got {
		t.Fatalf("listener saw %+v, store holds %+v", l.totals[0], got)
	}
}

func TestFlush_Reentrancy(t *testing.T) {
	var s *Scheduler
	var alarm *ManualAlarm
	var flushedInside error
	var armedInside bool

	l := ListenerFuncs{
		OnTotals: func(domain.Totals) error {
			flushedInside = s.Flush()
			s.fire()
			s.Submit(Display("during flush"))
			armedInside = alarm.Armed()
			return nil
		},
	}
	s, _, alarm = newTestScheduler(l)

	s.Submit(Totals("edit"))
	alarm.Fire()

	if flushedInside != nil {
		t.Fatalf("nested flush should be a no-op, got %v", flushedInside)
	}
	if armedInside {
		t.Fatal("requests during a flush must not arm the alarm")
	}
	if got := s.Metrics().Flushes; got != 1 {
		t.Fatalf("expected one flush so far, got %d", got)
	}
	if s.State() != StatePending || !alarm.Armed() || s.Pending() != 1 {
		t.Fatalf("expected pending with the queued display request, got %s armed=%v pending=%d", s.State(), alarm.Armed(), s.Pending())
	}

	alarm.Fire()
	if got := s.Metrics().Flushes; got != 2 {
		t.Fatalf("expected second flush, got %d", got)
	}
	if s.State() != StateIdle {
		t.Fatalf("expected idle, got %s", s.State())
	}
}

func TestFlush_AggregateErrorKeepsLastTotals(t *testing.T) {
	boom := errors.New("boom")
	fail := false
	agg := func(items []domain.LineItem, hourly []domain.HourlyItem) (domain.Totals, error) {
		if fail {
			return domain.Totals{}, boom
		}
		return calc.Aggregate(items, hourly), nil
	}

	l := &recordingListener{}
	s, st, alarm := newTestScheduler(l, WithAggregator(agg))
	id := st.AddItem(domain.NewLineItem("R1", "Widget", 1, 100, 0, 0))
	s.Submit(Totals("seed"))
	alarm.Fire()
	good := st.Totals()

	fail = true
	if err := st.ReplaceItem(id, domain.NewLineItem("R1", "Widget", 5, 100, 0, 0)); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	s.Submit(Totals("edit"))
	s.Submit(Display("edit"))
	alarm.Fire()

	if st.Totals() != good {
		t.Fatalf("totals changed after failed flush: %+v -> %+v", good, st.Totals())
	}
	var fe *FlushError
	if !errors.As(s.LastError(), &fe) || fe.Stage != StageTotals {
		t.Fatalf("expected totals FlushError, got %v", s.LastError())
	}
	if !errors.Is(s.LastError(), boom) {
		t.Fatalf("expected wrapped cause, got %v", s.LastError())
	}
	if l.display != 0 {
		t.Fatal("display must not refresh after a failed recompute")
	}
	m := s.Metrics()
	if m.Failures != 1 || m.Flushes != 2 {
		t.Fatalf("expected 1 failure over 2 flushes, got %+v", m)
	}
	if s.State() != StateIdle {
		t.Fatalf("expected idle after failure, got %s", s.State())
	}

	fail = false
	s.Submit(Totals("retry"))
	alarm.Fire()
	if s.LastError() != nil {
		t.Fatalf("expected retry to succeed, got %v", s.LastError())
	}
	if !approx(st.Totals().TotalWithTax, 500) {
		t.Fatalf("expected 500 after retry, got %v", st.Totals().TotalWithTax)
	}
}

func TestFlush_PanicIsRecovered(t *testing.T) {
	agg := func([]domain.LineItem, []domain.HourlyItem) (domain.Totals, error) {
		panic("corrupt line")
	}
	s, st, alarm := newTestScheduler(nil, WithAggregator(agg))
	st.SetTotals(domain.Totals{SubtotalBeforeTax: 1, TotalWithTax: 1})

	s.Submit(Totals("edit"))
	alarm.Fire()

	var pe *PanicError
	if !errors.As(s.LastError(), &pe) {
		t.Fatalf("expected PanicError, got %v", s.LastError())
	}
	if st.Totals().TotalWithTax != 1 {
		t.Fatalf("totals overwritten after panic: %+v", st.Totals())
	}
	if s.State() != StateIdle {
		t.Fatalf("expected idle, got %s", s.State())
	}
}

func TestFlush_ListenerErrorStopsBatch(t *testing.T) {
	var s *Scheduler
	displayed := false
	l := ListenerFuncs{
		OnRow: func(RowUpdate) error {
			s.Submit(Totals("queued while failing"))
			return errors.New("render failed")
		},
		OnDisplay: func(domain.Document) error {
			displayed = true
			return nil
		},
	}
	var st *store.Store
	var alarm *ManualAlarm
	s, st, alarm = newTestScheduler(l)
	id := st.AddItem(domain.NewLineItem("R1", "Widget", 1, 10, 0, 0))

	s.Submit(ItemRow(id, "edit"))
	s.Submit(Display("edit"))
	alarm.Fire()

	var fe *FlushError
	if !errors.As(s.LastError(), &fe) || fe.Stage != StageItemRows {
		t.Fatalf("expected item-rows FlushError, got %v", s.LastError())
	}
	if displayed {
		t.Fatal("display must not run after a failed stage")
	}
	if s.State() != StatePending || !alarm.Armed() {
		t.Fatalf("expected pending with re-armed alarm, got %s armed=%v", s.State(), alarm.Armed())
	}
}

func TestFlush_MissingRowIsSkipped(t *testing.T) {
	l := &recordingListener{}
	s, _, alarm := newTestScheduler(l)

	s.Submit(ItemRow("li_gone", "edit"))
	s.Submit(HourlyRow("hr_gone", "edit"))
	alarm.Fire()

	if len(l.rows) != 0 {
		t.Fatalf("expected no row notifications, got %v", l.rows)
	}
	if s.LastError() != nil {
		t.Fatalf("unexpected error: %v", s.LastError())
	}
}

func TestBudgets(t *testing.T) {
	clock := &fakeClock{t: time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)}
	agg := func(items []domain.LineItem, hourly []domain.HourlyItem) (domain.Totals, error) {
		clock.advance(150 * time.Millisecond)
		return calc.Aggregate(items, hourly), nil
	}
	s, _, alarm := newTestScheduler(nil, WithClock(clock.now), WithAggregator(agg))

	s.Submit(Totals("slow"))
	alarm.Fire()

	m := s.Metrics()
	if m.UpdateBudgetExceeded != 1 || m.CalculationBudgetExceeded != 1 {
		t.Fatalf("expected one violation of each budget, got %+v", m)
	}
	if m.MaxCalculation != 150*time.Millisecond || m.AverageUpdate != 150*time.Millisecond {
		t.Fatalf("unexpected samples: %+v", m)
	}
	if s.LastError() != nil {
		t.Fatalf("budget violations must not fail the flush, got %v", s.LastError())
	}

	s.Submit(Display("fast"))
	alarm.Fire()

	m = s.Metrics()
	if m.UpdateBudgetExceeded != 1 {
		t.Fatalf("fast flush must not count as update violation, got %d", m.UpdateBudgetExceeded)
	}
	if m.CalculationBudgetExceeded != 2 {
		t.Fatalf("calculation average is still over budget, expected 2 checks to fail, got %d", m.CalculationBudgetExceeded)
	}
	if m.Updates != 2 || m.AverageUpdate != 75*time.Millisecond {
		t.Fatalf("expected 2 update samples averaging 75ms, got %+v", m)
	}
}

func TestBudgets_Configurable(t *testing.T) {
	clock := &fakeClock{t: time.Unix(0, 0)}
	agg := func(items []domain.LineItem, hourly []domain.HourlyItem) (domain.Totals, error) {
		clock.advance(150 * time.Millisecond)
		return calc.Aggregate(items, hourly), nil
	}
	s, _, alarm := newTestScheduler(nil,
		WithClock(clock.now),
		WithAggregator(agg),
		WithBudgets(time.Second, time.Second),
	)

	s.Submit(Totals("slow"))
	alarm.Fire()

	if m := s.Metrics(); m.UpdateBudgetExceeded != 0 || m.CalculationBudgetExceeded != 0 {
		t.Fatalf("expected no violations with raised budgets, got %+v", m)
	}
}

func TestMetrics_RollingWindowAndReset(t *testing.T) {
	s, _, alarm := newTestScheduler(nil, WithWindow(3))

	for i := 0; i < 5; i++ {
		s.Submit(Totals("edit"))
		alarm.Fire()
	}

	m := s.Metrics()
	if m.Flushes != 5 {
		t.Fatalf("expected 5 flushes, got %d", m.Flushes)
	}
	if m.Updates != 3 || m.Calculations != 3 {
		t.Fatalf("expected window of 3 samples, got %d updates and %d calculations", m.Updates, m.Calculations)
	}

	s.ResetMetrics()
	if m := s.Metrics(); m != (Metrics{}) {
		t.Fatalf("expected zero metrics after reset, got %+v", m)
	}
}

func TestStateHook(t *testing.T) {
	var transitions []string
	hook := func(from, to State) {
		transitions = append(transitions, string(from)+">"+string(to))
	}
	s, _, alarm := newTestScheduler(nil, WithStateHook(hook))

	s.Submit(Totals("a"))
	s.Submit(Totals("b"))
	alarm.Fire()

	want := []string{"idle>pending", "pending>flushing", "flushing>idle"}
	if len(transitions) != len(want) {
		t.Fatalf("expected %v, got %v", want, transitions)
	}
	for i := range want {
		if transitions[i] != want[i] {
			t.Fatalf("expected %v, got %v", want, transitions)
		}
	}
}

func TestSubmit_MalformedIsDropped(t *testing.T) {
	s, _, alarm := newTestScheduler(nil)

	s.Submit(ItemRow("", "no id"))
	s.Submit(Request{Category: Category(42)})

	if s.State() != StateIdle || alarm.Armed() || s.Pending() != 0 {
		t.Fatalf("expected malformed requests to be ignored, got %s armed=%v pending=%d", s.State(), alarm.Armed(), s.Pending())
	}
}

func TestForceUpdate(t *testing.T) {
	l := &recordingListener{}
	s, st, alarm := newTestScheduler(l)
	st.AddHourlyItem(domain.NewHourlyItem("Consulting", 8, 50))

	if err := s.ForceUpdate(); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if len(l.events) != 2 || l.events[0] != "totals" || l.events[1] != "display" {
		t.Fatalf("expected totals then display, got %v", l.events)
	}
	if !approx(st.Totals().SubtotalBeforeTax, 400) {
		t.Fatalf("expected subtotal 400, got %v", st.Totals().SubtotalBeforeTax)
	}
	if alarm.Armed() {
		t.Fatal("expected no alarm after forced flush")
	}
}

func TestFlush_NoopWhenIdle(t *testing.T) {
	s, _, _ := newTestScheduler(nil)

	if err := s.Flush(); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if s.Metrics().Flushes != 0 {
		t.Fatal("expected no flush without pending requests")
	}
}

func TestFlush_CancelsPendingAlarm(t *testing.T) {
	s, _, alarm := newTestScheduler(nil, WithDebounce(5*time.Millisecond))

	s.Submit(Totals("edit"))
	if alarm.Delay() != 5*time.Millisecond {
		t.Fatalf("expected 5ms debounce, got %v", alarm.Delay())
	}
	if err := s.Flush(); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if alarm.Fire() {
		t.Fatal("explicit flush must cancel the pending alarm")
	}
}

func TestRequestKey(t *testing.T) {
	tests := []struct {
		req  Request
		want string
	}{
		{Totals("x"), "calculations"},
		{Display("x"), "display"},
		{ItemRow("li_1", "x"), "item-li_1"},
		{HourlyRow("hr_1", "x"), "hourly-hr_1"},
	}
	for _, tt := range tests {
		if got := tt.req.Key(); got != tt.want {
			t.Fatalf("expected key %q, got %q", tt.want, got)
		}
	}
}
