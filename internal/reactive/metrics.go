package reactive

import "time"

// DefaultWindow is how many samples each rolling metric keeps
const DefaultWindow = 100

// Metrics is a point-in-time view of the scheduler's self-monitoring
type Metrics struct {
	AverageCalculation time.Duration
	MaxCalculation     time.Duration
	Calculations       int

	AverageUpdate time.Duration
	MaxUpdate     time.Duration
	Updates       int

	// Budget checks that failed since the last reset
	CalculationBudgetExceeded int
	UpdateBudgetExceeded      int

	Flushes  int
	Failures int
}

// window keeps the most recent samples up to a fixed size
type window struct {
	samples []time.Duration
	size    int
}

func newWindow(size int) *window {
	if size <= 0 {
		size = DefaultWindow
	}
	return &window{size: size}
}

func (w *window) add(d time.Duration) {
	w.samples = append(w.samples, d)
	if len(w.samples) > w.size {
		w.samples = w.samples[len(w.samples)-w.size:]
	}
}

func (w *window) average() time.Duration {
	if len(w.samples) == 0 {
		return 0
	}
	var sum time.Duration
	for _, s := range w.samples {
		sum += s
	}
	return sum / time.Duration(len(w.samples))
}

func (w *window) max() time.Duration {
	var m time.Duration
	for _, s := range w.samples {
		if s > m {
			m = s
		}
	}
	return m
}

func (w *window) count() int {
	return len(w.samples)
}

func (w *window) reset() {
	w.samples = nil
}

type recorder struct {
	calculations *window
	updates      *window

	calcExceeded   int
	updateExceeded int
	flushes        int
	failures       int
}

func newRecorder(size int) *recorder {
	return &recorder{
		calculations: newWindow(size),
		updates:      newWindow(size),
	}
}

func (r *recorder) snapshot() Metrics {
	return Metrics{
		AverageCalculation:        r.calculations.average(),
		MaxCalculation:            r.calculations.max(),
		Calculations:              r.calculations.count(),
		AverageUpdate:             r.updates.average(),
		MaxUpdate:                 r.updates.max(),
		Updates:                   r.updates.count(),
		CalculationBudgetExceeded: r.calcExceeded,
		UpdateBudgetExceeded:      r.updateExceeded,
		Flushes:                   r.flushes,
		Failures:                  r.failures,
	}
}

func (r *recorder) reset() {
	r.calculations.reset()
	r.updates.reset()
	r.calcExceeded = 0
	r.updateExceeded = 0
	r.flushes = 0
	r.failures = 0
}
