package reactive

import "fmt"

// Category is the recomputation class an update request asks for
type Category int

const (
	// CategoryTotals recomputes the aggregate totals
	CategoryTotals Category = iota + 1
	// CategoryItemRow refreshes the displayed total of one standard line
	CategoryItemRow
	// CategoryHourlyRow refreshes the displayed total of one hourly line
	CategoryHourlyRow
	// CategoryDisplay refreshes everything that depends on the totals or formatting
	CategoryDisplay
)

func (c Category) String() string {
	switch c {
	case CategoryTotals:
		return "calculations"
	case CategoryItemRow:
		return "item"
	case CategoryHourlyRow:
		return "hourly"
	case CategoryDisplay:
		return "display"
	}
	return fmt.Sprintf("category(%d)", int(c))
}

func (c Category) rowScoped() bool {
	return c == CategoryItemRow || c == CategoryHourlyRow
}

// Request tags what changed. Reason is free text used only for logging.
type Request struct {
	Category Category
	ID       string
	Reason   string
}

// Totals requests an aggregate recompute
func Totals(reason string) Request {
	return Request{Category: CategoryTotals, Reason: reason}
}

// Display requests a general display refresh
func Display(reason string) Request {
	return Request{Category: CategoryDisplay, Reason: reason}
}

// ItemRow requests a refresh of the standard line with the given id
func ItemRow(id, reason string) Request {
	return Request{Category: CategoryItemRow, ID: id, Reason: reason}
}

// HourlyRow requests a refresh of the hourly line with the given id
func HourlyRow(id, reason string) Request {
	return Request{Category: CategoryHourlyRow, ID: id, Reason: reason}
}

// Key is the identity a request is coalesced on
func (r Request) Key() string {
	if r.Category.rowScoped() {
		return r.Category.String() + "-" + r.ID
	}
	return r.Category.String()
}

func (r Request) valid() bool {
	switch r.Category {
	case CategoryTotals, CategoryDisplay:
		return true
	case CategoryItemRow, CategoryHourlyRow:
		return r.ID != ""
	}
	return false
}

type requestKey struct {
	category Category
	id       string
}

// queue is an insertion-ordered set of requests
type queue struct {
	order  []Request
	seen   map[requestKey]struct{}
	reason string
}

func newQueue() *queue {
	return &queue{seen: make(map[requestKey]struct{})}
}

// add records req and reports whether it was new
func (q *queue) add(req Request) bool {
	if req.Reason != "" {
		q.reason = req.Reason
	}
	k := requestKey{category: req.Category}
	if req.Category.rowScoped() {
		k.id = req.ID
	}
	if _, ok := q.seen[k]; ok {
		return false
	}
	q.seen[k] = struct{}{}
	q.order = append(q.order, req)
	return true
}

func (q *queue) len() int {
	return len(q.order)
}

// drain empties the queue into a batch
func (q *queue) drain() batch {
	b := batch{reason: q.reason, size: len(q.order)}
	for _, req := range q.order {
		switch req.Category {
		case CategoryTotals:
			b.totals = true
		case CategoryItemRow:
			b.items = append(b.items, req.ID)
		case CategoryHourlyRow:
			b.hourly = append(b.hourly, req.ID)
		case CategoryDisplay:
			b.display = true
		}
	}

	q.order = nil
	q.seen = make(map[requestKey]struct{})
	q.reason = ""
	return b
}

// batch is one flush worth of deduplicated work, in execution order
type batch struct {
	totals  bool
	items   []string
	hourly  []string
	display bool
	reason  string
	size    int
}

func (b batch) categories() []string {
	var out []string
	if b.totals {
		out = append(out, CategoryTotals.String())
	}
	for _, id := range b.items {
		out = append(out, CategoryItemRow.String()+"-"+id)
	}
	for _, id := range b.hourly {
		out = append(out, CategoryHourlyRow.String()+"-"+id)
	}
	if b.display {
		out = append(out, CategoryDisplay.String())
	}
	return out
}
