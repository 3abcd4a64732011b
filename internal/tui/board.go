package tui

import (
	"github.com/andy/billdraft/internal/calc"
	"github.com/andy/billdraft/internal/domain"
	"github.com/andy/billdraft/internal/reactive"
)

// Board is the scheduler listener backing the screens. It holds the last
// values the scheduler published; views render from it rather than
// recomputing on every frame.
type Board struct {
	totals    domain.Totals
	rows      map[string]float64
	changed   map[string]bool
	refreshes int
}

// NewBoard creates an empty board
func NewBoard() *Board {
	return &Board{
		rows:    make(map[string]float64),
		changed: make(map[string]bool),
	}
}

func (b *Board) TotalsUpdated(totals domain.Totals) error {
	b.totals = totals
	return nil
}

func (b *Board) RowUpdated(row reactive.RowUpdate) error {
	b.rows[row.ID] = row.Total
	b.changed[row.ID] = true
	return nil
}

// DisplayRefreshed rebuilds every row total from the document
func (b *Board) DisplayRefreshed(doc domain.Document) error {
	rows := make(map[string]float64, len(doc.Items)+len(doc.HourlyItems))
	for _, item := range doc.Items {
		rows[item.ID] = calc.ItemTotal(item)
	}
	for _, h := range doc.HourlyItems {
		rows[h.ID] = calc.HourlyItemTotal(h)
	}
	b.rows = rows
	b.refreshes++
	return nil
}

// Totals returns the last published totals
func (b *Board) Totals() domain.Totals {
	return b.totals
}

// Row returns the last published total of a row
func (b *Board) Row(id string) (float64, bool) {
	v, ok := b.rows[id]
	return v, ok
}

// Changed reports whether a row was updated since the last ClearChanged
func (b *Board) Changed(id string) bool {
	return b.changed[id]
}

// ClearChanged forgets which rows were updated
func (b *Board) ClearChanged() {
	clear(b.changed)
}

// Refreshes returns how many display refreshes the board has seen
func (b *Board) Refreshes() int {
	return b.refreshes
}
