package reactive

import (
	"github.com/andy/billdraft/internal/domain"
)

// RowKind tells which collection a row update belongs to
type RowKind string

const (
	RowItem   RowKind = "item"
	RowHourly RowKind = "hourly"
)

// RowUpdate carries the freshly computed total of one row
type RowUpdate struct {
	Kind  RowKind
	ID    string
	Total float64
}

// Listener receives the results of a flush, in execution order.
// Returning an error aborts the rest of the batch.
type Listener interface {
	TotalsUpdated(totals domain.Totals) error
	RowUpdated(row RowUpdate) error
	DisplayRefreshed(doc domain.Document) error
}

// ListenerFuncs adapts optional functions to a Listener.
// Nil functions are treated as no-ops.
type ListenerFuncs struct {
	OnTotals  func(domain.Totals) error
	OnRow     func(RowUpdate) error
	OnDisplay func(domain.Document) error
}

func (f ListenerFuncs) TotalsUpdated(totals domain.Totals) error {
	if f.OnTotals == nil {
		return nil
	}
	return f.OnTotals(totals)
}

func (f ListenerFuncs) RowUpdated(row RowUpdate) error {
	if f.OnRow == nil {
		return nil
	}
	return f.OnRow(row)
}

func (f ListenerFuncs) DisplayRefreshed(doc domain.Document) error {
	if f.OnDisplay == nil {
		return nil
	}
	return f.OnDisplay(doc)
}

// Listeners fans notifications out to several listeners in order.
// The first error stops the fan-out.
type Listeners []Listener

func (ls Listeners) TotalsUpdated(totals domain.Totals) error {
	for _, l := range ls {
		if err := l.TotalsUpdated(totals); err != nil {
			return err
		}
	}
	return nil
}

func (ls Listeners) RowUpdated(row RowUpdate) error {
	for _, l := range ls {
		if err := l.RowUpdated(row); err != nil {
			return err
		}
	}
	return nil
}

func (ls Listeners) DisplayRefreshed(doc domain.Document) error {
	for _, l := range ls {
		if err := l.DisplayRefreshed(doc); err != nil {
			return err
		}
	}
	return nil
}
