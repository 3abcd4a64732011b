// Package store owns the invoice document being edited.
//
// The store is a plain in-memory holder: writes are synchronous and visible to
// the next read, and no write triggers recomputation. Callers that need totals
// kept current submit update requests to the reactive scheduler themselves.
//
// A Store is not safe for concurrent use. It belongs to the goroutine that
// runs the scheduler (the TUI update loop or an event loop).
package store

import (
	"errors"
	"fmt"

	"github.com/andy/billdraft/internal/domain"
	"github.com/andy/billdraft/internal/ident"
)

var (
	ErrItemNotFound   = errors.New("line item not found")
	ErrHourlyNotFound = errors.New("hourly item not found")
	ErrUnknownField   = errors.New("unknown field")
	ErrInvalidValue   = errors.New("invalid field value")
)

// Store holds the single document of an editing session
type Store struct {
	doc *domain.Document
}

// New creates a store holding a fresh document with empty collections and zero totals
func New() *Store {
	return &Store{doc: freshDocument()}
}

// FromDocument creates a store seeded with a copy of doc.
// Rows without an id are assigned one.
func FromDocument(doc domain.Document) *Store {
	s := &Store{}
	s.Load(doc)
	return s
}

func freshDocument() *domain.Document {
	return domain.NewDocument(ident.New(ident.KindDocument), "")
}

// Load replaces the whole document with a copy of doc
func (s *Store) Load(doc domain.Document) {
	c := doc.Clone()
	if c.ID == "" {
		c.ID = ident.New(ident.KindDocument)
	}
	for i := range c.Items {
		if c.Items[i].ID == "" {
			c.Items[i].ID = ident.New(ident.KindItem)
		}
	}
	for i := range c.HourlyItems {
		if c.HourlyItems[i].ID == "" {
			c.HourlyItems[i].ID = ident.New(ident.KindHourly)
		}
	}
	if c.Theme == "" {
		c.Theme = domain.DefaultTheme
	}
	if c.Currency == "" {
		c.Currency = domain.DefaultCurrency
	}
	s.doc = &c
}

// Snapshot returns a deep copy of the document.
// Mutating the copy never affects the store.
func (s *Store) Snapshot() domain.Document {
	return s.doc.Clone()
}

// Totals returns the last written totals
func (s *Store) Totals() domain.Totals {
	return s.doc.Totals
}

// NewID returns a fresh identifier of the given kind
func (s *Store) NewID(kind ident.Kind) string {
	return ident.New(kind)
}

// SetField writes a scalar field
func (s *Store) SetField(f Field, value string) error {
	return set(s.doc, f, value)
}

// Value reads a scalar field
func (s *Store) Value(f Field) (string, error) {
	return Get(s.doc, f)
}

// SetCompany replaces the whole company block
func (s *Store) SetCompany(c domain.Company) {
	s.doc.Company = c
}

// SetCustomization replaces the whole customization block
func (s *Store) SetCustomization(c domain.Customization) {
	s.doc.Customization = c
}

// SetTheme records the active theme name
func (s *Store) SetTheme(name string) {
	s.doc.Theme = name
}

// SetCurrency records the active currency code
func (s *Store) SetCurrency(code string) {
	s.doc.Currency = code
}

// SetTotals overwrites the totals as a single unit
func (s *Store) SetTotals(t domain.Totals) {
	s.doc.Totals = t
}

// AddItem appends a line item and returns its id.
// An id is generated when the item has none.
func (s *Store) AddItem(item domain.LineItem) string {
	if item.ID == "" {
		item.ID = ident.New(ident.KindItem)
	}
	s.doc.Items = append(s.doc.Items, item)
	return item.ID
}

// Item returns the line item with the given id
func (s *Store) Item(id string) (domain.LineItem, bool) {
	i := s.doc.FindItem(id)
	if i < 0 {
		return domain.LineItem{}, false
	}
	return s.doc.Items[i], true
}

// ReplaceItem replaces the line item with the given id, keeping its id and position
func (s *Store) ReplaceItem(id string, item domain.LineItem) error {
	i := s.doc.FindItem(id)
	if i < 0 {
		return fmt.Errorf("%w: %s", ErrItemNotFound, id)
	}
	item.ID = id
	s.doc.Items[i] = item
	return nil
}

// RemoveItem removes the line item with the given id
func (s *Store) RemoveItem(id string) error {
	i := s.doc.FindItem(id)
	if i < 0 {
		return fmt.Errorf("%w: %s", ErrItemNotFound, id)
	}
	s.doc.Items = append(s.doc.Items[:i], s.doc.Items[i+1:]...)
	return nil
}

// AddHourlyItem appends an hourly item and returns its id
func (s *Store) AddHourlyItem(item domain.HourlyItem) string {
	if item.ID == "" {
		item.ID = ident.New(ident.KindHourly)
	}
	s.doc.HourlyItems = append(s.doc.HourlyItems, item)
	return item.ID
}

// HourlyItem returns the hourly item with the given id
func (s *Store) HourlyItem(id string) (domain.HourlyItem, bool) {
	i := s.doc.FindHourlyItem(id)
	if i < 0 {
		return domain.HourlyItem{}, false
	}
	return s.doc.HourlyItems[i], true
}

// ReplaceHourlyItem replaces the hourly item with the given id, keeping its id and position
func (s *Store) ReplaceHourlyItem(id string, item domain.HourlyItem) error {
	i := s.doc.FindHourlyItem(id)
	if i < 0 {
		return fmt.Errorf("%w: %s", ErrHourlyNotFound, id)
	}
	item.ID = id
	s.doc.HourlyItems[i] = item
	return nil
}

// RemoveHourlyItem removes the hourly item with the given id
func (s *Store) RemoveHourlyItem(id string) error {
	i := s.doc.FindHourlyItem(id)
	if i < 0 {
		return fmt.Errorf("%w: %s", ErrHourlyNotFound, id)
	}
	s.doc.HourlyItems = append(s.doc.HourlyItems[:i], s.doc.HourlyItems[i+1:]...)
	return nil
}

// Reset re-initializes the document: new id, empty collections, zero totals
func (s *Store) Reset() {
	s.doc = freshDocument()
}
