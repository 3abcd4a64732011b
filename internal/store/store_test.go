package store

import (
	"errors"
	"testing"

	"github.com/andy/billdraft/internal/domain"
	"github.com/andy/billdraft/internal/ident"
)

func TestNew_EmptyDocument(t *testing.T) {
	s := New()
	doc := s.Snapshot()

	if !ident.Is(doc.ID, ident.KindDocument) {
		t.Fatalf("expected document id, got %q", doc.ID)
	}
	if len(doc.Items) != 0 || len(doc.HourlyItems) != 0 {
		t.Fatalf("expected empty collections, got %d items and %d hourly", len(doc.Items), len(doc.HourlyItems))
	}
	if doc.Totals != (domain.Totals{}) {
		t.Fatalf("expected zero totals, got %+v", doc.Totals)
	}
	if doc.Theme != domain.DefaultTheme || doc.Currency != domain.DefaultCurrency {
		t.Fatalf("unexpected defaults: theme=%q currency=%q", doc.Theme, doc.Currency)
	}
}

func TestSnapshot_DoesNotAlias(t *testing.T) {
	s := New()
	id := s.AddItem(domain.NewLineItem("R1", "Widget", 2, 10, 0, 20))

	snap := s.Snapshot()
	snap.Items[0].Quantity = 99
	snap.Items = append(snap.Items, domain.LineItem{ID: "x"})

	item, ok := s.Item(id)
	if !ok {
		t.Fatalf("item %s not found", id)
	}
	if item.Quantity != 2 {
		t.Fatalf("snapshot mutation leaked into store: quantity=%v", item.Quantity)
	}
	if n := len(s.Snapshot().Items); n != 1 {
		t.Fatalf("expected 1 item, got %d", n)
	}
}

func TestItems_AddReplaceRemove(t *testing.T) {
	s := New()
	first := s.AddItem(domain.NewLineItem("R1", "First", 1, 10, 0, 0))
	second := s.AddItem(domain.NewLineItem("R2", "Second", 1, 20, 0, 0))

	if first == second {
		t.Fatal("expected distinct ids")
	}

	replacement := domain.NewLineItem("R1b", "First edited", 3, 10, 0, 0)
	replacement.ID = "ignored"
	if err := s.ReplaceItem(first, replacement); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	doc := s.Snapshot()
	if doc.Items[0].ID != first {
		t.Fatalf("replace must preserve id, got %q", doc.Items[0].ID)
	}
	if doc.Items[0].Quantity != 3 || doc.Items[0].Reference != "R1b" {
		t.Fatalf("replace not applied: %+v", doc.Items[0])
	}

	if err := s.RemoveItem(first); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	doc = s.Snapshot()
	if len(doc.Items) != 1 || doc.Items[0].ID != second {
		t.Fatalf("expected only %s to remain, got %+v", second, doc.Items)
	}

	if err := s.RemoveItem(first); !errors.Is(err, ErrItemNotFound) {
		t.Fatalf("expected ErrItemNotFound, got %v", err)
	}
	if err := s.ReplaceItem("missing", replacement); !errors.Is(err, ErrItemNotFound) {
		t.Fatalf("expected ErrItemNotFound, got %v", err)
	}
}

func TestHourly_AddReplaceRemove(t *testing.T) {
	s := New()
	id := s.AddHourlyItem(domain.NewHourlyItem("Consulting", 8, 50))

	if !ident.Is(id, ident.KindHourly) {
		t.Fatalf("expected hourly id, got %q", id)
	}
	if err := s.ReplaceHourlyItem(id, domain.NewHourlyItem("Consulting", 4, 60)); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	h, ok := s.HourlyItem(id)
	if !ok || h.Hours != 4 || h.HourlyRate != 60 || h.ID != id {
		t.Fatalf("unexpected hourly item: %+v", h)
	}
	if err := s.RemoveHourlyItem(id); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if err := s.RemoveHourlyItem(id); !errors.Is(err, ErrHourlyNotFound) {
		t.Fatalf("expected ErrHourlyNotFound, got %v", err)
	}
}

func TestSetField(t *testing.T) {
	s := New()

	tests := []struct {
		key   string
		value string
		want  string
	}{
		{"company.name", "ACME", "ACME"},
		{"Company.Email", "billing@acme.test", "billing@acme.test"},
		{"customization.footerText", "Thanks", "Thanks"},
		{"customization.autoUppercase", "true", "true"},
		{"customization.columnTitles.total", "Amount", "Amount"},
		{"date", "2026-03-01", "2026-03-01"},
		{"number", "INV-7", "INV-7"},
	}

	for _, tt := range tests {
		t.Run(tt.key, func(t *testing.T) {
			f, err := ParseField(tt.key)
			if err != nil {
				t.Fatalf("ParseField(%q): %v", tt.key, err)
			}
			if err := s.SetField(f, tt.value); err != nil {
				t.Fatalf("SetField(%s): %v", f, err)
			}
			got, err := s.Value(f)
			if err != nil {
				t.Fatalf("Value(%s): %v", f, err)
			}
			if got != tt.want {
				t.Fatalf("expected %q, got %q", tt.want, got)
			}
		})
	}
}

func TestSetField_Errors(t *testing.T) {
	s := New()

	if _, err := ParseField("company.fax"); !errors.Is(err, ErrUnknownField) {
		t.Fatalf("expected ErrUnknownField, got %v", err)
	}
	if err := s.SetField(Field(999), "x"); !errors.Is(err, ErrUnknownField) {
		t.Fatalf("expected ErrUnknownField, got %v", err)
	}
	if err := s.SetField(FieldDate, "yesterday"); !errors.Is(err, ErrInvalidValue) {
		t.Fatalf("expected ErrInvalidValue, got %v", err)
	}
	if err := s.SetField(FieldAutoUppercase, "maybe"); !errors.Is(err, ErrInvalidValue) {
		t.Fatalf("expected ErrInvalidValue, got %v", err)
	}
}

func TestFieldKeys_RoundTrip(t *testing.T) {
	for _, key := range FieldKeys() {
		f, err := ParseField(key)
		if err != nil {
			t.Fatalf("ParseField(%q): %v", key, err)
		}
		if f.String() != key {
			t.Fatalf("expected %q, got %q", key, f.String())
		}
	}
}

func TestReset(t *testing.T) {
	s := New()
	before := s.Snapshot().ID
	s.AddItem(domain.NewLineItem("R1", "Widget", 1, 10, 0, 0))
	s.SetTotals(domain.Totals{SubtotalBeforeTax: 10, TotalWithTax: 10})

	s.Reset()
	doc := s.Snapshot()

	if doc.ID == before {
		t.Fatal("expected a new document id after reset")
	}
	if len(doc.Items) != 0 || doc.Totals != (domain.Totals{}) {
		t.Fatalf("expected empty document after reset, got %+v", doc)
	}
}

func TestFromDocument_AssignsIDs(t *testing.T) {
	doc := domain.Document{
		Items:       []domain.LineItem{{Reference: "R1", Description: "Widget", Quantity: 1, UnitPrice: 5}},
		HourlyItems: []domain.HourlyItem{{Description: "Support", Hours: 1, HourlyRate: 40}},
	}

	s := FromDocument(doc)
	snap := s.Snapshot()

	if !ident.Is(snap.Items[0].ID, ident.KindItem) {
		t.Fatalf("expected item id, got %q", snap.Items[0].ID)
	}
	if !ident.Is(snap.HourlyItems[0].ID, ident.KindHourly) {
		t.Fatalf("expected hourly id, got %q", snap.HourlyItems[0].ID)
	}
	if doc.Items[0].ID != "" {
		t.Fatal("seeding must not mutate the caller's document")
	}
	if snap.Theme != domain.DefaultTheme || snap.Currency != domain.DefaultCurrency {
		t.Fatalf("expected defaults to be filled, got theme=%q currency=%q", snap.Theme, snap.Currency)
	}
}
