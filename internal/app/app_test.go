package app

import (
	"context"
	"io"
	"os"
	"path/filepath"
	"testing"

	"github.com/andy/billdraft/internal/config"
	"github.com/andy/billdraft/internal/domain"
	"github.com/andy/billdraft/internal/draft"
	"github.com/andy/billdraft/internal/reactive"
	"github.com/andy/billdraft/internal/theme"
)

func testConfig(t *testing.T) *config.Config {
	t.Helper()
	cfg := config.DefaultConfig()
	cfg.Invoice.OutputDir = filepath.Join(t.TempDir(), "invoices")
	cfg.Company.Name = "ACME"
	return cfg
}

func newTestApp(t *testing.T, opts ...Option) *App {
	t.Helper()
	opts = append([]Option{WithLogOutput(io.Discard)}, opts...)
	a, err := NewWithConfig(context.Background(), testConfig(t), opts...)
	if err != nil {
		t.Fatalf("failed to create app: %v", err)
	}
	return a
}

func TestNewWithConfig_StartsDocument(t *testing.T) {
	a := newTestApp(t)

	doc := a.InvoiceService.Document()
	if doc.Number != "INV-0001" || doc.Company.Name != "ACME" || doc.Currency != "EUR" {
		t.Fatalf("unexpected starting document %+v", doc)
	}
	if a.Scheduler.State() != reactive.StatePending {
		t.Fatalf("expected initial recompute pending, got %s", a.Scheduler.State())
	}
	if err := a.Settle(); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if a.Scheduler.State() != reactive.StateIdle {
		t.Fatalf("expected idle after settle, got %s", a.Scheduler.State())
	}
}

func TestNewWithConfig_UnknownTheme(t *testing.T) {
	cfg := testConfig(t)
	cfg.Invoice.DefaultTheme = "neon"

	if _, err := NewWithConfig(context.Background(), cfg, WithLogOutput(io.Discard)); err == nil {
		t.Fatal("expected error for unknown default theme")
	}
}

func TestListenerReceivesTotals(t *testing.T) {
	var got domain.Totals
	listener := reactive.ListenerFuncs{
		OnTotals: func(totals domain.Totals) error {
			got = totals
			return nil
		},
	}
	a := newTestApp(t, WithListener(listener))

	a.InvoiceService.AddItem(domain.NewLineItem("R1", "Widget", 2, 10, 0, 20))
	a.InvoiceService.AddHourlyItem(domain.NewHourlyItem("Consulting", 8, 50))
	if err := a.Settle(); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if got.SubtotalBeforeTax != 420 || got.TotalVAT != 4 || got.TotalWithTax != 424 {
		t.Fatalf("unexpected totals %+v", got)
	}
}

func TestLoadDraftAndExport(t *testing.T) {
	a := newTestApp(t)

	path := filepath.Join(t.TempDir(), "draft.yaml")
	if err := draft.Example().Save(path); err != nil {
		t.Fatal(err)
	}
	if err := a.LoadDraft(path); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	out, err := a.Export("")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if filepath.Dir(out) != a.Config.Invoice.OutputDir {
		t.Fatalf("expected export into output dir, got %s", out)
	}
	if _, err := os.Stat(out); err != nil {
		t.Fatalf("expected exported file: %v", err)
	}

	// totals were settled before rendering
	if a.InvoiceService.Totals().TotalWithTax == 0 {
		t.Fatal("expected totals computed by export")
	}
}

func TestSaveAndLoadTheme(t *testing.T) {
	a := newTestApp(t)
	path := filepath.Join(t.TempDir(), ThemeConfigFile)

	if err := a.InvoiceService.ApplyTheme("elegant"); err != nil {
		t.Fatal(err)
	}
	if err := a.InvoiceService.CustomizeTheme(theme.Customizations{Colors: theme.Colors{Primary: "#123456"}}); err != nil {
		t.Fatal(err)
	}
	if err := a.SaveTheme(path); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	b := newTestApp(t)
	if err := b.LoadTheme(path); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	th := b.InvoiceService.Theme()
	if th.ID != "elegant" || th.Colors.Primary != "#123456" {
		t.Fatalf("unexpected imported theme %+v", th)
	}
	if b.InvoiceService.Document().Theme != "elegant" {
		t.Fatal("document theme must follow the imported configuration")
	}

	if err := b.LoadTheme(filepath.Join(t.TempDir(), "missing.yaml")); err != nil {
		t.Fatalf("missing theme file must be ignored, got %v", err)
	}
}
