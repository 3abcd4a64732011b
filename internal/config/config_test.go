package config

import (
	"bytes"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"
)

func TestDefaultConfig_IsValid(t *testing.T) {
	if err := DefaultConfig().Validate(); err != nil {
		t.Fatalf("default config must validate: %v", err)
	}
}

func TestLoad_MissingFileReturnsDefaults(t *testing.T) {
	cfg, err := Load(filepath.Join(t.TempDir(), "nope.yaml"))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if cfg.Scheduler.Debounce != 16*time.Millisecond || cfg.Invoice.DefaultCurrency != "EUR" {
		t.Fatalf("expected defaults, got %+v", cfg)
	}
}

func TestLoad_File(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	data := `
invoice:
  default_currency: USD
  default_theme: modern
company:
  name: ACME
scheduler:
  debounce: 25ms
  flush_budget: 80ms
`
	if err := os.WriteFile(path, []byte(data), 0644); err != nil {
		t.Fatal(err)
	}

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if cfg.Invoice.DefaultCurrency != "USD" || cfg.Invoice.DefaultTheme != "modern" || cfg.Company.Name != "ACME" {
		t.Fatalf("unexpected invoice config %+v", cfg.Invoice)
	}
	if cfg.Scheduler.Debounce != 25*time.Millisecond || cfg.Scheduler.FlushBudget != 80*time.Millisecond {
		t.Fatalf("unexpected scheduler config %+v", cfg.Scheduler)
	}
	// untouched sections keep their defaults
	if cfg.Scheduler.CalcBudget != 100*time.Millisecond || cfg.Invoice.NumberPrefix != "INV" {
		t.Fatalf("expected defaults to survive partial file, got %+v", cfg)
	}
}

func TestLoad_EnvOverrides(t *testing.T) {
	t.Setenv("BILLDRAFT_CURRENCY", "GBP")
	t.Setenv("BILLDRAFT_DEBOUNCE", "5ms")
	t.Setenv("BILLDRAFT_DEFAULT_VAT", "20")

	cfg, err := Load(filepath.Join(t.TempDir(), "config.yaml"))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if cfg.Invoice.DefaultCurrency != "GBP" || cfg.Scheduler.Debounce != 5*time.Millisecond || cfg.Invoice.DefaultVAT != 20 {
		t.Fatalf("expected env overrides, got %+v", cfg)
	}
}

func TestLoad_Invalid(t *testing.T) {
	tests := []struct {
		name string
		env  map[string]string
		file string
	}{
		{name: "bad duration", env: map[string]string{"BILLDRAFT_DEBOUNCE": "soon"}},
		{name: "bad vat", env: map[string]string{"BILLDRAFT_DEFAULT_VAT": "lots"}},
		{name: "bad log level", file: "log:\n  level: loud\n"},
		{name: "bad email", file: "company:\n  email: nope\n"},
		{name: "zero budget", file: "scheduler:\n  flush_budget: 0s\n"},
		{name: "broken yaml", file: "invoice: ["},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			for k, v := range tt.env {
				t.Setenv(k, v)
			}
			path := filepath.Join(t.TempDir(), "config.yaml")
			if tt.file != "" {
				if err := os.WriteFile(path, []byte(tt.file), 0644); err != nil {
					t.Fatal(err)
				}
			}
			if _, err := Load(path); !errors.Is(err, ErrInvalidConfig) {
				t.Fatalf("expected ErrInvalidConfig, got %v", err)
			}
		})
	}
}

func TestSave_RoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "config.yaml")

	cfg := DefaultConfig()
	cfg.Invoice.NumberPrefix = "BD"
	cfg.Scheduler.Window = 10
	if err := cfg.Save(path); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	loaded, err := Load(path)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if loaded.Invoice.NumberPrefix != "BD" || loaded.Scheduler.Window != 10 || loaded.Scheduler.Debounce != cfg.Scheduler.Debounce {
		t.Fatalf("round trip lost values: %+v", loaded)
	}
}

func TestInvoiceNumber(t *testing.T) {
	c := InvoiceConfig{NumberPrefix: "INV"}
	if got := c.InvoiceNumber(7); got != "INV-0007" {
		t.Fatalf("expected INV-0007, got %q", got)
	}
	c.NumberPrefix = ""
	if got := c.InvoiceNumber(12); got != "0012" {
		t.Fatalf("expected 0012, got %q", got)
	}
}

func TestNewLogger(t *testing.T) {
	var buf bytes.Buffer
	log, err := NewLogger(LogConfig{Level: "info", Format: "json"}, &buf)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	log.WithField("stage", "totals").Info("flushed")
	log.Debug("hidden")

	out := buf.String()
	if !strings.Contains(out, `"stage":"totals"`) || strings.Contains(out, "hidden") {
		t.Fatalf("unexpected log output %q", out)
	}

	if _, err := NewLogger(LogConfig{Level: "loud"}, &buf); !errors.Is(err, ErrInvalidConfig) {
		t.Fatalf("expected ErrInvalidConfig, got %v", err)
	}
}
