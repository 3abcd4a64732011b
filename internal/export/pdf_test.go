package export

import (
	"bytes"
	"errors"
	"image"
	"image/color"
	"image/png"
	"io"
	"os"
	"path/filepath"
	"testing"

	"github.com/sirupsen/logrus"

	"github.com/andy/billdraft/internal/calc"
	"github.com/andy/billdraft/internal/domain"
	"github.com/andy/billdraft/internal/theme"
)

func testLogger() *logrus.Logger {
	log := logrus.New()
	log.SetOutput(io.Discard)
	return log
}

func sampleDocument() domain.Document {
	doc := domain.NewDocument("inv_test", "INV-0042")
	doc.Company = domain.Company{Name: "ACME", Address: "1 Main St", Email: "billing@acme.test", LegalInfo: "VAT FR123"}
	doc.Items = []domain.LineItem{domain.NewLineItem("R1", "Widget", 1, 20, 0, 20)}
	doc.HourlyItems = []domain.HourlyItem{domain.NewHourlyItem("Consulting", 8, 50)}
	doc.Totals = calc.Aggregate(doc.Items, doc.HourlyItems)
	doc.Customization.FooterText = "Thank you"
	doc.Customization.PaymentMethod = "Bank transfer"
	return *doc
}

func writePNG(t *testing.T, path string, w, h int) {
	t.Helper()
	img := image.NewRGBA(image.Rect(0, 0, w, h))
	for x := 0; x < w; x++ {
		img.Set(x, 0, color.RGBA{R: 255, A: 255})
	}
	f, err := os.Create(path)
	if err != nil {
		t.Fatal(err)
	}
	defer f.Close()
	if err := png.Encode(f, img); err != nil {
		t.Fatal(err)
	}
}

func TestRender_ProducesPDF(t *testing.T) {
	th, _ := theme.Get("modern")

	var buf bytes.Buffer
	if err := New(testLogger()).Render(&buf, sampleDocument(), th); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !bytes.HasPrefix(buf.Bytes(), []byte("%PDF-")) {
		t.Fatalf("output is not a PDF: %q", buf.Bytes()[:min(16, buf.Len())])
	}
}

func TestRender_EmptyDocument(t *testing.T) {
	th, _ := theme.Get(theme.DefaultID)
	doc := domain.NewDocument("inv_empty", "INV-1")

	err := New(testLogger()).Render(io.Discard, *doc, th)
	if !errors.Is(err, ErrEmptyDocument) {
		t.Fatalf("expected ErrEmptyDocument, got %v", err)
	}
}

func TestRender_WithLogo(t *testing.T) {
	dir := t.TempDir()
	logo := filepath.Join(dir, "logo.png")
	writePNG(t, logo, 1200, 300)

	doc := sampleDocument()
	doc.Company.LogoPath = logo
	doc.Customization.AutoUppercase = true

	th, _ := theme.Get("classic")
	out := filepath.Join(dir, "out", FileName(doc))
	if err := New(testLogger()).WriteFile(out, doc, th); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if info, err := os.Stat(out); err != nil || info.Size() == 0 {
		t.Fatalf("expected pdf written to %s: %v", out, err)
	}
}

func TestRender_MissingLogo(t *testing.T) {
	doc := sampleDocument()
	doc.Company.LogoPath = filepath.Join(t.TempDir(), "missing.png")
	th, _ := theme.Get(theme.DefaultID)

	if err := New(testLogger()).Render(io.Discard, doc, th); !errors.Is(err, os.ErrNotExist) {
		t.Fatalf("expected not-exist error, got %v", err)
	}
}

func TestLoadLogo_Downscales(t *testing.T) {
	path := filepath.Join(t.TempDir(), "wide.png")
	writePNG(t, path, 2000, 500)

	_, bounds, err := loadLogo(path, 400)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if bounds.Dx() != 400 || bounds.Dy() != 100 {
		t.Fatalf("expected 400x100, got %dx%d", bounds.Dx(), bounds.Dy())
	}

	small := filepath.Join(t.TempDir(), "small.png")
	writePNG(t, small, 50, 20)
	_, bounds, err = loadLogo(small, 400)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if bounds.Dx() != 50 || bounds.Dy() != 20 {
		t.Fatalf("small logos must not be resized, got %dx%d", bounds.Dx(), bounds.Dy())
	}
}

func TestFileName(t *testing.T) {
	tests := []struct {
		number string
		want   string
	}{
		{"INV-0001", "invoice-INV-0001.pdf"},
		{"2026/03 #7", "invoice-2026-03-7.pdf"},
		{"   ", "invoice.pdf"},
	}

	for _, tt := range tests {
		doc := domain.Document{Number: tt.number}
		if got := FileName(doc); got != tt.want {
			t.Errorf("FileName(%q) = %q, want %q", tt.number, got, tt.want)
		}
	}
}
