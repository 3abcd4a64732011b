// Package export renders a finished invoice snapshot to PDF.
package export

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"regexp"
	"strconv"
	"strings"

	"github.com/jung-kurt/gofpdf"
	"github.com/sirupsen/logrus"

	"github.com/andy/billdraft/internal/calc"
	"github.com/andy/billdraft/internal/currency"
	"github.com/andy/billdraft/internal/domain"
	"github.com/andy/billdraft/internal/theme"
)

// Page geometry in millimetres
const (
	pageMargin = 20.0
	lineHeight = 7.0
	logoWidth  = 35.0
)

var ErrEmptyDocument = errors.New("document has no items")

var unsafeName = regexp.MustCompile(`[^A-Za-z0-9._-]+`)

// Exporter turns document snapshots into PDF files
type Exporter struct {
	log logrus.FieldLogger
}

// New creates an exporter
func New(log logrus.FieldLogger) *Exporter {
	return &Exporter{log: log}
}

// FileName suggests a file name for doc, e.g. "invoice-INV-0001.pdf"
func FileName(doc domain.Document) string {
	number := unsafeName.ReplaceAllString(strings.TrimSpace(doc.Number), "-")
	number = strings.Trim(number, "-")
	if number == "" {
		return "invoice.pdf"
	}
	return "invoice-" + number + ".pdf"
}

// WriteFile renders doc into path, creating parent directories
func (e *Exporter) WriteFile(path string, doc domain.Document, th theme.Theme) error {
	var buf bytes.Buffer
	if err := e.Render(&buf, doc, th); err != nil {
		return err
	}
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return err
	}
	if err := os.WriteFile(path, buf.Bytes(), 0644); err != nil {
		return fmt.Errorf("failed to write pdf: %w", err)
	}

	e.log.WithFields(logrus.Fields{
		"path":  path,
		"bytes": buf.Len(),
	}).Info("invoice exported")
	return nil
}

// Render writes doc as an A4 PDF using the colors of th.
// Totals are printed as stored on the snapshot.
func (e *Exporter) Render(w io.Writer, doc domain.Document, th theme.Theme) error {
	if doc.IsEmpty() {
		return ErrEmptyDocument
	}

	pdf := gofpdf.New("P", "mm", "A4", "")
	pdf.SetMargins(pageMargin, pageMargin, pageMargin)
	pdf.SetAutoPageBreak(true, pageMargin)
	pdf.SetTitle("Invoice "+doc.Number, true)
	pdf.SetCreator("billdraft", true)

	r := &renderer{
		pdf:   pdf,
		tr:    pdf.UnicodeTranslatorFromDescriptor(""),
		doc:   doc,
		theme: th,
	}

	if doc.Company.LogoPath != "" {
		if err := r.registerLogo(doc.Company.LogoPath); err != nil {
			return err
		}
	}

	pdf.SetFooterFunc(r.footer)
	pdf.AddPage()

	r.header()
	r.itemTable()
	r.hourlyTable()
	r.totals()
	r.payment()

	if err := pdf.Error(); err != nil {
		return fmt.Errorf("failed to render pdf: %w", err)
	}
	return pdf.Output(w)
}

type renderer struct {
	pdf   *gofpdf.Fpdf
	tr    func(string) string
	doc   domain.Document
	theme theme.Theme
	logo  string
}

func (r *renderer) registerLogo(path string) error {
	data, _, err := loadLogo(path, MaxLogoPixels)
	if err != nil {
		return err
	}
	r.logo = "logo"
	r.pdf.RegisterImageOptionsReader(r.logo, gofpdf.ImageOptions{ImageType: "PNG"}, bytes.NewReader(data))
	return nil
}

func (r *renderer) text(s string) string {
	if r.doc.Customization.AutoUppercase {
		s = strings.ToUpper(s)
	}
	return r.tr(s)
}

func (r *renderer) money(v float64) string {
	return r.tr(currency.Format(v, r.doc.Currency))
}

func (r *renderer) textColor(hex string) {
	if red, green, blue, err := theme.RGB(hex); err == nil {
		r.pdf.SetTextColor(red, green, blue)
	}
}

func (r *renderer) fillColor(hex string) {
	if red, green, blue, err := theme.RGB(hex); err == nil {
		r.pdf.SetFillColor(red, green, blue)
	}
}

func (r *renderer) drawColor(hex string) {
	if red, green, blue, err := theme.RGB(hex); err == nil {
		r.pdf.SetDrawColor(red, green, blue)
	}
}

func (r *renderer) bodyColor() {
	c := r.doc.Customization.TextColor
	if c == "" {
		c = r.theme.Colors.Text
	}
	r.textColor(c)
}

func (r *renderer) header() {
	pdf := r.pdf
	company := r.doc.Company

	if r.logo != "" {
		pdf.ImageOptions(r.logo, pageMargin, pageMargin, logoWidth, 0, false, gofpdf.ImageOptions{ImageType: "PNG"}, 0, "")
	}

	r.textColor(r.theme.Colors.Primary)
	pdf.SetFont("Arial", "B", 20)
	pdf.CellFormat(0, 10, r.text("Invoice"), "", 1, "R", false, 0, "")

	r.bodyColor()
	pdf.SetFont("Arial", "", 10)
	pdf.CellFormat(0, 5, r.tr(r.doc.Number), "", 1, "R", false, 0, "")
	if !r.doc.Date.IsZero() {
		pdf.CellFormat(0, 5, r.doc.Date.Format("2006-01-02"), "", 1, "R", false, 0, "")
	}
	pdf.Ln(4)

	pdf.SetFont("Arial", "B", 12)
	pdf.CellFormat(0, 6, r.text(company.Name), "", 1, "L", false, 0, "")
	pdf.SetFont("Arial", "", 10)
	for _, line := range []string{company.Address, company.Phone, company.Email} {
		if line != "" {
			pdf.MultiCell(0, 5, r.tr(line), "", "L", false)
		}
	}
	pdf.Ln(6)
}

func (r *renderer) tableHeader(widths []float64, titles []string) {
	pdf := r.pdf
	r.fillColor(r.theme.Colors.HeaderBg)
	r.drawColor(r.theme.Colors.Border)
	r.textColor(r.theme.Colors.Secondary)
	pdf.SetFont("Arial", "B", 10)

	for i, title := range titles {
		align := "L"
		if i >= 2 {
			align = "R"
		}
		pdf.CellFormat(widths[i], lineHeight, r.text(title), "1", 0, align, true, 0, "")
	}
	pdf.Ln(-1)

	r.bodyColor()
	pdf.SetFont("Arial", "", 10)
}

func (r *renderer) row(widths []float64, cells []string) {
	for i, cell := range cells {
		align := "L"
		if i >= 2 {
			align = "R"
		}
		r.pdf.CellFormat(widths[i], lineHeight, cell, "1", 0, align, false, 0, "")
	}
	r.pdf.Ln(-1)
}

func (r *renderer) itemTable() {
	if len(r.doc.Items) == 0 {
		return
	}

	t := r.doc.Customization.ColumnTitles
	widths := []float64{25, 70, 20, 27, 28}
	r.tableHeader(widths, []string{t.Reference, t.Description, t.Quantity, t.UnitPrice, t.Total})

	for _, item := range r.doc.Items {
		desc := item.Description
		var notes []string
		if item.DiscountPercent > 0 {
			notes = append(notes, "-"+percent(item.DiscountPercent))
		}
		if item.VATPercent > 0 {
			notes = append(notes, "VAT "+percent(item.VATPercent))
		}
		if len(notes) > 0 {
			desc += " (" + strings.Join(notes, ", ") + ")"
		}

		r.row(widths, []string{
			r.text(item.Reference),
			r.text(desc),
			strconv.FormatFloat(item.Quantity, 'f', -1, 64),
			r.money(item.UnitPrice),
			r.money(calc.ItemTotal(item)),
		})
	}
	r.pdf.Ln(4)
}

func (r *renderer) hourlyTable() {
	if len(r.doc.HourlyItems) == 0 {
		return
	}

	t := r.doc.Customization.ColumnTitles
	widths := []float64{25, 70, 20, 27, 28}
	r.tableHeader(widths, []string{"", t.Description, "Hours", "Rate", t.Total})

	for _, h := range r.doc.HourlyItems {
		r.row(widths, []string{
			"",
			r.text(h.Description),
			strconv.FormatFloat(h.Hours, 'f', -1, 64),
			r.money(h.HourlyRate),
			r.money(calc.HourlyItemTotal(h)),
		})
	}
	r.pdf.Ln(4)
}

func (r *renderer) totals() {
	pdf := r.pdf
	totals := r.doc.Totals

	lines := []struct {
		label string
		value float64
	}{
		{"Subtotal", totals.SubtotalBeforeTax},
		{"Discount", totals.TotalDiscount},
		{"VAT", totals.TotalVAT},
	}

	pdf.SetFont("Arial", "", 10)
	for _, l := range lines {
		pdf.CellFormat(140, 6, r.text(l.label), "", 0, "R", false, 0, "")
		pdf.CellFormat(30, 6, r.money(l.value), "", 1, "R", false, 0, "")
	}

	r.textColor(r.theme.Colors.Primary)
	pdf.SetFont("Arial", "B", 12)
	pdf.CellFormat(140, 8, r.text("Total"), "T", 0, "R", false, 0, "")
	pdf.CellFormat(30, 8, r.money(totals.TotalWithTax), "T", 1, "R", false, 0, "")
	r.bodyColor()
	pdf.Ln(6)
}

func (r *renderer) payment() {
	c := r.doc.Customization
	if c.PaymentMethod == "" {
		return
	}
	r.pdf.SetFont("Arial", "B", 10)
	r.pdf.CellFormat(0, 6, r.text("Payment"), "", 1, "L", false, 0, "")
	r.pdf.SetFont("Arial", "", 10)
	r.pdf.MultiCell(0, 5, r.tr(c.PaymentMethod), "", "L", false)
}

func (r *renderer) footer() {
	pdf := r.pdf
	pdf.SetY(-pageMargin)
	pdf.SetFont("Arial", "I", 8)
	r.textColor(r.theme.Colors.Secondary)

	var parts []string
	if r.doc.Customization.FooterText != "" {
		parts = append(parts, r.doc.Customization.FooterText)
	}
	if r.doc.Company.LegalInfo != "" {
		parts = append(parts, r.doc.Company.LegalInfo)
	}
	parts = append(parts, fmt.Sprintf("Page %d", pdf.PageNo()))

	pdf.CellFormat(0, 5, r.tr(strings.Join(parts, "  |  ")), "", 0, "C", false, 0, "")
}

func percent(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64) + "%"
}
