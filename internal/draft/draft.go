// Package draft reads the YAML files used to seed an editing session.
package draft

import (
	"errors"
	"fmt"
	"os"
	"strings"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/andy/billdraft/internal/currency"
	"github.com/andy/billdraft/internal/domain"
	"github.com/andy/billdraft/internal/theme"
)

const dateLayout = "2006-01-02"

var ErrInvalidDraft = errors.New("invalid draft")

// Draft is the on-disk description of an invoice
type Draft struct {
	Number        string                `yaml:"number"`
	Date          string                `yaml:"date,omitempty"`
	Currency      string                `yaml:"currency,omitempty"`
	Theme         string                `yaml:"theme,omitempty"`
	Company       domain.Company        `yaml:"company"`
	Customization *domain.Customization `yaml:"customization,omitempty"`
	Items         []domain.LineItem     `yaml:"items,omitempty"`
	Hourly        []domain.HourlyItem   `yaml:"hourly,omitempty"`
}

// Load reads and parses a draft file
func Load(path string) (*Draft, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read draft: %w", err)
	}
	return Parse(data)
}

// Parse decodes a draft from YAML
func Parse(data []byte) (*Draft, error) {
	var d Draft
	if err := yaml.Unmarshal(data, &d); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidDraft, err)
	}
	return &d, nil
}

// Document converts the draft into a document.
// Missing quantities default to 1; theme and currency fall back to the given defaults.
func (d *Draft) Document(defaultCurrency, defaultTheme string) (domain.Document, error) {
	doc := domain.NewDocument("", strings.TrimSpace(d.Number))

	if d.Date != "" {
		date, err := time.ParseInLocation(dateLayout, d.Date, time.Local)
		if err != nil {
			return domain.Document{}, fmt.Errorf("%w: date %q: expected YYYY-MM-DD", ErrInvalidDraft, d.Date)
		}
		doc.Date = date
	}

	doc.Currency = firstNonEmpty(d.Currency, defaultCurrency, domain.DefaultCurrency)
	c, err := currency.Lookup(doc.Currency)
	if err != nil {
		return domain.Document{}, fmt.Errorf("%w: %v", ErrInvalidDraft, err)
	}
	doc.Currency = c.Code

	doc.Theme = strings.ToLower(firstNonEmpty(d.Theme, defaultTheme, domain.DefaultTheme))
	if !theme.Exists(doc.Theme) {
		return domain.Document{}, fmt.Errorf("%w: %w: %q", ErrInvalidDraft, theme.ErrUnknownTheme, doc.Theme)
	}

	if err := domain.ValidateCompany(&d.Company); err != nil {
		return domain.Document{}, fmt.Errorf("%w: company: %w", ErrInvalidDraft, err)
	}
	doc.Company = d.Company

	if d.Customization != nil {
		if err := domain.ValidateCustomization(d.Customization); err != nil {
			return domain.Document{}, fmt.Errorf("%w: customization: %w", ErrInvalidDraft, err)
		}
		doc.Customization = *d.Customization
	}

	for _, item := range d.Items {
		doc.Items = append(doc.Items, domain.NewLineItem(
			item.Reference, item.Description, item.Quantity, item.UnitPrice, item.DiscountPercent, item.VATPercent,
		))
	}
	for _, h := range d.Hourly {
		doc.HourlyItems = append(doc.HourlyItems, domain.NewHourlyItem(h.Description, h.Hours, h.HourlyRate))
	}

	return *doc, nil
}

// FromDocument builds a draft describing doc
func FromDocument(doc domain.Document) *Draft {
	c := doc.Customization
	d := &Draft{
		Number:        doc.Number,
		Currency:      doc.Currency,
		Theme:         doc.Theme,
		Company:       doc.Company,
		Customization: &c,
		Items:         make([]domain.LineItem, len(doc.Items)),
		Hourly:        make([]domain.HourlyItem, len(doc.HourlyItems)),
	}
	if !doc.Date.IsZero() {
		d.Date = doc.Date.Format(dateLayout)
	}
	for i, item := range doc.Items {
		item.ID = ""
		d.Items[i] = item
	}
	for i, h := range doc.HourlyItems {
		h.ID = ""
		d.Hourly[i] = h
	}
	return d
}

// Marshal encodes the draft as YAML
func (d *Draft) Marshal() ([]byte, error) {
	return yaml.Marshal(d)
}

// Save writes the draft to path, refusing to overwrite an existing file
func (d *Draft) Save(path string) error {
	data, err := d.Marshal()
	if err != nil {
		return err
	}
	f, err := os.OpenFile(path, os.O_WRONLY|os.O_CREATE|os.O_EXCL, 0644)
	if err != nil {
		return err
	}
	if _, err := f.Write(data); err != nil {
		f.Close()
		return err
	}
	return f.Close()
}

// Example returns a small draft showing every section
func Example() *Draft {
	return &Draft{
		Number:   "INV-0001",
		Date:     time.Now().Format(dateLayout),
		Currency: domain.DefaultCurrency,
		Theme:    domain.DefaultTheme,
		Company: domain.Company{
			Name:    "Acme Studio",
			Address: "1 Example Street",
			Email:   "billing@example.com",
		},
		Items: []domain.LineItem{
			domain.NewLineItem("WEB-01", "Landing page design", 1, 1200, 10, 20),
		},
		Hourly: []domain.HourlyItem{
			domain.NewHourlyItem("Consulting", 8, 50),
		},
	}
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if v = strings.TrimSpace(v); v != "" {
			return v
		}
	}
	return ""
}
