package domain

import (
	"time"
)

// Document defaults
const (
	DefaultTheme    = "default"
	DefaultCurrency = "EUR"
)

// Company holds the issuer block printed at the top of the invoice
type Company struct {
	Name      string `yaml:"name" json:"name"`
	LogoPath  string `yaml:"logo_path" json:"logoPath"`
	Address   string `yaml:"address" json:"address"`
	Phone     string `yaml:"phone" json:"phone"`
	Email     string `yaml:"email" json:"email" validate:"omitempty,email"`
	LegalInfo string `yaml:"legal_info" json:"legalInfo"`
}

// ColumnTitles are the user-editable headers of the item table
type ColumnTitles struct {
	Reference   string `yaml:"reference" json:"reference"`
	Description string `yaml:"description" json:"description"`
	Quantity    string `yaml:"quantity" json:"quantity"`
	UnitPrice   string `yaml:"unit_price" json:"unitPrice"`
	Total       string `yaml:"total" json:"total"`
}

// Customization is the per-document presentation block
type Customization struct {
	TextColor       string       `yaml:"text_color" json:"textColor" validate:"omitempty,hexcolor"`
	BackgroundColor string       `yaml:"background_color" json:"backgroundColor" validate:"omitempty,hexcolor"`
	AutoUppercase   bool         `yaml:"auto_uppercase" json:"autoUppercase"`
	ColumnTitles    ColumnTitles `yaml:"column_titles" json:"columnTitles"`
	FooterText      string       `yaml:"footer_text" json:"footerText"`
	PaymentMethod   string       `yaml:"payment_method" json:"paymentMethod"`
}

// DefaultCustomization returns the customization block of a fresh document
func DefaultCustomization() Customization {
	return Customization{
		TextColor:       "#000000",
		BackgroundColor: "#ffffff",
		ColumnTitles: ColumnTitles{
			Reference:   "Reference",
			Description: "Description",
			Quantity:    "Quantity",
			UnitPrice:   "Unit price",
			Total:       "Total",
		},
	}
}

// Totals are the aggregate amounts of a document.
// They are overwritten as a whole by the recalculation core and never edited directly.
type Totals struct {
	SubtotalBeforeTax float64 `yaml:"subtotal_before_tax" json:"subtotalBeforeTax"`
	TotalDiscount     float64 `yaml:"total_discount" json:"totalDiscount"`
	TotalVAT          float64 `yaml:"total_vat" json:"totalVat"`
	TotalWithTax      float64 `yaml:"total_with_tax" json:"totalWithTax"`
}

// Document is the invoice being edited during a session
type Document struct {
	ID            string
	Number        string
	Date          time.Time
	Company       Company
	Items         []LineItem
	HourlyItems   []HourlyItem
	Totals        Totals
	Theme         string
	Currency      string
	Customization Customization
}

// NewDocument creates an empty document with zeroed totals
func NewDocument(id, number string) *Document {
	return &Document{
		ID:            id,
		Number:        number,
		Date:          time.Now(),
		Items:         make([]LineItem, 0),
		HourlyItems:   make([]HourlyItem, 0),
		Theme:         DefaultTheme,
		Currency:      DefaultCurrency,
		Customization: DefaultCustomization(),
	}
}

// Clone returns a deep copy of the document
func (d *Document) Clone() Document {
	out := *d
	out.Items = make([]LineItem, len(d.Items))
	copy(out.Items, d.Items)
	out.HourlyItems = make([]HourlyItem, len(d.HourlyItems))
	copy(out.HourlyItems, d.HourlyItems)
	return out
}

// FindItem returns the index of the line item with the given id, or -1
func (d *Document) FindItem(id string) int {
	for i := range d.Items {
		if d.Items[i].ID == id {
			return i
		}
	}
	return -1
}

// FindHourlyItem returns the index of the hourly item with the given id, or -1
func (d *Document) FindHourlyItem(id string) int {
	for i := range d.HourlyItems {
		if d.HourlyItems[i].ID == id {
			return i
		}
	}
	return -1
}

// IsEmpty reports whether the document has no billable lines
func (d *Document) IsEmpty() bool {
	return len(d.Items) == 0 && len(d.HourlyItems) == 0
}
