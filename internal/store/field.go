package store

import (
	"fmt"
	"sort"
	"strconv"
	"strings"
	"time"

	"github.com/andy/billdraft/internal/domain"
)

// Field selects a scalar field of the document that can be written directly.
// Collections, theme, currency and totals have dedicated setters.
type Field int

const (
	FieldNumber Field = iota + 1
	FieldDate

	FieldCompanyName
	FieldCompanyLogo
	FieldCompanyAddress
	FieldCompanyPhone
	FieldCompanyEmail
	FieldCompanyLegalInfo

	FieldTextColor
	FieldBackgroundColor
	FieldAutoUppercase
	FieldFooterText
	FieldPaymentMethod

	FieldTitleReference
	FieldTitleDescription
	FieldTitleQuantity
	FieldTitleUnitPrice
	FieldTitleTotal
)

// DateLayout is the accepted format for FieldDate values
const DateLayout = "2006-01-02"

var fieldKeys = map[Field]string{
	FieldNumber:           "number",
	FieldDate:             "date",
	FieldCompanyName:      "company.name",
	FieldCompanyLogo:      "company.logo",
	FieldCompanyAddress:   "company.address",
	FieldCompanyPhone:     "company.phone",
	FieldCompanyEmail:     "company.email",
	FieldCompanyLegalInfo: "company.legalInfo",
	FieldTextColor:        "customization.textColor",
	FieldBackgroundColor:  "customization.backgroundColor",
	FieldAutoUppercase:    "customization.autoUppercase",
	FieldFooterText:       "customization.footerText",
	FieldPaymentMethod:    "customization.paymentMethod",
	FieldTitleReference:   "customization.columnTitles.reference",
	FieldTitleDescription: "customization.columnTitles.description",
	FieldTitleQuantity:    "customization.columnTitles.quantity",
	FieldTitleUnitPrice:   "customization.columnTitles.unitPrice",
	FieldTitleTotal:       "customization.columnTitles.total",
}

var keyFields = func() map[string]Field {
	m := make(map[string]Field, len(fieldKeys))
	for f, k := range fieldKeys {
		m[strings.ToLower(k)] = f
	}
	return m
}()

// String returns the dotted key of the field
func (f Field) String() string {
	if k, ok := fieldKeys[f]; ok {
		return k
	}
	return fmt.Sprintf("field(%d)", int(f))
}

// ParseField maps a dotted key such as "company.name" to its Field.
// Matching is case-insensitive.
func ParseField(key string) (Field, error) {
	f, ok := keyFields[strings.ToLower(strings.TrimSpace(key))]
	if !ok {
		return 0, fmt.Errorf("%w: %q", ErrUnknownField, key)
	}
	return f, nil
}

// FieldKeys returns every accepted dotted key in sorted order
func FieldKeys() []string {
	keys := make([]string, 0, len(fieldKeys))
	for _, k := range fieldKeys {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

// Get returns the current value of a field formatted as a string
func Get(doc *domain.Document, f Field) (string, error) {
	c := &doc.Customization
	switch f {
	case FieldNumber:
		return doc.Number, nil
	case FieldDate:
		return doc.Date.Format(DateLayout), nil
	case FieldCompanyName:
		return doc.Company.Name, nil
	case FieldCompanyLogo:
		return doc.Company.LogoPath, nil
	case FieldCompanyAddress:
		return doc.Company.Address, nil
	case FieldCompanyPhone:
		return doc.Company.Phone, nil
	case FieldCompanyEmail:
		return doc.Company.Email, nil
	case FieldCompanyLegalInfo:
		return doc.Company.LegalInfo, nil
	case FieldTextColor:
		return c.TextColor, nil
	case FieldBackgroundColor:
		return c.BackgroundColor, nil
	case FieldAutoUppercase:
		return strconv.FormatBool(c.AutoUppercase), nil
	case FieldFooterText:
		return c.FooterText, nil
	case FieldPaymentMethod:
		return c.PaymentMethod, nil
	case FieldTitleReference:
		return c.ColumnTitles.Reference, nil
	case FieldTitleDescription:
		return c.ColumnTitles.Description, nil
	case FieldTitleQuantity:
		return c.ColumnTitles.Quantity, nil
	case FieldTitleUnitPrice:
		return c.ColumnTitles.UnitPrice, nil
	case FieldTitleTotal:
		return c.ColumnTitles.Total, nil
	}
	return "", fmt.Errorf("%w: %s", ErrUnknownField, f)
}

// set writes value into the field of doc
func set(doc *domain.Document, f Field, value string) error {
	c := &doc.Customization
	switch f {
	case FieldNumber:
		doc.Number = value
	case FieldDate:
		d, err := time.ParseInLocation(DateLayout, strings.TrimSpace(value), time.Local)
		if err != nil {
			return fmt.Errorf("%w: date %q: expected YYYY-MM-DD", ErrInvalidValue, value)
		}
		doc.Date = d
	case FieldCompanyName:
		doc.Company.Name = value
	case FieldCompanyLogo:
		doc.Company.LogoPath = value
	case FieldCompanyAddress:
		doc.Company.Address = value
	case FieldCompanyPhone:
		doc.Company.Phone = value
	case FieldCompanyEmail:
		doc.Company.Email = value
	case FieldCompanyLegalInfo:
		doc.Company.LegalInfo = value
	case FieldTextColor:
		c.TextColor = value
	case FieldBackgroundColor:
		c.BackgroundColor = value
	case FieldAutoUppercase:
		b, err := strconv.ParseBool(strings.TrimSpace(value))
		if err != nil {
			return fmt.Errorf("%w: autoUppercase %q", ErrInvalidValue, value)
		}
		c.AutoUppercase = b
	case FieldFooterText:
		c.FooterText = value
	case FieldPaymentMethod:
		c.PaymentMethod = value
	case FieldTitleReference:
		c.ColumnTitles.Reference = value
	case FieldTitleDescription:
		c.ColumnTitles.Description = value
	case FieldTitleQuantity:
		c.ColumnTitles.Quantity = value
	case FieldTitleUnitPrice:
		c.ColumnTitles.UnitPrice = value
	case FieldTitleTotal:
		c.ColumnTitles.Total = value
	default:
		return fmt.Errorf("%w: %s", ErrUnknownField, f)
	}
	return nil
}
