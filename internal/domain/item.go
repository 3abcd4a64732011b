package domain

import (
	"errors"
	"fmt"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/go-playground/validator/v10/non-standard/validators"
)

var validate = newValidator()

func newValidator() *validator.Validate {
	v := validator.New(validator.WithRequiredStructEnabled())
	_ = v.RegisterValidation("notblank", validators.NotBlank)
	return v
}

// ErrInvalidEntry is returned when an entry fails the keepable-entry check
var ErrInvalidEntry = errors.New("invalid entry")

// LineItem is a quantity-priced invoice line.
// Its total is always derived from the four numeric inputs.
type LineItem struct {
	ID              string  `yaml:"id,omitempty" json:"id"`
	Reference       string  `yaml:"reference" json:"reference" validate:"notblank"`
	Description     string  `yaml:"description" json:"description" validate:"notblank"`
	Quantity        float64 `yaml:"quantity" json:"quantity" validate:"gt=0"`
	UnitPrice       float64 `yaml:"unit_price" json:"unitPrice" validate:"gt=0"`
	DiscountPercent float64 `yaml:"discount" json:"discount" validate:"gte=0,lte=100"`
	VATPercent      float64 `yaml:"vat" json:"vat" validate:"gte=0"`
}

// HourlyItem is a service billed by duration
type HourlyItem struct {
	ID          string  `yaml:"id,omitempty" json:"id"`
	Description string  `yaml:"description" json:"description" validate:"notblank"`
	Hours       float64 `yaml:"hours" json:"hours" validate:"gt=0"`
	HourlyRate  float64 `yaml:"hourly_rate" json:"hourlyRate" validate:"gt=0"`
}

// NewLineItem creates a line item, defaulting quantity to 1
func NewLineItem(reference, description string, quantity, unitPrice, discount, vat float64) LineItem {
	if quantity == 0 {
		quantity = 1
	}
	return LineItem{
		Reference:       strings.TrimSpace(reference),
		Description:     strings.TrimSpace(description),
		Quantity:        quantity,
		UnitPrice:       unitPrice,
		DiscountPercent: discount,
		VATPercent:      vat,
	}
}

// NewHourlyItem creates an hourly item
func NewHourlyItem(description string, hours, rate float64) HourlyItem {
	return HourlyItem{
		Description: strings.TrimSpace(description),
		Hours:       hours,
		HourlyRate:  rate,
	}
}

// Validate reports whether the line is complete enough to keep on the invoice.
// This is stricter than what the calculators accept: a line failing it may
// still be stored while the user keeps editing.
func (i *LineItem) Validate() error {
	return validationError(validate.Struct(i))
}

// Validate reports whether the hourly item is complete enough to keep
func (h *HourlyItem) Validate() error {
	return validationError(validate.Struct(h))
}

// ValidateCustomization checks the color fields of a customization block
func ValidateCustomization(c *Customization) error {
	return validationError(validate.Struct(c))
}

// ValidateCompany checks the issuer block
func ValidateCompany(c *Company) error {
	return validationError(validate.Struct(c))
}

func validationError(err error) error {
	if err == nil {
		return nil
	}
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return err
	}
	fields := make([]string, 0, len(verrs))
	for _, fe := range verrs {
		fields = append(fields, fmt.Sprintf("%s (%s)", strings.ToLower(fe.Field()), fe.Tag()))
	}
	return fmt.Errorf("%w: %s", ErrInvalidEntry, strings.Join(fields, ", "))
}

// ValidateColor checks a "#rgb" or "#rrggbb" color
func ValidateColor(s string) error {
	return validationError(validate.Var(s, "hexcolor"))
}
