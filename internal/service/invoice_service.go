package service

import (
	"fmt"
	"strings"

	"github.com/sirupsen/logrus"

	"github.com/andy/billdraft/internal/currency"
	"github.com/andy/billdraft/internal/domain"
	"github.com/andy/billdraft/internal/reactive"
	"github.com/andy/billdraft/internal/store"
	"github.com/andy/billdraft/internal/theme"
)

// Store is the document store the service edits
type Store interface {
	Snapshot() domain.Document
	Totals() domain.Totals
	Load(doc domain.Document)
	Reset()

	SetField(f store.Field, value string) error
	SetCompany(c domain.Company)
	SetCustomization(c domain.Customization)
	SetTheme(name string)
	SetCurrency(code string)

	AddItem(item domain.LineItem) string
	ReplaceItem(id string, item domain.LineItem) error
	RemoveItem(id string) error
	AddHourlyItem(item domain.HourlyItem) string
	ReplaceHourlyItem(id string, item domain.HourlyItem) error
	RemoveHourlyItem(id string) error
}

// Submitter receives the update requests that follow every edit
type Submitter interface {
	Submit(req reactive.Request)
}

// InvoiceService applies user edits to the document and schedules the recomputation they need
type InvoiceService interface {
	// Document returns a snapshot of the current document
	Document() domain.Document

	// Totals returns the last computed totals
	Totals() domain.Totals

	// Load replaces the document, e.g. from a draft file
	Load(doc domain.Document) error

	// Reset starts over with an empty document and the default theme
	Reset()

	// AddItem appends a line item, defaulting quantity to 1, and returns its id
	AddItem(item domain.LineItem) string

	// UpdateItem replaces a line item, keeping its id
	UpdateItem(id string, item domain.LineItem) error

	// RemoveItem deletes a line item
	RemoveItem(id string) error

	// AddHourlyItem appends an hourly item and returns its id
	AddHourlyItem(item domain.HourlyItem) string

	// UpdateHourlyItem replaces an hourly item, keeping its id
	UpdateHourlyItem(id string, item domain.HourlyItem) error

	// RemoveHourlyItem deletes an hourly item
	RemoveHourlyItem(id string) error

	// SetField writes one scalar field of the document
	SetField(f store.Field, value string) error

	// SetCompanyInfo merges the non-empty fields of c into the company block
	SetCompanyInfo(c domain.Company) error

	// SetCustomization replaces the customization block
	SetCustomization(c domain.Customization) error

	// ApplyTheme switches the active theme
	ApplyTheme(id string) error

	// CustomizeTheme layers overrides on the active theme
	CustomizeTheme(c theme.Customizations) error

	// SetCurrency changes the display currency
	SetCurrency(code string) error

	// Theme returns the active theme with customizations applied
	Theme() theme.Theme
}

type invoiceService struct {
	store  Store
	themes *theme.Manager
	sched  Submitter
	log    logrus.FieldLogger
}

// NewInvoiceService creates a new invoice service
func NewInvoiceService(st Store, themes *theme.Manager, sched Submitter, log logrus.FieldLogger) InvoiceService {
	return &invoiceService{
		store:  st,
		themes: themes,
		sched:  sched,
		log:    log,
	}
}

func (s *invoiceService) submit(reqs ...reactive.Request) {
	for _, req := range reqs {
		s.sched.Submit(req)
	}
}

func (s *invoiceService) Document() domain.Document {
	return s.store.Snapshot()
}

func (s *invoiceService) Totals() domain.Totals {
	return s.store.Totals()
}

func (s *invoiceService) Load(doc domain.Document) error {
	if doc.Theme == "" {
		doc.Theme = domain.DefaultTheme
	}
	if doc.Currency == "" {
		doc.Currency = domain.DefaultCurrency
	}

	if err := s.themes.Apply(doc.Theme); err != nil {
		return err
	}
	c, err := currency.Lookup(doc.Currency)
	if err != nil {
		return err
	}
	doc.Currency = c.Code
	doc.Theme = s.themes.Current()

	s.store.Load(doc)
	s.log.WithFields(logrus.Fields{
		"items":  len(doc.Items),
		"hourly": len(doc.HourlyItems),
	}).Debug("document loaded")

	s.submit(reactive.Totals("document-loaded"), reactive.Display("document-loaded"))
	return nil
}

func (s *invoiceService) Reset() {
	s.store.Reset()
	s.themes.Reset()
	s.submit(reactive.Totals("reset"), reactive.Display("reset"))
}

func (s *invoiceService) AddItem(item domain.LineItem) string {
	item.ID = ""
	item = domain.NewLineItem(item.Reference, item.Description, item.Quantity, item.UnitPrice, item.DiscountPercent, item.VATPercent)

	id := s.store.AddItem(item)
	s.submit(reactive.Totals("item-added"), reactive.ItemRow(id, "item-added"), reactive.Display("item-added"))
	return id
}

func (s *invoiceService) UpdateItem(id string, item domain.LineItem) error {
	if err := s.store.ReplaceItem(id, item); err != nil {
		return err
	}
	s.submit(reactive.Totals("item-update"), reactive.ItemRow(id, "item-update"))
	return nil
}

func (s *invoiceService) RemoveItem(id string) error {
	if err := s.store.RemoveItem(id); err != nil {
		return err
	}
	s.submit(reactive.Totals("item-removed"), reactive.Display("item-removed"))
	return nil
}

func (s *invoiceService) AddHourlyItem(item domain.HourlyItem) string {
	item = domain.NewHourlyItem(item.Description, item.Hours, item.HourlyRate)

	id := s.store.AddHourlyItem(item)
	s.submit(reactive.Totals("hourly-added"), reactive.HourlyRow(id, "hourly-added"), reactive.Display("hourly-added"))
	return id
}

func (s *invoiceService) UpdateHourlyItem(id string, item domain.HourlyItem) error {
	if err := s.store.ReplaceHourlyItem(id, item); err != nil {
		return err
	}
	s.submit(reactive.Totals("hourly-update"), reactive.HourlyRow(id, "hourly-update"))
	return nil
}

func (s *invoiceService) RemoveHourlyItem(id string) error {
	if err := s.store.RemoveHourlyItem(id); err != nil {
		return err
	}
	s.submit(reactive.Totals("hourly-removed"), reactive.Display("hourly-removed"))
	return nil
}

func (s *invoiceService) SetField(f store.Field, value string) error {
	switch f {
	case store.FieldTextColor, store.FieldBackgroundColor:
		if err := domain.ValidateColor(value); err != nil {
			return fmt.Errorf("%s: %w", f, err)
		}
	case store.FieldCompanyEmail:
		c := domain.Company{Email: value}
		if err := domain.ValidateCompany(&c); err != nil {
			return fmt.Errorf("%s: %w", f, err)
		}
	}

	if err := s.store.SetField(f, value); err != nil {
		return err
	}
	s.submit(reactive.Display("field:" + f.String()))
	return nil
}

func (s *invoiceService) SetCompanyInfo(c domain.Company) error {
	merged := s.store.Snapshot().Company
	mergeString(&merged.Name, c.Name)
	mergeString(&merged.LogoPath, c.LogoPath)
	mergeString(&merged.Address, c.Address)
	mergeString(&merged.Phone, c.Phone)
	mergeString(&merged.Email, c.Email)
	mergeString(&merged.LegalInfo, c.LegalInfo)

	if err := domain.ValidateCompany(&merged); err != nil {
		return err
	}

	s.store.SetCompany(merged)
	s.submit(reactive.Display("company-info"))
	return nil
}

func (s *invoiceService) SetCustomization(c domain.Customization) error {
	if err := domain.ValidateCustomization(&c); err != nil {
		return err
	}
	s.store.SetCustomization(c)
	s.submit(reactive.Display("customization"))
	return nil
}

func (s *invoiceService) ApplyTheme(id string) error {
	if err := s.themes.Apply(id); err != nil {
		return err
	}
	s.store.SetTheme(s.themes.Current())
	s.submit(reactive.Display("theme-change"))
	return nil
}

func (s *invoiceService) CustomizeTheme(c theme.Customizations) error {
	if err := s.themes.CustomizeColors(c.Colors); err != nil {
		return err
	}
	if err := s.themes.CustomizeLayout(c.Layout); err != nil {
		return err
	}
	s.themes.CustomizeFonts(c.Fonts)
	s.submit(reactive.Display("theme-customized"))
	return nil
}

func (s *invoiceService) SetCurrency(code string) error {
	c, err := currency.Lookup(code)
	if err != nil {
		return err
	}
	s.store.SetCurrency(c.Code)
	s.submit(reactive.Totals("currency-change"), reactive.Display("currency-format"))
	return nil
}

func (s *invoiceService) Theme() theme.Theme {
	return s.themes.Effective()
}

func mergeString(dst *string, v string) {
	if v = strings.TrimSpace(v); v != "" {
		*dst = v
	}
}
