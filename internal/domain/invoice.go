package domain

import (
	"fmt"
	"math"
	"time"

	"github.com/google/uuid"
)

// DateLayout is the format for invoice dates. Dates are form fields, not
// instants, so they are carried as plain strings.
const DateLayout = "2006-01-02"

// Side identifies which billing party an address-scoped operation targets.
type Side string

const (
	SideFrom Side = "from"
	SideTo   Side = "to"
)

// CustomField is a user-defined key/value pair attached to an address.
// An ordered list (rather than a map) tolerates blank and duplicate keys
// while the user is mid-edit.
type CustomField struct {
	Key   string `json:"key"`
	Value string `json:"value"`
}

// Address is a billing party: the sender ("from") or recipient ("to").
type Address struct {
	Name         string        `json:"name"`
	Street       string        `json:"street"`
	City         string        `json:"city"`
	State        string        `json:"state"`
	ZipCode      string        `json:"zipCode"`
	Country      string        `json:"country"`
	Email        string        `json:"email,omitempty"`
	Phone        string        `json:"phone,omitempty"`
	CustomFields []CustomField `json:"customFields,omitempty"`
}

// LineItem is one billable row: description, quantity, unit price, and the
// derived total. Total is never edited directly.
type LineItem struct {
	ID          string  `json:"id"`
	Description string  `json:"description"`
	Quantity    float64 `json:"quantity"`
	UnitPrice   float64 `json:"unitPrice"`
	Total       float64 `json:"total"`
}

// Invoice is the canonical invoice record. Subtotal, TaxAmount, Total and
// every item Total are derived; the editor package is the only place that
// recomputes them.
type Invoice struct {
	ID            string     `json:"id"`
	InvoiceNumber string     `json:"invoiceNumber"`
	DateIssued    string     `json:"dateIssued"`
	DateDue       string     `json:"dateDue"`
	From          Address    `json:"from"`
	To            Address    `json:"to"`
	Items         []LineItem `json:"items"`
	Notes         string     `json:"notes"`
	Terms         string     `json:"terms"`
	TaxRate       float64    `json:"taxRate"`
	TaxAmount     float64    `json:"taxAmount"`
	Subtotal      float64    `json:"subtotal"`
	Total         float64    `json:"total"`
	Currency      string     `json:"currency"`
	Logo          string     `json:"logo,omitempty"`
}

// Defaults seed a fresh invoice.
type Defaults struct {
	NumberPrefix string
	DueDays      int
	Currency     string
	TaxRate      float64
	From         Address
}

// New creates an invoice with generated defaults: fresh id and number,
// issued today, due after DueDays, zero items.
func New(d Defaults) *Invoice {
	prefix := d.NumberPrefix
	if prefix == "" {
		prefix = "INV"
	}
	currency := d.Currency
	if currency == "" {
		currency = "$"
	}
	dueDays := d.DueDays
	if dueDays <= 0 {
		dueDays = 30
	}

	now := time.Now()
	id := uuid.NewString()
	inv := &Invoice{
		ID:            id,
		InvoiceNumber: fmt.Sprintf("%s-%d-%s", prefix, now.Year(), id[:4]),
		DateIssued:    now.Format(DateLayout),
		DateDue:       now.AddDate(0, 0, dueDays).Format(DateLayout),
		From:          d.From,
		To:            Address{},
		Items:         []LineItem{},
		Currency:      currency,
	}
	inv.TaxRate = Sanitize(d.TaxRate)
	inv.Subtotal, inv.TaxAmount, inv.Total = Totals(inv.Items, inv.TaxRate)
	return inv
}

// NewItem creates a line item with a fresh id and quantity 1 at zero price,
// so adding it does not move the invoice totals.
func NewItem() LineItem {
	return LineItem{
		ID:       uuid.NewString(),
		Quantity: 1,
	}
}

// LineTotal returns quantity * unitPrice. Non-finite inputs clamp to 0,
// matching how the form coerces unparseable numbers.
func LineTotal(quantity, unitPrice float64) float64 {
	return Sanitize(quantity) * Sanitize(unitPrice)
}

// Totals computes the three derived figures from the item list and a tax
// rate expressed as a percentage. Values stay full precision; only
// presentation rounds to two decimals.
func Totals(items []LineItem, taxRate float64) (subtotal, taxAmount, total float64) {
	for _, item := range items {
		subtotal += item.Total
	}
	taxAmount = subtotal * (Sanitize(taxRate) / 100)
	total = subtotal + taxAmount
	return subtotal, taxAmount, total
}

// Sanitize clamps NaN and infinities to 0. Every numeric value entering the
// invoice passes through here: NaN or Inf stored on an invoice would poison
// the derived totals and make the record unserializable.
func Sanitize(x float64) float64 {
	if math.IsNaN(x) || math.IsInf(x, 0) {
		return 0
	}
	return x
}

// Clone returns a deep copy. Editor operations copy before mutating so the
// caller's value is never changed under it.
func (inv *Invoice) Clone() *Invoice {
	out := *inv
	out.From = inv.From.clone()
	out.To = inv.To.clone()
	out.Items = make([]LineItem, len(inv.Items))
	copy(out.Items, inv.Items)
	return &out
}

func (a Address) clone() Address {
	out := a
	if a.CustomFields != nil {
		out.CustomFields = make([]CustomField, len(a.CustomFields))
		copy(out.CustomFields, a.CustomFields)
	}
	return out
}

// Side returns the address for the given side. The returned pointer aliases
// the invoice; callers that need isolation clone first.
func (inv *Invoice) Side(side Side) *Address {
	if side == SideFrom {
		return &inv.From
	}
	return &inv.To
}
