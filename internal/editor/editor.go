// Package editor is the single point of mutation for an in-memory invoice.
// Every operation takes an invoice value and returns a new one with the
// derived totals already consistent; the input is never modified.
package editor

import (
	"fmt"

	"github.com/mabel/billfold/internal/domain"
)

// ItemPatch carries replacement values for a line item's editable fields.
// Nil fields are left as they are.
type ItemPatch struct {
	Description *string
	Quantity    *float64
	UnitPrice   *float64
}

// AddItem appends a fresh line item (quantity 1, price 0). The new item
// contributes nothing, so the invoice totals do not move.
func AddItem(inv *domain.Invoice) *domain.Invoice {
	out := inv.Clone()
	out.Items = append(out.Items, domain.NewItem())
	return out
}

// UpdateItem replaces the matching item's editable fields, recomputes its
// total, then the invoice totals. An unknown id is a tolerated no-op: the
// form cannot produce a dangling id under normal operation.
func UpdateItem(inv *domain.Invoice, itemID string, patch ItemPatch) *domain.Invoice {
	idx := indexOfItem(inv.Items, itemID)
	if idx < 0 {
		return inv
	}

	out := inv.Clone()
	item := &out.Items[idx]
	if patch.Description != nil {
		item.Description = *patch.Description
	}
	if patch.Quantity != nil {
		item.Quantity = domain.Sanitize(*patch.Quantity)
	}
	if patch.UnitPrice != nil {
		item.UnitPrice = domain.Sanitize(*patch.UnitPrice)
	}
	item.Total = domain.LineTotal(item.Quantity, item.UnitPrice)

	recompute(out)
	return out
}

// RemoveItem deletes the matching item and recomputes the invoice totals.
// An unknown id is a no-op.
func RemoveItem(inv *domain.Invoice, itemID string) *domain.Invoice {
	idx := indexOfItem(inv.Items, itemID)
	if idx < 0 {
		return inv
	}

	out := inv.Clone()
	out.Items = append(out.Items[:idx], out.Items[idx+1:]...)
	recompute(out)
	return out
}

// SetTaxRate sets the rate and recomputes tax amount and total from the
// existing subtotal. Item totals are untouched. A non-finite rate clamps
// to 0 like any other numeric input.
func SetTaxRate(inv *domain.Invoice, rate float64) *domain.Invoice {
	rate = domain.Sanitize(rate)
	out := inv.Clone()
	out.TaxRate = rate
	out.TaxAmount = out.Subtotal * (rate / 100)
	out.Total = out.Subtotal + out.TaxAmount
	return out
}

func recompute(inv *domain.Invoice) {
	inv.Subtotal, inv.TaxAmount, inv.Total = domain.Totals(inv.Items, inv.TaxRate)
}

func indexOfItem(items []domain.LineItem, id string) int {
	for i := range items {
		if items[i].ID == id {
			return i
		}
	}
	return -1
}

// Field names a directly settable scalar on the invoice. Derived values
// (subtotal, tax amount, total, item totals) have no Field constant, so
// they cannot be set through here.
type Field int

const (
	FieldInvoiceNumber Field = iota
	FieldDateIssued
	FieldDateDue
	FieldNotes
	FieldTerms
	FieldCurrency
	FieldLogo
)

// SetField sets a scalar invoice field.
func SetField(inv *domain.Invoice, field Field, value string) *domain.Invoice {
	out := inv.Clone()
	switch field {
	case FieldInvoiceNumber:
		out.InvoiceNumber = value
	case FieldDateIssued:
		out.DateIssued = value
	case FieldDateDue:
		out.DateDue = value
	case FieldNotes:
		out.Notes = value
	case FieldTerms:
		out.Terms = value
	case FieldCurrency:
		out.Currency = value
	case FieldLogo:
		out.Logo = value
	}
	return out
}

// AddressField names a settable scalar on one billing party.
type AddressField int

const (
	AddrName AddressField = iota
	AddrStreet
	AddrCity
	AddrState
	AddrZipCode
	AddrCountry
	AddrEmail
	AddrPhone
)

// SetAddressField sets a scalar field on the given side's address.
func SetAddressField(inv *domain.Invoice, side domain.Side, field AddressField, value string) *domain.Invoice {
	out := inv.Clone()
	addr := out.Side(side)
	switch field {
	case AddrName:
		addr.Name = value
	case AddrStreet:
		addr.Street = value
	case AddrCity:
		addr.City = value
	case AddrState:
		addr.State = value
	case AddrZipCode:
		addr.ZipCode = value
	case AddrCountry:
		addr.Country = value
	case AddrEmail:
		addr.Email = value
	case AddrPhone:
		addr.Phone = value
	}
	return out
}

// AddCustomField inserts a placeholder entry on the given side. The
// generated key starts at "Custom Field N" for N = count+1 and is bumped
// until it is unique within the side, so renames and removals can never
// make two generated keys collide.
func AddCustomField(inv *domain.Invoice, side domain.Side) *domain.Invoice {
	out := inv.Clone()
	addr := out.Side(side)

	n := len(addr.CustomFields) + 1
	key := fmt.Sprintf("Custom Field %d", n)
	for hasKey(addr.CustomFields, key) {
		n++
		key = fmt.Sprintf("Custom Field %d", n)
	}

	addr.CustomFields = append(addr.CustomFields, domain.CustomField{Key: key})
	return out
}

// RenameCustomField changes an entry's key, preserving its value. If the
// new key collides with another entry it is suffixed " (2)", " (3)", ...
// until unique, so a rename never silently merges two fields. Renaming an
// absent key is a no-op.
func RenameCustomField(inv *domain.Invoice, side domain.Side, key, newKey string) *domain.Invoice {
	idx := indexOfKey(inv.Side(side).CustomFields, key)
	if idx < 0 || key == newKey {
		return inv
	}

	out := inv.Clone()
	fields := out.Side(side).CustomFields

	unique := newKey
	for n := 2; keyTakenElsewhere(fields, unique, idx); n++ {
		unique = fmt.Sprintf("%s (%d)", newKey, n)
	}
	fields[idx].Key = unique
	return out
}

// SetCustomFieldValue updates the value of the entry with the given key.
// An absent key is a no-op.
func SetCustomFieldValue(inv *domain.Invoice, side domain.Side, key, value string) *domain.Invoice {
	idx := indexOfKey(inv.Side(side).CustomFields, key)
	if idx < 0 {
		return inv
	}

	out := inv.Clone()
	out.Side(side).CustomFields[idx].Value = value
	return out
}

// RemoveCustomField deletes the entry with the given key. An absent key is
// a no-op.
func RemoveCustomField(inv *domain.Invoice, side domain.Side, key string) *domain.Invoice {
	idx := indexOfKey(inv.Side(side).CustomFields, key)
	if idx < 0 {
		return inv
	}

	out := inv.Clone()
	fields := out.Side(side).CustomFields
	out.Side(side).CustomFields = append(fields[:idx], fields[idx+1:]...)
	return out
}

func indexOfKey(fields []domain.CustomField, key string) int {
	for i := range fields {
		if fields[i].Key == key {
			return i
		}
	}
	return -1
}

func hasKey(fields []domain.CustomField, key string) bool {
	return indexOfKey(fields, key) >= 0
}

func keyTakenElsewhere(fields []domain.CustomField, key string, self int) bool {
	for i := range fields {
		if i != self && fields[i].Key == key {
			return true
		}
	}
	return false
}
