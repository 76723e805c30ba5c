package domain

import (
	"encoding/json"
	"math"
	"reflect"
	"testing"
	"time"
)

func TestLineTotal(t *testing.T) {
	if got := LineTotal(3, 50); got != 150 {
		t.Fatalf("expected 150, got %v", got)
	}
	if got := LineTotal(0, 99.99); got != 0 {
		t.Fatalf("expected 0 for zero quantity, got %v", got)
	}
	if got := LineTotal(math.NaN(), 50); got != 0 {
		t.Fatalf("expected NaN quantity to clamp to 0, got %v", got)
	}
	if got := LineTotal(2, math.Inf(1)); got != 0 {
		t.Fatalf("expected infinite price to clamp to 0, got %v", got)
	}
}

func TestTotals(t *testing.T) {
	items := []LineItem{
		{ID: "a", Quantity: 3, UnitPrice: 50, Total: 150},
		{ID: "b", Quantity: 1, UnitPrice: 25.5, Total: 25.5},
	}

	subtotal, taxAmount, total := Totals(items, 10)
	if subtotal != 175.5 {
		t.Fatalf("expected subtotal 175.5, got %v", subtotal)
	}
	if math.Abs(taxAmount-17.55) > 1e-9 {
		t.Fatalf("expected tax amount 17.55, got %v", taxAmount)
	}
	if math.Abs(total-193.05) > 1e-9 {
		t.Fatalf("expected total 193.05, got %v", total)
	}
}

func TestTotals_EmptyItems(t *testing.T) {
	subtotal, taxAmount, total := Totals(nil, 20)
	if subtotal != 0 || taxAmount != 0 || total != 0 {
		t.Fatalf("expected all zero totals, got %v %v %v", subtotal, taxAmount, total)
	}
}

func TestNew_Defaults(t *testing.T) {
	inv := New(Defaults{NumberPrefix: "INV", DueDays: 30, Currency: "$", TaxRate: 0})

	if inv.ID == "" {
		t.Fatal("expected generated id")
	}
	if inv.InvoiceNumber == "" {
		t.Fatal("expected generated invoice number")
	}
	if len(inv.Items) != 0 {
		t.Fatalf("expected zero items, got %d", len(inv.Items))
	}
	if inv.Subtotal != 0 || inv.TaxAmount != 0 || inv.Total != 0 {
		t.Fatal("expected zero totals on a fresh invoice")
	}

	issued, err := time.Parse(DateLayout, inv.DateIssued)
	if err != nil {
		t.Fatalf("unparseable issue date %q: %v", inv.DateIssued, err)
	}
	due, err := time.Parse(DateLayout, inv.DateDue)
	if err != nil {
		t.Fatalf("unparseable due date %q: %v", inv.DateDue, err)
	}
	if got := due.Sub(issued); got != 30*24*time.Hour {
		t.Fatalf("expected due date 30 days after issue, got %v", got)
	}
}

func TestClone_Isolation(t *testing.T) {
	inv := New(Defaults{})
	inv.Items = append(inv.Items, LineItem{ID: "a", Description: "design", Quantity: 1, UnitPrice: 100, Total: 100})
	inv.From.CustomFields = []CustomField{{Key: "VAT", Value: "DE123"}}

	clone := inv.Clone()
	clone.Items[0].Description = "changed"
	clone.From.CustomFields[0].Value = "changed"
	clone.To.Name = "someone else"

	if inv.Items[0].Description != "design" {
		t.Fatal("clone mutation leaked into original items")
	}
	if inv.From.CustomFields[0].Value != "DE123" {
		t.Fatal("clone mutation leaked into original custom fields")
	}
	if inv.To.Name != "" {
		t.Fatal("clone mutation leaked into original address")
	}
}

func TestJSONRoundTrip(t *testing.T) {
	inv := New(Defaults{NumberPrefix: "INV", DueDays: 14, Currency: "€", TaxRate: 19})
	inv.From = Address{
		Name: "Mabel Studio", Street: "1 Main St", City: "Portland", State: "OR",
		ZipCode: "97201", Country: "USA", Email: "mabel@studio.test", Phone: "555-0100",
		CustomFields: []CustomField{{Key: "VAT ID", Value: "US99"}, {Key: "", Value: "blank key kept"}},
	}
	inv.To = Address{Name: "Client Co", City: "Berlin", Country: "Germany"}
	inv.Items = []LineItem{
		{ID: "i1", Description: "Website Design", Quantity: 1, UnitPrice: 1200, Total: 1200},
		{ID: "i2", Description: "Hosting", Quantity: 12, UnitPrice: 10, Total: 120},
	}
	inv.Notes = "Thank you for your business!"
	inv.Terms = "Payment due within 30 days of receipt."
	inv.Subtotal, inv.TaxAmount, inv.Total = Totals(inv.Items, inv.TaxRate)

	data, err := json.Marshal(inv)
	if err != nil {
		t.Fatalf("marshal failed: %v", err)
	}

	var got Invoice
	if err := json.Unmarshal(data, &got); err != nil {
		t.Fatalf("unmarshal failed: %v", err)
	}
	if !reflect.DeepEqual(*inv, got) {
		t.Fatalf("round trip mismatch:\n want %+v\n got  %+v", *inv, got)
	}
}

func TestUnmarshal_LegacyAddressMap(t *testing.T) {
	data := []byte(`{
		"id": "abc",
		"invoiceNumber": "INV-1",
		"from": {"name": "Old", "customFields": {"Tax ID": "123", "Branch": "West"}},
		"to": {"name": "Client"},
		"items": []
	}`)

	var inv Invoice
	if err := json.Unmarshal(data, &inv); err != nil {
		t.Fatalf("unmarshal failed: %v", err)
	}

	want := []CustomField{{Key: "Branch", Value: "West"}, {Key: "Tax ID", Value: "123"}}
	if !reflect.DeepEqual(inv.From.CustomFields, want) {
		t.Fatalf("expected migrated map fields %v, got %v", want, inv.From.CustomFields)
	}
}

func TestUnmarshal_LegacyTopLevelArrays(t *testing.T) {
	data := []byte(`{
		"id": "abc",
		"invoiceNumber": "INV-2",
		"date": "2025-01-02",
		"dueDate": "2025-02-01",
		"from": {"name": "Old"},
		"to": {"name": "Client"},
		"items": [],
		"fromCustomFields": [{"key": "IBAN", "value": "DE00"}],
		"toCustomFields": [{"type": "PO Number", "value": "PO-77"}]
	}`)

	var inv Invoice
	if err := json.Unmarshal(data, &inv); err != nil {
		t.Fatalf("unmarshal failed: %v", err)
	}

	if len(inv.From.CustomFields) != 1 || inv.From.CustomFields[0].Key != "IBAN" {
		t.Fatalf("expected from custom fields migrated, got %v", inv.From.CustomFields)
	}
	if len(inv.To.CustomFields) != 1 || inv.To.CustomFields[0] != (CustomField{Key: "PO Number", Value: "PO-77"}) {
		t.Fatalf("expected type-shaped field migrated, got %v", inv.To.CustomFields)
	}
	if inv.DateIssued != "2025-01-02" || inv.DateDue != "2025-02-01" {
		t.Fatalf("expected legacy date aliases applied, got %q %q", inv.DateIssued, inv.DateDue)
	}
}
