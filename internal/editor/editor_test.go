package editor

import (
	"encoding/json"
	"math"
	"math/rand"
	"reflect"
	"testing"

	"github.com/mabel/billfold/internal/domain"
)

func newInvoice() *domain.Invoice {
	return domain.New(domain.Defaults{NumberPrefix: "INV", DueDays: 30, Currency: "$"})
}

func strp(s string) *string   { return &s }
func f64p(f float64) *float64 { return &f }

// checkInvariants verifies the four derived-value invariants.
func checkInvariants(t *testing.T, inv *domain.Invoice) {
	t.Helper()

	var subtotal float64
	for _, item := range inv.Items {
		if got := domain.LineTotal(item.Quantity, item.UnitPrice); math.Abs(item.Total-got) > 1e-9 {
			t.Fatalf("item %s total %v != quantity*unitPrice %v", item.ID, item.Total, got)
		}
		subtotal += item.Total
	}
	if math.Abs(inv.Subtotal-subtotal) > 1e-9 {
		t.Fatalf("subtotal %v != sum of item totals %v", inv.Subtotal, subtotal)
	}
	if want := inv.Subtotal * (inv.TaxRate / 100); math.Abs(inv.TaxAmount-want) > 1e-9 {
		t.Fatalf("tax amount %v != subtotal*rate %v", inv.TaxAmount, want)
	}
	if want := inv.Subtotal + inv.TaxAmount; math.Abs(inv.Total-want) > 1e-9 {
		t.Fatalf("total %v != subtotal+tax %v", inv.Total, want)
	}
}

func TestAddItem(t *testing.T) {
	inv := newInvoice()
	got := AddItem(inv)

	if len(got.Items) != 1 {
		t.Fatalf("expected 1 item, got %d", len(got.Items))
	}
	item := got.Items[0]
	if item.ID == "" {
		t.Fatal("expected generated item id")
	}
	if item.Quantity != 1 || item.UnitPrice != 0 || item.Total != 0 {
		t.Fatalf("unexpected item defaults: %+v", item)
	}
	if got.Subtotal != 0 || got.TaxAmount != 0 || got.Total != 0 {
		t.Fatal("adding an empty item must not move totals")
	}
	if len(inv.Items) != 0 {
		t.Fatal("input invoice was mutated")
	}
	checkInvariants(t, got)
}

func TestUpdateItem_RecomputesTotals(t *testing.T) {
	inv := AddItem(newInvoice())
	inv = SetTaxRate(inv, 10)
	id := inv.Items[0].ID

	got := UpdateItem(inv, id, ItemPatch{
		Description: strp("Website Design"),
		Quantity:    f64p(3),
		UnitPrice:   f64p(50),
	})

	if got.Items[0].Total != 150 {
		t.Fatalf("expected item total 150, got %v", got.Items[0].Total)
	}
	if got.Subtotal != 150 {
		t.Fatalf("expected subtotal 150, got %v", got.Subtotal)
	}
	if got.TaxAmount != 15 {
		t.Fatalf("expected tax amount 15, got %v", got.TaxAmount)
	}
	if got.Total != 165 {
		t.Fatalf("expected total 165, got %v", got.Total)
	}
	checkInvariants(t, got)

	// Input untouched.
	if inv.Items[0].Total != 0 || inv.Subtotal != 0 {
		t.Fatal("input invoice was mutated")
	}
}

func TestUpdateItem_UnknownIDIsNoOp(t *testing.T) {
	inv := AddItem(newInvoice())
	got := UpdateItem(inv, "no-such-id", ItemPatch{Quantity: f64p(5)})
	if !reflect.DeepEqual(got, inv) {
		t.Fatal("expected no-op for unknown item id")
	}
}

func TestRemoveItem_OnlyItemZeroesTotals(t *testing.T) {
	inv := AddItem(newInvoice())
	inv = SetTaxRate(inv, 10)
	inv = UpdateItem(inv, inv.Items[0].ID, ItemPatch{Quantity: f64p(2), UnitPrice: f64p(99)})

	got := RemoveItem(inv, inv.Items[0].ID)
	if len(got.Items) != 0 {
		t.Fatalf("expected no items, got %d", len(got.Items))
	}
	if got.Subtotal != 0 || got.TaxAmount != 0 || got.Total != 0 {
		t.Fatalf("expected zero totals, got %v %v %v", got.Subtotal, got.TaxAmount, got.Total)
	}
	checkInvariants(t, got)
}

func TestRemoveItem_UnknownIDIsNoOp(t *testing.T) {
	inv := AddItem(newInvoice())
	got := RemoveItem(inv, "no-such-id")
	if !reflect.DeepEqual(got, inv) {
		t.Fatal("expected no-op for unknown item id")
	}
}

func TestSetTaxRate(t *testing.T) {
	inv := AddItem(newInvoice())
	inv = UpdateItem(inv, inv.Items[0].ID, ItemPatch{Quantity: f64p(4), UnitPrice: f64p(25)}) // subtotal 100

	got := SetTaxRate(inv, 20)
	if got.TaxRate != 20 {
		t.Fatalf("expected rate 20, got %v", got.TaxRate)
	}
	if got.TaxAmount != 20 {
		t.Fatalf("expected tax amount 20, got %v", got.TaxAmount)
	}
	if got.Total != 120 {
		t.Fatalf("expected total 120, got %v", got.Total)
	}
	if got.Items[0].Total != 100 {
		t.Fatal("setting the tax rate must not alter item totals")
	}
	checkInvariants(t, got)
}

// TestNonFiniteInputsClampToZero feeds NaN and Inf through the numeric
// operations. ParseFloat happily produces both, and either one stored on the
// invoice would break the derived totals and make json.Marshal fail, so they
// must clamp to 0 like any other bad numeric input.
func TestNonFiniteInputsClampToZero(t *testing.T) {
	inv := AddItem(newInvoice())
	inv = UpdateItem(inv, inv.Items[0].ID, ItemPatch{Quantity: f64p(3), UnitPrice: f64p(50)})

	got := SetTaxRate(inv, math.NaN())
	if got.TaxRate != 0 || got.TaxAmount != 0 {
		t.Fatalf("expected NaN rate to clamp to 0, got rate %v tax %v", got.TaxRate, got.TaxAmount)
	}
	if got.Total != 150 {
		t.Fatalf("expected total 150, got %v", got.Total)
	}

	got = UpdateItem(got, got.Items[0].ID, ItemPatch{Quantity: f64p(math.Inf(1))})
	if got.Items[0].Quantity != 0 || got.Items[0].Total != 0 {
		t.Fatalf("expected Inf quantity to clamp to 0, got %+v", got.Items[0])
	}
	checkInvariants(t, got)

	got = SetTaxRate(got, math.Inf(-1))
	if got.TaxRate != 0 {
		t.Fatalf("expected -Inf rate to clamp to 0, got %v", got.TaxRate)
	}

	// The invoice must stay serializable after any sequence of inputs.
	if _, err := json.Marshal(got); err != nil {
		t.Fatalf("invoice no longer serializable: %v", err)
	}
}

// TestOperationSequences drives a random sequence of item and tax rate
// operations and verifies the invariants after every step.
func TestOperationSequences(t *testing.T) {
	rng := rand.New(rand.NewSource(1))
	inv := newInvoice()

	for i := 0; i < 500; i++ {
		switch rng.Intn(4) {
		case 0:
			inv = AddItem(inv)
		case 1:
			if len(inv.Items) > 0 {
				id := inv.Items[rng.Intn(len(inv.Items))].ID
				inv = UpdateItem(inv, id, ItemPatch{
					Quantity:  f64p(float64(rng.Intn(20))),
					UnitPrice: f64p(rng.Float64() * 500),
				})
			}
		case 2:
			if len(inv.Items) > 0 {
				inv = RemoveItem(inv, inv.Items[rng.Intn(len(inv.Items))].ID)
			}
		case 3:
			rates := []float64{0, 5, 7.5, 10, 12.5, 15, 20}
			inv = SetTaxRate(inv, rates[rng.Intn(len(rates))])
		}
		checkInvariants(t, inv)
	}
}

func TestSetField(t *testing.T) {
	inv := newInvoice()

	got := SetField(inv, FieldNotes, "Thank you for your business!")
	if got.Notes != "Thank you for your business!" {
		t.Fatalf("unexpected notes: %q", got.Notes)
	}
	if inv.Notes != "" {
		t.Fatal("input invoice was mutated")
	}

	got = SetField(got, FieldCurrency, "€")
	if got.Currency != "€" {
		t.Fatalf("unexpected currency: %q", got.Currency)
	}
}

func TestSetAddressField(t *testing.T) {
	inv := newInvoice()

	got := SetAddressField(inv, domain.SideTo, AddrCity, "Los Angeles")
	if got.To.City != "Los Angeles" {
		t.Fatalf("unexpected city: %q", got.To.City)
	}
	if got.From.City != "" {
		t.Fatal("wrong side was modified")
	}
	if inv.To.City != "" {
		t.Fatal("input invoice was mutated")
	}
}

func TestAddCustomField_GeneratedKeysStayUnique(t *testing.T) {
	inv := newInvoice()
	inv = AddCustomField(inv, domain.SideFrom) // Custom Field 1
	inv = AddCustomField(inv, domain.SideFrom) // Custom Field 2

	// Remove the first; the next generated key would be "Custom Field 2"
	// again by count alone, so it must be bumped.
	inv = RemoveCustomField(inv, domain.SideFrom, "Custom Field 1")
	inv = AddCustomField(inv, domain.SideFrom)

	fields := inv.From.CustomFields
	if len(fields) != 2 {
		t.Fatalf("expected 2 fields, got %d", len(fields))
	}
	if fields[0].Key == fields[1].Key {
		t.Fatalf("generated keys collide: %q", fields[0].Key)
	}
}

func TestRenameCustomField_PreservesValue(t *testing.T) {
	inv := newInvoice()
	inv = AddCustomField(inv, domain.SideFrom)
	inv = SetCustomFieldValue(inv, domain.SideFrom, "Custom Field 1", "DE123456")

	got := RenameCustomField(inv, domain.SideFrom, "Custom Field 1", "VAT ID")
	fields := got.From.CustomFields
	if len(fields) != 1 || fields[0].Key != "VAT ID" || fields[0].Value != "DE123456" {
		t.Fatalf("rename lost data: %v", fields)
	}
}

func TestRenameCustomField_CollisionIsSuffixed(t *testing.T) {
	inv := newInvoice()
	inv = AddCustomField(inv, domain.SideFrom)
	inv = AddCustomField(inv, domain.SideFrom)
	inv = SetCustomFieldValue(inv, domain.SideFrom, "Custom Field 1", "first")
	inv = SetCustomFieldValue(inv, domain.SideFrom, "Custom Field 2", "second")

	got := RenameCustomField(inv, domain.SideFrom, "Custom Field 2", "Custom Field 1")
	fields := got.From.CustomFields
	if len(fields) != 2 {
		t.Fatalf("rename merged fields: %v", fields)
	}
	if fields[1].Key != "Custom Field 1 (2)" {
		t.Fatalf("expected suffixed key, got %q", fields[1].Key)
	}
	if fields[1].Value != "second" {
		t.Fatalf("rename lost value: %q", fields[1].Value)
	}
}

func TestCustomFieldValueAndRemove(t *testing.T) {
	inv := newInvoice()
	inv = AddCustomField(inv, domain.SideTo)
	inv = SetCustomFieldValue(inv, domain.SideTo, "Custom Field 1", "PO-42")

	if got := inv.To.CustomFields[0].Value; got != "PO-42" {
		t.Fatalf("expected value set, got %q", got)
	}

	// Absent keys are no-ops.
	same := SetCustomFieldValue(inv, domain.SideTo, "nope", "x")
	if !reflect.DeepEqual(same, inv) {
		t.Fatal("expected no-op for absent key")
	}
	same = RemoveCustomField(inv, domain.SideTo, "nope")
	if !reflect.DeepEqual(same, inv) {
		t.Fatal("expected no-op for absent key")
	}

	inv = RemoveCustomField(inv, domain.SideTo, "Custom Field 1")
	if len(inv.To.CustomFields) != 0 {
		t.Fatalf("expected field removed, got %v", inv.To.CustomFields)
	}
}
