package repository

import (
	"context"
	"reflect"
	"testing"

	"github.com/mabel/billfold/internal/domain"
)

// mockKV is an in-memory stand-in for the SQLite key/value store.
type mockKV struct {
	data map[string]string
	sets int
}

func newMockKV() *mockKV {
	return &mockKV{data: make(map[string]string)}
}

func (m *mockKV) Get(ctx context.Context, key string) (string, bool, error) {
	v, ok := m.data[key]
	return v, ok, nil
}

func (m *mockKV) Set(ctx context.Context, key, value string) error {
	m.data[key] = value
	m.sets++
	return nil
}

func (m *mockKV) Delete(ctx context.Context, key string) error {
	delete(m.data, key)
	return nil
}

func (m *mockKV) Dump(ctx context.Context) (map[string]string, error) {
	out := make(map[string]string, len(m.data))
	for k, v := range m.data {
		out[k] = v
	}
	return out, nil
}

func (m *mockKV) Restore(ctx context.Context, pairs map[string]string) error {
	m.data = make(map[string]string, len(pairs))
	for k, v := range pairs {
		m.data[k] = v
	}
	return nil
}

func testInvoice(id, number string) *domain.Invoice {
	inv := domain.New(domain.Defaults{NumberPrefix: "INV", DueDays: 30, Currency: "$"})
	inv.ID = id
	inv.InvoiceNumber = number
	return inv
}

func TestSave_PrependsNewInvoices(t *testing.T) {
	ctx := context.Background()
	repo := NewInvoiceRepo(newMockKV(), nil)

	if err := repo.Save(ctx, testInvoice("a", "INV-1")); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if err := repo.Save(ctx, testInvoice("b", "INV-2")); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	list, err := repo.LoadAll(ctx)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(list) != 2 {
		t.Fatalf("expected 2 invoices, got %d", len(list))
	}
	if list[0].ID != "b" || list[1].ID != "a" {
		t.Fatalf("expected most recent first, got %s, %s", list[0].ID, list[1].ID)
	}
}

func TestSave_SameIDReplacesInPlace(t *testing.T) {
	ctx := context.Background()
	repo := NewInvoiceRepo(newMockKV(), nil)

	for _, id := range []string{"a", "b", "c"} {
		if err := repo.Save(ctx, testInvoice(id, "INV-"+id)); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
	}

	updated := testInvoice("b", "INV-b")
	updated.Notes = "second save wins"
	if err := repo.Save(ctx, updated); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	list, _ := repo.LoadAll(ctx)
	if len(list) != 3 {
		t.Fatalf("expected list length unchanged at 3, got %d", len(list))
	}
	// Position preserved: c, b, a after the three prepends.
	if list[1].ID != "b" {
		t.Fatalf("expected b to keep its position, got %s", list[1].ID)
	}
	if list[1].Notes != "second save wins" {
		t.Fatalf("expected updated notes, got %q", list[1].Notes)
	}
}

func TestRemove(t *testing.T) {
	ctx := context.Background()
	repo := NewInvoiceRepo(newMockKV(), nil)

	if err := repo.Save(ctx, testInvoice("a", "INV-1")); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if err := repo.Save(ctx, testInvoice("b", "INV-2")); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if err := repo.Remove(ctx, "a"); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	list, _ := repo.LoadAll(ctx)
	if len(list) != 1 || list[0].ID != "b" {
		t.Fatalf("expected only b to remain, got %v", list)
	}
}

func TestRemove_AbsentIDLeavesListEqual(t *testing.T) {
	ctx := context.Background()
	repo := NewInvoiceRepo(newMockKV(), nil)

	if err := repo.Save(ctx, testInvoice("a", "INV-1")); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	before, _ := repo.LoadAll(ctx)

	if err := repo.Remove(ctx, "no-such-id"); err != nil {
		t.Fatalf("expected no error for absent id, got %v", err)
	}

	after, _ := repo.LoadAll(ctx)
	if !reflect.DeepEqual(before, after) {
		t.Fatalf("expected list unchanged, got %v vs %v", before, after)
	}
}

func TestLoadAll_CorruptListFailsOpen(t *testing.T) {
	ctx := context.Background()
	kv := newMockKV()
	kv.data[InvoicesKey] = "{not json["
	repo := NewInvoiceRepo(kv, nil)

	list, err := repo.LoadAll(ctx)
	if err != nil {
		t.Fatalf("corrupt list must not error, got %v", err)
	}
	if len(list) != 0 {
		t.Fatalf("expected empty list, got %d entries", len(list))
	}
	if _, ok := kv.data[InvoicesKey]; ok {
		t.Fatal("expected corrupt entry to be cleared")
	}
}

func TestRoundTrip_DeepEqual(t *testing.T) {
	ctx := context.Background()
	repo := NewInvoiceRepo(newMockKV(), nil)

	invoices := make([]*domain.Invoice, 0, 3)
	for i, id := range []string{"a", "b", "c"} {
		inv := testInvoice(id, "INV-"+id)
		inv.To = domain.Address{Name: "Client " + id, City: "Berlin", Country: "Germany"}
		inv.From.CustomFields = []domain.CustomField{{Key: "VAT", Value: id}}
		inv.Items = []domain.LineItem{
			{ID: id + "-1", Description: "work", Quantity: float64(i + 1), UnitPrice: 100, Total: float64(i+1) * 100},
		}
		inv.Subtotal, inv.TaxAmount, inv.Total = domain.Totals(inv.Items, inv.TaxRate)
		invoices = append(invoices, inv)
		if err := repo.Save(ctx, inv); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
	}

	list, err := repo.LoadAll(ctx)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	// Saved most recent first: c, b, a.
	if len(list) != 3 {
		t.Fatalf("expected 3 invoices, got %d", len(list))
	}
	for i, want := range []*domain.Invoice{invoices[2], invoices[1], invoices[0]} {
		if !reflect.DeepEqual(want, list[i]) {
			t.Fatalf("round trip mismatch at %d:\n want %+v\n got  %+v", i, want, list[i])
		}
	}
}

func TestUpsertAndRemoveByID_DoNotMutateInput(t *testing.T) {
	a, b := testInvoice("a", "INV-1"), testInvoice("b", "INV-2")
	list := []*domain.Invoice{a, b}

	Upsert(list, testInvoice("c", "INV-3"))
	if len(list) != 2 || list[0] != a || list[1] != b {
		t.Fatal("Upsert mutated its input")
	}

	replacement := testInvoice("a", "INV-1b")
	out := Upsert(list, replacement)
	if list[0] != a {
		t.Fatal("Upsert replaced entry in the input list")
	}
	if out[0] != replacement || len(out) != 2 {
		t.Fatal("Upsert did not replace in the output list")
	}

	RemoveByID(list, "a")
	if len(list) != 2 {
		t.Fatal("RemoveByID mutated its input")
	}
}
