package repository

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/mabel/billfold/internal/domain"
	"github.com/mabel/billfold/internal/store"
	"go.uber.org/zap"
)

// InvoicesKey is the well-known storage key holding the saved invoice list
// as a JSON array, most recently saved first.
const InvoicesKey = "invoices"

// InvoiceRepository maintains the ordered list of saved invoice snapshots.
//
// The backing store is shared by any process pointed at the same file with
// no coordination: two concurrent editors saving the same invoice race, and
// the last writer wins silently. Accepted single-user limitation.
type InvoiceRepository interface {
	// LoadAll returns the saved list. A corrupt stored list is logged,
	// cleared, and reported as empty rather than as an error.
	LoadAll(ctx context.Context) ([]*domain.Invoice, error)

	// Save replaces the entry with the same id in place, or prepends the
	// invoice when its id is new. The whole list is rewritten.
	Save(ctx context.Context, inv *domain.Invoice) error

	// Remove filters out the entry with the given id. An absent id leaves
	// the list unchanged and is not an error.
	Remove(ctx context.Context, id string) error
}

// InvoiceRepo is the KV-backed implementation of InvoiceRepository.
type InvoiceRepo struct {
	kv     store.KVStore
	logger *zap.Logger
}

// NewInvoiceRepo creates a new InvoiceRepo.
func NewInvoiceRepo(kv store.KVStore, logger *zap.Logger) *InvoiceRepo {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &InvoiceRepo{kv: kv, logger: logger}
}

func (r *InvoiceRepo) LoadAll(ctx context.Context) ([]*domain.Invoice, error) {
	raw, ok, err := r.kv.Get(ctx, InvoicesKey)
	if err != nil {
		return nil, fmt.Errorf("failed to load invoices: %w", err)
	}
	if !ok {
		return []*domain.Invoice{}, nil
	}

	var list []*domain.Invoice
	if err := json.Unmarshal([]byte(raw), &list); err != nil {
		// Fail open: a corrupt list never blocks the editing session.
		// The bad entry is dropped so the next save starts clean.
		r.logger.Warn("stored invoice list is corrupt, clearing it",
			zap.String("key", InvoicesKey),
			zap.Error(err))
		if delErr := r.kv.Delete(ctx, InvoicesKey); delErr != nil {
			r.logger.Warn("failed to clear corrupt invoice list", zap.Error(delErr))
		}
		return []*domain.Invoice{}, nil
	}
	return list, nil
}

func (r *InvoiceRepo) Save(ctx context.Context, inv *domain.Invoice) error {
	list, err := r.LoadAll(ctx)
	if err != nil {
		return err
	}
	return r.persist(ctx, Upsert(list, inv))
}

func (r *InvoiceRepo) Remove(ctx context.Context, id string) error {
	list, err := r.LoadAll(ctx)
	if err != nil {
		return err
	}
	return r.persist(ctx, RemoveByID(list, id))
}

func (r *InvoiceRepo) persist(ctx context.Context, list []*domain.Invoice) error {
	data, err := json.Marshal(list)
	if err != nil {
		return fmt.Errorf("failed to serialize invoices: %w", err)
	}
	if err := r.kv.Set(ctx, InvoicesKey, string(data)); err != nil {
		return fmt.Errorf("failed to store invoices: %w", err)
	}
	return nil
}

// Upsert returns the list with inv replacing the entry sharing its id,
// keeping that entry's position; a new id is prepended so the most recently
// saved invoice comes first. The input list is not modified.
func Upsert(list []*domain.Invoice, inv *domain.Invoice) []*domain.Invoice {
	for i := range list {
		if list[i].ID == inv.ID {
			out := make([]*domain.Invoice, len(list))
			copy(out, list)
			out[i] = inv
			return out
		}
	}
	out := make([]*domain.Invoice, 0, len(list)+1)
	out = append(out, inv)
	return append(out, list...)
}

// RemoveByID returns the list without the entry matching id. The input list
// is not modified.
func RemoveByID(list []*domain.Invoice, id string) []*domain.Invoice {
	out := make([]*domain.Invoice, 0, len(list))
	for _, inv := range list {
		if inv.ID != id {
			out = append(out, inv)
		}
	}
	return out
}
