// =============================================================================
// Buyer Ledger - Mirrored Store
// =============================================================================
//
// Composite store that writes through to a secondary backend for redundancy.
// Reads are served from the primary only; writes go to the primary first and
// are then replayed on the secondary. A secondary failure is surfaced but
// only after the primary write has landed, so the system of record is always
// the primary.
//
// =============================================================================

package store

import (
	"context"
	"fmt"

	"github.com/skdtraders/buyer-ledger/internal/types"
)

// Mirrored wraps a primary store with a secondary write-through mirror.
type Mirrored struct {
	primary   Store
	secondary Store
}

// NewMirrored creates a mirrored store. The secondary may not be nil; use the
// primary directly when no mirror is configured.
func NewMirrored(primary, secondary Store) *Mirrored {
	return &Mirrored{primary: primary, secondary: secondary}
}

func (m *Mirrored) List(ctx context.Context) ([]types.BuyerSummary, error) {
	return m.primary.List(ctx)
}

func (m *Mirrored) Get(ctx context.Context, buyer string) (*types.BuyerSummary, error) {
	return m.primary.Get(ctx, buyer)
}

func (m *Mirrored) UpsertSummaries(ctx context.Context, summaries []types.BuyerSummary) error {
	if err := m.primary.UpsertSummaries(ctx, summaries); err != nil {
		return err
	}
	if err := m.secondary.UpsertSummaries(ctx, summaries); err != nil {
		return fmt.Errorf("secondary mirror: %w", err)
	}
	return nil
}

func (m *Mirrored) UpdatePayment(ctx context.Context, buyer string, update types.PaymentUpdate) error {
	if err := m.primary.UpdatePayment(ctx, buyer, update); err != nil {
		return err
	}
	if err := m.secondary.UpdatePayment(ctx, buyer, update); err != nil && err != ErrNotFound {
		return fmt.Errorf("secondary mirror: %w", err)
	}
	return nil
}

func (m *Mirrored) DeleteAll(ctx context.Context) error {
	if err := m.primary.DeleteAll(ctx); err != nil {
		return err
	}
	if err := m.secondary.DeleteAll(ctx); err != nil {
		return fmt.Errorf("secondary mirror: %w", err)
	}
	return nil
}
