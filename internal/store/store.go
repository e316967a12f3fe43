// =============================================================================
// Buyer Ledger - Buyer Store
// =============================================================================
//
// The store owns everything the aggregation engine deliberately does not:
// persistence of BuyerSummary records and the merge-on-write policy applied
// when a new import lands on top of existing data.
//
// MERGE POLICY:
//   An import OVERWRITES the computed fields (place, totalQtls, commission,
//   paymentDate) and PRESERVES the manual payment fields (receivedAmount,
//   paymentMode) of any existing record with the same buyer name. Staff
//   annotations survive re-imports; stale aggregates do not.
//
// BACKENDS:
//   - Redis (primary document store, this file's sibling redis.go)
//   - PostgreSQL (optional secondary mirror, store/postgres)
//   - Mirrored (composite writing to both, mirrored.go)
//
// =============================================================================

package store

import (
	"context"
	"errors"

	"github.com/skdtraders/buyer-ledger/internal/types"
)

// ErrNotFound is returned when a buyer record does not exist.
var ErrNotFound = errors.New("buyer not found")

// Store is the persistence boundary for buyer records.
type Store interface {
	// List returns all buyer records, sorted by buyer name.
	List(ctx context.Context) ([]types.BuyerSummary, error)

	// Get returns one buyer record, or ErrNotFound.
	Get(ctx context.Context, buyer string) (*types.BuyerSummary, error)

	// UpsertSummaries writes freshly aggregated records, applying the
	// merge-on-write policy against any existing records.
	UpsertSummaries(ctx context.Context, summaries []types.BuyerSummary) error

	// UpdatePayment sets the manual payment fields of one buyer record.
	// Returns ErrNotFound if the buyer does not exist.
	UpdatePayment(ctx context.Context, buyer string, update types.PaymentUpdate) error

	// DeleteAll removes every buyer record.
	DeleteAll(ctx context.Context) error
}

// mergeSummary applies the merge-on-write policy: computed fields come from
// the fresh import, manual payment fields survive from the existing record.
func mergeSummary(fresh types.BuyerSummary, existing *types.BuyerSummary) types.BuyerSummary {
	if existing == nil {
		return fresh
	}
	fresh.ReceivedAmount = existing.ReceivedAmount
	fresh.PaymentMode = existing.PaymentMode
	return fresh
}
