// =============================================================================
// Buyer Ledger - PostgreSQL Mirror
// =============================================================================
//
// Secondary relational backend. Implements store.Store against a single
// buyers table so the document store has a redundant, queryable copy.
// The merge-on-write policy is expressed directly in the upsert: computed
// columns are updated on conflict, manual payment columns are left alone.
//
// =============================================================================

package postgres

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/skdtraders/buyer-ledger/internal/store"
	"github.com/skdtraders/buyer-ledger/internal/types"
)

// BuyerRepo implements store.Store against PostgreSQL.
type BuyerRepo struct{ db *sql.DB }

// NewBuyerRepo creates a Postgres-backed buyer repository.
func NewBuyerRepo(db *sql.DB) *BuyerRepo { return &BuyerRepo{db: db} }

// EnsureSchema creates the buyers table if it does not exist.
// This tool manages one table; full migration tooling would be overkill.
func (r *BuyerRepo) EnsureSchema(ctx context.Context) error {
	_, err := r.db.ExecContext(ctx, `
		CREATE TABLE IF NOT EXISTS buyers (
			buyer           TEXT PRIMARY KEY,
			place           TEXT NOT NULL DEFAULT '',
			total_qtls      DOUBLE PRECISION NOT NULL DEFAULT 0,
			commission      DOUBLE PRECISION NOT NULL DEFAULT 0,
			payment_date    TEXT NOT NULL DEFAULT '',
			received_amount TEXT NOT NULL DEFAULT '',
			payment_mode    TEXT NOT NULL DEFAULT '',
			created_at      TIMESTAMPTZ NOT NULL DEFAULT NOW(),
			updated_at      TIMESTAMPTZ NOT NULL DEFAULT NOW()
		)
	`)
	if err != nil {
		return fmt.Errorf("ensure buyers schema: %w", err)
	}
	return nil
}

// =============================================================================
// STORE IMPLEMENTATION
// =============================================================================

func (r *BuyerRepo) List(ctx context.Context) ([]types.BuyerSummary, error) {
	rows, err := r.db.QueryContext(ctx, `
		SELECT buyer, place, total_qtls, commission,
		       COALESCE(payment_date,''), COALESCE(received_amount,''), COALESCE(payment_mode,'')
		FROM buyers
		ORDER BY buyer
	`)
	if err != nil {
		return nil, fmt.Errorf("list buyers: %w", err)
	}
	defer rows.Close()

	var out []types.BuyerSummary
	for rows.Next() {
		var s types.BuyerSummary
		if err := rows.Scan(
			&s.Buyer, &s.Place, &s.TotalQtls, &s.Commission,
			&s.PaymentDate, &s.ReceivedAmount, &s.PaymentMode,
		); err != nil {
			return nil, fmt.Errorf("scan buyer: %w", err)
		}
		out = append(out, s)
	}
	return out, rows.Err()
}

func (r *BuyerRepo) Get(ctx context.Context, buyer string) (*types.BuyerSummary, error) {
	s := &types.BuyerSummary{}
	err := r.db.QueryRowContext(ctx, `
		SELECT buyer, place, total_qtls, commission,
		       COALESCE(payment_date,''), COALESCE(received_amount,''), COALESCE(payment_mode,'')
		FROM buyers
		WHERE buyer = $1
	`, buyer).Scan(
		&s.Buyer, &s.Place, &s.TotalQtls, &s.Commission,
		&s.PaymentDate, &s.ReceivedAmount, &s.PaymentMode,
	)
	if err == sql.ErrNoRows {
		return nil, store.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("get buyer %q: %w", buyer, err)
	}
	return s, nil
}

func (r *BuyerRepo) UpsertSummaries(ctx context.Context, summaries []types.BuyerSummary) error {
	for _, s := range summaries {
		// Manual payment columns are deliberately absent from the UPDATE
		// set: staff annotations survive re-imports.
		_, err := r.db.ExecContext(ctx, `
			INSERT INTO buyers
				(buyer, place, total_qtls, commission, payment_date, created_at, updated_at)
			VALUES ($1, $2, $3, $4, $5, NOW(), NOW())
			ON CONFLICT (buyer) DO UPDATE SET
				place = EXCLUDED.place,
				total_qtls = EXCLUDED.total_qtls,
				commission = EXCLUDED.commission,
				payment_date = EXCLUDED.payment_date,
				updated_at = NOW()
		`, s.Buyer, s.Place, s.TotalQtls, s.Commission, s.PaymentDate)
		if err != nil {
			return fmt.Errorf("upsert buyer %q: %w", s.Buyer, err)
		}
	}
	return nil
}

func (r *BuyerRepo) UpdatePayment(ctx context.Context, buyer string, update types.PaymentUpdate) error {
	res, err := r.db.ExecContext(ctx, `
		UPDATE buyers
		SET received_amount = $1, payment_mode = $2, updated_at = NOW()
		WHERE buyer = $3
	`, update.ReceivedAmount, update.PaymentMode, buyer)
	if err != nil {
		return fmt.Errorf("update buyer %q: %w", buyer, err)
	}

	affected, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("update buyer %q: %w", buyer, err)
	}
	if affected == 0 {
		return store.ErrNotFound
	}
	return nil
}

func (r *BuyerRepo) DeleteAll(ctx context.Context) error {
	if _, err := r.db.ExecContext(ctx, `DELETE FROM buyers`); err != nil {
		return fmt.Errorf("delete buyers: %w", err)
	}
	return nil
}
