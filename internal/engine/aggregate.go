// =============================================================================
// Buyer Ledger - Aggregator
// =============================================================================
//
// This is the heart of the engine: a single forward fold over the normalized
// rows of one batch, producing one BuyerSummary per distinct buyer name.
//
// PIPELINE:
//   Header Resolver -> Row Normalizer -> Aggregator -> Commission Calculator
//   -> Summary Emitter
//
// The accumulator is a local variable scoped strictly to one Aggregate call.
// Nothing escapes between invocations, so the engine is pure: re-running the
// same batch yields identical output, and independent batches can be
// aggregated concurrently without coordination.
//
// =============================================================================

package engine

import (
	"math"
	"sort"

	"github.com/skdtraders/buyer-ledger/internal/types"
)

// =============================================================================
// RESULT
// =============================================================================

// Result is the outcome of aggregating one batch.
type Result struct {
	// Summaries holds one record per distinct buyer, in first-seen order.
	Summaries []types.BuyerSummary

	// Roles is the resolved role -> header mapping used for the batch.
	// Callers may surface it for import diagnostics.
	Roles ColumnRoles

	// RowsIn is the number of raw rows supplied.
	RowsIn int

	// RowsSkipped counts rows dropped for having no buyer name.
	RowsSkipped int
}

// =============================================================================
// AGGREGATION
// =============================================================================

// Aggregate runs the full pipeline over one batch of raw rows, resolving
// column roles from the header set of the first row.
//
// An empty batch yields an empty result, not an error; rows with a blank
// buyer are skipped; malformed cells degrade to zero or empty per the
// normalizer's policy. The engine performs no I/O and keeps no state across
// calls.
func Aggregate(rows []RawRow) Result {
	if len(rows) == 0 {
		return Result{}
	}
	return AggregateWithHeaders(headersOf(rows[0]), rows)
}

// AggregateWithHeaders runs the pipeline with an explicit, ordered header
// slice. Decoders that know the sheet's column order (the xlsx reader does)
// should use this entry point so the resolver's column-order tie-break is
// deterministic.
func AggregateWithHeaders(headers []string, rows []RawRow) Result {
	result := Result{
		RowsIn: len(rows),
		Roles:  ResolveColumns(headers),
	}

	// byBuyer holds the accumulating record per buyer; order remembers the
	// first-seen sequence for emission.
	byBuyer := make(map[string]*types.BuyerSummary)
	order := make([]string, 0, len(rows))

	for _, raw := range rows {
		row, ok := normalizeRow(raw, result.Roles)
		if !ok {
			result.RowsSkipped++
			continue
		}

		s, seen := byBuyer[row.buyer]
		if !seen {
			s = &types.BuyerSummary{Buyer: row.buyer}
			byBuyer[row.buyer] = s
			order = append(order, row.buyer)
		}

		if !math.IsNaN(row.quantity) {
			s.TotalQtls += row.quantity
		}
		s.Commission += commissionFor(row.amount, row.quantity, row.counterparty)

		// Last non-empty value wins for place and payment date.
		if row.place != "" {
			s.Place = row.place
		}
		if row.date != "" {
			s.PaymentDate = row.date
		}
	}

	result.Summaries = make([]types.BuyerSummary, 0, len(order))
	for _, buyer := range order {
		result.Summaries = append(result.Summaries, *byBuyer[buyer])
	}
	return result
}

// headersOf extracts the header set of a batch from its first row.
//
// RawRow is a map, so the original column order is not recoverable here.
// The headers are sorted as a stand-in for that order: when two headers tie
// for the same candidate the resolution must still be identical on every
// run. Callers that know the true sheet order use AggregateWithHeaders.
func headersOf(row RawRow) []string {
	headers := make([]string, 0, len(row))
	for h := range row {
		headers = append(headers, h)
	}
	sort.Strings(headers)
	return headers
}

// =============================================================================
// KEYED ACCESS
// =============================================================================

// ByBuyer re-keys an emitted summary slice by buyer name, for callers that
// want mapping-shaped output.
func ByBuyer(summaries []types.BuyerSummary) map[string]types.BuyerSummary {
	m := make(map[string]types.BuyerSummary, len(summaries))
	for _, s := range summaries {
		m[s.Buyer] = s
	}
	return m
}
