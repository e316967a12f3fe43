// =============================================================================
// Buyer Ledger - Shared Types
// =============================================================================
//
// This package contains shared types used across multiple modules to avoid
// import cycles. Types defined here are used by:
//   - engine
//   - store
//   - api
//   - export
//
// =============================================================================

package types

// =============================================================================
// BUYER TYPES
// =============================================================================

// BuyerSummary is the canonical per-buyer aggregate record.
//
// The first five fields are computed by the aggregation engine from imported
// spreadsheet rows. ReceivedAmount and PaymentMode are manual annotations
// entered by staff after import; the store preserves them when a new import
// overwrites the computed fields.
type BuyerSummary struct {
	// Buyer is the trimmed buyer name and the unique key of the record.
	Buyer string `json:"buyer"`

	// Place is the last non-empty place value seen across contributing rows.
	Place string `json:"place"`

	// TotalQtls is the sum of per-row quantities, in quintals.
	// Unparseable quantities contribute zero.
	TotalQtls float64 `json:"totalQtls"`

	// Commission is the accumulated commission amount for this buyer.
	// Stored at full float precision; rounding happens at export time only.
	Commission float64 `json:"commission"`

	// PaymentDate is the canonical DD/MM/YYYY payment date, if any row
	// supplied one. Last non-empty value wins within a batch.
	PaymentDate string `json:"paymentDate,omitempty"`

	// ReceivedAmount is the amount received from the buyer, as entered by
	// staff. Kept as a string because it is free-form data entry.
	ReceivedAmount string `json:"receivedAmount,omitempty"`

	// PaymentMode records how payment was made: "Chq", "RTGS" or "Cash".
	PaymentMode string `json:"paymentMode,omitempty"`
}

// PaymentUpdate carries the manual fields of a buyer record that staff can
// edit after import.
type PaymentUpdate struct {
	ReceivedAmount string `json:"receivedAmount"`
	PaymentMode    string `json:"paymentMode"`
}
