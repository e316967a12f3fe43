// =============================================================================
// Buyer Ledger - Commission Calculator
// =============================================================================
//
// Commission is a two-branch tariff keyed on the miller (counterparty) name.
// One specific counterparty has a contractual percentage rate; every other
// sale pays a flat per-quintal rate. The rule is hard-coded on purpose: it
// encodes a real contract, and the misspelling tolerance below matches the
// variants that actually occur in broker files.
//
// =============================================================================

package engine

import (
	"math"
	"strings"
)

// =============================================================================
// TARIFF CONSTANTS
// =============================================================================

const (
	// percentCommissionRate applies to sales through the primary agency:
	// 1% of the row's amount.
	percentCommissionRate = 0.01

	// flatCommissionPerQtl applies to every other sale: 11 rupees per
	// quintal.
	flatCommissionPerQtl = 11.0
)

// primaryAgentTokens are the accepted spellings of the primary agency's name
// after counterparty normalization. "nihi" is a recurring typo in the source
// sheets and is contractually the same party.
var primaryAgentTokens = []string{"nidhi", "nihi"}

// agencySuffixToken must also be present for the percentage tariff to apply.
const agencySuffixToken = "agro"

// =============================================================================
// CALCULATION
// =============================================================================

// commissionFor computes one row's commission contribution.
//
// If the normalized counterparty contains a primary-agent token together with
// the agency suffix, the contribution is 1% of the amount; otherwise it is 11
// per quintal. NaN inputs contribute zero on their branch.
func commissionFor(amount, quantity float64, counterparty string) float64 {
	if isPrimaryAgency(counterparty) {
		if math.IsNaN(amount) {
			return 0
		}
		return amount * percentCommissionRate
	}

	if math.IsNaN(quantity) {
		return 0
	}
	return quantity * flatCommissionPerQtl
}

// isPrimaryAgency reports whether a normalized counterparty name names the
// primary agency, tolerating the known misspellings.
func isPrimaryAgency(counterparty string) bool {
	if !strings.Contains(counterparty, agencySuffixToken) {
		return false
	}
	for _, token := range primaryAgentTokens {
		if strings.Contains(counterparty, token) {
			return true
		}
	}
	return false
}
