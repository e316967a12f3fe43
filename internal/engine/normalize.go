// =============================================================================
// Buyer Ledger - Row Normalizer
// =============================================================================
//
// This file converts one raw spreadsheet row, plus the resolved column roles,
// into a canonical tuple of typed fields. All coercion follows the
// "missing data does not block aggregation" policy: unparseable numbers
// become NaN, unparseable dates become "", and nothing here ever panics.
//
// =============================================================================

package engine

import (
	"fmt"
	"math"
	"regexp"
	"strconv"
	"strings"
	"time"
)

// =============================================================================
// NORMALIZED ROW
// =============================================================================

// normalizedRow is the canonical form of one sales row. Quantity and Amount
// are NaN when the source cell was missing or unparseable; downstream treats
// NaN as a zero contribution.
type normalizedRow struct {
	buyer        string
	quantity     float64
	amount       float64
	counterparty string // lower-cased, latin letters and digits only
	place        string
	date         string // canonical DD/MM/YYYY, or ""
}

// =============================================================================
// NORMALIZATION
// =============================================================================

// normalizeRow converts a raw row into its canonical form. The second return
// value is false when the row has no buyer name after trimming; such rows are
// skipped entirely and contribute nothing.
func normalizeRow(row RawRow, roles ColumnRoles) (normalizedRow, bool) {
	n := normalizedRow{
		buyer:        strings.TrimSpace(roleValue(row, roles, RoleBuyer)),
		quantity:     parseNumber(roleValue(row, roles, RoleQuantity)),
		amount:       parseNumber(roleValue(row, roles, RoleAmount)),
		counterparty: normalizeCounterparty(roleValue(row, roles, RoleCounterparty)),
		place:        strings.TrimSpace(roleValue(row, roles, RolePlace)),
		date:         coerceDate(roleValue(row, roles, RoleDate)),
	}

	if n.buyer == "" {
		return normalizedRow{}, false
	}
	return n, true
}

// roleValue looks up the cell for a role and stringifies it.
// Absent roles and missing cells both yield "".
func roleValue(row RawRow, roles ColumnRoles, role Role) string {
	header, ok := roles.Header(role)
	if !ok {
		return ""
	}
	return row[header].String()
}

// =============================================================================
// NUMERIC COERCION
// =============================================================================

// numberJunk strips the decoration brokers put around figures: currency
// symbols, thousands separators, accountant parentheses and whitespace.
var numberJunk = regexp.MustCompile(`[₹$,()\s]`)

// parseNumber coerces a stringified cell to a float64.
// Unparseable input yields NaN, never an error.
func parseNumber(s string) float64 {
	cleaned := numberJunk.ReplaceAllString(s, "")
	if cleaned == "" {
		return math.NaN()
	}

	v, err := strconv.ParseFloat(cleaned, 64)
	if err != nil {
		return math.NaN()
	}
	return v
}

// =============================================================================
// COUNTERPARTY NORMALIZATION
// =============================================================================

// counterpartyKeep matches the characters that survive counterparty
// normalization. Reducing to latin letters and digits absorbs the spacing and
// punctuation variance in miller names ("Nidhi Agros", "NIDHI-AGRO'S", ...)
// before the commission rule match.
var counterpartyKeep = regexp.MustCompile(`[a-z0-9]+`)

// normalizeCounterparty lower-cases the value and removes everything that is
// not a latin letter or digit.
func normalizeCounterparty(s string) string {
	parts := counterpartyKeep.FindAllString(strings.ToLower(s), -1)
	return strings.Join(parts, "")
}

// =============================================================================
// DATE COERCION
// =============================================================================

// canonicalDateLayout is the day-first form the business writes dates in.
const canonicalDateLayout = "02/01/2006"

// dateLayouts are tried in order before the generic fallbacks. Year-first
// forms come first because they are unambiguous; the remaining layouts are
// day-first per local convention.
var dateLayouts = []string{
	"2006-01-02",
	"2006/01/02",
	"2/1/2006",
	"02/01/2006",
	"2-1-2006",
	"02-01-2006",
}

// twoDigitYearLayouts cover D-M-YY style cells; two-digit years expand to
// 20YY via the explicit century fix-up below.
var twoDigitYearLayouts = []string{
	"2-1-06",
	"2/1/06",
}

// coerceDate converts a date-like cell to the canonical DD/MM/YYYY string.
// Unparseable input yields "", never an error.
func coerceDate(s string) string {
	s = strings.TrimSpace(s)
	if s == "" {
		return ""
	}

	for _, layout := range dateLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return t.Format(canonicalDateLayout)
		}
	}

	for _, layout := range twoDigitYearLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			// time.Parse maps 2-digit years to 19xx/20xx on a pivot; force
			// the 2000s since no ledger here predates the business.
			if t.Year() < 2000 {
				t = t.AddDate(100, 0, 0)
			}
			return t.Format(canonicalDateLayout)
		}
	}

	// Generic fallback: excel serial-style or RFC-ish strings.
	for _, layout := range []string{time.RFC3339, "2006-01-02 15:04:05", "Jan 2, 2006", "2 Jan 2006"} {
		if t, err := time.Parse(layout, s); err == nil {
			return t.Format(canonicalDateLayout)
		}
	}

	return ""
}

// =============================================================================
// DEBUG SUPPORT
// =============================================================================

// String renders the normalized row for verbose import logging.
func (n normalizedRow) String() string {
	return fmt.Sprintf("buyer=%q qty=%v amount=%v counterparty=%q place=%q date=%q",
		n.buyer, n.quantity, n.amount, n.counterparty, n.place, n.date)
}
