// =============================================================================
// Buyer Ledger - Header Resolver
// =============================================================================
//
// Input spreadsheets come from several brokers and no two of them label their
// columns the same way ("BUYER", "Buyer Name", "BUYER NAMER", ...). This file
// resolves the free-text column headers of a batch to the logical roles the
// engine needs.
//
// MATCHING RULES:
//   - For each role there is a fixed, priority-ordered list of candidate
//     synonyms.
//   - A header matches a candidate when the lower-cased header contains the
//     candidate as a substring.
//   - Roles flagged exact (place) match by case-insensitive equality only,
//     so that composite headers like "MARKET PLACE RATE" cannot capture them.
//   - The first candidate (in declared order) that matches any header wins;
//     ties between headers break on original column order.
//   - A role with no matching header resolves to absent. That is not an
//     error: downstream fields for the role default to empty/NaN.
//
// The rule table is deliberately explicit and data-driven so the resolution
// order is auditable and testable on its own.
//
// =============================================================================

package engine

import "strings"

// =============================================================================
// ROLES
// =============================================================================

// Role is a logical field of a sales row, independent of the actual column
// header text used by a particular spreadsheet.
type Role string

const (
	RoleBuyer        Role = "buyer"
	RoleQuantity     Role = "quantity"
	RoleAmount       Role = "amount"
	RoleCounterparty Role = "counterpartyName"
	RolePlace        Role = "place"
	RoleDate         Role = "date"
)

// ColumnRoles maps each resolved role to the actual header carrying it.
// Roles that could not be resolved are absent from the map.
type ColumnRoles map[Role]string

// Header returns the resolved header for a role and whether it was resolved.
func (cr ColumnRoles) Header(role Role) (string, bool) {
	h, ok := cr[role]
	return h, ok
}

// =============================================================================
// SYNONYM TABLE
// =============================================================================

// headerRule describes how one role is matched against the header row.
type headerRule struct {
	// role is the logical field this rule resolves.
	role Role

	// candidates are the accepted synonyms, highest priority first.
	// All candidates are lower-case; headers are lower-cased before matching.
	candidates []string

	// exact restricts matching to case-insensitive equality. Used for short
	// generic words that would otherwise match inside longer headers.
	exact bool
}

// headerRules is the complete resolution table, one rule per role.
// The synonym lists encode every header variant seen in real broker files;
// extend a list rather than renaming columns in the source sheets.
var headerRules = []headerRule{
	{role: RoleBuyer, candidates: []string{"buyer", "buyer name", "buyername", "buyer namer"}},
	{role: RoleQuantity, candidates: []string{"qtls", "qtl", "quantity", "qty"}},
	{role: RoleAmount, candidates: []string{"amount", "amt", "value"}},
	{role: RoleCounterparty, candidates: []string{"miller", "miller name", "seller"}},
	{role: RolePlace, candidates: []string{"place"}, exact: true},
	{role: RoleDate, candidates: []string{"payment date", "date", "dt"}},
}

// =============================================================================
// RESOLUTION
// =============================================================================

// ResolveColumns determines which header corresponds to each logical role.
//
// The headers are taken in the order they appear in the sheet; casing and
// surrounding whitespace are tolerated. The returned mapping applies to every
// row of the batch.
func ResolveColumns(headers []string) ColumnRoles {
	// Pre-compute the lower-cased, trimmed form of each header once.
	lowered := make([]string, len(headers))
	for i, h := range headers {
		lowered[i] = strings.ToLower(strings.TrimSpace(h))
	}

	roles := make(ColumnRoles, len(headerRules))

	for _, rule := range headerRules {
		if header, ok := resolveRole(rule, headers, lowered); ok {
			roles[rule.role] = header
		}
	}

	return roles
}

// resolveRole finds the winning header for a single rule.
// Candidate priority outranks column order: the first candidate that matches
// anywhere wins, and only then does column order break ties.
func resolveRole(rule headerRule, headers, lowered []string) (string, bool) {
	for _, candidate := range rule.candidates {
		for i, lh := range lowered {
			if lh == "" {
				continue
			}
			if rule.exact {
				if lh == candidate {
					return headers[i], true
				}
				continue
			}
			if strings.Contains(lh, candidate) {
				return headers[i], true
			}
		}
	}
	return "", false
}
