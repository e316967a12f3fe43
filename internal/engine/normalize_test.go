package engine

import (
	"math"
	"testing"
)

// =============================================================================
// NUMERIC COERCION TESTS
// =============================================================================

func TestParseNumber(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  float64
	}{
		{"plain integer", "10", 10},
		{"decimal", "12.5", 12.5},
		{"thousands separator", "1,00,000", 100000},
		{"currency symbol", "₹1500", 1500},
		{"dollar symbol", "$42.50", 42.5},
		{"parentheses", "(250)", 250},
		{"surrounding whitespace", "  75 ", 75},
		{"negative", "-3.25", -3.25},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := parseNumber(tt.input); got != tt.want {
				t.Errorf("parseNumber(%q) = %v, want %v", tt.input, got, tt.want)
			}
		})
	}
}

func TestParseNumber_UnparseableYieldsNaN(t *testing.T) {
	for _, input := range []string{"", "abc", "10x", "--", "N/A"} {
		if got := parseNumber(input); !math.IsNaN(got) {
			t.Errorf("parseNumber(%q) = %v, want NaN", input, got)
		}
	}
}

// =============================================================================
// COUNTERPARTY NORMALIZATION TESTS
// =============================================================================

func TestNormalizeCounterparty(t *testing.T) {
	tests := []struct {
		input string
		want  string
	}{
		{"Nidhi Agros", "nidhiagros"},
		{"NIDHI-AGRO'S", "nidhiagros"},
		{"nihi agro", "nihiagro"},
		{"  Shree Traders (P) Ltd. ", "shreetraderspltd"},
		{"A1 Mills", "a1mills"},
		{"", ""},
		{"!!!", ""},
	}

	for _, tt := range tests {
		if got := normalizeCounterparty(tt.input); got != tt.want {
			t.Errorf("normalizeCounterparty(%q) = %q, want %q", tt.input, got, tt.want)
		}
	}
}

// =============================================================================
// DATE COERCION TESTS
// =============================================================================

func TestCoerceDate(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  string
	}{
		{"year first dashes", "2024-03-05", "05/03/2024"},
		{"year first slashes", "2024/03/05", "05/03/2024"},
		{"day first padded", "05/03/2024", "05/03/2024"},
		{"day first short", "5/3/2024", "05/03/2024"},
		{"day first dashes", "5-3-2024", "05/03/2024"},
		{"two digit year", "5-3-24", "05/03/2024"},
		{"two digit year slashes", "5/3/24", "05/03/2024"},
		{"textual month", "Mar 5, 2024", "05/03/2024"},
		{"whitespace", "  2024-03-05 ", "05/03/2024"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := coerceDate(tt.input); got != tt.want {
				t.Errorf("coerceDate(%q) = %q, want %q", tt.input, got, tt.want)
			}
		})
	}
}

func TestCoerceDate_DayFirstAndYearFirstAgree(t *testing.T) {
	a := coerceDate("05/03/2024")
	b := coerceDate("2024-03-05")
	if a == "" || a != b {
		t.Errorf("day-first %q and year-first %q should coerce identically", a, b)
	}
}

func TestCoerceDate_UnparseableYieldsEmpty(t *testing.T) {
	for _, input := range []string{"", "not a date", "32/13/2024", "2024-99-99"} {
		if got := coerceDate(input); got != "" {
			t.Errorf("coerceDate(%q) = %q, want empty", input, got)
		}
	}
}

// =============================================================================
// ROW NORMALIZATION TESTS
// =============================================================================

func testRoles() ColumnRoles {
	return ColumnRoles{
		RoleBuyer:        "BUYER",
		RoleQuantity:     "qtls",
		RoleAmount:       "Amount",
		RoleCounterparty: "MILLER",
		RolePlace:        "PLACE",
		RoleDate:         "DATE",
	}
}

func TestNormalizeRow(t *testing.T) {
	row := RawRow{
		"BUYER":  TextCell("  Ramesh "),
		"qtls":   TextCell("10"),
		"Amount": NumericCell(1000),
		"MILLER": TextCell("Nidhi Agros"),
		"PLACE":  TextCell(" Gadag "),
		"DATE":   TextCell("2024-03-05"),
	}

	n, ok := normalizeRow(row, testRoles())
	if !ok {
		t.Fatal("row unexpectedly skipped")
	}
	if n.buyer != "Ramesh" {
		t.Errorf("buyer = %q, want Ramesh", n.buyer)
	}
	if n.quantity != 10 {
		t.Errorf("quantity = %v, want 10", n.quantity)
	}
	if n.amount != 1000 {
		t.Errorf("amount = %v, want 1000", n.amount)
	}
	if n.counterparty != "nidhiagros" {
		t.Errorf("counterparty = %q, want nidhiagros", n.counterparty)
	}
	if n.place != "Gadag" {
		t.Errorf("place = %q, want Gadag", n.place)
	}
	if n.date != "05/03/2024" {
		t.Errorf("date = %q, want 05/03/2024", n.date)
	}
}

func TestNormalizeRow_BlankBuyerSkipped(t *testing.T) {
	for _, buyer := range []Cell{EmptyCell(), TextCell(""), TextCell("   ")} {
		row := RawRow{"BUYER": buyer, "qtls": TextCell("5")}
		if _, ok := normalizeRow(row, testRoles()); ok {
			t.Errorf("row with buyer %#v should be skipped", buyer)
		}
	}
}

func TestNormalizeRow_AbsentRolesDefault(t *testing.T) {
	roles := ColumnRoles{RoleBuyer: "BUYER"}
	row := RawRow{"BUYER": TextCell("Gita")}

	n, ok := normalizeRow(row, roles)
	if !ok {
		t.Fatal("row unexpectedly skipped")
	}
	if !math.IsNaN(n.quantity) || !math.IsNaN(n.amount) {
		t.Errorf("absent numeric roles should be NaN, got qty=%v amount=%v", n.quantity, n.amount)
	}
	if n.counterparty != "" || n.place != "" || n.date != "" {
		t.Errorf("absent string roles should be empty, got %s", n)
	}
}

func TestNormalizeRow_NumericCellsStringify(t *testing.T) {
	// A numeric buyer cell is legal data entry; it stringifies.
	row := RawRow{"BUYER": NumericCell(42), "qtls": NumericCell(2.5)}
	n, ok := normalizeRow(row, testRoles())
	if !ok {
		t.Fatal("row unexpectedly skipped")
	}
	if n.buyer != "42" {
		t.Errorf("buyer = %q, want \"42\"", n.buyer)
	}
	if n.quantity != 2.5 {
		t.Errorf("quantity = %v, want 2.5", n.quantity)
	}
}
