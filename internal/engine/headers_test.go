package engine

import "testing"

// =============================================================================
// HEADER RESOLVER TESTS
// =============================================================================

func TestResolveColumns_StandardHeaders(t *testing.T) {
	headers := []string{"BUYER NAMER", "qtls", "Amount", "MILLER NAME", "PLACE", "Payment Date"}
	roles := ResolveColumns(headers)

	want := map[Role]string{
		RoleBuyer:        "BUYER NAMER",
		RoleQuantity:     "qtls",
		RoleAmount:       "Amount",
		RoleCounterparty: "MILLER NAME",
		RolePlace:        "PLACE",
		RoleDate:         "Payment Date",
	}

	for role, header := range want {
		got, ok := roles.Header(role)
		if !ok {
			t.Errorf("role %s not resolved", role)
			continue
		}
		if got != header {
			t.Errorf("role %s resolved to %q, want %q", role, got, header)
		}
	}
}

func TestResolveColumns_SubstringVariants(t *testing.T) {
	tests := []struct {
		name   string
		header string
		role   Role
	}{
		{"buyer namer typo", "Buyer Namer", RoleBuyer},
		{"buyername joined", "BUYERNAME", RoleBuyer},
		{"buyer embedded", "  THE BUYER  ", RoleBuyer},
		{"qtl singular", "Qtl.", RoleQuantity},
		{"qty", "QTY", RoleQuantity},
		{"amt", "Amt (Rs)", RoleAmount},
		{"seller", "SELLER", RoleCounterparty},
		{"miller spaced", "Miller  Name", RoleCounterparty},
		{"date lowercase", "date", RoleDate},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			roles := ResolveColumns([]string{tt.header})
			got, ok := roles.Header(tt.role)
			if !ok {
				t.Fatalf("header %q did not resolve role %s", tt.header, tt.role)
			}
			if got != tt.header {
				t.Errorf("role %s resolved to %q, want %q", tt.role, got, tt.header)
			}
		})
	}
}

func TestResolveColumns_PlaceIsExactOnly(t *testing.T) {
	// Composite headers containing "place" must not capture the place role.
	roles := ResolveColumns([]string{"MARKET PLACE RATE", "qtls"})
	if h, ok := roles.Header(RolePlace); ok {
		t.Errorf("place resolved to composite header %q, want absent", h)
	}

	// Exact match (case-insensitive, trimmed) still works.
	roles = ResolveColumns([]string{" Place "})
	if h, ok := roles.Header(RolePlace); !ok || h != " Place " {
		t.Errorf("place = %q, %v; want original header resolved", h, ok)
	}
}

func TestResolveColumns_CandidatePriorityBeatsColumnOrder(t *testing.T) {
	// "payment date" is a higher-priority date candidate than "date", so the
	// later column wins over the earlier generic one.
	roles := ResolveColumns([]string{"Update Date", "Payment Date"})
	if h, _ := roles.Header(RoleDate); h != "Payment Date" {
		t.Errorf("date resolved to %q, want \"Payment Date\"", h)
	}
}

func TestResolveColumns_TieBreaksOnColumnOrder(t *testing.T) {
	roles := ResolveColumns([]string{"Buyer A", "Buyer B"})
	if h, _ := roles.Header(RoleBuyer); h != "Buyer A" {
		t.Errorf("buyer resolved to %q, want first matching column", h)
	}
}

func TestResolveColumns_MissingRolesAreAbsentNotError(t *testing.T) {
	roles := ResolveColumns([]string{"BUYER", "qtls"})

	for _, role := range []Role{RoleAmount, RoleCounterparty, RolePlace, RoleDate} {
		if h, ok := roles.Header(role); ok {
			t.Errorf("role %s unexpectedly resolved to %q", role, h)
		}
	}
}

func TestResolveColumns_EmptyHeaders(t *testing.T) {
	if roles := ResolveColumns(nil); len(roles) != 0 {
		t.Errorf("expected no roles from nil headers, got %v", roles)
	}
	if roles := ResolveColumns([]string{"", "  "}); len(roles) != 0 {
		t.Errorf("expected no roles from blank headers, got %v", roles)
	}
}
