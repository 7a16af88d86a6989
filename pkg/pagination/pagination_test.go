package pagination

import "testing"

func TestNormalizeClampsRows(t *testing.T) {
	cases := []struct {
		name string
		in   Params
		rows int
	}{
		{"default", Params{}, DefaultRows},
		{"below min", Params{Rows: 2}, MinRows},
		{"above max", Params{Rows: 500}, MaxRows},
		{"in range", Params{Rows: 25}, 25},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			got := tc.in.Normalize()
			if got.Rows != tc.rows {
				t.Fatalf("Rows = %d, want %d", got.Rows, tc.rows)
			}
		})
	}
}

func TestNormalizeFloorsOffsetAndDefaultsSort(t *testing.T) {
	got := Params{First: -10, SortOrder: 7}.Normalize()
	if got.First != 0 {
		t.Fatalf("First = %d, want 0", got.First)
	}
	if got.SortField != "id" {
		t.Fatalf("SortField = %q, want id", got.SortField)
	}
	if got.SortOrder != SortAsc {
		t.Fatalf("SortOrder = %d, want %d", got.SortOrder, SortAsc)
	}
}

func TestOrderClauseUsesWhitelist(t *testing.T) {
	allowed := map[string]string{"id": "id", "created_min": "created_at"}

	clause, err := Params{SortField: "created_min", SortOrder: SortDesc}.OrderClause(allowed)
	if err != nil {
		t.Fatalf("OrderClause: %v", err)
	}
	if clause != "created_at DESC" {
		t.Fatalf("clause = %q", clause)
	}

	if _, err := (Params{SortField: "drop table", SortOrder: SortAsc}).OrderClause(allowed); err == nil {
		t.Fatal("expected error for unlisted sort field")
	}

	clause, err = Params{SortField: "id", SortOrder: SortNone}.OrderClause(allowed)
	if err != nil || clause != "" {
		t.Fatalf("no-sort should yield empty clause, got %q err %v", clause, err)
	}
}
