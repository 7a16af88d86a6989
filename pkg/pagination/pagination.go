package pagination

import (
	"fmt"
)

const (
	// DefaultRows is the standard page size when rows is not provided.
	DefaultRows = 10
	// MinRows is the smallest accepted page size.
	MinRows = 5
	// MaxRows caps how many rows any listing can request.
	MaxRows = 50

	SortAsc  = 1
	SortNone = 0
	SortDesc = -1
)

// Params holds offset pagination and sorting inputs from controllers.
type Params struct {
	First     int
	Rows      int
	SortField string
	SortOrder int
}

// Normalize clamps page size, floors the offset, and defaults the sort field.
func (p Params) Normalize() Params {
	if p.First < 0 {
		p.First = 0
	}
	if p.Rows == 0 {
		p.Rows = DefaultRows
	}
	if p.Rows < MinRows {
		p.Rows = MinRows
	}
	if p.Rows > MaxRows {
		p.Rows = MaxRows
	}
	if p.SortField == "" {
		p.SortField = "id"
	}
	if p.SortOrder > SortAsc {
		p.SortOrder = SortAsc
	}
	if p.SortOrder < SortDesc {
		p.SortOrder = SortDesc
	}
	return p
}

// OrderClause resolves the params into a SQL ORDER BY fragment. The allowed
// map is a per-model whitelist from exposed sort field to column name; an
// unlisted field is rejected rather than interpolated.
func (p Params) OrderClause(allowed map[string]string) (string, error) {
	if p.SortOrder == SortNone {
		return "", nil
	}
	column, ok := allowed[p.SortField]
	if !ok {
		return "", fmt.Errorf("invalid sort field %q", p.SortField)
	}
	direction := "ASC"
	if p.SortOrder == SortDesc {
		direction = "DESC"
	}
	return column + " " + direction, nil
}
