package validators

import (
	"fmt"
	"net/http"
	"strconv"

	"github.com/shopspring/decimal"

	pkgerrors "github.com/lucasferraz/ordersys-backend/pkg/errors"
	"github.com/lucasferraz/ordersys-backend/pkg/pagination"
)

// ParseQueryInt reads an optional integer query parameter, clamping
// nothing: out-of-range values are rejected.
func ParseQueryInt(r *http.Request, key string, def, min, max int) (int, error) {
	raw := r.URL.Query().Get(key)
	if raw == "" {
		return def, nil
	}
	v, err := strconv.Atoi(raw)
	if err != nil {
		return 0, pkgerrors.New(pkgerrors.CodeValidation, fmt.Sprintf("%s must be an integer", key))
	}
	if v < min || v > max {
		return 0, pkgerrors.New(pkgerrors.CodeValidation, fmt.Sprintf("%s must be between %d and %d", key, min, max))
	}
	return v, nil
}

// ParseQueryInt64 reads an optional int64 query parameter. Returns nil
// when the parameter is absent.
func ParseQueryInt64(r *http.Request, key string) (*int64, error) {
	raw := r.URL.Query().Get(key)
	if raw == "" {
		return nil, nil
	}
	v, err := strconv.ParseInt(raw, 10, 64)
	if err != nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, fmt.Sprintf("%s must be an integer", key))
	}
	return &v, nil
}

// ParseQueryDecimal reads an optional decimal query parameter. Returns
// nil when the parameter is absent.
func ParseQueryDecimal(r *http.Request, key string) (*decimal.Decimal, error) {
	raw := r.URL.Query().Get(key)
	if raw == "" {
		return nil, nil
	}
	v, err := decimal.NewFromString(raw)
	if err != nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, fmt.Sprintf("%s must be a decimal number", key))
	}
	return &v, nil
}

// ParseQueryBool reads an optional boolean query parameter. Returns nil
// when the parameter is absent.
func ParseQueryBool(r *http.Request, key string) (*bool, error) {
	raw := r.URL.Query().Get(key)
	if raw == "" {
		return nil, nil
	}
	v, err := strconv.ParseBool(raw)
	if err != nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, fmt.Sprintf("%s must be a boolean", key))
	}
	return &v, nil
}

// ParsePagination reads the shared pagination parameters: first, rows,
// sort_field and sort_order (-1, 0 or 1).
func ParsePagination(r *http.Request) (pagination.Params, error) {
	var p pagination.Params

	first, err := ParseQueryInt(r, "first", 0, 0, 1<<30)
	if err != nil {
		return p, err
	}
	rows, err := ParseQueryInt(r, "rows", pagination.DefaultRows, pagination.MinRows, pagination.MaxRows)
	if err != nil {
		return p, err
	}
	order, err := ParseQueryInt(r, "sort_order", pagination.SortNone, pagination.SortDesc, pagination.SortAsc)
	if err != nil {
		return p, err
	}

	p.First = first
	p.Rows = rows
	p.SortField = r.URL.Query().Get("sort_field")
	p.SortOrder = order
	return p.Normalize(), nil
}
