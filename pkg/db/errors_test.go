package db

import (
	"errors"
	"fmt"
	"testing"

	"github.com/jackc/pgx/v5/pgconn"
)

func TestIsUniqueViolation(t *testing.T) {
	pgDup := &pgconn.PgError{
		Code:           "23505",
		Message:        `duplicate key value violates unique constraint "idx_products_sku"`,
		ConstraintName: "idx_products_sku",
	}

	cases := []struct {
		name       string
		err        error
		constraint string
		want       bool
	}{
		{name: "nil error", err: nil, want: false},
		{name: "pg typed duplicate", err: pgDup, want: true},
		{name: "pg typed wrapped", err: fmt.Errorf("create product: %w", pgDup), want: true},
		{name: "pg typed other code", err: &pgconn.PgError{Code: "23503"}, want: false},
		{
			name: "pg message text",
			err:  errors.New(`ERROR: duplicate key value violates unique constraint "idx_products_sku" (SQLSTATE 23505)`),
			want: true,
		},
		{
			name: "sqlite message text",
			err:  errors.New("UNIQUE constraint failed: products.sku"),
			want: true,
		},
		{
			name:       "constraint name matches",
			err:        pgDup,
			constraint: "idx_products_sku",
			want:       true,
		},
		{
			name:       "constraint name differs",
			err:        pgDup,
			constraint: "idx_customers_email",
			want:       false,
		},
		{name: "unrelated error", err: errors.New("connection refused"), want: false},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if got := IsUniqueViolation(tc.err, tc.constraint); got != tc.want {
				t.Fatalf("IsUniqueViolation = %v, want %v", got, tc.want)
			}
		})
	}
}
