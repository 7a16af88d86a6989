package customers

import (
	"context"
	"fmt"
	"testing"

	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	pkgerrors "github.com/lucasferraz/ordersys-backend/pkg/errors"
	"github.com/lucasferraz/ordersys-backend/pkg/pagination"
)

func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", t.Name())
	gdb, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{})
	if err != nil {
		t.Fatalf("open sqlite: %v", err)
	}
	ddl := `CREATE TABLE customers (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		name TEXT NOT NULL,
		email TEXT NOT NULL,
		document TEXT NOT NULL,
		created_at DATETIME
	)`
	if err := gdb.Exec(ddl).Error; err != nil {
		t.Fatalf("create table: %v", err)
	}
	return gdb
}

func newTestService(t *testing.T) Service {
	t.Helper()
	svc, err := NewService(ServiceParams{Repo: NewRepository(newTestDB(t))})
	if err != nil {
		t.Fatalf("new service: %v", err)
	}
	return svc
}

func TestCreateCustomerNormalizesDocument(t *testing.T) {
	svc := newTestService(t)

	dto, err := svc.Create(context.Background(), CreateCustomerInput{
		Name:     "Maria Silva",
		Email:    "maria@example.com",
		Document: "123.456.789-09",
	})
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	if dto.Document != "12345678909" {
		t.Fatalf("expected normalized document, got %q", dto.Document)
	}
}

func TestCreateCustomerRejectsBadDocuments(t *testing.T) {
	svc := newTestService(t)
	ctx := context.Background()

	cases := []struct {
		name     string
		document string
	}{
		{"too short", "12345"},
		{"twelve digits", "123456789012"},
		{"all identical", "11111111111"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := svc.Create(ctx, CreateCustomerInput{
				Name:     "Maria Silva",
				Email:    "maria@example.com",
				Document: tc.document,
			})
			typed := pkgerrors.As(err)
			if typed == nil || typed.Code() != pkgerrors.CodeValidation {
				t.Fatalf("expected validation error, got %v", err)
			}
		})
	}
}

func TestCreateCustomerRejectsBadName(t *testing.T) {
	svc := newTestService(t)

	_, err := svc.Create(context.Background(), CreateCustomerInput{
		Name:     "Maria 42",
		Email:    "maria@example.com",
		Document: "12345678909",
	})
	typed := pkgerrors.As(err)
	if typed == nil || typed.Code() != pkgerrors.CodeValidation {
		t.Fatalf("expected validation error, got %v", err)
	}
}

func TestCreateCustomerDuplicatePreCheck(t *testing.T) {
	svc := newTestService(t)
	ctx := context.Background()

	if _, err := svc.Create(ctx, CreateCustomerInput{
		Name:     "Maria Silva",
		Email:    "maria@example.com",
		Document: "12345678909",
	}); err != nil {
		t.Fatalf("create: %v", err)
	}

	// any of name/email/document colliding is a conflict
	_, err := svc.Create(ctx, CreateCustomerInput{
		Name:     "Other Person",
		Email:    "other@example.com",
		Document: "123.456.789-09",
	})
	typed := pkgerrors.As(err)
	if typed == nil || typed.Code() != pkgerrors.CodeConflict {
		t.Fatalf("expected conflict on duplicate document, got %v", err)
	}
}

func TestUpdateCustomer(t *testing.T) {
	svc := newTestService(t)
	ctx := context.Background()

	created, err := svc.Create(ctx, CreateCustomerInput{
		Name:     "Maria Silva",
		Email:    "maria@example.com",
		Document: "12345678909",
	})
	if err != nil {
		t.Fatalf("create: %v", err)
	}

	email := "maria.silva@example.com"
	updated, err := svc.Update(ctx, created.ID, UpdateCustomerInput{Email: &email})
	if err != nil {
		t.Fatalf("update: %v", err)
	}
	if updated.Email != email {
		t.Fatalf("expected updated email, got %s", updated.Email)
	}
	if updated.Name != created.Name || updated.Document != created.Document {
		t.Fatalf("unset fields must be preserved")
	}
}

func TestGetCustomerNotFound(t *testing.T) {
	svc := newTestService(t)

	_, err := svc.Get(context.Background(), 404)
	typed := pkgerrors.As(err)
	if typed == nil || typed.Code() != pkgerrors.CodeNotFound {
		t.Fatalf("expected not found, got %v", err)
	}
}

func TestListCustomersFreeTextFilter(t *testing.T) {
	svc := newTestService(t)
	ctx := context.Background()

	seed := []CreateCustomerInput{
		{Name: "Maria Silva", Email: "maria@example.com", Document: "12345678909"},
		{Name: "Joana Souza", Email: "joana@example.com", Document: "98765432100"},
	}
	for _, input := range seed {
		if _, err := svc.Create(ctx, input); err != nil {
			t.Fatalf("seed: %v", err)
		}
	}

	page, err := svc.List(ctx, ListFilter{Name: "maria"}, pagination.Params{})
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if page.Total != 1 || len(page.Items) != 1 {
		t.Fatalf("expected single match, got total=%d items=%d", page.Total, len(page.Items))
	}
	if page.Items[0].Name != "Maria Silva" {
		t.Fatalf("unexpected match %s", page.Items[0].Name)
	}
}
