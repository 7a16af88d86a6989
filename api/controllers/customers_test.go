package controllers

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	customersvc "github.com/lucasferraz/ordersys-backend/internal/customers"
	pkgerrors "github.com/lucasferraz/ordersys-backend/pkg/errors"
	"github.com/lucasferraz/ordersys-backend/pkg/pagination"
	"github.com/lucasferraz/ordersys-backend/pkg/types"
)

type stubCustomerService struct {
	createInput *customersvc.CreateCustomerInput
	customer    customersvc.CustomerDTO
	err         error
}

func (s *stubCustomerService) Create(_ context.Context, input customersvc.CreateCustomerInput) (customersvc.CustomerDTO, error) {
	s.createInput = &input
	return s.customer, s.err
}

func (s *stubCustomerService) Update(_ context.Context, _ int64, _ customersvc.UpdateCustomerInput) (customersvc.CustomerDTO, error) {
	return s.customer, s.err
}

func (s *stubCustomerService) Get(_ context.Context, _ int64) (customersvc.CustomerDTO, error) {
	return s.customer, s.err
}

func (s *stubCustomerService) List(_ context.Context, _ customersvc.ListFilter, _ pagination.Params) (types.Page[customersvc.CustomerDTO], error) {
	return types.Page[customersvc.CustomerDTO]{Items: []customersvc.CustomerDTO{s.customer}, Total: 1}, s.err
}

func TestCreateCustomer(t *testing.T) {
	logg := testLogger()

	t.Run("success", func(t *testing.T) {
		stub := &stubCustomerService{customer: customersvc.CustomerDTO{ID: 1, Name: "Ana Souza"}}
		body := strings.NewReader(`{"name":"Ana Souza","email":"ana@example.com","document":"123.456.789-09"}`)
		req := httptest.NewRequest(http.MethodPost, "/api/v1/customers", body)
		rec := httptest.NewRecorder()
		CreateCustomer(stub, logg).ServeHTTP(rec, req)

		if rec.Code != http.StatusCreated {
			t.Fatalf("expected 201 got %d: %s", rec.Code, rec.Body.String())
		}
		if stub.createInput == nil || stub.createInput.Document != "123.456.789-09" {
			t.Fatalf("expected raw document to reach the service")
		}
	})

	t.Run("invalid email rejected", func(t *testing.T) {
		stub := &stubCustomerService{}
		body := strings.NewReader(`{"name":"Ana Souza","email":"not-an-email","document":"12345678909"}`)
		req := httptest.NewRequest(http.MethodPost, "/api/v1/customers", body)
		rec := httptest.NewRecorder()
		CreateCustomer(stub, logg).ServeHTTP(rec, req)

		if rec.Code != http.StatusBadRequest {
			t.Fatalf("expected 400 got %d", rec.Code)
		}
		if stub.createInput != nil {
			t.Fatalf("service should not be called for invalid payloads")
		}
	})

	t.Run("duplicate surfaces 409", func(t *testing.T) {
		stub := &stubCustomerService{err: pkgerrors.New(pkgerrors.CodeConflict, "customer with the same name, email or document already exists")}
		body := strings.NewReader(`{"name":"Ana Souza","email":"ana@example.com","document":"12345678909"}`)
		req := httptest.NewRequest(http.MethodPost, "/api/v1/customers", body)
		rec := httptest.NewRecorder()
		CreateCustomer(stub, logg).ServeHTTP(rec, req)

		if rec.Code != http.StatusConflict {
			t.Fatalf("expected 409 got %d", rec.Code)
		}
	})
}

func TestGetCustomerInvalidID(t *testing.T) {
	logg := testLogger()
	stub := &stubCustomerService{}
	req := requestWithID(http.MethodGet, "/api/v1/customers/-1", "-1", nil)
	rec := httptest.NewRecorder()
	GetCustomer(stub, logg).ServeHTTP(rec, req)

	if rec.Code != http.StatusBadRequest {
		t.Fatalf("expected 400 got %d", rec.Code)
	}
}
