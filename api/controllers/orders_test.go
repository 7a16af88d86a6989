package controllers

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/shopspring/decimal"

	ordersvc "github.com/lucasferraz/ordersys-backend/internal/orders"
	pkgerrors "github.com/lucasferraz/ordersys-backend/pkg/errors"
	"github.com/lucasferraz/ordersys-backend/pkg/logger"
	"github.com/lucasferraz/ordersys-backend/pkg/pagination"
	"github.com/lucasferraz/ordersys-backend/pkg/types"
)

func testLogger() *logger.Logger {
	return logger.New(logger.Options{ServiceName: "test", Level: logger.ParseLevel("debug"), Output: io.Discard})
}

func requestWithID(method, url, id string, body io.Reader) *http.Request {
	req := httptest.NewRequest(method, url, body)
	routeCtx := chi.NewRouteContext()
	routeCtx.URLParams.Add("id", id)
	return req.WithContext(context.WithValue(req.Context(), chi.RouteCtxKey, routeCtx))
}

type stubOrderService struct {
	addInput    *ordersvc.AddOrderInput
	editID      int64
	editInput   *ordersvc.EditOrderInput
	chargedID   int64
	cancelledID int64
	order       ordersvc.OrderDTO
	err         error
}

func (s *stubOrderService) Add(_ context.Context, input ordersvc.AddOrderInput) (ordersvc.OrderDTO, error) {
	s.addInput = &input
	return s.order, s.err
}

func (s *stubOrderService) Edit(_ context.Context, orderID int64, input ordersvc.EditOrderInput) (ordersvc.OrderDTO, error) {
	s.editID = orderID
	s.editInput = &input
	return s.order, s.err
}

func (s *stubOrderService) Charge(_ context.Context, orderID int64) (ordersvc.OrderDTO, error) {
	s.chargedID = orderID
	return s.order, s.err
}

func (s *stubOrderService) Cancel(_ context.Context, orderID int64) (ordersvc.OrderDTO, error) {
	s.cancelledID = orderID
	return s.order, s.err
}

func (s *stubOrderService) Get(_ context.Context, orderID int64) (ordersvc.OrderDTO, error) {
	return s.order, s.err
}

func (s *stubOrderService) List(_ context.Context, _ ordersvc.ListFilter, _ pagination.Params) (types.Page[ordersvc.OrderDTO], error) {
	return types.Page[ordersvc.OrderDTO]{Items: []ordersvc.OrderDTO{s.order}, Total: 1}, s.err
}

func TestAddOrder(t *testing.T) {
	logg := testLogger()

	t.Run("success", func(t *testing.T) {
		stub := &stubOrderService{order: ordersvc.OrderDTO{ID: 10, TotalAmount: decimal.RequireFromString("50.00")}}
		body := strings.NewReader(`{"customer_id":1,"items":[{"product_id":2,"quantity":2}]}`)
		req := httptest.NewRequest(http.MethodPost, "/api/v1/orders", body)
		rec := httptest.NewRecorder()
		AddOrder(stub, logg).ServeHTTP(rec, req)

		if rec.Code != http.StatusCreated {
			t.Fatalf("expected 201 got %d: %s", rec.Code, rec.Body.String())
		}
		if stub.addInput == nil || stub.addInput.CustomerID != 1 {
			t.Fatalf("expected service to receive customer_id=1")
		}
	})

	t.Run("unknown field rejected", func(t *testing.T) {
		stub := &stubOrderService{}
		body := strings.NewReader(`{"customer_id":1,"items":[{"product_id":2,"quantity":2}],"total":99}`)
		req := httptest.NewRequest(http.MethodPost, "/api/v1/orders", body)
		rec := httptest.NewRecorder()
		AddOrder(stub, logg).ServeHTTP(rec, req)

		if rec.Code != http.StatusBadRequest {
			t.Fatalf("expected 400 got %d", rec.Code)
		}
		if stub.addInput != nil {
			t.Fatalf("service should not be called for malformed payloads")
		}
	})

	t.Run("missing items rejected", func(t *testing.T) {
		stub := &stubOrderService{}
		body := strings.NewReader(`{"customer_id":1}`)
		req := httptest.NewRequest(http.MethodPost, "/api/v1/orders", body)
		rec := httptest.NewRecorder()
		AddOrder(stub, logg).ServeHTTP(rec, req)

		if rec.Code != http.StatusBadRequest {
			t.Fatalf("expected 400 got %d", rec.Code)
		}
	})

	t.Run("insufficient stock surfaces 422", func(t *testing.T) {
		stub := &stubOrderService{err: pkgerrors.New(pkgerrors.CodeStateConflict, "insufficient stock")}
		body := strings.NewReader(`{"customer_id":1,"items":[{"product_id":2,"quantity":99}]}`)
		req := httptest.NewRequest(http.MethodPost, "/api/v1/orders", body)
		rec := httptest.NewRecorder()
		AddOrder(stub, logg).ServeHTTP(rec, req)

		if rec.Code != http.StatusUnprocessableEntity {
			t.Fatalf("expected 422 got %d", rec.Code)
		}
		var payload struct {
			Error struct {
				Code    string `json:"code"`
				Message string `json:"message"`
			} `json:"error"`
		}
		if err := json.Unmarshal(rec.Body.Bytes(), &payload); err != nil {
			t.Fatalf("parse error body: %v", err)
		}
		if payload.Error.Code != string(pkgerrors.CodeStateConflict) {
			t.Fatalf("expected state conflict code, got %s", payload.Error.Code)
		}
		if payload.Error.Message != "insufficient stock" {
			t.Fatalf("expected message passthrough, got %q", payload.Error.Message)
		}
	})
}

func TestEditOrder(t *testing.T) {
	logg := testLogger()

	t.Run("success", func(t *testing.T) {
		stub := &stubOrderService{order: ordersvc.OrderDTO{ID: 7}}
		body := strings.NewReader(`{"customer_id":1,"items":[{"id":3,"product_id":2,"quantity":5}]}`)
		req := requestWithID(http.MethodPut, "/api/v1/orders/7", "7", body)
		rec := httptest.NewRecorder()
		EditOrder(stub, logg).ServeHTTP(rec, req)

		if rec.Code != http.StatusOK {
			t.Fatalf("expected 200 got %d: %s", rec.Code, rec.Body.String())
		}
		if stub.editID != 7 {
			t.Fatalf("expected edit on order 7, got %d", stub.editID)
		}
		if stub.editInput == nil || len(stub.editInput.Items) != 1 || *stub.editInput.Items[0].ID != 3 {
			t.Fatalf("expected item id 3 to reach the service")
		}
	})

	t.Run("invalid id", func(t *testing.T) {
		stub := &stubOrderService{}
		body := strings.NewReader(`{"customer_id":1,"items":[{"product_id":2,"quantity":5}]}`)
		req := requestWithID(http.MethodPut, "/api/v1/orders/abc", "abc", body)
		rec := httptest.NewRecorder()
		EditOrder(stub, logg).ServeHTTP(rec, req)

		if rec.Code != http.StatusBadRequest {
			t.Fatalf("expected 400 got %d", rec.Code)
		}
	})
}

func TestChargeAndCancelOrder(t *testing.T) {
	logg := testLogger()

	t.Run("charge", func(t *testing.T) {
		stub := &stubOrderService{order: ordersvc.OrderDTO{ID: 4, Status: "PAID"}}
		req := requestWithID(http.MethodPost, "/api/v1/orders/4/charge", "4", nil)
		rec := httptest.NewRecorder()
		ChargeOrder(stub, logg).ServeHTTP(rec, req)

		if rec.Code != http.StatusOK {
			t.Fatalf("expected 200 got %d", rec.Code)
		}
		if stub.chargedID != 4 {
			t.Fatalf("expected charge on order 4, got %d", stub.chargedID)
		}
	})

	t.Run("cancel already cancelled", func(t *testing.T) {
		stub := &stubOrderService{err: pkgerrors.New(pkgerrors.CodeStateConflict, "order already cancelled")}
		req := requestWithID(http.MethodPost, "/api/v1/orders/4/cancel", "4", nil)
		rec := httptest.NewRecorder()
		CancelOrder(stub, logg).ServeHTTP(rec, req)

		if rec.Code != http.StatusUnprocessableEntity {
			t.Fatalf("expected 422 got %d", rec.Code)
		}
	})
}

func TestListOrdersQueryParsing(t *testing.T) {
	logg := testLogger()

	t.Run("bad status rejected", func(t *testing.T) {
		stub := &stubOrderService{}
		req := httptest.NewRequest(http.MethodGet, "/api/v1/orders?status=SHIPPED", nil)
		rec := httptest.NewRecorder()
		ListOrders(stub, logg).ServeHTTP(rec, req)

		if rec.Code != http.StatusBadRequest {
			t.Fatalf("expected 400 got %d", rec.Code)
		}
	})

	t.Run("bad min_total rejected", func(t *testing.T) {
		stub := &stubOrderService{}
		req := httptest.NewRequest(http.MethodGet, "/api/v1/orders?min_total=abc", nil)
		rec := httptest.NewRecorder()
		ListOrders(stub, logg).ServeHTTP(rec, req)

		if rec.Code != http.StatusBadRequest {
			t.Fatalf("expected 400 got %d", rec.Code)
		}
	})

	t.Run("success", func(t *testing.T) {
		stub := &stubOrderService{order: ordersvc.OrderDTO{ID: 1}}
		req := httptest.NewRequest(http.MethodGet, "/api/v1/orders?status=CREATED&customer=acme&rows=10", nil)
		rec := httptest.NewRecorder()
		ListOrders(stub, logg).ServeHTTP(rec, req)

		if rec.Code != http.StatusOK {
			t.Fatalf("expected 200 got %d: %s", rec.Code, rec.Body.String())
		}
		var payload struct {
			Data types.Page[ordersvc.OrderDTO] `json:"data"`
		}
		if err := json.Unmarshal(rec.Body.Bytes(), &payload); err != nil {
			t.Fatalf("parse body: %v", err)
		}
		if payload.Data.Total != 1 {
			t.Fatalf("expected total 1 got %d", payload.Data.Total)
		}
	})
}
