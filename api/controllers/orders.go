package controllers

import (
	"net/http"
	"strings"
	"time"

	"github.com/lucasferraz/ordersys-backend/api/responses"
	"github.com/lucasferraz/ordersys-backend/api/validators"
	ordersvc "github.com/lucasferraz/ordersys-backend/internal/orders"
	"github.com/lucasferraz/ordersys-backend/pkg/enums"
	pkgerrors "github.com/lucasferraz/ordersys-backend/pkg/errors"
	"github.com/lucasferraz/ordersys-backend/pkg/logger"
	"github.com/lucasferraz/ordersys-backend/pkg/pagination"
)

// AddOrder creates an order, consuming stock for each line.
func AddOrder(svc ordersvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "order service unavailable"))
			return
		}

		var input ordersvc.AddOrderInput
		if err := validators.DecodeJSONBody(r, &input); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		order, err := svc.Add(r.Context(), input)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccessStatus(w, http.StatusCreated, order)
	}
}

// EditOrder replaces the proposed item set of an order, reconciling stock.
func EditOrder(svc ordersvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "order service unavailable"))
			return
		}

		id, err := idParam(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		var input ordersvc.EditOrderInput
		if err := validators.DecodeJSONBody(r, &input); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		order, err := svc.Edit(r.Context(), id, input)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccess(w, order)
	}
}

// ChargeOrder marks a created order as paid.
func ChargeOrder(svc ordersvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "order service unavailable"))
			return
		}

		id, err := idParam(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		order, err := svc.Charge(r.Context(), id)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccess(w, order)
	}
}

// CancelOrder cancels an order and returns its stock.
func CancelOrder(svc ordersvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "order service unavailable"))
			return
		}

		id, err := idParam(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		order, err := svc.Cancel(r.Context(), id)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccess(w, order)
	}
}

// GetOrder returns a single order with items and customer snapshot.
func GetOrder(svc ordersvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "order service unavailable"))
			return
		}

		id, err := idParam(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		order, err := svc.Get(r.Context(), id)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccess(w, order)
	}
}

// ListOrders returns a filtered, paginated order page.
func ListOrders(svc ordersvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "order service unavailable"))
			return
		}

		filter, page, err := parseOrderListQuery(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		result, err := svc.List(r.Context(), filter, page)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccess(w, result)
	}
}

func parseOrderListQuery(r *http.Request) (ordersvc.ListFilter, pagination.Params, error) {
	var filter ordersvc.ListFilter

	page, err := validators.ParsePagination(r)
	if err != nil {
		return filter, page, err
	}

	if filter.ID, err = validators.ParseQueryInt64(r, "id"); err != nil {
		return filter, page, err
	}
	filter.Customer = strings.TrimSpace(r.URL.Query().Get("customer"))
	if filter.MinTotal, err = validators.ParseQueryDecimal(r, "min_total"); err != nil {
		return filter, page, err
	}
	if raw := strings.TrimSpace(r.URL.Query().Get("status")); raw != "" {
		status, perr := enums.ParseOrderStatus(raw)
		if perr != nil {
			return filter, page, pkgerrors.Wrap(pkgerrors.CodeValidation, perr, "invalid status")
		}
		filter.Status = &status
	}
	if raw := r.URL.Query().Get("created_min"); raw != "" {
		ts, perr := time.Parse(time.RFC3339, raw)
		if perr != nil {
			return filter, page, pkgerrors.New(pkgerrors.CodeValidation, "created_min must be an RFC3339 timestamp")
		}
		filter.CreatedMin = &ts
	}

	return filter, page, nil
}
