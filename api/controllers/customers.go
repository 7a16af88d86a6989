package controllers

import (
	"net/http"
	"strings"
	"time"

	"github.com/lucasferraz/ordersys-backend/api/responses"
	"github.com/lucasferraz/ordersys-backend/api/validators"
	customersvc "github.com/lucasferraz/ordersys-backend/internal/customers"
	pkgerrors "github.com/lucasferraz/ordersys-backend/pkg/errors"
	"github.com/lucasferraz/ordersys-backend/pkg/logger"
	"github.com/lucasferraz/ordersys-backend/pkg/pagination"
)

// CreateCustomer registers a new customer record.
func CreateCustomer(svc customersvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "customer service unavailable"))
			return
		}

		var input customersvc.CreateCustomerInput
		if err := validators.DecodeJSONBody(r, &input); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		customer, err := svc.Create(r.Context(), input)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccessStatus(w, http.StatusCreated, customer)
	}
}

// UpdateCustomer applies a partial edit to an existing customer.
func UpdateCustomer(svc customersvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "customer service unavailable"))
			return
		}

		id, err := idParam(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		var input customersvc.UpdateCustomerInput
		if err := validators.DecodeJSONBody(r, &input); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		customer, err := svc.Update(r.Context(), id, input)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccess(w, customer)
	}
}

// GetCustomer returns a single customer by id.
func GetCustomer(svc customersvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "customer service unavailable"))
			return
		}

		id, err := idParam(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		customer, err := svc.Get(r.Context(), id)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccess(w, customer)
	}
}

// ListCustomers returns a filtered, paginated customer page.
func ListCustomers(svc customersvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "customer service unavailable"))
			return
		}

		filter, page, err := parseCustomerListQuery(r)
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

func parseCustomerListQuery(r *http.Request) (customersvc.ListFilter, pagination.Params, error) {
	var filter customersvc.ListFilter

	page, err := validators.ParsePagination(r)
	if err != nil {
		return filter, page, err
	}

	if filter.ID, err = validators.ParseQueryInt64(r, "id"); err != nil {
		return filter, page, err
	}
	filter.Name = strings.TrimSpace(r.URL.Query().Get("name"))
	filter.Email = strings.TrimSpace(r.URL.Query().Get("email"))
	filter.Document = strings.TrimSpace(r.URL.Query().Get("document"))
	if raw := r.URL.Query().Get("created_min"); raw != "" {
		ts, perr := time.Parse(time.RFC3339, raw)
		if perr != nil {
			return filter, page, pkgerrors.New(pkgerrors.CodeValidation, "created_min must be an RFC3339 timestamp")
		}
		filter.CreatedMin = &ts
	}

	return filter, page, nil
}
