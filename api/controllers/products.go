package controllers

import (
	"net/http"
	"strings"
	"time"

	"github.com/lucasferraz/ordersys-backend/api/responses"
	"github.com/lucasferraz/ordersys-backend/api/validators"
	productsvc "github.com/lucasferraz/ordersys-backend/internal/products"
	pkgerrors "github.com/lucasferraz/ordersys-backend/pkg/errors"
	"github.com/lucasferraz/ordersys-backend/pkg/logger"
	"github.com/lucasferraz/ordersys-backend/pkg/pagination"
)

// CreateProduct handles catalog product creation.
func CreateProduct(svc productsvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "product service unavailable"))
			return
		}

		var input productsvc.CreateProductInput
		if err := validators.DecodeJSONBody(r, &input); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		product, err := svc.Create(r.Context(), input)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccessStatus(w, http.StatusCreated, product)
	}
}

// UpdateProduct applies a partial edit to an existing product.
func UpdateProduct(svc productsvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "product service unavailable"))
			return
		}

		id, err := idParam(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		var input productsvc.UpdateProductInput
		if err := validators.DecodeJSONBody(r, &input); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		product, err := svc.Update(r.Context(), id, input)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccess(w, product)
	}
}

// GetProduct returns a single product by id.
func GetProduct(svc productsvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "product service unavailable"))
			return
		}

		id, err := idParam(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		product, err := svc.Get(r.Context(), id)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccess(w, product)
	}
}

// ListProducts returns a filtered, paginated catalog page.
func ListProducts(svc productsvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "product service unavailable"))
			return
		}

		filter, page, err := parseProductListQuery(r)
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

func parseProductListQuery(r *http.Request) (productsvc.ListFilter, pagination.Params, error) {
	var filter productsvc.ListFilter

	page, err := validators.ParsePagination(r)
	if err != nil {
		return filter, page, err
	}

	if filter.ID, err = validators.ParseQueryInt64(r, "id"); err != nil {
		return filter, page, err
	}
	filter.Name = strings.TrimSpace(r.URL.Query().Get("name"))
	filter.SKU = strings.TrimSpace(r.URL.Query().Get("sku"))
	if filter.MinPrice, err = validators.ParseQueryDecimal(r, "min_price"); err != nil {
		return filter, page, err
	}
	if minStock, perr := validators.ParseQueryInt64(r, "min_stock"); perr != nil {
		return filter, page, perr
	} else if minStock != nil {
		v := int(*minStock)
		filter.MinStock = &v
	}
	if filter.IsActive, err = validators.ParseQueryBool(r, "is_active"); err != nil {
		return filter, page, err
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
