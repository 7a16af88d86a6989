package products

import (
	"context"
	"errors"

	"gorm.io/gorm"

	pkgdb "github.com/lucasferraz/ordersys-backend/pkg/db"
	"github.com/lucasferraz/ordersys-backend/pkg/db/models"
	pkgerrors "github.com/lucasferraz/ordersys-backend/pkg/errors"
	"github.com/lucasferraz/ordersys-backend/pkg/logger"
	"github.com/lucasferraz/ordersys-backend/pkg/pagination"
	"github.com/lucasferraz/ordersys-backend/pkg/types"
)

// ServiceParams groups dependencies for the product service.
type ServiceParams struct {
	Repo   *Repository
	Logger *logger.Logger
}

// Service exposes business rules for product management.
type Service interface {
	Create(ctx context.Context, input CreateProductInput) (ProductDTO, error)
	Update(ctx context.Context, id int64, input UpdateProductInput) (ProductDTO, error)
	Get(ctx context.Context, id int64) (ProductDTO, error)
	List(ctx context.Context, filter ListFilter, page pagination.Params) (types.Page[ProductDTO], error)
}

type service struct {
	repo *Repository
	logg *logger.Logger
}

// NewService builds a product service with the required dependencies.
func NewService(params ServiceParams) (Service, error) {
	if params.Repo == nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "product repo is required")
	}
	return &service{repo: params.Repo, logg: params.Logger}, nil
}

// Create inserts a product after a business-key duplicate pre-check.
func (s *service) Create(ctx context.Context, input CreateProductInput) (ProductDTO, error) {
	if input.Price.IsNegative() {
		return ProductDTO{}, pkgerrors.New(pkgerrors.CodeValidation, "price must not be negative")
	}
	if err := s.ensureNoConflict(ctx, input.Name, input.SKU, 0); err != nil {
		return ProductDTO{}, err
	}

	active := true
	if input.IsActive != nil {
		active = *input.IsActive
	}
	product := models.Product{
		Name:     input.Name,
		SKU:      input.SKU,
		Price:    input.Price.Round(2),
		StockQty: input.StockQty,
		IsActive: active,
	}
	if err := s.repo.Create(ctx, &product); err != nil {
		return ProductDTO{}, wrapWriteError(err, "create product")
	}
	return ToDTO(product), nil
}

// Update applies a partial edit to an existing product.
func (s *service) Update(ctx context.Context, id int64, input UpdateProductInput) (ProductDTO, error) {
	product, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ProductDTO{}, pkgerrors.Wrap(pkgerrors.CodeNotFound, err, "product not found")
		}
		return ProductDTO{}, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load product")
	}

	if input.Name != nil {
		product.Name = *input.Name
	}
	if input.SKU != nil {
		product.SKU = *input.SKU
	}
	if input.Price != nil {
		if input.Price.IsNegative() {
			return ProductDTO{}, pkgerrors.New(pkgerrors.CodeValidation, "price must not be negative")
		}
		product.Price = input.Price.Round(2)
	}
	if input.StockQty != nil {
		if *input.StockQty < 0 {
			return ProductDTO{}, pkgerrors.New(pkgerrors.CodeValidation, "stock_qty must not be negative")
		}
		product.StockQty = *input.StockQty
	}
	if input.IsActive != nil {
		product.IsActive = *input.IsActive
	}

	if err := s.ensureNoConflict(ctx, product.Name, product.SKU, product.ID); err != nil {
		return ProductDTO{}, err
	}
	if err := s.repo.Update(ctx, product); err != nil {
		return ProductDTO{}, wrapWriteError(err, "update product")
	}
	return ToDTO(*product), nil
}

// Get loads a single product.
func (s *service) Get(ctx context.Context, id int64) (ProductDTO, error) {
	product, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ProductDTO{}, pkgerrors.Wrap(pkgerrors.CodeNotFound, err, "product not found")
		}
		return ProductDTO{}, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load product")
	}
	return ToDTO(*product), nil
}

// List returns a filtered, paginated page of products.
func (s *service) List(ctx context.Context, filter ListFilter, page pagination.Params) (types.Page[ProductDTO], error) {
	rows, total, err := s.repo.List(ctx, filter, page)
	if err != nil {
		if typed := pkgerrors.As(err); typed != nil {
			return types.Page[ProductDTO]{}, err
		}
		return types.Page[ProductDTO]{}, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "list products")
	}
	items := make([]ProductDTO, 0, len(rows))
	for _, row := range rows {
		items = append(items, ToDTO(row))
	}
	return types.Page[ProductDTO]{Items: items, Total: total}, nil
}

// wrapWriteError maps a unique index violation to a conflict. Concurrent
// writers can both pass the duplicate pre-check; the index on sku is the
// final arbiter.
func wrapWriteError(err error, message string) error {
	if pkgdb.IsUniqueViolation(err, "") {
		return pkgerrors.Wrap(pkgerrors.CodeConflict, err, "product already exists").
			WithDetails(map[string]any{"fields": []string{"sku"}})
	}
	return pkgerrors.Wrap(pkgerrors.CodeDependency, err, message)
}

func (s *service) ensureNoConflict(ctx context.Context, name, sku string, excludeID int64) error {
	conflicts, err := s.repo.FindConflicts(ctx, name, sku, excludeID)
	if err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "check product conflicts")
	}
	if len(conflicts) == 0 {
		return nil
	}
	fields := []string{}
	for _, existing := range conflicts {
		if existing.Name == name {
			fields = append(fields, "name")
		}
		if existing.SKU == sku {
			fields = append(fields, "sku")
		}
	}
	return pkgerrors.New(pkgerrors.CodeConflict, "product already exists").
		WithDetails(map[string]any{"fields": fields})
}
