package customers

import (
	"context"
	"errors"

	"gorm.io/gorm"

	"github.com/lucasferraz/ordersys-backend/pkg/db/models"
	pkgerrors "github.com/lucasferraz/ordersys-backend/pkg/errors"
	"github.com/lucasferraz/ordersys-backend/pkg/logger"
	"github.com/lucasferraz/ordersys-backend/pkg/pagination"
	"github.com/lucasferraz/ordersys-backend/pkg/types"
)

// ServiceParams groups dependencies for the customer service.
type ServiceParams struct {
	Repo   *Repository
	Logger *logger.Logger
}

// Service exposes business rules for customer management.
type Service interface {
	Create(ctx context.Context, input CreateCustomerInput) (CustomerDTO, error)
	Update(ctx context.Context, id int64, input UpdateCustomerInput) (CustomerDTO, error)
	Get(ctx context.Context, id int64) (CustomerDTO, error)
	List(ctx context.Context, filter ListFilter, page pagination.Params) (types.Page[CustomerDTO], error)
}

type service struct {
	repo *Repository
	logg *logger.Logger
}

// NewService builds a customer service with the required dependencies.
func NewService(params ServiceParams) (Service, error) {
	if params.Repo == nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "customer repo is required")
	}
	return &service{repo: params.Repo, logg: params.Logger}, nil
}

// Create inserts a customer after normalization and a duplicate pre-check.
func (s *service) Create(ctx context.Context, input CreateCustomerInput) (CustomerDTO, error) {
	if err := ValidateName(input.Name); err != nil {
		return CustomerDTO{}, err
	}
	document, err := NormalizeDocument(input.Document)
	if err != nil {
		return CustomerDTO{}, err
	}
	if err := s.ensureNoConflict(ctx, input.Name, input.Email, document, 0); err != nil {
		return CustomerDTO{}, err
	}

	customer := models.Customer{
		Name:     input.Name,
		Email:    input.Email,
		Document: document,
	}
	if err := s.repo.Create(ctx, &customer); err != nil {
		return CustomerDTO{}, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "create customer")
	}
	return ToDTO(customer), nil
}

// Update applies a partial edit to an existing customer.
func (s *service) Update(ctx context.Context, id int64, input UpdateCustomerInput) (CustomerDTO, error) {
	customer, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return CustomerDTO{}, pkgerrors.Wrap(pkgerrors.CodeNotFound, err, "customer not found")
		}
		return CustomerDTO{}, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load customer")
	}

	if input.Name != nil {
		if err := ValidateName(*input.Name); err != nil {
			return CustomerDTO{}, err
		}
		customer.Name = *input.Name
	}
	if input.Email != nil {
		customer.Email = *input.Email
	}
	if input.Document != nil {
		document, err := NormalizeDocument(*input.Document)
		if err != nil {
			return CustomerDTO{}, err
		}
		customer.Document = document
	}

	if err := s.ensureNoConflict(ctx, customer.Name, customer.Email, customer.Document, customer.ID); err != nil {
		return CustomerDTO{}, err
	}
	if err := s.repo.Update(ctx, customer); err != nil {
		return CustomerDTO{}, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "update customer")
	}
	return ToDTO(*customer), nil
}

// Get loads a single customer.
func (s *service) Get(ctx context.Context, id int64) (CustomerDTO, error) {
	customer, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return CustomerDTO{}, pkgerrors.Wrap(pkgerrors.CodeNotFound, err, "customer not found")
		}
		return CustomerDTO{}, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load customer")
	}
	return ToDTO(*customer), nil
}

// List returns a filtered, paginated page of customers.
func (s *service) List(ctx context.Context, filter ListFilter, page pagination.Params) (types.Page[CustomerDTO], error) {
	rows, total, err := s.repo.List(ctx, filter, page)
	if err != nil {
		if typed := pkgerrors.As(err); typed != nil {
			return types.Page[CustomerDTO]{}, err
		}
		return types.Page[CustomerDTO]{}, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "list customers")
	}
	items := make([]CustomerDTO, 0, len(rows))
	for _, row := range rows {
		items = append(items, ToDTO(row))
	}
	return types.Page[CustomerDTO]{Items: items, Total: total}, nil
}

func (s *service) ensureNoConflict(ctx context.Context, name, email, document string, excludeID int64) error {
	conflicts, err := s.repo.FindConflicts(ctx, name, email, document, excludeID)
	if err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "check customer conflicts")
	}
	if len(conflicts) == 0 {
		return nil
	}
	fields := []string{}
	for _, existing := range conflicts {
		if existing.Name == name {
			fields = append(fields, "name")
		}
		if existing.Email == email {
			fields = append(fields, "email")
		}
		if existing.Document == document {
			fields = append(fields, "document")
		}
	}
	return pkgerrors.New(pkgerrors.CodeConflict, "customer already exists").
		WithDetails(map[string]any{"fields": fields})
}
