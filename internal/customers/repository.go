package customers

import (
	"context"

	"gorm.io/gorm"

	"github.com/lucasferraz/ordersys-backend/pkg/db/models"
	pkgerrors "github.com/lucasferraz/ordersys-backend/pkg/errors"
	"github.com/lucasferraz/ordersys-backend/pkg/pagination"
)

var customerSortColumns = map[string]string{
	"id":         "id",
	"name":       "name",
	"email":      "email",
	"document":   "document",
	"created_at": "created_at",
}

// Repository encapsulates customer persistence.
type Repository struct {
	db *gorm.DB
}

// NewRepository constructs a customer repository bound to the provided gorm DB.
func NewRepository(db *gorm.DB) *Repository {
	return &Repository{db: db}
}

// WithTx returns a repository bound to the supplied transaction.
func (r *Repository) WithTx(tx *gorm.DB) *Repository {
	if tx == nil {
		return r
	}
	return &Repository{db: tx}
}

// FindByID loads one customer or gorm.ErrRecordNotFound.
func (r *Repository) FindByID(ctx context.Context, id int64) (*models.Customer, error) {
	var customer models.Customer
	if err := r.db.WithContext(ctx).First(&customer, id).Error; err != nil {
		return nil, err
	}
	return &customer, nil
}

// Customer resolves one customer inside the caller's transaction. Used by
// order operations that validate the customer reference mid-unit.
func (r *Repository) Customer(ctx context.Context, tx *gorm.DB, id int64) (*models.Customer, error) {
	return r.WithTx(tx).FindByID(ctx, id)
}

// List returns a filtered, paginated customer page plus the unpaginated total.
func (r *Repository) List(ctx context.Context, filter ListFilter, page pagination.Params) ([]models.Customer, int64, error) {
	page = page.Normalize()
	orderClause, err := page.OrderClause(customerSortColumns)
	if err != nil {
		return nil, 0, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid sort field")
	}

	query := r.db.WithContext(ctx).Model(&models.Customer{})
	if filter.ID != nil {
		query = query.Where("id = ?", *filter.ID)
	}
	if filter.Name != "" {
		query = query.Where("LOWER(name) LIKE LOWER(?)", "%"+filter.Name+"%")
	}
	if filter.Email != "" {
		query = query.Where("LOWER(email) LIKE LOWER(?)", "%"+filter.Email+"%")
	}
	if filter.Document != "" {
		query = query.Where("document = ?", filter.Document)
	}
	if filter.CreatedMin != nil {
		query = query.Where("created_at >= ?", *filter.CreatedMin)
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	if orderClause != "" {
		query = query.Order(orderClause)
	}
	var rows []models.Customer
	if err := query.Offset(page.First).Limit(page.Rows).Find(&rows).Error; err != nil {
		return nil, 0, err
	}
	return rows, total, nil
}

// FindConflicts returns customers colliding with the given business keys
// (name OR email OR document), excluding the given id when updating.
func (r *Repository) FindConflicts(ctx context.Context, name, email, document string, excludeID int64) ([]models.Customer, error) {
	query := r.db.WithContext(ctx).Model(&models.Customer{}).
		Where("name = ? OR email = ? OR document = ?", name, email, document)
	if excludeID > 0 {
		query = query.Where("id <> ?", excludeID)
	}
	var rows []models.Customer
	if err := query.Find(&rows).Error; err != nil {
		return nil, err
	}
	return rows, nil
}

// Create inserts a customer.
func (r *Repository) Create(ctx context.Context, customer *models.Customer) error {
	return r.db.WithContext(ctx).Create(customer).Error
}

// Update persists all customer fields.
func (r *Repository) Update(ctx context.Context, customer *models.Customer) error {
	return r.db.WithContext(ctx).Save(customer).Error
}
