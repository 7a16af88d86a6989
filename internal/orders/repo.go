package orders

import (
	"context"

	"gorm.io/gorm"

	"github.com/lucasferraz/ordersys-backend/pkg/db/models"
	"github.com/lucasferraz/ordersys-backend/pkg/enums"
	pkgerrors "github.com/lucasferraz/ordersys-backend/pkg/errors"
	"github.com/lucasferraz/ordersys-backend/pkg/pagination"
)

var orderSortColumns = map[string]string{
	"id":           "orders.id",
	"status":       "orders.status",
	"total_amount": "orders.total_amount",
	"created_at":   "orders.created_at",
}

// Repository encapsulates order persistence.
type Repository struct {
	db *gorm.DB
}

// NewRepository constructs an order repository bound to the provided gorm DB.
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

// FindByID loads one order with its items and customer, or
// gorm.ErrRecordNotFound.
func (r *Repository) FindByID(ctx context.Context, id int64) (*models.Order, error) {
	var order models.Order
	err := r.db.WithContext(ctx).
		Preload("Items").
		Preload("Customer").
		First(&order, id).Error
	if err != nil {
		return nil, err
	}
	return &order, nil
}

// List returns a filtered, paginated order page plus the unpaginated total.
// The customer filter is free text matched against name, email and document.
func (r *Repository) List(ctx context.Context, filter ListFilter, page pagination.Params) ([]models.Order, int64, error) {
	page = page.Normalize()
	orderClause, err := page.OrderClause(orderSortColumns)
	if err != nil {
		return nil, 0, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid sort field")
	}

	query := r.db.WithContext(ctx).Model(&models.Order{})
	if filter.Customer != "" {
		needle := "%" + filter.Customer + "%"
		query = query.
			Joins("JOIN customers ON customers.id = orders.customer_id").
			Where("LOWER(customers.name) LIKE LOWER(?) OR LOWER(customers.email) LIKE LOWER(?) OR customers.document LIKE ?",
				needle, needle, needle)
	}
	if filter.ID != nil {
		query = query.Where("orders.id = ?", *filter.ID)
	}
	if filter.MinTotal != nil {
		query = query.Where("orders.total_amount >= ?", *filter.MinTotal)
	}
	if filter.Status != nil {
		query = query.Where("orders.status = ?", *filter.Status)
	}
	if filter.CreatedMin != nil {
		query = query.Where("orders.created_at >= ?", *filter.CreatedMin)
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	if orderClause != "" {
		query = query.Order(orderClause)
	}
	var rows []models.Order
	err = query.
		Preload("Items").
		Preload("Customer").
		Offset(page.First).
		Limit(page.Rows).
		Find(&rows).Error
	if err != nil {
		return nil, 0, err
	}
	return rows, total, nil
}

// Create inserts the order together with its items.
func (r *Repository) Create(ctx context.Context, order *models.Order) error {
	return r.db.WithContext(ctx).Create(order).Error
}

// Edit persists the edited aggregate: removed items are deleted first, then
// the order and its surviving/new items are saved in full.
func (r *Repository) Edit(ctx context.Context, order *models.Order, removedItemIDs []int64) error {
	if len(removedItemIDs) > 0 {
		err := r.db.WithContext(ctx).
			Where("order_id = ? AND id IN ?", order.ID, removedItemIDs).
			Delete(&models.OrderItem{}).Error
		if err != nil {
			return err
		}
	}
	// Omit the preloaded customer association so a changed customer_id is
	// not overwritten by the stale belongs-to record.
	return r.db.WithContext(ctx).
		Session(&gorm.Session{FullSaveAssociations: true}).
		Omit("Customer").
		Save(order).Error
}

// UpdateStatus sets the order status without touching items or totals.
func (r *Repository) UpdateStatus(ctx context.Context, id int64, status enums.OrderStatus) error {
	return r.db.WithContext(ctx).
		Model(&models.Order{}).
		Where("id = ?", id).
		Update("status", status).Error
}
