package products

import (
	"context"
	"errors"
	"sort"

	"gorm.io/gorm"

	"github.com/lucasferraz/ordersys-backend/pkg/db/models"
	pkgerrors "github.com/lucasferraz/ordersys-backend/pkg/errors"
	"github.com/lucasferraz/ordersys-backend/pkg/pagination"
)

var productSortColumns = map[string]string{
	"id":         "id",
	"name":       "name",
	"sku":        "sku",
	"price":      "price",
	"stock_qty":  "stock_qty",
	"created_at": "created_at",
}

// Repository encapsulates product persistence, including the stock-adjustment
// primitive used by order operations.
type Repository struct {
	db                 *gorm.DB
	allowNegativeStock bool
}

// NewRepository constructs a product repository bound to the provided gorm DB.
// allowNegativeStock controls whether stock-consuming adjustments may drive a
// product's quantity below zero.
func NewRepository(db *gorm.DB, allowNegativeStock bool) *Repository {
	return &Repository{db: db, allowNegativeStock: allowNegativeStock}
}

// WithTx returns a repository bound to the supplied transaction.
func (r *Repository) WithTx(tx *gorm.DB) *Repository {
	if tx == nil {
		return r
	}
	return &Repository{db: tx, allowNegativeStock: r.allowNegativeStock}
}

// FindByID loads one product or gorm.ErrRecordNotFound.
func (r *Repository) FindByID(ctx context.Context, id int64) (*models.Product, error) {
	var product models.Product
	if err := r.db.WithContext(ctx).First(&product, id).Error; err != nil {
		return nil, err
	}
	return &product, nil
}

// Product resolves one product inside the caller's transaction. Used by order
// operations that snapshot prices while holding the unit of work open.
func (r *Repository) Product(ctx context.Context, tx *gorm.DB, id int64) (*models.Product, error) {
	return r.WithTx(tx).FindByID(ctx, id)
}

// List returns a filtered, paginated product page plus the unpaginated total.
func (r *Repository) List(ctx context.Context, filter ListFilter, page pagination.Params) ([]models.Product, int64, error) {
	page = page.Normalize()
	orderClause, err := page.OrderClause(productSortColumns)
	if err != nil {
		return nil, 0, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid sort field")
	}

	query := r.db.WithContext(ctx).Model(&models.Product{})
	query = applyProductFilter(query, filter)

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	if orderClause != "" {
		query = query.Order(orderClause)
	}
	var rows []models.Product
	if err := query.Offset(page.First).Limit(page.Rows).Find(&rows).Error; err != nil {
		return nil, 0, err
	}
	return rows, total, nil
}

func applyProductFilter(query *gorm.DB, filter ListFilter) *gorm.DB {
	if filter.ID != nil {
		query = query.Where("id = ?", *filter.ID)
	}
	if filter.Name != "" {
		query = query.Where("LOWER(name) LIKE LOWER(?)", "%"+filter.Name+"%")
	}
	if filter.SKU != "" {
		query = query.Where("LOWER(sku) LIKE LOWER(?)", "%"+filter.SKU+"%")
	}
	if filter.MinPrice != nil {
		query = query.Where("price >= ?", *filter.MinPrice)
	}
	if filter.MinStock != nil {
		query = query.Where("stock_qty >= ?", *filter.MinStock)
	}
	if filter.IsActive != nil {
		query = query.Where("is_active = ?", *filter.IsActive)
	}
	if filter.CreatedMin != nil {
		query = query.Where("created_at >= ?", *filter.CreatedMin)
	}
	return query
}

// FindConflicts returns products colliding with the given business keys
// (name OR sku), excluding the given id when updating.
func (r *Repository) FindConflicts(ctx context.Context, name, sku string, excludeID int64) ([]models.Product, error) {
	query := r.db.WithContext(ctx).Model(&models.Product{}).
		Where("name = ? OR sku = ?", name, sku)
	if excludeID > 0 {
		query = query.Where("id <> ?", excludeID)
	}
	var rows []models.Product
	if err := query.Find(&rows).Error; err != nil {
		return nil, err
	}
	return rows, nil
}

// Create inserts a product.
func (r *Repository) Create(ctx context.Context, product *models.Product) error {
	return r.db.WithContext(ctx).Create(product).Error
}

// Update persists all product fields.
func (r *Repository) Update(ctx context.Context, product *models.Product) error {
	return r.db.WithContext(ctx).Save(product).Error
}

// AdjustStock applies a map of product-id -> signed delta as one relative
// UPDATE per product: stock_qty = stock_qty - delta (positive delta consumes
// stock, negative delta restores it). The update is set-based rather than
// read-modify-write, so concurrent writers on the same product cannot lose
// updates. Products are touched in ascending id order to keep row-lock
// acquisition deterministic.
//
// Under the default policy a consuming delta larger than the available stock
// fails with a state-conflict error and the caller's transaction must roll
// back; with allowNegativeStock the floor check is skipped.
func (r *Repository) AdjustStock(ctx context.Context, tx *gorm.DB, deltas map[int64]int) error {
	if len(deltas) == 0 {
		return nil
	}
	db := r.db
	if tx != nil {
		db = tx
	}

	ids := make([]int64, 0, len(deltas))
	for id := range deltas {
		ids = append(ids, id)
	}
	sort.Slice(ids, func(i, j int) bool { return ids[i] < ids[j] })

	for _, id := range ids {
		delta := deltas[id]
		if delta == 0 {
			continue
		}

		query := db.WithContext(ctx).Model(&models.Product{}).Where("id = ?", id)
		if !r.allowNegativeStock && delta > 0 {
			query = query.Where("stock_qty >= ?", delta)
		}
		result := query.Update("stock_qty", gorm.Expr("stock_qty - ?", delta))
		if result.Error != nil {
			return result.Error
		}
		if result.RowsAffected == 0 {
			var exists int64
			if err := db.WithContext(ctx).Model(&models.Product{}).Where("id = ?", id).Count(&exists).Error; err != nil {
				return err
			}
			if exists == 0 {
				return pkgerrors.New(pkgerrors.CodeNotFound, "product not found").
					WithDetails(map[string]any{"product_id": id})
			}
			return pkgerrors.New(pkgerrors.CodeStateConflict, "insufficient stock").
				WithDetails(map[string]any{"product_id": id, "requested": delta})
		}
	}
	return nil
}

// IsNotFound reports whether err represents a missing record.
func IsNotFound(err error) bool {
	return errors.Is(err, gorm.ErrRecordNotFound)
}
