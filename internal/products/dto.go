package products

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/lucasferraz/ordersys-backend/pkg/db/models"
)

// ProductDTO is the API-facing product shape.
type ProductDTO struct {
	ID        int64           `json:"id"`
	Name      string          `json:"name"`
	SKU       string          `json:"sku"`
	Price     decimal.Decimal `json:"price"`
	StockQty  int             `json:"stock_qty"`
	IsActive  bool            `json:"is_active"`
	CreatedAt time.Time       `json:"created_at"`
}

// CreateProductInput carries the fields accepted on product creation.
type CreateProductInput struct {
	Name     string          `json:"name" validate:"required,max=120"`
	SKU      string          `json:"sku" validate:"required,max=32"`
	Price    decimal.Decimal `json:"price"`
	StockQty int             `json:"stock_qty" validate:"gte=0"`
	IsActive *bool           `json:"is_active"`
}

// UpdateProductInput carries the fields accepted on product edit. Nil fields
// are left untouched.
type UpdateProductInput struct {
	Name     *string          `json:"name" validate:"omitempty,max=120"`
	SKU      *string          `json:"sku" validate:"omitempty,max=32"`
	Price    *decimal.Decimal `json:"price"`
	StockQty *int             `json:"stock_qty" validate:"omitempty,gte=0"`
	IsActive *bool            `json:"is_active"`
}

// ListFilter narrows product listings. Zero-valued fields are ignored.
type ListFilter struct {
	ID         *int64
	Name       string
	SKU        string
	MinPrice   *decimal.Decimal
	MinStock   *int
	IsActive   *bool
	CreatedMin *time.Time
}

// ToDTO maps a persisted product onto the API shape.
func ToDTO(m models.Product) ProductDTO {
	return ProductDTO{
		ID:        m.ID,
		Name:      m.Name,
		SKU:       m.SKU,
		Price:     m.Price,
		StockQty:  m.StockQty,
		IsActive:  m.IsActive,
		CreatedAt: m.CreatedAt,
	}
}
