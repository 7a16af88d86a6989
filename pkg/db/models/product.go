package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// Product is a sellable item. StockQty is only ever mutated through the
// inventory ledger's relative updates; order code never writes it directly.
type Product struct {
	ID        int64           `gorm:"column:id;primaryKey;autoIncrement"`
	Name      string          `gorm:"column:name;not null"`
	SKU       string          `gorm:"column:sku;uniqueIndex;not null"`
	Price     decimal.Decimal `gorm:"column:price;type:numeric(12,2);not null"`
	StockQty  int             `gorm:"column:stock_qty;not null"`
	IsActive  bool            `gorm:"column:is_active;not null;default:true"`
	CreatedAt time.Time       `gorm:"column:created_at;autoCreateTime"`
}

// TableName overrides GORM's default pluralization.
func (Product) TableName() string {
	return "products"
}
