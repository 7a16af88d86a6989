package models

import (
	"github.com/shopspring/decimal"
)

// OrderItem snapshots the product's unit price at the time the line was
// created. Later product price changes never alter existing lines.
type OrderItem struct {
	ID        int64           `gorm:"column:id;primaryKey;autoIncrement"`
	OrderID   int64           `gorm:"column:order_id;not null;index"`
	ProductID int64           `gorm:"column:product_id;not null"`
	UnitPrice decimal.Decimal `gorm:"column:unit_price;type:numeric(12,2);not null"`
	Quantity  int             `gorm:"column:quantity;not null"`
	LineTotal decimal.Decimal `gorm:"column:line_total;type:numeric(12,2);not null"`

	Product *Product `gorm:"foreignKey:ProductID"`
}

// TableName overrides GORM's default pluralization.
func (OrderItem) TableName() string {
	return "order_items"
}

// RecalcLine sets LineTotal = UnitPrice * Quantity rounded half-up to two
// decimal places. Must be called whenever UnitPrice or Quantity changes.
func (i *OrderItem) RecalcLine() {
	i.LineTotal = i.UnitPrice.Mul(decimal.NewFromInt(int64(i.Quantity))).Round(2)
}
