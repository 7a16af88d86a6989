package models

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/lucasferraz/ordersys-backend/pkg/enums"
)

// Order owns its line items: removing an item from the collection deletes
// the row, and TotalAmount is always derived from the current items.
type Order struct {
	ID          int64             `gorm:"column:id;primaryKey;autoIncrement"`
	CustomerID  int64             `gorm:"column:customer_id;not null"`
	Status      enums.OrderStatus `gorm:"column:status;not null;default:CREATED"`
	TotalAmount decimal.Decimal   `gorm:"column:total_amount;type:numeric(12,2);not null"`
	CreatedAt   time.Time         `gorm:"column:created_at;autoCreateTime"`

	Customer *Customer   `gorm:"foreignKey:CustomerID"`
	Items    []OrderItem `gorm:"foreignKey:OrderID;constraint:OnDelete:CASCADE"`
}

// TableName overrides GORM's default pluralization.
func (Order) TableName() string {
	return "orders"
}

// RecalcTotal derives TotalAmount from the current items' line totals.
// Every code path that mutates the item collection must call it before the
// transaction commits; TotalAmount is never set independently.
func (o *Order) RecalcTotal() {
	total := decimal.Zero
	for i := range o.Items {
		total = total.Add(o.Items[i].LineTotal)
	}
	o.TotalAmount = total.Round(2)
}

// AppendItem recomputes the item's line total, adds it to the collection,
// and refreshes the order total in one step.
func (o *Order) AppendItem(item OrderItem) {
	item.RecalcLine()
	o.Items = append(o.Items, item)
	o.RecalcTotal()
}
