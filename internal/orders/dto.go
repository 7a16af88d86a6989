package orders

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/lucasferraz/ordersys-backend/internal/customers"
	"github.com/lucasferraz/ordersys-backend/pkg/db/models"
	"github.com/lucasferraz/ordersys-backend/pkg/enums"
)

// AddItemInput is one requested line on order creation. The unit price is
// snapshotted from the product at add time, never taken from the caller.
type AddItemInput struct {
	ProductID int64 `json:"product_id" validate:"required,gt=0"`
	Quantity  int   `json:"quantity" validate:"required,gt=0"`
}

func (i AddItemInput) requestedQty() ItemQty {
	return ItemQty{ProductID: i.ProductID, Quantity: i.Quantity}
}

// AddOrderInput carries the order-creation payload.
type AddOrderInput struct {
	CustomerID int64          `json:"customer_id" validate:"required,gt=0"`
	Items      []AddItemInput `json:"items" validate:"required,min=1,dive"`
}

// EditItemInput is one proposed line on order edit. An item with an ID
// matching an existing line updates it in place; without one it is appended;
// existing lines whose id is absent from the payload are removed.
type EditItemInput struct {
	ID        *int64           `json:"id"`
	ProductID int64            `json:"product_id" validate:"required,gt=0"`
	Quantity  int              `json:"quantity" validate:"required,gt=0"`
	UnitPrice *decimal.Decimal `json:"unit_price"`
}

func (i EditItemInput) requestedQty() ItemQty {
	return ItemQty{ProductID: i.ProductID, Quantity: i.Quantity}
}

// EditOrderInput carries the order-edit payload.
type EditOrderInput struct {
	CustomerID int64           `json:"customer_id" validate:"required,gt=0"`
	Items      []EditItemInput `json:"items" validate:"required,min=1,dive"`
}

// OrderItemDTO is the API-facing line item shape.
type OrderItemDTO struct {
	ID        int64           `json:"id"`
	ProductID int64           `json:"product_id"`
	UnitPrice decimal.Decimal `json:"unit_price"`
	Quantity  int             `json:"quantity"`
	LineTotal decimal.Decimal `json:"line_total"`
}

// OrderDTO is the API-facing order snapshot.
type OrderDTO struct {
	ID          int64                  `json:"id"`
	CustomerID  int64                  `json:"customer_id"`
	Customer    *customers.CustomerDTO `json:"customer,omitempty"`
	Status      enums.OrderStatus      `json:"status"`
	TotalAmount decimal.Decimal        `json:"total_amount"`
	CreatedAt   time.Time              `json:"created_at"`
	Items       []OrderItemDTO         `json:"items"`
}

// ListFilter narrows order listings. Zero-valued fields are ignored.
type ListFilter struct {
	ID         *int64
	Customer   string // free text over customer name/email/document
	MinTotal   *decimal.Decimal
	Status     *enums.OrderStatus
	CreatedMin *time.Time
}

// ToDTO maps a persisted order (with preloaded items/customer) onto the API
// snapshot.
func ToDTO(m models.Order) OrderDTO {
	items := make([]OrderItemDTO, 0, len(m.Items))
	for _, item := range m.Items {
		items = append(items, OrderItemDTO{
			ID:        item.ID,
			ProductID: item.ProductID,
			UnitPrice: item.UnitPrice,
			Quantity:  item.Quantity,
			LineTotal: item.LineTotal,
		})
	}
	dto := OrderDTO{
		ID:          m.ID,
		CustomerID:  m.CustomerID,
		Status:      m.Status,
		TotalAmount: m.TotalAmount,
		CreatedAt:   m.CreatedAt,
		Items:       items,
	}
	if m.Customer != nil {
		customer := customers.ToDTO(*m.Customer)
		dto.Customer = &customer
	}
	return dto
}

func itemQuantities(items []models.OrderItem) []ItemQty {
	out := make([]ItemQty, 0, len(items))
	for _, item := range items {
		out = append(out, ItemQty{ProductID: item.ProductID, Quantity: item.Quantity})
	}
	return out
}
