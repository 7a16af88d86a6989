package orders

import (
	"context"
	"errors"

	"gorm.io/gorm"

	"github.com/lucasferraz/ordersys-backend/pkg/db/models"
	"github.com/lucasferraz/ordersys-backend/pkg/enums"
	pkgerrors "github.com/lucasferraz/ordersys-backend/pkg/errors"
	"github.com/lucasferraz/ordersys-backend/pkg/logger"
	"github.com/lucasferraz/ordersys-backend/pkg/outbox"
	"github.com/lucasferraz/ordersys-backend/pkg/pagination"
	"github.com/lucasferraz/ordersys-backend/pkg/types"
)

// TxRunner runs a function inside one database transaction.
type TxRunner interface {
	WithTx(ctx context.Context, fn func(tx *gorm.DB) error) error
}

// Inventory is the stock surface the order lifecycle depends on: product
// resolution for price snapshots and the relative stock-adjustment primitive.
// Both operate inside the caller's transaction.
type Inventory interface {
	Product(ctx context.Context, tx *gorm.DB, id int64) (*models.Product, error)
	AdjustStock(ctx context.Context, tx *gorm.DB, deltas map[int64]int) error
}

// CustomerDirectory resolves customer references inside the caller's
// transaction.
type CustomerDirectory interface {
	Customer(ctx context.Context, tx *gorm.DB, id int64) (*models.Customer, error)
}

// EventEmitter writes domain events into the outbox within the same
// transaction as the state change.
type EventEmitter interface {
	Emit(ctx context.Context, tx *gorm.DB, event outbox.DomainEvent) error
}

// ServiceParams groups dependencies for the order service.
type ServiceParams struct {
	OrderRepo *Repository
	Inventory Inventory
	Customers CustomerDirectory
	Tx        TxRunner
	Events    EventEmitter
	Logger    *logger.Logger
}

// Service orchestrates the order lifecycle: every mutating operation runs
// inside one transaction spanning order/item writes, stock adjustment and
// the outbox event, so any failure rolls the whole unit back.
type Service interface {
	Add(ctx context.Context, input AddOrderInput) (OrderDTO, error)
	Edit(ctx context.Context, orderID int64, input EditOrderInput) (OrderDTO, error)
	Charge(ctx context.Context, orderID int64) (OrderDTO, error)
	Cancel(ctx context.Context, orderID int64) (OrderDTO, error)
	Get(ctx context.Context, orderID int64) (OrderDTO, error)
	List(ctx context.Context, filter ListFilter, page pagination.Params) (types.Page[OrderDTO], error)
}

type service struct {
	orderRepo *Repository
	inventory Inventory
	customers CustomerDirectory
	tx        TxRunner
	events    EventEmitter
	logg      *logger.Logger
}

// NewService builds an order service with the required dependencies.
func NewService(params ServiceParams) (Service, error) {
	if params.OrderRepo == nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "order repo is required")
	}
	if params.Inventory == nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "inventory is required")
	}
	if params.Customers == nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "customer directory is required")
	}
	if params.Tx == nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "tx runner is required")
	}
	if params.Events == nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "event emitter is required")
	}
	return &service{
		orderRepo: params.OrderRepo,
		inventory: params.Inventory,
		customers: params.Customers,
		tx:        params.Tx,
		events:    params.Events,
		logg:      params.Logger,
	}, nil
}

// Add creates an order in CREATED state: resolves the customer and every
// product, snapshots unit prices, recomputes totals and reserves stock.
func (s *service) Add(ctx context.Context, input AddOrderInput) (OrderDTO, error) {
	if err := validateQuantities(input.Items); err != nil {
		return OrderDTO{}, err
	}

	var dto OrderDTO
	err := s.tx.WithTx(ctx, func(tx *gorm.DB) error {
		if _, err := s.resolveCustomer(ctx, tx, input.CustomerID); err != nil {
			return err
		}

		order := models.Order{
			CustomerID: input.CustomerID,
			Status:     enums.OrderStatusCreated,
		}
		for _, requested := range input.Items {
			product, err := s.resolveProduct(ctx, tx, requested.ProductID)
			if err != nil {
				return err
			}
			order.AppendItem(models.OrderItem{
				ProductID: product.ID,
				UnitPrice: product.Price,
				Quantity:  requested.Quantity,
			})
		}

		if err := s.orderRepo.WithTx(tx).Create(ctx, &order); err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "persist order")
		}

		deltas := DiffForFreshSet(itemQuantities(order.Items))
		if err := s.inventory.AdjustStock(ctx, tx, deltas); err != nil {
			return err
		}

		if err := s.emit(ctx, tx, enums.EventOrderCreated, order); err != nil {
			return err
		}
		dto = ToDTO(order)
		return nil
	})
	if err != nil {
		return OrderDTO{}, err
	}
	if s.logg != nil {
		s.logg.Info(s.logg.WithOrderID(ctx, dto.ID), "order created")
	}
	return dto, nil
}

// Edit rebuilds the order's item set from the payload: an item with a
// matching id is updated in place, one without is appended, and existing
// items absent from the payload are removed. Status is preserved; the stock
// delta between old and proposed sets is applied in the same transaction.
func (s *service) Edit(ctx context.Context, orderID int64, input EditOrderInput) (OrderDTO, error) {
	if err := validateQuantities(input.Items); err != nil {
		return OrderDTO{}, err
	}

	var dto OrderDTO
	err := s.tx.WithTx(ctx, func(tx *gorm.DB) error {
		repo := s.orderRepo.WithTx(tx)
		order, err := repo.FindByID(ctx, orderID)
		if err != nil {
			return wrapOrderLookup(err)
		}
		if _, err := s.resolveCustomer(ctx, tx, input.CustomerID); err != nil {
			return err
		}

		oldSet := itemQuantities(order.Items)

		existing := make(map[int64]*models.OrderItem, len(order.Items))
		for i := range order.Items {
			existing[order.Items[i].ID] = &order.Items[i]
		}

		keep := make(map[int64]bool, len(input.Items))
		proposed := make([]models.OrderItem, 0, len(input.Items))
		for _, payload := range input.Items {
			if payload.ID != nil {
				if current, ok := existing[*payload.ID]; ok {
					keep[*payload.ID] = true
					current.ProductID = payload.ProductID
					current.Quantity = payload.Quantity
					if payload.UnitPrice != nil {
						current.UnitPrice = payload.UnitPrice.Round(2)
					}
					current.RecalcLine()
					proposed = append(proposed, *current)
					continue
				}
			}
			item := models.OrderItem{
				OrderID:   order.ID,
				ProductID: payload.ProductID,
				Quantity:  payload.Quantity,
			}
			if payload.UnitPrice != nil {
				item.UnitPrice = payload.UnitPrice.Round(2)
			} else {
				product, err := s.resolveProduct(ctx, tx, payload.ProductID)
				if err != nil {
					return err
				}
				item.UnitPrice = product.Price
			}
			item.RecalcLine()
			proposed = append(proposed, item)
		}

		removed := make([]int64, 0)
		for id := range existing {
			if !keep[id] {
				removed = append(removed, id)
			}
		}

		if order.CustomerID != input.CustomerID {
			order.Customer = nil
		}
		order.CustomerID = input.CustomerID
		order.Items = proposed
		order.RecalcTotal()

		if err := repo.Edit(ctx, order, removed); err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "persist order edit")
		}

		deltas := DiffAgainstExisting(oldSet, itemQuantities(proposed))
		if err := s.inventory.AdjustStock(ctx, tx, deltas); err != nil {
			return err
		}

		if err := s.emit(ctx, tx, enums.EventOrderEdited, *order); err != nil {
			return err
		}
		dto = ToDTO(*order)
		return nil
	})
	if err != nil {
		return OrderDTO{}, err
	}
	return dto, nil
}

// Charge transitions CREATED -> PAID. No stock or total side effects.
func (s *service) Charge(ctx context.Context, orderID int64) (OrderDTO, error) {
	var dto OrderDTO
	err := s.tx.WithTx(ctx, func(tx *gorm.DB) error {
		repo := s.orderRepo.WithTx(tx)
		order, err := repo.FindByID(ctx, orderID)
		if err != nil {
			return wrapOrderLookup(err)
		}
		if err := ensureTransition(order.Status, enums.OrderStatusPaid); err != nil {
			return err
		}
		if err := repo.UpdateStatus(ctx, order.ID, enums.OrderStatusPaid); err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "persist status")
		}
		order.Status = enums.OrderStatusPaid

		if err := s.emit(ctx, tx, enums.EventOrderCharged, *order); err != nil {
			return err
		}
		dto = ToDTO(*order)
		return nil
	})
	if err != nil {
		return OrderDTO{}, err
	}
	return dto, nil
}

// Cancel transitions any non-cancelled order (PAID included) to CANCELLED
// and returns the full stock of every current item.
func (s *service) Cancel(ctx context.Context, orderID int64) (OrderDTO, error) {
	var dto OrderDTO
	err := s.tx.WithTx(ctx, func(tx *gorm.DB) error {
		repo := s.orderRepo.WithTx(tx)
		order, err := repo.FindByID(ctx, orderID)
		if err != nil {
			return wrapOrderLookup(err)
		}
		if err := ensureTransition(order.Status, enums.OrderStatusCancelled); err != nil {
			return err
		}
		if err := repo.UpdateStatus(ctx, order.ID, enums.OrderStatusCancelled); err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "persist status")
		}
		order.Status = enums.OrderStatusCancelled

		deltas := ReturnDeltas(itemQuantities(order.Items))
		if err := s.inventory.AdjustStock(ctx, tx, deltas); err != nil {
			return err
		}

		if err := s.emit(ctx, tx, enums.EventOrderCancelled, *order); err != nil {
			return err
		}
		dto = ToDTO(*order)
		return nil
	})
	if err != nil {
		return OrderDTO{}, err
	}
	return dto, nil
}

// Get loads one order snapshot.
func (s *service) Get(ctx context.Context, orderID int64) (OrderDTO, error) {
	order, err := s.orderRepo.FindByID(ctx, orderID)
	if err != nil {
		return OrderDTO{}, wrapOrderLookup(err)
	}
	return ToDTO(*order), nil
}

// List returns a filtered, paginated page of order snapshots.
func (s *service) List(ctx context.Context, filter ListFilter, page pagination.Params) (types.Page[OrderDTO], error) {
	rows, total, err := s.orderRepo.List(ctx, filter, page)
	if err != nil {
		if typed := pkgerrors.As(err); typed != nil {
			return types.Page[OrderDTO]{}, err
		}
		return types.Page[OrderDTO]{}, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "list orders")
	}
	items := make([]OrderDTO, 0, len(rows))
	for _, row := range rows {
		items = append(items, ToDTO(row))
	}
	return types.Page[OrderDTO]{Items: items, Total: total}, nil
}

// ensureTransition is the single guard over the order state machine:
// CREATED -> PAID via charge, CREATED/PAID -> CANCELLED via cancel, no way
// back. Edits do not pass through here; they preserve status in any state.
func ensureTransition(current, next enums.OrderStatus) error {
	switch next {
	case enums.OrderStatusPaid:
		if current != enums.OrderStatusCreated {
			return pkgerrors.New(pkgerrors.CodeStateConflict, "only created orders can be charged").
				WithDetails(map[string]any{"status": current})
		}
	case enums.OrderStatusCancelled:
		if current == enums.OrderStatusCancelled {
			return pkgerrors.New(pkgerrors.CodeStateConflict, "order is already cancelled")
		}
	default:
		return pkgerrors.New(pkgerrors.CodeStateConflict, "unsupported transition").
			WithDetails(map[string]any{"target": next})
	}
	return nil
}

func (s *service) resolveCustomer(ctx context.Context, tx *gorm.DB, id int64) (*models.Customer, error) {
	customer, err := s.customers.Customer(ctx, tx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.Wrap(pkgerrors.CodeNotFound, err, "customer not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load customer")
	}
	return customer, nil
}

func (s *service) resolveProduct(ctx context.Context, tx *gorm.DB, id int64) (*models.Product, error) {
	product, err := s.inventory.Product(ctx, tx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.Wrap(pkgerrors.CodeNotFound, err, "product not found").
				WithDetails(map[string]any{"product_id": id})
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load product")
	}
	return product, nil
}

func (s *service) emit(ctx context.Context, tx *gorm.DB, eventType enums.OutboxEventType, order models.Order) error {
	event := outbox.DomainEvent{
		EventType:     eventType,
		AggregateType: enums.AggregateOrder,
		AggregateID:   order.ID,
		Version:       1,
		Data: map[string]any{
			"order_id":     order.ID,
			"customer_id":  order.CustomerID,
			"status":       order.Status,
			"total_amount": order.TotalAmount,
		},
	}
	if err := s.events.Emit(ctx, tx, event); err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "queue outbox event")
	}
	return nil
}

func wrapOrderLookup(err error) error {
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return pkgerrors.Wrap(pkgerrors.CodeNotFound, err, "order not found")
	}
	if typed := pkgerrors.As(err); typed != nil {
		return err
	}
	return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load order")
}

func validateQuantities[T interface{ requestedQty() ItemQty }](items []T) error {
	if len(items) == 0 {
		return pkgerrors.New(pkgerrors.CodeValidation, "order requires at least one item")
	}
	for _, item := range items {
		qty := item.requestedQty()
		if qty.Quantity <= 0 {
			return pkgerrors.New(pkgerrors.CodeValidation, "quantity must be positive").
				WithDetails(map[string]any{"product_id": qty.ProductID})
		}
	}
	return nil
}
