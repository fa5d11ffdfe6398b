package services

import (
	"context"
	"fmt"
	"time"

	"github.com/essence-shop/essence/internal/db"
	"github.com/essence-shop/essence/internal/models"
	"github.com/essence-shop/essence/internal/shared"
)

// transitions lists the statuses an order may move to from each status
var transitions = map[models.OrderStatus][]models.OrderStatus{
	models.OrderPending: {models.OrderPaid, models.OrderCancelled},
	models.OrderPaid:    {models.OrderShipped, models.OrderCancelled},
	models.OrderShipped: {models.OrderDelivered},
}

// CanTransition reports whether an order in status from may move to status to
func CanTransition(from, to models.OrderStatus) bool {
	for _, next := range transitions[from] {
		if next == to {
			return true
		}
	}
	return false
}

// OrderService provides business logic for checkout and order fulfilment
type OrderService struct {
	db  db.Database
	now func() time.Time
}

// NewOrderService creates a new order service
func NewOrderService(database db.Database) *OrderService {
	return &OrderService{db: database, now: time.Now}
}

// Checkout turns the user's cart into a pending order. Stock is reserved, the
// order and its item snapshots are written and the cart is cleared in one
// transaction; any failure leaves stock and cart untouched.
func (s *OrderService) Checkout(ctx context.Context, req models.CreateOrderRequest) (*models.Order, error) {
	var order *models.Order

	err := s.db.WithTx(ctx, func(tx db.Database) error {
		cart, err := tx.LockCart(ctx, req.UserID)
		if err != nil {
			return err
		}
		if len(cart.Items) == 0 {
			return fmt.Errorf("user %s: %w", req.UserID, ErrEmptyCart)
		}

		items := make([]models.OrderItem, 0, len(cart.Items))
		for _, line := range cart.Items {
			product := line.Product
			if product == nil || !product.Active {
				return fmt.Errorf("product %s is no longer available: %w", line.ProductID, db.ErrConflict)
			}
			if err := tx.ReserveStock(ctx, product.ID, line.Quantity); err != nil {
				return err
			}
			items = append(items, models.OrderItem{
				ProductID:   product.ID,
				ProductName: product.Name,
				UnitPrice:   product.Price,
				Quantity:    line.Quantity,
			})
		}

		subtotal := Subtotal(cart.Items)
		order = &models.Order{
			UserID:   req.UserID,
			Status:   models.OrderPending,
			Subtotal: subtotal,
			Total:    subtotal,
			Items:    items,
		}

		if code := NormalizeCode(req.CouponCode); code != "" {
			coupon, err := tx.GetCouponByCode(ctx, code)
			if err != nil {
				return err
			}
			discount, err := Discount(coupon, subtotal, s.now())
			if err != nil {
				return err
			}
			order.Discount = discount
			order.Total = subtotal.Sub(discount)
			order.CouponCode = coupon.Code
		}

		if err := tx.CreateOrder(ctx, order); err != nil {
			return fmt.Errorf("failed to create order: %w", err)
		}
		return tx.ClearCart(ctx, req.UserID)
	})
	if err != nil {
		return nil, err
	}
	return order, nil
}

// GetOrder retrieves an order with its items
func (s *OrderService) GetOrder(ctx context.Context, id string) (*models.Order, error) {
	return s.db.GetOrder(ctx, id)
}

// ListOrders lists orders matching the filter
func (s *OrderService) ListOrders(ctx context.Context, filter shared.OrderFilter) ([]*models.Order, int64, error) {
	if filter.Status != "" {
		if _, known := transitions[filter.Status]; !known && !isTerminal(filter.Status) {
			return nil, 0, fmt.Errorf("unknown order status %q: %w", filter.Status, ErrInvalidInput)
		}
	}
	return s.db.ListOrders(ctx, filter)
}

func isTerminal(status models.OrderStatus) bool {
	return status == models.OrderDelivered || status == models.OrderCancelled
}

// UpdateStatus moves an order to a new status. Cancelling puts the ordered
// quantities back into stock.
func (s *OrderService) UpdateStatus(ctx context.Context, id string, to models.OrderStatus) (*models.Order, error) {
	var order *models.Order

	err := s.db.WithTx(ctx, func(tx db.Database) error {
		current, err := tx.GetOrder(ctx, id)
		if err != nil {
			return err
		}
		if !CanTransition(current.Status, to) {
			return fmt.Errorf("order %s cannot move from %s to %s: %w", id, current.Status, to, ErrInvalidTransition)
		}
		if err := tx.SetOrderStatus(ctx, id, current.Status, to); err != nil {
			return err
		}
		if to == models.OrderCancelled {
			for _, item := range current.Items {
				if err := tx.ReleaseStock(ctx, item.ProductID, item.Quantity); err != nil {
					return fmt.Errorf("failed to restock product %s: %w", item.ProductID, err)
				}
			}
		}
		order, err = tx.GetOrder(ctx, id)
		return err
	})
	if err != nil {
		return nil, err
	}
	return order, nil
}
