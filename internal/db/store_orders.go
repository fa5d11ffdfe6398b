package db

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/essence-shop/essence/internal/models"
	"github.com/essence-shop/essence/internal/shared"
)

// Cart Operations

// GetCart returns the user's cart with its items, creating an empty cart on first access
func (s *Store) GetCart(ctx context.Context, userID string) (*models.Cart, error) {
	cart, err := s.ensureCart(ctx, userID)
	if err != nil {
		return nil, err
	}
	return s.loadCart(ctx, cart.ID)
}

// LockCart returns the user's cart like GetCart, holding a row lock on the
// cart until the surrounding transaction ends. Concurrent checkouts of the
// same cart queue behind it and then see the cart as the winner left it.
func (s *Store) LockCart(ctx context.Context, userID string) (*models.Cart, error) {
	cart, err := s.ensureCart(ctx, userID)
	if err != nil {
		return nil, err
	}
	var locked models.Cart
	err = s.session(ctx).
		Clauses(clause.Locking{Strength: "UPDATE"}).
		First(&locked, "id = ?", cart.ID).Error
	if err != nil {
		return nil, translate(err, "cart", userID)
	}
	return s.loadCart(ctx, cart.ID)
}

func (s *Store) ensureCart(ctx context.Context, userID string) (*models.Cart, error) {
	if _, err := s.GetUser(ctx, userID); err != nil {
		return nil, err
	}
	var cart models.Cart
	err := s.session(ctx).First(&cart, "user_id = ?", userID).Error
	if err == nil {
		return &cart, nil
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, err
	}

	// A concurrent request may create the cart first; the insert then does
	// nothing and the re-read picks up the winner's row.
	fresh := models.Cart{ID: uuid.NewString(), UserID: userID}
	err = s.session(ctx).
		Clauses(clause.OnConflict{Columns: []clause.Column{{Name: "user_id"}}, DoNothing: true}).
		Create(&fresh).Error
	if err != nil {
		return nil, translate(err, "cart", userID)
	}
	if err := s.session(ctx).First(&cart, "user_id = ?", userID).Error; err != nil {
		return nil, translate(err, "cart", userID)
	}
	return &cart, nil
}

func (s *Store) loadCart(ctx context.Context, cartID string) (*models.Cart, error) {
	var cart models.Cart
	err := s.session(ctx).
		Preload("Items", func(db *gorm.DB) *gorm.DB { return db.Order("product_id") }).
		Preload("Items.Product").
		First(&cart, "id = ?", cartID).Error
	if err != nil {
		return nil, translate(err, "cart", cartID)
	}
	return &cart, nil
}

// UpsertCartItem sets (or with add, increases) the quantity of a product in the user's cart.
// A resulting quantity of zero or less removes the line.
func (s *Store) UpsertCartItem(ctx context.Context, userID, productID string, quantity int, add bool) (*models.Cart, error) {
	product, err := s.GetProduct(ctx, productID)
	if err != nil {
		return nil, err
	}
	if !product.Active {
		return nil, fmt.Errorf("product %s is not available: %w", productID, ErrConflict)
	}

	cart, err := s.ensureCart(ctx, userID)
	if err != nil {
		return nil, err
	}

	var item models.CartItem
	err = s.session(ctx).Where("cart_id = ? AND product_id = ?", cart.ID, productID).First(&item).Error
	exists := err == nil
	if err != nil && !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, err
	}

	newQty := quantity
	if add && exists {
		newQty += item.Quantity
	}

	switch {
	case newQty <= 0:
		if exists {
			if err := s.session(ctx).Delete(&item).Error; err != nil {
				return nil, err
			}
		}
	case newQty > product.Stock:
		return nil, fmt.Errorf("product %s has %d in stock, %d requested: %w",
			productID, product.Stock, newQty, ErrInsufficientStock)
	case exists:
		if err := s.session(ctx).Model(&item).Update("quantity", newQty).Error; err != nil {
			return nil, err
		}
	default:
		item = models.CartItem{
			ID:        uuid.NewString(),
			CartID:    cart.ID,
			ProductID: productID,
			Quantity:  newQty,
		}
		if err := s.session(ctx).Create(&item).Error; err != nil {
			return nil, translate(err, "cart item", productID)
		}
	}

	if err := s.touchCart(ctx, cart.ID); err != nil {
		return nil, err
	}
	return s.loadCart(ctx, cart.ID)
}

// RemoveCartItem removes one product line from the user's cart
func (s *Store) RemoveCartItem(ctx context.Context, userID, productID string) error {
	var cart models.Cart
	if err := s.session(ctx).First(&cart, "user_id = ?", userID).Error; err != nil {
		return translate(err, "cart", userID)
	}
	result := s.session(ctx).Where("cart_id = ? AND product_id = ?", cart.ID, productID).Delete(&models.CartItem{})
	if err := affected(result, "cart item", productID); err != nil {
		return err
	}
	return s.touchCart(ctx, cart.ID)
}

// ClearCart removes every line from the user's cart. A user without a cart is a no-op.
func (s *Store) ClearCart(ctx context.Context, userID string) error {
	var cart models.Cart
	err := s.session(ctx).First(&cart, "user_id = ?", userID).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil
	}
	if err != nil {
		return err
	}
	if err := s.session(ctx).Where("cart_id = ?", cart.ID).Delete(&models.CartItem{}).Error; err != nil {
		return err
	}
	return s.touchCart(ctx, cart.ID)
}

// DeleteStaleCarts deletes carts untouched since before, together with their items
func (s *Store) DeleteStaleCarts(ctx context.Context, before time.Time) (int64, error) {
	var ids []string
	err := s.session(ctx).Model(&models.Cart{}).Where("updated_at < ?", s.local(before)).Pluck("id", &ids).Error
	if err != nil || len(ids) == 0 {
		return 0, err
	}
	if err := s.session(ctx).Where("cart_id IN ?", ids).Delete(&models.CartItem{}).Error; err != nil {
		return 0, err
	}
	result := s.session(ctx).Where("id IN ?", ids).Delete(&models.Cart{})
	return result.RowsAffected, result.Error
}

func (s *Store) touchCart(ctx context.Context, cartID string) error {
	return s.session(ctx).Model(&models.Cart{}).Where("id = ?", cartID).
		UpdateColumn("updated_at", s.db.NowFunc()).Error
}

// Order Operations

// CreateOrder persists an order together with its items
func (s *Store) CreateOrder(ctx context.Context, order *models.Order) error {
	if order.ID == "" {
		order.ID = uuid.NewString()
	}
	for i := range order.Items {
		if order.Items[i].ID == "" {
			order.Items[i].ID = uuid.NewString()
		}
		order.Items[i].OrderID = order.ID
	}
	return translate(s.session(ctx).Create(order).Error, "order", order.ID)
}

// GetOrder retrieves an order with its items
func (s *Store) GetOrder(ctx context.Context, id string) (*models.Order, error) {
	var order models.Order
	if err := s.session(ctx).Preload("Items").First(&order, "id = ?", id).Error; err != nil {
		return nil, translate(err, "order", id)
	}
	return &order, nil
}

// ListOrders lists orders matching the filter, newest first
func (s *Store) ListOrders(ctx context.Context, filter shared.OrderFilter) ([]*models.Order, int64, error) {
	var (
		orders []*models.Order
		total  int64
	)

	q := s.session(ctx).Model(&models.Order{})
	if filter.UserID != "" {
		q = q.Where("user_id = ?", filter.UserID)
	}
	if filter.Status != "" {
		q = q.Where("status = ?", filter.Status)
	}
	q = q.Session(&gorm.Session{})

	if err := q.Count(&total).Error; err != nil {
		return nil, 0, err
	}
	err := paginate(q.Preload("Items").Order("created_at DESC"), filter.Limit, filter.Offset).Find(&orders).Error
	return orders, total, err
}

// SetOrderStatus moves an order from one status to another. It fails with
// ErrConflict when the order is no longer in the expected status.
func (s *Store) SetOrderStatus(ctx context.Context, id string, from, to models.OrderStatus) error {
	result := s.session(ctx).Model(&models.Order{}).
		Where("id = ? AND status = ?", id, from).
		Update("status", to)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected > 0 {
		return nil
	}
	if _, err := s.GetOrder(ctx, id); err != nil {
		return err
	}
	return fmt.Errorf("order %s is no longer %s: %w", id, from, ErrConflict)
}

// Stock Operations

// ReserveStock takes quantity units of a product out of stock, atomically
func (s *Store) ReserveStock(ctx context.Context, productID string, quantity int) error {
	result := s.session(ctx).Model(&models.Product{}).
		Where("id = ? AND stock >= ?", productID, quantity).
		UpdateColumn("stock", gorm.Expr("stock - ?", quantity))
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected > 0 {
		return nil
	}
	product, err := s.GetProduct(ctx, productID)
	if err != nil {
		return err
	}
	return fmt.Errorf("product %s has %d in stock, %d requested: %w",
		productID, product.Stock, quantity, ErrInsufficientStock)
}

// ReleaseStock puts quantity units of a product back into stock
func (s *Store) ReleaseStock(ctx context.Context, productID string, quantity int) error {
	result := s.session(ctx).Model(&models.Product{}).
		Where("id = ?", productID).
		UpdateColumn("stock", gorm.Expr("stock + ?", quantity))
	return affected(result, "product", productID)
}
