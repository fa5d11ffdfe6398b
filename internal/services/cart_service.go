package services

import (
	"context"
	"fmt"
	"time"

	"github.com/essence-shop/essence/internal/db"
	"github.com/essence-shop/essence/internal/models"
)

// CartService provides business logic for shopping carts
type CartService struct {
	db  db.Database
	now func() time.Time
}

// NewCartService creates a new cart service
func NewCartService(database db.Database) *CartService {
	return &CartService{db: database, now: time.Now}
}

func summarize(cart *models.Cart) *models.CartResponse {
	count := 0
	for _, item := range cart.Items {
		count += item.Quantity
	}
	return &models.CartResponse{
		Cart:      cart,
		Subtotal:  Subtotal(cart.Items),
		ItemCount: count,
	}
}

// GetCart returns the user's cart, creating it on first access
func (s *CartService) GetCart(ctx context.Context, userID string) (*models.CartResponse, error) {
	cart, err := s.db.GetCart(ctx, userID)
	if err != nil {
		return nil, err
	}
	return summarize(cart), nil
}

// AddItem adds quantity units of a product to the cart
func (s *CartService) AddItem(ctx context.Context, userID string, req models.AddCartItemRequest) (*models.CartResponse, error) {
	if req.Quantity < 1 {
		return nil, fmt.Errorf("quantity must be at least 1: %w", ErrInvalidInput)
	}
	return s.upsert(ctx, userID, req.ProductID, req.Quantity, true)
}

// SetItemQuantity sets a line's quantity; zero removes the line
func (s *CartService) SetItemQuantity(ctx context.Context, userID, productID string, quantity int) (*models.CartResponse, error) {
	if quantity < 0 {
		return nil, fmt.Errorf("quantity must not be negative: %w", ErrInvalidInput)
	}
	return s.upsert(ctx, userID, productID, quantity, false)
}

func (s *CartService) upsert(ctx context.Context, userID, productID string, quantity int, add bool) (*models.CartResponse, error) {
	var cart *models.Cart
	err := s.db.WithTx(ctx, func(tx db.Database) error {
		var err error
		cart, err = tx.UpsertCartItem(ctx, userID, productID, quantity, add)
		return err
	})
	if err != nil {
		return nil, err
	}
	return summarize(cart), nil
}

// RemoveItem removes a product line from the cart
func (s *CartService) RemoveItem(ctx context.Context, userID, productID string) error {
	return s.db.RemoveCartItem(ctx, userID, productID)
}

// ClearCart empties the cart
func (s *CartService) ClearCart(ctx context.Context, userID string) error {
	if _, err := s.db.GetUser(ctx, userID); err != nil {
		return err
	}
	return s.db.ClearCart(ctx, userID)
}

// PurgeStaleCarts deletes carts untouched for longer than ttl
func (s *CartService) PurgeStaleCarts(ctx context.Context, ttl time.Duration) (int64, error) {
	if ttl <= 0 {
		return 0, nil
	}
	return s.db.DeleteStaleCarts(ctx, s.now().Add(-ttl))
}
