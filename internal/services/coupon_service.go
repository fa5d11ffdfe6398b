package services

import (
	"context"
	"fmt"
	"time"

	"github.com/shopspring/decimal"

	"github.com/essence-shop/essence/internal/db"
	"github.com/essence-shop/essence/internal/models"
)

// CouponService provides business logic for discount coupons
type CouponService struct {
	db  db.Database
	now func() time.Time
}

// NewCouponService creates a new coupon service
func NewCouponService(database db.Database) *CouponService {
	return &CouponService{db: database, now: time.Now}
}

func validateDiscount(discountType models.DiscountType, amount decimal.Decimal) error {
	if !amount.IsPositive() {
		return fmt.Errorf("coupon amount must be positive: %w", ErrInvalidInput)
	}
	switch discountType {
	case models.DiscountPercent:
		if amount.GreaterThan(hundred) {
			return fmt.Errorf("percent coupons cannot exceed 100: %w", ErrInvalidInput)
		}
	case models.DiscountFixed:
	default:
		return fmt.Errorf("unknown discount type %q: %w", discountType, ErrInvalidInput)
	}
	return nil
}

// CreateCoupon creates a coupon; new coupons are active unless stated otherwise
func (s *CouponService) CreateCoupon(ctx context.Context, req models.CreateCouponRequest) (*models.Coupon, error) {
	if err := validateDiscount(req.DiscountType, req.Amount); err != nil {
		return nil, err
	}
	if req.MinOrderAmount.IsNegative() {
		return nil, fmt.Errorf("minimum order amount must not be negative: %w", ErrInvalidInput)
	}

	coupon := &models.Coupon{
		Code:           NormalizeCode(req.Code),
		DiscountType:   req.DiscountType,
		Amount:         req.Amount,
		MinOrderAmount: req.MinOrderAmount,
		ExpiresAt:      req.ExpiresAt,
		Active:         true,
	}
	if coupon.Code == "" {
		return nil, fmt.Errorf("coupon code is required: %w", ErrInvalidInput)
	}
	if req.Active != nil {
		coupon.Active = *req.Active
	}
	if err := s.db.CreateCoupon(ctx, coupon); err != nil {
		return nil, err
	}
	return coupon, nil
}

// GetCoupon retrieves a coupon by ID
func (s *CouponService) GetCoupon(ctx context.Context, id string) (*models.Coupon, error) {
	return s.db.GetCoupon(ctx, id)
}

// ListCoupons lists coupons, optionally filtered by active state
func (s *CouponService) ListCoupons(ctx context.Context, active *bool) ([]*models.Coupon, error) {
	return s.db.ListCoupons(ctx, active)
}

// UpdateCoupon applies the set fields of req
func (s *CouponService) UpdateCoupon(ctx context.Context, id string, req models.UpdateCouponRequest) (*models.Coupon, error) {
	coupon, err := s.db.GetCoupon(ctx, id)
	if err != nil {
		return nil, err
	}

	if req.DiscountType != "" {
		coupon.DiscountType = req.DiscountType
	}
	if req.Amount != nil {
		coupon.Amount = *req.Amount
	}
	if err := validateDiscount(coupon.DiscountType, coupon.Amount); err != nil {
		return nil, err
	}
	if req.MinOrderAmount != nil {
		if req.MinOrderAmount.IsNegative() {
			return nil, fmt.Errorf("minimum order amount must not be negative: %w", ErrInvalidInput)
		}
		coupon.MinOrderAmount = *req.MinOrderAmount
	}
	if req.ExpiresAt != nil {
		coupon.ExpiresAt = req.ExpiresAt
	}
	if req.Active != nil {
		coupon.Active = *req.Active
	}

	if err := s.db.UpdateCoupon(ctx, coupon); err != nil {
		return nil, err
	}
	return coupon, nil
}

// DeleteCoupon deletes a coupon
func (s *CouponService) DeleteCoupon(ctx context.Context, id string) error {
	return s.db.DeleteCoupon(ctx, id)
}

// ValidateCoupon quotes the discount a code would give on a subtotal
func (s *CouponService) ValidateCoupon(ctx context.Context, req models.ValidateCouponRequest) (*models.CouponQuote, error) {
	if req.Subtotal.IsNegative() {
		return nil, fmt.Errorf("subtotal must not be negative: %w", ErrInvalidInput)
	}
	coupon, err := s.db.GetCouponByCode(ctx, NormalizeCode(req.Code))
	if err != nil {
		return nil, err
	}
	return Quote(coupon, req.Subtotal, s.now())
}

// ExpireCoupons deactivates every coupon past its expiry
func (s *CouponService) ExpireCoupons(ctx context.Context) (int64, error) {
	return s.db.DeactivateExpiredCoupons(ctx, s.now())
}
