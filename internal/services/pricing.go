package services

import (
	"fmt"
	"strings"
	"time"

	"github.com/shopspring/decimal"

	"github.com/essence-shop/essence/internal/models"
)

var hundred = decimal.NewFromInt(100)

// NormalizeCode canonicalises a coupon code; codes are matched case-insensitively
func NormalizeCode(code string) string {
	return strings.ToUpper(strings.TrimSpace(code))
}

// Subtotal returns the sum of price times quantity over cart lines.
// Lines whose product was not loaded count as zero.
func Subtotal(items []models.CartItem) decimal.Decimal {
	total := decimal.Zero
	for _, item := range items {
		if item.Product == nil {
			continue
		}
		total = total.Add(item.Product.Price.Mul(decimal.NewFromInt(int64(item.Quantity))))
	}
	return total
}

// Discount computes how much a coupon takes off a subtotal at the given instant.
// Percent coupons are capped at 100%, and no discount exceeds the subtotal.
func Discount(coupon *models.Coupon, subtotal decimal.Decimal, now time.Time) (decimal.Decimal, error) {
	switch {
	case !coupon.Active:
		return decimal.Zero, fmt.Errorf("coupon %s is inactive: %w", coupon.Code, ErrCouponNotApplicable)
	case coupon.ExpiresAt != nil && !now.Before(*coupon.ExpiresAt):
		return decimal.Zero, fmt.Errorf("coupon %s expired at %s: %w",
			coupon.Code, coupon.ExpiresAt.Format(time.RFC3339), ErrCouponNotApplicable)
	case subtotal.LessThan(coupon.MinOrderAmount):
		return decimal.Zero, fmt.Errorf("coupon %s requires a subtotal of at least %s: %w",
			coupon.Code, coupon.MinOrderAmount.StringFixed(2), ErrCouponNotApplicable)
	}

	var discount decimal.Decimal
	switch coupon.DiscountType {
	case models.DiscountPercent:
		pct := decimal.Min(coupon.Amount, hundred)
		discount = subtotal.Mul(pct).Div(hundred).Round(2)
	case models.DiscountFixed:
		discount = coupon.Amount
	default:
		return decimal.Zero, fmt.Errorf("coupon %s has unknown discount type %q: %w",
			coupon.Code, coupon.DiscountType, ErrInvalidInput)
	}

	if discount.GreaterThan(subtotal) {
		discount = subtotal
	}
	if discount.IsNegative() {
		discount = decimal.Zero
	}
	return discount, nil
}

// Quote prices a subtotal against a coupon
func Quote(coupon *models.Coupon, subtotal decimal.Decimal, now time.Time) (*models.CouponQuote, error) {
	discount, err := Discount(coupon, subtotal, now)
	if err != nil {
		return nil, err
	}
	return &models.CouponQuote{
		Code:     coupon.Code,
		Subtotal: subtotal,
		Discount: discount,
		Total:    subtotal.Sub(discount),
	}, nil
}
