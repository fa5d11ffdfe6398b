package services

import (
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/essence-shop/essence/internal/models"
)

func dec(s string) decimal.Decimal {
	return decimal.RequireFromString(s)
}

func TestSubtotal(t *testing.T) {
	items := []models.CartItem{
		{Quantity: 2, Product: &models.Product{Price: dec("45000")}},
		{Quantity: 1, Product: &models.Product{Price: dec("19900.50")}},
		{Quantity: 3},
	}
	assert.True(t, Subtotal(items).Equal(dec("109900.50")))
	assert.True(t, Subtotal(nil).IsZero())
}

func TestDiscount(t *testing.T) {
	now := time.Date(2025, 5, 1, 12, 0, 0, 0, time.UTC)
	past := now.Add(-time.Minute)
	future := now.Add(time.Hour)

	tests := []struct {
		name     string
		coupon   models.Coupon
		subtotal string
		want     string
		wantErr  error
	}{
		{
			name:     "percent",
			coupon:   models.Coupon{DiscountType: models.DiscountPercent, Amount: dec("10"), Active: true},
			subtotal: "45000",
			want:     "4500",
		},
		{
			name:     "percent rounds to cents",
			coupon:   models.Coupon{DiscountType: models.DiscountPercent, Amount: dec("15"), Active: true},
			subtotal: "99.99",
			want:     "15",
		},
		{
			name:     "percent capped at 100",
			coupon:   models.Coupon{DiscountType: models.DiscountPercent, Amount: dec("150"), Active: true},
			subtotal: "30000",
			want:     "30000",
		},
		{
			name:     "fixed",
			coupon:   models.Coupon{DiscountType: models.DiscountFixed, Amount: dec("5000"), Active: true},
			subtotal: "45000",
			want:     "5000",
		},
		{
			name:     "fixed capped at subtotal",
			coupon:   models.Coupon{DiscountType: models.DiscountFixed, Amount: dec("50000"), Active: true},
			subtotal: "45000",
			want:     "45000",
		},
		{
			name:     "not yet expired",
			coupon:   models.Coupon{DiscountType: models.DiscountFixed, Amount: dec("1000"), ExpiresAt: &future, Active: true},
			subtotal: "45000",
			want:     "1000",
		},
		{
			name:     "expired",
			coupon:   models.Coupon{DiscountType: models.DiscountFixed, Amount: dec("1000"), ExpiresAt: &past, Active: true},
			subtotal: "45000",
			wantErr:  ErrCouponNotApplicable,
		},
		{
			name:     "inactive",
			coupon:   models.Coupon{DiscountType: models.DiscountFixed, Amount: dec("1000")},
			subtotal: "45000",
			wantErr:  ErrCouponNotApplicable,
		},
		{
			name:     "below minimum",
			coupon:   models.Coupon{DiscountType: models.DiscountFixed, Amount: dec("1000"), MinOrderAmount: dec("50000"), Active: true},
			subtotal: "45000",
			wantErr:  ErrCouponNotApplicable,
		},
		{
			name:     "unknown type",
			coupon:   models.Coupon{DiscountType: "bogo", Amount: dec("1"), Active: true},
			subtotal: "45000",
			wantErr:  ErrInvalidInput,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := Discount(&tt.coupon, dec(tt.subtotal), now)
			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
				return
			}
			require.NoError(t, err)
			assert.True(t, got.Equal(dec(tt.want)), "got %s, want %s", got, tt.want)
		})
	}
}

func TestQuote(t *testing.T) {
	coupon := &models.Coupon{Code: "WELCOME10", DiscountType: models.DiscountPercent, Amount: dec("10"), Active: true}
	quote, err := Quote(coupon, dec("45000"), time.Now())
	require.NoError(t, err)
	assert.Equal(t, "WELCOME10", quote.Code)
	assert.True(t, quote.Total.Equal(dec("40500")))
}

func TestCanTransition(t *testing.T) {
	allowed := [][2]models.OrderStatus{
		{models.OrderPending, models.OrderPaid},
		{models.OrderPending, models.OrderCancelled},
		{models.OrderPaid, models.OrderShipped},
		{models.OrderPaid, models.OrderCancelled},
		{models.OrderShipped, models.OrderDelivered},
	}
	for _, pair := range allowed {
		assert.True(t, CanTransition(pair[0], pair[1]), "%s -> %s", pair[0], pair[1])
	}

	denied := [][2]models.OrderStatus{
		{models.OrderPending, models.OrderShipped},
		{models.OrderShipped, models.OrderCancelled},
		{models.OrderDelivered, models.OrderCancelled},
		{models.OrderCancelled, models.OrderPending},
		{models.OrderPaid, models.OrderPaid},
	}
	for _, pair := range denied {
		assert.False(t, CanTransition(pair[0], pair[1]), "%s -> %s", pair[0], pair[1])
	}
}

func TestNormalizeCode(t *testing.T) {
	assert.Equal(t, "WELCOME10", NormalizeCode("  welcome10 "))
	assert.Equal(t, "", NormalizeCode("   "))
}
