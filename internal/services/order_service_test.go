package services

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/essence-shop/essence/internal/db"
	"github.com/essence-shop/essence/internal/db/dbtest"
	"github.com/essence-shop/essence/internal/models"
	"github.com/essence-shop/essence/internal/shared"
)

func TestCheckout(t *testing.T) {
	ctx := context.Background()
	store := dbtest.Open(t).Store()
	fx := dbtest.Seed(t, store, 5)

	carts := NewCartService(store)
	orders := NewOrderService(store)
	coupons := NewCouponService(store)

	_, err := coupons.CreateCoupon(ctx, models.CreateCouponRequest{
		Code:         "welcome10",
		DiscountType: models.DiscountPercent,
		Amount:       dec("10"),
	})
	require.NoError(t, err)

	cart, err := carts.AddItem(ctx, fx.User.ID, models.AddCartItemRequest{ProductID: fx.Product.ID, Quantity: 2})
	require.NoError(t, err)
	assert.True(t, cart.Subtotal.Equal(dec("90000")))
	assert.Equal(t, 2, cart.ItemCount)

	order, err := orders.Checkout(ctx, models.CreateOrderRequest{UserID: fx.User.ID, CouponCode: "Welcome10"})
	require.NoError(t, err)
	assert.Equal(t, models.OrderPending, order.Status)
	assert.Equal(t, "WELCOME10", order.CouponCode)
	assert.True(t, order.Subtotal.Equal(dec("90000")))
	assert.True(t, order.Discount.Equal(dec("9000")))
	assert.True(t, order.Total.Equal(dec("81000")))
	require.Len(t, order.Items, 1)
	assert.Equal(t, "Twisted Shirt", order.Items[0].ProductName)
	assert.True(t, order.Items[0].UnitPrice.Equal(dec("45000")))

	product, err := store.GetProduct(ctx, fx.Product.ID)
	require.NoError(t, err)
	assert.Equal(t, 3, product.Stock)

	cart, err = carts.GetCart(ctx, fx.User.ID)
	require.NoError(t, err)
	assert.Empty(t, cart.Items)

	_, err = orders.Checkout(ctx, models.CreateOrderRequest{UserID: fx.User.ID})
	assert.ErrorIs(t, err, ErrEmptyCart)
}

func TestConcurrentCheckoutOrdersCartOnce(t *testing.T) {
	ctx := context.Background()
	store := dbtest.Open(t).Store()
	fx := dbtest.Seed(t, store, 10)

	carts := NewCartService(store)
	orders := NewOrderService(store)

	_, err := carts.AddItem(ctx, fx.User.ID, models.AddCartItemRequest{ProductID: fx.Product.ID, Quantity: 2})
	require.NoError(t, err)

	const buyers = 2
	errs := make([]error, buyers)
	var wg sync.WaitGroup
	for i := 0; i < buyers; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			_, errs[i] = orders.Checkout(ctx, models.CreateOrderRequest{UserID: fx.User.ID})
		}(i)
	}
	wg.Wait()

	var placed int
	for _, err := range errs {
		if err == nil {
			placed++
			continue
		}
		assert.ErrorIs(t, err, ErrEmptyCart)
	}
	assert.Equal(t, 1, placed)

	product, err := store.GetProduct(ctx, fx.Product.ID)
	require.NoError(t, err)
	assert.Equal(t, 8, product.Stock)

	_, total, err := store.ListOrders(ctx, shared.OrderFilter{UserID: fx.User.ID})
	require.NoError(t, err)
	assert.Equal(t, int64(1), total)
}

func TestCheckoutRollsBack(t *testing.T) {
	ctx := context.Background()
	store := dbtest.Open(t).Store()
	fx := dbtest.Seed(t, store, 5)

	carts := NewCartService(store)
	orders := NewOrderService(store)

	_, err := carts.AddItem(ctx, fx.User.ID, models.AddCartItemRequest{ProductID: fx.Product.ID, Quantity: 2})
	require.NoError(t, err)

	// unknown coupon fails after stock was reserved inside the transaction
	_, err = orders.Checkout(ctx, models.CreateOrderRequest{UserID: fx.User.ID, CouponCode: "NOPE"})
	assert.ErrorIs(t, err, db.ErrNotFound)

	product, err := store.GetProduct(ctx, fx.Product.ID)
	require.NoError(t, err)
	assert.Equal(t, 5, product.Stock)

	cart, err := carts.GetCart(ctx, fx.User.ID)
	require.NoError(t, err)
	assert.Len(t, cart.Items, 1)

	// stock sold elsewhere since the item was added
	require.NoError(t, store.ReserveStock(ctx, fx.Product.ID, 4))
	_, err = orders.Checkout(ctx, models.CreateOrderRequest{UserID: fx.User.ID})
	assert.ErrorIs(t, err, db.ErrInsufficientStock)

	list, total, err := orders.ListOrders(ctx, shared.OrderFilter{UserID: fx.User.ID})
	require.NoError(t, err)
	assert.Zero(t, total)
	assert.Empty(t, list)
}

func TestOrderStatusTransitions(t *testing.T) {
	ctx := context.Background()
	store := dbtest.Open(t).Store()
	fx := dbtest.Seed(t, store, 5)

	carts := NewCartService(store)
	orders := NewOrderService(store)

	_, err := carts.AddItem(ctx, fx.User.ID, models.AddCartItemRequest{ProductID: fx.Product.ID, Quantity: 3})
	require.NoError(t, err)
	order, err := orders.Checkout(ctx, models.CreateOrderRequest{UserID: fx.User.ID})
	require.NoError(t, err)

	_, err = orders.UpdateStatus(ctx, order.ID, models.OrderShipped)
	assert.ErrorIs(t, err, ErrInvalidTransition)

	order, err = orders.UpdateStatus(ctx, order.ID, models.OrderPaid)
	require.NoError(t, err)
	assert.Equal(t, models.OrderPaid, order.Status)

	order, err = orders.UpdateStatus(ctx, order.ID, models.OrderCancelled)
	require.NoError(t, err)
	assert.Equal(t, models.OrderCancelled, order.Status)

	product, err := store.GetProduct(ctx, fx.Product.ID)
	require.NoError(t, err)
	assert.Equal(t, 5, product.Stock, "cancelling restores stock")

	_, err = orders.UpdateStatus(ctx, order.ID, models.OrderPaid)
	assert.ErrorIs(t, err, ErrInvalidTransition)

	_, err = orders.UpdateStatus(ctx, "missing", models.OrderPaid)
	assert.ErrorIs(t, err, db.ErrNotFound)
}

func TestCouponService(t *testing.T) {
	ctx := context.Background()
	store := dbtest.Open(t).Store()
	svc := NewCouponService(store)

	_, err := svc.CreateCoupon(ctx, models.CreateCouponRequest{Code: "TOOMUCH", DiscountType: models.DiscountPercent, Amount: dec("120")})
	assert.ErrorIs(t, err, ErrInvalidInput)

	_, err = svc.CreateCoupon(ctx, models.CreateCouponRequest{Code: "ZERO", DiscountType: models.DiscountFixed, Amount: decimal.Zero})
	assert.ErrorIs(t, err, ErrInvalidInput)

	expired := time.Now().Add(-time.Hour)
	_, err = svc.CreateCoupon(ctx, models.CreateCouponRequest{
		Code:         "OLD",
		DiscountType: models.DiscountFixed,
		Amount:       dec("3000"),
		ExpiresAt:    &expired,
	})
	require.NoError(t, err)

	_, err = svc.ValidateCoupon(ctx, models.ValidateCouponRequest{Code: "old", Subtotal: dec("10000")})
	assert.ErrorIs(t, err, ErrCouponNotApplicable)

	fixed, err := svc.CreateCoupon(ctx, models.CreateCouponRequest{
		Code:           "SAVE5000",
		DiscountType:   models.DiscountFixed,
		Amount:         dec("5000"),
		MinOrderAmount: dec("30000"),
	})
	require.NoError(t, err)

	quote, err := svc.ValidateCoupon(ctx, models.ValidateCouponRequest{Code: "save5000", Subtotal: dec("45000")})
	require.NoError(t, err)
	assert.True(t, quote.Total.Equal(dec("40000")))

	_, err = svc.ValidateCoupon(ctx, models.ValidateCouponRequest{Code: "save5000", Subtotal: dec("20000")})
	assert.ErrorIs(t, err, ErrCouponNotApplicable)

	off := false
	updated, err := svc.UpdateCoupon(ctx, fixed.ID, models.UpdateCouponRequest{Active: &off})
	require.NoError(t, err)
	assert.False(t, updated.Active)

	n, err := svc.ExpireCoupons(ctx)
	require.NoError(t, err)
	assert.Equal(t, int64(1), n)
}
