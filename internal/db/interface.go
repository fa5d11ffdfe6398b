package db

import (
	"context"
	"time"

	"github.com/shopspring/decimal"

	"github.com/essence-shop/essence/internal/models"
	"github.com/essence-shop/essence/internal/shared"
)

// UserStore defines user persistence
type UserStore interface {
	CreateUser(ctx context.Context, user *models.User) error
	GetUser(ctx context.Context, id string) (*models.User, error)
	ListUsers(ctx context.Context, page shared.Page) ([]*models.User, int64, error)
	UpdateUser(ctx context.Context, user *models.User) error
	DeleteUser(ctx context.Context, id string) error
}

// CatalogStore defines brand, product, review and coupon persistence
type CatalogStore interface {
	CreateBrand(ctx context.Context, brand *models.Brand) error
	GetBrand(ctx context.Context, id string) (*models.Brand, error)
	ListBrands(ctx context.Context, page shared.Page) ([]*models.Brand, int64, error)
	UpdateBrand(ctx context.Context, brand *models.Brand) error
	DeleteBrand(ctx context.Context, id string) error

	CreateProduct(ctx context.Context, product *models.Product) error
	GetProduct(ctx context.Context, id string) (*models.Product, error)
	ListProducts(ctx context.Context, filter shared.ProductFilter) ([]*models.Product, int64, error)
	UpdateProduct(ctx context.Context, product *models.Product) error
	DeleteProduct(ctx context.Context, id string) error

	CreateReview(ctx context.Context, review *models.Review) error
	ListReviews(ctx context.Context, productID string, page shared.Page) ([]*models.Review, int64, error)
	DeleteReview(ctx context.Context, id string) error

	CreateCoupon(ctx context.Context, coupon *models.Coupon) error
	GetCoupon(ctx context.Context, id string) (*models.Coupon, error)
	GetCouponByCode(ctx context.Context, code string) (*models.Coupon, error)
	ListCoupons(ctx context.Context, active *bool) ([]*models.Coupon, error)
	UpdateCoupon(ctx context.Context, coupon *models.Coupon) error
	DeleteCoupon(ctx context.Context, id string) error
	DeactivateExpiredCoupons(ctx context.Context, now time.Time) (int64, error)
}

// OrderStore defines cart, order and stock persistence
type OrderStore interface {
	GetCart(ctx context.Context, userID string) (*models.Cart, error)
	LockCart(ctx context.Context, userID string) (*models.Cart, error)
	UpsertCartItem(ctx context.Context, userID, productID string, quantity int, add bool) (*models.Cart, error)
	RemoveCartItem(ctx context.Context, userID, productID string) error
	ClearCart(ctx context.Context, userID string) error
	DeleteStaleCarts(ctx context.Context, before time.Time) (int64, error)

	CreateOrder(ctx context.Context, order *models.Order) error
	GetOrder(ctx context.Context, id string) (*models.Order, error)
	ListOrders(ctx context.Context, filter shared.OrderFilter) ([]*models.Order, int64, error)
	SetOrderStatus(ctx context.Context, id string, from, to models.OrderStatus) error

	ReserveStock(ctx context.Context, productID string, quantity int) error
	ReleaseStock(ctx context.Context, productID string, quantity int) error
}

// StatsStore defines the aggregate queries behind the stats endpoint
type StatsStore interface {
	CountRows(ctx context.Context, model interface{}, where ...interface{}) (int64, error)
	OrderCountsByStatus(ctx context.Context) ([]models.StatusCount, error)
	Revenue(ctx context.Context) (decimal.Decimal, error)
	TopRatedProducts(ctx context.Context, limit int) ([]models.ProductRating, error)
	OrdersPerDay(ctx context.Context, since time.Time) ([]models.TimeSeriesPoint, error)
}

// Database defines the combined persistence interface used by services and handlers
type Database interface {
	UserStore
	CatalogStore
	OrderStore
	StatsStore

	// WithTx runs fn inside a transaction; fn's Database is bound to it.
	WithTx(ctx context.Context, fn func(tx Database) error) error
}
