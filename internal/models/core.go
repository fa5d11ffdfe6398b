package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// Core domain models

// User represents a shop customer
type User struct {
	ID           string    `json:"id" gorm:"primaryKey;size:36"`
	Email        string    `json:"email" gorm:"size:255;uniqueIndex;not null"`
	PasswordHash string    `json:"-" gorm:"size:255;not null"`
	Name         string    `json:"name" gorm:"size:100;not null"`
	Phone        string    `json:"phone,omitempty" gorm:"size:30"`
	Active       bool      `json:"active" gorm:"not null"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
}

// Brand represents a curated label carried by the shop
type Brand struct {
	ID          string    `json:"id" gorm:"primaryKey;size:36"`
	Name        string    `json:"name" gorm:"size:100;uniqueIndex;not null"`
	Description string    `json:"description,omitempty" gorm:"type:text"`
	LogoURL     string    `json:"logo_url,omitempty" gorm:"size:500"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

// Product represents a sellable item of a brand
type Product struct {
	ID          string          `json:"id" gorm:"primaryKey;size:36"`
	BrandID     string          `json:"brand_id" gorm:"size:36;index;not null"`
	Brand       *Brand          `json:"brand,omitempty" gorm:"constraint:OnDelete:RESTRICT"`
	Name        string          `json:"name" gorm:"size:200;not null"`
	Description string          `json:"description,omitempty" gorm:"type:text"`
	Price       decimal.Decimal `json:"price" gorm:"type:numeric(12,2);not null"`
	Stock       int             `json:"stock" gorm:"not null;default:0"`
	Active      bool            `json:"active" gorm:"not null"`
	CreatedAt   time.Time       `json:"created_at"`
	UpdatedAt   time.Time       `json:"updated_at"`
}

// Cart is the single open basket of a user
type Cart struct {
	ID        string     `json:"id" gorm:"primaryKey;size:36"`
	UserID    string     `json:"user_id" gorm:"size:36;uniqueIndex;not null"`
	Items     []CartItem `json:"items" gorm:"constraint:OnDelete:CASCADE"`
	CreatedAt time.Time  `json:"created_at"`
	UpdatedAt time.Time  `json:"updated_at"`
}

// CartItem is one product line of a cart
type CartItem struct {
	ID        string   `json:"id" gorm:"primaryKey;size:36"`
	CartID    string   `json:"cart_id" gorm:"size:36;uniqueIndex:idx_cart_items_cart_product;not null"`
	ProductID string   `json:"product_id" gorm:"size:36;uniqueIndex:idx_cart_items_cart_product;not null"`
	Product   *Product `json:"product,omitempty"`
	Quantity  int      `json:"quantity" gorm:"not null"`
}

// OrderStatus is the lifecycle state of an order
type OrderStatus string

const (
	OrderPending   OrderStatus = "pending"
	OrderPaid      OrderStatus = "paid"
	OrderShipped   OrderStatus = "shipped"
	OrderDelivered OrderStatus = "delivered"
	OrderCancelled OrderStatus = "cancelled"
)

// Order is a placed purchase. Items snapshot name and price at checkout time.
type Order struct {
	ID         string          `json:"id" gorm:"primaryKey;size:36"`
	UserID     string          `json:"user_id" gorm:"size:36;index;not null"`
	Status     OrderStatus     `json:"status" gorm:"size:20;index;not null"`
	Subtotal   decimal.Decimal `json:"subtotal" gorm:"type:numeric(12,2);not null"`
	Discount   decimal.Decimal `json:"discount" gorm:"type:numeric(12,2);not null"`
	Total      decimal.Decimal `json:"total" gorm:"type:numeric(12,2);not null"`
	CouponCode string          `json:"coupon_code,omitempty" gorm:"size:50"`
	Items      []OrderItem     `json:"items" gorm:"constraint:OnDelete:CASCADE"`
	CreatedAt  time.Time       `json:"created_at"`
	UpdatedAt  time.Time       `json:"updated_at"`
}

// OrderItem is one product line of an order
type OrderItem struct {
	ID          string          `json:"id" gorm:"primaryKey;size:36"`
	OrderID     string          `json:"order_id" gorm:"size:36;index;not null"`
	ProductID   string          `json:"product_id" gorm:"size:36;not null"`
	ProductName string          `json:"product_name" gorm:"size:200;not null"`
	UnitPrice   decimal.Decimal `json:"unit_price" gorm:"type:numeric(12,2);not null"`
	Quantity    int             `json:"quantity" gorm:"not null"`
}

// Review is a user's rating of a product, at most one per user and product
type Review struct {
	ID        string    `json:"id" gorm:"primaryKey;size:36"`
	ProductID string    `json:"product_id" gorm:"size:36;uniqueIndex:idx_reviews_product_user;not null"`
	UserID    string    `json:"user_id" gorm:"size:36;uniqueIndex:idx_reviews_product_user;not null"`
	Rating    int       `json:"rating" gorm:"not null"`
	Content   string    `json:"content,omitempty" gorm:"type:text"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// DiscountType selects how a coupon amount is applied
type DiscountType string

const (
	DiscountPercent DiscountType = "percent"
	DiscountFixed   DiscountType = "fixed"
)

// Coupon is a redeemable discount code
type Coupon struct {
	ID             string          `json:"id" gorm:"primaryKey;size:36"`
	Code           string          `json:"code" gorm:"size:50;uniqueIndex;not null"`
	DiscountType   DiscountType    `json:"discount_type" gorm:"size:10;not null"`
	Amount         decimal.Decimal `json:"amount" gorm:"type:numeric(12,2);not null"`
	MinOrderAmount decimal.Decimal `json:"min_order_amount" gorm:"type:numeric(12,2);not null"`
	ExpiresAt      *time.Time      `json:"expires_at,omitempty"`
	Active         bool            `json:"active" gorm:"not null"`
	CreatedAt      time.Time       `json:"created_at"`
	UpdatedAt      time.Time       `json:"updated_at"`
}
