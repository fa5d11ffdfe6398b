package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// API envelopes

// APIResponse is the standard envelope for route tree responses
type APIResponse struct {
	Success bool        `json:"success"`
	Data    interface{} `json:"data,omitempty"`
	Message string      `json:"message,omitempty"`
	Error   string      `json:"error,omitempty"`
}

// Pagination describes one page of a list
type Pagination struct {
	Page       int   `json:"page"`
	Limit      int   `json:"limit"`
	Total      int64 `json:"total"`
	TotalPages int   `json:"total_pages"`
}

// PaginatedResponse wraps a page of results
type PaginatedResponse struct {
	Success    bool        `json:"success"`
	Data       interface{} `json:"data"`
	Pagination Pagination  `json:"pagination"`
}

// User requests

type CreateUserRequest struct {
	Email    string `json:"email" binding:"required,email,max=255"`
	Password string `json:"password" binding:"required,min=8,max=72"`
	Name     string `json:"name" binding:"required,max=100"`
	Phone    string `json:"phone,omitempty" binding:"max=30"`
}

type UpdateUserRequest struct {
	Name     string `json:"name,omitempty" binding:"max=100"`
	Phone    string `json:"phone,omitempty" binding:"max=30"`
	Password string `json:"password,omitempty" binding:"omitempty,min=8,max=72"`
	Active   *bool  `json:"active,omitempty"`
}

// Brand requests

type CreateBrandRequest struct {
	Name        string `json:"name" binding:"required,max=100"`
	Description string `json:"description,omitempty"`
	LogoURL     string `json:"logo_url,omitempty" binding:"omitempty,url,max=500"`
}

type UpdateBrandRequest struct {
	Name        string  `json:"name,omitempty" binding:"max=100"`
	Description *string `json:"description,omitempty"`
	LogoURL     *string `json:"logo_url,omitempty"`
}

// Product requests

type CreateProductRequest struct {
	BrandID     string          `json:"brand_id" binding:"required"`
	Name        string          `json:"name" binding:"required,max=200"`
	Description string          `json:"description,omitempty"`
	Price       decimal.Decimal `json:"price"`
	Stock       int             `json:"stock" binding:"gte=0"`
	Active      *bool           `json:"active,omitempty"`
}

type UpdateProductRequest struct {
	BrandID     string           `json:"brand_id,omitempty"`
	Name        string           `json:"name,omitempty" binding:"max=200"`
	Description *string          `json:"description,omitempty"`
	Price       *decimal.Decimal `json:"price,omitempty"`
	Stock       *int             `json:"stock,omitempty"`
	Active      *bool            `json:"active,omitempty"`
}

// Review requests

type CreateReviewRequest struct {
	UserID  string `json:"user_id" binding:"required"`
	Rating  int    `json:"rating" binding:"required,min=1,max=5"`
	Content string `json:"content,omitempty" binding:"max=5000"`
}

// Coupon requests

type CreateCouponRequest struct {
	Code           string          `json:"code" binding:"required,max=50"`
	DiscountType   DiscountType    `json:"discount_type" binding:"required,oneof=percent fixed"`
	Amount         decimal.Decimal `json:"amount"`
	MinOrderAmount decimal.Decimal `json:"min_order_amount"`
	ExpiresAt      *time.Time      `json:"expires_at,omitempty"`
	Active         *bool           `json:"active,omitempty"`
}

type UpdateCouponRequest struct {
	DiscountType   DiscountType     `json:"discount_type,omitempty" binding:"omitempty,oneof=percent fixed"`
	Amount         *decimal.Decimal `json:"amount,omitempty"`
	MinOrderAmount *decimal.Decimal `json:"min_order_amount,omitempty"`
	ExpiresAt      *time.Time       `json:"expires_at,omitempty"`
	Active         *bool            `json:"active,omitempty"`
}

type ValidateCouponRequest struct {
	Code     string          `json:"code" binding:"required"`
	Subtotal decimal.Decimal `json:"subtotal"`
}

type CouponQuote struct {
	Code     string          `json:"code"`
	Subtotal decimal.Decimal `json:"subtotal"`
	Discount decimal.Decimal `json:"discount"`
	Total    decimal.Decimal `json:"total"`
}

// Cart requests

type AddCartItemRequest struct {
	ProductID string `json:"product_id" binding:"required"`
	Quantity  int    `json:"quantity" binding:"required,min=1,max=99"`
}

type UpdateCartItemRequest struct {
	Quantity int `json:"quantity" binding:"min=0,max=99"`
}

// CartResponse is a cart with its computed totals
type CartResponse struct {
	*Cart
	Subtotal  decimal.Decimal `json:"subtotal"`
	ItemCount int             `json:"item_count"`
}

// Order requests

type CreateOrderRequest struct {
	UserID     string `json:"user_id" binding:"required"`
	CouponCode string `json:"coupon_code,omitempty"`
}

type UpdateOrderStatusRequest struct {
	Status OrderStatus `json:"status" binding:"required,oneof=pending paid shipped delivered cancelled"`
}

// Search

type SearchRequest struct {
	Keyword  string           `json:"keyword" binding:"required"`
	BrandID  string           `json:"brand_id,omitempty"`
	Limit    int              `json:"limit,omitempty"`
	MinPrice *decimal.Decimal `json:"min_price,omitempty"`
	MaxPrice *decimal.Decimal `json:"max_price,omitempty"`
}

type SearchResponse struct {
	Keyword  string     `json:"keyword"`
	Total    int64      `json:"total"`
	Products []*Product `json:"products"`
}
