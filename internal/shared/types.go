package shared

import (
	"github.com/shopspring/decimal"

	"github.com/essence-shop/essence/internal/models"
)

// ProductFilter provides filtering options for listing products
type ProductFilter struct {
	BrandID  string
	Keyword  string
	Active   *bool
	MinPrice *decimal.Decimal
	MaxPrice *decimal.Decimal
	Limit    int
	Offset   int
}

// OrderFilter provides filtering options for listing orders
type OrderFilter struct {
	UserID string
	Status models.OrderStatus
	Limit  int
	Offset int
}

// Page is a plain limit/offset window
type Page struct {
	Limit  int
	Offset int
}
