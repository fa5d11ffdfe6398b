package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// TimeSeriesPoint represents a point in time-series data
type TimeSeriesPoint struct {
	Timestamp time.Time `json:"timestamp"`
	Count     int       `json:"count"`
}

// StatusCount is the number of orders in one status
type StatusCount struct {
	Status OrderStatus `json:"status"`
	Count  int64       `json:"count"`
}

// ProductRating aggregates reviews of one product
type ProductRating struct {
	ProductID     string  `json:"product_id"`
	ProductName   string  `json:"product_name"`
	ReviewCount   int64   `json:"review_count"`
	AverageRating float64 `json:"average_rating"`
}

// StatsResponse is the store-wide overview served at /api/v1/stats
type StatsResponse struct {
	TotalUsers     int64             `json:"total_users"`
	TotalBrands    int64             `json:"total_brands"`
	TotalProducts  int64             `json:"total_products"`
	ActiveProducts int64             `json:"active_products"`
	TotalOrders    int64             `json:"total_orders"`
	OrdersByStatus []StatusCount     `json:"orders_by_status"`
	Revenue        decimal.Decimal   `json:"revenue"`
	TopRated       []ProductRating   `json:"top_rated"`
	OrderTrends    []TimeSeriesPoint `json:"order_trends"`
	LastUpdated    time.Time         `json:"last_updated"`
}
