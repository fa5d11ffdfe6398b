package db

import (
	"context"
	"sort"
	"time"

	"github.com/shopspring/decimal"

	"github.com/essence-shop/essence/internal/models"
)

// Statistics Operations

// CountRows counts the rows of a model, optionally narrowed by a where clause
func (s *Store) CountRows(ctx context.Context, model interface{}, where ...interface{}) (int64, error) {
	var count int64
	q := s.session(ctx).Model(model)
	if len(where) > 0 {
		q = q.Where(where[0], where[1:]...)
	}
	err := q.Count(&count).Error
	return count, err
}

// OrderCountsByStatus returns how many orders sit in each status
func (s *Store) OrderCountsByStatus(ctx context.Context) ([]models.StatusCount, error) {
	var counts []models.StatusCount
	err := s.session(ctx).Model(&models.Order{}).
		Select("status, COUNT(*) AS count").
		Group("status").
		Order("status").
		Scan(&counts).Error
	return counts, err
}

// Revenue sums the totals of paid, shipped and delivered orders
func (s *Store) Revenue(ctx context.Context) (decimal.Decimal, error) {
	var revenue decimal.NullDecimal
	err := s.session(ctx).Model(&models.Order{}).
		Select("SUM(total)").
		Where("status IN ?", []models.OrderStatus{models.OrderPaid, models.OrderShipped, models.OrderDelivered}).
		Row().Scan(&revenue)
	if err != nil {
		return decimal.Zero, err
	}
	if !revenue.Valid {
		return decimal.Zero, nil
	}
	return revenue.Decimal, nil
}

// TopRatedProducts returns the best rated products by average review score
func (s *Store) TopRatedProducts(ctx context.Context, limit int) ([]models.ProductRating, error) {
	var ratings []models.ProductRating
	q := s.session(ctx).Table("reviews").
		Select("reviews.product_id, products.name AS product_name, COUNT(*) AS review_count, CAST(AVG(reviews.rating) AS FLOAT) AS average_rating").
		Joins("JOIN products ON products.id = reviews.product_id").
		Group("reviews.product_id, products.name").
		Order("average_rating DESC, review_count DESC")
	err := paginate(q, limit, 0).Scan(&ratings).Error
	return ratings, err
}

// OrdersPerDay buckets orders placed since the given instant by calendar day
func (s *Store) OrdersPerDay(ctx context.Context, since time.Time) ([]models.TimeSeriesPoint, error) {
	var stamps []time.Time
	err := s.session(ctx).Model(&models.Order{}).
		Where("created_at >= ?", s.local(since)).
		Pluck("created_at", &stamps).Error
	if err != nil {
		return nil, err
	}

	loc := s.db.NowFunc().Location()
	buckets := make(map[time.Time]int)
	for _, ts := range stamps {
		ts = ts.In(loc)
		day := time.Date(ts.Year(), ts.Month(), ts.Day(), 0, 0, 0, 0, loc)
		buckets[day]++
	}

	points := make([]models.TimeSeriesPoint, 0, len(buckets))
	for day, count := range buckets {
		points = append(points, models.TimeSeriesPoint{Timestamp: day, Count: count})
	}
	sort.Slice(points, func(i, j int) bool {
		return points[i].Timestamp.Before(points[j].Timestamp)
	})
	return points, nil
}
