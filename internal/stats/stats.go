package stats

import (
	"context"
	"fmt"
	"time"

	"github.com/essence-shop/essence/internal/db"
	"github.com/essence-shop/essence/internal/models"
)

const (
	// DefaultTopRated is how many products the overview ranks by rating
	DefaultTopRated = 5
	// DefaultTrendDays is the window of the daily order trend
	DefaultTrendDays = 30
)

// Service provides store-wide statistics calculated on demand from the database
type Service struct {
	store db.StatsStore
	now   func() time.Time
}

// New creates a new stats service
func New(store db.StatsStore) *Service {
	return &Service{
		store: store,
		now:   time.Now,
	}
}

// Overview gathers counts, revenue, top rated products and the recent order trend
func (s *Service) Overview(ctx context.Context) (*models.StatsResponse, error) {
	var (
		resp models.StatsResponse
		err  error
	)

	counts := []struct {
		dst   *int64
		model interface{}
		where []interface{}
		what  string
	}{
		{&resp.TotalUsers, &models.User{}, nil, "users"},
		{&resp.TotalBrands, &models.Brand{}, nil, "brands"},
		{&resp.TotalProducts, &models.Product{}, nil, "products"},
		{&resp.ActiveProducts, &models.Product{}, []interface{}{"active = ?", true}, "active products"},
		{&resp.TotalOrders, &models.Order{}, nil, "orders"},
	}
	for _, c := range counts {
		if *c.dst, err = s.store.CountRows(ctx, c.model, c.where...); err != nil {
			return nil, fmt.Errorf("failed to count %s: %w", c.what, err)
		}
	}

	if resp.OrdersByStatus, err = s.store.OrderCountsByStatus(ctx); err != nil {
		return nil, fmt.Errorf("failed to count orders by status: %w", err)
	}
	if resp.Revenue, err = s.store.Revenue(ctx); err != nil {
		return nil, fmt.Errorf("failed to sum revenue: %w", err)
	}
	if resp.TopRated, err = s.store.TopRatedProducts(ctx, DefaultTopRated); err != nil {
		return nil, fmt.Errorf("failed to rank products: %w", err)
	}

	now := s.now()
	since := now.AddDate(0, 0, -DefaultTrendDays)
	if resp.OrderTrends, err = s.store.OrdersPerDay(ctx, since); err != nil {
		return nil, fmt.Errorf("failed to get order trends: %w", err)
	}

	resp.LastUpdated = now
	return &resp, nil
}
