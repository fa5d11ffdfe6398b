package db

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/essence-shop/essence/internal/models"
	"github.com/essence-shop/essence/internal/shared"
)

// likeEscaper makes user input match literally inside a LIKE pattern
var likeEscaper = strings.NewReplacer(`\`, `\\`, "%", `\%`, "_", `\_`)

// Product Operations

// CreateProduct creates a new product under an existing brand
func (s *Store) CreateProduct(ctx context.Context, product *models.Product) error {
	if _, err := s.GetBrand(ctx, product.BrandID); err != nil {
		return err
	}
	if product.ID == "" {
		product.ID = uuid.NewString()
	}
	err := s.session(ctx).Omit(clause.Associations).Create(product).Error
	return translate(err, "product", product.Name)
}

// GetProduct retrieves a product by ID together with its brand
func (s *Store) GetProduct(ctx context.Context, id string) (*models.Product, error) {
	var product models.Product
	if err := s.session(ctx).Preload("Brand").First(&product, "id = ?", id).Error; err != nil {
		return nil, translate(err, "product", id)
	}
	return &product, nil
}

// ListProducts lists products matching the filter, newest first
func (s *Store) ListProducts(ctx context.Context, filter shared.ProductFilter) ([]*models.Product, int64, error) {
	var (
		products []*models.Product
		total    int64
	)

	q := s.session(ctx).Model(&models.Product{})
	if filter.BrandID != "" {
		q = q.Where("brand_id = ?", filter.BrandID)
	}
	if keyword := strings.TrimSpace(filter.Keyword); keyword != "" {
		pattern := "%" + likeEscaper.Replace(strings.ToLower(keyword)) + "%"
		q = q.Where(`(LOWER(name) LIKE ? ESCAPE '\' OR LOWER(description) LIKE ? ESCAPE '\')`, pattern, pattern)
	}
	if filter.Active != nil {
		q = q.Where("active = ?", *filter.Active)
	}
	if filter.MinPrice != nil {
		q = q.Where("price >= ?", *filter.MinPrice)
	}
	if filter.MaxPrice != nil {
		q = q.Where("price <= ?", *filter.MaxPrice)
	}
	q = q.Session(&gorm.Session{})

	if err := q.Count(&total).Error; err != nil {
		return nil, 0, err
	}
	err := paginate(q.Preload("Brand").Order("created_at DESC"), filter.Limit, filter.Offset).Find(&products).Error
	return products, total, err
}

// UpdateProduct updates an existing product
func (s *Store) UpdateProduct(ctx context.Context, product *models.Product) error {
	if product.BrandID != "" {
		if _, err := s.GetBrand(ctx, product.BrandID); err != nil {
			return err
		}
	}
	result := s.session(ctx).Model(product).
		Select("brand_id", "name", "description", "price", "stock", "active", "updated_at").
		Omit(clause.Associations).
		Updates(product)
	return affected(result, "product", product.ID)
}

// DeleteProduct deletes a product. Products that appear in orders cannot be deleted; deactivate them instead.
func (s *Store) DeleteProduct(ctx context.Context, id string) error {
	var ordered int64
	if err := s.session(ctx).Model(&models.OrderItem{}).Where("product_id = ?", id).Count(&ordered).Error; err != nil {
		return err
	}
	if ordered > 0 {
		return fmt.Errorf("product %s appears in %d order lines: %w", id, ordered, ErrConflict)
	}
	return affected(s.session(ctx).Delete(&models.Product{}, "id = ?", id), "product", id)
}

// Review Operations

// CreateReview records a review; a user can review a product only once
func (s *Store) CreateReview(ctx context.Context, review *models.Review) error {
	if _, err := s.GetProduct(ctx, review.ProductID); err != nil {
		return err
	}
	if _, err := s.GetUser(ctx, review.UserID); err != nil {
		return err
	}
	if review.ID == "" {
		review.ID = uuid.NewString()
	}
	key := review.ProductID + "/" + review.UserID
	return translate(s.session(ctx).Create(review).Error, "review", key)
}

// ListReviews lists the reviews of a product, newest first
func (s *Store) ListReviews(ctx context.Context, productID string, page shared.Page) ([]*models.Review, int64, error) {
	var (
		reviews []*models.Review
		total   int64
	)
	q := s.session(ctx).Model(&models.Review{}).Where("product_id = ?", productID).Session(&gorm.Session{})
	if err := q.Count(&total).Error; err != nil {
		return nil, 0, err
	}
	err := paginate(q.Order("created_at DESC"), page.Limit, page.Offset).Find(&reviews).Error
	return reviews, total, err
}

// DeleteReview deletes a review
func (s *Store) DeleteReview(ctx context.Context, id string) error {
	return affected(s.session(ctx).Delete(&models.Review{}, "id = ?", id), "review", id)
}

// Coupon Operations

// CreateCoupon creates a new coupon
func (s *Store) CreateCoupon(ctx context.Context, coupon *models.Coupon) error {
	if coupon.ID == "" {
		coupon.ID = uuid.NewString()
	}
	coupon.ExpiresAt = s.localPtr(coupon.ExpiresAt)
	return translate(s.session(ctx).Create(coupon).Error, "coupon", coupon.Code)
}

// GetCoupon retrieves a coupon by ID
func (s *Store) GetCoupon(ctx context.Context, id string) (*models.Coupon, error) {
	var coupon models.Coupon
	if err := s.session(ctx).First(&coupon, "id = ?", id).Error; err != nil {
		return nil, translate(err, "coupon", id)
	}
	return &coupon, nil
}

// GetCouponByCode retrieves a coupon by its redeemable code
func (s *Store) GetCouponByCode(ctx context.Context, code string) (*models.Coupon, error) {
	var coupon models.Coupon
	if err := s.session(ctx).First(&coupon, "code = ?", code).Error; err != nil {
		return nil, translate(err, "coupon", code)
	}
	return &coupon, nil
}

// ListCoupons lists coupons, optionally only active or inactive ones
func (s *Store) ListCoupons(ctx context.Context, active *bool) ([]*models.Coupon, error) {
	var coupons []*models.Coupon
	q := s.session(ctx).Order("created_at DESC")
	if active != nil {
		q = q.Where("active = ?", *active)
	}
	if err := q.Find(&coupons).Error; err != nil {
		return nil, err
	}
	return coupons, nil
}

// UpdateCoupon updates an existing coupon
func (s *Store) UpdateCoupon(ctx context.Context, coupon *models.Coupon) error {
	coupon.ExpiresAt = s.localPtr(coupon.ExpiresAt)
	result := s.session(ctx).Model(coupon).
		Select("discount_type", "amount", "min_order_amount", "expires_at", "active", "updated_at").
		Updates(coupon)
	return affected(result, "coupon", coupon.ID)
}

// DeleteCoupon deletes a coupon
func (s *Store) DeleteCoupon(ctx context.Context, id string) error {
	return affected(s.session(ctx).Delete(&models.Coupon{}, "id = ?", id), "coupon", id)
}

// DeactivateExpiredCoupons switches off every active coupon whose expiry has passed
func (s *Store) DeactivateExpiredCoupons(ctx context.Context, now time.Time) (int64, error) {
	result := s.session(ctx).Model(&models.Coupon{}).
		Where("active = ? AND expires_at IS NOT NULL AND expires_at <= ?", true, s.local(now)).
		Updates(map[string]interface{}{"active": false})
	return result.RowsAffected, result.Error
}

// local moves an instant into the zone rows are stamped in, so that
// comparisons also hold on SQLite, which keeps times as text
func (s *Store) local(t time.Time) time.Time {
	return t.In(s.db.NowFunc().Location())
}

func (s *Store) localPtr(t *time.Time) *time.Time {
	if t == nil {
		return nil
	}
	l := s.local(*t)
	return &l
}
