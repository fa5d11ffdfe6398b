package services

import (
	"context"
	"fmt"
	"strings"

	"github.com/essence-shop/essence/internal/db"
	"github.com/essence-shop/essence/internal/models"
	"github.com/essence-shop/essence/internal/shared"
)

// CatalogService provides business logic for brands, products and reviews
type CatalogService struct {
	db db.Database
}

// NewCatalogService creates a new catalog service
func NewCatalogService(database db.Database) *CatalogService {
	return &CatalogService{db: database}
}

// Brands

// CreateBrand creates a new brand
func (s *CatalogService) CreateBrand(ctx context.Context, req models.CreateBrandRequest) (*models.Brand, error) {
	brand := &models.Brand{
		Name:        strings.TrimSpace(req.Name),
		Description: req.Description,
		LogoURL:     req.LogoURL,
	}
	if brand.Name == "" {
		return nil, fmt.Errorf("brand name is required: %w", ErrInvalidInput)
	}
	if err := s.db.CreateBrand(ctx, brand); err != nil {
		return nil, err
	}
	return brand, nil
}

// GetBrand retrieves a brand by ID
func (s *CatalogService) GetBrand(ctx context.Context, id string) (*models.Brand, error) {
	return s.db.GetBrand(ctx, id)
}

// ListBrands lists brands
func (s *CatalogService) ListBrands(ctx context.Context, page shared.Page) ([]*models.Brand, int64, error) {
	return s.db.ListBrands(ctx, page)
}

// UpdateBrand applies the set fields of req
func (s *CatalogService) UpdateBrand(ctx context.Context, id string, req models.UpdateBrandRequest) (*models.Brand, error) {
	brand, err := s.db.GetBrand(ctx, id)
	if err != nil {
		return nil, err
	}
	if name := strings.TrimSpace(req.Name); name != "" {
		brand.Name = name
	}
	if req.Description != nil {
		brand.Description = *req.Description
	}
	if req.LogoURL != nil {
		brand.LogoURL = *req.LogoURL
	}
	if err := s.db.UpdateBrand(ctx, brand); err != nil {
		return nil, err
	}
	return brand, nil
}

// DeleteBrand deletes a brand that no longer carries products
func (s *CatalogService) DeleteBrand(ctx context.Context, id string) error {
	return s.db.DeleteBrand(ctx, id)
}

// Products

// CreateProduct creates a product; new products are active unless stated otherwise
func (s *CatalogService) CreateProduct(ctx context.Context, req models.CreateProductRequest) (*models.Product, error) {
	if req.Price.IsNegative() {
		return nil, fmt.Errorf("price must not be negative: %w", ErrInvalidInput)
	}
	product := &models.Product{
		BrandID:     req.BrandID,
		Name:        strings.TrimSpace(req.Name),
		Description: req.Description,
		Price:       req.Price.Round(2),
		Stock:       req.Stock,
		Active:      true,
	}
	if req.Active != nil {
		product.Active = *req.Active
	}
	if err := s.db.CreateProduct(ctx, product); err != nil {
		return nil, err
	}
	return s.db.GetProduct(ctx, product.ID)
}

// GetProduct retrieves a product with its brand
func (s *CatalogService) GetProduct(ctx context.Context, id string) (*models.Product, error) {
	return s.db.GetProduct(ctx, id)
}

// ListProducts lists products matching the filter
func (s *CatalogService) ListProducts(ctx context.Context, filter shared.ProductFilter) ([]*models.Product, int64, error) {
	return s.db.ListProducts(ctx, filter)
}

// UpdateProduct applies the set fields of req
func (s *CatalogService) UpdateProduct(ctx context.Context, id string, req models.UpdateProductRequest) (*models.Product, error) {
	product, err := s.db.GetProduct(ctx, id)
	if err != nil {
		return nil, err
	}

	if req.BrandID != "" {
		product.BrandID = req.BrandID
	}
	if name := strings.TrimSpace(req.Name); name != "" {
		product.Name = name
	}
	if req.Description != nil {
		product.Description = *req.Description
	}
	if req.Price != nil {
		if req.Price.IsNegative() {
			return nil, fmt.Errorf("price must not be negative: %w", ErrInvalidInput)
		}
		product.Price = req.Price.Round(2)
	}
	if req.Stock != nil {
		if *req.Stock < 0 {
			return nil, fmt.Errorf("stock must not be negative: %w", ErrInvalidInput)
		}
		product.Stock = *req.Stock
	}
	if req.Active != nil {
		product.Active = *req.Active
	}

	if err := s.db.UpdateProduct(ctx, product); err != nil {
		return nil, err
	}
	return s.db.GetProduct(ctx, id)
}

// DeleteProduct deletes a product that was never ordered
func (s *CatalogService) DeleteProduct(ctx context.Context, id string) error {
	return s.db.DeleteProduct(ctx, id)
}

// Reviews

// CreateReview records a user's review of a product
func (s *CatalogService) CreateReview(ctx context.Context, productID string, req models.CreateReviewRequest) (*models.Review, error) {
	if req.Rating < 1 || req.Rating > 5 {
		return nil, fmt.Errorf("rating must be between 1 and 5: %w", ErrInvalidInput)
	}
	review := &models.Review{
		ProductID: productID,
		UserID:    req.UserID,
		Rating:    req.Rating,
		Content:   strings.TrimSpace(req.Content),
	}
	if err := s.db.CreateReview(ctx, review); err != nil {
		return nil, err
	}
	return review, nil
}

// ListReviews lists a product's reviews
func (s *CatalogService) ListReviews(ctx context.Context, productID string, page shared.Page) ([]*models.Review, int64, error) {
	if _, err := s.db.GetProduct(ctx, productID); err != nil {
		return nil, 0, err
	}
	return s.db.ListReviews(ctx, productID, page)
}

// DeleteReview deletes a review
func (s *CatalogService) DeleteReview(ctx context.Context, id string) error {
	return s.db.DeleteReview(ctx, id)
}
