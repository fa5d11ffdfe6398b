package api

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/essence-shop/essence/internal/models"
	"github.com/essence-shop/essence/internal/shared"
)

// Product endpoints

// listProducts handles GET /api/v1/products
func (s *Server) listProducts(c *gin.Context) {
	page, limit := shared.ParsePagination(c)

	filter := shared.ProductFilter{
		BrandID: c.Query("brand_id"),
		Keyword: c.Query("q"),
		Active:  shared.ParseBoolFilter(c, "active"),
		Limit:   limit,
		Offset:  shared.Offset(page, limit),
	}

	products, total, err := s.catalogService.ListProducts(c.Request.Context(), filter)
	if err != nil {
		s.failure(c, "Failed to list products", err)
		return
	}

	s.paginatedResponse(c, products, page, limit, total)
}

// getProduct handles GET /api/v1/products/:id
func (s *Server) getProduct(c *gin.Context) {
	product, err := s.catalogService.GetProduct(c.Request.Context(), c.Param("id"))
	if err != nil {
		s.failure(c, "Product not found", err)
		return
	}

	s.successResponse(c, product)
}

// createProduct handles POST /api/v1/products
func (s *Server) createProduct(c *gin.Context) {
	var req models.CreateProductRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		s.errorResponse(c, http.StatusBadRequest, "Invalid request: "+err.Error())
		return
	}

	product, err := s.catalogService.CreateProduct(c.Request.Context(), req)
	if err != nil {
		s.failure(c, "Failed to create product", err)
		return
	}

	s.createdResponse(c, product, "Product created successfully")
}

// updateProduct handles PUT /api/v1/products/:id
func (s *Server) updateProduct(c *gin.Context) {
	var req models.UpdateProductRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		s.errorResponse(c, http.StatusBadRequest, "Invalid request: "+err.Error())
		return
	}

	product, err := s.catalogService.UpdateProduct(c.Request.Context(), c.Param("id"), req)
	if err != nil {
		s.failure(c, "Failed to update product", err)
		return
	}

	s.successResponse(c, product)
}

// deleteProduct handles DELETE /api/v1/products/:id
func (s *Server) deleteProduct(c *gin.Context) {
	if err := s.catalogService.DeleteProduct(c.Request.Context(), c.Param("id")); err != nil {
		s.failure(c, "Failed to delete product", err)
		return
	}

	c.JSON(http.StatusOK, models.APIResponse{
		Success: true,
		Message: "Product deleted successfully",
	})
}

// Review endpoints

// listReviews handles GET /api/v1/products/:id/reviews
func (s *Server) listReviews(c *gin.Context) {
	page, limit := shared.ParsePagination(c)

	reviews, total, err := s.catalogService.ListReviews(c.Request.Context(), c.Param("id"), shared.Page{
		Limit:  limit,
		Offset: shared.Offset(page, limit),
	})
	if err != nil {
		s.failure(c, "Failed to list reviews", err)
		return
	}

	s.paginatedResponse(c, reviews, page, limit, total)
}

// createReview handles POST /api/v1/products/:id/reviews
func (s *Server) createReview(c *gin.Context) {
	var req models.CreateReviewRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		s.errorResponse(c, http.StatusBadRequest, "Invalid request: "+err.Error())
		return
	}

	review, err := s.catalogService.CreateReview(c.Request.Context(), c.Param("id"), req)
	if err != nil {
		s.failure(c, "Failed to create review", err)
		return
	}

	s.createdResponse(c, review, "Review created successfully")
}

// deleteReview handles DELETE /api/v1/reviews/:id
func (s *Server) deleteReview(c *gin.Context) {
	if err := s.catalogService.DeleteReview(c.Request.Context(), c.Param("id")); err != nil {
		s.failure(c, "Failed to delete review", err)
		return
	}

	c.JSON(http.StatusOK, models.APIResponse{
		Success: true,
		Message: "Review deleted successfully",
	})
}
