package api

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/essence-shop/essence/internal/models"
	"github.com/essence-shop/essence/internal/shared"
)

// search handles POST /api/v1/search
func (s *Server) search(c *gin.Context) {
	var req models.SearchRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		s.errorResponse(c, http.StatusBadRequest, "Invalid request: "+err.Error())
		return
	}

	req.Keyword = strings.TrimSpace(req.Keyword)
	if len(req.Keyword) < 2 {
		s.errorResponse(c, http.StatusBadRequest, "Keyword must be at least 2 characters long")
		return
	}
	if len(req.Keyword) > 100 {
		s.errorResponse(c, http.StatusBadRequest, "Keyword must be no more than 100 characters long")
		return
	}
	if req.MinPrice != nil && req.MaxPrice != nil && req.MinPrice.GreaterThan(*req.MaxPrice) {
		s.errorResponse(c, http.StatusBadRequest, "min_price must not exceed max_price")
		return
	}

	if req.Limit <= 0 || req.Limit > shared.MaxPageLimit {
		req.Limit = shared.DefaultPageLimit
	}

	active := true
	filter := shared.ProductFilter{
		BrandID:  req.BrandID,
		Keyword:  req.Keyword,
		Active:   &active,
		MinPrice: req.MinPrice,
		MaxPrice: req.MaxPrice,
		Limit:    req.Limit,
	}

	products, total, err := s.catalogService.ListProducts(c.Request.Context(), filter)
	if err != nil {
		s.failure(c, "Failed to search products", err)
		return
	}

	s.successResponse(c, models.SearchResponse{
		Keyword:  req.Keyword,
		Total:    total,
		Products: products,
	})
}
