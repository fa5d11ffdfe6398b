package api

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/essence-shop/essence/internal/models"
	"github.com/essence-shop/essence/internal/shared"
)

// Brand endpoints

// listBrands handles GET /api/v1/brands
func (s *Server) listBrands(c *gin.Context) {
	page, limit := shared.ParsePagination(c)

	brands, total, err := s.catalogService.ListBrands(c.Request.Context(), shared.Page{
		Limit:  limit,
		Offset: shared.Offset(page, limit),
	})
	if err != nil {
		s.failure(c, "Failed to list brands", err)
		return
	}

	s.paginatedResponse(c, brands, page, limit, total)
}

// getBrand handles GET /api/v1/brands/:id
func (s *Server) getBrand(c *gin.Context) {
	brand, err := s.catalogService.GetBrand(c.Request.Context(), c.Param("id"))
	if err != nil {
		s.failure(c, "Brand not found", err)
		return
	}

	s.successResponse(c, brand)
}

// createBrand handles POST /api/v1/brands
func (s *Server) createBrand(c *gin.Context) {
	var req models.CreateBrandRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		s.errorResponse(c, http.StatusBadRequest, "Invalid request: "+err.Error())
		return
	}

	brand, err := s.catalogService.CreateBrand(c.Request.Context(), req)
	if err != nil {
		s.failure(c, "Failed to create brand", err)
		return
	}

	s.createdResponse(c, brand, "Brand created successfully")
}

// updateBrand handles PUT /api/v1/brands/:id
func (s *Server) updateBrand(c *gin.Context) {
	var req models.UpdateBrandRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		s.errorResponse(c, http.StatusBadRequest, "Invalid request: "+err.Error())
		return
	}

	brand, err := s.catalogService.UpdateBrand(c.Request.Context(), c.Param("id"), req)
	if err != nil {
		s.failure(c, "Failed to update brand", err)
		return
	}

	s.successResponse(c, brand)
}

// deleteBrand handles DELETE /api/v1/brands/:id
func (s *Server) deleteBrand(c *gin.Context) {
	if err := s.catalogService.DeleteBrand(c.Request.Context(), c.Param("id")); err != nil {
		s.failure(c, "Failed to delete brand", err)
		return
	}

	c.JSON(http.StatusOK, models.APIResponse{
		Success: true,
		Message: "Brand deleted successfully",
	})
}
