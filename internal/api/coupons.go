package api

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/essence-shop/essence/internal/models"
	"github.com/essence-shop/essence/internal/shared"
)

// Coupon endpoints

// listCoupons handles GET /api/v1/coupons
func (s *Server) listCoupons(c *gin.Context) {
	coupons, err := s.couponService.ListCoupons(c.Request.Context(), shared.ParseBoolFilter(c, "active"))
	if err != nil {
		s.failure(c, "Failed to list coupons", err)
		return
	}

	s.successResponse(c, coupons)
}

// getCoupon handles GET /api/v1/coupons/:id
func (s *Server) getCoupon(c *gin.Context) {
	coupon, err := s.couponService.GetCoupon(c.Request.Context(), c.Param("id"))
	if err != nil {
		s.failure(c, "Coupon not found", err)
		return
	}

	s.successResponse(c, coupon)
}

// createCoupon handles POST /api/v1/coupons
func (s *Server) createCoupon(c *gin.Context) {
	var req models.CreateCouponRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		s.errorResponse(c, http.StatusBadRequest, "Invalid request: "+err.Error())
		return
	}

	coupon, err := s.couponService.CreateCoupon(c.Request.Context(), req)
	if err != nil {
		s.failure(c, "Failed to create coupon", err)
		return
	}

	s.createdResponse(c, coupon, "Coupon created successfully")
}

// updateCoupon handles PUT /api/v1/coupons/:id
func (s *Server) updateCoupon(c *gin.Context) {
	var req models.UpdateCouponRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		s.errorResponse(c, http.StatusBadRequest, "Invalid request: "+err.Error())
		return
	}

	coupon, err := s.couponService.UpdateCoupon(c.Request.Context(), c.Param("id"), req)
	if err != nil {
		s.failure(c, "Failed to update coupon", err)
		return
	}

	s.successResponse(c, coupon)
}

// deleteCoupon handles DELETE /api/v1/coupons/:id
func (s *Server) deleteCoupon(c *gin.Context) {
	if err := s.couponService.DeleteCoupon(c.Request.Context(), c.Param("id")); err != nil {
		s.failure(c, "Failed to delete coupon", err)
		return
	}

	c.JSON(http.StatusOK, models.APIResponse{
		Success: true,
		Message: "Coupon deleted successfully",
	})
}

// validateCoupon handles POST /api/v1/coupons/validate
func (s *Server) validateCoupon(c *gin.Context) {
	var req models.ValidateCouponRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		s.errorResponse(c, http.StatusBadRequest, "Invalid request: "+err.Error())
		return
	}

	quote, err := s.couponService.ValidateCoupon(c.Request.Context(), req)
	if err != nil {
		s.failure(c, "Coupon cannot be applied", err)
		return
	}

	s.successResponse(c, quote)
}
