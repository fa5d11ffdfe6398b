package api

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/essence-shop/essence/internal/models"
)

// Cart endpoints

// getCart handles GET /api/v1/carts/:user_id
func (s *Server) getCart(c *gin.Context) {
	cart, err := s.cartService.GetCart(c.Request.Context(), c.Param("user_id"))
	if err != nil {
		s.failure(c, "Failed to get cart", err)
		return
	}

	s.successResponse(c, cart)
}

// clearCart handles DELETE /api/v1/carts/:user_id
func (s *Server) clearCart(c *gin.Context) {
	if err := s.cartService.ClearCart(c.Request.Context(), c.Param("user_id")); err != nil {
		s.failure(c, "Failed to clear cart", err)
		return
	}

	c.JSON(http.StatusOK, models.APIResponse{
		Success: true,
		Message: "Cart cleared",
	})
}

// addCartItem handles POST /api/v1/carts/:user_id/items
func (s *Server) addCartItem(c *gin.Context) {
	var req models.AddCartItemRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		s.errorResponse(c, http.StatusBadRequest, "Invalid request: "+err.Error())
		return
	}

	cart, err := s.cartService.AddItem(c.Request.Context(), c.Param("user_id"), req)
	if err != nil {
		s.failure(c, "Failed to add item", err)
		return
	}

	s.successResponse(c, cart)
}

// updateCartItem handles PUT /api/v1/carts/:user_id/items/:product_id
func (s *Server) updateCartItem(c *gin.Context) {
	var req models.UpdateCartItemRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		s.errorResponse(c, http.StatusBadRequest, "Invalid request: "+err.Error())
		return
	}

	cart, err := s.cartService.SetItemQuantity(c.Request.Context(), c.Param("user_id"), c.Param("product_id"), req.Quantity)
	if err != nil {
		s.failure(c, "Failed to update item", err)
		return
	}

	s.successResponse(c, cart)
}

// removeCartItem handles DELETE /api/v1/carts/:user_id/items/:product_id
func (s *Server) removeCartItem(c *gin.Context) {
	if err := s.cartService.RemoveItem(c.Request.Context(), c.Param("user_id"), c.Param("product_id")); err != nil {
		s.failure(c, "Failed to remove item", err)
		return
	}

	c.JSON(http.StatusOK, models.APIResponse{
		Success: true,
		Message: "Item removed",
	})
}
