package api

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/essence-shop/essence/internal/models"
	"github.com/essence-shop/essence/internal/shared"
)

// Order endpoints

// createOrder handles POST /api/v1/orders
func (s *Server) createOrder(c *gin.Context) {
	var req models.CreateOrderRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		s.errorResponse(c, http.StatusBadRequest, "Invalid request: "+err.Error())
		return
	}

	order, err := s.orderService.Checkout(c.Request.Context(), req)
	if err != nil {
		s.failure(c, "Checkout failed", err)
		return
	}

	s.log.Info("Order %s placed by user %s (total %s)", order.ID, order.UserID, order.Total.StringFixed(2))
	s.createdResponse(c, order, "Order placed successfully")
}

// listOrders handles GET /api/v1/orders
func (s *Server) listOrders(c *gin.Context) {
	page, limit := shared.ParsePagination(c)

	filter := shared.OrderFilter{
		UserID: c.Query("user_id"),
		Status: models.OrderStatus(c.Query("status")),
		Limit:  limit,
		Offset: shared.Offset(page, limit),
	}

	orders, total, err := s.orderService.ListOrders(c.Request.Context(), filter)
	if err != nil {
		s.failure(c, "Failed to list orders", err)
		return
	}

	s.paginatedResponse(c, orders, page, limit, total)
}

// getOrder handles GET /api/v1/orders/:id
func (s *Server) getOrder(c *gin.Context) {
	order, err := s.orderService.GetOrder(c.Request.Context(), c.Param("id"))
	if err != nil {
		s.failure(c, "Order not found", err)
		return
	}

	s.successResponse(c, order)
}

// updateOrderStatus handles PATCH /api/v1/orders/:id/status
func (s *Server) updateOrderStatus(c *gin.Context) {
	var req models.UpdateOrderStatusRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		s.errorResponse(c, http.StatusBadRequest, "Invalid request: "+err.Error())
		return
	}

	order, err := s.orderService.UpdateStatus(c.Request.Context(), c.Param("id"), req.Status)
	if err != nil {
		s.failure(c, "Failed to update order status", err)
		return
	}

	s.successResponse(c, order)
}
