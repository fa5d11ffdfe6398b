package api

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/essence-shop/essence/internal/models"
	"github.com/essence-shop/essence/internal/shared"
)

// User endpoints

// listUsers handles GET /api/v1/users
func (s *Server) listUsers(c *gin.Context) {
	page, limit := shared.ParsePagination(c)

	users, total, err := s.userService.ListUsers(c.Request.Context(), shared.Page{
		Limit:  limit,
		Offset: shared.Offset(page, limit),
	})
	if err != nil {
		s.failure(c, "Failed to list users", err)
		return
	}

	s.paginatedResponse(c, users, page, limit, total)
}

// getUser handles GET /api/v1/users/:id
func (s *Server) getUser(c *gin.Context) {
	user, err := s.userService.GetUser(c.Request.Context(), c.Param("id"))
	if err != nil {
		s.failure(c, "User not found", err)
		return
	}

	s.successResponse(c, user)
}

// createUser handles POST /api/v1/users
func (s *Server) createUser(c *gin.Context) {
	var req models.CreateUserRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		s.errorResponse(c, http.StatusBadRequest, "Invalid request: "+err.Error())
		return
	}

	user, err := s.userService.CreateUser(c.Request.Context(), req)
	if err != nil {
		s.failure(c, "Failed to create user", err)
		return
	}

	s.createdResponse(c, user, "User created successfully")
}

// updateUser handles PUT /api/v1/users/:id
func (s *Server) updateUser(c *gin.Context) {
	var req models.UpdateUserRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		s.errorResponse(c, http.StatusBadRequest, "Invalid request: "+err.Error())
		return
	}

	user, err := s.userService.UpdateUser(c.Request.Context(), c.Param("id"), req)
	if err != nil {
		s.failure(c, "Failed to update user", err)
		return
	}

	s.successResponse(c, user)
}

// deleteUser handles DELETE /api/v1/users/:id
func (s *Server) deleteUser(c *gin.Context) {
	if err := s.userService.DeleteUser(c.Request.Context(), c.Param("id")); err != nil {
		s.failure(c, "Failed to delete user", err)
		return
	}

	c.JSON(http.StatusOK, models.APIResponse{
		Success: true,
		Message: "User deleted successfully",
	})
}
