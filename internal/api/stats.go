package api

import (
	"github.com/gin-gonic/gin"
)

// getStats handles GET /api/v1/stats
func (s *Server) getStats(c *gin.Context) {
	overview, err := s.statsService.Overview(c.Request.Context())
	if err != nil {
		s.failure(c, "Failed to get stats", err)
		return
	}

	s.successResponse(c, overview)
}
