package shared

import (
	"strconv"

	"github.com/gin-gonic/gin"
)

const (
	DefaultPageLimit = 20
	MaxPageLimit     = 100
)

// ParseBoolFilter parses a boolean query parameter and returns a pointer to bool or nil
func ParseBoolFilter(c *gin.Context, name string) *bool {
	switch c.Query(name) {
	case "true":
		return &[]bool{true}[0]
	case "false":
		return &[]bool{false}[0]
	default:
		return nil
	}
}

// ParsePagination reads page and limit query parameters, clamping them to sane bounds
func ParsePagination(c *gin.Context) (page, limit int) {
	page, err := strconv.Atoi(c.DefaultQuery("page", "1"))
	if err != nil || page < 1 {
		page = 1
	}

	limit, err = strconv.Atoi(c.DefaultQuery("limit", strconv.Itoa(DefaultPageLimit)))
	if err != nil || limit < 1 {
		limit = DefaultPageLimit
	}
	if limit > MaxPageLimit {
		limit = MaxPageLimit
	}

	return page, limit
}

// Offset converts a 1-based page into a row offset
func Offset(page, limit int) int {
	return (page - 1) * limit
}

// TotalPages returns how many pages of size limit cover total rows
func TotalPages(total int64, limit int) int {
	if limit <= 0 {
		return 0
	}
	return int((total + int64(limit) - 1) / int64(limit))
}
