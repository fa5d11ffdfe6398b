package shared

import (
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
)

func contextWithQuery(query string) *gin.Context {
	gin.SetMode(gin.TestMode)
	c, _ := gin.CreateTestContext(httptest.NewRecorder())
	c.Request = httptest.NewRequest("GET", "/?"+query, nil)
	return c
}

func TestParsePagination(t *testing.T) {
	page, limit := ParsePagination(contextWithQuery(""))
	assert.Equal(t, 1, page)
	assert.Equal(t, DefaultPageLimit, limit)

	page, limit = ParsePagination(contextWithQuery("page=3&limit=500"))
	assert.Equal(t, 3, page)
	assert.Equal(t, MaxPageLimit, limit)

	page, limit = ParsePagination(contextWithQuery("page=-2&limit=abc"))
	assert.Equal(t, 1, page)
	assert.Equal(t, DefaultPageLimit, limit)

	assert.Equal(t, 40, Offset(3, 20))
}

func TestParseBoolFilter(t *testing.T) {
	assert.Nil(t, ParseBoolFilter(contextWithQuery(""), "active"))
	assert.Nil(t, ParseBoolFilter(contextWithQuery("active=maybe"), "active"))

	v := ParseBoolFilter(contextWithQuery("active=false"), "active")
	if assert.NotNil(t, v) {
		assert.False(t, *v)
	}
}

func TestTotalPages(t *testing.T) {
	assert.Equal(t, 0, TotalPages(0, 20))
	assert.Equal(t, 1, TotalPages(20, 20))
	assert.Equal(t, 2, TotalPages(21, 20))
	assert.Equal(t, 0, TotalPages(5, 0))
}
