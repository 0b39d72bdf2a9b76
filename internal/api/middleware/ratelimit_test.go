package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/gin-gonic/gin"
	"github.com/go-redis/redis/v8"
	"github.com/stretchr/testify/assert"

	"github.com/qs3c/water_go_server/internal/pkg/response"
)

func newRateLimitRouter(t *testing.T, limit int) *gin.Engine {
	t.Helper()

	mr := miniredis.RunT(t)
	rdb := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { rdb.Close() })

	router := gin.New()
	router.Use(RateLimit(rdb, "test", limit, time.Minute))
	router.GET("/test", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"ok": true})
	})
	return router
}

func TestRateLimit_UnderLimit(t *testing.T) {
	router := newRateLimitRouter(t, 3)

	for i := 0; i < 3; i++ {
		req := httptest.NewRequest("GET", "/test", nil)
		w := httptest.NewRecorder()
		router.ServeHTTP(w, req)
		assert.Contains(t, w.Body.String(), "ok")
	}
}

func TestRateLimit_OverLimit(t *testing.T) {
	router := newRateLimitRouter(t, 2)

	for i := 0; i < 2; i++ {
		req := httptest.NewRequest("GET", "/test", nil)
		w := httptest.NewRecorder()
		router.ServeHTTP(w, req)
	}

	req := httptest.NewRequest("GET", "/test", nil)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	resp := parseResponse(t, w)
	assert.Equal(t, response.CodeRateLimited, resp.Code)
}

func TestRateLimit_ZeroLimitDisabled(t *testing.T) {
	router := newRateLimitRouter(t, 0)

	for i := 0; i < 10; i++ {
		req := httptest.NewRequest("GET", "/test", nil)
		w := httptest.NewRecorder()
		router.ServeHTTP(w, req)
		assert.Contains(t, w.Body.String(), "ok")
	}
}
