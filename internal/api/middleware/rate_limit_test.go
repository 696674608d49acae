package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/MForbesPrim/primith-portal/internal/config"
	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
)

func TestRateLimitMiddleware(t *testing.T) {
	gin.SetMode(gin.TestMode)

	router := gin.New()
	router.Use(RateLimitMiddleware(&config.Config{RateLimitRPS: 2}))
	router.GET("/ping", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"success": true})
	})

	do := func(path string) int {
		req := httptest.NewRequest(http.MethodGet, path, nil)
		req.RemoteAddr = "10.0.0.1:1234"
		w := httptest.NewRecorder()
		router.ServeHTTP(w, req)
		return w.Code
	}

	assert.Equal(t, http.StatusOK, do("/ping"))
	assert.Equal(t, http.StatusOK, do("/ping"))
	assert.Equal(t, http.StatusTooManyRequests, do("/ping"), "requests over the per-second limit are rejected")
}
