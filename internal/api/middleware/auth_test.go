package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/MForbesPrim/primith-portal/internal/config"
	"github.com/MForbesPrim/primith-portal/internal/utils"
	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func authTestRouter(t *testing.T, cfg *config.Config) *gin.Engine {
	t.Helper()
	gin.SetMode(gin.TestMode)

	router := gin.New()
	router.GET("/protected", AuthMiddleware(cfg), func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{
			"success": true,
			"userId":  c.GetUint("user_id"),
			"email":   c.GetString("user_email"),
		})
	})
	return router
}

func TestAuthMiddleware(t *testing.T) {
	cfg := &config.Config{JWTSecret: "test-secret"}
	router := authTestRouter(t, cfg)

	pair, err := utils.GenerateTokenPair(7, "user@primith.com", cfg.JWTSecret)
	require.NoError(t, err)

	otherPair, err := utils.GenerateTokenPair(7, "user@primith.com", "other-secret")
	require.NoError(t, err)

	tests := []struct {
		name       string
		authHeader string
		wantStatus int
	}{
		{"valid access token", "Bearer " + pair.AccessToken, http.StatusOK},
		{"missing header", "", http.StatusUnauthorized},
		{"not a bearer token", "Basic abc123", http.StatusUnauthorized},
		{"garbage token", "Bearer not.a.token", http.StatusUnauthorized},
		{"wrong signing secret", "Bearer " + otherPair.AccessToken, http.StatusUnauthorized},
		{"refresh token rejected on protected routes", "Bearer " + pair.RefreshToken, http.StatusUnauthorized},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, "/protected", nil)
			if tt.authHeader != "" {
				req.Header.Set("Authorization", tt.authHeader)
			}

			w := httptest.NewRecorder()
			router.ServeHTTP(w, req)

			assert.Equal(t, tt.wantStatus, w.Code)
		})
	}
}

func TestAuthMiddlewareSetsIdentity(t *testing.T) {
	cfg := &config.Config{JWTSecret: "test-secret"}
	router := authTestRouter(t, cfg)

	pair, err := utils.GenerateTokenPair(7, "user@primith.com", cfg.JWTSecret)
	require.NoError(t, err)

	req := httptest.NewRequest(http.MethodGet, "/protected", nil)
	req.Header.Set("Authorization", "Bearer "+pair.AccessToken)

	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `"userId":7`)
	assert.Contains(t, w.Body.String(), `"email":"user@primith.com"`)
}
