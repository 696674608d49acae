package main

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/MForbesPrim/primith-portal/internal/config"
	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoginPageEscapesRedirect(t *testing.T) {
	gin.SetMode(gin.TestMode)

	srv := &portalServer{cfg: &config.Config{}}
	router := gin.New()
	router.GET("/login", srv.loginPage)

	tests := []struct {
		name        string
		redirect    string
		wantInBody  string
		banFromBody string
	}{
		{
			name:       "plain path passes through",
			redirect:   "/rdm/projects",
			wantInBody: `value="/rdm/projects"`,
		},
		{
			name:        "markup cannot break out of the attribute",
			redirect:    `"><script>alert(1)</script>`,
			wantInBody:  "&#34;&gt;&lt;script&gt;alert(1)&lt;/script&gt;",
			banFromBody: "<script>",
		},
		{
			name:        "single quotes are escaped too",
			redirect:    `' onmouseover='alert(1)`,
			banFromBody: `' onmouseover='`,
		},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, "/login", nil)
			q := req.URL.Query()
			q.Set("redirect", tt.redirect)
			req.URL.RawQuery = q.Encode()

			w := httptest.NewRecorder()
			router.ServeHTTP(w, req)

			require.Equal(t, http.StatusOK, w.Code)
			if tt.wantInBody != "" {
				assert.Contains(t, w.Body.String(), tt.wantInBody)
			}
			if tt.banFromBody != "" {
				assert.NotContains(t, w.Body.String(), tt.banFromBody)
			}
		})
	}
}
