package main

import (
	"encoding/json"
	"html"
	"net/http"
	"os"
	"time"

	"github.com/MForbesPrim/primith-portal/internal/config"
	"github.com/MForbesPrim/primith-portal/internal/session"
	"github.com/MForbesPrim/primith-portal/pkg/logger"
	"github.com/gin-gonic/gin"
	"github.com/go-resty/resty/v2"
	"github.com/joho/godotenv"
)

const (
	accessCookie  = "primith_access"
	refreshCookie = "primith_refresh"
)

// portalServer is the browser-facing gateway. Tokens live in HTTP-only
// cookies; every protected request rebuilds a per-request token store from
// them, runs the session guard against the API, and writes any rotated
// tokens back out.
type portalServer struct {
	cfg *config.Config
	api *resty.Client
}

func main() {
	if err := godotenv.Load(); err != nil {
		logger.Info("No .env file found, using system environment variables")
	}

	logger.Init()
	cfg := config.Load()

	if cfg.IsProduction() {
		gin.SetMode(gin.ReleaseMode)
	}

	srv := &portalServer{
		cfg: cfg,
		api: resty.New().SetBaseURL(cfg.APIBaseURL).SetTimeout(10 * time.Second),
	}

	router := gin.New()
	router.Use(gin.Logger())
	router.Use(gin.Recovery())

	router.GET("/healthz", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	router.GET("/login", srv.loginPage)
	router.POST("/login", srv.login)
	router.POST("/logout", srv.logout)

	protected := router.Group("/", srv.requireSession)
	{
		protected.GET("/dashboard", srv.dashboard)
		protected.GET("/events", srv.events)
	}

	port := os.Getenv("PORTAL_PORT")
	if port == "" {
		port = "5173"
	}

	logger.Info("Starting portal gateway on port ", port)
	if err := router.Run(":" + port); err != nil {
		logger.Fatal("Failed to start portal gateway: ", err)
	}
}

// storeFromCookies builds a token store scoped to this request.
func (s *portalServer) storeFromCookies(c *gin.Context) *session.MemoryStore {
	store := session.NewMemoryStore()

	access, _ := c.Cookie(accessCookie)
	refresh, _ := c.Cookie(refreshCookie)
	if access != "" || refresh != "" {
		store.Set(session.TokenPair{AccessToken: access, RefreshToken: refresh})
	}

	return store
}

func (s *portalServer) setSessionCookies(c *gin.Context, pair session.TokenPair) {
	secure := s.cfg.IsProduction()
	c.SetSameSite(http.SameSiteLaxMode)
	c.SetCookie(accessCookie, pair.AccessToken, int((15 * time.Minute).Seconds()), "/", "", secure, true)
	c.SetCookie(refreshCookie, pair.RefreshToken, int((7 * 24 * time.Hour).Seconds()), "/", "", secure, true)
}

func (s *portalServer) clearSessionCookies(c *gin.Context) {
	secure := s.cfg.IsProduction()
	c.SetCookie(accessCookie, "", -1, "/", "", secure, true)
	c.SetCookie(refreshCookie, "", -1, "/", "", secure, true)
}

// requireSession is the route guard. A failed check redirects to the login
// destination with the original URL preserved; a check aborted by client
// disconnect resolves to unknown and produces no redirect and no cookie
// changes.
func (s *portalServer) requireSession(c *gin.Context) {
	store := s.storeFromCookies(c)
	before, _ := store.Get()

	guard := session.NewGuard(s.cfg.APIBaseURL, store)

	switch guard.Check(c.Request.Context()) {
	case session.StatusAuthenticated:
		// The refresh cycle may have rotated the pair.
		if after, ok := store.Get(); ok && after != before {
			s.setSessionCookies(c, after)
		}
		if pair, ok := store.Get(); ok {
			c.Set("access_token", pair.AccessToken)
		}
		c.Next()
	case session.StatusUnauthenticated:
		if _, ok := store.Get(); !ok && !before.IsZero() {
			s.clearSessionCookies(c)
		}
		dest := session.LoginURL(s.cfg.PortalBaseURL, c.Request.Host, c.Request.URL.RequestURI())
		c.Redirect(http.StatusFound, dest)
		c.Abort()
	default:
		c.Abort()
	}
}

func (s *portalServer) loginPage(c *gin.Context) {
	c.Header("Content-Type", "text/html; charset=utf-8")
	// The redirect parameter is attacker-controlled; escape it before it
	// lands in the attribute value.
	c.String(http.StatusOK, `<!doctype html>
<form method="post" action="/login">
  <input type="hidden" name="redirect" value="%s">
  <input name="email" type="email" placeholder="Email" required>
  <input name="password" type="password" placeholder="Password" required>
  <button type="submit">Sign in</button>
</form>`, html.EscapeString(c.Query("redirect")))
}

type loginResult struct {
	Success bool   `json:"success"`
	Message string `json:"message"`
	Data    struct {
		Tokens struct {
			AccessToken           string `json:"accessToken"`
			RefreshToken          string `json:"refreshToken"`
			AccessTokenExpiresAt  int64  `json:"accessTokenExpiresAt"`
			RefreshTokenExpiresAt int64  `json:"refreshTokenExpiresAt"`
		} `json:"tokens"`
	} `json:"data"`
}

func (s *portalServer) login(c *gin.Context) {
	email := c.PostForm("email")
	password := c.PostForm("password")
	redirect := c.PostForm("redirect")

	resp, err := s.api.R().
		SetContext(c.Request.Context()).
		SetBody(map[string]string{"email": email, "password": password}).
		Post("/auth/login")
	if err != nil {
		logger.Error("login request to API failed: ", err)
		c.JSON(http.StatusBadGateway, gin.H{"success": false, "error": "Authentication service unavailable"})
		return
	}

	var result loginResult
	if resp.StatusCode() != http.StatusOK || json.Unmarshal(resp.Body(), &result) != nil || !result.Success {
		c.JSON(http.StatusUnauthorized, gin.H{"success": false, "error": "Invalid email or password"})
		return
	}

	s.setSessionCookies(c, session.TokenPair{
		AccessToken:  result.Data.Tokens.AccessToken,
		RefreshToken: result.Data.Tokens.RefreshToken,
		ExpiresAt:    time.Unix(result.Data.Tokens.AccessTokenExpiresAt, 0),
	})

	if redirect == "" {
		redirect = "/dashboard"
	}
	c.Redirect(http.StatusFound, redirect)
}

func (s *portalServer) logout(c *gin.Context) {
	if refresh, err := c.Cookie(refreshCookie); err == nil && refresh != "" {
		if _, err := s.api.R().
			SetContext(c.Request.Context()).
			SetHeader("X-Refresh-Token", refresh).
			Post("/auth/logout"); err != nil {
			logger.Warn("logout request to API failed: ", err)
		}
	}

	s.clearSessionCookies(c)
	c.Redirect(http.StatusFound, "/login")
}

// dashboard relays the caller's profile from the API.
func (s *portalServer) dashboard(c *gin.Context) {
	resp, err := s.api.R().
		SetContext(c.Request.Context()).
		SetAuthToken(c.GetString("access_token")).
		Get("/auth/me")
	if err != nil {
		c.JSON(http.StatusBadGateway, gin.H{"success": false, "error": "API unavailable"})
		return
	}

	c.Data(resp.StatusCode(), "application/json", resp.Body())
}

// events streams notifications to the browser over SSE, polling the API on a
// fixed interval until the client disconnects.
func (s *portalServer) events(c *gin.Context) {
	store := session.NewMemoryStore()
	store.Set(session.TokenPair{AccessToken: c.GetString("access_token")})

	poller := session.NewPoller(s.cfg.APIBaseURL, store, session.DefaultPollInterval)

	c.Header("Content-Type", "text/event-stream")
	c.Header("Cache-Control", "no-cache")
	c.Header("Connection", "keep-alive")

	poller.Run(c.Request.Context(), func(notifications []session.Notification) {
		c.SSEvent("notifications", notifications)
		c.Writer.Flush()
	})
}
