package middleware

import (
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
)

func CORSMiddleware(production bool) gin.HandlerFunc {
	cfg := cors.Config{
		AllowMethods:     []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Content-Type", "Authorization", "X-Refresh-Token"},
		AllowCredentials: true,
		MaxAge:           12 * time.Hour,
	}

	if production {
		cfg.AllowOrigins = []string{"https://primith.com", "https://www.primith.com", "https://portal.primith.com"}
	} else {
		cfg.AllowOrigins = []string{"http://localhost:5173", "http://portal.localhost:5173"}
	}

	return cors.New(cfg)
}
