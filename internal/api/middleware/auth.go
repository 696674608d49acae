package middleware

import (
	"strings"

	"github.com/MForbesPrim/primith-portal/internal/config"
	"github.com/MForbesPrim/primith-portal/internal/models"
	"github.com/MForbesPrim/primith-portal/internal/utils"
	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

func AuthMiddleware(cfg *config.Config) gin.HandlerFunc {
	return func(c *gin.Context) {
		authHeader := c.GetHeader("Authorization")
		if authHeader == "" {
			utils.SendUnauthorized(c, "Authorization header required")
			c.Abort()
			return
		}

		tokenString := strings.TrimPrefix(authHeader, "Bearer ")
		if tokenString == authHeader {
			utils.SendUnauthorized(c, "Bearer token required")
			c.Abort()
			return
		}

		claims, err := utils.ValidateToken(tokenString, cfg.JWTSecret)
		if err != nil {
			utils.SendUnauthorized(c, "Invalid token")
			c.Abort()
			return
		}

		// Refresh tokens are only good for the exchange endpoint.
		if claims.Type != string(utils.AccessToken) {
			utils.SendUnauthorized(c, "Invalid token type")
			c.Abort()
			return
		}

		c.Set("user_id", claims.UserID)
		c.Set("user_email", claims.Email)
		c.Next()
	}
}

// SuperAdminOnly gates the admin surface on the global super_admin role.
func SuperAdminOnly(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		userID := c.GetUint("user_id")

		var count int64
		err := db.Model(&models.Role{}).
			Joins("JOIN user_roles ON user_roles.role_id = roles.id").
			Where("user_roles.user_id = ? AND roles.name = ?", userID, models.SuperAdminRole).
			Count(&count).Error
		if err != nil || count == 0 {
			utils.SendForbidden(c, "Admin access required")
			c.Abort()
			return
		}

		c.Next()
	}
}
