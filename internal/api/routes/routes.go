package routes

import (
	"github.com/MForbesPrim/primith-portal/internal/api/handlers"
	"github.com/MForbesPrim/primith-portal/internal/api/middleware"
	"github.com/MForbesPrim/primith-portal/internal/config"
	"github.com/MForbesPrim/primith-portal/internal/services"
	"github.com/MForbesPrim/primith-portal/pkg/logger"
	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

func SetupRoutes(router *gin.Engine, db *gorm.DB, cfg *config.Config) {
	// Middleware
	router.Use(gin.Logger())
	router.Use(gin.Recovery())
	router.Use(middleware.CORSMiddleware(cfg.IsProduction()))
	router.Use(middleware.RateLimitMiddleware(cfg))

	// Initialize services
	emailService := services.NewEmailService(cfg)
	captchaService := services.NewCaptchaService(cfg.RecaptchaSecretKey)
	storageService := services.NewStorageService(cfg.S3Region, cfg.S3Bucket, cfg.S3AccessKey, cfg.S3SecretKey)
	ocrService := services.NewOCRService(cfg)
	authService := services.NewAuthService(db, cfg.JWTSecret, emailService)
	adminService := services.NewAdminService(db, emailService)
	rdmService := services.NewRDMService(db)
	folderService := services.NewFolderService(db)
	documentService := services.NewDocumentService(db, storageService, ocrService)
	pageService := services.NewPageService(db, storageService)
	notificationService := services.NewNotificationService(db)

	// Initialize handlers
	authHandler := handlers.NewAuthHandler(authService)
	passwordHandler := handlers.NewPasswordHandler(authService)
	contactHandler := handlers.NewContactHandler(emailService, captchaService)
	adminHandler := handlers.NewAdminHandler(adminService)
	rdmHandler := handlers.NewRDMHandler(rdmService)
	folderHandler := handlers.NewFolderHandler(folderService, rdmService, storageService)
	documentHandler := handlers.NewDocumentHandler(documentService, rdmService)
	pageHandler := handlers.NewPageHandler(pageService, rdmService)
	notificationHandler := handlers.NewNotificationHandler(notificationService)

	// Health check
	router.GET("/health", func(c *gin.Context) {
		c.JSON(200, gin.H{"status": "ok", "message": "Server is running"})
	})

	// API routes
	api := router.Group("/api/v1")

	authRequired := middleware.AuthMiddleware(cfg)

	// Public routes
	api.POST("/contact", contactHandler.Submit)

	// Auth routes
	auth := api.Group("/auth")
	{
		auth.POST("/register", authHandler.Register)
		auth.POST("/login", authHandler.Login)
		auth.POST("/logout", authHandler.Logout)
		auth.POST("/refresh", authHandler.Refresh)
		auth.GET("/me", authRequired, authHandler.Me)
		auth.PUT("/me", authRequired, authHandler.UpdateProfile)
		auth.POST("/accept-invite", authHandler.AcceptInvitation)
	}

	// Session verification ping used by the portal route guard.
	api.GET("/protected", authRequired, authHandler.Protected)

	// Password reset routes
	password := api.Group("/password")
	{
		password.POST("/forgot", passwordHandler.ForgotPassword)
		password.GET("/validate-reset-token", passwordHandler.ValidateResetToken)
		password.POST("/reset", passwordHandler.ResetPassword)
		password.POST("/change", authRequired, passwordHandler.ChangePassword)
	}

	// Notifications (polled by the portal)
	notifications := api.Group("/notifications", authRequired)
	{
		notifications.GET("", notificationHandler.List)
		notifications.PUT("/:id/read", notificationHandler.MarkRead)
		notifications.PUT("/read-all", notificationHandler.MarkAllRead)
	}

	// Admin routes
	api.GET("/admin/check", authRequired, adminHandler.Check)

	admin := api.Group("/admin", authRequired, middleware.SuperAdminOnly(db))
	{
		admin.GET("/users", adminHandler.ListUsers)
		admin.POST("/users", adminHandler.CreateUser)
		admin.GET("/users/:id", adminHandler.GetUser)
		admin.PUT("/users/:id", adminHandler.UpdateUser)
		admin.DELETE("/users/:id", adminHandler.DeleteUser)

		admin.GET("/organizations", adminHandler.ListOrganizations)
		admin.POST("/organizations", adminHandler.CreateOrganization)
		admin.GET("/organizations/:id", adminHandler.GetOrganization)
		admin.PUT("/organizations/:id", adminHandler.UpdateOrganization)
		admin.DELETE("/organizations/:id", adminHandler.DeleteOrganization)

		admin.GET("/roles", adminHandler.ListRoles)
		admin.POST("/roles", adminHandler.CreateRole)
		admin.GET("/roles/:id", adminHandler.GetRole)
		admin.PUT("/roles/:id", adminHandler.UpdateRole)
		admin.DELETE("/roles/:id", adminHandler.DeleteRole)

		admin.GET("/services", adminHandler.ListServices)
		admin.POST("/services", adminHandler.CreateService)
		admin.GET("/services/:id", adminHandler.GetService)
		admin.PUT("/services/:id", adminHandler.UpdateService)
		admin.DELETE("/services/:id", adminHandler.DeleteService)
		admin.POST("/services/:serviceId/organizations", adminHandler.AssignServiceToOrganization)
		admin.DELETE("/services/:serviceId/organizations/:orgId", adminHandler.RemoveServiceFromOrganization)

		admin.POST("/invitations", adminHandler.InviteUser)
	}

	// RDM routes
	rdm := api.Group("/rdm", authRequired)
	{
		rdm.GET("/access", rdmHandler.CheckAccess)
		rdm.GET("/organizations", rdmHandler.ListOrganizations)

		rdm.GET("/projects", rdmHandler.ListProjects)
		rdm.POST("/projects", rdmHandler.CreateProject)
		rdm.GET("/projects/:id", rdmHandler.GetProject)
		rdm.PUT("/projects/:id", rdmHandler.UpdateProject)
		rdm.DELETE("/projects/:id", rdmHandler.DeleteProject)

		rdm.GET("/folders", folderHandler.List)
		rdm.POST("/folders", folderHandler.Create)
		rdm.PUT("/folders/:id", folderHandler.Rename)
		rdm.POST("/folders/:id/move", folderHandler.Move)
		rdm.PUT("/folders/:id/trash", folderHandler.Trash)
		rdm.PUT("/folders/:id/restore", folderHandler.Restore)
		rdm.DELETE("/folders/:id", folderHandler.Delete)

		rdm.GET("/documents", documentHandler.List)
		rdm.POST("/documents/upload", documentHandler.Upload)
		rdm.GET("/documents/:id/download", documentHandler.Download)
		rdm.PUT("/documents/:id", documentHandler.Update)
		rdm.PUT("/documents/:id/rename", documentHandler.Rename)
		rdm.PUT("/documents/:id/trash", documentHandler.Trash)
		rdm.PUT("/documents/:id/restore", documentHandler.Restore)
		rdm.DELETE("/documents/:id", documentHandler.Delete)
		rdm.GET("/trash", documentHandler.ListTrash)

		rdm.GET("/pages", pageHandler.List)
		rdm.POST("/pages", pageHandler.Create)
		rdm.GET("/pages/templates", pageHandler.ListTemplates)
		rdm.GET("/pages/images/refresh-tokens", pageHandler.RefreshImageURLs)
		rdm.POST("/pages/images/upload", pageHandler.UploadImage)
		rdm.DELETE("/pages/images/:id", pageHandler.DeleteImage)
		rdm.GET("/pages/:id", pageHandler.Get)
		rdm.PUT("/pages/:id", pageHandler.Update)
		rdm.PUT("/pages/:id/rename", pageHandler.Rename)
		rdm.POST("/pages/:id/move", pageHandler.Move)
		rdm.DELETE("/pages/:id", pageHandler.Delete)
	}

	logger.Info("Routes initialized successfully")
}
