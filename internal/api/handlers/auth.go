package handlers

import (
	"net/http"

	"github.com/MForbesPrim/primith-portal/internal/services"
	"github.com/MForbesPrim/primith-portal/internal/utils"
	"github.com/gin-gonic/gin"
)

type AuthHandler struct {
	authService *services.AuthService
}

func NewAuthHandler(authService *services.AuthService) *AuthHandler {
	return &AuthHandler{authService: authService}
}

func (h *AuthHandler) Register(c *gin.Context) {
	var req services.RegisterRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.SendValidationError(c, "Invalid request data")
		return
	}

	response, err := h.authService.Register(req)
	if err != nil {
		utils.SendError(c, http.StatusBadRequest, "Registration failed", err)
		return
	}

	utils.SendSuccess(c, "Registered successfully", response)
}

func (h *AuthHandler) Login(c *gin.Context) {
	var req services.LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.SendValidationError(c, "Invalid request data")
		return
	}

	response, err := h.authService.Login(req)
	if err != nil {
		utils.SendError(c, http.StatusUnauthorized, "Login failed", err)
		return
	}

	utils.SendSuccess(c, "Logged in successfully", response)
}

// Refresh exchanges a refresh token for a rotated pair. The token is read
// from the JSON body or the X-Refresh-Token header, whichever is present.
func (h *AuthHandler) Refresh(c *gin.Context) {
	var req services.RefreshRequest
	_ = c.ShouldBindJSON(&req)
	if req.RefreshToken == "" {
		req.RefreshToken = c.GetHeader("X-Refresh-Token")
	}
	if req.RefreshToken == "" {
		utils.SendValidationError(c, "No refresh token provided")
		return
	}

	response, err := h.authService.RefreshToken(req.RefreshToken)
	if err != nil {
		utils.SendError(c, http.StatusUnauthorized, "Token refresh failed", err)
		return
	}

	c.JSON(http.StatusOK, utils.APIResponse{
		Success: true,
		Message: "Tokens refreshed successfully",
		Data:    response.Tokens,
	})
}

func (h *AuthHandler) Logout(c *gin.Context) {
	var req services.RefreshRequest
	_ = c.ShouldBindJSON(&req)
	if req.RefreshToken == "" {
		req.RefreshToken = c.GetHeader("X-Refresh-Token")
	}

	if req.RefreshToken != "" {
		if err := h.authService.Logout(req.RefreshToken); err != nil {
			utils.SendInternalError(c, "Logout failed", err)
			return
		}
	}

	utils.SendSuccess(c, "Logged out successfully", nil)
}

// Protected is the session verification ping gated by the auth middleware.
func (h *AuthHandler) Protected(c *gin.Context) {
	utils.SendSuccess(c, "Session is valid", gin.H{
		"email": c.GetString("user_email"),
	})
}

func (h *AuthHandler) Me(c *gin.Context) {
	userID := c.GetUint("user_id")

	user, err := h.authService.GetUserByID(userID)
	if err != nil {
		utils.SendNotFound(c, "User not found")
		return
	}

	utils.SendSuccess(c, "Profile retrieved successfully", user)
}

func (h *AuthHandler) UpdateProfile(c *gin.Context) {
	userID := c.GetUint("user_id")

	var req services.UpdateProfileRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.SendValidationError(c, "Invalid request data")
		return
	}

	user, err := h.authService.UpdateProfile(userID, req)
	if err != nil {
		utils.SendError(c, http.StatusBadRequest, "Failed to update profile", err)
		return
	}

	utils.SendSuccess(c, "Profile updated successfully", user)
}

func (h *AuthHandler) AcceptInvitation(c *gin.Context) {
	var req services.AcceptInvitationRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.SendValidationError(c, "Invalid request data")
		return
	}

	response, err := h.authService.AcceptInvitation(req)
	if err != nil {
		utils.SendError(c, http.StatusBadRequest, "Failed to accept invitation", err)
		return
	}

	utils.SendSuccess(c, "Invitation accepted", response)
}
