package handlers

import (
	"net/http"

	"github.com/MForbesPrim/primith-portal/internal/services"
	"github.com/MForbesPrim/primith-portal/internal/utils"
	"github.com/MForbesPrim/primith-portal/pkg/logger"
	"github.com/gin-gonic/gin"
)

// ContactHandler serves the public marketing-site contact form.
type ContactHandler struct {
	emailService   *services.EmailService
	captchaService *services.CaptchaService
}

func NewContactHandler(emailService *services.EmailService, captchaService *services.CaptchaService) *ContactHandler {
	return &ContactHandler{
		emailService:   emailService,
		captchaService: captchaService,
	}
}

func (h *ContactHandler) Submit(c *gin.Context) {
	var req services.ContactRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.SendValidationError(c, "Invalid request format")
		return
	}

	ok, err := h.captchaService.Verify(req.CaptchaToken)
	if err != nil {
		logger.Error("captcha verification error: ", err)
		utils.SendInternalError(c, "Failed to verify captcha", nil)
		return
	}
	if !ok {
		utils.SendError(c, http.StatusBadRequest, "Captcha verification failed", nil)
		return
	}

	if err := h.emailService.SendContactEmail(req); err != nil {
		logger.Error("contact email sending error: ", err)
		utils.SendInternalError(c, "Failed to send message", nil)
		return
	}

	utils.SendSuccess(c, "Message sent successfully", nil)
}
