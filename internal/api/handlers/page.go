package handlers

import (
	"net/http"

	"github.com/MForbesPrim/primith-portal/internal/services"
	"github.com/MForbesPrim/primith-portal/internal/utils"
	"github.com/gin-gonic/gin"
)

type PageHandler struct {
	pageService *services.PageService
	rdmService  *services.RDMService
}

func NewPageHandler(pageService *services.PageService, rdmService *services.RDMService) *PageHandler {
	return &PageHandler{
		pageService: pageService,
		rdmService:  rdmService,
	}
}

func (h *PageHandler) List(c *gin.Context) {
	orgID, ok := requireRDMOrg(c, h.rdmService)
	if !ok {
		return
	}

	pages, err := h.pageService.List(orgID, queryUint(c, "projectId"))
	if err != nil {
		utils.SendInternalError(c, "Failed to list pages", err)
		return
	}

	utils.SendSuccess(c, "Pages retrieved successfully", gin.H{"pages": pages})
}

func (h *PageHandler) Create(c *gin.Context) {
	orgID, ok := requireRDMOrg(c, h.rdmService)
	if !ok {
		return
	}

	var req services.PageRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.SendValidationError(c, "Invalid request data")
		return
	}

	page, err := h.pageService.Create(c.GetUint("user_id"), orgID, req)
	if err != nil {
		utils.SendError(c, http.StatusBadRequest, "Failed to create page", err)
		return
	}

	utils.SendSuccess(c, "Page created successfully", page)
}

func (h *PageHandler) Get(c *gin.Context) {
	orgID, ok := requireRDMOrg(c, h.rdmService)
	if !ok {
		return
	}
	id, ok := paramID(c, "id")
	if !ok {
		return
	}

	page, err := h.pageService.Get(orgID, id)
	if err != nil {
		utils.SendNotFound(c, "Page not found")
		return
	}

	utils.SendSuccess(c, "Page retrieved successfully", page)
}

func (h *PageHandler) Update(c *gin.Context) {
	orgID, ok := requireRDMOrg(c, h.rdmService)
	if !ok {
		return
	}
	id, ok := paramID(c, "id")
	if !ok {
		return
	}

	var req services.PageRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.SendValidationError(c, "Invalid request data")
		return
	}

	page, err := h.pageService.Update(orgID, id, req)
	if err != nil {
		utils.SendError(c, http.StatusBadRequest, "Failed to update page", err)
		return
	}

	utils.SendSuccess(c, "Page updated successfully", page)
}

func (h *PageHandler) Rename(c *gin.Context) {
	orgID, ok := requireRDMOrg(c, h.rdmService)
	if !ok {
		return
	}
	id, ok := paramID(c, "id")
	if !ok {
		return
	}

	var req struct {
		Title string `json:"title" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.SendValidationError(c, "Invalid request data")
		return
	}

	page, err := h.pageService.Rename(orgID, id, req.Title)
	if err != nil {
		utils.SendError(c, http.StatusBadRequest, "Failed to rename page", err)
		return
	}

	utils.SendSuccess(c, "Page renamed successfully", page)
}

func (h *PageHandler) Move(c *gin.Context) {
	orgID, ok := requireRDMOrg(c, h.rdmService)
	if !ok {
		return
	}
	id, ok := paramID(c, "id")
	if !ok {
		return
	}

	var req struct {
		ParentID *uint `json:"parentId"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.SendValidationError(c, "Invalid request data")
		return
	}

	page, err := h.pageService.Move(orgID, id, req.ParentID)
	if err != nil {
		utils.SendError(c, http.StatusBadRequest, "Failed to move page", err)
		return
	}

	utils.SendSuccess(c, "Page moved successfully", page)
}

func (h *PageHandler) Delete(c *gin.Context) {
	orgID, ok := requireRDMOrg(c, h.rdmService)
	if !ok {
		return
	}
	id, ok := paramID(c, "id")
	if !ok {
		return
	}

	if err := h.pageService.Delete(orgID, id); err != nil {
		utils.SendError(c, http.StatusBadRequest, "Failed to delete page", err)
		return
	}

	utils.SendSuccess(c, "Page deleted successfully", nil)
}

func (h *PageHandler) ListTemplates(c *gin.Context) {
	orgID, ok := requireRDMOrg(c, h.rdmService)
	if !ok {
		return
	}

	templates, err := h.pageService.ListTemplates(orgID)
	if err != nil {
		utils.SendInternalError(c, "Failed to list templates", err)
		return
	}

	utils.SendSuccess(c, "Templates retrieved successfully", gin.H{"templates": templates})
}

func (h *PageHandler) UploadImage(c *gin.Context) {
	orgID, ok := requireRDMOrg(c, h.rdmService)
	if !ok {
		return
	}

	pageID := queryUint(c, "pageId")
	if pageID == nil {
		utils.SendValidationError(c, "Page ID is required")
		return
	}

	fileHeader, err := c.FormFile("file")
	if err != nil {
		utils.SendValidationError(c, "File is required")
		return
	}

	file, err := fileHeader.Open()
	if err != nil {
		utils.SendInternalError(c, "Failed to open uploaded file", err)
		return
	}
	defer file.Close()

	image, err := h.pageService.UploadImage(orgID, *pageID, file, fileHeader)
	if err != nil {
		utils.SendError(c, http.StatusBadRequest, "Failed to upload image", err)
		return
	}

	utils.SendSuccess(c, "Image uploaded successfully", image)
}

// RefreshImageURLs re-presigns a page's inline image URLs when they expire.
func (h *PageHandler) RefreshImageURLs(c *gin.Context) {
	orgID, ok := requireRDMOrg(c, h.rdmService)
	if !ok {
		return
	}

	pageID := queryUint(c, "pageId")
	if pageID == nil {
		utils.SendValidationError(c, "Page ID is required")
		return
	}

	images, err := h.pageService.RefreshImageURLs(orgID, *pageID)
	if err != nil {
		utils.SendError(c, http.StatusBadRequest, "Failed to refresh image URLs", err)
		return
	}

	utils.SendSuccess(c, "Image URLs refreshed", gin.H{"images": images})
}

func (h *PageHandler) DeleteImage(c *gin.Context) {
	orgID, ok := requireRDMOrg(c, h.rdmService)
	if !ok {
		return
	}
	id, ok := paramID(c, "id")
	if !ok {
		return
	}

	if err := h.pageService.DeleteImage(orgID, id); err != nil {
		utils.SendError(c, http.StatusBadRequest, "Failed to delete image", err)
		return
	}

	utils.SendSuccess(c, "Image deleted successfully", nil)
}
