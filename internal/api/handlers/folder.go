package handlers

import (
	"net/http"

	"github.com/MForbesPrim/primith-portal/internal/services"
	"github.com/MForbesPrim/primith-portal/internal/utils"
	"github.com/gin-gonic/gin"
)

type FolderHandler struct {
	folderService *services.FolderService
	rdmService    *services.RDMService
	storage       *services.StorageService
}

func NewFolderHandler(folderService *services.FolderService, rdmService *services.RDMService, storage *services.StorageService) *FolderHandler {
	return &FolderHandler{
		folderService: folderService,
		rdmService:    rdmService,
		storage:       storage,
	}
}

func (h *FolderHandler) Create(c *gin.Context) {
	orgID, ok := requireRDMOrg(c, h.rdmService)
	if !ok {
		return
	}

	var req services.CreateFolderRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.SendValidationError(c, "Invalid request data")
		return
	}

	folder, err := h.folderService.Create(orgID, req)
	if err != nil {
		utils.SendError(c, http.StatusBadRequest, "Failed to create folder", err)
		return
	}

	utils.SendSuccess(c, "Folder created successfully", folder)
}

func (h *FolderHandler) List(c *gin.Context) {
	orgID, ok := requireRDMOrg(c, h.rdmService)
	if !ok {
		return
	}

	folders, err := h.folderService.List(orgID, queryUint(c, "projectId"))
	if err != nil {
		utils.SendInternalError(c, "Failed to list folders", err)
		return
	}

	utils.SendSuccess(c, "Folders retrieved successfully", gin.H{"folders": folders})
}

func (h *FolderHandler) Rename(c *gin.Context) {
	orgID, ok := requireRDMOrg(c, h.rdmService)
	if !ok {
		return
	}
	id, ok := paramID(c, "id")
	if !ok {
		return
	}

	var req struct {
		Name string `json:"name" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.SendValidationError(c, "Invalid request data")
		return
	}

	folder, err := h.folderService.Rename(orgID, id, req.Name)
	if err != nil {
		utils.SendError(c, http.StatusBadRequest, "Failed to rename folder", err)
		return
	}

	utils.SendSuccess(c, "Folder renamed successfully", folder)
}

func (h *FolderHandler) Move(c *gin.Context) {
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

	folder, err := h.folderService.Move(orgID, id, req.ParentID)
	if err != nil {
		utils.SendError(c, http.StatusBadRequest, "Failed to move folder", err)
		return
	}

	utils.SendSuccess(c, "Folder moved successfully", folder)
}

func (h *FolderHandler) Trash(c *gin.Context) {
	orgID, ok := requireRDMOrg(c, h.rdmService)
	if !ok {
		return
	}
	id, ok := paramID(c, "id")
	if !ok {
		return
	}

	if err := h.folderService.Trash(orgID, id); err != nil {
		utils.SendError(c, http.StatusBadRequest, "Failed to trash folder", err)
		return
	}

	utils.SendSuccess(c, "Folder moved to trash", nil)
}

func (h *FolderHandler) Restore(c *gin.Context) {
	orgID, ok := requireRDMOrg(c, h.rdmService)
	if !ok {
		return
	}
	id, ok := paramID(c, "id")
	if !ok {
		return
	}

	if err := h.folderService.Restore(orgID, id); err != nil {
		utils.SendError(c, http.StatusBadRequest, "Failed to restore folder", err)
		return
	}

	utils.SendSuccess(c, "Folder restored", nil)
}

// Delete permanently removes a trashed folder subtree and its blobs.
func (h *FolderHandler) Delete(c *gin.Context) {
	orgID, ok := requireRDMOrg(c, h.rdmService)
	if !ok {
		return
	}
	id, ok := paramID(c, "id")
	if !ok {
		return
	}

	keys, err := h.folderService.Delete(orgID, id)
	if err != nil {
		utils.SendError(c, http.StatusBadRequest, "Failed to delete folder", err)
		return
	}

	if err := h.storage.DeleteMany(keys); err != nil {
		// DB rows are gone; orphaned blobs are reaped by a lifecycle rule.
		utils.SendSuccess(c, "Folder deleted; some blobs could not be removed", nil)
		return
	}

	utils.SendSuccess(c, "Folder deleted permanently", nil)
}
