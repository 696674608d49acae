package handlers

import (
	"fmt"
	"io"
	"net/http"

	"github.com/MForbesPrim/primith-portal/internal/services"
	"github.com/MForbesPrim/primith-portal/internal/utils"
	"github.com/gin-gonic/gin"
)

type DocumentHandler struct {
	documentService *services.DocumentService
	rdmService      *services.RDMService
}

func NewDocumentHandler(documentService *services.DocumentService, rdmService *services.RDMService) *DocumentHandler {
	return &DocumentHandler{
		documentService: documentService,
		rdmService:      rdmService,
	}
}

func (h *DocumentHandler) Upload(c *gin.Context) {
	orgID, ok := requireRDMOrg(c, h.rdmService)
	if !ok {
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

	doc, err := h.documentService.Upload(
		c.GetUint("user_id"), orgID,
		queryUint(c, "folderId"), queryUint(c, "projectId"),
		file, fileHeader,
	)
	if err != nil {
		utils.SendError(c, http.StatusBadRequest, "Failed to upload document", err)
		return
	}

	utils.SendSuccess(c, "Document uploaded successfully", doc)
}

func (h *DocumentHandler) List(c *gin.Context) {
	orgID, ok := requireRDMOrg(c, h.rdmService)
	if !ok {
		return
	}

	docs, err := h.documentService.List(orgID, queryUint(c, "folderId"))
	if err != nil {
		utils.SendInternalError(c, "Failed to list documents", err)
		return
	}

	utils.SendSuccess(c, "Documents retrieved successfully", gin.H{"documents": docs})
}

func (h *DocumentHandler) Download(c *gin.Context) {
	orgID, ok := requireRDMOrg(c, h.rdmService)
	if !ok {
		return
	}
	id, ok := paramID(c, "id")
	if !ok {
		return
	}

	body, doc, err := h.documentService.Download(orgID, id)
	if err != nil {
		utils.SendNotFound(c, "Document not found")
		return
	}
	defer body.Close()

	c.Header("Content-Disposition", fmt.Sprintf("attachment; filename=%q", doc.Name))
	c.Header("Content-Type", doc.ContentType)
	if _, err := io.Copy(c.Writer, body); err != nil {
		// Headers are already out; nothing more to report to the client.
		return
	}
}

// Update replaces the document's content with a new version.
func (h *DocumentHandler) Update(c *gin.Context) {
	orgID, ok := requireRDMOrg(c, h.rdmService)
	if !ok {
		return
	}
	id, ok := paramID(c, "id")
	if !ok {
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

	doc, err := h.documentService.Update(orgID, id, file, fileHeader)
	if err != nil {
		utils.SendError(c, http.StatusBadRequest, "Failed to update document", err)
		return
	}

	utils.SendSuccess(c, "Document updated successfully", doc)
}

func (h *DocumentHandler) Rename(c *gin.Context) {
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

	doc, err := h.documentService.Rename(orgID, id, req.Name)
	if err != nil {
		utils.SendError(c, http.StatusBadRequest, "Failed to rename document", err)
		return
	}

	utils.SendSuccess(c, "Document renamed successfully", doc)
}

func (h *DocumentHandler) Trash(c *gin.Context) {
	orgID, ok := requireRDMOrg(c, h.rdmService)
	if !ok {
		return
	}
	id, ok := paramID(c, "id")
	if !ok {
		return
	}

	if err := h.documentService.Trash(orgID, id); err != nil {
		utils.SendError(c, http.StatusBadRequest, "Failed to trash document", err)
		return
	}

	utils.SendSuccess(c, "Document moved to trash", nil)
}

func (h *DocumentHandler) Restore(c *gin.Context) {
	orgID, ok := requireRDMOrg(c, h.rdmService)
	if !ok {
		return
	}
	id, ok := paramID(c, "id")
	if !ok {
		return
	}

	if err := h.documentService.Restore(orgID, id); err != nil {
		utils.SendError(c, http.StatusBadRequest, "Failed to restore document", err)
		return
	}

	utils.SendSuccess(c, "Document restored", nil)
}

func (h *DocumentHandler) Delete(c *gin.Context) {
	orgID, ok := requireRDMOrg(c, h.rdmService)
	if !ok {
		return
	}
	id, ok := paramID(c, "id")
	if !ok {
		return
	}

	if err := h.documentService.Delete(orgID, id); err != nil {
		utils.SendError(c, http.StatusBadRequest, "Failed to delete document", err)
		return
	}

	utils.SendSuccess(c, "Document deleted permanently", nil)
}

func (h *DocumentHandler) ListTrash(c *gin.Context) {
	orgID, ok := requireRDMOrg(c, h.rdmService)
	if !ok {
		return
	}

	items, err := h.documentService.ListTrash(orgID)
	if err != nil {
		utils.SendInternalError(c, "Failed to list trash", err)
		return
	}

	utils.SendSuccess(c, "Trash retrieved successfully", items)
}
