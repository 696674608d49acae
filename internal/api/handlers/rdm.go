package handlers

import (
	"net/http"

	"github.com/MForbesPrim/primith-portal/internal/services"
	"github.com/MForbesPrim/primith-portal/internal/utils"
	"github.com/gin-gonic/gin"
)

// RDMHandler serves RDM access checks, organization listing, and projects.
type RDMHandler struct {
	rdmService *services.RDMService
}

func NewRDMHandler(rdmService *services.RDMService) *RDMHandler {
	return &RDMHandler{rdmService: rdmService}
}

// CheckAccess answers the portal's "may this user enter RDM" probe, scoped to
// one organization when organizationId is supplied.
func (h *RDMHandler) CheckAccess(c *gin.Context) {
	userID := c.GetUint("user_id")

	var orgID uint
	if v := queryUint(c, "organizationId"); v != nil {
		orgID = *v
	}

	hasAccess, err := h.rdmService.HasAccess(userID, orgID)
	if err != nil {
		utils.SendInternalError(c, "Error checking RDM access", err)
		return
	}
	if !hasAccess {
		utils.SendForbidden(c, "RDM access required")
		return
	}

	utils.SendSuccess(c, "RDM access granted", nil)
}

func (h *RDMHandler) ListOrganizations(c *gin.Context) {
	userID := c.GetUint("user_id")

	orgs, err := h.rdmService.UserOrganizations(userID)
	if err != nil {
		utils.SendInternalError(c, "Failed to fetch organizations", err)
		return
	}

	utils.SendSuccess(c, "Organizations retrieved successfully", gin.H{"organizations": orgs})
}

// Projects

func (h *RDMHandler) ListProjects(c *gin.Context) {
	orgID, ok := requireRDMOrg(c, h.rdmService)
	if !ok {
		return
	}

	projects, err := h.rdmService.ListProjects(orgID)
	if err != nil {
		utils.SendInternalError(c, "Failed to list projects", err)
		return
	}

	utils.SendSuccess(c, "Projects retrieved successfully", gin.H{"projects": projects})
}

func (h *RDMHandler) CreateProject(c *gin.Context) {
	orgID, ok := requireRDMOrg(c, h.rdmService)
	if !ok {
		return
	}

	var req services.ProjectRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.SendValidationError(c, "Invalid request data")
		return
	}

	project, err := h.rdmService.CreateProject(c.GetUint("user_id"), orgID, req)
	if err != nil {
		utils.SendError(c, http.StatusBadRequest, "Failed to create project", err)
		return
	}

	utils.SendSuccess(c, "Project created successfully", project)
}

func (h *RDMHandler) GetProject(c *gin.Context) {
	orgID, ok := requireRDMOrg(c, h.rdmService)
	if !ok {
		return
	}
	id, ok := paramID(c, "id")
	if !ok {
		return
	}

	project, err := h.rdmService.GetProject(orgID, id)
	if err != nil {
		utils.SendNotFound(c, "Project not found")
		return
	}

	utils.SendSuccess(c, "Project retrieved successfully", project)
}

func (h *RDMHandler) UpdateProject(c *gin.Context) {
	orgID, ok := requireRDMOrg(c, h.rdmService)
	if !ok {
		return
	}
	id, ok := paramID(c, "id")
	if !ok {
		return
	}

	var req services.ProjectRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.SendValidationError(c, "Invalid request data")
		return
	}

	project, err := h.rdmService.UpdateProject(orgID, id, req)
	if err != nil {
		utils.SendError(c, http.StatusBadRequest, "Failed to update project", err)
		return
	}

	utils.SendSuccess(c, "Project updated successfully", project)
}

func (h *RDMHandler) DeleteProject(c *gin.Context) {
	orgID, ok := requireRDMOrg(c, h.rdmService)
	if !ok {
		return
	}
	id, ok := paramID(c, "id")
	if !ok {
		return
	}

	if err := h.rdmService.DeleteProject(orgID, id); err != nil {
		utils.SendError(c, http.StatusBadRequest, "Failed to delete project", err)
		return
	}

	utils.SendSuccess(c, "Project deleted successfully", nil)
}
