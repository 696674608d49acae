package handlers

import (
	"net/http"

	"github.com/MForbesPrim/primith-portal/internal/services"
	"github.com/MForbesPrim/primith-portal/internal/utils"
	"github.com/gin-gonic/gin"
)

type AdminHandler struct {
	adminService *services.AdminService
}

func NewAdminHandler(adminService *services.AdminService) *AdminHandler {
	return &AdminHandler{adminService: adminService}
}

// Check reports whether the current user may enter the admin area.
func (h *AdminHandler) Check(c *gin.Context) {
	userID := c.GetUint("user_id")

	isAdmin, err := h.adminService.IsSuperAdmin(userID)
	if err != nil {
		utils.SendInternalError(c, "Failed to check admin access", err)
		return
	}

	utils.SendSuccess(c, "Admin access checked", gin.H{"isAdmin": isAdmin})
}

// Users

func (h *AdminHandler) ListUsers(c *gin.Context) {
	page := 1
	limit := 25
	if p := queryUint(c, "page"); p != nil {
		page = int(*p)
	}
	if l := queryUint(c, "limit"); l != nil {
		limit = int(*l)
	}

	users, total, err := h.adminService.ListUsers(page, limit)
	if err != nil {
		utils.SendInternalError(c, "Failed to list users", err)
		return
	}

	utils.SendSuccess(c, "Users retrieved successfully", gin.H{
		"users": users,
		"total": total,
	})
}

func (h *AdminHandler) CreateUser(c *gin.Context) {
	var req services.CreateUserRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.SendValidationError(c, "Invalid request data")
		return
	}

	user, err := h.adminService.CreateUser(req)
	if err != nil {
		utils.SendError(c, http.StatusBadRequest, "Failed to create user", err)
		return
	}

	utils.SendSuccess(c, "User created successfully", user)
}

func (h *AdminHandler) GetUser(c *gin.Context) {
	id, ok := paramID(c, "id")
	if !ok {
		return
	}

	user, err := h.adminService.GetUser(id)
	if err != nil {
		utils.SendNotFound(c, "User not found")
		return
	}

	utils.SendSuccess(c, "User retrieved successfully", user)
}

func (h *AdminHandler) UpdateUser(c *gin.Context) {
	id, ok := paramID(c, "id")
	if !ok {
		return
	}

	var req services.UpdateUserRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.SendValidationError(c, "Invalid request data")
		return
	}

	user, err := h.adminService.UpdateUser(id, req)
	if err != nil {
		utils.SendError(c, http.StatusBadRequest, "Failed to update user", err)
		return
	}

	utils.SendSuccess(c, "User updated successfully", user)
}

func (h *AdminHandler) DeleteUser(c *gin.Context) {
	id, ok := paramID(c, "id")
	if !ok {
		return
	}

	if err := h.adminService.DeleteUser(id); err != nil {
		utils.SendError(c, http.StatusBadRequest, "Failed to delete user", err)
		return
	}

	utils.SendSuccess(c, "User deleted successfully", nil)
}

// Organizations

func (h *AdminHandler) ListOrganizations(c *gin.Context) {
	orgs, err := h.adminService.ListOrganizations()
	if err != nil {
		utils.SendInternalError(c, "Failed to list organizations", err)
		return
	}

	utils.SendSuccess(c, "Organizations retrieved successfully", gin.H{"organizations": orgs})
}

func (h *AdminHandler) CreateOrganization(c *gin.Context) {
	var req services.OrganizationRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.SendValidationError(c, "Invalid request data")
		return
	}

	org, err := h.adminService.CreateOrganization(req)
	if err != nil {
		utils.SendError(c, http.StatusBadRequest, "Failed to create organization", err)
		return
	}

	utils.SendSuccess(c, "Organization created successfully", org)
}

func (h *AdminHandler) GetOrganization(c *gin.Context) {
	id, ok := paramID(c, "id")
	if !ok {
		return
	}

	org, err := h.adminService.GetOrganization(id)
	if err != nil {
		utils.SendNotFound(c, "Organization not found")
		return
	}

	utils.SendSuccess(c, "Organization retrieved successfully", org)
}

func (h *AdminHandler) UpdateOrganization(c *gin.Context) {
	id, ok := paramID(c, "id")
	if !ok {
		return
	}

	var req services.OrganizationRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.SendValidationError(c, "Invalid request data")
		return
	}

	org, err := h.adminService.UpdateOrganization(id, req)
	if err != nil {
		utils.SendError(c, http.StatusBadRequest, "Failed to update organization", err)
		return
	}

	utils.SendSuccess(c, "Organization updated successfully", org)
}

func (h *AdminHandler) DeleteOrganization(c *gin.Context) {
	id, ok := paramID(c, "id")
	if !ok {
		return
	}

	if err := h.adminService.DeleteOrganization(id); err != nil {
		utils.SendError(c, http.StatusBadRequest, "Failed to delete organization", err)
		return
	}

	utils.SendSuccess(c, "Organization deleted successfully", nil)
}

// Roles

func (h *AdminHandler) ListRoles(c *gin.Context) {
	roles, err := h.adminService.ListRoles()
	if err != nil {
		utils.SendInternalError(c, "Failed to list roles", err)
		return
	}

	utils.SendSuccess(c, "Roles retrieved successfully", gin.H{"roles": roles})
}

func (h *AdminHandler) CreateRole(c *gin.Context) {
	var req services.RoleRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.SendValidationError(c, "Invalid request data")
		return
	}

	role, err := h.adminService.CreateRole(req)
	if err != nil {
		utils.SendError(c, http.StatusBadRequest, "Failed to create role", err)
		return
	}

	utils.SendSuccess(c, "Role created successfully", role)
}

func (h *AdminHandler) GetRole(c *gin.Context) {
	id, ok := paramID(c, "id")
	if !ok {
		return
	}

	role, err := h.adminService.GetRole(id)
	if err != nil {
		utils.SendNotFound(c, "Role not found")
		return
	}

	utils.SendSuccess(c, "Role retrieved successfully", role)
}

func (h *AdminHandler) UpdateRole(c *gin.Context) {
	id, ok := paramID(c, "id")
	if !ok {
		return
	}

	var req services.RoleRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.SendValidationError(c, "Invalid request data")
		return
	}

	role, err := h.adminService.UpdateRole(id, req)
	if err != nil {
		utils.SendError(c, http.StatusBadRequest, "Failed to update role", err)
		return
	}

	utils.SendSuccess(c, "Role updated successfully", role)
}

func (h *AdminHandler) DeleteRole(c *gin.Context) {
	id, ok := paramID(c, "id")
	if !ok {
		return
	}

	if err := h.adminService.DeleteRole(id); err != nil {
		utils.SendError(c, http.StatusBadRequest, "Failed to delete role", err)
		return
	}

	utils.SendSuccess(c, "Role deleted successfully", nil)
}

// Services (licenses)

func (h *AdminHandler) ListServices(c *gin.Context) {
	list, err := h.adminService.ListServices()
	if err != nil {
		utils.SendInternalError(c, "Failed to list services", err)
		return
	}

	utils.SendSuccess(c, "Services retrieved successfully", gin.H{"services": list})
}

func (h *AdminHandler) CreateService(c *gin.Context) {
	var req services.ServiceRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.SendValidationError(c, "Invalid request data")
		return
	}

	service, err := h.adminService.CreateService(req)
	if err != nil {
		utils.SendError(c, http.StatusBadRequest, "Failed to create service", err)
		return
	}

	utils.SendSuccess(c, "Service created successfully", service)
}

func (h *AdminHandler) GetService(c *gin.Context) {
	id, ok := paramID(c, "id")
	if !ok {
		return
	}

	service, err := h.adminService.GetService(id)
	if err != nil {
		utils.SendNotFound(c, "Service not found")
		return
	}

	utils.SendSuccess(c, "Service retrieved successfully", service)
}

func (h *AdminHandler) UpdateService(c *gin.Context) {
	id, ok := paramID(c, "id")
	if !ok {
		return
	}

	var req services.ServiceRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.SendValidationError(c, "Invalid request data")
		return
	}

	service, err := h.adminService.UpdateService(id, req)
	if err != nil {
		utils.SendError(c, http.StatusBadRequest, "Failed to update service", err)
		return
	}

	utils.SendSuccess(c, "Service updated successfully", service)
}

func (h *AdminHandler) DeleteService(c *gin.Context) {
	id, ok := paramID(c, "id")
	if !ok {
		return
	}

	if err := h.adminService.DeleteService(id); err != nil {
		utils.SendError(c, http.StatusBadRequest, "Failed to delete service", err)
		return
	}

	utils.SendSuccess(c, "Service deleted successfully", nil)
}

func (h *AdminHandler) AssignServiceToOrganization(c *gin.Context) {
	serviceID, ok := paramID(c, "serviceId")
	if !ok {
		return
	}

	var req struct {
		OrganizationID uint `json:"organizationId" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.SendValidationError(c, "Invalid request data")
		return
	}

	if err := h.adminService.AssignServiceToOrganization(serviceID, req.OrganizationID); err != nil {
		utils.SendError(c, http.StatusBadRequest, "Failed to assign service", err)
		return
	}

	utils.SendSuccess(c, "Service assigned to organization", nil)
}

func (h *AdminHandler) RemoveServiceFromOrganization(c *gin.Context) {
	serviceID, ok := paramID(c, "serviceId")
	if !ok {
		return
	}
	orgID, ok := paramID(c, "orgId")
	if !ok {
		return
	}

	if err := h.adminService.RemoveServiceFromOrganization(serviceID, orgID); err != nil {
		utils.SendError(c, http.StatusBadRequest, "Failed to remove service", err)
		return
	}

	utils.SendSuccess(c, "Service removed from organization", nil)
}

func (h *AdminHandler) InviteUser(c *gin.Context) {
	userID := c.GetUint("user_id")

	var req struct {
		Email          string `json:"email" binding:"required"`
		OrganizationID uint   `json:"organizationId" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.SendValidationError(c, "Invalid request data")
		return
	}

	if err := h.adminService.InviteUser(userID, req.Email, req.OrganizationID); err != nil {
		utils.SendError(c, http.StatusBadRequest, "Failed to send invitation", err)
		return
	}

	utils.SendSuccess(c, "Invitation sent", nil)
}
