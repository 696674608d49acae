package services

import (
	"errors"
	"time"

	"github.com/MForbesPrim/primith-portal/internal/models"
	"github.com/MForbesPrim/primith-portal/internal/utils"
	"github.com/MForbesPrim/primith-portal/pkg/logger"
	"gorm.io/gorm"
)

// AdminService backs the super-admin CRUD screens: users, organizations,
// roles, and licensed services.
type AdminService struct {
	db           *gorm.DB
	emailService *EmailService
}

func NewAdminService(db *gorm.DB, emailService *EmailService) *AdminService {
	return &AdminService{
		db:           db,
		emailService: emailService,
	}
}

// IsSuperAdmin reports whether the user holds the global super_admin role.
func (s *AdminService) IsSuperAdmin(userID uint) (bool, error) {
	var count int64
	err := s.db.Model(&models.Role{}).
		Joins("JOIN user_roles ON user_roles.role_id = roles.id").
		Where("user_roles.user_id = ? AND roles.name = ?", userID, models.SuperAdminRole).
		Count(&count).Error
	return count > 0, err
}

// Users

type CreateUserRequest struct {
	Email     string `json:"email" binding:"required"`
	Password  string `json:"password" binding:"required"`
	FirstName string `json:"firstName"`
	LastName  string `json:"lastName"`
}

type UpdateUserRequest struct {
	FirstName string `json:"firstName"`
	LastName  string `json:"lastName"`
	IsActive  *bool  `json:"isActive"`
}

func (s *AdminService) ListUsers(page, limit int) ([]models.User, int64, error) {
	if page < 1 {
		page = 1
	}
	if limit < 1 || limit > 100 {
		limit = 25
	}

	var total int64
	if err := s.db.Model(&models.User{}).Count(&total).Error; err != nil {
		return nil, 0, err
	}

	var users []models.User
	err := s.db.Preload("Roles").
		Order("email").
		Offset((page - 1) * limit).
		Limit(limit).
		Find(&users).Error
	return users, total, err
}

func (s *AdminService) CreateUser(req CreateUserRequest) (*models.User, error) {
	if !utils.IsValidEmail(req.Email) {
		return nil, errors.New("invalid email format")
	}
	if !utils.IsValidPassword(req.Password) {
		return nil, errors.New("password must be at least 8 characters")
	}

	var existing models.User
	if err := s.db.Where("email = ?", req.Email).First(&existing).Error; err == nil {
		return nil, errors.New("user already exists")
	}

	user := models.User{
		Email:     utils.SanitizeString(req.Email),
		Password:  req.Password, // hashed in BeforeCreate
		FirstName: utils.SanitizeString(req.FirstName),
		LastName:  utils.SanitizeString(req.LastName),
		IsActive:  true,
	}
	if err := s.db.Create(&user).Error; err != nil {
		return nil, errors.New("failed to create user")
	}
	return &user, nil
}

func (s *AdminService) GetUser(id uint) (*models.User, error) {
	var user models.User
	if err := s.db.Preload("Roles").First(&user, id).Error; err != nil {
		return nil, errors.New("user not found")
	}
	return &user, nil
}

func (s *AdminService) UpdateUser(id uint, req UpdateUserRequest) (*models.User, error) {
	var user models.User
	if err := s.db.First(&user, id).Error; err != nil {
		return nil, errors.New("user not found")
	}

	user.FirstName = utils.SanitizeString(req.FirstName)
	user.LastName = utils.SanitizeString(req.LastName)
	if req.IsActive != nil {
		user.IsActive = *req.IsActive
	}

	if err := s.db.Save(&user).Error; err != nil {
		return nil, errors.New("failed to update user")
	}
	return &user, nil
}

func (s *AdminService) DeleteUser(id uint) error {
	result := s.db.Delete(&models.User{}, id)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return errors.New("user not found")
	}
	return nil
}

// Organizations

type OrganizationRequest struct {
	Name        string `json:"name" binding:"required"`
	Description string `json:"description"`
}

func (s *AdminService) ListOrganizations() ([]models.Organization, error) {
	var orgs []models.Organization
	err := s.db.Order("name").Find(&orgs).Error
	return orgs, err
}

func (s *AdminService) CreateOrganization(req OrganizationRequest) (*models.Organization, error) {
	org := models.Organization{
		Name:        utils.SanitizeString(req.Name),
		Description: utils.SanitizeString(req.Description),
	}
	if err := s.db.Create(&org).Error; err != nil {
		return nil, errors.New("failed to create organization")
	}
	return &org, nil
}

func (s *AdminService) GetOrganization(id uint) (*models.Organization, error) {
	var org models.Organization
	if err := s.db.First(&org, id).Error; err != nil {
		return nil, errors.New("organization not found")
	}
	return &org, nil
}

func (s *AdminService) UpdateOrganization(id uint, req OrganizationRequest) (*models.Organization, error) {
	var org models.Organization
	if err := s.db.First(&org, id).Error; err != nil {
		return nil, errors.New("organization not found")
	}

	org.Name = utils.SanitizeString(req.Name)
	org.Description = utils.SanitizeString(req.Description)

	if err := s.db.Save(&org).Error; err != nil {
		return nil, errors.New("failed to update organization")
	}
	return &org, nil
}

func (s *AdminService) DeleteOrganization(id uint) error {
	result := s.db.Delete(&models.Organization{}, id)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return errors.New("organization not found")
	}
	return nil
}

// AddMember joins a user to an organization.
func (s *AdminService) AddMember(orgID, userID uint) error {
	return s.db.Exec(
		"INSERT INTO organization_members (organization_id, user_id) VALUES (?, ?) ON CONFLICT DO NOTHING",
		orgID, userID,
	).Error
}

func (s *AdminService) RemoveMember(orgID, userID uint) error {
	return s.db.Exec(
		"DELETE FROM organization_members WHERE organization_id = ? AND user_id = ?",
		orgID, userID,
	).Error
}

// Roles

type RoleRequest struct {
	OrganizationID *uint  `json:"organizationId"`
	Name           string `json:"name" binding:"required"`
	Description    string `json:"description"`
}

func (s *AdminService) ListRoles() ([]models.Role, error) {
	var roles []models.Role
	err := s.db.Order("name").Find(&roles).Error
	return roles, err
}

func (s *AdminService) CreateRole(req RoleRequest) (*models.Role, error) {
	role := models.Role{
		OrganizationID: req.OrganizationID,
		Name:           utils.SanitizeString(req.Name),
		Description:    utils.SanitizeString(req.Description),
	}
	if err := s.db.Create(&role).Error; err != nil {
		return nil, errors.New("failed to create role")
	}
	return &role, nil
}

func (s *AdminService) GetRole(id uint) (*models.Role, error) {
	var role models.Role
	if err := s.db.First(&role, id).Error; err != nil {
		return nil, errors.New("role not found")
	}
	return &role, nil
}

func (s *AdminService) UpdateRole(id uint, req RoleRequest) (*models.Role, error) {
	var role models.Role
	if err := s.db.First(&role, id).Error; err != nil {
		return nil, errors.New("role not found")
	}

	role.OrganizationID = req.OrganizationID
	role.Name = utils.SanitizeString(req.Name)
	role.Description = utils.SanitizeString(req.Description)

	if err := s.db.Save(&role).Error; err != nil {
		return nil, errors.New("failed to update role")
	}
	return &role, nil
}

func (s *AdminService) DeleteRole(id uint) error {
	var role models.Role
	if err := s.db.First(&role, id).Error; err != nil {
		return errors.New("role not found")
	}
	if role.Name == models.SuperAdminRole {
		return errors.New("cannot delete the super_admin role")
	}
	return s.db.Delete(&role).Error
}

func (s *AdminService) AssignRole(userID, roleID uint) error {
	return s.db.Exec(
		"INSERT INTO user_roles (user_id, role_id) VALUES (?, ?) ON CONFLICT DO NOTHING",
		userID, roleID,
	).Error
}

func (s *AdminService) UnassignRole(userID, roleID uint) error {
	return s.db.Exec(
		"DELETE FROM user_roles WHERE user_id = ? AND role_id = ?",
		userID, roleID,
	).Error
}

// Services (licensable modules)

type ServiceRequest struct {
	Name        string `json:"name" binding:"required"`
	Description string `json:"description"`
	Status      string `json:"status"`
}

func (s *AdminService) ListServices() ([]models.Service, error) {
	var services []models.Service
	err := s.db.Order("name").Find(&services).Error
	return services, err
}

func (s *AdminService) CreateService(req ServiceRequest) (*models.Service, error) {
	status := req.Status
	if status == "" {
		status = "active"
	}
	service := models.Service{
		Name:        utils.SanitizeString(req.Name),
		Description: utils.SanitizeString(req.Description),
		Status:      status,
	}
	if err := s.db.Create(&service).Error; err != nil {
		return nil, errors.New("failed to create service")
	}
	return &service, nil
}

func (s *AdminService) GetService(id uint) (*models.Service, error) {
	var service models.Service
	if err := s.db.First(&service, id).Error; err != nil {
		return nil, errors.New("service not found")
	}
	return &service, nil
}

func (s *AdminService) UpdateService(id uint, req ServiceRequest) (*models.Service, error) {
	var service models.Service
	if err := s.db.First(&service, id).Error; err != nil {
		return nil, errors.New("service not found")
	}

	service.Name = utils.SanitizeString(req.Name)
	service.Description = utils.SanitizeString(req.Description)
	if req.Status != "" {
		service.Status = req.Status
	}

	if err := s.db.Save(&service).Error; err != nil {
		return nil, errors.New("failed to update service")
	}
	return &service, nil
}

func (s *AdminService) DeleteService(id uint) error {
	result := s.db.Delete(&models.Service{}, id)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return errors.New("service not found")
	}
	return nil
}

// AssignServiceToOrganization grants (or reactivates) an organization's
// license for a service.
func (s *AdminService) AssignServiceToOrganization(serviceID, orgID uint) error {
	var service models.Service
	if err := s.db.First(&service, serviceID).Error; err != nil {
		return errors.New("service not found")
	}
	var org models.Organization
	if err := s.db.First(&org, orgID).Error; err != nil {
		return errors.New("organization not found")
	}

	link := models.OrganizationService{
		OrganizationID: orgID,
		ServiceID:      serviceID,
		Status:         "active",
	}
	return s.db.Exec(
		"INSERT INTO organization_services (organization_id, service_id, status, created_at) VALUES (?, ?, ?, ?) ON CONFLICT (organization_id, service_id) DO UPDATE SET status = 'active'",
		link.OrganizationID, link.ServiceID, link.Status, time.Now(),
	).Error
}

func (s *AdminService) RemoveServiceFromOrganization(serviceID, orgID uint) error {
	return s.db.
		Where("organization_id = ? AND service_id = ?", orgID, serviceID).
		Delete(&models.OrganizationService{}).Error
}

// InviteUser creates a single-use invitation and emails the join link.
func (s *AdminService) InviteUser(invitedBy uint, email string, orgID uint) error {
	if !utils.IsValidEmail(email) {
		return errors.New("invalid email format")
	}

	var org models.Organization
	if err := s.db.First(&org, orgID).Error; err != nil {
		return errors.New("organization not found")
	}

	token, err := utils.GenerateSecureToken()
	if err != nil {
		return errors.New("failed to generate invitation token")
	}

	invite := models.InvitationToken{
		Email:          utils.SanitizeString(email),
		OrganizationID: orgID,
		InvitedBy:      invitedBy,
		Token:          token,
		ExpiresAt:      time.Now().Add(7 * 24 * time.Hour),
	}
	if err := s.db.Create(&invite).Error; err != nil {
		return errors.New("failed to create invitation")
	}

	if s.emailService != nil {
		if err := s.emailService.SendInvitationEmail(invite.Email, org.Name, token); err != nil {
			logger.Error("failed to send invitation email: ", err)
		}
	}

	return nil
}
