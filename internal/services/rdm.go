package services

import (
	"errors"

	"github.com/MForbesPrim/primith-portal/internal/models"
	"github.com/MForbesPrim/primith-portal/internal/utils"
	"gorm.io/gorm"
)

// RDMService covers RDM access checks and project CRUD. Folder, document and
// page operations live in their own services but share HasAccess for the
// membership + active-license gate.
type RDMService struct {
	db *gorm.DB
}

func NewRDMService(db *gorm.DB) *RDMService {
	return &RDMService{db: db}
}

// HasAccess reports whether the user belongs to an organization holding an
// active RDM license. With orgID zero the check spans all the user's
// organizations.
func (s *RDMService) HasAccess(userID, orgID uint) (bool, error) {
	query := s.db.Model(&models.Organization{}).
		Joins("JOIN organization_members om ON om.organization_id = organizations.id").
		Joins("JOIN organization_services os ON os.organization_id = organizations.id").
		Joins("JOIN services s ON s.id = os.service_id").
		Where("om.user_id = ? AND s.name = ? AND os.status = ?", userID, models.RDMServiceName, "active")

	if orgID != 0 {
		query = query.Where("organizations.id = ?", orgID)
	}

	var count int64
	if err := query.Count(&count).Error; err != nil {
		return false, err
	}
	return count > 0, nil
}

// UserOrganizations lists the user's organizations with an active RDM license.
func (s *RDMService) UserOrganizations(userID uint) ([]models.Organization, error) {
	var orgs []models.Organization
	err := s.db.Model(&models.Organization{}).
		Distinct("organizations.*").
		Joins("JOIN organization_members om ON om.organization_id = organizations.id").
		Joins("JOIN organization_services os ON os.organization_id = organizations.id").
		Joins("JOIN services s ON s.id = os.service_id").
		Where("om.user_id = ? AND s.name = ? AND os.status = ?", userID, models.RDMServiceName, "active").
		Order("organizations.name").
		Find(&orgs).Error
	return orgs, err
}

// Projects

type ProjectRequest struct {
	Name        string `json:"name" binding:"required"`
	Description string `json:"description"`
	Status      string `json:"status"`
}

func (s *RDMService) ListProjects(orgID uint) ([]models.Project, error) {
	var projects []models.Project
	err := s.db.Where("organization_id = ?", orgID).Order("name").Find(&projects).Error
	return projects, err
}

func (s *RDMService) CreateProject(userID, orgID uint, req ProjectRequest) (*models.Project, error) {
	status := req.Status
	if status == "" {
		status = "active"
	}
	project := models.Project{
		OrganizationID: orgID,
		Name:           utils.SanitizeString(req.Name),
		Description:    utils.SanitizeString(req.Description),
		Status:         status,
		CreatedBy:      userID,
	}
	if err := s.db.Create(&project).Error; err != nil {
		return nil, errors.New("failed to create project")
	}
	return &project, nil
}

func (s *RDMService) GetProject(orgID, id uint) (*models.Project, error) {
	var project models.Project
	if err := s.db.Where("id = ? AND organization_id = ?", id, orgID).First(&project).Error; err != nil {
		return nil, errors.New("project not found")
	}
	return &project, nil
}

func (s *RDMService) UpdateProject(orgID, id uint, req ProjectRequest) (*models.Project, error) {
	project, err := s.GetProject(orgID, id)
	if err != nil {
		return nil, err
	}

	project.Name = utils.SanitizeString(req.Name)
	project.Description = utils.SanitizeString(req.Description)
	if req.Status != "" {
		project.Status = req.Status
	}

	if err := s.db.Save(project).Error; err != nil {
		return nil, errors.New("failed to update project")
	}
	return project, nil
}

func (s *RDMService) DeleteProject(orgID, id uint) error {
	result := s.db.Where("id = ? AND organization_id = ?", id, orgID).Delete(&models.Project{})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return errors.New("project not found")
	}
	return nil
}
