package models

import "time"

type Organization struct {
	ID          uint      `json:"id" gorm:"primaryKey"`
	Name        string    `json:"name" gorm:"unique;not null"`
	Description string    `json:"description"`
	CreatedAt   time.Time `json:"createdAt"`
	UpdatedAt   time.Time `json:"updatedAt"`

	Members  []User    `json:"-" gorm:"many2many:organization_members"`
	Services []Service `json:"-" gorm:"many2many:organization_services"`
}

// Role is either global (OrganizationID nil) or scoped to one organization.
type Role struct {
	ID             uint      `json:"id" gorm:"primaryKey"`
	OrganizationID *uint     `json:"organizationId"`
	Name           string    `json:"name" gorm:"not null;index"`
	Description    string    `json:"description"`
	CreatedAt      time.Time `json:"createdAt"`
}

const SuperAdminRole = "super_admin"

// Service is a licensable product module, e.g. "rdm".
type Service struct {
	ID          uint      `json:"id" gorm:"primaryKey"`
	Name        string    `json:"name" gorm:"unique;not null"`
	Description string    `json:"description"`
	Status      string    `json:"status" gorm:"default:active"`
	CreatedAt   time.Time `json:"createdAt"`
	UpdatedAt   time.Time `json:"updatedAt"`
}

const RDMServiceName = "rdm"

// OrganizationService is an organization's license for a service.
type OrganizationService struct {
	OrganizationID uint      `json:"organizationId" gorm:"primaryKey"`
	ServiceID      uint      `json:"serviceId" gorm:"primaryKey"`
	Status         string    `json:"status" gorm:"default:active"`
	CreatedAt      time.Time `json:"createdAt"`
}
