package models

import "time"

type Project struct {
	ID             uint      `json:"id" gorm:"primaryKey"`
	OrganizationID uint      `json:"organizationId" gorm:"not null;index"`
	Name           string    `json:"name" gorm:"not null"`
	Description    string    `json:"description"`
	Status         string    `json:"status" gorm:"default:active"`
	CreatedBy      uint      `json:"createdBy"`
	CreatedAt      time.Time `json:"createdAt"`
	UpdatedAt      time.Time `json:"updatedAt"`
}

type Folder struct {
	ID             uint      `json:"id" gorm:"primaryKey"`
	Name           string    `json:"name" gorm:"not null"`
	OrganizationID uint      `json:"organizationId" gorm:"not null;index"`
	ProjectID      *uint     `json:"projectId"`
	ParentID       *uint     `json:"parentId"`
	IsTrashed      bool      `json:"isTrashed" gorm:"default:false"`
	CreatedAt      time.Time `json:"createdAt"`
	UpdatedAt      time.Time `json:"updatedAt"`

	// FileCount is computed on listing, never stored.
	FileCount int64 `json:"fileCount" gorm:"-"`
}

type Document struct {
	ID             uint      `json:"id" gorm:"primaryKey"`
	Name           string    `json:"name" gorm:"not null"`
	OrganizationID uint      `json:"organizationId" gorm:"not null;index"`
	ProjectID      *uint     `json:"projectId"`
	FolderID       *uint     `json:"folderId"`
	StorageKey     string    `json:"-" gorm:"not null"`
	ContentType    string    `json:"contentType"`
	SizeBytes      int64     `json:"sizeBytes"`
	Version        int       `json:"version" gorm:"default:1"`
	ExtractedText  string    `json:"-"`
	IsTrashed      bool      `json:"isTrashed" gorm:"default:false"`
	UploadedBy     uint      `json:"uploadedBy"`
	CreatedAt      time.Time `json:"createdAt"`
	UpdatedAt      time.Time `json:"updatedAt"`
}

// Page is a rich-text wiki page; Content holds the editor's JSON document.
type Page struct {
	ID             uint      `json:"id" gorm:"primaryKey"`
	Title          string    `json:"title" gorm:"not null"`
	Content        string    `json:"content" gorm:"type:text"`
	OrganizationID uint      `json:"organizationId" gorm:"not null;index"`
	ProjectID      *uint     `json:"projectId"`
	ParentID       *uint     `json:"parentId"`
	IsTemplate     bool      `json:"isTemplate" gorm:"default:false"`
	CreatedBy      uint      `json:"createdBy"`
	CreatedAt      time.Time `json:"createdAt"`
	UpdatedAt      time.Time `json:"updatedAt"`
}

// PageImage is an image embedded in a page, served via expiring presigned URLs.
type PageImage struct {
	ID          uint      `json:"id" gorm:"primaryKey"`
	PageID      uint      `json:"pageId" gorm:"not null;index"`
	StorageKey  string    `json:"-" gorm:"not null"`
	ContentType string    `json:"contentType"`
	URL         string    `json:"url" gorm:"-"`
	CreatedAt   time.Time `json:"createdAt"`
}

type Notification struct {
	ID        uint      `json:"id" gorm:"primaryKey"`
	UserID    uint      `json:"userId" gorm:"not null;index"`
	Title     string    `json:"title" gorm:"not null"`
	Message   string    `json:"message"`
	Link      string    `json:"link"`
	IsRead    bool      `json:"isRead" gorm:"default:false"`
	CreatedAt time.Time `json:"createdAt"`
}
