package services

import (
	"errors"

	"github.com/MForbesPrim/primith-portal/internal/models"
	"github.com/MForbesPrim/primith-portal/internal/utils"
	"gorm.io/gorm"
)

type FolderService struct {
	db *gorm.DB
}

func NewFolderService(db *gorm.DB) *FolderService {
	return &FolderService{db: db}
}

type CreateFolderRequest struct {
	Name      string `json:"name" binding:"required"`
	ProjectID *uint  `json:"projectId"`
	ParentID  *uint  `json:"parentId"`
}

func (s *FolderService) Create(orgID uint, req CreateFolderRequest) (*models.Folder, error) {
	if req.ParentID != nil {
		var parent models.Folder
		if err := s.db.Where("id = ? AND organization_id = ? AND is_trashed = ?", *req.ParentID, orgID, false).
			First(&parent).Error; err != nil {
			return nil, errors.New("parent folder not found")
		}
	}

	folder := models.Folder{
		Name:           utils.SanitizeString(req.Name),
		OrganizationID: orgID,
		ProjectID:      req.ProjectID,
		ParentID:       req.ParentID,
	}
	if err := s.db.Create(&folder).Error; err != nil {
		return nil, errors.New("failed to create folder")
	}
	return &folder, nil
}

// List returns the organization's live folders with per-folder document
// counts for the tree view.
func (s *FolderService) List(orgID uint, projectID *uint) ([]models.Folder, error) {
	query := s.db.Where("organization_id = ? AND is_trashed = ?", orgID, false)
	if projectID != nil {
		query = query.Where("project_id = ?", *projectID)
	}

	var folders []models.Folder
	if err := query.Order("name").Find(&folders).Error; err != nil {
		return nil, err
	}

	for i := range folders {
		var count int64
		s.db.Model(&models.Document{}).
			Where("folder_id = ? AND is_trashed = ?", folders[i].ID, false).
			Count(&count)
		folders[i].FileCount = count
	}
	return folders, nil
}

func (s *FolderService) get(orgID, id uint) (*models.Folder, error) {
	var folder models.Folder
	if err := s.db.Where("id = ? AND organization_id = ?", id, orgID).First(&folder).Error; err != nil {
		return nil, errors.New("folder not found")
	}
	return &folder, nil
}

func (s *FolderService) Rename(orgID, id uint, name string) (*models.Folder, error) {
	folder, err := s.get(orgID, id)
	if err != nil {
		return nil, err
	}

	folder.Name = utils.SanitizeString(name)
	if folder.Name == "" {
		return nil, errors.New("folder name is required")
	}

	if err := s.db.Save(folder).Error; err != nil {
		return nil, errors.New("failed to rename folder")
	}
	return folder, nil
}

// Move reparents a folder. Moving a folder under its own subtree is refused.
func (s *FolderService) Move(orgID, id uint, newParentID *uint) (*models.Folder, error) {
	folder, err := s.get(orgID, id)
	if err != nil {
		return nil, err
	}

	if newParentID != nil {
		if *newParentID == id {
			return nil, errors.New("cannot move a folder into itself")
		}
		parent, err := s.get(orgID, *newParentID)
		if err != nil {
			return nil, errors.New("target folder not found")
		}
		// Walk up from the target; hitting the moved folder means a cycle.
		for parent.ParentID != nil {
			if *parent.ParentID == id {
				return nil, errors.New("cannot move a folder into its own subtree")
			}
			parent, err = s.get(orgID, *parent.ParentID)
			if err != nil {
				break
			}
		}
	}

	folder.ParentID = newParentID
	if err := s.db.Save(folder).Error; err != nil {
		return nil, errors.New("failed to move folder")
	}
	return folder, nil
}

// Trash marks a folder and its entire subtree, documents included.
func (s *FolderService) Trash(orgID, id uint) error {
	return s.setTrashed(orgID, id, true)
}

func (s *FolderService) Restore(orgID, id uint) error {
	return s.setTrashed(orgID, id, false)
}

func (s *FolderService) setTrashed(orgID, id uint, trashed bool) error {
	folder, err := s.get(orgID, id)
	if err != nil {
		return err
	}

	return s.db.Transaction(func(tx *gorm.DB) error {
		ids := []uint{folder.ID}
		for cursor := 0; cursor < len(ids); cursor++ {
			var children []models.Folder
			if err := tx.Where("parent_id = ? AND organization_id = ?", ids[cursor], orgID).
				Find(&children).Error; err != nil {
				return err
			}
			for _, child := range children {
				ids = append(ids, child.ID)
			}
		}

		if err := tx.Model(&models.Folder{}).Where("id IN ?", ids).
			Update("is_trashed", trashed).Error; err != nil {
			return err
		}
		return tx.Model(&models.Document{}).Where("folder_id IN ?", ids).
			Update("is_trashed", trashed).Error
	})
}

// Delete permanently removes a trashed folder subtree and returns the storage
// keys of the documents that went with it, for blob cleanup by the caller.
func (s *FolderService) Delete(orgID, id uint) ([]string, error) {
	folder, err := s.get(orgID, id)
	if err != nil {
		return nil, err
	}
	if !folder.IsTrashed {
		return nil, errors.New("folder must be trashed before permanent deletion")
	}

	var keys []string
	err = s.db.Transaction(func(tx *gorm.DB) error {
		ids := []uint{folder.ID}
		for cursor := 0; cursor < len(ids); cursor++ {
			var children []models.Folder
			if err := tx.Where("parent_id = ?", ids[cursor]).Find(&children).Error; err != nil {
				return err
			}
			for _, child := range children {
				ids = append(ids, child.ID)
			}
		}

		var docs []models.Document
		if err := tx.Where("folder_id IN ?", ids).Find(&docs).Error; err != nil {
			return err
		}
		for _, doc := range docs {
			keys = append(keys, doc.StorageKey)
		}

		if err := tx.Where("folder_id IN ?", ids).Delete(&models.Document{}).Error; err != nil {
			return err
		}
		return tx.Where("id IN ?", ids).Delete(&models.Folder{}).Error
	})
	if err != nil {
		return nil, err
	}
	return keys, nil
}
