package services

import (
	"errors"
	"mime/multipart"

	"github.com/MForbesPrim/primith-portal/internal/models"
	"github.com/MForbesPrim/primith-portal/internal/utils"
	"github.com/MForbesPrim/primith-portal/pkg/logger"
	"gorm.io/gorm"
)

// PageService manages rich-text pages and their embedded images.
type PageService struct {
	db      *gorm.DB
	storage *StorageService
}

func NewPageService(db *gorm.DB, storage *StorageService) *PageService {
	return &PageService{
		db:      db,
		storage: storage,
	}
}

type PageRequest struct {
	Title     string `json:"title" binding:"required"`
	Content   string `json:"content"`
	ProjectID *uint  `json:"projectId"`
	ParentID  *uint  `json:"parentId"`
}

func (s *PageService) List(orgID uint, projectID *uint) ([]models.Page, error) {
	query := s.db.Where("organization_id = ? AND is_template = ?", orgID, false)
	if projectID != nil {
		query = query.Where("project_id = ?", *projectID)
	}

	var pages []models.Page
	err := query.Order("title").Find(&pages).Error
	return pages, err
}

func (s *PageService) Create(userID, orgID uint, req PageRequest) (*models.Page, error) {
	page := models.Page{
		Title:          utils.SanitizeString(req.Title),
		Content:        req.Content,
		OrganizationID: orgID,
		ProjectID:      req.ProjectID,
		ParentID:       req.ParentID,
		CreatedBy:      userID,
	}
	if err := s.db.Create(&page).Error; err != nil {
		return nil, errors.New("failed to create page")
	}
	return &page, nil
}

func (s *PageService) get(orgID, id uint) (*models.Page, error) {
	var page models.Page
	if err := s.db.Where("id = ? AND organization_id = ?", id, orgID).First(&page).Error; err != nil {
		return nil, errors.New("page not found")
	}
	return &page, nil
}

func (s *PageService) Get(orgID, id uint) (*models.Page, error) {
	return s.get(orgID, id)
}

func (s *PageService) Update(orgID, id uint, req PageRequest) (*models.Page, error) {
	page, err := s.get(orgID, id)
	if err != nil {
		return nil, err
	}

	page.Title = utils.SanitizeString(req.Title)
	page.Content = req.Content

	if err := s.db.Save(page).Error; err != nil {
		return nil, errors.New("failed to update page")
	}
	return page, nil
}

func (s *PageService) Rename(orgID, id uint, title string) (*models.Page, error) {
	page, err := s.get(orgID, id)
	if err != nil {
		return nil, err
	}

	page.Title = utils.SanitizeString(title)
	if page.Title == "" {
		return nil, errors.New("page title is required")
	}

	if err := s.db.Save(page).Error; err != nil {
		return nil, errors.New("failed to rename page")
	}
	return page, nil
}

func (s *PageService) Move(orgID, id uint, newParentID *uint) (*models.Page, error) {
	page, err := s.get(orgID, id)
	if err != nil {
		return nil, err
	}

	if newParentID != nil {
		if *newParentID == id {
			return nil, errors.New("cannot move a page under itself")
		}
		if _, err := s.get(orgID, *newParentID); err != nil {
			return nil, errors.New("target page not found")
		}
	}

	page.ParentID = newParentID
	if err := s.db.Save(page).Error; err != nil {
		return nil, errors.New("failed to move page")
	}
	return page, nil
}

// Delete removes the page and its stored images.
func (s *PageService) Delete(orgID, id uint) error {
	page, err := s.get(orgID, id)
	if err != nil {
		return err
	}

	var images []models.PageImage
	if err := s.db.Where("page_id = ?", page.ID).Find(&images).Error; err != nil {
		return err
	}

	err = s.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("page_id = ?", page.ID).Delete(&models.PageImage{}).Error; err != nil {
			return err
		}
		return tx.Delete(page).Error
	})
	if err != nil {
		return err
	}

	var keys []string
	for _, img := range images {
		keys = append(keys, img.StorageKey)
	}
	if err := s.storage.DeleteMany(keys); err != nil {
		logger.Warn("failed to delete image blobs for page ", page.ID, ": ", err)
	}
	return nil
}

func (s *PageService) ListTemplates(orgID uint) ([]models.Page, error) {
	var pages []models.Page
	err := s.db.Where("(organization_id = ? OR organization_id = 0) AND is_template = ?", orgID, true).
		Order("title").Find(&pages).Error
	return pages, err
}

// UploadImage stores an inline page image and returns it with a fresh
// presigned URL.
func (s *PageService) UploadImage(orgID, pageID uint, file multipart.File, header *multipart.FileHeader) (*models.PageImage, error) {
	page, err := s.get(orgID, pageID)
	if err != nil {
		return nil, err
	}

	result, err := s.storage.UploadPageImage(orgID, file, header)
	if err != nil {
		return nil, err
	}

	image := models.PageImage{
		PageID:      page.ID,
		StorageKey:  result.Key,
		ContentType: result.ContentType,
	}
	if err := s.db.Create(&image).Error; err != nil {
		s.storage.Delete(result.Key)
		return nil, errors.New("failed to record page image")
	}

	image.URL, err = s.storage.PresignedURL(result.Key)
	if err != nil {
		logger.Warn("failed to presign page image URL: ", err)
	}
	return &image, nil
}

// RefreshImageURLs re-presigns every image of a page. The front-end calls
// this when embedded image URLs expire.
func (s *PageService) RefreshImageURLs(orgID, pageID uint) ([]models.PageImage, error) {
	if _, err := s.get(orgID, pageID); err != nil {
		return nil, err
	}

	var images []models.PageImage
	if err := s.db.Where("page_id = ?", pageID).Find(&images).Error; err != nil {
		return nil, err
	}

	for i := range images {
		url, err := s.storage.PresignedURL(images[i].StorageKey)
		if err != nil {
			logger.Warn("failed to presign page image URL: ", err)
			continue
		}
		images[i].URL = url
	}
	return images, nil
}

func (s *PageService) DeleteImage(orgID, imageID uint) error {
	var image models.PageImage
	err := s.db.
		Joins("JOIN pages ON pages.id = page_images.page_id").
		Where("page_images.id = ? AND pages.organization_id = ?", imageID, orgID).
		First(&image).Error
	if err != nil {
		return errors.New("page image not found")
	}

	if err := s.db.Delete(&image).Error; err != nil {
		return err
	}
	if err := s.storage.Delete(image.StorageKey); err != nil {
		logger.Warn("failed to delete page image blob: ", err)
	}
	return nil
}
