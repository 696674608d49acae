package services

import (
	"bytes"
	"errors"
	"io"
	"mime/multipart"

	"github.com/MForbesPrim/primith-portal/internal/models"
	"github.com/MForbesPrim/primith-portal/internal/utils"
	"github.com/MForbesPrim/primith-portal/pkg/logger"
	"gorm.io/gorm"
)

type DocumentService struct {
	db      *gorm.DB
	storage *StorageService
	ocr     *OCRService
}

func NewDocumentService(db *gorm.DB, storage *StorageService, ocr *OCRService) *DocumentService {
	return &DocumentService{
		db:      db,
		storage: storage,
		ocr:     ocr,
	}
}

// Upload stores the blob, records the document, and kicks off best-effort
// text extraction through the OCR sidecar.
func (s *DocumentService) Upload(userID, orgID uint, folderID, projectID *uint, file multipart.File, header *multipart.FileHeader) (*models.Document, error) {
	if folderID != nil {
		var folder models.Folder
		if err := s.db.Where("id = ? AND organization_id = ? AND is_trashed = ?", *folderID, orgID, false).
			First(&folder).Error; err != nil {
			return nil, errors.New("folder not found")
		}
	}

	// Buffer once so the blob upload and OCR share the content.
	content, err := io.ReadAll(file)
	if err != nil {
		return nil, errors.New("failed to read uploaded file")
	}

	result, err := s.storage.UploadDocument(orgID, 1, nopSeeker{bytes.NewReader(content)}, header)
	if err != nil {
		return nil, err
	}

	doc := models.Document{
		Name:           utils.SanitizeString(header.Filename),
		OrganizationID: orgID,
		ProjectID:      projectID,
		FolderID:       folderID,
		StorageKey:     result.Key,
		ContentType:    result.ContentType,
		SizeBytes:      result.Size,
		Version:        1,
		UploadedBy:     userID,
	}
	if err := s.db.Create(&doc).Error; err != nil {
		s.storage.Delete(result.Key)
		return nil, errors.New("failed to record document")
	}

	s.extractText(&doc, header.Filename, content)

	return &doc, nil
}

func (s *DocumentService) extractText(doc *models.Document, filename string, content []byte) {
	if s.ocr == nil {
		return
	}
	text, err := s.ocr.ExtractText(filename, content)
	if err != nil {
		logger.Warn("text extraction failed for document ", doc.ID, ": ", err)
		return
	}
	if err := s.db.Model(doc).Update("extracted_text", text).Error; err != nil {
		logger.Warn("failed to store extracted text for document ", doc.ID, ": ", err)
	}
}

type nopSeeker struct {
	*bytes.Reader
}

func (nopSeeker) Close() error { return nil }

func (s *DocumentService) List(orgID uint, folderID *uint) ([]models.Document, error) {
	query := s.db.Where("organization_id = ? AND is_trashed = ?", orgID, false)
	if folderID != nil {
		query = query.Where("folder_id = ?", *folderID)
	}

	var docs []models.Document
	err := query.Order("name").Find(&docs).Error
	return docs, err
}

func (s *DocumentService) get(orgID, id uint) (*models.Document, error) {
	var doc models.Document
	if err := s.db.Where("id = ? AND organization_id = ?", id, orgID).First(&doc).Error; err != nil {
		return nil, errors.New("document not found")
	}
	return &doc, nil
}

// Download streams the current version's blob.
func (s *DocumentService) Download(orgID, id uint) (io.ReadCloser, *models.Document, error) {
	doc, err := s.get(orgID, id)
	if err != nil {
		return nil, nil, err
	}

	body, contentType, err := s.storage.Download(doc.StorageKey)
	if err != nil {
		return nil, nil, err
	}
	if contentType != "" {
		doc.ContentType = contentType
	}
	return body, doc, nil
}

// Update uploads new content as the next version. The previous version's blob
// is kept so earlier versions remain downloadable by key.
func (s *DocumentService) Update(orgID, id uint, file multipart.File, header *multipart.FileHeader) (*models.Document, error) {
	doc, err := s.get(orgID, id)
	if err != nil {
		return nil, err
	}

	content, err := io.ReadAll(file)
	if err != nil {
		return nil, errors.New("failed to read uploaded file")
	}

	result, err := s.storage.UploadDocument(orgID, doc.Version+1, nopSeeker{bytes.NewReader(content)}, header)
	if err != nil {
		return nil, err
	}

	doc.StorageKey = result.Key
	doc.ContentType = result.ContentType
	doc.SizeBytes = result.Size
	doc.Version++

	if err := s.db.Save(doc).Error; err != nil {
		s.storage.Delete(result.Key)
		return nil, errors.New("failed to update document")
	}

	s.extractText(doc, header.Filename, content)

	return doc, nil
}

func (s *DocumentService) Rename(orgID, id uint, name string) (*models.Document, error) {
	doc, err := s.get(orgID, id)
	if err != nil {
		return nil, err
	}

	doc.Name = utils.SanitizeString(name)
	if doc.Name == "" {
		return nil, errors.New("document name is required")
	}

	if err := s.db.Save(doc).Error; err != nil {
		return nil, errors.New("failed to rename document")
	}
	return doc, nil
}

func (s *DocumentService) Trash(orgID, id uint) error {
	return s.setTrashed(orgID, id, true)
}

func (s *DocumentService) Restore(orgID, id uint) error {
	return s.setTrashed(orgID, id, false)
}

func (s *DocumentService) setTrashed(orgID, id uint, trashed bool) error {
	result := s.db.Model(&models.Document{}).
		Where("id = ? AND organization_id = ?", id, orgID).
		Update("is_trashed", trashed)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return errors.New("document not found")
	}
	return nil
}

// Delete permanently removes a trashed document and its blob.
func (s *DocumentService) Delete(orgID, id uint) error {
	doc, err := s.get(orgID, id)
	if err != nil {
		return err
	}
	if !doc.IsTrashed {
		return errors.New("document must be trashed before permanent deletion")
	}

	if err := s.db.Delete(doc).Error; err != nil {
		return err
	}
	if err := s.storage.Delete(doc.StorageKey); err != nil {
		logger.Warn("failed to delete blob for document ", doc.ID, ": ", err)
	}
	return nil
}

// TrashItems lists trashed folders and documents for the trash screen.
type TrashItems struct {
	Folders   []models.Folder   `json:"folders"`
	Documents []models.Document `json:"documents"`
}

func (s *DocumentService) ListTrash(orgID uint) (*TrashItems, error) {
	var items TrashItems
	if err := s.db.Where("organization_id = ? AND is_trashed = ?", orgID, true).
		Order("updated_at DESC").Find(&items.Folders).Error; err != nil {
		return nil, err
	}
	if err := s.db.Where("organization_id = ? AND is_trashed = ?", orgID, true).
		Order("updated_at DESC").Find(&items.Documents).Error; err != nil {
		return nil, err
	}
	return &items, nil
}
