package services

import (
	"bytes"
	"fmt"
	"io"
	"mime/multipart"
	"path/filepath"
	"strings"
	"time"

	"github.com/aws/aws-sdk-go/aws"
	"github.com/aws/aws-sdk-go/aws/credentials"
	"github.com/aws/aws-sdk-go/aws/session"
	"github.com/aws/aws-sdk-go/service/s3"
	"github.com/google/uuid"
)

// StorageService keeps document and page-image blobs in S3 under org-scoped
// key prefixes.
type StorageService struct {
	client     *s3.S3
	bucketName string
	region     string
}

const presignTTL = 15 * time.Minute

func NewStorageService(region, bucketName, accessKey, secretKey string) *StorageService {
	sess := session.Must(session.NewSession(&aws.Config{
		Region: aws.String(region),
		Credentials: credentials.NewStaticCredentials(
			accessKey,
			secretKey,
			"",
		),
	}))

	return &StorageService{
		client:     s3.New(sess),
		bucketName: bucketName,
		region:     region,
	}
}

type UploadResult struct {
	Key         string
	FileName    string
	ContentType string
	Size        int64
}

const maxUploadSize = 100 * 1024 * 1024 // 100MB

// UploadDocument stores one uploaded file under the organization's document
// prefix, versioned by path so updates never overwrite earlier versions.
func (s *StorageService) UploadDocument(orgID uint, version int, file multipart.File, header *multipart.FileHeader) (*UploadResult, error) {
	if header.Size > maxUploadSize {
		return nil, fmt.Errorf("file size too large: %d bytes (max: %d bytes)", header.Size, maxUploadSize)
	}

	contentType := header.Header.Get("Content-Type")
	if contentType == "" {
		contentType = contentTypeFromExtension(header.Filename)
	}

	key := fmt.Sprintf("org-%d/documents/v%d/%s%s", orgID, version, uuid.New().String(), filepath.Ext(header.Filename))
	if err := s.put(key, contentType, file); err != nil {
		return nil, err
	}

	return &UploadResult{
		Key:         key,
		FileName:    header.Filename,
		ContentType: contentType,
		Size:        header.Size,
	}, nil
}

// UploadPageImage stores an inline page image.
func (s *StorageService) UploadPageImage(orgID uint, file multipart.File, header *multipart.FileHeader) (*UploadResult, error) {
	contentType := header.Header.Get("Content-Type")
	if contentType == "" {
		contentType = contentTypeFromExtension(header.Filename)
	}
	if !strings.HasPrefix(contentType, "image/") {
		return nil, fmt.Errorf("invalid image type: %s", contentType)
	}

	key := fmt.Sprintf("org-%d/pages/images/%s%s", orgID, uuid.New().String(), filepath.Ext(header.Filename))
	if err := s.put(key, contentType, file); err != nil {
		return nil, err
	}

	return &UploadResult{
		Key:         key,
		FileName:    header.Filename,
		ContentType: contentType,
		Size:        header.Size,
	}, nil
}

func (s *StorageService) put(key, contentType string, file multipart.File) error {
	buffer := bytes.NewBuffer(nil)
	if _, err := io.Copy(buffer, file); err != nil {
		return fmt.Errorf("failed to read file: %v", err)
	}

	_, err := s.client.PutObject(&s3.PutObjectInput{
		Bucket:      aws.String(s.bucketName),
		Key:         aws.String(key),
		Body:        bytes.NewReader(buffer.Bytes()),
		ContentType: aws.String(contentType),
	})
	if err != nil {
		return fmt.Errorf("failed to upload to S3: %v", err)
	}
	return nil
}

// Download streams a stored blob.
func (s *StorageService) Download(key string) (io.ReadCloser, string, error) {
	out, err := s.client.GetObject(&s3.GetObjectInput{
		Bucket: aws.String(s.bucketName),
		Key:    aws.String(key),
	})
	if err != nil {
		return nil, "", fmt.Errorf("failed to fetch from S3: %v", err)
	}

	contentType := ""
	if out.ContentType != nil {
		contentType = *out.ContentType
	}
	return out.Body, contentType, nil
}

// PresignedURL returns a short-lived GET URL for inline rendering. Clients
// refresh these through the API when they expire.
func (s *StorageService) PresignedURL(key string) (string, error) {
	req, _ := s.client.GetObjectRequest(&s3.GetObjectInput{
		Bucket: aws.String(s.bucketName),
		Key:    aws.String(key),
	})
	return req.Presign(presignTTL)
}

func (s *StorageService) Delete(key string) error {
	if key == "" {
		return nil
	}

	_, err := s.client.DeleteObject(&s3.DeleteObjectInput{
		Bucket: aws.String(s.bucketName),
		Key:    aws.String(key),
	})
	return err
}

func (s *StorageService) DeleteMany(keys []string) error {
	var objects []*s3.ObjectIdentifier
	for _, key := range keys {
		if key != "" {
			objects = append(objects, &s3.ObjectIdentifier{Key: aws.String(key)})
		}
	}
	if len(objects) == 0 {
		return nil
	}

	_, err := s.client.DeleteObjects(&s3.DeleteObjectsInput{
		Bucket: aws.String(s.bucketName),
		Delete: &s3.Delete{
			Objects: objects,
			Quiet:   aws.Bool(true),
		},
	})
	return err
}

func contentTypeFromExtension(filename string) string {
	switch strings.ToLower(filepath.Ext(filename)) {
	case ".pdf":
		return "application/pdf"
	case ".jpg", ".jpeg":
		return "image/jpeg"
	case ".png":
		return "image/png"
	case ".gif":
		return "image/gif"
	case ".webp":
		return "image/webp"
	case ".txt":
		return "text/plain"
	case ".csv":
		return "text/csv"
	case ".doc":
		return "application/msword"
	case ".docx":
		return "application/vnd.openxmlformats-officedocument.wordprocessingml.document"
	case ".xls":
		return "application/vnd.ms-excel"
	case ".xlsx":
		return "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"
	default:
		return "application/octet-stream"
	}
}
