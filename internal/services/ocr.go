package services

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"time"

	"github.com/MForbesPrim/primith-portal/internal/config"
)

// OCRService calls the internal OCR microservice to extract text from
// uploaded documents for search indexing.
type OCRService struct {
	config *config.Config
	client *http.Client
}

func NewOCRService(config *config.Config) *OCRService {
	return &OCRService{
		config: config,
		client: &http.Client{
			Timeout: 60 * time.Second,
		},
	}
}

type OCRResponse struct {
	Success bool   `json:"success"`
	Message string `json:"message"`
	Text    string `json:"text"`
}

// ExtractText sends the document bytes to the OCR sidecar. Callers treat
// failures as non-fatal; the document stays searchable by name only.
func (s *OCRService) ExtractText(filename string, content []byte) (string, error) {
	var buf bytes.Buffer
	writer := multipart.NewWriter(&buf)

	part, err := writer.CreateFormFile("file", filename)
	if err != nil {
		return "", fmt.Errorf("failed to create form file: %v", err)
	}
	if _, err := part.Write(content); err != nil {
		return "", fmt.Errorf("failed to write file content: %v", err)
	}
	if err := writer.Close(); err != nil {
		return "", fmt.Errorf("failed to close multipart writer: %v", err)
	}

	req, err := http.NewRequest(http.MethodPost, s.config.OCRServiceURL+"/ocr", &buf)
	if err != nil {
		return "", err
	}
	req.Header.Set("Content-Type", writer.FormDataContentType())
	req.Header.Set("X-Internal-API-Key", s.config.OCRServiceKey)

	resp, err := s.client.Do(req)
	if err != nil {
		return "", fmt.Errorf("OCR request failed: %v", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("OCR service returned status: %d", resp.StatusCode)
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", fmt.Errorf("failed to read OCR response: %v", err)
	}

	var result OCRResponse
	if err := json.Unmarshal(body, &result); err != nil {
		return "", fmt.Errorf("failed to parse OCR response: %v", err)
	}
	if !result.Success {
		return "", fmt.Errorf("OCR failed: %s", result.Message)
	}

	return result.Text, nil
}
