package services

import (
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"time"
)

const recaptchaVerifyURL = "https://www.google.com/recaptcha/api/siteverify"

// CaptchaService verifies recaptcha tokens submitted with public forms.
type CaptchaService struct {
	secretKey string
	verifyURL string
	client    *http.Client
}

func NewCaptchaService(secretKey string) *CaptchaService {
	return &CaptchaService{
		secretKey: secretKey,
		verifyURL: recaptchaVerifyURL,
		client: &http.Client{
			Timeout: 10 * time.Second,
		},
	}
}

type captchaVerifyResponse struct {
	Success    bool     `json:"success"`
	Score      float64  `json:"score"`
	ErrorCodes []string `json:"error-codes"`
}

func (s *CaptchaService) Verify(token string) (bool, error) {
	// No key configured means verification is disabled (local development).
	if s.secretKey == "" {
		return true, nil
	}
	if token == "" {
		return false, nil
	}

	resp, err := s.client.PostForm(s.verifyURL, url.Values{
		"secret":   {s.secretKey},
		"response": {token},
	})
	if err != nil {
		return false, fmt.Errorf("failed to make captcha verification request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return false, fmt.Errorf("captcha verification API returned status: %d", resp.StatusCode)
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return false, fmt.Errorf("failed to read captcha verification response: %w", err)
	}

	var result captchaVerifyResponse
	if err := json.Unmarshal(body, &result); err != nil {
		return false, fmt.Errorf("failed to parse captcha verification response: %w", err)
	}

	return result.Success, nil
}
