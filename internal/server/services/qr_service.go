package services

import (
	"fmt"
	"net/url"
	"os"

	"github.com/skip2/go-qrcode"
)

const qrImageSize = 512

// QRService renders a profile's public page URL as a PNG QR code.
type QRService struct {
	baseURL string
}

func NewQRService() *QRService {
	baseURL := os.Getenv("PUBLIC_BASE_URL")
	if baseURL == "" {
		baseURL = "http://localhost:8080"
	}
	return &QRService{baseURL: baseURL}
}

// ProfileURL is the target encoded into the QR code.
func (s *QRService) ProfileURL(handle string) string {
	return fmt.Sprintf("%s/u/%s", s.baseURL, url.PathEscape(handle))
}

func (s *QRService) RenderPNG(handle string) ([]byte, error) {
	png, err := qrcode.Encode(s.ProfileURL(handle), qrcode.Medium, qrImageSize)
	if err != nil {
		return nil, fmt.Errorf("failed to render QR code: %w", err)
	}
	return png, nil
}
