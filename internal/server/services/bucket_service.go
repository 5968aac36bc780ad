package services

import (
	"bytes"
	"fmt"
	"os"

	storage_go "github.com/supabase-community/storage-go"
)

const avatarsBucket = "avatars"

// BucketService wraps the Supabase storage API for avatar and QR images.
// Buckets are public; objects are addressed by a stable per-user name so an
// upload replaces the previous image.
type BucketService struct {
	client  *storage_go.Client
	baseURL string
}

func NewBucketService() (*BucketService, error) {
	supabaseURL := os.Getenv("SUPABASE_URL")
	serviceKey := os.Getenv("SUPABASE_SERVICE_ROLE_KEY")
	if supabaseURL == "" || serviceKey == "" {
		return nil, fmt.Errorf("SUPABASE_URL and SUPABASE_SERVICE_ROLE_KEY environment variables must be set")
	}

	client := storage_go.NewClient(supabaseURL+"/storage/v1", serviceKey, nil)

	return &BucketService{
		client:  client,
		baseURL: supabaseURL,
	}, nil
}

// Upload stores an object in the avatars bucket and returns its public URL.
func (s *BucketService) Upload(objectName, contentType string, data []byte) (string, error) {
	upsert := true
	_, err := s.client.UploadFile(avatarsBucket, objectName, bytes.NewReader(data), storage_go.FileOptions{
		ContentType: &contentType,
		Upsert:      &upsert,
	})
	if err != nil {
		return "", fmt.Errorf("failed to upload %s: %w", objectName, err)
	}
	return s.PublicURL(objectName), nil
}

func (s *BucketService) Remove(objectNames []string) error {
	if len(objectNames) == 0 {
		return nil
	}
	if _, err := s.client.RemoveFile(avatarsBucket, objectNames); err != nil {
		return fmt.Errorf("failed to remove objects: %w", err)
	}
	return nil
}

// PublicURL builds the public object URL. The path scheme is fixed by
// Supabase storage for public buckets.
func (s *BucketService) PublicURL(objectName string) string {
	return fmt.Sprintf("%s/storage/v1/object/public/%s/%s", s.baseURL, avatarsBucket, objectName)
}
