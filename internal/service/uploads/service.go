// Package uploads stores bird and profile photos in the hosted bucket.
package uploads

import (
	"context"
	"fmt"
	"io"
	"path"
	"strings"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/mamadbah2/birdo/internal/domain/models"
)

// MaxPhotoSize bounds an uploaded photo, in bytes.
const MaxPhotoSize = 5 << 20

var folders = map[string]bool{"birds": true, "profile": true}

var extensions = map[string]string{
	"image/jpeg": ".jpg",
	"image/png":  ".png",
	"image/webp": ".webp",
	"image/gif":  ".gif",
}

// Bucket is the object storage photos are written to.
type Bucket interface {
	Upload(ctx context.Context, objectPath, contentType string, body io.Reader) (string, error)
}

// Service validates and stores photos.
type Service struct {
	bucket Bucket
	logger *zap.Logger
	newID  func() string
}

// NewService constructs an upload service. A nil bucket disables uploads.
func NewService(bucket Bucket, logger *zap.Logger) *Service {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Service{bucket: bucket, logger: logger, newID: uuid.NewString}
}

// Photo is an uploaded image as received from the client.
type Photo struct {
	Filename    string
	ContentType string
	Size        int64
	Body        io.Reader
}

// Upload stores a photo under folder/userID and returns its public URL.
func (s *Service) Upload(ctx context.Context, userID, folder string, p Photo) (string, error) {
	if s.bucket == nil {
		return "", fmt.Errorf("photo upload: %w", models.ErrFeatureDisabled)
	}
	if !folders[folder] {
		return "", models.Invalid("folder", "expected birds or profile, got %q", folder)
	}
	if p.Size <= 0 || p.Size > MaxPhotoSize {
		return "", models.Invalid("file", "size must be between 1 byte and %d MB", MaxPhotoSize>>20)
	}

	contentType := strings.ToLower(strings.TrimSpace(strings.Split(p.ContentType, ";")[0]))
	ext, ok := extensions[contentType]
	if !ok {
		return "", models.Invalid("file", "unsupported image type %q", p.ContentType)
	}

	objectPath := path.Join(folder, userID, s.newID()+ext)
	url, err := s.bucket.Upload(ctx, objectPath, contentType, p.Body)
	if err != nil {
		return "", err
	}
	s.logger.Info("photo uploaded", zap.String("user_id", userID), zap.String("path", objectPath), zap.Int64("size", p.Size))
	return url, nil
}
