package storage

import (
	"context"
	"errors"
	"path"
	"strings"
	"time"

	"github.com/google/uuid"
)

// Default expiry duration for presigned URLs
const DefaultPresignedURLExpiry = 15 * time.Minute

var ErrUnsupportedContentType = errors.New("content type must be an image")

// FileStorage defines the interface for object storage operations.
type FileStorage interface {
	// GeneratePresignedUploadURL creates a temporary URL that allows PUT requests
	// for uploading an object directly to the storage provider.
	GeneratePresignedUploadURL(ctx context.Context, objectKey string, contentType string, expires time.Duration) (string, error)

	// GeneratePresignedDownloadURL creates a temporary URL that allows GET requests
	// for downloading/viewing an object directly from the storage provider.
	GeneratePresignedDownloadURL(ctx context.Context, objectKey string, expires time.Duration) (string, error)

	// DeleteObject removes an object from the storage provider.
	DeleteObject(ctx context.Context, objectKey string) error
}

var imageExtensions = map[string]string{
	"image/jpeg": ".jpg",
	"image/jpg":  ".jpg",
	"image/png":  ".png",
	"image/heic": ".heic",
	"image/heif": ".heif",
	"image/webp": ".webp",
}

// ImageExtension returns the file extension for an image content type.
func ImageExtension(contentType string) (string, error) {
	ct := strings.ToLower(strings.TrimSpace(contentType))
	if ext, ok := imageExtensions[ct]; ok {
		return ext, nil
	}
	if strings.HasPrefix(ct, "image/") {
		return "", nil
	}
	return "", ErrUnsupportedContentType
}

// ClimbImageKey builds a fresh object key for a climb photo.
func ClimbImageKey(userID, climbID, contentType string) (string, error) {
	ext, err := ImageExtension(contentType)
	if err != nil {
		return "", err
	}
	return path.Join("climbs", userID, climbID, uuid.NewString()+ext), nil
}

// ProfileImageKey builds a fresh object key for a profile picture.
func ProfileImageKey(userID, contentType string) (string, error) {
	ext, err := ImageExtension(contentType)
	if err != nil {
		return "", err
	}
	return path.Join("profiles", userID, uuid.NewString()+ext), nil
}

// ClimbImagePrefix is the key prefix every image of the climb lives under.
func ClimbImagePrefix(userID, climbID string) string {
	return path.Join("climbs", userID, climbID) + "/"
}

// ProfileImagePrefix is the key prefix every profile image of the user lives under.
func ProfileImagePrefix(userID string) string {
	return path.Join("profiles", userID) + "/"
}
