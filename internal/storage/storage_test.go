package storage

import (
	"errors"
	"strings"
	"testing"
)

func TestClimbImageKey(t *testing.T) {
	key, err := ClimbImageKey("user-1", "climb-1", "image/jpeg")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !strings.HasPrefix(key, ClimbImagePrefix("user-1", "climb-1")) || !strings.HasSuffix(key, ".jpg") {
		t.Fatalf("unexpected key %q", key)
	}

	other, _ := ClimbImageKey("user-1", "climb-1", "image/jpeg")
	if other == key {
		t.Fatalf("expected a fresh key per call")
	}
}

func TestProfileImageKey(t *testing.T) {
	key, err := ProfileImageKey("user-1", "IMAGE/PNG")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !strings.HasPrefix(key, "profiles/user-1/") || !strings.HasSuffix(key, ".png") {
		t.Fatalf("unexpected key %q", key)
	}
}

func TestImageExtensionRejectsNonImages(t *testing.T) {
	if _, err := ImageExtension("video/mp4"); !errors.Is(err, ErrUnsupportedContentType) {
		t.Fatalf("expected ErrUnsupportedContentType, got %v", err)
	}
	ext, err := ImageExtension("image/gif")
	if err != nil || ext != "" {
		t.Fatalf("expected unknown image type to be accepted without extension, got %q %v", ext, err)
	}
}
