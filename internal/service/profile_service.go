package service

import (
	"climblog/climbing-app/internal/domain"
	"climblog/climbing-app/internal/repository"
	"climblog/climbing-app/internal/storage"
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.uber.org/zap"
)

var (
	ErrProfileValidation = errors.New("profile validation failed")
	ErrNothingToUpdate   = errors.New("no profile fields to update")
)

const maxAge = 120

// Profile is a user as they see themselves.
type Profile struct {
	domain.User
	ProfileImageURL *string `json:"profileImageUrl,omitempty"`
}

type ProfileService interface {
	GetProfile(ctx context.Context, userID primitive.ObjectID) (*Profile, error)
	UpdateProfile(ctx context.Context, userID primitive.ObjectID, update domain.ProfileUpdate) (*Profile, error)
	// DeleteAccount removes the user with all of their sessions, climbs and images.
	DeleteAccount(ctx context.Context, userID primitive.ObjectID) error
	RequestProfileImageURL(ctx context.Context, userID primitive.ObjectID, contentType string) (*UploadURLResponse, error)
	ConfirmProfileImage(ctx context.Context, userID primitive.ObjectID, objectKey, fileName, contentType string, size int64) (*Profile, error)
}

type profileService struct {
	userRepo       repository.UserRepository
	sessionRepo    repository.SessionRepository
	climbRepo      repository.ClimbRepository
	uploadRepo     repository.UploadRepository
	fileStorage    storage.FileStorage
	uploadExpiry   time.Duration
	downloadExpiry time.Duration
	logger         *zap.Logger
}

func NewProfileService(
	userRepo repository.UserRepository,
	sessionRepo repository.SessionRepository,
	climbRepo repository.ClimbRepository,
	uploadRepo repository.UploadRepository,
	fileStorage storage.FileStorage,
	uploadExpiry, downloadExpiry time.Duration,
	logger *zap.Logger,
) ProfileService {
	if uploadExpiry <= 0 {
		uploadExpiry = storage.DefaultPresignedURLExpiry
	}
	return &profileService{
		userRepo:       userRepo,
		sessionRepo:    sessionRepo,
		climbRepo:      climbRepo,
		uploadRepo:     uploadRepo,
		fileStorage:    fileStorage,
		uploadExpiry:   uploadExpiry,
		downloadExpiry: downloadExpiry,
		logger:         logger,
	}
}

func (s *profileService) profile(ctx context.Context, user *domain.User) *Profile {
	p := &Profile{User: *user}
	if user.ProfileImage != "" {
		url, err := s.fileStorage.GeneratePresignedDownloadURL(ctx, user.ProfileImage, s.downloadExpiry)
		if err != nil {
			s.logger.Warn("could not presign profile image", zap.String("userId", user.ID.Hex()), zap.Error(err))
		} else {
			p.ProfileImageURL = &url
		}
	}
	return p
}

func (s *profileService) GetProfile(ctx context.Context, userID primitive.ObjectID) (*Profile, error) {
	user, err := loadUser(ctx, s.userRepo, userID)
	if err != nil {
		return nil, err
	}
	return s.profile(ctx, user), nil
}

func validateProfileUpdate(u domain.ProfileUpdate) error {
	if u.IsEmpty() {
		return ErrNothingToUpdate
	}
	if u.Age != nil && (*u.Age < 0 || *u.Age > maxAge) {
		return fmt.Errorf("%w: age must be between 0 and %d", ErrProfileValidation, maxAge)
	}
	if u.Height != nil && *u.Height <= 0 {
		return fmt.Errorf("%w: height must be positive", ErrProfileValidation)
	}
	if u.Weight != nil && *u.Weight <= 0 {
		return fmt.Errorf("%w: weight must be positive", ErrProfileValidation)
	}
	return nil
}

func (s *profileService) UpdateProfile(ctx context.Context, userID primitive.ObjectID, update domain.ProfileUpdate) (*Profile, error) {
	if update.FullName != nil {
		trimmed := strings.TrimSpace(*update.FullName)
		update.FullName = &trimmed
	}
	if err := validateProfileUpdate(update); err != nil {
		return nil, err
	}
	if err := s.userRepo.UpdateProfile(ctx, userID, update); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrUserNotFound
		}
		return nil, err
	}
	return s.GetProfile(ctx, userID)
}

func (s *profileService) DeleteAccount(ctx context.Context, userID primitive.ObjectID) error {
	if _, err := loadUser(ctx, s.userRepo, userID); err != nil {
		return err
	}

	// Collect object keys before their records go away.
	uploads, err := s.uploadRepo.ListByOwner(ctx, userID)
	if err != nil {
		return fmt.Errorf("list uploads: %w", err)
	}

	if err := s.climbRepo.DeleteByUser(ctx, userID); err != nil {
		return fmt.Errorf("delete climbs: %w", err)
	}
	if err := s.sessionRepo.DeleteByUser(ctx, userID); err != nil {
		return fmt.Errorf("delete sessions: %w", err)
	}
	if err := s.uploadRepo.DeleteByOwner(ctx, userID); err != nil {
		return fmt.Errorf("delete uploads: %w", err)
	}
	if err := s.userRepo.Delete(ctx, userID); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return ErrUserNotFound
		}
		return err
	}

	for _, upload := range uploads {
		deleteObjectQuietly(ctx, s.fileStorage, s.logger, upload.S3ObjectKey)
	}
	s.logger.Info("account deleted", zap.String("userId", userID.Hex()), zap.Int("objects", len(uploads)))
	return nil
}

func (s *profileService) RequestProfileImageURL(ctx context.Context, userID primitive.ObjectID, contentType string) (*UploadURLResponse, error) {
	if _, err := loadUser(ctx, s.userRepo, userID); err != nil {
		return nil, err
	}
	key, err := storage.ProfileImageKey(userID.Hex(), contentType)
	if err != nil {
		return nil, err
	}
	url, err := s.fileStorage.GeneratePresignedUploadURL(ctx, key, contentType, s.uploadExpiry)
	if err != nil {
		return nil, fmt.Errorf("presign profile upload: %w", err)
	}
	return &UploadURLResponse{
		UploadURL: url,
		ObjectKey: key,
		ExpiresAt: time.Now().UTC().Add(s.uploadExpiry),
	}, nil
}

func (s *profileService) ConfirmProfileImage(ctx context.Context, userID primitive.ObjectID, objectKey, fileName, contentType string, size int64) (*Profile, error) {
	user, err := loadUser(ctx, s.userRepo, userID)
	if err != nil {
		return nil, err
	}
	if !strings.HasPrefix(objectKey, storage.ProfileImagePrefix(userID.Hex())) {
		return nil, ErrInvalidObjectKey
	}

	upload := &domain.Upload{
		OwnerID:     userID,
		Kind:        domain.UploadKindProfile,
		S3ObjectKey: objectKey,
		FileName:    fileName,
		ContentType: contentType,
		Size:        size,
	}
	if _, err := s.uploadRepo.Create(ctx, upload); err != nil {
		if errors.Is(err, repository.ErrConflict) {
			return nil, ErrUploadExists
		}
		return nil, err
	}

	if err := s.userRepo.SetProfileImage(ctx, userID, objectKey); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrUserNotFound
		}
		return nil, err
	}
	if user.ProfileImage != "" && user.ProfileImage != objectKey {
		deleteObjectQuietly(ctx, s.fileStorage, s.logger, user.ProfileImage)
	}
	return s.GetProfile(ctx, userID)
}
