package service

import (
	"climblog/climbing-app/internal/domain"
	"climblog/climbing-app/internal/grade"
	"climblog/climbing-app/internal/repository"
	"climblog/climbing-app/internal/storage"
	"context"
	"errors"
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.uber.org/zap"
)

var (
	ErrUserNotFound     = errors.New("user not found")
	ErrInvalidObjectKey = errors.New("object key does not belong to this resource")
	ErrUploadExists     = errors.New("upload has already been confirmed")
)

// UploadURLResponse structure for returning URL and object key
type UploadURLResponse struct {
	UploadURL string    `json:"uploadUrl"`
	ObjectKey string    `json:"objectKey"` // The key client needs to report back on confirm
	ExpiresAt time.Time `json:"expiresAt"`
}

// ClimbView is a stored climb plus what the user sees: the grade in their
// notation and a temporary link to the photo.
type ClimbView struct {
	domain.Climb
	DisplayGrade string  `json:"displayGrade"`
	ImageURL     *string `json:"imageUrl,omitempty"`
}

// SessionView is a session with its highest grades in the user's notation.
type SessionView struct {
	domain.Session
	HighestBoulderDisplay *string `json:"highestBoulderGradeDisplay"`
	HighestRouteDisplay   *string `json:"highestRouteGradeDisplay"`
}

// SessionWithClimbs is one session and the climbs logged in it.
type SessionWithClimbs struct {
	Session SessionView `json:"session"`
	Climbs  []ClimbView `json:"climbs"`
}

// viewer renders stored records for a user.
type viewer struct {
	fileStorage    storage.FileStorage
	downloadExpiry time.Duration
	logger         *zap.Logger
}

func (v viewer) climb(ctx context.Context, c domain.Climb, frenchDisplay bool) ClimbView {
	view := ClimbView{
		Climb:        c,
		DisplayGrade: grade.ToDisplay(c.Grade, c.Type, frenchDisplay),
	}
	if c.ClimbImage != "" {
		url, err := v.fileStorage.GeneratePresignedDownloadURL(ctx, c.ClimbImage, v.downloadExpiry)
		if err != nil {
			// A missing photo link should not hide the climb.
			v.logger.Warn("could not presign climb image", zap.String("climbId", c.ID), zap.Error(err))
		} else {
			view.ImageURL = &url
		}
	}
	return view
}

func (v viewer) climbs(ctx context.Context, climbs []domain.Climb, frenchDisplay bool) []ClimbView {
	views := make([]ClimbView, len(climbs))
	for i, c := range climbs {
		views[i] = v.climb(ctx, c, frenchDisplay)
	}
	return views
}

func sessionView(s domain.Session, frenchDisplay bool) SessionView {
	view := SessionView{Session: s}
	if g := s.SessionStats.HighestBoulderGrade; g != nil {
		d := grade.ToDisplay(*g, domain.ClimbTypeBoulder, frenchDisplay)
		view.HighestBoulderDisplay = &d
	}
	if g := s.SessionStats.HighestRouteGrade; g != nil {
		d := grade.ToDisplay(*g, domain.ClimbTypeLead, frenchDisplay)
		view.HighestRouteDisplay = &d
	}
	return view
}

func loadUser(ctx context.Context, users repository.UserRepository, userID primitive.ObjectID) (*domain.User, error) {
	user, err := users.GetByID(ctx, userID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrUserNotFound
		}
		return nil, err
	}
	return user, nil
}

// deleteObjectQuietly removes an object whose loss only leaves an orphan behind.
func deleteObjectQuietly(ctx context.Context, fileStorage storage.FileStorage, logger *zap.Logger, key string) {
	if key == "" {
		return
	}
	if err := fileStorage.DeleteObject(ctx, key); err != nil {
		logger.Warn("could not delete stored object", zap.String("key", key), zap.Error(err))
	}
}
