package service

import (
	"climblog/climbing-app/internal/domain"
	"climblog/climbing-app/internal/grade"
	"climblog/climbing-app/internal/repository"
	"climblog/climbing-app/internal/stats"
	"climblog/climbing-app/internal/storage"
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.uber.org/zap"
)

var (
	ErrClimbNotFound     = errors.New("climb not found")
	ErrClimbAccessDenied = errors.New("access denied to modify or delete this climb")
	ErrClimbExists       = errors.New("a climb with this id already exists")
	ErrClimbValidation   = errors.New("climb validation failed")
	ErrInvalidClimbType  = errors.New("invalid climb type")

	// errSessionClosed means the session completed before a climb write began.
	errSessionClosed = errors.New("session closed to climb writes")
)

// openSessionAttempts bounds the create-or-fetch loop for the open session.
const openSessionAttempts = 3

// LogClimbInput is a climb as the user enters it. Grade is in the user's
// display notation. ID may be left empty to have one generated.
type LogClimbInput struct {
	ID       string
	Name     string
	Type     domain.ClimbType
	Style    domain.ClimbStyle
	Grade    string
	Attempts int
	Send     bool
}

// ClimbPatch is a partial change to a climb. Nil fields are left untouched.
type ClimbPatch struct {
	Name     *string
	Type     *domain.ClimbType
	Style    *domain.ClimbStyle
	Grade    *string
	Attempts *int
	Send     *bool
}

// GradeOptions lists the grades a user can pick from for one climb type.
type GradeOptions struct {
	Type   domain.ClimbType `json:"type"`
	Scale  string           `json:"scale"`
	French bool             `json:"french"`
	Grades []string         `json:"grades"`
}

type ClimbService interface {
	// LogClimb adds a climb to the user's open session, opening one if needed.
	LogClimb(ctx context.Context, userID primitive.ObjectID, in LogClimbInput) (*ClimbView, error)
	UpdateClimb(ctx context.Context, userID primitive.ObjectID, climbID string, patch ClimbPatch) (*ClimbView, error)
	DeleteClimb(ctx context.Context, userID primitive.ObjectID, climbID string) error
	RequestClimbImageURL(ctx context.Context, userID primitive.ObjectID, climbID, contentType string) (*UploadURLResponse, error)
	ConfirmClimbImage(ctx context.Context, userID primitive.ObjectID, climbID, objectKey, fileName, contentType string, size int64) (*ClimbView, error)
	GradeOptions(ctx context.Context, userID primitive.ObjectID, climbType domain.ClimbType) (*GradeOptions, error)
}

type climbService struct {
	userRepo     repository.UserRepository
	sessionRepo  repository.SessionRepository
	climbRepo    repository.ClimbRepository
	uploadRepo   repository.UploadRepository
	fileStorage  storage.FileStorage
	uploadExpiry time.Duration
	viewer       viewer
	logger       *zap.Logger
}

func NewClimbService(
	userRepo repository.UserRepository,
	sessionRepo repository.SessionRepository,
	climbRepo repository.ClimbRepository,
	uploadRepo repository.UploadRepository,
	fileStorage storage.FileStorage,
	uploadExpiry, downloadExpiry time.Duration,
	logger *zap.Logger,
) ClimbService {
	if uploadExpiry <= 0 {
		uploadExpiry = storage.DefaultPresignedURLExpiry
	}
	return &climbService{
		userRepo:     userRepo,
		sessionRepo:  sessionRepo,
		climbRepo:    climbRepo,
		uploadRepo:   uploadRepo,
		fileStorage:  fileStorage,
		uploadExpiry: uploadExpiry,
		viewer:       viewer{fileStorage: fileStorage, downloadExpiry: downloadExpiry, logger: logger},
		logger:       logger,
	}
}

func validateClimb(c *domain.Climb) error {
	if !c.Type.Valid() {
		return fmt.Errorf("%w: unknown type %q", ErrClimbValidation, c.Type)
	}
	if !c.Style.Valid() {
		return fmt.Errorf("%w: unknown style %q", ErrClimbValidation, c.Style)
	}
	if c.Grade == "" {
		return fmt.Errorf("%w: grade is required", ErrClimbValidation)
	}
	if c.Attempts < 1 {
		return fmt.Errorf("%w: attempts must be at least 1", ErrClimbValidation)
	}
	return nil
}

// openSession returns the user's open session, creating it if there is none.
// A concurrent creator wins on the unique open-session constraint, after which
// its session is read back.
func (s *climbService) openSession(ctx context.Context, userID primitive.ObjectID) (*domain.Session, error) {
	for attempt := 0; attempt < openSessionAttempts; attempt++ {
		session, err := s.sessionRepo.GetOpenByUser(ctx, userID)
		if err == nil {
			return session, nil
		}
		if !errors.Is(err, repository.ErrNotFound) {
			return nil, err
		}

		session = &domain.Session{UserID: userID}
		if _, err := s.sessionRepo.Create(ctx, session); err != nil {
			if errors.Is(err, repository.ErrConflict) {
				continue
			}
			return nil, err
		}
		s.logger.Info("session opened", zap.String("userId", userID.Hex()), zap.String("sessionId", session.ID.Hex()))
		return session, nil
	}
	return nil, fmt.Errorf("could not open a session for user %s", userID.Hex())
}

// writeClimb runs write as a pending climb write on an open session and stores
// the recomputed session stats afterwards. The session cannot complete while
// the write is pending.
func (s *climbService) writeClimb(ctx context.Context, sessionID primitive.ObjectID, write func() error) error {
	if err := s.sessionRepo.BeginClimbWrite(ctx, sessionID); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return errSessionClosed
		}
		return err
	}
	// The release must happen even if the request is cancelled mid-write.
	endCtx := context.WithoutCancel(ctx)

	var final *domain.SessionStats
	writeErr := write()
	if writeErr == nil {
		climbs, err := s.climbRepo.ListBySession(endCtx, sessionID)
		if err != nil {
			writeErr = fmt.Errorf("list session climbs: %w", err)
		} else {
			aggregated := stats.Aggregate(climbs)
			final = &aggregated
		}
	}

	if err := s.sessionRepo.EndClimbWrite(endCtx, sessionID, final); err != nil {
		if writeErr != nil {
			return writeErr
		}
		if errors.Is(err, repository.ErrNotFound) {
			// Only after the pending write went stale and was completed over.
			s.logger.Warn("session completed over a pending climb write", zap.String("sessionId", sessionID.Hex()))
			return ErrSessionCompleted
		}
		return fmt.Errorf("store session stats: %w", err)
	}
	return writeErr
}

func (s *climbService) LogClimb(ctx context.Context, userID primitive.ObjectID, in LogClimbInput) (*ClimbView, error) {
	user, err := loadUser(ctx, s.userRepo, userID)
	if err != nil {
		return nil, err
	}

	id := strings.TrimSpace(in.ID)
	if id == "" {
		id = uuid.NewString()
	} else if parsed, err := uuid.Parse(id); err != nil {
		return nil, fmt.Errorf("%w: id must be a UUID", ErrClimbValidation)
	} else {
		id = parsed.String()
	}

	climb := &domain.Climb{
		ID:       id,
		UserID:   userID,
		Name:     strings.TrimSpace(in.Name),
		Type:     in.Type,
		Style:    in.Style,
		Grade:    grade.ToCanonical(strings.TrimSpace(in.Grade), in.Type, user.GradingPreference),
		Attempts: in.Attempts,
		Send:     in.Send,
	}
	if err := validateClimb(climb); err != nil {
		return nil, err
	}

	// A session that completes between lookup and write turns the climb away,
	// and the next lookup opens a fresh session.
	for attempt := 0; attempt < openSessionAttempts; attempt++ {
		session, err := s.openSession(ctx, userID)
		if err != nil {
			return nil, err
		}
		climb.SessionID = session.ID

		err = s.writeClimb(ctx, session.ID, func() error { return s.climbRepo.Create(ctx, climb) })
		if errors.Is(err, errSessionClosed) {
			continue
		}
		if err != nil {
			if errors.Is(err, repository.ErrConflict) {
				return nil, ErrClimbExists
			}
			return nil, err
		}
		view := s.viewer.climb(ctx, *climb, user.GradingPreference)
		return &view, nil
	}
	return nil, fmt.Errorf("could not log the climb for user %s: sessions kept completing", userID.Hex())
}

// editableClimb loads a climb the user owns whose session is still open.
func (s *climbService) editableClimb(ctx context.Context, userID primitive.ObjectID, climbID string) (*domain.Climb, error) {
	climb, err := s.climbRepo.GetByID(ctx, climbID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrClimbNotFound
		}
		return nil, err
	}
	if climb.UserID != userID {
		return nil, ErrClimbAccessDenied
	}
	session, err := s.sessionRepo.GetByID(ctx, climb.SessionID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrSessionNotFound
		}
		return nil, err
	}
	if session.Completed {
		return nil, ErrSessionCompleted
	}
	return climb, nil
}

// climbWriteError maps a failed write on an existing climb.
func climbWriteError(err error) error {
	switch {
	case errors.Is(err, errSessionClosed):
		return ErrSessionCompleted
	case errors.Is(err, repository.ErrNotFound):
		return ErrClimbNotFound
	}
	return err
}

func (s *climbService) UpdateClimb(ctx context.Context, userID primitive.ObjectID, climbID string, patch ClimbPatch) (*ClimbView, error) {
	user, err := loadUser(ctx, s.userRepo, userID)
	if err != nil {
		return nil, err
	}
	climb, err := s.editableClimb(ctx, userID, climbID)
	if err != nil {
		return nil, err
	}

	if patch.Name != nil {
		climb.Name = strings.TrimSpace(*patch.Name)
	}
	if patch.Type != nil {
		// A grade means nothing on the other discipline's table.
		if patch.Type.Valid() && patch.Type.IsBoulder() != climb.Type.IsBoulder() && patch.Grade == nil {
			return nil, fmt.Errorf("%w: grade is required when switching between boulder and route", ErrClimbValidation)
		}
		climb.Type = *patch.Type
	}
	if patch.Style != nil {
		climb.Style = *patch.Style
	}
	if patch.Grade != nil {
		// Read in the notation of the climb's type after the patch.
		climb.Grade = grade.ToCanonical(strings.TrimSpace(*patch.Grade), climb.Type, user.GradingPreference)
	}
	if patch.Attempts != nil {
		climb.Attempts = *patch.Attempts
	}
	if patch.Send != nil {
		climb.Send = *patch.Send
	}
	if err := validateClimb(climb); err != nil {
		return nil, err
	}

	err = s.writeClimb(ctx, climb.SessionID, func() error { return s.climbRepo.Update(ctx, climb) })
	if err != nil {
		return nil, climbWriteError(err)
	}

	updated, err := s.climbRepo.GetByID(ctx, climb.ID)
	if err != nil {
		return nil, err
	}
	view := s.viewer.climb(ctx, *updated, user.GradingPreference)
	return &view, nil
}

func (s *climbService) DeleteClimb(ctx context.Context, userID primitive.ObjectID, climbID string) error {
	climb, err := s.editableClimb(ctx, userID, climbID)
	if err != nil {
		return err
	}
	if err := s.writeClimb(ctx, climb.SessionID, func() error { return s.climbRepo.Delete(ctx, climb.ID) }); err != nil {
		return climbWriteError(err)
	}
	deleteObjectQuietly(ctx, s.fileStorage, s.logger, climb.ClimbImage)
	return nil
}

func (s *climbService) RequestClimbImageURL(ctx context.Context, userID primitive.ObjectID, climbID, contentType string) (*UploadURLResponse, error) {
	climb, err := s.editableClimb(ctx, userID, climbID)
	if err != nil {
		return nil, err
	}
	key, err := storage.ClimbImageKey(userID.Hex(), climb.ID, contentType)
	if err != nil {
		return nil, err
	}
	url, err := s.fileStorage.GeneratePresignedUploadURL(ctx, key, contentType, s.uploadExpiry)
	if err != nil {
		return nil, fmt.Errorf("presign climb upload: %w", err)
	}
	return &UploadURLResponse{
		UploadURL: url,
		ObjectKey: key,
		ExpiresAt: time.Now().UTC().Add(s.uploadExpiry),
	}, nil
}

func (s *climbService) ConfirmClimbImage(ctx context.Context, userID primitive.ObjectID, climbID, objectKey, fileName, contentType string, size int64) (*ClimbView, error) {
	user, err := loadUser(ctx, s.userRepo, userID)
	if err != nil {
		return nil, err
	}
	climb, err := s.editableClimb(ctx, userID, climbID)
	if err != nil {
		return nil, err
	}
	if !strings.HasPrefix(objectKey, storage.ClimbImagePrefix(userID.Hex(), climb.ID)) {
		return nil, ErrInvalidObjectKey
	}

	upload := &domain.Upload{
		OwnerID:     userID,
		Kind:        domain.UploadKindClimb,
		ClimbID:     climb.ID,
		S3ObjectKey: objectKey,
		FileName:    fileName,
		ContentType: contentType,
		Size:        size,
	}
	err = s.writeClimb(ctx, climb.SessionID, func() error {
		if _, err := s.uploadRepo.Create(ctx, upload); err != nil {
			if errors.Is(err, repository.ErrConflict) {
				return ErrUploadExists
			}
			return err
		}
		return s.climbRepo.SetImage(ctx, climb.ID, objectKey)
	})
	if err != nil {
		return nil, climbWriteError(err)
	}
	if climb.ClimbImage != "" && climb.ClimbImage != objectKey {
		deleteObjectQuietly(ctx, s.fileStorage, s.logger, climb.ClimbImage)
	}

	updated, err := s.climbRepo.GetByID(ctx, climb.ID)
	if err != nil {
		return nil, err
	}
	view := s.viewer.climb(ctx, *updated, user.GradingPreference)
	return &view, nil
}

func (s *climbService) GradeOptions(ctx context.Context, userID primitive.ObjectID, climbType domain.ClimbType) (*GradeOptions, error) {
	if !climbType.Valid() {
		return nil, ErrInvalidClimbType
	}
	user, err := loadUser(ctx, s.userRepo, userID)
	if err != nil {
		return nil, err
	}
	table := grade.For(climbType)
	return &GradeOptions{
		Type:   climbType,
		Scale:  table.Name(),
		French: user.GradingPreference,
		Grades: table.Grades(user.GradingPreference),
	}, nil
}
