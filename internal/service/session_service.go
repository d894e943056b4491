package service

import (
	"climblog/climbing-app/internal/domain"
	"climblog/climbing-app/internal/repository"
	"climblog/climbing-app/internal/stats"
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
	ErrSessionNotFound     = errors.New("session not found")
	ErrSessionAccessDenied = errors.New("access denied to this session")
	ErrNoOpenSession       = errors.New("no open session")
	ErrSessionCompleted    = errors.New("session is completed and can no longer be changed")
	ErrInvalidIntensity    = fmt.Errorf("intensity must be between %d and %d", domain.MinIntensity, domain.MaxIntensity)
	ErrSessionBusy         = errors.New("climbs are still being saved to this session, try again")
)

// Completion waits out in-flight climb writes for a few short rounds.
const (
	completeAttempts = 5
	completeBackoff  = 20 * time.Millisecond
)

// SessionUpdate is a partial change to the open session. Setting Completed
// finalizes it.
type SessionUpdate struct {
	SessionName *string
	Intensity   *int
	Notes       *string
	Completed   *bool
}

type SessionService interface {
	// CurrentSession returns the open session with its climbs, or ErrNoOpenSession.
	CurrentSession(ctx context.Context, userID primitive.ObjectID) (*SessionWithClimbs, error)
	UpdateCurrentSession(ctx context.Context, userID primitive.ObjectID, update SessionUpdate) (*SessionView, error)
	ListSessions(ctx context.Context, userID primitive.ObjectID) ([]SessionView, error)
	SessionDetail(ctx context.Context, userID, sessionID primitive.ObjectID) (*SessionWithClimbs, error)
}

type sessionService struct {
	userRepo    repository.UserRepository
	sessionRepo repository.SessionRepository
	climbRepo   repository.ClimbRepository
	viewer      viewer
	logger      *zap.Logger
}

func NewSessionService(
	userRepo repository.UserRepository,
	sessionRepo repository.SessionRepository,
	climbRepo repository.ClimbRepository,
	fileStorage storage.FileStorage,
	downloadExpiry time.Duration,
	logger *zap.Logger,
) SessionService {
	return &sessionService{
		userRepo:    userRepo,
		sessionRepo: sessionRepo,
		climbRepo:   climbRepo,
		viewer:      viewer{fileStorage: fileStorage, downloadExpiry: downloadExpiry, logger: logger},
		logger:      logger,
	}
}

func (s *sessionService) withClimbs(ctx context.Context, session *domain.Session, frenchDisplay bool) (*SessionWithClimbs, error) {
	climbs, err := s.climbRepo.ListBySession(ctx, session.ID)
	if err != nil {
		return nil, err
	}
	return &SessionWithClimbs{
		Session: sessionView(*session, frenchDisplay),
		Climbs:  s.viewer.climbs(ctx, climbs, frenchDisplay),
	}, nil
}

func (s *sessionService) CurrentSession(ctx context.Context, userID primitive.ObjectID) (*SessionWithClimbs, error) {
	user, err := loadUser(ctx, s.userRepo, userID)
	if err != nil {
		return nil, err
	}
	session, err := s.sessionRepo.GetOpenByUser(ctx, userID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrNoOpenSession
		}
		return nil, err
	}
	return s.withClimbs(ctx, session, user.GradingPreference)
}

func (s *sessionService) UpdateCurrentSession(ctx context.Context, userID primitive.ObjectID, update SessionUpdate) (*SessionView, error) {
	user, err := loadUser(ctx, s.userRepo, userID)
	if err != nil {
		return nil, err
	}
	if update.Intensity != nil && (*update.Intensity < domain.MinIntensity || *update.Intensity > domain.MaxIntensity) {
		return nil, ErrInvalidIntensity
	}

	var sessionID primitive.ObjectID
	if update.Completed != nil && *update.Completed {
		sessionID, err = s.complete(ctx, userID, update)
	} else {
		sessionID, err = s.updateOpen(ctx, userID, update)
	}
	if err != nil {
		return nil, err
	}

	updated, err := s.sessionRepo.GetByID(ctx, sessionID)
	if err != nil {
		return nil, err
	}
	view := sessionView(*updated, user.GradingPreference)
	return &view, nil
}

func (s *sessionService) openSession(ctx context.Context, userID primitive.ObjectID) (*domain.Session, error) {
	session, err := s.sessionRepo.GetOpenByUser(ctx, userID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrNoOpenSession
		}
		return nil, err
	}
	return session, nil
}

func mergeDetails(session *domain.Session, update SessionUpdate) repository.SessionDetails {
	details := repository.SessionDetails{
		SessionName: session.SessionName,
		Intensity:   session.Intensity,
		Notes:       session.Notes,
	}
	if update.SessionName != nil {
		details.SessionName = strings.TrimSpace(*update.SessionName)
	}
	if update.Intensity != nil {
		details.Intensity = *update.Intensity
	}
	if update.Notes != nil {
		details.Notes = *update.Notes
	}
	return details
}

func (s *sessionService) updateOpen(ctx context.Context, userID primitive.ObjectID, update SessionUpdate) (primitive.ObjectID, error) {
	session, err := s.openSession(ctx, userID)
	if err != nil {
		return primitive.NilObjectID, err
	}
	if err := s.sessionRepo.UpdateDetails(ctx, session.ID, mergeDetails(session, update)); err != nil {
		// Completed by a concurrent request after we read it.
		if errors.Is(err, repository.ErrNotFound) {
			return primitive.NilObjectID, ErrNoOpenSession
		}
		return primitive.NilObjectID, err
	}
	return session.ID, nil
}

// complete aggregates the open session's climbs and stores them as its final
// stats together with the completion. The write only lands when no climb write
// is pending and none finished since the climbs were read.
func (s *sessionService) complete(ctx context.Context, userID primitive.ObjectID, update SessionUpdate) (primitive.ObjectID, error) {
	for attempt := 0; attempt < completeAttempts; attempt++ {
		if attempt > 0 {
			select {
			case <-ctx.Done():
				return primitive.NilObjectID, ctx.Err()
			case <-time.After(completeBackoff * time.Duration(attempt)):
			}
		}

		session, err := s.openSession(ctx, userID)
		if err != nil {
			return primitive.NilObjectID, err
		}
		climbs, err := s.climbRepo.ListBySession(ctx, session.ID)
		if err != nil {
			return primitive.NilObjectID, fmt.Errorf("list session climbs: %w", err)
		}

		err = s.sessionRepo.Complete(ctx, session.ID, session.Revision, mergeDetails(session, update), stats.Aggregate(climbs))
		switch {
		case err == nil:
			s.logger.Info("session completed",
				zap.String("userId", userID.Hex()),
				zap.String("sessionId", session.ID.Hex()),
				zap.Int("climbs", len(climbs)))
			return session.ID, nil
		case errors.Is(err, repository.ErrConflict):
			s.logger.Debug("climb writes pending, retrying completion", zap.String("sessionId", session.ID.Hex()), zap.Int("attempt", attempt+1))
		case errors.Is(err, repository.ErrNotFound):
			return primitive.NilObjectID, ErrNoOpenSession
		default:
			return primitive.NilObjectID, err
		}
	}
	return primitive.NilObjectID, ErrSessionBusy
}

func (s *sessionService) ListSessions(ctx context.Context, userID primitive.ObjectID) ([]SessionView, error) {
	user, err := loadUser(ctx, s.userRepo, userID)
	if err != nil {
		return nil, err
	}
	sessions, err := s.sessionRepo.ListByUser(ctx, userID)
	if err != nil {
		return nil, err
	}
	views := make([]SessionView, len(sessions))
	for i, session := range sessions {
		views[i] = sessionView(session, user.GradingPreference)
	}
	return views, nil
}

func (s *sessionService) SessionDetail(ctx context.Context, userID, sessionID primitive.ObjectID) (*SessionWithClimbs, error) {
	user, err := loadUser(ctx, s.userRepo, userID)
	if err != nil {
		return nil, err
	}
	session, err := s.sessionRepo.GetByID(ctx, sessionID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrSessionNotFound
		}
		return nil, err
	}
	if session.UserID != userID {
		return nil, ErrSessionAccessDenied
	}
	return s.withClimbs(ctx, session, user.GradingPreference)
}
