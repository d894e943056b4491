package repository

import (
	"climblog/climbing-app/internal/domain" // Import our defined domain models
	"context"
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive" // For using ObjectIDs
)

// Error constants for repository layer
var (
	ErrNotFound     = RepositoryError("not found")
	ErrConflict     = RepositoryError("conflict")
	ErrUpdateFailed = RepositoryError("update failed")
	ErrDeleteFailed = RepositoryError("delete failed")
)

// RepositoryError helps distinguish repository errors
type RepositoryError string

func (e RepositoryError) Error() string {
	return string(e)
}

// StaleClimbWriteAfter is how long a climb write that never finished may hold
// off completing its session. It is far longer than any request may run.
const StaleClimbWriteAfter = 30 * time.Second

// SessionDetails holds the user-editable fields of a session.
type SessionDetails struct {
	SessionName string
	Intensity   int
	Notes       string
}

// UserRepository defines the interface for interacting with user data.
type UserRepository interface {
	Create(ctx context.Context, user *domain.User) (primitive.ObjectID, error) // ErrConflict on duplicate email
	GetByEmail(ctx context.Context, email string) (*domain.User, error)
	GetByID(ctx context.Context, id primitive.ObjectID) (*domain.User, error)
	UpdateProfile(ctx context.Context, id primitive.ObjectID, update domain.ProfileUpdate) error
	SetProfileImage(ctx context.Context, id primitive.ObjectID, objectKey string) error
	Delete(ctx context.Context, id primitive.ObjectID) error
}

// SessionRepository defines the interface for interacting with climbing sessions.
type SessionRepository interface {
	// Create inserts a new open session. Returns ErrConflict if the user already has one.
	Create(ctx context.Context, session *domain.Session) (primitive.ObjectID, error)
	GetByID(ctx context.Context, id primitive.ObjectID) (*domain.Session, error)
	GetOpenByUser(ctx context.Context, userID primitive.ObjectID) (*domain.Session, error)
	ListByUser(ctx context.Context, userID primitive.ObjectID) ([]domain.Session, error) // Newest first
	// UpdateDetails only matches sessions that are still open.
	UpdateDetails(ctx context.Context, id primitive.ObjectID, details SessionDetails) error
	// Complete stores details and final stats and marks the session completed in
	// one write. It returns ErrConflict while a climb write is pending or once
	// the revision moved past expectedRevision, and ErrNotFound when the session
	// is missing or already completed.
	Complete(ctx context.Context, id primitive.ObjectID, expectedRevision int64, details SessionDetails, stats domain.SessionStats) error
	// BeginClimbWrite registers a pending climb write on an open session.
	// ErrNotFound means the session is missing or completed.
	BeginClimbWrite(ctx context.Context, id primitive.ObjectID) error
	// EndClimbWrite releases a pending write, bumps the revision and stores
	// stats when non-nil.
	EndClimbWrite(ctx context.Context, id primitive.ObjectID, stats *domain.SessionStats) error
	DeleteByUser(ctx context.Context, userID primitive.ObjectID) error
}

// ClimbRepository defines the interface for interacting with logged climbs.
type ClimbRepository interface {
	Create(ctx context.Context, climb *domain.Climb) error // ErrConflict on duplicate ID
	GetByID(ctx context.Context, id string) (*domain.Climb, error)
	ListBySession(ctx context.Context, sessionID primitive.ObjectID) ([]domain.Climb, error) // Oldest first
	ListByUser(ctx context.Context, userID primitive.ObjectID) ([]domain.Climb, error)
	// Update rewrites name, type, style, grade, attempts and send.
	Update(ctx context.Context, climb *domain.Climb) error
	SetImage(ctx context.Context, id string, objectKey string) error
	Delete(ctx context.Context, id string) error
	DeleteByUser(ctx context.Context, userID primitive.ObjectID) error
}

// UploadRepository defines the interface for interacting with upload metadata.
type UploadRepository interface {
	Create(ctx context.Context, upload *domain.Upload) (primitive.ObjectID, error)
	GetByKey(ctx context.Context, objectKey string) (*domain.Upload, error)
	ListByOwner(ctx context.Context, ownerID primitive.ObjectID) ([]domain.Upload, error)
	DeleteByOwner(ctx context.Context, ownerID primitive.ObjectID) error
}
