// Package memory implements the repository interfaces in process memory.
// It backs the "memory" database driver for local runs and the tests.
package memory

import (
	"context"
	"sort"
	"sync"
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"

	"climblog/climbing-app/internal/domain"
	"climblog/climbing-app/internal/repository"
)

// Store holds all collections behind one lock.
type Store struct {
	mu       sync.RWMutex
	users    map[primitive.ObjectID]domain.User
	sessions map[primitive.ObjectID]domain.Session
	climbs   map[string]domain.Climb
	uploads  map[primitive.ObjectID]domain.Upload

	// insertion order of climbs, so listings are stable when timestamps tie
	climbSeq map[string]uint64
	nextSeq  uint64
}

func NewStore() *Store {
	return &Store{
		users:    make(map[primitive.ObjectID]domain.User),
		sessions: make(map[primitive.ObjectID]domain.Session),
		climbs:   make(map[string]domain.Climb),
		uploads:  make(map[primitive.ObjectID]domain.Upload),
		climbSeq: make(map[string]uint64),
	}
}

func (s *Store) Users() repository.UserRepository       { return userRepo{s} }
func (s *Store) Sessions() repository.SessionRepository { return sessionRepo{s} }
func (s *Store) Climbs() repository.ClimbRepository     { return climbRepo{s} }
func (s *Store) Uploads() repository.UploadRepository   { return uploadRepo{s} }

// --- users ---

type userRepo struct{ s *Store }

func (r userRepo) Create(_ context.Context, user *domain.User) (primitive.ObjectID, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	for _, u := range r.s.users {
		if u.Email == user.Email {
			return primitive.NilObjectID, repository.ErrConflict
		}
	}
	user.ID = primitive.NewObjectID()
	now := time.Now().UTC()
	user.CreatedAt = now
	user.UpdatedAt = now
	r.s.users[user.ID] = *user
	return user.ID, nil
}

func (r userRepo) GetByEmail(_ context.Context, email string) (*domain.User, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	for _, u := range r.s.users {
		if u.Email == email {
			return &u, nil
		}
	}
	return nil, repository.ErrNotFound
}

func (r userRepo) GetByID(_ context.Context, id primitive.ObjectID) (*domain.User, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	u, ok := r.s.users[id]
	if !ok {
		return nil, repository.ErrNotFound
	}
	return &u, nil
}

func (r userRepo) UpdateProfile(_ context.Context, id primitive.ObjectID, update domain.ProfileUpdate) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	u, ok := r.s.users[id]
	if !ok {
		return repository.ErrNotFound
	}
	if update.GradingPreference != nil {
		u.GradingPreference = *update.GradingPreference
	}
	if update.MeasurementSystem != nil {
		u.MeasurementSystem = *update.MeasurementSystem
	}
	if update.FullName != nil {
		u.FullName = update.FullName
	}
	if update.Age != nil {
		u.Age = update.Age
	}
	if update.Height != nil {
		u.Height = update.Height
	}
	if update.Weight != nil {
		u.Weight = update.Weight
	}
	if update.ApeIndex != nil {
		u.ApeIndex = update.ApeIndex
	}
	u.UpdatedAt = time.Now().UTC()
	r.s.users[id] = u
	return nil
}

func (r userRepo) SetProfileImage(_ context.Context, id primitive.ObjectID, objectKey string) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	u, ok := r.s.users[id]
	if !ok {
		return repository.ErrNotFound
	}
	u.ProfileImage = objectKey
	u.UpdatedAt = time.Now().UTC()
	r.s.users[id] = u
	return nil
}

func (r userRepo) Delete(_ context.Context, id primitive.ObjectID) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if _, ok := r.s.users[id]; !ok {
		return repository.ErrNotFound
	}
	delete(r.s.users, id)
	return nil
}

// --- sessions ---

type sessionRepo struct{ s *Store }

func (r sessionRepo) Create(_ context.Context, session *domain.Session) (primitive.ObjectID, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	for _, existing := range r.s.sessions {
		if existing.UserID == session.UserID && !existing.Completed {
			return primitive.NilObjectID, repository.ErrConflict
		}
	}
	session.ID = primitive.NewObjectID()
	session.Completed = false
	session.CompletedAt = nil
	session.Revision = 0
	session.PendingWrites = 0
	session.LastWriteAt = nil
	now := time.Now().UTC()
	session.CreatedAt = now
	session.UpdatedAt = now
	r.s.sessions[session.ID] = *session
	return session.ID, nil
}

func (r sessionRepo) GetByID(_ context.Context, id primitive.ObjectID) (*domain.Session, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	session, ok := r.s.sessions[id]
	if !ok {
		return nil, repository.ErrNotFound
	}
	return &session, nil
}

func (r sessionRepo) GetOpenByUser(_ context.Context, userID primitive.ObjectID) (*domain.Session, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	for _, session := range r.s.sessions {
		if session.UserID == userID && !session.Completed {
			return &session, nil
		}
	}
	return nil, repository.ErrNotFound
}

func (r sessionRepo) ListByUser(_ context.Context, userID primitive.ObjectID) ([]domain.Session, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	var out []domain.Session
	for _, session := range r.s.sessions {
		if session.UserID == userID {
			out = append(out, session)
		}
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].CreatedAt.Equal(out[j].CreatedAt) {
			return out[i].ID.Hex() > out[j].ID.Hex()
		}
		return out[i].CreatedAt.After(out[j].CreatedAt)
	})
	return out, nil
}

func (r sessionRepo) UpdateDetails(_ context.Context, id primitive.ObjectID, details repository.SessionDetails) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	session, ok := r.s.sessions[id]
	if !ok || session.Completed {
		return repository.ErrNotFound
	}
	session.SessionName = details.SessionName
	session.Intensity = details.Intensity
	session.Notes = details.Notes
	session.UpdatedAt = time.Now().UTC()
	r.s.sessions[id] = session
	return nil
}

func (r sessionRepo) Complete(_ context.Context, id primitive.ObjectID, expectedRevision int64, details repository.SessionDetails, stats domain.SessionStats) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	session, ok := r.s.sessions[id]
	if !ok || session.Completed {
		return repository.ErrNotFound
	}
	now := time.Now().UTC()
	settled := session.PendingWrites <= 0 ||
		(session.LastWriteAt != nil && session.LastWriteAt.Before(now.Add(-repository.StaleClimbWriteAfter)))
	if session.Revision != expectedRevision || !settled {
		return repository.ErrConflict
	}
	session.SessionName = details.SessionName
	session.Intensity = details.Intensity
	session.Notes = details.Notes
	session.SessionStats = stats
	session.Completed = true
	session.CompletedAt = &now
	session.UpdatedAt = now
	r.s.sessions[id] = session
	return nil
}

func (r sessionRepo) BeginClimbWrite(_ context.Context, id primitive.ObjectID) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	session, ok := r.s.sessions[id]
	if !ok || session.Completed {
		return repository.ErrNotFound
	}
	now := time.Now().UTC()
	session.PendingWrites++
	session.LastWriteAt = &now
	r.s.sessions[id] = session
	return nil
}

func (r sessionRepo) EndClimbWrite(_ context.Context, id primitive.ObjectID, stats *domain.SessionStats) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	session, ok := r.s.sessions[id]
	if !ok || session.Completed {
		return repository.ErrNotFound
	}
	session.PendingWrites--
	session.Revision++
	if stats != nil {
		session.SessionStats = *stats
	}
	session.UpdatedAt = time.Now().UTC()
	r.s.sessions[id] = session
	return nil
}

func (r sessionRepo) DeleteByUser(_ context.Context, userID primitive.ObjectID) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	for id, session := range r.s.sessions {
		if session.UserID == userID {
			delete(r.s.sessions, id)
		}
	}
	return nil
}

// --- climbs ---

type climbRepo struct{ s *Store }

func (r climbRepo) Create(_ context.Context, climb *domain.Climb) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if _, exists := r.s.climbs[climb.ID]; exists {
		return repository.ErrConflict
	}
	now := time.Now().UTC()
	climb.CreatedAt = now
	climb.UpdatedAt = now
	r.s.climbs[climb.ID] = *climb
	r.s.nextSeq++
	r.s.climbSeq[climb.ID] = r.s.nextSeq
	return nil
}

func (r climbRepo) GetByID(_ context.Context, id string) (*domain.Climb, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	climb, ok := r.s.climbs[id]
	if !ok {
		return nil, repository.ErrNotFound
	}
	return &climb, nil
}

func (r climbRepo) ListBySession(_ context.Context, sessionID primitive.ObjectID) ([]domain.Climb, error) {
	return r.list(func(c domain.Climb) bool { return c.SessionID == sessionID }), nil
}

func (r climbRepo) ListByUser(_ context.Context, userID primitive.ObjectID) ([]domain.Climb, error) {
	return r.list(func(c domain.Climb) bool { return c.UserID == userID }), nil
}

func (r climbRepo) list(match func(domain.Climb) bool) []domain.Climb {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	var out []domain.Climb
	for _, climb := range r.s.climbs {
		if match(climb) {
			out = append(out, climb)
		}
	}
	sort.Slice(out, func(i, j int) bool {
		return r.s.climbSeq[out[i].ID] < r.s.climbSeq[out[j].ID]
	})
	return out
}

func (r climbRepo) Update(_ context.Context, climb *domain.Climb) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	stored, ok := r.s.climbs[climb.ID]
	if !ok {
		return repository.ErrNotFound
	}
	stored.Name = climb.Name
	stored.Type = climb.Type
	stored.Style = climb.Style
	stored.Grade = climb.Grade
	stored.Attempts = climb.Attempts
	stored.Send = climb.Send
	stored.UpdatedAt = time.Now().UTC()
	climb.UpdatedAt = stored.UpdatedAt
	r.s.climbs[climb.ID] = stored
	return nil
}

func (r climbRepo) SetImage(_ context.Context, id string, objectKey string) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	climb, ok := r.s.climbs[id]
	if !ok {
		return repository.ErrNotFound
	}
	climb.ClimbImage = objectKey
	climb.UpdatedAt = time.Now().UTC()
	r.s.climbs[id] = climb
	return nil
}

func (r climbRepo) Delete(_ context.Context, id string) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if _, ok := r.s.climbs[id]; !ok {
		return repository.ErrNotFound
	}
	delete(r.s.climbs, id)
	delete(r.s.climbSeq, id)
	return nil
}

func (r climbRepo) DeleteByUser(_ context.Context, userID primitive.ObjectID) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	for id, climb := range r.s.climbs {
		if climb.UserID == userID {
			delete(r.s.climbs, id)
			delete(r.s.climbSeq, id)
		}
	}
	return nil
}

// --- uploads ---

type uploadRepo struct{ s *Store }

func (r uploadRepo) Create(_ context.Context, upload *domain.Upload) (primitive.ObjectID, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	for _, existing := range r.s.uploads {
		if existing.S3ObjectKey == upload.S3ObjectKey {
			return primitive.NilObjectID, repository.ErrConflict
		}
	}
	upload.ID = primitive.NewObjectID()
	upload.UploadedAt = time.Now().UTC()
	r.s.uploads[upload.ID] = *upload
	return upload.ID, nil
}

func (r uploadRepo) GetByKey(_ context.Context, objectKey string) (*domain.Upload, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	for _, upload := range r.s.uploads {
		if upload.S3ObjectKey == objectKey {
			return &upload, nil
		}
	}
	return nil, repository.ErrNotFound
}

func (r uploadRepo) ListByOwner(_ context.Context, ownerID primitive.ObjectID) ([]domain.Upload, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	var out []domain.Upload
	for _, upload := range r.s.uploads {
		if upload.OwnerID == ownerID {
			out = append(out, upload)
		}
	}
	return out, nil
}

func (r uploadRepo) DeleteByOwner(_ context.Context, ownerID primitive.ObjectID) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	for id, upload := range r.s.uploads {
		if upload.OwnerID == ownerID {
			delete(r.s.uploads, id)
		}
	}
	return nil
}
