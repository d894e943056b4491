package service

import (
	"climblog/climbing-app/internal/domain"
	"climblog/climbing-app/internal/repository/memory"
	"context"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.uber.org/goleak"
	"go.uber.org/zap"
)

func TestMain(m *testing.M) {
	goleak.VerifyTestMain(m)
}

// fakeStorage hands out predictable URLs and records deletions.
type fakeStorage struct {
	mu      sync.Mutex
	deleted []string
}

func (f *fakeStorage) GeneratePresignedUploadURL(_ context.Context, objectKey, _ string, _ time.Duration) (string, error) {
	return "https://files.test/put/" + objectKey, nil
}

func (f *fakeStorage) GeneratePresignedDownloadURL(_ context.Context, objectKey string, _ time.Duration) (string, error) {
	return "https://files.test/get/" + objectKey, nil
}

func (f *fakeStorage) DeleteObject(_ context.Context, objectKey string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.deleted = append(f.deleted, objectKey)
	return nil
}

func (f *fakeStorage) Deleted() []string {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]string(nil), f.deleted...)
}

type fixture struct {
	store    *memory.Store
	files    *fakeStorage
	auth     AuthService
	profiles ProfileService
	sessions SessionService
	climbs   ClimbService
	stats    StatsService
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	store := memory.NewStore()
	files := &fakeStorage{}
	logger := zap.NewNop()
	return &fixture{
		store:    store,
		files:    files,
		auth:     NewAuthService(store.Users(), "test-secret", time.Hour),
		profiles: NewProfileService(store.Users(), store.Sessions(), store.Climbs(), store.Uploads(), files, time.Minute, time.Hour, logger),
		sessions: NewSessionService(store.Users(), store.Sessions(), store.Climbs(), files, time.Hour, logger),
		climbs:   NewClimbService(store.Users(), store.Sessions(), store.Climbs(), store.Uploads(), files, time.Minute, time.Hour, logger),
		stats:    NewStatsService(store.Users(), store.Sessions(), store.Climbs()),
	}
}

// register creates a user, optionally preferring French grades.
func (f *fixture) register(t *testing.T, email string, french bool) primitive.ObjectID {
	t.Helper()
	user, err := f.auth.Register(context.Background(), "Climber", email, "password123")
	require.NoError(t, err)
	if french {
		_, err = f.profiles.UpdateProfile(context.Background(), user.ID, domain.ProfileUpdate{GradingPreference: &french})
		require.NoError(t, err)
	}
	return user.ID
}

func ptr[T any](v T) *T { return &v }
