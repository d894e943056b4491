package service

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRegisterAndLogin(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	user, err := f.auth.Register(ctx, " Alex ", "Alex@Example.com ", "hunter22")
	require.NoError(t, err)
	assert.Equal(t, "Alex", user.Name)
	assert.Equal(t, "alex@example.com", user.Email)
	assert.Empty(t, user.PasswordHash)
	assert.False(t, user.ID.IsZero())

	token, loggedIn, err := f.auth.Login(ctx, "ALEX@example.com", "hunter22")
	require.NoError(t, err)
	assert.Equal(t, user.ID, loggedIn.ID)
	assert.Empty(t, loggedIn.PasswordHash)

	uid, err := f.auth.ParseToken(token)
	require.NoError(t, err)
	assert.Equal(t, user.ID.Hex(), uid)
}

func TestRegisterRejectsDuplicateEmail(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	_, err := f.auth.Register(ctx, "A", "a@example.com", "pw")
	require.NoError(t, err)
	_, err = f.auth.Register(ctx, "B", "A@EXAMPLE.COM", "pw")
	assert.ErrorIs(t, err, ErrUserAlreadyExists)
}

func TestRegisterRequiresCredentials(t *testing.T) {
	f := newFixture(t)
	_, err := f.auth.Register(context.Background(), "", "a@example.com", "pw")
	assert.ErrorIs(t, err, ErrMissingCredentials)
	_, err = f.auth.Register(context.Background(), "A", "a@example.com", "")
	assert.ErrorIs(t, err, ErrMissingCredentials)
}

func TestLoginFailures(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	f.register(t, "a@example.com", false)

	_, _, err := f.auth.Login(ctx, "a@example.com", "wrong")
	assert.ErrorIs(t, err, ErrAuthenticationFailed)
	_, _, err = f.auth.Login(ctx, "nobody@example.com", "password123")
	assert.ErrorIs(t, err, ErrAuthenticationFailed)
}

func TestParseTokenRejectsBadTokens(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	f.register(t, "a@example.com", false)

	_, err := f.auth.ParseToken("not-a-token")
	assert.ErrorIs(t, err, ErrInvalidToken)

	other := NewAuthService(f.store.Users(), "other-secret", time.Hour)
	token, _, err := other.Login(ctx, "a@example.com", "password123")
	require.NoError(t, err)
	_, err = f.auth.ParseToken(token)
	assert.ErrorIs(t, err, ErrInvalidToken)

	expired := NewAuthService(f.store.Users(), "test-secret", time.Hour).(*authService)
	expired.now = func() time.Time { return time.Now().Add(-2 * time.Hour) }
	token, _, err = expired.Login(ctx, "a@example.com", "password123")
	require.NoError(t, err)
	_, err = f.auth.ParseToken(token)
	assert.ErrorIs(t, err, ErrTokenExpired)
}
