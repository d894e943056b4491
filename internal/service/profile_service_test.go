package service

import (
	"climblog/climbing-app/internal/domain"
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

func TestUpdateProfile(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	uid := f.register(t, "a@example.com", false)

	p, err := f.profiles.UpdateProfile(ctx, uid, domain.ProfileUpdate{
		FullName: ptr(" Alex Honnold "),
		Age:      ptr(30),
		Height:   ptr(180.5),
		ApeIndex: ptr(-2.0),
	})
	require.NoError(t, err)
	assert.Equal(t, "Alex Honnold", *p.FullName)
	assert.Equal(t, 30, *p.Age)
	assert.Equal(t, -2.0, *p.ApeIndex)
	assert.True(t, p.MeasurementSystem, "metric is the default")
	assert.Nil(t, p.ProfileImageURL)

	_, err = f.profiles.UpdateProfile(ctx, uid, domain.ProfileUpdate{})
	assert.ErrorIs(t, err, ErrNothingToUpdate)
	_, err = f.profiles.UpdateProfile(ctx, uid, domain.ProfileUpdate{Age: ptr(-1)})
	assert.ErrorIs(t, err, ErrProfileValidation)
	_, err = f.profiles.UpdateProfile(ctx, uid, domain.ProfileUpdate{Weight: ptr(0.0)})
	assert.ErrorIs(t, err, ErrProfileValidation)
	_, err = f.profiles.UpdateProfile(ctx, primitive.NewObjectID(), domain.ProfileUpdate{Age: ptr(1)})
	assert.ErrorIs(t, err, ErrUserNotFound)
}

func TestProfileImage(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	uid := f.register(t, "a@example.com", false)

	up, err := f.profiles.RequestProfileImageURL(ctx, uid, "image/jpeg")
	require.NoError(t, err)
	assert.Contains(t, up.ObjectKey, uid.Hex())

	_, err = f.profiles.ConfirmProfileImage(ctx, uid, "profiles/"+primitive.NewObjectID().Hex()+"/a.jpg", "a.jpg", "image/jpeg", 1)
	assert.ErrorIs(t, err, ErrInvalidObjectKey)

	p, err := f.profiles.ConfirmProfileImage(ctx, uid, up.ObjectKey, "me.jpg", "image/jpeg", 2048)
	require.NoError(t, err)
	require.NotNil(t, p.ProfileImageURL)
	assert.Equal(t, "https://files.test/get/"+up.ObjectKey, *p.ProfileImageURL)

	next, err := f.profiles.RequestProfileImageURL(ctx, uid, "image/png")
	require.NoError(t, err)
	_, err = f.profiles.ConfirmProfileImage(ctx, uid, next.ObjectKey, "me.png", "image/png", 2048)
	require.NoError(t, err)
	assert.Equal(t, []string{up.ObjectKey}, f.files.Deleted())
}

func TestDeleteAccount(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	uid := f.register(t, "a@example.com", false)
	bystander := f.register(t, "b@example.com", false)

	c, err := f.climbs.LogClimb(ctx, uid, boulder("V3", 1, true))
	require.NoError(t, err)
	up, err := f.climbs.RequestClimbImageURL(ctx, uid, c.ID, "image/png")
	require.NoError(t, err)
	_, err = f.climbs.ConfirmClimbImage(ctx, uid, c.ID, up.ObjectKey, "x.png", "image/png", 1)
	require.NoError(t, err)
	_, err = f.climbs.LogClimb(ctx, bystander, boulder("V1", 1, true))
	require.NoError(t, err)

	require.NoError(t, f.profiles.DeleteAccount(ctx, uid))

	_, err = f.profiles.GetProfile(ctx, uid)
	assert.ErrorIs(t, err, ErrUserNotFound)
	_, _, err = f.auth.Login(ctx, "a@example.com", "password123")
	assert.ErrorIs(t, err, ErrAuthenticationFailed)
	assert.Equal(t, []string{up.ObjectKey}, f.files.Deleted())

	climbs, err := f.store.Climbs().ListByUser(ctx, uid)
	require.NoError(t, err)
	assert.Empty(t, climbs)
	sessions, err := f.store.Sessions().ListByUser(ctx, uid)
	require.NoError(t, err)
	assert.Empty(t, sessions)

	remaining, err := f.store.Climbs().ListByUser(ctx, bystander)
	require.NoError(t, err)
	assert.Len(t, remaining, 1)

	assert.ErrorIs(t, f.profiles.DeleteAccount(ctx, uid), ErrUserNotFound)
}
