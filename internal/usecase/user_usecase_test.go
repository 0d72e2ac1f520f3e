package usecase

import (
	"context"
	"os"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/videotube/backend/internal/apperr"
	"github.com/videotube/backend/internal/testsupport"
)

func newUsers(t *testing.T) (*UserUsecase, *AuthUsecase, *testsupport.Store, *testsupport.MediaHost) {
	t.Helper()
	store := testsupport.NewStore()
	media := testsupport.NewMediaHost()
	return NewUserUsecase(store.Users(), media), NewAuthUsecase(store.Users(), NewTokenManager(testJWTConfig())), store, media
}

func registerInput(t *testing.T, username string) RegisterInput {
	return RegisterInput{
		FullName:   "Full " + username,
		Email:      username + "@example.com",
		Username:   username,
		Password:   "password1",
		AvatarPath: testsupport.TempFile(t, "avatar.png", "png"),
	}
}

func TestRegister(t *testing.T) {
	ctx := context.Background()
	users, _, _, media := newUsers(t)

	in := registerInput(t, "Alice")
	in.CoverPath = testsupport.TempFile(t, "cover.jpg", "jpg")
	user, err := users.Register(ctx, in)
	require.NoError(t, err)

	assert.Equal(t, "alice", user.Username)
	assert.Equal(t, "alice@example.com", user.Email)
	assert.NotEmpty(t, user.Avatar)
	assert.NotEmpty(t, user.CoverImage)
	assert.NotEqual(t, "password1", user.PasswordHash)
	assert.Len(t, media.Uploaded, 2)

	_, statErr := os.Stat(in.AvatarPath)
	assert.True(t, os.IsNotExist(statErr))
}

func TestRegister_Validation(t *testing.T) {
	ctx := context.Background()
	users, _, store, media := newUsers(t)
	store.SeedUser("alice", "secret")

	in := registerInput(t, "bob")
	in.FullName = "  "
	_, err := users.Register(ctx, in)
	requireKind(t, err, apperr.KindBadRequest)
	assert.Equal(t, []string{"fullName"}, apperr.As(err).Details)

	_, err = users.Register(ctx, registerInput(t, "alice"))
	requireKind(t, err, apperr.KindConflict)

	in = registerInput(t, "carol")
	in.AvatarPath = ""
	_, err = users.Register(ctx, in)
	requireKind(t, err, apperr.KindBadRequest)

	media.FailOn = "avatars"
	_, err = users.Register(ctx, registerInput(t, "dave"))
	requireKind(t, err, apperr.KindInternal)
}

func TestChangePassword_OldPasswordStopsWorking(t *testing.T) {
	ctx := context.Background()
	users, auth, _, _ := newUsers(t)

	user, err := users.Register(ctx, registerInput(t, "alice"))
	require.NoError(t, err)
	_, _, err = auth.Login(ctx, LoginInput{Username: "alice", Password: "password1"})
	require.NoError(t, err)

	err = users.ChangePassword(ctx, user.ID, "wrong", "password2")
	requireKind(t, err, apperr.KindBadRequest)

	require.NoError(t, users.ChangePassword(ctx, user.ID, "password1", "password2"))

	_, _, err = auth.Login(ctx, LoginInput{Username: "alice", Password: "password1"})
	requireKind(t, err, apperr.KindUnauthorized)
	_, _, err = auth.Login(ctx, LoginInput{Username: "alice", Password: "password2"})
	require.NoError(t, err)
}

func TestUpdateAccount(t *testing.T) {
	ctx := context.Background()
	users, _, store, _ := newUsers(t)
	alice := store.SeedUser("alice", "secret")
	store.SeedUser("bob", "secret")

	updated, err := users.UpdateAccount(ctx, alice.ID, "Alice A", "ALICE2@example.com")
	require.NoError(t, err)
	assert.Equal(t, "alice2@example.com", updated.Email)
	assert.Equal(t, "Alice A", updated.FullName)

	_, err = users.UpdateAccount(ctx, alice.ID, "Alice", "bob@example.com")
	requireKind(t, err, apperr.KindConflict)

	_, err = users.UpdateAccount(ctx, alice.ID, "", "x@example.com")
	requireKind(t, err, apperr.KindBadRequest)
}

func TestUpdateAvatar_ReplacesPreviousObject(t *testing.T) {
	ctx := context.Background()
	users, _, _, media := newUsers(t)
	user, err := users.Register(ctx, registerInput(t, "alice"))
	require.NoError(t, err)

	updated, err := users.UpdateAvatar(ctx, user, testsupport.TempFile(t, "new.png", "png"))
	require.NoError(t, err)
	assert.NotEqual(t, user.Avatar, updated.Avatar)
	assert.Equal(t, []string{user.Avatar}, media.Deleted)

	_, err = users.UpdateAvatar(ctx, user, "")
	requireKind(t, err, apperr.KindBadRequest)
}

func TestGetChannelProfile(t *testing.T) {
	ctx := context.Background()
	users, _, store, _ := newUsers(t)
	alice := store.SeedUser("alice", "secret")
	bob := store.SeedUser("bob", "secret")
	subs := NewSubscriptionUsecase(store.Subscriptions(), store.Users())
	_, err := subs.Toggle(ctx, bob.ID, alice.ID)
	require.NoError(t, err)

	profile, err := users.GetChannelProfile(ctx, "ALICE", bob.ID)
	require.NoError(t, err)
	assert.Equal(t, 1, profile.SubscribersCount)
	assert.True(t, profile.IsSubscribed)

	_, err = users.GetChannelProfile(ctx, "nobody", bob.ID)
	requireKind(t, err, apperr.KindNotFound)
}
