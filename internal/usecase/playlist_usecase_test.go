package usecase

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/videotube/backend/internal/apperr"
	"github.com/videotube/backend/internal/testsupport"
)

func TestPlaylists(t *testing.T) {
	ctx := context.Background()
	store := testsupport.NewStore()
	playlists := NewPlaylistUsecase(store.Playlists(), store.Videos(), store.Users())
	alice := store.SeedUser("alice", "secret")
	bob := store.SeedUser("bob", "secret")
	public := store.SeedVideo(alice.ID, "public", true)
	draft := store.SeedVideo(alice.ID, "draft", false)

	playlist, err := playlists.Create(ctx, alice.ID, "mix", "my mix")
	require.NoError(t, err)
	_, err = playlists.Create(ctx, alice.ID, "", "my mix")
	requireKind(t, err, apperr.KindBadRequest)

	for _, videoID := range []uuid.UUID{public.ID, public.ID, draft.ID} {
		_, err = playlists.AddVideo(ctx, alice.ID, videoID, playlist.ID)
		require.NoError(t, err)
	}
	stored, err := store.Playlists().GetByID(ctx, playlist.ID)
	require.NoError(t, err)
	assert.Len(t, stored.Videos, 2, "adding the same video twice keeps one entry")

	detail, err := playlists.Get(ctx, playlist.ID)
	require.NoError(t, err)
	assert.Equal(t, 1, detail.TotalVideos, "unpublished videos are hidden")
	assert.Equal(t, "alice", detail.Owner.Username)

	summaries, err := playlists.ListByUser(ctx, alice.ID)
	require.NoError(t, err)
	require.Len(t, summaries, 1)
	assert.Equal(t, 2, summaries[0].TotalVideos)

	_, err = playlists.AddVideo(ctx, bob.ID, public.ID, playlist.ID)
	requireKind(t, err, apperr.KindForbidden)
	_, err = playlists.AddVideo(ctx, alice.ID, uuid.New(), playlist.ID)
	requireKind(t, err, apperr.KindNotFound)
	_, err = playlists.AddVideo(ctx, alice.ID, public.ID, uuid.New())
	requireKind(t, err, apperr.KindNotFound)

	updated, err := playlists.RemoveVideo(ctx, alice.ID, public.ID, playlist.ID)
	require.NoError(t, err)
	assert.Equal(t, []uuid.UUID{draft.ID}, updated.Videos)

	_, err = playlists.Update(ctx, bob.ID, playlist.ID, "x", "y")
	requireKind(t, err, apperr.KindForbidden)
	renamed, err := playlists.Update(ctx, alice.ID, playlist.ID, "renamed", "desc")
	require.NoError(t, err)
	assert.Equal(t, "renamed", renamed.Name)

	err = playlists.Delete(ctx, bob.ID, playlist.ID)
	requireKind(t, err, apperr.KindForbidden)
	require.NoError(t, playlists.Delete(ctx, alice.ID, playlist.ID))
	_, err = playlists.Get(ctx, playlist.ID)
	requireKind(t, err, apperr.KindNotFound)
}
