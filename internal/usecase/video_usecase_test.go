package usecase

import (
	"context"
	"math"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/videotube/backend/internal/apperr"
	"github.com/videotube/backend/internal/domain"
	"github.com/videotube/backend/internal/testsupport"
)

func newVideos(store *testsupport.Store, media *testsupport.MediaHost) *VideoUsecase {
	return NewVideoUsecase(store.Videos(), store.Comments(), store.Likes(), store.Playlists(), store.Users(), media)
}

func TestPublishVideo(t *testing.T) {
	ctx := context.Background()
	store, media := testsupport.NewStore(), testsupport.NewMediaHost()
	videos := newVideos(store, media)
	alice := store.SeedUser("alice", "secret")

	video, err := videos.Publish(ctx, alice.ID, PublishVideoInput{
		Title:         "First",
		Description:   "hello",
		Duration:      12.5,
		VideoPath:     testsupport.TempFile(t, "v.mp4", "video"),
		ThumbnailPath: testsupport.TempFile(t, "t.png", "png"),
	})
	require.NoError(t, err)
	assert.True(t, video.IsPublished)
	assert.Equal(t, alice.ID, video.OwnerID)
	assert.Len(t, media.Uploaded, 2)

	_, err = videos.Publish(ctx, alice.ID, PublishVideoInput{Title: "x", Description: "y"})
	requireKind(t, err, apperr.KindBadRequest)

	for _, duration := range []float64{-1, math.NaN(), math.Inf(1), math.Inf(-1)} {
		_, err = videos.Publish(ctx, alice.ID, PublishVideoInput{
			Title:         "Bad",
			Description:   "duration",
			Duration:      duration,
			VideoPath:     testsupport.TempFile(t, "bad.mp4", "video"),
			ThumbnailPath: testsupport.TempFile(t, "bad.png", "png"),
		})
		requireKind(t, err, apperr.KindBadRequest)
	}
	assert.Len(t, media.Uploaded, 2, "invalid input never reaches the media host")

	media.FailOn = "thumbnails"
	_, err = videos.Publish(ctx, alice.ID, PublishVideoInput{
		Title:         "Second",
		Description:   "hello",
		VideoPath:     testsupport.TempFile(t, "v2.mp4", "video"),
		ThumbnailPath: testsupport.TempFile(t, "t2.png", "png"),
	})
	requireKind(t, err, apperr.KindInternal)
	assert.Len(t, media.Deleted, 1, "the uploaded video file is rolled back")
}

func TestListVideos_Visibility(t *testing.T) {
	ctx := context.Background()
	store := testsupport.NewStore()
	videos := newVideos(store, testsupport.NewMediaHost())
	alice := store.SeedUser("alice", "secret")
	bob := store.SeedUser("bob", "secret")
	store.SeedVideo(alice.ID, "public", true)
	store.SeedVideo(alice.ID, "draft", false)
	store.SeedVideo(bob.ID, "bobs", true)

	page, err := videos.List(ctx, bob.ID, ListVideosInput{})
	require.NoError(t, err)
	assert.Equal(t, 2, page.TotalDocs)

	page, err = videos.List(ctx, alice.ID, ListVideosInput{UserID: &alice.ID})
	require.NoError(t, err)
	assert.Equal(t, 2, page.TotalDocs, "owner sees drafts on their own channel")

	page, err = videos.List(ctx, bob.ID, ListVideosInput{UserID: &alice.ID})
	require.NoError(t, err)
	assert.Equal(t, 1, page.TotalDocs)

	page, err = videos.List(ctx, bob.ID, ListVideosInput{SortBy: "title", SortType: "asc", Limit: 1})
	require.NoError(t, err)
	require.Len(t, page.Docs, 1)
	assert.Equal(t, "bobs", page.Docs[0].Title)
	assert.True(t, page.HasNextPage)

	_, err = videos.List(ctx, bob.ID, ListVideosInput{SortBy: "owner"})
	requireKind(t, err, apperr.KindBadRequest)
}

func TestWatchVideo(t *testing.T) {
	ctx := context.Background()
	store := testsupport.NewStore()
	videos := newVideos(store, testsupport.NewMediaHost())
	alice := store.SeedUser("alice", "secret")
	bob := store.SeedUser("bob", "secret")
	public := store.SeedVideo(alice.ID, "public", true)
	draft := store.SeedVideo(alice.ID, "draft", false)
	store.SeedLike(domain.LikeTarget{Kind: domain.LikeVideo, ID: public.ID}, bob.ID)

	detail, err := videos.Watch(ctx, bob.ID, public.ID)
	require.NoError(t, err)
	assert.EqualValues(t, 1, detail.Views)
	assert.Equal(t, 1, detail.LikesCount)
	assert.True(t, detail.IsLiked)
	assert.Equal(t, "alice", detail.Owner.Username)

	history, err := NewUserUsecase(store.Users(), nil).GetWatchHistory(ctx, bob.ID)
	require.NoError(t, err)
	require.Len(t, history, 1)
	assert.Equal(t, public.ID, history[0].ID)

	_, err = videos.Watch(ctx, bob.ID, draft.ID)
	requireKind(t, err, apperr.KindNotFound)

	_, err = videos.Watch(ctx, alice.ID, draft.ID)
	require.NoError(t, err)

	_, err = videos.Watch(ctx, bob.ID, uuid.New())
	requireKind(t, err, apperr.KindNotFound)
}

func TestUpdateVideo_OwnerOnly(t *testing.T) {
	ctx := context.Background()
	store, media := testsupport.NewStore(), testsupport.NewMediaHost()
	videos := newVideos(store, media)
	alice := store.SeedUser("alice", "secret")
	bob := store.SeedUser("bob", "secret")
	video := store.SeedVideo(alice.ID, "clip", true)

	_, err := videos.Update(ctx, bob.ID, video.ID, UpdateVideoInput{Title: "t", Description: "d"})
	requireKind(t, err, apperr.KindForbidden)

	updated, err := videos.Update(ctx, alice.ID, video.ID, UpdateVideoInput{
		Title:         "new title",
		Description:   "new description",
		ThumbnailPath: testsupport.TempFile(t, "thumb.png", "png"),
	})
	require.NoError(t, err)
	assert.Equal(t, "new title", updated.Title)
	assert.NotEqual(t, video.Thumbnail, updated.Thumbnail)
	assert.Equal(t, []string{video.Thumbnail}, media.Deleted)
}

func TestTogglePublish(t *testing.T) {
	ctx := context.Background()
	store := testsupport.NewStore()
	videos := newVideos(store, testsupport.NewMediaHost())
	alice := store.SeedUser("alice", "secret")
	bob := store.SeedUser("bob", "secret")
	video := store.SeedVideo(alice.ID, "clip", true)

	published, err := videos.TogglePublish(ctx, alice.ID, video.ID)
	require.NoError(t, err)
	assert.False(t, published)

	_, err = videos.TogglePublish(ctx, bob.ID, video.ID)
	requireKind(t, err, apperr.KindForbidden)
}

func TestDeleteVideo_Cascades(t *testing.T) {
	ctx := context.Background()
	store, media := testsupport.NewStore(), testsupport.NewMediaHost()
	videos := newVideos(store, media)
	alice := store.SeedUser("alice", "secret")
	bob := store.SeedUser("bob", "secret")
	video := store.SeedVideo(alice.ID, "clip", true)
	comment := store.SeedComment(bob.ID, video.ID, "nice")
	videoTarget := domain.LikeTarget{Kind: domain.LikeVideo, ID: video.ID}
	commentTarget := domain.LikeTarget{Kind: domain.LikeComment, ID: comment.ID}
	store.SeedLike(videoTarget, bob.ID)
	store.SeedLike(commentTarget, alice.ID)

	playlists := NewPlaylistUsecase(store.Playlists(), store.Videos(), store.Users())
	playlist, err := playlists.Create(ctx, bob.ID, "mix", "stuff")
	require.NoError(t, err)
	_, err = playlists.AddVideo(ctx, bob.ID, video.ID, playlist.ID)
	require.NoError(t, err)

	err = videos.Delete(ctx, bob.ID, video.ID)
	requireKind(t, err, apperr.KindForbidden)

	require.NoError(t, videos.Delete(ctx, alice.ID, video.ID))

	_, err = store.Videos().GetByID(ctx, video.ID)
	assert.ErrorIs(t, err, domain.ErrNotFound)
	_, err = store.Comments().GetByID(ctx, comment.ID)
	assert.ErrorIs(t, err, domain.ErrNotFound)
	for _, target := range []domain.LikeTarget{videoTarget, commentTarget} {
		count, err := store.Likes().CountByTarget(ctx, target)
		require.NoError(t, err)
		assert.Zero(t, count, target.Kind)
	}

	stored, err := store.Playlists().GetByID(ctx, playlist.ID)
	require.NoError(t, err)
	assert.Empty(t, stored.Videos)
	assert.ElementsMatch(t, []string{video.VideoFile, video.Thumbnail}, media.Deleted)
}
