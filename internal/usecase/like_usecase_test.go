package usecase

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/videotube/backend/internal/apperr"
	"github.com/videotube/backend/internal/domain"
	"github.com/videotube/backend/internal/testsupport"
)

func newLikes(store *testsupport.Store) *LikeUsecase {
	return NewLikeUsecase(store.Likes(), store.Videos(), store.Comments(), store.Tweets())
}

func TestToggleLike_SecondCallUnlikes(t *testing.T) {
	ctx := context.Background()
	store := testsupport.NewStore()
	likes := newLikes(store)
	alice := store.SeedUser("alice", "secret")
	bob := store.SeedUser("bob", "secret")
	video := store.SeedVideo(alice.ID, "clip", true)
	target := domain.LikeTarget{Kind: domain.LikeVideo, ID: video.ID}

	liked, err := likes.Toggle(ctx, bob.ID, target)
	require.NoError(t, err)
	assert.True(t, liked)
	assert.Equal(t, 1, store.LikeCount(target))

	liked, err = likes.Toggle(ctx, bob.ID, target)
	require.NoError(t, err)
	assert.False(t, liked)
	assert.Zero(t, store.LikeCount(target))
}

func TestToggleLike_UnpublishedVideoIsHidden(t *testing.T) {
	ctx := context.Background()
	store := testsupport.NewStore()
	likes := newLikes(store)
	alice := store.SeedUser("alice", "secret")
	bob := store.SeedUser("bob", "secret")
	draft := store.SeedVideo(alice.ID, "draft", false)
	target := domain.LikeTarget{Kind: domain.LikeVideo, ID: draft.ID}

	_, err := likes.Toggle(ctx, bob.ID, target)
	requireKind(t, err, apperr.KindNotFound)
	count, err := store.Likes().CountByTarget(ctx, target)
	require.NoError(t, err)
	assert.Zero(t, count)

	liked, err := likes.Toggle(ctx, alice.ID, target)
	require.NoError(t, err)
	assert.True(t, liked)
}

func TestToggleLike_AllTargets(t *testing.T) {
	ctx := context.Background()
	store := testsupport.NewStore()
	likes := newLikes(store)
	alice := store.SeedUser("alice", "secret")
	video := store.SeedVideo(alice.ID, "clip", true)
	comment := store.SeedComment(alice.ID, video.ID, "hi")
	tweet := store.SeedTweet(alice.ID, "hello")

	for _, target := range []domain.LikeTarget{
		{Kind: domain.LikeComment, ID: comment.ID},
		{Kind: domain.LikeTweet, ID: tweet.ID},
	} {
		liked, err := likes.Toggle(ctx, alice.ID, target)
		require.NoError(t, err)
		assert.True(t, liked, string(target.Kind))
	}

	for _, kind := range []domain.LikeKind{domain.LikeVideo, domain.LikeComment, domain.LikeTweet} {
		_, err := likes.Toggle(ctx, alice.ID, domain.LikeTarget{Kind: kind, ID: uuid.New()})
		requireKind(t, err, apperr.KindNotFound)
	}
}

func TestLikedVideos(t *testing.T) {
	ctx := context.Background()
	store := testsupport.NewStore()
	likes := newLikes(store)
	alice := store.SeedUser("alice", "secret")
	first := store.SeedVideo(alice.ID, "first", true)
	second := store.SeedVideo(alice.ID, "second", true)
	draft := store.SeedVideo(alice.ID, "draft", false)

	for _, v := range []*domain.Video{first, second, draft} {
		_, err := likes.Toggle(ctx, alice.ID, domain.LikeTarget{Kind: domain.LikeVideo, ID: v.ID})
		require.NoError(t, err)
	}

	liked, err := likes.LikedVideos(ctx, alice.ID)
	require.NoError(t, err)
	require.Len(t, liked, 2)
	assert.Equal(t, second.ID, liked[0].LikedVideo.ID)
	assert.Equal(t, "alice", liked[0].LikedVideo.Owner.Username)
}
