package testsupport

import (
	"context"

	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"

	"github.com/videotube/backend/internal/domain"
)

// SeedUser stores a user whose password is password.
func (s *Store) SeedUser(username, password string) *domain.User {
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.MinCost)
	if err != nil {
		panic(err)
	}
	user := &domain.User{
		Username:     username,
		Email:        username + "@example.com",
		FullName:     username,
		Avatar:       "https://media.test/avatars/" + username + ".png",
		PasswordHash: string(hash),
	}
	if err := s.Users().Create(context.Background(), user); err != nil {
		panic(err)
	}
	return user
}

func (s *Store) SeedVideo(ownerID uuid.UUID, title string, published bool) *domain.Video {
	video := &domain.Video{
		VideoFile:   "https://media.test/videos/" + title + ".mp4",
		Thumbnail:   "https://media.test/thumbnails/" + title + ".png",
		Title:       title,
		Description: title + " description",
		Duration:    60,
		IsPublished: published,
		OwnerID:     ownerID,
	}
	if err := s.Videos().Create(context.Background(), video); err != nil {
		panic(err)
	}
	return video
}

func (s *Store) SeedComment(ownerID, videoID uuid.UUID, content string) *domain.Comment {
	comment := &domain.Comment{Content: content, VideoID: videoID, OwnerID: ownerID}
	if err := s.Comments().Create(context.Background(), comment); err != nil {
		panic(err)
	}
	return comment
}

func (s *Store) SeedTweet(ownerID uuid.UUID, content string) *domain.Tweet {
	tweet := &domain.Tweet{Content: content, OwnerID: ownerID}
	if err := s.Tweets().Create(context.Background(), tweet); err != nil {
		panic(err)
	}
	return tweet
}

func (s *Store) SeedLike(target domain.LikeTarget, userID uuid.UUID) *domain.Like {
	like := domain.NewLike(target, userID)
	if err := s.Likes().Create(context.Background(), like); err != nil {
		panic(err)
	}
	return like
}
