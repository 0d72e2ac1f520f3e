package usecase

import (
	"context"
	"errors"
	"strings"

	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"

	"github.com/videotube/backend/internal/apperr"
	"github.com/videotube/backend/internal/domain"
)

type UserUsecase struct {
	userRepo domain.UserRepository
	media    MediaHost
}

func NewUserUsecase(userRepo domain.UserRepository, media MediaHost) *UserUsecase {
	return &UserUsecase{
		userRepo: userRepo,
		media:    media,
	}
}

type RegisterInput struct {
	FullName   string
	Email      string
	Username   string
	Password   string
	AvatarPath string
	CoverPath  string
}

func (u *UserUsecase) Register(ctx context.Context, in RegisterInput) (*domain.User, error) {
	fullName := strings.TrimSpace(in.FullName)
	email := strings.ToLower(strings.TrimSpace(in.Email))
	username := strings.ToLower(strings.TrimSpace(in.Username))

	var missing []string
	for _, f := range []struct{ name, value string }{
		{"fullName", fullName},
		{"email", email},
		{"username", username},
		{"password", strings.TrimSpace(in.Password)},
	} {
		if f.value == "" {
			missing = append(missing, f.name)
		}
	}
	if len(missing) > 0 {
		return nil, apperr.BadRequest("All fields are required").WithDetails(missing...)
	}

	if taken, err := u.exists(ctx, email, username); err != nil {
		return nil, err
	} else if taken {
		return nil, apperr.Conflict("User with email or username already exists")
	}

	if in.AvatarPath == "" {
		return nil, apperr.BadRequest("Avatar file is required")
	}

	passwordHash, err := bcrypt.GenerateFromPassword([]byte(in.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, apperr.Internal("Something went wrong while registering the user", err)
	}

	avatar, err := u.media.Upload(ctx, in.AvatarPath, folderAvatars)
	if err != nil {
		return nil, apperr.Internal("Error while uploading avatar", err)
	}
	var coverURL string
	if in.CoverPath != "" {
		cover, err := u.media.Upload(ctx, in.CoverPath, folderCovers)
		if err != nil {
			removeMedia(ctx, u.media, avatar.URL)
			return nil, apperr.Internal("Error while uploading cover image", err)
		}
		coverURL = cover.URL
	}

	user := &domain.User{
		Username:     username,
		Email:        email,
		FullName:     fullName,
		Avatar:       avatar.URL,
		CoverImage:   coverURL,
		PasswordHash: string(passwordHash),
	}
	if err := u.userRepo.Create(ctx, user); err != nil {
		removeMedia(ctx, u.media, avatar.URL)
		removeMedia(ctx, u.media, coverURL)
		if errors.Is(err, domain.ErrDuplicate) {
			return nil, apperr.Conflict("User with email or username already exists")
		}
		return nil, apperr.Internal("Something went wrong while registering the user", err)
	}
	return user, nil
}

func (u *UserUsecase) exists(ctx context.Context, email, username string) (bool, error) {
	if _, err := u.userRepo.GetByEmail(ctx, email); err == nil {
		return true, nil
	} else if !errors.Is(err, domain.ErrNotFound) {
		return false, apperr.Internal("Something went wrong while registering the user", err)
	}
	if _, err := u.userRepo.GetByUsername(ctx, username); err == nil {
		return true, nil
	} else if !errors.Is(err, domain.ErrNotFound) {
		return false, apperr.Internal("Something went wrong while registering the user", err)
	}
	return false, nil
}

// ChangePassword replaces the password. Existing sessions stay valid.
func (u *UserUsecase) ChangePassword(ctx context.Context, userID uuid.UUID, oldPassword, newPassword string) error {
	if oldPassword == "" || strings.TrimSpace(newPassword) == "" {
		return apperr.BadRequest("Old and new password are required")
	}
	user, err := u.userRepo.GetByID(ctx, userID)
	if err != nil {
		return lookupError(err, "User not found")
	}
	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(oldPassword)); err != nil {
		return apperr.BadRequest("Invalid old password")
	}
	hash, err := bcrypt.GenerateFromPassword([]byte(newPassword), bcrypt.DefaultCost)
	if err != nil {
		return apperr.Internal("Something went wrong while changing the password", err)
	}
	if err := u.userRepo.UpdatePassword(ctx, userID, string(hash)); err != nil {
		return lookupError(err, "User not found")
	}
	return nil
}

func (u *UserUsecase) UpdateAccount(ctx context.Context, userID uuid.UUID, fullName, email string) (*domain.User, error) {
	fullName = strings.TrimSpace(fullName)
	email = strings.ToLower(strings.TrimSpace(email))
	if fullName == "" || email == "" {
		return nil, apperr.BadRequest("All fields are required")
	}

	if other, err := u.userRepo.GetByEmail(ctx, email); err == nil && other.ID != userID {
		return nil, apperr.Conflict("Email is already in use")
	} else if err != nil && !errors.Is(err, domain.ErrNotFound) {
		return nil, apperr.Internal("Something went wrong while updating the account", err)
	}

	user, err := u.userRepo.UpdateAccount(ctx, userID, fullName, email)
	if errors.Is(err, domain.ErrDuplicate) {
		return nil, apperr.Conflict("Email is already in use")
	}
	if err != nil {
		return nil, lookupError(err, "User not found")
	}
	return user, nil
}

func (u *UserUsecase) UpdateAvatar(ctx context.Context, user *domain.User, localPath string) (*domain.User, error) {
	if localPath == "" {
		return nil, apperr.BadRequest("Avatar file is missing")
	}
	asset, err := u.media.Upload(ctx, localPath, folderAvatars)
	if err != nil {
		return nil, apperr.Internal("Error while uploading avatar", err)
	}
	updated, err := u.userRepo.UpdateAvatar(ctx, user.ID, asset.URL)
	if err != nil {
		removeMedia(ctx, u.media, asset.URL)
		return nil, lookupError(err, "User not found")
	}
	removeMedia(ctx, u.media, user.Avatar)
	return updated, nil
}

func (u *UserUsecase) UpdateCoverImage(ctx context.Context, user *domain.User, localPath string) (*domain.User, error) {
	if localPath == "" {
		return nil, apperr.BadRequest("Cover image file is missing")
	}
	asset, err := u.media.Upload(ctx, localPath, folderCovers)
	if err != nil {
		return nil, apperr.Internal("Error while uploading cover image", err)
	}
	updated, err := u.userRepo.UpdateCoverImage(ctx, user.ID, asset.URL)
	if err != nil {
		removeMedia(ctx, u.media, asset.URL)
		return nil, lookupError(err, "User not found")
	}
	removeMedia(ctx, u.media, user.CoverImage)
	return updated, nil
}

func (u *UserUsecase) GetChannelProfile(ctx context.Context, username string, viewerID uuid.UUID) (*domain.ChannelProfile, error) {
	username = strings.ToLower(strings.TrimSpace(username))
	if username == "" {
		return nil, apperr.BadRequest("username is missing")
	}
	profile, err := u.userRepo.GetChannelProfile(ctx, username, viewerID)
	if err != nil {
		return nil, lookupError(err, "channel does not exist")
	}
	return profile, nil
}

func (u *UserUsecase) GetWatchHistory(ctx context.Context, userID uuid.UUID) ([]*domain.VideoWithOwner, error) {
	videos, err := u.userRepo.GetWatchHistory(ctx, userID)
	if err != nil {
		return nil, apperr.Internal("Something went wrong while fetching watch history", err)
	}
	if videos == nil {
		videos = []*domain.VideoWithOwner{}
	}
	return videos, nil
}
