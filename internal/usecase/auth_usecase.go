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

type AuthUsecase struct {
	userRepo domain.UserRepository
	tokens   *TokenManager
}

func NewAuthUsecase(userRepo domain.UserRepository, tokens *TokenManager) *AuthUsecase {
	return &AuthUsecase{
		userRepo: userRepo,
		tokens:   tokens,
	}
}

type LoginInput struct {
	Email    string
	Username string
	Password string
}

// Login checks the credentials and starts a new session, replacing any
// previous one.
func (u *AuthUsecase) Login(ctx context.Context, in LoginInput) (*domain.User, *domain.TokenPair, error) {
	email := strings.ToLower(strings.TrimSpace(in.Email))
	username := strings.ToLower(strings.TrimSpace(in.Username))
	if email == "" && username == "" {
		return nil, nil, apperr.BadRequest("username or email is required")
	}
	if in.Password == "" {
		return nil, nil, apperr.BadRequest("password is required")
	}

	var (
		user *domain.User
		err  error
	)
	if email != "" {
		user, err = u.userRepo.GetByEmail(ctx, email)
	} else {
		user, err = u.userRepo.GetByUsername(ctx, username)
	}
	if errors.Is(err, domain.ErrNotFound) {
		return nil, nil, apperr.NotFound("User does not exist")
	}
	if err != nil {
		return nil, nil, apperr.Internal("Something went wrong while logging in", err)
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(in.Password)); err != nil {
		return nil, nil, apperr.Unauthorized("Invalid user credentials")
	}

	tokens, err := u.Issue(ctx, user.ID)
	if err != nil {
		return nil, nil, err
	}
	return user, tokens, nil
}

// Issue mints a token pair and stores the refresh token as the user's only
// active session.
func (u *AuthUsecase) Issue(ctx context.Context, userID uuid.UUID) (*domain.TokenPair, error) {
	pair, err := u.tokens.NewPair(userID)
	if err != nil {
		return nil, apperr.Internal("Something went wrong while generating refresh and access token", err)
	}
	if err := u.userRepo.SetRefreshTokenHash(ctx, userID, hashToken(pair.RefreshToken)); err != nil {
		return nil, apperr.Internal("Something went wrong while generating refresh and access token", err)
	}
	return pair, nil
}

// Refresh exchanges a valid, current refresh token for a new pair. The
// presented token is invalidated; of two concurrent refreshes with the same
// token at most one succeeds.
func (u *AuthUsecase) Refresh(ctx context.Context, presented string) (*domain.TokenPair, error) {
	if presented == "" {
		return nil, apperr.Unauthorized("unauthorized request")
	}
	userID, err := u.tokens.ParseRefresh(presented)
	if err != nil {
		return nil, apperr.Unauthorized("Invalid refresh token")
	}

	user, err := u.userRepo.GetByID(ctx, userID)
	if errors.Is(err, domain.ErrNotFound) {
		return nil, apperr.Unauthorized("Invalid refresh token")
	}
	if err != nil {
		return nil, apperr.Internal("Something went wrong while refreshing the token", err)
	}

	oldHash := hashToken(presented)
	if user.RefreshTokenHash == "" || user.RefreshTokenHash != oldHash {
		return nil, apperr.Unauthorized("Refresh token is expired or used")
	}

	pair, err := u.tokens.NewPair(user.ID)
	if err != nil {
		return nil, apperr.Internal("Something went wrong while refreshing the token", err)
	}
	swapped, err := u.userRepo.RotateRefreshTokenHash(ctx, user.ID, oldHash, hashToken(pair.RefreshToken))
	if err != nil {
		return nil, apperr.Internal("Something went wrong while refreshing the token", err)
	}
	if !swapped {
		return nil, apperr.Unauthorized("Refresh token is expired or used")
	}
	return pair, nil
}

// Logout ends the user's session; the stored refresh token stops working.
func (u *AuthUsecase) Logout(ctx context.Context, userID uuid.UUID) error {
	if err := u.userRepo.SetRefreshTokenHash(ctx, userID, ""); err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return nil
		}
		return apperr.Internal("Something went wrong while logging out", err)
	}
	return nil
}

// Authenticate resolves an access token to its user.
func (u *AuthUsecase) Authenticate(ctx context.Context, accessToken string) (*domain.User, error) {
	if accessToken == "" {
		return nil, apperr.Unauthorized("Unauthorized request")
	}
	userID, err := u.tokens.ParseAccess(accessToken)
	if err != nil {
		return nil, apperr.Unauthorized("Invalid access token")
	}
	user, err := u.userRepo.GetByID(ctx, userID)
	if errors.Is(err, domain.ErrNotFound) {
		return nil, apperr.Unauthorized("Invalid access token")
	}
	if err != nil {
		return nil, apperr.Internal("Something went wrong while authenticating", err)
	}
	return user, nil
}
