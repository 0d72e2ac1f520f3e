package http

import (
	"context"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/videotube/backend/internal/apperr"
	"github.com/videotube/backend/internal/domain"
	"github.com/videotube/backend/internal/middleware"
	"github.com/videotube/backend/internal/usecase"
)

func (h *Handler) Register(w http.ResponseWriter, r *http.Request) error {
	files, err := h.parseMultipart(w, r)
	if err != nil {
		return err
	}
	defer files.cleanup(r)

	avatar, err := files.save(r, "avatar")
	if err != nil {
		return err
	}
	cover, err := files.save(r, "coverImage")
	if err != nil {
		return err
	}

	user, err := h.users.Register(r.Context(), usecase.RegisterInput{
		FullName:   r.FormValue("fullName"),
		Email:      r.FormValue("email"),
		Username:   r.FormValue("username"),
		Password:   r.FormValue("password"),
		AvatarPath: avatar,
		CoverPath:  cover,
	})
	if err != nil {
		return err
	}
	respond(w, http.StatusCreated, user, "User registered successfully")
	return nil
}

type loginRequest struct {
	Email    string `json:"email"`
	Username string `json:"username"`
	Password string `json:"password"`
}

type loginResponse struct {
	User         *domain.User `json:"user"`
	AccessToken  string       `json:"accessToken"`
	RefreshToken string       `json:"refreshToken"`
}

func (h *Handler) Login(w http.ResponseWriter, r *http.Request) error {
	var req loginRequest
	if err := decodeJSON(r, &req); err != nil {
		return err
	}

	user, pair, err := h.auth.Login(r.Context(), usecase.LoginInput{
		Email:    req.Email,
		Username: req.Username,
		Password: req.Password,
	})
	if err != nil {
		return err
	}

	h.setAuthCookies(w, pair)
	respond(w, http.StatusOK, loginResponse{
		User:         user,
		AccessToken:  pair.AccessToken,
		RefreshToken: pair.RefreshToken,
	}, "User logged in successfully")
	return nil
}

func (h *Handler) Logout(w http.ResponseWriter, r *http.Request) error {
	user, err := middleware.RequireUser(r.Context())
	if err != nil {
		return err
	}
	if err := h.auth.Logout(r.Context(), user.ID); err != nil {
		return err
	}
	h.clearAuthCookies(w)
	respond(w, http.StatusOK, nil, "User logged out")
	return nil
}

type refreshRequest struct {
	RefreshToken string `json:"refreshToken"`
}

func (h *Handler) RefreshToken(w http.ResponseWriter, r *http.Request) error {
	var token string
	if c, err := r.Cookie(refreshTokenCookie); err == nil {
		token = c.Value
	}
	if token == "" {
		var req refreshRequest
		if err := decodeJSON(r, &req); err != nil {
			return err
		}
		token = req.RefreshToken
	}

	pair, err := h.auth.Refresh(r.Context(), token)
	if err != nil {
		h.clearAuthCookies(w)
		return err
	}
	h.setAuthCookies(w, pair)
	respond(w, http.StatusOK, pair, "Access token refreshed")
	return nil
}

type changePasswordRequest struct {
	OldPassword string `json:"oldPassword"`
	NewPassword string `json:"newPassword"`
}

func (h *Handler) ChangePassword(w http.ResponseWriter, r *http.Request) error {
	user, err := middleware.RequireUser(r.Context())
	if err != nil {
		return err
	}
	var req changePasswordRequest
	if err := decodeJSON(r, &req); err != nil {
		return err
	}
	if err := h.users.ChangePassword(r.Context(), user.ID, req.OldPassword, req.NewPassword); err != nil {
		return err
	}
	respond(w, http.StatusOK, nil, "Password changed successfully")
	return nil
}

func (h *Handler) CurrentUser(w http.ResponseWriter, r *http.Request) error {
	user, err := middleware.RequireUser(r.Context())
	if err != nil {
		return err
	}
	respond(w, http.StatusOK, user, "User fetched successfully")
	return nil
}

type updateAccountRequest struct {
	FullName string `json:"fullName"`
	Email    string `json:"email"`
}

func (h *Handler) UpdateAccount(w http.ResponseWriter, r *http.Request) error {
	user, err := middleware.RequireUser(r.Context())
	if err != nil {
		return err
	}
	var req updateAccountRequest
	if err := decodeJSON(r, &req); err != nil {
		return err
	}
	updated, err := h.users.UpdateAccount(r.Context(), user.ID, req.FullName, req.Email)
	if err != nil {
		return err
	}
	respond(w, http.StatusOK, updated, "Account details updated successfully")
	return nil
}

func (h *Handler) UpdateAvatar(w http.ResponseWriter, r *http.Request) error {
	return h.replaceImage(w, r, "avatar", h.users.UpdateAvatar, "Avatar image updated successfully")
}

func (h *Handler) UpdateCoverImage(w http.ResponseWriter, r *http.Request) error {
	return h.replaceImage(w, r, "coverImage", h.users.UpdateCoverImage, "Cover image updated successfully")
}

type imageUpdater func(ctx context.Context, user *domain.User, localPath string) (*domain.User, error)

func (h *Handler) replaceImage(w http.ResponseWriter, r *http.Request, field string, update imageUpdater, message string) error {
	user, err := middleware.RequireUser(r.Context())
	if err != nil {
		return err
	}
	files, err := h.parseMultipart(w, r)
	if err != nil {
		return err
	}
	defer files.cleanup(r)

	path, err := files.save(r, field)
	if err != nil {
		return err
	}
	updated, err := update(r.Context(), user, path)
	if err != nil {
		return err
	}
	respond(w, http.StatusOK, updated, message)
	return nil
}

func (h *Handler) ChannelProfile(w http.ResponseWriter, r *http.Request) error {
	user, err := middleware.RequireUser(r.Context())
	if err != nil {
		return err
	}
	username := chi.URLParam(r, "username")
	if username == "" {
		return apperr.BadRequest("username is missing")
	}
	profile, err := h.users.GetChannelProfile(r.Context(), username, user.ID)
	if err != nil {
		return err
	}
	respond(w, http.StatusOK, profile, "User channel fetched successfully")
	return nil
}

func (h *Handler) WatchHistory(w http.ResponseWriter, r *http.Request) error {
	user, err := middleware.RequireUser(r.Context())
	if err != nil {
		return err
	}
	history, err := h.users.GetWatchHistory(r.Context(), user.ID)
	if err != nil {
		return err
	}
	respond(w, http.StatusOK, history, "Watch history fetched successfully")
	return nil
}
