package http

import (
	"net/http"
	"time"

	"github.com/videotube/backend/internal/domain"
	"github.com/videotube/backend/internal/middleware"
)

const refreshTokenCookie = "refreshToken"

func (h *Handler) authCookie(name, value string, expires time.Time) *http.Cookie {
	return &http.Cookie{
		Name:     name,
		Value:    value,
		Path:     "/",
		Domain:   h.cookies.Domain,
		Expires:  expires,
		HttpOnly: true,
		Secure:   h.cookies.Secure,
		SameSite: http.SameSiteLaxMode,
	}
}

func (h *Handler) setAuthCookies(w http.ResponseWriter, pair *domain.TokenPair) {
	http.SetCookie(w, h.authCookie(middleware.AccessTokenCookie, pair.AccessToken, pair.AccessExpiresAt))
	http.SetCookie(w, h.authCookie(refreshTokenCookie, pair.RefreshToken, pair.RefreshExpiresAt))
}

func (h *Handler) clearAuthCookies(w http.ResponseWriter) {
	for _, name := range []string{middleware.AccessTokenCookie, refreshTokenCookie} {
		c := h.authCookie(name, "", time.Unix(0, 0))
		c.MaxAge = -1
		http.SetCookie(w, c)
	}
}
