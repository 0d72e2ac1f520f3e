package middleware

import (
	"context"
	"net/http"
	"strings"

	"github.com/videotube/backend/internal/apperr"
	"github.com/videotube/backend/internal/domain"
)

type contextKey string

const userKey contextKey = "user"

// AccessTokenCookie is the cookie the guard reads before falling back to the
// Authorization header.
const AccessTokenCookie = "accessToken"

// ErrorWriter renders a failure as an HTTP response.
type ErrorWriter func(w http.ResponseWriter, r *http.Request, err error)

type Authenticator interface {
	Authenticate(ctx context.Context, accessToken string) (*domain.User, error)
}

type AuthMiddleware struct {
	auth     Authenticator
	writeErr ErrorWriter
}

func NewAuthMiddleware(auth Authenticator, writeErr ErrorWriter) *AuthMiddleware {
	return &AuthMiddleware{auth: auth, writeErr: writeErr}
}

// Authenticate resolves the access token to a user and stores it in the
// request context. Requests without a valid token stop here with a 401.
func (m *AuthMiddleware) Authenticate(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		user, err := m.auth.Authenticate(r.Context(), accessToken(r))
		if err != nil {
			m.writeErr(w, r, err)
			return
		}
		next.ServeHTTP(w, r.WithContext(WithUser(r.Context(), user)))
	})
}

func accessToken(r *http.Request) string {
	if c, err := r.Cookie(AccessTokenCookie); err == nil && c.Value != "" {
		return c.Value
	}
	header := r.Header.Get("Authorization")
	if header == "" {
		return ""
	}
	scheme, token, ok := strings.Cut(header, " ")
	if !ok || !strings.EqualFold(scheme, "Bearer") {
		return ""
	}
	return strings.TrimSpace(token)
}

func WithUser(ctx context.Context, user *domain.User) context.Context {
	return context.WithValue(ctx, userKey, user)
}

func GetUser(ctx context.Context) (*domain.User, bool) {
	user, ok := ctx.Value(userKey).(*domain.User)
	return user, ok && user != nil
}

// RequireUser is GetUser for handlers mounted behind Authenticate.
func RequireUser(ctx context.Context) (*domain.User, error) {
	user, ok := GetUser(ctx)
	if !ok {
		return nil, apperr.Unauthorized("Unauthorized request")
	}
	return user, nil
}
