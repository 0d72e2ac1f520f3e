package usecase

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/videotube/backend/internal/apperr"
	"github.com/videotube/backend/internal/config"
)

func testJWTConfig() *config.JWTConfig {
	return &config.JWTConfig{
		Secret:        "access-secret",
		RefreshSecret: "refresh-secret",
		AccessExpiry:  15 * time.Minute,
		RefreshExpiry: 24 * time.Hour,
	}
}

func requireKind(t *testing.T, err error, kind apperr.Kind) {
	t.Helper()
	require.Error(t, err)
	appErr := apperr.As(err)
	require.Equal(t, kind, appErr.Kind, "unexpected error: %v", err)
}
