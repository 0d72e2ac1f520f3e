package testsupport

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"testing"

	"github.com/videotube/backend/pkg/mediahost"
)

// MediaHost records uploads and deletions in memory. Like the real client it
// removes the local file after every upload attempt.
type MediaHost struct {
	mu       sync.Mutex
	Uploaded []string
	Deleted  []string
	FailOn   string // folder whose uploads fail
}

var ErrUploadFailed = errors.New("upload failed")

func NewMediaHost() *MediaHost {
	return &MediaHost{}
}

func (m *MediaHost) Upload(_ context.Context, localPath, folder string) (*mediahost.Asset, error) {
	defer os.Remove(localPath)

	m.mu.Lock()
	defer m.mu.Unlock()
	if m.FailOn != "" && m.FailOn == folder {
		return nil, ErrUploadFailed
	}
	key := mediahost.ObjectKey(folder, localPath)
	url := "https://media.test/" + key
	m.Uploaded = append(m.Uploaded, url)
	return &mediahost.Asset{Key: key, URL: url}, nil
}

func (m *MediaHost) Delete(_ context.Context, url string) error {
	if !strings.HasPrefix(url, "https://media.test/") {
		return mediahost.ErrNotOwned
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.Deleted = append(m.Deleted, url)
	return nil
}

// TempFile writes content to a fresh file under t's temp dir and returns its
// path.
func TempFile(t testing.TB, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	if err := os.WriteFile(path, []byte(content), 0o600); err != nil {
		t.Fatalf("write temp file: %v", err)
	}
	return path
}
