package usecase

import (
	"context"
	"errors"

	"github.com/videotube/backend/internal/logging"
	"github.com/videotube/backend/pkg/mediahost"
)

// Folders uploads are grouped under on the media host.
const (
	folderAvatars    = "avatars"
	folderCovers     = "covers"
	folderVideos     = "videos"
	folderThumbnails = "thumbnails"
)

// MediaHost stores uploaded files. Upload consumes the local file.
type MediaHost interface {
	Upload(ctx context.Context, localPath, folder string) (*mediahost.Asset, error)
	Delete(ctx context.Context, url string) error
}

// removeMedia deletes a stored object without failing the caller.
func removeMedia(ctx context.Context, media MediaHost, url string) {
	if url == "" {
		return
	}
	if err := media.Delete(ctx, url); err != nil && !errors.Is(err, mediahost.ErrNotOwned) {
		logging.FromContext(ctx).Warn("media delete failed", "url", url, "error", err)
	}
}
