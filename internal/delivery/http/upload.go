package http

import (
	"errors"
	"io"
	"net/http"
	"os"
	"path/filepath"

	"github.com/videotube/backend/internal/apperr"
)

const multipartMemory = 32 << 20

// uploads spools multipart files to the upload directory. The media host
// consumes files it receives; cleanup removes whatever is left behind.
type uploads struct {
	dir   string
	paths []string
}

func (h *Handler) parseMultipart(w http.ResponseWriter, r *http.Request) (*uploads, error) {
	if h.maxUploadSize > 0 {
		r.Body = http.MaxBytesReader(w, r.Body, h.maxUploadSize)
	}
	if err := r.ParseMultipartForm(multipartMemory); err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			return nil, apperr.BadRequest("Upload exceeds the maximum allowed size")
		}
		return nil, apperr.BadRequest("Invalid multipart form")
	}
	return &uploads{dir: h.uploadDir}, nil
}

// save writes the file sent under field and returns its path, or "" when the
// field is absent.
func (u *uploads) save(r *http.Request, field string) (string, error) {
	file, header, err := r.FormFile(field)
	if errors.Is(err, http.ErrMissingFile) {
		return "", nil
	}
	if err != nil {
		return "", apperr.BadRequest("Invalid file in field " + field)
	}
	defer file.Close()

	dst, err := os.CreateTemp(u.dir, "upload-*"+filepath.Ext(header.Filename))
	if err != nil {
		return "", apperr.Internal("Something went wrong while receiving the upload", err)
	}
	u.paths = append(u.paths, dst.Name())
	if _, err := io.Copy(dst, file); err != nil {
		dst.Close()
		return "", apperr.Internal("Something went wrong while receiving the upload", err)
	}
	if err := dst.Close(); err != nil {
		return "", apperr.Internal("Something went wrong while receiving the upload", err)
	}
	return dst.Name(), nil
}

func (u *uploads) cleanup(r *http.Request) {
	for _, p := range u.paths {
		_ = os.Remove(p)
	}
	if r.MultipartForm != nil {
		_ = r.MultipartForm.RemoveAll()
	}
}
