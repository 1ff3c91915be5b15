package handlers

import (
	"errors"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"os"
	"path/filepath"
	"strings"

	"github.com/go-chi/chi/v5"

	"github.com/vidtube/backend/internal/logging"
)

const multipartMemory = 8 << 20

var errMissingFile = errors.New("file is required")

// Uploads spools multipart files to a temp directory so they can be probed and
// streamed to the media store.
type Uploads struct {
	TempDir  string
	MaxBytes int64
}

// spooled is the set of files written for one request. cleanup removes them.
type spooled struct {
	paths map[string]string
}

func (s *spooled) path(field string) string {
	return s.paths[field]
}

func (s *spooled) cleanup(r *http.Request) {
	for field, p := range s.paths {
		if err := os.Remove(p); err != nil && !errors.Is(err, os.ErrNotExist) {
			logging.FromContext(r.Context()).Warn("remove spooled upload", "field", field, "path", p, "error", err)
		}
	}
	if r.MultipartForm != nil {
		_ = r.MultipartForm.RemoveAll()
	}
}

// spool parses the multipart body and copies the named file fields to disk.
// Required fields that are absent yield errMissingFile wrapped with the field
// name. The caller must call cleanup on the result even when spool fails.
func (u Uploads) spool(w http.ResponseWriter, r *http.Request, required []string, optional []string) (*spooled, error) {
	out := &spooled{paths: make(map[string]string)}

	if u.MaxBytes > 0 {
		r.Body = http.MaxBytesReader(w, r.Body, u.MaxBytes)
	}
	if err := r.ParseMultipartForm(multipartMemory); err != nil {
		return out, fmt.Errorf("parse multipart form: %w", err)
	}

	for _, field := range append(append([]string{}, required...), optional...) {
		file, header, err := r.FormFile(field)
		if errors.Is(err, http.ErrMissingFile) {
			continue
		}
		if err != nil {
			return out, fmt.Errorf("read %s: %w", field, err)
		}
		p, err := u.write(file, header)
		file.Close()
		if err != nil {
			return out, fmt.Errorf("spool %s: %w", field, err)
		}
		out.paths[field] = p
	}

	for _, field := range required {
		if out.paths[field] == "" {
			return out, fmt.Errorf("%s: %w", field, errMissingFile)
		}
	}
	return out, nil
}

func (u Uploads) write(src multipart.File, header *multipart.FileHeader) (string, error) {
	dir := u.TempDir
	if dir == "" {
		dir = os.TempDir()
	}

	ext := strings.ToLower(filepath.Ext(header.Filename))
	dst, err := os.CreateTemp(dir, "upload-*"+ext)
	if err != nil {
		return "", err
	}
	defer dst.Close()

	if _, err := io.Copy(dst, src); err != nil {
		os.Remove(dst.Name())
		return "", err
	}
	return dst.Name(), nil
}

// uploadError reports a spool failure as a client error.
func uploadError(w http.ResponseWriter, r *http.Request, err error) {
	var tooLarge *http.MaxBytesError
	switch {
	case errors.As(err, &tooLarge):
		respondFailure(r.Context(), w, http.StatusRequestEntityTooLarge, "upload too large")
	case errors.Is(err, errMissingFile):
		field, _, _ := strings.Cut(err.Error(), ":")
		respondFailure(r.Context(), w, http.StatusBadRequest, "missing required file", fieldError{Field: field, Message: field + " is required"})
	default:
		logging.FromContext(r.Context()).Warn("invalid multipart upload", "error", err)
		respondFailure(r.Context(), w, http.StatusBadRequest, "invalid multipart upload")
	}
}

// pathID reads a UUID path parameter, rejecting malformed values with 400.
func pathID(w http.ResponseWriter, r *http.Request, name string) (string, bool) {
	id := chi.URLParam(r, name)
	if err := getValidator().Var(id, "required,uuid"); err != nil {
		respondFailure(r.Context(), w, http.StatusBadRequest, "invalid "+name, fieldError{Field: name, Message: name + " must be a valid id"})
		return "", false
	}
	return id, true
}
