package storage

import (
	"context"
	"errors"
	"fmt"
	"mime"
	"net/url"
	"path"
	"path/filepath"
	"strings"

	"github.com/google/uuid"

	"github.com/vidtube/backend/internal/config"
)

// Kind classifies uploaded media. It is part of every object key.
type Kind string

const (
	KindVideo Kind = "video"
	KindImage Kind = "image"
)

// ErrBreakerOpen indicates the media store is failing and calls are being shed.
var ErrBreakerOpen = errors.New("media store unavailable")

// Asset describes an object stored in the media store.
type Asset struct {
	URL      string
	PublicID string
	Kind     Kind
	Size     int64
}

// MediaStore uploads local files and deletes remote objects. Delete of an
// object that no longer exists succeeds.
type MediaStore interface {
	Upload(ctx context.Context, kind Kind, localPath string) (Asset, error)
	Delete(ctx context.Context, publicID string, kind Kind) error
}

// New builds the configured driver wrapped in a circuit breaker.
func New(ctx context.Context, cfg config.MediaConfig) (MediaStore, error) {
	var (
		store MediaStore
		err   error
	)
	switch cfg.Driver {
	case config.MediaDriverS3:
		store, err = NewS3Storage(ctx, cfg)
	case config.MediaDriverGCS:
		store, err = NewGCSStorage(ctx, cfg)
	default:
		return nil, fmt.Errorf("unknown media driver %q", cfg.Driver)
	}
	if err != nil {
		return nil, err
	}
	return NewBreaker(store, cfg.BreakerFailures, cfg.BreakerTimeout), nil
}

// NewPublicID returns a fresh identifier for an object about to be uploaded.
func NewPublicID() string {
	return uuid.NewString()
}

// ObjectKey is the bucket key of the object identified by publicID.
func ObjectKey(kind Kind, publicID string) string {
	return string(kind) + "/" + publicID
}

// PublicID recovers the identifier from a stored asset URL by dropping the
// path and the file extension.
func PublicID(rawURL string) string {
	p := rawURL
	if u, err := url.Parse(rawURL); err == nil {
		p = u.Path
	}
	base := path.Base(strings.TrimRight(p, "/"))
	if base == "." || base == "/" {
		return ""
	}
	return strings.TrimSuffix(base, path.Ext(base))
}

// publicURL joins the configured public base with key. Without a base the key is returned.
func publicURL(baseURL, key string) string {
	if baseURL == "" {
		return key
	}
	return strings.TrimSuffix(baseURL, "/") + "/" + key
}

func contentType(localPath string, kind Kind) string {
	if ct := mime.TypeByExtension(strings.ToLower(filepath.Ext(localPath))); ct != "" {
		return ct
	}
	if kind == KindVideo {
		return "video/mp4"
	}
	return "application/octet-stream"
}
