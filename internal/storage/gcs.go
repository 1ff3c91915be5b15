package storage

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	gcs "cloud.google.com/go/storage"
	"google.golang.org/api/option"

	"github.com/vidtube/backend/internal/config"
)

// gcsBucket is the slice of a bucket handle the driver uses.
type gcsBucket interface {
	NewWriter(ctx context.Context, key, contentType string) io.WriteCloser
	Delete(ctx context.Context, key string) error
}

type gcsHandle struct {
	bucket *gcs.BucketHandle
}

// NewWriter refuses to overwrite: public ids are never reused.
func (h gcsHandle) NewWriter(ctx context.Context, key, contentType string) io.WriteCloser {
	w := h.bucket.Object(key).If(gcs.Conditions{DoesNotExist: true}).NewWriter(ctx)
	w.ContentType = contentType
	return w
}

func (h gcsHandle) Delete(ctx context.Context, key string) error {
	return h.bucket.Object(key).Delete(ctx)
}

// GCSStorage implements MediaStore backed by Google Cloud Storage.
type GCSStorage struct {
	bucket  gcsBucket
	name    string
	baseURL string
}

// NewGCSStorage connects with application default credentials. A configured
// endpoint points the client at an emulator without authentication.
func NewGCSStorage(ctx context.Context, cfg config.MediaConfig) (*GCSStorage, error) {
	if strings.TrimSpace(cfg.Bucket) == "" {
		return nil, fmt.Errorf("gcs storage: bucket is required")
	}

	var opts []option.ClientOption
	if endpoint := strings.TrimSpace(cfg.Endpoint); endpoint != "" {
		opts = append(opts, option.WithEndpoint(endpoint), option.WithoutAuthentication())
	}

	client, err := gcs.NewClient(ctx, opts...)
	if err != nil {
		return nil, fmt.Errorf("create gcs client: %w", err)
	}

	baseURL := strings.TrimSuffix(cfg.PublicBaseURL, "/")
	if baseURL == "" {
		baseURL = "https://storage.googleapis.com/" + cfg.Bucket
	}

	return newGCSStorage(gcsHandle{bucket: client.Bucket(cfg.Bucket)}, cfg.Bucket, baseURL), nil
}

func newGCSStorage(bucket gcsBucket, name, baseURL string) *GCSStorage {
	return &GCSStorage{bucket: bucket, name: name, baseURL: strings.TrimSuffix(baseURL, "/")}
}

// Upload streams the file at localPath into the bucket under a new public id.
// A failed copy cancels the writer so no partial object is committed.
func (s *GCSStorage) Upload(ctx context.Context, kind Kind, localPath string) (Asset, error) {
	f, err := os.Open(localPath)
	if err != nil {
		return Asset{}, fmt.Errorf("gcs storage: open %s: %w", localPath, err)
	}
	defer f.Close()

	publicID := NewPublicID()
	key := ObjectKey(kind, publicID)

	writeCtx, cancel := context.WithCancel(ctx)
	defer cancel()
	w := s.bucket.NewWriter(writeCtx, key, contentType(localPath, kind))

	size, err := io.Copy(w, f)
	if err != nil {
		cancel()
		_ = w.Close()
		return Asset{}, fmt.Errorf("gcs storage upload %s: %w", key, err)
	}
	if err := w.Close(); err != nil {
		return Asset{}, fmt.Errorf("gcs storage upload %s: %w", key, err)
	}

	return Asset{URL: publicURL(s.baseURL, key), PublicID: publicID, Kind: kind, Size: size}, nil
}

// Delete removes the object; a missing object counts as deleted.
func (s *GCSStorage) Delete(ctx context.Context, publicID string, kind Kind) error {
	if publicID == "" {
		return fmt.Errorf("gcs storage: empty public id")
	}
	key := ObjectKey(kind, publicID)
	if err := s.bucket.Delete(ctx, key); err != nil && !errors.Is(err, gcs.ErrObjectNotExist) {
		return fmt.Errorf("gcs storage delete %s/%s: %w", s.name, key, err)
	}
	return nil
}

var _ MediaStore = (*GCSStorage)(nil)
