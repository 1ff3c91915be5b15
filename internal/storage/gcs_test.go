package storage

import (
	"bytes"
	"context"
	"errors"
	"io"
	"sync"
	"testing"

	gcs "cloud.google.com/go/storage"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// fakeBucket commits an object on Close unless the writer's context was
// cancelled first, as the GCS client does.
type fakeBucket struct {
	mu        sync.Mutex
	objects   map[string]string
	types     map[string]string
	writeErr  error
	deleteErr error
	deleted   []string
}

func newFakeBucket() *fakeBucket {
	return &fakeBucket{objects: map[string]string{}, types: map[string]string{}}
}

func (b *fakeBucket) NewWriter(ctx context.Context, key, contentType string) io.WriteCloser {
	return &fakeObjectWriter{bucket: b, ctx: ctx, key: key, contentType: contentType}
}

func (b *fakeBucket) Delete(_ context.Context, key string) error {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.deleted = append(b.deleted, key)
	if b.deleteErr != nil {
		return b.deleteErr
	}
	if _, ok := b.objects[key]; !ok {
		return gcs.ErrObjectNotExist
	}
	delete(b.objects, key)
	return nil
}

type fakeObjectWriter struct {
	bucket      *fakeBucket
	ctx         context.Context
	key         string
	contentType string
	buf         bytes.Buffer
}

func (w *fakeObjectWriter) Write(p []byte) (int, error) {
	if w.bucket.writeErr != nil {
		return 0, w.bucket.writeErr
	}
	return w.buf.Write(p)
}

func (w *fakeObjectWriter) Close() error {
	if err := w.ctx.Err(); err != nil {
		return err
	}
	w.bucket.mu.Lock()
	defer w.bucket.mu.Unlock()
	w.bucket.objects[w.key] = w.buf.String()
	w.bucket.types[w.key] = w.contentType
	return nil
}

func TestGCSStorageUploadAndDelete(t *testing.T) {
	bucket := newFakeBucket()
	store := newGCSStorage(bucket, "media", "https://storage.example.com/media/")

	asset, err := store.Upload(context.Background(), KindVideo, writeTempFile(t, "clip.mp4", "mp4-bytes"))
	require.NoError(t, err)

	key := ObjectKey(KindVideo, asset.PublicID)
	assert.Equal(t, "https://storage.example.com/media/"+key, asset.URL)
	assert.Equal(t, int64(len("mp4-bytes")), asset.Size)
	assert.Equal(t, "mp4-bytes", bucket.objects[key])
	assert.Equal(t, "video/mp4", bucket.types[key])

	require.NoError(t, store.Delete(context.Background(), PublicID(asset.URL), KindVideo))
	assert.Empty(t, bucket.objects)
}

func TestGCSStorageDeleteMissingObjectSucceeds(t *testing.T) {
	bucket := newFakeBucket()
	store := newGCSStorage(bucket, "media", "")

	require.NoError(t, store.Delete(context.Background(), "gone", KindImage))
	assert.Equal(t, []string{ObjectKey(KindImage, "gone")}, bucket.deleted)

	bucket.deleteErr = errors.New("permission denied")
	err := store.Delete(context.Background(), "other", KindImage)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "permission denied")

	assert.Error(t, store.Delete(context.Background(), "", KindImage))
}

func TestGCSStorageFailedCopyCommitsNothing(t *testing.T) {
	bucket := newFakeBucket()
	bucket.writeErr = errors.New("connection reset")
	store := newGCSStorage(bucket, "media", "")

	_, err := store.Upload(context.Background(), KindVideo, writeTempFile(t, "clip.mp4", "partial"))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "connection reset")
	assert.Empty(t, bucket.objects, "aborted upload must not leave an object behind")
}
