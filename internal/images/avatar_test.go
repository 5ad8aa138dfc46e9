package images

import (
	"bytes"
	"context"
	"encoding/base64"
	"image"
	"image/png"
	"sync"
	"testing"

	"github.com/markhub/markhub/pkg/apperr"
	"github.com/stretchr/testify/require"
)

// fakeStore records uploads and deletes.
type fakeStore struct {
	mu      sync.Mutex
	uploads map[string][]byte
	deletes []string
}

func newFakeStore() *fakeStore {
	return &fakeStore{uploads: map[string][]byte{}}
}

func (f *fakeStore) Upload(ctx context.Context, key string, data []byte, contentType string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.uploads[key] = data
	return nil
}

func (f *fakeStore) Delete(ctx context.Context, key string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.deletes = append(f.deletes, key)
	return nil
}

func (f *fakeStore) PublicURL(key string) string { return "https://files.test/" + key }

func pngDataURL(t *testing.T, w, h int) string {
	t.Helper()
	var buf bytes.Buffer
	require.NoError(t, png.Encode(&buf, image.NewRGBA(image.Rect(0, 0, w, h))))
	return "data:image/png;base64," + base64.StdEncoding.EncodeToString(buf.Bytes())
}

func TestAvatar_RescaleAndUpload(t *testing.T) {
	store := newFakeStore()
	svc := NewAvatarService(store, 4)

	avatar, err := svc.RescaleAndUpload(context.Background(), "u1", pngDataURL(t, 300, 300))
	require.NoError(t, err)
	require.Len(t, avatar, 5)

	lg, ok := avatar["lg"]
	require.True(t, ok)
	require.Equal(t, 100, lg.Width)
	require.Equal(t, 100, lg.Height)
	require.Equal(t, "https://files.test/u1/avatars/lg", lg.URL)
	require.NotEmpty(t, lg.ID)

	require.Len(t, store.uploads, 5)
	require.Contains(t, store.uploads, "u1/avatars/tn")
}

func TestAvatar_RejectsGifBeforeStorage(t *testing.T) {
	store := newFakeStore()
	svc := NewAvatarService(store, 4)

	_, err := svc.RescaleAndUpload(context.Background(), "u1", "data:image/gif;base64,iVBORw0KGgo=")
	require.True(t, apperr.IsKind(err, apperr.KindInvalidArgument))
	require.Empty(t, store.uploads, "no storage call may happen for rejected input")
}

func TestAvatar_RejectsOversizedBufferBeforeStorage(t *testing.T) {
	store := newFakeStore()
	svc := NewAvatarService(store, 4)

	blob := base64.StdEncoding.EncodeToString(make([]byte, 5<<20))
	_, err := svc.RescaleAndUpload(context.Background(), "u1", "data:image/png;base64,"+blob)
	require.True(t, apperr.IsKind(err, apperr.KindInvalidArgument))
	require.Empty(t, store.uploads)
}

func TestAvatar_Remove(t *testing.T) {
	store := newFakeStore()
	svc := NewAvatarService(store, 4)

	require.NoError(t, svc.Remove(context.Background(), "u1"))
	require.Len(t, store.deletes, 5)
	require.Contains(t, store.deletes, "u1/avatars/xl")
}

func TestUpload_StoresUnderUUIDKey(t *testing.T) {
	store := newFakeStore()
	svc := NewUploadService(store, 4)

	dto, err := svc.Upload(context.Background(), pngDataURL(t, 10, 10))
	require.NoError(t, err)
	require.Contains(t, dto.ID, ".png")
	require.Contains(t, dto.URL, dto.ID)
	require.Equal(t, "image/png", dto.ContentType)
	require.Len(t, store.uploads, 1)
}
