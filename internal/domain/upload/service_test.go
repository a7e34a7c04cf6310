package upload

import (
	"bytes"
	"context"
	"mime/multipart"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type memRepo struct {
	mu   sync.Mutex
	rows map[string]*Upload
}

func newMemRepo() *memRepo { return &memRepo{rows: map[string]*Upload{}} }

func (r *memRepo) Create(_ context.Context, u *Upload) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.rows[u.ID] = u
	return nil
}

func (r *memRepo) GetByID(_ context.Context, id string) (*Upload, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	u, ok := r.rows[id]
	if !ok {
		return nil, ErrUploadNotFound
	}
	return u, nil
}

func (r *memRepo) Delete(_ context.Context, id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	delete(r.rows, id)
	return nil
}

func (r *memRepo) ListByUserID(_ context.Context, userID int64) ([]*Upload, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []*Upload
	for _, u := range r.rows {
		if u.UserID == userID {
			out = append(out, u)
		}
	}
	return out, nil
}

func fileHeader(t *testing.T, name string, content []byte) *multipart.FileHeader {
	t.Helper()
	var body bytes.Buffer
	w := multipart.NewWriter(&body)
	part, err := w.CreateFormFile("file", name)
	require.NoError(t, err)
	_, err = part.Write(content)
	require.NoError(t, err)
	require.NoError(t, w.Close())

	form, err := multipart.NewReader(&body, w.Boundary()).ReadForm(32 << 20)
	require.NoError(t, err)
	t.Cleanup(func() { _ = form.RemoveAll() })
	return form.File["file"][0]
}

var pngBytes = append([]byte("\x89PNG\r\n\x1a\n"), bytes.Repeat([]byte{0}, 64)...)

func TestUpload_StoresByDateAndSniffedType(t *testing.T) {
	dir := t.TempDir()
	svc := NewService(newMemRepo(), dir, 0)
	svc.now = func() time.Time { return time.Date(2026, 3, 9, 10, 0, 0, 0, time.UTC) }

	u, err := svc.Upload(context.Background(), 5, fileHeader(t, "foto.txt", pngBytes))

	require.NoError(t, err)
	assert.Equal(t, "image/png", u.MimeType)
	assert.True(t, strings.HasPrefix(u.FilePath, "2026/03/09/"))
	assert.True(t, strings.HasSuffix(u.FilePath, ".png"))
	assert.Equal(t, "/static/"+u.FilePath, u.FileURL)
	assert.Equal(t, "foto.txt", u.OriginalName)

	_, err = os.Stat(filepath.Join(dir, filepath.FromSlash(u.FilePath)))
	assert.NoError(t, err)
}

func TestUpload_Rejections(t *testing.T) {
	svc := NewService(newMemRepo(), t.TempDir(), 128)
	ctx := context.Background()

	_, err := svc.Upload(ctx, 1, fileHeader(t, "notas.txt", []byte("hola mundo, esto es texto")))
	assert.ErrorIs(t, err, ErrInvalidMimeType)

	_, err = svc.Upload(ctx, 1, fileHeader(t, "grande.pdf", append([]byte("%PDF-1.4\n"), bytes.Repeat([]byte("a"), 256)...)))
	assert.ErrorIs(t, err, ErrFileTooLarge)

	_, err = svc.Upload(ctx, 1, fileHeader(t, "vacio.png", nil))
	assert.ErrorIs(t, err, ErrEmptyFile)
}

func TestDelete_OwnerOnly(t *testing.T) {
	dir := t.TempDir()
	svc := NewService(newMemRepo(), dir, 0)
	ctx := context.Background()

	u, err := svc.Upload(ctx, 5, fileHeader(t, "doc.pdf", []byte("%PDF-1.4\n%...")))
	require.NoError(t, err)

	assert.ErrorIs(t, svc.Delete(ctx, u.ID, 6), ErrNotOwner)
	require.NoError(t, svc.Delete(ctx, u.ID, 5))

	_, err = svc.GetByID(ctx, u.ID)
	assert.ErrorIs(t, err, ErrUploadNotFound)
	_, err = os.Stat(filepath.Join(dir, filepath.FromSlash(u.FilePath)))
	assert.True(t, os.IsNotExist(err))
}

func TestUploadPrivate_StaysOutOfStaticDir(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "uploads")
	svc := NewService(newMemRepo(), dir, 0)
	ctx := context.Background()

	u, err := svc.UploadPrivate(ctx, 5, fileHeader(t, "cedula.pdf", []byte("%PDF-1.4\n%...")))
	require.NoError(t, err)
	assert.True(t, u.Private)
	assert.Equal(t, FileRouteBase+"/"+u.ID+"/file", u.FileURL)

	_, err = os.Stat(filepath.Join(dir, filepath.FromSlash(u.FilePath)))
	assert.True(t, os.IsNotExist(err))

	_, path, err := svc.Open(ctx, u.ID, 5, false)
	require.NoError(t, err)
	_, err = os.Stat(path)
	assert.NoError(t, err)
	assert.False(t, strings.HasPrefix(path, dir+string(filepath.Separator)))
}

func TestOpen_PrivateNeedsOwnerOrAdmin(t *testing.T) {
	svc := NewService(newMemRepo(), filepath.Join(t.TempDir(), "uploads"), 0)
	ctx := context.Background()

	private, err := svc.UploadPrivate(ctx, 5, fileHeader(t, "cedula.pdf", []byte("%PDF-1.4\n%...")))
	require.NoError(t, err)
	public, err := svc.Upload(ctx, 5, fileHeader(t, "foto.png", pngBytes))
	require.NoError(t, err)

	_, _, err = svc.Open(ctx, private.ID, 6, false)
	assert.ErrorIs(t, err, ErrNotOwner)
	_, _, err = svc.Open(ctx, private.ID, 6, true)
	assert.NoError(t, err)
	_, _, err = svc.Open(ctx, private.ID, 5, false)
	assert.NoError(t, err)
	_, _, err = svc.Open(ctx, public.ID, 6, false)
	assert.NoError(t, err)
}

func TestDelete_RefusedWhileReferenced(t *testing.T) {
	svc := NewService(newMemRepo(), filepath.Join(t.TempDir(), "uploads"), 0)
	ctx := context.Background()

	u, err := svc.UploadPrivate(ctx, 5, fileHeader(t, "cedula.pdf", []byte("%PDF-1.4\n%...")))
	require.NoError(t, err)

	held := map[string]bool{u.FileURL: true}
	svc.SetInUse(func(_ context.Context, u *Upload) (bool, error) { return held[u.FileURL], nil })

	assert.ErrorIs(t, svc.Delete(ctx, u.ID, 5), ErrFileInUse)
	_, path, err := svc.Open(ctx, u.ID, 5, false)
	require.NoError(t, err)
	_, err = os.Stat(path)
	assert.NoError(t, err)

	require.NoError(t, svc.Discard(ctx, u))
	_, err = os.Stat(path)
	assert.True(t, os.IsNotExist(err))
}
