package upload

import (
	"context"
	"fmt"
	"io"
	"log"
	"mime/multipart"
	"net/http"
	"os"
	"path/filepath"
	"strings"
	"time"

	"servimarket/internal/domain"

	"github.com/google/uuid"
)

const (
	DefaultMaxBytes = 10 * 1024 * 1024
	DefaultBaseDir  = "./uploads"
	StaticURLBase   = "/static"
	// FileRouteBase serves private files through an authenticated route.
	FileRouteBase = "/api/v1/uploads"
)

// allowedTypes maps accepted sniffed MIME types to the extension written to disk.
var allowedTypes = map[string]string{
	"image/jpeg":      ".jpg",
	"image/png":       ".png",
	"image/webp":      ".webp",
	"application/pdf": ".pdf",
}

func Allowed(mimeType string) bool {
	_, ok := allowedTypes[mimeType]
	return ok
}

// InUseFunc reports whether another record still points at the upload.
type InUseFunc func(ctx context.Context, u *Upload) (bool, error)

// Service stores files under baseDir/YYYY/MM/DD and records them. Private
// files go to a sibling directory that is never mounted as static.
type Service struct {
	repo       Repository
	baseDir    string
	privateDir string
	staticBase string
	maxBytes   int64
	inUse      InUseFunc
	now        func() time.Time
}

func NewService(repo Repository, baseDir string, maxBytes int64) *Service {
	if baseDir == "" {
		baseDir = DefaultBaseDir
	}
	if maxBytes <= 0 {
		maxBytes = DefaultMaxBytes
	}
	return &Service{
		repo:       repo,
		baseDir:    baseDir,
		privateDir: filepath.Clean(baseDir) + "-private",
		staticBase: StaticURLBase,
		maxBytes:   maxBytes,
		now:        domain.Now,
	}
}

func (s *Service) BaseDir() string { return s.baseDir }
func (s *Service) MaxBytes() int64 { return s.maxBytes }

// SetInUse installs the check Delete runs before removing a file.
func (s *Service) SetInUse(fn InUseFunc) { s.inUse = fn }

// Upload stores a file served publicly under StaticURLBase.
func (s *Service) Upload(ctx context.Context, userID int64, fh *multipart.FileHeader) (*Upload, error) {
	return s.store(ctx, userID, fh, false)
}

// UploadPrivate stores a file readable only by its owner and admins.
func (s *Service) UploadPrivate(ctx context.Context, userID int64, fh *multipart.FileHeader) (*Upload, error) {
	return s.store(ctx, userID, fh, true)
}

func (s *Service) root(private bool) string {
	if private {
		return s.privateDir
	}
	return s.baseDir
}

// store sniffs the content type from the first 512 bytes; the client's
// declared type and extension are ignored.
func (s *Service) store(ctx context.Context, userID int64, fh *multipart.FileHeader, private bool) (*Upload, error) {
	if fh == nil || fh.Size == 0 {
		return nil, ErrEmptyFile
	}
	if fh.Size > s.maxBytes {
		return nil, ErrFileTooLarge
	}

	file, err := fh.Open()
	if err != nil {
		return nil, fmt.Errorf("open upload: %w", err)
	}
	defer file.Close()

	head := make([]byte, 512)
	n, err := io.ReadFull(file, head)
	if err != nil && err != io.ErrUnexpectedEOF && err != io.EOF {
		return nil, fmt.Errorf("read upload: %w", err)
	}
	mimeType := strings.Split(http.DetectContentType(head[:n]), ";")[0]
	ext, ok := allowedTypes[mimeType]
	if !ok {
		return nil, ErrInvalidMimeType
	}
	if _, err := file.Seek(0, io.SeekStart); err != nil {
		return nil, fmt.Errorf("rewind upload: %w", err)
	}

	now := s.now()
	relDir := fmt.Sprintf("%d/%02d/%02d", now.Year(), now.Month(), now.Day())
	root := s.root(private)
	if err := os.MkdirAll(filepath.Join(root, relDir), 0o755); err != nil {
		return nil, fmt.Errorf("create upload dir: %w", err)
	}

	id := uuid.New().String()
	relPath := filepath.Join(relDir, id+ext)
	absPath := filepath.Join(root, relPath)

	dst, err := os.Create(absPath)
	if err != nil {
		return nil, fmt.Errorf("create file: %w", err)
	}
	written, err := io.Copy(dst, io.LimitReader(file, s.maxBytes+1))
	closeErr := dst.Close()
	if err == nil {
		err = closeErr
	}
	if err != nil {
		_ = os.Remove(absPath)
		return nil, fmt.Errorf("write file: %w", err)
	}
	if written > s.maxBytes {
		_ = os.Remove(absPath)
		return nil, ErrFileTooLarge
	}

	u := &Upload{
		ID:           id,
		UserID:       userID,
		OriginalName: sanitizeName(fh.Filename),
		FilePath:     filepath.ToSlash(relPath),
		FileURL:      s.staticBase + "/" + filepath.ToSlash(relPath),
		MimeType:     mimeType,
		Size:         written,
		Private:      private,
		CreatedAt:    now,
	}
	if private {
		u.FileURL = FileRouteBase + "/" + id + "/file"
	}
	if err := s.repo.Create(ctx, u); err != nil {
		_ = os.Remove(absPath)
		return nil, fmt.Errorf("save upload record: %w", err)
	}

	log.Printf("upload_stored id=%s user_id=%d mime=%s size=%d private=%t", u.ID, userID, mimeType, written, private)
	return u, nil
}

func (s *Service) GetByID(ctx context.Context, id string) (*Upload, error) {
	return s.repo.GetByID(ctx, id)
}

// Open returns the record and the path on disk of a file the caller may
// read. Public files are readable by any user; private ones by the owner
// and admins.
func (s *Service) Open(ctx context.Context, id string, userID int64, admin bool) (*Upload, string, error) {
	u, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, "", err
	}
	if u.Private && u.UserID != userID && !admin {
		return nil, "", ErrNotOwner
	}
	return u, s.pathOf(u), nil
}

// Delete removes the file and its record. Only the owner may delete, and
// not while another record still points at the file.
func (s *Service) Delete(ctx context.Context, id string, userID int64) error {
	u, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return err
	}
	if u.UserID != userID {
		return ErrNotOwner
	}
	if s.inUse != nil {
		used, err := s.inUse(ctx, u)
		if err != nil {
			return err
		}
		if used {
			return ErrFileInUse
		}
	}
	return s.Discard(ctx, u)
}

// Discard removes an upload without ownership or reference checks. Callers
// use it to roll back a file whose owning record could not be written.
func (s *Service) Discard(ctx context.Context, u *Upload) error {
	_ = os.Remove(s.pathOf(u))
	return s.repo.Delete(ctx, u.ID)
}

func (s *Service) pathOf(u *Upload) string {
	return filepath.Join(s.root(u.Private), filepath.FromSlash(u.FilePath))
}

func (s *Service) ListByUser(ctx context.Context, userID int64) ([]*Upload, error) {
	return s.repo.ListByUserID(ctx, userID)
}

// sanitizeName keeps the display name printable and short.
func sanitizeName(name string) string {
	name = filepath.Base(strings.ReplaceAll(name, "\\", "/"))
	name = strings.Map(func(r rune) rune {
		if r < 32 || r == 127 || r == '/' {
			return -1
		}
		return r
	}, name)
	if r := []rune(name); len(r) > 120 {
		name = string(r[:120])
	}
	if name == "" || name == "." {
		return "archivo"
	}
	return name
}
