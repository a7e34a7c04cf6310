package verification

import (
	"context"
	"mime/multipart"
	"time"

	"servimarket/internal/domain"
	"servimarket/internal/domain/upload"
)

type DocumentRepository interface {
	CreateIfNoneBlocking(ctx context.Context, d *domain.VerificationDocument) error
	GetByID(ctx context.Context, id string) (*domain.VerificationDocument, error)
	Latest(ctx context.Context, userID int64) (*domain.VerificationDocument, error)
	ListPending(ctx context.Context) ([]domain.VerificationDocument, error)
	Decide(ctx context.Context, id string, status domain.VerificationStatus, reason *string, reviewer int64, at time.Time) (bool, error)
	ReferencesFile(ctx context.Context, fileURL string) (bool, error)
}

type FileStore interface {
	UploadPrivate(ctx context.Context, userID int64, fh *multipart.FileHeader) (*upload.Upload, error)
	Discard(ctx context.Context, u *upload.Upload) error
}
