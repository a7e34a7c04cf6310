package verification

import (
	"context"
	"errors"
	"log"
	"mime/multipart"
	"strings"
	"time"

	"servimarket/internal/domain"
	"servimarket/internal/domain/upload"
	"servimarket/internal/pkg/apperr"
	"servimarket/internal/pkg/dberr"
	"servimarket/internal/repository"

	"github.com/google/uuid"
)

var (
	ErrAlreadySubmitted = apperr.Conflict("Ya tienes un documento en revisión o aprobado.")
	ErrDocumentNotFound = apperr.NotFound("Documento no encontrado.")
	ErrNotPending       = apperr.InvalidState("El documento ya fue revisado.")
	ErrReasonRequired   = apperr.Validation("Indica el motivo del rechazo.")
	ErrInvalidType      = apperr.Validation("Tipo de documento no válido.")
)

// DocumentTypes lists the accepted values of the "tipo" form field.
var DocumentTypes = map[string]bool{
	"documento_identidad": true,
	"certificado":         true,
	"antecedentes":        true,
}

// Status is what a worker or an admin sees about a user's verification.
type Status struct {
	UserID    int64                        `json:"user_id"`
	Estado    domain.VerificationStatus    `json:"estado"`
	Documento *domain.VerificationDocument `json:"documento,omitempty"`
}

type Service struct {
	docs  DocumentRepository
	files FileStore
	now   func() time.Time
}

func NewService(docs DocumentRepository, files FileStore) *Service {
	return &Service{docs: docs, files: files, now: domain.Now}
}

// Submit stores the file and opens a pending review. A rejected document may
// be replaced; a pending or approved one may not.
func (s *Service) Submit(ctx context.Context, userID int64, tipo string, fh *multipart.FileHeader) (*domain.VerificationDocument, error) {
	tipo = strings.TrimSpace(tipo)
	if !DocumentTypes[tipo] {
		return nil, ErrInvalidType
	}

	latest, err := s.docs.Latest(ctx, userID)
	if err != nil {
		return nil, err
	}
	if latest != nil && latest.Blocks() {
		return nil, ErrAlreadySubmitted
	}

	stored, err := s.files.UploadPrivate(ctx, userID, fh)
	if err != nil {
		return nil, err
	}

	doc := &domain.VerificationDocument{
		ID:        uuid.New().String(),
		UserID:    userID,
		Tipo:      tipo,
		FileURL:   stored.FileURL,
		Estado:    domain.VerificationPending,
		CreatedAt: s.now(),
	}
	if err := s.docs.CreateIfNoneBlocking(ctx, doc); err != nil {
		if derr := s.files.Discard(ctx, stored); derr != nil {
			log.Printf("upload_discard_failed id=%s err=%q", stored.ID, derr.Error())
		}
		if errors.Is(err, repository.ErrDocumentPending) {
			return nil, ErrAlreadySubmitted
		}
		return nil, err
	}

	log.Printf("verification_submitted id=%s user_id=%d tipo=%s", doc.ID, userID, tipo)
	return doc, nil
}

// HoldsFile reports whether a verification document points at the upload.
// Such files stay on disk for the admin review history.
func (s *Service) HoldsFile(ctx context.Context, u *upload.Upload) (bool, error) {
	return s.docs.ReferencesFile(ctx, u.FileURL)
}

func (s *Service) Status(ctx context.Context, userID int64) (*Status, error) {
	latest, err := s.docs.Latest(ctx, userID)
	if err != nil {
		return nil, err
	}
	if latest == nil {
		return &Status{UserID: userID, Estado: domain.VerificationNone}, nil
	}
	return &Status{UserID: userID, Estado: latest.Estado, Documento: latest}, nil
}

func (s *Service) ListPending(ctx context.Context) ([]domain.VerificationDocument, error) {
	return s.docs.ListPending(ctx)
}

func (s *Service) Approve(ctx context.Context, id string, reviewer int64) (*domain.VerificationDocument, error) {
	return s.decide(ctx, id, domain.VerificationApproved, nil, reviewer)
}

func (s *Service) Reject(ctx context.Context, id string, reviewer int64, reason string) (*domain.VerificationDocument, error) {
	reason = strings.TrimSpace(reason)
	if reason == "" {
		return nil, ErrReasonRequired
	}
	return s.decide(ctx, id, domain.VerificationRejected, &reason, reviewer)
}

func (s *Service) decide(ctx context.Context, id string, status domain.VerificationStatus, reason *string, reviewer int64) (*domain.VerificationDocument, error) {
	ok, err := s.docs.Decide(ctx, id, status, reason, reviewer, s.now())
	if err != nil {
		if dberr.IsNotFound(err) {
			return nil, ErrDocumentNotFound
		}
		return nil, err
	}
	if !ok {
		return nil, ErrNotPending
	}

	log.Printf("verification_decided id=%s estado=%s reviewer=%d", id, status, reviewer)
	doc, err := s.docs.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	return doc, nil
}
