package verification

import (
	"context"
	"errors"
	"mime/multipart"
	"strings"
	"testing"
	"time"

	"servimarket/internal/domain"
	"servimarket/internal/domain/upload"
	"servimarket/internal/repository"
	"servimarket/internal/testutil"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

type fakeFiles struct {
	uploaded  int
	discarded []string
	err       error
}

func (f *fakeFiles) UploadPrivate(ctx context.Context, userID int64, fh *multipart.FileHeader) (*upload.Upload, error) {
	if f.err != nil {
		return nil, f.err
	}
	f.uploaded++
	id := uuid.New().String()
	return &upload.Upload{ID: id, UserID: userID, FileURL: upload.FileRouteBase + "/" + id + "/file", Private: true}, nil
}

func (f *fakeFiles) Discard(ctx context.Context, u *upload.Upload) error {
	f.discarded = append(f.discarded, u.ID)
	return nil
}

func newVerificationService(t *testing.T) (*Service, *fakeFiles, *gorm.DB, int64) {
	db := testutil.NewDB(t)
	worker := &domain.User{Email: "luis@example.com", PasswordHash: "x", Role: domain.RoleWorker, Name: "Luis"}
	require.NoError(t, db.Create(worker).Error)
	require.NoError(t, db.Create(&domain.WorkerProfile{UserID: worker.ID, Nombre: "Luis", Documento: "5040302010", Habilidades: "plomería"}).Error)

	files := &fakeFiles{}
	svc := NewService(repository.NewVerificationRepository(db), files)
	clock := time.Date(2025, 10, 1, 8, 0, 0, 0, time.UTC)
	svc.now = func() time.Time {
		clock = clock.Add(time.Minute)
		return clock
	}
	return svc, files, db, worker.ID
}

func TestSubmit_BlocksWhilePendingOrApproved(t *testing.T) {
	svc, files, _, userID := newVerificationService(t)
	ctx := context.Background()

	st, err := svc.Status(ctx, userID)
	require.NoError(t, err)
	assert.Equal(t, domain.VerificationNone, st.Estado)

	doc, err := svc.Submit(ctx, userID, "documento_identidad", nil)
	require.NoError(t, err)
	assert.Equal(t, domain.VerificationPending, doc.Estado)

	_, err = svc.Submit(ctx, userID, "certificado", nil)
	assert.ErrorIs(t, err, ErrAlreadySubmitted)
	assert.Equal(t, 1, files.uploaded, "no file is stored for a blocked submission")

	_, err = svc.Approve(ctx, doc.ID, 99)
	require.NoError(t, err)
	_, err = svc.Submit(ctx, userID, "certificado", nil)
	assert.ErrorIs(t, err, ErrAlreadySubmitted)
}

func TestHoldsFile(t *testing.T) {
	svc, _, _, userID := newVerificationService(t)
	ctx := context.Background()

	doc, err := svc.Submit(ctx, userID, "documento_identidad", nil)
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(doc.FileURL, upload.FileRouteBase+"/"))

	held, err := svc.HoldsFile(ctx, &upload.Upload{FileURL: doc.FileURL})
	require.NoError(t, err)
	assert.True(t, held)

	held, err = svc.HoldsFile(ctx, &upload.Upload{FileURL: "/static/2025/01/01/otro.png"})
	require.NoError(t, err)
	assert.False(t, held)
}

func TestSubmit_AllowedAfterRejection(t *testing.T) {
	svc, _, _, userID := newVerificationService(t)
	ctx := context.Background()

	doc, err := svc.Submit(ctx, userID, "documento_identidad", nil)
	require.NoError(t, err)

	_, err = svc.Reject(ctx, doc.ID, 99, "  ")
	assert.ErrorIs(t, err, ErrReasonRequired)

	rejected, err := svc.Reject(ctx, doc.ID, 99, "Foto ilegible")
	require.NoError(t, err)
	assert.Equal(t, domain.VerificationRejected, rejected.Estado)
	require.NotNil(t, rejected.MotivoRechazo)
	assert.Equal(t, "Foto ilegible", *rejected.MotivoRechazo)

	again, err := svc.Submit(ctx, userID, "documento_identidad", nil)
	require.NoError(t, err)

	st, err := svc.Status(ctx, userID)
	require.NoError(t, err)
	assert.Equal(t, domain.VerificationPending, st.Estado)
	assert.Equal(t, again.ID, st.Documento.ID)
}

func TestApprove_MarksWorkerVerified(t *testing.T) {
	svc, _, db, userID := newVerificationService(t)
	ctx := context.Background()

	doc, err := svc.Submit(ctx, userID, "antecedentes", nil)
	require.NoError(t, err)
	pending, err := svc.ListPending(ctx)
	require.NoError(t, err)
	require.Len(t, pending, 1)

	_, err = svc.Approve(ctx, doc.ID, 99)
	require.NoError(t, err)

	var p domain.WorkerProfile
	require.NoError(t, db.Where("user_id = ?", userID).First(&p).Error)
	assert.True(t, p.Verificado)

	_, err = svc.Approve(ctx, doc.ID, 99)
	assert.ErrorIs(t, err, ErrNotPending)

	_, err = svc.Approve(ctx, uuid.New().String(), 99)
	assert.ErrorIs(t, err, ErrDocumentNotFound)
}

func TestSubmit_InvalidTypeAndUploadFailure(t *testing.T) {
	svc, files, _, userID := newVerificationService(t)
	ctx := context.Background()

	_, err := svc.Submit(ctx, userID, "pasaporte", nil)
	assert.ErrorIs(t, err, ErrInvalidType)

	files.err = errors.New("disk full")
	_, err = svc.Submit(ctx, userID, "certificado", nil)
	assert.EqualError(t, err, "disk full")

	st, err := svc.Status(ctx, userID)
	require.NoError(t, err)
	assert.Equal(t, domain.VerificationNone, st.Estado)
}
