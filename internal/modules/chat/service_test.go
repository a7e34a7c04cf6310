package chat

import (
	"context"
	"strings"
	"testing"
	"time"

	"servimarket/internal/domain"
	"servimarket/internal/pkg/apperr"
	"servimarket/internal/repository"
	"servimarket/internal/testutil"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

const (
	clientID = int64(1)
	workerID = int64(2)
	outsider = int64(3)
)

func newChatService(t *testing.T) (*Service, *gorm.DB) {
	db := testutil.NewDB(t)
	svc := NewService(repository.NewChatRepository(db), nil, nil)
	clock := time.Date(2025, 9, 1, 10, 0, 0, 0, time.UTC)
	svc.now = func() time.Time {
		clock = clock.Add(time.Second)
		return clock
	}
	return svc, db
}

func seedChat(t *testing.T, db *gorm.DB, id string, active bool) {
	t.Helper()
	require.NoError(t, db.Create(&domain.Chat{
		ID:           id,
		OfertaID:     "offer-" + id,
		ClienteID:    clientID,
		TrabajadorID: workerID,
		IsActive:     active,
		CreatedAt:    time.Date(2025, 9, 1, 9, 0, 0, 0, time.UTC),
	}).Error)
}

func TestSend_Gate(t *testing.T) {
	svc, db := newChatService(t)
	ctx := context.Background()
	seedChat(t, db, "open", true)
	seedChat(t, db, "closed", false)

	m, err := svc.Send(ctx, "open", workerID, "  Hola  ", nil)
	require.NoError(t, err)
	assert.Equal(t, "Hola", m.Content)
	assert.False(t, m.IsSystemMessage)

	_, err = svc.Send(ctx, "open", outsider, "Hola", nil)
	assert.True(t, apperr.Is(err, apperr.KindForbidden))

	_, err = svc.Send(ctx, "closed", clientID, "Hola", nil)
	assert.True(t, apperr.Is(err, apperr.KindForbidden))
	assert.Contains(t, apperr.MessageOf(err), "cerrado")

	_, err = svc.Send(ctx, "open", clientID, "   ", nil)
	assert.True(t, apperr.Is(err, apperr.KindValidation))

	_, err = svc.Send(ctx, "open", clientID, strings.Repeat("a", maxContentLen+1), nil)
	assert.True(t, apperr.Is(err, apperr.KindValidation))

	_, err = svc.Send(ctx, "missing", clientID, "Hola", nil)
	assert.True(t, apperr.Is(err, apperr.KindNotFound))
}

func TestMessages_ReadableAfterClose(t *testing.T) {
	svc, db := newChatService(t)
	ctx := context.Background()
	seedChat(t, db, "c1", true)

	first, err := svc.Send(ctx, "c1", clientID, "uno", nil)
	require.NoError(t, err)
	_, err = svc.Send(ctx, "c1", workerID, "dos", nil)
	require.NoError(t, err)
	require.NoError(t, db.Model(&domain.Chat{}).Where("id = ?", "c1").Update("is_active", false).Error)

	msgs, err := svc.Messages(ctx, "c1", workerID, nil, 0)
	require.NoError(t, err)
	require.Len(t, msgs, 2)
	assert.Equal(t, "uno", msgs[0].Content)

	after := first.CreatedAt
	newer, err := svc.Messages(ctx, "c1", clientID, &after, 0)
	require.NoError(t, err)
	require.Len(t, newer, 1)
	assert.Equal(t, "dos", newer[0].Content)

	_, err = svc.Messages(ctx, "c1", outsider, nil, 0)
	assert.True(t, apperr.Is(err, apperr.KindForbidden))
}

func TestMarkRead_IsIdempotent(t *testing.T) {
	svc, db := newChatService(t)
	ctx := context.Background()
	seedChat(t, db, "c1", true)

	_, err := svc.Send(ctx, "c1", workerID, "uno", nil)
	require.NoError(t, err)
	_, err = svc.Send(ctx, "c1", workerID, "dos", nil)
	require.NoError(t, err)
	_, err = svc.Send(ctx, "c1", clientID, "mío", nil)
	require.NoError(t, err)

	n, err := svc.MarkRead(ctx, "c1", clientID)
	require.NoError(t, err)
	assert.Equal(t, int64(2), n)

	n, err = svc.MarkRead(ctx, "c1", clientID)
	require.NoError(t, err)
	assert.Zero(t, n)
}

func TestIsParticipant(t *testing.T) {
	svc, db := newChatService(t)
	ctx := context.Background()
	seedChat(t, db, "c1", false)

	assert.True(t, svc.IsParticipant(ctx, clientID, "c1"))
	assert.False(t, svc.IsParticipant(ctx, outsider, "c1"))
	assert.False(t, svc.IsParticipant(ctx, clientID, "nope"))

	rooms, err := svc.ActiveRoomIDs(ctx, workerID)
	require.NoError(t, err)
	assert.Equal(t, []string{"c1"}, rooms)
}
