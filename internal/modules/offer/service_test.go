package offer

import (
	"context"
	"sync"
	"testing"
	"time"

	"servimarket/internal/domain"
	"servimarket/internal/pkg/apperr"
	"servimarket/internal/repository"
	"servimarket/internal/testutil"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

const (
	clientID = int64(10)
	workerID = int64(20)
	otherID  = int64(30)
)

type recordingPublisher struct {
	mu       sync.Mutex
	messages []*domain.Message
	statuses map[string]bool
}

func (p *recordingPublisher) PublishMessage(chatID string, msg *domain.Message) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.messages = append(p.messages, msg)
}

func (p *recordingPublisher) PublishChatStatus(chatID string, active bool) {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.statuses == nil {
		p.statuses = map[string]bool{}
	}
	p.statuses[chatID] = active
}

type fixture struct {
	db    *gorm.DB
	svc   *Service
	pub   *recordingPublisher
	chats *repository.ChatRepository
	clock time.Time
}

func newFixture(t *testing.T) *fixture {
	db := testutil.NewDB(t)
	offers := repository.NewOfferRepository(db)
	chats := repository.NewChatRepository(db)
	pub := &recordingPublisher{}
	f := &fixture{
		db:    db,
		svc:   NewService(offers, repository.NewPublicationRepository(db), chats, pub),
		pub:   pub,
		chats: chats,
		clock: time.Date(2025, 6, 1, 9, 0, 0, 0, time.UTC),
	}
	f.svc.now = func() time.Time {
		f.clock = f.clock.Add(time.Second)
		return f.clock
	}
	return f
}

func (f *fixture) publication(t *testing.T) *domain.Publication {
	t.Helper()
	p := &domain.Publication{
		ID:           uuid.New().String(),
		ClienteID:    clientID,
		Titulo:       "Pintar sala",
		Descripcion:  "Dos paredes",
		Categoria:    "PINTURA",
		Ciudad:       "Bogotá",
		PrecioMaximo: 300000,
		Activa:       true,
		CreatedAt:    f.clock,
	}
	require.NoError(t, f.db.Create(p).Error)
	return p
}

func (f *fixture) offer(t *testing.T, pubID string, worker int64) *domain.Offer {
	t.Helper()
	o, err := f.svc.Create(context.Background(), worker, CreateOfferRequest{PublicacionID: pubID, Monto: 250000, Mensaje: "Disponible el sábado"})
	require.NoError(t, err)
	return o
}

func (f *fixture) reload(t *testing.T, model any, id string) {
	t.Helper()
	require.NoError(t, f.db.Where("id = ?", id).First(model).Error)
}

func (f *fixture) chatFor(t *testing.T, offerID string) *domain.Chat {
	t.Helper()
	ch, err := f.chats.GetByOfferID(context.Background(), offerID)
	require.NoError(t, err)
	return ch
}

func (f *fixture) systemMessages(t *testing.T, chatID string) int64 {
	t.Helper()
	n, err := f.chats.CountSystemMessages(context.Background(), chatID)
	require.NoError(t, err)
	return n
}

func TestCreate_CopiesClientAndOpensChat(t *testing.T) {
	f := newFixture(t)
	p := f.publication(t)

	o := f.offer(t, p.ID, workerID)

	assert.Equal(t, domain.OfferPending, o.Estado)
	assert.Equal(t, clientID, o.ClienteID)
	ch := f.chatFor(t, o.ID)
	assert.True(t, ch.IsActive)
	assert.Equal(t, clientID, ch.ClienteID)
	assert.Equal(t, workerID, ch.TrabajadorID)
}

func TestCreate_EnforcesPerWorkerCap(t *testing.T) {
	f := newFixture(t)
	p := f.publication(t)
	ctx := context.Background()

	for i := 0; i < domain.MaxOffersPerWorker; i++ {
		f.offer(t, p.ID, workerID)
	}

	_, err := f.svc.Create(ctx, workerID, CreateOfferRequest{PublicacionID: p.ID, Monto: 1, Mensaje: "otra"})
	assert.True(t, apperr.Is(err, apperr.KindLimitExceeded))

	q, err := f.svc.Quota(ctx, p.ID, workerID)
	require.NoError(t, err)
	assert.Equal(t, int64(0), q.Remaining)

	// other workers keep their own quota
	f.offer(t, p.ID, otherID)
}

func TestCreate_Validation(t *testing.T) {
	f := newFixture(t)
	p := f.publication(t)
	ctx := context.Background()

	_, err := f.svc.Create(ctx, workerID, CreateOfferRequest{PublicacionID: p.ID, Monto: 0, Mensaje: "hola"})
	assert.True(t, apperr.Is(err, apperr.KindValidation))

	_, err = f.svc.Create(ctx, workerID, CreateOfferRequest{PublicacionID: p.ID, Monto: 10, Mensaje: "   "})
	assert.True(t, apperr.Is(err, apperr.KindValidation))

	_, err = f.svc.Create(ctx, workerID, CreateOfferRequest{PublicacionID: uuid.New().String(), Monto: 10, Mensaje: "hola"})
	assert.True(t, apperr.Is(err, apperr.KindNotFound))
}

func TestAccept_ClosesPublicationAndBlocksSecondAccept(t *testing.T) {
	f := newFixture(t)
	p := f.publication(t)
	first := f.offer(t, p.ID, workerID)
	second := f.offer(t, p.ID, otherID)
	ctx := context.Background()

	got, err := f.svc.Accept(ctx, first.ID, clientID)
	require.NoError(t, err)
	assert.Equal(t, domain.OfferAccepted, got.Estado)

	var stored domain.Publication
	f.reload(t, &stored, p.ID)
	assert.False(t, stored.Activa)
	assert.NotNil(t, stored.FechaCierre)

	ch := f.chatFor(t, first.ID)
	assert.True(t, ch.IsActive)
	assert.Equal(t, int64(1), f.systemMessages(t, ch.ID))
	require.Len(t, f.pub.messages, 1)
	assert.Equal(t, domain.SystemMessageAccepted, f.pub.messages[0].Content)

	_, err = f.svc.Accept(ctx, second.ID, clientID)
	assert.True(t, apperr.Is(err, apperr.KindInvalidState))

	var other domain.Offer
	f.reload(t, &other, second.ID)
	assert.Equal(t, domain.OfferPending, other.Estado)
	assert.Zero(t, f.systemMessages(t, f.chatFor(t, second.ID).ID))
}

func TestReject_ClosesChatWithOneSystemMessage(t *testing.T) {
	f := newFixture(t)
	p := f.publication(t)
	o := f.offer(t, p.ID, workerID)
	ctx := context.Background()

	_, err := f.svc.Reject(ctx, o.ID, clientID)
	require.NoError(t, err)

	ch := f.chatFor(t, o.ID)
	assert.False(t, ch.IsActive)
	assert.Equal(t, int64(1), f.systemMessages(t, ch.ID))
	assert.Equal(t, map[string]bool{ch.ID: false}, f.pub.statuses)

	var stored domain.Publication
	f.reload(t, &stored, p.ID)
	assert.True(t, stored.Activa, "rejecting does not close the publication")

	_, err = f.svc.Reject(ctx, o.ID, clientID)
	assert.True(t, apperr.Is(err, apperr.KindInvalidState))
	assert.Equal(t, int64(1), f.systemMessages(t, ch.ID))
}

func TestFinalize(t *testing.T) {
	f := newFixture(t)
	p := f.publication(t)
	o := f.offer(t, p.ID, workerID)
	ctx := context.Background()

	_, err := f.svc.Finalize(ctx, o.ID, clientID)
	assert.True(t, apperr.Is(err, apperr.KindInvalidState), "pending offers cannot be finalized")

	_, err = f.svc.Accept(ctx, o.ID, clientID)
	require.NoError(t, err)
	got, err := f.svc.Finalize(ctx, o.ID, clientID)
	require.NoError(t, err)
	assert.Equal(t, domain.OfferFinalized, got.Estado)

	ch := f.chatFor(t, o.ID)
	assert.False(t, ch.IsActive)
	assert.Equal(t, int64(2), f.systemMessages(t, ch.ID))
}

func TestTransition_OnlyPublicationClient(t *testing.T) {
	f := newFixture(t)
	p := f.publication(t)
	o := f.offer(t, p.ID, workerID)

	_, err := f.svc.Accept(context.Background(), o.ID, workerID)
	assert.True(t, apperr.Is(err, apperr.KindAuthorization))

	_, err = f.svc.Accept(context.Background(), uuid.New().String(), clientID)
	assert.True(t, apperr.Is(err, apperr.KindNotFound))
}

// staleReads returns the offer as it was before a concurrent writer moved it.
type staleReads struct {
	*repository.OfferRepository
	snapshot domain.Offer
}

func (s *staleReads) GetByID(ctx context.Context, id string) (*domain.Offer, error) {
	o := s.snapshot
	return &o, nil
}

func TestTransition_LostRaceIsInvalidState(t *testing.T) {
	f := newFixture(t)
	p := f.publication(t)
	o := f.offer(t, p.ID, workerID)
	ctx := context.Background()

	_, err := f.svc.Reject(ctx, o.ID, clientID)
	require.NoError(t, err)

	repo := &staleReads{OfferRepository: repository.NewOfferRepository(f.db), snapshot: *o}
	racer := NewService(repo, repository.NewPublicationRepository(f.db), f.chats, nil)

	_, err = racer.Accept(ctx, o.ID, clientID)
	assert.True(t, apperr.Is(err, apperr.KindInvalidState))

	var stored domain.Offer
	f.reload(t, &stored, o.ID)
	assert.Equal(t, domain.OfferRejected, stored.Estado)
	var pub domain.Publication
	f.reload(t, &pub, p.ID)
	assert.True(t, pub.Activa)
}
