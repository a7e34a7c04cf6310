package offer

import (
	"context"
	"errors"
	"fmt"
	"log"
	"strings"
	"time"

	"servimarket/internal/domain"
	"servimarket/internal/pkg/apperr"
	"servimarket/internal/pkg/dberr"
	"servimarket/internal/pkg/fallback"
	"servimarket/internal/repository"

	"github.com/google/uuid"
)

type Service struct {
	offers    OfferRepository
	pubs      PublicationReader
	chats     ChatReader
	publisher Publisher
	procCap   *fallback.Capability
	now       func() time.Time
}

func NewService(offers OfferRepository, pubs PublicationReader, chats ChatReader, publisher Publisher) *Service {
	return &Service{
		offers:    offers,
		pubs:      pubs,
		chats:     chats,
		publisher: publisher,
		procCap:   fallback.NewCapability(offers.TransitionProcAvailable),
		now:       domain.Now,
	}
}

// Create submits a worker's offer. The offer and its chat are stored together.
func (s *Service) Create(ctx context.Context, workerID int64, req CreateOfferRequest) (*domain.Offer, error) {
	msg := strings.TrimSpace(req.Mensaje)
	switch {
	case req.Monto <= 0:
		return nil, apperr.Validation("El monto debe ser mayor a 0.")
	case msg == "":
		return nil, apperr.Validation("El mensaje de la oferta es obligatorio.")
	case strings.TrimSpace(req.PublicacionID) == "":
		return nil, apperr.Validation("La publicación es obligatoria.")
	}

	now := s.now()
	o := &domain.Offer{
		ID:            uuid.New().String(),
		PublicacionID: strings.TrimSpace(req.PublicacionID),
		TrabajadorID:  workerID,
		Monto:         req.Monto,
		Mensaje:       msg,
		CreatedAt:     now,
		UpdatedAt:     now,
	}
	ch := &domain.Chat{ID: uuid.New().String(), CreatedAt: now}

	err := s.offers.CreateWithChat(ctx, o, ch, domain.MaxOffersPerWorker)
	switch {
	case errors.Is(err, repository.ErrPublicationUnavailable):
		return nil, apperr.NotFound("La publicación no existe o ya no está activa.")
	case errors.Is(err, repository.ErrOfferLimitReached):
		return nil, apperr.LimitExceeded(fmt.Sprintf("Ya enviaste el máximo de %d ofertas para esta publicación.", domain.MaxOffersPerWorker))
	case err != nil:
		return nil, err
	}

	log.Printf("offer_created offer_id=%s publication_id=%s worker_id=%d chat_id=%s", o.ID, o.PublicacionID, workerID, ch.ID)
	return o, nil
}

func (s *Service) Accept(ctx context.Context, offerID string, actorID int64) (*domain.Offer, error) {
	return s.transition(ctx, offerID, actorID, domain.EventAccept)
}

func (s *Service) Reject(ctx context.Context, offerID string, actorID int64) (*domain.Offer, error) {
	return s.transition(ctx, offerID, actorID, domain.EventReject)
}

func (s *Service) Finalize(ctx context.Context, offerID string, actorID int64) (*domain.Offer, error) {
	return s.transition(ctx, offerID, actorID, domain.EventFinalize)
}

var wrongStateMessages = map[domain.OfferEvent]string{
	domain.EventAccept:   "Solo se pueden aceptar ofertas pendientes.",
	domain.EventReject:   "Solo se pueden rechazar ofertas pendientes.",
	domain.EventFinalize: "Solo se pueden finalizar ofertas aceptadas.",
}

func (s *Service) transition(ctx context.Context, offerID string, actorID int64, ev domain.OfferEvent) (*domain.Offer, error) {
	o, err := s.load(ctx, offerID)
	if err != nil {
		return nil, err
	}
	if o.ClienteID != actorID {
		return nil, apperr.Authorization("Solo el cliente de la publicación puede gestionar esta oferta.")
	}

	var chatID string
	ch, err := s.chats.GetByOfferID(ctx, o.ID)
	switch {
	case err == nil:
		chatID = ch.ID
	case !dberr.IsNotFound(err):
		return nil, err
	}

	t, err := domain.NewTransition(*o, chatID, actorID, ev, s.now())
	if errors.Is(err, domain.ErrInvalidTransition) {
		return nil, apperr.InvalidState(wrongStateMessages[ev])
	}
	if err != nil {
		return nil, err
	}

	strategy := fallback.Strategy[struct{}]{
		Name: "offer_transition",
		Primary: func(ctx context.Context) (struct{}, error) {
			return struct{}{}, s.offers.CallTransitionProc(ctx, t)
		},
		Fallback: func(ctx context.Context) (struct{}, error) {
			return struct{}{}, s.offers.ApplyTransition(ctx, t)
		},
		Probe:   s.procCap,
		Missing: dberr.IsUndefinedFunction,
	}

	if _, err := strategy.Run(ctx); err != nil {
		return nil, s.transitionError(ctx, o.ID, ev, err)
	}

	log.Printf("offer_transition offer_id=%s from=%s to=%s actor_id=%d", o.ID, t.From, t.To, actorID)

	o.Estado = t.To
	o.UpdatedAt = t.At
	s.publish(t)
	return o, nil
}

// transitionError turns a lost race into InvalidState. The offer is re-read
// so the message names the state that won.
func (s *Service) transitionError(ctx context.Context, offerID string, ev domain.OfferEvent, err error) error {
	switch {
	case errors.Is(err, repository.ErrStaleOfferState):
		current, rerr := s.offers.GetByID(ctx, offerID)
		if rerr != nil {
			return apperr.InvalidState(wrongStateMessages[ev])
		}
		return apperr.InvalidState(fmt.Sprintf("La oferta cambió de estado (%s). Actualiza la página.", current.Estado))
	case errors.Is(err, repository.ErrPublicationClosed):
		return apperr.InvalidState("La publicación ya no está activa; otra oferta pudo haber sido aceptada.")
	case dberr.IsTransient(err):
		return apperr.Transient("El servicio no está disponible, intenta de nuevo.", err)
	}
	return err
}

func (s *Service) publish(t domain.Transition) {
	if s.publisher == nil || t.ChatID == "" {
		return
	}
	if msg := t.SystemMessage(); msg != nil {
		s.publisher.PublishMessage(t.ChatID, msg)
	}
	if t.Effects.DeactivateChat {
		s.publisher.PublishChatStatus(t.ChatID, false)
	}
}

func (s *Service) load(ctx context.Context, id string) (*domain.Offer, error) {
	o, err := s.offers.GetByID(ctx, id)
	if err != nil {
		if dberr.IsNotFound(err) {
			return nil, apperr.NotFound("La oferta no existe.")
		}
		return nil, err
	}
	return o, nil
}

// Get returns an offer to one of its two parties.
func (s *Service) Get(ctx context.Context, id string, actorID int64) (*domain.Offer, error) {
	o, err := s.load(ctx, id)
	if err != nil {
		return nil, err
	}
	if actorID != o.ClienteID && actorID != o.TrabajadorID {
		return nil, apperr.Forbidden("No participas en esta oferta.")
	}
	return o, nil
}

func (s *Service) ListForPublication(ctx context.Context, pubID string, actorID int64) ([]domain.Offer, error) {
	p, err := s.pubs.GetByID(ctx, pubID)
	if err != nil {
		if dberr.IsNotFound(err) {
			return nil, apperr.NotFound("La publicación no existe.")
		}
		return nil, err
	}
	if p.ClienteID != actorID {
		return nil, apperr.Authorization("Solo el dueño puede ver las ofertas de esta publicación.")
	}
	return s.offers.ListByPublication(ctx, pubID)
}

func (s *Service) ListMine(ctx context.Context, workerID int64) ([]domain.Offer, error) {
	return s.offers.ListByWorker(ctx, workerID)
}

// Quota reports how many offers the worker may still send to a publication.
func (s *Service) Quota(ctx context.Context, pubID string, workerID int64) (*Quota, error) {
	used, err := s.offers.CountByWorker(ctx, pubID, workerID)
	if err != nil {
		return nil, err
	}
	limit := int64(domain.MaxOffersPerWorker)
	remaining := limit - used
	if remaining < 0 {
		remaining = 0
	}
	return &Quota{Used: used, Remaining: remaining, Max: limit}, nil
}
