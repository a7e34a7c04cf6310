package offer

import (
	"context"

	"servimarket/internal/domain"
)

type OfferRepository interface {
	CreateWithChat(ctx context.Context, o *domain.Offer, ch *domain.Chat, limit int) error
	GetByID(ctx context.Context, id string) (*domain.Offer, error)
	ListByPublication(ctx context.Context, pubID string) ([]domain.Offer, error)
	ListByWorker(ctx context.Context, workerID int64) ([]domain.Offer, error)
	CountByWorker(ctx context.Context, pubID string, workerID int64) (int64, error)

	TransitionProcAvailable(ctx context.Context) bool
	CallTransitionProc(ctx context.Context, t domain.Transition) error
	ApplyTransition(ctx context.Context, t domain.Transition) error
}

type PublicationReader interface {
	GetByID(ctx context.Context, id string) (*domain.Publication, error)
}

type ChatReader interface {
	GetByOfferID(ctx context.Context, offerID string) (*domain.Chat, error)
}

// Publisher pushes chat events to connected clients. Delivery is best effort.
type Publisher interface {
	PublishMessage(chatID string, msg *domain.Message)
	PublishChatStatus(chatID string, active bool)
}
