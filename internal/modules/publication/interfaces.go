package publication

import (
	"context"
	"time"

	"servimarket/internal/domain"
	"servimarket/internal/repository"
)

type PublicationRepository interface {
	Create(ctx context.Context, p *domain.Publication) error
	GetByID(ctx context.Context, id string) (*domain.Publication, error)
	UpdateFields(ctx context.Context, p *domain.Publication) (bool, error)
	Close(ctx context.Context, id string, at time.Time) (bool, error)
	SoftDelete(ctx context.Context, id string) error
	List(ctx context.Context, f repository.PublicationFilters) ([]domain.Publication, error)
}

type OfferReader interface {
	ListByPublication(ctx context.Context, pubID string) ([]domain.Offer, error)
	ListByPublications(ctx context.Context, pubIDs []string) (map[string][]domain.Offer, error)
}
