package review

import (
	"context"

	"servimarket/internal/domain"
)

type ReviewRepository interface {
	Create(ctx context.Context, rv *domain.Review) error
	Exists(ctx context.Context, offerID string, clientID int64) (bool, error)
	AggregateStars(ctx context.Context, workerID int64) (sum, count int64, err error)
	ScanStars(ctx context.Context, workerID int64) ([]int, error)
	ListRecent(ctx context.Context, workerID int64, limit int) ([]domain.PublicReview, error)
}

type OfferReader interface {
	GetByID(ctx context.Context, id string) (*domain.Offer, error)
}
