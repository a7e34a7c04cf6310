package review

import (
	"context"
	"errors"
	"log"
	"strings"
	"time"

	"servimarket/internal/domain"
	"servimarket/internal/pkg/dberr"
	"servimarket/internal/pkg/fallback"

	"github.com/google/uuid"
)

const (
	defaultRecentLimit = 10
	maxRecentLimit     = 50
)

type Service struct {
	reviews ReviewRepository
	offers  OfferReader
	now     func() time.Time
}

func NewService(reviews ReviewRepository, offers OfferReader) *Service {
	return &Service{reviews: reviews, offers: offers, now: domain.Now}
}

func (s *Service) loadOffer(ctx context.Context, offerID string) (*domain.Offer, error) {
	o, err := s.offers.GetByID(ctx, offerID)
	if err != nil {
		if dberr.IsNotFound(err) {
			return nil, ErrOfferNotFound
		}
		return nil, err
	}
	return o, nil
}

// Eligibility reports whether the actor may review the offer right now.
func (s *Service) Eligibility(ctx context.Context, offerID string, actorID int64) (*Eligibility, error) {
	o, err := s.loadOffer(ctx, offerID)
	if err != nil {
		return nil, err
	}
	if o.ClienteID != actorID && o.TrabajadorID != actorID {
		return nil, ErrNotOfferClient
	}
	exists, err := s.reviews.Exists(ctx, o.ID, actorID)
	if err != nil {
		return nil, err
	}
	return &Eligibility{
		CanReview:       domain.CanReview(*o, actorID, exists),
		AlreadyReviewed: exists,
		OfferStatus:     string(o.Estado),
	}, nil
}

// Create stores a review for a finalized offer. Stars are checked before
// anything is read, and the unique (offer, client) index is the final word on
// duplicates.
func (s *Service) Create(ctx context.Context, clientID int64, req CreateReviewRequest) (*domain.Review, error) {
	if !domain.StarsInRange(req.Estrellas) {
		return nil, ErrStarsOutOfRange
	}

	o, err := s.loadOffer(ctx, req.OfertaID)
	if err != nil {
		return nil, err
	}
	if o.ClienteID != clientID {
		return nil, ErrNotOfferClient
	}
	if req.TrabajadorID != 0 && req.TrabajadorID != o.TrabajadorID {
		return nil, ErrNotOfferClient
	}
	if o.Estado != domain.OfferFinalized {
		return nil, ErrOfferNotFinal
	}

	exists, err := s.reviews.Exists(ctx, o.ID, clientID)
	if err != nil {
		return nil, err
	}
	if exists {
		return nil, ErrDuplicateReview
	}

	rv := &domain.Review{
		ID:           uuid.New().String(),
		OfertaID:     o.ID,
		ClienteID:    clientID,
		TrabajadorID: o.TrabajadorID,
		Estrellas:    req.Estrellas,
		Comentario:   normalizeComment(req.Comentario),
		CreatedAt:    s.now(),
	}
	if err := s.reviews.Create(ctx, rv); err != nil {
		if dberr.IsUniqueViolation(err) {
			return nil, ErrDuplicateReview
		}
		return nil, err
	}
	log.Printf("review_created review_id=%s offer_id=%s worker_id=%d stars=%d", rv.ID, rv.OfertaID, rv.TrabajadorID, rv.Estrellas)
	return rv, nil
}

func normalizeComment(c *string) *string {
	if c == nil {
		return nil
	}
	v := strings.TrimSpace(*c)
	if v == "" {
		return nil
	}
	return &v
}

// WorkerStats prefers the SQL aggregate and falls back to scanning the raw
// rows. Both paths end in domain.NewWorkerStats.
func (s *Service) WorkerStats(ctx context.Context, workerID int64) (domain.WorkerStats, error) {
	strategy := fallback.Strategy[domain.WorkerStats]{
		Name: "worker_stats",
		Primary: func(ctx context.Context) (domain.WorkerStats, error) {
			sum, count, err := s.reviews.AggregateStars(ctx, workerID)
			if err != nil {
				return domain.WorkerStats{}, err
			}
			return domain.NewWorkerStats(sum, count), nil
		},
		Fallback: func(ctx context.Context) (domain.WorkerStats, error) {
			stars, err := s.reviews.ScanStars(ctx, workerID)
			if err != nil {
				return domain.WorkerStats{}, err
			}
			return StatsFromStars(stars), nil
		},
		Missing: aggregateUnavailable,
	}
	return strategy.Run(ctx)
}

// aggregateUnavailable treats any aggregate failure other than cancellation
// as a reason to try the scan.
func aggregateUnavailable(err error) bool {
	return !errors.Is(err, context.Canceled) && !errors.Is(err, context.DeadlineExceeded)
}

func StatsFromStars(stars []int) domain.WorkerStats {
	var sum int64
	for _, st := range stars {
		sum += int64(st)
	}
	return domain.NewWorkerStats(sum, int64(len(stars)))
}

func (s *Service) ListRecent(ctx context.Context, workerID int64, limit int) ([]domain.PublicReview, error) {
	if limit <= 0 {
		limit = defaultRecentLimit
	}
	if limit > maxRecentLimit {
		limit = maxRecentLimit
	}
	return s.reviews.ListRecent(ctx, workerID, limit)
}
