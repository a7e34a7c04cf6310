package repository

import (
	"context"

	"servimarket/internal/domain"

	"gorm.io/gorm"
)

type ReviewRepository struct {
	db *gorm.DB
}

func NewReviewRepository(db *gorm.DB) *ReviewRepository {
	return &ReviewRepository{db: db}
}

func (r *ReviewRepository) Create(ctx context.Context, rv *domain.Review) error {
	return r.db.WithContext(ctx).Create(rv).Error
}

func (r *ReviewRepository) Exists(ctx context.Context, offerID string, clientID int64) (bool, error) {
	var n int64
	err := r.db.WithContext(ctx).Model(&domain.Review{}).
		Where("oferta_id = ? AND cliente_id = ?", offerID, clientID).
		Count(&n).Error
	return n > 0, err
}

// AggregateStars computes the star sum and review count in the database.
func (r *ReviewRepository) AggregateStars(ctx context.Context, workerID int64) (sum, count int64, err error) {
	var row struct {
		Total int64
		N     int64
	}
	err = r.db.WithContext(ctx).Model(&domain.Review{}).
		Select("COALESCE(SUM(estrellas), 0) AS total, COUNT(*) AS n").
		Where("trabajador_id = ?", workerID).
		Scan(&row).Error
	return row.Total, row.N, err
}

// ScanStars loads the raw star values of a worker's reviews.
func (r *ReviewRepository) ScanStars(ctx context.Context, workerID int64) ([]int, error) {
	var stars []int
	err := r.db.WithContext(ctx).Model(&domain.Review{}).
		Where("trabajador_id = ?", workerID).
		Pluck("estrellas", &stars).Error
	return stars, err
}

// ListRecent returns the anonymous projection only. Reviewer and worker ids
// are never selected.
func (r *ReviewRepository) ListRecent(ctx context.Context, workerID int64, limit int) ([]domain.PublicReview, error) {
	out := []domain.PublicReview{}
	err := r.db.WithContext(ctx).Model(&domain.Review{}).
		Select("estrellas", "comentario", "created_at").
		Where("trabajador_id = ?", workerID).
		Order("created_at DESC").
		Limit(limit).
		Scan(&out).Error
	return out, err
}
