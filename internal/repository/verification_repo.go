package repository

import (
	"context"
	"errors"
	"time"

	"servimarket/internal/domain"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type VerificationRepository struct {
	db *gorm.DB
}

func NewVerificationRepository(db *gorm.DB) *VerificationRepository {
	return &VerificationRepository{db: db}
}

// CreateIfNoneBlocking inserts a new pending document unless the user already
// has one pending or approved.
func (r *VerificationRepository) CreateIfNoneBlocking(ctx context.Context, d *domain.VerificationDocument) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var u domain.User
		if err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).Select("id").Where("id = ?", d.UserID).First(&u).Error; err != nil {
			return err
		}
		var n int64
		if err := tx.Model(&domain.VerificationDocument{}).
			Where("user_id = ? AND estado IN ?", d.UserID, []domain.VerificationStatus{domain.VerificationPending, domain.VerificationApproved}).
			Count(&n).Error; err != nil {
			return err
		}
		if n > 0 {
			return ErrDocumentPending
		}
		return tx.Create(d).Error
	})
}

func (r *VerificationRepository) ReferencesFile(ctx context.Context, fileURL string) (bool, error) {
	var n int64
	err := r.db.WithContext(ctx).Model(&domain.VerificationDocument{}).
		Where("file_url = ?", fileURL).
		Count(&n).Error
	return n > 0, err
}

func (r *VerificationRepository) GetByID(ctx context.Context, id string) (*domain.VerificationDocument, error) {
	var d domain.VerificationDocument
	if err := r.db.WithContext(ctx).Where("id = ?", id).First(&d).Error; err != nil {
		return nil, err
	}
	return &d, nil
}

// Latest returns the user's most recent document, or nil when there is none.
func (r *VerificationRepository) Latest(ctx context.Context, userID int64) (*domain.VerificationDocument, error) {
	var d domain.VerificationDocument
	err := r.db.WithContext(ctx).
		Where("user_id = ?", userID).
		Order("created_at DESC").
		First(&d).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &d, nil
}

func (r *VerificationRepository) ListPending(ctx context.Context) ([]domain.VerificationDocument, error) {
	var out []domain.VerificationDocument
	err := r.db.WithContext(ctx).
		Where("estado = ?", domain.VerificationPending).
		Order("created_at ASC").
		Find(&out).Error
	return out, err
}

// Decide moves a pending document to approved or rejected. Approval also marks
// the worker profile as verified. It reports false when the document was not
// pending anymore.
func (r *VerificationRepository) Decide(ctx context.Context, id string, status domain.VerificationStatus, reason *string, reviewer int64, at time.Time) (bool, error) {
	decided := false
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var d domain.VerificationDocument
		if err := tx.Where("id = ?", id).First(&d).Error; err != nil {
			return err
		}
		res := tx.Model(&domain.VerificationDocument{}).
			Where("id = ? AND estado = ?", id, domain.VerificationPending).
			Updates(map[string]any{
				"estado":         status,
				"motivo_rechazo": reason,
				"reviewed_by":    reviewer,
				"reviewed_at":    at,
			})
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return nil
		}
		decided = true
		if status == domain.VerificationApproved {
			return tx.Model(&domain.WorkerProfile{}).
				Where("user_id = ?", d.UserID).
				Update("verificado", true).Error
		}
		return nil
	})
	return decided, err
}
