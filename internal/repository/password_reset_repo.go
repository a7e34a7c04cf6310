package repository

import (
	"context"
	"time"

	"servimarket/internal/domain"

	"gorm.io/gorm"
)

// PasswordResetRepository provides DB access for password reset tokens.
type PasswordResetRepository struct {
	db *gorm.DB
}

func NewPasswordResetRepository(db *gorm.DB) *PasswordResetRepository {
	return &PasswordResetRepository{db: db}
}

func (r *PasswordResetRepository) Create(ctx context.Context, t *domain.PasswordReset) error {
	return r.db.WithContext(ctx).Create(t).Error
}

func (r *PasswordResetRepository) GetByHash(ctx context.Context, hash string) (*domain.PasswordReset, error) {
	var t domain.PasswordReset
	if err := r.db.WithContext(ctx).Where("token_hash = ?", hash).First(&t).Error; err != nil {
		return nil, err
	}
	return &t, nil
}

// Consume marks the token used and sets the new password hash in one
// transaction. It reports false if the token had already been used.
func (r *PasswordResetRepository) Consume(ctx context.Context, id, userID int64, passwordHash string, at time.Time) (bool, error) {
	used := false
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		res := tx.Model(&domain.PasswordReset{}).
			Where("id = ? AND used_at IS NULL", id).
			Update("used_at", at)
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return nil
		}
		used = true
		return tx.Model(&domain.User{}).
			Where("id = ?", userID).
			Update("password_hash", passwordHash).Error
	})
	return used, err
}

func (r *PasswordResetRepository) DeleteExpired(ctx context.Context, now time.Time) (int64, error) {
	res := r.db.WithContext(ctx).
		Where("expires_at < ? OR used_at IS NOT NULL", now).
		Delete(&domain.PasswordReset{})
	return res.RowsAffected, res.Error
}
