package repository

import (
	"context"
	"strings"

	"servimarket/internal/domain"

	"gorm.io/gorm"
)

type UserRepository struct {
	db *gorm.DB
}

func NewUserRepository(db *gorm.DB) *UserRepository {
	return &UserRepository{db: db}
}

func (r *UserRepository) DB() *gorm.DB { return r.db }

func normalizeEmail(email string) string {
	return strings.TrimSpace(strings.ToLower(email))
}

func (r *UserRepository) Create(ctx context.Context, u *domain.User) error {
	u.Email = normalizeEmail(u.Email)
	return r.db.WithContext(ctx).Create(u).Error
}

// CreateClient stores the account and its client profile atomically.
func (r *UserRepository) CreateClient(ctx context.Context, u *domain.User, p *domain.ClientProfile) error {
	u.Email = normalizeEmail(u.Email)
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(u).Error; err != nil {
			return err
		}
		p.UserID = u.ID
		return tx.Create(p).Error
	})
}

// CreateWorker stores the account, its public card and an empty private
// details row atomically.
func (r *UserRepository) CreateWorker(ctx context.Context, u *domain.User, p *domain.WorkerProfile) error {
	u.Email = normalizeEmail(u.Email)
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(u).Error; err != nil {
			return err
		}
		p.UserID = u.ID
		if err := tx.Create(p).Error; err != nil {
			return err
		}
		return tx.Create(&domain.WorkerDetails{UserID: u.ID}).Error
	})
}

func (r *UserRepository) GetByEmail(ctx context.Context, email string) (*domain.User, error) {
	var u domain.User
	err := r.db.WithContext(ctx).
		Where("LOWER(email) = ?", normalizeEmail(email)).
		First(&u).Error
	if err != nil {
		return nil, err
	}
	return &u, nil
}

func (r *UserRepository) GetByID(ctx context.Context, id int64) (*domain.User, error) {
	var u domain.User
	if err := r.db.WithContext(ctx).First(&u, id).Error; err != nil {
		return nil, err
	}
	return &u, nil
}

func (r *UserRepository) EmailExists(ctx context.Context, email string) (bool, error) {
	var n int64
	err := r.db.WithContext(ctx).Model(&domain.User{}).
		Where("LOWER(email) = ?", normalizeEmail(email)).
		Count(&n).Error
	return n > 0, err
}

func (r *UserRepository) List(ctx context.Context, limit, offset int) ([]domain.User, int64, error) {
	var total int64
	if err := r.db.WithContext(ctx).Model(&domain.User{}).Count(&total).Error; err != nil {
		return nil, 0, err
	}
	var users []domain.User
	err := r.db.WithContext(ctx).
		Order("created_at DESC").Order("id DESC").
		Limit(limit).Offset(offset).
		Find(&users).Error
	return users, total, err
}

func (r *UserRepository) UpdatePassword(ctx context.Context, id int64, hash string) error {
	return r.db.WithContext(ctx).Model(&domain.User{}).
		Where("id = ?", id).
		Update("password_hash", hash).Error
}

func (r *UserRepository) DeleteCascadeProcAvailable(ctx context.Context) bool {
	return procExists(ctx, r.db, "delete_user_cascade")
}

// CallDeleteCascade runs the delete_user_cascade stored function.
func (r *UserRepository) CallDeleteCascade(ctx context.Context, userID int64) error {
	return r.db.WithContext(ctx).Exec("SELECT delete_user_cascade(?)", userID).Error
}

// DeleteCascade removes the user and every row that depends on it in one
// transaction. Each statement is a plain filtered delete, so re-running after
// a failure converges to the same result.
func (r *UserRepository) DeleteCascade(ctx context.Context, userID int64) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		party := "cliente_id = ? OR trabajador_id = ?"
		chatIDs := tx.Model(&domain.Chat{}).Select("id").Where(party, userID, userID)

		steps := []func() *gorm.DB{
			func() *gorm.DB { return tx.Where("chat_id IN (?)", chatIDs).Delete(&domain.Message{}) },
			func() *gorm.DB { return tx.Where(party, userID, userID).Delete(&domain.Review{}) },
			func() *gorm.DB { return tx.Where(party, userID, userID).Delete(&domain.Chat{}) },
			func() *gorm.DB { return tx.Where(party, userID, userID).Delete(&domain.Offer{}) },
			func() *gorm.DB { return tx.Where("cliente_id = ?", userID).Delete(&domain.Publication{}) },
			func() *gorm.DB { return tx.Where("user_id = ?", userID).Delete(&domain.VerificationDocument{}) },
			func() *gorm.DB { return tx.Where("user_id = ?", userID).Delete(&domain.PasswordReset{}) },
			func() *gorm.DB { return tx.Where("user_id = ?", userID).Delete(&domain.WorkerDetails{}) },
			func() *gorm.DB { return tx.Where("user_id = ?", userID).Delete(&domain.WorkerProfile{}) },
			func() *gorm.DB { return tx.Where("user_id = ?", userID).Delete(&domain.ClientProfile{}) },
			func() *gorm.DB { return tx.Exec("DELETE FROM uploads WHERE user_id = ?", userID) },
			func() *gorm.DB { return tx.Where("id = ?", userID).Delete(&domain.User{}) },
		}
		for _, step := range steps {
			if err := step().Error; err != nil {
				return err
			}
		}
		return nil
	})
}
