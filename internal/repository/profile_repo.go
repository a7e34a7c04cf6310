package repository

import (
	"context"
	"errors"
	"strings"

	"servimarket/internal/domain"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type ProfileRepository struct {
	db *gorm.DB
}

func NewProfileRepository(db *gorm.DB) *ProfileRepository {
	return &ProfileRepository{db: db}
}

// DocumentExists checks the document number against both client and worker
// profiles.
func (r *ProfileRepository) DocumentExists(ctx context.Context, documento string) (bool, error) {
	doc := strings.TrimSpace(documento)
	for _, model := range []any{&domain.ClientProfile{}, &domain.WorkerProfile{}} {
		var n int64
		if err := r.db.WithContext(ctx).Model(model).Where("documento = ?", doc).Count(&n).Error; err != nil {
			return false, err
		}
		if n > 0 {
			return true, nil
		}
	}
	return false, nil
}

func (r *ProfileRepository) GetClient(ctx context.Context, userID int64) (*domain.ClientProfile, error) {
	var p domain.ClientProfile
	if err := r.db.WithContext(ctx).Where("user_id = ?", userID).First(&p).Error; err != nil {
		return nil, err
	}
	return &p, nil
}

func (r *ProfileRepository) GetWorker(ctx context.Context, userID int64) (*domain.WorkerProfile, error) {
	var p domain.WorkerProfile
	if err := r.db.WithContext(ctx).Where("user_id = ?", userID).First(&p).Error; err != nil {
		return nil, err
	}
	return &p, nil
}

func (r *ProfileRepository) UpdateClient(ctx context.Context, p *domain.ClientProfile) error {
	return r.db.WithContext(ctx).Model(p).
		Select("nombre", "ciudad", "edad", "telefono", "updated_at").
		Updates(p).Error
}

func (r *ProfileRepository) UpdateWorker(ctx context.Context, p *domain.WorkerProfile) error {
	return r.db.WithContext(ctx).Model(p).
		Select("nombre", "ciudad", "edad", "habilidades", "updated_at").
		Updates(p).Error
}

func (r *ProfileRepository) SetWorkerVerified(ctx context.Context, userID int64, verified bool) error {
	return r.db.WithContext(ctx).Model(&domain.WorkerProfile{}).
		Where("user_id = ?", userID).
		Update("verificado", verified).Error
}

// GetDetails returns the private extended profile, or an empty one when the
// row was never written.
func (r *ProfileRepository) GetDetails(ctx context.Context, userID int64) (*domain.WorkerDetails, error) {
	var d domain.WorkerDetails
	err := r.db.WithContext(ctx).Where("user_id = ?", userID).First(&d).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return &domain.WorkerDetails{UserID: userID}, nil
	}
	if err != nil {
		return nil, err
	}
	return &d, nil
}

func (r *ProfileRepository) UpsertDetails(ctx context.Context, d *domain.WorkerDetails) error {
	return r.db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "user_id"}},
		DoUpdates: clause.AssignmentColumns([]string{"tarifa_hora", "disponibilidad", "descripcion", "updated_at"}),
	}).Create(d).Error
}
