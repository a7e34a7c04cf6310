package repository

import (
	"context"
	"time"

	"servimarket/internal/domain"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type PublicationFilters struct {
	ClienteID  int64
	OnlyActive bool
	Categoria  string
	Ciudad     string
	SortBy     string
	Limit      int
	Offset     int
}

type PublicationRepository struct {
	db *gorm.DB
}

func NewPublicationRepository(db *gorm.DB) *PublicationRepository {
	return &PublicationRepository{db: db}
}

func (r *PublicationRepository) Create(ctx context.Context, p *domain.Publication) error {
	return r.db.WithContext(ctx).Create(p).Error
}

func (r *PublicationRepository) GetByID(ctx context.Context, id string) (*domain.Publication, error) {
	var p domain.Publication
	if err := r.db.WithContext(ctx).Where("id = ?", id).First(&p).Error; err != nil {
		return nil, err
	}
	return &p, nil
}

// UpdateFields edits owner-controlled fields while the publication is active.
// It reports false when the row is no longer active.
func (r *PublicationRepository) UpdateFields(ctx context.Context, p *domain.Publication) (bool, error) {
	res := r.db.WithContext(ctx).Model(&domain.Publication{}).
		Where("id = ? AND activa = ?", p.ID, true).
		Updates(map[string]any{
			"titulo":         p.Titulo,
			"descripcion":    p.Descripcion,
			"categoria":      p.Categoria,
			"categoria_otro": p.CategoriaOtro,
			"ciudad":         p.Ciudad,
			"precio_maximo":  p.PrecioMaximo,
		})
	return res.RowsAffected > 0, res.Error
}

// Close deactivates the publication and stamps fecha_cierre only if it is
// still active.
func (r *PublicationRepository) Close(ctx context.Context, id string, at time.Time) (bool, error) {
	res := r.db.WithContext(ctx).Model(&domain.Publication{}).
		Where("id = ? AND activa = ?", id, true).
		Updates(map[string]any{"activa": false, "fecha_cierre": at})
	return res.RowsAffected > 0, res.Error
}

// SoftDelete deactivates the publication unless one of its offers is
// accepted. The publication row is locked so a concurrent accept and delete
// cannot both win.
func (r *PublicationRepository) SoftDelete(ctx context.Context, id string) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var p domain.Publication
		if err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).Where("id = ?", id).First(&p).Error; err != nil {
			return err
		}

		var accepted int64
		if err := tx.Model(&domain.Offer{}).
			Where("publicacion_id = ? AND estado = ?", id, domain.OfferAccepted).
			Count(&accepted).Error; err != nil {
			return err
		}
		if accepted > 0 {
			return ErrHasAcceptedOffer
		}

		return tx.Model(&domain.Publication{}).
			Where("id = ? AND activa = ?", id, true).
			Update("activa", false).Error
	})
}

func (r *PublicationRepository) List(ctx context.Context, f PublicationFilters) ([]domain.Publication, error) {
	q := r.db.WithContext(ctx).Model(&domain.Publication{})
	if f.ClienteID != 0 {
		q = q.Where("cliente_id = ?", f.ClienteID)
	}
	if f.OnlyActive {
		q = q.Where("activa = ?", true)
	}
	if f.Categoria != "" {
		q = q.Where("categoria = ?", f.Categoria)
	}
	if f.Ciudad != "" {
		q = q.Where("LOWER(ciudad) = LOWER(?)", f.Ciudad)
	}

	switch f.SortBy {
	case "antiguas":
		q = q.Order("created_at ASC")
	case "precio_mayor":
		q = q.Order("precio_maximo DESC").Order("created_at DESC")
	case "precio_menor":
		q = q.Order("precio_maximo ASC").Order("created_at DESC")
	default:
		q = q.Order("created_at DESC")
	}

	if f.Limit > 0 {
		q = q.Limit(f.Limit).Offset(f.Offset)
	}

	var out []domain.Publication
	err := q.Find(&out).Error
	return out, err
}
