package repository

import (
	"context"
	"errors"

	"servimarket/internal/domain"

	"github.com/jackc/pgx/v5/pgconn"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// SQLSTATE codes raised by apply_offer_transition.
const (
	pgStaleOffer        = "SM001"
	pgPublicationClosed = "SM002"
)

type OfferRepository struct {
	db *gorm.DB
}

func NewOfferRepository(db *gorm.DB) *OfferRepository {
	return &OfferRepository{db: db}
}

// CreateWithChat inserts a pending offer and its chat. The publication row is
// locked for the duration so the per-worker cap cannot be raced. The client
// id is always copied from the publication.
func (r *OfferRepository) CreateWithChat(ctx context.Context, o *domain.Offer, ch *domain.Chat, limit int) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var p domain.Publication
		err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).Where("id = ?", o.PublicacionID).First(&p).Error
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrPublicationUnavailable
		}
		if err != nil {
			return err
		}
		if !p.Activa {
			return ErrPublicationUnavailable
		}

		var n int64
		if err := tx.Model(&domain.Offer{}).
			Where("publicacion_id = ? AND trabajador_id = ?", o.PublicacionID, o.TrabajadorID).
			Count(&n).Error; err != nil {
			return err
		}
		if n >= int64(limit) {
			return ErrOfferLimitReached
		}

		o.ClienteID = p.ClienteID
		o.Estado = domain.OfferPending
		if err := tx.Create(o).Error; err != nil {
			return err
		}

		ch.OfertaID = o.ID
		ch.ClienteID = o.ClienteID
		ch.TrabajadorID = o.TrabajadorID
		ch.IsActive = true
		return tx.Create(ch).Error
	})
}

func (r *OfferRepository) GetByID(ctx context.Context, id string) (*domain.Offer, error) {
	var o domain.Offer
	if err := r.db.WithContext(ctx).Where("id = ?", id).First(&o).Error; err != nil {
		return nil, err
	}
	return &o, nil
}

func (r *OfferRepository) ListByPublication(ctx context.Context, pubID string) ([]domain.Offer, error) {
	var out []domain.Offer
	err := r.db.WithContext(ctx).
		Where("publicacion_id = ?", pubID).
		Order("created_at DESC").
		Find(&out).Error
	return out, err
}

// ListByPublications groups the offers of several publications by id.
func (r *OfferRepository) ListByPublications(ctx context.Context, pubIDs []string) (map[string][]domain.Offer, error) {
	out := make(map[string][]domain.Offer, len(pubIDs))
	if len(pubIDs) == 0 {
		return out, nil
	}
	var rows []domain.Offer
	if err := r.db.WithContext(ctx).Where("publicacion_id IN ?", pubIDs).Find(&rows).Error; err != nil {
		return nil, err
	}
	for _, o := range rows {
		out[o.PublicacionID] = append(out[o.PublicacionID], o)
	}
	return out, nil
}

func (r *OfferRepository) ListByWorker(ctx context.Context, workerID int64) ([]domain.Offer, error) {
	var out []domain.Offer
	err := r.db.WithContext(ctx).
		Where("trabajador_id = ?", workerID).
		Order("created_at DESC").
		Find(&out).Error
	return out, err
}

func (r *OfferRepository) CountByWorker(ctx context.Context, pubID string, workerID int64) (int64, error) {
	var n int64
	err := r.db.WithContext(ctx).Model(&domain.Offer{}).
		Where("publicacion_id = ? AND trabajador_id = ?", pubID, workerID).
		Count(&n).Error
	return n, err
}

func (r *OfferRepository) TransitionProcAvailable(ctx context.Context) bool {
	return procExists(ctx, r.db, "apply_offer_transition")
}

// CallTransitionProc executes the transition inside apply_offer_transition,
// which applies every step in one statement.
func (r *OfferRepository) CallTransitionProc(ctx context.Context, t domain.Transition) error {
	err := r.db.WithContext(ctx).Exec(
		"SELECT apply_offer_transition(?, ?, ?, ?, ?, ?, ?, ?, ?, ?)",
		t.OfferID,
		string(t.From),
		string(t.To),
		t.Effects.ClosePublication,
		t.Effects.RequireOpenPublication,
		t.Effects.DeactivateChat,
		t.SystemMessageID,
		t.Effects.SystemMessage,
		t.ActorID,
		t.At,
	).Error
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		switch pgErr.Code {
		case pgStaleOffer:
			return ErrStaleOfferState
		case pgPublicationClosed:
			return ErrPublicationClosed
		}
	}
	return err
}

// ApplyTransition runs the same steps as apply_offer_transition in a gorm
// transaction. Every step is conditional, so a retry after a failure never
// applies an effect twice.
func (r *OfferRepository) ApplyTransition(ctx context.Context, t domain.Transition) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		res := tx.Model(&domain.Offer{}).
			Where("id = ? AND estado = ?", t.OfferID, t.From).
			Updates(map[string]any{"estado": t.To, "updated_at": t.At})
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return ErrStaleOfferState
		}

		if t.Effects.ClosePublication {
			res := tx.Model(&domain.Publication{}).
				Where("id = ? AND activa = ?", t.PublicationID, true).
				Updates(map[string]any{"activa": false, "fecha_cierre": t.At})
			if res.Error != nil {
				return res.Error
			}
			if res.RowsAffected == 0 && t.Effects.RequireOpenPublication {
				return ErrPublicationClosed
			}
		}

		if t.Effects.DeactivateChat {
			if err := tx.Model(&domain.Chat{}).
				Where("oferta_id = ? AND is_active = ?", t.OfferID, true).
				Update("is_active", false).Error; err != nil {
				return err
			}
		}

		if msg := t.SystemMessage(); msg != nil {
			if err := tx.Clauses(clause.OnConflict{DoNothing: true}).Create(msg).Error; err != nil {
				return err
			}
		}
		return nil
	})
}
