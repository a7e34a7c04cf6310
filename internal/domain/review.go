package domain

import "time"

const (
	MinStars = 1
	MaxStars = 5
)

type Review struct {
	ID           string    `json:"id" gorm:"primaryKey;size:36"`
	OfertaID     string    `json:"oferta_id" gorm:"column:oferta_id;size:36;not null;uniqueIndex:ux_resenas_oferta_cliente,priority:1"`
	ClienteID    int64     `json:"cliente_id" gorm:"column:cliente_id;not null;uniqueIndex:ux_resenas_oferta_cliente,priority:2"`
	TrabajadorID int64     `json:"trabajador_id" gorm:"column:trabajador_id;not null;index"`
	Estrellas    int       `json:"estrellas" gorm:"not null;check:estrellas >= 1 AND estrellas <= 5"`
	Comentario   *string   `json:"comentario"`
	CreatedAt    time.Time `json:"created_at" gorm:"index"`
}

func (Review) TableName() string { return "resenas" }

// PublicReview is the anonymous projection shown on a worker card.
type PublicReview struct {
	Estrellas  int       `json:"estrellas"`
	Comentario *string   `json:"comentario"`
	CreatedAt  time.Time `json:"created_at"`
}

type WorkerStats struct {
	Average float64 `json:"average"`
	Total   int64   `json:"total"`
}

// NewWorkerStats is shared by every stats path so they agree bit for bit.
func NewWorkerStats(sum, count int64) WorkerStats {
	if count <= 0 {
		return WorkerStats{}
	}
	return WorkerStats{Average: float64(sum) / float64(count), Total: count}
}

func StarsInRange(stars int) bool {
	return stars >= MinStars && stars <= MaxStars
}

// CanReview is the review gate.
func CanReview(o Offer, actorID int64, alreadyReviewed bool) bool {
	return actorID != 0 && actorID == o.ClienteID && o.Estado == OfferFinalized && !alreadyReviewed
}
