package review

type CreateReviewRequest struct {
	OfertaID     string  `json:"oferta_id" validate:"required"`
	TrabajadorID int64   `json:"trabajador_id"`
	Estrellas    int     `json:"estrellas"`
	Comentario   *string `json:"comentario,omitempty"`
}

type Eligibility struct {
	CanReview       bool   `json:"can_review"`
	AlreadyReviewed bool   `json:"already_reviewed"`
	OfferStatus     string `json:"offer_status"`
}
