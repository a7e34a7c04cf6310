package offer

type CreateOfferRequest struct {
	PublicacionID string  `json:"publicacion_id" validate:"required"`
	Monto         float64 `json:"monto"`
	Mensaje       string  `json:"mensaje"`
	// ClienteID is accepted for compatibility and ignored; the client is
	// always the publication owner.
	ClienteID int64 `json:"cliente_id,omitempty"`
}

type Quota struct {
	Used      int64 `json:"used"`
	Remaining int64 `json:"remaining"`
	Max       int64 `json:"max"`
}
