package publication

import "servimarket/internal/domain"

type CreatePublicationRequest struct {
	Titulo        string  `json:"titulo" validate:"required,max=200"`
	Descripcion   string  `json:"descripcion" validate:"required"`
	Categoria     string  `json:"categoria" validate:"required"`
	CategoriaOtro string  `json:"categoria_otro,omitempty"`
	Ciudad        string  `json:"ciudad" validate:"required"`
	PrecioMaximo  float64 `json:"precio_maximo" validate:"gte=0"`
}

type UpdatePublicationRequest = CreatePublicationRequest

type ListFilters struct {
	Estado    domain.DisplayStatus `form:"estado"`
	Categoria string               `form:"categoria"`
	Ciudad    string               `form:"ciudad"`
	SortBy    string               `form:"sort_by"`
}

// PublicationView is a publication with its derived status.
type PublicationView struct {
	domain.Publication
	Estado            domain.DisplayStatus `json:"estado"`
	TotalOfertas      int                  `json:"total_ofertas"`
	OfertasPendientes int                  `json:"ofertas_pendientes"`
}

func NewView(p domain.Publication, offers []domain.Offer) PublicationView {
	pending := 0
	for _, o := range offers {
		if o.Estado == domain.OfferPending {
			pending++
		}
	}
	return PublicationView{
		Publication:       p,
		Estado:            domain.DeriveStatus(p, offers),
		TotalOfertas:      len(offers),
		OfertasPendientes: pending,
	}
}
