package domain

import "time"

const CategoryOther = "OTRO"

var Categories = map[string]bool{
	"PLOMERIA":     true,
	"ELECTRICIDAD": true,
	"CARPINTERIA":  true,
	"LIMPIEZA":     true,
	"PINTURA":      true,
	"JARDINERIA":   true,
	"MUDANZA":      true,
	"TECNOLOGIA":   true,
	CategoryOther:  true,
}

type Publication struct {
	ID            string     `json:"id" gorm:"primaryKey;size:36"`
	ClienteID     int64      `json:"cliente_id" gorm:"column:cliente_id;not null;index"`
	Titulo        string     `json:"titulo" gorm:"size:200;not null"`
	Descripcion   string     `json:"descripcion" gorm:"type:text;not null"`
	Categoria     string     `json:"categoria" gorm:"size:40;not null;index"`
	CategoriaOtro *string    `json:"categoria_otro,omitempty" gorm:"size:120"`
	Ciudad        string     `json:"ciudad" gorm:"size:120;not null"`
	PrecioMaximo  float64    `json:"precio_maximo" gorm:"not null"`
	Activa        bool       `json:"activa" gorm:"not null;index"`
	CreatedAt     time.Time  `json:"created_at"`
	FechaCierre   *time.Time `json:"fecha_cierre,omitempty" gorm:"column:fecha_cierre"`
}

func (Publication) TableName() string { return "publicaciones" }

// Close deactivates the publication and stamps fecha_cierre. It reports
// whether anything changed; closing twice is a no-op.
func (p *Publication) Close(now time.Time) bool {
	if !p.Activa {
		return false
	}
	p.Activa = false
	p.FechaCierre = &now
	return true
}

type DisplayStatus string

const (
	DisplayActive     DisplayStatus = "activa"
	DisplayWithOffers DisplayStatus = "con_ofertas"
	DisplayFinalized  DisplayStatus = "finalizada"
	DisplayDeleted    DisplayStatus = "eliminada"
)

func (s DisplayStatus) Valid() bool {
	switch s {
	case DisplayActive, DisplayWithOffers, DisplayFinalized, DisplayDeleted:
		return true
	}
	return false
}

// DeriveStatus is the single source of the publication display status.
// It is never stored.
func DeriveStatus(p Publication, offers []Offer) DisplayStatus {
	if p.Activa {
		for _, o := range offers {
			if o.Estado == OfferPending {
				return DisplayWithOffers
			}
		}
		return DisplayActive
	}
	for _, o := range offers {
		if o.Estado == OfferAccepted || o.Estado == OfferFinalized {
			return DisplayFinalized
		}
	}
	if p.FechaCierre != nil {
		return DisplayFinalized
	}
	return DisplayDeleted
}
