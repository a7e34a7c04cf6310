package profile

import (
	"time"

	"servimarket/internal/domain"
)

type UpdateProfileRequest struct {
	Nombre      string   `json:"nombre" validate:"required,min=2"`
	Ciudad      string   `json:"ciudad" validate:"required"`
	Edad        int      `json:"edad" validate:"gte=18,lte=120"`
	Telefono    string   `json:"telefono,omitempty" validate:"omitempty,max=40"`
	Habilidades []string `json:"habilidades,omitempty" validate:"omitempty,dive,required"`
}

type UpdateDetailsRequest struct {
	TarifaHora     float64 `json:"tarifa_hora" validate:"gte=0"`
	Disponibilidad string  `json:"disponibilidad" validate:"max=255"`
	Descripcion    string  `json:"descripcion" validate:"max=4000"`
}

// WorkerCard is what anyone may see about a worker. Documento and the
// private details never appear here.
type WorkerCard struct {
	UserID      int64              `json:"user_id"`
	Nombre      string             `json:"nombre"`
	Ciudad      string             `json:"ciudad"`
	Edad        int                `json:"edad"`
	Habilidades []string           `json:"habilidades"`
	Verificado  bool               `json:"verificado"`
	Stats       domain.WorkerStats `json:"stats"`
	CreatedAt   time.Time          `json:"created_at"`
}

func newWorkerCard(p *domain.WorkerProfile, stats domain.WorkerStats) *WorkerCard {
	return &WorkerCard{
		UserID:      p.UserID,
		Nombre:      p.Nombre,
		Ciudad:      p.Ciudad,
		Edad:        p.Edad,
		Habilidades: p.Skills(),
		Verificado:  p.Verificado,
		Stats:       stats,
		CreatedAt:   p.CreatedAt,
	}
}

// OwnProfile is the profile as its owner sees it.
type OwnProfile struct {
	Role        domain.UserRole       `json:"role"`
	Client      *domain.ClientProfile `json:"perfil_cliente,omitempty"`
	Worker      *domain.WorkerProfile `json:"perfil_trabajador,omitempty"`
	Habilidades []string              `json:"habilidades,omitempty"`
}
