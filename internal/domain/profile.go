package domain

import (
	"strings"
	"time"
)

// ClientProfile is the public identity of a client account.
type ClientProfile struct {
	UserID    int64     `json:"user_id" gorm:"primaryKey;autoIncrement:false"`
	Nombre    string    `json:"nombre" gorm:"size:255;not null"`
	Ciudad    string    `json:"ciudad" gorm:"size:120"`
	Edad      int       `json:"edad"`
	Documento string    `json:"-" gorm:"size:40;uniqueIndex;not null"`
	Telefono  string    `json:"telefono,omitempty" gorm:"size:40"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

func (ClientProfile) TableName() string { return "perfiles_clientes" }

// WorkerProfile is the public card of a worker. Habilidades is stored as a
// comma separated list.
type WorkerProfile struct {
	UserID      int64     `json:"user_id" gorm:"primaryKey;autoIncrement:false"`
	Nombre      string    `json:"nombre" gorm:"size:255;not null"`
	Ciudad      string    `json:"ciudad" gorm:"size:120"`
	Edad        int       `json:"edad"`
	Documento   string    `json:"-" gorm:"size:40;uniqueIndex;not null"`
	Habilidades string    `json:"-" gorm:"type:text"`
	Verificado  bool      `json:"verificado" gorm:"not null"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

func (WorkerProfile) TableName() string { return "perfiles_trabajadores" }

func (p WorkerProfile) Skills() []string {
	return SplitSkills(p.Habilidades)
}

func SplitSkills(raw string) []string {
	out := []string{}
	for _, s := range strings.Split(raw, ",") {
		if s = strings.TrimSpace(s); s != "" {
			out = append(out, s)
		}
	}
	return out
}

func JoinSkills(skills []string) string {
	clean := make([]string, 0, len(skills))
	for _, s := range skills {
		if s = strings.TrimSpace(s); s != "" {
			clean = append(clean, s)
		}
	}
	return strings.Join(clean, ",")
}

// WorkerDetails holds the private extended profile. Only the owner reads it.
type WorkerDetails struct {
	UserID         int64     `json:"user_id" gorm:"primaryKey;autoIncrement:false"`
	TarifaHora     float64   `json:"tarifa_hora"`
	Disponibilidad string    `json:"disponibilidad" gorm:"size:255"`
	Descripcion    string    `json:"descripcion" gorm:"type:text"`
	UpdatedAt      time.Time `json:"updated_at"`
}

func (WorkerDetails) TableName() string { return "detalles_trabajadores" }
