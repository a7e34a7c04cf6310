package domain

import "time"

type VerificationStatus string

const (
	VerificationPending  VerificationStatus = "pendiente"
	VerificationApproved VerificationStatus = "aprobado"
	VerificationRejected VerificationStatus = "rechazado"
	// VerificationNone is reported for users without any document.
	VerificationNone VerificationStatus = "sin_documentos"
)

type VerificationDocument struct {
	ID            string             `json:"id" gorm:"primaryKey;size:36"`
	UserID        int64              `json:"user_id" gorm:"not null;index"`
	Tipo          string             `json:"tipo" gorm:"size:40;not null"`
	FileURL       string             `json:"file_url" gorm:"column:file_url;not null"`
	Estado        VerificationStatus `json:"estado" gorm:"size:20;not null;index"`
	MotivoRechazo *string            `json:"motivo_rechazo,omitempty"`
	ReviewedBy    *int64             `json:"reviewed_by,omitempty"`
	CreatedAt     time.Time          `json:"created_at"`
	ReviewedAt    *time.Time         `json:"reviewed_at,omitempty"`
}

func (VerificationDocument) TableName() string { return "documentos_verificacion" }

// Blocks reports whether this document prevents a new submission.
func (d VerificationDocument) Blocks() bool {
	return d.Estado == VerificationPending || d.Estado == VerificationApproved
}
