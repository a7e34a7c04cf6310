package domain

import (
	"errors"
	"time"

	"github.com/google/uuid"
)

// MaxOffersPerWorker caps how many offers one worker may ever submit to the
// same publication, whatever their current state.
const MaxOffersPerWorker = 3

type OfferStatus string

const (
	OfferPending   OfferStatus = "pendiente"
	OfferAccepted  OfferStatus = "aceptada"
	OfferRejected  OfferStatus = "rechazada"
	OfferFinalized OfferStatus = "finalizada"
)

type OfferEvent string

const (
	EventAccept   OfferEvent = "aceptar"
	EventReject   OfferEvent = "rechazar"
	EventFinalize OfferEvent = "finalizar"
)

var ErrInvalidTransition = errors.New("invalid offer transition")

// Next is the only place that decides the offer state graph.
func (s OfferStatus) Next(ev OfferEvent) (OfferStatus, error) {
	switch {
	case s == OfferPending && ev == EventAccept:
		return OfferAccepted, nil
	case s == OfferPending && ev == EventReject:
		return OfferRejected, nil
	case s == OfferAccepted && ev == EventFinalize:
		return OfferFinalized, nil
	}
	return s, ErrInvalidTransition
}

func (s OfferStatus) Valid() bool {
	switch s {
	case OfferPending, OfferAccepted, OfferRejected, OfferFinalized:
		return true
	}
	return false
}

// TransitionEffects lists the side effects every executor must apply together
// with the state change.
type TransitionEffects struct {
	ClosePublication bool
	// RequireOpenPublication aborts the transition when the publication was
	// already closed, which keeps a single accepted offer per publication.
	RequireOpenPublication bool
	DeactivateChat         bool
	SystemMessage          string
}

const (
	SystemMessageAccepted  = "El cliente aceptó la oferta. ¡Pueden coordinar el trabajo por este chat!"
	SystemMessageRejected  = "El cliente rechazó la oferta. Este chat ha sido cerrado."
	SystemMessageFinalized = "El trabajo fue marcado como finalizado. Este chat ha sido cerrado."
)

func EffectsOf(ev OfferEvent) TransitionEffects {
	switch ev {
	case EventAccept:
		return TransitionEffects{ClosePublication: true, RequireOpenPublication: true, SystemMessage: SystemMessageAccepted}
	case EventReject:
		return TransitionEffects{DeactivateChat: true, SystemMessage: SystemMessageRejected}
	case EventFinalize:
		return TransitionEffects{ClosePublication: true, DeactivateChat: true, SystemMessage: SystemMessageFinalized}
	}
	return TransitionEffects{}
}

type Offer struct {
	ID            string      `json:"id" gorm:"primaryKey;size:36"`
	PublicacionID string      `json:"publicacion_id" gorm:"column:publicacion_id;size:36;not null;index:idx_ofertas_pub_trab,priority:1"`
	ClienteID     int64       `json:"cliente_id" gorm:"column:cliente_id;not null;index"`
	TrabajadorID  int64       `json:"trabajador_id" gorm:"column:trabajador_id;not null;index:idx_ofertas_pub_trab,priority:2"`
	Monto         float64     `json:"monto" gorm:"not null"`
	Mensaje       string      `json:"mensaje" gorm:"type:text;not null"`
	Estado        OfferStatus `json:"estado" gorm:"size:20;not null;index"`
	CreatedAt     time.Time   `json:"created_at"`
	UpdatedAt     time.Time   `json:"updated_at"`
}

func (Offer) TableName() string { return "ofertas" }

// Transition is one validated state change together with its side effects.
// Both the stored procedure and the fallback steps execute exactly this value.
type Transition struct {
	OfferID         string
	PublicationID   string
	ChatID          string
	ActorID         int64
	Event           OfferEvent
	From            OfferStatus
	To              OfferStatus
	Effects         TransitionEffects
	SystemMessageID string
	At              time.Time
}

var systemMessageNS = uuid.MustParse("6f1f7a5c-2a4b-4c61-9d0e-5d3b8f4e2a17")

func NewTransition(o Offer, chatID string, actorID int64, ev OfferEvent, at time.Time) (Transition, error) {
	to, err := o.Estado.Next(ev)
	if err != nil {
		return Transition{}, err
	}
	return Transition{
		OfferID:       o.ID,
		PublicationID: o.PublicacionID,
		ChatID:        chatID,
		ActorID:       actorID,
		Event:         ev,
		From:          o.Estado,
		To:            to,
		Effects:       EffectsOf(ev),
		// Deterministic so a retried fallback cannot post the message twice.
		SystemMessageID: uuid.NewSHA1(systemMessageNS, []byte(o.ID+":"+string(to))).String(),
		At:              at.UTC(),
	}, nil
}

func (t Transition) SystemMessage() *Message {
	if t.ChatID == "" || t.Effects.SystemMessage == "" {
		return nil
	}
	return &Message{
		ID:              t.SystemMessageID,
		ChatID:          t.ChatID,
		SenderID:        t.ActorID,
		Content:         t.Effects.SystemMessage,
		IsSystemMessage: true,
		IsRead:          true,
		CreatedAt:       t.At,
	}
}
