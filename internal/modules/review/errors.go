package review

import "servimarket/internal/pkg/apperr"

const (
	MsgStarsOutOfRange  = "La calificación debe estar entre 1 y 5 estrellas."
	MsgDuplicateReview  = "Ya dejaste una reseña para esta oferta."
	MsgNotOfferClient   = "Solo el cliente de esta oferta puede dejar una reseña."
	MsgOfferNotFinished = "Solo puedes reseñar ofertas finalizadas."
)

var (
	ErrStarsOutOfRange = apperr.Validation(MsgStarsOutOfRange)
	ErrDuplicateReview = apperr.Conflict(MsgDuplicateReview)
	ErrNotOfferClient  = apperr.Authorization(MsgNotOfferClient)
	ErrOfferNotFinal   = apperr.InvalidState(MsgOfferNotFinished)
	ErrOfferNotFound   = apperr.NotFound("La oferta no existe.")
)
