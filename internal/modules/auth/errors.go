package auth

import (
	"errors"

	"servimarket/internal/pkg/apperr"
)

const (
	MsgDocumentTaken = "Este número de documento ya está registrado."
	MsgEmailTaken    = "Este correo ya está registrado."
	MsgInvalidReset  = "El enlace de recuperación no es válido o ya expiró."
)

var (
	// ErrInvalidCredentials is answered with 401 by the handler.
	ErrInvalidCredentials = errors.New("invalid credentials")

	ErrDocumentTaken = apperr.Conflict(MsgDocumentTaken)
	ErrEmailTaken    = apperr.Conflict(MsgEmailTaken)
	ErrInvalidReset  = apperr.Validation(MsgInvalidReset)
	ErrUserNotFound  = apperr.NotFound("Usuario no encontrado.")
)
