package upload

import "servimarket/internal/pkg/apperr"

var (
	ErrUploadNotFound  = apperr.NotFound("Archivo no encontrado.")
	ErrNotOwner        = apperr.Forbidden("Este archivo no te pertenece.")
	ErrFileTooLarge    = apperr.Validation("El archivo supera el tamaño máximo permitido.")
	ErrInvalidMimeType = apperr.Validation("Tipo de archivo no permitido. Usa JPG, PNG, WEBP o PDF.")
	ErrEmptyFile       = apperr.Validation("El archivo está vacío.")
	ErrFileInUse       = apperr.Conflict("El archivo está asociado a un documento de verificación.")
)
