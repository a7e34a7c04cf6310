package response

import (
	"log"
	"net/http"

	"servimarket/internal/pkg/apperr"

	"github.com/gin-gonic/gin"
)

func Success(c *gin.Context, statusCode int, data interface{}) {
	c.JSON(statusCode, gin.H{
		"success": true,
		"data":    data,
	})
}

func Error(c *gin.Context, statusCode int, code string, message string) {
	c.JSON(statusCode, gin.H{
		"success": false,
		"error": gin.H{
			"code":    code,
			"message": message,
		},
	})
}

func ErrorWithDetails(c *gin.Context, statusCode int, code string, message string, details any) {
	c.JSON(statusCode, gin.H{
		"success": false,
		"error": gin.H{
			"code":    code,
			"message": message,
			"details": details,
		},
	})
}

// Abort writes an error envelope and stops the handler chain.
func Abort(c *gin.Context, statusCode int, code string, message string) {
	Error(c, statusCode, code, message)
	c.Abort()
}

func InvalidBody(c *gin.Context) {
	Error(c, http.StatusBadRequest, "INVALID_REQUEST", "Invalid request body")
}

func ValidationFailed(c *gin.Context, fields map[string]string) {
	ErrorWithDetails(c, http.StatusBadRequest, "VALIDATION_ERROR", "Datos inválidos", fields)
}

func Unauthorized(c *gin.Context) {
	Error(c, http.StatusUnauthorized, "UNAUTHORIZED", "Authentication required")
}

var kindStatus = map[apperr.Kind]struct {
	status int
	code   string
}{
	apperr.KindValidation:    {http.StatusBadRequest, "VALIDATION_ERROR"},
	apperr.KindAuthorization: {http.StatusForbidden, "NOT_AUTHORIZED"},
	apperr.KindInvalidState:  {http.StatusConflict, "INVALID_STATE"},
	apperr.KindConflict:      {http.StatusConflict, "CONFLICT"},
	apperr.KindLimitExceeded: {http.StatusUnprocessableEntity, "LIMIT_EXCEEDED"},
	apperr.KindNotFound:      {http.StatusNotFound, "NOT_FOUND"},
	apperr.KindForbidden:     {http.StatusForbidden, "FORBIDDEN"},
	apperr.KindTransient:     {http.StatusServiceUnavailable, "TRANSIENT_ERROR"},
}

// StatusOf maps an error to its HTTP status and envelope code.
func StatusOf(err error) (int, string) {
	if m, ok := kindStatus[apperr.KindOf(err)]; ok {
		return m.status, m.code
	}
	return http.StatusInternalServerError, "INTERNAL"
}

// FromError writes the envelope for a service error. Unclassified errors are
// logged and hidden behind a generic message.
func FromError(c *gin.Context, err error) {
	status, code := StatusOf(err)
	if status == http.StatusInternalServerError {
		_ = c.Error(err)
		log.Printf("internal_error method=%s path=%s err=%q", c.Request.Method, c.Request.URL.Path, err.Error())
		Error(c, status, code, "Internal error")
		return
	}
	if status == http.StatusServiceUnavailable {
		_ = c.Error(err)
	}
	Error(c, status, code, apperr.MessageOf(err))
}
