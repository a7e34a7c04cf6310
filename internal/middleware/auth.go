package middleware

import (
	"log"
	"net/http"
	"strings"

	"servimarket/internal/pkg/jwt"
	"servimarket/internal/pkg/response"
	"servimarket/internal/pkg/session"

	"github.com/gin-gonic/gin"
)

// JWTAuth validates the bearer token and stores user_id, role, jti and
// token_exp in the context. Revoked tokens are rejected when sessions is set.
func JWTAuth(jwtService *jwt.Service, sessions ...session.Revoker) gin.HandlerFunc {
	var revoker session.Revoker
	if len(sessions) > 0 {
		revoker = sessions[0]
	}

	return func(c *gin.Context) {
		header := c.GetHeader("Authorization")
		if header == "" {
			response.Abort(c, http.StatusUnauthorized, "AUTH_HEADER_MISSING", "Authorization header is required")
			return
		}

		scheme, token, ok := strings.Cut(header, " ")
		if !ok || !strings.EqualFold(scheme, "Bearer") || strings.TrimSpace(token) == "" {
			response.Abort(c, http.StatusUnauthorized, "INVALID_AUTH_FORMAT", "Authorization header must be: Bearer <token>")
			return
		}

		claims, err := jwtService.ValidateToken(strings.TrimSpace(token))
		if err != nil {
			response.Abort(c, http.StatusUnauthorized, "INVALID_TOKEN", "Invalid or expired token")
			return
		}

		if revoker != nil {
			revoked, err := revoker.IsRevoked(c.Request.Context(), claims.ID)
			if err != nil {
				log.Printf("session_check_failed jti=%s err=%q", claims.ID, err.Error())
				response.Abort(c, http.StatusServiceUnavailable, "TRANSIENT_ERROR", "No se pudo validar la sesión. Intenta de nuevo.")
				return
			}
			if revoked {
				response.Abort(c, http.StatusUnauthorized, "INVALID_TOKEN", "Session has been closed")
				return
			}
		}

		c.Set("user_id", claims.UserID)
		c.Set("role", claims.Role)
		c.Set("jti", claims.ID)
		if claims.ExpiresAt != nil {
			c.Set("token_exp", claims.ExpiresAt.Time)
		}
		c.Next()
	}
}
