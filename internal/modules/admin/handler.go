package admin

import (
	"net/http"
	"strconv"

	"servimarket/internal/pkg/response"
	"servimarket/internal/pkg/validator"

	"github.com/gin-gonic/gin"
)

type Handler struct {
	service *Service
}

func NewHandler(service *Service) *Handler {
	return &Handler{service: service}
}

// RegisterRoutes expects a group already guarded by middleware.AdminOnly.
func (h *Handler) RegisterRoutes(admin *gin.RouterGroup) {
	// users
	admin.GET("/users", h.ListUsers)
	admin.DELETE("/users/:id", h.DeleteUser)
	admin.GET("/users/:id/verification", h.UserVerification)

	// verification documents
	admin.GET("/verifications/pending", h.PendingVerifications)
	admin.POST("/verifications/:id/approve", h.ApproveVerification)
	admin.POST("/verifications/:id/reject", h.RejectVerification)
}

func userIDParam(c *gin.Context) (int64, bool) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil || id <= 0 {
		response.Error(c, http.StatusBadRequest, "INVALID_ID", "ID inválido")
		return 0, false
	}
	return id, true
}

// ListUsers returns every account with its role.
// @Summary		Listar usuarios
// @Tags		Admin
// @Security	BearerAuth
// @Param		page	query	int	false	"Página (por defecto 1)"
// @Param		limit	query	int	false	"Tamaño de página (por defecto 20)"
// @Router		/admin/users [GET]
func (h *Handler) ListUsers(c *gin.Context) {
	var q ListUsersQuery
	if err := c.ShouldBindQuery(&q); err != nil {
		response.InvalidBody(c)
		return
	}
	list, err := h.service.ListUsers(c.Request.Context(), q)
	if err != nil {
		response.FromError(c, err)
		return
	}
	response.Success(c, http.StatusOK, list)
}

// DeleteUser cascades over the user's publications, offers, chats and reviews.
// @Summary		Eliminar usuario
// @Tags		Admin
// @Security	BearerAuth
// @Param		id	path	int	true	"ID del usuario"
// @Router		/admin/users/{id} [DELETE]
func (h *Handler) DeleteUser(c *gin.Context) {
	id, ok := userIDParam(c)
	if !ok {
		return
	}
	if err := h.service.DeleteUser(c.Request.Context(), c.GetInt64("user_id"), id); err != nil {
		response.FromError(c, err)
		return
	}
	response.Success(c, http.StatusOK, gin.H{"id": id, "deleted": true})
}

func (h *Handler) UserVerification(c *gin.Context) {
	id, ok := userIDParam(c)
	if !ok {
		return
	}
	st, err := h.service.VerificationStatus(c.Request.Context(), id)
	if err != nil {
		response.FromError(c, err)
		return
	}
	response.Success(c, http.StatusOK, st)
}

func (h *Handler) PendingVerifications(c *gin.Context) {
	docs, err := h.service.PendingVerifications(c.Request.Context())
	if err != nil {
		response.FromError(c, err)
		return
	}
	response.Success(c, http.StatusOK, docs)
}

func (h *Handler) ApproveVerification(c *gin.Context) {
	doc, err := h.service.ApproveVerification(c.Request.Context(), c.Param("id"), c.GetInt64("user_id"))
	if err != nil {
		response.FromError(c, err)
		return
	}
	response.Success(c, http.StatusOK, doc)
}

func (h *Handler) RejectVerification(c *gin.Context) {
	var req RejectRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.InvalidBody(c)
		return
	}
	if errs := validator.Validate(req); errs != nil {
		response.ValidationFailed(c, errs)
		return
	}

	doc, err := h.service.RejectVerification(c.Request.Context(), c.Param("id"), c.GetInt64("user_id"), req.Motivo)
	if err != nil {
		response.FromError(c, err)
		return
	}
	response.Success(c, http.StatusOK, doc)
}
