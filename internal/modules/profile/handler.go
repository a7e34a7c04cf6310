package profile

import (
	"net/http"
	"strconv"

	"servimarket/internal/domain"
	"servimarket/internal/pkg/response"
	"servimarket/internal/pkg/validator"

	"github.com/gin-gonic/gin"
)

type Handler struct {
	svc *Service
}

func NewHandler(svc *Service) *Handler {
	return &Handler{svc: svc}
}

func (h *Handler) RegisterRoutes(public, protected *gin.RouterGroup) {
	if public != nil {
		public.GET("/workers/:id", h.WorkerCard)
	}
	if protected != nil {
		protected.GET("/profile", h.Get)
		protected.PUT("/profile", h.Update)
		protected.GET("/profile/details", h.Details)
		protected.PUT("/profile/details", h.UpdateDetails)
	}
}

func role(c *gin.Context) domain.UserRole {
	return domain.UserRole(c.GetString("role"))
}

func (h *Handler) Get(c *gin.Context) {
	p, err := h.svc.Get(c.Request.Context(), c.GetInt64("user_id"), role(c))
	if err != nil {
		response.FromError(c, err)
		return
	}
	response.Success(c, http.StatusOK, p)
}

// @Summary		Actualizar perfil
// @Tags		Perfil
// @Security	BearerAuth
// @Param		request	body	UpdateProfileRequest	true	"Campos editables"
// @Router		/profile [PUT]
func (h *Handler) Update(c *gin.Context) {
	var req UpdateProfileRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.InvalidBody(c)
		return
	}
	if errs := validator.Validate(req); errs != nil {
		response.ValidationFailed(c, errs)
		return
	}

	p, err := h.svc.Update(c.Request.Context(), c.GetInt64("user_id"), role(c), req)
	if err != nil {
		response.FromError(c, err)
		return
	}
	response.Success(c, http.StatusOK, p)
}

// WorkerCard is public.
// @Summary		Tarjeta pública del trabajador
// @Tags		Perfil
// @Param		id	path	int	true	"ID del trabajador"
// @Router		/workers/{id} [GET]
func (h *Handler) WorkerCard(c *gin.Context) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil || id <= 0 {
		response.Error(c, http.StatusBadRequest, "INVALID_ID", "ID inválido")
		return
	}

	card, err := h.svc.WorkerCard(c.Request.Context(), id)
	if err != nil {
		response.FromError(c, err)
		return
	}
	response.Success(c, http.StatusOK, card)
}

func (h *Handler) Details(c *gin.Context) {
	d, err := h.svc.Details(c.Request.Context(), c.GetInt64("user_id"), role(c))
	if err != nil {
		response.FromError(c, err)
		return
	}
	response.Success(c, http.StatusOK, d)
}

func (h *Handler) UpdateDetails(c *gin.Context) {
	var req UpdateDetailsRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.InvalidBody(c)
		return
	}
	if errs := validator.Validate(req); errs != nil {
		response.ValidationFailed(c, errs)
		return
	}

	d, err := h.svc.UpdateDetails(c.Request.Context(), c.GetInt64("user_id"), role(c), req)
	if err != nil {
		response.FromError(c, err)
		return
	}
	response.Success(c, http.StatusOK, d)
}
