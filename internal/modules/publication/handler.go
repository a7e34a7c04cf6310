package publication

import (
	"net/http"

	"servimarket/internal/domain"
	"servimarket/internal/middleware"
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
		public.GET("/publications", h.ListOpen)
		public.GET("/publications/:id", h.Get)
	}

	if protected != nil {
		clients := protected.Group("", middleware.RequireRole(string(domain.RoleClient)))
		clients.POST("/publications", h.Create)
		clients.GET("/me/publications", h.ListMine)
		clients.PUT("/publications/:id", h.Update)
		clients.POST("/publications/:id/close", h.Close)
		clients.DELETE("/publications/:id", h.Delete)
	}
}

// Create publishes a new client request.
// @Summary		Crear publicación
// @Tags		Publicaciones
// @Security	BearerAuth
// @Param		request	body	CreatePublicationRequest	true	"Datos de la publicación"
// @Success		201	{object}	map[string]interface{}
// @Failure		400	{object}	map[string]interface{}
// @Router		/publications [POST]
func (h *Handler) Create(c *gin.Context) {
	var req CreatePublicationRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.InvalidBody(c)
		return
	}
	if errs := validator.Validate(req); errs != nil {
		response.ValidationFailed(c, errs)
		return
	}

	p, err := h.svc.Create(c.Request.Context(), c.GetInt64("user_id"), req)
	if err != nil {
		response.FromError(c, err)
		return
	}
	response.Success(c, http.StatusCreated, p)
}

// @Summary		Feed de publicaciones activas
// @Tags		Publicaciones
// @Param		categoria	query	string	false	"Categoría"
// @Param		ciudad		query	string	false	"Ciudad"
// @Param		sort_by		query	string	false	"recientes | antiguas | precio_mayor | precio_menor"
// @Router		/publications [GET]
func (h *Handler) ListOpen(c *gin.Context) {
	var f ListFilters
	if err := c.ShouldBindQuery(&f); err != nil {
		response.InvalidBody(c)
		return
	}
	items, err := h.svc.ListOpen(c.Request.Context(), f)
	if err != nil {
		response.FromError(c, err)
		return
	}
	response.Success(c, http.StatusOK, items)
}

func (h *Handler) ListMine(c *gin.Context) {
	var f ListFilters
	if err := c.ShouldBindQuery(&f); err != nil {
		response.InvalidBody(c)
		return
	}
	items, err := h.svc.ListMine(c.Request.Context(), c.GetInt64("user_id"), f)
	if err != nil {
		response.FromError(c, err)
		return
	}
	response.Success(c, http.StatusOK, items)
}

func (h *Handler) Get(c *gin.Context) {
	v, err := h.svc.Get(c.Request.Context(), c.Param("id"))
	if err != nil {
		response.FromError(c, err)
		return
	}
	response.Success(c, http.StatusOK, v)
}

func (h *Handler) Update(c *gin.Context) {
	var req UpdatePublicationRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.InvalidBody(c)
		return
	}
	if errs := validator.Validate(req); errs != nil {
		response.ValidationFailed(c, errs)
		return
	}

	p, err := h.svc.Update(c.Request.Context(), c.Param("id"), c.GetInt64("user_id"), req)
	if err != nil {
		response.FromError(c, err)
		return
	}
	response.Success(c, http.StatusOK, p)
}

func (h *Handler) Close(c *gin.Context) {
	if err := h.svc.CloseAsOwner(c.Request.Context(), c.Param("id"), c.GetInt64("user_id")); err != nil {
		response.FromError(c, err)
		return
	}
	response.Success(c, http.StatusOK, gin.H{"id": c.Param("id"), "activa": false})
}

// Delete is a soft delete: the row stays with activa=false.
// @Summary		Eliminar publicación
// @Failure		409	{object}	map[string]interface{}	"Tiene una oferta aceptada"
// @Router		/publications/{id} [DELETE]
func (h *Handler) Delete(c *gin.Context) {
	if err := h.svc.Delete(c.Request.Context(), c.Param("id"), c.GetInt64("user_id")); err != nil {
		response.FromError(c, err)
		return
	}
	response.Success(c, http.StatusOK, gin.H{"id": c.Param("id"), "deleted": true})
}
