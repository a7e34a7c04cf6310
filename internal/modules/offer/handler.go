package offer

import (
	"context"
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

func (h *Handler) RegisterRoutes(protected *gin.RouterGroup) {
	workers := protected.Group("", middleware.RequireRole(string(domain.RoleWorker)))
	workers.POST("/offers", h.Create)
	workers.GET("/me/offers", h.ListMine)
	workers.GET("/publications/:id/offer-quota", h.Quota)

	protected.GET("/offers/:id", h.Get)
	protected.GET("/publications/:id/offers", h.ListForPublication)
	protected.POST("/offers/:id/accept", h.Accept)
	protected.POST("/offers/:id/reject", h.Reject)
	protected.POST("/offers/:id/finalize", h.Finalize)
}

// Create submits a worker offer. Worker role only.
// @Summary		Enviar oferta
// @Tags		Ofertas
// @Security	BearerAuth
// @Param		request	body	CreateOfferRequest	true	"publicacion_id, monto, mensaje"
// @Success		201	{object}	map[string]interface{}
// @Failure		400	{object}	map[string]interface{}	"Monto o mensaje inválido"
// @Failure		404	{object}	map[string]interface{}	"Publicación inexistente o cerrada"
// @Failure		422	{object}	map[string]interface{}	"Límite de 3 ofertas alcanzado"
// @Router		/offers [POST]
func (h *Handler) Create(c *gin.Context) {
	var req CreateOfferRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.InvalidBody(c)
		return
	}
	if errs := validator.Validate(req); errs != nil {
		response.ValidationFailed(c, errs)
		return
	}

	o, err := h.svc.Create(c.Request.Context(), c.GetInt64("user_id"), req)
	if err != nil {
		response.FromError(c, err)
		return
	}
	response.Success(c, http.StatusCreated, o)
}

func (h *Handler) Get(c *gin.Context) {
	o, err := h.svc.Get(c.Request.Context(), c.Param("id"), c.GetInt64("user_id"))
	if err != nil {
		response.FromError(c, err)
		return
	}
	response.Success(c, http.StatusOK, o)
}

func (h *Handler) ListMine(c *gin.Context) {
	items, err := h.svc.ListMine(c.Request.Context(), c.GetInt64("user_id"))
	if err != nil {
		response.FromError(c, err)
		return
	}
	response.Success(c, http.StatusOK, items)
}

func (h *Handler) ListForPublication(c *gin.Context) {
	items, err := h.svc.ListForPublication(c.Request.Context(), c.Param("id"), c.GetInt64("user_id"))
	if err != nil {
		response.FromError(c, err)
		return
	}
	response.Success(c, http.StatusOK, items)
}

func (h *Handler) Quota(c *gin.Context) {
	q, err := h.svc.Quota(c.Request.Context(), c.Param("id"), c.GetInt64("user_id"))
	if err != nil {
		response.FromError(c, err)
		return
	}
	response.Success(c, http.StatusOK, q)
}

// @Summary		Aceptar oferta
// @Failure		403	{object}	map[string]interface{}	"No eres el cliente"
// @Failure		409	{object}	map[string]interface{}	"Estado inválido"
// @Router		/offers/{id}/accept [POST]
func (h *Handler) Accept(c *gin.Context) {
	h.applyTransition(c, h.svc.Accept)
}

func (h *Handler) Reject(c *gin.Context) {
	h.applyTransition(c, h.svc.Reject)
}

func (h *Handler) Finalize(c *gin.Context) {
	h.applyTransition(c, h.svc.Finalize)
}

type transitionFunc func(ctx context.Context, offerID string, actorID int64) (*domain.Offer, error)

func (h *Handler) applyTransition(c *gin.Context, fn transitionFunc) {
	userID := c.GetInt64("user_id")
	if userID == 0 {
		response.Unauthorized(c)
		return
	}
	o, err := fn(c.Request.Context(), c.Param("id"), userID)
	if err != nil {
		response.FromError(c, err)
		return
	}
	response.Success(c, http.StatusOK, o)
}
