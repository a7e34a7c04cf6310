package review

import (
	"net/http"
	"strconv"

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
	// Public routes (no auth required)
	if public != nil {
		public.GET("/workers/:id/stats", h.Stats)
		public.GET("/workers/:id/reviews", h.ListRecent)
	}

	// Protected routes (auth required)
	if protected != nil {
		protected.GET("/offers/:id/review-eligibility", h.Eligibility)
		protected.POST("/reviews", middleware.RequireRole(string(domain.RoleClient)), h.Create)
	}
}

// Create leaves a review for a finalized offer.
// @Summary		Dejar reseña
// @Tags		Reseñas
// @Security	BearerAuth
// @Param		request	body	CreateReviewRequest	true	"oferta_id, estrellas, comentario"
// @Success		201	{object}	map[string]interface{}
// @Failure		400	{object}	map[string]interface{}	"Estrellas fuera de rango"
// @Failure		409	{object}	map[string]interface{}	"Reseña duplicada u oferta no finalizada"
// @Router		/reviews [POST]
func (h *Handler) Create(c *gin.Context) {
	var req CreateReviewRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.InvalidBody(c)
		return
	}
	if errs := validator.Validate(req); errs != nil {
		response.ValidationFailed(c, errs)
		return
	}

	rv, err := h.svc.Create(c.Request.Context(), c.GetInt64("user_id"), req)
	if err != nil {
		response.FromError(c, err)
		return
	}
	response.Success(c, http.StatusCreated, rv)
}

func (h *Handler) Eligibility(c *gin.Context) {
	e, err := h.svc.Eligibility(c.Request.Context(), c.Param("id"), c.GetInt64("user_id"))
	if err != nil {
		response.FromError(c, err)
		return
	}
	response.Success(c, http.StatusOK, e)
}

func workerID(c *gin.Context) (int64, bool) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil || id <= 0 {
		response.Error(c, http.StatusBadRequest, "INVALID_ID", "Invalid worker ID")
		return 0, false
	}
	return id, true
}

func (h *Handler) Stats(c *gin.Context) {
	id, ok := workerID(c)
	if !ok {
		return
	}
	st, err := h.svc.WorkerStats(c.Request.Context(), id)
	if err != nil {
		response.FromError(c, err)
		return
	}
	response.Success(c, http.StatusOK, st)
}

func (h *Handler) ListRecent(c *gin.Context) {
	id, ok := workerID(c)
	if !ok {
		return
	}
	limit, _ := strconv.Atoi(c.Query("limit"))
	items, err := h.svc.ListRecent(c.Request.Context(), id, limit)
	if err != nil {
		response.FromError(c, err)
		return
	}
	response.Success(c, http.StatusOK, items)
}
