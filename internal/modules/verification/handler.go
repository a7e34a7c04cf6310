package verification

import (
	"net/http"

	"servimarket/internal/domain"
	"servimarket/internal/middleware"
	"servimarket/internal/pkg/response"

	"github.com/gin-gonic/gin"
)

type Handler struct {
	svc *Service
}

func NewHandler(svc *Service) *Handler {
	return &Handler{svc: svc}
}

func (h *Handler) RegisterRoutes(protected *gin.RouterGroup) {
	workers := protected.Group("/verification", middleware.RequireRole(string(domain.RoleWorker)))
	{
		workers.POST("", h.Submit)
		workers.GET("", h.Status)
	}
}

// Submit uploads an identity or certification document for review.
// @Summary		Enviar documento de verificación
// @Tags		Verificación
// @Accept		multipart/form-data
// @Security	BearerAuth
// @Param		tipo	formData	string	true	"documento_identidad | certificado | antecedentes"
// @Param		file	formData	file	true	"Archivo (JPG, PNG, WEBP o PDF)"
// @Success		201	{object}	map[string]interface{}
// @Failure		409	{object}	map[string]interface{}	"Ya hay un documento en revisión o aprobado"
// @Router		/verification [POST]
func (h *Handler) Submit(c *gin.Context) {
	fh, err := c.FormFile("file")
	if err != nil {
		response.Error(c, http.StatusBadRequest, "VALIDATION_ERROR", "Adjunta un archivo en el campo 'file'.")
		return
	}

	doc, err := h.svc.Submit(c.Request.Context(), c.GetInt64("user_id"), c.PostForm("tipo"), fh)
	if err != nil {
		response.FromError(c, err)
		return
	}
	response.Success(c, http.StatusCreated, doc)
}

func (h *Handler) Status(c *gin.Context) {
	st, err := h.svc.Status(c.Request.Context(), c.GetInt64("user_id"))
	if err != nil {
		response.FromError(c, err)
		return
	}
	response.Success(c, http.StatusOK, st)
}
