package upload

import (
	"net/http"

	"servimarket/internal/pkg/response"

	"github.com/gin-gonic/gin"
)

// Handler exposes uploads to any authenticated user. Ownership is tracked
// by user_id.
type Handler struct {
	service *Service
}

func NewHandler(service *Service) *Handler {
	return &Handler{service: service}
}

func (h *Handler) RegisterRoutes(protected *gin.RouterGroup) {
	uploads := protected.Group("/uploads")
	{
		uploads.POST("", h.Upload)
		uploads.GET("", h.ListMy)
		uploads.GET("/:id", h.GetByID)
		uploads.GET("/:id/file", h.File)
		uploads.DELETE("/:id", h.Delete)
	}
}

// Upload godoc
// @Summary Subir archivo
// @Description JPG, PNG, WEBP o PDF. Devuelve el ID y la URL pública.
// @Tags Uploads
// @Accept multipart/form-data
// @Security BearerAuth
// @Param file formData file true "Archivo"
// @Success 201 {object} map[string]interface{}
// @Router /uploads [post]
func (h *Handler) Upload(c *gin.Context) {
	c.Request.Body = http.MaxBytesReader(c.Writer, c.Request.Body, h.service.MaxBytes()+1<<20)
	fh, err := c.FormFile("file")
	if err != nil {
		response.Error(c, http.StatusBadRequest, "VALIDATION_ERROR", "Adjunta un archivo en el campo 'file'.")
		return
	}

	u, err := h.service.Upload(c.Request.Context(), c.GetInt64("user_id"), fh)
	if err != nil {
		response.FromError(c, err)
		return
	}
	response.Success(c, http.StatusCreated, u)
}

func (h *Handler) GetByID(c *gin.Context) {
	u, err := h.service.GetByID(c.Request.Context(), c.Param("id"))
	if err != nil {
		response.FromError(c, err)
		return
	}
	if u.UserID != c.GetInt64("user_id") {
		response.FromError(c, ErrNotOwner)
		return
	}
	response.Success(c, http.StatusOK, u)
}

// File streams the stored bytes. Private files require the owner or an admin.
func (h *Handler) File(c *gin.Context) {
	u, path, err := h.service.Open(c.Request.Context(), c.Param("id"), c.GetInt64("user_id"), c.GetString("role") == "admin")
	if err != nil {
		response.FromError(c, err)
		return
	}
	c.Header("Content-Type", u.MimeType)
	c.Header("X-Content-Type-Options", "nosniff")
	c.File(path)
}

func (h *Handler) Delete(c *gin.Context) {
	if err := h.service.Delete(c.Request.Context(), c.Param("id"), c.GetInt64("user_id")); err != nil {
		response.FromError(c, err)
		return
	}
	response.Success(c, http.StatusOK, gin.H{"id": c.Param("id"), "deleted": true})
}

func (h *Handler) ListMy(c *gin.Context) {
	items, err := h.service.ListByUser(c.Request.Context(), c.GetInt64("user_id"))
	if err != nil {
		response.FromError(c, err)
		return
	}
	response.Success(c, http.StatusOK, items)
}
