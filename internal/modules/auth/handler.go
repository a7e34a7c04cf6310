package auth

import (
	"errors"
	"net/http"

	"servimarket/internal/pkg/response"
	"servimarket/internal/pkg/validator"

	"github.com/gin-gonic/gin"
)

// Handler manages all HTTP interactions for authentication
type Handler struct {
	service *Service
}

func NewHandler(service *Service) *Handler {
	return &Handler{service: service}
}

func (h *Handler) RegisterPublicRoutes(v1 *gin.RouterGroup) {
	authGroup := v1.Group("/auth")
	{
		authGroup.POST("/register/client", h.RegisterClient)
		authGroup.POST("/register/worker", h.RegisterWorker)
		authGroup.POST("/login", h.Login)
		authGroup.POST("/password/forgot", h.ForgotPassword)
		authGroup.POST("/password/reset", h.ResetPassword)
	}
}

func (h *Handler) RegisterProtectedRoutes(protected *gin.RouterGroup) {
	authGroup := protected.Group("/auth")
	{
		authGroup.GET("/me", h.Me)
		authGroup.POST("/logout", h.Logout)
	}
}

// RegisterClient creates a client account with its profile.
// @Summary		Registrar cliente
// @Tags		Autenticación
// @Param		request	body	RegisterClientRequest	true	"Datos del cliente"
// @Success		201	{object}	map[string]interface{}
// @Failure		400	{object}	map[string]interface{}	"Datos inválidos"
// @Failure		409	{object}	map[string]interface{}	"Correo o documento ya registrado"
// @Router		/auth/register/client [POST]
func (h *Handler) RegisterClient(c *gin.Context) {
	var req RegisterClientRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.InvalidBody(c)
		return
	}
	if errs := validator.Validate(req); errs != nil {
		response.ValidationFailed(c, errs)
		return
	}

	user, err := h.service.RegisterClient(c.Request.Context(), req)
	if err != nil {
		response.FromError(c, err)
		return
	}
	response.Success(c, http.StatusCreated, gin.H{"user": toPublic(user)})
}

// RegisterWorker creates a worker account with its public card.
// @Summary		Registrar trabajador
// @Tags		Autenticación
// @Param		request	body	RegisterWorkerRequest	true	"Datos del trabajador"
// @Success		201	{object}	map[string]interface{}
// @Failure		409	{object}	map[string]interface{}	"Correo o documento ya registrado"
// @Router		/auth/register/worker [POST]
func (h *Handler) RegisterWorker(c *gin.Context) {
	var req RegisterWorkerRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.InvalidBody(c)
		return
	}
	if errs := validator.Validate(req); errs != nil {
		response.ValidationFailed(c, errs)
		return
	}

	user, err := h.service.RegisterWorker(c.Request.Context(), req)
	if err != nil {
		response.FromError(c, err)
		return
	}
	response.Success(c, http.StatusCreated, gin.H{"user": toPublic(user)})
}

// Login exchanges credentials for an access token.
// @Summary		Iniciar sesión
// @Tags		Autenticación
// @Param		request	body	LoginRequest	true	"Credenciales"
// @Success		200	{object}	map[string]interface{}
// @Failure		401	{object}	map[string]interface{}
// @Router		/auth/login [POST]
func (h *Handler) Login(c *gin.Context) {
	var req LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.InvalidBody(c)
		return
	}
	if errs := validator.Validate(req); errs != nil {
		response.ValidationFailed(c, errs)
		return
	}

	res, err := h.service.Login(c.Request.Context(), req)
	if err != nil {
		if errors.Is(err, ErrInvalidCredentials) {
			response.Error(c, http.StatusUnauthorized, "INVALID_CREDENTIALS", "Correo o contraseña incorrectos.")
			return
		}
		response.FromError(c, err)
		return
	}
	response.Success(c, http.StatusOK, res)
}

func (h *Handler) Me(c *gin.Context) {
	me, err := h.service.Me(c.Request.Context(), c.GetInt64("user_id"))
	if err != nil {
		response.FromError(c, err)
		return
	}
	response.Success(c, http.StatusOK, me)
}

// Logout revokes the bearer token used for this request.
// @Summary		Cerrar sesión
// @Tags		Autenticación
// @Security	BearerAuth
// @Router		/auth/logout [POST]
func (h *Handler) Logout(c *gin.Context) {
	if err := h.service.Logout(c.Request.Context(), c.GetString("jti"), c.GetTime("token_exp")); err != nil {
		response.FromError(c, err)
		return
	}
	response.Success(c, http.StatusOK, gin.H{"logged_out": true})
}

// ForgotPassword always answers 200 so the endpoint cannot be used to probe
// registered emails.
// @Router		/auth/password/forgot [POST]
func (h *Handler) ForgotPassword(c *gin.Context) {
	var req ForgotPasswordRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.InvalidBody(c)
		return
	}
	if errs := validator.Validate(req); errs != nil {
		response.ValidationFailed(c, errs)
		return
	}

	if err := h.service.ForgotPassword(c.Request.Context(), req.Email); err != nil {
		_ = c.Error(err)
	}
	response.Success(c, http.StatusOK, gin.H{
		"message": "Si el correo está registrado, te enviamos un enlace para restablecer la contraseña.",
	})
}

// @Router		/auth/password/reset [POST]
func (h *Handler) ResetPassword(c *gin.Context) {
	var req ResetPasswordRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.InvalidBody(c)
		return
	}
	if errs := validator.Validate(req); errs != nil {
		response.ValidationFailed(c, errs)
		return
	}

	if err := h.service.ResetPassword(c.Request.Context(), req); err != nil {
		response.FromError(c, err)
		return
	}
	response.Success(c, http.StatusOK, gin.H{"reset": true})
}
