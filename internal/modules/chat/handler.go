package chat

import (
	"log"
	"net/http"
	"time"

	"servimarket/internal/pkg/jwt"
	"servimarket/internal/pkg/response"
	"servimarket/internal/pkg/session"
	"servimarket/internal/pkg/validator"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"
)

type Handler struct {
	svc      *Service
	hub      *Hub
	jwt      *jwt.Service
	sessions session.Revoker
	upgrader websocket.Upgrader
}

func NewHandler(svc *Service, hub *Hub, jwtService *jwt.Service, sessions session.Revoker, checkOrigin func(r *http.Request) bool) *Handler {
	return &Handler{
		svc:      svc,
		hub:      hub,
		jwt:      jwtService,
		sessions: sessions,
		upgrader: websocket.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 1024,
			CheckOrigin:     checkOrigin,
		},
	}
}

func (h *Handler) RegisterRoutes(public, protected *gin.RouterGroup) {
	if public != nil {
		public.GET("/ws/chats", h.WebSocket)
	}

	if protected != nil {
		chats := protected.Group("/chats")
		chats.GET("", h.ListMine)
		chats.GET("/:id", h.Get)
		chats.GET("/:id/messages", h.Messages)
		chats.POST("/:id/messages", h.Send)
		chats.POST("/:id/attachments", h.SendAttachment)
		chats.POST("/:id/read", h.MarkRead)
	}
}

func (h *Handler) ListMine(c *gin.Context) {
	items, err := h.svc.ListMine(c.Request.Context(), c.GetInt64("user_id"))
	if err != nil {
		response.FromError(c, err)
		return
	}
	response.Success(c, http.StatusOK, items)
}

func (h *Handler) Get(c *gin.Context) {
	ch, err := h.svc.Get(c.Request.Context(), c.Param("id"), c.GetInt64("user_id"))
	if err != nil {
		response.FromError(c, err)
		return
	}
	response.Success(c, http.StatusOK, ch)
}

// Messages returns the thread. ?after=<RFC3339> returns only newer messages
// and is what clients poll to reconcile missed push events.
func (h *Handler) Messages(c *gin.Context) {
	var q MessagesQuery
	if err := c.ShouldBindQuery(&q); err != nil {
		response.InvalidBody(c)
		return
	}

	var after *time.Time
	if q.After != "" {
		t, err := time.Parse(time.RFC3339Nano, q.After)
		if err != nil {
			response.Error(c, http.StatusBadRequest, "INVALID_REQUEST", "after must be RFC3339")
			return
		}
		t = t.UTC()
		after = &t
	}

	items, err := h.svc.Messages(c.Request.Context(), c.Param("id"), c.GetInt64("user_id"), after, q.Limit)
	if err != nil {
		response.FromError(c, err)
		return
	}
	response.Success(c, http.StatusOK, items)
}

// Send godoc
// @Summary		Enviar mensaje
// @Tags		Chats
// @Security	BearerAuth
// @Param		id		path	string				true	"Chat ID"
// @Param		request	body	SendMessageRequest	true	"Texto"
// @Success		201	{object}	map[string]interface{}
// @Failure		403	{object}	map[string]interface{}	"Chat cerrado o no participante"
// @Router		/chats/{id}/messages [POST]
func (h *Handler) Send(c *gin.Context) {
	var req SendMessageRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.InvalidBody(c)
		return
	}
	if errs := validator.Validate(req); errs != nil {
		response.ValidationFailed(c, errs)
		return
	}

	m, err := h.svc.Send(c.Request.Context(), c.Param("id"), c.GetInt64("user_id"), req.Content, nil)
	if err != nil {
		response.FromError(c, err)
		return
	}
	response.Success(c, http.StatusCreated, m)
}

func (h *Handler) SendAttachment(c *gin.Context) {
	fh, err := c.FormFile("file")
	if err != nil {
		response.Error(c, http.StatusBadRequest, "INVALID_REQUEST", "no file provided")
		return
	}
	m, err := h.svc.SendAttachment(c.Request.Context(), c.Param("id"), c.GetInt64("user_id"), fh, c.PostForm("content"))
	if err != nil {
		response.FromError(c, err)
		return
	}
	response.Success(c, http.StatusCreated, m)
}

func (h *Handler) MarkRead(c *gin.Context) {
	n, err := h.svc.MarkRead(c.Request.Context(), c.Param("id"), c.GetInt64("user_id"))
	if err != nil {
		response.FromError(c, err)
		return
	}
	response.Success(c, http.StatusOK, gin.H{"marked": n})
}

// WebSocket upgrades the connection. Browsers cannot set headers on the
// handshake, so the token travels as ?token=.
func (h *Handler) WebSocket(c *gin.Context) {
	token := c.Query("token")
	if token == "" {
		response.Error(c, http.StatusUnauthorized, "AUTH_HEADER_MISSING", "token query parameter is required")
		return
	}
	claims, err := h.jwt.ValidateToken(token)
	if err != nil {
		response.Error(c, http.StatusUnauthorized, "INVALID_TOKEN", "Invalid or expired token")
		return
	}
	if h.sessions != nil {
		revoked, err := h.sessions.IsRevoked(c.Request.Context(), claims.ID)
		if err != nil || revoked {
			response.Error(c, http.StatusUnauthorized, "INVALID_TOKEN", "Session ended")
			return
		}
	}

	rooms, err := h.svc.ActiveRoomIDs(c.Request.Context(), claims.UserID)
	if err != nil {
		response.FromError(c, err)
		return
	}

	conn, err := h.upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		log.Printf("ws_upgrade_failed user_id=%d err=%q", claims.UserID, err.Error())
		return
	}
	h.hub.ServeWS(conn, claims.UserID, rooms)
}
