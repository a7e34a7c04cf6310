package chat

import (
	"context"
	"mime/multipart"
	"strings"
	"time"
	"unicode/utf8"

	"servimarket/internal/domain"
	"servimarket/internal/pkg/apperr"
	"servimarket/internal/pkg/dberr"

	"github.com/google/uuid"
)

const (
	maxContentLen       = 4000
	defaultMessageLimit = 200
	maxMessageLimit     = 500
)

// Service is the chat gate. It never writes system messages; those come
// from offer transitions.
type Service struct {
	chats     ChatRepository
	uploads   Uploader
	publisher Publisher
	now       func() time.Time
}

func NewService(chats ChatRepository, uploads Uploader, publisher Publisher) *Service {
	return &Service{chats: chats, uploads: uploads, publisher: publisher, now: domain.Now}
}

func (s *Service) SetPublisher(p Publisher) { s.publisher = p }

func (s *Service) load(ctx context.Context, chatID string) (*domain.Chat, error) {
	ch, err := s.chats.GetByID(ctx, chatID)
	if err != nil {
		if dberr.IsNotFound(err) {
			return nil, apperr.NotFound("El chat no existe.")
		}
		return nil, err
	}
	return ch, nil
}

func (s *Service) loadForParticipant(ctx context.Context, chatID string, userID int64) (*domain.Chat, error) {
	ch, err := s.load(ctx, chatID)
	if err != nil {
		return nil, err
	}
	if !ch.IsParticipant(userID) {
		return nil, apperr.Forbidden("No participas en este chat.")
	}
	return ch, nil
}

func gateError(ch *domain.Chat, userID int64) error {
	if !ch.IsParticipant(userID) {
		return apperr.Forbidden("No participas en este chat.")
	}
	return apperr.Forbidden("Este chat está cerrado; ya no se pueden enviar mensajes.")
}

// Send appends a user message after checking the chat gate.
func (s *Service) Send(ctx context.Context, chatID string, senderID int64, content string, att *domain.Attachment) (*domain.Message, error) {
	ch, err := s.load(ctx, chatID)
	if err != nil {
		return nil, err
	}
	if !domain.CanSendMessage(*ch, senderID) {
		return nil, gateError(ch, senderID)
	}

	content = strings.TrimSpace(content)
	if content == "" && (att == nil || att.URL == "") {
		return nil, apperr.Validation("El mensaje no puede estar vacío.")
	}
	if utf8.RuneCountInString(content) > maxContentLen {
		return nil, apperr.Validation("El mensaje es demasiado largo.")
	}

	m := &domain.Message{
		ID:        uuid.New().String(),
		ChatID:    ch.ID,
		SenderID:  senderID,
		Content:   content,
		CreatedAt: s.now(),
	}
	m.Attach(att)

	if err := s.chats.CreateMessage(ctx, m); err != nil {
		return nil, err
	}
	if s.publisher != nil {
		s.publisher.PublishMessage(ch.ID, m)
	}
	return m, nil
}

// SendAttachment checks the gate before storing the file, so a closed chat
// never receives uploads.
func (s *Service) SendAttachment(ctx context.Context, chatID string, senderID int64, fh *multipart.FileHeader, caption string) (*domain.Message, error) {
	ch, err := s.load(ctx, chatID)
	if err != nil {
		return nil, err
	}
	if !domain.CanSendMessage(*ch, senderID) {
		return nil, gateError(ch, senderID)
	}
	if s.uploads == nil {
		return nil, apperr.Validation("Los adjuntos no están habilitados.")
	}

	up, err := s.uploads.Upload(ctx, senderID, fh)
	if err != nil {
		return nil, err
	}
	return s.Send(ctx, chatID, senderID, caption, &domain.Attachment{
		URL:  up.FileURL,
		Name: up.OriginalName,
		Type: up.MimeType,
		Size: up.Size,
	})
}

// MarkRead marks as read every message the other party wrote. Calling it
// again changes nothing.
func (s *Service) MarkRead(ctx context.Context, chatID string, userID int64) (int64, error) {
	if _, err := s.loadForParticipant(ctx, chatID, userID); err != nil {
		return 0, err
	}
	n, err := s.chats.MarkRead(ctx, chatID, userID)
	if err != nil {
		return 0, err
	}
	if n > 0 && s.publisher != nil {
		s.publisher.PublishRead(chatID, userID)
	}
	return n, nil
}

func (s *Service) Get(ctx context.Context, chatID string, userID int64) (*domain.Chat, error) {
	return s.loadForParticipant(ctx, chatID, userID)
}

func (s *Service) ListMine(ctx context.Context, userID int64) ([]domain.Chat, error) {
	return s.chats.ListByUser(ctx, userID)
}

// Messages is readable by both parties even after the chat is closed.
func (s *Service) Messages(ctx context.Context, chatID string, userID int64, after *time.Time, limit int) ([]domain.Message, error) {
	if _, err := s.loadForParticipant(ctx, chatID, userID); err != nil {
		return nil, err
	}
	if limit <= 0 {
		limit = defaultMessageLimit
	}
	if limit > maxMessageLimit {
		limit = maxMessageLimit
	}
	return s.chats.ListMessages(ctx, chatID, after, limit)
}

// IsParticipant backs the websocket room authorizer.
func (s *Service) IsParticipant(ctx context.Context, userID int64, chatID string) bool {
	ch, err := s.chats.GetByID(ctx, chatID)
	return err == nil && ch.IsParticipant(userID)
}

// ActiveRoomIDs lists the chats a fresh websocket connection subscribes to.
func (s *Service) ActiveRoomIDs(ctx context.Context, userID int64) ([]string, error) {
	chats, err := s.chats.ListByUser(ctx, userID)
	if err != nil {
		return nil, err
	}
	ids := make([]string, 0, len(chats))
	for _, ch := range chats {
		ids = append(ids, ch.ID)
	}
	return ids, nil
}
