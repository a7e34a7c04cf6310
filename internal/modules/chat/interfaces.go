package chat

import (
	"context"
	"mime/multipart"
	"time"

	"servimarket/internal/domain"
	"servimarket/internal/domain/upload"
)

type ChatRepository interface {
	GetByID(ctx context.Context, id string) (*domain.Chat, error)
	ListByUser(ctx context.Context, userID int64) ([]domain.Chat, error)
	CreateMessage(ctx context.Context, m *domain.Message) error
	ListMessages(ctx context.Context, chatID string, after *time.Time, limit int) ([]domain.Message, error)
	MarkRead(ctx context.Context, chatID string, userID int64) (int64, error)
}

type Uploader interface {
	Upload(ctx context.Context, userID int64, fileHeader *multipart.FileHeader) (*upload.Upload, error)
}

type Publisher interface {
	PublishMessage(chatID string, msg *domain.Message)
	PublishChatStatus(chatID string, active bool)
	PublishRead(chatID string, readerID int64)
}
