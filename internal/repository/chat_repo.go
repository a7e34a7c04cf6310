package repository

import (
	"context"
	"slices"
	"time"

	"servimarket/internal/domain"

	"gorm.io/gorm"
)

type ChatRepository struct {
	db *gorm.DB
}

func NewChatRepository(db *gorm.DB) *ChatRepository {
	return &ChatRepository{db: db}
}

func (r *ChatRepository) GetByID(ctx context.Context, id string) (*domain.Chat, error) {
	var ch domain.Chat
	if err := r.db.WithContext(ctx).Where("id = ?", id).First(&ch).Error; err != nil {
		return nil, err
	}
	return &ch, nil
}

func (r *ChatRepository) GetByOfferID(ctx context.Context, offerID string) (*domain.Chat, error) {
	var ch domain.Chat
	if err := r.db.WithContext(ctx).Where("oferta_id = ?", offerID).First(&ch).Error; err != nil {
		return nil, err
	}
	return &ch, nil
}

// ListByUser returns the user's chats, newest first, with UnreadCount filled
// from messages written by the other participant.
func (r *ChatRepository) ListByUser(ctx context.Context, userID int64) ([]domain.Chat, error) {
	var chats []domain.Chat
	if err := r.db.WithContext(ctx).
		Where("cliente_id = ? OR trabajador_id = ?", userID, userID).
		Order("created_at DESC").
		Find(&chats).Error; err != nil {
		return nil, err
	}
	if len(chats) == 0 {
		return chats, nil
	}

	ids := make([]string, len(chats))
	for i, ch := range chats {
		ids[i] = ch.ID
	}

	var counts []struct {
		ChatID string
		N      int64
	}
	if err := r.db.WithContext(ctx).Model(&domain.Message{}).
		Select("chat_id, COUNT(*) AS n").
		Where("chat_id IN ? AND sender_id <> ? AND is_read = ?", ids, userID, false).
		Group("chat_id").
		Scan(&counts).Error; err != nil {
		return nil, err
	}

	byChat := make(map[string]int64, len(counts))
	for _, c := range counts {
		byChat[c.ChatID] = c.N
	}
	for i := range chats {
		chats[i].UnreadCount = byChat[chats[i].ID]
	}
	return chats, nil
}

func (r *ChatRepository) CreateMessage(ctx context.Context, m *domain.Message) error {
	if !m.CreatedAt.IsZero() {
		m.CreatedAt = m.CreatedAt.UTC()
	}
	return r.db.WithContext(ctx).Create(m).Error
}

// ListMessages returns messages in chronological order. When after is set
// only newer messages are returned, oldest first, which is what periodic
// reconciliation asks for. Without after the newest limit messages are
// returned.
func (r *ChatRepository) ListMessages(ctx context.Context, chatID string, after *time.Time, limit int) ([]domain.Message, error) {
	q := r.db.WithContext(ctx).Where("chat_id = ?", chatID)
	if limit > 0 {
		q = q.Limit(limit)
	}
	var out []domain.Message
	if after != nil {
		err := q.Where("created_at > ?", after.UTC()).
			Order("created_at ASC").Order("id ASC").
			Find(&out).Error
		return out, err
	}

	if err := q.Order("created_at DESC").Order("id DESC").Find(&out).Error; err != nil {
		return nil, err
	}
	slices.Reverse(out)
	return out, nil
}

// MarkRead flags every unread message not written by userID.
func (r *ChatRepository) MarkRead(ctx context.Context, chatID string, userID int64) (int64, error) {
	res := r.db.WithContext(ctx).Model(&domain.Message{}).
		Where("chat_id = ? AND sender_id <> ? AND is_read = ?", chatID, userID, false).
		Update("is_read", true)
	return res.RowsAffected, res.Error
}

func (r *ChatRepository) CountSystemMessages(ctx context.Context, chatID string) (int64, error) {
	var n int64
	err := r.db.WithContext(ctx).Model(&domain.Message{}).
		Where("chat_id = ? AND is_system_message = ?", chatID, true).
		Count(&n).Error
	return n, err
}
