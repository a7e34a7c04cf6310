package domain

import "time"

// Chat is the private thread bound 1:1 to an offer.
type Chat struct {
	ID           string    `json:"id" gorm:"primaryKey;size:36"`
	OfertaID     string    `json:"oferta_id" gorm:"column:oferta_id;size:36;not null;uniqueIndex"`
	ClienteID    int64     `json:"cliente_id" gorm:"column:cliente_id;not null;index"`
	TrabajadorID int64     `json:"trabajador_id" gorm:"column:trabajador_id;not null;index"`
	IsActive     bool      `json:"is_active" gorm:"not null"`
	CreatedAt    time.Time `json:"created_at"`

	UnreadCount int64 `json:"unread_count" gorm:"-"`
}

func (Chat) TableName() string { return "chats" }

func (c Chat) IsParticipant(userID int64) bool {
	return userID != 0 && (userID == c.ClienteID || userID == c.TrabajadorID)
}

// CanSendMessage is the chat write gate.
func CanSendMessage(c Chat, userID int64) bool {
	return c.IsParticipant(userID) && c.IsActive
}

type Message struct {
	ID              string    `json:"id" gorm:"primaryKey;size:36"`
	ChatID          string    `json:"chat_id" gorm:"column:chat_id;size:36;not null;index"`
	SenderID        int64     `json:"sender_id" gorm:"column:sender_id;not null"`
	Content         string    `json:"content" gorm:"type:text"`
	FileURL         *string   `json:"file_url,omitempty" gorm:"column:file_url"`
	FileName        *string   `json:"file_name,omitempty" gorm:"column:file_name"`
	FileType        *string   `json:"file_type,omitempty" gorm:"column:file_type"`
	FileSize        *int64    `json:"file_size,omitempty" gorm:"column:file_size"`
	IsSystemMessage bool      `json:"is_system_message" gorm:"not null"`
	IsRead          bool      `json:"is_read" gorm:"not null"`
	CreatedAt       time.Time `json:"created_at" gorm:"index"`
}

func (Message) TableName() string { return "mensajes" }

type Attachment struct {
	URL  string `json:"url"`
	Name string `json:"name"`
	Type string `json:"type"`
	Size int64  `json:"size"`
}

func (m *Message) Attach(a *Attachment) {
	if a == nil || a.URL == "" {
		return
	}
	url, name, typ, size := a.URL, a.Name, a.Type, a.Size
	m.FileURL, m.FileName, m.FileType, m.FileSize = &url, &name, &typ, &size
}
