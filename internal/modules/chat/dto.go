package chat

type SendMessageRequest struct {
	Content string `json:"content" validate:"max=4000"`
}

type MessagesQuery struct {
	After string `form:"after"`
	Limit int    `form:"limit"`
}
