package admin

import (
	"time"

	"servimarket/internal/domain"
)

type ListUsersQuery struct {
	Page  int `form:"page"`
	Limit int `form:"limit"`
}

type UserRow struct {
	ID        int64           `json:"id"`
	Email     string          `json:"email"`
	Name      string          `json:"name"`
	Role      domain.UserRole `json:"role"`
	CreatedAt time.Time       `json:"created_at"`
}

type UserList struct {
	Items []UserRow `json:"items"`
	Total int64     `json:"total"`
	Page  int       `json:"page"`
	Limit int       `json:"limit"`
}

type RejectRequest struct {
	Motivo string `json:"motivo" validate:"required,max=500"`
}
