package model

import "time"

type Role string

const (
	RoleStudent   Role = "student"
	RoleProfessor Role = "professor"
)

type User struct {
	Email          string    `json:"email"`
	Username       string    `json:"username"`
	PasswordHash   string    `json:"-"`
	Role           Role      `json:"role"`
	TelegramChatID int64     `json:"telegram_chat_id,omitempty"` // 0 - Telegram не привязан
	CreatedAt      time.Time `json:"created_at"`
}

// NewUser данные регистрации
type NewUser struct {
	Email          string `validate:"required,email"`
	Username       string `validate:"min=5,max=20"`
	Password       string `validate:"min=4"`
	Role           Role   `validate:"oneof=student professor"`
	TelegramChatID int64
}
