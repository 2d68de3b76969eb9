package handler

import (
	"github.com/gin-gonic/gin"

	"github.com/Freeeeeet/meetme/internal/api/response"
	"github.com/Freeeeeet/meetme/internal/model"
)

type UserHandler struct {
	users UserService
}

func NewUserHandler(users UserService) *UserHandler {
	return &UserHandler{users: users}
}

type registerRequest struct {
	Email          string `json:"email"`
	Username       string `json:"username"`
	Password       string `json:"password"`
	Role           string `json:"role"`
	TelegramChatID int64  `json:"telegram_chat_id"`
}

type loginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type userSummary struct {
	Email    string `json:"email"`
	Username string `json:"username"`
}

type loginResponse struct {
	Email    string     `json:"email"`
	Role     model.Role `json:"role"`
	Username string     `json:"username"`
}

// Register регистрирует пользователя
// POST /accounts
func (h *UserHandler) Register(c *gin.Context) {
	var req registerRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "invalid request body")
		return
	}

	user, err := h.users.Register(c.Request.Context(), model.NewUser{
		Email:          req.Email,
		Username:       req.Username,
		Password:       req.Password,
		Role:           model.Role(req.Role),
		TelegramChatID: req.TelegramChatID,
	})
	if err != nil {
		response.Fail(c, err)
		return
	}

	response.Created(c, user)
}

// Login проверяет email и пароль
// POST /login
func (h *UserHandler) Login(c *gin.Context) {
	var req loginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "invalid request body")
		return
	}

	user, err := h.users.Login(c.Request.Context(), req.Email, req.Password)
	if err != nil {
		response.Fail(c, err)
		return
	}

	response.OK(c, loginResponse{Email: user.Email, Role: user.Role, Username: user.Username})
}

// GetByEmail
// GET /users/:email
func (h *UserHandler) GetByEmail(c *gin.Context) {
	user, err := h.users.GetByEmail(c.Request.Context(), c.Param("email"))
	if err != nil {
		response.Fail(c, err)
		return
	}
	response.OK(c, userSummary{Email: user.Email, Username: user.Username})
}

// GetByUsername
// GET /users/username/:username
func (h *UserHandler) GetByUsername(c *gin.Context) {
	user, err := h.users.GetByUsername(c.Request.Context(), c.Param("username"))
	if err != nil {
		response.Fail(c, err)
		return
	}
	response.OK(c, userSummary{Email: user.Email, Username: user.Username})
}

type linkTelegramRequest struct {
	ChatID int64 `json:"chat_id"`
}

// LinkTelegram привязывает чат Telegram для уведомлений
// PUT /users/:email/telegram
func (h *UserHandler) LinkTelegram(c *gin.Context) {
	var req linkTelegramRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "invalid request body")
		return
	}

	if err := h.users.LinkTelegram(c.Request.Context(), c.Param("email"), req.ChatID); err != nil {
		response.Fail(c, err)
		return
	}
	response.Message(c, "Telegram chat linked")
}
