package repository

import (
	"context"
	"fmt"

	"github.com/Freeeeeet/meetme/internal/model"
	"github.com/Freeeeeet/meetme/internal/repository/base"
	"github.com/jackc/pgx/v5/pgxpool"
)

type UserRepository struct {
	pool *pgxpool.Pool
}

func NewUserRepository(pool *pgxpool.Pool) *UserRepository {
	return &UserRepository{pool: pool}
}

// Create создаёт нового пользователя
func (r *UserRepository) Create(ctx context.Context, user *model.User) error {
	query := `
		INSERT INTO users (email, username, password_hash, role, telegram_chat_id)
		VALUES ($1, $2, $3, $4, NULLIF($5::bigint, 0))
		RETURNING created_at
	`

	err := r.pool.QueryRow(
		ctx, query,
		user.Email,
		user.Username,
		user.PasswordHash,
		user.Role,
		user.TelegramChatID,
	).Scan(&user.CreatedAt)

	if err != nil {
		if base.IsUniqueViolation(err) {
			return model.ErrEmailTaken
		}
		return fmt.Errorf("create user: %w", err)
	}

	return nil
}

// GetByEmail получает пользователя по email
func (r *UserRepository) GetByEmail(ctx context.Context, email string) (*model.User, error) {
	return r.getOne(ctx, "email", email)
}

// GetByUsername получает пользователя по имени
func (r *UserRepository) GetByUsername(ctx context.Context, username string) (*model.User, error) {
	return r.getOne(ctx, "username", username)
}

// SetTelegramChatID привязывает Telegram-чат для уведомлений
func (r *UserRepository) SetTelegramChatID(ctx context.Context, email string, chatID int64) error {
	query := `UPDATE users SET telegram_chat_id = NULLIF($2::bigint, 0) WHERE email = $1`

	tag, err := r.pool.Exec(ctx, query, email, chatID)
	if err != nil {
		return fmt.Errorf("set telegram chat id: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return model.ErrUserNotFound
	}

	return nil
}

func (r *UserRepository) getOne(ctx context.Context, column, value string) (*model.User, error) {
	// column выбирается только из констант выше
	query := `
		SELECT email, username, password_hash, role, COALESCE(telegram_chat_id, 0), created_at
		FROM users
		WHERE ` + column + ` = $1
	`

	var user model.User
	err := r.pool.QueryRow(ctx, query, value).Scan(
		&user.Email,
		&user.Username,
		&user.PasswordHash,
		&user.Role,
		&user.TelegramChatID,
		&user.CreatedAt,
	)

	if err != nil {
		if base.IsNotFound(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("get user by %s: %w", column, err)
	}

	return &user, nil
}
