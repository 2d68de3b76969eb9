package repository

import (
	"context"
	"fmt"

	"github.com/Freeeeeet/meetme/internal/model"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"
)

type ChatRepository struct {
	pool *pgxpool.Pool
}

func NewChatRepository(pool *pgxpool.Pool) *ChatRepository {
	return &ChatRepository{pool: pool}
}

// Save сохраняет сообщение чата
func (r *ChatRepository) Save(ctx context.Context, m *model.ChatMessage) error {
	query := `
		INSERT INTO chat_messages (id, sender_id, receiver_id, message, sent_at)
		VALUES ($1, $2, $3, $4, $5)
	`

	if m.ID == uuid.Nil {
		m.ID = uuid.New()
	}

	if _, err := r.pool.Exec(ctx, query, m.ID, m.SenderID, m.ReceiverID, m.Message, m.Timestamp); err != nil {
		return fmt.Errorf("save chat message: %w", err)
	}

	return nil
}

// History получает переписку двух пользователей в обе стороны по времени
func (r *ChatRepository) History(ctx context.Context, user1, user2 string) ([]*model.ChatMessage, error) {
	query := `
		SELECT id, sender_id, receiver_id, message, sent_at
		FROM chat_messages
		WHERE (sender_id = $1 AND receiver_id = $2)
		   OR (sender_id = $2 AND receiver_id = $1)
		ORDER BY sent_at
	`

	rows, err := r.pool.Query(ctx, query, user1, user2)
	if err != nil {
		return nil, fmt.Errorf("get chat history: %w", err)
	}
	defer rows.Close()

	messages := make([]*model.ChatMessage, 0)
	for rows.Next() {
		var m model.ChatMessage
		if err := rows.Scan(&m.ID, &m.SenderID, &m.ReceiverID, &m.Message, &m.Timestamp); err != nil {
			return nil, fmt.Errorf("scan chat message: %w", err)
		}
		messages = append(messages, &m)
	}

	return messages, rows.Err()
}
