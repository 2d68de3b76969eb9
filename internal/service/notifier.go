package service

import (
	"context"
	"encoding/json"
	"fmt"
	"html"
	"sync"
	"time"

	"github.com/Freeeeeet/meetme/internal/model"
	"github.com/go-telegram/bot"
	"github.com/go-telegram/bot/models"
	"go.uber.org/zap"
)

const deliveryTimeout = 5 * time.Second

// Sink получатель событий уведомлений
type Sink interface {
	Name() string
	Deliver(ctx context.Context, n *model.Notification) error
}

// Dispatcher очередь уведомлений с одним воркером.
// Emit никогда не блокирует: при переполнении событие отбрасывается.
type Dispatcher struct {
	queue  chan model.Notification
	sinks  []Sink
	logger *zap.Logger

	mu     sync.RWMutex
	closed bool
	done   chan struct{}
}

func NewDispatcher(queueSize int, logger *zap.Logger, sinks ...Sink) *Dispatcher {
	return &Dispatcher{
		queue:  make(chan model.Notification, queueSize),
		sinks:  sinks,
		logger: logger,
		done:   make(chan struct{}),
	}
}

// Emit ставит событие в очередь
func (d *Dispatcher) Emit(_ context.Context, n model.Notification) {
	d.mu.RLock()
	defer d.mu.RUnlock()

	if d.closed {
		d.logger.Warn("Notification dropped: dispatcher stopped",
			zap.String("recipient", n.RecipientEmail),
			zap.String("kind", string(n.Kind)),
		)
		return
	}

	select {
	case d.queue <- n:
	default:
		d.logger.Warn("Notification dropped: queue full",
			zap.String("recipient", n.RecipientEmail),
			zap.String("kind", string(n.Kind)),
		)
	}
}

// Start запускает воркер доставки
func (d *Dispatcher) Start(ctx context.Context) {
	go d.run(ctx)
}

// Stop закрывает очередь и ждёт доставки уже принятых событий
func (d *Dispatcher) Stop() {
	d.mu.Lock()
	if !d.closed {
		d.closed = true
		close(d.queue)
	}
	d.mu.Unlock()

	<-d.done
}

func (d *Dispatcher) run(ctx context.Context) {
	defer close(d.done)

	// контекст запросов уже завершён, доставка живёт своим
	ctx = context.WithoutCancel(ctx)
	for n := range d.queue {
		d.deliver(ctx, &n)
	}
}

func (d *Dispatcher) deliver(ctx context.Context, n *model.Notification) {
	for _, sink := range d.sinks {
		sinkCtx, cancel := context.WithTimeout(ctx, deliveryTimeout)
		err := sink.Deliver(sinkCtx, n)
		cancel()

		if err != nil {
			d.logger.Error("Notification delivery failed",
				zap.String("sink", sink.Name()),
				zap.String("recipient", n.RecipientEmail),
				zap.String("kind", string(n.Kind)),
				zap.Error(err),
			)
		}
	}
}

// StoreSink сохраняет уведомление в журнал; должен стоять первым, так как присваивает ID
type StoreSink struct {
	store NotificationStore
}

func NewStoreSink(store NotificationStore) *StoreSink {
	return &StoreSink{store: store}
}

func (s *StoreSink) Name() string { return "store" }

func (s *StoreSink) Deliver(ctx context.Context, n *model.Notification) error {
	return s.store.Append(ctx, n)
}

// Pusher доставляет сообщение в активные соединения пользователя
type Pusher interface {
	SendTo(id string, payload []byte) int
}

// PushSink отправляет уведомление в открытые websocket-соединения получателя
type PushSink struct {
	pusher Pusher
	logger *zap.Logger
}

func NewPushSink(pusher Pusher, logger *zap.Logger) *PushSink {
	return &PushSink{pusher: pusher, logger: logger}
}

func (s *PushSink) Name() string { return "push" }

func (s *PushSink) Deliver(_ context.Context, n *model.Notification) error {
	payload, err := json.Marshal(n)
	if err != nil {
		return fmt.Errorf("marshal notification: %w", err)
	}

	delivered := s.pusher.SendTo(n.RecipientEmail, payload)
	s.logger.Debug("Notification pushed",
		zap.String("recipient", n.RecipientEmail),
		zap.Int("connections", delivered),
	)
	return nil
}

// TelegramSender часть *bot.Bot, нужная для отправки сообщений
type TelegramSender interface {
	SendMessage(ctx context.Context, params *bot.SendMessageParams) (*models.Message, error)
}

// RecipientLookup находит пользователя по email
type RecipientLookup interface {
	GetByEmail(ctx context.Context, email string) (*model.User, error)
}

// TelegramSink дублирует уведомление в Telegram, если получатель привязал чат
type TelegramSink struct {
	sender TelegramSender
	users  RecipientLookup
}

func NewTelegramSink(sender TelegramSender, users RecipientLookup) *TelegramSink {
	return &TelegramSink{sender: sender, users: users}
}

func (s *TelegramSink) Name() string { return "telegram" }

func (s *TelegramSink) Deliver(ctx context.Context, n *model.Notification) error {
	user, err := s.users.GetByEmail(ctx, n.RecipientEmail)
	if err != nil {
		return fmt.Errorf("get recipient: %w", err)
	}
	if user == nil || user.TelegramChatID == 0 {
		return nil
	}

	_, err = s.sender.SendMessage(ctx, &bot.SendMessageParams{
		ChatID:    user.TelegramChatID,
		Text:      fmt.Sprintf("<b>%s</b>\n%s", html.EscapeString(n.Title), html.EscapeString(n.Message)),
		ParseMode: models.ParseModeHTML,
	})
	if err != nil {
		return fmt.Errorf("send telegram message: %w", err)
	}
	return nil
}
