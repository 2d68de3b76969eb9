package service

import (
	"context"
	"fmt"
	"strings"

	"github.com/Freeeeeet/meetme/internal/model"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"
)

// UserStore хранилище учётных записей
type UserStore interface {
	Create(ctx context.Context, user *model.User) error
	GetByEmail(ctx context.Context, email string) (*model.User, error)
	GetByUsername(ctx context.Context, username string) (*model.User, error)
	SetTelegramChatID(ctx context.Context, email string, chatID int64) error
}

type UserService struct {
	userRepo UserStore
	cost     int
	logger   *zap.Logger
}

func NewUserService(userRepo UserStore, logger *zap.Logger) *UserService {
	return &UserService{
		userRepo: userRepo,
		cost:     bcrypt.DefaultCost,
		logger:   logger,
	}
}

// Register регистрирует нового пользователя
func (s *UserService) Register(ctx context.Context, in model.NewUser) (*model.User, error) {
	in.Email = strings.TrimSpace(strings.ToLower(in.Email))
	in.Username = strings.TrimSpace(in.Username)
	if err := model.Validate(in); err != nil {
		return nil, err
	}

	existing, err := s.userRepo.GetByEmail(ctx, in.Email)
	if err != nil {
		return nil, fmt.Errorf("check existing user: %w", err)
	}
	if existing != nil {
		return nil, model.ErrEmailTaken
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(in.Password), s.cost)
	if err != nil {
		return nil, fmt.Errorf("hash password: %w", err)
	}

	user := &model.User{
		Email:          in.Email,
		Username:       in.Username,
		PasswordHash:   string(hash),
		Role:           in.Role,
		TelegramChatID: in.TelegramChatID,
	}
	if err := s.userRepo.Create(ctx, user); err != nil {
		return nil, err
	}

	s.logger.Info("User registered",
		zap.String("email", user.Email),
		zap.String("role", string(user.Role)),
	)

	return user, nil
}

// Login проверяет пароль пользователя
func (s *UserService) Login(ctx context.Context, email, password string) (*model.User, error) {
	user, err := s.userRepo.GetByEmail(ctx, strings.TrimSpace(strings.ToLower(email)))
	if err != nil {
		return nil, fmt.Errorf("get user: %w", err)
	}
	if user == nil {
		return nil, model.ErrInvalidCredentials
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password)); err != nil {
		return nil, model.ErrInvalidCredentials
	}

	return user, nil
}

// GetByEmail получает пользователя по email
func (s *UserService) GetByEmail(ctx context.Context, email string) (*model.User, error) {
	user, err := s.userRepo.GetByEmail(ctx, email)
	if err != nil {
		return nil, fmt.Errorf("get user: %w", err)
	}
	if user == nil {
		return nil, model.ErrUserNotFound
	}
	return user, nil
}

// GetByUsername получает пользователя по имени
func (s *UserService) GetByUsername(ctx context.Context, username string) (*model.User, error) {
	user, err := s.userRepo.GetByUsername(ctx, username)
	if err != nil {
		return nil, fmt.Errorf("get user: %w", err)
	}
	if user == nil {
		return nil, model.ErrUserNotFound
	}
	return user, nil
}

// LinkTelegram привязывает Telegram-чат для уведомлений; 0 отвязывает
func (s *UserService) LinkTelegram(ctx context.Context, email string, chatID int64) error {
	if err := s.userRepo.SetTelegramChatID(ctx, email, chatID); err != nil {
		return err
	}

	s.logger.Info("Telegram chat linked",
		zap.String("email", email),
		zap.Bool("linked", chatID != 0),
	)
	return nil
}
