package config

import (
	"fmt"
	"log"
	"strings"
	"time"

	_ "time/tzdata"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

type Config struct {
	Environment    string `mapstructure:"ENV"`
	LogLevel       string `mapstructure:"LOG_LEVEL"`
	DBDSN          string `mapstructure:"DB_DSN"`
	HTTPAddr       string `mapstructure:"HTTP_ADDR"`
	MigrationsPath string `mapstructure:"MIGRATIONS_PATH"`
	Timezone       string `mapstructure:"APP_TIMEZONE"`
	TelegramToken  string `mapstructure:"TELEGRAM_TOKEN"`

	StrictReschedule  bool          `mapstructure:"BOOKING_STRICT_RESCHEDULE"`
	NotifyQueueSize   int           `mapstructure:"NOTIFY_QUEUE_SIZE"`
	SlotSweepInterval time.Duration `mapstructure:"SLOT_SWEEP_INTERVAL"`

	RateLimitRPS     float64  `mapstructure:"RATE_LIMIT_RPS"`
	RateLimitBurst   int      `mapstructure:"RATE_LIMIT_BURST"`
	CORSAllowOrigins []string `mapstructure:"CORS_ALLOW_ORIGINS"`
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("ENV", "development")
	v.SetDefault("LOG_LEVEL", "info")
	v.SetDefault("DB_DSN", "")
	v.SetDefault("HTTP_ADDR", ":8000")
	v.SetDefault("MIGRATIONS_PATH", "migrations")
	v.SetDefault("APP_TIMEZONE", "UTC")
	v.SetDefault("TELEGRAM_TOKEN", "")
	v.SetDefault("BOOKING_STRICT_RESCHEDULE", false)
	v.SetDefault("NOTIFY_QUEUE_SIZE", 256)
	v.SetDefault("SLOT_SWEEP_INTERVAL", "1h")
	v.SetDefault("RATE_LIMIT_RPS", 20.0)
	v.SetDefault("RATE_LIMIT_BURST", 40)
	v.SetDefault("CORS_ALLOW_ORIGINS", []string{"*"})
}

// Load читает .env (если есть) и переменные окружения
func Load() (*Config, error) {
	// Пытаемся загрузить .env файл (игнорируем ошибку, если файла нет)
	if err := godotenv.Load(".env"); err != nil {
		log.Println("No .env file found, using environment variables")
	}

	v := viper.New()
	setDefaults(v)
	v.AutomaticEnv()

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("unmarshal config: %w", err)
	}
	cfg.CORSAllowOrigins = splitOrigins(cfg.CORSAllowOrigins)

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return &cfg, nil
}

// Validate проверяет обязательные поля
func (c *Config) Validate() error {
	if c.DBDSN == "" {
		return fmt.Errorf("DB_DSN is required but not set")
	}
	if _, err := time.LoadLocation(c.Timezone); err != nil {
		return fmt.Errorf("invalid APP_TIMEZONE %q: %w", c.Timezone, err)
	}
	if c.NotifyQueueSize <= 0 {
		return fmt.Errorf("NOTIFY_QUEUE_SIZE must be positive")
	}
	if c.SlotSweepInterval <= 0 {
		return fmt.Errorf("SLOT_SWEEP_INTERVAL must be positive")
	}
	if c.RateLimitRPS <= 0 || c.RateLimitBurst <= 0 {
		return fmt.Errorf("RATE_LIMIT_RPS and RATE_LIMIT_BURST must be positive")
	}
	return nil
}

// Location возвращает часовой пояс, в котором считаются дата и время слотов
func (c *Config) Location() *time.Location {
	loc, err := time.LoadLocation(c.Timezone)
	if err != nil {
		return time.UTC
	}
	return loc
}

func (c *Config) GetDBDSN() string {
	return c.DBDSN
}

// splitOrigins разбирает "a, b" из переменной окружения
func splitOrigins(values []string) []string {
	var out []string
	for _, v := range values {
		for _, part := range strings.Split(v, ",") {
			if part = strings.TrimSpace(part); part != "" {
				out = append(out, part)
			}
		}
	}
	if len(out) == 0 {
		return []string{"*"}
	}
	return out
}
