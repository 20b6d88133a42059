package config

import (
	"fmt"
	"log"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

type Config struct {
	TelegramToken    string
	DBDSN            string
	Environment      string
	LogLevel         string
	Timezone         string
	AdminTelegramIDs []int64

	StoreTimeout     time.Duration
	ReadRetries      uint64
	ReminderLead     time.Duration
	ReminderInterval time.Duration
}

// Load загружает конфигурацию из .env и переменных окружения
func Load() (*Config, error) {
	// Пытаемся загрузить .env файл (игнорируем ошибку, если файла нет)
	if err := godotenv.Load(".env"); err != nil {
		log.Println("⚠️  No .env file found, using environment variables")
	} else {
		log.Println("✅ Loaded configuration from .env file")
	}

	return FromEnv(os.Getenv)
}

// FromEnv собирает конфигурацию из функции чтения переменных
func FromEnv(getenv func(string) string) (*Config, error) {
	cfg := &Config{
		DBDSN:         getenv("DB_DSN"),
		TelegramToken: getenv("TELEGRAM_TOKEN"),
		Environment:   getenv("ENV"),
		LogLevel:      getenv("LOG_LEVEL"),
		Timezone:      getenv("TIMEZONE"),
	}

	// Устанавливаем дефолтные значения
	if cfg.Environment == "" {
		cfg.Environment = "development"
	}
	if cfg.Timezone == "" {
		cfg.Timezone = "Asia/Riyadh"
	}

	// Проверяем обязательные поля
	if cfg.DBDSN == "" {
		return nil, fmt.Errorf("DB_DSN is required but not set")
	}
	if cfg.TelegramToken == "" {
		return nil, fmt.Errorf("TELEGRAM_TOKEN is required but not set")
	}

	var err error
	if cfg.StoreTimeout, err = durationVar(getenv, "STORE_TIMEOUT", 5*time.Second); err != nil {
		return nil, err
	}
	if cfg.ReminderLead, err = durationVar(getenv, "REMINDER_LEAD", time.Hour); err != nil {
		return nil, err
	}
	if cfg.ReminderInterval, err = durationVar(getenv, "REMINDER_INTERVAL", 5*time.Minute); err != nil {
		return nil, err
	}

	cfg.ReadRetries = 3
	if raw := getenv("READ_RETRIES"); raw != "" {
		cfg.ReadRetries, err = strconv.ParseUint(raw, 10, 32)
		if err != nil {
			return nil, fmt.Errorf("READ_RETRIES: %w", err)
		}
	}

	if cfg.AdminTelegramIDs, err = parseIDs(getenv("ADMIN_TELEGRAM_IDS")); err != nil {
		return nil, fmt.Errorf("ADMIN_TELEGRAM_IDS: %w", err)
	}

	return cfg, nil
}

// Location часовой пояс для отображения времени уроков
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

func durationVar(getenv func(string) string, key string, def time.Duration) (time.Duration, error) {
	raw := getenv(key)
	if raw == "" {
		return def, nil
	}

	d, err := time.ParseDuration(raw)
	if err != nil {
		return 0, fmt.Errorf("%s: %w", key, err)
	}
	if d <= 0 {
		return 0, fmt.Errorf("%s must be positive", key)
	}
	return d, nil
}

func parseIDs(raw string) ([]int64, error) {
	var ids []int64
	for _, part := range strings.Split(raw, ",") {
		part = strings.TrimSpace(part)
		if part == "" {
			continue
		}
		id, err := strconv.ParseInt(part, 10, 64)
		if err != nil {
			return nil, err
		}
		ids = append(ids, id)
	}
	return ids, nil
}
