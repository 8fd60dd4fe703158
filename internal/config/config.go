package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/BurntSushi/toml"
	"github.com/joho/godotenv"

	"github.com/m04kA/SMC-WorkshopService/internal/domain"
	"github.com/m04kA/SMC-WorkshopService/pkg/types"
)

// Config конфигурация сервиса
type Config struct {
	Server   ServerConfig   `toml:"server"`
	Database DatabaseConfig `toml:"database"`
	Logs     LogsConfig     `toml:"logs"`
	Metrics  MetricsConfig  `toml:"metrics"`
	Redis    RedisConfig    `toml:"redis"`
	Events   EventsConfig   `toml:"events"`
	Workshop WorkshopConfig `toml:"workshop"`
}

// ServerConfig настройки HTTP сервера (таймауты в секундах)
type ServerConfig struct {
	HTTPPort        int `toml:"http_port"`
	ReadTimeout     int `toml:"read_timeout"`
	WriteTimeout    int `toml:"write_timeout"`
	IdleTimeout     int `toml:"idle_timeout"`
	ShutdownTimeout int `toml:"shutdown_timeout"`
}

// DatabaseConfig настройки подключения к Postgres
type DatabaseConfig struct {
	Host            string `toml:"host"`
	Port            int    `toml:"port"`
	User            string `toml:"user"`
	Password        string `toml:"password"`
	DBName          string `toml:"dbname"`
	SSLMode         string `toml:"sslmode"`
	MaxOpenConns    int    `toml:"max_open_conns"`
	MaxIdleConns    int    `toml:"max_idle_conns"`
	ConnMaxLifetime int    `toml:"conn_max_lifetime"`
}

// DSN формирует строку подключения для lib/pq
func (d DatabaseConfig) DSN() string {
	sslMode := d.SSLMode
	if sslMode == "" {
		sslMode = "disable"
	}
	return fmt.Sprintf("host=%s port=%d user=%s password=%s dbname=%s sslmode=%s",
		d.Host, d.Port, d.User, d.Password, d.DBName, sslMode)
}

// LogsConfig настройки логирования
type LogsConfig struct {
	Level string `toml:"level"`
	File  string `toml:"file"`
}

// MetricsConfig настройки Prometheus
type MetricsConfig struct {
	Enabled     bool   `toml:"enabled"`
	Path        string `toml:"path"`
	ServiceName string `toml:"service_name"`
}

// RedisConfig настройки распределенной блокировки слотов
type RedisConfig struct {
	Enabled bool   `toml:"enabled"`
	URL     string `toml:"url"`
	LockTTL int    `toml:"lock_ttl"` // секунды
}

// EventsConfig настройки публикации событий в RabbitMQ
type EventsConfig struct {
	Enabled  bool   `toml:"enabled"`
	URL      string `toml:"url"`
	Exchange string `toml:"exchange"`
}

// WorkshopConfig рабочее расписание мастерской
type WorkshopConfig struct {
	Timezone         string `toml:"timezone"`
	OpenTime         string `toml:"open_time"`
	CloseTime        string `toml:"close_time"`
	SlotMinutes      int    `toml:"slot_minutes"`
	MinNoticeMinutes int    `toml:"min_notice_minutes"`
}

// Location возвращает часовой пояс мастерской (UTC, если не задан)
func (w WorkshopConfig) Location() (*time.Location, error) {
	if w.Timezone == "" {
		return time.UTC, nil
	}
	return time.LoadLocation(w.Timezone)
}

// Hours возвращает время открытия и закрытия мастерской
func (w WorkshopConfig) Hours() (types.TimeString, types.TimeString, error) {
	open, err := types.NewTimeStringFromString(w.OpenTime)
	if err != nil {
		return "", "", fmt.Errorf("workshop.open_time: %w", err)
	}
	closeAt, err := types.NewTimeStringFromString(w.CloseTime)
	if err != nil {
		return "", "", fmt.Errorf("workshop.close_time: %w", err)
	}
	return open, closeAt, nil
}

// Load читает конфиг из TOML файла, затем применяет переменные окружения (и .env, если есть)
func Load(path string) (*Config, error) {
	cfg := defaults()

	if _, err := toml.DecodeFile(path, cfg); err != nil {
		return nil, fmt.Errorf("failed to decode config file %s: %w", path, err)
	}

	_ = godotenv.Load()
	if err := applyEnv(cfg); err != nil {
		return nil, err
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}

func defaults() *Config {
	return &Config{
		Server: ServerConfig{
			HTTPPort:        8080,
			ReadTimeout:     15,
			WriteTimeout:    15,
			IdleTimeout:     60,
			ShutdownTimeout: 10,
		},
		Database: DatabaseConfig{
			Port:            5432,
			SSLMode:         "disable",
			MaxOpenConns:    25,
			MaxIdleConns:    5,
			ConnMaxLifetime: 300,
		},
		Logs: LogsConfig{
			Level: "info",
		},
		Metrics: MetricsConfig{
			Path:        "/metrics",
			ServiceName: "workshopservice",
		},
		Redis: RedisConfig{
			LockTTL: 5,
		},
		Workshop: WorkshopConfig{
			Timezone:         "UTC",
			OpenTime:         domain.DefaultOpenTime,
			CloseTime:        domain.DefaultCloseTime,
			SlotMinutes:      domain.DefaultSlotMinutes,
			MinNoticeMinutes: domain.DefaultMinNoticeMinutes,
		},
	}
}

// applyEnv переопределяет секреты и адреса из окружения
func applyEnv(cfg *Config) error {
	if v := os.Getenv("DB_HOST"); v != "" {
		cfg.Database.Host = v
	}
	if v := os.Getenv("DB_PORT"); v != "" {
		port, err := strconv.Atoi(v)
		if err != nil {
			return fmt.Errorf("invalid DB_PORT=%q: %w", v, err)
		}
		cfg.Database.Port = port
	}
	if v := os.Getenv("DB_USER"); v != "" {
		cfg.Database.User = v
	}
	if v := os.Getenv("DB_PASSWORD"); v != "" {
		cfg.Database.Password = v
	}
	if v := os.Getenv("DB_NAME"); v != "" {
		cfg.Database.DBName = v
	}
	if v := os.Getenv("REDIS_URL"); v != "" {
		cfg.Redis.URL = v
	}
	if v := os.Getenv("RABBITMQ_URL"); v != "" {
		cfg.Events.URL = v
	}
	return nil
}

// Validate проверяет обязательные поля и согласованность расписания
func (c *Config) Validate() error {
	if c.Server.HTTPPort <= 0 {
		return errors.New("server.http_port must be positive")
	}
	if c.Database.Host == "" {
		return errors.New("database.host is required")
	}
	if c.Database.DBName == "" {
		return errors.New("database.dbname is required")
	}
	if c.Database.Port <= 0 {
		return errors.New("database.port must be positive")
	}
	if c.Redis.Enabled && c.Redis.URL == "" {
		return errors.New("redis.url is required when redis is enabled")
	}
	if c.Events.Enabled && c.Events.URL == "" {
		return errors.New("events.url is required when events are enabled")
	}

	if _, err := c.Workshop.Location(); err != nil {
		return fmt.Errorf("workshop.timezone: %w", err)
	}

	open, closeAt, err := c.Workshop.Hours()
	if err != nil {
		return err
	}
	if !open.IsBefore(closeAt) {
		return errors.New("workshop.open_time must be before workshop.close_time")
	}
	if c.Workshop.SlotMinutes <= 0 {
		return errors.New("workshop.slot_minutes must be positive")
	}
	if c.Workshop.MinNoticeMinutes < 0 {
		return errors.New("workshop.min_notice_minutes must not be negative")
	}

	return nil
}
