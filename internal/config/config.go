package config

import (
	"errors"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/BurntSushi/toml"
)

const (
	DriverPostgres = "postgres"
	DriverMemory   = "memory"
)

// ErrInvalidConfig возвращается, когда конфигурация не проходит валидацию
var ErrInvalidConfig = errors.New("config: invalid configuration")

// Config корневая конфигурация сервиса
type Config struct {
	Server        ServerConfig        `toml:"server"`
	Database      DatabaseConfig      `toml:"database"`
	Logs          LogsConfig          `toml:"logs"`
	Metrics       MetricsConfig       `toml:"metrics"`
	Redis         RedisConfig         `toml:"redis"`
	Kafka         KafkaConfig         `toml:"kafka"`
	TenantService TenantServiceConfig `toml:"tenant_service"`
	Booking       BookingConfig       `toml:"booking"`
	RateLimit     RateLimitConfig     `toml:"rate_limit"`
	Internal      InternalConfig      `toml:"internal"`
	Reaper        ReaperConfig        `toml:"reaper"`
}

type ServerConfig struct {
	HTTPPort        int `toml:"http_port"`
	ReadTimeout     int `toml:"read_timeout"`     // секунды
	WriteTimeout    int `toml:"write_timeout"`    // секунды
	IdleTimeout     int `toml:"idle_timeout"`     // секунды
	ShutdownTimeout int `toml:"shutdown_timeout"` // секунды
}

type DatabaseConfig struct {
	Driver          string `toml:"driver"` // postgres | memory
	Host            string `toml:"host"`
	Port            int    `toml:"port"`
	User            string `toml:"user"`
	Password        string `toml:"password"`
	DBName          string `toml:"dbname"`
	SSLMode         string `toml:"sslmode"`
	MaxOpenConns    int    `toml:"max_open_conns"`
	MaxIdleConns    int    `toml:"max_idle_conns"`
	ConnMaxLifetime int    `toml:"conn_max_lifetime"` // секунды
}

// DSN строка подключения для lib/pq
func (c DatabaseConfig) DSN() string {
	return fmt.Sprintf("host=%s port=%d user=%s password=%s dbname=%s sslmode=%s",
		c.Host, c.Port, c.User, c.Password, c.DBName, c.SSLMode)
}

type LogsConfig struct {
	File  string `toml:"file"`
	Level string `toml:"level"`
}

type MetricsConfig struct {
	Enabled     bool   `toml:"enabled"`
	ServiceName string `toml:"service_name"`
	Path        string `toml:"path"`
}

// RedisConfig распределенная блокировка резервирования
// Пустой addr означает блокировку внутри процесса
type RedisConfig struct {
	Addr     string `toml:"addr"`
	Password string `toml:"password"`
	DB       int    `toml:"db"`
	Prefix   string `toml:"prefix"`
}

// Enabled сообщает, настроен ли Redis
func (c RedisConfig) Enabled() bool {
	return c.Addr != ""
}

// KafkaConfig публикация доменных событий
// Пустой список брокеров означает запись событий в лог
type KafkaConfig struct {
	Brokers      []string `toml:"brokers"`
	TopicPrefix  string   `toml:"topic_prefix"`
	QueueSize    int      `toml:"queue_size"`
	WriteTimeout int      `toml:"write_timeout"` // секунды
}

// Enabled сообщает, настроена ли Kafka
func (c KafkaConfig) Enabled() bool {
	return len(c.Brokers) > 0
}

// TenantServiceConfig справочник тенантов и типов сессий
// Пустой url допустим только с driver = "memory"
type TenantServiceConfig struct {
	URL     string `toml:"url"`
	Timeout int    `toml:"timeout"` // секунды
}

type BookingConfig struct {
	SlotStepMinutes         int  `toml:"slot_step_minutes"`
	MaxSessionMinutes       int  `toml:"max_session_minutes"`
	MaxAdvanceDays          int  `toml:"max_advance_days"` // 0 - без ограничения
	LockTTLSeconds          int  `toml:"lock_ttl_seconds"`
	LockWaitSeconds         int  `toml:"lock_wait_seconds"`
	AutoConfirmFreeSessions bool `toml:"auto_confirm_free_sessions"`
	PendingTTLMinutes       int  `toml:"pending_ttl_minutes"`
}

// SlotStep шаг сетки слотов
func (c BookingConfig) SlotStep() time.Duration {
	return time.Duration(c.SlotStepMinutes) * time.Minute
}

// LockTTL время жизни ключа блокировки в Redis
func (c BookingConfig) LockTTL() time.Duration {
	return time.Duration(c.LockTTLSeconds) * time.Second
}

// LockWait сколько запрос резервирования ждет блокировку
func (c BookingConfig) LockWait() time.Duration {
	return time.Duration(c.LockWaitSeconds) * time.Second
}

type RateLimitConfig struct {
	Enabled bool    `toml:"enabled"`
	RPS     float64 `toml:"rps"`
	Burst   int     `toml:"burst"`
}

// InternalConfig доступ к /internal маршрутам (платежные колбэки, reaper)
type InternalConfig struct {
	Token string `toml:"token"`
}

// ReaperConfig расписание cmd/reaper
type ReaperConfig struct {
	BaseURL  string `toml:"base_url"`
	Schedule string `toml:"schedule"` // cron выражение
	Limit    int    `toml:"limit"`
	Timeout  int    `toml:"timeout"` // секунды
}

// Load читает TOML файл, применяет значения по умолчанию и переменные окружения и валидирует результат
func Load(path string) (*Config, error) {
	cfg := Default()

	if _, err := toml.DecodeFile(path, cfg); err != nil {
		return nil, fmt.Errorf("config: decode %s: %w", path, err)
	}

	cfg.applyEnv()

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}

// Default конфигурация по умолчанию; значения из файла перекрывают ее
func Default() *Config {
	return &Config{
		Server: ServerConfig{
			HTTPPort:        8080,
			ReadTimeout:     10,
			WriteTimeout:    10,
			IdleTimeout:     60,
			ShutdownTimeout: 15,
		},
		Database: DatabaseConfig{
			Driver:          DriverPostgres,
			Host:            "localhost",
			Port:            5432,
			User:            "postgres",
			DBName:          "booking_engine",
			SSLMode:         "disable",
			MaxOpenConns:    25,
			MaxIdleConns:    5,
			ConnMaxLifetime: 300,
		},
		Logs: LogsConfig{
			Level: "info",
		},
		Metrics: MetricsConfig{
			ServiceName: "booking-engine",
			Path:        "/metrics",
		},
		Redis: RedisConfig{
			Prefix: "booking-engine:lock",
		},
		Kafka: KafkaConfig{
			TopicPrefix:  "booking-engine",
			QueueSize:    1024,
			WriteTimeout: 5,
		},
		TenantService: TenantServiceConfig{
			Timeout: 5,
		},
		Booking: BookingConfig{
			SlotStepMinutes:   30,
			MaxSessionMinutes: 480,
			LockTTLSeconds:    10,
			LockWaitSeconds:   5,
			PendingTTLMinutes: 30,
		},
		RateLimit: RateLimitConfig{
			RPS:   20,
			Burst: 40,
		},
		Reaper: ReaperConfig{
			BaseURL:  "http://localhost:8080",
			Schedule: "@every 1m",
			Limit:    500,
			Timeout:  30,
		},
	}
}

// applyEnv секреты можно не хранить в файле
func (c *Config) applyEnv() {
	if v := os.Getenv("DB_PASSWORD"); v != "" {
		c.Database.Password = v
	}
	if v := os.Getenv("REDIS_PASSWORD"); v != "" {
		c.Redis.Password = v
	}
	if v := os.Getenv("INTERNAL_TOKEN"); v != "" {
		c.Internal.Token = v
	}
}

// Validate проверяет согласованность конфигурации
func (c *Config) Validate() error {
	var problems []string

	if c.Server.HTTPPort < 1 || c.Server.HTTPPort > 65535 {
		problems = append(problems, fmt.Sprintf("server.http_port must be in 1..65535, got %d", c.Server.HTTPPort))
	}

	switch c.Database.Driver {
	case DriverPostgres:
		if c.Database.Host == "" || c.Database.DBName == "" {
			problems = append(problems, "database.host and database.dbname are required for postgres")
		}
		if c.TenantService.URL == "" {
			problems = append(problems, "tenant_service.url is required for postgres")
		}
	case DriverMemory:
	default:
		problems = append(problems, fmt.Sprintf("database.driver must be %q or %q, got %q",
			DriverPostgres, DriverMemory, c.Database.Driver))
	}

	if c.Booking.SlotStepMinutes <= 0 {
		problems = append(problems, "booking.slot_step_minutes must be positive")
	}
	if c.Booking.MaxSessionMinutes <= 0 {
		problems = append(problems, "booking.max_session_minutes must be positive")
	}
	if c.Booking.MaxAdvanceDays < 0 {
		problems = append(problems, "booking.max_advance_days must not be negative")
	}
	if c.Booking.LockTTLSeconds <= 0 || c.Booking.LockWaitSeconds <= 0 {
		problems = append(problems, "booking.lock_ttl_seconds and booking.lock_wait_seconds must be positive")
	}
	if c.Booking.PendingTTLMinutes <= 0 {
		problems = append(problems, "booking.pending_ttl_minutes must be positive")
	}

	if c.RateLimit.Enabled && (c.RateLimit.RPS <= 0 || c.RateLimit.Burst <= 0) {
		problems = append(problems, "rate_limit.rps and rate_limit.burst must be positive when enabled")
	}

	if len(problems) > 0 {
		return fmt.Errorf("%w: %s", ErrInvalidConfig, strings.Join(problems, "; "))
	}
	return nil
}
