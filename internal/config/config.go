// internal/config/config.go
package config

import (
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"net/url"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

// Storage выбор реализации хранилища.
type Storage string

const (
	StorageMemory   Storage = "memory"
	StoragePostgres Storage = "postgres"
	StorageSQLite   Storage = "sqlite"
)

// DefaultSQLitePath файл базы для FILMORATE_STORAGE=sqlite без FILMORATE_DATABASE_URL.
const DefaultSQLitePath = "filmorate.db"

// Config настройки приложения из окружения.
type Config struct {
	HTTPPort string
	GRPCPort string

	Storage     Storage
	DatabaseURL string

	LogLevel slog.Level

	// Ограничение запросов с одного IP, RateLimitRPS <= 0 отключает его.
	RateLimitRPS   float64
	RateLimitBurst int

	ShutdownTimeout time.Duration
}

// Load читает необязательные .env файлы (по умолчанию ./.env), затем переменные
// окружения FILMORATE_*. Уже заданные переменные окружения .env не перекрывает.
func Load(envFiles ...string) (*Config, error) {
	if err := godotenv.Load(envFiles...); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return nil, fmt.Errorf("failed to load env file: %w", err)
	}

	p := &parser{}
	cfg := &Config{
		HTTPPort:        p.port("FILMORATE_HTTP_PORT", "8080"),
		GRPCPort:        p.port("FILMORATE_GRPC_PORT", "9090"),
		Storage:         p.storage("FILMORATE_STORAGE", StorageMemory),
		DatabaseURL:     getEnv("FILMORATE_DATABASE_URL", ""),
		LogLevel:        p.logLevel("FILMORATE_LOG_LEVEL", slog.LevelInfo),
		RateLimitRPS:    p.float("FILMORATE_RATE_LIMIT_RPS", 20),
		RateLimitBurst:  p.int("FILMORATE_RATE_LIMIT_BURST", 40),
		ShutdownTimeout: p.duration("FILMORATE_SHUTDOWN_TIMEOUT", 10*time.Second),
	}
	if err := errors.Join(p.errs...); err != nil {
		return nil, err
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Validate проверяет согласованность настроек и подставляет путь SQLite по умолчанию.
func (c *Config) Validate() error {
	switch c.Storage {
	case StoragePostgres:
		if c.DatabaseURL == "" {
			return errors.New("FILMORATE_DATABASE_URL is required for postgres storage")
		}
	case StorageSQLite:
		if c.DatabaseURL == "" {
			c.DatabaseURL = DefaultSQLitePath
		}
	}
	if c.RateLimitRPS > 0 && c.RateLimitBurst <= 0 {
		return errors.New("FILMORATE_RATE_LIMIT_BURST must be positive when rate limiting is enabled")
	}
	if c.ShutdownTimeout <= 0 {
		return errors.New("FILMORATE_SHUTDOWN_TIMEOUT must be positive")
	}
	return nil
}

// MaskedDatabaseURL возвращает строку подключения без пароля, пригодную для логов.
func (c *Config) MaskedDatabaseURL() string {
	u, err := url.Parse(c.DatabaseURL)
	if err != nil {
		return "********"
	}
	return u.Redacted()
}

func getEnv(key, defaultVal string) string {
	if val := strings.TrimSpace(os.Getenv(key)); val != "" {
		return val
	}
	return defaultVal
}

// parser накапливает ошибки разбора, чтобы сообщить обо всех сразу.
type parser struct {
	errs []error
}

func (p *parser) fail(key, val, want string) {
	p.errs = append(p.errs, fmt.Errorf("%s=%q: expected %s", key, val, want))
}

func (p *parser) port(key, defaultVal string) string {
	val := getEnv(key, defaultVal)
	n, err := strconv.Atoi(val)
	if err != nil || n < 1 || n > 65535 {
		p.fail(key, val, "a TCP port (1-65535)")
	}
	return val
}

func (p *parser) storage(key string, defaultVal Storage) Storage {
	val := Storage(strings.ToLower(getEnv(key, string(defaultVal))))
	switch val {
	case StorageMemory, StoragePostgres, StorageSQLite:
		return val
	}
	p.fail(key, string(val), "one of memory, postgres, sqlite")
	return defaultVal
}

func (p *parser) logLevel(key string, defaultVal slog.Level) slog.Level {
	val := getEnv(key, "")
	if val == "" {
		return defaultVal
	}
	var level slog.Level
	if err := level.UnmarshalText([]byte(val)); err != nil {
		p.fail(key, val, "one of debug, info, warn, error")
		return defaultVal
	}
	return level
}

func (p *parser) float(key string, defaultVal float64) float64 {
	val := getEnv(key, "")
	if val == "" {
		return defaultVal
	}
	f, err := strconv.ParseFloat(val, 64)
	if err != nil {
		p.fail(key, val, "a number")
		return defaultVal
	}
	return f
}

func (p *parser) int(key string, defaultVal int) int {
	val := getEnv(key, "")
	if val == "" {
		return defaultVal
	}
	i, err := strconv.Atoi(val)
	if err != nil {
		p.fail(key, val, "an integer")
		return defaultVal
	}
	return i
}

func (p *parser) duration(key string, defaultVal time.Duration) time.Duration {
	val := getEnv(key, "")
	if val == "" {
		return defaultVal
	}
	d, err := time.ParseDuration(val)
	if err != nil {
		p.fail(key, val, "a duration such as 10s")
		return defaultVal
	}
	return d
}
