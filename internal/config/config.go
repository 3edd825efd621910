package config

import (
	"errors"
	"fmt"
	"log/slog"
	"net"
	"net/url"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

const defaultSessionSecret = "default-secret-key-change-me"

var (
	validDrivers       = map[string]bool{"sqlite": true, "mysql": true, "postgres": true}
	validSessionStores = map[string]bool{"cookie": true, "redis": true}
)

type Config struct {
	ServerPort     string
	GinMode        string
	LogLevel       string
	DB             DBConfig
	SessionStore   string
	RedisHost      string
	RedisPort      string
	SessionSecret  string
	TokenSecret    string
	TokenTTL       time.Duration
	RequestTimeout time.Duration
}

type DBConfig struct {
	Driver   string
	Path     string
	Host     string
	Port     string
	User     string
	Password string
	Name     string
	SSLMode  string
}

// DSN builds the driver-specific connection string.
func (d DBConfig) DSN() string {
	switch d.Driver {
	case "mysql":
		return fmt.Sprintf("%s:%s@tcp(%s)/%s?charset=utf8mb4&parseTime=True&loc=UTC",
			d.User,
			d.Password,
			net.JoinHostPort(d.Host, d.Port),
			d.Name,
		)
	case "postgres":
		u := &url.URL{
			Scheme:   "postgres",
			User:     url.UserPassword(d.User, d.Password),
			Host:     net.JoinHostPort(d.Host, d.Port),
			Path:     d.Name,
			RawQuery: fmt.Sprintf("sslmode=%s", url.QueryEscape(d.SSLMode)),
		}
		return u.String()
	default:
		return withSQLiteForeignKeys(d.Path)
	}
}

// withSQLiteForeignKeys turns on foreign key enforcement, which SQLite
// leaves off per connection.
func withSQLiteForeignKeys(path string) string {
	if strings.Contains(path, "_foreign_keys=") || strings.Contains(path, "_fk=") {
		return path
	}
	sep := "?"
	if strings.Contains(path, "?") {
		sep = "&"
	}
	return path + sep + "_foreign_keys=on"
}

func (c Config) ParseLogLevel() slog.Level {
	switch strings.ToLower(c.LogLevel) {
	case "debug":
		return slog.LevelDebug
	case "warn":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}

func (c Config) RedisAddr() string {
	return net.JoinHostPort(c.RedisHost, c.RedisPort)
}

func (c Config) IsProduction() bool {
	return c.GinMode == "release"
}

func (c Config) Validate() error {
	if _, err := strconv.Atoi(c.ServerPort); err != nil {
		return fmt.Errorf("invalid SERVER_PORT %q: %w", c.ServerPort, err)
	}
	if !validDrivers[c.DB.Driver] {
		return fmt.Errorf("invalid DB_DRIVER %q: must be one of sqlite, mysql, postgres", c.DB.Driver)
	}
	if !validSessionStores[c.SessionStore] {
		return fmt.Errorf("invalid SESSION_STORE %q: must be cookie or redis", c.SessionStore)
	}
	if c.TokenTTL <= 0 {
		return errors.New("TOKEN_TTL must be positive")
	}
	if c.RequestTimeout < 0 {
		return errors.New("REQUEST_TIMEOUT must not be negative")
	}
	if c.IsProduction() && c.SessionSecret == defaultSessionSecret {
		return errors.New("SESSION_SECRET must be set in release mode")
	}
	return nil
}

// Load reads configuration from the environment. A .env file in the working
// directory is applied first when present; configFile, if non-empty, is read
// on top of the defaults and below the environment.
func Load(configFile string) (*Config, error) {
	if err := godotenv.Load(); err != nil && !errors.Is(err, os.ErrNotExist) {
		return nil, fmt.Errorf("failed to load .env: %w", err)
	}

	v := viper.New()
	setDefaults(v)
	v.AutomaticEnv()

	if configFile != "" {
		v.SetConfigFile(configFile)
		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("failed to read config file %s: %w", configFile, err)
		}
	}

	sessionSecret := v.GetString("SESSION_SECRET")
	tokenSecret := v.GetString("TOKEN_SECRET")
	if tokenSecret == "" {
		tokenSecret = sessionSecret
	}

	return &Config{
		ServerPort: v.GetString("SERVER_PORT"),
		GinMode:    v.GetString("GIN_MODE"),
		LogLevel:   v.GetString("LOG_LEVEL"),
		DB: DBConfig{
			Driver:   strings.ToLower(v.GetString("DB_DRIVER")),
			Path:     v.GetString("DB_PATH"),
			Host:     v.GetString("DB_HOST"),
			Port:     v.GetString("DB_PORT"),
			User:     v.GetString("DB_USER"),
			Password: v.GetString("DB_PASSWORD"),
			Name:     v.GetString("DB_NAME"),
			SSLMode:  v.GetString("DB_SSLMODE"),
		},
		SessionStore:   strings.ToLower(v.GetString("SESSION_STORE")),
		RedisHost:      v.GetString("REDIS_HOST"),
		RedisPort:      v.GetString("REDIS_PORT"),
		SessionSecret:  sessionSecret,
		TokenSecret:    tokenSecret,
		TokenTTL:       v.GetDuration("TOKEN_TTL"),
		RequestTimeout: v.GetDuration("REQUEST_TIMEOUT"),
	}, nil
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("SERVER_PORT", "8080")
	v.SetDefault("GIN_MODE", "debug")
	v.SetDefault("LOG_LEVEL", "info")
	v.SetDefault("DB_DRIVER", "sqlite")
	v.SetDefault("DB_PATH", "tasks.db")
	v.SetDefault("DB_HOST", "localhost")
	v.SetDefault("DB_PORT", "3306")
	v.SetDefault("DB_USER", "taskuser")
	v.SetDefault("DB_PASSWORD", "taskpassword")
	v.SetDefault("DB_NAME", "task_management")
	v.SetDefault("DB_SSLMODE", "disable")
	v.SetDefault("SESSION_STORE", "cookie")
	v.SetDefault("REDIS_HOST", "localhost")
	v.SetDefault("REDIS_PORT", "6379")
	v.SetDefault("SESSION_SECRET", defaultSessionSecret)
	v.SetDefault("TOKEN_SECRET", "")
	v.SetDefault("TOKEN_TTL", "24h")
	v.SetDefault("REQUEST_TIMEOUT", "10s")
}
