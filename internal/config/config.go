// Package config содержит загрузку и валидацию конфигурации.
package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"

	"spordle/internal/model"
)

// minSnippet - нижняя граница GAME_MIN_SNIPPET
const minSnippet = 100 * time.Millisecond

// Config представляет конфигурацию приложения
type Config struct {
	// Database
	DatabaseURL string

	// Spotify
	SpotifyClientID     string
	SpotifyClientSecret string
	SpotifyRedirectURI  string
	SpotifyConfig       SpotifyConfig

	// HTTP
	HTTPPort string

	// Health
	HealthPort         string
	HealthCheckEnabled bool

	// Logging
	LogLevel  string
	LogFormat string
	LogPath   string

	// App Data Directory
	AppDataDir string

	// Session
	SessionConfig SessionConfig

	// Rate limit
	RateLimitConfig RateLimitConfig

	// Game
	GameConfig GameConfig
}

// SpotifyConfig представляет параметры запросов к Spotify API
type SpotifyConfig struct {
	RequestTimeout time.Duration
	RetryConfig    RetryConfig
}

// RetryConfig представляет конфигурацию retry механизма
type RetryConfig struct {
	MaxRetries        int
	InitialDelay      time.Duration
	MaxDelay          time.Duration
	BackoffMultiplier float64
}

// SessionConfig представляет параметры игровых сессий
type SessionConfig struct {
	CookieName      string
	TTL             time.Duration
	SecureCookie    bool
	CleanupInterval time.Duration
}

// RateLimitConfig представляет параметры ограничения частоты запросов
type RateLimitConfig struct {
	RequestsPerSecond float64
	Burst             int
}

// GameConfig представляет параметры игры
type GameConfig struct {
	JudgePolicy    string
	LongThreshold  int
	ShortThreshold int
	AllowSubstring string
	Eligibility    string
	TopWindow      string
	MinSnippet     time.Duration
	MaxSnippet     time.Duration
	DefaultSnippet time.Duration
}

// Load загружает конфигурацию из переменных окружения
func Load() (*Config, error) {
	// Загружаем .env файл если он существует
	_ = godotenv.Load()

	config := FromEnv()

	if err := config.Validate(); err != nil {
		return nil, fmt.Errorf("config validation failed: %w", err)
	}

	return config, nil
}

// FromEnv читает конфигурацию из окружения без валидации
func FromEnv() *Config {
	return &Config{
		DatabaseURL:         getEnv("DB_DSN", ""),
		SpotifyClientID:     getEnv("SPOTIFY_CLIENT_ID", ""),
		SpotifyClientSecret: getEnv("SPOTIFY_CLIENT_SECRET", ""),
		SpotifyRedirectURI:  getEnv("SPOTIFY_REDIRECT_URI", ""),
		SpotifyConfig: SpotifyConfig{
			RequestTimeout: getEnvDuration("SPOTIFY_REQUEST_TIMEOUT", 10*time.Second),
			RetryConfig: RetryConfig{
				MaxRetries:        getEnvInt("SPOTIFY_RETRY_MAX_RETRIES", 2),
				InitialDelay:      getEnvDuration("SPOTIFY_RETRY_INITIAL_DELAY", 500*time.Millisecond),
				MaxDelay:          getEnvDuration("SPOTIFY_RETRY_MAX_DELAY", 5*time.Second),
				BackoffMultiplier: getEnvFloat("SPOTIFY_RETRY_BACKOFF_MULTIPLIER", 2.0),
			},
		},
		HTTPPort:           getEnv("HTTP_PORT", "8000"),
		HealthPort:         getEnv("HEALTH_PORT", "8080"),
		HealthCheckEnabled: getEnvBool("HEALTH_CHECK_ENABLED", true),
		LogLevel:           getEnv("LOG_LEVEL", "info"),
		LogFormat:          getEnv("LOG_FORMAT", "json"),
		LogPath:            getEnv("LOG_PATH", ""),
		AppDataDir:         getEnv("APP_DATA_DIR", "./data"),
		SessionConfig: SessionConfig{
			CookieName:      getEnv("SESSION_COOKIE_NAME", "spordle_session"),
			TTL:             getEnvDuration("SESSION_TTL", 24*time.Hour),
			SecureCookie:    getEnvBool("SESSION_SECURE_COOKIE", false),
			CleanupInterval: getEnvDuration("SESSION_CLEANUP_INTERVAL", 10*time.Minute),
		},
		RateLimitConfig: RateLimitConfig{
			RequestsPerSecond: getEnvFloat("RATE_LIMIT_RPS", 5),
			Burst:             getEnvInt("RATE_LIMIT_BURST", 10),
		},
		GameConfig: GameConfig{
			JudgePolicy:    getEnv("GAME_JUDGE_POLICY", ""),
			LongThreshold:  getEnvInt("GAME_LONG_THRESHOLD", 0),
			ShortThreshold: getEnvInt("GAME_SHORT_THRESHOLD", 0),
			AllowSubstring: getEnv("GAME_ALLOW_SUBSTRING", ""),
			Eligibility:    getEnv("GAME_ELIGIBILITY", ""),
			TopWindow:      getEnv("GAME_TOP_WINDOW", ""),
			MinSnippet:     getEnvDuration("GAME_MIN_SNIPPET", time.Second),
			MaxSnippet:     getEnvDuration("GAME_MAX_SNIPPET", 30*time.Second),
			DefaultSnippet: getEnvDuration("GAME_DEFAULT_SNIPPET", 5*time.Second),
		},
	}
}

// GetAppDataDir возвращает директорию данных приложения
func (c *Config) GetAppDataDir() string {
	return c.AppDataDir
}

// Validate проверяет конфигурацию
func (c *Config) Validate() error {
	if c.DatabaseURL == "" {
		return errors.New("DB_DSN is required")
	}

	if c.SpotifyRedirectURI == "" {
		return errors.New("SPOTIFY_REDIRECT_URI is required")
	}

	if err := validatePort("HTTP_PORT", c.HTTPPort); err != nil {
		return err
	}

	if c.HealthCheckEnabled {
		if err := validatePort("HEALTH_PORT", c.HealthPort); err != nil {
			return err
		}
	}

	if c.SessionConfig.TTL <= 0 {
		return errors.New("SESSION_TTL must be positive")
	}

	if c.RateLimitConfig.RequestsPerSecond <= 0 || c.RateLimitConfig.Burst <= 0 {
		return errors.New("RATE_LIMIT_RPS and RATE_LIMIT_BURST must be positive")
	}

	g := c.GameConfig
	var errs model.ValidationErrors
	errs.Add(model.ValidateDurationRange("GAME_MIN_SNIPPET", g.MinSnippet, minSnippet, g.MaxSnippet))
	errs.Add(model.ValidateDurationRange("GAME_DEFAULT_SNIPPET", g.DefaultSnippet, g.MinSnippet, g.MaxSnippet))

	return errs.Err()
}

// ValidateSpotify проверяет наличие учетных данных Spotify после загрузки из базы
func (c *Config) ValidateSpotify() error {
	var errs model.ValidationErrors
	errs.Add(model.ValidateRequired("SPOTIFY_CLIENT_ID", c.SpotifyClientID))
	errs.Add(model.ValidateRequired("SPOTIFY_CLIENT_SECRET", c.SpotifyClientSecret))

	return errs.Err()
}

func validatePort(name, value string) error {
	port, err := strconv.Atoi(value)
	if err != nil || port <= 0 || port > 65535 {
		return fmt.Errorf("%s must be a valid port, got %q", name, value)
	}
	return nil
}

// getEnv получает переменную окружения с значением по умолчанию
func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

// getEnvInt получает переменную окружения как int
func getEnvInt(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if intValue, err := strconv.Atoi(value); err == nil {
			return intValue
		}
	}
	return defaultValue
}

// getEnvDuration получает переменную окружения как time.Duration
func getEnvDuration(key string, defaultValue time.Duration) time.Duration {
	if value := os.Getenv(key); value != "" {
		if duration, err := time.ParseDuration(value); err == nil {
			return duration
		}
	}
	return defaultValue
}

// getEnvBool получает переменную окружения как bool
func getEnvBool(key string, defaultValue bool) bool {
	if value := os.Getenv(key); value != "" {
		if boolValue, err := strconv.ParseBool(value); err == nil {
			return boolValue
		}
	}
	return defaultValue
}

// getEnvFloat получает переменную окружения как float64
func getEnvFloat(key string, defaultValue float64) float64 {
	if value := os.Getenv(key); value != "" {
		if floatValue, err := strconv.ParseFloat(value, 64); err == nil {
			return floatValue
		}
	}
	return defaultValue
}
