// Package config loads settings from the environment and an optional .env file.
package config

import (
	"fmt"
	"log/slog"
	"time"

	"github.com/joho/godotenv"
)

type Config struct {
	Server    ServerConfig
	SSH       SSHConfig
	Scores    ScoresConfig
	RateLimit RateLimitConfig
	CORS      CORSConfig
	Logging   LoggingConfig
	Game      GameConfig
}

type ServerConfig struct {
	Host         string
	Port         string
	ReadTimeout  time.Duration
	WriteTimeout time.Duration
	IdleTimeout  time.Duration
	// SSHDisplayHost is shown on the landing page's connect instructions.
	SSHDisplayHost string
}

type SSHConfig struct {
	Host        string
	Port        string
	HostKeyPath string
}

type ScoresConfig struct {
	// Store is "memory" or "sqlite".
	Store      string
	SQLitePath string
	// URL of a remote score server. Game binaries use it instead of an
	// in-process store when set.
	URL           string
	ClientTimeout time.Duration
}

type RateLimitConfig struct {
	Enabled           bool
	RequestsPerSecond float64
	BurstSize         int
	TrustProxy        bool
}

type CORSConfig struct {
	AllowedOrigins []string
	Debug          bool
}

type LoggingConfig struct {
	Level      string
	JSONFormat bool
	// File receives log output instead of stderr when set.
	File string
}

type GameConfig struct {
	Width           int
	Height          int
	InitialLives    int
	FrameDeltaInput bool
	// AssetsDir holds sprite overrides. Empty uses the embedded sprites.
	AssetsDir string
}

const (
	StoreMemory = "memory"
	StoreSQLite = "sqlite"
)

// Load reads .env when present, then the environment, and validates the result.
func Load() (*Config, error) {
	if err := godotenv.Load(); err != nil {
		slog.Debug("No .env file found, using system environment variables")
	}

	cfg := &Config{
		Server:    loadServerConfig(),
		SSH:       loadSSHConfig(),
		Scores:    loadScoresConfig(),
		RateLimit: loadRateLimitConfig(),
		CORS:      loadCORSConfig(),
		Logging:   loadLoggingConfig(),
		Game:      loadGameConfig(),
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}
	return cfg, nil
}

func loadServerConfig() ServerConfig {
	return ServerConfig{
		Host:           GetEnv("WEB_HOST", "0.0.0.0"),
		Port:           GetEnv("WEB_PORT", "8080"),
		ReadTimeout:    getEnvDuration("SERVER_READ_TIMEOUT", 15*time.Second),
		WriteTimeout:   getEnvDuration("SERVER_WRITE_TIMEOUT", 15*time.Second),
		IdleTimeout:    getEnvDuration("SERVER_IDLE_TIMEOUT", 60*time.Second),
		SSHDisplayHost: GetEnv("SSH_DISPLAY_HOST", "your-server.com"),
	}
}

func loadSSHConfig() SSHConfig {
	return SSHConfig{
		Host:        GetEnv("SSH_HOST", "::"),
		Port:        GetEnv("SSH_PORT", "2222"),
		HostKeyPath: GetEnv("SSH_HOST_KEY", "/app/keys/host_key"),
	}
}

func loadScoresConfig() ScoresConfig {
	return ScoresConfig{
		Store:         GetEnv("SCORES_STORE", StoreMemory),
		SQLitePath:    GetEnv("SCORES_SQLITE_PATH", "scores.db"),
		URL:           GetEnv("SCORES_URL", ""),
		ClientTimeout: getEnvDuration("SCORES_CLIENT_TIMEOUT", 5*time.Second),
	}
}

func loadRateLimitConfig() RateLimitConfig {
	return RateLimitConfig{
		Enabled:           getEnvBool("RATE_LIMIT_ENABLED", false),
		RequestsPerSecond: getEnvFloat("RATE_LIMIT_REQUESTS_PER_SECOND", 10),
		BurstSize:         getEnvInt("RATE_LIMIT_BURST_SIZE", 20),
		TrustProxy:        getEnvBool("RATE_LIMIT_TRUST_PROXY", false),
	}
}

func loadCORSConfig() CORSConfig {
	return CORSConfig{
		AllowedOrigins: getEnvList("CORS_ALLOWED_ORIGINS", []string{"*"}),
		Debug:          getEnvBool("CORS_DEBUG", false),
	}
}

func loadLoggingConfig() LoggingConfig {
	return LoggingConfig{
		Level:      GetEnv("LOG_LEVEL", "info"),
		JSONFormat: GetEnv("LOG_FORMAT", "text") == "json",
		File:       GetEnv("LOG_FILE", ""),
	}
}

func loadGameConfig() GameConfig {
	return GameConfig{
		Width:           getEnvInt("GAME_WIDTH", 800),
		Height:          getEnvInt("GAME_HEIGHT", 600),
		InitialLives:    getEnvInt("GAME_INITIAL_LIVES", 1),
		FrameDeltaInput: getEnvBool("GAME_FRAME_DELTA_INPUT", false),
		AssetsDir:       GetEnv("ASSETS_DIR", ""),
	}
}

// Validate rejects settings no component can run with.
func (c *Config) Validate() error {
	if c.Game.Width <= 0 || c.Game.Height <= 0 {
		return fmt.Errorf("GAME_WIDTH and GAME_HEIGHT must be positive, got %dx%d", c.Game.Width, c.Game.Height)
	}
	if c.Game.InitialLives < 1 {
		return fmt.Errorf("GAME_INITIAL_LIVES must be at least 1, got %d", c.Game.InitialLives)
	}

	switch c.Scores.Store {
	case StoreMemory:
	case StoreSQLite:
		if c.Scores.SQLitePath == "" {
			return fmt.Errorf("SCORES_SQLITE_PATH is required for the sqlite store")
		}
	default:
		return fmt.Errorf("unknown SCORES_STORE %q", c.Scores.Store)
	}

	if c.RateLimit.Enabled && (c.RateLimit.RequestsPerSecond <= 0 || c.RateLimit.BurstSize <= 0) {
		return fmt.Errorf("rate limit needs positive RATE_LIMIT_REQUESTS_PER_SECOND and RATE_LIMIT_BURST_SIZE")
	}

	if c.Server.Port == "" {
		return fmt.Errorf("WEB_PORT is required")
	}
	return nil
}
