package config

import (
	"fmt"
	"net/url"
	"regexp"
	"slices"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/caarlos0/env/v11"
)

// Config holds application configuration
type Config struct {
	// Server configuration
	Server ServerConfig `json:"server"`

	// Logging configuration
	Logging LoggingConfig `json:"logging"`

	// Application configuration
	App AppConfig `json:"app"`

	// Database configuration
	Database DatabaseConfig `json:"database"`

	// Realtime change feed configuration
	Realtime RealtimeConfig `json:"realtime"`

	// Websocket heartbeat configuration
	Heartbeat WebsocketHeartbeatConfig `json:"heartbeat"`

	// Janitor configuration
	Janitor JanitorConfig `json:"janitor"`

	// Google OAuth configuration for presenters
	OAuth OAuthConfig `json:"google_oauth"`
}

// ServerConfig holds server-specific configuration
type ServerConfig struct {
	Host         string        `json:"host" env:"SERVER_HOST" envDefault:"localhost"`
	Port         string        `json:"port" env:"SERVER_PORT" envDefault:"8080"`
	PublicURL    string        `json:"public_url" env:"PUBLIC_URL"` // base of the student join links, derived from host/port when empty
	APIKey       string        `json:"-" env:"PUBLIC_API_KEY"`      // required on /api and /realtime when set
	ReadTimeout  time.Duration `json:"read_timeout" env:"SERVER_READ_TIMEOUT" envDefault:"15s"`
	WriteTimeout time.Duration `json:"write_timeout" env:"SERVER_WRITE_TIMEOUT" envDefault:"15s"`
	IdleTimeout  time.Duration `json:"idle_timeout" env:"SERVER_IDLE_TIMEOUT" envDefault:"60s"`
}

// LoggingConfig holds logging-specific configuration
type LoggingConfig struct {
	Level string `json:"level" env:"LOG_LEVEL" envDefault:"info"`
}

// AppConfig holds application-specific configuration
type AppConfig struct {
	Name        string `json:"name" env:"APP_NAME" envDefault:"methods-lab"`
	Version     string `json:"version" env:"APP_VERSION" envDefault:"1.0.0"`
	Environment string `json:"environment" env:"ENV" envDefault:"development"`
	Debug       bool   `json:"debug" env:"DEBUG" envDefault:"false"`
	Language    string `json:"language" env:"APP_LANGUAGE" envDefault:"en"`
}

// DatabaseConfig holds database-specific configuration
type DatabaseConfig struct {
	Path string `json:"path" env:"DATABASE_PATH" envDefault:"data/methods-lab.db"`
}

// RealtimeConfig holds change feed configuration
type RealtimeConfig struct {
	Buffer int `json:"buffer" env:"REALTIME_BUFFER" envDefault:"64"` // events queued per subscriber before dropping
}

// WebsocketHeartbeatConfig holds websocket heartbeat-specific configuration
type WebsocketHeartbeatConfig struct {
	CheckInterval time.Duration `json:"check_interval" env:"HEARTBEAT_CHECK_INTERVAL" envDefault:"2s"` // Interval at which heartbeat times are checked
	Delay         time.Duration `json:"delay" env:"HEARTBEAT_DELAY" envDefault:"30s"`                  // Time after last message before triggering first heartbeat
	Interval      time.Duration `json:"interval" env:"HEARTBEAT_INTERVAL" envDefault:"10s"`            // Time between heartbeats
	KillDelay     time.Duration `json:"kill_delay" env:"HEARTBEAT_KILL_DELAY" envDefault:"60s"`        // Time after last message before killing connection
}

// JanitorConfig holds janitor-specific configuration
type JanitorConfig struct {
	ShortCleanInterval time.Duration `json:"short_clean_interval" env:"JANITOR_SHORT_CLEAN_INTERVAL" envDefault:"5m"`
	FullCleanInterval  time.Duration `json:"full_clean_interval" env:"JANITOR_FULL_CLEAN_INTERVAL" envDefault:"24h"`
	ExpireSessions     bool          `json:"expire_sessions" env:"JANITOR_EXPIRE_SESSIONS" envDefault:"false"` // end overdue sessions without a presenter
}

type OAuthConfig struct {
	ClientId        string        `json:"client_id" env:"GOOGLE_CLIENT_ID"` // presenter login is disabled when empty
	ClientSecret    string        `json:"-" env:"GOOGLE_CLIENT_SECRET"`
	SessionDuration time.Duration `json:"session_duration" env:"AUTH_SESSION_DURATION" envDefault:"24h"` // for how long is an authenticated session valid
}

// Enabled reports whether presenter routes require a Google login
func (c OAuthConfig) Enabled() bool {
	return c.ClientId != ""
}

var (
	instance *Config
	once     sync.Once
	mu       sync.RWMutex
)

// Get returns the singleton configuration instance
func Get() *Config {
	mu.RLock()
	if instance != nil {
		defer mu.RUnlock()
		return instance
	}
	mu.RUnlock()

	once.Do(func() {
		mu.Lock()
		defer mu.Unlock()
		instance = loadConfig()
	})
	return instance
}

// loadConfig loads configuration from environment variables
func loadConfig() *Config {
	cfg, err := env.ParseAs[Config]()
	if err != nil {
		panic(fmt.Sprintf("Invalid configuration: %v", err))
	}

	if cfg.Server.PublicURL == "" {
		cfg.Server.PublicURL = "http://" + cfg.GetServerAddress()
	}
	cfg.Server.PublicURL = strings.TrimRight(cfg.Server.PublicURL, "/")

	if err := cfg.validate(); err != nil {
		panic(fmt.Sprintf("Invalid configuration: %v", err))
	}

	return &cfg
}

// validate validates the configuration
func (c *Config) validate() error {
	// Validate server port
	if port, err := strconv.Atoi(c.Server.Port); err != nil || port < 1 || port > 65535 {
		return fmt.Errorf("invalid server port: %s", c.Server.Port)
	}

	if u, err := url.Parse(c.Server.PublicURL); err != nil || u.Scheme == "" || u.Host == "" {
		return fmt.Errorf("invalid PUBLIC_URL: %s", c.Server.PublicURL)
	}

	// Validate environment
	validEnvs := []string{"development", "staging", "production"}
	if !slices.Contains(validEnvs, c.App.Environment) {
		return fmt.Errorf("invalid environment: %s (must be one of: %s)",
			c.App.Environment, strings.Join(validEnvs, ", "))
	}

	// Validate log level
	validLevels := []string{"debug", "info", "warn", "error"}
	if !slices.Contains(validLevels, strings.ToLower(c.Logging.Level)) {
		return fmt.Errorf("invalid log level: %s (must be one of: %s)",
			c.Logging.Level, strings.Join(validLevels, ", "))
	}

	if c.Database.Path == "" {
		return fmt.Errorf("DATABASE_PATH must not be empty")
	}
	if c.Realtime.Buffer < 1 {
		return fmt.Errorf("invalid REALTIME_BUFFER: %d", c.Realtime.Buffer)
	}

	// Validate OAuth info
	if c.OAuth.Enabled() {
		if ok, err := regexp.MatchString(`^\d{12}-[A-Za-z0-9_-]+\.apps\.googleusercontent\.com$`, c.OAuth.ClientId); !ok || err != nil {
			return fmt.Errorf("invalid GOOGLE_CLIENT_ID: %s", c.OAuth.ClientId)
		}
		if c.OAuth.ClientSecret != "" {
			if ok, err := regexp.MatchString(`^GOCSPX-[A-Za-z0-9_-]+$`, c.OAuth.ClientSecret); !ok || err != nil {
				return fmt.Errorf("invalid GOOGLE_CLIENT_SECRET")
			}
		}
	}

	return nil
}

// IsDevelopment returns true if the app is running in development mode
func (c *Config) IsDevelopment() bool {
	return c.App.Environment == "development"
}

// IsProduction returns true if the app is running in production mode
func (c *Config) IsProduction() bool {
	return c.App.Environment == "production"
}

// GetServerAddress returns the server address in the format "host:port"
func (c *Config) GetServerAddress() string {
	return fmt.Sprintf("%s:%s", c.Server.Host, c.Server.Port)
}

// JoinURL returns the link students open to join a group
func (c *Config) JoinURL(groupID string) string {
	return c.Server.PublicURL + "/group/" + groupID
}

// Reload reloads the configuration (useful for testing or after loading .env files)
func Reload() {
	mu.Lock()
	defer mu.Unlock()
	once = sync.Once{}
	instance = nil
}

// ForceReload forces an immediate reload of the configuration
func ForceReload() {
	mu.Lock()
	defer mu.Unlock()
	instance = loadConfig()
}
