package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"
	_ "time/tzdata"

	"github.com/joho/godotenv"
)

// Config holds all application configuration
type Config struct {
	Env       string
	Database  DatabaseConfig
	HTTP      HTTPConfig
	Scheduler SchedulerConfig
	Identity  IdentityConfig
	Game      GameConfig
}

// DatabaseConfig holds database connection settings
type DatabaseConfig struct {
	Host          string
	Port          string
	Name          string
	User          string
	Password      string
	SSLMode       string
	MigrationsDir string
}

// HTTPConfig holds API server settings
type HTTPConfig struct {
	Host            string
	Port            string
	ReadTimeout     time.Duration
	WriteTimeout    time.Duration
	ShutdownTimeout time.Duration
	RateLimitRPS    int
	RateLimitBurst  int
	AllowedOrigins  []string
	// TrustedProxies are CIDRs or IPs allowed to set X-Forwarded-For
	TrustedProxies []string
}

// SchedulerConfig controls the daily achievement sweep
type SchedulerConfig struct {
	Enabled  bool
	SweepAt  string
	Timezone string
}

// IdentityConfig holds the login code exchange settings
type IdentityConfig struct {
	AppID   string
	Secret  string
	BaseURL string
	Timeout time.Duration
}

// GameConfig holds progression settings
type GameConfig struct {
	WordFriendPrice int64
}

// Load reads configuration from environment variables
func Load() (*Config, error) {
	// Try to load .env file (ignore error if not exists)
	_ = godotenv.Load()

	cfg := &Config{
		Env: getEnv("APP_ENV", "prod"),
		Database: DatabaseConfig{
			Host:          getEnv("DB_HOST", "localhost"),
			Port:          getEnv("DB_PORT", "5432"),
			Name:          getEnv("DB_NAME", "wordfriend"),
			User:          getEnv("DB_USER", "wordfriend"),
			Password:      os.Getenv("DB_PASSWORD"),
			SSLMode:       getEnv("DB_SSLMODE", "disable"),
			MigrationsDir: getEnv("MIGRATIONS_DIR", "migrations"),
		},
		HTTP: HTTPConfig{
			Host:           getEnv("HTTP_HOST", "0.0.0.0"),
			Port:           getEnv("HTTP_PORT", "8080"),
			AllowedOrigins: []string{getEnv("CORS_ALLOWED_ORIGIN", "*")},
			TrustedProxies: getList("TRUSTED_PROXIES"),
		},
		Scheduler: SchedulerConfig{
			SweepAt:  getEnv("SWEEP_AT", "00:00"),
			Timezone: getEnv("SWEEP_TIMEZONE", "Asia/Shanghai"),
		},
		Identity: IdentityConfig{
			AppID:   os.Getenv("WECHAT_APP_ID"),
			Secret:  os.Getenv("WECHAT_APP_SECRET"),
			BaseURL: getEnv("WECHAT_BASE_URL", "https://api.weixin.qq.com"),
		},
	}

	var err error
	if cfg.HTTP.ReadTimeout, err = getDuration("HTTP_READ_TIMEOUT", 15*time.Second); err != nil {
		return nil, err
	}
	if cfg.HTTP.WriteTimeout, err = getDuration("HTTP_WRITE_TIMEOUT", 15*time.Second); err != nil {
		return nil, err
	}
	if cfg.HTTP.ShutdownTimeout, err = getDuration("HTTP_SHUTDOWN_TIMEOUT", 10*time.Second); err != nil {
		return nil, err
	}
	if cfg.HTTP.RateLimitRPS, err = getInt("RATE_LIMIT_RPS", 20); err != nil {
		return nil, err
	}
	if cfg.HTTP.RateLimitBurst, err = getInt("RATE_LIMIT_BURST", 40); err != nil {
		return nil, err
	}
	if cfg.Identity.Timeout, err = getDuration("WECHAT_TIMEOUT", 5*time.Second); err != nil {
		return nil, err
	}
	if cfg.Scheduler.Enabled, err = getBool("SWEEP_ENABLED", true); err != nil {
		return nil, err
	}
	price, err := getInt("WORD_FRIEND_PRICE", 100)
	if err != nil {
		return nil, err
	}
	cfg.Game.WordFriendPrice = int64(price)

	if err := cfg.validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}

func (c *Config) validate() error {
	if c.Database.Password == "" {
		return fmt.Errorf("DB_PASSWORD is required")
	}
	if c.Identity.AppID == "" || c.Identity.Secret == "" {
		return fmt.Errorf("WECHAT_APP_ID and WECHAT_APP_SECRET are required")
	}
	if c.Game.WordFriendPrice < 0 {
		return fmt.Errorf("WORD_FRIEND_PRICE must not be negative")
	}
	if c.HTTP.RateLimitRPS <= 0 || c.HTTP.RateLimitBurst <= 0 {
		return fmt.Errorf("RATE_LIMIT_RPS and RATE_LIMIT_BURST must be positive")
	}
	if _, err := time.Parse("15:04", c.Scheduler.SweepAt); err != nil {
		return fmt.Errorf("SWEEP_AT must be HH:MM: %w", err)
	}
	if _, err := time.LoadLocation(c.Scheduler.Timezone); err != nil {
		return fmt.Errorf("SWEEP_TIMEZONE: %w", err)
	}
	return nil
}

// DSN returns PostgreSQL connection string
func (c *Config) DSN() string {
	return fmt.Sprintf(
		"host=%s port=%s user=%s password=%s dbname=%s sslmode=%s",
		c.Database.Host,
		c.Database.Port,
		c.Database.User,
		c.Database.Password,
		c.Database.Name,
		c.Database.SSLMode,
	)
}

// Addr returns the HTTP listen address
func (c *Config) Addr() string {
	return c.HTTP.Host + ":" + c.HTTP.Port
}

// IsDev reports whether the service runs in development mode
func (c *Config) IsDev() bool {
	return c.Env == "dev"
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

// getList splits a comma separated variable, dropping blanks
func getList(key string) []string {
	var items []string
	for _, item := range strings.Split(os.Getenv(key), ",") {
		if item = strings.TrimSpace(item); item != "" {
			items = append(items, item)
		}
	}
	return items
}

func getInt(key string, defaultValue int) (int, error) {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue, nil
	}
	n, err := strconv.Atoi(value)
	if err != nil {
		return 0, fmt.Errorf("%s must be an integer: %w", key, err)
	}
	return n, nil
}

func getBool(key string, defaultValue bool) (bool, error) {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue, nil
	}
	b, err := strconv.ParseBool(value)
	if err != nil {
		return false, fmt.Errorf("%s must be a boolean: %w", key, err)
	}
	return b, nil
}

func getDuration(key string, defaultValue time.Duration) (time.Duration, error) {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue, nil
	}
	d, err := time.ParseDuration(value)
	if err != nil {
		return 0, fmt.Errorf("%s must be a duration: %w", key, err)
	}
	return d, nil
}
