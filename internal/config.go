package internal

import (
	"errors"
	"fmt"
	"net/netip"
	"os"
	"strconv"
	"strings"
	"time"
)

type Config struct {
	Server        ServerConfig          `mapstructure:"http_server"`
	Database      DatabaseConfig        `mapstructure:"database"`
	Redis         RedisConfig           `mapstructure:"redis"`
	Webhook       WebhookConfig         `mapstructure:"webhook"`
	Plans         map[string]PlanConfig `mapstructure:"plans"`
	Observability ObservabilityConfig   `mapstructure:"observability"`
}

type ServerConfig struct {
	Port              int           `mapstructure:"port"`
	BaseURL           string        `mapstructure:"base_url"`
	ReadHeaderTimeout time.Duration `mapstructure:"read_header_timeout"`
	ReadTimeout       time.Duration `mapstructure:"read_timeout"`
	IdleTimeout       time.Duration `mapstructure:"idle_timeout"`
	WriteTimeout      time.Duration `mapstructure:"write_timeout"`
}

type DatabaseConfig struct {
	MaxOpenConns    int           `mapstructure:"max_open_conns"`
	MaxIdleConns    int           `mapstructure:"max_idle_conns"`
	ConnMaxLifetime time.Duration `mapstructure:"conn_max_lifetime"`
	ConnMaxIdleTime time.Duration `mapstructure:"conn_max_idle_time"`
	Source          string        `mapstructure:"source"`
}

type RedisConfig struct {
	Addr     string `mapstructure:"addr"`
	Password string `mapstructure:"password"`
	DB       int    `mapstructure:"db"`
}

// WebhookConfig is the configuration surface of the webhook pipeline:
// gateway API keys (several, so keys can be rotated), an optional source IP
// allow-list, the expected settlement account and the amount tolerance used
// by reconciliation.
type WebhookConfig struct {
	APIKeys           []string `mapstructure:"api_keys"`
	IPAllowlist       []string `mapstructure:"ip_allowlist"`
	TrustedProxies    []string `mapstructure:"trusted_proxies"`
	SettlementAccount string   `mapstructure:"settlement_account"`
	AmountTolerance   int64    `mapstructure:"amount_tolerance"`
}

type PlanConfig struct {
	Tier         string `mapstructure:"tier"`
	DurationDays int    `mapstructure:"duration_days"`
}

type ObservabilityConfig struct {
	Logging LoggingConfig `mapstructure:"logging"`
}

type LoggingConfig struct {
	Level  string `mapstructure:"level"`
	Format string `mapstructure:"format"`
}

// ----------------- HELPERS -----------------

func getEnv(key, defaultVal string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultVal
}

func getEnvAsInt(key string, defaultVal int) int {
	if value := os.Getenv(key); value != "" {
		if intVal, err := strconv.Atoi(value); err == nil {
			return intVal
		}
	}
	return defaultVal
}

func getEnvAsInt64(key string, defaultVal int64) int64 {
	if value := os.Getenv(key); value != "" {
		if intVal, err := strconv.ParseInt(value, 10, 64); err == nil {
			return intVal
		}
	}
	return defaultVal
}

func splitNonEmpty(value string) []string {
	var out []string
	for _, part := range strings.Split(value, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}

// LoadConfigFromEnv builds the configuration from environment variables for
// container deployments where no config file is mounted.
func LoadConfigFromEnv() *Config {
	return &Config{
		Server: ServerConfig{
			Port:              getEnvAsInt("HTTP_PORT", 8080),
			BaseURL:           getEnv("HTTP_BASE_URL", "http://localhost:8080"),
			ReadHeaderTimeout: 5 * time.Second,
			ReadTimeout:       15 * time.Second,
			WriteTimeout:      15 * time.Second,
			IdleTimeout:       60 * time.Second,
		},
		Database: DatabaseConfig{
			Source:          getEnv("DATABASE_URL", ""),
			MaxOpenConns:    getEnvAsInt("DATABASE_MAX_OPEN_CONNS", 10),
			MaxIdleConns:    getEnvAsInt("DATABASE_MAX_IDLE_CONNS", 5),
			ConnMaxLifetime: 30 * time.Minute,
			ConnMaxIdleTime: 5 * time.Minute,
		},
		Redis: RedisConfig{
			Addr:     getEnv("REDIS_ADDR", ""),
			Password: getEnv("REDIS_PASSWORD", ""),
			DB:       getEnvAsInt("REDIS_DB", 0),
		},
		Webhook: WebhookConfig{
			APIKeys:           splitNonEmpty(getEnv("WEBHOOK_API_KEYS", "")),
			IPAllowlist:       splitNonEmpty(getEnv("WEBHOOK_IP_ALLOWLIST", "")),
			TrustedProxies:    splitNonEmpty(getEnv("WEBHOOK_TRUSTED_PROXIES", "")),
			SettlementAccount: getEnv("WEBHOOK_SETTLEMENT_ACCOUNT", ""),
			AmountTolerance:   getEnvAsInt64("WEBHOOK_AMOUNT_TOLERANCE", 0),
		},
		Observability: ObservabilityConfig{
			Logging: LoggingConfig{
				Level:  getEnv("LOG_LEVEL", "info"),
				Format: getEnv("LOG_FORMAT", "json"),
			},
		},
	}
}

// ----------------- VALIDATION -----------------

func (c *Config) Validate() error {
	var errs []string

	if err := c.Server.Validate(); err != nil {
		errs = append(errs, fmt.Sprintf("server config: %v", err))
	}

	if err := c.Database.Validate(); err != nil {
		errs = append(errs, fmt.Sprintf("database config: %v", err))
	}

	if err := c.Webhook.Validate(); err != nil {
		errs = append(errs, fmt.Sprintf("webhook config: %v", err))
	}

	for planID, plan := range c.Plans {
		if err := plan.Validate(); err != nil {
			errs = append(errs, fmt.Sprintf("plan %s: %v", planID, err))
		}
	}

	if len(errs) > 0 {
		return errors.New(strings.Join(errs, "; "))
	}

	return nil
}

func (c *ServerConfig) Validate() error {
	if c.ReadTimeout < c.ReadHeaderTimeout {
		return errors.New("read_timeout must be >= read_header_timeout")
	}
	return nil
}

func (c *DatabaseConfig) Validate() error {
	if c.MaxIdleConns > c.MaxOpenConns {
		return errors.New("max_idle_conns cannot be greater than max_open_conns")
	}
	return nil
}

func (c *DatabaseConfig) GetDSN() string {
	return c.Source
}

func (c *WebhookConfig) Validate() error {
	if len(c.APIKeys) == 0 {
		return errors.New("at least one api key is required")
	}
	for _, key := range c.APIKeys {
		if strings.TrimSpace(key) == "" {
			return errors.New("api keys cannot be blank")
		}
	}
	if c.AmountTolerance < 0 {
		return errors.New("amount_tolerance cannot be negative")
	}
	for _, entry := range c.IPAllowlist {
		if err := validateIPEntry(entry); err != nil {
			return fmt.Errorf("ip_allowlist entry %q: %w", entry, err)
		}
	}
	for _, entry := range c.TrustedProxies {
		if err := validateIPEntry(entry); err != nil {
			return fmt.Errorf("trusted_proxies entry %q: %w", entry, err)
		}
	}
	return nil
}

func validateIPEntry(entry string) error {
	if strings.Contains(entry, "/") {
		_, err := netip.ParsePrefix(entry)
		return err
	}
	_, err := netip.ParseAddr(entry)
	return err
}

func (c *PlanConfig) Validate() error {
	if c.Tier == "" {
		return errors.New("tier is required")
	}
	if c.DurationDays <= 0 {
		return errors.New("duration_days must be positive")
	}
	return nil
}
