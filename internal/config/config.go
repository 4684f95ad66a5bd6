package config

import (
	"errors"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"

	"github.com/soaringjerry/Guidance/internal/models"
	"github.com/soaringjerry/Guidance/internal/services"
)

// Config holds every runtime setting of the server.
type Config struct {
	Addr          string `mapstructure:"ADDR"`
	Environment   string `mapstructure:"ENV"`
	SQLitePath    string `mapstructure:"SQLITE_PATH"`
	MigrationsDir string `mapstructure:"MIGRATIONS_DIR"`
	JWTSecret     string `mapstructure:"JWT_SECRET"`
	LogDir        string `mapstructure:"LOG_DIR"`

	RedisAddr       string        `mapstructure:"REDIS_ADDR"`
	RedisPassword   string        `mapstructure:"REDIS_PASSWORD"`
	RedisDB         int           `mapstructure:"REDIS_DB"`
	InsightCacheTTL time.Duration `mapstructure:"INSIGHT_CACHE_TTL"`

	HistoryWindowDays   int    `mapstructure:"HISTORY_WINDOW_DAYS"`
	AttentionCron       string `mapstructure:"ATTENTION_CRON"`
	AttentionWindowDays int    `mapstructure:"ATTENTION_WINDOW_DAYS"`

	RateLimitRPS   float64 `mapstructure:"RATE_LIMIT_RPS"`
	RateLimitBurst int     `mapstructure:"RATE_LIMIT_BURST"`

	HighSeverityCategories string `mapstructure:"HIGH_SEVERITY_CATEGORIES"`
}

const envPrefix = "GUIDANCE"

const devJWTSecret = "guidance-dev-secret"

var defaults = map[string]any{
	"ADDR":                     ":8080",
	"ENV":                      "development",
	"SQLITE_PATH":              "data/guidance.db",
	"MIGRATIONS_DIR":           "",
	"JWT_SECRET":               devJWTSecret,
	"LOG_DIR":                  "logs",
	"REDIS_ADDR":               "",
	"REDIS_PASSWORD":           "",
	"REDIS_DB":                 0,
	"INSIGHT_CACHE_TTL":        "10m",
	"HISTORY_WINDOW_DAYS":      180,
	"ATTENTION_CRON":           "@every 1h",
	"ATTENTION_WINDOW_DAYS":    30,
	"RATE_LIMIT_RPS":           5.0,
	"RATE_LIMIT_BURST":         20,
	"HIGH_SEVERITY_CATEGORIES": "emotional,dating_sex,family_home",
}

// Load reads an optional .env file, then GUIDANCE_* environment variables
// over the built-in defaults.
func Load(envFile string) (Config, error) {
	if envFile != "" {
		if err := godotenv.Load(envFile); err != nil && !errors.Is(err, os.ErrNotExist) {
			return Config{}, fmt.Errorf("load %s: %w", envFile, err)
		}
	}

	v := viper.New()
	v.SetEnvPrefix(envPrefix)
	v.AutomaticEnv()
	for key, val := range defaults {
		v.SetDefault(key, val)
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return Config{}, fmt.Errorf("decode config: %w", err)
	}
	if err := cfg.validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

func (c Config) validate() error {
	if c.Production() && c.JWTSecret == devJWTSecret {
		return errors.New("GUIDANCE_JWT_SECRET must be set in production")
	}
	if c.HistoryWindowDays <= 0 || c.AttentionWindowDays <= 0 {
		return errors.New("history and attention windows must be positive")
	}
	if c.RateLimitRPS < 0 || c.RateLimitBurst < 0 {
		return errors.New("rate limit settings must not be negative")
	}
	if _, err := c.ChecklistRules(); err != nil {
		return err
	}
	return nil
}

// Production reports whether the server runs with production settings.
func (c Config) Production() bool {
	return strings.EqualFold(c.Environment, "production")
}

func (c Config) HistoryWindow() time.Duration {
	return time.Duration(c.HistoryWindowDays) * 24 * time.Hour
}

func (c Config) AttentionWindow() time.Duration {
	return time.Duration(c.AttentionWindowDays) * 24 * time.Hour
}

// ChecklistRules builds analyzer rules from the configured high-severity
// categories. An empty setting disables single-circle escalation.
func (c Config) ChecklistRules() (services.ChecklistRules, error) {
	rules := services.DefaultChecklistRules()
	cats := []models.ChecklistCategory{}
	for _, part := range strings.Split(c.HighSeverityCategories, ",") {
		part = strings.TrimSpace(part)
		if part == "" {
			continue
		}
		cat, ok := services.ParseChecklistCategory(part)
		if !ok {
			return rules, fmt.Errorf("unknown checklist category %q", part)
		}
		cats = append(cats, cat)
	}
	rules.HighSeverityCategories = cats
	return rules, nil
}
