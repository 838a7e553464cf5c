package config

import (
	"fmt"
	"os"
	"strings"
	"time"

	"gopkg.in/yaml.v3"
)

// Config holds all application configuration.
type Config struct {
	Telegram struct {
		BotToken string `yaml:"bot_token"`
		ChatID   string `yaml:"chat_id"`
	} `yaml:"telegram"`
	Marketplace struct {
		BaseURL           string        `yaml:"base_url"`
		Timeout           time.Duration `yaml:"timeout"`
		RequestsPerSecond float64       `yaml:"requests_per_second"`
		Burst             int           `yaml:"burst"`
		BreakerTimeout    time.Duration `yaml:"breaker_timeout"`
	} `yaml:"marketplace"`
	Analysis struct {
		FullPages             int    `yaml:"full_pages"`
		QuickPages            int    `yaml:"quick_pages"`
		PageSize              int    `yaml:"page_size"`
		AlternativesThreshold int    `yaml:"alternatives_threshold"`
		SearchRows            int    `yaml:"search_rows"`
		MaxCandidates         int    `yaml:"max_candidates"`
		TopSellers            int    `yaml:"top_sellers"`
		SellerConcurrency     int    `yaml:"seller_concurrency"`
		Timezone              string `yaml:"timezone"`
	} `yaml:"analysis"`
	Watch struct {
		Cron          string        `yaml:"cron"`
		DigestCron    string        `yaml:"digest_cron"`
		AlertScore    int           `yaml:"alert_score"`
		AlertCooldown time.Duration `yaml:"alert_cooldown"`
		StateFile     string        `yaml:"state_file"`
		Products      []string      `yaml:"products"`
	} `yaml:"watch"`
	Database struct {
		SQLitePath string `yaml:"sqlite_path"`
	} `yaml:"database"`
	Log struct {
		Level       string `yaml:"level"`
		Development bool   `yaml:"development"`
	} `yaml:"log"`
	Metrics struct {
		Addr string `yaml:"addr"`
	} `yaml:"metrics"`
	Proxy string `yaml:"proxy"`
}

// Load reads config from a YAML file, then applies environment variable overrides
// and defaults. A missing file is not an error.
func Load(path string) (*Config, error) {
	cfg := &Config{}

	data, err := os.ReadFile(path)
	if err != nil && !os.IsNotExist(err) {
		return nil, fmt.Errorf("read config: %w", err)
	}
	if len(data) > 0 {
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("parse config: %w", err)
		}
	}

	applyEnv(cfg)
	applyDefaults(cfg)
	return cfg, nil
}

func applyEnv(cfg *Config) {
	if v := os.Getenv("TELEGRAM_BOT_TOKEN"); v != "" {
		cfg.Telegram.BotToken = v
	}
	if v := os.Getenv("TELEGRAM_CHAT_ID"); v != "" {
		cfg.Telegram.ChatID = v
	}
	if v := os.Getenv("MARKETPLACE_BASE_URL"); v != "" {
		cfg.Marketplace.BaseURL = v
	}
	if v := os.Getenv("HTTPS_PROXY"); v != "" {
		cfg.Proxy = v
	}
	if v := os.Getenv("SQLITE_PATH"); v != "" {
		cfg.Database.SQLitePath = v
	}
	if v := os.Getenv("WATCH_CRON"); v != "" {
		cfg.Watch.Cron = v
	}
	if v := os.Getenv("ANALYSIS_TIMEZONE"); v != "" {
		cfg.Analysis.Timezone = v
	}
	if v := os.Getenv("LOG_LEVEL"); v != "" {
		cfg.Log.Level = v
	}
	if v := os.Getenv("METRICS_ADDR"); v != "" {
		cfg.Metrics.Addr = v
	}
	if v := os.Getenv("WATCH_PRODUCTS"); v != "" {
		cfg.Watch.Products = splitList(v)
	}
}

func applyDefaults(cfg *Config) {
	if cfg.Marketplace.BaseURL == "" {
		cfg.Marketplace.BaseURL = "https://gql.tokopedia.com"
	}
	if cfg.Marketplace.Timeout == 0 {
		cfg.Marketplace.Timeout = 30 * time.Second
	}
	if cfg.Marketplace.RequestsPerSecond == 0 {
		cfg.Marketplace.RequestsPerSecond = 1
	}
	if cfg.Marketplace.Burst == 0 {
		cfg.Marketplace.Burst = 1
	}
	if cfg.Marketplace.BreakerTimeout == 0 {
		cfg.Marketplace.BreakerTimeout = 30 * time.Second
	}
	if cfg.Analysis.FullPages == 0 {
		cfg.Analysis.FullPages = 5
	}
	if cfg.Analysis.QuickPages == 0 {
		cfg.Analysis.QuickPages = 2
	}
	if cfg.Analysis.PageSize == 0 {
		cfg.Analysis.PageSize = 20
	}
	if cfg.Analysis.AlternativesThreshold == 0 {
		cfg.Analysis.AlternativesThreshold = 30
	}
	if cfg.Analysis.SearchRows == 0 {
		cfg.Analysis.SearchRows = 20
	}
	if cfg.Analysis.MaxCandidates == 0 {
		cfg.Analysis.MaxCandidates = 10
	}
	if cfg.Analysis.TopSellers == 0 {
		cfg.Analysis.TopSellers = 5
	}
	if cfg.Analysis.SellerConcurrency == 0 {
		cfg.Analysis.SellerConcurrency = 3
	}
	if cfg.Analysis.Timezone == "" {
		cfg.Analysis.Timezone = "UTC"
	}
	if cfg.Watch.Cron == "" {
		cfg.Watch.Cron = "0 0 */6 * * *"
	}
	if cfg.Watch.DigestCron == "" {
		cfg.Watch.DigestCron = "0 0 9 * * *"
	}
	if cfg.Watch.AlertScore == 0 {
		cfg.Watch.AlertScore = 70
	}
	if cfg.Watch.AlertCooldown == 0 {
		cfg.Watch.AlertCooldown = 24 * time.Hour
	}
	if cfg.Watch.StateFile == "" {
		cfg.Watch.StateFile = "data/watch_state.json"
	}
	if cfg.Database.SQLitePath == "" {
		cfg.Database.SQLitePath = "data/review_sentinel.db"
	}
	if cfg.Log.Level == "" {
		cfg.Log.Level = "info"
	}
}

func splitList(s string) []string {
	var out []string
	for _, p := range strings.Split(s, ",") {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	return out
}

// Location resolves analysis.timezone.
func (c *Config) Location() (*time.Location, error) {
	loc, err := time.LoadLocation(c.Analysis.Timezone)
	if err != nil {
		return nil, fmt.Errorf("analysis.timezone: %w", err)
	}
	return loc, nil
}

// Validate checks the settings every command needs.
func (c *Config) Validate() error {
	if !strings.HasPrefix(c.Marketplace.BaseURL, "http://") && !strings.HasPrefix(c.Marketplace.BaseURL, "https://") {
		return fmt.Errorf("marketplace.base_url must be an http(s) url")
	}
	if c.Marketplace.RequestsPerSecond < 0 {
		return fmt.Errorf("marketplace.requests_per_second must not be negative")
	}
	if c.Analysis.FullPages < 1 || c.Analysis.QuickPages < 1 {
		return fmt.Errorf("analysis.full_pages and analysis.quick_pages must be positive")
	}
	if c.Analysis.PageSize < 1 || c.Analysis.PageSize > 50 {
		return fmt.Errorf("analysis.page_size must be between 1 and 50")
	}
	if c.Analysis.AlternativesThreshold < 0 || c.Analysis.AlternativesThreshold > 100 {
		return fmt.Errorf("analysis.alternatives_threshold must be between 0 and 100")
	}
	if c.Analysis.SellerConcurrency < 1 {
		return fmt.Errorf("analysis.seller_concurrency must be positive")
	}
	if _, err := c.Location(); err != nil {
		return err
	}
	return nil
}

// ValidateWatch checks the additional settings watch mode needs.
func (c *Config) ValidateWatch() error {
	if err := c.Validate(); err != nil {
		return err
	}
	if c.Telegram.BotToken == "" {
		return fmt.Errorf("telegram.bot_token is required")
	}
	if c.Telegram.ChatID == "" {
		return fmt.Errorf("telegram.chat_id is required")
	}
	if c.Watch.AlertScore < 1 || c.Watch.AlertScore > 100 {
		return fmt.Errorf("watch.alert_score must be between 1 and 100")
	}
	return nil
}
