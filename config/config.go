package config

import (
	"fmt"
	"log"
	"os"

	"gopkg.in/yaml.v3"
)

// Config represents the overall application configuration.
type Config struct {
	Telegram   TelegramConfig      `yaml:"telegram"`
	Slots      map[string][]string `yaml:"slots"`
	Storage    StorageConfig       `yaml:"storage"`
	Server     ServerConfig        `yaml:"server"`
	WorkerPool WorkerPoolConfig    `yaml:"worker_pool"`

	// OverlapWindowDays bounds how far ahead mutual availability is
	// shown to users. Purely a display-time filter.
	OverlapWindowDays int `yaml:"overlap_window_days"`
}

// TelegramConfig holds the bot identity and conversation settings.
type TelegramConfig struct {
	Token     string   `yaml:"token"`
	AdminID   int64    `yaml:"admin_id"`
	Codewords []string `yaml:"codewords"`
	MaxTries  int      `yaml:"max_tries"`
	Timezone  string   `yaml:"timezone"`
	FinalText string   `yaml:"final_text"`
}

// StorageConfig selects the persistence backend. An empty DSN selects
// the JSON document store at FilePath; otherwise the DSN is opened
// through GORM (sqlite path or postgres URL).
type StorageConfig struct {
	DSN                    string `yaml:"dsn"`
	FilePath               string `yaml:"file_path"`
	MaxOpenConns           int    `yaml:"max_open_conns"`
	MaxIdleConns           int    `yaml:"max_idle_conns"`
	ConnMaxLifetimeMinutes int    `yaml:"conn_max_lifetime_minutes"`
}

// ServerConfig holds the HTTP server configuration.
type ServerConfig struct {
	Port            int     `yaml:"port"`
	RateLimitPerSec float64 `yaml:"rate_limit_per_sec"`
	RateLimitBurst  int     `yaml:"rate_limit_burst"`
	CacheTTLSeconds int     `yaml:"cache_ttl_seconds"`
}

// WorkerPoolConfig holds the configuration for the notification worker pool.
type WorkerPoolConfig struct {
	Size int `yaml:"size"`
}

// Load reads the configuration from the given path and applies defaults.
func Load(path string) (*Config, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	var cfg Config
	decoder := yaml.NewDecoder(f)
	if err := decoder.Decode(&cfg); err != nil {
		return nil, err
	}

	if cfg.Telegram.Token == "" {
		cfg.Telegram.Token = os.Getenv("TELEGRAM_BOT_TOKEN")
	}
	if cfg.Telegram.Token == "" {
		return nil, fmt.Errorf("telegram token is not set (config or TELEGRAM_BOT_TOKEN)")
	}

	if len(cfg.Telegram.Codewords) == 0 {
		cfg.Telegram.Codewords = []string{"пуф", "пуфф"}
	}
	if cfg.Telegram.MaxTries <= 0 {
		cfg.Telegram.MaxTries = 2
	}
	if cfg.Telegram.Timezone == "" {
		cfg.Telegram.Timezone = "Europe/Minsk"
	}

	if cfg.Storage.DSN == "" && cfg.Storage.FilePath == "" {
		cfg.Storage.FilePath = "data/availability.json"
	}

	if cfg.Server.Port <= 0 {
		cfg.Server.Port = 8080
	}
	if cfg.Server.RateLimitPerSec <= 0 {
		cfg.Server.RateLimitPerSec = 10
	}
	if cfg.Server.RateLimitBurst <= 0 {
		cfg.Server.RateLimitBurst = 5
	}
	if cfg.Server.CacheTTLSeconds <= 0 {
		cfg.Server.CacheTTLSeconds = 60
	}

	if cfg.WorkerPool.Size <= 0 {
		log.Printf("worker_pool.size is not set or invalid; defaulting to 1")
		cfg.WorkerPool.Size = 1
	}

	if cfg.OverlapWindowDays <= 0 {
		cfg.OverlapWindowDays = 7
	}

	return &cfg, nil
}
