package config

import (
	"encoding/json"
	"fmt"
	"os"
	"strings"

	"github.com/smith3v/dove-bot/pkg/logger"
)

const (
	DatabaseDriverPostgres = "postgres"
	DatabaseDriverSQLite   = "sqlite"

	StoreDriverDB    = "db"
	StoreDriverDiskv = "diskv"

	MinTimezoneOffset = -12
	MaxTimezoneOffset = 14
)

type Config struct {
	Database  DatabaseConfig  `json:"database"`
	Telegram  TelegramConfig  `json:"telegram"`
	Logging   LoggingConfig   `json:"logging"`
	Store     StoreConfig     `json:"store"`
	Quotes    QuotesConfig    `json:"quotes"`
	Reminders RemindersConfig `json:"reminders"`
}

type DatabaseConfig struct {
	Driver   string `json:"driver"`
	Host     string `json:"host"`
	User     string `json:"user"`
	Password string `json:"password"`
	DBName   string `json:"dbname"`
	Port     int    `json:"port"`
	SSLMode  string `json:"sslmode"`
	// Path is the sqlite database file.
	Path string `json:"path"`
}

type TelegramConfig struct {
	Token string `json:"token"`
}

type LoggingConfig struct {
	Level     string `json:"level"`
	File      string `json:"file"`
	GormLevel string `json:"gorm_level"`
}

// StoreConfig selects where the per-user preference record lives.
type StoreConfig struct {
	Driver         string `json:"driver"`
	Path           string `json:"path"`
	CacheSizeBytes uint64 `json:"cache_size_bytes"`
}

type QuotesConfig struct {
	File string `json:"file"`
}

type RemindersConfig struct {
	DefaultTimezoneOffsetHours int `json:"default_timezone_offset_hours"`
}

var AppConfig Config

func LoadConfig(filename string) error {
	file, err := os.Open(filename)
	if err != nil {
		logger.Error("failed to open config file", "error", err)
		return err
	}
	defer file.Close()

	var cfg Config
	decoder := json.NewDecoder(file)
	if err := decoder.Decode(&cfg); err != nil {
		logger.Error("failed to decode config file", "error", err)
		return err
	}
	cfg.applyDefaults()
	if err := cfg.Validate(); err != nil {
		logger.Error("invalid config file", "error", err)
		return err
	}

	AppConfig = cfg
	return nil
}

func (c *Config) applyDefaults() {
	if strings.TrimSpace(c.Database.Driver) == "" {
		c.Database.Driver = DatabaseDriverPostgres
	}
	if strings.TrimSpace(c.Store.Driver) == "" {
		c.Store.Driver = StoreDriverDB
	}
}

func (c Config) Validate() error {
	switch c.Database.Driver {
	case DatabaseDriverPostgres:
	case DatabaseDriverSQLite:
		if strings.TrimSpace(c.Database.Path) == "" {
			return fmt.Errorf("database.path is required for the %s driver", DatabaseDriverSQLite)
		}
	default:
		return fmt.Errorf("unknown database driver %q", c.Database.Driver)
	}

	switch c.Store.Driver {
	case StoreDriverDB:
	case StoreDriverDiskv:
		if strings.TrimSpace(c.Store.Path) == "" {
			return fmt.Errorf("store.path is required for the %s driver", StoreDriverDiskv)
		}
	default:
		return fmt.Errorf("unknown store driver %q", c.Store.Driver)
	}

	offset := c.Reminders.DefaultTimezoneOffsetHours
	if offset < MinTimezoneOffset || offset > MaxTimezoneOffset {
		return fmt.Errorf("reminders.default_timezone_offset_hours %d out of range [%d, %d]", offset, MinTimezoneOffset, MaxTimezoneOffset)
	}
	return nil
}
