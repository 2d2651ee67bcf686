// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package cliparse

import (
	"errors"
	"flag"
	"fmt"
	"log/slog"
	"os"
	"strconv"
	"strings"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

// Supported journal backends
const (
	DatabaseSQLite   = "sqlite"
	DatabasePostgres = "postgres"
	DatabaseBolt     = "bolt"
	DatabaseMemory   = "memory"
)

type Config struct {
	Port          int
	DatabaseURL   string
	DatabaseType  string
	AdminAddress  string
	CallerKeySalt string
	AMQPURL       string
	AMQPExchange  string
	LogLevel      string
	ConfigFile    string
}

// ParseFlags validates flags and fills the rest from the environment,
// an optional config file and defaults, in that order of precedence.
func ParseFlags(args []string) (Config, error) {
	var cfg Config

	fs := flag.NewFlagSet("quickly-elect", flag.ContinueOnError)

	fs.IntVar(&cfg.Port, "p", 0, "Server port")
	fs.StringVar(&cfg.DatabaseURL, "d", "", "Database URL or bolt file path")
	fs.StringVar(&cfg.DatabaseType, "t", "", "Journal backend (sqlite, postgres, bolt or memory)")
	fs.StringVar(&cfg.AdminAddress, "admin", "", "Election administrator address")
	fs.StringVar(&cfg.AMQPURL, "amqp", "", "RabbitMQ URL for event relay (optional)")
	fs.StringVar(&cfg.AMQPExchange, "amqp-exchange", "", "RabbitMQ exchange for event relay")
	fs.StringVar(&cfg.LogLevel, "log-level", "", "Log level (debug, info, warn, error)")
	fs.StringVar(&cfg.ConfigFile, "c", "", "Path to a YAML config file")

	// Secrets (prefer env variables, but allow CLI for dev)
	fs.StringVar(&cfg.CallerKeySalt, "caller-salt", "", "Caller key salt (prefer env)")

	if err := fs.Parse(args); err != nil {
		return Config{}, err
	}

	if err := loadDotEnv(".env"); err != nil {
		return Config{}, err
	}

	v := viper.New()
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()
	v.SetDefault("database.type", DatabaseSQLite)
	v.SetDefault("amqp.exchange", "election.events")
	v.SetDefault("log.level", "info")

	if cfg.ConfigFile == "" {
		cfg.ConfigFile = os.Getenv("ELECTION_CONFIG")
	}
	if cfg.ConfigFile != "" {
		v.SetConfigFile(cfg.ConfigFile)
		if err := v.ReadInConfig(); err != nil {
			return Config{}, fmt.Errorf("failed to read config file %s: %w", cfg.ConfigFile, err)
		}
	}

	if cfg.Port == 0 {
		if portStr := v.GetString("port"); portStr != "" {
			port, err := strconv.Atoi(portStr)
			if err != nil {
				return Config{}, errors.New("invalid PORT env variable")
			}
			cfg.Port = port
		} else {
			cfg.Port = 3318 // default
		}
	}

	fallback(&cfg.DatabaseType, v, "database.type")
	fallback(&cfg.DatabaseURL, v, "database.url")
	fallback(&cfg.AdminAddress, v, "admin.address")
	fallback(&cfg.CallerKeySalt, v, "caller.key_salt")
	fallback(&cfg.AMQPURL, v, "amqp.url")
	fallback(&cfg.AMQPExchange, v, "amqp.exchange")
	fallback(&cfg.LogLevel, v, "log.level")

	switch cfg.DatabaseType {
	case DatabaseSQLite, DatabasePostgres, DatabaseBolt:
		if cfg.DatabaseURL == "" {
			return Config{}, errors.New("database URL required (use -d or DATABASE_URL env)")
		}
	case DatabaseMemory:
	default:
		return Config{}, fmt.Errorf("unsupported database type %q", cfg.DatabaseType)
	}

	if cfg.AdminAddress == "" {
		return Config{}, errors.New("ADMIN_ADDRESS required")
	}

	// Secrets - MUST be provided
	if cfg.CallerKeySalt == "" {
		return Config{}, errors.New("CALLER_KEY_SALT required")
	}

	if _, err := cfg.SlogLevel(); err != nil {
		return Config{}, err
	}

	return cfg, nil
}

// SlogLevel parses LogLevel
func (c Config) SlogLevel() (slog.Level, error) {
	var level slog.Level
	if err := level.UnmarshalText([]byte(c.LogLevel)); err != nil {
		return 0, fmt.Errorf("invalid log level %q: %w", c.LogLevel, err)
	}
	return level, nil
}

func fallback(dst *string, v *viper.Viper, key string) {
	if *dst == "" {
		*dst = v.GetString(key)
	}
}

// loadDotEnv exports variables from path unless they are already set.
// A missing file is not an error.
func loadDotEnv(path string) error {
	err := godotenv.Load(path)
	if err != nil && !errors.Is(err, os.ErrNotExist) {
		return fmt.Errorf("failed to load %s: %w", path, err)
	}
	return nil
}
