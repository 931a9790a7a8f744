package config

import (
	"strconv"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

// Config holds the configuration settings for the school proximity service.
//
// Fields:
// - Env: The current environment (local, development, production).
// - Port: The port of the HTTP API server.
// - ReadTimeout, WriteTimeout: HTTP server timeouts.
// - Store: The record store engine (postgres, sqlite).
// - SQLitePath: The SQLite database file, used when Store is sqlite.
// - RankingStrategy: Where distances are computed (store, service).
// - Database: Configuration settings for the PostgreSQL database.
// - Seed: Settings of the bulk loader.
type Config struct {
	Env             string         // Env is the current environment: local, development, production.
	Port            int            // Port is the HTTP API port.
	ReadTimeout     time.Duration  // ReadTimeout of the HTTP server.
	WriteTimeout    time.Duration  // WriteTimeout of the HTTP server.
	Store           string         // Store selects the record store engine.
	SQLitePath      string         // SQLitePath is the SQLite DSN.
	RankingStrategy string         // RankingStrategy selects the ranker.
	Database        PostgresConfig // Database holds the postgres configuration.
	Seed            SeedConfig     // Seed holds the loader configuration.
}

// PostgresConfig struct holds the configuration details for connecting to a PostgreSQL database.
type PostgresConfig struct {
	Host     string // Host is the database server address.
	Port     string // Port is the database server port.
	User     string // User is the database user.
	Password string // Password is the database user's password.
	Name     string // Name is the name of the database.
}

// SeedConfig configures the CSV loader and its geocoding provider.
type SeedConfig struct {
	ProviderType string // ProviderType is google or nominatim.
	APIKey       string // APIKey of the provider (google only).
	RateLimit    int    // RateLimit in requests per second, 0 for provider default.
	Workers      int    // Workers is the number of concurrent loader workers.
	AddrPrefix   string // AddrPrefix is prepended to addresses before geocoding.
}

var defaults = map[string]string{
	"LOCUS_ENV":              "production",
	"LOCUS_PORT":             "8080",
	"LOCUS_READ_TIMEOUT":     "5s",
	"LOCUS_WRITE_TIMEOUT":    "10s",
	"LOCUS_STORE":            "postgres",
	"LOCUS_SQLITE_PATH":      "locus.db",
	"LOCUS_RANKING_STRATEGY": "store",
	"DB_PORT":                "5432",
	"LOCUS_PROVIDER_TYPE":    "nominatim",
	"LOCUS_SEED_RATE_LIMIT":  "0",
	"LOCUS_SEED_WORKERS":     "4",
}

// MustLoad reads the configuration from the environment, a .env file if present, and the
// YAML or JSON file named by LOCUS_CONFIG_FILE if set. It panics on unparsable values.
func MustLoad() *Config {
	_ = godotenv.Load()

	v := viper.New()
	v.AutomaticEnv()
	for key, value := range defaults {
		v.SetDefault(key, value)
	}

	if file := v.GetString("LOCUS_CONFIG_FILE"); file != "" {
		v.SetConfigFile(file)
		if err := v.ReadInConfig(); err != nil {
			panic("failed to read configuration file")
		}
	}

	return &Config{
		Env:             v.GetString("LOCUS_ENV"),
		Port:            mustInt(v, "LOCUS_PORT", "failed to parse port for API server from configuration"),
		ReadTimeout:     mustDuration(v, "LOCUS_READ_TIMEOUT", "failed to parse read timeout from configuration"),
		WriteTimeout:    mustDuration(v, "LOCUS_WRITE_TIMEOUT", "failed to parse write timeout from configuration"),
		Store:           v.GetString("LOCUS_STORE"),
		SQLitePath:      v.GetString("LOCUS_SQLITE_PATH"),
		RankingStrategy: v.GetString("LOCUS_RANKING_STRATEGY"),
		Database: PostgresConfig{
			Host:     v.GetString("DB_HOST"),
			Port:     v.GetString("DB_PORT"),
			User:     v.GetString("DB_USERNAME"),
			Password: v.GetString("DB_PASSWORD"),
			Name:     v.GetString("DB_NAME"),
		},
		Seed: SeedConfig{
			ProviderType: v.GetString("LOCUS_PROVIDER_TYPE"),
			APIKey:       v.GetString("LOCUS_PROVIDER_KEY"),
			RateLimit: mustInt(v, "LOCUS_SEED_RATE_LIMIT",
				"failed to parse seed rate limit from configuration, must be an integer types"),
			Workers: mustInt(v, "LOCUS_SEED_WORKERS",
				"failed to parse seed workers from configuration, must be an integer types"),
			AddrPrefix: v.GetString("LOCUS_ADDRESS_PREFIX"),
		},
	}
}

func mustInt(v *viper.Viper, key, msg string) int {
	value, err := strconv.Atoi(v.GetString(key))
	if err != nil {
		panic(msg)
	}

	return value
}

func mustDuration(v *viper.Viper, key, msg string) time.Duration {
	value, err := time.ParseDuration(v.GetString(key))
	if err != nil {
		panic(msg)
	}

	return value
}
