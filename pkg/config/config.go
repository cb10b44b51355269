package config

import (
	"errors"
	"io/fs"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

const (
	EnvDevelopment = "development"
	EnvProduction  = "production"
)

// Database drivers understood by pkg/database.
const (
	DriverSQLite   = "sqlite"
	DriverPostgres = "postgres"
)

type Config struct {
	Env string

	Database DatabaseConfig
	Airports AirportsConfig
	Log      LogConfig
	Export   ExportConfig
	Currency CurrencyConfig
}

type DatabaseConfig struct {
	Driver   string
	Path     string
	Host     string
	Port     int
	User     string
	Password string
	Name     string
	SSLMode  string
}

// AirportsConfig locates the airport reference store and its upstream feed.
type AirportsConfig struct {
	Path        string
	FeedURL     string
	FeedTimeout time.Duration
}

type LogConfig struct {
	Level  string
	Format string
}

// ExportConfig controls where rendered logbook exports are written.
type ExportConfig struct {
	Dir string
}

// CurrencyConfig tunes the rolling landings rule.
type CurrencyConfig struct {
	WindowDays   int
	MinLandings  int
	GraceDays    int
	ExtraClasses []string
}

func Load() (*Config, error) {
	_ = godotenv.Load()

	v := viper.New()
	v.SetConfigFile(".env")
	v.SetConfigType("env")
	v.AutomaticEnv()
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))

	setDefaults(v)

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) && !errors.Is(err, fs.ErrNotExist) {
			return nil, err
		}
	}

	return fromViper(v), nil
}

func fromViper(v *viper.Viper) *Config {
	cfg := &Config{}

	cfg.Env = v.GetString("ENV")

	cfg.Database = DatabaseConfig{
		Driver:   strings.ToLower(v.GetString("DB_DRIVER")),
		Path:     v.GetString("DB_PATH"),
		Host:     v.GetString("DB_HOST"),
		Port:     v.GetInt("DB_PORT"),
		User:     v.GetString("DB_USER"),
		Password: v.GetString("DB_PASSWORD"),
		Name:     v.GetString("DB_NAME"),
		SSLMode:  v.GetString("DB_SSL_MODE"),
	}

	cfg.Airports = AirportsConfig{
		Path:        v.GetString("AIRPORTS_DB_PATH"),
		FeedURL:     v.GetString("AIRPORTS_FEED_URL"),
		FeedTimeout: parseDuration(v.GetString("AIRPORTS_FEED_TIMEOUT"), time.Minute),
	}

	cfg.Log = LogConfig{
		Level:  v.GetString("LOG_LEVEL"),
		Format: v.GetString("LOG_FORMAT"),
	}

	cfg.Export = ExportConfig{Dir: v.GetString("EXPORT_DIR")}

	cfg.Currency = CurrencyConfig{
		WindowDays:   positiveOr(v.GetInt("CURRENCY_WINDOW_DAYS"), 90),
		MinLandings:  positiveOr(v.GetInt("CURRENCY_MIN_LANDINGS"), 3),
		GraceDays:    positiveOr(v.GetInt("CURRENCY_GRACE_DAYS"), 10),
		ExtraClasses: splitAndTrim(v.GetString("CURRENCY_EXTRA_CLASSES")),
	}

	return cfg
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("ENV", EnvDevelopment)

	v.SetDefault("DB_DRIVER", DriverSQLite)
	v.SetDefault("DB_PATH", "flightlog.db")
	v.SetDefault("DB_HOST", "localhost")
	v.SetDefault("DB_PORT", 5432)
	v.SetDefault("DB_USER", "postgres")
	v.SetDefault("DB_PASSWORD", "postgres")
	v.SetDefault("DB_NAME", "flightlog")
	v.SetDefault("DB_SSL_MODE", "disable")

	v.SetDefault("AIRPORTS_DB_PATH", "airports.db")
	v.SetDefault("AIRPORTS_FEED_URL", "https://ourairports.com/data/airports.csv")
	v.SetDefault("AIRPORTS_FEED_TIMEOUT", "1m")

	v.SetDefault("LOG_LEVEL", "warn")
	v.SetDefault("LOG_FORMAT", "console")

	v.SetDefault("EXPORT_DIR", "./exports")

	v.SetDefault("CURRENCY_WINDOW_DAYS", 90)
	v.SetDefault("CURRENCY_MIN_LANDINGS", 3)
	v.SetDefault("CURRENCY_GRACE_DAYS", 10)
	v.SetDefault("CURRENCY_EXTRA_CLASSES", "UL")
}

func parseDuration(raw string, fallback time.Duration) time.Duration {
	if raw == "" {
		return fallback
	}

	d, err := time.ParseDuration(raw)
	if err != nil {
		return fallback
	}

	return d
}

func positiveOr(value, fallback int) int {
	if value <= 0 {
		return fallback
	}
	return value
}

func splitAndTrim(raw string) []string {
	if raw == "" {
		return nil
	}

	parts := strings.Split(raw, ",")
	result := make([]string, 0, len(parts))
	for _, part := range parts {
		trimmed := strings.TrimSpace(part)
		if trimmed != "" {
			result = append(result, trimmed)
		}
	}

	return result
}
