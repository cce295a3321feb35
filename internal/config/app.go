package config

import (
	"errors"
	"fmt"
	"net/url"
	"os"
	"strings"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

const (
	DriverPostgres = "postgres"
	DriverSQLite   = "sqlite"
)

type HTTPServer struct {
	Port string `mapstructure:"port"`
}

type DbServer struct {
	Driver      string `mapstructure:"driver"`
	DSN         string `mapstructure:"dsn"`
	Host        string `mapstructure:"host"`
	Port        string `mapstructure:"port"`
	User        string `mapstructure:"user"`
	Pass        string `mapstructure:"pass"`
	Name        string `mapstructure:"name"`
	MaxConns    int32  `mapstructure:"max_conns"`
	AutoMigrate bool   `mapstructure:"auto_migrate"`
}

// GetConnectionStr returns the explicit DSN when set, otherwise one composed from the parts.
func (config *DbServer) GetConnectionStr() string {
	if config.DSN != "" {
		return config.DSN
	}
	if config.Driver == DriverSQLite {
		return "countryfx.db"
	}
	return fmt.Sprintf(
		"user=%s password=%s host=%s port=%s dbname=%s sslmode=disable",
		config.User, config.Pass, config.Host, config.Port, config.Name,
	)
}

type ExternalAPIs struct {
	CountriesURL     string `mapstructure:"countries_url"`
	ExchangeRatesURL string `mapstructure:"exchange_rates_url"`
}

type HTTPClient struct {
	TimeoutSeconds int `mapstructure:"timeout_seconds"`
}

type Cache struct {
	ImagePath string `mapstructure:"image_path"`
	MaxBytes  int64  `mapstructure:"max_bytes"`
}

type Scheduler struct {
	RefreshIntervalSeconds int `mapstructure:"refresh_interval_seconds"`
}

type Logging struct {
	Level string `mapstructure:"level"`
}

type AppConfig struct {
	HTTPServer   HTTPServer   `mapstructure:"http_server"`
	DbServer     DbServer     `mapstructure:"db_server"`
	ExternalAPIs ExternalAPIs `mapstructure:"external_apis"`
	HTTPClient   HTTPClient   `mapstructure:"http_client"`
	Cache        Cache        `mapstructure:"cache"`
	Scheduler    Scheduler    `mapstructure:"scheduler"`
	Logging      Logging      `mapstructure:"logging"`
}

func (c *AppConfig) Validate() error {
	var errs []error
	switch c.DbServer.Driver {
	case DriverPostgres, DriverSQLite:
	default:
		errs = append(errs, fmt.Errorf("unsupported db driver %q", c.DbServer.Driver))
	}
	if err := validateURL("external_apis.countries_url", c.ExternalAPIs.CountriesURL); err != nil {
		errs = append(errs, err)
	}
	if err := validateURL("external_apis.exchange_rates_url", c.ExternalAPIs.ExchangeRatesURL); err != nil {
		errs = append(errs, err)
	}
	if c.Cache.ImagePath == "" {
		errs = append(errs, errors.New("cache.image_path is required"))
	}
	return errors.Join(errs...)
}

func validateURL(key, raw string) error {
	if strings.TrimSpace(raw) == "" {
		return fmt.Errorf("%s is required", key)
	}
	u, err := url.Parse(raw)
	if err != nil || u.Scheme == "" || u.Host == "" {
		return fmt.Errorf("%s is not an absolute URL: %q", key, raw)
	}
	return nil
}

// Init loads .env and config.yaml when present, then applies env overrides and defaults.
func Init() (*AppConfig, error) {
	var cfg AppConfig

	if err := godotenv.Load(); err != nil && !errors.Is(err, os.ErrNotExist) {
		return nil, fmt.Errorf("error loading .env file: %w", err)
	}

	if _, statErr := os.Stat("config.yaml"); statErr == nil {
		viper.SetConfigFile("config.yaml")
		viper.SetConfigType("yaml")
		if err := viper.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("error reading config file: %w", err)
		}
	}

	viper.SetDefault("http_server.port", "8080")
	viper.SetDefault("db_server.driver", DriverPostgres)
	viper.SetDefault("db_server.host", "localhost")
	viper.SetDefault("db_server.port", "5432")
	viper.SetDefault("db_server.max_conns", 10)
	viper.SetDefault("db_server.auto_migrate", true)
	viper.SetDefault("external_apis.countries_url", "https://restcountries.com/v2/all?fields=name,capital,region,population,flag,currencies")
	viper.SetDefault("external_apis.exchange_rates_url", "https://open.er-api.com/v6/latest/USD")
	viper.SetDefault("http_client.timeout_seconds", 30)
	viper.SetDefault("cache.image_path", "cache/summary.png")
	viper.SetDefault("cache.max_bytes", 8<<20)
	viper.SetDefault("scheduler.refresh_interval_seconds", 0)
	viper.SetDefault("logging.level", "info")

	// http server env vars
	_ = viper.BindEnv("http_server.port", "HTTP_PORT")

	// db server env vars
	_ = viper.BindEnv("db_server.driver", "DB_DRIVER")
	_ = viper.BindEnv("db_server.dsn", "DB_DSN")
	_ = viper.BindEnv("db_server.host", "DB_HOST")
	_ = viper.BindEnv("db_server.port", "DB_PORT")
	_ = viper.BindEnv("db_server.user", "DB_USER")
	_ = viper.BindEnv("db_server.pass", "DB_PASS")
	_ = viper.BindEnv("db_server.name", "DB_NAME")
	_ = viper.BindEnv("db_server.max_conns", "DB_MAX_CONNS")
	_ = viper.BindEnv("db_server.auto_migrate", "DB_AUTO_MIGRATE")

	// external sources env vars
	_ = viper.BindEnv("external_apis.countries_url", "COUNTRIES_URL")
	_ = viper.BindEnv("external_apis.exchange_rates_url", "EXCHANGE_RATES_URL")

	// http client env vars
	_ = viper.BindEnv("http_client.timeout_seconds", "HTTP_CLIENT_TIMEOUT_SECONDS")

	// cache, scheduler, logging env vars
	_ = viper.BindEnv("cache.image_path", "CACHE_IMAGE_PATH")
	_ = viper.BindEnv("cache.max_bytes", "CACHE_MAX_BYTES")
	_ = viper.BindEnv("scheduler.refresh_interval_seconds", "REFRESH_INTERVAL_SECONDS")
	_ = viper.BindEnv("logging.level", "LOG_LEVEL")

	if err := viper.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("error unmarshalling config: %w", err)
	}
	cfg.DbServer.Driver = strings.ToLower(strings.TrimSpace(cfg.DbServer.Driver))

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}
	return &cfg, nil
}
