package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/joho/godotenv"
	"github.com/spf13/viper"
	"gopkg.in/yaml.v3"
)

// DefaultDatabaseURL is used when DATABASE_URL is not set anywhere
const DefaultDatabaseURL = "postgres://localhost/essence"

// DefaultModelModules lists the model modules the route tree depends on,
// plus the migration bookkeeping table.
var DefaultModelModules = []string{
	"user",
	"brand",
	"product",
	"order",
	"cart",
	"review",
	"coupon",
	"migrations",
}

// Config is the fully resolved process configuration
type Config struct {
	Settings Settings
	Database DatabaseConfig
}

// Settings holds the application level settings
type Settings struct {
	AppName         string `validate:"required"`
	AppDescription  string
	AppVersion      string   `validate:"required"`
	Debug           bool
	CORSOrigins     []string `validate:"dive,required"`
	TrustedProxies  []string `validate:"dive,ip|cidr"`
	Host            string
	Port            int           `validate:"min=1,max=65535"`
	LogLevel        string        `validate:"oneof=DEBUG INFO WARNING WARN ERROR"`
	RateLimitRPS    float64       `validate:"gte=0"`
	RateLimitBurst  int           `validate:"gte=0"`
	ShutdownTimeout time.Duration `validate:"gte=0"`
	Jobs            JobsConfig
}

// JobsConfig configures the maintenance scheduler
type JobsConfig struct {
	Enabled     bool
	CouponSweep string
	CartSweep   string
	CartTTL     time.Duration `validate:"gte=0"`
}

// DatabaseConfig is the connection descriptor handed to the database manager
type DatabaseConfig struct {
	URL               string
	Apps              map[string]AppConfig
	DefaultConnection string
	Timezone          string
	UseTZ             bool
	MaxOpenConns      int
	MaxIdleConns      int
	ConnMaxLifetime   time.Duration
	ConnectTimeout    time.Duration
	RequireSchema     bool
}

// AppConfig groups the model modules served by one connection
type AppConfig struct {
	Models            []string
	DefaultConnection string
}

// Models returns every model module referenced by the descriptor
func (d DatabaseConfig) Models() []string {
	var all []string
	for _, app := range d.Apps {
		all = append(all, app.Models...)
	}
	return all
}

// LoadOptions controls where Load looks for configuration
type LoadOptions struct {
	// EnvFile is a dotenv file whose values apply only to variables not already
	// present in the process environment. Defaults to ".env"; a missing file is ignored.
	EnvFile string
	// ConfigFile is an optional YAML file with the same keys as the environment, lower-cased.
	ConfigFile string
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("app_name", "Essence")
	v.SetDefault("app_description", "Minimal premium select shop for people in their 30s")
	v.SetDefault("app_version", "1.0.0")
	v.SetDefault("debug", false)
	v.SetDefault("cors_origins", "http://localhost:3000")
	v.SetDefault("trusted_proxies", "")
	v.SetDefault("host", "0.0.0.0")
	v.SetDefault("port", 8000)
	v.SetDefault("rate_limit_rps", 20)
	v.SetDefault("rate_limit_burst", 40)
	v.SetDefault("shutdown_timeout", "15s")

	v.SetDefault("jobs_enabled", true)
	v.SetDefault("jobs_coupon_sweep", "@every 10m")
	v.SetDefault("jobs_cart_sweep", "@hourly")
	v.SetDefault("jobs_cart_ttl", "72h")

	v.SetDefault("database_url", DefaultDatabaseURL)
	v.SetDefault("db_models", strings.Join(DefaultModelModules, ","))
	v.SetDefault("db_timezone", "Asia/Seoul")
	v.SetDefault("db_use_tz", false)
	v.SetDefault("db_max_open_conns", 25)
	v.SetDefault("db_max_idle_conns", 5)
	v.SetDefault("db_conn_max_lifetime", "1h")
	v.SetDefault("db_connect_timeout", "5s")
	v.SetDefault("db_require_schema", true)
}

// Load resolves configuration from, in decreasing priority: the process
// environment, the dotenv file, the YAML file, and built-in defaults.
// Load has no side effects on the process environment.
func Load(opts LoadOptions) (*Config, error) {
	v := viper.New()
	setDefaults(v)

	if opts.ConfigFile != "" {
		v.SetConfigFile(opts.ConfigFile)
		v.SetConfigType("yaml")
		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("failed to read config file: %w", err)
		}
	}

	v.AutomaticEnv()

	envFile := opts.EnvFile
	if envFile == "" {
		envFile = ".env"
	}
	dotenv, err := godotenv.Read(envFile)
	if err != nil && !errors.Is(err, fs.ErrNotExist) {
		return nil, fmt.Errorf("failed to parse env file %s: %w", envFile, err)
	}
	for key, value := range dotenv {
		if _, set := os.LookupEnv(key); set {
			continue
		}
		v.Set(strings.ToLower(key), value)
	}

	cfg := &Config{
		Settings: Settings{
			AppName:         v.GetString("app_name"),
			AppDescription:  v.GetString("app_description"),
			AppVersion:      v.GetString("app_version"),
			Debug:           v.GetBool("debug"),
			CORSOrigins:     SplitList(v.GetString("cors_origins")),
			TrustedProxies:  SplitList(v.GetString("trusted_proxies")),
			Host:            v.GetString("host"),
			Port:            v.GetInt("port"),
			LogLevel:        strings.ToUpper(v.GetString("log_level")),
			RateLimitRPS:    v.GetFloat64("rate_limit_rps"),
			RateLimitBurst:  v.GetInt("rate_limit_burst"),
			ShutdownTimeout: v.GetDuration("shutdown_timeout"),
			Jobs: JobsConfig{
				Enabled:     v.GetBool("jobs_enabled"),
				CouponSweep: v.GetString("jobs_coupon_sweep"),
				CartSweep:   v.GetString("jobs_cart_sweep"),
				CartTTL:     v.GetDuration("jobs_cart_ttl"),
			},
		},
		Database: DatabaseConfig{
			URL: v.GetString("database_url"),
			Apps: map[string]AppConfig{
				"models": {
					Models:            SplitList(v.GetString("db_models")),
					DefaultConnection: "default",
				},
			},
			DefaultConnection: "default",
			Timezone:          v.GetString("db_timezone"),
			UseTZ:             v.GetBool("db_use_tz"),
			MaxOpenConns:      v.GetInt("db_max_open_conns"),
			MaxIdleConns:      v.GetInt("db_max_idle_conns"),
			ConnMaxLifetime:   v.GetDuration("db_conn_max_lifetime"),
			ConnectTimeout:    v.GetDuration("db_connect_timeout"),
			RequireSchema:     v.GetBool("db_require_schema"),
		},
	}

	if cfg.Settings.LogLevel == "" {
		cfg.Settings.LogLevel = "INFO"
		if cfg.Settings.Debug {
			cfg.Settings.LogLevel = "DEBUG"
		}
	}

	return cfg, nil
}

// Validate checks the application settings. The database URL is not checked
// here; a bad URL surfaces when the connection is opened.
func (s Settings) Validate() error {
	if err := validator.New().Struct(s); err != nil {
		return fmt.Errorf("invalid settings: %w", err)
	}
	return nil
}

// Address returns the host:port the HTTP server binds to
func (s Settings) Address() string {
	return fmt.Sprintf("%s:%d", s.Host, s.Port)
}

// SplitList splits a comma separated value, trimming blanks
func SplitList(raw string) []string {
	var out []string
	for _, part := range strings.Split(raw, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}

func (c *Config) fileValues() map[string]interface{} {
	return map[string]interface{}{
		"app_name":             c.Settings.AppName,
		"app_description":      c.Settings.AppDescription,
		"app_version":          c.Settings.AppVersion,
		"debug":                c.Settings.Debug,
		"cors_origins":         strings.Join(c.Settings.CORSOrigins, ","),
		"trusted_proxies":      strings.Join(c.Settings.TrustedProxies, ","),
		"host":                 c.Settings.Host,
		"port":                 c.Settings.Port,
		"log_level":            c.Settings.LogLevel,
		"rate_limit_rps":       c.Settings.RateLimitRPS,
		"rate_limit_burst":     c.Settings.RateLimitBurst,
		"shutdown_timeout":     c.Settings.ShutdownTimeout.String(),
		"jobs_enabled":         c.Settings.Jobs.Enabled,
		"jobs_coupon_sweep":    c.Settings.Jobs.CouponSweep,
		"jobs_cart_sweep":      c.Settings.Jobs.CartSweep,
		"jobs_cart_ttl":        c.Settings.Jobs.CartTTL.String(),
		"database_url":         c.Database.URL,
		"db_models":            strings.Join(c.Database.Models(), ","),
		"db_timezone":          c.Database.Timezone,
		"db_use_tz":            c.Database.UseTZ,
		"db_max_open_conns":    c.Database.MaxOpenConns,
		"db_max_idle_conns":    c.Database.MaxIdleConns,
		"db_conn_max_lifetime": c.Database.ConnMaxLifetime.String(),
		"db_connect_timeout":   c.Database.ConnectTimeout.String(),
		"db_require_schema":    c.Database.RequireSchema,
	}
}

// Save saves configuration to a YAML file readable by Load
func (c *Config) Save(path string) error {
	data, err := yaml.Marshal(c.fileValues())
	if err != nil {
		return fmt.Errorf("failed to marshal config: %w", err)
	}

	// Create directory if it doesn't exist
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}

	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("failed to write config file: %w", err)
	}

	return nil
}

// GetConfigPath returns the default config file path
func GetConfigPath() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return ".essence/config.yaml"
	}
	return filepath.Join(home, ".essence", "config.yaml")
}

// Exists checks if config file exists
func Exists(path string) bool {
	_, err := os.Stat(path)
	return err == nil
}
