package app

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/spf13/viper"

	"github.com/yungbote/pukpuk-backend/internal/data/db"
)

type Config struct {
	DBDriver    string `mapstructure:"db_driver"`
	MongoURI    string `mapstructure:"mongodb_uri"`
	MongoDB     string `mapstructure:"mongodb_db"`
	PostgresDSN string `mapstructure:"postgres_dsn"`
	SQLitePath  string `mapstructure:"sqlite_path"`

	FirebaseProjectID   string `mapstructure:"firebase_project_id"`
	FirebaseClientEmail string `mapstructure:"firebase_client_email"`
	FirebasePrivateKey  string `mapstructure:"firebase_private_key"`
	FirebaseJWKSURL     string `mapstructure:"firebase_jwks_url"`
	AdminUIDs           string `mapstructure:"admin_uids"`

	RedisAddr        string        `mapstructure:"redis_addr"`
	RedisPassword    string        `mapstructure:"redis_password"`
	RedisDB          int           `mapstructure:"redis_db"`
	ProductsCacheTTL time.Duration `mapstructure:"products_cache_ttl"`

	HTTPAddr              string        `mapstructure:"http_addr"`
	HTTPReadHeaderTimeout time.Duration `mapstructure:"http_read_header_timeout"`
	HTTPShutdownTimeout   time.Duration `mapstructure:"http_shutdown_timeout"`
	CORSOrigins           string        `mapstructure:"cors_origins"`

	LogMode     string `mapstructure:"log_mode"`
	LogFile     string `mapstructure:"log_file"`
	LogHashSalt string `mapstructure:"log_hash_salt"`

	OtelEnabled     bool    `mapstructure:"otel_enabled"`
	OtelServiceName string  `mapstructure:"otel_service_name"`
	OtelEnvironment string  `mapstructure:"otel_environment"`
	OtelEndpoint    string  `mapstructure:"otel_exporter_otlp_endpoint"`
	OtelHeaders     string  `mapstructure:"otel_exporter_otlp_headers"`
	OtelInsecure    bool    `mapstructure:"otel_exporter_otlp_insecure"`
	OtelSampleRatio float64 `mapstructure:"otel_sampler_ratio"`
}

var defaults = map[string]any{
	"db_driver":    db.DriverMongo,
	"mongodb_uri":  "",
	"mongodb_db":   db.DefaultMongoDatabase,
	"postgres_dsn": "",
	"sqlite_path":  "pukpuk.db",

	"firebase_project_id":   "",
	"firebase_client_email": "",
	"firebase_private_key":  "",
	"firebase_jwks_url":     "",
	"admin_uids":            "",

	"redis_addr":         "",
	"redis_password":     "",
	"redis_db":           0,
	"products_cache_ttl": 10 * time.Minute,

	"http_addr":                ":8080",
	"http_read_header_timeout": 5 * time.Second,
	"http_shutdown_timeout":    15 * time.Second,
	"cors_origins":             "",

	"log_mode":      "development",
	"log_file":      "",
	"log_hash_salt": "",

	"otel_enabled":                false,
	"otel_service_name":           "pukpuk",
	"otel_environment":            "",
	"otel_exporter_otlp_endpoint": "",
	"otel_exporter_otlp_headers":  "",
	"otel_exporter_otlp_insecure": false,
	"otel_sampler_ratio":          0.1,
}

// NewViper returns a viper instance with every key defaulted and bound to its
// upper-cased environment variable.
func NewViper() *viper.Viper {
	v := viper.New()
	for key, val := range defaults {
		v.SetDefault(key, val)
	}
	v.AutomaticEnv()
	return v
}

// LoadConfig reads the optional config file (yaml, json or toml by extension)
// and decodes v into a Config. Environment variables win over the file.
func LoadConfig(v *viper.Viper, file string) (Config, error) {
	if file = strings.TrimSpace(file); file != "" {
		v.SetConfigFile(file)
		if err := v.ReadInConfig(); err != nil {
			return Config{}, fmt.Errorf("read config %s: %w", file, err)
		}
	}
	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return Config{}, fmt.Errorf("decode config: %w", err)
	}
	cfg.DBDriver = strings.ToLower(strings.TrimSpace(cfg.DBDriver))
	cfg.FirebasePrivateKey = strings.ReplaceAll(cfg.FirebasePrivateKey, `\n`, "\n")
	if err := cfg.validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

func (c Config) validate() error {
	switch c.DBDriver {
	case db.DriverMongo, db.DriverPostgres, db.DriverSQLite:
	default:
		return fmt.Errorf("unknown DB_DRIVER %q", c.DBDriver)
	}
	if c.RedisDB < 0 {
		return errors.New("REDIS_DB must not be negative")
	}
	if c.ProductsCacheTTL < 0 {
		return errors.New("PRODUCTS_CACHE_TTL must not be negative")
	}
	return nil
}

func (c Config) AdminUIDList() []string { return splitList(c.AdminUIDs) }

func (c Config) CORSOriginList() []string { return splitList(c.CORSOrigins) }

func splitList(raw string) []string {
	var out []string
	for _, part := range strings.FieldsFunc(raw, func(r rune) bool { return r == ',' || r == ' ' }) {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}
