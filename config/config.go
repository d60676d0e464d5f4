package config

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/spf13/viper"
)

var ErrMissingJWTSecret = errors.New("JWT_OAUTH_SECRET is required")

// Config holds application configuration loaded from files and environment variables.
type Config struct {
	Env      string   `mapstructure:"env"`
	LogLevel string   `mapstructure:"log_level"`
	HTTP     HTTP     `mapstructure:"http"`
	DB       DB       `mapstructure:"database"`
	Redis    Redis    `mapstructure:"redis"`
	MinIO    MinIO    `mapstructure:"minio"`
	Auth     Auth     `mapstructure:"auth"`
	Metrics  Metrics  `mapstructure:"metrics"`
	Daily    Daily    `mapstructure:"daily"`
	Features Features `mapstructure:"features"`
}

type HTTP struct {
	Port int `mapstructure:"port"`
}

// DB selects the storage driver. URL wins over the individual postgres fields.
type DB struct {
	Driver     string `mapstructure:"driver"` // postgres | sqlite
	URL        string `mapstructure:"url"`
	Host       string `mapstructure:"host"`
	Port       string `mapstructure:"port"`
	User       string `mapstructure:"user"`
	Password   string `mapstructure:"password"`
	Name       string `mapstructure:"name"`
	SSLMode    string `mapstructure:"sslmode"`
	TimeZone   string `mapstructure:"timezone"`
	SqlitePath string `mapstructure:"sqlite_path"`
}

// DSN returns the postgres connection string.
func (db DB) DSN() string {
	if db.URL != "" {
		return db.URL
	}
	return fmt.Sprintf("host=%s user=%s password=%s dbname=%s port=%s sslmode=%s TimeZone=%s",
		db.Host, db.User, db.Password, db.Name, db.Port, db.SSLMode, db.TimeZone)
}

type Redis struct {
	Addr     string `mapstructure:"addr"`
	Password string `mapstructure:"password"`
	DB       int    `mapstructure:"db"`
}

type MinIO struct {
	Endpoint      string `mapstructure:"endpoint"`
	AccessKey     string `mapstructure:"access_key"`
	SecretKey     string `mapstructure:"secret_key"`
	Bucket        string `mapstructure:"bucket"`
	UseSSL        bool   `mapstructure:"use_ssl"`
	PublicBaseURL string `mapstructure:"public_base_url"`
}

type Auth struct {
	JWTSecret         string        `mapstructure:"jwt_secret"`
	AccessTokenTTL    time.Duration `mapstructure:"access_token_ttl"`
	AdminSecretCode   string        `mapstructure:"admin_secret_code"`
	DefaultAdminEmail string        `mapstructure:"default_admin_email"`
	DefaultAdminPass  string        `mapstructure:"default_admin_password"`
}

type Metrics struct {
	Port int `mapstructure:"port"`
}

// Daily configures the daily challenge. Timezone decides where a calendar day starts.
type Daily struct {
	Timezone string `mapstructure:"timezone"`
	Size     int    `mapstructure:"size"`
}

// Location resolves Timezone, falling back to UTC.
func (d Daily) Location() *time.Location {
	if d.Timezone == "" {
		return time.UTC
	}
	loc, err := time.LoadLocation(d.Timezone)
	if err != nil {
		return time.UTC
	}
	return loc
}

// Features toggles optional infrastructure.
type Features struct {
	Redis   bool `mapstructure:"redis"`
	MinIO   bool `mapstructure:"minio"`
	Metrics bool `mapstructure:"metrics"`
}

// Load reads configuration from config files and environment variables.
func Load() (*Config, error) {
	v := viper.New()
	v.SetConfigName("config")
	v.SetConfigType("yaml")
	v.AddConfigPath("./config")

	setDefaults(v)

	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	// Names the deployment already exports.
	_ = v.BindEnv("env", "APP_ENV")
	_ = v.BindEnv("log_level", "LOG_LEVEL")
	_ = v.BindEnv("http.port", "HTTP_PORT")
	_ = v.BindEnv("database.driver", "DB_DRIVER")
	_ = v.BindEnv("database.url", "DATABASE_URL")
	_ = v.BindEnv("database.host", "DB_HOST")
	_ = v.BindEnv("database.port", "DB_PORT")
	_ = v.BindEnv("database.user", "DB_USER")
	_ = v.BindEnv("database.password", "DB_PASSWORD")
	_ = v.BindEnv("database.name", "DB_NAME")
	_ = v.BindEnv("database.sslmode", "DB_SSLMODE")
	_ = v.BindEnv("database.timezone", "DB_TIMEZONE")
	_ = v.BindEnv("database.sqlite_path", "DB_DATABASE")
	_ = v.BindEnv("redis.addr", "REDIS_ADDR")
	_ = v.BindEnv("redis.password", "REDIS_PASSWORD")
	_ = v.BindEnv("redis.db", "REDIS_DB")
	_ = v.BindEnv("minio.endpoint", "MINIO_ENDPOINT")
	_ = v.BindEnv("minio.access_key", "MINIO_ACCESS_KEY")
	_ = v.BindEnv("minio.secret_key", "MINIO_SECRET_KEY")
	_ = v.BindEnv("minio.bucket", "MINIO_BUCKET_NAME")
	_ = v.BindEnv("minio.use_ssl", "MINIO_USE_SSL")
	_ = v.BindEnv("minio.public_base_url", "MINIO_PUBLIC_URL")
	_ = v.BindEnv("auth.jwt_secret", "JWT_OAUTH_SECRET")
	_ = v.BindEnv("auth.admin_secret_code", "ADMIN_SECRET_CODE")
	_ = v.BindEnv("metrics.port", "PROMETHEUS_PORT")
	_ = v.BindEnv("daily.timezone", "DAILY_TIMEZONE")

	if err := v.ReadInConfig(); err != nil {
		var fileLookupErr viper.ConfigFileNotFoundError
		if !errors.As(err, &fileLookupErr) {
			return nil, fmt.Errorf("error loading config file: %w", err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("error unmarshalling config: %w", err)
	}

	if cfg.Auth.JWTSecret == "" {
		return nil, ErrMissingJWTSecret
	}
	if cfg.Daily.Size <= 0 {
		cfg.Daily.Size = 5
	}

	return &cfg, nil
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("env", "local")
	v.SetDefault("log_level", "INFO")
	v.SetDefault("http.port", 8000)

	v.SetDefault("database.driver", "postgres")
	v.SetDefault("database.url", "")
	v.SetDefault("database.host", "localhost")
	v.SetDefault("database.port", "5432")
	v.SetDefault("database.user", "postgres")
	v.SetDefault("database.password", "postgres")
	v.SetDefault("database.name", "codequest")
	v.SetDefault("database.sslmode", "disable")
	v.SetDefault("database.timezone", "UTC")
	v.SetDefault("database.sqlite_path", "codequest.db")

	v.SetDefault("redis.addr", "localhost:6379")
	v.SetDefault("redis.password", "")
	v.SetDefault("redis.db", 0)

	v.SetDefault("minio.endpoint", "localhost:9000")
	v.SetDefault("minio.access_key", "admin")
	v.SetDefault("minio.secret_key", "password123")
	v.SetDefault("minio.bucket", "codequest")
	v.SetDefault("minio.use_ssl", false)
	v.SetDefault("minio.public_base_url", "http://localhost:9000")

	v.SetDefault("auth.jwt_secret", "")
	v.SetDefault("auth.access_token_ttl", "24h")
	v.SetDefault("auth.admin_secret_code", "")
	v.SetDefault("auth.default_admin_email", "admin@codequest.dev")
	v.SetDefault("auth.default_admin_password", "admin123")

	v.SetDefault("metrics.port", 2112)

	v.SetDefault("daily.timezone", "UTC")
	v.SetDefault("daily.size", 5)

	v.SetDefault("features.redis", true)
	v.SetDefault("features.minio", true)
	v.SetDefault("features.metrics", true)
}
