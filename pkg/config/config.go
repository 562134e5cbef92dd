// Package config provides unified configuration for the CogniCase server.
//
// Configuration is loaded with a layered approach:
//  1. Built-in defaults
//  2. YAML config file (discovered or explicitly specified)
//  3. Environment variable overrides (COGNICASE_ prefix)
//  4. File reference resolution (_file suffix fields)
//  5. Validation
package config

import "time"

// Config holds all configuration for the CogniCase server.
type Config struct {
	Server        ServerConfig        `yaml:"server"`
	Storage       StorageConfig       `yaml:"storage"`
	Auth          AuthConfig          `yaml:"auth"`
	Mail          MailConfig          `yaml:"mail"`
	Uploads       UploadsConfig       `yaml:"uploads"`
	Observability ObservabilityConfig `yaml:"observability"`
}

// ServerConfig holds HTTP server settings.
type ServerConfig struct {
	Port         int           `yaml:"port" env:"COGNICASE_PORT"`                  // default: 8080
	ReadTimeout  time.Duration `yaml:"read_timeout" env:"COGNICASE_READ_TIMEOUT"`  // default: 30s
	WriteTimeout time.Duration `yaml:"write_timeout" env:"COGNICASE_WRITE_TIMEOUT"` // default: 120s
}

// StorageConfig holds record storage settings.
type StorageConfig struct {
	Type     string         `yaml:"type" env:"COGNICASE_STORAGE"` // "memory" or "postgres", default: "memory"
	Postgres PostgresConfig `yaml:"postgres"`
}

// PostgresConfig holds PostgreSQL-specific settings.
type PostgresConfig struct {
	DSN            string `yaml:"dsn" env:"COGNICASE_POSTGRES_DSN"`
	DSNFile        string `yaml:"dsn_file" env:"COGNICASE_POSTGRES_DSN_FILE"` // _file variant for dsn
	MaxConns       int32  `yaml:"max_conns" env:"COGNICASE_POSTGRES_MAX_CONNS"` // default: 25
	MigrateOnStart bool   `yaml:"migrate_on_start" env:"COGNICASE_POSTGRES_MIGRATE"` // default: false
}

// AuthConfig holds session token settings.
type AuthConfig struct {
	JWTSecret     string        `yaml:"jwt_secret" env:"COGNICASE_JWT_SECRET"`
	JWTSecretFile string        `yaml:"jwt_secret_file" env:"COGNICASE_JWT_SECRET_FILE"` // _file variant for jwt_secret
	SessionTTL    time.Duration `yaml:"session_ttl" env:"COGNICASE_SESSION_TTL"`         // default: 168h
}

// MailConfig holds verification code delivery settings.
type MailConfig struct {
	Delivery string     `yaml:"delivery" env:"COGNICASE_MAIL_DELIVERY"` // "log" or "smtp", default: "log"
	SMTP     SMTPConfig `yaml:"smtp"`
}

// SMTPConfig holds SMTP transport settings.
type SMTPConfig struct {
	Host         string `yaml:"host" env:"COGNICASE_SMTP_HOST"`
	Port         int    `yaml:"port" env:"COGNICASE_SMTP_PORT"` // default: 587
	Username     string `yaml:"username" env:"COGNICASE_SMTP_USERNAME"`
	Password     string `yaml:"password" env:"COGNICASE_SMTP_PASSWORD"`
	PasswordFile string `yaml:"password_file" env:"COGNICASE_SMTP_PASSWORD_FILE"` // _file variant for password
	From         string `yaml:"from" env:"COGNICASE_SMTP_FROM"`
}

// UploadsConfig holds document file storage settings.
type UploadsConfig struct {
	Storage string      `yaml:"storage" env:"COGNICASE_UPLOADS_STORAGE"` // "memory" or "minio", default: "memory"
	MinIO   MinIOConfig `yaml:"minio"`
}

// MinIOConfig holds MinIO object storage settings.
type MinIOConfig struct {
	Endpoint      string `yaml:"endpoint" env:"COGNICASE_MINIO_ENDPOINT"`
	AccessKey     string `yaml:"access_key" env:"COGNICASE_MINIO_ACCESS_KEY"`
	SecretKey     string `yaml:"secret_key" env:"COGNICASE_MINIO_SECRET_KEY"`
	SecretKeyFile string `yaml:"secret_key_file" env:"COGNICASE_MINIO_SECRET_KEY_FILE"` // _file variant for secret_key
	Bucket        string `yaml:"bucket" env:"COGNICASE_MINIO_BUCKET"`                   // default: "cognicase-uploads"
	UseSSL        bool   `yaml:"use_ssl" env:"COGNICASE_MINIO_USE_SSL"`
}

// ObservabilityConfig holds monitoring and instrumentation settings.
type ObservabilityConfig struct {
	Metrics  MetricsConfig `yaml:"metrics"`
	LogLevel string        `yaml:"log_level" env:"COGNICASE_LOG_LEVEL"` // default: "info"
}

// MetricsConfig holds Prometheus metrics endpoint settings.
type MetricsConfig struct {
	Enabled bool   `yaml:"enabled"` // default: true
	Path    string `yaml:"path"`    // default: "/metrics"
}

// Defaults returns a Config with all default values filled in.
func Defaults() Config {
	return Config{
		Server: ServerConfig{
			Port:         8080,
			ReadTimeout:  30 * time.Second,
			WriteTimeout: 120 * time.Second,
		},
		Storage: StorageConfig{
			Type: "memory",
			Postgres: PostgresConfig{
				MaxConns: 25,
			},
		},
		Auth: AuthConfig{
			SessionTTL: 7 * 24 * time.Hour,
		},
		Mail: MailConfig{
			Delivery: "log",
			SMTP: SMTPConfig{
				Port: 587,
			},
		},
		Uploads: UploadsConfig{
			Storage: "memory",
			MinIO: MinIOConfig{
				Bucket: "cognicase-uploads",
			},
		},
		Observability: ObservabilityConfig{
			Metrics: MetricsConfig{
				Enabled: true,
				Path:    "/metrics",
			},
			LogLevel: "info",
		},
	}
}
