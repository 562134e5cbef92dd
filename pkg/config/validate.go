package config

import (
	"errors"
	"fmt"
)

// Validate checks the configuration for required fields and valid values.
// Returns an error with a descriptive field path on failure.
func (c *Config) Validate() error {
	var errs []error

	// auth.jwt_secret is required to sign sessions.
	if c.Auth.JWTSecret == "" && c.Auth.JWTSecretFile == "" {
		errs = append(errs, fmt.Errorf("auth.jwt_secret or auth.jwt_secret_file is required"))
	}

	if c.Auth.SessionTTL <= 0 {
		errs = append(errs, fmt.Errorf("auth.session_ttl must be > 0, got %s", c.Auth.SessionTTL))
	}

	// server.port must be positive.
	if c.Server.Port <= 0 {
		errs = append(errs, fmt.Errorf("server.port must be > 0, got %d", c.Server.Port))
	}

	// storage.type must be a known value.
	switch c.Storage.Type {
	case "memory", "postgres":
		// valid
	default:
		errs = append(errs, fmt.Errorf("storage.type must be \"memory\" or \"postgres\", got %q", c.Storage.Type))
	}

	// If storage.type is "postgres", DSN or DSNFile must be set.
	if c.Storage.Type == "postgres" {
		if c.Storage.Postgres.DSN == "" && c.Storage.Postgres.DSNFile == "" {
			errs = append(errs, fmt.Errorf("storage.postgres.dsn or storage.postgres.dsn_file is required when storage.type is \"postgres\""))
		}
	}

	// mail.delivery must be a known value.
	switch c.Mail.Delivery {
	case "log", "smtp":
		// valid
	default:
		errs = append(errs, fmt.Errorf("mail.delivery must be \"log\" or \"smtp\", got %q", c.Mail.Delivery))
	}

	// If mail.delivery is "smtp", the transport needs host and sender.
	if c.Mail.Delivery == "smtp" {
		if c.Mail.SMTP.Host == "" {
			errs = append(errs, fmt.Errorf("mail.smtp.host is required when mail.delivery is \"smtp\""))
		}
		if c.Mail.SMTP.From == "" {
			errs = append(errs, fmt.Errorf("mail.smtp.from is required when mail.delivery is \"smtp\""))
		}
	}

	// uploads.storage must be a known value.
	switch c.Uploads.Storage {
	case "memory", "minio":
		// valid
	default:
		errs = append(errs, fmt.Errorf("uploads.storage must be \"memory\" or \"minio\", got %q", c.Uploads.Storage))
	}

	// If uploads.storage is "minio", the client needs an endpoint.
	if c.Uploads.Storage == "minio" {
		if c.Uploads.MinIO.Endpoint == "" {
			errs = append(errs, fmt.Errorf("uploads.minio.endpoint is required when uploads.storage is \"minio\""))
		}
	}

	// observability.log_level must be a known value.
	switch c.Observability.LogLevel {
	case "debug", "info", "warn", "error":
		// valid
	default:
		errs = append(errs, fmt.Errorf("observability.log_level must be \"debug\", \"info\", \"warn\", or \"error\", got %q", c.Observability.LogLevel))
	}

	return errors.Join(errs...)
}
