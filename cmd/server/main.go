// Command server runs the CogniCase backend.
//
// Configuration is layered: built-in defaults, then a YAML config file
// (via -config, COGNICASE_CONFIG, ./config.yaml, or
// /etc/cognicase/config.yaml), then COGNICASE_* environment variables.
// See pkg/config for the full reference.
package main

import (
	"context"
	"flag"
	"fmt"
	"log/slog"
	"net/http"
	"os"

	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/cognicase/cognicase/pkg/auth"
	"github.com/cognicase/cognicase/pkg/blob"
	blobmemory "github.com/cognicase/cognicase/pkg/blob/memory"
	blobminio "github.com/cognicase/cognicase/pkg/blob/minio"
	"github.com/cognicase/cognicase/pkg/config"
	"github.com/cognicase/cognicase/pkg/mail"
	"github.com/cognicase/cognicase/pkg/storage"
	"github.com/cognicase/cognicase/pkg/storage/memory"
	"github.com/cognicase/cognicase/pkg/storage/postgres"
	"github.com/cognicase/cognicase/pkg/transport"
)

func main() {
	if err := run(); err != nil {
		slog.Error("server failed", "error", err)
		os.Exit(1)
	}
}

func run() error {
	configPath := flag.String("config", "", "path to YAML config file")
	flag.Parse()

	cfg, err := config.Load(*configPath)
	if err != nil {
		return fmt.Errorf("loading config: %w", err)
	}

	logger := newLogger(cfg.Observability.LogLevel)
	slog.SetDefault(logger)

	ctx := context.Background()

	store, err := newStore(ctx, cfg, logger)
	if err != nil {
		return fmt.Errorf("creating store: %w", err)
	}
	defer store.Close()

	blobs, err := newBlobStore(ctx, cfg, logger)
	if err != nil {
		return fmt.Errorf("creating upload store: %w", err)
	}

	mailer, err := newMailer(cfg, logger)
	if err != nil {
		return fmt.Errorf("creating mail sender: %w", err)
	}

	tokens, err := auth.NewTokenIssuer(cfg.Auth.JWTSecret, auth.WithTokenTTL(cfg.Auth.SessionTTL))
	if err != nil {
		return fmt.Errorf("creating token issuer: %w", err)
	}

	authSvc, err := auth.NewService(store, mailer, tokens, auth.WithLogger(logger))
	if err != nil {
		return fmt.Errorf("creating auth service: %w", err)
	}

	router := transport.NewRouter(store, blobs, authSvc,
		auth.Middleware(tokens, store, logger),
		transport.WithLogger(logger),
	)

	mux := http.NewServeMux()
	mux.Handle("/", router.Routes())
	if cfg.Observability.Metrics.Enabled {
		mux.Handle("GET "+cfg.Observability.Metrics.Path, promhttp.Handler())
	}

	srv := transport.NewServer(mux,
		transport.WithAddr(fmt.Sprintf(":%d", cfg.Server.Port)),
		transport.WithTimeouts(cfg.Server.ReadTimeout, cfg.Server.WriteTimeout),
		transport.WithServerLogger(logger),
	)

	return srv.ListenAndServe()
}

func newLogger(level string) *slog.Logger {
	var lvl slog.Level
	switch level {
	case "debug":
		lvl = slog.LevelDebug
	case "warn":
		lvl = slog.LevelWarn
	case "error":
		lvl = slog.LevelError
	default:
		lvl = slog.LevelInfo
	}
	return slog.New(slog.NewJSONHandler(os.Stderr, &slog.HandlerOptions{Level: lvl}))
}

func newStore(ctx context.Context, cfg *config.Config, logger *slog.Logger) (storage.Store, error) {
	switch cfg.Storage.Type {
	case "postgres":
		logger.Info("storage enabled",
			"type", "postgres",
			"max_conns", cfg.Storage.Postgres.MaxConns,
			"migrate_on_start", cfg.Storage.Postgres.MigrateOnStart,
		)
		return postgres.New(ctx, postgres.Config{
			DSN:            cfg.Storage.Postgres.DSN,
			MaxConns:       cfg.Storage.Postgres.MaxConns,
			MigrateOnStart: cfg.Storage.Postgres.MigrateOnStart,
		})
	default:
		logger.Info("storage enabled", "type", "memory")
		return memory.New(), nil
	}
}

func newBlobStore(ctx context.Context, cfg *config.Config, logger *slog.Logger) (blob.Store, error) {
	switch cfg.Uploads.Storage {
	case "minio":
		logger.Info("upload storage enabled",
			"type", "minio",
			"endpoint", cfg.Uploads.MinIO.Endpoint,
			"bucket", cfg.Uploads.MinIO.Bucket,
		)
		return blobminio.New(ctx, blobminio.Config{
			Endpoint:  cfg.Uploads.MinIO.Endpoint,
			AccessKey: cfg.Uploads.MinIO.AccessKey,
			SecretKey: cfg.Uploads.MinIO.SecretKey,
			Bucket:    cfg.Uploads.MinIO.Bucket,
			UseSSL:    cfg.Uploads.MinIO.UseSSL,
		})
	default:
		logger.Info("upload storage enabled", "type", "memory")
		return blobmemory.New(), nil
	}
}

func newMailer(cfg *config.Config, logger *slog.Logger) (mail.Sender, error) {
	switch cfg.Mail.Delivery {
	case "smtp":
		logger.Info("mail delivery enabled",
			"type", "smtp",
			"host", cfg.Mail.SMTP.Host,
			"from", cfg.Mail.SMTP.From,
		)
		return mail.NewSMTPSender(mail.SMTPConfig{
			Host:     cfg.Mail.SMTP.Host,
			Port:     cfg.Mail.SMTP.Port,
			Username: cfg.Mail.SMTP.Username,
			Password: cfg.Mail.SMTP.Password,
			From:     cfg.Mail.SMTP.From,
		})
	default:
		logger.Info("mail delivery enabled", "type", "log")
		return &mail.LogSender{Logger: logger}, nil
	}
}
