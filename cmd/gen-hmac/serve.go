package main

import (
	"context"
	"fmt"
	"io"

	"github.com/openpay/hmac-tools/api"
	"github.com/openpay/hmac-tools/db"
	"github.com/openpay/hmac-tools/entry"
	"github.com/openpay/hmac-tools/hmac"
	"github.com/openpay/hmac-tools/payment"
	"github.com/openpay/hmac-tools/rmq"
	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"
)

var serveFlagKeys = map[string]string{
	"hmac.secret":                  "secret",
	"server.host":                  "host",
	"server.port":                  "port",
	"server.grpc_port":             "grpc-port",
	"server.rate_limit_per_minute": "rate-limit",
}

func newServeCmd(opts *globalOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Run a local backend that verifies X-HMAC headers",
		Long: `Run a local stand-in for the payment API's /pay and /collect endpoints.

Requests must carry an Idempotency-Key header and an X-HMAC header computed over the
raw body followed by that key. Idempotency keys are stored in postgres when
database.host is configured (in memory otherwise), and accepted transactions are
published to RabbitMQ when rabbitmq.host is configured (logged otherwise).

Every route except /health requires an X-Client-Id header, and each client may make
--rate-limit requests per minute. GET /transaction/{id}/status reports the status of
an accepted transaction.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := checkSecretFlag(cmd); err != nil {
				return err
			}
			app := opts.newApplication(cmd)
			defer app.Stop()

			cfg, err := loadConfig(opts.configFile, cmd.Flags(), serveFlagKeys)
			if err != nil {
				return err
			}
			return runServe(app, cfg)
		},
	}

	cmd.Flags().String("secret", "", "Shared HMAC secret (default $OPENPAY_HMAC_SECRET)")
	cmd.Flags().String("host", "127.0.0.1", "Host to bind to")
	cmd.Flags().Int("port", 8080, "HTTP port to listen on")
	cmd.Flags().Int("grpc-port", 0, "Port for the gRPC health service (0 to disable)")
	cmd.Flags().Int("rate-limit", api.DefaultRequestsPerMinute, "Requests allowed per minute for each X-Client-Id")
	return cmd
}

func runServe(app entry.Application, cfg *Config) error {
	ctx := app.Context()

	secret := cfg.HMAC.Secret
	if secret == "" {
		app.Log().Warn("No secret configured; using the local development secret")
		secret = payment.DevelopmentSecret
	}

	keys, closeKeys, err := openKeyStore(ctx, app, cfg.Database)
	if err != nil {
		return err
	}
	defer closeKeys.Close()

	publisher, closePublisher, err := openPublisher(app, cfg.RabbitMQ)
	if err != nil {
		return err
	}
	defer closePublisher.Close()

	srv := api.NewServer(hmac.NewVerifier(secret), keys, publisher, cfg.Server.RateLimitPerMinute)
	if err := srv.SeedTransactionIDs(ctx); err != nil {
		return fmt.Errorf("failed to load last transaction ID: %w", err)
	}

	var wg errgroup.Group
	wg.Go(func() error {
		entry.RunServer(app, srv, cfg.Server.Host, cfg.Server.Port)
		return nil
	})
	if cfg.Server.GRPCPort != 0 {
		grpcServer, healthServer := entry.NewGRPCServer(app.Log())
		wg.Go(func() error {
			if err := entry.RunGRPCServer(ctx, app.Log(), grpcServer, healthServer, cfg.Server.Host, cfg.Server.GRPCPort); err != nil {
				app.Fail("error running gRPC server", err)
			}
			return nil
		})
	}
	return wg.Wait()
}

type nopCloser struct{}

func (nopCloser) Close() error { return nil }

func openKeyStore(ctx context.Context, app entry.Application, cfg DatabaseConfig) (api.KeyStore, io.Closer, error) {
	if cfg.Host == "" {
		app.Log().Info("No database configured; idempotency keys will be kept in memory")
		return api.NewMemoryKeyStore(), nopCloser{}, nil
	}

	uri := db.FormatConnectionString(cfg.Host, cfg.Port, cfg.Name, cfg.User, cfg.Password, cfg.SSLMode)
	conn, err := db.Open(ctx, uri)
	if err != nil {
		return nil, nil, err
	}
	if err := db.EnsureSchema(ctx, conn); err != nil {
		conn.Close()
		return nil, nil, err
	}
	app.Log().Info("Connected to database", "host", cfg.Host, "port", cfg.Port, "dbname", cfg.Name)
	return db.NewIdempotencyStore(conn), conn, nil
}

func openPublisher(app entry.Application, cfg RabbitMQConfig) (api.Publisher, io.Closer, error) {
	if cfg.Host == "" {
		app.Log().Info("No RabbitMQ server configured; accepted transactions will only be logged")
		return api.LogPublisher{}, nopCloser{}, nil
	}

	conn, err := rmq.Connect(cfg.Host, cfg.Port, cfg.VHost, cfg.User, cfg.Password)
	if err != nil {
		return nil, nil, err
	}
	producer, err := rmq.TransactionsQueue.NewProducer(conn)
	if err != nil {
		conn.Close()
		return nil, nil, fmt.Errorf("failed to initialize producer: %w", err)
	}
	app.Log().Info("Connected to RabbitMQ", "host", cfg.Host, "queue", rmq.TransactionsQueue.Name)
	return rmq.NewTransactionPublisher(producer), conn, nil
}
