package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"go.uber.org/multierr"
	"go.uber.org/zap"

	"docgate/src/gateway"
	"docgate/src/handles"
	"docgate/src/namespace"
	"docgate/src/server"
	"docgate/src/settings"
)

const appName = "docgate"

// shutdownTimeout bounds how long draining requests and disconnecting
// the driver may take once a signal arrives.
const shutdownTimeout = 10 * time.Second

func main() {
	cfg, err := settings.FromEnv()
	if err != nil {
		fmt.Fprintf(os.Stderr, "configuration error: %v\n", err)
		os.Exit(1)
	}

	logger, err := newLogger(cfg.LogLevel)
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to initialize logger: %v\n", err)
		os.Exit(1)
	}
	defer logger.Sync()
	zap.ReplaceGlobals(logger)
	sugar := logger.Sugar()

	sugar.Infow("starting api gateway")

	client, err := connectClient(cfg)
	if err != nil {
		sugar.Fatalw("failed to create mongodb client", "error", err)
	}

	resolver := namespace.NewResolver(cfg)
	store := handles.NewStore(client)
	service := gateway.NewDocumentService(client, resolver, store)

	srv := server.InitServer(cfg, sugar, service)
	if err := srv.Start(); err != nil {
		sugar.Fatalw("failed to start server", "error", err)
	}

	shutdownSignal := make(chan os.Signal, 1)
	signal.Notify(shutdownSignal, syscall.SIGINT, syscall.SIGTERM)
	<-shutdownSignal
	sugar.Infow("shutdown signal received")

	ctx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := multierr.Append(srv.Stop(ctx), client.Disconnect(ctx)); err != nil {
		sugar.Errorw("shutdown finished with errors", "error", err)
	}
	sugar.Infow("server shutdown complete")
}

// connectClient builds the driver client from the configured URI and
// pool settings. The driver connects lazily; an unreachable deployment
// surfaces on the first operation, not here.
func connectClient(cfg *settings.Settings) (*mongo.Client, error) {
	opts := options.Client().ApplyURI(cfg.MongoURI).SetAppName(appName)
	if cfg.PoolMinSize > 0 {
		opts.SetMinPoolSize(cfg.PoolMinSize)
	}
	if cfg.PoolMaxSize > 0 {
		opts.SetMaxPoolSize(cfg.PoolMaxSize)
	}
	if cfg.ConnectTimeout > 0 {
		opts.SetConnectTimeout(cfg.ConnectTimeout)
	}
	if cfg.ServerSelectionTimeout > 0 {
		opts.SetServerSelectionTimeout(cfg.ServerSelectionTimeout)
	}
	return mongo.Connect(context.Background(), opts)
}

func newLogger(level string) (*zap.Logger, error) {
	parsed, err := zap.ParseAtomicLevel(level)
	if err != nil {
		return nil, fmt.Errorf("invalid log level %q: %w", level, err)
	}
	if parsed.Level() == zap.DebugLevel {
		// Development configuration with more verbose output
		z := zap.NewDevelopmentConfig()
		z.OutputPaths = []string{"stdout"}
		return z.Build()
	}
	z := zap.NewProductionConfig()
	z.Level = parsed
	return z.Build()
}
