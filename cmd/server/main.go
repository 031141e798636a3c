package main

import (
	"context"
	"fmt"
	"os/signal"
	"syscall"

	"github.com/MKhiriev/go-flock-vault/internal/config"
	myHTTP "github.com/MKhiriev/go-flock-vault/internal/handler/http"
	"github.com/MKhiriev/go-flock-vault/internal/logger"
	"github.com/MKhiriev/go-flock-vault/internal/server"
	"github.com/MKhiriev/go-flock-vault/internal/service"
	"github.com/MKhiriev/go-flock-vault/internal/store"
	"github.com/MKhiriev/go-flock-vault/internal/workers"
)

var (
	buildVersion string
	buildDate    string
	buildCommit  string
)

func main() {
	printBuildInfo()

	log := logger.NewLogger("flock-vault-server")
	cfg, err := config.GetStructuredConfig()
	if err != nil {
		log.Fatal().Err(err).Msg("error getting configs")
	}

	log.Debug().Any("config", cfg).Msg("received configs")

	ctx, stop := signal.NotifyContext(
		context.Background(),
		syscall.SIGTERM,
		syscall.SIGINT,
		syscall.SIGQUIT,
	)
	defer stop()

	driver, err := newDriver(ctx, cfg, log)
	if err != nil {
		log.Fatal().Err(err).Msg("error creating storage driver")
	}

	services := service.NewServices(driver, *cfg, log)
	handler := myHTTP.NewHandler(services, log)

	notifier := workers.NewNotifier(
		services.SubscriptionService,
		workers.NewLogSender(log),
		cfg.Push.Interval,
		log,
	)
	go workers.NewWorkers(notifier).Run(ctx)

	srv, err := server.NewServer(handler, cfg.Server, log)
	if err != nil {
		log.Fatal().Err(err).Msg("error creating server")
	}

	srv.RunServer()
}

// newDriver opens the PostgreSQL backend when a DSN is configured and falls
// back to the in-memory driver otherwise, which is enough for local
// development.
func newDriver(ctx context.Context, cfg *config.StructuredConfig, log *logger.Logger) (store.Driver, error) {
	if cfg.Storage.DB.DSN == "" {
		log.Warn().Msg("no database DSN configured, using in-memory storage")
		return store.NewMemoryDriver(), nil
	}

	db, err := store.NewConnectPostgres(ctx, cfg.Storage.DB, log)
	if err != nil {
		return nil, err
	}
	if err := db.Migrate(); err != nil {
		return nil, err
	}

	return store.NewPostgresDriver(db, log), nil
}

func printBuildInfo() {
	if buildVersion == "" {
		buildVersion = "N/A"
	}

	if buildDate == "" {
		buildDate = "N/A"
	}

	if buildCommit == "" {
		buildCommit = "N/A"
	}

	fmt.Printf("Build version: %s\n", buildVersion)
	fmt.Printf("Build date: %s\n", buildDate)
	fmt.Printf("Build commit: %s\n", buildCommit)
}
