package bootstrap

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/redis/go-redis/v9"

	"github.com/target/xstats/config"
	redisadapter "github.com/target/xstats/internal/adapters/redis"
	"github.com/target/xstats/internal/adapters/xapi"
	"github.com/target/xstats/internal/data"
	"github.com/target/xstats/internal/service"
)

// ServiceDeps contains the infrastructure shared by every service.
type ServiceDeps struct {
	Config      *config.AppConfig
	DB          *sql.DB
	RedisClient redis.UniversalClient
	Logger      *slog.Logger
}

// ServiceContainer holds all initialized services.
type ServiceContainer struct {
	Ingest        *service.IngestService
	Accounts      *service.AccountService
	Observability ObservabilityContainer
}

// serviceRepositories groups data adapters backing service ports.
type serviceRepositories struct {
	Statuses *redisadapter.StatusStore
	Accounts *data.AccountStatsRepo
	Fetcher  *xapi.Client
}

// buildRepositories builds adapters backing service ports; no business rules here.
func buildRepositories(deps *ServiceDeps) (*serviceRepositories, error) {
	cfg := deps.Config
	fetcher, err := xapi.NewClient(xapi.Config{
		BaseURL:     cfg.XAPI.BaseURL,
		BearerToken: cfg.XAPI.BearerToken,
		Timeout:     cfg.XAPI.Timeout,
		BatchLimit:  cfg.Ingest.BatchLimit,
		RPS:         cfg.XAPI.RPS,
		Burst:       cfg.XAPI.Burst,
		Logger:      deps.Logger,
	})
	if err != nil {
		return nil, fmt.Errorf("create x api client: %w", err)
	}

	return &serviceRepositories{
		Statuses: redisadapter.NewStatusStore(deps.RedisClient),
		Accounts: data.NewAccountStatsRepo(deps.DB),
		Fetcher:  fetcher,
	}, nil
}

// NewServices wires adapters into the ingestion and query services.
func NewServices(deps *ServiceDeps) (ServiceContainer, error) {
	if deps == nil || deps.Config == nil {
		return ServiceContainer{}, errors.New("service dependencies are required")
	}
	logger := deps.Logger
	if logger == nil {
		logger = slog.Default()
		deps.Logger = logger
	}

	repos, err := buildRepositories(deps)
	if err != nil {
		return ServiceContainer{}, err
	}
	obs := buildObservability(logger, deps.Config.Observability)

	ingestCfg := deps.Config.Ingest
	return ServiceContainer{
		Ingest: service.NewIngestService(service.IngestServiceOptions{
			Statuses:             repos.Statuses,
			Accounts:             repos.Accounts,
			Fetcher:              repos.Fetcher,
			Logger:               logger,
			Metrics:              obs.Sink,
			StatusTTL:            ingestCfg.StatusTTL,
			BatchTimeout:         ingestCfg.BatchTimeout,
			RunTimeout:           ingestCfg.RunTimeout,
			MaxConcurrentBatches: ingestCfg.MaxConcurrentBatches,
		}),
		Accounts: service.NewAccountService(service.AccountServiceOptions{
			Accounts: repos.Accounts,
			Fetcher:  repos.Fetcher,
			Logger:   logger,
		}),
		Observability: obs,
	}, nil
}

// ServiceOrchestrationConfig contains the runtime dependencies of RunServicesWithShutdown.
type ServiceOrchestrationConfig struct {
	Config      *config.AppConfig
	Services    ServiceContainer
	DB          *sql.DB
	RedisClient redis.UniversalClient
	Logger      *slog.Logger
}

// RunServicesWithShutdown starts the HTTP server and blocks until a shutdown
// signal is received or the server fails.
func RunServicesWithShutdown(cfg *ServiceOrchestrationConfig) error {
	if cfg == nil {
		return errors.New("service orchestration config is required")
	}
	if cfg.Config == nil {
		return errors.New("service orchestration config missing AppConfig")
	}
	logger := cfg.Logger
	if logger == nil {
		logger = slog.Default()
	}

	errCh := make(chan error, 1)
	server := StartHTTPServer(&HTTPServerConfig{
		Config:      cfg.Config,
		Services:    cfg.Services,
		DB:          cfg.DB,
		RedisClient: cfg.RedisClient,
		Logger:      logger,
		ErrCh:       errCh,
	})

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	defer signal.Stop(quit)

	return waitForShutdown(shutdownConfig{
		quit:       quit,
		errCh:      errCh,
		httpServer: server,
		services:   cfg.Services,
		cfg:        cfg.Config,
		logger:     logger,
	})
}

// shutdownConfig contains dependencies for graceful shutdown.
type shutdownConfig struct {
	quit       <-chan os.Signal
	errCh      <-chan error
	httpServer *http.Server
	services   ServiceContainer
	cfg        *config.AppConfig
	logger     *slog.Logger
}

// waitForShutdown waits for shutdown signal or service error.
func waitForShutdown(cfg shutdownConfig) error {
	select {
	case <-cfg.quit:
		cfg.logger.Info("shutting down services...")
		return gracefulStop(cfg)
	case err := <-cfg.errCh:
		cfg.logger.Error("service error", "error", err)
		if stopErr := gracefulStop(cfg); stopErr != nil {
			cfg.logger.Error("graceful stop failed", "error", stopErr)
		}
		return err
	}
}

// gracefulStop stops accepting requests, then waits for in-flight ingestion runs.
func gracefulStop(cfg shutdownConfig) error {
	var errs []error

	if err := ShutdownHTTPServer(ShutdownConfig{
		Context: context.Background(),
		Server:  cfg.httpServer,
		Timeout: cfg.cfg.HTTP.ShutdownTimeout,
		Logger:  cfg.logger,
	}); err != nil {
		errs = append(errs, fmt.Errorf("shutdown http server: %w", err))
	}

	if cfg.services.Ingest != nil {
		ctx, cancel := context.WithTimeout(context.Background(), cfg.cfg.Ingest.ShutdownTimeout)
		defer cancel()
		if err := cfg.services.Ingest.Wait(ctx); err != nil {
			cfg.logger.Warn("timeout waiting for ingestion runs to finish", "error", err)
		} else {
			cfg.logger.Info("ingestion runs drained")
		}
	}

	if err := cfg.services.Observability.Close(); err != nil {
		errs = append(errs, fmt.Errorf("close metrics: %w", err))
	}

	return errors.Join(errs...)
}
