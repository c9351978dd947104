package main

import (
	"context"
	"errors"
	"io"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"homeboy/internal/config"
	"homeboy/internal/handlers"
	"homeboy/internal/ironcache"
	"homeboy/internal/logger"
	"homeboy/internal/metrics"
	"homeboy/internal/repository"
	"homeboy/internal/repository/db"
	"homeboy/internal/server"
	"homeboy/internal/service"
)

const shutdownTimeout = 10 * time.Second

func main() {
	// load config.yml
	loader := config.NewLoader("configs", ".")
	cfg, err := loader.Load()
	if err != nil {
		logger.Get(logger.InfoLevel).Fatalw("error reading config", "err", err)
	}

	// init logger
	log := logger.Get(cfg.Log.Level)
	log.Infow("config_loaded", "file", loader.UsedFile(), "store", cfg.Store.Driver)

	loader.Watch(func(c *config.Config) {
		if c.Log.Level != log.Level() {
			log.SetLevel(c.Log.Level)
			log.Infow("log_level_changed", "level", log.Level())
		}
	}, func(err error) {
		log.Warnw("config_reload_failed", "err", err)
	})

	// open config store
	repos, closer, err := openStore(cfg.Store)
	if err != nil {
		log.Fatalw("failed to open config store", "driver", cfg.Store.Driver, "err", err)
	}
	defer func() {
		if cerr := closer.Close(); cerr != nil {
			log.Errorw("failed to close config store", "err", cerr)
		}
	}()

	// wire dependencies
	m := metrics.NewHandler()
	httpClient := &http.Client{Transport: metrics.Intercept(m, http.DefaultTransport)}
	reader := ironcache.NewClient(httpClient, cfg.Cache.Endpoint, cfg.Cache.RequestTimeout)
	services := service.NewService(repos, reader, log, m)
	apiHandler := handlers.NewHandler(services, log,
		handlers.WithToken(cfg.HTTP.Token),
		handlers.WithMetrics(m.HttpHandler()),
	)

	// context for background goroutines
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// start poll loop before the first Reload so it is not missed
	go services.Poller.Run(ctx)

	loadDashboardConfig(ctx, services, cfg.Dashboard.SeedFile, log)

	// start HTTP server
	srv := &server.Server{}
	runHTTPServer(srv, cfg.HTTP.Port, apiHandler, log)

	// graceful shutdown
	waitForShutdown(cancel, srv, log)
}

// openStore opens the configured backend for the dashboard config blob.
func openStore(c config.StoreConfig) (*repository.Repository, io.Closer, error) {
	switch c.Driver {
	case config.DriverRedis:
		rdb := db.InitRedis(db.RedisOptions{
			Addr:     c.Redis.Addr,
			Password: c.Redis.Password,
			DB:       c.Redis.DB,
		})
		return repository.NewRedisRepository(rdb, c.Redis.Key), rdb, nil
	default:
		sqlDB, err := db.InitDB(c.SQLite.Path)
		if err != nil {
			return nil, nil, err
		}
		return repository.NewRepository(sqlDB), sqlDB, nil
	}
}

// loadDashboardConfig restores the stored dashboard config. A stored config
// that no longer validates leaves the service in config-entry mode; an
// unreachable store is fatal. With nothing stored the seed file, if any, is
// submitted.
func loadDashboardConfig(ctx context.Context, services *service.Service, seedFile string, log *logger.Logger) {
	loaded, err := services.Configuration.Load(ctx)
	var cerr *service.ConfigError
	switch {
	case errors.As(err, &cerr):
		log.Warnw("stored_config_invalid", "err", err)
		return
	case err != nil:
		log.Fatalw("failed to load dashboard config", "err", err)
	}
	if loaded || seedFile == "" {
		return
	}

	raw, err := os.ReadFile(seedFile)
	if err != nil {
		log.Warnw("seed_file_unreadable", "file", seedFile, "err", err)
		return
	}
	if _, err := services.Configuration.Submit(ctx, raw); err != nil {
		log.Warnw("seed_file_rejected", "file", seedFile, "err", err)
		return
	}
	log.Infow("seed_file_applied", "file", seedFile)
}

// runHTTPServer runs the HTTP server in a separate goroutine.
func runHTTPServer(srv *server.Server, port string, handler *handlers.Handler, log *logger.Logger) {
	go func() {
		log.Infow("http_server_starting", "port", port)
		if err := srv.Run(port, handler.InitRoutes()); err != nil {
			log.Fatalw("error starting server", "err", err)
		}
	}()
}

// waitForShutdown listens for termination signals and performs graceful shutdown.
func waitForShutdown(cancel context.CancelFunc, srv *server.Server, log *logger.Logger) {
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Infow("shutting down server...")

	// stop the poll loop
	cancel()

	// allow in-flight requests to complete
	ctx, shutdownCancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer shutdownCancel()

	if err := srv.Shutdown(ctx); err != nil {
		log.Errorw("server forced to shutdown", "err", err)
	}
}
