package app

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"countryfx/internal/adapters"
	"countryfx/internal/adapters/cache"
	"countryfx/internal/adapters/httpclient"
	"countryfx/internal/adapters/postgres"
	"countryfx/internal/adapters/sqlite"
	"countryfx/internal/adapters/summary"
	"countryfx/internal/api"
	"countryfx/internal/config"
	"countryfx/internal/country"
	"countryfx/internal/country/handler"
	"countryfx/internal/platform/db"
	httpserver "countryfx/internal/platform/http"

	"github.com/sirupsen/logrus"
)

// Run wires the application components, starts HTTP server and the optional scheduler
func Run() error {
	appCfg, err := config.Init()
	if err != nil {
		return err
	}
	// Logger
	logrus.SetOutput(os.Stdout)
	if parsedLvl, parseErr := logrus.ParseLevel(appCfg.Logging.Level); parseErr != nil {
		logrus.SetLevel(logrus.InfoLevel)
	} else {
		logrus.SetLevel(parsedLvl)
	}
	logrus.Info("✅ Config initialization successful")

	// Root context bound to OS signals for graceful shutdown
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// Bounded context for startup operations (DB connect, migrations)
	startupCtx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()

	store, closeStore, err := openStore(startupCtx, appCfg.DbServer)
	if err != nil {
		logrus.WithError(err).Error("Error opening country store")
		return err
	}
	defer closeStore()

	// Base HTTP client (configurable timeout)
	fetchTimeout := time.Duration(appCfg.HTTPClient.TimeoutSeconds) * time.Second
	if fetchTimeout <= 0 {
		fetchTimeout = country.DefaultFetchTimeout
	}
	baseHTTPClient := &http.Client{Timeout: fetchTimeout}

	// External clients
	countriesClient := httpclient.NewCountriesClient(baseHTTPClient, appCfg.ExternalAPIs.CountriesURL)
	ratesClient := httpclient.NewExchangeRateClient(baseHTTPClient, appCfg.ExternalAPIs.ExchangeRatesURL)

	// Summary image renderer and cache
	renderer, err := summary.NewPNGRenderer(appCfg.Cache.ImagePath)
	if err != nil {
		logrus.WithError(err).Error("Failed to create summary renderer")
		return err
	}
	images, err := cache.NewImageCache(appCfg.Cache.ImagePath, appCfg.Cache.MaxBytes)
	if err != nil {
		logrus.WithError(err).Error("Failed to create image cache")
		return err
	}
	defer images.Close()

	// Services
	refresher := country.NewRefresher(countriesClient, ratesClient, store, renderer, images, nil, fetchTimeout)
	service := country.NewService(store, images, appCfg.Cache.ImagePath)

	if interval := time.Duration(appCfg.Scheduler.RefreshIntervalSeconds) * time.Second; interval > 0 {
		scheduler := country.NewScheduler(refresher, interval)
		// Ensure scheduler stops before the store closes
		defer func() {
			if shutDownErr := scheduler.Shutdown(); shutDownErr != nil {
				logrus.Errorf("Scheduler shutdown error: %v", shutDownErr)
			}
		}()
		if startErr := scheduler.Start(ctx); startErr != nil {
			logrus.WithError(startErr).Error("Failed to start scheduler")
			return startErr
		}
		logrus.Infof("✅ Scheduler activation successful, refresh every %s", interval)
	}

	// Handlers and router
	countryHandler := handler.NewCountryHandler(service, refresher)
	router := api.NewRouter(countryHandler)

	logrus.Info("Starting http server")
	// Block until context is canceled, then perform graceful shutdown.
	if serverErr := httpserver.Start(ctx, appCfg.HTTPServer, router); serverErr != nil {
		// Cancel the root context to stop scheduler and other in-flight work
		stop()
		logrus.Errorf("HTTP server error: %v", serverErr)
		return serverErr
	}
	return nil
}

// openStore connects the configured backend and applies migrations when enabled.
func openStore(ctx context.Context, cfg config.DbServer) (adapters.CountryStore, func(), error) {
	switch cfg.Driver {
	case config.DriverSQLite:
		gdb, err := db.OpenSQLite(cfg.GetConnectionStr())
		if err != nil {
			return nil, nil, err
		}
		closeFn := func() {
			if sqlDB, dbErr := gdb.DB(); dbErr == nil {
				_ = sqlDB.Close()
			}
		}
		if cfg.AutoMigrate {
			if err = sqlite.Migrate(gdb); err != nil {
				closeFn()
				return nil, nil, err
			}
		}
		logrus.Info("✅ SQLite store ready")
		return sqlite.NewCountryRepository(gdb), closeFn, nil

	case config.DriverPostgres:
		pool, err := db.CreatePoolAndPing(ctx, cfg)
		if err != nil {
			return nil, nil, err
		}
		logrus.Info("✅ Postgres connection successful")
		if cfg.AutoMigrate {
			if err = db.Migrate(ctx, pool); err != nil {
				pool.Close()
				return nil, nil, err
			}
			logrus.Info("✅ Migrations applied")
		}
		return postgres.NewCountryRepository(pool), pool.Close, nil

	default:
		return nil, nil, fmt.Errorf("unsupported db driver %q", cfg.Driver)
	}
}
