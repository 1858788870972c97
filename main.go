package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"

	"github.com/aquamarinepk/aqm"
	"github.com/aquamarinepk/aqm/middleware"

	"github.com/ddalicious/cafepos/internal/analytics"
	"github.com/ddalicious/cafepos/internal/archive"
	"github.com/ddalicious/cafepos/internal/menu"
	"github.com/ddalicious/cafepos/internal/order"
	"github.com/ddalicious/cafepos/internal/store"
)

const (
	appNamespace = "CAFEPOS"
	appName      = "cafepos"
	appVersion   = "0.1.0"
)

func main() {
	config, err := aqm.LoadConfig(appNamespace, os.Args[1:])
	if err != nil {
		log.Fatalf("%s(%s) cannot setup: %v", appName, appVersion, err)
	}

	logLevel, _ := config.GetString("log.level")
	logger := aqm.NewLogger(logLevel)

	ctx, stop := signal.NotifyContext(
		context.Background(),
		os.Interrupt,
		syscall.SIGINT,
		syscall.SIGTERM,
		syscall.SIGQUIT,
	)
	defer stop()

	baseStore := store.NewBaseStore(config, logger)
	err = baseStore.Start(ctx)
	if err != nil {
		log.Fatalf("%s(%s) cannot start store: %v", appName, appVersion, err)
	}

	menuRepo := store.NewMenuRepo(baseStore)
	ledgerRepo := store.NewLedgerRepo(baseStore)
	sessionRepo := store.NewSessionRepo(baseStore)

	cart := order.NewCart()
	manager := archive.NewManager(sessionRepo, ledgerRepo, logger)

	menuHandler := menu.NewHandler(menuRepo, menuRepo.DisplayOrder(), config, logger)
	orderHandler := order.NewHandler(cart, ledgerRepo, menuRepo, config, logger)
	archiveHandler := archive.NewHandler(manager, config, logger)
	analyticsHandler := analytics.NewHandler(ledgerRepo, sessionRepo, config, logger)

	// Seed the starter menu on first run when enabled
	demoEnabled, _ := config.GetString("seeding.demo")
	var seedHooks aqm.LifecycleHooks
	if demoEnabled == "true" {
		logger.Info("Starter menu seeding enabled")
		seedHooks = aqm.LifecycleHooks{
			OnStart: menu.SeedingFunc(menuRepo, logger),
		}
	}

	stack := middleware.DefaultStack(middleware.StackOptions{
		Logger: logger,
	})

	lifecycles := []interface{}{
		aqm.LifecycleHooks{OnStop: baseStore.Stop},
	}
	if demoEnabled == "true" {
		lifecycles = append(lifecycles, seedHooks)
	}

	options := []aqm.Option{
		aqm.WithConfig(config),
		aqm.WithLogger(logger),
		aqm.WithHTTPMiddleware(stack...),
		aqm.WithHTTPServerModules("web.port", menuHandler, orderHandler, archiveHandler, analyticsHandler),
		aqm.WithLifecycle(lifecycles...),
		aqm.WithHealthChecks(appName),
	}

	ms := aqm.NewMicro(options...)
	logger.Infof("Starting %s(%s)", appName, appVersion)

	err = ms.Run(ctx)
	if err != nil {
		_ = baseStore.Stop(context.Background())
		log.Fatalf("%s(%s) stopped: %v", appName, appVersion, err)
	}

	logger.Infof("%s(%s) stopped", appName, appVersion)
}
