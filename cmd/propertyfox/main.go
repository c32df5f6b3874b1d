package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/gofiber/fiber/v2/log"

	"github.com/ManuelReschke/PropertyFox/app/repository"
	"github.com/ManuelReschke/PropertyFox/internal/pkg/audit"
	"github.com/ManuelReschke/PropertyFox/internal/pkg/cache"
	"github.com/ManuelReschke/PropertyFox/internal/pkg/config"
	"github.com/ManuelReschke/PropertyFox/internal/pkg/database"
	"github.com/ManuelReschke/PropertyFox/internal/pkg/env"
	"github.com/ManuelReschke/PropertyFox/internal/pkg/lifecycle"
	"github.com/ManuelReschke/PropertyFox/internal/pkg/locks"
)

// Application holds the wired services for one command run
type Application struct {
	Config *config.Config
	Store  repository.Store
	Trail  *audit.Trail
	Engine *lifecycle.Engine
}

func main() {
	if len(os.Args) < 2 {
		printUsage()
		os.Exit(1)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	app, err := NewApplication()
	if err != nil {
		log.Fatalf("[PropertyFox] %v", err)
	}
	defer cache.Close()

	if err := app.Run(ctx, os.Args[1], os.Args[2:]); err != nil {
		log.Errorf("[PropertyFox] %s failed: %v", os.Args[1], err)
		os.Exit(1)
	}
}

// NewApplication loads the configuration and connects the database and cache
func NewApplication() (*Application, error) {
	env.SetupEnvFile()

	cfg, err := config.Load()
	if err != nil {
		return nil, err
	}

	if err := database.SetupDatabase(cfg.Database, env.IsDev()); err != nil {
		return nil, err
	}
	repository.InitializeFactory(database.GetDB())

	app := &Application{
		Config: cfg,
		Store:  repository.GetGlobalStore(),
		Trail:  audit.NewTrail(nil),
	}
	app.Engine = lifecycle.NewEngine(app.Store, app.Trail)

	if cfg.Cache.Enabled {
		if err := cache.SetupCache(cfg.Cache); err != nil {
			log.Warnf("[PropertyFox] cache unavailable, check-in runs without unit locks: %v", err)
		} else {
			app.Engine.WithLocker(locks.NewUnitLocker(cache.GetClient(), cfg.Cache.LockTTL))
		}
	}

	return app, nil
}

func printUsage() {
	fmt.Println("Usage: propertyfox <command> [args]")
	fmt.Println("Commands:")
	fmt.Println("  seed [demo]                  - install default module maps and permissions, optionally demo data")
	fmt.Println("  modules <tenant-id>          - show the effective and hidden modules of a tenant")
	fmt.Println("  report [tenant-id] [date]    - scan bookings and tenants for anomalies")
	fmt.Println("  checkin <booking-id> <user>  - check a booking in as the given user")
	fmt.Println("  checkout <booking-id> <user> - check a booking out as the given user")
	fmt.Println("  audit [target]               - list audit entries, optionally by target substring")
	fmt.Println("  export [category]            - upload audit entries to the configured S3 bucket")
}
