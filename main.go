package main

import (
	"context"
	"log"
	"os"

	"github.com/example/event-planner/config"
	"github.com/example/event-planner/database"
	"github.com/example/event-planner/modules/api"
	"github.com/example/event-planner/modules/audit"
	"github.com/example/event-planner/modules/auth"
	"github.com/example/event-planner/modules/cache"
	"github.com/example/event-planner/modules/category"
	"github.com/example/event-planner/modules/event"
	gfshutdown "github.com/gelmium/graceful-shutdown"
	"github.com/go-monolith/mono"
)

func main() {
	log.Println("=== Event Planner ===")

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	db, err := database.Open(cfg.DBPath, cfg.DBDebug)
	if err != nil {
		log.Fatalf("Failed to open database: %v", err)
	}
	log.Printf("Database: %s", cfg.DBPath)

	app, err := mono.NewMonoApplication(
		mono.WithShutdownTimeout(cfg.ShutdownTimeout),
		mono.WithLogLevel(mono.LogLevelInfo),
		mono.WithLogFormat(mono.LogFormatText),
	)
	if err != nil {
		log.Fatalf("Failed to create application: %v", err)
	}

	// Without REDIS_ADDR the plugin falls back to a no-op cache.
	cachePlugin := cache.NewPluginModule(cfg.RedisAddr, "category:", cfg.CacheTTL)
	if err := app.RegisterPlugin(cachePlugin, "cache"); err != nil {
		log.Fatalf("Failed to register cache plugin: %v", err)
	}

	// Order: independent modules first, then dependent modules
	app.Register(auth.NewModule(cfg, db))
	app.Register(category.NewModule(db))
	app.Register(event.NewModule(db)) // Depends on category
	app.Register(audit.NewModule(audit.DefaultCapacity))
	app.Register(api.NewModule(cfg)) // Depends on everything above

	if err := app.Start(context.Background()); err != nil {
		log.Fatalf("Failed to start application: %v", err)
	}

	printStartupInfo(cfg)

	wait := gfshutdown.GracefulShutdown(
		context.Background(),
		cfg.ShutdownTimeout,
		map[string]gfshutdown.Operation{
			"mono-app": func(ctx context.Context) error {
				log.Println("Graceful shutdown initiated...")
				return app.Stop(ctx)
			},
			"database": func(context.Context) error {
				return database.Close(db)
			},
		},
	)

	exitCode := <-wait
	log.Printf("Application exited with code: %d", exitCode)
	os.Exit(exitCode)
}

func printStartupInfo(cfg config.Config) {
	log.Println("")
	log.Println("Application started successfully!")
	log.Println("")
	log.Printf("REST API Endpoints (%s):", cfg.HTTPAddr)
	log.Println("")
	log.Println("  Public Endpoints:")
	log.Println("  POST   /register              - Register a new user")
	log.Println("  POST   /login                 - Login and get tokens")
	log.Println("  POST   /refresh               - New access token (Bearer <refresh token>)")
	log.Println("  GET    /categories            - List categories")
	log.Println("  POST   /categories            - Create a category")
	log.Println("  GET    /categories/:id        - Get a category")
	log.Println("  GET    /health                - Health check")
	log.Println("")
	log.Println("  Protected Endpoints (require Bearer token):")
	log.Println("  GET    /me                    - Current user profile")
	log.Println("  GET    /events                - List your events")
	log.Println("  POST   /events                - Create an event")
	log.Println("  GET    /events/:id            - Get one of your events")
	log.Println("  PUT    /events/:id            - Update one of your events")
	log.Println("  DELETE /events/:id            - Delete one of your events")
	log.Println("")
	log.Println("  Admin Endpoints (require admin role):")
	log.Println("  PATCH  /admin/users/:id       - Change roles or deactivate a user")
	log.Println("  GET    /admin/activity        - Recent account and event activity")
	log.Println("")
	log.Println("Press Ctrl+C to shutdown gracefully")
}
