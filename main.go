package main

import (
	"context"
	"log"
	"os"

	"github.com/example/task-tracker/config"
	"github.com/example/task-tracker/modules/activity"
	"github.com/example/task-tracker/modules/api"
	"github.com/example/task-tracker/modules/session"
	"github.com/example/task-tracker/modules/storage"
	"github.com/example/task-tracker/modules/task"
	gfshutdown "github.com/gelmium/graceful-shutdown"
	"github.com/go-monolith/mono"
)

func main() {
	log.Println("=== Task Tracker ===")

	cfg := config.Load()
	log.Printf("HTTP Port: %d", cfg.HTTPPort)
	log.Printf("Storage Driver: %s", cfg.StorageDriver)

	app, err := mono.NewMonoApplication(
		mono.WithShutdownTimeout(cfg.ShutdownTimeout),
		mono.WithLogLevel(mono.LogLevelInfo),
		mono.WithLogFormat(mono.LogFormatText),
	)
	if err != nil {
		log.Fatalf("Failed to create application: %v", err)
	}

	// Modules implementing UsePluginModule receive the gateway plugin
	// under the "storage" alias.
	if err := app.RegisterPlugin(storage.NewPluginModule(cfg), "storage"); err != nil {
		log.Fatalf("Failed to register storage plugin: %v", err)
	}

	// Order: independent modules first, then modules with dependencies
	modules := []mono.Module{
		session.NewModule(cfg),      // Session controller and preferences
		activity.NewModule(),        // Event consumer (task and session events)
		task.NewModule(cfg),         // Task repository and views (depends on session)
		api.NewModule(cfg.HTTPPort), // Driving adapter (depends on all of the above)
	}
	for _, m := range modules {
		if err := app.Register(m); err != nil {
			log.Fatalf("Failed to register %s module: %v", m.Name(), err)
		}
	}

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
	log.Printf("REST API Endpoints (http://localhost:%d):", cfg.HTTPPort)
	log.Println("  POST   /api/v1/session          - Sign in (returns a bearer token)")
	log.Println("  GET    /api/v1/session          - Current session")
	log.Println("  DELETE /api/v1/session          - Sign out")
	log.Println("  GET    /api/v1/tasks            - List tasks (?search=&status=&category=&sort=)")
	log.Println("  POST   /api/v1/tasks            - Create a task")
	log.Println("  GET    /api/v1/tasks/:id        - Get a task by ID")
	log.Println("  PUT    /api/v1/tasks/:id        - Update a task")
	log.Println("  DELETE /api/v1/tasks/:id        - Delete a task")
	log.Println("  POST   /api/v1/tasks/:id/toggle - Toggle completion")
	log.Println("  GET    /api/v1/preferences      - Read display preferences")
	log.Println("  PUT    /api/v1/preferences      - Change display preferences")
	log.Println("  GET    /api/v1/activity         - Recent activity")
	log.Println("  GET    /health                  - Health check")
	log.Println("")
	log.Println("Press Ctrl+C to shutdown gracefully")
}
