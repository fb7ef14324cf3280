package main

import (
	"context"
	"log"
	"time"

	"ai-uigen-be/internal/bootstrap"
	"ai-uigen-be/internal/config"
	"ai-uigen-be/internal/server"
	"ai-uigen-be/internal/tracer"
	"ai-uigen-be/pkg/database"
)

func main() {
	// 0. Initialize Tracer (no-op unless OTEL_ENABLED=true)
	shutdownTracer := tracer.InitTracer()
	defer shutdownTracer(context.Background())

	// 1. Load Configuration
	cfg := config.Load()

	// 2. Initialize Database
	gormDB, err := database.NewGormDBFromDSN(cfg.Database.Connection)
	if err != nil {
		log.Panicf("Unable to connect to GORM DB: %v", err)
	}

	// 3. Bootstrap Dependencies (Container)
	container := bootstrap.NewContainer(gormDB, cfg)

	// 4. Start Background Services
	go func() {
		log.Println("Background: Starting Quota Reconciler...")
		if err := container.ReconcilerService.Consume(context.Background()); err != nil {
			log.Printf("Background Reconciler Error: %v", err)
		}
	}()
	container.SessionService.StartCleanupLoop(context.Background(), time.Hour)

	// 5. Initialize Server
	srv := server.New(cfg, container)

	// 6. Run Server
	log.Fatal(srv.Run())
}
