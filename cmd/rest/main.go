package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"

	"darwinian-be/internal/bootstrap"
	"darwinian-be/internal/config"
	"darwinian-be/internal/server"
	"darwinian-be/internal/tracer"
)

func main() {
	// 0. Initialize Tracer (no-op unless OTEL_ENABLED=true)
	shutdownTracer := tracer.InitTracer()
	defer shutdownTracer(context.Background())

	// 1. Load Configuration
	cfg := config.Load()

	// 2. Bootstrap Dependencies (Container)
	container, err := bootstrap.NewContainer(cfg)
	if err != nil {
		log.Fatalf("[FATAL] Bootstrap failed: %v", err)
	}
	defer container.Close()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// 3. Start Background Services
	log.Println("Background: Starting Consumer Service...")
	if err := container.Start(ctx); err != nil {
		log.Fatalf("[FATAL] Consumer Service: %v", err)
	}

	// 4. Initialize Server
	srv := server.New(cfg, container)

	go func() {
		<-ctx.Done()
		log.Println("Shutting down...")
		if err := srv.Shutdown(); err != nil {
			log.Printf("Shutdown error: %v", err)
		}
	}()

	// 5. Run Server
	if err := srv.Run(); err != nil {
		log.Printf("Server stopped: %v", err)
	}
}
