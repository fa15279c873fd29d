package main

import (
	"context"
	"errors"
	"log"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/DeadlyParkour777/cpp-simulator/cmd/app"
	"github.com/DeadlyParkour777/cpp-simulator/internal/config"
)

func main() {
	cfg := config.ConfigInit()
	log.Println("Configuration loaded")

	server, err := app.New(cfg)
	if err != nil {
		log.Fatalf("Failed to create API server: %v", err)
	}
	log.Println("API Server created")

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	done := make(chan struct{})
	go func() {
		defer close(done)
		<-ctx.Done()
		log.Println("Shutting down API server")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		if err := server.Shutdown(shutdownCtx); err != nil {
			log.Printf("Failed to shut down cleanly: %v", err)
		}
	}()

	if err := server.Run(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		log.Fatalf("Failed to run API server: %v", err)
	}
	<-done
}
