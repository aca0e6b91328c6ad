package main

import (
	"context"
	"fmt"
	"log"
	"net/http"
	"time"

	"github.com/whendid/whendid/internal/api"
	"github.com/whendid/whendid/internal/config"
	"github.com/whendid/whendid/internal/repositories"
)

// @title whendid API
// @version 1.0
// @description Personal event/occurrence tracker with partial-precision timestamps.
func main() {
	repositories.ConnectRedis()

	if err := api.EnsureAdmin(context.Background()); err != nil {
		log.Fatalf("Could not ensure admin account: %v", err)
	}

	mux := api.SetupRouter()

	port := config.Envs.Port
	server := &http.Server{
		Addr:    fmt.Sprintf(":%s", port),
		Handler: mux,
		// Timeouts prevent resource exhaustion from slow clients
		ReadTimeout:  5 * time.Second,
		WriteTimeout: 10 * time.Second,
		IdleTimeout:  120 * time.Second,
	}

	log.Printf("Starting whendid server on port: %s", port)

	if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		log.Fatalf("Could not listen on port %s: %v", port, err)
	}
}
