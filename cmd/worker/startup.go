package main

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"net/http"
	"time"

	"golang.org/x/sync/errgroup"

	"resursbank-gateway/pkg/container"
)

// startServices runs the startup checks concurrently and then exposes the
// health endpoint. A missing Resurs Bank configuration is logged, not fatal.
func startServices(c *container.Container) error {
	log.Println("============================================")
	log.Println("🚀 Resurs Bank Worker Starting...")
	log.Println("============================================")

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		return runCheck("Redis Connection", func() error { return c.Redis.Ping(gctx) })
	})
	g.Go(func() error {
		return runCheck("PostgreSQL", func() error { return c.DB.HealthCheck(gctx) })
	})
	g.Go(func() error {
		return runCheck("Asynq Broker", c.Queue.Ping)
	})
	if err := g.Wait(); err != nil {
		return err
	}

	checks, err := c.PaymentService.ValidateCredentials(ctx)
	if err != nil {
		log.Printf("⚠️  Resurs Bank credentials: %v", err)
	}
	for _, check := range checks {
		if check.Valid {
			log.Printf("✓ Resurs Bank %s/%s (%s): OK", check.Environment, check.Flavour, check.Username)
		} else {
			log.Printf("⚠️  Resurs Bank %s/%s (%s): %s", check.Environment, check.Flavour, check.Username, check.Error)
		}
	}

	go startHealthCheckServer(c.Config.Queue.HealthListen)

	return nil
}

func runCheck(name string, fn func() error) error {
	log.Printf("⏳ Checking %s...", name)
	if err := fn(); err != nil {
		log.Printf("❌ %s: %v", name, err)
		return fmt.Errorf("%s failed: %w", name, err)
	}
	log.Printf("✓ %s: OK", name)
	return nil
}

// startHealthCheckServer serves the liveness and readiness endpoints.
func startHealthCheckServer(addr string) {
	mux := http.NewServeMux()
	mux.HandleFunc("/health", statusHandler(map[string]string{"status": "UP", "service": "resursbank-worker"}))
	mux.HandleFunc("/ready", statusHandler(map[string]string{"status": "READY"}))

	log.Printf("[Health] Starting health check server on %s", addr)
	if err := http.ListenAndServe(addr, mux); err != nil {
		log.Printf("[Health] Failed to start: %v", err)
	}
}

func statusHandler(body map[string]string) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusOK)
		_ = json.NewEncoder(w).Encode(body)
	}
}
