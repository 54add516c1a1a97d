package main

import (
	"context"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"github.com/telos-kitchen/account-service/internal/config"
	"github.com/telos-kitchen/account-service/internal/infrastructure/dynamo"
	"github.com/telos-kitchen/account-service/internal/infrastructure/sentry"
	"github.com/telos-kitchen/account-service/internal/infrastructure/sns"
	"github.com/telos-kitchen/account-service/internal/infrastructure/telos"
	transporthttp "github.com/telos-kitchen/account-service/internal/transport/http"
)

func main() {
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found, reading from environment")
	}

	cfg := config.Load()

	// Bootstrap the DynamoDB accounts table (creates it if it doesn't exist).
	dynamoClient := dynamo.NewClient(cfg)
	dynamo.Bootstrap(context.Background(), dynamoClient, cfg.DynamoTableAccounts)

	// SNS SMS sender (optional — graceful fallback).
	var smsSender sns.SMSSender
	if sender, err := sns.NewSender(cfg); err == nil {
		smsSender = sender
	} else {
		log.Printf("WARN: SNS sender not available: %v", err)
	}

	// Fault reporter (optional — noop when no DSN is configured).
	var reporter sentry.Reporter = sentry.Noop{}
	if cfg.SentryDSN != "" {
		if rep, err := sentry.NewReporter(cfg); err == nil {
			reporter = rep
		} else {
			log.Printf("WARN: fault reporter not available: %v", err)
		}
	}

	deps := &transporthttp.Deps{
		GrantRepo: dynamo.NewGrantRepo(dynamoClient, cfg.DynamoTableAccounts),
		Ledger:    telos.NewClient(cfg),
		SMSSender: smsSender,
		Reporter:  reporter,
	}

	router := transporthttp.NewRouter(cfg, deps)

	srv := &http.Server{
		Addr:         fmt.Sprintf(":%s", cfg.AppPort),
		Handler:      router,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 30 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	go func() {
		log.Printf("Server starting on :%s (env=%s)", cfg.AppPort, cfg.AppEnv)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("server error: %v", err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Println("Shutting down server...")
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		log.Fatalf("forced shutdown: %v", err)
	}
	log.Println("Server stopped")
}
