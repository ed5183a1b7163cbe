package main

import (
	"context"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/redis/go-redis/v9"
	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"

	"github.com/partsbin/storefront/internal/catalog"
	"github.com/partsbin/storefront/internal/config"
	"github.com/partsbin/storefront/internal/engine"
	"github.com/partsbin/storefront/internal/httpapi"
	"github.com/partsbin/storefront/internal/storage"
)

func main() {
	configPath := "storefront.yaml"
	if len(os.Args) > 1 {
		configPath = os.Args[1]
	}

	cfg, err := config.Load(configPath)
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	ctx := context.Background()

	blobStore, cleanup, err := openStorage(ctx, cfg)
	if err != nil {
		log.Fatalf("Failed to open storage: %v", err)
	}
	defer cleanup()

	eng := engine.New(ctx, blobStore, cfg.CompareLimit)

	products, err := catalog.Seed()
	if err != nil {
		log.Fatalf("Failed to load product catalog: %v", err)
	}
	eng.LoadCatalog(products)
	log.Printf("Catalog loaded with %d products", len(products))

	router := httpapi.NewRouter(eng)
	server := &http.Server{
		Addr:    fmt.Sprintf(":%s", cfg.HTTPPort),
		Handler: otelhttp.NewHandler(router, "storefront"),
	}

	go func() {
		log.Printf("Storefront listening on port %s (storage backend: %s)", cfg.HTTPPort, cfg.Storage.Backend)
		if e2 := server.ListenAndServe(); e2 != nil && e2 != http.ErrServerClosed {
			log.Fatalf("Failed to serve: %v", e2)
		}
	}()

	// Wait for interrupt signal
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Println("Shutting down storefront...")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout())
	defer cancel()
	if e2 := server.Shutdown(shutdownCtx); e2 != nil {
		log.Printf("Shutdown error: %v", e2)
	}
	log.Println("Storefront stopped")
}

// openStorage builds the configured blob store and a cleanup for it.
func openStorage(ctx context.Context, cfg *config.Config) (storage.BlobStore, func(), error) {
	switch cfg.Storage.Backend {
	case config.BackendSQLite:
		store, err := storage.NewSQLiteStore(cfg.Storage.SQLitePath)
		if err != nil {
			return nil, nil, err
		}
		log.Printf("Opened sqlite storage at %s", cfg.Storage.SQLitePath)
		return store, func() { store.Close() }, nil

	case config.BackendRedis:
		client := redis.NewClient(&redis.Options{
			Addr:     cfg.Storage.RedisAddr,
			Password: cfg.Storage.RedisPassword,
			DB:       0,
		})
		if err := client.Ping(ctx).Err(); err != nil {
			return nil, nil, fmt.Errorf("redis connection failed: %w", err)
		}
		log.Printf("Connected to redis at %s", cfg.Storage.RedisAddr)
		return storage.NewRedisStore(client), func() { client.Close() }, nil

	case config.BackendMemory:
		return storage.NewMemoryStore(), func() {}, nil

	default:
		return nil, nil, fmt.Errorf("unknown storage backend %q", cfg.Storage.Backend)
	}
}
