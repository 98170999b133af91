package main

import (
	"context"
	"database/sql"
	"fmt"
	"log"
	"net/http"
	"time"

	"github.com/joho/godotenv"
	"github.com/redis/go-redis/v9"
	_ "modernc.org/sqlite"

	_ "github.com/jackc/pgx/v5/stdlib"

	"shipment-ops-service/internal/adapters/cache"
	"shipment-ops-service/internal/adapters/repositories"
	"shipment-ops-service/internal/api"
	"shipment-ops-service/internal/config"
	pgdb "shipment-ops-service/internal/platform/db"
	"shipment-ops-service/internal/ports"
	"shipment-ops-service/internal/regions"
)

// main is the application composition root.
// It wires concrete adapters (sqlite or Postgres, Redis) behind ports and
// starts the HTTP server.
func main() {
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found (using environment variables)")
	}

	cfg := config.Load()

	// The region table is a static asset; a service without it would silently
	// misclassify every island shipment, so failing to load is fatal.
	tbl, err := regions.Load(cfg.RegionsPath)
	if err != nil {
		log.Fatal(err)
	}
	log.Printf("Region table loaded entries=%d", tbl.Len())

	var (
		store      *sql.DB
		repo       ports.ShipmentRepository
		statsCache ports.StatsCache
	)

	if cfg.DatabaseURL != "" {
		store, err = pgdb.Open(cfg.DatabaseURL)
		if err != nil {
			log.Fatal(err)
		}
		repo = repositories.NewSQLShipmentRepository(store)
	} else {
		store, err = openSqlite(cfg.DBPath)
		if err != nil {
			log.Fatal(err)
		}
		// Initialize schema and seed demo data on startup for local runs.
		if err := initAndSeed(store, cfg.SeedPath); err != nil {
			log.Fatal(err)
		}
		repo = repositories.NewSqliteShipmentRepository(store)
	}
	defer store.Close()

	if cfg.RedisAddr != "" {
		client := redis.NewClient(&redis.Options{Addr: cfg.RedisAddr})
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := client.Ping(ctx).Err(); err != nil {
			log.Fatalf("redis ping %q: %v", cfg.RedisAddr, err)
		}
		statsCache = cache.NewRedisStatsCache(client)
	} else if cfg.DatabaseURL == "" {
		statsCache = cache.NewSqliteStatsCache(store)
	} else {
		// Postgres without Redis: stats are recomputed per request.
		log.Println("REDIS_ADDR not set, running without a stats cache")
	}

	router := api.NewRouter(repo, tbl, statsCache)

	log.Printf("Server listening addr=:%s", cfg.Port)
	srv := &http.Server{
		Addr:              ":" + cfg.Port,
		Handler:           router,
		ReadHeaderTimeout: 5 * time.Second,
		ReadTimeout:       10 * time.Second,
		WriteTimeout:      30 * time.Second,
		IdleTimeout:       60 * time.Second,
	}
	log.Fatal(srv.ListenAndServe())
}

func openSqlite(dbPath string) (*sql.DB, error) {
	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("openDB: open sqlite database %q: %w", dbPath, err)
	}

	if err := db.Ping(); err != nil {
		return nil, fmt.Errorf("openDB: verify sqlite connection to %q: %w", dbPath, err)
	}

	return db, nil
}

func initAndSeed(db *sql.DB, seedPath string) error {
	if err := repositories.InitSchema(db); err != nil {
		return fmt.Errorf("init and seed: %w", err)
	}

	if err := repositories.SeedFromJSON(db, seedPath); err != nil {
		return fmt.Errorf("init and seed: %w", err)
	}

	return nil
}
