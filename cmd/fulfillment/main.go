package main

import (
	"context"
	"errors"
	"log"
	"net/http"
	"os"
	"os/signal"
	"strconv"
	"syscall"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/DTure/test-lab-4/internal/cache"
	"github.com/DTure/test-lab-4/internal/cartstore"
	"github.com/DTure/test-lab-4/internal/catalog"
	h "github.com/DTure/test-lab-4/internal/http"
	"github.com/DTure/test-lab-4/internal/poller"
	"github.com/DTure/test-lab-4/internal/publisher"
	"github.com/DTure/test-lab-4/internal/repository"
	"github.com/DTure/test-lab-4/internal/service"
	"github.com/DTure/test-lab-4/internal/shipping"
)

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func main() {
	log.Println("fulfillment service starting...")

	// Configuration
	httpPort := getEnv("HTTP_PORT", "8080")
	requestTimeout := 30 * time.Second
	shutdownTimeout := 10 * time.Second
	pollInterval, err := time.ParseDuration(getEnv("POLL_INTERVAL", "5s"))
	if err != nil {
		log.Fatalf("Invalid POLL_INTERVAL: %v", err)
	}

	ctx := context.Background()

	// Product catalog (SQLite)
	catalogPath := getEnv("CATALOG_DB_PATH", "./catalog.db")
	catalogMigrations := getEnv("CATALOG_MIGRATIONS_PATH", "./migrations/sqlite")
	cat, err := catalog.NewCatalog(catalogPath)
	if err != nil {
		log.Fatalf("Failed to open catalog: %v", err)
	}
	defer cat.Close()
	if err := cat.RunMigrations(catalogMigrations); err != nil {
		log.Fatalf("Failed to run catalog migrations: %v", err)
	}
	log.Println("Catalog migrations completed")

	// Shipment repository (Postgres, or in-memory for local runs)
	var repo shipping.Repository
	if getEnv("DB_HOST", "") != "" {
		dbPort, err := strconv.Atoi(getEnv("DB_PORT", "5432"))
		if err != nil {
			log.Fatalf("Invalid DB_PORT: %v", err)
		}
		creds := &repository.Credentials{
			Host:              getEnv("DB_HOST", "localhost"),
			Port:              dbPort,
			User:              getEnv("DB_USER", "postgres"),
			Password:          getEnv("DB_PASSWORD", "postgres"),
			DBName:            getEnv("DB_NAME", "shipments"),
			MigrationsDirPath: getEnv("MIGRATIONS_PATH", "./migrations/postgres"),
		}
		pgRepo, err := repository.NewPostgresRepository(creds)
		if err != nil {
			log.Fatalf("Failed to connect to database: %v", err)
		}
		defer pgRepo.Close()
		if err := pgRepo.RunMigrations(creds); err != nil {
			log.Fatalf("Failed to run migrations: %v", err)
		}
		log.Println("Database migrations completed")
		repo = pgRepo
	} else {
		log.Println("DB_HOST not set, using in-memory shipment repository")
		repo = repository.NewMemoryRepository()
	}

	// Shipping queue (Kafka, or in-memory for local runs)
	var pub shipping.Publisher
	if brokers := getEnv("KAFKA_BROKERS", ""); brokers != "" {
		kafkaPub := publisher.NewKafkaPublisher(getEnv("KAFKA_GROUP_ID", "shipping-processor"), brokers)
		defer kafkaPub.Close()
		log.Printf("Connected to Kafka at %s", brokers)
		pub = kafkaPub
	} else {
		log.Println("KAFKA_BROKERS not set, using in-memory shipping queue")
		pub = publisher.NewMemoryPublisher(0)
	}

	shippingSvc := shipping.NewService(repo, pub)

	// Status cache (Redis, optional)
	if redisAddr := getEnv("REDIS_ADDR", ""); redisAddr != "" {
		redisClient := redis.NewClient(&redis.Options{
			Addr:     redisAddr,
			Password: getEnv("REDIS_PASSWORD", ""),
			DB:       0,
		})
		defer redisClient.Close()
		if err := redisClient.Ping(ctx).Err(); err != nil {
			log.Fatal("Redis connection failed:", err)
		}
		log.Printf("Redis ping succeeded")
		shippingSvc.WithStatusCache(cache.NewRedisCache(redisClient))
	}

	// Cart store (MongoDB, or in-memory for local runs)
	var carts cartstore.Store
	if mongoURI := getEnv("MONGO_URI", ""); mongoURI != "" {
		mongoDB, err := cartstore.ConnectMongoDB(ctx, mongoURI, getEnv("MONGO_DB_NAME", "fulfillment"))
		if err != nil {
			log.Fatalf("Failed to connect to MongoDB: %v", err)
		}
		defer mongoDB.Client().Disconnect(ctx)
		log.Printf("Connected to MongoDB at %s", mongoURI)
		carts = cartstore.NewMongoStore(mongoDB)
	} else {
		log.Println("MONGO_URI not set, using in-memory cart store")
		carts = cartstore.NewMemoryStore()
	}

	fulfillment := service.NewFulfillmentService(cat, carts, shippingSvc)

	// Background queue processing
	pollCtx, stopPoller := context.WithCancel(ctx)
	defer stopPoller()
	go poller.NewPoller(shippingSvc, pollInterval).Run(pollCtx)

	// HTTP surface
	cartHandler := h.NewCartHandler(fulfillment, requestTimeout)
	productHandler := h.NewProductHandler(cat, requestTimeout)
	shippingHandler := h.NewShippingHandler(shippingSvc, requestTimeout)
	router := h.NewRouter(cartHandler, productHandler, shippingHandler, requestTimeout)

	srv := &http.Server{
		Addr:         ":" + httpPort,
		Handler:      router,
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 10 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	go func() {
		log.Printf("Fulfillment service listening on :%s", httpPort)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatalf("server error: %v", err)
		}
	}()

	// Graceful shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Println("shutting down server...")
	stopPoller()
	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Fatalf("server forced to shutdown: %v", err)
	}

	log.Println("server exited")
}
