package main

import (
	"context"
	"errors"
	"log"
	"net/http"
	"os"
	"os/signal"
	"strconv"
	"strings"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/shopspring/decimal"

	"github.com/shopcore/go_shop/internal/domain"
	"github.com/shopcore/go_shop/internal/events"
	shophttp "github.com/shopcore/go_shop/internal/http"
	"github.com/shopcore/go_shop/internal/repository"
	"github.com/shopcore/go_shop/internal/service"
	"github.com/shopcore/go_shop/internal/specification"
)

type Config struct {
	HTTPPort        string
	RequestTimeout  time.Duration
	ShutdownTimeout time.Duration

	PostgresHost     string
	PostgresPort     int
	PostgresUser     string
	PostgresPassword string
	PostgresDB       string
	PostgresMigrate  string

	CatalogDBPath  string
	CatalogMigrate string

	KafkaBrokers []string
}

func loadConfig() *Config {
	port, err := strconv.Atoi(getEnv("POSTGRES_PORT", "5432"))
	if err != nil {
		log.Fatalf("invalid POSTGRES_PORT: %v", err)
	}

	var brokers []string
	if raw := os.Getenv("KAFKA_BROKERS"); raw != "" {
		brokers = strings.Split(raw, ",")
	}

	return &Config{
		HTTPPort:         getEnv("HTTP_PORT", "8080"),
		RequestTimeout:   30 * time.Second,
		ShutdownTimeout:  10 * time.Second,
		PostgresHost:     getEnv("POSTGRES_HOST", "localhost"),
		PostgresPort:     port,
		PostgresUser:     getEnv("POSTGRES_USER", "shop"),
		PostgresPassword: getEnv("POSTGRES_PASSWORD", "shop"),
		PostgresDB:       getEnv("POSTGRES_DB", "shopdb"),
		PostgresMigrate:  getEnv("POSTGRES_MIGRATIONS", "internal/repository/migrations/postgres"),
		CatalogDBPath:    getEnv("CATALOG_DB_PATH", "catalog.db"),
		CatalogMigrate:   getEnv("CATALOG_MIGRATIONS", "internal/repository/migrations/sqlite"),
		KafkaBrokers:     brokers,
	}
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func main() {
	cfg := loadConfig()
	ctx := context.Background()

	pg, err := repository.OpenPostgres(&repository.Credentials{
		Host:     cfg.PostgresHost,
		Port:     cfg.PostgresPort,
		User:     cfg.PostgresUser,
		Password: cfg.PostgresPassword,
		DBName:   cfg.PostgresDB,
	})
	if err != nil {
		log.Fatalf("Failed to connect to postgres: %v", err)
	}
	defer pg.Close()
	if err := repository.RunPostgresMigrations(pg, cfg.PostgresMigrate); err != nil {
		log.Fatalf("Failed to run postgres migrations: %v", err)
	}
	log.Printf("Connected to postgres at %s:%d", cfg.PostgresHost, cfg.PostgresPort)

	catalogDB, err := repository.OpenSQLite(cfg.CatalogDBPath)
	if err != nil {
		log.Fatalf("Failed to open catalog database: %v", err)
	}
	defer catalogDB.Close()
	if err := repository.RunSQLiteMigrations(catalogDB, cfg.CatalogMigrate); err != nil {
		log.Fatalf("Failed to run catalog migrations: %v", err)
	}
	log.Printf("Catalog database ready at %s", cfg.CatalogDBPath)

	baskets := repository.NewPostgresBasketRepository(pg)
	orders := repository.NewPostgresOrderRepository(pg)
	catalog := repository.NewSQLiteCatalogRepository(catalogDB)

	if err := seedCatalog(ctx, catalog); err != nil {
		log.Fatalf("Failed to seed catalog: %v", err)
	}

	var publisher events.Publisher
	if len(cfg.KafkaBrokers) > 0 {
		kafkaPublisher := events.NewKafkaPublisher(cfg.KafkaBrokers...)
		defer kafkaPublisher.Close()
		publisher = kafkaPublisher
		log.Printf("Publishing order events to %v", cfg.KafkaBrokers)
	}

	basketService := service.NewBasketService(baskets, catalog)
	orderService := service.NewOrderService(baskets, orders, catalog, publisher)

	basketHandler := shophttp.NewBasketHandler(basketService, cfg.RequestTimeout)
	orderHandler := shophttp.NewOrderHandler(orderService, basketService, cfg.RequestTimeout)
	catalogHandler := shophttp.NewCatalogHandler(catalog, cfg.RequestTimeout)

	r := chi.NewRouter()
	r.Use(middleware.Logger)
	r.Use(middleware.Recoverer)
	r.Use(middleware.RequestID)
	r.Use(middleware.Timeout(cfg.RequestTimeout))
	r.Use(middleware.Compress(5))
	r.Use(shophttp.BuyerIDMiddleware)

	r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"status":"ok"}`))
	})

	r.Route("/api/v1", func(r chi.Router) {
		r.Route("/catalog", func(r chi.Router) {
			r.Get("/", catalogHandler.ListCatalog)
			r.Get("/{item_id}", catalogHandler.GetCatalogItem)
		})
		r.Route("/basket", func(r chi.Router) {
			r.Get("/", basketHandler.GetBasket)
			r.Post("/items", basketHandler.AddItem)
			r.Put("/", basketHandler.UpdateQuantities)
		})
		r.Route("/orders", func(r chi.Router) {
			r.Post("/", orderHandler.CreateOrder)
			r.Get("/", orderHandler.ListOrders)
			r.Get("/{order_id}", orderHandler.GetOrder)
		})
	})

	srv := &http.Server{
		Addr:         ":" + cfg.HTTPPort,
		Handler:      r,
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 10 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	go func() {
		log.Printf("Shop listening on :%s", cfg.HTTPPort)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatalf("server error: %v", err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Println("shutting down server...")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Fatalf("server forced to shutdown: %v", err)
	}

	log.Println("server exited")
}

// seedCatalog loads a starter catalog on first run so the shop is browsable
// out of the box.
func seedCatalog(ctx context.Context, catalog repository.Repository[domain.CatalogItem]) error {
	count, err := catalog.Count(ctx, specification.Specification{})
	if err != nil {
		return err
	}
	if count > 0 {
		return nil
	}

	items := []domain.CatalogItem{
		{Name: ".NET Bot Black Sweatshirt", Description: "Classic black sweatshirt", Price: decimal.RequireFromString("19.50"), PictureURI: "/images/products/1.png"},
		{Name: ".NET Black & White Mug", Description: "Ceramic mug", Price: decimal.RequireFromString("8.50"), PictureURI: "/images/products/2.png"},
		{Name: "Prism White T-Shirt", Description: "Lightweight t-shirt", Price: decimal.RequireFromString("12.00"), PictureURI: "/images/products/3.png"},
		{Name: "Foundation T-Shirt", Description: "Cotton t-shirt", Price: decimal.RequireFromString("12.00"), PictureURI: "/images/products/4.png"},
		{Name: "Roslyn Red Sheet", Description: "Sticker sheet", Price: decimal.RequireFromString("8.50"), PictureURI: "/images/products/5.png"},
		{Name: "Blue Hoodie", Description: "Warm hoodie", Price: decimal.RequireFromString("12.00"), PictureURI: "/images/products/6.png"},
	}
	for i := range items {
		if err := catalog.Add(ctx, &items[i]); err != nil {
			return err
		}
	}
	log.Printf("Seeded catalog with %d items", len(items))
	return nil
}
