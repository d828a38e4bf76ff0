package main

import (
	"context"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"

	"github.com/ecomstore/go-storefront/internal/catalog"
	"github.com/ecomstore/go-storefront/internal/config"
	"github.com/ecomstore/go-storefront/internal/httpx"
	kafkax "github.com/ecomstore/go-storefront/internal/kafka"
	"github.com/ecomstore/go-storefront/internal/orders"
	"github.com/ecomstore/go-storefront/internal/postgres"
	"github.com/ecomstore/go-storefront/internal/redisx"
	"github.com/ecomstore/go-storefront/internal/search"
)

func main() {
	_ = godotenv.Load()

	cfg := config.Load()
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// DB
	db, err := postgres.Connect(ctx, cfg.PostgresDSN)
	if err != nil {
		log.Fatalf("db connect: %v", err)
	}
	defer db.Close()

	// Redis (search mirror)
	rdb := redisx.New(cfg.RedisAddr)
	defer rdb.Close()

	// Kafka producer
	prod := kafkax.NewProducer(cfg.KafkaBrokers, 1024)
	prod.Start(ctx)

	// Services
	mirror := search.NewRedisMirror(rdb)
	catalogSvc := &catalog.Service{
		Store:  postgres.NewCatalogStore(db),
		Mirror: mirror,
	}
	orderSvc := &orders.Service{
		UOW:    postgres.NewUnitOfWork(db),
		Store:  postgres.NewOrderStore(db),
		Events: prod,
		Name:   cfg.ServiceName,
	}

	// Router & handlers
	router := httpx.NewRouter()
	ph := &httpx.ProductsHandler{Catalog: catalogSvc, Mirror: mirror}
	ph.Register(router)
	oh := &httpx.OrdersHandler{Service: orderSvc}
	oh.Register(router)

	// HTTP server
	srv := &http.Server{Addr: cfg.HTTPAddr, Handler: router}

	go func() {
		log.Printf("HTTP listening at %s", cfg.HTTPAddr)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("listen: %v", err)
		}
	}()

	// wait signal
	sig := make(chan os.Signal, 1)
	signal.Notify(sig, syscall.SIGINT, syscall.SIGTERM)
	<-sig
	log.Println("shutting down...")

	ctx2, cancel2 := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel2()
	_ = srv.Shutdown(ctx2)
	prod.Close()      // close inbox -> flush & close writer
	prod.WaitClosed() // drain before cancelling the root context
	cancel()
}
