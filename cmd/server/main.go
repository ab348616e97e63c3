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

	"video-rental-service/config"
	"video-rental-service/internal/api"
	"video-rental-service/internal/broker"
	"video-rental-service/internal/redisclient"
	"video-rental-service/internal/service"
	"video-rental-service/internal/store"
	"video-rental-service/internal/util"
	"video-rental-service/internal/worker"

	"github.com/gin-gonic/gin"
)

func main() {

	cfg := config.Load()

	if err := util.InitLogger(cfg.Server.Env); err != nil {
		log.Fatalf("Failed to initialize logger: %v", err)
	}
	defer util.SyncLogger()

	logger := util.GetLogger()
	logger.Info("Starting video rental service")

	tp, err := util.InitTracer("video-rental-service", cfg.Observ.JaegerEndpoint)
	if err != nil {
		log.Fatalf("Failed to initialize tracer: %v", err)
	}
	defer func() {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := tp.Shutdown(ctx); err != nil {
			log.Printf("Error shutting down tracer: %v", err)
		}
	}()

	db, err := store.NewStore(cfg.Database.URL)
	if err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}
	defer db.Close()
	log.Println("Database connected")

	// the copy cache is a fast path only; run without it if Redis is down
	var cache service.CopyCache
	redisClient, err := redisclient.NewClient(cfg.Redis.Addr, cfg.Redis.Password, cfg.Redis.DB)
	if err != nil {
		log.Printf("Redis unavailable, reservations will use the database only: %v", err)
	} else {
		defer redisClient.Close()
		cache = redisClient
		log.Println("Redis connected")
	}

	producer := broker.NewProducer(cfg.Kafka.Brokers, cfg.Kafka.TopicRental)
	defer producer.Close()
	log.Println("Kafka producer initialized")

	eventPublisher := broker.NewEventPublisher(producer)

	inventoryClient := service.NewInventoryClient(db, cache)
	customerService := service.NewCustomerService(db)
	filmService := service.NewFilmService(db)
	inventoryService := service.NewInventoryService(db)
	loanPeriod := time.Duration(cfg.Business.RentalDurationDays) * 24 * time.Hour
	rentalService := service.NewRentalService(db, db, inventoryClient, eventPublisher, loanPeriod)
	paymentService := service.NewPaymentService(db, db, db, eventPublisher)

	ctx := context.Background()
	if err := inventoryClient.SyncCopyStatuses(ctx); err != nil {
		log.Printf("Failed to sync copy statuses to Redis: %v", err)
	}

	workerCtx, workerCancel := context.WithCancel(context.Background())
	defer workerCancel()

	rentalConsumer := broker.NewConsumer(cfg.Kafka.Brokers, cfg.Kafka.TopicRental, cfg.Kafka.ConsumerGroup)
	rentalWorker := worker.NewRentalEventWorker(rentalConsumer, inventoryClient)
	go func() {
		if err := rentalWorker.Start(workerCtx); err != nil {
			log.Printf("Rental event worker error: %v", err)
		}
	}()

	if cfg.Server.Env == "production" {
		gin.SetMode(gin.ReleaseMode)
	}

	router := gin.New()
	handler := api.NewHandler(customerService, filmService, inventoryService, rentalService, paymentService, cfg.Auth)
	handler.SetupRoutes(router)

	srv := &http.Server{
		Addr:    fmt.Sprintf(":%s", cfg.Server.Port),
		Handler: router,
	}

	go func() {
		log.Printf("Starting HTTP server on port %s", cfg.Server.Port)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("Failed to start server: %v", err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Println("Shutting down server...")

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer shutdownCancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Printf("Server forced to shutdown: %v", err)
	}

	workerCancel()
	rentalWorker.Stop()

	log.Println("Server exited")
}
