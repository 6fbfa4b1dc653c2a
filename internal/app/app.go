package app

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"go.mongodb.org/mongo-driver/mongo"

	"github.com/227007/E-commerce-backend/internal/config"
	"github.com/227007/E-commerce-backend/internal/delivery/http/handlers"
	"github.com/227007/E-commerce-backend/internal/delivery/http/middleware"
	"github.com/227007/E-commerce-backend/internal/delivery/http/routes"
	"github.com/227007/E-commerce-backend/internal/domain/entities"
	"github.com/227007/E-commerce-backend/internal/infrastructure/logger"
	"github.com/227007/E-commerce-backend/internal/infrastructure/mongodb"
	"github.com/227007/E-commerce-backend/internal/infrastructure/nats"
	"github.com/227007/E-commerce-backend/internal/infrastructure/redisstore"
	"github.com/227007/E-commerce-backend/internal/usecase"
)

type App struct {
	cfg    *config.Config
	logger *logger.Logger
}

func New(cfg *config.Config) *App {
	return &App{
		cfg:    cfg,
		logger: logger.NewLogger(),
	}
}

func (a *App) Run() error {
	a.logger.Info("Starting order service")

	client, err := a.initMongoDB()
	if err != nil {
		return err
	}
	defer func() {
		if err := mongodb.Disconnect(client); err != nil {
			a.logger.Warn("Failed to disconnect MongoDB", "error", err)
		}
	}()

	db := client.Database(a.cfg.Mongo.DB)

	orderRepo, err := mongodb.NewOrderRepositoryMongo(db, a.logger)
	if err != nil {
		return fmt.Errorf("failed to init order repository: %w", err)
	}
	catalog, err := mongodb.NewCatalogRepositoryMongo(db, a.logger)
	if err != nil {
		return fmt.Errorf("failed to init catalog repository: %w", err)
	}

	publisher := a.initNATS()
	defer publisher.Close()

	idempotency := a.initRedis()

	orderUseCase := usecase.NewOrderUseCase(orderRepo, catalog, publisher, a.logger)
	orderHandler := handlers.NewOrderHandler(orderUseCase, idempotency, a.logger)

	router := gin.New()
	router.Use(gin.Recovery())
	routes.Register(router, orderHandler, middleware.NewServerMetrics("orders"))

	server := &http.Server{
		Addr:    ":" + a.cfg.HTTP.Port,
		Handler: router,
	}

	return a.runServerWithGracefulShutdown(server)
}

func (a *App) initMongoDB() (*mongo.Client, error) {
	a.logger.Info("Connecting to MongoDB", "uri", a.cfg.Mongo.URI, "db", a.cfg.Mongo.DB)

	client, err := mongodb.Connect(a.cfg.Mongo.URI)
	if err != nil {
		a.logger.Error("Failed to connect to MongoDB", "error", err)
		return nil, err
	}

	a.logger.Info("Connected to MongoDB successfully")
	return client, nil
}

func (a *App) initNATS() usecase.EventPublisher {
	if a.cfg.NATS.URL == "" {
		a.logger.Info("NATS URL not set, event publishing disabled")
		return &noopPublisher{}
	}

	publisher, err := connectToNATSWithRetry(a.cfg.NATS.URL, a.logger, 3, 2*time.Second)
	if err != nil {
		a.logger.Warn("Failed to connect to NATS, continuing without event publishing",
			"error", err,
			"url", a.cfg.NATS.URL)
		return &noopPublisher{}
	}

	a.logger.Info("Connected to NATS successfully")
	return publisher
}

func (a *App) initRedis() handlers.IdempotencyStore {
	if a.cfg.Redis.Addr == "" {
		a.logger.Info("Redis address not set, idempotency keys disabled")
		return nil
	}

	store, err := redisstore.NewIdempotencyStore(a.cfg.Redis.Addr, a.cfg.Redis.Password, a.cfg.Redis.DB, a.cfg.Redis.KeyTTL)
	if err != nil {
		a.logger.Warn("Failed to connect to Redis, continuing without idempotency keys",
			"error", err,
			"addr", a.cfg.Redis.Addr)
		return nil
	}

	a.logger.Info("Connected to Redis successfully")
	return store
}

func (a *App) runServerWithGracefulShutdown(server *http.Server) error {
	serverErrors := make(chan error, 1)

	go func() {
		a.logger.Info("Starting HTTP server", "port", a.cfg.HTTP.Port)
		serverErrors <- server.ListenAndServe()
	}()

	shutdown := make(chan os.Signal, 1)
	signal.Notify(shutdown, os.Interrupt, syscall.SIGTERM)

	select {
	case err := <-serverErrors:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return fmt.Errorf("server error: %w", err)

	case sig := <-shutdown:
		a.logger.Info("Received shutdown signal, starting graceful shutdown", "signal", sig)

		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()

		if err := server.Shutdown(ctx); err != nil {
			a.logger.Warn("Graceful shutdown timeout, forcing close", "error", err)
			_ = server.Close()
		} else {
			a.logger.Info("Graceful shutdown completed")
		}

		return nil
	}
}

func connectToNATSWithRetry(url string, logger *logger.Logger, maxRetries int, delay time.Duration) (usecase.EventPublisher, error) {
	for i := 0; i < maxRetries; i++ {
		publisher, err := nats.NewNatsPublisher(url, logger)
		if err == nil {
			return publisher, nil
		}

		logger.Warn("Failed to connect to NATS, retrying...",
			"attempt", i+1,
			"max_retries", maxRetries,
			"error", err)

		if i < maxRetries-1 {
			time.Sleep(delay)
		}
	}

	return nil, fmt.Errorf("failed to connect to NATS after %d attempts", maxRetries)
}

type noopPublisher struct{}

func (n *noopPublisher) PublishOrderCreated(ctx context.Context, order *entities.Order) error {
	return nil
}

func (n *noopPublisher) PublishOrderCancelled(ctx context.Context, order *entities.Order) error {
	return nil
}

func (n *noopPublisher) Close() {
}
