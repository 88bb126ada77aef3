package main

import (
	"context"
	"database/sql"
	"errors"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"velora-be/internal/cart"
	"velora-be/internal/config"
	"velora-be/internal/db"
	"velora-be/internal/events"
	"velora-be/internal/handlers"
	"velora-be/internal/logger"
	"velora-be/internal/order"
	"velora-be/internal/payment"
	"velora-be/internal/product"
	"velora-be/internal/server"
	"velora-be/internal/sweeper"
	"velora-be/internal/user"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
)

var initDBFunc = db.InitDB

func main() {
	if err := run(); err != nil {
		logger.L().Fatal("server exited", zap.Error(err))
	}
}

func run() error {
	cfg := config.LoadConfig()
	logger.Init(cfg.AppEnv)
	defer logger.Sync()

	database := initDBFunc(cfg)
	defer database.Close()

	var orderCache order.Cache = order.NoopCache{}
	if cfg.Redis.Addr != "" {
		rdb := redis.NewClient(&redis.Options{
			Addr:     cfg.Redis.Addr,
			Password: cfg.Redis.Password,
			DB:       cfg.Redis.DB,
		})
		orderCache = order.NewRedisCache(rdb, cfg.Redis.TTL)
		logger.L().Info("redis order cache enabled", zap.String("addr", cfg.Redis.Addr))
	}

	var publisher events.Publisher = events.NoopPublisher{}
	if cfg.Kafka.Enabled && len(cfg.Kafka.Brokers) > 0 {
		publisher = events.NewKafkaPublisher(cfg.Kafka.Brokers, cfg.Kafka.OrdersTopic)
		logger.L().Info("kafka event publisher enabled",
			zap.Strings("brokers", cfg.Kafka.Brokers),
			zap.String("topic", cfg.Kafka.OrdersTopic),
		)
	}
	defer publisher.Close()

	router, orderSvc := newServer(cfg, database, orderCache, publisher)

	httpServer := &http.Server{
		Addr:              ":" + cfg.AppPort,
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	g, ctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		logger.L().Info("server listening", zap.String("port", cfg.AppPort))
		if err := httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			return err
		}
		return nil
	})

	g.Go(func() error {
		return sweeper.New(orderSvc, cfg.SweepInterval).Run(ctx)
	})

	g.Go(func() error {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		return httpServer.Shutdown(shutdownCtx)
	})

	if err := g.Wait(); err != nil && !errors.Is(err, context.Canceled) {
		return err
	}
	return nil
}

// newServer wires repositories, services and handlers onto the router.
func newServer(cfg *config.Config, database *sql.DB, orderCache order.Cache, publisher events.Publisher) (*gin.Engine, order.Service) {
	gateway := payment.NewPhonePeGateway(cfg.PhonePe)

	userRepo := user.NewRepository(database)
	userSvc := user.NewService(userRepo, cfg)

	productRepo := product.NewRepository(database)
	productSvc := product.NewService(productRepo)

	cartRepo := cart.NewRepository(database)
	cartSvc := cart.NewService(cartRepo, productRepo)

	orderRepo := order.NewRepository(database)
	orderSvc := order.NewService(orderRepo, cartRepo, productRepo, gateway, orderCache, publisher, cfg)

	router := server.NewRouter(cfg, server.Handlers{
		User:    handlers.NewUserHandler(userSvc),
		Product: handlers.NewProductHandler(productSvc),
		Cart:    handlers.NewCartHandler(cartSvc),
		Order:   handlers.NewOrderHandler(orderSvc),
	})

	return router, orderSvc
}
