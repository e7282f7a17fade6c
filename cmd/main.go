package main

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
	"go.uber.org/zap"

	"fusion6/cart"
	"fusion6/config"
	"fusion6/controllers"
	"fusion6/database"
	"fusion6/identity"
	"fusion6/inquiry"
	"fusion6/logger"
	"fusion6/menu"
	"fusion6/order"
	"fusion6/routes"
	"fusion6/store"
	"fusion6/tracking"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}

	log, err := logger.New(cfg.IsDevelopment())
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
	defer func() { _ = log.Sync() }()

	if err := run(cfg, log); err != nil {
		log.Fatal("server stopped", zap.Error(err))
	}
}

// openBackend connects the configured store backend. The returned func
// releases the connection.
func openBackend(ctx context.Context, cfg *config.Config, log *zap.Logger) (store.Backend, func(), error) {
	switch cfg.Store.Backend {
	case config.BackendRedis:
		client, err := database.ConnectRedis(ctx, cfg.Store.RedisURL)
		if err != nil {
			return nil, nil, err
		}
		log.Info("connected to redis")
		return store.NewRedisBackend(client, "fusion6"), func() { _ = client.Close() }, nil

	case config.BackendMongo:
		client, db, err := database.ConnectMongo(ctx, cfg.Store.MongoURI, cfg.Store.DBName)
		if err != nil {
			return nil, nil, err
		}
		backend, err := store.NewMongoBackend(ctx, db.Collection(database.KVCollection))
		if err != nil {
			_ = client.Disconnect(context.Background())
			return nil, nil, err
		}
		log.Info("connected to mongodb", zap.String("db", cfg.Store.DBName))
		return backend, func() { _ = client.Disconnect(context.Background()) }, nil

	default:
		log.Warn("using in-memory store, state is lost on restart")
		return store.NewMemoryBackend(), func() {}, nil
	}
}

func openPublisher(ctx context.Context, cfg *config.Config, log *zap.Logger) order.Publisher {
	if cfg.NATS.URL == "" {
		return order.NoopPublisher{}
	}
	pub, err := order.NewNatsPublisher(ctx, cfg.NATS.URL, log)
	if err != nil {
		log.Warn("order events disabled", zap.Error(err))
		return order.NoopPublisher{}
	}
	return pub
}

func run(cfg *config.Config, log *zap.Logger) error {
	ctx := context.Background()

	backend, closeBackend, err := openBackend(ctx, cfg, log)
	if err != nil {
		return err
	}
	defer closeBackend()

	local := store.New(backend, store.WithLogger(log))
	session := store.New(backend, store.WithLogger(log), store.WithTTL(cfg.Store.SessionTTL))
	shop := local.Scope("shop")
	profiles := store.NewProfiles(local, session)

	publisher := openPublisher(ctx, cfg, log)
	defer publisher.Close()

	carts := cart.NewRegistry(profiles, log,
		cart.Limits{IdleTimeout: cfg.CartIdleTimeout, MaxEngines: cfg.CartMaxEngines},
		cart.WithAckDelay(cfg.CartAckDelay))
	defer carts.Close()

	orders := order.NewEngine(shop, publisher, log)
	defer orders.Wait()

	users := identity.NewService(shop, log)
	if cfg.Auth.AdminEmail != "" && cfg.Auth.AdminPassword != "" {
		if err := users.EnsureAdmin(ctx, "Administrator", cfg.Auth.AdminEmail, cfg.Auth.AdminPassword); err != nil {
			return fmt.Errorf("failed to seed admin: %w", err)
		}
	}

	items, err := menu.LoadFile(cfg.MenuFile)
	if err != nil {
		return err
	}
	catalog := menu.NewCatalog(shop, log)
	catalog.Seed(ctx, items)

	h := &controllers.Handler{
		Profiles:  profiles,
		Carts:     carts,
		Orders:    orders,
		Pricing:   order.Pricing(cfg.Pricing),
		Identity:  users,
		Tokens:    identity.NewTokens(cfg.Auth.JWTSecret, cfg.Auth.TokenTTL, local.Scope("revoked")),
		Menu:      catalog,
		Inquiries: inquiry.NewService(),
		Tracking: tracking.Options{
			Interval:  cfg.Tracking.Interval,
			ETAOffset: cfg.Tracking.ETAOffset,
			Logger:    log,
		},
		Logger: log,
	}

	if !cfg.IsDevelopment() {
		gin.SetMode(gin.ReleaseMode)
	}
	r := gin.New()
	r.Use(gin.Recovery(), logger.Middleware(log))
	_ = r.SetTrustedProxies(nil)
	routes.RegisterRoutes(r, h)

	srv := &http.Server{
		Addr:              ":" + cfg.Port,
		Handler:           r,
		ReadHeaderTimeout: 10 * time.Second,
	}
	return serveWithGracefulShutdown(srv, log)
}

func serveWithGracefulShutdown(srv *http.Server, log *zap.Logger) error {
	serverErrors := make(chan error, 1)

	go func() {
		log.Info("starting http server", zap.String("addr", srv.Addr))
		serverErrors <- srv.ListenAndServe()
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
		log.Info("received shutdown signal, starting graceful shutdown", zap.Stringer("signal", sig))

		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()

		if err := srv.Shutdown(ctx); err != nil {
			log.Warn("graceful shutdown timeout, forcing stop", zap.Error(err))
			return srv.Close()
		}
		log.Info("graceful shutdown completed")
		return nil
	}
}
