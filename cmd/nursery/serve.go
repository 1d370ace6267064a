package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/go-redis/redis/v8"
	"github.com/spf13/cobra"

	"github.com/wichananm65/nursery-shop-backend/internal/cart"
	"github.com/wichananm65/nursery-shop-backend/internal/category"
	"github.com/wichananm65/nursery-shop-backend/internal/config"
	"github.com/wichananm65/nursery-shop-backend/internal/database"
	"github.com/wichananm65/nursery-shop-backend/internal/obs"
	"github.com/wichananm65/nursery-shop-backend/internal/payment"
	"github.com/wichananm65/nursery-shop-backend/internal/product"
	"github.com/wichananm65/nursery-shop-backend/internal/server"
)

func serveCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Start the HTTP server",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runServe(cmd.Context())
		},
	}
}

func runServe(ctx context.Context) error {
	cfg := config.Load()
	obs.InitLogger(cfg.LogLevel)
	obs.Logger.Info("service_starting", "addr", cfg.Addr, "database", cfg.MongoDatabase)

	var (
		repos repositories
		ping  server.Pinger
	)
	store, err := database.Connect(ctx, cfg.MongoURI, cfg.MongoDatabase, cfg.StoreTimeout)
	if err != nil {
		// no client (bad URI, failed SRV lookup); data routes answer 500
		obs.Logger.Error("store_connect_failed", "error", err)
		repos = unavailableRepositories(err)
		ping = database.Down{Err: err}
	} else {
		pingCtx, cancel := context.WithTimeout(ctx, cfg.StoreTimeout)
		if err := store.Ping(pingCtx); err != nil {
			obs.Logger.Warn("store_ping_failed", "error", err)
		} else {
			obs.Logger.Info("store_connected")
		}
		cancel()
		defer func() {
			if err := store.Disconnect(context.Background()); err != nil {
				obs.Logger.Warn("store_disconnect_error", "error", err)
			}
		}()
		repos = mongoRepositories(store)
		ping = store
	}

	if cfg.StripeSecretKey == "" {
		obs.Logger.Warn("stripe_key_missing")
	}
	deps := newDeps(cfg, repos, ping, payment.NewStripeProvider(cfg.StripeSecretKey))

	app := server.New(deps)

	go func() {
		obs.Logger.Info("http_listen", "addr", cfg.Addr)
		if err := app.Listen(cfg.Addr); err != nil {
			obs.Logger.Error("http_server_error", "error", err)
			os.Exit(1)
		}
	}()

	sigc := make(chan os.Signal, 1)
	signal.Notify(sigc, syscall.SIGINT, syscall.SIGTERM)
	s := <-sigc
	obs.Logger.Info("shutdown_signal", "signal", s.String())

	if err := app.ShutdownWithTimeout(cfg.ShutdownTimeout); err != nil {
		obs.Logger.Error("http_shutdown_error", "error", err)
	}
	obs.Logger.Info("service_stopped")
	return nil
}

type repositories struct {
	products   product.Repository
	categories category.Repository
	payments   payment.Repository
}

func mongoRepositories(store *database.Store) repositories {
	return repositories{
		products:   product.NewMongoRepository(store.Products()),
		categories: category.NewMongoRepository(store.Categories()),
		payments:   payment.NewMongoRepository(store.Payments()),
	}
}

func unavailableRepositories(cause error) repositories {
	return repositories{
		products:   product.NewDownRepository(cause),
		categories: category.NewDownRepository(cause),
		payments:   payment.NewDownRepository(cause),
	}
}

func newDeps(cfg config.Config, repos repositories, store server.Pinger, provider payment.IntentCreator) server.Deps {
	deps := server.Deps{
		Store:              store,
		AllowResetProducts: cfg.AllowResetProducts,
		CORSOrigins:        cfg.CORSOrigins,
	}
	deps.Categories = category.NewService(repos.categories)
	deps.Products = product.NewService(repos.products)
	if cfg.StrictCategories {
		deps.Products.WithCategoryCheck(deps.Categories)
	}
	deps.Payments = payment.NewService(repos.payments, provider, cfg.PaymentCurrency)
	deps.Sessions = cart.NewSessions(cfg.CartSessionSecret, cfg.CartSessionTTL)
	deps.Carts = cart.NewService(cartRepository(cfg), deps.Products)
	return deps
}

// cartRepository uses redis when REDIS_URL is set and parses, memory otherwise.
func cartRepository(cfg config.Config) cart.Repository {
	if cfg.RedisURL == "" {
		return cart.NewInMemoryRepository()
	}
	opts, err := redis.ParseURL(cfg.RedisURL)
	if err != nil {
		obs.Logger.Error("redis_url_invalid", "error", err)
		return cart.NewInMemoryRepository()
	}
	return cart.NewRedisRepository(redis.NewClient(opts), cfg.CartSessionTTL)
}
