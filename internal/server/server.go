// Package server assembles the Fiber application: middleware, the liveness
// routes and every domain handler.
package server

import (
	"context"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/recover"

	"github.com/wichananm65/nursery-shop-backend/internal/cart"
	"github.com/wichananm65/nursery-shop-backend/internal/category"
	"github.com/wichananm65/nursery-shop-backend/internal/payment"
	"github.com/wichananm65/nursery-shop-backend/internal/product"
)

const greeting = "Hello From Fatihas Floral Fantasy - Online Nursery Website Server"

// Pinger reports whether the backing store is reachable.
type Pinger interface {
	Ping(ctx context.Context) error
}

type Deps struct {
	Products   *product.Service
	Categories *category.Service
	Payments   *payment.Service
	Carts      *cart.Service
	Sessions   *cart.Sessions

	// Store may be nil; /healthz then reports the store as down.
	Store Pinger

	AllowResetProducts bool
	CORSOrigins        string
}

func New(d Deps) *fiber.App {
	app := fiber.New(fiber.Config{
		AppName:      "nursery-shop-backend",
		ErrorHandler: errorHandler,
	})

	app.Use(withRequestID)
	app.Use(withLogging)
	app.Use(recover.New())
	app.Use(cors.New(cors.Config{
		AllowOrigins: d.CORSOrigins,
		AllowMethods: "GET,POST,HEAD,PUT,DELETE,PATCH",
		AllowHeaders: "Origin, Content-Type, Accept, Authorization",
	}))

	app.Get("/", func(c *fiber.Ctx) error {
		return c.SendString(greeting)
	})
	app.Get("/healthz", healthz(d.Store))

	product.NewHandler(d.Products, d.AllowResetProducts).RegisterPublicRoutes(app)
	category.NewHandler(d.Categories).RegisterPublicRoutes(app)
	payment.NewHandler(d.Payments).RegisterPublicRoutes(app)

	cartHandler := cart.NewHandler(d.Carts, d.Sessions)
	cartHandler.RegisterPublicRoutes(app)
	cartHandler.RegisterProtectedRoutes(app)

	return app
}

func healthz(store Pinger) fiber.Handler {
	return func(c *fiber.Ctx) error {
		state := "up"
		if store == nil {
			state = "down"
		} else {
			ctx, cancel := context.WithTimeout(c.UserContext(), 2*time.Second)
			defer cancel()
			if err := store.Ping(ctx); err != nil {
				state = "down"
			}
		}
		return c.JSON(fiber.Map{"status": "ok", "store": state})
	}
}
