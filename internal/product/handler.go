package product

import (
	"errors"

	"github.com/gofiber/fiber/v2"

	"github.com/wichananm65/nursery-shop-backend/internal/obs"
	"github.com/wichananm65/nursery-shop-backend/internal/query"
)

type Handler struct {
	service    *Service
	allowReset bool
}

// NewHandler builds the product routes. allowReset enables
// POST /dev/reset-products (ALLOW_RESET_PRODUCTS=1).
func NewHandler(service *Service, allowReset bool) *Handler {
	return &Handler{service: service, allowReset: allowReset}
}

func (h *Handler) RegisterPublicRoutes(app fiber.Router) {
	app.Get("/products", h.getProducts)
	app.Get("/products/:id", h.getProduct)
	app.Post("/products", h.createProduct)
	app.Put("/products/:id", h.updateProduct)
	app.Delete("/products/:id", h.deleteProduct)
	app.Post("/clear-cart", h.clearCart)

	app.Post("/dev/reset-products", h.resetProducts)
}

func (h *Handler) getProducts(c *fiber.Ctx) error {
	q, err := query.Parse(func(k string) string { return c.Query(k) })
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"status": false, "message": err.Error()})
	}
	page, err := h.service.List(c.UserContext(), q)
	if err != nil {
		return h.fail(c, "list_products", err)
	}
	return c.JSON(fiber.Map{
		"status":     true,
		"data":       page.Items,
		"pagination": page.Pagination,
	})
}

func (h *Handler) getProduct(c *fiber.Ctx) error {
	p, err := h.service.GetByID(c.UserContext(), c.Params("id"))
	if err != nil {
		return h.fail(c, "get_product", err)
	}
	return c.JSON(fiber.Map{"status": true, "data": p})
}

func (h *Handler) createProduct(c *fiber.Ctx) error {
	p := new(Product)
	if err := c.BodyParser(p); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"message": err.Error()})
	}
	res, err := h.service.Create(c.UserContext(), *p)
	if err != nil {
		return h.fail(c, "create_product", err)
	}
	return c.JSON(res)
}

func (h *Handler) updateProduct(c *fiber.Ctx) error {
	var fields map[string]any
	if err := c.BodyParser(&fields); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"message": err.Error()})
	}
	res, err := h.service.Update(c.UserContext(), c.Params("id"), fields)
	if err != nil {
		return h.fail(c, "update_product", err)
	}
	return c.JSON(res)
}

func (h *Handler) deleteProduct(c *fiber.Ctx) error {
	res, err := h.service.Delete(c.UserContext(), c.Params("id"))
	if err != nil {
		return h.fail(c, "delete_product", err)
	}
	return c.JSON(res)
}

func (h *Handler) clearCart(c *fiber.Ctx) error {
	n, err := h.service.ClearCart(c.UserContext())
	if err != nil {
		return h.fail(c, "clear_cart", err)
	}
	return c.JSON(fiber.Map{"message": "Cart cleared successfully", "modifiedCount": n})
}

// resetProducts clears the catalog and inserts the posted list (or the sample
// plants when the body is not a product list). An empty list just clears.
func (h *Handler) resetProducts(c *fiber.Ctx) error {
	if !h.allowReset {
		return c.Status(fiber.StatusForbidden).SendString("reset not allowed")
	}

	var products []Product
	if err := c.BodyParser(&products); err != nil {
		products = samplePlants
	}
	if err := h.service.ResetProducts(c.UserContext(), products); err != nil {
		return h.fail(c, "reset_products", err)
	}
	return c.JSON(fiber.Map{"inserted": len(products)})
}

// fail maps service errors to responses. Store failures get a generic message.
func (h *Handler) fail(c *fiber.Ctx, op string, err error) error {
	switch {
	case errors.Is(err, ErrNotFound):
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"status": false, "message": "Product not found"})
	case errors.Is(err, ErrInvalidID),
		errors.Is(err, ErrEmptyUpdate),
		errors.Is(err, ErrUnknownCategory):
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"status": false, "message": err.Error()})
	}
	obs.Logger.Error("product_store_error", "op", op, "error", err)
	return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"status": false, "message": "Failed to process product request"})
}
