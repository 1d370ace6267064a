package cart

import (
	"errors"

	"github.com/gofiber/fiber/v2"

	"github.com/wichananm65/nursery-shop-backend/internal/obs"
)

// Handler serves the per-session cart. Every route except /cart/session
// needs a session token.
type Handler struct {
	service  *Service
	sessions *Sessions
}

func NewHandler(s *Service, sessions *Sessions) *Handler {
	return &Handler{service: s, sessions: sessions}
}

func (h *Handler) RegisterPublicRoutes(app fiber.Router) {
	app.Post("/cart/session", h.createSession)
}

func (h *Handler) RegisterProtectedRoutes(app fiber.Router) {
	auth := h.sessions.Middleware()
	app.Get("/cart", auth, h.getCart)
	app.Post("/cart/items", auth, h.addItem)
	app.Delete("/cart", auth, h.clearCart)
}

func (h *Handler) createSession(c *fiber.Ctx) error {
	s, err := h.sessions.Issue()
	if err != nil {
		obs.Logger.Error("cart_session_failed", "error", err)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"message": "failed to create session"})
	}
	return c.Status(fiber.StatusCreated).JSON(s)
}

type cartRequest struct {
	ProductID string `json:"productId"`
	Quantity  *int64 `json:"quantity,omitempty"`
}

func (h *Handler) addItem(c *fiber.Ctx) error {
	sid, err := SessionIDFromCtx(c)
	if err != nil {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"message": "unauthorized"})
	}
	payload := new(cartRequest)
	if err := c.BodyParser(payload); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"message": err.Error()})
	}
	qty := int64(1)
	if payload.Quantity != nil {
		qty = *payload.Quantity
	}

	items, err := h.service.Add(c.UserContext(), sid, payload.ProductID, qty)
	if err != nil {
		return h.fail(c, "add_item", err)
	}
	return c.JSON(fiber.Map{"sessionId": sid, "items": items})
}

func (h *Handler) getCart(c *fiber.Ctx) error {
	sid, err := SessionIDFromCtx(c)
	if err != nil {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"message": "unauthorized"})
	}
	items, err := h.service.Get(c.UserContext(), sid)
	if err != nil {
		return h.fail(c, "get_cart", err)
	}
	return c.JSON(fiber.Map{"sessionId": sid, "items": items})
}

func (h *Handler) clearCart(c *fiber.Ctx) error {
	sid, err := SessionIDFromCtx(c)
	if err != nil {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"message": "unauthorized"})
	}
	if err := h.service.Clear(c.UserContext(), sid); err != nil {
		return h.fail(c, "clear_cart", err)
	}
	return c.SendStatus(fiber.StatusNoContent)
}

func (h *Handler) fail(c *fiber.Ctx, op string, err error) error {
	switch {
	case errors.Is(err, ErrProductNotFound):
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"message": err.Error()})
	case errors.Is(err, ErrInvalidProduct):
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"message": err.Error()})
	}
	obs.Logger.Error("cart_store_error", "op", op, "error", err)
	return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"message": "Failed to process cart request"})
}
