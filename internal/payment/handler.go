package payment

import (
	"errors"

	"github.com/gofiber/fiber/v2"

	"github.com/wichananm65/nursery-shop-backend/internal/obs"
)

type Handler struct {
	service *Service
}

func NewHandler(s *Service) *Handler {
	return &Handler{service: s}
}

func (h *Handler) RegisterPublicRoutes(app fiber.Router) {
	app.Post("/create-payment-intent", h.createPaymentIntent)
	app.Post("/save-payment-info", h.savePaymentInfo)
	app.Get("/users-who-paid", h.usersWhoPaid)
}

// intentRequest accepts the amount as either "amount" or "price".
type intentRequest struct {
	Amount *float64 `json:"amount"`
	Price  *float64 `json:"price"`
}

func (h *Handler) createPaymentIntent(c *fiber.Ctx) error {
	req := new(intentRequest)
	if err := c.BodyParser(req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"message": err.Error()})
	}
	amount := req.Amount
	if amount == nil {
		amount = req.Price
	}
	if amount == nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"message": "amount is required"})
	}

	secret, err := h.service.CreateIntent(c.UserContext(), *amount)
	if err != nil {
		if errors.Is(err, ErrAmountOutOfRange) {
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"message": err.Error()})
		}
		var pe *ProviderError
		if errors.As(err, &pe) {
			return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"message": pe.Message})
		}
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"message": "Failed to create payment intent"})
	}
	return c.JSON(fiber.Map{"clientSecret": secret})
}

func (h *Handler) savePaymentInfo(c *fiber.Ctx) error {
	p := new(Payment)
	if err := c.BodyParser(p); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"message": err.Error()})
	}
	res, err := h.service.Save(c.UserContext(), *p)
	if err != nil {
		if errors.Is(err, ErrPayerRequired) {
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"message": err.Error()})
		}
		obs.Logger.Error("payment_store_error", "op", "save_payment", "error", err)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"message": "Failed to save payment info"})
	}
	return c.JSON(res)
}

func (h *Handler) usersWhoPaid(c *fiber.Ctx) error {
	rows, err := h.service.Summary(c.UserContext())
	if err != nil {
		obs.Logger.Error("payment_store_error", "op", "payment_summary", "error", err)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"message": "Failed to load payments"})
	}
	return c.JSON(rows)
}
