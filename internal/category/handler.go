package category

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
	app.Get("/categories", h.getCategories)
	app.Post("/categories", h.createCategory)
	app.Put("/categories/:id", h.updateCategory)
	app.Delete("/categories/:id", h.deleteCategory)
}

func (h *Handler) getCategories(c *fiber.Ctx) error {
	items, err := h.service.List(c.UserContext())
	if err != nil {
		return h.fail(c, "list_categories", err)
	}
	return c.JSON(fiber.Map{"status": true, "data": items})
}

func (h *Handler) createCategory(c *fiber.Ctx) error {
	cat := new(Category)
	if err := c.BodyParser(cat); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"message": err.Error()})
	}
	res, err := h.service.Create(c.UserContext(), *cat)
	if err != nil {
		return h.fail(c, "create_category", err)
	}
	return c.JSON(res)
}

func (h *Handler) updateCategory(c *fiber.Ctx) error {
	var fields map[string]any
	if err := c.BodyParser(&fields); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"message": err.Error()})
	}
	res, err := h.service.Update(c.UserContext(), c.Params("id"), fields)
	if err != nil {
		return h.fail(c, "update_category", err)
	}
	return c.JSON(res)
}

func (h *Handler) deleteCategory(c *fiber.Ctx) error {
	res, err := h.service.Delete(c.UserContext(), c.Params("id"))
	if err != nil {
		return h.fail(c, "delete_category", err)
	}
	return c.JSON(res)
}

func (h *Handler) fail(c *fiber.Ctx, op string, err error) error {
	switch {
	case errors.Is(err, ErrNotFound):
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"status": false, "message": "Category not found"})
	case errors.Is(err, ErrInvalidID), errors.Is(err, ErrEmptyUpdate), errors.Is(err, ErrInvalidPayload):
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"status": false, "message": err.Error()})
	}
	obs.Logger.Error("category_store_error", "op", op, "error", err)
	return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"status": false, "message": "Failed to process category request"})
}
