package handlers

import (
	"strings"

	"github.com/gofiber/fiber/v2"

	"tattva/internal/services"
	"tattva/internal/validate"
)

type AvailabilityHandler struct {
	Catalog *services.CatalogService
}

func (h *AvailabilityHandler) Check(c *fiber.Ctx) error {
	variantID := strings.TrimSpace(c.Query("variantId"))
	if variantID == "" {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "missing variantId",
		})
	}
	if _, ok := validate.ID(variantID); !ok {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "invalid variantId",
		})
	}

	avail, err := h.Catalog.CheckAvailability(variantID)
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": err.Error(),
		})
	}
	return c.JSON(avail)
}
