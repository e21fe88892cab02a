package handlers

import (
	applog "tattva/internal/log"
	"tattva/internal/services"
	"tattva/internal/validate"

	"github.com/gofiber/fiber/v2"
)

type CategoryHandler struct {
	Catalog   *services.CatalogService
	Recommend *services.RecommendService
}

func (h *CategoryHandler) Home(c *fiber.Ctx) error {
	cats, err := h.Catalog.ListCategories()
	if err != nil {
		applog.Error(c, "home.categories.fail", err, nil)
		return c.Status(500).SendString(err.Error())
	}

	// Personalized picks keyed off the session's viewing history.
	// An empty history just yields empty slices; the page still renders.
	var picks, viewed any
	if sid := c.Cookies("sid"); sid != "" {
		if p, v, err := h.Recommend.ForSession(sid); err == nil {
			picks, viewed = p, v
		}
	}
	return render(c, "home", fiber.Map{"Categories": cats, "Picks": picks, "RecentlyViewed": viewed})
}

func (h *CategoryHandler) List(c *fiber.Ctx) error {
	catID, ok := validate.ID(c.Params("id"))
	if !ok {
		applog.Security(c, "validation.fail", map[string]any{"field": "category"})
		return c.Status(404).Render("notfound", fiber.Map{"Message": "Category not found"})
	}
	products, err := h.Catalog.ListProductsByCategory(catID, 1, 12)
	if err != nil {
		applog.Error(c, "category.list.fail", err, map[string]any{"category": catID})
		return c.Status(500).SendString(err.Error())
	}
	return render(c, "category", fiber.Map{"CategoryID": catID, "Products": products})
}
