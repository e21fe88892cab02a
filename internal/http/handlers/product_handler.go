package handlers

import (
	applog "tattva/internal/log"
	"tattva/internal/repos"
	"tattva/internal/services"
	"tattva/internal/validate"

	"github.com/gofiber/fiber/v2"
)

type ProductHandler struct {
	Catalog   *services.CatalogService
	Recommend *services.RecommendService
	History   *repos.HistoryRepo
}

func (h *ProductHandler) Detail(c *fiber.Ctx) error {
	id, ok := validate.ID(c.Params("id"))
	if !ok {
		applog.Security(c, "validation.fail", map[string]any{"field": "product"})
		return c.Status(404).Render("notfound", fiber.Map{"Message": "This item is no longer available"})
	}
	p, err := h.Catalog.GetProduct(id)
	if err != nil || p.ID == "" {
		return c.Status(404).Render("notfound", fiber.Map{"Message": "This item is no longer available"})
	}

	// Record the view before computing recommendations so the product
	// lands at the front of the session's history.
	sid := ensureSID(c)
	if err := h.History.Touch(sid, p.ID); err != nil {
		applog.Error(c, "history.touch.fail", err, map[string]any{"product": p.ID})
	}

	similar, bundles, err := h.Recommend.ForProduct(p)
	if err != nil {
		applog.Error(c, "recommend.product.fail", err, map[string]any{"product": p.ID})
		similar, bundles = nil, nil
	}

	return render(c, "product", fiber.Map{"P": p, "Similar": similar, "Bundles": bundles})
}
