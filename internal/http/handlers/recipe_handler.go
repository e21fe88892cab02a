package handlers

import (
	applog "tattva/internal/log"
	"tattva/internal/services"
	"tattva/internal/validate"

	"github.com/gofiber/fiber/v2"
)

type RecipeHandler struct {
	Recipes *services.RecipeService
}

func (h *RecipeHandler) List(c *fiber.Ctx) error {
	recipes, err := h.Recipes.List()
	if err != nil {
		applog.Error(c, "recipes.list.fail", err, nil)
		return c.Status(500).Render("notfound", fiber.Map{"Message": "Could not load recipes"})
	}
	return render(c, "recipes", fiber.Map{"Recipes": recipes})
}

func (h *RecipeHandler) Detail(c *fiber.Ctx) error {
	id, ok := validate.ID(c.Params("id"))
	if !ok {
		return c.Status(404).Render("notfound", fiber.Map{"Message": "Recipe not found"})
	}
	r, err := h.Recipes.Get(id)
	if err != nil || r.ID == "" {
		return c.Status(404).Render("notfound", fiber.Map{"Message": "Recipe not found"})
	}
	return render(c, "recipe", fiber.Map{"R": r})
}

// AddToCart drops every purchasable ingredient of a recipe into the cart.
func (h *RecipeHandler) AddToCart(c *fiber.Ctx) error {
	sid := ensureSID(c)
	id, ok := validate.ID(c.FormValue("recipeId"))
	if !ok {
		return c.Status(400).SendString("missing recipeId")
	}
	added, skipped, err := h.Recipes.AddToCart(sid, id)
	if err != nil {
		applog.Error(c, "recipes.addtocart.fail", err, map[string]any{"recipe": id})
		return c.Status(500).SendString("Could not add recipe to cart")
	}
	applog.Audit(c, "recipes.addtocart", map[string]any{"recipe": id, "added": added, "skipped": skipped})
	return c.Redirect("/cart")
}
