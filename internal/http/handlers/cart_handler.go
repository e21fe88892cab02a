package handlers

import (
	applog "tattva/internal/log"
	"tattva/internal/services"
	"tattva/internal/validate"

	"github.com/gofiber/fiber/v2"
)

type CartHandler struct {
	Cart *services.CartService
}

func (h *CartHandler) View(c *fiber.Ctx) error {
	sid := ensureSID(c)
	cv, err := h.Cart.View(sid)
	if err != nil {
		applog.Error(c, "cart.view.fail", err, nil)
		return c.Status(500).SendString(err.Error())
	}
	return render(c, "cart", fiber.Map{"Cart": cv})
}

func (h *CartHandler) Add(c *fiber.Ctx) error {
	sid := ensureSID(c)
	productID, okP := validate.ID(c.FormValue("productId"))
	variantID, okV := validate.ID(c.FormValue("variantId"))
	if !okP || !okV {
		return c.Status(400).SendString("missing productId or variantId")
	}
	qty := validate.Qty(c.FormValue("qty"))

	if err := h.Cart.Add(sid, productID, variantID, qty); err != nil {
		applog.Error(c, "cart.add.fail", err, map[string]any{"product": productID, "variant": variantID})
		return c.Status(500).SendString(err.Error())
	}
	applog.Audit(c, "cart.add", map[string]any{"product": productID, "variant": variantID, "qty": qty})
	return c.Redirect("/cart")
}

func (h *CartHandler) Update(c *fiber.Ctx) error {
	sid := ensureSID(c)
	productID, okP := validate.ID(c.FormValue("productId"))
	variantID, okV := validate.ID(c.FormValue("variantId"))
	if !okP || !okV {
		return c.Status(400).SendString("missing productId or variantId")
	}
	// Zero is meaningful here: it removes the line.
	qty := validate.QtyOrZero(c.FormValue("qty"))

	if err := h.Cart.UpdateQuantity(sid, productID, variantID, qty); err != nil {
		applog.Error(c, "cart.update.fail", err, map[string]any{"product": productID, "variant": variantID})
		return c.Status(500).SendString(err.Error())
	}
	return c.Redirect("/cart")
}

func (h *CartHandler) Remove(c *fiber.Ctx) error {
	sid := ensureSID(c)
	productID, okP := validate.ID(c.FormValue("productId"))
	variantID, okV := validate.ID(c.FormValue("variantId"))
	if !okP || !okV {
		return c.Status(400).SendString("missing productId or variantId")
	}
	if err := h.Cart.Remove(sid, productID, variantID); err != nil {
		applog.Error(c, "cart.remove.fail", err, map[string]any{"product": productID, "variant": variantID})
		return c.Status(500).SendString(err.Error())
	}
	return c.Redirect("/cart")
}

func (h *CartHandler) Clear(c *fiber.Ctx) error {
	sid := ensureSID(c)
	if err := h.Cart.Clear(sid); err != nil {
		applog.Error(c, "cart.clear.fail", err, nil)
		return c.Status(500).SendString(err.Error())
	}
	return c.Redirect("/cart")
}

func (h *CartHandler) ApplyCoupon(c *fiber.Ctx) error {
	sid := ensureSID(c)
	code, ok := validate.CouponCode(c.FormValue("code"))
	if !ok {
		applog.Security(c, "validation.fail", map[string]any{"field": "coupon"})
		return h.viewWithError(c, sid, "Invalid promo code")
	}

	applied, err := h.Cart.ApplyCoupon(sid, code)
	if err != nil {
		// Validation failures carry their user-facing reason.
		applog.Security(c, "coupon.apply.fail", map[string]any{"code": code, "reason": err.Error()})
		return h.viewWithError(c, sid, err.Error())
	}
	applog.Audit(c, "coupon.apply", map[string]any{"code": applied.Code, "discount": applied.Discount})
	return c.Redirect("/cart")
}

func (h *CartHandler) RemoveCoupon(c *fiber.Ctx) error {
	sid := ensureSID(c)
	if err := h.Cart.RemoveCoupon(sid); err != nil {
		applog.Error(c, "coupon.remove.fail", err, nil)
		return c.Status(500).SendString(err.Error())
	}
	return c.Redirect("/cart")
}

func (h *CartHandler) viewWithError(c *fiber.Ctx, sid, msg string) error {
	cv, err := h.Cart.View(sid)
	if err != nil {
		return c.Status(500).SendString(err.Error())
	}
	return c.Status(fiber.StatusBadRequest).Render("cart", fiber.Map{"Cart": cv, "CouponErr": msg})
}
