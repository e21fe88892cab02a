package handlers

import (
	applog "tattva/internal/log"
	"tattva/internal/services"
	"tattva/internal/validate"

	"github.com/gofiber/fiber/v2"
)

type SubscriptionHandler struct {
	Subs *services.SubscriptionService
}

func (h *SubscriptionHandler) Page(c *fiber.Ctx) error {
	sid := ensureSID(c)
	active, err := h.Subs.List(sid)
	if err != nil {
		applog.Error(c, "subscriptions.list.fail", err, nil)
		return c.Status(500).Render("notfound", fiber.Map{"Message": "Could not load subscriptions"})
	}
	return render(c, "subscriptions", fiber.Map{"Plans": h.Subs.Plans(), "Active": active})
}

func (h *SubscriptionHandler) Subscribe(c *fiber.Ctx) error {
	sid := ensureSID(c)
	planID, ok := validate.ID(c.FormValue("planId"))
	if !ok {
		return c.Status(400).SendString("missing planId")
	}
	id, err := h.Subs.Subscribe(sid, planID)
	if err != nil {
		applog.Error(c, "subscriptions.create.fail", err, map[string]any{"plan": planID})
		return c.Status(400).SendString("Could not start subscription")
	}
	applog.Audit(c, "subscriptions.create", map[string]any{"plan": planID, "subscription": id})
	return c.Redirect("/subscriptions")
}

func (h *SubscriptionHandler) Cancel(c *fiber.Ctx) error {
	sid := ensureSID(c)
	id, ok := validate.ID(c.FormValue("id"))
	if !ok {
		return c.Status(400).SendString("missing id")
	}
	if err := h.Subs.Cancel(id, sid); err != nil {
		applog.Error(c, "subscriptions.cancel.fail", err, map[string]any{"subscription": id})
		return c.Status(400).SendString("Could not cancel subscription")
	}
	applog.Audit(c, "subscriptions.cancel", map[string]any{"subscription": id})
	return c.Redirect("/subscriptions")
}
