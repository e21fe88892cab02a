package handlers

import (
	"strconv"
	"strings"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"

	"tattva/internal/domain"
	applog "tattva/internal/log"
	"tattva/internal/repos"
	"tattva/internal/services"
	"tattva/internal/validate"
)

type AdminHandler struct {
	OrderRepo *repos.OrderRepo
	ProdRepo  *repos.ProductRepo
	Coupons   *repos.CouponRepo
	Users     *repos.UserRepo
	Catalog   *services.CatalogService
}

// GET /admin
func (h *AdminHandler) Dashboard(c *fiber.Ctx) error {
	return render(c, "admin_dashboard", fiber.Map{})
}

// GET /admin/orders
func (h *AdminHandler) OrdersPage(c *fiber.Ctx) error {
	ords, err := h.OrderRepo.ListLatest(100)
	if err != nil {
		applog.Error(c, "admin.orders.list.fail", err, nil)
		return c.Status(500).Render("notfound", fiber.Map{"Message": "Could not load orders"})
	}
	return render(c, "admin_orders", fiber.Map{"Orders": ords})
}

// POST /admin/orders/:id/status
func (h *AdminHandler) UpdateOrderStatus(c *fiber.Ctx) error {
	id := c.Params("id")
	status := c.FormValue("status")
	if id == "" || status == "" {
		return c.Status(400).SendString("missing id or status")
	}
	if err := h.OrderRepo.UpdateStatus(id, status); err != nil {
		applog.Error(c, "admin.orders.update.fail", err, map[string]any{"order_id": id})
		return c.Status(400).SendString("could not update status")
	}
	applog.Audit(c, "admin.orders.update", map[string]any{"order_id": id, "status": status})
	return c.Redirect("/admin/orders")
}

// GET /admin/stock
func (h *AdminHandler) Stock(c *fiber.Ctx) error {
	rows, err := h.ProdRepo.ListStock()
	if err != nil {
		applog.Error(c, "admin.stock.list.fail", err, nil)
		return c.Status(500).Render("notfound", fiber.Map{"Message": "Could not load stock"})
	}
	ords, _ := h.OrderRepo.ListLatest(25)
	return render(c, "admin_stock", fiber.Map{"Rows": rows, "Orders": ords})
}

// POST /admin/stock
func (h *AdminHandler) UpdateStock(c *fiber.Ctx) error {
	vid := c.FormValue("variant_id")
	qtyStr := c.FormValue("stock")

	qty, err := strconv.Atoi(qtyStr)
	if _, okID := validate.ID(vid); !okID || err != nil || qty < 0 {
		return c.Status(400).SendString("invalid input")
	}
	if err := h.ProdRepo.SetStock(vid, qty); err != nil {
		applog.Error(c, "admin.stock.save.fail", err, map[string]any{"variant": vid, "stock": qty})
		return c.Status(400).SendString("could not save stock")
	}
	applog.Audit(c, "admin.stock.save", map[string]any{"variant": vid, "stock": qty})
	return c.Redirect("/admin/stock")
}

// GET /admin/coupons
func (h *AdminHandler) CouponsPage(c *fiber.Ctx) error {
	coupons, err := h.Coupons.List()
	if err != nil {
		applog.Error(c, "admin.coupons.list.fail", err, nil)
		return c.Status(500).Render("notfound", fiber.Map{"Message": "Could not load coupons"})
	}
	return render(c, "admin_coupons", fiber.Map{"Coupons": coupons})
}

// POST /admin/coupons
func (h *AdminHandler) CreateCoupon(c *fiber.Ctx) error {
	code, ok := validate.CouponCode(c.FormValue("code"))
	if !ok {
		return c.Status(400).SendString("invalid code")
	}
	dtype := strings.ToLower(strings.TrimSpace(c.FormValue("discount_type")))
	if dtype != "percentage" && dtype != "fixed" {
		return c.Status(400).SendString("discount_type must be percentage or fixed")
	}
	value, err := strconv.ParseFloat(c.FormValue("discount_value"), 64)
	if err != nil || value <= 0 {
		return c.Status(400).SendString("invalid discount_value")
	}
	minOrder, _ := strconv.ParseFloat(c.FormValue("min_order_value"), 64)
	maxUses, err := strconv.Atoi(c.FormValue("max_uses"))
	if err != nil || maxUses < 1 {
		return c.Status(400).SendString("invalid max_uses")
	}
	from, err := time.Parse("2006-01-02", c.FormValue("valid_from"))
	if err != nil {
		return c.Status(400).SendString("invalid valid_from")
	}
	until, err := time.Parse("2006-01-02", c.FormValue("valid_until"))
	if err != nil || until.Before(from) {
		return c.Status(400).SendString("invalid valid_until")
	}

	cp := domain.Coupon{
		ID:            uuid.NewString(),
		Code:          strings.ToUpper(code),
		DiscountType:  dtype,
		DiscountValue: value,
		MinOrderValue: minOrder,
		MaxUses:       maxUses,
		ValidFrom:     from,
		ValidUntil:    until.Add(24*time.Hour - time.Second), // inclusive end date
		Active:        true,
	}
	if err := h.Coupons.Create(cp); err != nil {
		applog.Error(c, "admin.coupons.create.fail", err, map[string]any{"code": cp.Code})
		return c.Status(400).SendString("could not create coupon")
	}
	applog.Audit(c, "admin.coupons.create", map[string]any{"code": cp.Code, "type": dtype, "value": value})
	return c.Redirect("/admin/coupons")
}

// POST /admin/coupons/:id/active
func (h *AdminHandler) ToggleCoupon(c *fiber.Ctx) error {
	id := c.Params("id")
	active := c.FormValue("active") == "true"
	if id == "" {
		return c.Status(400).SendString("missing id")
	}
	if err := h.Coupons.SetActive(id, active); err != nil {
		applog.Error(c, "admin.coupons.toggle.fail", err, map[string]any{"coupon": id})
		return c.Status(400).SendString("could not update coupon")
	}
	applog.Audit(c, "admin.coupons.toggle", map[string]any{"coupon": id, "active": active})
	return c.Redirect("/admin/coupons")
}

// POST /admin/coupons/:id/delete
func (h *AdminHandler) DeleteCoupon(c *fiber.Ctx) error {
	id := c.Params("id")
	if id == "" {
		return c.Status(400).SendString("missing id")
	}
	if err := h.Coupons.Delete(id); err != nil {
		applog.Error(c, "admin.coupons.delete.fail", err, map[string]any{"coupon": id})
		return c.Status(400).SendString("could not delete coupon")
	}
	applog.Audit(c, "admin.coupons.delete", map[string]any{"coupon": id})
	return c.Redirect("/admin/coupons")
}

// POST /admin/catalog/import accepts a raw JSON product feed. Numeric
// fields in the feed may arrive as strings; the importer coerces them.
func (h *AdminHandler) ImportCatalog(c *fiber.Ctx) error {
	body := c.Body()
	if len(body) == 0 {
		return c.Status(400).SendString("empty feed")
	}
	n, err := h.Catalog.ImportFeed(body)
	if err != nil {
		applog.Error(c, "admin.catalog.import.fail", err, nil)
		return c.Status(400).SendString("could not import feed: " + err.Error())
	}
	applog.Audit(c, "admin.catalog.import", map[string]any{"products": n})
	return c.JSON(fiber.Map{"imported": n})
}

// UsersPage lists users (excluding admin).
func (h *AdminHandler) UsersPage(c *fiber.Ctx) error {
	var users []struct {
		ID    string `db:"id"`
		Email string `db:"email"`
		Name  string `db:"name"`
		Role  string `db:"role"`
	}
	if err := h.Users.DB.Select(&users, `SELECT id,email,name,role FROM users WHERE role != 'ADMIN' ORDER BY email`); err != nil {
		applog.Error(c, "admin.users.list.fail", err, nil)
		return c.Status(500).Render("notfound", fiber.Map{"Message": "Could not load users"})
	}
	return render(c, "admin_users", fiber.Map{"Users": users})
}

// DeleteUser deletes a user and related data, cancels their orders.
func (h *AdminHandler) DeleteUser(c *fiber.Ctx) error {
	id := c.Params("id")
	if id == "" {
		return c.Status(400).SendString("missing id")
	}
	if err := h.Users.DeleteUserCascade(id); err != nil {
		applog.Error(c, "admin.users.delete.fail", err, map[string]any{"user_id": id})
		return c.Status(400).SendString("could not delete user")
	}
	applog.Audit(c, "admin.users.delete", map[string]any{"user_id": id})
	return c.Redirect("/admin/users")
}
