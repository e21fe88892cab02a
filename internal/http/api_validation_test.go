package handlers_test

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/requestid"

	"tattva/internal/config"
	"tattva/internal/http/handlers"
	"tattva/internal/repos"
	"tattva/internal/services"
)

// newAPIApp wires the JSON/redirect endpoints over a seeded in-memory
// database. Template-rendering routes are exercised elsewhere.
func newAPIApp(t *testing.T) *fiber.App {
	t.Helper()
	cfg := config.Config{DBDSN: ":memory:", FreeShippingAbove: 600, ShippingFlat: 50}
	db, err := repos.OpenDB(cfg.DBDSN)
	if err != nil {
		t.Fatalf("open db: %v", err)
	}
	t.Cleanup(func() { _ = db.Close() })

	authSvc := &services.AuthService{Users: repos.NewUserRepo(db)}
	deps := handlers.NewDeps(db, cfg, authSvc)

	app := fiber.New()
	app.Use(requestid.New())
	api := app.Group("/api/v1")
	api.Get("/availability", deps.AvailabilityHandler.Check)
	app.Post("/cart", deps.CartHandler.Add)
	return app
}

func TestAvailabilityAPI(t *testing.T) {
	app := newAPIApp(t)

	// missing variantId
	resp, err := app.Test(httptest.NewRequest("GET", "/api/v1/availability", nil))
	if err != nil {
		t.Fatal(err)
	}
	if resp.StatusCode != http.StatusBadRequest {
		t.Fatalf("want 400 for missing variantId, got %d", resp.StatusCode)
	}

	// malformed id
	resp, err = app.Test(httptest.NewRequest("GET", "/api/v1/availability?variantId=..%2Fetc", nil))
	if err != nil {
		t.Fatal(err)
	}
	if resp.StatusCode != http.StatusBadRequest {
		t.Fatalf("want 400 for malformed id, got %d", resp.StatusCode)
	}

	// seeded variant with 30 in stock
	resp, err = app.Test(httptest.NewRequest("GET", "/api/v1/availability?variantId=pepper-001-250g", nil))
	if err != nil {
		t.Fatal(err)
	}
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("want 200, got %d", resp.StatusCode)
	}
	var body struct {
		Status string `json:"status"`
		Qty    int    `json:"qty"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		t.Fatal(err)
	}
	if body.Status != "IN_STOCK" || body.Qty != 30 {
		t.Fatalf("want IN_STOCK(30), got %+v", body)
	}

	// unknown variant reads as out of stock
	resp, err = app.Test(httptest.NewRequest("GET", "/api/v1/availability?variantId=ghost-1", nil))
	if err != nil {
		t.Fatal(err)
	}
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("want 200 for unknown variant, got %d", resp.StatusCode)
	}
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		t.Fatal(err)
	}
	if body.Status != "OUT_OF_STOCK" {
		t.Fatalf("want OUT_OF_STOCK, got %+v", body)
	}
}

func TestCartAddValidation(t *testing.T) {
	app := newAPIApp(t)

	// missing form fields
	req := httptest.NewRequest("POST", "/cart", strings.NewReader("qty=1"))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	resp, err := app.Test(req)
	if err != nil {
		t.Fatal(err)
	}
	if resp.StatusCode != http.StatusBadRequest {
		t.Fatalf("want 400 for missing ids, got %d", resp.StatusCode)
	}

	// well-formed add redirects to the cart page
	form := strings.NewReader("productId=pepper-001&variantId=pepper-001-250g&qty=2")
	req = httptest.NewRequest("POST", "/cart", form)
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	resp, err = app.Test(req)
	if err != nil {
		t.Fatal(err)
	}
	if resp.StatusCode != http.StatusFound {
		t.Fatalf("want 302 redirect, got %d", resp.StatusCode)
	}
	if loc := resp.Header.Get("Location"); loc != "/cart" {
		t.Fatalf("want redirect to /cart, got %q", loc)
	}
}
