package services_test

import (
	"math"
	"testing"

	"github.com/jmoiron/sqlx"
	_ "modernc.org/sqlite" // pure-Go SQLite driver

	"tattva/internal/pricing"
	"tattva/internal/repos"
	"tattva/internal/services"
)

// memdb opens a seeded in-memory database: demo catalog, coupons,
// recipes and users, same as a fresh production start.
func memdb(t *testing.T) *sqlx.DB {
	t.Helper()
	db, err := repos.OpenDB(":memory:")
	if err != nil {
		t.Fatal(err)
	}
	t.Cleanup(func() { _ = db.Close() })
	return db
}

func newCartService(db *sqlx.DB) *services.CartService {
	return services.NewCartService(
		repos.NewCartRepo(db),
		repos.NewProductRepo(db),
		repos.NewCouponRepo(db),
		pricing.DefaultShipping(),
	)
}

func TestOrderFlow_AddCouponCheckout(t *testing.T) {
	db := memdb(t)
	prodRepo := repos.NewProductRepo(db)
	orderRepo := repos.NewOrderRepo(db)
	couponRepo := repos.NewCouponRepo(db)

	cartSvc := newCartService(db)
	orderSvc := services.NewOrderService(cartSvc, prodRepo, orderRepo, couponRepo, pricing.DefaultShipping())

	sid := "test-session"
	// 2 x Malabar Black Pepper 250g at 899
	if err := cartSvc.Add(sid, "pepper-001", "pepper-001-250g", 2); err != nil {
		t.Fatal(err)
	}

	if _, err := cartSvc.ApplyCoupon(sid, "SAVE10"); err != nil {
		t.Fatal(err)
	}

	cv, err := cartSvc.View(sid)
	if err != nil {
		t.Fatal(err)
	}
	if cv.Breakdown.Subtotal != 1798 {
		t.Fatalf("want subtotal 1798, got %v", cv.Breakdown.Subtotal)
	}
	// 10% of 1798 floors to 179
	if cv.Breakdown.Discount != 179 {
		t.Fatalf("want discount 179, got %v", cv.Breakdown.Discount)
	}
	if cv.Breakdown.Shipping != 0 {
		t.Fatalf("subtotal over 600 ships free, got %v", cv.Breakdown.Shipping)
	}

	oid, b, err := orderSvc.Place(sid, "110001", services.Contact{Name: "Tester", Email: "t@e.com"})
	if err != nil {
		t.Fatal(err)
	}
	if oid == "" {
		t.Fatal("no order id")
	}
	wantTax := (1798.0 - 179) * pricing.TaxRate
	if math.Abs(b.Tax-wantTax) > 1e-9 {
		t.Fatalf("want tax %v, got %v", wantTax, b.Tax)
	}
	if math.Abs(b.Total-(1798-179+wantTax)) > 1e-9 {
		t.Fatalf("unexpected total %v", b.Total)
	}

	// stock decremented from 30 to 28
	v, err := prodRepo.GetVariant("pepper-001-250g")
	if err != nil {
		t.Fatal(err)
	}
	if v.Stock != 28 {
		t.Fatalf("want stock 28, got %d", v.Stock)
	}

	// coupon usage recorded at checkout
	c, err := couponRepo.ByCode("SAVE10")
	if err != nil {
		t.Fatal(err)
	}
	if c.UsedCount != 1 {
		t.Fatalf("want used_count 1, got %d", c.UsedCount)
	}

	// cart cleared
	cv, err = cartSvc.View(sid)
	if err != nil {
		t.Fatal(err)
	}
	if cv.ItemCount != 0 || cv.PromoCode != "" {
		t.Fatalf("cart should be empty after checkout: %+v", cv)
	}

	// order persisted with the breakdown
	o, items, err := orderRepo.Get(oid)
	if err != nil {
		t.Fatal(err)
	}
	if o.Subtotal != 1798 || o.Discount != 179 || o.PromoCode != "SAVE10" {
		t.Fatalf("order row mismatch: %+v", o)
	}
	if len(items) != 1 || items[0].Qty != 2 {
		t.Fatalf("order items mismatch: %+v", items)
	}
}

func TestOrderFlow_EmptyCartRejected(t *testing.T) {
	db := memdb(t)
	cartSvc := newCartService(db)
	orderSvc := services.NewOrderService(cartSvc, repos.NewProductRepo(db), repos.NewOrderRepo(db), repos.NewCouponRepo(db), pricing.DefaultShipping())

	_, _, err := orderSvc.Place("empty-session", "110001", services.Contact{Name: "T", Email: "t@e.com"})
	if err != services.ErrCartEmpty {
		t.Fatalf("want ErrCartEmpty, got %v", err)
	}
}

func TestOrderFlow_InsufficientStockFailsWholeOrder(t *testing.T) {
	db := memdb(t)
	prodRepo := repos.NewProductRepo(db)
	cartSvc := newCartService(db)
	orderSvc := services.NewOrderService(cartSvc, prodRepo, repos.NewOrderRepo(db), repos.NewCouponRepo(db), pricing.DefaultShipping())

	sid := "stock-session"
	// turmeric has 5 in stock
	if err := cartSvc.Add(sid, "turmeric-001", "turmeric-001-200g", 5); err != nil {
		t.Fatal(err)
	}
	// stock drops to 1 between add and checkout
	if err := prodRepo.SetStock("turmeric-001-200g", 1); err != nil {
		t.Fatal(err)
	}

	if _, _, err := orderSvc.Place(sid, "110001", services.Contact{Name: "T", Email: "t@e.com"}); err == nil {
		t.Fatal("want stock failure")
	}

	// nothing was decremented
	v, err := prodRepo.GetVariant("turmeric-001-200g")
	if err != nil {
		t.Fatal(err)
	}
	if v.Stock != 1 {
		t.Fatalf("failed order must not touch stock, got %d", v.Stock)
	}
}

func TestOrderFlow_StaleCouponDroppedAtCheckout(t *testing.T) {
	db := memdb(t)
	prodRepo := repos.NewProductRepo(db)
	orderRepo := repos.NewOrderRepo(db)
	couponRepo := repos.NewCouponRepo(db)
	cartSvc := newCartService(db)
	orderSvc := services.NewOrderService(cartSvc, prodRepo, orderRepo, couponRepo, pricing.DefaultShipping())

	sid := "stale-session"
	// garam at 349: over SAVE10's 100 minimum while both lines are in
	if err := cartSvc.Add(sid, "garam-001", "garam-001-100g", 2); err != nil {
		t.Fatal(err)
	}
	if _, err := cartSvc.ApplyCoupon(sid, "SAVE10"); err != nil {
		t.Fatal(err)
	}
	// shrink the cart below the minimum after the coupon was applied
	if err := cartSvc.UpdateQuantity(sid, "garam-001", "garam-001-100g", 0); err != nil {
		t.Fatal(err)
	}
	if err := cartSvc.Add(sid, "chili-001", "chili-001-200g", 0); err != nil {
		t.Fatal(err)
	}

	// one chili at 499 > 100, still valid; drop the coupon another way
	if err := couponRepo.SetActive("cpn-1", false); err != nil {
		t.Fatal(err)
	}

	oid, b, err := orderSvc.Place(sid, "110001", services.Contact{Name: "T", Email: "t@e.com"})
	if err != nil {
		t.Fatal(err)
	}
	if b.Discount != 0 {
		t.Fatalf("inactive coupon must not discount, got %v", b.Discount)
	}
	o, _, err := orderRepo.Get(oid)
	if err != nil {
		t.Fatal(err)
	}
	if o.PromoCode != "" {
		t.Fatalf("order should not record the dropped code, got %q", o.PromoCode)
	}
}

func TestCart_PersistsAcrossServiceRestart(t *testing.T) {
	db := memdb(t)
	sid := "persist-session"

	first := newCartService(db)
	if err := first.Add(sid, "saffron-001", "saffron-001-1g", 2); err != nil {
		t.Fatal(err)
	}

	// a fresh service over the same database must see the cart
	second := newCartService(db)
	cv, err := second.View(sid)
	if err != nil {
		t.Fatal(err)
	}
	if cv.ItemCount != 2 {
		t.Fatalf("want restored qty 2, got %d", cv.ItemCount)
	}
	if len(cv.Lines) != 1 || cv.Lines[0].VariantID != "saffron-001-1g" {
		t.Fatalf("restored lines mismatch: %+v", cv.Lines)
	}
	// sale price 1299 was captured at add time
	if cv.Breakdown.Subtotal != 2598 {
		t.Fatalf("want subtotal 2598, got %v", cv.Breakdown.Subtotal)
	}
}

func TestCart_InvalidCouponResetsDiscount(t *testing.T) {
	db := memdb(t)
	cartSvc := newCartService(db)
	sid := "coupon-session"

	if err := cartSvc.Add(sid, "pepper-001", "pepper-001-250g", 1); err != nil {
		t.Fatal(err)
	}
	if _, err := cartSvc.ApplyCoupon(sid, "SAVE10"); err != nil {
		t.Fatal(err)
	}

	_, err := cartSvc.ApplyCoupon(sid, "NOSUCHCODE")
	if err == nil || err.Error() != "Invalid promo code" {
		t.Fatalf("want Invalid promo code, got %v", err)
	}

	cv, err := cartSvc.View(sid)
	if err != nil {
		t.Fatal(err)
	}
	if cv.Breakdown.Discount != 0 || cv.PromoCode != "" {
		t.Fatalf("failed apply must reset the discount: %+v", cv)
	}
}
