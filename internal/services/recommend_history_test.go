package services_test

import (
	"testing"

	"tattva/internal/repos"
	"tattva/internal/services"
)

func TestHistory_CapAndMoveToFront(t *testing.T) {
	db := memdb(t)
	hist := repos.NewHistoryRepo(db)
	sid := "history-session"

	// view all 7 seeded products; the cap is 6
	order := []string{"saffron-001", "pepper-001", "chili-001", "turmeric-001", "almonds-001", "garam-001", "tea-001"}
	for _, pid := range order {
		if err := hist.Touch(sid, pid); err != nil {
			t.Fatal(err)
		}
	}

	ids, err := hist.ProductIDs(sid)
	if err != nil {
		t.Fatal(err)
	}
	if len(ids) != 6 {
		t.Fatalf("want capped history of 6, got %d", len(ids))
	}
	if ids[0] != "tea-001" {
		t.Fatalf("want most recent first, got %v", ids)
	}
	for _, id := range ids {
		if id == "saffron-001" {
			t.Fatal("oldest view should have been evicted")
		}
	}

	// a repeat view moves the product to the front without growing
	if err := hist.Touch(sid, "pepper-001"); err != nil {
		t.Fatal(err)
	}
	ids, err = hist.ProductIDs(sid)
	if err != nil {
		t.Fatal(err)
	}
	if len(ids) != 6 || ids[0] != "pepper-001" {
		t.Fatalf("repeat view should move to front: %v", ids)
	}
}

func TestRecommend_ForSessionExcludesViewed(t *testing.T) {
	db := memdb(t)
	hist := repos.NewHistoryRepo(db)
	svc := services.NewRecommendService(repos.NewProductRepo(db), hist)
	sid := "rec-session"

	if err := hist.Touch(sid, "saffron-001"); err != nil {
		t.Fatal(err)
	}

	suggestions, viewed, err := svc.ForSession(sid)
	if err != nil {
		t.Fatal(err)
	}
	if len(viewed) != 1 || viewed[0].ID != "saffron-001" {
		t.Fatalf("want viewed [saffron-001], got %+v", viewed)
	}
	if len(suggestions) == 0 {
		t.Fatal("want suggestions from a non-empty history")
	}
	for _, p := range suggestions {
		if p.ID == "saffron-001" {
			t.Fatal("viewed product leaked into suggestions")
		}
	}
}

func TestRecommend_ForSessionEmptyHistory(t *testing.T) {
	db := memdb(t)
	svc := services.NewRecommendService(repos.NewProductRepo(db), repos.NewHistoryRepo(db))

	suggestions, viewed, err := svc.ForSession("fresh-session")
	if err != nil {
		t.Fatal(err)
	}
	if len(suggestions) != 0 || len(viewed) != 0 {
		t.Fatalf("no history means no suggestions, got %d/%d", len(suggestions), len(viewed))
	}
}

func TestRecommend_ForProductFillsBothSlots(t *testing.T) {
	db := memdb(t)
	prodRepo := repos.NewProductRepo(db)
	svc := services.NewRecommendService(prodRepo, repos.NewHistoryRepo(db))

	anchor, err := prodRepo.Get("saffron-001")
	if err != nil {
		t.Fatal(err)
	}
	similar, bundles, err := svc.ForProduct(anchor)
	if err != nil {
		t.Fatal(err)
	}
	if len(similar) == 0 || len(similar) > 4 {
		t.Fatalf("want 1..4 similar products, got %d", len(similar))
	}
	if len(bundles) != 2 {
		t.Fatalf("want 2 bundle companions, got %d", len(bundles))
	}
	for _, p := range append(similar, bundles...) {
		if p.ID == anchor.ID {
			t.Fatal("anchor must not recommend itself")
		}
	}
}

func TestRecipe_AddToCartSkipsOutOfStock(t *testing.T) {
	db := memdb(t)
	prodRepo := repos.NewProductRepo(db)
	cartSvc := newCartService(db)
	svc := services.NewRecipeService(repos.NewRecipeRepo(db), prodRepo, cartSvc)
	sid := "recipe-session"

	// biryani needs saffron and garam masala; exhaust saffron entirely
	if err := prodRepo.SetStock("saffron-001-1g", 0); err != nil {
		t.Fatal(err)
	}
	if err := prodRepo.SetStock("saffron-001-5g", 0); err != nil {
		t.Fatal(err)
	}

	added, skipped, err := svc.AddToCart(sid, "biryani")
	if err != nil {
		t.Fatal(err)
	}
	if added != 1 {
		t.Fatalf("want 1 ingredient added, got %d", added)
	}
	if len(skipped) != 1 || skipped[0] != "Himalayan Saffron" {
		t.Fatalf("want saffron skipped, got %v", skipped)
	}

	cv, err := cartSvc.View(sid)
	if err != nil {
		t.Fatal(err)
	}
	if cv.ItemCount != 1 || cv.Lines[0].ProductID != "garam-001" {
		t.Fatalf("cart should hold garam masala only: %+v", cv.Lines)
	}
}
