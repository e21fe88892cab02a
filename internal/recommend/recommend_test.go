package recommend_test

import (
	"testing"

	"tattva/internal/domain"
	"tattva/internal/recommend"
)

func prod(id, category string, price float64, tags ...string) domain.Product {
	return domain.Product{
		ID:       id,
		Name:     id,
		Category: category,
		Tags:     tags,
		Variants: []domain.Variant{{ID: id + "-v", ProductID: id, Name: "100g", Price: price, Stock: 10}},
	}
}

func TestBundles_PrefersCrossCategoryCompanions(t *testing.T) {
	anchor := prod("saffron", "Spices", 1599, "Premium")
	all := []domain.Product{
		anchor,
		prod("pepper", "Spices", 899),            // same cat: 1, price in range: +1 = 2
		prod("tea", "Teas", 1250, "Premium"),     // cross: 2, tag: +1, price: +1 = 4
		prod("almonds", "Nuts", 2999, "Premium"), // cross: 2, tag: +1, price out of range = 3
		prod("garam", "Spices", 349, "Aromatic"), // same: 1, price in range: +1 = 2
	}

	got := recommend.Bundles(anchor, all, recommend.DefaultBundleWeights())
	if len(got) != 2 {
		t.Fatalf("want top 2, got %d", len(got))
	}
	if got[0].ID != "tea" || got[1].ID != "almonds" {
		t.Fatalf("want [tea almonds], got [%s %s]", got[0].ID, got[1].ID)
	}
}

func TestBundles_ExcludesAnchorItself(t *testing.T) {
	anchor := prod("saffron", "Spices", 1599)
	got := recommend.Bundles(anchor, []domain.Product{anchor}, recommend.DefaultBundleWeights())
	if len(got) != 0 {
		t.Fatalf("anchor alone should yield nothing, got %+v", got)
	}
}

func TestBundles_EmptyCatalog(t *testing.T) {
	got := recommend.Bundles(prod("x", "Spices", 100), nil, recommend.DefaultBundleWeights())
	if len(got) != 0 {
		t.Fatalf("want empty, got %+v", got)
	}
}

func TestSimilar_CategoryDominatesTags(t *testing.T) {
	anchor := prod("saffron", "Spices", 1599, "Premium", "Aromatic")
	all := []domain.Product{
		anchor,
		prod("tea", "Teas", 1250, "Premium", "Aromatic"), // 2 tags: 4
		prod("pepper", "Spices", 899),                    // same cat: 5
		prod("almonds", "Nuts", 2250),                    // 0
	}

	got := recommend.Similar(anchor, all, 0, recommend.DefaultSimilarWeights())
	if len(got) != 3 {
		t.Fatalf("want 3 candidates, got %d", len(got))
	}
	if got[0].ID != "pepper" {
		t.Fatalf("same category must outrank two shared tags, got %s first", got[0].ID)
	}
	if got[1].ID != "tea" {
		t.Fatalf("want tea second, got %s", got[1].ID)
	}
}

func TestSimilar_CapsAtN(t *testing.T) {
	anchor := prod("anchor", "Spices", 100)
	var all []domain.Product
	all = append(all, anchor)
	for _, id := range []string{"a", "b", "c", "d", "e", "f"} {
		all = append(all, prod(id, "Spices", 100))
	}
	got := recommend.Similar(anchor, all, 0, recommend.DefaultSimilarWeights())
	if len(got) != 4 {
		t.Fatalf("default cap is 4, got %d", len(got))
	}
}

func TestSimilar_TiesKeepCatalogOrder(t *testing.T) {
	anchor := prod("anchor", "Spices", 100)
	all := []domain.Product{
		anchor,
		prod("first", "Spices", 100),
		prod("second", "Spices", 100),
	}
	got := recommend.Similar(anchor, all, 0, recommend.DefaultSimilarWeights())
	if got[0].ID != "first" || got[1].ID != "second" {
		t.Fatalf("stable sort should keep input order on ties: %+v", got)
	}
}

func TestPersonalized_ExcludesViewedAndFollowsProfile(t *testing.T) {
	viewedSaffron := prod("saffron", "Spices", 1599, "Premium")
	viewedTea := prod("tea", "Teas", 1250, "Premium")
	all := []domain.Product{
		viewedSaffron,
		viewedTea,
		prod("pepper", "Spices", 899, "Single-Origin"), // cat freq 1: 3
		prod("almonds", "Nuts", 2250, "Premium"),       // tag freq 2: 3 -> same, but later
		prod("chili", "Spices", 499, "Premium"),        // cat 3 + tag 3 = 6
	}

	got := recommend.Personalized([]domain.Product{viewedSaffron, viewedTea}, all, 0, recommend.DefaultPersonalWeights())
	if len(got) != 3 {
		t.Fatalf("viewed products must be excluded, got %d results", len(got))
	}
	if got[0].ID != "chili" {
		t.Fatalf("want chili first, got %s", got[0].ID)
	}
	for _, p := range got {
		if p.ID == "saffron" || p.ID == "tea" {
			t.Fatalf("viewed product %s leaked into suggestions", p.ID)
		}
	}
}

func TestPersonalized_RatingBreaksProfileTies(t *testing.T) {
	viewed := prod("saffron", "Spices", 1599)
	rated := prod("pepper", "Spices", 899)
	rated.Reviews = []domain.Review{{ID: "r1", ProductID: "pepper", Author: "a", Rating: 5}}
	unrated := prod("chili", "Spices", 499)

	all := []domain.Product{viewed, unrated, rated}
	got := recommend.Personalized([]domain.Product{viewed}, all, 0, recommend.DefaultPersonalWeights())
	if len(got) != 2 || got[0].ID != "pepper" {
		t.Fatalf("rating bonus should rank pepper first, got %+v", got)
	}
}

func TestPersonalized_NoHistoryNoSuggestions(t *testing.T) {
	all := []domain.Product{prod("pepper", "Spices", 899)}
	got := recommend.Personalized(nil, all, 0, recommend.DefaultPersonalWeights())
	if len(got) != 0 {
		t.Fatalf("empty history must yield no suggestions, got %+v", got)
	}
}
