package catalog_test

import (
	"math"
	"testing"

	"tattva/internal/catalog"
	"tattva/internal/domain"
)

func TestToNum_CoercesStringsAndNumbers(t *testing.T) {
	cases := []struct {
		in   any
		want float64
	}{
		{12.5, 12.5},
		{"12.5", 12.5},
		{" 9.99 ", 9.99},
		{3, 3},
		{int64(7), 7},
		{float32(2.5), 2.5},
		{"0", 0},
	}
	for _, c := range cases {
		if got := catalog.ToNum(c.in); got != c.want {
			t.Errorf("ToNum(%v)=%v, want %v", c.in, got, c.want)
		}
	}
}

func TestToNum_GarbageIsNaN(t *testing.T) {
	for _, in := range []any{nil, "", "abc", "12.5kg", true, []int{1}} {
		if got := catalog.ToNum(in); !math.IsNaN(got) {
			t.Errorf("ToNum(%v)=%v, want NaN", in, got)
		}
	}
}

func TestEffectivePrice_SaleWins(t *testing.T) {
	sale := 9.99
	v := domain.Variant{Price: 12.5, SalePrice: &sale}
	if got := catalog.EffectivePrice(v); got != 9.99 {
		t.Fatalf("want 9.99, got %v", got)
	}
	v.SalePrice = nil
	if got := catalog.EffectivePrice(v); got != 12.5 {
		t.Fatalf("want 12.5, got %v", got)
	}
}

func TestProductPrice_MinimumAcrossVariants(t *testing.T) {
	sale := 1299.0
	p := domain.Product{Variants: []domain.Variant{
		{ID: "1g", Price: 1599, SalePrice: &sale},
		{ID: "5g", Price: 6599},
	}}
	if got := catalog.ProductPrice(p); got != 1299 {
		t.Fatalf("want cheapest effective price 1299, got %v", got)
	}
}

func TestProductPrice_NoVariantsIsInf(t *testing.T) {
	if got := catalog.ProductPrice(domain.Product{}); !math.IsInf(got, 1) {
		t.Fatalf("want +Inf, got %v", got)
	}
}

func TestAverageRating(t *testing.T) {
	if got := catalog.AverageRating(nil); got != 0 {
		t.Fatalf("empty reviews: want 0, got %v", got)
	}
	revs := []domain.Review{{Rating: 5}, {Rating: 4}}
	if got := catalog.AverageRating(revs); got != 4.5 {
		t.Fatalf("want 4.5, got %v", got)
	}
}

func TestIsOnSale_RequiresStrictlyLowerPrice(t *testing.T) {
	same := 100.0
	if catalog.IsOnSale(domain.Variant{Price: 100, SalePrice: &same}) {
		t.Fatal("sale price equal to base is not a sale")
	}
	lower := 80.0
	if !catalog.IsOnSale(domain.Variant{Price: 100, SalePrice: &lower}) {
		t.Fatal("lower sale price should count as on sale")
	}
	if catalog.IsOnSale(domain.Variant{Price: 100}) {
		t.Fatal("no sale price set")
	}
}

func TestDecodeFeed_CoercesStringNumerics(t *testing.T) {
	feed := []byte(`[
	  {
	    "id": "cardamom-001",
	    "name": "Green Cardamom",
	    "category": "Spices",
	    "variants": [
	      {"id": "cardamom-001-50g", "name": "50g", "price": "12.5", "salePrice": "9.99", "stock": "20"}
	    ],
	    "reviews": [
	      {"id": "r1", "author": "A", "rating": "4.5", "comment": "good"}
	    ]
	  }
	]`)
	products, err := catalog.DecodeFeed(feed)
	if err != nil {
		t.Fatal(err)
	}
	if len(products) != 1 {
		t.Fatalf("want 1 product, got %d", len(products))
	}
	p := products[0]
	if got := catalog.ProductPrice(p); got != 9.99 {
		t.Fatalf("want coerced sale price 9.99, got %v", got)
	}
	if p.Variants[0].Stock != 20 {
		t.Fatalf("want stock 20, got %d", p.Variants[0].Stock)
	}
	if p.Reviews[0].Rating != 4.5 {
		t.Fatalf("want rating 4.5, got %v", p.Reviews[0].Rating)
	}
}

func TestDecodeFeed_DropsUnparseableVariants(t *testing.T) {
	feed := []byte(`[
	  {
	    "id": "mix-001",
	    "name": "Trail Mix",
	    "category": "Nuts & Dry Fruits",
	    "variants": [
	      {"id": "bad", "name": "100g", "price": "n/a", "stock": 5},
	      {"id": "good", "name": "250g", "price": 450, "stock": 5}
	    ]
	  }
	]`)
	products, err := catalog.DecodeFeed(feed)
	if err != nil {
		t.Fatal(err)
	}
	if len(products[0].Variants) != 1 || products[0].Variants[0].ID != "good" {
		t.Fatalf("unparseable variant should be dropped: %+v", products[0].Variants)
	}
}

func TestDecodeFeed_RejectsProductWithNoUsableVariants(t *testing.T) {
	feed := []byte(`[
	  {"id": "x", "name": "X", "variants": [{"id": "v", "name": "v", "price": "oops"}]}
	]`)
	if _, err := catalog.DecodeFeed(feed); err == nil {
		t.Fatal("want an error for a product with no priceable variants")
	}
}

func TestDecodeFeed_BadJSON(t *testing.T) {
	if _, err := catalog.DecodeFeed([]byte(`{not json`)); err == nil {
		t.Fatal("want decode error")
	}
}
