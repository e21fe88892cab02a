// Package catalog holds the numeric-coercion boundary for product data.
// External feeds deliver prices, ratings and stock counts as a mix of
// numbers and numeric strings; everything is normalized here so the rest
// of the code can assume float64/int.
package catalog

import (
	"math"
	"strconv"
	"strings"

	"tattva/internal/domain"
)

// ToNum coerces a loosely-typed value to float64. Unparseable input
// yields NaN, which aggregate helpers below filter out rather than
// propagate.
func ToNum(v any) float64 {
	switch x := v.(type) {
	case nil:
		return math.NaN()
	case float64:
		return x
	case float32:
		return float64(x)
	case int:
		return float64(x)
	case int64:
		return float64(x)
	case string:
		n, err := strconv.ParseFloat(strings.TrimSpace(x), 64)
		if err != nil {
			return math.NaN()
		}
		return n
	default:
		return math.NaN()
	}
}

// EffectivePrice is the price a variant actually sells at: the sale
// price when one is set, the base price otherwise.
func EffectivePrice(v domain.Variant) float64 {
	if v.SalePrice != nil {
		return *v.SalePrice
	}
	return v.Price
}

// ProductPrice returns the minimum effective price across variants,
// skipping NaN values. A product with no priceable variant returns +Inf
// so it sorts after everything priced.
func ProductPrice(p domain.Product) float64 {
	min := math.Inf(1)
	for _, v := range p.Variants {
		n := EffectivePrice(v)
		if math.IsNaN(n) {
			continue
		}
		if n < min {
			min = n
		}
	}
	return min
}

// AverageRating averages review ratings, 0 for an empty review list.
func AverageRating(reviews []domain.Review) float64 {
	if len(reviews) == 0 {
		return 0
	}
	sum := 0.0
	for _, r := range reviews {
		if math.IsNaN(r.Rating) {
			continue
		}
		sum += r.Rating
	}
	avg := sum / float64(len(reviews))
	if math.IsNaN(avg) {
		return 0
	}
	return avg
}

// IsOnSale reports whether a variant has a sale price strictly below
// its base price.
func IsOnSale(v domain.Variant) bool {
	return v.SalePrice != nil && *v.SalePrice < v.Price
}

func AnyVariantOnSale(p domain.Product) bool {
	for _, v := range p.Variants {
		if IsOnSale(v) {
			return true
		}
	}
	return false
}

func AnyVariantInStock(p domain.Product) bool {
	for _, v := range p.Variants {
		if v.Stock > 0 {
			return true
		}
	}
	return false
}
