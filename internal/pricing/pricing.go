// Package pricing derives order totals and validates coupons.
package pricing

// TaxRate is applied to the discounted subtotal.
const TaxRate = 0.08

// Breakdown is the full price derivation for a cart. Values are raw
// float64; rounding to two decimals is left to the display layer.
type Breakdown struct {
	Subtotal float64
	Discount float64
	Shipping float64
	Tax      float64
	Total    float64
}

// Compute derives tax and total from subtotal, discount and shipping.
// Inputs are assumed non-negative with discount <= subtotal; callers
// clamp before handing values in.
func Compute(subtotal, discount, shipping float64) Breakdown {
	tax := (subtotal - discount) * TaxRate
	return Breakdown{
		Subtotal: subtotal,
		Discount: discount,
		Shipping: shipping,
		Tax:      tax,
		Total:    subtotal - discount + shipping + tax,
	}
}

// ShippingPolicy gives free shipping above a subtotal threshold and a
// flat rate below it.
type ShippingPolicy struct {
	FreeAbove float64
	Flat      float64
}

func DefaultShipping() ShippingPolicy {
	return ShippingPolicy{FreeAbove: 600, Flat: 50}
}

func (p ShippingPolicy) Cost(subtotal float64) float64 {
	if subtotal >= p.FreeAbove {
		return 0
	}
	return p.Flat
}

// Remaining is how much more must be added to the cart to reach free
// shipping; 0 once the threshold is met.
func (p ShippingPolicy) Remaining(subtotal float64) float64 {
	if r := p.FreeAbove - subtotal; r > 0 {
		return r
	}
	return 0
}
