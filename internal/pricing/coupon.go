package pricing

import (
	"errors"
	"fmt"
	"math"
	"time"

	"tattva/internal/domain"
)

// Coupon validation failures carry user-facing reasons; callers render
// the message, reset the discount to 0 and move on.
var (
	ErrCouponNotFound = errors.New("Invalid promo code")
	ErrCouponInactive = errors.New("Coupon is inactive")
	ErrCouponUsedUp   = errors.New("Coupon usage limit reached")
)

const couponDateFormat = "Jan 2, 2006"

// Applied is the outcome of a successful coupon validation.
type Applied struct {
	Code     string
	Discount float64
}

// ValidateCoupon runs the check sequence in order, first failure wins.
// A nil coupon means the code lookup found nothing. The discount is
// clamped to the subtotal and floored to a whole amount.
func ValidateCoupon(c *domain.Coupon, subtotal float64, now time.Time) (Applied, error) {
	if c == nil {
		return Applied{}, ErrCouponNotFound
	}
	if !c.Active {
		return Applied{}, ErrCouponInactive
	}
	if now.Before(c.ValidFrom) {
		return Applied{}, fmt.Errorf("Coupon starts on %s", c.ValidFrom.Format(couponDateFormat))
	}
	if now.After(c.ValidUntil) {
		return Applied{}, fmt.Errorf("Coupon expired on %s", c.ValidUntil.Format(couponDateFormat))
	}
	if subtotal < c.MinOrderValue {
		return Applied{}, fmt.Errorf("Minimum order of ₹%.0f required", c.MinOrderValue)
	}
	if c.UsedCount >= c.MaxUses {
		return Applied{}, ErrCouponUsedUp
	}

	var discount float64
	if c.DiscountType == "percentage" {
		discount = subtotal * c.DiscountValue / 100
	} else {
		discount = c.DiscountValue
	}
	discount = math.Floor(math.Min(discount, subtotal))

	return Applied{Code: c.Code, Discount: discount}, nil
}
