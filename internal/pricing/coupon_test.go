package pricing_test

import (
	"testing"
	"time"

	"tattva/internal/domain"
	"tattva/internal/pricing"
)

var testNow = time.Date(2026, 6, 15, 12, 0, 0, 0, time.UTC)

func validCoupon() domain.Coupon {
	return domain.Coupon{
		ID:            "cpn-1",
		Code:          "SAVE10",
		DiscountType:  "percentage",
		DiscountValue: 10,
		MinOrderValue: 100,
		MaxUses:       500,
		UsedCount:     0,
		ValidFrom:     time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC),
		ValidUntil:    time.Date(2027, 1, 1, 0, 0, 0, 0, time.UTC),
		Active:        true,
	}
}

func TestValidateCoupon_PercentageDiscount(t *testing.T) {
	c := validCoupon()
	a, err := pricing.ValidateCoupon(&c, 500, testNow)
	if err != nil {
		t.Fatal(err)
	}
	if a.Discount != 50 {
		t.Fatalf("10%% of 500: want 50, got %v", a.Discount)
	}
	if a.Code != "SAVE10" {
		t.Fatalf("want code SAVE10, got %q", a.Code)
	}
}

func TestValidateCoupon_FixedDiscountClampedToSubtotal(t *testing.T) {
	c := validCoupon()
	c.Code = "WELCOME50"
	c.DiscountType = "fixed"
	c.DiscountValue = 50
	c.MinOrderValue = 0

	a, err := pricing.ValidateCoupon(&c, 30, testNow)
	if err != nil {
		t.Fatal(err)
	}
	if a.Discount != 30 {
		t.Fatalf("discount must not exceed subtotal: want 30, got %v", a.Discount)
	}
}

func TestValidateCoupon_DiscountIsFloored(t *testing.T) {
	c := validCoupon()
	// 10% of 555 = 55.5, floored to 55
	a, err := pricing.ValidateCoupon(&c, 555, testNow)
	if err != nil {
		t.Fatal(err)
	}
	if a.Discount != 55 {
		t.Fatalf("want floored discount 55, got %v", a.Discount)
	}
}

func TestValidateCoupon_NilMeansNotFound(t *testing.T) {
	_, err := pricing.ValidateCoupon(nil, 500, testNow)
	if err != pricing.ErrCouponNotFound {
		t.Fatalf("want ErrCouponNotFound, got %v", err)
	}
	if err.Error() != "Invalid promo code" {
		t.Fatalf("wrong message: %q", err.Error())
	}
}

func TestValidateCoupon_InactiveBeatsOtherChecks(t *testing.T) {
	c := validCoupon()
	c.Active = false
	c.UsedCount = c.MaxUses // also exhausted, but inactive is reported first
	_, err := pricing.ValidateCoupon(&c, 500, testNow)
	if err != pricing.ErrCouponInactive {
		t.Fatalf("want ErrCouponInactive, got %v", err)
	}
}

func TestValidateCoupon_NotStartedYet(t *testing.T) {
	c := validCoupon()
	c.ValidFrom = time.Date(2026, 10, 1, 0, 0, 0, 0, time.UTC)
	_, err := pricing.ValidateCoupon(&c, 500, testNow)
	if err == nil || err.Error() != "Coupon starts on Oct 1, 2026" {
		t.Fatalf("want start message, got %v", err)
	}
}

func TestValidateCoupon_Expired(t *testing.T) {
	c := validCoupon()
	c.ValidUntil = time.Date(2026, 3, 31, 0, 0, 0, 0, time.UTC)
	_, err := pricing.ValidateCoupon(&c, 500, testNow)
	if err == nil || err.Error() != "Coupon expired on Mar 31, 2026" {
		t.Fatalf("want expiry message, got %v", err)
	}
}

func TestValidateCoupon_MinOrderNotMet(t *testing.T) {
	c := validCoupon()
	_, err := pricing.ValidateCoupon(&c, 99, testNow)
	if err == nil || err.Error() != "Minimum order of ₹100 required" {
		t.Fatalf("want min-order message, got %v", err)
	}
}

func TestValidateCoupon_UsageLimitReached(t *testing.T) {
	c := validCoupon()
	c.UsedCount = 500
	_, err := pricing.ValidateCoupon(&c, 500, testNow)
	if err != pricing.ErrCouponUsedUp {
		t.Fatalf("want ErrCouponUsedUp, got %v", err)
	}
}
