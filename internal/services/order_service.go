package services

import (
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"

	"tattva/internal/pricing"
	"tattva/internal/repos"
)

type Contact struct {
	Name  string
	Email string
}

var ErrCartEmpty = errors.New("cart empty")

type OrderService struct {
	Cart     *CartService
	Prods    *repos.ProductRepo
	Orders   *repos.OrderRepo
	Coupons  *repos.CouponRepo
	Shipping pricing.ShippingPolicy
}

func NewOrderService(cart *CartService, prods *repos.ProductRepo, orders *repos.OrderRepo, coupons *repos.CouponRepo, shipping pricing.ShippingPolicy) *OrderService {
	return &OrderService{Cart: cart, Prods: prods, Orders: orders, Coupons: coupons, Shipping: shipping}
}

// Place turns the session cart into an order: re-validates any applied
// coupon against the live subtotal, checks and decrements stock, writes
// the order with its full breakdown, then clears the cart.
func (s *OrderService) Place(sessionID, pincode string, contact Contact) (string, pricing.Breakdown, error) {
	lines, promoCode, err := s.Cart.Lines(sessionID)
	if err != nil {
		return "", pricing.Breakdown{}, err
	}
	if len(lines) == 0 {
		return "", pricing.Breakdown{}, ErrCartEmpty
	}

	subtotal := 0.0
	for _, ln := range lines {
		subtotal += float64(ln.Quantity) * ln.UnitPrice
	}

	// Coupon state may be stale (cart changed since apply); validate
	// again against the subtotal being charged.
	discount := 0.0
	if promoCode != "" {
		coupon, err := s.Coupons.ByCode(promoCode)
		if err != nil && err != sql.ErrNoRows {
			return "", pricing.Breakdown{}, err
		}
		if err == nil {
			if applied, verr := pricing.ValidateCoupon(&coupon, subtotal, time.Now()); verr == nil {
				discount = applied.Discount
			} else {
				promoCode = ""
			}
		} else {
			promoCode = ""
		}
	}

	// pre-check stock
	for _, ln := range lines {
		v, err := s.Prods.GetVariant(ln.VariantID)
		if err != nil && err != sql.ErrNoRows {
			return "", pricing.Breakdown{}, err
		}
		if v.Stock < ln.Quantity {
			return "", pricing.Breakdown{}, fmt.Errorf("insufficient stock for %s %s (need %d, have %d)",
				ln.Name, ln.VariantName, ln.Quantity, v.Stock)
		}
	}

	// decrement
	for _, ln := range lines {
		ok, err := s.Prods.DecrementStock(ln.VariantID, ln.Quantity)
		if err != nil {
			return "", pricing.Breakdown{}, err
		}
		if !ok {
			return "", pricing.Breakdown{}, fmt.Errorf("insufficient stock for %s %s", ln.Name, ln.VariantName)
		}
	}

	breakdown := pricing.Compute(subtotal, discount, s.Shipping.Cost(subtotal))

	orderID := uuid.NewString()
	if err := s.Orders.Create(orderID, sessionID, pincode, contact.Name, contact.Email, promoCode, breakdown); err != nil {
		return "", pricing.Breakdown{}, err
	}
	for _, ln := range lines {
		if err := s.Orders.InsertItem(orderID, ln.ProductID, ln.VariantID, ln.Name, ln.VariantName, ln.Quantity, ln.UnitPrice); err != nil {
			return "", pricing.Breakdown{}, err
		}
	}
	if promoCode != "" {
		// Usage accounting happens here, not at apply time.
		_ = s.Coupons.IncrementUsage(promoCode)
	}
	_ = s.Cart.Clear(sessionID)

	return orderID, breakdown, nil
}
