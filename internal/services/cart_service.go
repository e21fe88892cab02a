package services

import (
	"database/sql"
	"errors"
	"sync"
	"time"

	"tattva/internal/cart"
	"tattva/internal/domain"
	"tattva/internal/pricing"
	"tattva/internal/repos"
)

// CartService owns one in-memory cart store per session, hydrated from
// SQLite on first touch and persisted back on every change through the
// store's subscription hook.
type CartService struct {
	Carts    *repos.CartRepo
	Prods    *repos.ProductRepo
	Coupons  *repos.CouponRepo
	Shipping pricing.ShippingPolicy

	mu     sync.Mutex
	stores map[string]*cartState
}

type cartState struct {
	store     *cart.Store
	promoCode string
	discount  float64
}

func NewCartService(carts *repos.CartRepo, prods *repos.ProductRepo, coupons *repos.CouponRepo, shipping pricing.ShippingPolicy) *CartService {
	return &CartService{
		Carts:    carts,
		Prods:    prods,
		Coupons:  coupons,
		Shipping: shipping,
		stores:   make(map[string]*cartState),
	}
}

// state returns the session's cart, loading persisted lines the first
// time a session shows up.
func (s *CartService) state(sessionID string) (*cartState, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if st, ok := s.stores[sessionID]; ok {
		return st, nil
	}

	persisted, err := s.Carts.Load(sessionID)
	if err != nil {
		return nil, err
	}
	st := &cartState{
		store:     cart.NewStore(),
		promoCode: persisted.PromoCode,
		discount:  persisted.Discount,
	}
	st.store.Restore(persisted.Lines)
	sid := sessionID
	st.store.Subscribe(func(lines []cart.Line) {
		// Persistence is best-effort; the in-memory cart stays correct
		// even if a write fails.
		_ = s.Carts.SaveLines(sid, lines)
	})
	s.stores[sessionID] = st
	return st, nil
}

var ErrVariantNotFound = errors.New("variant not found")

// Add puts qty units of a product variant in the session cart.
func (s *CartService) Add(sessionID, productID, variantID string, qty int) error {
	st, err := s.state(sessionID)
	if err != nil {
		return err
	}
	p, err := s.Prods.Get(productID)
	if err != nil {
		return err
	}
	for _, v := range p.Variants {
		if v.ID == variantID {
			st.store.Add(p, v, qty)
			return nil
		}
	}
	return ErrVariantNotFound
}

func (s *CartService) UpdateQuantity(sessionID, productID, variantID string, qty int) error {
	st, err := s.state(sessionID)
	if err != nil {
		return err
	}
	st.store.UpdateQuantity(productID, variantID, qty)
	return nil
}

func (s *CartService) Remove(sessionID, productID, variantID string) error {
	st, err := s.state(sessionID)
	if err != nil {
		return err
	}
	st.store.Remove(productID, variantID)
	return nil
}

func (s *CartService) Clear(sessionID string) error {
	st, err := s.state(sessionID)
	if err != nil {
		return err
	}
	st.store.Clear()
	st.promoCode = ""
	st.discount = 0
	return s.Carts.SaveCoupon(sessionID, "", 0)
}

// ApplyCoupon validates a promo code against the live subtotal. On any
// failure the stored discount is reset to 0 and the reason returned.
func (s *CartService) ApplyCoupon(sessionID, code string) (pricing.Applied, error) {
	st, err := s.state(sessionID)
	if err != nil {
		return pricing.Applied{}, err
	}

	var record *domain.Coupon
	if coupon, err := s.Coupons.ByCode(code); err == nil {
		record = &coupon
	} else if err != sql.ErrNoRows {
		return pricing.Applied{}, err
	}

	applied, verr := pricing.ValidateCoupon(record, st.store.Subtotal(), time.Now())
	if verr != nil {
		st.promoCode = ""
		st.discount = 0
		_ = s.Carts.SaveCoupon(sessionID, "", 0)
		return pricing.Applied{}, verr
	}

	st.promoCode = applied.Code
	st.discount = applied.Discount
	if err := s.Carts.SaveCoupon(sessionID, applied.Code, applied.Discount); err != nil {
		return pricing.Applied{}, err
	}
	return applied, nil
}

func (s *CartService) RemoveCoupon(sessionID string) error {
	st, err := s.state(sessionID)
	if err != nil {
		return err
	}
	st.promoCode = ""
	st.discount = 0
	return s.Carts.SaveCoupon(sessionID, "", 0)
}

// CartView is the rendered cart: lines plus the full price breakdown
// and the free-shipping progress amount.
type CartView struct {
	Lines     []cart.Line
	ItemCount int
	PromoCode string
	Breakdown pricing.Breakdown
	Remaining float64
}

func (s *CartService) View(sessionID string) (CartView, error) {
	st, err := s.state(sessionID)
	if err != nil {
		return CartView{}, err
	}

	subtotal := st.store.Subtotal()
	discount := st.discount
	if discount > subtotal {
		discount = subtotal
	}
	shipping := s.Shipping.Cost(subtotal)

	return CartView{
		Lines:     st.store.Lines(),
		ItemCount: st.store.ItemCount(),
		PromoCode: st.promoCode,
		Breakdown: pricing.Compute(subtotal, discount, shipping),
		Remaining: s.Shipping.Remaining(subtotal),
	}, nil
}

// Lines exposes the raw cart contents, used by checkout.
func (s *CartService) Lines(sessionID string) ([]cart.Line, string, error) {
	st, err := s.state(sessionID)
	if err != nil {
		return nil, "", err
	}
	return st.store.Lines(), st.promoCode, nil
}

// Drop forgets a session cart entirely, memory and persisted rows both.
func (s *CartService) Drop(sessionID string) error {
	s.mu.Lock()
	delete(s.stores, sessionID)
	s.mu.Unlock()
	return s.Carts.Clear(sessionID)
}
