package repos

import (
	"github.com/jmoiron/sqlx"

	"tattva/internal/pricing"
)

type OrderRepo struct{ db *sqlx.DB }

func NewOrderRepo(db *sqlx.DB) *OrderRepo { return &OrderRepo{db: db} }

type OrderSummary struct {
	ID            string  `db:"id"`
	SessionID     string  `db:"session_id"`
	CustomerName  string  `db:"customer_name"`
	CustomerEmail string  `db:"customer_email"`
	Total         float64 `db:"total"`
	Status        string  `db:"status"`
	CreatedAt     string  `db:"created_at"`
}

type OrderRow struct {
	ID            string  `db:"id"`
	SessionID     string  `db:"session_id"`
	UserID        string  `db:"user_id"`
	Pincode       string  `db:"pincode"`
	CustomerName  string  `db:"customer_name"`
	CustomerEmail string  `db:"customer_email"`
	Subtotal      float64 `db:"subtotal"`
	Discount      float64 `db:"discount"`
	Shipping      float64 `db:"shipping"`
	Tax           float64 `db:"tax"`
	Total         float64 `db:"total"`
	PromoCode     string  `db:"promo_code"`
	Status        string  `db:"status"`
	CreatedAt     string  `db:"created_at"`
}

type OrderItemRow struct {
	ProductID   string  `db:"product_id"`
	Name        string  `db:"name"`
	VariantName string  `db:"variant_name"`
	Qty         int     `db:"qty"`
	UnitPrice   float64 `db:"unit_price"`
	Subtotal    float64 `db:"subtotal"`
}

// Create inserts the order header with its full price breakdown.
func (r *OrderRepo) Create(orderID, sessionID, pincode, name, email, promoCode string, b pricing.Breakdown) error {
	var promo any
	if promoCode != "" {
		promo = promoCode
	}
	_, err := r.db.Exec(`
	  INSERT INTO orders
	    (id, session_id, pincode, customer_name, customer_email,
	     subtotal, discount, shipping, tax, total, promo_code, status, created_at)
	  VALUES
	    (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, 'PLACED', CURRENT_TIMESTAMP)
	`, orderID, sessionID, pincode, name, email,
		b.Subtotal, b.Discount, b.Shipping, b.Tax, b.Total, promo)
	return err
}

func (r *OrderRepo) InsertItem(orderID, productID, variantID, name, variantName string, qty int, unitPrice float64) error {
	_, err := r.db.Exec(`
	  INSERT INTO order_items(order_id, product_id, variant_id, name, variant_name, qty, unit_price)
	  VALUES(?, ?, ?, ?, ?, ?, ?)
	`, orderID, productID, variantID, name, variantName, qty, unitPrice)
	return err
}

func (r *OrderRepo) Get(orderID string) (OrderRow, []OrderItemRow, error) {
	var o OrderRow
	if err := r.db.Get(&o, `
	  SELECT o.id, o.session_id, COALESCE(s.user_id,'') AS user_id, o.pincode,
	         o.customer_name, o.customer_email,
	         o.subtotal, o.discount, o.shipping, o.tax, o.total,
	         COALESCE(o.promo_code,'') AS promo_code, o.status, o.created_at
	  FROM orders o
	  LEFT JOIN sessions s ON s.id = o.session_id
	  WHERE o.id = ?
	`, orderID); err != nil {
		return OrderRow{}, nil, err
	}

	var items []OrderItemRow
	if err := r.db.Select(&items, `
	  SELECT product_id, name, variant_name, qty, unit_price,
	         (qty * unit_price) AS subtotal
	  FROM order_items
	  WHERE order_id = ?
	  ORDER BY name
	`, orderID); err != nil {
		return OrderRow{}, nil, err
	}

	return o, items, nil
}

func (r *OrderRepo) ListLatest(limit int) ([]OrderSummary, error) {
	if limit <= 0 {
		limit = 100
	}
	var out []OrderSummary
	err := r.db.Select(&out, `
	  SELECT id, session_id, customer_name, customer_email, total, status, created_at
	  FROM orders
	  ORDER BY datetime(created_at) DESC
	  LIMIT ?
	`, limit)
	return out, err
}

func (r *OrderRepo) ListByUser(userID string) ([]OrderSummary, error) {
	var out []OrderSummary
	err := r.db.Select(&out, `
	  SELECT o.id, o.session_id, o.customer_name, o.customer_email, o.total, o.status, o.created_at
	  FROM orders o
	  JOIN sessions s ON s.id = o.session_id
	  WHERE s.user_id = ?
	  ORDER BY datetime(o.created_at) DESC
	`, userID)
	return out, err
}

func (r *OrderRepo) ListBySession(sessionID string) ([]OrderSummary, error) {
	var out []OrderSummary
	err := r.db.Select(&out, `
	  SELECT id, session_id, customer_name, customer_email, total, status, created_at
	  FROM orders
	  WHERE session_id = ?
	  ORDER BY datetime(created_at) DESC
	`, sessionID)
	return out, err
}

func (r *OrderRepo) UpdateStatus(id, status string) error {
	_, err := r.db.Exec(`UPDATE orders SET status = ? WHERE id = ?`, status, id)
	return err
}
