package repos

import (
	"database/sql"
	"time"

	"github.com/jmoiron/sqlx"

	"tattva/internal/cart"
)

// CartRepo persists session cart snapshots. The in-memory cart store is
// the source of truth while a session is live; this repo only hydrates
// new sessions and records every change.
type CartRepo struct{ db *sqlx.DB }

func NewCartRepo(db *sqlx.DB) *CartRepo { return &CartRepo{db: db} }

type cartItemRow struct {
	ProductID   string  `db:"product_id"`
	VariantID   string  `db:"variant_id"`
	Name        string  `db:"name"`
	VariantName string  `db:"variant_name"`
	Image       string  `db:"image"`
	UnitPrice   float64 `db:"unit_price"`
	Stock       int     `db:"stock"`
	Qty         int     `db:"qty"`
}

// CartState is everything persisted for one session cart.
type CartState struct {
	Lines     []cart.Line
	PromoCode string
	Discount  float64
}

func (r *CartRepo) ensure(sessionID string) error {
	_, err := r.db.Exec(`
	  INSERT INTO carts(session_id, updated_at) VALUES(?, ?)
	  ON CONFLICT(session_id) DO NOTHING
	`, sessionID, time.Now().Format(time.RFC3339))
	return err
}

// Load returns the persisted cart for a session; a session never seen
// before comes back empty.
func (r *CartRepo) Load(sessionID string) (CartState, error) {
	var st CartState

	var meta struct {
		PromoCode sql.NullString `db:"promo_code"`
		Discount  float64        `db:"discount"`
	}
	err := r.db.Get(&meta, `SELECT promo_code, discount FROM carts WHERE session_id = ?`, sessionID)
	if err == sql.ErrNoRows {
		return st, nil
	}
	if err != nil {
		return st, err
	}
	st.PromoCode = meta.PromoCode.String
	st.Discount = meta.Discount

	var rows []cartItemRow
	if err := r.db.Select(&rows, `
	  SELECT product_id, variant_id, name, variant_name, COALESCE(image,'') AS image,
	         unit_price, stock, qty
	  FROM cart_items
	  WHERE session_id = ?
	  ORDER BY position
	`, sessionID); err != nil {
		return st, err
	}
	for _, row := range rows {
		st.Lines = append(st.Lines, cart.Line{
			ProductID:   row.ProductID,
			VariantID:   row.VariantID,
			Name:        row.Name,
			VariantName: row.VariantName,
			Image:       row.Image,
			UnitPrice:   row.UnitPrice,
			Stock:       row.Stock,
			Quantity:    row.Qty,
		})
	}
	return st, nil
}

// SaveLines replaces the persisted lines for a session.
func (r *CartRepo) SaveLines(sessionID string, lines []cart.Line) error {
	if err := r.ensure(sessionID); err != nil {
		return err
	}
	tx, err := r.db.Beginx()
	if err != nil {
		return err
	}
	defer func() { _ = tx.Rollback() }()

	if _, err := tx.Exec(`DELETE FROM cart_items WHERE session_id = ?`, sessionID); err != nil {
		return err
	}
	for i, ln := range lines {
		if _, err := tx.Exec(`
		  INSERT INTO cart_items(session_id, product_id, variant_id, name, variant_name,
		                         image, unit_price, stock, qty, position)
		  VALUES(?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
		`, sessionID, ln.ProductID, ln.VariantID, ln.Name, ln.VariantName,
			ln.Image, ln.UnitPrice, ln.Stock, ln.Quantity, i); err != nil {
			return err
		}
	}
	if _, err := tx.Exec(`UPDATE carts SET updated_at = ? WHERE session_id = ?`,
		time.Now().Format(time.RFC3339), sessionID); err != nil {
		return err
	}
	return tx.Commit()
}

// SaveCoupon records the applied promo code and computed discount;
// empty code clears both.
func (r *CartRepo) SaveCoupon(sessionID, code string, discount float64) error {
	if err := r.ensure(sessionID); err != nil {
		return err
	}
	var promo any
	if code != "" {
		promo = code
	}
	_, err := r.db.Exec(`
	  UPDATE carts SET promo_code = ?, discount = ?, updated_at = ?
	  WHERE session_id = ?
	`, promo, discount, time.Now().Format(time.RFC3339), sessionID)
	return err
}

// Clear drops the cart row and its items.
func (r *CartRepo) Clear(sessionID string) error {
	_, err := r.db.Exec(`DELETE FROM carts WHERE session_id = ?`, sessionID)
	return err
}
