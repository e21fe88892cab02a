package repos

import (
	"time"

	"github.com/jmoiron/sqlx"

	"tattva/internal/domain"
)

type CouponRepo struct{ db *sqlx.DB }

func NewCouponRepo(db *sqlx.DB) *CouponRepo { return &CouponRepo{db: db} }

// couponRow keeps the validity window as stored TEXT; times are parsed
// on the way out so the domain type carries real time.Time values.
type couponRow struct {
	ID            string  `db:"id"`
	Code          string  `db:"code"`
	DiscountType  string  `db:"discount_type"`
	DiscountValue float64 `db:"discount_value"`
	MinOrderValue float64 `db:"min_order_value"`
	MaxUses       int     `db:"max_uses"`
	UsedCount     int     `db:"used_count"`
	ValidFrom     string  `db:"valid_from"`
	ValidUntil    string  `db:"valid_until"`
	Active        bool    `db:"active"`
	CreatedAt     string  `db:"created_at"`
}

func (row couponRow) toDomain() domain.Coupon {
	from, _ := time.Parse(time.RFC3339, row.ValidFrom)
	until, _ := time.Parse(time.RFC3339, row.ValidUntil)
	return domain.Coupon{
		ID:            row.ID,
		Code:          row.Code,
		DiscountType:  row.DiscountType,
		DiscountValue: row.DiscountValue,
		MinOrderValue: row.MinOrderValue,
		MaxUses:       row.MaxUses,
		UsedCount:     row.UsedCount,
		ValidFrom:     from,
		ValidUntil:    until,
		Active:        row.Active,
		CreatedAt:     row.CreatedAt,
	}
}

const couponCols = `id, code, discount_type, discount_value, min_order_value,
  max_uses, used_count, valid_from, valid_until, active, created_at`

// ByCode looks a coupon up by exact case-insensitive code match.
// Returns sql.ErrNoRows when absent.
func (r *CouponRepo) ByCode(code string) (domain.Coupon, error) {
	var row couponRow
	err := r.db.Get(&row, `
	  SELECT `+couponCols+` FROM coupons WHERE UPPER(code) = UPPER(?)
	`, code)
	if err != nil {
		return domain.Coupon{}, err
	}
	return row.toDomain(), nil
}

func (r *CouponRepo) List() ([]domain.Coupon, error) {
	var rows []couponRow
	if err := r.db.Select(&rows, `SELECT `+couponCols+` FROM coupons ORDER BY created_at DESC`); err != nil {
		return nil, err
	}
	out := make([]domain.Coupon, len(rows))
	for i, row := range rows {
		out[i] = row.toDomain()
	}
	return out, nil
}

func (r *CouponRepo) Create(c domain.Coupon) error {
	_, err := r.db.Exec(`
	  INSERT INTO coupons(id, code, discount_type, discount_value, min_order_value,
	                      max_uses, used_count, valid_from, valid_until, active)
	  VALUES(?, ?, ?, ?, ?, ?, 0, ?, ?, ?)
	`, c.ID, c.Code, c.DiscountType, c.DiscountValue, c.MinOrderValue,
		c.MaxUses, c.ValidFrom.Format(time.RFC3339), c.ValidUntil.Format(time.RFC3339), c.Active)
	return err
}

func (r *CouponRepo) SetActive(id string, active bool) error {
	_, err := r.db.Exec(`UPDATE coupons SET active = ? WHERE id = ?`, active, id)
	return err
}

func (r *CouponRepo) Delete(id string) error {
	_, err := r.db.Exec(`DELETE FROM coupons WHERE id = ?`, id)
	return err
}

// IncrementUsage bumps used_count while respecting the cap.
func (r *CouponRepo) IncrementUsage(code string) error {
	_, err := r.db.Exec(`
	  UPDATE coupons SET used_count = used_count + 1
	  WHERE UPPER(code) = UPPER(?) AND used_count < max_uses
	`, code)
	return err
}
