package repos

import (
	"time"

	"github.com/jmoiron/sqlx"
)

// HistoryRepo tracks the products a session viewed, most recent first,
// capped at a small fixed size.
type HistoryRepo struct {
	db  *sqlx.DB
	cap int
}

const historyCap = 6

// Fixed-width so text comparison orders correctly; RFC3339Nano drops
// trailing zeros and breaks lexicographic ordering.
const viewedAtFormat = "2006-01-02T15:04:05.000000000Z07:00"

func NewHistoryRepo(db *sqlx.DB) *HistoryRepo { return &HistoryRepo{db: db, cap: historyCap} }

// Touch records a view. A repeat view moves the product to the front;
// the oldest entries beyond the cap are dropped.
func (r *HistoryRepo) Touch(sessionID, productID string) error {
	tx, err := r.db.Beginx()
	if err != nil {
		return err
	}
	defer func() { _ = tx.Rollback() }()

	if _, err := tx.Exec(`
	  INSERT INTO viewing_history(session_id, product_id, viewed_at)
	  VALUES(?, ?, ?)
	  ON CONFLICT(session_id, product_id) DO UPDATE SET viewed_at = excluded.viewed_at
	`, sessionID, productID, time.Now().UTC().Format(viewedAtFormat)); err != nil {
		return err
	}

	if _, err := tx.Exec(`
	  DELETE FROM viewing_history
	  WHERE session_id = ? AND product_id NOT IN (
	    SELECT product_id FROM viewing_history
	    WHERE session_id = ?
	    ORDER BY viewed_at DESC
	    LIMIT ?
	  )
	`, sessionID, sessionID, r.cap); err != nil {
		return err
	}
	return tx.Commit()
}

// ProductIDs returns viewed product ids, most recent first.
func (r *HistoryRepo) ProductIDs(sessionID string) ([]string, error) {
	var out []string
	err := r.db.Select(&out, `
	  SELECT product_id FROM viewing_history
	  WHERE session_id = ?
	  ORDER BY viewed_at DESC
	  LIMIT ?
	`, sessionID, r.cap)
	return out, err
}

func (r *HistoryRepo) Clear(sessionID string) error {
	_, err := r.db.Exec(`DELETE FROM viewing_history WHERE session_id = ?`, sessionID)
	return err
}
