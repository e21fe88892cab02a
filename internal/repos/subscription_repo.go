package repos

import (
	"time"

	"github.com/jmoiron/sqlx"
)

type SubscriptionRepo struct{ db *sqlx.DB }

func NewSubscriptionRepo(db *sqlx.DB) *SubscriptionRepo { return &SubscriptionRepo{db: db} }

type SubscriptionRow struct {
	ID            string `db:"id"`
	SessionID     string `db:"session_id"`
	PlanID        string `db:"plan_id"`
	Status        string `db:"status"`
	StartedAt     string `db:"started_at"`
	NextBillingAt string `db:"next_billing_at"`
}

func (r *SubscriptionRepo) Create(id, sessionID, planID string, started, nextBilling time.Time) error {
	_, err := r.db.Exec(`
	  INSERT INTO subscriptions(id, session_id, plan_id, status, started_at, next_billing_at)
	  VALUES(?, ?, ?, 'ACTIVE', ?, ?)
	`, id, sessionID, planID, started.Format(time.RFC3339), nextBilling.Format(time.RFC3339))
	return err
}

func (r *SubscriptionRepo) ListBySession(sessionID string) ([]SubscriptionRow, error) {
	var out []SubscriptionRow
	err := r.db.Select(&out, `
	  SELECT id, session_id, plan_id, status, started_at, next_billing_at
	  FROM subscriptions
	  WHERE session_id = ?
	  ORDER BY started_at DESC
	`, sessionID)
	return out, err
}

func (r *SubscriptionRepo) Cancel(id, sessionID string) error {
	_, err := r.db.Exec(`
	  UPDATE subscriptions SET status='CANCELED' WHERE id = ? AND session_id = ?
	`, id, sessionID)
	return err
}
