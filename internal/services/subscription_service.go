package services

import (
	"errors"
	"time"

	"github.com/google/uuid"

	"tattva/internal/domain"
	"tattva/internal/repos"
)

var ErrUnknownPlan = errors.New("unknown subscription plan")

// plans is the static subscription catalog; pricing lives here rather
// than in the DB because plan changes ship with the code.
var plans = []domain.SubscriptionPlan{
	{
		ID:       "starter",
		Name:     "Starter Box",
		Price:    999,
		Interval: "monthly",
		Features: []string{
			"4 Curated Spices Monthly",
			"Free Shipping",
			"1 Recipe Card",
			"10% OFF all other store orders",
		},
		Savings: "₹200 / year",
	},
	{
		ID:       "premium",
		Name:     "Chef's Collection",
		Price:    1499,
		Interval: "monthly",
		Features: []string{
			"6 Premium Spices Monthly",
			"Priority Free Shipping",
			"3 Recipe Cards",
			"Early Access to New Harvests",
			"20% OFF all other store orders",
		},
		Savings:     "₹600 / year",
		Recommended: true,
	},
}

type SubscriptionService struct {
	Repo *repos.SubscriptionRepo
}

func NewSubscriptionService(r *repos.SubscriptionRepo) *SubscriptionService {
	return &SubscriptionService{Repo: r}
}

func (s *SubscriptionService) Plans() []domain.SubscriptionPlan { return plans }

func (s *SubscriptionService) plan(id string) (domain.SubscriptionPlan, bool) {
	for _, p := range plans {
		if p.ID == id {
			return p, true
		}
	}
	return domain.SubscriptionPlan{}, false
}

// NextBillingDate is one month after the start for monthly plans,
// three for quarterly.
func NextBillingDate(start time.Time, interval string) time.Time {
	months := 1
	if interval == "quarterly" {
		months = 3
	}
	return start.AddDate(0, months, 0)
}

func (s *SubscriptionService) Subscribe(sessionID, planID string) (string, error) {
	p, ok := s.plan(planID)
	if !ok {
		return "", ErrUnknownPlan
	}
	id := uuid.NewString()
	now := time.Now()
	if err := s.Repo.Create(id, sessionID, p.ID, now, NextBillingDate(now, p.Interval)); err != nil {
		return "", err
	}
	return id, nil
}

func (s *SubscriptionService) List(sessionID string) ([]repos.SubscriptionRow, error) {
	return s.Repo.ListBySession(sessionID)
}

func (s *SubscriptionService) Cancel(id, sessionID string) error {
	return s.Repo.Cancel(id, sessionID)
}
