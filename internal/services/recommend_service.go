package services

import (
	"tattva/internal/domain"
	"tattva/internal/recommend"
	"tattva/internal/repos"
)

// RecommendService feeds the three suggestion slots from the live
// catalog and the session's viewing history.
type RecommendService struct {
	Prods   *repos.ProductRepo
	History *repos.HistoryRepo

	Bundle   recommend.BundleWeights
	Similar  recommend.SimilarWeights
	Personal recommend.PersonalWeights
}

func NewRecommendService(prods *repos.ProductRepo, history *repos.HistoryRepo) *RecommendService {
	return &RecommendService{
		Prods:    prods,
		History:  history,
		Bundle:   recommend.DefaultBundleWeights(),
		Similar:  recommend.DefaultSimilarWeights(),
		Personal: recommend.DefaultPersonalWeights(),
	}
}

// ForProduct returns the product-page slots: similar products and the
// frequently-bought-together pair.
func (s *RecommendService) ForProduct(anchor domain.Product) (similar, bundles []domain.Product, err error) {
	all, err := s.Prods.ListActive()
	if err != nil {
		return nil, nil, err
	}
	similar = recommend.Similar(anchor, all, 4, s.Similar)
	bundles = recommend.Bundles(anchor, all, s.Bundle)
	return similar, bundles, nil
}

// ForSession returns home-page suggestions personalized from viewing
// history, along with the recently viewed products themselves.
func (s *RecommendService) ForSession(sessionID string) (suggestions, viewed []domain.Product, err error) {
	ids, err := s.History.ProductIDs(sessionID)
	if err != nil {
		return nil, nil, err
	}
	if len(ids) == 0 {
		return nil, nil, nil
	}

	all, err := s.Prods.ListActive()
	if err != nil {
		return nil, nil, err
	}
	byID := make(map[string]domain.Product, len(all))
	for _, p := range all {
		byID[p.ID] = p
	}
	for _, id := range ids {
		if p, ok := byID[id]; ok {
			viewed = append(viewed, p)
		}
	}

	suggestions = recommend.Personalized(viewed, all, 8, s.Personal)
	return suggestions, viewed, nil
}
