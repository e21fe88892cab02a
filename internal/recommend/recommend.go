// Package recommend scores products for the storefront's suggestion
// slots. All three scorers follow the same shape: score candidates,
// stable-sort descending, take the top N. Weights are configurable
// defaults rather than hard-coded literals; nothing upstream documents
// why these particular values, so they stay tunable.
package recommend

import (
	"sort"

	"tattva/internal/catalog"
	"tattva/internal/domain"
)

// BundleWeights drive the "frequently bought together" slot.
type BundleWeights struct {
	CrossCategory  float64 // different category, reward variety
	SameCategory   float64
	SharedTag      float64 // per shared tag
	PriceProximity float64 // candidate price within (0.2, 1.5)x anchor
}

func DefaultBundleWeights() BundleWeights {
	return BundleWeights{CrossCategory: 2, SameCategory: 1, SharedTag: 1, PriceProximity: 1}
}

// SimilarWeights drive the "you may also like" slot on product pages.
type SimilarWeights struct {
	SameCategory float64 // dominant signal
	SharedTag    float64 // per shared tag
}

func DefaultSimilarWeights() SimilarWeights {
	return SimilarWeights{SameCategory: 5, SharedTag: 2}
}

// PersonalWeights drive home-page suggestions from viewing history.
type PersonalWeights struct {
	CategoryFreq float64 // per occurrence of the category in history
	TagFreq      float64 // per occurrence of each tag in history
	Rating       float64 // times the candidate's average rating
}

func DefaultPersonalWeights() PersonalWeights {
	return PersonalWeights{CategoryFreq: 3, TagFreq: 1.5, Rating: 0.5}
}

type scored struct {
	product domain.Product
	score   float64
}

func top(scored []scored, n int) []domain.Product {
	sort.SliceStable(scored, func(i, j int) bool { return scored[i].score > scored[j].score })
	if len(scored) > n {
		scored = scored[:n]
	}
	out := make([]domain.Product, len(scored))
	for i, s := range scored {
		out[i] = s.product
	}
	return out
}

func sharedTags(a, b []string) int {
	n := 0
	for _, t := range a {
		for _, u := range b {
			if t == u {
				n++
				break
			}
		}
	}
	return n
}

// Bundles returns the top 2 companions for the anchor product.
func Bundles(anchor domain.Product, all []domain.Product, w BundleWeights) []domain.Product {
	if len(all) == 0 {
		return nil
	}
	anchorPrice := catalog.ProductPrice(anchor)

	var cands []scored
	for _, p := range all {
		if p.ID == anchor.ID {
			continue
		}
		score := w.SameCategory
		if p.Category != anchor.Category {
			score = w.CrossCategory
		}
		score += w.SharedTag * float64(sharedTags(p.Tags, anchor.Tags))
		if price := catalog.ProductPrice(p); price > anchorPrice*0.2 && price < anchorPrice*1.5 {
			score += w.PriceProximity
		}
		cands = append(cands, scored{product: p, score: score})
	}
	return top(cands, 2)
}

// Similar returns up to n products related to the anchor; n defaults
// to 4 when non-positive.
func Similar(anchor domain.Product, all []domain.Product, n int, w SimilarWeights) []domain.Product {
	if len(all) == 0 {
		return nil
	}
	if n <= 0 {
		n = 4
	}
	var cands []scored
	for _, p := range all {
		if p.ID == anchor.ID {
			continue
		}
		score := 0.0
		if p.Category == anchor.Category {
			score += w.SameCategory
		}
		score += w.SharedTag * float64(sharedTags(p.Tags, anchor.Tags))
		cands = append(cands, scored{product: p, score: score})
	}
	return top(cands, n)
}

// Personalized scores the catalog against a frequency profile of the
// visitor's viewing history and returns up to n unseen products; n
// defaults to 8 when non-positive.
func Personalized(viewed, all []domain.Product, n int, w PersonalWeights) []domain.Product {
	if len(viewed) == 0 || len(all) == 0 {
		return nil
	}
	if n <= 0 {
		n = 8
	}

	catFreq := make(map[string]int)
	tagFreq := make(map[string]int)
	viewedIDs := make(map[string]bool, len(viewed))
	for _, p := range viewed {
		viewedIDs[p.ID] = true
		catFreq[p.Category]++
		for _, t := range p.Tags {
			tagFreq[t]++
		}
	}

	var cands []scored
	for _, p := range all {
		if viewedIDs[p.ID] {
			continue
		}
		score := w.CategoryFreq * float64(catFreq[p.Category])
		for _, t := range p.Tags {
			score += w.TagFreq * float64(tagFreq[t])
		}
		score += w.Rating * catalog.AverageRating(p.Reviews)
		cands = append(cands, scored{product: p, score: score})
	}
	return top(cands, n)
}
