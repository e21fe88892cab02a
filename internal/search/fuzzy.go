// Package search implements typo-tolerant product search: a substring
// pass first, then a Levenshtein fallback for near-misses.
package search

import (
	"strings"

	"tattva/internal/domain"
)

// Levenshtein returns the edit distance between a and b. Matching is
// case-sensitive; callers lowercase beforehand.
func Levenshtein(a, b string) int {
	ra, rb := []rune(a), []rune(b)
	if len(ra) == 0 {
		return len(rb)
	}
	if len(rb) == 0 {
		return len(ra)
	}

	prev := make([]int, len(ra)+1)
	cur := make([]int, len(ra)+1)
	for j := range prev {
		prev[j] = j
	}
	for i := 1; i <= len(rb); i++ {
		cur[0] = i
		for j := 1; j <= len(ra); j++ {
			if rb[i-1] == ra[j-1] {
				cur[j] = prev[j-1]
			} else {
				sub := prev[j-1]
				ins := cur[j-1]
				del := prev[j]
				m := sub
				if ins < m {
					m = ins
				}
				if del < m {
					m = del
				}
				cur[j] = m + 1
			}
		}
		prev, cur = cur, prev
	}
	return prev[len(ra)]
}

// nameDistance is the closest edit distance between the query and the
// name, considering the whole name and each word of it. "chilli" is one
// edit from the "chili" in "Chili Powder" even though it is far from
// the full string.
func nameDistance(q, name string) int {
	best := Levenshtein(q, name)
	for _, w := range strings.Fields(name) {
		if d := Levenshtein(q, w); d < best {
			best = d
		}
	}
	return best
}

// Fuzzy searches products by name or category. Substring matches come
// first; if fewer than 3 are found, a Levenshtein pass over the
// remaining products fills in near-misses. Names longer than 5 runes
// get one extra unit of allowed distance.
func Fuzzy(query string, products []domain.Product, threshold int) []domain.Product {
	if query == "" {
		return []domain.Product{}
	}
	q := strings.ToLower(strings.TrimSpace(query))

	var exact []domain.Product
	matched := make(map[string]bool)
	for _, p := range products {
		if strings.Contains(strings.ToLower(p.Name), q) ||
			strings.Contains(strings.ToLower(p.Category), q) {
			exact = append(exact, p)
			matched[p.ID] = true
		}
	}
	if len(exact) >= 3 {
		return exact
	}

	out := exact
	for _, p := range products {
		if matched[p.ID] {
			continue
		}
		allowed := threshold
		if len([]rune(p.Name)) > 5 {
			allowed++
		}
		if nameDistance(q, strings.ToLower(p.Name)) <= allowed {
			out = append(out, p)
		}
	}
	if out == nil {
		return []domain.Product{}
	}
	return out
}

// Suggestions proposes "did you mean" corrections: options within
// distance 2 of the query, where the distance is also under half the
// option's length. At most 3 are returned.
func Suggestions(query string, options []string) []string {
	if query == "" {
		return []string{}
	}
	q := strings.ToLower(query)

	out := []string{}
	for _, opt := range options {
		d := Levenshtein(q, strings.ToLower(opt))
		if d <= 2 && float64(d) < float64(len(opt))/2 {
			out = append(out, opt)
			if len(out) == 3 {
				break
			}
		}
	}
	return out
}
