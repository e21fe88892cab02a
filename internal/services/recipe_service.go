package services

import (
	"tattva/internal/domain"
	"tattva/internal/repos"
)

type RecipeService struct {
	Recipes *repos.RecipeRepo
	Prods   *repos.ProductRepo
	Cart    *CartService
}

func NewRecipeService(recipes *repos.RecipeRepo, prods *repos.ProductRepo, cart *CartService) *RecipeService {
	return &RecipeService{Recipes: recipes, Prods: prods, Cart: cart}
}

func (s *RecipeService) List() ([]domain.Recipe, error) { return s.Recipes.List() }

func (s *RecipeService) Get(id string) (domain.Recipe, error) { return s.Recipes.Get(id) }

// AddToCart puts one unit of each of the recipe's related products in
// the session cart, choosing the cheapest in-stock variant. Out-of-stock
// products are skipped and reported back by name.
func (s *RecipeService) AddToCart(sessionID, recipeID string) (added int, skipped []string, err error) {
	rec, err := s.Recipes.Get(recipeID)
	if err != nil {
		return 0, nil, err
	}
	for _, pid := range rec.ProductIDs {
		p, err := s.Prods.Get(pid)
		if err != nil {
			continue
		}
		var pick *domain.Variant
		for i := range p.Variants {
			if p.Variants[i].Stock > 0 {
				pick = &p.Variants[i]
				break
			}
		}
		if pick == nil {
			skipped = append(skipped, p.Name)
			continue
		}
		if err := s.Cart.Add(sessionID, p.ID, pick.ID, 1); err != nil {
			return added, skipped, err
		}
		added++
	}
	return added, skipped, nil
}
