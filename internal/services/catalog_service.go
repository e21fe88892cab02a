package services

import (
	"database/sql"

	"tattva/internal/catalog"
	"tattva/internal/domain"
	"tattva/internal/repos"
	"tattva/internal/search"
)

type CatalogService struct {
	Cats  *repos.CategoryRepo
	Prods *repos.ProductRepo
}

func NewCatalogService(cats *repos.CategoryRepo, prods *repos.ProductRepo) *CatalogService {
	return &CatalogService{Cats: cats, Prods: prods}
}

func (s *CatalogService) ListCategories() ([]domain.Category, error) {
	return s.Cats.List()
}

func (s *CatalogService) ListProductsByCategory(catID string, page, pageSize int) ([]domain.Product, error) {
	if page < 1 {
		page = 1
	}
	if pageSize <= 0 {
		pageSize = 12
	}
	offset := (page - 1) * pageSize
	return s.Prods.ListByCategory(catID, pageSize, offset)
}

func (s *CatalogService) GetProduct(id string) (domain.Product, error) {
	return s.Prods.Get(id)
}

func (s *CatalogService) AllProducts() ([]domain.Product, error) {
	return s.Prods.ListActive()
}

// SearchResult carries fuzzy matches plus "did you mean" corrections
// offered when the result list is thin.
type SearchResult struct {
	Products    []domain.Product
	Suggestions []string
}

const fuzzyThreshold = 2

// Search runs the typo-tolerant search over the active catalog.
func (s *CatalogService) Search(q string) (SearchResult, error) {
	products, err := s.Prods.ListActive()
	if err != nil {
		return SearchResult{}, err
	}
	matches := search.Fuzzy(q, products, fuzzyThreshold)

	var res SearchResult
	res.Products = matches
	if len(matches) < 3 {
		options := make([]string, 0, len(products))
		for _, p := range products {
			options = append(options, p.Name)
		}
		if names, err := s.Cats.Names(); err == nil {
			options = append(options, names...)
		}
		res.Suggestions = search.Suggestions(q, options)
	}
	return res, nil
}

// CheckAvailability maps a variant's stock onto the storefront's
// IN_STOCK / LOW_STOCK / OUT_OF_STOCK buckets.
func (s *CatalogService) CheckAvailability(variantID string) (domain.Availability, error) {
	v, err := s.Prods.GetVariant(variantID)
	if err == sql.ErrNoRows {
		return domain.Availability{Status: "OUT_OF_STOCK", Qty: 0}, nil
	}
	if err != nil {
		return domain.Availability{}, err
	}
	status := "OUT_OF_STOCK"
	switch {
	case v.Stock >= 5:
		status = "IN_STOCK"
	case v.Stock > 0:
		status = "LOW_STOCK"
	}
	return domain.Availability{Status: status, Qty: v.Stock}, nil
}

// ImportFeed decodes and upserts an admin catalog feed.
func (s *CatalogService) ImportFeed(data []byte) (int, error) {
	products, err := catalog.DecodeFeed(data)
	if err != nil {
		return 0, err
	}
	if err := s.Prods.Import(products); err != nil {
		return 0, err
	}
	return len(products), nil
}
