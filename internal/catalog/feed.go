package catalog

import (
	"encoding/json"
	"fmt"
	"math"

	"tattva/internal/domain"
)

// Feed types mirror the JSON shape of the admin catalog import. Numeric
// fields are decoded as `any` because the feed mixes numbers and numeric
// strings; DecodeFeed is the single place that coerces them.
type FeedVariant struct {
	ID        string `json:"id"`
	Name      string `json:"name"`
	Price     any    `json:"price"`
	SalePrice any    `json:"salePrice"`
	Stock     any    `json:"stock"`
}

type FeedReview struct {
	ID               string `json:"id"`
	Author           string `json:"author"`
	Rating           any    `json:"rating"`
	Comment          string `json:"comment"`
	VerifiedPurchase bool   `json:"verifiedPurchase"`
}

type FeedProduct struct {
	ID          string        `json:"id"`
	Name        string        `json:"name"`
	Description string        `json:"description"`
	Category    string        `json:"category"`
	Origin      string        `json:"origin"`
	Images      []string      `json:"images"`
	Tags        []string      `json:"tags"`
	Variants    []FeedVariant `json:"variants"`
	Reviews     []FeedReview  `json:"reviews"`
}

// DecodeFeed parses a product feed document and coerces it into domain
// types. Variants whose base price does not parse are dropped; a product
// left with no variants is rejected since price queries assume at least
// one.
func DecodeFeed(data []byte) ([]domain.Product, error) {
	var feed []FeedProduct
	if err := json.Unmarshal(data, &feed); err != nil {
		return nil, fmt.Errorf("decode product feed: %w", err)
	}

	out := make([]domain.Product, 0, len(feed))
	for _, fp := range feed {
		if fp.ID == "" || fp.Name == "" {
			return nil, fmt.Errorf("product feed entry missing id or name")
		}
		p := domain.Product{
			ID:          fp.ID,
			Name:        fp.Name,
			Description: fp.Description,
			Category:    fp.Category,
			Origin:      fp.Origin,
			Tags:        fp.Tags,
		}
		if b, err := json.Marshal(fp.Images); err == nil {
			p.ImagesJSON = string(b)
		}
		if b, err := json.Marshal(fp.Tags); err == nil {
			p.TagsJSON = string(b)
		}

		for _, fv := range fp.Variants {
			price := ToNum(fv.Price)
			if math.IsNaN(price) {
				continue
			}
			v := domain.Variant{
				ID:        fv.ID,
				ProductID: fp.ID,
				Name:      fv.Name,
				Price:     price,
			}
			if fv.SalePrice != nil {
				if sp := ToNum(fv.SalePrice); !math.IsNaN(sp) {
					v.SalePrice = &sp
				}
			}
			if stock := ToNum(fv.Stock); !math.IsNaN(stock) && stock > 0 {
				v.Stock = int(stock)
			}
			p.Variants = append(p.Variants, v)
		}
		if len(p.Variants) == 0 {
			return nil, fmt.Errorf("product %s has no usable variants", fp.ID)
		}

		for _, fr := range fp.Reviews {
			rating := ToNum(fr.Rating)
			if math.IsNaN(rating) {
				continue
			}
			p.Reviews = append(p.Reviews, domain.Review{
				ID:               fr.ID,
				ProductID:        fp.ID,
				Author:           fr.Author,
				Rating:           rating,
				Comment:          fr.Comment,
				VerifiedPurchase: fr.VerifiedPurchase,
			})
		}

		out = append(out, p)
	}
	return out, nil
}
