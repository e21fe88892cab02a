package repos

import (
	"encoding/json"

	"github.com/jmoiron/sqlx"

	"tattva/internal/domain"
)

type ProductRepo struct{ db *sqlx.DB }

func NewProductRepo(db *sqlx.DB) *ProductRepo { return &ProductRepo{db: db} }

const productCols = `
  p.id, p.category_id, p.name, p.description, COALESCE(p.origin,'') AS origin,
  COALESCE(p.images_json,'[]') AS images_json, COALESCE(p.tags_json,'[]') AS tags_json,
  p.active, p.created_at, COALESCE(p.updated_at,'') AS updated_at,
  c.name AS category_name`

// decode unpacks the JSON columns; bad JSON leaves the slices empty.
func decode(p *domain.Product) {
	_ = json.Unmarshal([]byte(p.ImagesJSON), &p.Images)
	_ = json.Unmarshal([]byte(p.TagsJSON), &p.Tags)
}

func (r *ProductRepo) Get(id string) (domain.Product, error) {
	var p domain.Product
	err := r.db.Get(&p, `
	  SELECT `+productCols+`
	  FROM products p JOIN categories c ON c.id = p.category_id
	  WHERE p.id = ?
	`, id)
	if err != nil {
		return domain.Product{}, err
	}
	decode(&p)
	if err := r.hydrate([]*domain.Product{&p}); err != nil {
		return domain.Product{}, err
	}
	return p, nil
}

func (r *ProductRepo) ListByCategory(catID string, limit, offset int) ([]domain.Product, error) {
	var out []domain.Product
	err := r.db.Select(&out, `
	  SELECT `+productCols+`
	  FROM products p JOIN categories c ON c.id = p.category_id
	  WHERE p.category_id = ? AND p.active = 1
	  ORDER BY p.created_at DESC
	  LIMIT ? OFFSET ?
	`, catID, limit, offset)
	if err != nil {
		return nil, err
	}
	return r.finish(out)
}

// ListActive returns the whole active catalog with variants and reviews,
// the working set for search and recommendations.
func (r *ProductRepo) ListActive() ([]domain.Product, error) {
	var out []domain.Product
	err := r.db.Select(&out, `
	  SELECT `+productCols+`
	  FROM products p JOIN categories c ON c.id = p.category_id
	  WHERE p.active = 1
	  ORDER BY p.created_at DESC, p.id
	`)
	if err != nil {
		return nil, err
	}
	return r.finish(out)
}

func (r *ProductRepo) finish(out []domain.Product) ([]domain.Product, error) {
	ptrs := make([]*domain.Product, len(out))
	for i := range out {
		decode(&out[i])
		ptrs[i] = &out[i]
	}
	if err := r.hydrate(ptrs); err != nil {
		return nil, err
	}
	return out, nil
}

// hydrate attaches variants and reviews to the given products.
func (r *ProductRepo) hydrate(products []*domain.Product) error {
	if len(products) == 0 {
		return nil
	}
	ids := make([]string, len(products))
	byID := make(map[string]*domain.Product, len(products))
	for i, p := range products {
		ids[i] = p.ID
		byID[p.ID] = p
	}

	q, args, err := sqlx.In(`
	  SELECT id, product_id, name, price, sale_price, stock
	  FROM variants WHERE product_id IN (?) ORDER BY price
	`, ids)
	if err != nil {
		return err
	}
	var vars []domain.Variant
	if err := r.db.Select(&vars, q, args...); err != nil {
		return err
	}
	for _, v := range vars {
		p := byID[v.ProductID]
		p.Variants = append(p.Variants, v)
	}

	q, args, err = sqlx.In(`
	  SELECT id, product_id, author, rating, COALESCE(comment,'') AS comment,
	         verified_purchase, created_at
	  FROM reviews WHERE product_id IN (?) ORDER BY created_at
	`, ids)
	if err != nil {
		return err
	}
	var revs []domain.Review
	if err := r.db.Select(&revs, q, args...); err != nil {
		return err
	}
	for _, rv := range revs {
		p := byID[rv.ProductID]
		p.Reviews = append(p.Reviews, rv)
	}
	return nil
}

func (r *ProductRepo) GetVariant(id string) (domain.Variant, error) {
	var v domain.Variant
	err := r.db.Get(&v, `
	  SELECT id, product_id, name, price, sale_price, stock
	  FROM variants WHERE id = ?
	`, id)
	return v, err
}

// SetStock is the admin stock update for one variant.
func (r *ProductRepo) SetStock(variantID string, stock int) error {
	_, err := r.db.Exec(`UPDATE variants SET stock = ? WHERE id = ?`, stock, variantID)
	return err
}

// DecrementStock atomically takes qty units if available.
func (r *ProductRepo) DecrementStock(variantID string, qty int) (bool, error) {
	res, err := r.db.Exec(`
	  UPDATE variants SET stock = stock - ?
	  WHERE id = ? AND stock >= ?
	`, qty, variantID, qty)
	if err != nil {
		return false, err
	}
	n, _ := res.RowsAffected()
	return n > 0, nil
}

// VariantStockRow backs the admin stock page.
type VariantStockRow struct {
	VariantID   string  `db:"variant_id"`
	ProductName string  `db:"product_name"`
	VariantName string  `db:"variant_name"`
	Price       float64 `db:"price"`
	Stock       int     `db:"stock"`
}

func (r *ProductRepo) ListStock() ([]VariantStockRow, error) {
	var rows []VariantStockRow
	err := r.db.Select(&rows, `
	  SELECT v.id AS variant_id, p.name AS product_name, v.name AS variant_name,
	         v.price, v.stock
	  FROM variants v JOIN products p ON p.id = v.product_id
	  ORDER BY p.name, v.price
	`)
	return rows, err
}

// Import upserts feed products with their variants and reviews. Existing
// variants and reviews for an imported product are replaced wholesale so
// the feed stays authoritative.
func (r *ProductRepo) Import(products []domain.Product) error {
	tx, err := r.db.Beginx()
	if err != nil {
		return err
	}
	defer func() { _ = tx.Rollback() }()

	for _, p := range products {
		catID := categoryID(p.Category)
		if _, err := tx.Exec(`
		  INSERT INTO categories(id, name)
		  VALUES(?, ?)
		  ON CONFLICT(id) DO NOTHING
		`, catID, p.Category); err != nil {
			return err
		}
		if _, err := tx.Exec(`
		  INSERT INTO products(id, category_id, name, description, origin, images_json, tags_json, active)
		  VALUES(?, ?, ?, ?, ?, ?, ?, 1)
		  ON CONFLICT(id) DO UPDATE SET
		    category_id = excluded.category_id,
		    name        = excluded.name,
		    description = excluded.description,
		    origin      = excluded.origin,
		    images_json = excluded.images_json,
		    tags_json   = excluded.tags_json,
		    updated_at  = CURRENT_TIMESTAMP
		`, p.ID, catID, p.Name, p.Description, p.Origin, p.ImagesJSON, p.TagsJSON); err != nil {
			return err
		}

		if _, err := tx.Exec(`DELETE FROM variants WHERE product_id = ?`, p.ID); err != nil {
			return err
		}
		for _, v := range p.Variants {
			if _, err := tx.Exec(`
			  INSERT INTO variants(id, product_id, name, price, sale_price, stock)
			  VALUES(?, ?, ?, ?, ?, ?)
			`, v.ID, p.ID, v.Name, v.Price, v.SalePrice, v.Stock); err != nil {
				return err
			}
		}

		if _, err := tx.Exec(`DELETE FROM reviews WHERE product_id = ?`, p.ID); err != nil {
			return err
		}
		for _, rv := range p.Reviews {
			if _, err := tx.Exec(`
			  INSERT INTO reviews(id, product_id, author, rating, comment, verified_purchase)
			  VALUES(?, ?, ?, ?, ?, ?)
			`, rv.ID, p.ID, rv.Author, rv.Rating, rv.Comment, rv.VerifiedPurchase); err != nil {
				return err
			}
		}
	}
	return tx.Commit()
}
