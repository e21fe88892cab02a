package repos

import (
	"encoding/json"

	"github.com/jmoiron/sqlx"

	"tattva/internal/domain"
)

type RecipeRepo struct{ db *sqlx.DB }

func NewRecipeRepo(db *sqlx.DB) *RecipeRepo { return &RecipeRepo{db: db} }

type recipeRow struct {
	ID               string `db:"id"`
	Title            string `db:"title"`
	Description      string `db:"description"`
	PrepTime         string `db:"prep_time"`
	CookTime         string `db:"cook_time"`
	Serves           int    `db:"serves"`
	ImageURL         string `db:"image_url"`
	IngredientsJSON  string `db:"ingredients_json"`
	InstructionsJSON string `db:"instructions_json"`
}

func (row recipeRow) toDomain() domain.Recipe {
	rec := domain.Recipe{
		ID:          row.ID,
		Title:       row.Title,
		Description: row.Description,
		PrepTime:    row.PrepTime,
		CookTime:    row.CookTime,
		Serves:      row.Serves,
		ImageURL:    row.ImageURL,
	}
	_ = json.Unmarshal([]byte(row.IngredientsJSON), &rec.Ingredients)
	_ = json.Unmarshal([]byte(row.InstructionsJSON), &rec.Instructions)
	return rec
}

const recipeCols = `id, title, COALESCE(description,'') AS description,
  COALESCE(prep_time,'') AS prep_time, COALESCE(cook_time,'') AS cook_time,
  COALESCE(serves,0) AS serves, COALESCE(image_url,'') AS image_url,
  COALESCE(ingredients_json,'[]') AS ingredients_json,
  COALESCE(instructions_json,'[]') AS instructions_json`

func (r *RecipeRepo) List() ([]domain.Recipe, error) {
	var rows []recipeRow
	if err := r.db.Select(&rows, `SELECT `+recipeCols+` FROM recipes ORDER BY title`); err != nil {
		return nil, err
	}
	out := make([]domain.Recipe, len(rows))
	for i, row := range rows {
		out[i] = row.toDomain()
	}
	return out, nil
}

func (r *RecipeRepo) Get(id string) (domain.Recipe, error) {
	var row recipeRow
	if err := r.db.Get(&row, `SELECT `+recipeCols+` FROM recipes WHERE id = ?`, id); err != nil {
		return domain.Recipe{}, err
	}
	rec := row.toDomain()

	if err := r.db.Select(&rec.ProductIDs, `
	  SELECT product_id FROM recipe_products WHERE recipe_id = ? ORDER BY product_id
	`, id); err != nil {
		return domain.Recipe{}, err
	}
	return rec, nil
}
