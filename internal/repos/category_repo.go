package repos

import (
	"strings"

	"github.com/jmoiron/sqlx"

	"tattva/internal/domain"
)

type CategoryRepo struct{ db *sqlx.DB }

func NewCategoryRepo(db *sqlx.DB) *CategoryRepo { return &CategoryRepo{db: db} }

func (r *CategoryRepo) List() ([]domain.Category, error) {
	var out []domain.Category
	err := r.db.Select(&out, `
	  SELECT id, name, created_at, COALESCE(updated_at,'') AS updated_at
	  FROM categories
	  ORDER BY name
	`)
	return out, err
}

// Names returns category display names, used for "did you mean"
// suggestions.
func (r *CategoryRepo) Names() ([]string, error) {
	var out []string
	err := r.db.Select(&out, `SELECT name FROM categories ORDER BY name`)
	return out, err
}

// categoryID slugs a display name into a stable id for feed imports.
func categoryID(name string) string {
	s := strings.ToLower(strings.TrimSpace(name))
	var b strings.Builder
	for _, r := range s {
		switch {
		case 'a' <= r && r <= 'z', '0' <= r && r <= '9':
			b.WriteRune(r)
		case r == ' ' || r == '-' || r == '_':
			b.WriteByte('-')
		}
	}
	if b.Len() == 0 {
		return "misc"
	}
	return b.String()
}
