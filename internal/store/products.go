package store

import (
	"context"
	"database/sql"
	"strings"

	"github.com/andrewindechemain/modern-man/internal/models"
	"github.com/go-faster/errors"
)

const productColumns = `id, name, description, price, category, image_url, average_rating, discount_percentage, is_new, created_at`

func (s *Store) CreateProduct(ctx context.Context, p *models.Product) (int64, error) {
	if !models.IsCategory(p.Category) {
		return 0, errors.Errorf("unknown category %q", p.Category)
	}
	query := `
		INSERT INTO products (name, description, price, category, image_url, average_rating, discount_percentage, is_new)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)`
	id, err := s.insert(ctx, query, p.Name, p.Description, p.Price.StringFixed(2), p.Category,
		p.ImageURL, p.AverageRating.StringFixed(2), p.DiscountPercentage, p.IsNew)
	if err != nil {
		return 0, errors.Wrap(err, "insert product")
	}
	p.ID = id
	return id, nil
}

func (s *Store) GetProductByName(ctx context.Context, name string) (*models.Product, error) {
	rows, err := s.query(ctx, `SELECT `+productColumns+` FROM products WHERE name = ? ORDER BY id LIMIT 1`, name)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	products, err := scanProducts(rows)
	if err != nil {
		return nil, err
	}
	if len(products) == 0 {
		return nil, ErrNotFound
	}
	return &products[0], nil
}

// SearchProducts matches term case-insensitively against name, category and
// description.
func (s *Store) SearchProducts(ctx context.Context, term string) ([]models.Product, error) {
	pattern := likePattern(term)
	query := `SELECT ` + productColumns + ` FROM products
		WHERE LOWER(name) LIKE ? ESCAPE '\'
		   OR LOWER(category) LIKE ? ESCAPE '\'
		   OR LOWER(description) LIKE ? ESCAPE '\'
		ORDER BY name`
	rows, err := s.query(ctx, query, pattern, pattern, pattern)
	if err != nil {
		return nil, errors.Wrap(err, "search products")
	}
	defer rows.Close()
	return scanProducts(rows)
}

// Suggestions returns at most limit products whose name contains term.
func (s *Store) Suggestions(ctx context.Context, term string, limit int) ([]models.Suggestion, error) {
	if limit <= 0 {
		limit = 8
	}
	query := `SELECT id, name, image_url FROM products
		WHERE LOWER(name) LIKE ? ESCAPE '\'
		ORDER BY name
		LIMIT ?`
	rows, err := s.query(ctx, query, likePattern(term), limit)
	if err != nil {
		return nil, errors.Wrap(err, "query suggestions")
	}
	defer rows.Close()

	var out []models.Suggestion
	for rows.Next() {
		var sg models.Suggestion
		if err := rows.Scan(&sg.ID, &sg.Name, &sg.Image); err != nil {
			return nil, err
		}
		out = append(out, sg)
	}
	return out, rows.Err()
}

// DiscountedProducts lists every product with a positive discount, biggest
// discount first.
func (s *Store) DiscountedProducts(ctx context.Context) ([]models.DiscountedProduct, error) {
	query := `SELECT name, image_url, discount_percentage FROM products
		WHERE discount_percentage > 0
		ORDER BY discount_percentage DESC, name`
	rows, err := s.query(ctx, query)
	if err != nil {
		return nil, errors.Wrap(err, "query discounted products")
	}
	defer rows.Close()

	var out []models.DiscountedProduct
	for rows.Next() {
		var d models.DiscountedProduct
		if err := rows.Scan(&d.Name, &d.Image, &d.DiscountPercentage); err != nil {
			return nil, err
		}
		out = append(out, d)
	}
	return out, rows.Err()
}

func scanProducts(rows *sql.Rows) ([]models.Product, error) {
	var products []models.Product
	for rows.Next() {
		var p models.Product
		var createdAt sql.NullTime
		if err := rows.Scan(&p.ID, &p.Name, &p.Description, &p.Price, &p.Category, &p.ImageURL,
			&p.AverageRating, &p.DiscountPercentage, &p.IsNew, &createdAt); err != nil {
			return nil, err
		}
		if createdAt.Valid {
			p.CreatedAt = createdAt.Time
		}
		products = append(products, p)
	}
	return products, rows.Err()
}

var likeEscaper = strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)

func likePattern(term string) string {
	return "%" + likeEscaper.Replace(strings.ToLower(strings.TrimSpace(term))) + "%"
}
