package store

import (
	"context"
	"database/sql"

	"github.com/andrewindechemain/modern-man/internal/models"
	"github.com/go-faster/errors"
)

const customerColumns = `id, username, name, email, password, location, city, country, payment_method, created_at`

// GetCustomerByUsername returns nil, nil when no customer has that username.
func (s *Store) GetCustomerByUsername(ctx context.Context, username string) (*models.Customer, error) {
	return s.getCustomer(ctx, `SELECT `+customerColumns+` FROM customers WHERE username = ?`, username)
}

// GetCustomerByEmail matches case-insensitively; nil, nil when absent.
func (s *Store) GetCustomerByEmail(ctx context.Context, email string) (*models.Customer, error) {
	return s.getCustomer(ctx, `SELECT `+customerColumns+` FROM customers WHERE LOWER(email) = LOWER(?)`, email)
}

func (s *Store) GetCustomerByID(ctx context.Context, id int64) (*models.Customer, error) {
	c, err := s.getCustomer(ctx, `SELECT `+customerColumns+` FROM customers WHERE id = ?`, id)
	if err != nil {
		return nil, err
	}
	if c == nil {
		return nil, ErrNotFound
	}
	return c, nil
}

func (s *Store) getCustomer(ctx context.Context, query string, arg any) (*models.Customer, error) {
	var c models.Customer
	var createdAt sql.NullTime
	err := s.queryRow(ctx, query, arg).Scan(&c.ID, &c.Username, &c.Name, &c.Email, &c.Password,
		&c.Location, &c.City, &c.Country, &c.PaymentMethod, &createdAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, errors.Wrap(err, "get customer")
	}
	if createdAt.Valid {
		c.CreatedAt = createdAt.Time
	}
	return &c, nil
}

// CreateCustomer inserts c, whose Password must already be a bcrypt hash.
func (s *Store) CreateCustomer(ctx context.Context, c *models.Customer) (int64, error) {
	query := `
		INSERT INTO customers (username, name, email, password, location, city, country, payment_method)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)`
	id, err := s.insert(ctx, query, c.Username, c.Name, c.Email, c.Password, c.Location, c.City, c.Country, c.PaymentMethod)
	if err != nil {
		if isUniqueViolation(err) {
			return 0, ErrDuplicateCustomer
		}
		return 0, errors.Wrap(err, "insert customer")
	}
	c.ID = id
	return id, nil
}
