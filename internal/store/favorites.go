package store

import (
	"context"

	"github.com/go-faster/errors"
)

func (s *Store) AddFavorite(ctx context.Context, customerID, productID int64) error {
	query := `INSERT INTO favorites (customer_id, product_id) VALUES (?, ?) ON CONFLICT DO NOTHING`
	if _, err := s.exec(ctx, query, customerID, productID); err != nil {
		return errors.Wrap(err, "add favorite")
	}
	return nil
}

// FavoriteCount is zero for anonymous visitors (customerID 0).
func (s *Store) FavoriteCount(ctx context.Context, customerID int64) (int, error) {
	if customerID == 0 {
		return 0, nil
	}
	var count int
	err := s.queryRow(ctx, `SELECT COUNT(*) FROM favorites WHERE customer_id = ?`, customerID).Scan(&count)
	if err != nil {
		return 0, errors.Wrap(err, "count favorites")
	}
	return count, nil
}
