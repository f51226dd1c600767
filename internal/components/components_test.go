package components

import (
	"context"
	"strings"
	"sync"
	"testing"

	"github.com/andrewindechemain/modern-man/internal/models"
	"github.com/go-faster/errors"
	"github.com/stretchr/testify/require"
	g "maragu.dev/gomponents"
)

// stubCatalog answers from fixed data. When release is set, DiscountedProducts
// blocks until it is closed.
type stubCatalog struct {
	mu          sync.Mutex
	discounts   []models.DiscountedProduct
	discountErr error
	suggestions map[string][]models.Suggestion
	results     map[string][]models.Product
	searchErr   error
	favorites   int
	release     chan struct{}
	calls       map[string]int
}

func (s *stubCatalog) record(name string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.calls == nil {
		s.calls = map[string]int{}
	}
	s.calls[name]++
}

func (s *stubCatalog) Calls(name string) int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.calls[name]
}

func (s *stubCatalog) DiscountedProducts(ctx context.Context) ([]models.DiscountedProduct, error) {
	s.record("discounts")
	if s.release != nil {
		select {
		case <-s.release:
		case <-ctx.Done():
			return nil, errors.Wrap(ctx.Err(), "discounts")
		}
	}
	return s.discounts, s.discountErr
}

func (s *stubCatalog) Suggestions(ctx context.Context, term string, limit int) ([]models.Suggestion, error) {
	s.record("suggestions")
	return s.suggestions[term], nil
}

func (s *stubCatalog) SearchProducts(ctx context.Context, term string) ([]models.Product, error) {
	s.record("search")
	return s.results[term], s.searchErr
}

func (s *stubCatalog) FavoriteCount(ctx context.Context, customerID int64) (int, error) {
	s.record("favorites")
	return s.favorites, nil
}

func render(t *testing.T, n g.Node) string {
	t.Helper()
	var b strings.Builder
	require.NoError(t, n.Render(&b))
	return b.String()
}
