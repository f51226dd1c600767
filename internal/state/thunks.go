package state

import (
	"context"
	"log/slog"
	"strings"

	"github.com/andrewindechemain/modern-man/internal/models"
	"github.com/go-faster/errors"
)

// Catalog is the read side the thunks fetch from.
type Catalog interface {
	DiscountedProducts(ctx context.Context) ([]models.DiscountedProduct, error)
	Suggestions(ctx context.Context, term string, limit int) ([]models.Suggestion, error)
	SearchProducts(ctx context.Context, term string) ([]models.Product, error)
	FavoriteCount(ctx context.Context, customerID int64) (int, error)
}

// Thunks run a catalog call and record its progress in a Store.
type Thunks struct {
	Catalog         Catalog
	SuggestionLimit int
}

func (t *Thunks) FetchDiscountedProducts(ctx context.Context, st *Store) error {
	st.Dispatch(DiscountsRequested{})
	items, err := t.Catalog.DiscountedProducts(ctx)
	if err != nil {
		st.Dispatch(DiscountsFailed{Err: err.Error()})
		return errors.Wrap(err, "fetch discounted products")
	}
	if items == nil {
		items = []models.DiscountedProduct{}
	}
	st.Dispatch(DiscountsReceived{Items: items})
	return nil
}

// FetchSuggestions tags the request with a fresh sequence number. If another
// request or a clear happened meanwhile, the result is discarded by the
// reducer.
func (t *Thunks) FetchSuggestions(ctx context.Context, st *Store, term string) error {
	seq := st.NextSeq()
	st.Dispatch(SuggestionsRequested{Seq: seq, Term: term})
	items, err := t.Catalog.Suggestions(ctx, strings.TrimSpace(term), t.SuggestionLimit)
	if err != nil {
		st.Dispatch(SuggestionsFailed{Seq: seq, Err: err.Error()})
		return errors.Wrap(err, "fetch suggestions")
	}
	st.Dispatch(SuggestionsReceived{Seq: seq, Items: items})
	return nil
}

func ClearSuggestions(st *Store) {
	st.Dispatch(SuggestionsCleared{Seq: st.NextSeq()})
}

func UpdateQuery(st *Store, term string) {
	st.Dispatch(QueryUpdated{Term: term})
}

// SearchProducts resolves with the results or rejects with the catalog error.
func (t *Thunks) SearchProducts(ctx context.Context, st *Store, term string) ([]models.Product, error) {
	st.Dispatch(SearchRequested{Term: term})
	results, err := t.Catalog.SearchProducts(ctx, strings.TrimSpace(term))
	if err != nil {
		st.Dispatch(SearchFailed{Term: term, Err: err.Error()})
		return nil, errors.Wrap(err, "search products")
	}
	st.Dispatch(SearchSucceeded{Term: term, Results: results})
	return results, nil
}

func (t *Thunks) FetchFavoriteCount(ctx context.Context, st *Store) error {
	customerID := st.State().User.CustomerID
	st.Dispatch(FavoriteCountRequested{})
	n, err := t.Catalog.FavoriteCount(ctx, customerID)
	if err != nil {
		st.Dispatch(FavoriteCountFailed{Err: err.Error()})
		return errors.Wrap(err, "fetch favorite count")
	}
	st.Dispatch(FavoriteCountReceived{Count: n})
	return nil
}

func LogoutUser(st *Store) {
	slog.Debug("Logging out user", "customer_id", st.State().User.CustomerID)
	st.Dispatch(LoggedOut{})
}
