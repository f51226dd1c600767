package state

import (
	"context"
	"errors"
	"sync"
	"testing"

	"github.com/andrewindechemain/modern-man/internal/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// fakeCatalog answers from fixed data and counts calls.
type fakeCatalog struct {
	mu          sync.Mutex
	discounts   []models.DiscountedProduct
	suggestions map[string][]models.Suggestion
	results     map[string][]models.Product
	favorites   int
	err         error
	calls       map[string]int
}

func (f *fakeCatalog) record(name string) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.calls == nil {
		f.calls = map[string]int{}
	}
	f.calls[name]++
}

func (f *fakeCatalog) Calls(name string) int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.calls[name]
}

func (f *fakeCatalog) DiscountedProducts(ctx context.Context) ([]models.DiscountedProduct, error) {
	f.record("discounts")
	return f.discounts, f.err
}

func (f *fakeCatalog) Suggestions(ctx context.Context, term string, limit int) ([]models.Suggestion, error) {
	f.record("suggestions")
	return f.suggestions[term], f.err
}

func (f *fakeCatalog) SearchProducts(ctx context.Context, term string) ([]models.Product, error) {
	f.record("search")
	return f.results[term], f.err
}

func (f *fakeCatalog) FavoriteCount(ctx context.Context, customerID int64) (int, error) {
	f.record("favorites")
	return f.favorites, f.err
}

func TestStore_DispatchNotifiesSubscribers(t *testing.T) {
	st := NewStore()

	var got []string
	unsubscribe := st.Subscribe(func(a Action, s State) {
		got = append(got, a.ActionType())
	})

	st.Dispatch(QueryUpdated{Term: "tux"})
	unsubscribe()
	unsubscribe() // second call is a no-op
	st.Dispatch(QueryUpdated{Term: "suit"})

	assert.Equal(t, []string{"search/updateQuery"}, got)
	assert.Equal(t, "suit", st.State().Search.Query)
}

func TestStore_ListenerMayDispatch(t *testing.T) {
	st := NewStore()
	st.Subscribe(func(a Action, s State) {
		if _, ok := a.(TermChanged); ok {
			st.Dispatch(DropdownToggled{Open: true})
		}
	})

	st.Dispatch(TermChanged{Term: "shoe"})

	s := st.State()
	assert.Equal(t, "shoe", s.SearchBar.Term)
	assert.True(t, s.SearchBar.DropdownOpen)
}

func TestDiscount_StateMachine(t *testing.T) {
	var s DiscountState
	assert.Equal(t, StatusIdle, s.Status)

	s = reduceDiscount(s, DiscountsRequested{})
	assert.True(t, s.Loading())

	items := []models.DiscountedProduct{{Name: "Shoes", DiscountPercentage: 10}}
	s = reduceDiscount(s, DiscountsReceived{Items: items})
	assert.True(t, s.Loaded())
	assert.Equal(t, items, s.Data)

	s = reduceDiscount(s, DiscountsRequested{})
	assert.Equal(t, items, s.Data, "reload keeps previous data")

	s = reduceDiscount(s, DiscountsFailed{Err: "boom"})
	assert.True(t, s.Failed())
	assert.Equal(t, "boom", s.Err)
	assert.False(t, s.Loading())
}

func TestSuggestions_LatestRequestWins(t *testing.T) {
	var s SuggestionsState
	s = reduceSuggestions(s, SuggestionsRequested{Seq: 1, Term: "s"})
	s = reduceSuggestions(s, SuggestionsRequested{Seq: 2, Term: "su"})

	late := []models.Suggestion{{ID: 1, Name: "Shoes"}}
	fresh := []models.Suggestion{{ID: 2, Name: "Suit"}}

	s = reduceSuggestions(s, SuggestionsReceived{Seq: 2, Items: fresh})
	s = reduceSuggestions(s, SuggestionsReceived{Seq: 1, Items: late})
	assert.Equal(t, fresh, s.Suggestions)
	assert.Equal(t, "su", s.Term)

	s = reduceSuggestions(s, SuggestionsFailed{Seq: 1, Err: "stale"})
	assert.Equal(t, StatusLoaded, s.Status)

	// A request numbered below the latest is ignored outright.
	s = reduceSuggestions(s, SuggestionsRequested{Seq: 1, Term: "x"})
	assert.Equal(t, uint64(2), s.Latest)
}

func TestSuggestions_ClearDiscardsInFlight(t *testing.T) {
	var s SuggestionsState
	s = reduceSuggestions(s, SuggestionsRequested{Seq: 1, Term: "tie"})
	s = reduceSuggestions(s, SuggestionsCleared{Seq: 2})
	s = reduceSuggestions(s, SuggestionsReceived{Seq: 1, Items: []models.Suggestion{{Name: "Tie"}}})

	assert.Empty(t, s.Suggestions)
	assert.Equal(t, StatusIdle, s.Status)
}

func TestUser_SessionAndLogout(t *testing.T) {
	st := NewStore()
	st.Dispatch(SessionRestored{Authenticated: true, CustomerID: 7, Username: "ann"})
	assert.Equal(t, UserState{IsAuthenticated: true, CustomerID: 7, Username: "ann"}, st.State().User)

	LogoutUser(st)
	assert.False(t, st.State().User.IsAuthenticated)

	st.Dispatch(SessionRestored{Authenticated: false, CustomerID: 7})
	assert.Zero(t, st.State().User.CustomerID)
}

func TestThunks_FetchDiscountedProducts(t *testing.T) {
	cat := &fakeCatalog{}
	th := &Thunks{Catalog: cat}
	st := NewStore()

	require.NoError(t, th.FetchDiscountedProducts(context.Background(), st))
	d := st.State().Discount
	assert.True(t, d.Loaded())
	assert.NotNil(t, d.Data)
	assert.Empty(t, d.Data)

	cat.err = errors.New("catalog down")
	require.Error(t, th.FetchDiscountedProducts(context.Background(), st))
	assert.Equal(t, "catalog down", st.State().Discount.Err)
}

func TestThunks_SearchProducts(t *testing.T) {
	cat := &fakeCatalog{results: map[string][]models.Product{"tux": {{ID: 1, Name: "Tuxedo"}}}}
	th := &Thunks{Catalog: cat}
	st := NewStore()

	got, err := th.SearchProducts(context.Background(), st, " tux ")
	require.NoError(t, err)
	assert.Len(t, got, 1)
	assert.True(t, st.State().Search.Results.Loaded())

	cat.err = errors.New("timeout")
	_, err = th.SearchProducts(context.Background(), st, "tux")
	require.Error(t, err)
	assert.True(t, st.State().Search.Results.Failed())
}

func TestThunks_FetchSuggestions(t *testing.T) {
	cat := &fakeCatalog{suggestions: map[string][]models.Suggestion{"su": {{ID: 1, Name: "Suit"}}}}
	th := &Thunks{Catalog: cat, SuggestionLimit: 5}
	st := NewStore()

	require.NoError(t, th.FetchSuggestions(context.Background(), st, "su "))
	s := st.State().Suggestions
	assert.Equal(t, StatusLoaded, s.Status)
	assert.Equal(t, "Suit", s.Suggestions[0].Name)

	ClearSuggestions(st)
	assert.Empty(t, st.State().Suggestions.Suggestions)
}

func TestThunks_FetchFavoriteCount(t *testing.T) {
	cat := &fakeCatalog{favorites: 3}
	th := &Thunks{Catalog: cat}
	st := NewStore()

	require.NoError(t, th.FetchFavoriteCount(context.Background(), st))
	assert.Equal(t, 3, st.State().Favorites.Count)
	assert.Equal(t, 1, cat.Calls("favorites"))
}
