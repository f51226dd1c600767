package components

import (
	"context"
	"sync"
	"testing"

	"github.com/andrewindechemain/modern-man/internal/models"
	"github.com/andrewindechemain/modern-man/internal/state"
	"github.com/go-faster/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newController(cat *stubCatalog) *SearchBarController {
	return &SearchBarController{
		Store:  state.NewStore(),
		Thunks: &state.Thunks{Catalog: cat, SuggestionLimit: 8},
	}
}

func TestSearchBar_Submit(t *testing.T) {
	cat := &stubCatalog{
		results: map[string][]models.Product{
			"tuxedo": {{ID: 1, Name: "Black Italian Tuxedo"}},
		},
	}

	tests := []struct {
		name string
		term string
		want string
	}{
		{"empty", "", "/searchpage?query=&error=empty"},
		{"whitespace", "   ", "/searchpage?query=+++&error=empty"},
		{"results", "tuxedo", "/searchpage?query=tuxedo"},
		{"no results", "kilt & sporran", "/searchpage?query=kilt+%26+sporran&error=noresults"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := newController(cat)
			assert.Equal(t, tt.want, c.Submit(context.Background(), tt.term))
			assert.False(t, c.Store.State().SearchBar.DropdownOpen)
		})
	}
}

func TestSearchBar_SubmitEmptyDispatchesNothing(t *testing.T) {
	cat := &stubCatalog{}
	c := newController(cat)

	c.Submit(context.Background(), " ")

	assert.Zero(t, cat.Calls("search"))
	assert.Empty(t, c.Store.State().Search.Query)
}

func TestSearchBar_SubmitErrorMapsToNoResults(t *testing.T) {
	cat := &stubCatalog{searchErr: errors.New("db down")}
	c := newController(cat)

	got := c.Submit(context.Background(), "suit")

	assert.Equal(t, "/searchpage?query=suit&error=noresults", got)
	assert.Equal(t, "suit", c.Store.State().Search.Query)
	assert.True(t, c.Store.State().Search.Results.Failed())
}

func TestSearchBar_ChangeOpensAndClears(t *testing.T) {
	cat := &stubCatalog{suggestions: map[string][]models.Suggestion{
		"tu": {{ID: 2, Name: "Tuxedo"}, {ID: 1, Name: "Tunic"}},
	}}
	c := newController(cat)
	ctx := context.Background()

	require.NoError(t, c.Change(ctx, "tu"))
	s := c.Store.State()
	assert.True(t, s.SearchBar.DropdownOpen)
	assert.Equal(t, "tu", s.SearchBar.Term)
	assert.Len(t, s.Suggestions.Suggestions, 2)

	require.NoError(t, c.Change(ctx, "  "))
	s = c.Store.State()
	assert.False(t, s.SearchBar.DropdownOpen)
	assert.Empty(t, s.Suggestions.Suggestions)
	assert.Equal(t, 1, cat.Calls("suggestions"))
}

func TestSortSuggestions_StableByName(t *testing.T) {
	in := []models.Suggestion{
		{ID: 1, Name: "Tuxedo"},
		{ID: 2, Name: "Bow Tie"},
		{ID: 3, Name: "Tuxedo"},
		{ID: 4, Name: "Oxford"},
	}

	got := SortSuggestions(in)

	var ids []int64
	for _, s := range got {
		ids = append(ids, s.ID)
	}
	assert.Equal(t, []int64{2, 4, 1, 3}, ids)
	assert.Equal(t, int64(1), in[0].ID, "input is not reordered")
}

func TestSortSuggestions_IgnoresCase(t *testing.T) {
	in := []models.Suggestion{
		{ID: 1, Name: "Zebra Tie"},
		{ID: 2, Name: "apple Scarf"},
		{ID: 3, Name: "bow Tie"},
		{ID: 4, Name: "Bow Tie"},
	}

	var ids []int64
	for _, s := range SortSuggestions(in) {
		ids = append(ids, s.ID)
	}
	assert.Equal(t, []int64{2, 4, 3, 1}, ids)
}

func TestSearchBar_PickSuggestion(t *testing.T) {
	c := newController(&stubCatalog{})
	c.Store.Dispatch(state.DropdownToggled{Open: true})

	got := c.PickSuggestion(models.Suggestion{ID: 9, Name: "Grey Official Suit"})

	assert.Equal(t, "/searchpage?query=Grey+Official+Suit", got)
	s := c.Store.State()
	assert.Equal(t, "Grey Official Suit", s.SearchBar.Term)
	assert.False(t, s.SearchBar.DropdownOpen)
}

func TestSearchBar_ClickFavoriteFetchesOnce(t *testing.T) {
	cat := &stubCatalog{favorites: 3}
	c := newController(cat)
	c.Store.Dispatch(state.SessionRestored{Authenticated: true, CustomerID: 7, Username: "andrew"})

	var wg sync.WaitGroup
	var mu sync.Mutex
	fetched := 0
	for range 10 {
		wg.Add(1)
		go func() {
			defer wg.Done()
			ok, err := c.ClickFavorite(context.Background())
			assert.NoError(t, err)
			if ok {
				mu.Lock()
				fetched++
				mu.Unlock()
			}
		}()
	}
	wg.Wait()

	assert.Equal(t, 1, fetched)
	assert.Equal(t, 1, cat.Calls("favorites"))
	assert.Equal(t, 3, c.Store.State().Favorites.Count)
	assert.True(t, c.Store.State().SearchBar.FavoriteClicked)
}

func TestSearchBar_FavoritesFollowTheSignedInCustomer(t *testing.T) {
	cat := &stubCatalog{favorites: 3}
	c := newController(cat)
	ctx := context.Background()

	c.Store.Dispatch(state.SessionRestored{Authenticated: true, CustomerID: 7, Username: "andrew"})
	fetched, err := c.ClickFavorite(ctx)
	require.NoError(t, err)
	require.True(t, fetched)
	require.Equal(t, 3, c.Props("").FavoriteCount)

	c.Logout()
	props := c.Props("")
	assert.Zero(t, props.FavoriteCount)
	assert.False(t, props.FavoriteClicked)

	c.Store.Dispatch(state.SessionRestored{Authenticated: true, CustomerID: 8, Username: "bob"})
	cat.favorites = 5
	fetched, err = c.ClickFavorite(ctx)
	require.NoError(t, err)
	assert.True(t, fetched)
	assert.Equal(t, 2, cat.Calls("favorites"))
	assert.Equal(t, 5, c.Props("").FavoriteCount)
}

func TestSearchBar_SwitchingCustomerWithoutLogoutResetsFavorites(t *testing.T) {
	cat := &stubCatalog{favorites: 3}
	c := newController(cat)
	ctx := context.Background()

	c.Store.Dispatch(state.SessionRestored{Authenticated: true, CustomerID: 7, Username: "andrew"})
	_, err := c.ClickFavorite(ctx)
	require.NoError(t, err)

	// same customer on the next request keeps the count
	c.Store.Dispatch(state.SessionRestored{Authenticated: true, CustomerID: 7, Username: "andrew"})
	assert.Equal(t, 3, c.Props("").FavoriteCount)
	assert.True(t, c.Props("").FavoriteClicked)

	c.Store.Dispatch(state.SessionRestored{Authenticated: true, CustomerID: 8, Username: "bob"})
	assert.Zero(t, c.Props("").FavoriteCount)
	assert.False(t, c.Props("").FavoriteClicked)
	assert.Equal(t, "bob", c.Props("").Username)
}

func TestSearchBar_MountClosesDropdown(t *testing.T) {
	cat := &stubCatalog{suggestions: map[string][]models.Suggestion{
		"tu": {{ID: 2, Name: "Tuxedo"}},
	}}
	c := newController(cat)

	require.NoError(t, c.Change(context.Background(), "tu"))
	require.True(t, c.Props("").DropdownOpen)

	c.Mount()

	props := c.Props("")
	assert.False(t, props.DropdownOpen)
	assert.Equal(t, "tu", props.Term)
}

func TestSearchBar_Logout(t *testing.T) {
	c := newController(&stubCatalog{})
	c.Store.Dispatch(state.SessionRestored{Authenticated: true, CustomerID: 7, Username: "andrew"})

	assert.Equal(t, "/", c.Logout())
	assert.False(t, c.Store.State().User.IsAuthenticated)
}

func TestSearchBarView(t *testing.T) {
	sugg := []models.Suggestion{{ID: 4, Name: "Oxford", Image: "/static/uploads/oxford.jpg"}}

	t.Run("anonymous", func(t *testing.T) {
		out := render(t, SearchBar(SearchBarProps{FavoriteCount: 0, CSRFToken: "tok"}))
		assert.NotContains(t, out, `href="/profile"`)
		assert.NotContains(t, out, "Logout")
		assert.Contains(t, out, `<span class="favorite-count">0</span>`)
		assert.Contains(t, out, `name="gorilla.csrf.Token" value="tok"`)
		assert.NotContains(t, out, `class="suggestions"`)
	})

	t.Run("authenticated", func(t *testing.T) {
		out := render(t, SearchBar(SearchBarProps{IsAuthenticated: true, Username: "andrew", FavoriteCount: 5}))
		assert.Contains(t, out, `href="/profile"`)
		assert.Contains(t, out, `action="/logout"`)
		assert.Contains(t, out, `<span class="favorite-count">5</span>`)
	})

	t.Run("dropdown closed hides suggestions", func(t *testing.T) {
		out := render(t, SearchBar(SearchBarProps{Suggestions: sugg}))
		assert.NotContains(t, out, "Oxford")
	})

	t.Run("dropdown open", func(t *testing.T) {
		out := render(t, SearchBar(SearchBarProps{DropdownOpen: true, Suggestions: sugg, Term: "ox"}))
		assert.Contains(t, out, `href="/suggestions/pick?id=4&amp;name=Oxford"`)
		assert.Contains(t, out, `value="ox"`)
	})
}
