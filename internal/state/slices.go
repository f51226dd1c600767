package state

import "github.com/andrewindechemain/modern-man/internal/models"

// --- discount ---

type DiscountState = Resource[[]models.DiscountedProduct]

type DiscountsRequested struct{}
type DiscountsReceived struct{ Items []models.DiscountedProduct }
type DiscountsFailed struct{ Err string }

func (DiscountsRequested) ActionType() string { return "discount/fetchDiscountedProducts/pending" }
func (DiscountsReceived) ActionType() string  { return "discount/fetchDiscountedProducts/fulfilled" }
func (DiscountsFailed) ActionType() string    { return "discount/fetchDiscountedProducts/rejected" }

func reduceDiscount(s DiscountState, a Action) DiscountState {
	switch a := a.(type) {
	case DiscountsRequested:
		return s.start()
	case DiscountsReceived:
		return s.succeed(a.Items)
	case DiscountsFailed:
		return s.fail(a.Err)
	}
	return s
}

// --- suggestions ---

// SuggestionsState keeps only the answer to the most recent request. Latest is
// the sequence number of that request; responses carrying any other number
// are stale and dropped.
type SuggestionsState struct {
	Latest      uint64
	Term        string
	Status      Status
	Suggestions []models.Suggestion
	Err         string
}

type SuggestionsRequested struct {
	Seq  uint64
	Term string
}
type SuggestionsReceived struct {
	Seq   uint64
	Items []models.Suggestion
}
type SuggestionsFailed struct {
	Seq uint64
	Err string
}
type SuggestionsCleared struct{ Seq uint64 }

func (SuggestionsRequested) ActionType() string { return "suggestions/fetchSuggestions/pending" }
func (SuggestionsReceived) ActionType() string  { return "suggestions/fetchSuggestions/fulfilled" }
func (SuggestionsFailed) ActionType() string    { return "suggestions/fetchSuggestions/rejected" }
func (SuggestionsCleared) ActionType() string   { return "suggestions/clearSuggestions" }

func reduceSuggestions(s SuggestionsState, a Action) SuggestionsState {
	switch a := a.(type) {
	case SuggestionsRequested:
		if a.Seq <= s.Latest {
			return s
		}
		s.Latest = a.Seq
		s.Term = a.Term
		s.Status = StatusLoading
		s.Err = ""
	case SuggestionsReceived:
		if a.Seq != s.Latest {
			return s
		}
		s.Status = StatusLoaded
		s.Suggestions = a.Items
	case SuggestionsFailed:
		if a.Seq != s.Latest {
			return s
		}
		s.Status = StatusErrored
		s.Err = a.Err
		s.Suggestions = nil
	case SuggestionsCleared:
		if a.Seq > s.Latest {
			s.Latest = a.Seq
		}
		s.Term = ""
		s.Status = StatusIdle
		s.Suggestions = nil
		s.Err = ""
	}
	return s
}

// --- search ---

type SearchState struct {
	Query   string
	Results Resource[[]models.Product]
}

type QueryUpdated struct{ Term string }
type SearchRequested struct{ Term string }
type SearchSucceeded struct {
	Term    string
	Results []models.Product
}
type SearchFailed struct {
	Term string
	Err  string
}

func (QueryUpdated) ActionType() string    { return "search/updateQuery" }
func (SearchRequested) ActionType() string { return "search/searchProducts/pending" }
func (SearchSucceeded) ActionType() string { return "search/searchProducts/fulfilled" }
func (SearchFailed) ActionType() string    { return "search/searchProducts/rejected" }

func reduceSearch(s SearchState, a Action) SearchState {
	switch a := a.(type) {
	case QueryUpdated:
		s.Query = a.Term
	case SearchRequested:
		s.Results = s.Results.start()
	case SearchSucceeded:
		s.Results = s.Results.succeed(a.Results)
	case SearchFailed:
		s.Results = s.Results.fail(a.Err)
	}
	return s
}

// --- search bar (component-local state) ---

type SearchBarState struct {
	Term            string
	DropdownOpen    bool
	FavoriteClicked bool
}

type TermChanged struct{ Term string }
type DropdownToggled struct{ Open bool }
type FavoriteIconClicked struct{}

// HeaderMounted is dispatched when a page renders the header afresh.
type HeaderMounted struct{}

func (TermChanged) ActionType() string         { return "searchBar/termChanged" }
func (DropdownToggled) ActionType() string     { return "searchBar/dropdownToggled" }
func (FavoriteIconClicked) ActionType() string { return "searchBar/favoriteClicked" }
func (HeaderMounted) ActionType() string       { return "searchBar/mounted" }

func reduceSearchBar(s SearchBarState, a Action) SearchBarState {
	switch a := a.(type) {
	case TermChanged:
		s.Term = a.Term
	case DropdownToggled:
		s.DropdownOpen = a.Open
	case FavoriteIconClicked:
		s.FavoriteClicked = true
	case HeaderMounted:
		s.DropdownOpen = false
	case LoggedOut, customerSwitched:
		s.FavoriteClicked = false
	}
	return s
}

// --- favorites ---

type FavoritesState struct {
	Count  int
	Status Status
	Err    string
}

type FavoriteCountRequested struct{}
type FavoriteCountReceived struct{ Count int }
type FavoriteCountFailed struct{ Err string }

func (FavoriteCountRequested) ActionType() string { return "favorites/fetchFavoriteCount/pending" }
func (FavoriteCountReceived) ActionType() string  { return "favorites/fetchFavoriteCount/fulfilled" }
func (FavoriteCountFailed) ActionType() string    { return "favorites/fetchFavoriteCount/rejected" }

func reduceFavorites(s FavoritesState, a Action) FavoritesState {
	switch a := a.(type) {
	case FavoriteCountRequested:
		s.Status = StatusLoading
		s.Err = ""
	case FavoriteCountReceived:
		s = FavoritesState{Count: a.Count, Status: StatusLoaded}
	case FavoriteCountFailed:
		s.Status = StatusErrored
		s.Err = a.Err
	case LoggedOut, customerSwitched:
		return FavoritesState{}
	}
	return s
}

// --- user ---

type UserState struct {
	IsAuthenticated bool
	CustomerID      int64
	Username        string
}

// SessionRestored mirrors the session cookie into the slice at the start of
// every request.
type SessionRestored struct {
	Authenticated bool
	CustomerID    int64
	Username      string
}
type LoggedOut struct{}

// customerSwitched stands in for a SessionRestored that changes who is
// signed in; per-customer slices drop what they hold.
type customerSwitched struct{}

func (SessionRestored) ActionType() string  { return "user/sessionRestored" }
func (LoggedOut) ActionType() string        { return "user/logoutUser" }
func (customerSwitched) ActionType() string { return "user/customerSwitched" }

func (a SessionRestored) customerID() int64 {
	if !a.Authenticated {
		return 0
	}
	return a.CustomerID
}

func reduceUser(s UserState, a Action) UserState {
	switch a := a.(type) {
	case SessionRestored:
		if !a.Authenticated {
			return UserState{}
		}
		return UserState{IsAuthenticated: true, CustomerID: a.CustomerID, Username: a.Username}
	case LoggedOut:
		return UserState{}
	}
	return s
}
