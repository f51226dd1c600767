package components

import (
	"context"
	"log/slog"
	"slices"
	"strconv"
	"strings"

	"github.com/andrewindechemain/modern-man/internal/models"
	"github.com/andrewindechemain/modern-man/internal/state"
	g "maragu.dev/gomponents"
	"maragu.dev/gomponents/html"
)

// SearchBarController carries the search bar's behaviour for one client.
type SearchBarController struct {
	Store  *state.Store
	Thunks *state.Thunks
}

// Change records the typed term. A non-blank term fetches suggestions and
// opens the dropdown; a blank one clears them and closes it.
func (c *SearchBarController) Change(ctx context.Context, term string) error {
	c.Store.Dispatch(state.TermChanged{Term: term})
	if strings.TrimSpace(term) == "" {
		state.ClearSuggestions(c.Store)
		c.Store.Dispatch(state.DropdownToggled{Open: false})
		return nil
	}
	c.Store.Dispatch(state.DropdownToggled{Open: true})
	return c.Thunks.FetchSuggestions(ctx, c.Store, term)
}

// Submit runs a search for term and returns where to send the browser. A
// blank term never reaches the catalog. Failed searches are reported the
// same way as empty ones.
func (c *SearchBarController) Submit(ctx context.Context, term string) string {
	c.Store.Dispatch(state.TermChanged{Term: term})
	c.Store.Dispatch(state.DropdownToggled{Open: false})

	if strings.TrimSpace(term) == "" {
		return SearchErrorURL(term, ErrorEmpty)
	}

	state.UpdateQuery(c.Store, term)
	results, err := c.Thunks.SearchProducts(ctx, c.Store, term)
	if err != nil {
		slog.Warn("Search failed", "query", term, "error", err)
		return SearchErrorURL(term, ErrorNoResults)
	}
	if len(results) == 0 {
		return SearchErrorURL(term, ErrorNoResults)
	}
	return SearchURL(term)
}

func (c *SearchBarController) SortedSuggestions() []models.Suggestion {
	return SortSuggestions(c.Store.State().Suggestions.Suggestions)
}

// PickSuggestion fills the input with the chosen name and closes the
// dropdown.
func (c *SearchBarController) PickSuggestion(s models.Suggestion) string {
	c.Store.Dispatch(state.TermChanged{Term: s.Name})
	c.Store.Dispatch(state.DropdownToggled{Open: false})
	return SearchURL(s.Name)
}

// ClickFavorite fetches the favorite count on the first click only. It
// reports whether a fetch was made.
func (c *SearchBarController) ClickFavorite(ctx context.Context) (bool, error) {
	first := c.Store.TryDispatch(state.FavoriteIconClicked{}, func(s state.State) bool {
		return !s.SearchBar.FavoriteClicked
	})
	if !first {
		return false, nil
	}
	return true, c.Thunks.FetchFavoriteCount(ctx, c.Store)
}

// Mount resets what a freshly rendered bar shows: the dropdown starts closed.
func (c *SearchBarController) Mount() {
	c.Store.Dispatch(state.HeaderMounted{})
}

func (c *SearchBarController) Logout() string {
	state.LogoutUser(c.Store)
	return "/"
}

// Props builds the view model from the current state.
func (c *SearchBarController) Props(csrfToken string) SearchBarProps {
	s := c.Store.State()
	return SearchBarProps{
		Term:            s.SearchBar.Term,
		DropdownOpen:    s.SearchBar.DropdownOpen,
		Suggestions:     SortSuggestions(s.Suggestions.Suggestions),
		IsAuthenticated: s.User.IsAuthenticated,
		Username:        s.User.Username,
		FavoriteCount:   s.Favorites.Count,
		FavoriteClicked: s.SearchBar.FavoriteClicked,
		CSRFToken:       csrfToken,
	}
}

// SortSuggestions returns a copy ordered by name ignoring case, then by exact
// name; names equal in both keep their order.
func SortSuggestions(in []models.Suggestion) []models.Suggestion {
	out := slices.Clone(in)
	slices.SortStableFunc(out, func(a, b models.Suggestion) int {
		if c := strings.Compare(strings.ToLower(a.Name), strings.ToLower(b.Name)); c != 0 {
			return c
		}
		return strings.Compare(a.Name, b.Name)
	})
	return out
}

type SearchBarProps struct {
	Term            string
	DropdownOpen    bool
	Suggestions     []models.Suggestion // already sorted
	IsAuthenticated bool
	Username        string
	FavoriteCount   int
	FavoriteClicked bool
	CSRFToken       string
}

// CSRFFieldName matches gorilla/csrf's default form field.
const CSRFFieldName = "gorilla.csrf.Token"

func SearchBar(p SearchBarProps) g.Node {
	return html.Div(html.Class("searchbar"),
		html.H3(g.Text("Modern Man")),
		html.A(html.Href("/"), html.Class("home-link"),
			html.Span(html.Class("icon home-icon"), g.Attr("aria-hidden", "true")),
			html.Span(html.Class("tooltip-text"), g.Text("Go To Home")),
		),
		html.Form(html.Class("search-form"), html.Method("post"), html.Action("/search"),
			g.Attr("autocomplete", "off"),
			csrfInput(p.CSRFToken),
			html.Span(html.Class("icon search-icon"), g.Attr("aria-hidden", "true")),
			html.Input(
				html.Type("text"),
				html.Name("query"),
				html.Class("search-input"),
				html.Placeholder("Search for Men's Wear and Accessories"),
				html.Value(p.Term),
				g.Attr("data-suggest", "/suggestions"),
			),
			html.Div(html.ID("suggestions"), SuggestionList(p.DropdownOpen, p.Suggestions)),
		),
		html.Div(html.Class("user-icons"),
			g.If(p.IsAuthenticated, userMenu(p)),
			html.A(html.Href("/checkout"), html.ID("shopping"),
				html.Span(html.Class("icon cart-icon"), g.Attr("aria-hidden", "true")),
				html.Span(html.Class("tooltip-text"), g.Text("Checkout")),
			),
			FavoriteCounter(p),
		),
	)
}

// SuggestionList is empty unless the dropdown is open and has entries.
func SuggestionList(open bool, sorted []models.Suggestion) g.Node {
	if !open || len(sorted) == 0 {
		return g.Group(nil)
	}
	return html.Ul(html.Class("suggestions"),
		g.Map(sorted, func(s models.Suggestion) g.Node {
			return html.Li(html.Class("suggestion-item"), g.Attr("data-id", strconv.FormatInt(s.ID, 10)),
				html.A(html.Href(pickURL(s.ID, s.Name)),
					html.Img(html.Src(s.Image), html.Alt(s.Name), html.Class("suggestion-image")),
					html.Span(html.Class("suggestion-name"), g.Text(s.Name)),
				),
			)
		}),
	)
}

// FavoriteCounter is the heart icon form and count.
func FavoriteCounter(p SearchBarProps) g.Node {
	return html.Form(html.ID("favorites"), html.Class("favorites"), html.Method("post"), html.Action("/favorites/click"),
		csrfInput(p.CSRFToken),
		html.Button(html.Type("submit"), html.Class("heart"), g.Attr("aria-label", "Favorite")),
		html.Span(html.Class("favorite-count"), g.Text(strconv.Itoa(p.FavoriteCount))),
		html.Span(html.Class("tooltip-text"), g.Text("Favorite")),
	)
}

// userMenu is only rendered for signed-in users; CSS reveals the dropdown
// while the icon is hovered.
func userMenu(p SearchBarProps) g.Node {
	return html.Div(html.Class("user-icon"),
		html.Span(html.ID("user"), html.Class("icon user"), g.Attr("title", p.Username)),
		html.Div(html.Class("user-dropdown"),
			html.A(html.Href("/profile"), g.Text("Profile")),
			html.Form(html.Method("post"), html.Action("/logout"),
				csrfInput(p.CSRFToken),
				html.Button(html.Type("submit"), g.Text("Logout")),
			),
		),
	)
}

func csrfInput(token string) g.Node {
	return html.Input(html.Type("hidden"), html.Name(CSRFFieldName), html.Value(token))
}
