package handlers

import (
	"log/slog"
	"net/http"
	"net/url"
	"strconv"

	"github.com/andrewindechemain/modern-man/internal/components"
	"github.com/andrewindechemain/modern-man/internal/models"
	"github.com/gorilla/csrf"
)

// SearchHandler serves the search bar's form posts and script requests.
type SearchHandler struct{}

// Submit handles the search form and redirects to the results route.
func (h *SearchHandler) Submit(w http.ResponseWriter, r *http.Request) {
	c := ClientFrom(r)
	target := c.SearchBar.Submit(r.Context(), r.FormValue("query"))
	http.Redirect(w, r, target, http.StatusSeeOther)
}

// Suggestions renders the dropdown for the typed term. The script sends a
// seq with each request and drops responses older than its latest; the
// header echoes it back.
func (h *SearchHandler) Suggestions(w http.ResponseWriter, r *http.Request) {
	c := ClientFrom(r)
	if seq := r.URL.Query().Get("seq"); seq != "" {
		if _, err := strconv.ParseUint(seq, 10, 64); err == nil {
			w.Header().Set("X-Suggest-Seq", seq)
		}
	}

	if err := c.SearchBar.Change(r.Context(), r.URL.Query().Get("term")); err != nil {
		slog.Warn("Suggestion fetch failed", "error", err)
	}

	s := c.Store.State()
	w.Header().Set("Cache-Control", "no-store")
	writeNode(w, components.SuggestionList(s.SearchBar.DropdownOpen, c.SearchBar.SortedSuggestions()))
}

func (h *SearchHandler) PickSuggestion(w http.ResponseWriter, r *http.Request) {
	c := ClientFrom(r)
	q := r.URL.Query()
	id, _ := strconv.ParseInt(q.Get("id"), 10, 64)
	target := c.SearchBar.PickSuggestion(models.Suggestion{ID: id, Name: q.Get("name")})
	http.Redirect(w, r, target, http.StatusSeeOther)
}

// FavoriteClick fetches the favorite count on the first click. Script
// requests get the updated counter; plain form posts go back where they
// came from.
func (h *SearchHandler) FavoriteClick(w http.ResponseWriter, r *http.Request) {
	c := ClientFrom(r)
	if _, err := c.SearchBar.ClickFavorite(r.Context()); err != nil {
		slog.Warn("Favorite count fetch failed", "client_id", c.ID, "error", err)
	}

	if r.Header.Get("X-Requested-With") == "fetch" {
		writeNode(w, components.FavoriteCounter(c.SearchBar.Props(csrf.Token(r))))
		return
	}
	http.Redirect(w, r, sameSiteReferer(r), http.StatusSeeOther)
}

// sameSiteReferer returns the referring path on this host, or "/".
func sameSiteReferer(r *http.Request) string {
	ref, err := url.Parse(r.Referer())
	if err != nil || ref.Path == "" || (ref.Host != "" && ref.Host != r.Host) {
		return "/"
	}
	if ref.RawQuery != "" {
		return ref.Path + "?" + ref.RawQuery
	}
	return ref.Path
}
