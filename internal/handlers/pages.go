package handlers

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/andrewindechemain/modern-man/internal/components"
	"github.com/andrewindechemain/modern-man/internal/models"
	"github.com/andrewindechemain/modern-man/internal/state"
	"github.com/andrewindechemain/modern-man/internal/store"
	"github.com/go-faster/errors"
	"github.com/gorilla/csrf"
	"github.com/gorilla/sessions"
	g "maragu.dev/gomponents"
)

type PageHandler struct {
	Store        *store.Store
	SessionStore sessions.Store
	Templates    *TemplateCache
	Auth         AuthContext
	// RenderBudget is how long a page waits for the discount fetch before
	// rendering the bar in its loading state.
	RenderBudget time.Duration
}

// mountBar starts the discount fetch and waits for it within the budget.
func (h *PageHandler) mountBar(r *http.Request, c *Client) {
	done := c.Bar.Mount()
	timer := time.NewTimer(h.RenderBudget)
	defer timer.Stop()
	select {
	case <-done:
	case <-timer.C:
		slog.Debug("Rendering notification bar before discounts arrived", "client_id", c.ID)
	case <-r.Context().Done():
	}
}

func (h *PageHandler) header(r *http.Request) g.Node {
	c := ClientFrom(r)
	if c == nil {
		return nil
	}
	h.mountBar(r, c)
	c.SearchBar.Mount()
	return components.Header(c.Bar.Render(), c.SearchBar.Props(csrf.Token(r)))
}

// pageData is the common template data. It drains the session's flashes,
// so callers save the session afterwards.
func (h *PageHandler) pageData(r *http.Request, session *sessions.Session) map[string]any {
	return map[string]any{
		"Header":  h.header(r),
		"Flashes": GetFlash(session),
	}
}

func (h *PageHandler) render(w http.ResponseWriter, r *http.Request, status int, page string, extra map[string]any) {
	session, _ := h.SessionStore.Get(r, PublicSession)
	data := h.pageData(r, session)
	for k, v := range extra {
		data[k] = v
	}
	if err := session.Save(r, w); err != nil {
		slog.Error("Failed to save session", "error", err)
	}
	h.Templates.Render(w, status, page, data)
}

func (h *PageHandler) Home(w http.ResponseWriter, r *http.Request) {
	h.render(w, r, http.StatusOK, "home.html", map[string]any{
		"Categories": models.Categories,
	})
}

func (h *PageHandler) SearchPage(w http.ResponseWriter, r *http.Request) {
	h.render(w, r, http.StatusOK, "searchpage.html", map[string]any{
		"Results": components.SearchResults(r.URL.Query()),
	})
}

func (h *PageHandler) Checkout(w http.ResponseWriter, r *http.Request) {
	h.render(w, r, http.StatusOK, "checkout.html", nil)
}

func (h *PageHandler) Profile(w http.ResponseWriter, r *http.Request) {
	customer, err := h.Store.GetCustomerByID(r.Context(), h.Auth.CustomerID(r))
	if errors.Is(err, store.ErrNotFound) {
		// signed in as a customer that no longer exists
		http.Redirect(w, r, "/login", http.StatusSeeOther)
		return
	}
	if err != nil {
		slog.Error("Failed to load profile", "error", err)
		http.Error(w, "Error fetching profile", http.StatusInternalServerError)
		return
	}
	h.render(w, r, http.StatusOK, "profile.html", map[string]any{
		"Customer":      customer,
		"PaymentMethod": models.PaymentMethods[customer.PaymentMethod],
	})
}

func (h *PageHandler) NotFound(w http.ResponseWriter, r *http.Request) {
	h.render(w, r, http.StatusNotFound, "error.html", map[string]any{
		"Path": r.URL.Path,
	})
}

// NotificationFragment re-renders the bar for polling. A client that has
// never loaded discounts, for example after eviction, mounts first.
func (h *PageHandler) NotificationFragment(w http.ResponseWriter, r *http.Request) {
	c := ClientFrom(r)
	if c.Store.State().Discount.Status == state.StatusIdle {
		h.mountBar(r, c)
	}
	w.Header().Set("Cache-Control", "no-store")
	writeNode(w, c.Bar.Render())
}
