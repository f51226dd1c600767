package handlers

import (
	"embed"
	"io/fs"
	"net/http"
	"time"

	"github.com/andrewindechemain/modern-man/internal/components"
	"github.com/andrewindechemain/modern-man/internal/session"
	"github.com/andrewindechemain/modern-man/internal/store"
	"github.com/gorilla/sessions"
)

//go:embed templates/*.html
var templatesFS embed.FS

//go:embed static
var staticFS embed.FS

// LoadTemplates parses the embedded page templates.
func LoadTemplates() (*TemplateCache, error) {
	tc := NewTemplateCache()
	tc.AddFunc("categoryURL", components.CategoryURL)
	if err := tc.Load(templatesFS, "templates"); err != nil {
		return nil, err
	}
	return tc, nil
}

// Router holds what the route table needs.
type Router struct {
	Store        *store.Store
	SessionStore sessions.Store
	Templates    *TemplateCache
	Clients      *session.Registry[*Client]
	Limiter      *RateLimiter
	RenderBudget time.Duration
	// UploadsDir serves images added with the CLI under /static/uploads/.
	UploadsDir string
}

// Handler builds the route table. Static files bypass client state; every
// other route gets its client mounted first.
func (rt *Router) Handler() http.Handler {
	auth := SessionAuth{SessionStore: rt.SessionStore}
	pages := &PageHandler{
		Store:        rt.Store,
		SessionStore: rt.SessionStore,
		Templates:    rt.Templates,
		Auth:         auth,
		RenderBudget: rt.RenderBudget,
	}
	authHandler := &AuthHandler{
		Store:        rt.Store,
		SessionStore: rt.SessionStore,
		Templates:    rt.Templates,
		Pages:        pages,
	}
	search := &SearchHandler{}

	app := http.NewServeMux()
	app.HandleFunc("GET /{$}", pages.Home)
	app.HandleFunc("GET /login", authHandler.LoginGet)
	app.HandleFunc("POST /login", rt.Limiter.Middleware(authHandler.LoginPost))
	app.HandleFunc("GET /registration", authHandler.RegistrationGet)
	app.HandleFunc("POST /registration", rt.Limiter.Middleware(authHandler.RegistrationPost))
	app.HandleFunc("GET /forgot", authHandler.ForgotGet)
	app.HandleFunc("POST /forgot", rt.Limiter.Middleware(authHandler.ForgotPost))
	app.HandleFunc("POST /logout", authHandler.Logout)

	app.HandleFunc("GET /searchpage", pages.SearchPage)
	app.HandleFunc("POST /search", search.Submit)
	app.HandleFunc("GET /suggestions", search.Suggestions)
	app.HandleFunc("GET /suggestions/pick", search.PickSuggestion)
	app.HandleFunc("POST /favorites/click", search.FavoriteClick)
	app.HandleFunc("GET /fragments/notification", pages.NotificationFragment)

	app.HandleFunc("GET /checkout", pages.Checkout)
	app.Handle("GET /profile", ProtectedRoute(auth, http.HandlerFunc(pages.Profile)))

	app.HandleFunc("/", pages.NotFound)

	mux := http.NewServeMux()
	mux.Handle("GET /static/", staticHandler(rt.UploadsDir))
	mux.Handle("/", ClientMiddleware(rt.SessionStore, rt.Clients, app))
	return mux
}

func staticHandler(uploadsDir string) http.Handler {
	sub, err := fs.Sub(staticFS, "static")
	if err != nil {
		panic(err)
	}
	assets := http.StripPrefix("/static/", http.FileServer(http.FS(sub)))
	if uploadsDir == "" {
		return assets
	}
	uploads := http.StripPrefix("/static/uploads/", http.FileServer(http.Dir(uploadsDir)))
	mux := http.NewServeMux()
	mux.Handle("/static/uploads/", uploads)
	mux.Handle("/static/", assets)
	return mux
}
