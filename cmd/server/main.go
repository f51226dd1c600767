package main

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/andrewindechemain/modern-man/internal/catalog"
	"github.com/andrewindechemain/modern-man/internal/config"
	"github.com/andrewindechemain/modern-man/internal/handlers"
	"github.com/andrewindechemain/modern-man/internal/session"
	"github.com/andrewindechemain/modern-man/internal/state"
	"github.com/andrewindechemain/modern-man/internal/store"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/gorilla/csrf"
	"github.com/gorilla/sessions"
	"golang.org/x/sync/errgroup"
)

func main() {
	setupLogger(os.Getenv("APP_ENV"))

	// 1. Load Configuration
	cfg, err := config.LoadConfig()
	if err != nil {
		slog.Error("Failed to load configuration", "error", err)
		os.Exit(1)
	}
	setupLogger(cfg.Env)

	// 2. Init DB
	db, err := store.NewStore(cfg.DBDriver, cfg.DSN())
	if err != nil {
		slog.Error("Failed to initialize store", "error", err)
		os.Exit(1)
	}
	defer db.Close()

	if err := db.Migrate(); err != nil {
		slog.Error("Failed to run migrations", "error", err)
		os.Exit(1)
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	// 3. Catalog, cached in Redis when configured
	var cat state.Catalog = db
	if cfg.Redis.URL != "" {
		rdb, err := cfg.Redis.New(ctx)
		if err != nil {
			slog.Error("Failed to connect to Redis", "error", err)
			os.Exit(1)
		}
		defer rdb.Close()
		cat = catalog.NewCached(db, catalog.RedisCache{Client: rdb}, cfg.CacheTTL)
		slog.Info("Catalog cache enabled", "ttl", cfg.CacheTTL)
	}

	// 4. Session Setup
	sessionStore := sessions.NewCookieStore(cfg.SessionKey)
	sessionStore.Options.HttpOnly = true
	sessionStore.Options.Secure = cfg.CookieSecure
	sessionStore.Options.SameSite = http.SameSiteLaxMode
	sessionStore.Options.Path = "/"
	sessionStore.Options.MaxAge = int(cfg.SessionTTL.Seconds())
	if cfg.CookieDomain != "" {
		sessionStore.Options.Domain = cfg.CookieDomain
	}

	// 5. Templates and per-client state
	templates, err := handlers.LoadTemplates()
	if err != nil {
		slog.Error("Failed to load templates", "error", err)
		os.Exit(1)
	}

	thunks := &state.Thunks{Catalog: cat, SuggestionLimit: cfg.SuggestionLimit}
	clients := session.NewRegistry(cfg.SessionTTL, handlers.NewClientFactory(handlers.ClientOptions{
		Thunks:         thunks,
		RotateInterval: cfg.RotateInterval,
		FetchTimeout:   cfg.FetchTimeout,
	}))
	limiter := handlers.NewRateLimiter(cfg.RateLimitWindow)

	router := &handlers.Router{
		Store:        db,
		SessionStore: sessionStore,
		Templates:    templates,
		Clients:      clients,
		Limiter:      limiter,
		RenderBudget: cfg.RenderBudget,
		UploadsDir:   "static/uploads",
	}

	// 6. Middleware Setup
	CSRF := csrf.Protect(
		cfg.CSRFKey,
		csrf.Secure(cfg.CookieSecure),
		csrf.Path("/"),
		csrf.TrustedOrigins([]string{"localhost:" + cfg.Port, "127.0.0.1:" + cfg.Port, "localhost", "127.0.0.1"}),
	)

	// Chain: RequestID -> Logger -> Recoverer -> Compress -> Security Headers -> CSRF -> routes
	handler := middleware.RequestID(
		handlers.LoggingMiddleware(
			middleware.Recoverer(
				middleware.Compress(5)(
					handlers.SecurityHeadersMiddleware(
						CSRF(router.Handler()),
					),
				),
			),
		),
	)

	// 7. Start Server with Graceful Shutdown
	server := &http.Server{
		Addr:              ":" + cfg.Port,
		Handler:           handler,
		ReadHeaderTimeout: 10 * time.Second,
	}

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		slog.Info("Server starting", "port", cfg.Port, "driver", cfg.DBDriver)
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	})
	g.Go(func() error {
		return clients.Run(gctx, time.Minute)
	})
	g.Go(func() error {
		return limiter.Run(gctx, time.Minute)
	})
	g.Go(func() error {
		<-gctx.Done()
		slog.Info("Shutting down server gracefully...")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		return server.Shutdown(shutdownCtx)
	})

	if err := g.Wait(); err != nil {
		slog.Error("Server stopped with error", "error", err)
		os.Exit(1)
	}
	slog.Info("Server exited gracefully.")
}

// setupLogger installs a text handler at debug level, or JSON in production.
func setupLogger(env string) {
	opts := &slog.HandlerOptions{Level: slog.LevelDebug}
	var h slog.Handler = slog.NewTextHandler(os.Stdout, opts)
	if env == "production" {
		opts.Level = slog.LevelInfo
		h = slog.NewJSONHandler(os.Stdout, opts)
	}
	slog.SetDefault(slog.New(h))
}
