package handlers

import (
	"context"
	"log/slog"
	"net/http"
	"time"

	"github.com/andrewindechemain/modern-man/internal/components"
	"github.com/andrewindechemain/modern-man/internal/session"
	"github.com/andrewindechemain/modern-man/internal/state"
	"github.com/google/uuid"
	"github.com/gorilla/sessions"
)

// Session name and keys shared by every handler.
const (
	PublicSession = "public-session"

	keyClientID      = "client_id"
	keyAuthenticated = "authenticated"
	keyCustomerID    = "customer_id"
	keyUsername      = "username"
)

// Client is the mounted UI state of one browser.
type Client struct {
	ID        string
	Store     *state.Store
	Bar       *components.NotificationBar
	SearchBar *components.SearchBarController
}

// Close unmounts the notification bar.
func (c *Client) Close() error {
	return c.Bar.Close()
}

// ClientOptions configures the state each new client is mounted with.
type ClientOptions struct {
	Thunks         *state.Thunks
	RotateInterval time.Duration
	FetchTimeout   time.Duration
}

// NewClientFactory returns the constructor a session.Registry uses to mount
// state for a client id it has not seen.
func NewClientFactory(opts ClientOptions) func(id string) *Client {
	return func(id string) *Client {
		st := state.NewStore()
		slog.Debug("Mounting client state", "client_id", id)
		return &Client{
			ID:        id,
			Store:     st,
			Bar:       components.NewNotificationBar(st, opts.Thunks, opts.RotateInterval, opts.FetchTimeout),
			SearchBar: &components.SearchBarController{Store: st, Thunks: opts.Thunks},
		}
	}
}

type clientKey struct{}

// ClientMiddleware gives every request its client state. The client id lives
// in the public session; the user slice is resynced from the session on each
// request.
func ClientMiddleware(store sessions.Store, clients *session.Registry[*Client], next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		sess, err := store.Get(r, PublicSession)
		if err != nil {
			slog.Debug("Discarding unreadable session", "error", err)
		}

		id, _ := sess.Values[keyClientID].(string)
		if _, err := uuid.Parse(id); err != nil {
			id = uuid.NewString()
			sess.Values[keyClientID] = id
			if err := sess.Save(r, w); err != nil {
				slog.Error("Failed to save session", "error", err)
			}
		}

		c := clients.Get(id)
		syncUser(c.Store, sess)
		next.ServeHTTP(w, r.WithContext(context.WithValue(r.Context(), clientKey{}, c)))
	})
}

func syncUser(st *state.Store, sess *sessions.Session) {
	auth, _ := sess.Values[keyAuthenticated].(bool)
	id, _ := sess.Values[keyCustomerID].(int64)
	name, _ := sess.Values[keyUsername].(string)

	want := state.SessionRestored{Authenticated: auth, CustomerID: id, Username: name}
	u := st.State().User
	if u.IsAuthenticated == auth && u.CustomerID == id && u.Username == name {
		return
	}
	if !auth && !u.IsAuthenticated {
		return
	}
	st.Dispatch(want)
}

// ClientFrom returns the client mounted by ClientMiddleware.
func ClientFrom(r *http.Request) *Client {
	c, _ := r.Context().Value(clientKey{}).(*Client)
	return c
}
