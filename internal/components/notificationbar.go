package components

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"github.com/andrewindechemain/modern-man/internal/state"
	g "maragu.dev/gomponents"
	"maragu.dev/gomponents/html"
)

// RotateInterval is how long each discounted product stays on the bar.
const RotateInterval = 5 * time.Second

// NotificationBar shows one discounted product at a time. It lives as long
// as its client state; Close unmounts it.
type NotificationBar struct {
	store   *state.Store
	thunks  *state.Thunks
	rotator *Rotator
	timeout time.Duration

	unsubscribe func()
	fetches     sync.WaitGroup
	mu          sync.Mutex
	closed      bool
}

// NewNotificationBar wires the rotator to the discount slice: every change in
// the number of items resets the rotation, and an empty list stops it.
func NewNotificationBar(st *state.Store, th *state.Thunks, interval, fetchTimeout time.Duration) *NotificationBar {
	b := &NotificationBar{
		store:   st,
		thunks:  th,
		rotator: NewRotator(interval),
		timeout: fetchTimeout,
	}
	b.unsubscribe = st.Subscribe(func(a state.Action, s state.State) {
		switch a.(type) {
		case state.DiscountsReceived, state.DiscountsFailed:
			b.rotator.Reset(len(s.Discount.Data))
		}
	})
	return b
}

// Mount requests the discounted products in the background. The returned
// channel closes when the fetch finishes.
func (b *NotificationBar) Mount() <-chan struct{} {
	done := make(chan struct{})
	b.mu.Lock()
	if b.closed {
		b.mu.Unlock()
		close(done)
		return done
	}
	b.fetches.Add(1)
	b.mu.Unlock()
	go func() {
		defer b.fetches.Done()
		defer close(done)
		ctx, cancel := context.WithTimeout(context.Background(), b.timeout)
		defer cancel()
		if err := b.thunks.FetchDiscountedProducts(ctx, b.store); err != nil {
			slog.Warn("Discounted products fetch failed", "error", err)
		}
	}()
	return done
}

// Close stops the rotation and waits for in-flight fetches.
func (b *NotificationBar) Close() error {
	b.mu.Lock()
	if b.closed {
		b.mu.Unlock()
		return nil
	}
	b.closed = true
	b.mu.Unlock()

	b.unsubscribe()
	b.fetches.Wait()
	b.rotator.Stop()
	return nil
}

func (b *NotificationBar) Index() int {
	return b.rotator.Index()
}

func (b *NotificationBar) Render() g.Node {
	return NotificationBarView(b.store.State().Discount, b.rotator.Index())
}

// NotificationBarView renders the bar for a discount slice and rotation index.
func NotificationBarView(d state.DiscountState, index int) g.Node {
	var body g.Node
	switch {
	case d.Loading():
		body = html.P(g.Text("Loading..."))
	case d.Failed():
		body = html.P(g.Text("Error: " + d.Err))
	case len(d.Data) > 0:
		item := d.Data[index%len(d.Data)]
		body = g.Group([]g.Node{
			html.Img(html.Src(item.Image), html.Alt(item.Name), html.Class("shoes")),
			html.P(html.ID("notificationbartext"),
				g.Textf("Get %d%% off on %s", item.DiscountPercentage, item.Name)),
			html.A(html.Href(DiscountedURL), html.ID("notificationbutton"), html.Class("button"),
				g.Text("Learn More")),
		})
	default:
		body = html.P(g.Text("No discount available"))
	}

	return html.Div(
		html.Class("notificationbar"),
		html.ID("notificationbar"),
		g.Attr("data-refresh", "/fragments/notification"),
		g.Attr("data-status", d.Status.String()),
		body,
	)
}
