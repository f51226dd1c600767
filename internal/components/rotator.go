package components

import (
	"sync"
	"time"
)

// Rotator cycles an index over a list of a given length on a fixed interval.
// The ticker goroutine only exists while the length is positive.
type Rotator struct {
	interval time.Duration

	ctl  sync.Mutex // serialises Reset and Stop
	stop chan struct{}
	done chan struct{}

	mu     sync.Mutex
	index  int
	length int
}

func NewRotator(interval time.Duration) *Rotator {
	return &Rotator{interval: interval}
}

// Reset adopts a new list length. A positive length starts the ticker if it
// is not running or the length changed; zero stops it.
func (r *Rotator) Reset(n int) {
	r.ctl.Lock()
	defer r.ctl.Unlock()

	r.mu.Lock()
	unchanged := n == r.length && (n == 0) == (r.stop == nil)
	r.mu.Unlock()
	if unchanged {
		return
	}

	r.halt()

	r.mu.Lock()
	r.length = n
	if n > 0 {
		r.index %= n
	} else {
		r.index = 0
	}
	r.mu.Unlock()

	if n > 0 {
		r.stop = make(chan struct{})
		r.done = make(chan struct{})
		go r.run(r.stop, r.done)
	}
}

// Stop cancels the ticker and waits for its goroutine to exit.
func (r *Rotator) Stop() {
	r.ctl.Lock()
	defer r.ctl.Unlock()
	r.halt()
}

func (r *Rotator) Index() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.index
}

func (r *Rotator) Running() bool {
	r.ctl.Lock()
	defer r.ctl.Unlock()
	return r.stop != nil
}

// halt requires ctl to be held.
func (r *Rotator) halt() {
	if r.stop == nil {
		return
	}
	close(r.stop)
	<-r.done
	r.stop, r.done = nil, nil
}

func (r *Rotator) run(stop <-chan struct{}, done chan<- struct{}) {
	defer close(done)
	ticker := time.NewTicker(r.interval)
	defer ticker.Stop()
	for {
		select {
		case <-ticker.C:
			r.advance()
		case <-stop:
			return
		}
	}
}

func (r *Rotator) advance() {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.length > 0 {
		r.index = (r.index + 1) % r.length
	}
}
