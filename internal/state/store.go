// Package state holds per-client UI state as a set of slices updated only by
// dispatching actions through a Store.
package state

import (
	"sync"
	"sync/atomic"
)

// Action is a plain state update. Each slice reducer ignores actions it does
// not own.
type Action interface {
	ActionType() string
}

// State is the whole client state. Reducers replace slices rather than
// mutating them, so a State value handed out by the Store is safe to read
// without locking.
type State struct {
	Discount    DiscountState
	Suggestions SuggestionsState
	Search      SearchState
	SearchBar   SearchBarState
	Favorites   FavoritesState
	User        UserState
}

// Listener is called after every dispatch with the action and the new state.
type Listener func(Action, State)

type Store struct {
	mu        sync.Mutex
	state     State
	listeners []subscription
	nextID    int
	seq       atomic.Uint64
}

type subscription struct {
	id int
	fn Listener
}

func NewStore() *Store {
	return &Store{}
}

// State returns a snapshot of the current state.
func (s *Store) State() State {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state
}

// Dispatch applies a to every slice and then notifies listeners outside the
// lock, so a listener may dispatch again.
func (s *Store) Dispatch(a Action) {
	s.mu.Lock()
	s.state = reduce(s.state, a)
	snapshot := s.state
	listeners := make([]subscription, len(s.listeners))
	copy(listeners, s.listeners)
	s.mu.Unlock()

	for _, l := range listeners {
		l.fn(a, snapshot)
	}
}

// TryDispatch dispatches a only if guard accepts the current state, checked
// atomically with the update. It reports whether a was dispatched.
func (s *Store) TryDispatch(a Action, guard func(State) bool) bool {
	s.mu.Lock()
	if !guard(s.state) {
		s.mu.Unlock()
		return false
	}
	s.state = reduce(s.state, a)
	snapshot := s.state
	listeners := make([]subscription, len(s.listeners))
	copy(listeners, s.listeners)
	s.mu.Unlock()

	for _, l := range listeners {
		l.fn(a, snapshot)
	}
	return true
}

// Subscribe registers fn and returns a function that removes it.
func (s *Store) Subscribe(fn Listener) (unsubscribe func()) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.nextID++
	id := s.nextID
	s.listeners = append(s.listeners, subscription{id: id, fn: fn})

	var once sync.Once
	return func() {
		once.Do(func() {
			s.mu.Lock()
			defer s.mu.Unlock()
			for i, l := range s.listeners {
				if l.id == id {
					s.listeners = append(s.listeners[:i:i], s.listeners[i+1:]...)
					return
				}
			}
		})
	}
}

// NextSeq hands out strictly increasing request sequence numbers.
func (s *Store) NextSeq() uint64 {
	return s.seq.Add(1)
}

func reduce(s State, a Action) State {
	if r, ok := a.(SessionRestored); ok && r.customerID() != s.User.CustomerID {
		a = customerSwitched{}
		s.SearchBar = reduceSearchBar(s.SearchBar, a)
		s.Favorites = reduceFavorites(s.Favorites, a)
		s.User = reduceUser(s.User, r)
		return s
	}
	s.Discount = reduceDiscount(s.Discount, a)
	s.Suggestions = reduceSuggestions(s.Suggestions, a)
	s.Search = reduceSearch(s.Search, a)
	s.SearchBar = reduceSearchBar(s.SearchBar, a)
	s.Favorites = reduceFavorites(s.Favorites, a)
	s.User = reduceUser(s.User, a)
	return s
}
