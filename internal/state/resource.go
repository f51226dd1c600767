package state

// Status is the lifecycle of one remote data source.
type Status int

const (
	StatusIdle Status = iota
	StatusLoading
	StatusLoaded
	StatusErrored
)

func (s Status) String() string {
	switch s {
	case StatusLoading:
		return "loading"
	case StatusLoaded:
		return "loaded"
	case StatusErrored:
		return "errored"
	default:
		return "idle"
	}
}

// Resource pairs fetched data with its status. Data from the last successful
// load is kept while a reload is in flight.
type Resource[T any] struct {
	Status Status
	Data   T
	Err    string
}

func (r Resource[T]) Loading() bool { return r.Status == StatusLoading }
func (r Resource[T]) Failed() bool  { return r.Status == StatusErrored }
func (r Resource[T]) Loaded() bool  { return r.Status == StatusLoaded }

func (r Resource[T]) start() Resource[T] {
	r.Status = StatusLoading
	r.Err = ""
	return r
}

func (r Resource[T]) succeed(data T) Resource[T] {
	return Resource[T]{Status: StatusLoaded, Data: data}
}

func (r Resource[T]) fail(msg string) Resource[T] {
	r.Status = StatusErrored
	r.Err = msg
	return r
}
