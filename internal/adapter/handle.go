package adapter

// Status is the coarse phase of a remote read.
type Status uint8

const (
	StatusLoading Status = iota
	StatusError
	StatusSuccess
)

func (s Status) String() string {
	switch s {
	case StatusLoading:
		return "loading"
	case StatusError:
		return "error"
	case StatusSuccess:
		return "success"
	default:
		return "unknown"
	}
}

// Snapshot is a point-in-time view of a read handle. HasData reports whether
// Data holds a resolved value, which stays true while a refetch is running.
type Snapshot[T any] struct {
	Status     Status
	Data       T
	HasData    bool
	Err        error
	Refetching bool
}

// Handle is a remote read the adapter can project into a state.
type Handle[T any] interface {
	Snapshot() Snapshot[T]
	Refetch()
}

// Static is a Handle with a fixed snapshot. Refetch calls OnRefetch when set.
type Static[T any] struct {
	Snap      Snapshot[T]
	OnRefetch func()
}

func (s Static[T]) Snapshot() Snapshot[T] { return s.Snap }

func (s Static[T]) Refetch() {
	if s.OnRefetch != nil {
		s.OnRefetch()
	}
}

// Ready returns a resolved snapshot.
func Ready[T any](data T) Snapshot[T] {
	return Snapshot[T]{Status: StatusSuccess, Data: data, HasData: true}
}

// Failed returns an error snapshot without data.
func Failed[T any](err error) Snapshot[T] {
	return Snapshot[T]{Status: StatusError, Err: err}
}

// Pending returns a loading snapshot without data.
func Pending[T any]() Snapshot[T] {
	return Snapshot[T]{Status: StatusLoading}
}
