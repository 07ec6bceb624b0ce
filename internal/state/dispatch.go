package state

// Cases maps each state kind to a handler producing R. Nil handlers fall
// back to Default; when Default is nil as well the state is ignored.
type Cases[T, R any] struct {
	Idle            func(Idle) R
	Loading         func(Loading) R
	Error           func(Error) R
	Unauthorized    func(Unauthorized) R
	Unauthenticated func(Unauthenticated) R
	NotFound        func(NotFound) R
	Success         func(Success[T]) R
	Default         func(State) R
}

// Match invokes exactly one handler for s and returns its result. Panics
// raised by handlers are not recovered.
func Match[T, R any](s State, c Cases[T, R]) R {
	var zero R
	switch v := s.(type) {
	case Idle:
		if c.Idle != nil {
			return c.Idle(v)
		}
	case Loading:
		if c.Loading != nil {
			return c.Loading(v)
		}
	case Error:
		if c.Error != nil {
			return c.Error(v)
		}
	case Unauthorized:
		if c.Unauthorized != nil {
			return c.Unauthorized(v)
		}
	case Unauthenticated:
		if c.Unauthenticated != nil {
			return c.Unauthenticated(v)
		}
	case NotFound:
		if c.NotFound != nil {
			return c.NotFound(v)
		}
	case Success[T]:
		if c.Success != nil {
			return c.Success(v)
		}
	default:
		// nil or a success of another data type.
		return zero
	}
	if c.Default != nil {
		return c.Default(s)
	}
	return zero
}

// Handlers is the result-free form of Cases.
type Handlers[T any] struct {
	Idle            func(Idle)
	Loading         func(Loading)
	Error           func(Error)
	Unauthorized    func(Unauthorized)
	Unauthenticated func(Unauthenticated)
	NotFound        func(NotFound)
	Success         func(Success[T])
	Default         func(State)
}

// Dispatch routes s to the matching handler in h.
func Dispatch[T any](s State, h Handlers[T]) {
	Match(s, Cases[T, struct{}]{
		Idle:            discard(h.Idle),
		Loading:         discard(h.Loading),
		Error:           discard(h.Error),
		Unauthorized:    discard(h.Unauthorized),
		Unauthenticated: discard(h.Unauthenticated),
		NotFound:        discard(h.NotFound),
		Success:         discard(h.Success),
		Default:         discard(h.Default),
	})
}

func discard[S any](fn func(S)) func(S) struct{} {
	if fn == nil {
		return nil
	}
	return func(s S) struct{} {
		fn(s)
		return struct{}{}
	}
}
