// Package adapter projects remote read handles into async states. Every
// projection is a pure function of the handle snapshots and options; callers
// that count or log the resulting states do so themselves.
package adapter

import (
	"errors"
	"fmt"

	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"

	"parish.org/internal/auth"
	"parish.org/internal/repo"
	"parish.org/internal/state"
)

// Navigator holds the view-level recovery closures attached to failure
// states. Any of them may be nil.
type Navigator struct {
	Login    func()
	GoBack   func()
	GoToList func()
	Create   func()
}

type options struct {
	resourceType string
	resourceID   string
	localData    bool
	nav          Navigator
	loadingMsg   string
}

// Option tunes a projection.
type Option func(*options)

// WithResource names the resource a read targets, used for not-found states.
func WithResource(resourceType, resourceID string) Option {
	return func(o *options) {
		o.resourceType = resourceType
		o.resourceID = resourceID
	}
}

// WithLocalData keeps showing stale data while a handle reloads instead of
// falling back to Loading.
func WithLocalData() Option {
	return func(o *options) { o.localData = true }
}

// WithNavigator attaches navigation closures to failure states.
func WithNavigator(nav Navigator) Option {
	return func(o *options) { o.nav = nav }
}

// WithLoadingMessage sets the message carried by Loading states.
func WithLoadingMessage(msg string) Option {
	return func(o *options) { o.loadingMsg = msg }
}

func collect(opts []Option) options {
	var o options
	for _, opt := range opts {
		if opt != nil {
			opt(&o)
		}
	}
	return o
}

// Identity wraps data in a success state with no actions.
func Identity[T any]() func(T) state.Success[T] {
	return func(data T) state.Success[T] { return state.NewSuccess(data, nil) }
}

// FromHandle projects a single read. onSuccess builds the success state from
// resolved data and is only called once data is available.
func FromHandle[T, S any](h Handle[T], onSuccess func(T) state.Success[S], opts ...Option) state.State {
	o := collect(opts)
	snap := h.Snapshot()
	if st, ok := unresolved(snap, h.Refetch, o); ok {
		return st
	}
	return onSuccess(snap.Data)
}

// Combine2 projects two independent reads. The first unresolved handle in
// argument order decides the state.
func Combine2[A, B, S any](ha Handle[A], hb Handle[B], onSuccess func(A, B) state.Success[S], opts ...Option) state.State {
	o := collect(opts)
	sa, sb := ha.Snapshot(), hb.Snapshot()
	if st, ok := unresolved(sa, ha.Refetch, o); ok {
		return st
	}
	if st, ok := unresolved(sb, hb.Refetch, o); ok {
		return st
	}
	return onSuccess(sa.Data, sb.Data)
}

// Combine3 is Combine2 for three reads.
func Combine3[A, B, C, S any](ha Handle[A], hb Handle[B], hc Handle[C], onSuccess func(A, B, C) state.Success[S], opts ...Option) state.State {
	o := collect(opts)
	sa, sb, sc := ha.Snapshot(), hb.Snapshot(), hc.Snapshot()
	if st, ok := unresolved(sa, ha.Refetch, o); ok {
		return st
	}
	if st, ok := unresolved(sb, hb.Refetch, o); ok {
		return st
	}
	if st, ok := unresolved(sc, hc.Refetch, o); ok {
		return st
	}
	return onSuccess(sa.Data, sb.Data, sc.Data)
}

// CombineAll projects any number of reads of the same type.
func CombineAll[T, S any](hs []Handle[T], onSuccess func([]T) state.Success[S], opts ...Option) state.State {
	o := collect(opts)
	data := make([]T, len(hs))
	for i, h := range hs {
		snap := h.Snapshot()
		if st, ok := unresolved(snap, h.Refetch, o); ok {
			return st
		}
		data[i] = snap.Data
	}
	return onSuccess(data)
}

// unresolved returns the non-success state for snap, or false when snap
// carries usable data.
func unresolved[T any](snap Snapshot[T], retry func(), o options) (state.State, bool) {
	switch snap.Status {
	case StatusSuccess:
		return nil, false
	case StatusError:
		return classify(snap.Err, retry, o), true
	default:
		if o.localData && snap.HasData {
			return nil, false
		}
		return state.NewLoading(o.loadingMsg), true
	}
}

// Classify maps err onto the failure state a view can act on. retry is
// attached to every produced state.
func Classify(err error, retry func(), opts ...Option) state.State {
	return classify(err, retry, collect(opts))
}

func classify(err error, retry func(), o options) state.State {
	if err == nil {
		return state.NewErrorText("unknown error", state.ErrorActions{Retry: retry})
	}

	var permErr *auth.PermissionError
	if errors.As(err, &permErr) {
		return state.NewUnauthorized(permErr.Error(), permErr.RequiredPermissions(), state.UnauthorizedActions{
			Login:  o.nav.Login,
			GoBack: o.nav.GoBack,
			Retry:  retry,
		})
	}

	code, hasCode := grpcCode(err)
	httpStatus := statusCode(err)

	switch {
	case errors.Is(err, auth.ErrUnauthenticated), httpStatus == 401, hasCode && code == codes.Unauthenticated:
		return state.NewUnauthenticated(message(err), state.UnauthenticatedActions{
			Login: o.nav.Login,
			Retry: retry,
		})
	case errors.Is(err, repo.ErrNotFound), httpStatus == 404, hasCode && code == codes.NotFound:
		return state.NewNotFound(notFoundMessage(o), o.resourceType, o.resourceID, state.NotFoundActions{
			GoBack:   o.nav.GoBack,
			GoToList: o.nav.GoToList,
			Create:   o.nav.Create,
			Retry:    retry,
		})
	default:
		return state.NewError(err, state.ErrorActions{Retry: retry})
	}
}

func statusCode(err error) int {
	var sc interface{ StatusCode() int }
	if errors.As(err, &sc) {
		return sc.StatusCode()
	}
	return 0
}

func grpcCode(err error) (codes.Code, bool) {
	st, ok := status.FromError(err)
	if !ok {
		return codes.Unknown, false
	}
	return st.Code(), true
}

func message(err error) string {
	if st, ok := status.FromError(err); ok {
		return st.Message()
	}
	return err.Error()
}

func notFoundMessage(o options) string {
	switch {
	case o.resourceType == "":
		return "resource not found"
	case o.resourceID == "":
		return fmt.Sprintf("%s not found", o.resourceType)
	default:
		return fmt.Sprintf("%s %q not found", o.resourceType, o.resourceID)
	}
}
