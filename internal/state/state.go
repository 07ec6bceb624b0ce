package state

import (
	"context"
	"sort"
)

// Kind identifies the active variant of a State.
type Kind uint8

const (
	KindIdle Kind = iota
	KindLoading
	KindError
	KindUnauthorized
	KindUnauthenticated
	KindNotFound
	KindSuccess
)

var kindNames = [...]string{
	KindIdle:            "idle",
	KindLoading:         "loading",
	KindError:           "error",
	KindUnauthorized:    "unauthorized",
	KindUnauthenticated: "unauthenticated",
	KindNotFound:        "not_found",
	KindSuccess:         "success",
}

func (k Kind) String() string {
	if int(k) < len(kindNames) {
		return kindNames[k]
	}
	return "unknown"
}

// Kinds lists every variant in declaration order.
func Kinds() []Kind {
	return []Kind{KindIdle, KindLoading, KindError, KindUnauthorized, KindUnauthenticated, KindNotFound, KindSuccess}
}

// State is the closed set of async operation states. Only the variants in
// this package implement it.
type State interface {
	Kind() Kind
	sealed()
}

// Action is a closure attached to a success state by the caller.
type Action func(ctx context.Context) error

// Actions maps action names to closures.
type Actions map[string]Action

func (a Actions) clone() Actions {
	if len(a) == 0 {
		return nil
	}
	out := make(Actions, len(a))
	for k, v := range a {
		if v != nil {
			out[k] = v
		}
	}
	return out
}

// Idle means no operation has started.
type Idle struct {
	message string
}

func NewIdle(msg string) Idle { return Idle{message: msg} }
func (Idle) Kind() Kind { return KindIdle }
func (Idle) sealed() {}
func (s Idle) Message() string { return s.message }

// Loading means an operation is in flight.
type Loading struct {
	message string
}

func NewLoading(msg string) Loading { return Loading{message: msg} }
func (Loading) Kind() Kind { return KindLoading }
func (Loading) sealed() {}
func (s Loading) Message() string { return s.message }

// ErrorActions are the recovery paths of a generic failure.
type ErrorActions struct {
	Retry func()
}

// Error is a failure that is not an authorization, authentication or
// missing-resource condition.
type Error struct {
	err     error
	text    string
	actions ErrorActions
}

// NewError stores a structured error; Message reports err.Error().
func NewError(err error, actions ErrorActions) Error {
	return Error{err: err, actions: actions}
}

// NewErrorText stores a raw message without an underlying error value.
func NewErrorText(msg string, actions ErrorActions) Error {
	return Error{text: msg, actions: actions}
}

func (Error) Kind() Kind { return KindError }
func (Error) sealed() {}

// Err returns the stored error, nil when the state was built from text.
func (s Error) Err() error { return s.err }

func (s Error) Message() string {
	if s.err != nil {
		return s.err.Error()
	}
	return s.text
}

func (s Error) Actions() ErrorActions { return s.actions }

// UnauthorizedActions are the recovery paths of a permission denial.
type UnauthorizedActions struct {
	Login  func()
	GoBack func()
	Retry  func()
}

// Unauthorized means the actor is authenticated but lacks permission.
type Unauthorized struct {
	message  string
	required []string
	actions  UnauthorizedActions
}

func NewUnauthorized(msg string, required []string, actions UnauthorizedActions) Unauthorized {
	return Unauthorized{message: msg, required: copyStrings(required), actions: actions}
}

func (Unauthorized) Kind() Kind { return KindUnauthorized }
func (Unauthorized) sealed() {}
func (s Unauthorized) Message() string { return s.message }
func (s Unauthorized) RequiredPermissions() []string { return copyStrings(s.required) }
func (s Unauthorized) Actions() UnauthorizedActions { return s.actions }

// UnauthenticatedActions are the recovery paths of a missing session.
type UnauthenticatedActions struct {
	Login func()
	Retry func()
}

// Unauthenticated means there is no valid session.
type Unauthenticated struct {
	message string
	actions UnauthenticatedActions
}

func NewUnauthenticated(msg string, actions UnauthenticatedActions) Unauthenticated {
	return Unauthenticated{message: msg, actions: actions}
}

func (Unauthenticated) Kind() Kind { return KindUnauthenticated }
func (Unauthenticated) sealed() {}
func (s Unauthenticated) Message() string { return s.message }
func (s Unauthenticated) Actions() UnauthenticatedActions { return s.actions }

// NotFoundActions are the recovery paths of a missing resource.
type NotFoundActions struct {
	GoBack   func()
	GoToList func()
	Create   func()
	Retry    func()
}

// NotFound means the target resource is absent.
type NotFound struct {
	message      string
	resourceType string
	resourceID   string
	actions      NotFoundActions
}

func NewNotFound(msg, resourceType, resourceID string, actions NotFoundActions) NotFound {
	return NotFound{message: msg, resourceType: resourceType, resourceID: resourceID, actions: actions}
}

func (NotFound) Kind() Kind { return KindNotFound }
func (NotFound) sealed() {}
func (s NotFound) Message() string { return s.message }
func (s NotFound) ResourceType() string { return s.resourceType }
func (s NotFound) ResourceID() string { return s.resourceID }
func (s NotFound) Actions() NotFoundActions { return s.actions }

// Success carries resolved data and the caller's action closures. Both are
// fixed for the lifetime of the value.
type Success[T any] struct {
	data    T
	actions Actions
}

func NewSuccess[T any](data T, actions Actions) Success[T] {
	return Success[T]{data: data, actions: actions.clone()}
}

func (Success[T]) Kind() Kind { return KindSuccess }
func (Success[T]) sealed() {}
func (s Success[T]) Data() T { return s.data }

// Action looks up a named action.
func (s Success[T]) Action(name string) (Action, bool) {
	a, ok := s.actions[name]
	return a, ok
}

// Run invokes a named action; unknown names are a no-op.
func (s Success[T]) Run(ctx context.Context, name string) error {
	a, ok := s.actions[name]
	if !ok {
		return nil
	}
	return a(ctx)
}

// ActionNames returns the attached action names in sorted order.
func (s Success[T]) ActionNames() []string {
	names := make([]string, 0, len(s.actions))
	for k := range s.actions {
		names = append(names, k)
	}
	sort.Strings(names)
	return names
}

func IsIdle(s State) bool { return s != nil && s.Kind() == KindIdle }
func IsLoading(s State) bool { return s != nil && s.Kind() == KindLoading }
func IsError(s State) bool { return s != nil && s.Kind() == KindError }
func IsUnauthorized(s State) bool { return s != nil && s.Kind() == KindUnauthorized }
func IsUnauthenticated(s State) bool { return s != nil && s.Kind() == KindUnauthenticated }
func IsNotFound(s State) bool { return s != nil && s.Kind() == KindNotFound }
func IsSuccess(s State) bool { return s != nil && s.Kind() == KindSuccess }

// AsSuccess narrows s to a success carrying T.
func AsSuccess[T any](s State) (Success[T], bool) {
	if !IsSuccess(s) {
		return Success[T]{}, false
	}
	v, ok := s.(Success[T])
	return v, ok
}

func copyStrings(in []string) []string {
	if len(in) == 0 {
		return nil
	}
	out := make([]string, len(in))
	copy(out, in)
	return out
}
