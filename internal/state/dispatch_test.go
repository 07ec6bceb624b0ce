package state

import (
	"errors"
	"testing"
)

func renderCases() Cases[[]string, string] {
	return Cases[[]string, string]{
		Idle:            func(Idle) string { return "idle" },
		Loading:         func(s Loading) string { return "loading:" + s.Message() },
		Error:           func(s Error) string { return "error:" + s.Message() },
		Unauthorized:    func(s Unauthorized) string { return "unauthorized:" + s.RequiredPermissions()[0] },
		Unauthenticated: func(Unauthenticated) string { return "login" },
		NotFound:        func(s NotFound) string { return "missing:" + s.ResourceType() + "/" + s.ResourceID() },
		Success:         func(s Success[[]string]) string { return "rows:" + s.Data()[0] },
	}
}

func TestMatchInvokesOnlyMatchingHandler(t *testing.T) {
	cases := map[string]State{
		"idle":                       NewIdle(""),
		"loading:members":            NewLoading("members"),
		"error:boom":                 NewError(errors.New("boom"), ErrorActions{}),
		"unauthorized:member.update": NewUnauthorized("", []string{"member.update"}, UnauthorizedActions{}),
		"login":                      NewUnauthenticated("", UnauthenticatedActions{}),
		"missing:member/m-9":         NewNotFound("", "member", "m-9", NotFoundActions{}),
		"rows:alice":                 NewSuccess([]string{"alice"}, nil),
	}
	for want, s := range cases {
		if got := Match(s, renderCases()); got != want {
			t.Fatalf("Match(%s)=%q, want %q", s.Kind(), got, want)
		}
	}
}

func TestMatchDefaultAndNoop(t *testing.T) {
	c := Cases[int, string]{
		Success: func(Success[int]) string { return "ok" },
		Default: func(s State) string { return "default:" + s.Kind().String() },
	}
	if got := Match(NewIdle(""), c); got != "default:idle" {
		t.Fatalf("expected default handler, got %q", got)
	}
	if got := Match(NewSuccess("wrong type", nil), c); got != "" {
		t.Fatalf("success of another type should be unmatched, got %q", got)
	}
	if got := Match(nil, c); got != "" {
		t.Fatalf("nil state should be unmatched, got %q", got)
	}
	if got := Match(NewLoading(""), Cases[int, string]{}); got != "" {
		t.Fatalf("empty cases should be a no-op, got %q", got)
	}
}

func TestDispatchPropagatesPanics(t *testing.T) {
	defer func() {
		if r := recover(); r != "render failed" {
			t.Fatalf("expected handler panic to propagate, got %v", r)
		}
	}()
	Dispatch(NewLoading(""), Handlers[int]{
		Loading: func(Loading) { panic("render failed") },
	})
	t.Fatalf("dispatch swallowed the panic")
}

func TestDispatchCallsExactlyOnce(t *testing.T) {
	var calls []string
	h := Handlers[int]{
		Error:   func(Error) { calls = append(calls, "error") },
		Success: func(Success[int]) { calls = append(calls, "success") },
		Default: func(State) { calls = append(calls, "default") },
	}
	Dispatch(NewSuccess(1, nil), h)
	Dispatch(NewNotFound("", "envelope", "", NotFoundActions{}), h)
	if len(calls) != 2 || calls[0] != "success" || calls[1] != "default" {
		t.Fatalf("unexpected calls: %v", calls)
	}
}
