package remote

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"parish.org/internal/auth"
	"parish.org/internal/query"
	"parish.org/internal/repo"
)

type member struct {
	ID   string `json:"id"`
	Name string `json:"name"`
}

func newTestRepo(t *testing.T, h http.HandlerFunc) *Repository[member] {
	t.Helper()
	srv := httptest.NewServer(h)
	t.Cleanup(srv.Close)
	c, err := NewClient(srv.URL+"/api/", WithRateLimit(1000, 10))
	if err != nil {
		t.Fatalf("NewClient: %v", err)
	}
	return NewRepository[member](c, "members")
}

func TestFindAllSendsCompiledQuery(t *testing.T) {
	var gotPath, gotQuery, gotAuth string
	r := newTestRepo(t, func(w http.ResponseWriter, req *http.Request) {
		gotPath = req.URL.Path
		gotQuery = req.URL.RawQuery
		gotAuth = req.Header.Get("Authorization")
		_ = json.NewEncoder(w).Encode(repo.Page[member]{
			Results: []member{{ID: "m1", Name: "Alice"}},
			Total:   11,
		})
	})

	ctx := auth.ContextWithToken(context.Background(), "tok-1")
	page, err := r.FindAll(ctx, query.New().Where("name", "Alice").OrderByDesc("createdAt").Paginate(2, 10).Build())
	if err != nil {
		t.Fatalf("FindAll: %v", err)
	}
	if gotPath != "/api/members" {
		t.Fatalf("unexpected path %q", gotPath)
	}
	if gotQuery != "name%3Aeq=Alice&orderByDesc=createdAt&rangeEnd=19&rangeStart=10" {
		t.Fatalf("unexpected query %q", gotQuery)
	}
	if gotAuth != "Bearer tok-1" {
		t.Fatalf("unexpected authorization header %q", gotAuth)
	}
	if page.Total != 11 || len(page.Results) != 1 || page.Results[0].Name != "Alice" {
		t.Fatalf("unexpected page: %+v", page)
	}
}

func TestCreateUpdateDelete(t *testing.T) {
	var calls []string
	r := newTestRepo(t, func(w http.ResponseWriter, req *http.Request) {
		calls = append(calls, req.Method+" "+req.URL.Path)
		switch req.Method {
		case http.MethodPost, http.MethodPut:
			var in member
			if err := json.NewDecoder(req.Body).Decode(&in); err != nil {
				t.Errorf("decode body: %v", err)
			}
			if in.ID == "" {
				in.ID = "m-new"
			}
			_ = json.NewEncoder(w).Encode(in)
		case http.MethodDelete:
			w.WriteHeader(http.StatusNoContent)
		}
	})
	ctx := context.Background()

	created, err := r.Create(ctx, member{Name: "Bob"})
	if err != nil || created.ID != "m-new" {
		t.Fatalf("Create: %+v %v", created, err)
	}
	if _, err := r.Update(ctx, "m-new", member{ID: "m-new", Name: "Robert"}); err != nil {
		t.Fatalf("Update: %v", err)
	}
	if err := r.DeleteByID(ctx, "m-new"); err != nil {
		t.Fatalf("DeleteByID: %v", err)
	}
	if err := r.Delete(ctx, query.New().WhereNull("fellowshipId").Build()); err != nil {
		t.Fatalf("Delete: %v", err)
	}
	want := []string{"POST /api/members", "PUT /api/members/m-new", "DELETE /api/members/m-new", "DELETE /api/members"}
	if len(calls) != len(want) {
		t.Fatalf("unexpected calls: %v", calls)
	}
	for i := range want {
		if calls[i] != want[i] {
			t.Fatalf("call %d = %q, want %q", i, calls[i], want[i])
		}
	}
}

func TestErrorMapping(t *testing.T) {
	cases := []struct {
		name   string
		status int
		body   string
		check  func(error) bool
	}{
		{"not found", http.StatusNotFound, `{"message":"no such member"}`, func(err error) bool { return errors.Is(err, repo.ErrNotFound) }},
		{"unauthenticated", http.StatusUnauthorized, `{"message":"expired"}`, func(err error) bool { return errors.Is(err, auth.ErrUnauthenticated) }},
		{"conflict", http.StatusConflict, `duplicate`, func(err error) bool { return errors.Is(err, repo.ErrConflict) }},
		{"permission", http.StatusForbidden, `{"requiredPermissions":["member.findById"]}`, func(err error) bool {
			var permErr *auth.PermissionError
			return errors.As(err, &permErr) && permErr.Required[0] == "member.findById"
		}},
		{"forbidden without tokens", http.StatusForbidden, `{"message":"nope"}`, func(err error) bool {
			var statusErr *StatusError
			return errors.As(err, &statusErr) && statusErr.StatusCode() == http.StatusForbidden && !errors.Is(err, auth.ErrPermissionDenied)
		}},
		{"server error", http.StatusInternalServerError, ``, func(err error) bool {
			var statusErr *StatusError
			return errors.As(err, &statusErr) && statusErr.Error() == "remote: 500 Internal Server Error"
		}},
	}
	for _, tc := range cases {
		r := newTestRepo(t, func(w http.ResponseWriter, _ *http.Request) {
			w.WriteHeader(tc.status)
			_, _ = w.Write([]byte(tc.body))
		})
		_, err := r.FindByID(context.Background(), "m-1", nil)
		if err == nil || !tc.check(err) {
			t.Fatalf("%s: unexpected error %v", tc.name, err)
		}
	}
}

func TestNewClientValidation(t *testing.T) {
	if _, err := NewClient(""); err == nil {
		t.Fatalf("expected error for empty base url")
	}
	if _, err := NewClient("ftp://example.org"); err == nil {
		t.Fatalf("expected error for unsupported scheme")
	}
}
