package membership

import (
	"context"
	"errors"
	"reflect"
	"testing"
	"time"

	"parish.org/internal/auth"
	"parish.org/internal/ids"
	"parish.org/internal/query"
	"parish.org/internal/repo"
)

type stubRepo[T any] struct {
	createFn     func(context.Context, T) (T, error)
	updateFn     func(context.Context, string, T) (T, error)
	deleteFn     func(context.Context, query.Params) error
	deleteByIDFn func(context.Context, string) error
	findAllFn    func(context.Context, query.Params) (repo.Page[T], error)
	findByIDFn   func(context.Context, string, query.Params) (T, error)
	calls        int
}

func (s *stubRepo[T]) Create(ctx context.Context, item T) (T, error) {
	s.calls++
	if s.createFn != nil {
		return s.createFn(ctx, item)
	}
	return item, nil
}

func (s *stubRepo[T]) Update(ctx context.Context, id string, item T) (T, error) {
	s.calls++
	if s.updateFn != nil {
		return s.updateFn(ctx, id, item)
	}
	return item, nil
}

func (s *stubRepo[T]) Delete(ctx context.Context, params query.Params) error {
	s.calls++
	if s.deleteFn != nil {
		return s.deleteFn(ctx, params)
	}
	return nil
}

func (s *stubRepo[T]) DeleteByID(ctx context.Context, id string) error {
	s.calls++
	if s.deleteByIDFn != nil {
		return s.deleteByIDFn(ctx, id)
	}
	return nil
}

func (s *stubRepo[T]) FindAll(ctx context.Context, params query.Params) (repo.Page[T], error) {
	s.calls++
	if s.findAllFn != nil {
		return s.findAllFn(ctx, params)
	}
	return repo.Page[T]{}, nil
}

func (s *stubRepo[T]) FindByID(ctx context.Context, id string, params query.Params) (T, error) {
	s.calls++
	if s.findByIDFn != nil {
		return s.findByIDFn(ctx, id, params)
	}
	var zero T
	return zero, nil
}

func actorWith(tokens ...string) auth.Session {
	return auth.NewPrincipal("u-1", "clerk", tokens)
}

func TestManagerDeniesBeforeRepository(t *testing.T) {
	r := &stubRepo[Member]{}
	m := NewManager[Member](auth.ResourceMember, r)
	ctx := context.Background()
	actor := actorWith("member.findAll")

	calls := []struct {
		token string
		run   func() error
	}{
		{"member.create", func() error { _, err := m.Create(ctx, actor, Member{}); return err }},
		{"member.update", func() error { _, err := m.Update(ctx, actor, "m1", Member{}); return err }},
		{"member.delete", func() error { return m.Delete(ctx, actor, query.New()) }},
		{"member.deleteById", func() error { return m.DeleteByID(ctx, actor, "m1") }},
		{"member.findById", func() error { _, err := m.FindByID(ctx, actor, "m1", nil); return err }},
	}
	for _, c := range calls {
		err := c.run()
		var permErr *auth.PermissionError
		if !errors.As(err, &permErr) {
			t.Fatalf("%s: expected permission error, got %v", c.token, err)
		}
		if !reflect.DeepEqual(permErr.RequiredPermissions(), []string{c.token}) {
			t.Fatalf("%s: unexpected required permissions %v", c.token, permErr.RequiredPermissions())
		}
	}
	if r.calls != 0 {
		t.Fatalf("repository must not be called on denial, got %d calls", r.calls)
	}
}

func TestManagerCompilesBuilderAndCriteria(t *testing.T) {
	var got []query.Params
	r := &stubRepo[Member]{
		findAllFn: func(_ context.Context, p query.Params) (repo.Page[Member], error) {
			got = append(got, p)
			return repo.Page[Member]{Results: []Member{{ID: "m1"}}, Total: 1}, nil
		},
	}
	m := NewManager[Member](auth.ResourceMember, r)
	actor := actorWith("member.findAll")

	b := query.New().Where("lastName", "Smith").Paginate(1, 5)
	if _, err := m.FindAll(context.Background(), actor, b); err != nil {
		t.Fatalf("FindAll builder: %v", err)
	}
	if _, err := m.FindAll(context.Background(), actor, b.Criteria()); err != nil {
		t.Fatalf("FindAll criteria: %v", err)
	}
	if _, err := m.FindAll(context.Background(), actor, nil); err != nil {
		t.Fatalf("FindAll nil: %v", err)
	}
	if len(got) != 3 || !reflect.DeepEqual(got[0], got[1]) {
		t.Fatalf("builder and criteria should compile identically: %v", got)
	}
	if got[0]["lastName:eq"] != "Smith" || got[0][query.KeyRangeEnd] != 4 {
		t.Fatalf("unexpected params %v", got[0])
	}
	if len(got[2]) != 0 {
		t.Fatalf("nil query should compile to no params, got %v", got[2])
	}
}

func TestManagerReturnsRepositoryErrorUnchanged(t *testing.T) {
	boom := errors.New("backend down")
	r := &stubRepo[Envelope]{
		deleteByIDFn: func(context.Context, string) error { return boom },
	}
	m := NewManager[Envelope](auth.ResourceEnvelope, r)
	err := m.DeleteByID(context.Background(), actorWith("envelope.deleteById"), "e1")
	if err != boom {
		t.Fatalf("expected the repository error itself, got %v", err)
	}
}

func TestManagerAdminRole(t *testing.T) {
	r := &stubRepo[Role]{}
	m := NewManager[Role](auth.ResourceRole, r, WithAdminRole("pastor"))
	pastor := auth.NewPrincipal("u-2", "Pastor", nil)
	if _, err := m.Create(context.Background(), pastor, Role{Name: "choir"}); err == nil {
		t.Fatalf("admin role grants no tokens by itself")
	}
	if !m.Guard(pastor).IsAdmin() {
		t.Fatalf("expected configured admin role to be recognised")
	}
}

func TestManagerReadsActorOnEveryCall(t *testing.T) {
	m := NewManager[Volunteer](auth.ResourceVolunteer, &stubRepo[Volunteer]{})
	ctx := context.Background()
	if _, err := m.FindAll(ctx, auth.Anonymous, nil); !errors.Is(err, auth.ErrPermissionDenied) {
		t.Fatalf("anonymous actor should be denied, got %v", err)
	}
	if _, err := m.FindAll(ctx, actorWith("volunteer.findAll"), nil); err != nil {
		t.Fatalf("granted actor should pass, got %v", err)
	}
}

func TestManagersOverMemory(t *testing.T) {
	stores := NewMemoryStores()
	ms := NewManagers(stores.Repositories())
	ctx := context.Background()
	actor := actorWith(auth.Catalogue()...)

	f, err := ms.Fellowships.Create(ctx, actor, Fellowship{Name: "Choir"})
	if err != nil {
		t.Fatalf("create fellowship: %v", err)
	}
	for _, name := range []string{"Ann", "Ben", "Cal"} {
		mem := Member{FirstName: name, LastName: "Smith"}
		if name != "Cal" {
			mem.FellowshipID = &f.ID
		}
		if _, err := ms.Members.Create(ctx, actor, mem); err != nil {
			t.Fatalf("create member: %v", err)
		}
	}
	page, err := ms.Members.FindAll(ctx, actor, query.New().Where("fellowshipId", f.ID).OrderByDesc("firstName"))
	if err != nil {
		t.Fatalf("FindAll: %v", err)
	}
	if page.Total != 2 || page.Results[0].FirstName != "Ben" {
		t.Fatalf("unexpected page %+v", page)
	}
	if err := ms.Members.Delete(ctx, actor, query.New().WhereNull("fellowshipId")); err != nil {
		t.Fatalf("Delete: %v", err)
	}
	page, _ = ms.Members.FindAll(ctx, actor, nil)
	if page.Total != 2 {
		t.Fatalf("expected the unassigned member to be removed, total=%d", page.Total)
	}
	if !auth.NewGuard(actor).IsAdmin() {
		t.Fatalf("full catalogue should be admin")
	}
}

func TestManagerAcceptsCompiledParams(t *testing.T) {
	stores := NewMemoryStores()
	SeedDemo(stores)
	m := NewManager[Member](auth.ResourceMember, stores.Members)
	actor := actorWith("member.findAll")

	p := query.New().Where("lastName", "Smith").OrderByAsc("firstName").Build()
	page, err := m.FindAll(context.Background(), actor, p)
	if err != nil {
		t.Fatalf("FindAll params: %v", err)
	}
	if page.Total != 2 || page.Results[0].FirstName != "Alice" || page.Results[1].FirstName != "Carol" {
		t.Fatalf("unexpected page %+v", page)
	}
}

func TestManagerRejectsUnfilteredDelete(t *testing.T) {
	r := &stubRepo[Member]{}
	m := NewManager[Member](auth.ResourceMember, r)
	ctx := context.Background()
	actor := actorWith("member.delete")

	for _, q := range []query.Input{nil, query.New(), query.New().OrderByAsc("id").Paginate(1, 10), query.Params{}} {
		if err := m.Delete(ctx, actor, q); !errors.Is(err, ErrUnfilteredDelete) {
			t.Fatalf("Delete(%v): expected ErrUnfilteredDelete, got %v", q, err)
		}
	}
	if r.calls != 0 {
		t.Fatalf("repository must not be called for an unfiltered delete, got %d calls", r.calls)
	}
	if err := m.Delete(ctx, actor, query.New().Where("status", "inactive")); err != nil {
		t.Fatalf("filtered delete: %v", err)
	}
	if r.calls != 1 {
		t.Fatalf("expected one repository call, got %d", r.calls)
	}
}

func TestCreatedMemberTakesIDTime(t *testing.T) {
	stores := NewMemoryStores()
	m := NewManager[Member](auth.ResourceMember, stores.Members)
	created, err := m.Create(context.Background(), actorWith("member.create"), Member{FirstName: "Eve"})
	if err != nil {
		t.Fatalf("Create: %v", err)
	}
	at, ok := ids.Time(created.ID)
	if !ok || !created.CreatedAt.Equal(at) {
		t.Fatalf("createdAt=%v, want %v from id %s", created.CreatedAt, at, created.ID)
	}

	fixed := time.Date(2020, 1, 2, 0, 0, 0, 0, time.UTC)
	kept, err := m.Create(context.Background(), actorWith("member.create"), Member{FirstName: "Fay", CreatedAt: fixed})
	if err != nil || !kept.CreatedAt.Equal(fixed) {
		t.Fatalf("explicit createdAt must be kept, got %v %v", kept.CreatedAt, err)
	}
}
