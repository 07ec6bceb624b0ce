package memory

import (
	"context"
	"errors"
	"testing"

	"parish.org/internal/query"
	"parish.org/internal/repo"
)

type person struct {
	ID      string  `json:"id"`
	Name    string  `json:"name"`
	Age     int     `json:"age"`
	City    *string `json:"city,omitempty"`
	Profile struct {
		Group string `json:"group"`
	} `json:"profile"`
}

func (p person) EntityID() string { return p.ID }

func withID(p person, id string) person {
	p.ID = id
	return p
}

func city(s string) *string { return &s }

func seeded() *Store[person] {
	s := New(withID)
	alice := person{ID: "1", Name: "Alice", Age: 34, City: city("Springfield")}
	alice.Profile.Group = "choir"
	bob := person{ID: "2", Name: "Bob", Age: 17}
	carol := person{ID: "3", Name: "carol", Age: 52, City: city("Shelbyville")}
	carol.Profile.Group = "choir"
	dave := person{ID: "4", Name: "Dave", Age: 34, City: city("Springfield")}
	s.Seed(alice, bob, carol, dave)
	return s
}

func names(items []person) []string {
	out := make([]string, len(items))
	for i, p := range items {
		out[i] = p.Name
	}
	return out
}

func equal(a, b []string) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}

func TestFindAllInterpretsWireFormat(t *testing.T) {
	s := seeded()
	ctx := context.Background()

	cases := []struct {
		name string
		q    query.Builder
		want []string
	}{
		{"eq", query.New().Where("name", "Alice"), []string{"Alice"}},
		{"numeric gte", query.New().WhereGte("age", 34).OrderByAsc("name"), []string{"Alice", "Dave", "carol"}},
		{"contains folds case", query.New().WhereContains("name", "CAR"), []string{"carol"}},
		{"like is case sensitive", query.New().WhereLike("name", "c%"), []string{"carol"}},
		{"in", query.New().WhereIn("id", []string{"2", "4"}), []string{"Bob", "Dave"}},
		{"null", query.New().WhereNull("city"), []string{"Bob"}},
		{"not null", query.New().WhereNotNull("city").WhereNot("name", "Dave"), []string{"Alice", "carol"}},
		{"nested path", query.New().Where("profile.group", "choir"), []string{"Alice", "carol"}},
		{"order asc then desc", query.New().OrderByAsc("age").OrderByDesc("name"), []string{"Bob", "Dave", "Alice", "carol"}},
	}
	for _, tc := range cases {
		page, err := s.FindAll(ctx, tc.q.Build())
		if err != nil {
			t.Fatalf("%s: FindAll: %v", tc.name, err)
		}
		if got := names(page.Results); !equal(got, tc.want) {
			t.Fatalf("%s: got %v, want %v", tc.name, got, tc.want)
		}
	}
}

func TestFindAllRange(t *testing.T) {
	s := seeded()
	page, err := s.FindAll(context.Background(), query.New().OrderByAsc("id").Paginate(2, 3).Build())
	if err != nil {
		t.Fatalf("FindAll: %v", err)
	}
	if page.Total != 4 || !equal(names(page.Results), []string{"Dave"}) {
		t.Fatalf("unexpected page: %+v", page)
	}
	page, _ = s.FindAll(context.Background(), query.New().Paginate(5, 3).Build())
	if page.Total != 4 || len(page.Results) != 0 {
		t.Fatalf("out-of-range page should be empty: %+v", page)
	}
}

func TestFindAllAcceptsParsedValues(t *testing.T) {
	s := seeded()
	params := query.ParseValues(query.New().WhereGt("age", 20).Paginate(1, 2).OrderByDesc("age").Build().Values())
	page, err := s.FindAll(context.Background(), params)
	if err != nil {
		t.Fatalf("FindAll: %v", err)
	}
	if page.Total != 3 || len(page.Results) != 2 || page.Results[0].Name != "carol" {
		t.Fatalf("unexpected page: %+v", page)
	}
}

func TestCRUD(t *testing.T) {
	s := New(withID)
	ctx := context.Background()

	created, err := s.Create(ctx, person{Name: "Eve"})
	if err != nil {
		t.Fatalf("Create: %v", err)
	}
	if created.ID == "" {
		t.Fatalf("expected generated id")
	}
	if _, err := s.Create(ctx, created); !errors.Is(err, repo.ErrConflict) {
		t.Fatalf("expected conflict, got %v", err)
	}

	created.Age = 40
	if _, err := s.Update(ctx, created.ID, created); err != nil {
		t.Fatalf("Update: %v", err)
	}
	got, err := s.FindByID(ctx, created.ID, nil)
	if err != nil || got.Age != 40 {
		t.Fatalf("FindByID: %+v %v", got, err)
	}
	if _, err := s.Update(ctx, "missing", created); !errors.Is(err, repo.ErrNotFound) {
		t.Fatalf("expected not found on update, got %v", err)
	}

	if err := s.DeleteByID(ctx, created.ID); err != nil {
		t.Fatalf("DeleteByID: %v", err)
	}
	if _, err := s.FindByID(ctx, created.ID, nil); !errors.Is(err, repo.ErrNotFound) {
		t.Fatalf("expected not found after delete, got %v", err)
	}
	if err := s.DeleteByID(ctx, created.ID); !errors.Is(err, repo.ErrNotFound) {
		t.Fatalf("expected not found on second delete, got %v", err)
	}
}

func TestDeleteByCriteria(t *testing.T) {
	s := seeded()
	ctx := context.Background()
	if err := s.Delete(ctx, query.New().Where("city", "Springfield").Build()); err != nil {
		t.Fatalf("Delete: %v", err)
	}
	page, _ := s.FindAll(ctx, query.New().OrderByAsc("id").Build())
	if !equal(names(page.Results), []string{"Bob", "carol"}) {
		t.Fatalf("unexpected survivors: %v", names(page.Results))
	}
}

func TestCanceledContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	if _, err := seeded().FindAll(ctx, nil); !errors.Is(err, context.Canceled) {
		t.Fatalf("expected context error, got %v", err)
	}
}
