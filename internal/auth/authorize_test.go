package auth

import (
	"errors"
	"slices"
	"testing"
)

// mutableSession mimics a session store whose contents change between calls.
type mutableSession struct {
	id      string
	role    string
	actions []string
}

func (s *mutableSession) UserID() string { return s.id }
func (s *mutableSession) RoleName() string { return s.role }
func (s *mutableSession) AllowedActions() []string { return s.actions }

func TestGuardPermissions(t *testing.T) {
	p := NewPrincipal("u1", "clerk", []string{"member.findAll", "member.findById", "envelope.create"})
	g := NewGuard(p)

	if !g.HasPermission("member.findAll") {
		t.Fatalf("expected permission")
	}
	if g.HasPermission("member.delete") {
		t.Fatalf("unexpected permission")
	}
	if !g.HasResourcePermission(ResourceEnvelope) || g.HasResourcePermission(ResourceRole) {
		t.Fatalf("unexpected resource permission result")
	}
	got := g.ResourcePermissions(ResourceMember)
	if !slices.Equal(got, []string{"member.findAll", "member.findById"}) {
		t.Fatalf("unexpected resource permissions: %v", got)
	}
}

func TestResourcePrefixRequiresDot(t *testing.T) {
	g := NewGuard(NewPrincipal("u1", "", []string{"membership.findAll"}))
	if g.HasResourcePermission(ResourceMember) {
		t.Fatalf("prefix match must include the dot")
	}
}

func TestGuardReadsSessionEveryCall(t *testing.T) {
	s := &mutableSession{id: "u1"}
	g := NewGuard(s)
	if g.HasPermission("role.update") {
		t.Fatalf("unexpected permission before session change")
	}
	s.actions = []string{"role.update"}
	if !g.HasPermission("role.update") {
		t.Fatalf("session change not observed")
	}
	s.actions = nil
	if err := g.AssertPermission("role.update"); err == nil {
		t.Fatalf("revocation not observed")
	}
}

func TestAssertPermissionError(t *testing.T) {
	g := NewGuard(NewPrincipal("u1", "clerk", nil))
	for _, token := range Catalogue() {
		err := g.AssertPermission(token)
		var permErr *PermissionError
		if !errors.As(err, &permErr) {
			t.Fatalf("%s: expected PermissionError, got %v", token, err)
		}
		if !slices.Equal(permErr.RequiredPermissions(), []string{token}) {
			t.Fatalf("%s: required=%v", token, permErr.Required)
		}
		if !errors.Is(err, ErrPermissionDenied) {
			t.Fatalf("%s: expected ErrPermissionDenied", token)
		}
	}

	err := g.Assert(ResourceMember, ActionDeleteByID)
	if err.Error() != "You don't have permission to delete by id member" {
		t.Fatalf("unexpected message: %q", err.Error())
	}
	if NewGuard(NewPrincipal("u1", "", []string{"member.update"})).Assert(ResourceMember, ActionUpdate) != nil {
		t.Fatalf("allowed token rejected")
	}
}

func TestVerb(t *testing.T) {
	cases := map[ActionType]string{
		ActionDeleteByID: "delete by id",
		ActionFindAll:    "find all",
		ActionFindByID:   "find by id",
		ActionCreate:     "create",
		"exportCSV":      "export csv",
	}
	for in, want := range cases {
		if got := Verb(in); got != want {
			t.Fatalf("Verb(%q)=%q, want %q", in, got, want)
		}
	}
}

func TestIsAdmin(t *testing.T) {
	full := NewGuard(NewPrincipal("u1", "clerk", Catalogue()))
	if !full.IsAdmin() {
		t.Fatalf("full catalogue should be admin regardless of role")
	}
	byRole := NewGuard(NewPrincipal("u2", "Admin", nil))
	if !byRole.IsAdmin() {
		t.Fatalf("admin role should be admin regardless of count")
	}
	custom := NewGuard(NewPrincipal("u3", "pastor", nil), WithAdminRole("pastor"))
	if !custom.IsAdmin() {
		t.Fatalf("custom admin role not honoured")
	}
	partial := NewGuard(NewPrincipal("u4", "clerk", Catalogue()[1:]))
	if partial.IsAdmin() {
		t.Fatalf("partial catalogue without admin role should not be admin")
	}
}

func TestNilSessionIsAnonymous(t *testing.T) {
	g := NewGuard(nil)
	if g.HasPermission("member.findAll") || g.IsAdmin() {
		t.Fatalf("anonymous session has permissions")
	}
}

func TestCatalogue(t *testing.T) {
	cat := Catalogue()
	if len(cat) != CatalogueSize() || len(cat) != 36 {
		t.Fatalf("unexpected catalogue size %d", len(cat))
	}
	if cat[0] != "member.create" || !InCatalogue("volunteer.findById") || InCatalogue("member.archive") {
		t.Fatalf("unexpected catalogue contents: %v", cat)
	}
	if _, _, ok := SplitToken("member"); ok {
		t.Fatalf("token without action should not split")
	}
}
