package auth

import "strings"

// DefaultAdminRole is the role name that grants every permission.
const DefaultAdminRole = "admin"

// Session exposes the current actor as seen by the session store.
type Session interface {
	UserID() string
	RoleName() string
	AllowedActions() []string
}

// Principal is an immutable session snapshot.
type Principal struct {
	id      string
	role    string
	actions []string
}

// NewPrincipal constructs a principal with the given allowed-action tokens.
func NewPrincipal(userID, role string, actions []string) Principal {
	return Principal{
		id:      strings.TrimSpace(userID),
		role:    strings.TrimSpace(role),
		actions: append([]string(nil), actions...),
	}
}

func (p Principal) UserID() string { return p.id }
func (p Principal) RoleName() string { return p.role }

func (p Principal) AllowedActions() []string { return append([]string(nil), p.actions...) }

// Anonymous is the session of an actor without any permission.
var Anonymous Session = Principal{}

// Guard answers permission questions for a session. It re-reads the
// session on every call, so a session that changes underneath it is
// observed immediately.
type Guard struct {
	session   Session
	adminRole string
}

// GuardOption configures a Guard.
type GuardOption func(*Guard)

// WithAdminRole overrides the distinguished admin role name.
func WithAdminRole(role string) GuardOption {
	return func(g *Guard) {
		if role = strings.TrimSpace(role); role != "" {
			g.adminRole = role
		}
	}
}

// NewGuard returns a guard over s. A nil session behaves like Anonymous.
func NewGuard(s Session, opts ...GuardOption) Guard {
	if s == nil {
		s = Anonymous
	}
	g := Guard{session: s, adminRole: DefaultAdminRole}
	for _, opt := range opts {
		opt(&g)
	}
	return g
}

// HasPermission reports whether token is in the allowed set.
func (g Guard) HasPermission(token string) bool {
	for _, allowed := range g.session.AllowedActions() {
		if allowed == token {
			return true
		}
	}
	return false
}

// HasResourcePermission reports whether any allowed token targets r.
func (g Guard) HasResourcePermission(r Resource) bool {
	prefix := string(r) + "."
	for _, allowed := range g.session.AllowedActions() {
		if strings.HasPrefix(allowed, prefix) {
			return true
		}
	}
	return false
}

// ResourcePermissions returns the allowed tokens that target r.
func (g Guard) ResourcePermissions(r Resource) []string {
	prefix := string(r) + "."
	var out []string
	for _, allowed := range g.session.AllowedActions() {
		if strings.HasPrefix(allowed, prefix) {
			out = append(out, allowed)
		}
	}
	return out
}

// AssertPermission returns a *PermissionError when token is not allowed.
func (g Guard) AssertPermission(token string) error {
	if g.HasPermission(token) {
		return nil
	}
	return NewPermissionError(token)
}

// Assert is AssertPermission for a resource/action pair.
func (g Guard) Assert(r Resource, a ActionType) error {
	return g.AssertPermission(Token(r, a))
}

// IsAdmin reports whether the actor holds the whole catalogue or carries
// the admin role.
func (g Guard) IsAdmin() bool {
	if len(g.session.AllowedActions()) == CatalogueSize() {
		return true
	}
	return strings.EqualFold(g.session.RoleName(), g.adminRole)
}
