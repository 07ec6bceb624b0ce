package membership

import (
	"parish.org/internal/auth"
	"parish.org/internal/repo"
	"parish.org/internal/repo/memory"
	"parish.org/internal/repo/remote"
)

// REST collection names per resource.
const (
	CollectionMembers     = "members"
	CollectionFellowships = "fellowships"
	CollectionEnvelopes   = "envelopes"
	CollectionRoles       = "roles"
	CollectionUsers       = "users"
	CollectionVolunteers  = "volunteers"
)

// Repositories is the storage behind every manager.
type Repositories struct {
	Members     repo.Repository[Member]
	Fellowships repo.Repository[Fellowship]
	Envelopes   repo.Repository[Envelope]
	Roles       repo.Repository[Role]
	Users       repo.Repository[User]
	Volunteers  repo.Repository[Volunteer]
}

// MemoryStores are in-process repositories, kept typed so callers can seed
// them.
type MemoryStores struct {
	Members     *memory.Store[Member]
	Fellowships *memory.Store[Fellowship]
	Envelopes   *memory.Store[Envelope]
	Roles       *memory.Store[Role]
	Users       *memory.Store[User]
	Volunteers  *memory.Store[Volunteer]
}

func NewMemoryStores() MemoryStores {
	return MemoryStores{
		Members:     memory.New(Member.WithID),
		Fellowships: memory.New(Fellowship.WithID),
		Envelopes:   memory.New(Envelope.WithID),
		Roles:       memory.New(Role.WithID),
		Users:       memory.New(User.WithID),
		Volunteers:  memory.New(Volunteer.WithID),
	}
}

// Repositories exposes the stores through the repository contract.
func (s MemoryStores) Repositories() Repositories {
	return Repositories{
		Members:     s.Members,
		Fellowships: s.Fellowships,
		Envelopes:   s.Envelopes,
		Roles:       s.Roles,
		Users:       s.Users,
		Volunteers:  s.Volunteers,
	}
}

// RemoteRepositories binds every resource to its REST collection on c.
func RemoteRepositories(c *remote.Client) Repositories {
	return Repositories{
		Members:     remote.NewRepository[Member](c, CollectionMembers),
		Fellowships: remote.NewRepository[Fellowship](c, CollectionFellowships),
		Envelopes:   remote.NewRepository[Envelope](c, CollectionEnvelopes),
		Roles:       remote.NewRepository[Role](c, CollectionRoles),
		Users:       remote.NewRepository[User](c, CollectionUsers),
		Volunteers:  remote.NewRepository[Volunteer](c, CollectionVolunteers),
	}
}

// Managers holds one manager per resource. Build it once and pass it down.
type Managers struct {
	Members     *Manager[Member]
	Fellowships *Manager[Fellowship]
	Envelopes   *Manager[Envelope]
	Roles       *Manager[Role]
	Users       *Manager[User]
	Volunteers  *Manager[Volunteer]
}

func NewManagers(r Repositories, opts ...ManagerOption) Managers {
	return Managers{
		Members:     NewManager(auth.ResourceMember, r.Members, opts...),
		Fellowships: NewManager(auth.ResourceFellowship, r.Fellowships, opts...),
		Envelopes:   NewManager(auth.ResourceEnvelope, r.Envelopes, opts...),
		Roles:       NewManager(auth.ResourceRole, r.Roles, opts...),
		Users:       NewManager(auth.ResourceUser, r.Users, opts...),
		Volunteers:  NewManager(auth.ResourceVolunteer, r.Volunteers, opts...),
	}
}
