package membership

import (
	"context"
	"errors"

	"parish.org/internal/audit"
	"parish.org/internal/auth"
	"parish.org/internal/obs"
	"parish.org/internal/query"
	"parish.org/internal/repo"
)

// ErrUnfilteredDelete rejects a delete-by-query that carries no field
// filter and would remove the whole collection.
var ErrUnfilteredDelete = errors.New("membership: delete requires at least one filter")

// Manager fronts a repository with permission checks. Every method asserts
// the matching token for actor before the repository is touched and returns
// a denial unchanged.
type Manager[T any] struct {
	resource  auth.Resource
	repo      repo.Repository[T]
	adminRole string
}

// ManagerOption configures a Manager.
type ManagerOption func(*managerConfig)

type managerConfig struct {
	adminRole string
}

// WithAdminRole overrides the role name treated as administrator.
func WithAdminRole(role string) ManagerOption {
	return func(c *managerConfig) {
		if role != "" {
			c.adminRole = role
		}
	}
}

func NewManager[T any](resource auth.Resource, r repo.Repository[T], opts ...ManagerOption) *Manager[T] {
	cfg := managerConfig{adminRole: auth.DefaultAdminRole}
	for _, opt := range opts {
		opt(&cfg)
	}
	return &Manager[T]{resource: resource, repo: r, adminRole: cfg.adminRole}
}

// Resource reports the guarded resource.
func (m *Manager[T]) Resource() auth.Resource { return m.resource }

// Guard returns the guard evaluating actor for this manager.
func (m *Manager[T]) Guard(actor auth.Session) auth.Guard {
	return auth.NewGuard(actor, auth.WithAdminRole(m.adminRole))
}

func (m *Manager[T]) Create(ctx context.Context, actor auth.Session, item T) (T, error) {
	var zero T
	if err := m.authorize(actor, auth.ActionCreate); err != nil {
		return zero, err
	}
	out, err := m.repo.Create(ctx, item)
	if err := m.finish(auth.ActionCreate, err); err != nil {
		return zero, err
	}
	m.audit(ctx, actor, auth.ActionCreate, map[string]any{"id": entityID(out)})
	return out, nil
}

func (m *Manager[T]) Update(ctx context.Context, actor auth.Session, id string, item T) (T, error) {
	var zero T
	if err := m.authorize(actor, auth.ActionUpdate); err != nil {
		return zero, err
	}
	out, err := m.repo.Update(ctx, id, item)
	if err := m.finish(auth.ActionUpdate, err); err != nil {
		return zero, err
	}
	m.audit(ctx, actor, auth.ActionUpdate, map[string]any{"id": id})
	return out, nil
}

// Delete removes every record matching q. q must filter on at least one
// field; use DeleteByID for single records.
func (m *Manager[T]) Delete(ctx context.Context, actor auth.Session, q query.Input) error {
	if err := m.authorize(actor, auth.ActionDelete); err != nil {
		return err
	}
	params := query.Compile(q)
	if !params.HasFilters() {
		obs.ObserveManagerOp(string(m.resource), string(auth.ActionDelete), obs.OutcomeError)
		return ErrUnfilteredDelete
	}
	if err := m.finish(auth.ActionDelete, m.repo.Delete(ctx, params)); err != nil {
		return err
	}
	m.audit(ctx, actor, auth.ActionDelete, map[string]any{"query": params.Encode()})
	return nil
}

func (m *Manager[T]) DeleteByID(ctx context.Context, actor auth.Session, id string) error {
	if err := m.authorize(actor, auth.ActionDeleteByID); err != nil {
		return err
	}
	if err := m.finish(auth.ActionDeleteByID, m.repo.DeleteByID(ctx, id)); err != nil {
		return err
	}
	m.audit(ctx, actor, auth.ActionDeleteByID, map[string]any{"id": id})
	return nil
}

// FindAll accepts a builder or plain criteria; nil lists everything.
func (m *Manager[T]) FindAll(ctx context.Context, actor auth.Session, q query.Input) (repo.Page[T], error) {
	if err := m.authorize(actor, auth.ActionFindAll); err != nil {
		return repo.Page[T]{}, err
	}
	page, err := m.repo.FindAll(ctx, query.Compile(q))
	if err := m.finish(auth.ActionFindAll, err); err != nil {
		return repo.Page[T]{}, err
	}
	return page, nil
}

func (m *Manager[T]) FindByID(ctx context.Context, actor auth.Session, id string, q query.Input) (T, error) {
	var zero T
	if err := m.authorize(actor, auth.ActionFindByID); err != nil {
		return zero, err
	}
	out, err := m.repo.FindByID(ctx, id, query.Compile(q))
	if err := m.finish(auth.ActionFindByID, err); err != nil {
		return zero, err
	}
	return out, nil
}

func (m *Manager[T]) authorize(actor auth.Session, action auth.ActionType) error {
	if err := m.Guard(actor).Assert(m.resource, action); err != nil {
		obs.ObservePermissionDenied(auth.Token(m.resource, action))
		obs.ObserveManagerOp(string(m.resource), string(action), obs.OutcomeDenied)
		return err
	}
	return nil
}

// finish logs and counts a repository result. err is returned unchanged.
func (m *Manager[T]) finish(action auth.ActionType, err error) error {
	if err != nil {
		obs.Error("repository call failed", map[string]any{
			"resource": string(m.resource),
			"action":   string(action),
			"error":    err,
		})
		obs.ObserveManagerOp(string(m.resource), string(action), obs.OutcomeError)
		return err
	}
	obs.ObserveManagerOp(string(m.resource), string(action), obs.OutcomeOK)
	return nil
}

func (m *Manager[T]) audit(ctx context.Context, actor auth.Session, action auth.ActionType, fields map[string]any) {
	_ = audit.LogEvent(ctx, actor, auth.Token(m.resource, action), fields)
}

func entityID(v any) string {
	if e, ok := v.(repo.Entity); ok {
		return e.EntityID()
	}
	return ""
}
