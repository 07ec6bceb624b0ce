package membership

import (
	"context"
	"sync"

	"parish.org/internal/adapter"
	"parish.org/internal/auth"
	"parish.org/internal/fetch"
	"parish.org/internal/obs"
	"parish.org/internal/query"
	"parish.org/internal/state"
)

// Action names attached to list and detail success states.
const (
	ActionRefresh      = "refresh"
	ActionNextPage     = "nextPage"
	ActionPreviousPage = "previousPage"
	ActionDelete       = "delete"
)

const DefaultPageSize = 25

// ListView is the resolved data of a paged list.
type ListView[T any] struct {
	Items    []T
	Total    int
	Page     int
	PageSize int
	Query    query.Builder
}

// Pages is the number of pages Total spans.
func (v ListView[T]) Pages() int {
	if v.PageSize <= 0 || v.Total == 0 {
		return 1
	}
	return (v.Total + v.PageSize - 1) / v.PageSize
}

func (v ListView[T]) HasNext() bool     { return v.Page < v.Pages() }
func (v ListView[T]) HasPrevious() bool { return v.Page > 1 }

// List drives a paged FindAll for one actor. Filters live in a base query;
// paging is applied on top of it per load.
type List[T any] struct {
	mgr   *Manager[T]
	actor auth.Session

	mu   sync.Mutex
	base query.Builder
	page int
	size int

	handle *fetch.Query[ListView[T]]
}

// NewList starts loading the given page of base. Non-positive page and
// pageSize fall back to the first page and DefaultPageSize.
func NewList[T any](ctx context.Context, mgr *Manager[T], actor auth.Session, base query.Builder, page, pageSize int) *List[T] {
	if page < 1 {
		page = 1
	}
	if pageSize <= 0 {
		pageSize = DefaultPageSize
	}
	l := &List[T]{mgr: mgr, actor: actor, base: base, page: page, size: pageSize}
	l.handle = fetch.NewQuery(ctx, l.load)
	return l
}

func (l *List[T]) load(ctx context.Context) (ListView[T], error) {
	l.mu.Lock()
	q, page, size := l.base, l.page, l.size
	l.mu.Unlock()

	res, err := l.mgr.FindAll(ctx, l.actor, q.Paginate(page, size))
	if err != nil {
		return ListView[T]{}, err
	}
	return ListView[T]{Items: res.Results, Total: res.Total, Page: page, PageSize: size, Query: q}, nil
}

// Handle exposes the underlying read.
func (l *List[T]) Handle() adapter.Handle[ListView[T]] { return l.handle }

// Wait blocks until the current load settles.
func (l *List[T]) Wait(ctx context.Context) error { return l.handle.Wait(ctx) }

// State projects the list into an async state. Stale rows stay visible while
// a page change loads.
func (l *List[T]) State(opts ...adapter.Option) state.State {
	opts = append([]adapter.Option{
		adapter.WithResource(string(l.mgr.Resource()), ""),
		adapter.WithLocalData(),
	}, opts...)
	return observe(adapter.FromHandle(l.handle, l.success, opts...))
}

func (l *List[T]) success(v ListView[T]) state.Success[ListView[T]] {
	return state.NewSuccess(v, state.Actions{
		ActionRefresh: func(context.Context) error {
			l.handle.Refetch()
			return nil
		},
		ActionNextPage: func(context.Context) error {
			if v.HasNext() {
				l.goTo(v.Page + 1)
			}
			return nil
		},
		ActionPreviousPage: func(context.Context) error {
			if v.HasPrevious() {
				l.goTo(v.Page - 1)
			}
			return nil
		},
	})
}

func (l *List[T]) goTo(page int) {
	l.mu.Lock()
	l.page = page
	l.mu.Unlock()
	l.handle.Refetch()
}

// UpdateFilters replaces the base query with fn(base) and reloads from the
// first page.
func (l *List[T]) UpdateFilters(fn func(query.Builder) query.Builder) {
	l.mu.Lock()
	l.base = fn(l.base)
	l.page = 1
	l.mu.Unlock()
	l.handle.Refetch()
}

// Detail drives a FindByID for one actor and id.
type Detail[T any] struct {
	mgr    *Manager[T]
	actor  auth.Session
	id     string
	handle *fetch.Query[T]
	remove *fetch.Mutation[string, struct{}]
}

// NewDetail starts loading id.
func NewDetail[T any](ctx context.Context, mgr *Manager[T], actor auth.Session, id string) *Detail[T] {
	d := &Detail[T]{mgr: mgr, actor: actor, id: id}
	d.handle = fetch.NewQuery(ctx, func(ctx context.Context) (T, error) {
		return mgr.FindByID(ctx, actor, id, nil)
	})
	d.remove = fetch.NewMutation(func(ctx context.Context, id string) (struct{}, error) {
		return struct{}{}, mgr.DeleteByID(ctx, actor, id)
	}, d.handle)
	return d
}

func (d *Detail[T]) Wait(ctx context.Context) error { return d.handle.Wait(ctx) }

// State projects the record; a missing id yields NotFound naming it.
func (d *Detail[T]) State(opts ...adapter.Option) state.State {
	opts = append([]adapter.Option{adapter.WithResource(string(d.mgr.Resource()), d.id)}, opts...)
	return observe(adapter.FromHandle(d.handle, func(item T) state.Success[T] {
		return state.NewSuccess(item, state.Actions{
			ActionRefresh: func(context.Context) error {
				d.handle.Refetch()
				return nil
			},
			ActionDelete: func(ctx context.Context) error {
				_, err := d.remove.MutateAsync(ctx, d.id)
				return err
			},
		})
	}, opts...))
}

// observe counts a state produced for a view.
func observe(s state.State) state.State {
	obs.ObserveState(s.Kind().String())
	return s
}
