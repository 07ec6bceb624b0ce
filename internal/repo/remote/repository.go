package remote

import (
	"context"
	"net/http"

	"parish.org/internal/query"
	"parish.org/internal/repo"
)

// Repository maps the repository contract onto REST calls for one resource
// collection, e.g. /members.
type Repository[T any] struct {
	client     *Client
	collection string
}

// NewRepository binds a repository to a collection path segment.
func NewRepository[T any](c *Client, collection string) *Repository[T] {
	return &Repository[T]{client: c, collection: collection}
}

var _ repo.Repository[struct{}] = (*Repository[struct{}])(nil)

func (r *Repository[T]) Create(ctx context.Context, item T) (T, error) {
	var out T
	err := r.client.do(ctx, http.MethodPost, r.collection, "", nil, item, &out)
	return out, err
}

func (r *Repository[T]) Update(ctx context.Context, id string, item T) (T, error) {
	var out T
	err := r.client.do(ctx, http.MethodPut, r.collection, id, nil, item, &out)
	return out, err
}

func (r *Repository[T]) Delete(ctx context.Context, params query.Params) error {
	return r.client.do(ctx, http.MethodDelete, r.collection, "", params, nil, nil)
}

func (r *Repository[T]) DeleteByID(ctx context.Context, id string) error {
	return r.client.do(ctx, http.MethodDelete, r.collection, id, nil, nil, nil)
}

func (r *Repository[T]) FindAll(ctx context.Context, params query.Params) (repo.Page[T], error) {
	var page repo.Page[T]
	err := r.client.do(ctx, http.MethodGet, r.collection, "", params, nil, &page)
	return page, err
}

func (r *Repository[T]) FindByID(ctx context.Context, id string, params query.Params) (T, error) {
	var out T
	err := r.client.do(ctx, http.MethodGet, r.collection, id, params, nil, &out)
	return out, err
}
