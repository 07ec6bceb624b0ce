package repo

import (
	"context"
	"errors"

	"parish.org/internal/query"
)

var (
	ErrNotFound = errors.New("repo: not found")
	ErrConflict = errors.New("repo: conflict")
)

// Page is the result of a list operation.
type Page[T any] struct {
	Results []T `json:"results"`
	Total   int `json:"total"`
}

// Repository is the CRUD contract managers delegate to. Parameters arrive
// already compiled to the wire format.
type Repository[T any] interface {
	Create(ctx context.Context, item T) (T, error)
	Update(ctx context.Context, id string, item T) (T, error)
	Delete(ctx context.Context, params query.Params) error
	DeleteByID(ctx context.Context, id string) error
	FindAll(ctx context.Context, params query.Params) (Page[T], error)
	FindByID(ctx context.Context, id string, params query.Params) (T, error)
}

// Entity is implemented by records the repositories can address by id.
type Entity interface {
	EntityID() string
}
