package remote

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
)

// Resource is a typed CRUD endpoint rooted at a collection path such as "/food".
type Resource[T any] struct {
	client *Client
	path   string
}

// NewResource binds a collection path to the client.
func NewResource[T any](client *Client, path string) *Resource[T] {
	return &Resource[T]{client: client, path: path}
}

// Path returns the collection path.
func (r *Resource[T]) Path() string {
	return r.path
}

// List fetches the whole collection.
func (r *Resource[T]) List(ctx context.Context) ([]T, error) {
	var items []T
	if err := r.client.Do(ctx, http.MethodGet, r.path, nil, nil, &items); err != nil {
		return nil, fmt.Errorf("list %s: %w", r.path, err)
	}
	if items == nil {
		items = []T{}
	}
	return items, nil
}

// Search fetches a filtered view under the collection, e.g. "search-by-category".
func (r *Resource[T]) Search(ctx context.Context, subpath string, query url.Values) ([]T, error) {
	var items []T
	if err := r.client.Do(ctx, http.MethodGet, r.path+"/"+subpath, query, nil, &items); err != nil {
		return nil, fmt.Errorf("search %s/%s: %w", r.path, subpath, err)
	}
	if items == nil {
		items = []T{}
	}
	return items, nil
}

// Create posts a new entity. The returned value is zero when the store answers without a body.
func (r *Resource[T]) Create(ctx context.Context, payload any) (T, error) {
	var created T
	if err := r.client.Do(ctx, http.MethodPost, r.path, nil, payload, &created); err != nil {
		return created, fmt.Errorf("create %s: %w", r.path, err)
	}
	return created, nil
}

// Update replaces the entity with the given id.
func (r *Resource[T]) Update(ctx context.Context, id int64, payload any) (T, error) {
	var updated T
	if err := r.client.Do(ctx, http.MethodPut, r.itemPath(id), nil, payload, &updated); err != nil {
		return updated, fmt.Errorf("update %s: %w", r.itemPath(id), err)
	}
	return updated, nil
}

// Delete removes the entity with the given id.
func (r *Resource[T]) Delete(ctx context.Context, id int64) error {
	if err := r.client.Do(ctx, http.MethodDelete, r.itemPath(id), nil, nil, nil); err != nil {
		return fmt.Errorf("delete %s: %w", r.itemPath(id), err)
	}
	return nil
}

func (r *Resource[T]) itemPath(id int64) string {
	return r.path + "/" + strconv.FormatInt(id, 10)
}
