package catalog

import (
	"context"
	"net/url"

	"delivery-admin/core/reconcile"
	"delivery-admin/core/remote"
	"delivery-admin/feature/catalog/models"
)

// Endpoint is a CRUD collection on the remote store.
type Endpoint[T any] interface {
	List(ctx context.Context) ([]T, error)
	Create(ctx context.Context, payload any) (T, error)
	Update(ctx context.Context, id int64, payload any) (T, error)
	Delete(ctx context.Context, id int64) error
}

// FoodEndpoint adds the filtered food views.
type FoodEndpoint interface {
	Endpoint[models.Food]
	Search(ctx context.Context, subpath string, query url.Values) ([]models.Food, error)
}

// Gateway groups the remote endpoints the Coordinator talks to.
type Gateway struct {
	Categories  Endpoint[models.Category]
	Ingredients Endpoint[models.Ingredient]
	Foods       FoodEndpoint
	Relations   reconcile.Linker
}

// NewGateway binds every catalog collection to the client.
func NewGateway(client *remote.Client) Gateway {
	return Gateway{
		Categories:  remote.NewResource[models.Category](client, "/category"),
		Ingredients: remote.NewResource[models.Ingredient](client, "/ingredient"),
		Foods:       remote.NewResource[models.Food](client, "/food"),
		Relations:   client,
	}
}
