// Package remote is the HTTP transport to the catalog REST store.
//
// The store is treated as a black-box CRUD API:
//
//	GET    /category | /ingredient | /food
//	POST   /category | /ingredient | /food
//	PUT    /{resource}/{id}
//	DELETE /{resource}/{id}
//	GET    /food/search-by-category?category={name}
//	POST   /food/{foodId}/ingredient/{ingredientId}   (link)
//	DELETE /food/{foodId}/ingredient/{ingredientId}   (unlink)
//
// Every failure is translated into the apperr taxonomy: transport problems
// become FetchError, rejected requests RemoteError, unreadable bodies DecodeError.
//
// # Usage
//
//	client, err := remote.NewClient(cfg.Remote, logger)
//	foods := remote.NewResource[models.Food](client, "/food")
//	list, err := foods.List(ctx)
package remote
