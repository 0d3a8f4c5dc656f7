package reconcile

import "context"

// Linker applies single relation mutations against the remote store.
// Both calls act on one (food, ingredient) pair and may run concurrently
// for distinct pairs.
type Linker interface {
	// Link adds the ingredient to the food.
	Link(ctx context.Context, foodID, ingredientID int64) error

	// Unlink removes the ingredient from the food.
	Unlink(ctx context.Context, foodID, ingredientID int64) error
}
