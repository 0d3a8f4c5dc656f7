package catalog

import (
	"context"
	"fmt"

	"delivery-admin/core/apperr"
	"delivery-admin/core/reconcile"
	"delivery-admin/core/validate"
	"delivery-admin/feature/catalog/models"

	"go.uber.org/zap"
)

// PairFailure is a relation change the remote store did not apply.
type PairFailure struct {
	reconcile.Pair
	Type  reconcile.ActionType `json:"type"`
	Error string               `json:"error"`
}

// AssignResult reports how far an ingredient assignment got.
type AssignResult struct {
	FoodID    int64              `json:"food_id"`
	RequestID string             `json:"request_id"`
	Desired   []int64            `json:"desired"`
	Plan      *reconcile.Plan    `json:"plan"`
	Applied   []reconcile.Action `json:"applied"`
	Failed    []PairFailure      `json:"failed"`
	// Food is the reloaded food, nil when it vanished from the store.
	Food *models.Food `json:"food,omitempty"`
}

// OK reports whether every planned change was applied.
func (r *AssignResult) OK() bool {
	return len(r.Failed) == 0
}

// FailedPairs returns the relations that were not applied.
func (r *AssignResult) FailedPairs() []reconcile.Pair {
	pairs := make([]reconcile.Pair, 0, len(r.Failed))
	for _, f := range r.Failed {
		pairs = append(pairs, f.Pair)
	}
	return pairs
}

// PlanAssignment computes the link/unlink actions AssignIngredients would
// issue, without calling the remote store.
func (c *Coordinator) PlanAssignment(ctx context.Context, foodID int64, desired []int64) (*reconcile.Plan, error) {
	current, err := c.currentIngredients(ctx, foodID)
	if err != nil {
		return nil, err
	}
	return reconcile.BuildPlan(foodID, current, desired)
}

// AssignIngredients moves the food's ingredient set to desired through
// per-pair link and unlink calls, then reloads the food collection.
//
// Relation calls that fail are returned in the result, not as an error. An
// error means nothing was attempted (validation, invariant breach) or the
// final reload failed; in the latter case the result is still returned.
func (c *Coordinator) AssignIngredients(ctx context.Context, foodID int64, desired []int64) (*AssignResult, error) {
	current, err := c.currentIngredients(ctx, foodID)
	if err != nil {
		return nil, err
	}

	plan, err := reconcile.BuildPlan(foodID, current, desired)
	if err != nil {
		return nil, err
	}

	return c.applyAssignment(ctx, plan)
}

// RetryAssign sends again only the relation calls that failed in prev, then
// reloads the food collection. Calls that succeeded in prev are not repeated,
// even when the reload of prev failed and the cached food is stale.
func (c *Coordinator) RetryAssign(ctx context.Context, prev *AssignResult) (*AssignResult, error) {
	if prev == nil {
		return nil, apperr.Validation("nothing to retry")
	}

	failed := make([]reconcile.Action, 0, len(prev.Failed))
	for _, f := range prev.Failed {
		failed = append(failed, reconcile.Action{Type: f.Type, Pair: f.Pair})
	}

	plan, err := reconcile.RetryPlan(prev.FoodID, failed, prev.Desired)
	if err != nil {
		return nil, err
	}
	return c.applyAssignment(ctx, plan)
}

// applyAssignment runs plan against the relation endpoint and reloads foods
// once every call has settled.
func (c *Coordinator) applyAssignment(ctx context.Context, plan *reconcile.Plan) (*AssignResult, error) {
	foodID := plan.FoodID
	op := c.begin(ctx, OpAssignIngredients, ResourceFood, FoodKey(foodID))
	op.entityID = foodID
	op.logger.Debug("Assignment planned",
		zap.Int64s("to_add", plan.ToAdd),
		zap.Int64s("to_remove", plan.ToRemove),
	)

	applied := reconcile.ApplyPlan(op.ctx, c.gateway.Relations, plan, reconcile.ApplyOptions{
		Concurrency: c.opts.Concurrency,
	})

	result := &AssignResult{
		FoodID:    foodID,
		RequestID: op.requestID,
		Desired:   plan.Desired,
		Plan:      plan,
		Applied:   applied.Applied,
		Failed:    make([]PairFailure, 0, len(applied.Failed)),
	}
	for _, f := range applied.Failed {
		result.Failed = append(result.Failed, PairFailure{
			Pair:  f.Action.Pair,
			Type:  f.Action.Type,
			Error: apperr.Message(f.Err),
		})
	}

	if _, err := c.foods.Load(op.ctx); err != nil {
		c.end(op, err, result.FailedPairs())
		return result, fmt.Errorf("reload foods after assignment: %w", err)
	}
	if food, ok := c.foods.Get(foodID); ok {
		result.Food = &food
	}

	c.end(op, nil, result.FailedPairs())
	return result, nil
}

// currentIngredients reads the cached membership, loading foods once if the
// cache was never filled.
func (c *Coordinator) currentIngredients(ctx context.Context, foodID int64) ([]int64, error) {
	if err := validate.New("assignment").ID("food_id", foodID).Err(); err != nil {
		return nil, err
	}
	if !c.foods.Loaded() {
		if _, err := c.foods.Load(withRequestID(ctx)); err != nil {
			return nil, err
		}
	}
	food, ok := c.foods.Get(foodID)
	if !ok {
		return nil, apperr.Validation("unknown food", apperr.FieldError{
			Field:   "food_id",
			Message: fmt.Sprintf("Food %d is not in the catalog", foodID),
		})
	}
	return food.IngredientIDs(), nil
}
