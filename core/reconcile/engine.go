package reconcile

import (
	"context"
	"sort"
	"sync"

	"delivery-admin/core/apperr"

	"golang.org/x/sync/errgroup"
)

// ApplyPlan executes every action of the plan concurrently and waits for all
// of them to settle. A failing action never cancels the others; failures are
// collected in the result instead of being returned as an error.
func ApplyPlan(ctx context.Context, linker Linker, plan *Plan, opts ApplyOptions) *Result {
	result := &Result{
		Plan:    plan,
		Applied: []Action{},
		Failed:  []Failure{},
	}

	if opts.DryRun || plan.Empty() {
		return result
	}

	var (
		mu sync.Mutex
		g  errgroup.Group
	)
	if opts.Concurrency > 0 {
		g.SetLimit(opts.Concurrency)
	}

	for _, action := range plan.Actions {
		g.Go(func() error {
			err := execute(ctx, linker, action)

			mu.Lock()
			defer mu.Unlock()
			if err != nil {
				result.Failed = append(result.Failed, Failure{Action: action, Err: err})
			} else {
				result.Applied = append(result.Applied, action)
			}
			return nil
		})
	}
	_ = g.Wait()

	sortActions(result.Applied)
	sort.Slice(result.Failed, func(i, j int) bool {
		return actionLess(result.Failed[i].Action, result.Failed[j].Action)
	})

	return result
}

// Reconcile is a convenience wrapper that plans and applies in one call.
func Reconcile(ctx context.Context, linker Linker, foodID int64, current, desired []int64, opts ApplyOptions) (*Result, error) {
	plan, err := BuildPlan(foodID, current, desired)
	if err != nil {
		return nil, err
	}
	return ApplyPlan(ctx, linker, plan, opts), nil
}

func execute(ctx context.Context, linker Linker, action Action) error {
	switch action.Type {
	case ActionLink:
		return linker.Link(ctx, action.Pair.FoodID, action.Pair.IngredientID)
	case ActionUnlink:
		return linker.Unlink(ctx, action.Pair.FoodID, action.Pair.IngredientID)
	default:
		return apperr.Internal("unknown action type %q", action.Type)
	}
}

func sortActions(actions []Action) {
	sort.Slice(actions, func(i, j int) bool { return actionLess(actions[i], actions[j]) })
}

// actionLess orders links before unlinks, then by ingredient id.
func actionLess(a, b Action) bool {
	if a.Type != b.Type {
		return a.Type == ActionLink
	}
	return a.Pair.IngredientID < b.Pair.IngredientID
}
