package reconcile

import (
	"sort"

	"delivery-admin/core/apperr"
	"delivery-admin/core/validate"
)

// BuildPlan computes the link/unlink actions that move a food's ingredient
// set from current to desired. It does NOT execute them; use ApplyPlan for that.
func BuildPlan(foodID int64, current, desired []int64) (*Plan, error) {
	if err := validate.New("reconciliation").
		ID("food_id", foodID).
		IDs("current", current).
		IDs("desired", desired).
		Err(); err != nil {
		return nil, err
	}

	currentSet := toSet(current)
	desiredSet := toSet(desired)

	toAdd := difference(desiredSet, currentSet)
	toRemove := difference(currentSet, desiredSet)

	if err := checkDisjoint(toAdd, toRemove); err != nil {
		return nil, err
	}

	actions := make([]Action, 0, len(toAdd)+len(toRemove))
	for _, id := range toAdd {
		actions = append(actions, Action{Type: ActionLink, Pair: Pair{FoodID: foodID, IngredientID: id}})
	}
	for _, id := range toRemove {
		actions = append(actions, Action{Type: ActionUnlink, Pair: Pair{FoodID: foodID, IngredientID: id}})
	}

	return &Plan{
		FoodID:   foodID,
		ToAdd:    toAdd,
		ToRemove: toRemove,
		Desired:  sortedKeys(desiredSet),
		Actions:  actions,
		Summary: PlanSummary{
			Current:   len(currentSet),
			Desired:   len(desiredSet),
			Links:     len(toAdd),
			Unlinks:   len(toRemove),
			Unchanged: len(desiredSet) - len(toAdd),
		},
	}, nil
}

// RetryPlan rebuilds a plan from the actions a previous apply could not
// complete. Only those actions are planned; desired is carried over as the
// target set and the rest of it is assumed to be in place already.
func RetryPlan(foodID int64, failed []Action, desired []int64) (*Plan, error) {
	if err := validate.New("retry").
		ID("food_id", foodID).
		IDs("desired", desired).
		Err(); err != nil {
		return nil, err
	}

	adds := make(map[int64]struct{})
	removes := make(map[int64]struct{})
	for _, action := range failed {
		if action.Pair.FoodID != foodID {
			return nil, apperr.Internal("action for food %d in retry of food %d", action.Pair.FoodID, foodID)
		}
		switch action.Type {
		case ActionLink:
			adds[action.Pair.IngredientID] = struct{}{}
		case ActionUnlink:
			removes[action.Pair.IngredientID] = struct{}{}
		default:
			return nil, apperr.Internal("unknown action type %q", action.Type)
		}
	}

	toAdd := sortedKeys(adds)
	toRemove := sortedKeys(removes)
	if err := checkDisjoint(toAdd, toRemove); err != nil {
		return nil, err
	}

	actions := make([]Action, 0, len(toAdd)+len(toRemove))
	for _, id := range toAdd {
		actions = append(actions, Action{Type: ActionLink, Pair: Pair{FoodID: foodID, IngredientID: id}})
	}
	for _, id := range toRemove {
		actions = append(actions, Action{Type: ActionUnlink, Pair: Pair{FoodID: foodID, IngredientID: id}})
	}

	desiredSet := toSet(desired)
	unchanged := len(desiredSet) - len(toAdd)
	if unchanged < 0 {
		unchanged = 0
	}

	return &Plan{
		FoodID:   foodID,
		ToAdd:    toAdd,
		ToRemove: toRemove,
		Desired:  sortedKeys(desiredSet),
		Actions:  actions,
		Summary: PlanSummary{
			Current:   unchanged + len(toRemove),
			Desired:   len(desiredSet),
			Links:     len(toAdd),
			Unlinks:   len(toRemove),
			Unchanged: unchanged,
		},
	}, nil
}

// checkDisjoint guards the set-difference invariant: an id can never be
// both added and removed.
func checkDisjoint(toAdd, toRemove []int64) error {
	adds := toSet(toAdd)
	for _, id := range toRemove {
		if _, ok := adds[id]; ok {
			return apperr.Internal("ingredient %d planned for both link and unlink", id)
		}
	}
	return nil
}

// toSet deduplicates ids.
func toSet(ids []int64) map[int64]struct{} {
	set := make(map[int64]struct{}, len(ids))
	for _, id := range ids {
		set[id] = struct{}{}
	}
	return set
}

// difference returns a − b in ascending order.
func difference(a, b map[int64]struct{}) []int64 {
	out := make([]int64, 0)
	for id := range a {
		if _, ok := b[id]; !ok {
			out = append(out, id)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i] < out[j] })
	return out
}

func sortedKeys(set map[int64]struct{}) []int64 {
	out := make([]int64, 0, len(set))
	for id := range set {
		out = append(out, id)
	}
	sort.Slice(out, func(i, j int) bool { return out[i] < out[j] })
	return out
}
