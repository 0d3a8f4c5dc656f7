package reconcile

// Pair identifies one food↔ingredient relation.
type Pair struct {
	// FoodID is the owning food.
	FoodID int64 `json:"food_id"`

	// IngredientID is the linked ingredient.
	IngredientID int64 `json:"ingredient_id"`
}

// ActionType represents the type of relation mutation.
type ActionType string

const (
	// ActionLink adds the ingredient to the food.
	ActionLink ActionType = "link"
	// ActionUnlink removes the ingredient from the food.
	ActionUnlink ActionType = "unlink"
)

// Action represents a planned relation mutation.
type Action struct {
	// Type specifies the mutation to perform.
	Type ActionType `json:"type"`

	// Pair is the relation the action applies to.
	Pair Pair `json:"pair"`
}

// Plan contains the difference between current and desired membership.
type Plan struct {
	// FoodID is the food whose ingredient set is reconciled.
	FoodID int64 `json:"food_id"`

	// ToAdd holds ingredient ids in desired but not in current, ascending.
	ToAdd []int64 `json:"to_add"`

	// ToRemove holds ingredient ids in current but not in desired, ascending.
	ToRemove []int64 `json:"to_remove"`

	// Desired is the deduplicated target set, ascending.
	Desired []int64 `json:"desired"`

	// Actions contains one link per ToAdd id followed by one unlink per ToRemove id.
	Actions []Action `json:"actions"`

	// Summary provides aggregate counts.
	Summary PlanSummary `json:"summary"`
}

// Empty reports whether the plan requires no remote call.
func (p *Plan) Empty() bool {
	return len(p.Actions) == 0
}

// PlanSummary provides aggregate statistics for a plan.
type PlanSummary struct {
	// Current is the size of the current ingredient set.
	Current int `json:"current"`

	// Desired is the size of the desired ingredient set.
	Desired int `json:"desired"`

	// Links counts planned link actions.
	Links int `json:"links"`

	// Unlinks counts planned unlink actions.
	Unlinks int `json:"unlinks"`

	// Unchanged counts ingredients present in both sets.
	Unchanged int `json:"unchanged"`
}

// ApplyOptions controls how a plan is applied.
type ApplyOptions struct {
	// Concurrency bounds the number of in-flight calls. Zero means unbounded.
	Concurrency int

	// DryRun prevents any remote call if true.
	DryRun bool
}

// Failure is an action the remote store did not apply.
type Failure struct {
	Action Action `json:"action"`
	Err    error  `json:"-"`
}

// Result reports which actions of a plan were applied.
type Result struct {
	// Plan is the applied plan.
	Plan *Plan `json:"plan"`

	// Applied lists actions confirmed by the remote store.
	Applied []Action `json:"applied"`

	// Failed lists actions that failed; they were not rolled back or retried.
	Failed []Failure `json:"failed"`
}

// OK reports whether every action was applied.
func (r *Result) OK() bool {
	return len(r.Failed) == 0
}

// FailedPairs returns the relations that were not applied.
func (r *Result) FailedPairs() []Pair {
	pairs := make([]Pair, 0, len(r.Failed))
	for _, f := range r.Failed {
		pairs = append(pairs, f.Action.Pair)
	}
	return pairs
}
