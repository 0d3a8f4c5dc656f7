package catalog

import (
	"sort"
	"strconv"
	"sync"
	"time"

	"delivery-admin/core/reconcile"

	"github.com/google/uuid"
)

// Resource names used in workflow keys and journal entries.
const (
	ResourceCategory   = "category"
	ResourceIngredient = "ingredient"
	ResourceFood       = "food"
)

// FoodKey identifies workflow state of a persisted food.
func FoodKey(id int64) string { return entityKey(ResourceFood, id) }

// CategoryKey identifies workflow state of a persisted category.
func CategoryKey(id int64) string { return entityKey(ResourceCategory, id) }

// IngredientKey identifies workflow state of a persisted ingredient.
func IngredientKey(id int64) string { return entityKey(ResourceIngredient, id) }

// NewKey identifies an entity that has no id yet.
func NewKey(resource string) string {
	return resource + ":new:" + uuid.NewString()
}

// CreateKey guards duplicate create submissions for the same name.
func CreateKey(resource, name string) string {
	return resource + ":create:" + name
}

func entityKey(resource string, id int64) string {
	return resource + ":" + strconv.FormatInt(id, 10)
}

// Status is the last known state of an operation on one entity.
type Status struct {
	Key         string           `json:"key"`
	Operation   string           `json:"operation"`
	RequestID   string           `json:"request_id"`
	InFlight    bool             `json:"in_flight"`
	Error       string           `json:"error,omitempty"`
	FailedPairs []reconcile.Pair `json:"failed_pairs,omitempty"`
	StartedAt   time.Time        `json:"started_at"`
	FinishedAt  time.Time        `json:"finished_at,omitempty"`
}

// Pending is an entity being created that the store has not assigned an id to yet.
type Pending struct {
	Key      string    `json:"key"`
	Resource string    `json:"resource"`
	Name     string    `json:"name"`
	Since    time.Time `json:"since"`
}

// WorkflowState holds transient per-entity state: submission locks, last
// operation outcome and pending creations. It never holds catalog data.
type WorkflowState struct {
	mu       sync.Mutex
	locks    map[string]struct{}
	statuses map[string]Status
	pending  map[string]Pending
}

// NewWorkflowState creates an empty state.
func NewWorkflowState() *WorkflowState {
	return &WorkflowState{
		locks:    make(map[string]struct{}),
		statuses: make(map[string]Status),
		pending:  make(map[string]Pending),
	}
}

// Acquire marks key as busy. It returns ok=false while another holder has it.
// The release func is idempotent.
func (w *WorkflowState) Acquire(key string) (release func(), ok bool) {
	w.mu.Lock()
	defer w.mu.Unlock()

	if _, busy := w.locks[key]; busy {
		return func() {}, false
	}
	w.locks[key] = struct{}{}

	var once sync.Once
	return func() {
		once.Do(func() {
			w.mu.Lock()
			delete(w.locks, key)
			w.mu.Unlock()
		})
	}, true
}

// Status returns the last status recorded for key.
func (w *WorkflowState) Status(key string) (Status, bool) {
	w.mu.Lock()
	defer w.mu.Unlock()
	s, ok := w.statuses[key]
	return s, ok
}

// Statuses returns every recorded status ordered by key.
func (w *WorkflowState) Statuses() []Status {
	w.mu.Lock()
	defer w.mu.Unlock()

	out := make([]Status, 0, len(w.statuses))
	for _, s := range w.statuses {
		out = append(out, s)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Key < out[j].Key })
	return out
}

// Pending returns the creations in flight, oldest first.
func (w *WorkflowState) Pending() []Pending {
	w.mu.Lock()
	defer w.mu.Unlock()

	out := make([]Pending, 0, len(w.pending))
	for _, p := range w.pending {
		out = append(out, p)
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Since.Equal(out[j].Since) {
			return out[i].Key < out[j].Key
		}
		return out[i].Since.Before(out[j].Since)
	})
	return out
}

func (w *WorkflowState) begin(key, operation, requestID string) {
	w.mu.Lock()
	defer w.mu.Unlock()
	w.statuses[key] = Status{
		Key:       key,
		Operation: operation,
		RequestID: requestID,
		InFlight:  true,
		StartedAt: time.Now(),
	}
}

func (w *WorkflowState) finish(key string, err error, failed []reconcile.Pair) {
	w.mu.Lock()
	defer w.mu.Unlock()

	s := w.statuses[key]
	s.Key = key
	s.InFlight = false
	s.FinishedAt = time.Now()
	s.Error = ""
	if err != nil {
		s.Error = err.Error()
	}
	s.FailedPairs = failed
	w.statuses[key] = s
}

func (w *WorkflowState) addPending(key, resource, name string) {
	w.mu.Lock()
	defer w.mu.Unlock()
	w.pending[key] = Pending{Key: key, Resource: resource, Name: name, Since: time.Now()}
}

func (w *WorkflowState) removePending(key string) {
	w.mu.Lock()
	defer w.mu.Unlock()
	delete(w.pending, key)
}
