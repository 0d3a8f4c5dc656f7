package catalog

import (
	"context"
	"net/url"
	"strings"
	"time"
	"unicode/utf8"

	"delivery-admin/core/apperr"
	"delivery-admin/core/reconcile"
	"delivery-admin/core/remote"
	"delivery-admin/core/store"
	"delivery-admin/core/validate"
	"delivery-admin/feature/catalog/models"
	"delivery-admin/feature/journal"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
)

// Operation names recorded in workflow state and the journal.
const (
	OpCreateCategory    = "create_category"
	OpUpdateCategory    = "update_category"
	OpDeleteCategory    = "delete_category"
	OpCreateIngredient  = "create_ingredient"
	OpUpdateIngredient  = "update_ingredient"
	OpDeleteIngredient  = "delete_ingredient"
	OpCreateFood        = "create_food"
	OpUpdateFood        = "update_food"
	OpDeleteFood        = "delete_food"
	OpAssignIngredients = "assign_ingredients"
)

const maxNameLength = 255

// Recorder persists the outcome of an operation.
type Recorder interface {
	Record(ctx context.Context, entry journal.Entry) error
}

// Options tunes the Coordinator.
type Options struct {
	// Concurrency bounds parallel link/unlink calls. Zero means unbounded.
	Concurrency int
	// DeleteNotFoundOK treats a 404 on delete as success.
	DeleteNotFoundOK bool
}

// Coordinator runs the catalog workflows against the remote store and keeps
// the three resource stores in line with it. It does not serialize
// operations by entity; callers guard duplicate submissions with
// WorkflowState.Acquire.
type Coordinator struct {
	gateway  Gateway
	opts     Options
	state    *WorkflowState
	recorder Recorder
	logger   *zap.Logger

	categories  *store.Store[models.Category]
	ingredients *store.Store[models.Ingredient]
	foods       *store.Store[models.Food]
}

// NewCoordinator creates a Coordinator with empty stores. recorder may be nil.
func NewCoordinator(gateway Gateway, opts Options, recorder Recorder, logger *zap.Logger) *Coordinator {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Coordinator{
		gateway:     gateway,
		opts:        opts,
		state:       NewWorkflowState(),
		recorder:    recorder,
		logger:      logger,
		categories:  store.New[models.Category]("categories", gateway.Categories, logger),
		ingredients: store.New[models.Ingredient]("ingredients", gateway.Ingredients, logger),
		foods:       store.New[models.Food]("foods", gateway.Foods, logger),
	}
}

// State returns the workflow state.
func (c *Coordinator) State() *WorkflowState {
	return c.state
}

// LoadAll loads the three collections concurrently and returns the first error.
// Each collection keeps its previous cache when its own load fails.
func (c *Coordinator) LoadAll(ctx context.Context) error {
	ctx = withRequestID(ctx)

	var g errgroup.Group
	g.Go(func() error {
		_, err := c.categories.Load(ctx)
		return err
	})
	g.Go(func() error {
		_, err := c.ingredients.Load(ctx)
		return err
	})
	g.Go(func() error {
		_, err := c.foods.Load(ctx)
		return err
	})
	return g.Wait()
}

// Categories returns the cached categories.
func (c *Coordinator) Categories() []models.Category {
	return c.categories.Snapshot()
}

// Ingredients returns the cached ingredients.
func (c *Coordinator) Ingredients() []models.Ingredient {
	return c.ingredients.Snapshot()
}

// Foods returns the cached foods.
func (c *Coordinator) Foods() []models.Food {
	return c.foods.Snapshot()
}

// Food returns one cached food.
func (c *Coordinator) Food(id int64) (models.Food, bool) {
	return c.foods.Get(id)
}

// CreateCategory creates a category and reloads the category collection.
func (c *Coordinator) CreateCategory(ctx context.Context, draft models.NameDraft) (models.Category, error) {
	return createNamed(ctx, c, OpCreateCategory, ResourceCategory, c.gateway.Categories, c.categories, draft)
}

// UpdateCategory renames a category and reloads the category collection.
func (c *Coordinator) UpdateCategory(ctx context.Context, id int64, draft models.NameDraft) (models.Category, error) {
	return updateNamed(ctx, c, OpUpdateCategory, ResourceCategory, c.gateway.Categories, c.categories, id, draft)
}

// DeleteCategory deletes a category and reloads the category collection.
func (c *Coordinator) DeleteCategory(ctx context.Context, id int64) error {
	return deleteEntity(ctx, c, OpDeleteCategory, ResourceCategory, c.gateway.Categories, c.categories, id)
}

// CreateIngredient creates an ingredient and reloads the ingredient collection.
func (c *Coordinator) CreateIngredient(ctx context.Context, draft models.NameDraft) (models.Ingredient, error) {
	return createNamed(ctx, c, OpCreateIngredient, ResourceIngredient, c.gateway.Ingredients, c.ingredients, draft)
}

// UpdateIngredient renames an ingredient and reloads the ingredient collection.
func (c *Coordinator) UpdateIngredient(ctx context.Context, id int64, draft models.NameDraft) (models.Ingredient, error) {
	return updateNamed(ctx, c, OpUpdateIngredient, ResourceIngredient, c.gateway.Ingredients, c.ingredients, id, draft)
}

// DeleteIngredient deletes an ingredient and reloads the ingredient collection.
func (c *Coordinator) DeleteIngredient(ctx context.Context, id int64) error {
	return deleteEntity(ctx, c, OpDeleteIngredient, ResourceIngredient, c.gateway.Ingredients, c.ingredients, id)
}

// CreateFood validates the draft, creates the food with an empty ingredient
// list and reloads the food collection. Nothing is sent when validation fails,
// and the cache is untouched when the store rejects the write.
func (c *Coordinator) CreateFood(ctx context.Context, draft models.FoodDraft) (models.Food, error) {
	if err := validateFood(draft); err != nil {
		return models.Food{}, err
	}

	key := NewKey(ResourceFood)
	op := c.begin(ctx, OpCreateFood, ResourceFood, key)
	c.state.addPending(key, ResourceFood, draft.Name)
	defer c.state.removePending(key)

	created, err := c.gateway.Foods.Create(op.ctx, draft.Payload())
	if err == nil {
		_, err = c.foods.Load(op.ctx)
	}
	op.entityID = created.ID
	c.end(op, err, nil)
	if err != nil {
		return models.Food{}, err
	}

	if cached, ok := c.foods.Get(created.ID); ok {
		return cached, nil
	}
	return created, nil
}

// UpdateFood validates the draft, replaces the food's identity fields and
// reloads the food collection. Ingredient membership is not touched.
func (c *Coordinator) UpdateFood(ctx context.Context, id int64, draft models.FoodDraft) (models.Food, error) {
	if err := validate.New("food").ID("id", id).Err(); err != nil {
		return models.Food{}, err
	}
	if err := validateFood(draft); err != nil {
		return models.Food{}, err
	}

	op := c.begin(ctx, OpUpdateFood, ResourceFood, FoodKey(id))
	op.entityID = id

	updated, err := c.gateway.Foods.Update(op.ctx, id, draft.Payload())
	if err == nil {
		_, err = c.foods.Load(op.ctx)
	}
	c.end(op, err, nil)
	if err != nil {
		return models.Food{}, err
	}

	if cached, ok := c.foods.Get(id); ok {
		return cached, nil
	}
	return updated, nil
}

// DeleteFood deletes the food and reloads the food collection.
func (c *Coordinator) DeleteFood(ctx context.Context, id int64) error {
	return deleteEntity(ctx, c, OpDeleteFood, ResourceFood, Endpoint[models.Food](c.gateway.Foods), c.foods, id)
}

// SearchFoodsByCategory returns the foods of the named category straight from
// the remote store. The food cache is not modified.
func (c *Coordinator) SearchFoodsByCategory(ctx context.Context, category string) ([]models.Food, error) {
	if err := validate.New("search").Required("category", category).Err(); err != nil {
		return nil, err
	}
	query := url.Values{}
	query.Set("category", strings.TrimSpace(category))
	return c.gateway.Foods.Search(withRequestID(ctx), "search-by-category", query)
}

type operation struct {
	ctx       context.Context
	name      string
	resource  string
	key       string
	requestID string
	entityID  int64
	started   time.Time
	logger    *zap.Logger
}

func (c *Coordinator) begin(ctx context.Context, name, resource, key string) *operation {
	ctx = withRequestID(ctx)
	requestID := remote.RequestID(ctx)

	c.state.begin(key, name, requestID)
	l := c.logger.With(
		zap.String("operation", name),
		zap.String("key", key),
		zap.String("request_id", requestID),
	)
	l.Debug("Operation started")

	return &operation{
		ctx:       ctx,
		name:      name,
		resource:  resource,
		key:       key,
		requestID: requestID,
		started:   time.Now(),
		logger:    l,
	}
}

// end logs the outcome, settles the workflow status and records a journal
// entry under a context detached from op's cancellation. A failed record is
// logged and does not change the outcome.
func (c *Coordinator) end(op *operation, err error, failed []reconcile.Pair) {
	c.state.finish(op.key, err, failed)

	outcome := journal.OutcomeOK
	switch {
	case err != nil:
		outcome = journal.OutcomeFailed
		if apperr.IsValidation(err) {
			op.logger.Info("Operation rejected", zap.Error(err))
		} else {
			op.logger.Warn("Operation failed", zap.Error(err))
		}
	case len(failed) > 0:
		outcome = journal.OutcomePartial
		op.logger.Warn("Operation partially applied", zap.Any("failed_pairs", failed))
	default:
		op.logger.Info("Operation completed", zap.Duration("took", time.Since(op.started)))
	}

	if c.recorder == nil {
		return
	}
	entry := journal.Entry{
		RequestID:   op.requestID,
		Operation:   op.name,
		Resource:    op.resource,
		EntityID:    op.entityID,
		Outcome:     outcome,
		FailedPairs: len(failed),
		DurationMS:  time.Since(op.started).Milliseconds(),
	}
	if err != nil {
		entry.Error = truncate(err.Error(), 1024)
	}
	if rerr := c.recorder.Record(context.WithoutCancel(op.ctx), entry); rerr != nil {
		op.logger.Warn("Journal record failed", zap.Error(rerr))
	}
}

func createNamed[T store.Entity](ctx context.Context, c *Coordinator, name, resource string, ep Endpoint[T], st *store.Store[T], draft models.NameDraft) (T, error) {
	var zero T
	if err := validateName(resource, draft); err != nil {
		return zero, err
	}

	key := NewKey(resource)
	op := c.begin(ctx, name, resource, key)
	c.state.addPending(key, resource, draft.Name)
	defer c.state.removePending(key)

	created, err := ep.Create(op.ctx, draft)
	if err == nil {
		_, err = st.Load(op.ctx)
	}
	op.entityID = created.Key()
	c.end(op, err, nil)
	if err != nil {
		return zero, err
	}

	if cached, ok := st.Get(created.Key()); ok {
		return cached, nil
	}
	return created, nil
}

func updateNamed[T store.Entity](ctx context.Context, c *Coordinator, name, resource string, ep Endpoint[T], st *store.Store[T], id int64, draft models.NameDraft) (T, error) {
	var zero T
	if err := validate.New(resource).ID("id", id).Err(); err != nil {
		return zero, err
	}
	if err := validateName(resource, draft); err != nil {
		return zero, err
	}

	op := c.begin(ctx, name, resource, entityKey(resource, id))
	op.entityID = id

	updated, err := ep.Update(op.ctx, id, draft)
	if err == nil {
		_, err = st.Load(op.ctx)
	}
	c.end(op, err, nil)
	if err != nil {
		return zero, err
	}

	if cached, ok := st.Get(id); ok {
		return cached, nil
	}
	return updated, nil
}

// deleteEntity removes id remotely then reloads. A 404 counts as success when
// DeleteNotFoundOK is set, which makes repeated deletes converge.
func deleteEntity[T store.Entity](ctx context.Context, c *Coordinator, name, resource string, ep Endpoint[T], st *store.Store[T], id int64) error {
	if err := validate.New(resource).ID("id", id).Err(); err != nil {
		return err
	}

	op := c.begin(ctx, name, resource, entityKey(resource, id))
	op.entityID = id

	err := ep.Delete(op.ctx, id)
	if err != nil && c.opts.DeleteNotFoundOK && apperr.IsNotFound(err) {
		op.logger.Debug("Entity already gone", zap.Error(err))
		err = nil
	}
	if err == nil {
		st.Remove(id)
		_, err = st.Load(op.ctx)
	}
	c.end(op, err, nil)
	return err
}

func validateName(resource string, draft models.NameDraft) error {
	return validate.New(resource).
		Required("name", draft.Name).
		MaxLen("name", draft.Name, maxNameLength).
		Err()
}

func validateFood(draft models.FoodDraft) error {
	return validate.New("food").
		Required("name", draft.Name).
		MaxLen("name", draft.Name, maxNameLength).
		NonNegative("price", draft.Price).
		ID("category_id", draft.CategoryID).
		Err()
}

// withRequestID attaches a fresh correlation id unless ctx already carries one.
func withRequestID(ctx context.Context) context.Context {
	if remote.RequestID(ctx) != "" {
		return ctx
	}
	return remote.WithRequestID(ctx, uuid.NewString())
}

// truncate shortens s to at most n bytes without splitting a rune.
func truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	cut := n - 3
	for cut > 0 && !utf8.RuneStart(s[cut]) {
		cut--
	}
	return s[:cut] + "..."
}
