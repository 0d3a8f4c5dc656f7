package catalog

import (
	"context"
	"errors"
	"sync"

	"delivery-admin/core/apperr"
	"delivery-admin/core/logger"
	"delivery-admin/core/middleware/rayid"
	"delivery-admin/core/remote"
	"delivery-admin/core/utils"
	"delivery-admin/feature/catalog/models"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"
)

// AssignRequest is the body of an ingredient assignment.
type AssignRequest struct {
	IngredientIDs []int64 `json:"ingredient_ids"`
}

// WorkflowView is the derived state shown to the presentation layer.
type WorkflowView struct {
	Statuses []Status  `json:"statuses"`
	Pending  []Pending `json:"pending"`
}

// Handler handles HTTP requests for the catalog.
type Handler struct {
	coordinator *Coordinator
	logger      *zap.Logger
	readOnly    bool

	// last assignment per food, for retries
	assignments sync.Map
}

// NewHandler creates a new HTTP handler.
func NewHandler(coordinator *Coordinator, logger *zap.Logger, readOnly bool) *Handler {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Handler{coordinator: coordinator, logger: logger, readOnly: readOnly}
}

// RegisterRoutes registers the catalog routes. Mutating routes are skipped in read-only mode.
func (h *Handler) RegisterRoutes(app fiber.Router) {
	group := app.Group("/catalog")
	group.Get("/categories", h.HandleListCategories)
	group.Get("/ingredients", h.HandleListIngredients)
	group.Get("/foods", h.HandleListFoods)
	group.Get("/foods/search", h.HandleSearchFoods)
	group.Get("/foods/:id", h.HandleGetFood)
	group.Get("/foods/:id/ingredients/plan", h.HandlePlanAssignment)
	group.Get("/workflow", h.HandleWorkflow)
	group.Post("/reload", h.HandleReload)

	if h.readOnly {
		return
	}

	group.Post("/categories", h.HandleCreateCategory)
	group.Put("/categories/:id", h.HandleUpdateCategory)
	group.Delete("/categories/:id", h.HandleDeleteCategory)

	group.Post("/ingredients", h.HandleCreateIngredient)
	group.Put("/ingredients/:id", h.HandleUpdateIngredient)
	group.Delete("/ingredients/:id", h.HandleDeleteIngredient)

	group.Post("/foods", h.HandleCreateFood)
	group.Put("/foods/:id", h.HandleUpdateFood)
	group.Delete("/foods/:id", h.HandleDeleteFood)
	group.Put("/foods/:id/ingredients", h.HandleAssignIngredients)
	group.Post("/foods/:id/ingredients/retry", h.HandleRetryAssignment)
}

// HandleListCategories returns the cached categories.
// @Summary List Categories
// @Tags catalog
// @Produce json
// @Success 200 {array} models.Category
// @Router /catalog/categories [get]
func (h *Handler) HandleListCategories(c *fiber.Ctx) error {
	return c.JSON(h.coordinator.Categories())
}

// HandleListIngredients returns the cached ingredients.
// @Summary List Ingredients
// @Tags catalog
// @Produce json
// @Success 200 {array} models.Ingredient
// @Router /catalog/ingredients [get]
func (h *Handler) HandleListIngredients(c *fiber.Ctx) error {
	return c.JSON(h.coordinator.Ingredients())
}

// HandleListFoods returns the cached foods.
// @Summary List Foods
// @Tags catalog
// @Produce json
// @Success 200 {array} models.Food
// @Router /catalog/foods [get]
func (h *Handler) HandleListFoods(c *fiber.Ctx) error {
	return c.JSON(h.coordinator.Foods())
}

// HandleGetFood returns one cached food.
// @Summary Get Food
// @Tags catalog
// @Produce json
// @Param id path int true "Food id"
// @Success 200 {object} models.Food
// @Failure 404 {object} map[string]string "Not in cache"
// @Router /catalog/foods/{id} [get]
func (h *Handler) HandleGetFood(c *fiber.Ctx) error {
	id, err := utils.ParseID(c.Params("id"))
	if err != nil {
		return badRequest(c, err)
	}
	food, ok := h.coordinator.Food(id)
	if !ok {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "food not found"})
	}
	return c.JSON(food)
}

// HandleSearchFoods lists the foods of a category straight from the store.
// @Summary Search Foods By Category
// @Tags catalog
// @Produce json
// @Param category query string true "Category name"
// @Success 200 {array} models.Food
// @Failure 400 {object} map[string]string "Missing category"
// @Failure 502 {object} map[string]string "Remote store unavailable"
// @Router /catalog/foods/search [get]
func (h *Handler) HandleSearchFoods(c *fiber.Ctx) error {
	foods, err := h.coordinator.SearchFoodsByCategory(h.requestContext(c), c.Query("category"))
	if err != nil {
		return h.fail(c, err)
	}
	return c.JSON(foods)
}

// HandleReload reloads every collection from the store.
// @Summary Reload Catalog
// @Tags catalog
// @Success 204
// @Failure 502 {object} map[string]string "Remote store unavailable"
// @Router /catalog/reload [post]
func (h *Handler) HandleReload(c *fiber.Ctx) error {
	if err := h.coordinator.LoadAll(h.requestContext(c)); err != nil {
		return h.fail(c, err)
	}
	return c.SendStatus(fiber.StatusNoContent)
}

// HandleWorkflow returns operation statuses and pending creations.
// @Summary Workflow State
// @Tags catalog
// @Produce json
// @Success 200 {object} WorkflowView
// @Router /catalog/workflow [get]
func (h *Handler) HandleWorkflow(c *fiber.Ctx) error {
	state := h.coordinator.State()
	return c.JSON(WorkflowView{Statuses: state.Statuses(), Pending: state.Pending()})
}

// HandleCreateCategory creates a category.
// @Summary Create Category
// @Tags catalog
// @Accept json
// @Produce json
// @Param body body models.NameDraft true "Category"
// @Success 201 {object} models.Category
// @Failure 400 {object} map[string]string "Validation failed"
// @Failure 409 {object} map[string]string "Conflict"
// @Router /catalog/categories [post]
func (h *Handler) HandleCreateCategory(c *fiber.Ctx) error {
	var draft models.NameDraft
	if err := c.BodyParser(&draft); err != nil {
		return badRequest(c, err)
	}
	return h.guard(c, CreateKey(ResourceCategory, draft.Name), func(ctx context.Context) error {
		created, err := h.coordinator.CreateCategory(ctx, draft)
		if err != nil {
			return err
		}
		return c.Status(fiber.StatusCreated).JSON(created)
	})
}

// HandleUpdateCategory renames a category.
// @Summary Update Category
// @Tags catalog
// @Accept json
// @Produce json
// @Param id path int true "Category id"
// @Param body body models.NameDraft true "Category"
// @Success 200 {object} models.Category
// @Router /catalog/categories/{id} [put]
func (h *Handler) HandleUpdateCategory(c *fiber.Ctx) error {
	id, err := utils.ParseID(c.Params("id"))
	if err != nil {
		return badRequest(c, err)
	}
	var draft models.NameDraft
	if err := c.BodyParser(&draft); err != nil {
		return badRequest(c, err)
	}
	return h.guard(c, CategoryKey(id), func(ctx context.Context) error {
		updated, err := h.coordinator.UpdateCategory(ctx, id, draft)
		if err != nil {
			return err
		}
		return c.JSON(updated)
	})
}

// HandleDeleteCategory deletes a category.
// @Summary Delete Category
// @Tags catalog
// @Param id path int true "Category id"
// @Success 204
// @Router /catalog/categories/{id} [delete]
func (h *Handler) HandleDeleteCategory(c *fiber.Ctx) error {
	id, err := utils.ParseID(c.Params("id"))
	if err != nil {
		return badRequest(c, err)
	}
	return h.guard(c, CategoryKey(id), func(ctx context.Context) error {
		if err := h.coordinator.DeleteCategory(ctx, id); err != nil {
			return err
		}
		return c.SendStatus(fiber.StatusNoContent)
	})
}

// HandleCreateIngredient creates an ingredient.
// @Summary Create Ingredient
// @Tags catalog
// @Accept json
// @Produce json
// @Param body body models.NameDraft true "Ingredient"
// @Success 201 {object} models.Ingredient
// @Router /catalog/ingredients [post]
func (h *Handler) HandleCreateIngredient(c *fiber.Ctx) error {
	var draft models.NameDraft
	if err := c.BodyParser(&draft); err != nil {
		return badRequest(c, err)
	}
	return h.guard(c, CreateKey(ResourceIngredient, draft.Name), func(ctx context.Context) error {
		created, err := h.coordinator.CreateIngredient(ctx, draft)
		if err != nil {
			return err
		}
		return c.Status(fiber.StatusCreated).JSON(created)
	})
}

// HandleUpdateIngredient renames an ingredient.
// @Summary Update Ingredient
// @Tags catalog
// @Accept json
// @Produce json
// @Param id path int true "Ingredient id"
// @Param body body models.NameDraft true "Ingredient"
// @Success 200 {object} models.Ingredient
// @Router /catalog/ingredients/{id} [put]
func (h *Handler) HandleUpdateIngredient(c *fiber.Ctx) error {
	id, err := utils.ParseID(c.Params("id"))
	if err != nil {
		return badRequest(c, err)
	}
	var draft models.NameDraft
	if err := c.BodyParser(&draft); err != nil {
		return badRequest(c, err)
	}
	return h.guard(c, IngredientKey(id), func(ctx context.Context) error {
		updated, err := h.coordinator.UpdateIngredient(ctx, id, draft)
		if err != nil {
			return err
		}
		return c.JSON(updated)
	})
}

// HandleDeleteIngredient deletes an ingredient.
// @Summary Delete Ingredient
// @Tags catalog
// @Param id path int true "Ingredient id"
// @Success 204
// @Router /catalog/ingredients/{id} [delete]
func (h *Handler) HandleDeleteIngredient(c *fiber.Ctx) error {
	id, err := utils.ParseID(c.Params("id"))
	if err != nil {
		return badRequest(c, err)
	}
	return h.guard(c, IngredientKey(id), func(ctx context.Context) error {
		if err := h.coordinator.DeleteIngredient(ctx, id); err != nil {
			return err
		}
		return c.SendStatus(fiber.StatusNoContent)
	})
}

// HandleCreateFood creates a food.
// @Summary Create Food
// @Description Creates a food without ingredients; use the ingredients route to assign them.
// @Tags catalog
// @Accept json
// @Produce json
// @Param body body models.FoodDraft true "Food"
// @Success 201 {object} models.Food
// @Failure 400 {object} map[string]string "Validation failed"
// @Failure 409 {object} map[string]string "Conflict"
// @Failure 502 {object} map[string]string "Remote store unavailable"
// @Router /catalog/foods [post]
func (h *Handler) HandleCreateFood(c *fiber.Ctx) error {
	var draft models.FoodDraft
	if err := c.BodyParser(&draft); err != nil {
		return badRequest(c, err)
	}
	return h.guard(c, CreateKey(ResourceFood, draft.Name), func(ctx context.Context) error {
		created, err := h.coordinator.CreateFood(ctx, draft)
		if err != nil {
			return err
		}
		return c.Status(fiber.StatusCreated).JSON(created)
	})
}

// HandleUpdateFood updates a food's name, price and category.
// @Summary Update Food
// @Tags catalog
// @Accept json
// @Produce json
// @Param id path int true "Food id"
// @Param body body models.FoodDraft true "Food"
// @Success 200 {object} models.Food
// @Router /catalog/foods/{id} [put]
func (h *Handler) HandleUpdateFood(c *fiber.Ctx) error {
	id, err := utils.ParseID(c.Params("id"))
	if err != nil {
		return badRequest(c, err)
	}
	var draft models.FoodDraft
	if err := c.BodyParser(&draft); err != nil {
		return badRequest(c, err)
	}
	return h.guard(c, FoodKey(id), func(ctx context.Context) error {
		updated, err := h.coordinator.UpdateFood(ctx, id, draft)
		if err != nil {
			return err
		}
		return c.JSON(updated)
	})
}

// HandleDeleteFood deletes a food.
// @Summary Delete Food
// @Tags catalog
// @Param id path int true "Food id"
// @Success 204
// @Router /catalog/foods/{id} [delete]
func (h *Handler) HandleDeleteFood(c *fiber.Ctx) error {
	id, err := utils.ParseID(c.Params("id"))
	if err != nil {
		return badRequest(c, err)
	}
	return h.guard(c, FoodKey(id), func(ctx context.Context) error {
		if err := h.coordinator.DeleteFood(ctx, id); err != nil {
			return err
		}
		return c.SendStatus(fiber.StatusNoContent)
	})
}

// HandlePlanAssignment previews the relation changes of an assignment.
// @Summary Plan Ingredient Assignment
// @Tags catalog
// @Produce json
// @Param id path int true "Food id"
// @Param ids query string true "Comma separated ingredient ids"
// @Success 200 {object} reconcile.Plan
// @Router /catalog/foods/{id}/ingredients/plan [get]
func (h *Handler) HandlePlanAssignment(c *fiber.Ctx) error {
	id, err := utils.ParseID(c.Params("id"))
	if err != nil {
		return badRequest(c, err)
	}
	desired, err := utils.ParseIDs(c.Query("ids"))
	if err != nil {
		return badRequest(c, err)
	}
	plan, err := h.coordinator.PlanAssignment(h.requestContext(c), id, desired)
	if err != nil {
		return h.fail(c, err)
	}
	return c.JSON(plan)
}

// HandleAssignIngredients sets a food's ingredients.
// @Summary Assign Ingredients
// @Description Links and unlinks ingredients until the food holds exactly the given set. Partial failures are reported in the body with status 207.
// @Tags catalog
// @Accept json
// @Produce json
// @Param id path int true "Food id"
// @Param body body AssignRequest true "Desired ingredient ids"
// @Success 200 {object} AssignResult
// @Success 207 {object} AssignResult "Some relation changes failed"
// @Failure 409 {object} map[string]string "Operation in progress"
// @Router /catalog/foods/{id}/ingredients [put]
func (h *Handler) HandleAssignIngredients(c *fiber.Ctx) error {
	id, err := utils.ParseID(c.Params("id"))
	if err != nil {
		return badRequest(c, err)
	}
	var req AssignRequest
	if err := c.BodyParser(&req); err != nil {
		return badRequest(c, err)
	}
	return h.guard(c, FoodKey(id), func(ctx context.Context) error {
		result, err := h.coordinator.AssignIngredients(ctx, id, req.IngredientIDs)
		return h.respondAssign(c, id, result, err)
	})
}

// HandleRetryAssignment re-runs the last assignment of a food.
// @Summary Retry Ingredient Assignment
// @Tags catalog
// @Produce json
// @Param id path int true "Food id"
// @Success 200 {object} AssignResult
// @Failure 404 {object} map[string]string "No previous assignment"
// @Router /catalog/foods/{id}/ingredients/retry [post]
func (h *Handler) HandleRetryAssignment(c *fiber.Ctx) error {
	id, err := utils.ParseID(c.Params("id"))
	if err != nil {
		return badRequest(c, err)
	}
	prev, ok := h.assignments.Load(id)
	if !ok {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "no previous assignment for this food"})
	}
	return h.guard(c, FoodKey(id), func(ctx context.Context) error {
		result, err := h.coordinator.RetryAssign(ctx, prev.(*AssignResult))
		return h.respondAssign(c, id, result, err)
	})
}

func (h *Handler) respondAssign(c *fiber.Ctx, id int64, result *AssignResult, err error) error {
	if result != nil {
		h.assignments.Store(id, result)
	}
	if err != nil {
		return err
	}
	if !result.OK() {
		return c.Status(fiber.StatusMultiStatus).JSON(result)
	}
	return c.JSON(result)
}

// guard refuses a second submission for the same key while one is in flight.
func (h *Handler) guard(c *fiber.Ctx, key string, fn func(ctx context.Context) error) error {
	release, ok := h.coordinator.State().Acquire(key)
	if !ok {
		return c.Status(fiber.StatusConflict).JSON(fiber.Map{"error": "an operation on this entity is already in progress"})
	}
	defer release()

	if err := fn(h.requestContext(c)); err != nil {
		return h.fail(c, err)
	}
	return nil
}

// requestContext carries the ray id to the remote store as the request id.
func (h *Handler) requestContext(c *fiber.Ctx) context.Context {
	ctx := c.UserContext()
	if id := rayid.Get(c); id != "" {
		ctx = remote.WithRequestID(ctx, id)
	}
	return ctx
}

func (h *Handler) fail(c *fiber.Ctx, err error) error {
	status := apperr.HTTPStatus(err)
	l := logger.WithRayID(h.logger, c)
	if status >= fiber.StatusInternalServerError {
		l.Error("Catalog request failed", zap.Error(err))
	} else {
		l.Info("Catalog request rejected", zap.Error(err))
	}

	body := fiber.Map{"error": apperr.Message(err)}
	var validation *apperr.ValidationError
	if errors.As(err, &validation) && len(validation.Fields) > 0 {
		body["fields"] = validation.Fields
	}
	return c.Status(status).JSON(body)
}

func badRequest(c *fiber.Ctx, err error) error {
	return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": err.Error()})
}
