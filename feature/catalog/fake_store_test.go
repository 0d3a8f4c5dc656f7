package catalog

import (
	"bytes"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"sort"
	"strconv"
	"sync"
	"testing"

	"delivery-admin/core/remote"
	"delivery-admin/feature/catalog/models"

	"github.com/goccy/go-json"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

type fakeFood struct {
	id          int64
	name        string
	price       decimal.Decimal
	categoryID  int64
	ingredients map[int64]struct{}
}

type failure struct {
	status int
	body   string
}

// fakeStore is an in-memory catalog REST API.
type fakeStore struct {
	mu          sync.Mutex
	nextID      int64
	categories  map[int64]string
	ingredients map[int64]string
	foods       map[int64]*fakeFood

	// failures keyed by "METHOD path"
	failures map[string]failure
	calls    []string
	requests []string
	bodies   map[string]string
	onCreate func()
}

func newFakeStore() *fakeStore {
	return &fakeStore{
		nextID:      100,
		categories:  make(map[int64]string),
		ingredients: make(map[int64]string),
		foods:       make(map[int64]*fakeFood),
		failures:    make(map[string]failure),
		bodies:      make(map[string]string),
	}
}

func (f *fakeStore) seedCategory(id int64, name string) {
	f.categories[id] = name
}

func (f *fakeStore) seedIngredient(id int64, name string) {
	f.ingredients[id] = name
}

func (f *fakeStore) seedFood(id int64, name string, price string, categoryID int64, ingredients ...int64) {
	set := make(map[int64]struct{})
	for _, ing := range ingredients {
		set[ing] = struct{}{}
	}
	f.foods[id] = &fakeFood{id: id, name: name, price: decimal.RequireFromString(price), categoryID: categoryID, ingredients: set}
}

func (f *fakeStore) fail(method, path string, status int, body string) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.failures[method+" "+path] = failure{status: status, body: body}
}

func (f *fakeStore) clearFailures() {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.failures = make(map[string]failure)
}

// writes returns the recorded non-GET calls.
func (f *fakeStore) writes() []string {
	f.mu.Lock()
	defer f.mu.Unlock()
	out := make([]string, 0)
	for _, c := range f.calls {
		if c[:4] != "GET " {
			out = append(out, c)
		}
	}
	sort.Strings(out)
	return out
}

func (f *fakeStore) callCount() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.calls)
}

func (f *fakeStore) requestIDs() []string {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]string(nil), f.requests...)
}

func (f *fakeStore) ingredientSet(foodID int64) []int64 {
	f.mu.Lock()
	defer f.mu.Unlock()
	out := make([]int64, 0)
	for id := range f.foods[foodID].ingredients {
		out = append(out, id)
	}
	sort.Slice(out, func(i, j int) bool { return out[i] < out[j] })
	return out
}

func (f *fakeStore) handler() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("GET /food/search-by-category", f.searchFoods)
	mux.HandleFunc("POST /food/{fid}/ingredient/{iid}", f.link)
	mux.HandleFunc("DELETE /food/{fid}/ingredient/{iid}", f.unlink)
	mux.HandleFunc("GET /{res}", f.list)
	mux.HandleFunc("POST /{res}", f.create)
	mux.HandleFunc("PUT /{res}/{id}", f.update)
	mux.HandleFunc("DELETE /{res}/{id}", f.remove)

	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		key := r.Method + " " + r.URL.Path
		body, _ := io.ReadAll(r.Body)

		f.mu.Lock()
		f.calls = append(f.calls, key)
		f.requests = append(f.requests, r.Header.Get(remote.HeaderRequestID))
		f.bodies[key] = string(body)
		fail, failing := f.failures[key]
		f.mu.Unlock()

		if failing {
			w.WriteHeader(fail.status)
			_, _ = io.WriteString(w, fail.body)
			return
		}
		r.Body = io.NopCloser(bytes.NewReader(body))
		mux.ServeHTTP(w, r)
	})
}

func (f *fakeStore) foodJSON(food *fakeFood) models.Food {
	ings := make([]models.Ingredient, 0, len(food.ingredients))
	for id := range food.ingredients {
		ings = append(ings, models.Ingredient{ID: id, Name: f.ingredients[id]})
	}
	sort.Slice(ings, func(i, j int) bool { return ings[i].ID < ings[j].ID })
	return models.Food{
		ID:          food.id,
		Name:        food.name,
		Price:       food.price,
		Category:    models.Category{ID: food.categoryID, Name: f.categories[food.categoryID]},
		Ingredients: ings,
	}
}

func (f *fakeStore) list(w http.ResponseWriter, r *http.Request) {
	f.mu.Lock()
	defer f.mu.Unlock()

	switch r.PathValue("res") {
	case "category":
		writeJSON(w, http.StatusOK, namedList[models.Category](f.categories, func(id int64, n string) models.Category { return models.Category{ID: id, Name: n} }))
	case "ingredient":
		writeJSON(w, http.StatusOK, namedList[models.Ingredient](f.ingredients, func(id int64, n string) models.Ingredient { return models.Ingredient{ID: id, Name: n} }))
	case "food":
		out := make([]models.Food, 0, len(f.foods))
		for _, id := range sortedIDs(f.foods) {
			out = append(out, f.foodJSON(f.foods[id]))
		}
		writeJSON(w, http.StatusOK, out)
	default:
		w.WriteHeader(http.StatusNotFound)
	}
}

func (f *fakeStore) searchFoods(w http.ResponseWriter, r *http.Request) {
	f.mu.Lock()
	defer f.mu.Unlock()

	name := r.URL.Query().Get("category")
	out := make([]models.Food, 0)
	for _, id := range sortedIDs(f.foods) {
		food := f.foods[id]
		if f.categories[food.categoryID] == name {
			out = append(out, f.foodJSON(food))
		}
	}
	writeJSON(w, http.StatusOK, out)
}

type foodBody struct {
	Name     string          `json:"name"`
	Price    decimal.Decimal `json:"price"`
	Category struct {
		ID int64 `json:"id"`
	} `json:"category"`
}

func (f *fakeStore) create(w http.ResponseWriter, r *http.Request) {
	if f.onCreate != nil {
		f.onCreate()
	}

	f.mu.Lock()
	defer f.mu.Unlock()

	f.nextID++
	id := f.nextID
	switch r.PathValue("res") {
	case "category", "ingredient":
		var body models.NameDraft
		_ = json.NewDecoder(r.Body).Decode(&body)
		target := f.categories
		if r.PathValue("res") == "ingredient" {
			target = f.ingredients
		}
		for _, existing := range target {
			if existing == body.Name {
				w.WriteHeader(http.StatusConflict)
				_, _ = fmt.Fprintf(w, "%s with name '%s' already exists", r.PathValue("res"), body.Name)
				return
			}
		}
		target[id] = body.Name
		writeJSON(w, http.StatusCreated, models.Category{ID: id, Name: body.Name})
	case "food":
		var body foodBody
		_ = json.NewDecoder(r.Body).Decode(&body)
		f.foods[id] = &fakeFood{id: id, name: body.Name, price: body.Price, categoryID: body.Category.ID, ingredients: map[int64]struct{}{}}
		writeJSON(w, http.StatusCreated, f.foodJSON(f.foods[id]))
	}
}

func (f *fakeStore) update(w http.ResponseWriter, r *http.Request) {
	f.mu.Lock()
	defer f.mu.Unlock()

	id, _ := strconv.ParseInt(r.PathValue("id"), 10, 64)
	switch r.PathValue("res") {
	case "category", "ingredient":
		var body models.NameDraft
		_ = json.NewDecoder(r.Body).Decode(&body)
		target := f.categories
		if r.PathValue("res") == "ingredient" {
			target = f.ingredients
		}
		if _, ok := target[id]; !ok {
			notFound(w, r.PathValue("res"), id)
			return
		}
		target[id] = body.Name
		writeJSON(w, http.StatusOK, models.Category{ID: id, Name: body.Name})
	case "food":
		food, ok := f.foods[id]
		if !ok {
			notFound(w, "Food", id)
			return
		}
		var body foodBody
		_ = json.NewDecoder(r.Body).Decode(&body)
		food.name, food.price, food.categoryID = body.Name, body.Price, body.Category.ID
		writeJSON(w, http.StatusOK, f.foodJSON(food))
	}
}

func (f *fakeStore) remove(w http.ResponseWriter, r *http.Request) {
	f.mu.Lock()
	defer f.mu.Unlock()

	id, _ := strconv.ParseInt(r.PathValue("id"), 10, 64)
	var found bool
	switch r.PathValue("res") {
	case "category":
		_, found = f.categories[id]
		delete(f.categories, id)
	case "ingredient":
		_, found = f.ingredients[id]
		delete(f.ingredients, id)
	case "food":
		_, found = f.foods[id]
		delete(f.foods, id)
	}
	if !found {
		notFound(w, r.PathValue("res"), id)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (f *fakeStore) link(w http.ResponseWriter, r *http.Request) {
	f.relation(w, r, true)
}

func (f *fakeStore) unlink(w http.ResponseWriter, r *http.Request) {
	f.relation(w, r, false)
}

func (f *fakeStore) relation(w http.ResponseWriter, r *http.Request, add bool) {
	f.mu.Lock()
	defer f.mu.Unlock()

	fid, _ := strconv.ParseInt(r.PathValue("fid"), 10, 64)
	iid, _ := strconv.ParseInt(r.PathValue("iid"), 10, 64)
	food, ok := f.foods[fid]
	if !ok {
		notFound(w, "Food", fid)
		return
	}
	if _, ok := f.ingredients[iid]; !ok {
		notFound(w, "Ingredient", iid)
		return
	}
	if add {
		food.ingredients[iid] = struct{}{}
	} else {
		delete(food.ingredients, iid)
	}
	writeJSON(w, http.StatusOK, f.foodJSON(food))
}

func notFound(w http.ResponseWriter, what string, id int64) {
	w.WriteHeader(http.StatusNotFound)
	_, _ = fmt.Fprintf(w, "%s with id %d not found", what, id)
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func namedList[T any](m map[int64]string, build func(int64, string) T) []T {
	ids := make([]int64, 0, len(m))
	for id := range m {
		ids = append(ids, id)
	}
	sort.Slice(ids, func(i, j int) bool { return ids[i] < ids[j] })
	out := make([]T, 0, len(ids))
	for _, id := range ids {
		out = append(out, build(id, m[id]))
	}
	return out
}

func sortedIDs(m map[int64]*fakeFood) []int64 {
	ids := make([]int64, 0, len(m))
	for id := range m {
		ids = append(ids, id)
	}
	sort.Slice(ids, func(i, j int) bool { return ids[i] < ids[j] })
	return ids
}

// setupCoordinator starts a seeded fake store and a Coordinator wired to it.
func setupCoordinator(t *testing.T, opts Options, recorder Recorder) (*Coordinator, *fakeStore) {
	fake := newFakeStore()
	fake.seedCategory(1, "Soups")
	fake.seedCategory(2, "Salads")
	for id, name := range map[int64]string{1: "Beet", 2: "Cabbage", 3: "Potato", 4: "Dill", 5: "Garlic"} {
		fake.seedIngredient(id, name)
	}
	fake.seedFood(10, "Borscht", "7.50", 1, 1, 2, 3)
	fake.seedFood(11, "Greek salad", "6.00", 2)

	srv := httptest.NewServer(fake.handler())
	t.Cleanup(srv.Close)

	client, err := remote.NewClient(remote.Config{BaseURL: srv.URL, TimeoutSeconds: 5}, zap.NewNop())
	require.NoError(t, err)

	return NewCoordinator(NewGateway(client), opts, recorder, zap.NewNop()), fake
}

