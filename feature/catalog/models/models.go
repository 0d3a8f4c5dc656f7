package models

import (
	"encoding/json"

	"github.com/shopspring/decimal"
)

// Category groups foods on the menu.
type Category struct {
	ID   int64  `json:"id"`
	Name string `json:"name"`
}

// Key returns the store-assigned id.
func (c Category) Key() int64 { return c.ID }

// Ingredient can be linked to any number of foods.
type Ingredient struct {
	ID   int64  `json:"id"`
	Name string `json:"name"`
}

// Key returns the store-assigned id.
func (i Ingredient) Key() int64 { return i.ID }

// Food is a menu item with exactly one category and zero or more ingredients.
type Food struct {
	ID          int64           `json:"id"`
	Name        string          `json:"name"`
	Price       decimal.Decimal `json:"price" swaggertype:"number"`
	Category    Category        `json:"category"`
	Ingredients []Ingredient    `json:"ingredients"`
}

// Key returns the store-assigned id.
func (f Food) Key() int64 { return f.ID }

// IngredientIDs returns the ids of the linked ingredients in payload order.
func (f Food) IngredientIDs() []int64 {
	ids := make([]int64, 0, len(f.Ingredients))
	for _, ing := range f.Ingredients {
		ids = append(ids, ing.ID)
	}
	return ids
}

// FoodDraft is the client input for creating or updating a food.
type FoodDraft struct {
	Name       string          `json:"name"`
	Price      decimal.Decimal `json:"price" swaggertype:"number"`
	CategoryID int64           `json:"category_id"`
}

// NameDraft is the client input for category and ingredient writes.
type NameDraft struct {
	Name string `json:"name"`
}

type categoryRef struct {
	ID int64 `json:"id"`
}

// FoodPayload is the wire body of POST /food and PUT /food/{id}.
// Ingredients are always sent empty; membership changes go through the relation endpoint.
type FoodPayload struct {
	Name        string       `json:"name"`
	Price       json.Number  `json:"price"`
	Category    categoryRef  `json:"category"`
	Ingredients []Ingredient `json:"ingredients"`
}

// Payload converts the draft into its wire body.
func (d FoodDraft) Payload() FoodPayload {
	return FoodPayload{
		Name:        d.Name,
		Price:       json.Number(d.Price.String()),
		Category:    categoryRef{ID: d.CategoryID},
		Ingredients: []Ingredient{},
	}
}
