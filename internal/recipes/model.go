package recipes

import (
	"time"

	"foodgram/internal/auth"
	"foodgram/internal/core"
)

type Tag struct {
	ID    int64  `json:"id"`
	Name  string `json:"name"`
	Color string `json:"color"`
	Slug  string `json:"slug"`
}

type Ingredient struct {
	ID              int64  `json:"id"`
	Name            string `json:"name"`
	MeasurementUnit string `json:"measurement_unit"`
}

// RecipeIngredient is an ingredient line as shown inside a recipe.
type RecipeIngredient struct {
	ID              int64  `json:"id"`
	Name            string `json:"name"`
	MeasurementUnit string `json:"measurement_unit"`
	Amount          int    `json:"amount"`
}

// IngredientAmount is an ingredient line as written by a client.
type IngredientAmount struct {
	ID     int64 `json:"id" validate:"required,gte=1"`
	Amount int   `json:"amount" validate:"required,gte=1,max=32000"`
}

type Recipe struct {
	ID          int64
	AuthorID    int64
	Name        string
	Image       string
	Text        string
	CookingTime int
	PubDate     time.Time
	Tags        []Tag
	Ingredients []RecipeIngredient
}

func (r *Recipe) Summary() core.RecipeSummary {
	return core.RecipeSummary{
		ID:          r.ID,
		Name:        r.Name,
		Image:       r.Image,
		CookingTime: r.CookingTime,
	}
}

// RecipeView is the full recipe representation for a given viewer.
type RecipeView struct {
	ID               int64              `json:"id"`
	Tags             []Tag              `json:"tags"`
	Author           auth.Profile       `json:"author"`
	Ingredients      []RecipeIngredient `json:"ingredients"`
	IsFavorited      bool               `json:"is_favorited"`
	IsInShoppingCart bool               `json:"is_in_shopping_cart"`
	Name             string             `json:"name"`
	Image            string             `json:"image"`
	Text             string             `json:"text"`
	CookingTime      int                `json:"cooking_time"`
}

// Relation names a user → recipe link table.
type Relation string

const (
	Favorites    Relation = "favorites"
	ShoppingCart Relation = "carts"
)

// Filter narrows recipe listings. Nil pointers mean "don't filter".
type Filter struct {
	AuthorID    int64
	TagSlugs    []string
	Viewer      int64
	IsFavorited *bool
	IsInCart    *bool
	Limit       int
	Offset      int
}
