package recipes

import (
	"context"
	"errors"

	"foodgram/internal/core"
)

var (
	ErrRecipeNotFound     = errors.New("recipe not found")
	ErrTagNotFound        = errors.New("tag not found")
	ErrIngredientNotFound = errors.New("ingredient not found")
	ErrDuplicate          = errors.New("already exists")
)

// CatalogRepository holds the reference data recipes are built from.
type CatalogRepository interface {
	ListTags(ctx context.Context) ([]Tag, error)
	GetTag(ctx context.Context, id int64) (*Tag, error)
	CreateTag(ctx context.Context, tag *Tag) error
	MissingTags(ctx context.Context, ids []int64) ([]int64, error)

	SearchIngredients(ctx context.Context, name string) ([]Ingredient, error)
	GetIngredient(ctx context.Context, id int64) (*Ingredient, error)
	CreateIngredient(ctx context.Context, ingredient *Ingredient) error
	MissingIngredients(ctx context.Context, ids []int64) ([]int64, error)
}

// Repository stores recipes and the per-user relations pointing at them.
type Repository interface {
	Create(ctx context.Context, recipe *Recipe, lines []IngredientAmount, tagIDs []int64) error
	Update(ctx context.Context, recipe *Recipe, lines []IngredientAmount, tagIDs []int64) error
	Delete(ctx context.Context, id int64) error
	Get(ctx context.Context, id int64) (*Recipe, error)
	List(ctx context.Context, f Filter) ([]*Recipe, int, error)
	// NameTaken reports whether another recipe than exceptID uses name.
	NameTaken(ctx context.Context, name string, exceptID int64) (bool, error)

	HasRelation(ctx context.Context, rel Relation, userID, recipeID int64) (bool, error)
	AddRelation(ctx context.Context, rel Relation, userID, recipeID int64) error
	RemoveRelation(ctx context.Context, rel Relation, userID, recipeID int64) error
	RelatedAmong(ctx context.Context, rel Relation, userID int64, recipeIDs []int64) (map[int64]bool, error)

	// SummariesByAuthor returns newest first; limit < 0 means no limit.
	SummariesByAuthor(ctx context.Context, authorID int64, limit int) ([]core.RecipeSummary, error)
	CountByAuthor(ctx context.Context, authorID int64) (int, error)
}
