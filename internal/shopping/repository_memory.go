package shopping

import (
	"context"
	"sync"
)

type InMemoryCartReader struct {
	mu    sync.Mutex
	carts map[int64][]CartEntry
	lines map[int64][]IngredientLine
	err   error
}

func NewInMemoryCartReader() *InMemoryCartReader {
	return &InMemoryCartReader{
		carts: make(map[int64][]CartEntry),
		lines: make(map[int64][]IngredientLine),
	}
}

func (r *InMemoryCartReader) SetRecipe(recipeID int64, lines ...IngredientLine) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.lines[recipeID] = append([]IngredientLine(nil), lines...)
}

func (r *InMemoryCartReader) AddToCart(userID, recipeID int64) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.carts[userID] = append(r.carts[userID], CartEntry{RecipeID: recipeID})
}

// FailWith makes every subsequent read return err.
func (r *InMemoryCartReader) FailWith(err error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.err = err
}

func (r *InMemoryCartReader) CartEntriesForUser(ctx context.Context, userID int64) ([]CartEntry, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.err != nil {
		return nil, r.err
	}
	return append([]CartEntry(nil), r.carts[userID]...), nil
}

func (r *InMemoryCartReader) IngredientLinesForRecipe(ctx context.Context, recipeID int64) ([]IngredientLine, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.err != nil {
		return nil, r.err
	}
	return append([]IngredientLine(nil), r.lines[recipeID]...), nil
}
