// Package shopping builds the downloadable shopping list for a user's cart:
// ingredient lines are merged by name, rendered as a PDF table and handed
// back as an attachment.
package shopping

import (
	"context"
	"fmt"
)

// CartEntry is one recipe placed in a user's shopping cart.
type CartEntry struct {
	RecipeID int64
}

// IngredientLine is one ingredient of a recipe with its required amount.
type IngredientLine struct {
	Name   string
	Unit   string
	Amount int
}

// CartReader is the read-only view of persistence the aggregator needs.
// Entries and lines are returned in insertion order.
type CartReader interface {
	CartEntriesForUser(ctx context.Context, userID int64) ([]CartEntry, error)
	IngredientLinesForRecipe(ctx context.Context, recipeID int64) ([]IngredientLine, error)
}

// Row is one aggregated shopping list line.
type Row struct {
	Name  string
	Unit  string
	Total int
}

// List maps ingredient name to its aggregated row, keeping first-seen order.
type List struct {
	order []string
	rows  map[string]*Row
}

func NewList() *List {
	return &List{rows: make(map[string]*Row)}
}

// Add sums amount into name. The unit of the first occurrence wins.
func (l *List) Add(name, unit string, amount int) {
	if row, ok := l.rows[name]; ok {
		row.Total += amount
		return
	}
	l.order = append(l.order, name)
	l.rows[name] = &Row{Name: name, Unit: unit, Total: amount}
}

func (l *List) Len() int {
	return len(l.order)
}

func (l *List) Get(name string) (Row, bool) {
	row, ok := l.rows[name]
	if !ok {
		return Row{}, false
	}
	return *row, true
}

// Rows returns a copy of the rows in insertion order.
func (l *List) Rows() []Row {
	out := make([]Row, 0, len(l.order))
	for _, name := range l.order {
		out = append(out, *l.rows[name])
	}
	return out
}

type Aggregator struct {
	reader CartReader
}

func NewAggregator(reader CartReader) *Aggregator {
	return &Aggregator{reader: reader}
}

// Aggregate walks every ingredient line of every recipe in the user's cart.
// An empty cart yields an empty list.
func (a *Aggregator) Aggregate(ctx context.Context, userID int64) (*List, error) {
	entries, err := a.reader.CartEntriesForUser(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("load cart: %w", err)
	}

	list := NewList()
	for _, entry := range entries {
		lines, err := a.reader.IngredientLinesForRecipe(ctx, entry.RecipeID)
		if err != nil {
			return nil, fmt.Errorf("load ingredients of recipe %d: %w", entry.RecipeID, err)
		}
		for _, line := range lines {
			list.Add(line.Name, line.Unit, line.Amount)
		}
	}
	return list, nil
}
