package shopping

import (
	"context"

	"github.com/jackc/pgx/v5/pgxpool"
)

type PostgresCartReader struct {
	db *pgxpool.Pool
}

func NewPostgresCartReader(db *pgxpool.Pool) *PostgresCartReader {
	return &PostgresCartReader{db: db}
}

func (r *PostgresCartReader) CartEntriesForUser(ctx context.Context, userID int64) ([]CartEntry, error) {
	rows, err := r.db.Query(ctx, `
		SELECT recipe_id
		FROM carts
		WHERE user_id = $1
		ORDER BY id
	`, userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var entries []CartEntry
	for rows.Next() {
		var e CartEntry
		if err := rows.Scan(&e.RecipeID); err != nil {
			return nil, err
		}
		entries = append(entries, e)
	}
	return entries, rows.Err()
}

func (r *PostgresCartReader) IngredientLinesForRecipe(ctx context.Context, recipeID int64) ([]IngredientLine, error) {
	rows, err := r.db.Query(ctx, `
		SELECT i.name, i.measurement_unit, ri.amount
		FROM recipe_ingredients ri
		JOIN ingredients i ON i.id = ri.ingredient_id
		WHERE ri.recipe_id = $1
		ORDER BY ri.id
	`, recipeID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var lines []IngredientLine
	for rows.Next() {
		var l IngredientLine
		if err := rows.Scan(&l.Name, &l.Unit, &l.Amount); err != nil {
			return nil, err
		}
		lines = append(lines, l)
	}
	return lines, rows.Err()
}
