package recipes

import (
	"context"
	"errors"
	"strings"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
)

const uniqueViolation = "23505"

func isUniqueViolation(err error) bool {
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && pgErr.Code == uniqueViolation
}

type PostgresCatalogRepository struct {
	db *pgxpool.Pool
}

func NewPostgresCatalogRepository(db *pgxpool.Pool) *PostgresCatalogRepository {
	return &PostgresCatalogRepository{db: db}
}

// --------------------------------------------------
// Tags
// --------------------------------------------------
func (r *PostgresCatalogRepository) ListTags(ctx context.Context) ([]Tag, error) {
	rows, err := r.db.Query(ctx, `
		SELECT id, name, color, slug
		FROM tags
		ORDER BY name
	`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	tags := []Tag{}
	for rows.Next() {
		var t Tag
		if err := rows.Scan(&t.ID, &t.Name, &t.Color, &t.Slug); err != nil {
			return nil, err
		}
		tags = append(tags, t)
	}
	return tags, rows.Err()
}

func (r *PostgresCatalogRepository) GetTag(ctx context.Context, id int64) (*Tag, error) {
	var t Tag
	err := r.db.QueryRow(ctx, `
		SELECT id, name, color, slug
		FROM tags
		WHERE id = $1
	`, id).Scan(&t.ID, &t.Name, &t.Color, &t.Slug)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, ErrTagNotFound
	}
	if err != nil {
		return nil, err
	}
	return &t, nil
}

func (r *PostgresCatalogRepository) CreateTag(ctx context.Context, tag *Tag) error {
	err := r.db.QueryRow(ctx, `
		INSERT INTO tags (name, color, slug)
		VALUES ($1, $2, $3)
		RETURNING id
	`, tag.Name, tag.Color, tag.Slug).Scan(&tag.ID)
	if isUniqueViolation(err) {
		return ErrDuplicate
	}
	return err
}

func (r *PostgresCatalogRepository) MissingTags(ctx context.Context, ids []int64) ([]int64, error) {
	return missingIDs(ctx, r.db, "tags", ids)
}

// --------------------------------------------------
// Ingredients
// --------------------------------------------------

var likeEscaper = strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)

// SearchIngredients matches name case-insensitively, prefix matches first.
func (r *PostgresCatalogRepository) SearchIngredients(ctx context.Context, name string) ([]Ingredient, error) {
	pattern := likeEscaper.Replace(strings.TrimSpace(name))

	rows, err := r.db.Query(ctx, `
		SELECT id, name, measurement_unit
		FROM ingredients
		WHERE name ILIKE '%' || $1 || '%'
		ORDER BY (name ILIKE $1 || '%') DESC, name
	`, pattern)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	ingredients := []Ingredient{}
	for rows.Next() {
		var i Ingredient
		if err := rows.Scan(&i.ID, &i.Name, &i.MeasurementUnit); err != nil {
			return nil, err
		}
		ingredients = append(ingredients, i)
	}
	return ingredients, rows.Err()
}

func (r *PostgresCatalogRepository) GetIngredient(ctx context.Context, id int64) (*Ingredient, error) {
	var i Ingredient
	err := r.db.QueryRow(ctx, `
		SELECT id, name, measurement_unit
		FROM ingredients
		WHERE id = $1
	`, id).Scan(&i.ID, &i.Name, &i.MeasurementUnit)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, ErrIngredientNotFound
	}
	if err != nil {
		return nil, err
	}
	return &i, nil
}

func (r *PostgresCatalogRepository) CreateIngredient(ctx context.Context, ingredient *Ingredient) error {
	err := r.db.QueryRow(ctx, `
		INSERT INTO ingredients (name, measurement_unit)
		VALUES ($1, $2)
		RETURNING id
	`, ingredient.Name, ingredient.MeasurementUnit).Scan(&ingredient.ID)
	if isUniqueViolation(err) {
		return ErrDuplicate
	}
	return err
}

func (r *PostgresCatalogRepository) MissingIngredients(ctx context.Context, ids []int64) ([]int64, error) {
	return missingIDs(ctx, r.db, "ingredients", ids)
}

// missingIDs returns the ids not present in table. table is never user input.
func missingIDs(ctx context.Context, db *pgxpool.Pool, table string, ids []int64) ([]int64, error) {
	if len(ids) == 0 {
		return nil, nil
	}

	rows, err := db.Query(ctx, `
		SELECT wanted.id
		FROM unnest($1::bigint[]) AS wanted(id)
		LEFT JOIN `+pgx.Identifier{table}.Sanitize()+` t ON t.id = wanted.id
		WHERE t.id IS NULL
	`, ids)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var missing []int64
	for rows.Next() {
		var id int64
		if err := rows.Scan(&id); err != nil {
			return nil, err
		}
		missing = append(missing, id)
	}
	return missing, rows.Err()
}
