package recipes

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"foodgram/internal/core"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

type PostgresRepository struct {
	db *pgxpool.Pool
}

func NewPostgresRepository(db *pgxpool.Pool) *PostgresRepository {
	return &PostgresRepository{db: db}
}

// --------------------------------------------------
// Create recipe with its lines and tags
// --------------------------------------------------
func (r *PostgresRepository) Create(ctx context.Context, recipe *Recipe, lines []IngredientAmount, tagIDs []int64) error {
	return pgx.BeginFunc(ctx, r.db, func(tx pgx.Tx) error {
		err := tx.QueryRow(ctx, `
			INSERT INTO recipes (author_id, name, image, text, cooking_time)
			VALUES ($1, $2, $3, $4, $5)
			RETURNING id, pub_date
		`,
			recipe.AuthorID,
			recipe.Name,
			recipe.Image,
			recipe.Text,
			recipe.CookingTime,
		).Scan(&recipe.ID, &recipe.PubDate)
		if isUniqueViolation(err) {
			return ErrDuplicate
		}
		if err != nil {
			return err
		}
		return writeLinks(ctx, tx, recipe.ID, lines, tagIDs)
	})
}

// --------------------------------------------------
// Update recipe, replacing lines and tags
// --------------------------------------------------
func (r *PostgresRepository) Update(ctx context.Context, recipe *Recipe, lines []IngredientAmount, tagIDs []int64) error {
	return pgx.BeginFunc(ctx, r.db, func(tx pgx.Tx) error {
		tag, err := tx.Exec(ctx, `
			UPDATE recipes
			SET name = $1, image = $2, text = $3, cooking_time = $4
			WHERE id = $5
		`,
			recipe.Name,
			recipe.Image,
			recipe.Text,
			recipe.CookingTime,
			recipe.ID,
		)
		if isUniqueViolation(err) {
			return ErrDuplicate
		}
		if err != nil {
			return err
		}
		if tag.RowsAffected() == 0 {
			return ErrRecipeNotFound
		}

		if _, err := tx.Exec(ctx, `DELETE FROM recipe_ingredients WHERE recipe_id = $1`, recipe.ID); err != nil {
			return err
		}
		if _, err := tx.Exec(ctx, `DELETE FROM recipe_tags WHERE recipe_id = $1`, recipe.ID); err != nil {
			return err
		}
		return writeLinks(ctx, tx, recipe.ID, lines, tagIDs)
	})
}

func writeLinks(ctx context.Context, tx pgx.Tx, recipeID int64, lines []IngredientAmount, tagIDs []int64) error {
	lineRows := make([][]interface{}, 0, len(lines))
	for _, l := range lines {
		lineRows = append(lineRows, []interface{}{recipeID, l.ID, l.Amount})
	}
	if _, err := tx.CopyFrom(ctx,
		pgx.Identifier{"recipe_ingredients"},
		[]string{"recipe_id", "ingredient_id", "amount"},
		pgx.CopyFromRows(lineRows),
	); err != nil {
		return fmt.Errorf("write ingredient lines: %w", err)
	}

	tagRows := make([][]interface{}, 0, len(tagIDs))
	for _, id := range tagIDs {
		tagRows = append(tagRows, []interface{}{recipeID, id})
	}
	if _, err := tx.CopyFrom(ctx,
		pgx.Identifier{"recipe_tags"},
		[]string{"recipe_id", "tag_id"},
		pgx.CopyFromRows(tagRows),
	); err != nil {
		return fmt.Errorf("write recipe tags: %w", err)
	}
	return nil
}

func (r *PostgresRepository) Delete(ctx context.Context, id int64) error {
	tag, err := r.db.Exec(ctx, `DELETE FROM recipes WHERE id = $1`, id)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return ErrRecipeNotFound
	}
	return nil
}

const recipeColumns = `r.id, r.author_id, r.name, r.image, r.text, r.cooking_time, r.pub_date`

func scanRecipe(row pgx.Row) (*Recipe, error) {
	rec := &Recipe{}
	err := row.Scan(
		&rec.ID,
		&rec.AuthorID,
		&rec.Name,
		&rec.Image,
		&rec.Text,
		&rec.CookingTime,
		&rec.PubDate,
	)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, ErrRecipeNotFound
	}
	if err != nil {
		return nil, err
	}
	return rec, nil
}

func (r *PostgresRepository) Get(ctx context.Context, id int64) (*Recipe, error) {
	rec, err := scanRecipe(r.db.QueryRow(ctx,
		`SELECT `+recipeColumns+` FROM recipes r WHERE r.id = $1`, id))
	if err != nil {
		return nil, err
	}
	if err := r.loadDetails(ctx, []*Recipe{rec}); err != nil {
		return nil, err
	}
	return rec, nil
}

func (r *PostgresRepository) NameTaken(ctx context.Context, name string, exceptID int64) (bool, error) {
	var taken bool
	err := r.db.QueryRow(ctx,
		`SELECT EXISTS(SELECT 1 FROM recipes WHERE name = $1 AND id <> $2)`, name, exceptID).Scan(&taken)
	return taken, err
}

// --------------------------------------------------
// List with filters, newest first
// --------------------------------------------------
func (r *PostgresRepository) List(ctx context.Context, f Filter) ([]*Recipe, int, error) {
	var (
		where []string
		args  []interface{}
	)
	arg := func(v interface{}) string {
		args = append(args, v)
		return fmt.Sprintf("$%d", len(args))
	}

	if f.AuthorID != 0 {
		where = append(where, "r.author_id = "+arg(f.AuthorID))
	}
	if len(f.TagSlugs) > 0 {
		where = append(where, `EXISTS (
			SELECT 1 FROM recipe_tags rt
			JOIN tags t ON t.id = rt.tag_id
			WHERE rt.recipe_id = r.id AND t.slug = ANY(`+arg(f.TagSlugs)+`))`)
	}
	if f.Viewer != 0 && f.IsFavorited != nil {
		where = append(where, relationClause(Favorites, arg(f.Viewer), *f.IsFavorited))
	}
	if f.Viewer != 0 && f.IsInCart != nil {
		where = append(where, relationClause(ShoppingCart, arg(f.Viewer), *f.IsInCart))
	}

	clause := ""
	if len(where) > 0 {
		clause = "WHERE " + strings.Join(where, " AND ")
	}

	var total int
	if err := r.db.QueryRow(ctx, `SELECT count(*) FROM recipes r `+clause, args...).Scan(&total); err != nil {
		return nil, 0, err
	}

	query := `SELECT ` + recipeColumns + ` FROM recipes r ` + clause +
		` ORDER BY r.pub_date DESC, r.id DESC LIMIT ` + arg(f.Limit) + ` OFFSET ` + arg(f.Offset)

	rows, err := r.db.Query(ctx, query, args...)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()

	list := []*Recipe{}
	for rows.Next() {
		rec, err := scanRecipe(rows)
		if err != nil {
			return nil, 0, err
		}
		list = append(list, rec)
	}
	if err := rows.Err(); err != nil {
		return nil, 0, err
	}

	if err := r.loadDetails(ctx, list); err != nil {
		return nil, 0, err
	}
	return list, total, nil
}

func relationClause(rel Relation, userParam string, want bool) string {
	exists := `EXISTS (SELECT 1 FROM ` + pgx.Identifier{string(rel)}.Sanitize() +
		` x WHERE x.recipe_id = r.id AND x.user_id = ` + userParam + `)`
	if want {
		return exists
	}
	return "NOT " + exists
}

// loadDetails fills tags and ingredient lines for recipes in two queries.
func (r *PostgresRepository) loadDetails(ctx context.Context, list []*Recipe) error {
	if len(list) == 0 {
		return nil
	}

	byID := make(map[int64]*Recipe, len(list))
	ids := make([]int64, 0, len(list))
	for _, rec := range list {
		rec.Tags = []Tag{}
		rec.Ingredients = []RecipeIngredient{}
		byID[rec.ID] = rec
		ids = append(ids, rec.ID)
	}

	rows, err := r.db.Query(ctx, `
		SELECT rt.recipe_id, t.id, t.name, t.color, t.slug
		FROM recipe_tags rt
		JOIN tags t ON t.id = rt.tag_id
		WHERE rt.recipe_id = ANY($1)
		ORDER BY t.name
	`, ids)
	if err != nil {
		return err
	}
	for rows.Next() {
		var recipeID int64
		var t Tag
		if err := rows.Scan(&recipeID, &t.ID, &t.Name, &t.Color, &t.Slug); err != nil {
			rows.Close()
			return err
		}
		byID[recipeID].Tags = append(byID[recipeID].Tags, t)
	}
	rows.Close()
	if err := rows.Err(); err != nil {
		return err
	}

	rows, err = r.db.Query(ctx, `
		SELECT ri.recipe_id, i.id, i.name, i.measurement_unit, ri.amount
		FROM recipe_ingredients ri
		JOIN ingredients i ON i.id = ri.ingredient_id
		WHERE ri.recipe_id = ANY($1)
		ORDER BY ri.id
	`, ids)
	if err != nil {
		return err
	}
	defer rows.Close()
	for rows.Next() {
		var recipeID int64
		var line RecipeIngredient
		if err := rows.Scan(&recipeID, &line.ID, &line.Name, &line.MeasurementUnit, &line.Amount); err != nil {
			return err
		}
		byID[recipeID].Ingredients = append(byID[recipeID].Ingredients, line)
	}
	return rows.Err()
}

// --------------------------------------------------
// Favorites / shopping cart
// --------------------------------------------------
func (r *PostgresRepository) HasRelation(ctx context.Context, rel Relation, userID, recipeID int64) (bool, error) {
	var exists bool
	err := r.db.QueryRow(ctx, `
		SELECT EXISTS (
			SELECT 1 FROM `+pgx.Identifier{string(rel)}.Sanitize()+`
			WHERE user_id = $1 AND recipe_id = $2
		)
	`, userID, recipeID).Scan(&exists)
	return exists, err
}

func (r *PostgresRepository) AddRelation(ctx context.Context, rel Relation, userID, recipeID int64) error {
	_, err := r.db.Exec(ctx, `
		INSERT INTO `+pgx.Identifier{string(rel)}.Sanitize()+` (user_id, recipe_id)
		VALUES ($1, $2)
	`, userID, recipeID)
	if isUniqueViolation(err) {
		return ErrDuplicate
	}
	return err
}

func (r *PostgresRepository) RemoveRelation(ctx context.Context, rel Relation, userID, recipeID int64) error {
	_, err := r.db.Exec(ctx, `
		DELETE FROM `+pgx.Identifier{string(rel)}.Sanitize()+`
		WHERE user_id = $1 AND recipe_id = $2
	`, userID, recipeID)
	return err
}

func (r *PostgresRepository) RelatedAmong(ctx context.Context, rel Relation, userID int64, recipeIDs []int64) (map[int64]bool, error) {
	out := make(map[int64]bool, len(recipeIDs))
	if userID == 0 || len(recipeIDs) == 0 {
		return out, nil
	}

	rows, err := r.db.Query(ctx, `
		SELECT recipe_id FROM `+pgx.Identifier{string(rel)}.Sanitize()+`
		WHERE user_id = $1 AND recipe_id = ANY($2)
	`, userID, recipeIDs)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	for rows.Next() {
		var id int64
		if err := rows.Scan(&id); err != nil {
			return nil, err
		}
		out[id] = true
	}
	return out, rows.Err()
}

// --------------------------------------------------
// Author summaries (subscriptions)
// --------------------------------------------------
func (r *PostgresRepository) SummariesByAuthor(ctx context.Context, authorID int64, limit int) ([]core.RecipeSummary, error) {
	query := `
		SELECT id, name, image, cooking_time
		FROM recipes
		WHERE author_id = $1
		ORDER BY pub_date DESC, id DESC
	`
	args := []interface{}{authorID}
	if limit >= 0 {
		query += ` LIMIT $2`
		args = append(args, limit)
	}

	rows, err := r.db.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := []core.RecipeSummary{}
	for rows.Next() {
		var s core.RecipeSummary
		if err := rows.Scan(&s.ID, &s.Name, &s.Image, &s.CookingTime); err != nil {
			return nil, err
		}
		out = append(out, s)
	}
	return out, rows.Err()
}

func (r *PostgresRepository) CountByAuthor(ctx context.Context, authorID int64) (int, error) {
	var n int
	err := r.db.QueryRow(ctx, `SELECT count(*) FROM recipes WHERE author_id = $1`, authorID).Scan(&n)
	return n, err
}
