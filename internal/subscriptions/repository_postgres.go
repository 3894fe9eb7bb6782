package subscriptions

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
)

type PostgresRepository struct {
	db *pgxpool.Pool
}

func NewPostgresRepository(db *pgxpool.Pool) *PostgresRepository {
	return &PostgresRepository{db: db}
}

// --------------------------------------------------
// Reader
// --------------------------------------------------
func (r *PostgresRepository) IsSubscribed(ctx context.Context, userID, authorID int64) (bool, error) {
	var exists bool
	err := r.db.QueryRow(ctx, `
		SELECT EXISTS(SELECT 1 FROM follows WHERE user_id = $1 AND author_id = $2)
	`, userID, authorID).Scan(&exists)
	return exists, err
}

func (r *PostgresRepository) SubscribedAmong(ctx context.Context, userID int64, authorIDs []int64) (map[int64]bool, error) {
	out := make(map[int64]bool)
	if userID == 0 || len(authorIDs) == 0 {
		return out, nil
	}

	rows, err := r.db.Query(ctx, `
		SELECT author_id FROM follows WHERE user_id = $1 AND author_id = ANY($2)
	`, userID, authorIDs)
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
// Writes
// --------------------------------------------------
func (r *PostgresRepository) Follow(ctx context.Context, userID, authorID int64) error {
	_, err := r.db.Exec(ctx, `
		INSERT INTO follows (user_id, author_id) VALUES ($1, $2)
	`, userID, authorID)
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) && pgErr.Code == "23505" {
		return ErrDuplicate
	}
	return err
}

func (r *PostgresRepository) Unfollow(ctx context.Context, userID, authorID int64) error {
	_, err := r.db.Exec(ctx, `
		DELETE FROM follows WHERE user_id = $1 AND author_id = $2
	`, userID, authorID)
	return err
}

func (r *PostgresRepository) Authors(ctx context.Context, userID int64, limit, offset int) ([]int64, int, error) {
	var total int
	if err := r.db.QueryRow(ctx, `
		SELECT COUNT(*) FROM follows WHERE user_id = $1
	`, userID).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("count follows: %w", err)
	}

	rows, err := r.db.Query(ctx, `
		SELECT author_id FROM follows
		WHERE user_id = $1
		ORDER BY id
		LIMIT $2 OFFSET $3
	`, userID, limit, offset)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()

	ids := []int64{}
	for rows.Next() {
		var id int64
		if err := rows.Scan(&id); err != nil {
			return nil, 0, err
		}
		ids = append(ids, id)
	}
	return ids, total, rows.Err()
}
