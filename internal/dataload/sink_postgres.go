package dataload

import (
	"context"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

type PostgresSink struct {
	db *pgxpool.Pool
}

func NewPostgresSink(db *pgxpool.Pool) *PostgresSink {
	return &PostgresSink{db: db}
}

func (s *PostgresSink) InsertIngredients(ctx context.Context, records []IngredientRecord) (int, error) {
	batch := &pgx.Batch{}
	for _, r := range records {
		batch.Queue(`
			INSERT INTO ingredients (name, measurement_unit)
			VALUES ($1, $2)
			ON CONFLICT DO NOTHING
		`, r.Name, r.MeasurementUnit)
	}
	return s.send(ctx, batch)
}

func (s *PostgresSink) InsertTags(ctx context.Context, records []TagRecord) (int, error) {
	batch := &pgx.Batch{}
	for _, r := range records {
		batch.Queue(`
			INSERT INTO tags (name, color, slug)
			VALUES ($1, $2, $3)
			ON CONFLICT DO NOTHING
		`, r.Name, r.Color, r.Slug)
	}
	return s.send(ctx, batch)
}

// send runs the batch in one transaction and sums affected rows.
func (s *PostgresSink) send(ctx context.Context, batch *pgx.Batch) (int, error) {
	if batch.Len() == 0 {
		return 0, nil
	}

	inserted := 0
	err := pgx.BeginFunc(ctx, s.db, func(tx pgx.Tx) error {
		results := tx.SendBatch(ctx, batch)
		for i := 0; i < batch.Len(); i++ {
			tag, err := results.Exec()
			if err != nil {
				results.Close()
				return err
			}
			inserted += int(tag.RowsAffected())
		}
		return results.Close()
	})
	return inserted, err
}
