package db

import (
	"context"
	"os"
	"testing"

	"foodgram/internal/logger"
)

func TestMigrateURL(t *testing.T) {
	cases := map[string]string{
		"postgres://u:p@localhost:5432/foodgram":   "pgx5://u:p@localhost:5432/foodgram",
		"postgresql://u:p@localhost:5432/foodgram": "pgx5://u:p@localhost:5432/foodgram",
		"pgx5://already":                           "pgx5://already",
	}
	for in, want := range cases {
		if got := migrateURL(in); got != want {
			t.Errorf("migrateURL(%q) = %q, want %q", in, got, want)
		}
	}
}

func TestConnectPostgres(t *testing.T) {
	t.Run("missing DATABASE_URL returns an error", func(t *testing.T) {
		if _, err := ConnectPostgres(context.Background(), "", logger.Nop()); err == nil {
			t.Fatal("expected error for empty dsn")
		}
	})

	t.Run("valid DATABASE_URL should connect and migrate", func(t *testing.T) {
		dsn := os.Getenv("DATABASE_URL")
		if dsn == "" {
			t.Skip("DATABASE_URL not set, skipping integration test")
		}

		pool, err := ConnectPostgres(context.Background(), dsn, logger.Nop())
		if err != nil {
			t.Fatalf("connect: %v", err)
		}
		defer pool.Close()

		var n int
		if err := pool.QueryRow(context.Background(), `SELECT count(*) FROM carts`).Scan(&n); err != nil {
			t.Fatalf("carts table missing: %v", err)
		}
	})
}
