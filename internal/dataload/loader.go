package dataload

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	"foodgram/internal/logger"
)

const (
	IngredientsFile = "ingredients.csv"
	TagsFile        = "tags.csv"
)

// Sink persists parsed records and reports how many rows were new.
type Sink interface {
	InsertIngredients(ctx context.Context, records []IngredientRecord) (int, error)
	InsertTags(ctx context.Context, records []TagRecord) (int, error)
}

type Result struct {
	Ingredients int
	Tags        int
}

type Loader struct {
	sink Sink
	log  *logger.Logger
}

func NewLoader(sink Sink, log *logger.Logger) *Loader {
	return &Loader{sink: sink, log: log.With("service", "DataLoader")}
}

// LoadDir imports ingredients.csv and tags.csv from dir. A missing
// tags.csv is not an error.
func (l *Loader) LoadDir(ctx context.Context, dir string) (Result, error) {
	var res Result

	f, err := os.Open(filepath.Join(dir, IngredientsFile))
	if err != nil {
		return res, fmt.Errorf("open ingredients: %w", err)
	}
	ingredients, err := ParseIngredients(f)
	f.Close()
	if err != nil {
		return res, err
	}
	if res.Ingredients, err = l.sink.InsertIngredients(ctx, ingredients); err != nil {
		return res, fmt.Errorf("insert ingredients: %w", err)
	}
	l.log.Info("ingredients imported", "parsed", len(ingredients), "inserted", res.Ingredients)

	f, err = os.Open(filepath.Join(dir, TagsFile))
	if os.IsNotExist(err) {
		l.log.Warn("tags file not found, skipping", "dir", dir)
		return res, nil
	}
	if err != nil {
		return res, fmt.Errorf("open tags: %w", err)
	}
	tags, err := ParseTags(f)
	f.Close()
	if err != nil {
		return res, err
	}
	if res.Tags, err = l.sink.InsertTags(ctx, tags); err != nil {
		return res, fmt.Errorf("insert tags: %w", err)
	}
	l.log.Info("tags imported", "parsed", len(tags), "inserted", res.Tags)

	return res, nil
}
