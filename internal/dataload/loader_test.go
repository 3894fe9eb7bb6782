package dataload

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"foodgram/internal/logger"
)

type memorySink struct {
	ingredients map[string]IngredientRecord
	tags        map[string]TagRecord
}

func newMemorySink() *memorySink {
	return &memorySink{ingredients: map[string]IngredientRecord{}, tags: map[string]TagRecord{}}
}

func (s *memorySink) InsertIngredients(ctx context.Context, records []IngredientRecord) (int, error) {
	n := 0
	for _, r := range records {
		if _, ok := s.ingredients[r.Name]; ok {
			continue
		}
		s.ingredients[r.Name] = r
		n++
	}
	return n, nil
}

func (s *memorySink) InsertTags(ctx context.Context, records []TagRecord) (int, error) {
	n := 0
	for _, r := range records {
		if _, ok := s.tags[r.Name]; ok {
			continue
		}
		s.tags[r.Name] = r
		n++
	}
	return n, nil
}

func TestParseIngredientsSkipsHeaderAndDuplicates(t *testing.T) {
	in := "name,measurement_unit\nабрикосовое варенье,г\n\"мука, пшеничная\",г\nабрикосовое варенье,кг\n"

	got, err := ParseIngredients(strings.NewReader(in))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(got) != 2 {
		t.Fatalf("expected 2 records, got %+v", got)
	}
	if got[0].MeasurementUnit != "г" || got[1].Name != "мука, пшеничная" {
		t.Fatalf("unexpected records %+v", got)
	}
}

func TestParseTagsNormalisesColor(t *testing.T) {
	got, err := ParseTags(strings.NewReader("name,color,slug\nЗавтрак,#e26c2d,breakfast\n"))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(got) != 1 || got[0].Color != "#E26C2D" || got[0].Slug != "breakfast" {
		t.Fatalf("unexpected tags %+v", got)
	}
}

func TestParseRejectsWrongWidth(t *testing.T) {
	if _, err := ParseIngredients(strings.NewReader("name,unit\nсоль\n")); err == nil {
		t.Fatal("expected error for short row")
	}
}

func TestParseEmptyInput(t *testing.T) {
	got, err := ParseIngredients(strings.NewReader(""))
	if err != nil || len(got) != 0 {
		t.Fatalf("expected no records, got %+v err=%v", got, err)
	}
}

func TestLoadDirIsIdempotent(t *testing.T) {
	dir := t.TempDir()
	write := func(name, body string) {
		if err := os.WriteFile(filepath.Join(dir, name), []byte(body), 0o644); err != nil {
			t.Fatal(err)
		}
	}
	write(IngredientsFile, "name,measurement_unit\nсоль,г\nсахар,г\n")
	write(TagsFile, "name,color,slug\nЗавтрак,#E26C2D,breakfast\n")

	sink := newMemorySink()
	loader := NewLoader(sink, logger.Nop())

	res, err := loader.LoadDir(context.Background(), dir)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if res.Ingredients != 2 || res.Tags != 1 {
		t.Fatalf("unexpected first result %+v", res)
	}

	res, err = loader.LoadDir(context.Background(), dir)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if res.Ingredients != 0 || res.Tags != 0 {
		t.Fatalf("second import should insert nothing, got %+v", res)
	}
}

func TestLoadDirWithoutTags(t *testing.T) {
	dir := t.TempDir()
	_ = os.WriteFile(filepath.Join(dir, IngredientsFile), []byte("name,measurement_unit\nсоль,г\n"), 0o644)

	res, err := NewLoader(newMemorySink(), logger.Nop()).LoadDir(context.Background(), dir)
	if err != nil || res.Ingredients != 1 || res.Tags != 0 {
		t.Fatalf("unexpected result %+v err=%v", res, err)
	}
}

func TestLoadDirMissingIngredients(t *testing.T) {
	if _, err := NewLoader(newMemorySink(), logger.Nop()).LoadDir(context.Background(), t.TempDir()); err == nil {
		t.Fatal("expected error for missing ingredients.csv")
	}
}
