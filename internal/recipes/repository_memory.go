package recipes

import (
	"context"
	"math"
	"sort"
	"strings"
	"sync"
	"time"

	"foodgram/internal/core"
)

// InMemoryCatalogRepository keeps tags and ingredients in maps. Tests use it.
type InMemoryCatalogRepository struct {
	mu          sync.Mutex
	tags        map[int64]Tag
	ingredients map[int64]Ingredient
	nextID      int64
}

func NewInMemoryCatalogRepository() *InMemoryCatalogRepository {
	return &InMemoryCatalogRepository{
		tags:        make(map[int64]Tag),
		ingredients: make(map[int64]Ingredient),
		nextID:      1,
	}
}

func (r *InMemoryCatalogRepository) ListTags(ctx context.Context) ([]Tag, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	out := make([]Tag, 0, len(r.tags))
	for _, t := range r.tags {
		out = append(out, t)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out, nil
}

func (r *InMemoryCatalogRepository) GetTag(ctx context.Context, id int64) (*Tag, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	t, ok := r.tags[id]
	if !ok {
		return nil, ErrTagNotFound
	}
	return &t, nil
}

func (r *InMemoryCatalogRepository) CreateTag(ctx context.Context, tag *Tag) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	for _, t := range r.tags {
		if t.Name == tag.Name || strings.EqualFold(t.Color, tag.Color) || t.Slug == tag.Slug {
			return ErrDuplicate
		}
	}
	tag.ID = r.nextID
	r.nextID++
	r.tags[tag.ID] = *tag
	return nil
}

func (r *InMemoryCatalogRepository) MissingTags(ctx context.Context, ids []int64) ([]int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	var missing []int64
	for _, id := range ids {
		if _, ok := r.tags[id]; !ok {
			missing = append(missing, id)
		}
	}
	return missing, nil
}

func (r *InMemoryCatalogRepository) SearchIngredients(ctx context.Context, name string) ([]Ingredient, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	needle := strings.ToLower(strings.TrimSpace(name))
	var prefix, contains []Ingredient
	for _, i := range r.ingredients {
		lower := strings.ToLower(i.Name)
		switch {
		case strings.HasPrefix(lower, needle):
			prefix = append(prefix, i)
		case strings.Contains(lower, needle):
			contains = append(contains, i)
		}
	}
	byName := func(s []Ingredient) {
		sort.Slice(s, func(a, b int) bool { return s[a].Name < s[b].Name })
	}
	byName(prefix)
	byName(contains)
	return append(append([]Ingredient{}, prefix...), contains...), nil
}

func (r *InMemoryCatalogRepository) GetIngredient(ctx context.Context, id int64) (*Ingredient, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	i, ok := r.ingredients[id]
	if !ok {
		return nil, ErrIngredientNotFound
	}
	return &i, nil
}

func (r *InMemoryCatalogRepository) CreateIngredient(ctx context.Context, ingredient *Ingredient) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	for _, i := range r.ingredients {
		if i.Name == ingredient.Name {
			return ErrDuplicate
		}
	}
	ingredient.ID = r.nextID
	r.nextID++
	r.ingredients[ingredient.ID] = *ingredient
	return nil
}

func (r *InMemoryCatalogRepository) MissingIngredients(ctx context.Context, ids []int64) ([]int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	var missing []int64
	for _, id := range ids {
		if _, ok := r.ingredients[id]; !ok {
			missing = append(missing, id)
		}
	}
	return missing, nil
}

// InMemoryRepository stores recipes and relations; ingredient and tag
// details are resolved through the catalog it wraps.
type InMemoryRepository struct {
	mu        sync.Mutex
	catalog   *InMemoryCatalogRepository
	recipes   map[int64]*storedRecipe
	relations map[Relation]map[[2]int64]bool
	nextID    int64
	clock     time.Time
}

type storedRecipe struct {
	recipe Recipe
	lines  []IngredientAmount
	tags   []int64
}

func NewInMemoryRepository(catalog *InMemoryCatalogRepository) *InMemoryRepository {
	return &InMemoryRepository{
		catalog: catalog,
		recipes: make(map[int64]*storedRecipe),
		relations: map[Relation]map[[2]int64]bool{
			Favorites:    {},
			ShoppingCart: {},
		},
		nextID: 1,
		clock:  time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC),
	}
}

func (r *InMemoryRepository) nameTaken(name string, except int64) bool {
	for id, s := range r.recipes {
		if id != except && s.recipe.Name == name {
			return true
		}
	}
	return false
}

func (r *InMemoryRepository) NameTaken(ctx context.Context, name string, exceptID int64) (bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.nameTaken(name, exceptID), nil
}

func (r *InMemoryRepository) Create(ctx context.Context, recipe *Recipe, lines []IngredientAmount, tagIDs []int64) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.nameTaken(recipe.Name, 0) {
		return ErrDuplicate
	}
	recipe.ID = r.nextID
	r.nextID++
	// strictly increasing so newest-first ordering is deterministic
	r.clock = r.clock.Add(time.Second)
	recipe.PubDate = r.clock

	r.recipes[recipe.ID] = &storedRecipe{
		recipe: *recipe,
		lines:  append([]IngredientAmount(nil), lines...),
		tags:   append([]int64(nil), tagIDs...),
	}
	return nil
}

func (r *InMemoryRepository) Update(ctx context.Context, recipe *Recipe, lines []IngredientAmount, tagIDs []int64) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	s, ok := r.recipes[recipe.ID]
	if !ok {
		return ErrRecipeNotFound
	}
	if r.nameTaken(recipe.Name, recipe.ID) {
		return ErrDuplicate
	}
	updated := *recipe
	updated.AuthorID = s.recipe.AuthorID
	updated.PubDate = s.recipe.PubDate
	s.recipe = updated
	s.lines = append([]IngredientAmount(nil), lines...)
	s.tags = append([]int64(nil), tagIDs...)
	return nil
}

func (r *InMemoryRepository) Delete(ctx context.Context, id int64) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.recipes[id]; !ok {
		return ErrRecipeNotFound
	}
	delete(r.recipes, id)
	for _, links := range r.relations {
		for key := range links {
			if key[1] == id {
				delete(links, key)
			}
		}
	}
	return nil
}

func (r *InMemoryRepository) hydrate(s *storedRecipe) *Recipe {
	rec := s.recipe
	rec.Tags = []Tag{}
	rec.Ingredients = []RecipeIngredient{}

	r.catalog.mu.Lock()
	defer r.catalog.mu.Unlock()
	for _, id := range s.tags {
		if t, ok := r.catalog.tags[id]; ok {
			rec.Tags = append(rec.Tags, t)
		}
	}
	sort.Slice(rec.Tags, func(i, j int) bool { return rec.Tags[i].Name < rec.Tags[j].Name })
	for _, l := range s.lines {
		if i, ok := r.catalog.ingredients[l.ID]; ok {
			rec.Ingredients = append(rec.Ingredients, RecipeIngredient{
				ID:              i.ID,
				Name:            i.Name,
				MeasurementUnit: i.MeasurementUnit,
				Amount:          l.Amount,
			})
		}
	}
	return &rec
}

func (r *InMemoryRepository) Get(ctx context.Context, id int64) (*Recipe, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	s, ok := r.recipes[id]
	if !ok {
		return nil, ErrRecipeNotFound
	}
	return r.hydrate(s), nil
}

func (r *InMemoryRepository) List(ctx context.Context, f Filter) ([]*Recipe, int, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	var matched []*Recipe
	for _, s := range r.recipes {
		if !r.matches(s, f) {
			continue
		}
		matched = append(matched, r.hydrate(s))
	}
	sort.Slice(matched, func(i, j int) bool {
		if !matched[i].PubDate.Equal(matched[j].PubDate) {
			return matched[i].PubDate.After(matched[j].PubDate)
		}
		return matched[i].ID > matched[j].ID
	})

	total := len(matched)
	if f.Offset >= total {
		return []*Recipe{}, total, nil
	}
	end := f.Offset + f.Limit
	if end > total {
		end = total
	}
	return matched[f.Offset:end], total, nil
}

func (r *InMemoryRepository) matches(s *storedRecipe, f Filter) bool {
	if f.AuthorID != 0 && s.recipe.AuthorID != f.AuthorID {
		return false
	}
	if len(f.TagSlugs) > 0 && !r.hasAnyTag(s, f.TagSlugs) {
		return false
	}
	key := [2]int64{f.Viewer, s.recipe.ID}
	if f.Viewer != 0 && f.IsFavorited != nil && r.relations[Favorites][key] != *f.IsFavorited {
		return false
	}
	if f.Viewer != 0 && f.IsInCart != nil && r.relations[ShoppingCart][key] != *f.IsInCart {
		return false
	}
	return true
}

func (r *InMemoryRepository) hasAnyTag(s *storedRecipe, slugs []string) bool {
	r.catalog.mu.Lock()
	defer r.catalog.mu.Unlock()

	for _, id := range s.tags {
		t, ok := r.catalog.tags[id]
		if !ok {
			continue
		}
		for _, slug := range slugs {
			if t.Slug == slug {
				return true
			}
		}
	}
	return false
}

func (r *InMemoryRepository) HasRelation(ctx context.Context, rel Relation, userID, recipeID int64) (bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.relations[rel][[2]int64{userID, recipeID}], nil
}

func (r *InMemoryRepository) AddRelation(ctx context.Context, rel Relation, userID, recipeID int64) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	key := [2]int64{userID, recipeID}
	if r.relations[rel][key] {
		return ErrDuplicate
	}
	r.relations[rel][key] = true
	return nil
}

func (r *InMemoryRepository) RemoveRelation(ctx context.Context, rel Relation, userID, recipeID int64) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	delete(r.relations[rel], [2]int64{userID, recipeID})
	return nil
}

func (r *InMemoryRepository) RelatedAmong(ctx context.Context, rel Relation, userID int64, recipeIDs []int64) (map[int64]bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	out := make(map[int64]bool, len(recipeIDs))
	for _, id := range recipeIDs {
		if r.relations[rel][[2]int64{userID, id}] {
			out[id] = true
		}
	}
	return out, nil
}

func (r *InMemoryRepository) SummariesByAuthor(ctx context.Context, authorID int64, limit int) ([]core.RecipeSummary, error) {
	list, _, err := r.List(ctx, Filter{AuthorID: authorID, Limit: math.MaxInt})
	if err != nil {
		return nil, err
	}
	out := []core.RecipeSummary{}
	for _, rec := range list {
		if limit >= 0 && len(out) >= limit {
			break
		}
		out = append(out, rec.Summary())
	}
	return out, nil
}

func (r *InMemoryRepository) CountByAuthor(ctx context.Context, authorID int64) (int, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	n := 0
	for _, s := range r.recipes {
		if s.recipe.AuthorID == authorID {
			n++
		}
	}
	return n, nil
}
