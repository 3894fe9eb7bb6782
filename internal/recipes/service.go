package recipes

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"

	"foodgram/internal/auth"
	"foodgram/internal/core"
	"foodgram/internal/logger"
	"foodgram/internal/relation"
	"foodgram/internal/storage"
	"foodgram/internal/validation"
)

var ErrForbidden = errors.New("only the author can change this recipe")

const imagePrefix = "recipes/images"

// AuthorReader resolves recipe authors for representations.
type AuthorReader interface {
	FindByIDs(ctx context.Context, ids []int64) (map[int64]*auth.User, error)
}

type Service struct {
	repo    Repository
	catalog CatalogRepository
	authors AuthorReader
	subs    core.SubscriptionReader
	images  storage.ImageStore
	log     *logger.Logger
}

func NewService(
	repo Repository,
	catalog CatalogRepository,
	authors AuthorReader,
	subs core.SubscriptionReader,
	images storage.ImageStore,
	log *logger.Logger,
) *Service {
	return &Service{
		repo:    repo,
		catalog: catalog,
		authors: authors,
		subs:    subs,
		images:  images,
		log:     log.With("service", "RecipeService"),
	}
}

// Actor is the authenticated user performing a write.
type Actor struct {
	ID   int64
	Role string
}

func (a Actor) canEdit(r *Recipe) bool {
	return a.ID == r.AuthorID || a.Role == auth.RoleAdmin
}

// --------------------------------------------------
// Tags
// --------------------------------------------------
type TagInput struct {
	Name  string `json:"name" validate:"required,max=200"`
	Color string `json:"color" validate:"required,hexcolor,len=7"`
	Slug  string `json:"slug" validate:"required,max=200,slug"`
}

func (s *Service) ListTags(ctx context.Context) ([]Tag, error) {
	return s.catalog.ListTags(ctx)
}

func (s *Service) GetTag(ctx context.Context, id int64) (*Tag, error) {
	return s.catalog.GetTag(ctx, id)
}

func (s *Service) CreateTag(ctx context.Context, in TagInput) (*Tag, error) {
	if err := validation.Struct(in); err != nil {
		return nil, err
	}
	tag := &Tag{Name: in.Name, Color: strings.ToUpper(in.Color), Slug: in.Slug}
	if err := s.catalog.CreateTag(ctx, tag); err != nil {
		return nil, err
	}
	return tag, nil
}

// --------------------------------------------------
// Ingredients
// --------------------------------------------------
type IngredientInput struct {
	Name            string `json:"name" validate:"required,max=200"`
	MeasurementUnit string `json:"measurement_unit" validate:"required,max=200"`
}

func (s *Service) SearchIngredients(ctx context.Context, name string) ([]Ingredient, error) {
	return s.catalog.SearchIngredients(ctx, name)
}

func (s *Service) GetIngredient(ctx context.Context, id int64) (*Ingredient, error) {
	return s.catalog.GetIngredient(ctx, id)
}

func (s *Service) CreateIngredient(ctx context.Context, in IngredientInput) (*Ingredient, error) {
	if err := validation.Struct(in); err != nil {
		return nil, err
	}
	ingredient := &Ingredient{Name: strings.TrimSpace(in.Name), MeasurementUnit: strings.TrimSpace(in.MeasurementUnit)}
	if err := s.catalog.CreateIngredient(ctx, ingredient); err != nil {
		return nil, err
	}
	return ingredient, nil
}

// --------------------------------------------------
// Recipes
// --------------------------------------------------
type RecipeInput struct {
	Ingredients []IngredientAmount `json:"ingredients" validate:"required,min=1,unique=ID,dive"`
	Tags        []int64            `json:"tags" validate:"required,min=1,unique,dive,gte=1"`
	Image       string             `json:"image"`
	Name        string             `json:"name" validate:"required,max=200"`
	Text        string             `json:"text" validate:"required"`
	CookingTime int                `json:"cooking_time" validate:"required,gte=1,max=32000"`
}

// validate checks payload shape and that every referenced id exists.
func (s *Service) validate(ctx context.Context, in RecipeInput, requireImage bool) error {
	errs := validation.Errors{}
	if err := validation.Struct(in); err != nil {
		var verrs validation.Errors
		if !errors.As(err, &verrs) {
			return err
		}
		errs = verrs
	}
	if requireImage && strings.TrimSpace(in.Image) == "" {
		errs["image"] = "this field is required"
	}
	if len(errs) > 0 {
		return errs
	}

	ingredientIDs := make([]int64, 0, len(in.Ingredients))
	for _, l := range in.Ingredients {
		ingredientIDs = append(ingredientIDs, l.ID)
	}
	missing, err := s.catalog.MissingIngredients(ctx, ingredientIDs)
	if err != nil {
		return err
	}
	if len(missing) > 0 {
		errs["ingredients"] = "unknown ingredient ids: " + joinIDs(missing)
	}

	missing, err = s.catalog.MissingTags(ctx, in.Tags)
	if err != nil {
		return err
	}
	if len(missing) > 0 {
		errs["tags"] = "unknown tag ids: " + joinIDs(missing)
	}

	if len(errs) > 0 {
		return errs
	}
	return nil
}

func joinIDs(ids []int64) string {
	parts := make([]string, 0, len(ids))
	for _, id := range ids {
		parts = append(parts, strconv.FormatInt(id, 10))
	}
	return strings.Join(parts, ", ")
}

func (s *Service) uploadImage(ctx context.Context, uri string) (storage.Upload, error) {
	up, err := storage.UploadDataURI(ctx, s.images, imagePrefix, uri)
	if errors.Is(err, storage.ErrInvalidImage) {
		return storage.Upload{}, validation.Errors{"image": "must be a base64 encoded png, jpeg, gif or webp image"}
	}
	if err != nil {
		return storage.Upload{}, fmt.Errorf("store image: %w", err)
	}
	return up, nil
}

// discardImage removes an upload whose recipe write failed.
func (s *Service) discardImage(ctx context.Context, up storage.Upload) {
	if up.Key == "" {
		return
	}
	if err := s.images.Delete(ctx, up.Key); err != nil {
		s.log.Warn("failed to remove orphaned image", "key", up.Key, "error", err)
	}
}

func duplicateNameError() error {
	return validation.Errors{"name": "recipe with this name already exists"}
}

func (s *Service) checkName(ctx context.Context, name string, exceptID int64) error {
	taken, err := s.repo.NameTaken(ctx, name, exceptID)
	if err != nil {
		return fmt.Errorf("check recipe name: %w", err)
	}
	if taken {
		return duplicateNameError()
	}
	return nil
}

func (s *Service) Create(ctx context.Context, actor Actor, in RecipeInput) (*RecipeView, error) {
	if err := s.validate(ctx, in, true); err != nil {
		return nil, err
	}
	name := strings.TrimSpace(in.Name)
	if err := s.checkName(ctx, name, 0); err != nil {
		return nil, err
	}

	image, err := s.uploadImage(ctx, in.Image)
	if err != nil {
		return nil, err
	}

	recipe := &Recipe{
		AuthorID:    actor.ID,
		Name:        name,
		Image:       image.URL,
		Text:        in.Text,
		CookingTime: in.CookingTime,
	}
	if err := s.repo.Create(ctx, recipe, in.Ingredients, in.Tags); err != nil {
		s.discardImage(ctx, image)
		if errors.Is(err, ErrDuplicate) {
			return nil, duplicateNameError()
		}
		return nil, fmt.Errorf("create recipe: %w", err)
	}

	s.log.Info("recipe created", "recipe_id", recipe.ID, "author_id", actor.ID)
	return s.Get(ctx, actor.ID, recipe.ID)
}

func (s *Service) Update(ctx context.Context, actor Actor, id int64, in RecipeInput) (*RecipeView, error) {
	current, err := s.repo.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	if !actor.canEdit(current) {
		return nil, ErrForbidden
	}
	if err := s.validate(ctx, in, false); err != nil {
		return nil, err
	}
	name := strings.TrimSpace(in.Name)
	if err := s.checkName(ctx, name, id); err != nil {
		return nil, err
	}

	imageURL := current.Image
	var upload storage.Upload
	if strings.TrimSpace(in.Image) != "" {
		if upload, err = s.uploadImage(ctx, in.Image); err != nil {
			return nil, err
		}
		imageURL = upload.URL
	}

	updated := &Recipe{
		ID:          current.ID,
		AuthorID:    current.AuthorID,
		Name:        name,
		Image:       imageURL,
		Text:        in.Text,
		CookingTime: in.CookingTime,
	}
	if err := s.repo.Update(ctx, updated, in.Ingredients, in.Tags); err != nil {
		s.discardImage(ctx, upload)
		if errors.Is(err, ErrDuplicate) {
			return nil, duplicateNameError()
		}
		return nil, err
	}

	s.log.Info("recipe updated", "recipe_id", id, "actor_id", actor.ID)
	return s.Get(ctx, actor.ID, id)
}

func (s *Service) Delete(ctx context.Context, actor Actor, id int64) error {
	current, err := s.repo.Get(ctx, id)
	if err != nil {
		return err
	}
	if !actor.canEdit(current) {
		return ErrForbidden
	}
	if err := s.repo.Delete(ctx, id); err != nil {
		return err
	}
	s.log.Info("recipe deleted", "recipe_id", id, "actor_id", actor.ID)
	return nil
}

func (s *Service) Get(ctx context.Context, viewer, id int64) (*RecipeView, error) {
	recipe, err := s.repo.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	views, err := s.views(ctx, viewer, []*Recipe{recipe})
	if err != nil {
		return nil, err
	}
	return &views[0], nil
}

func (s *Service) List(ctx context.Context, f Filter) ([]RecipeView, int, error) {
	list, total, err := s.repo.List(ctx, f)
	if err != nil {
		return nil, 0, err
	}
	views, err := s.views(ctx, f.Viewer, list)
	if err != nil {
		return nil, 0, err
	}
	return views, total, nil
}

// views builds representations with batched lookups for authors,
// subscriptions and the viewer's favorites and cart.
func (s *Service) views(ctx context.Context, viewer int64, list []*Recipe) ([]RecipeView, error) {
	recipeIDs := make([]int64, 0, len(list))
	authorIDs := make([]int64, 0, len(list))
	for _, r := range list {
		recipeIDs = append(recipeIDs, r.ID)
		authorIDs = append(authorIDs, r.AuthorID)
	}

	authors, err := s.authors.FindByIDs(ctx, authorIDs)
	if err != nil {
		return nil, fmt.Errorf("load authors: %w", err)
	}

	subscribed := map[int64]bool{}
	favorited := map[int64]bool{}
	inCart := map[int64]bool{}
	if viewer != 0 {
		if s.subs != nil {
			if subscribed, err = s.subs.SubscribedAmong(ctx, viewer, authorIDs); err != nil {
				return nil, fmt.Errorf("load subscriptions: %w", err)
			}
		}
		if favorited, err = s.repo.RelatedAmong(ctx, Favorites, viewer, recipeIDs); err != nil {
			return nil, fmt.Errorf("load favorites: %w", err)
		}
		if inCart, err = s.repo.RelatedAmong(ctx, ShoppingCart, viewer, recipeIDs); err != nil {
			return nil, fmt.Errorf("load cart: %w", err)
		}
	}

	views := make([]RecipeView, 0, len(list))
	for _, r := range list {
		var author auth.Profile
		if u, ok := authors[r.AuthorID]; ok {
			author = u.Profile(subscribed[r.AuthorID])
		} else {
			author = auth.Profile{ID: r.AuthorID}
		}
		views = append(views, RecipeView{
			ID:               r.ID,
			Tags:             r.Tags,
			Author:           author,
			Ingredients:      r.Ingredients,
			IsFavorited:      favorited[r.ID],
			IsInShoppingCart: inCart[r.ID],
			Name:             r.Name,
			Image:            r.Image,
			Text:             r.Text,
			CookingTime:      r.CookingTime,
		})
	}
	return views, nil
}

// --------------------------------------------------
// Favorites / shopping cart toggles
// --------------------------------------------------

// Toggle adds or removes the user → recipe link. Adding returns the
// recipe summary; removing returns nil.
func (s *Service) Toggle(ctx context.Context, rel Relation, action relation.Action, userID, recipeID int64) (*core.RecipeSummary, error) {
	recipe, err := s.repo.Get(ctx, recipeID)
	if err != nil {
		return nil, err
	}

	exists, err := s.repo.HasRelation(ctx, rel, userID, recipeID)
	if err != nil {
		return nil, err
	}

	outcome := relation.Decide(action, relation.StateOf(exists))
	if err := outcome.Err(); err != nil {
		return nil, err
	}

	if action == relation.Remove {
		if err := s.repo.RemoveRelation(ctx, rel, userID, recipeID); err != nil {
			return nil, err
		}
		s.log.Debug("relation removed", "relation", string(rel), "user_id", userID, "recipe_id", recipeID)
		return nil, nil
	}

	err = s.repo.AddRelation(ctx, rel, userID, recipeID)
	if errors.Is(err, ErrDuplicate) {
		return nil, relation.ErrAlreadyExists
	}
	if err != nil {
		return nil, err
	}
	s.log.Debug("relation added", "relation", string(rel), "user_id", userID, "recipe_id", recipeID)

	summary := recipe.Summary()
	return &summary, nil
}
