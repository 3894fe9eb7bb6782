package subscriptions

import (
	"context"
	"errors"
	"fmt"

	"foodgram/internal/auth"
	"foodgram/internal/core"
	"foodgram/internal/logger"
	"foodgram/internal/relation"
)

var ErrSelfSubscription = errors.New("cannot subscribe to yourself")

// AuthorReader resolves followed users.
type AuthorReader interface {
	FindByID(ctx context.Context, id int64) (*auth.User, error)
	FindByIDs(ctx context.Context, ids []int64) (map[int64]*auth.User, error)
}

// Subscription is a followed author with a preview of their recipes.
type Subscription struct {
	auth.Profile
	Recipes      []core.RecipeSummary `json:"recipes"`
	RecipesCount int                  `json:"recipes_count"`
}

type Service struct {
	repo    Repository
	authors AuthorReader
	recipes core.RecipeSummaryReader
	log     *logger.Logger
}

func NewService(repo Repository, authors AuthorReader, recipes core.RecipeSummaryReader, log *logger.Logger) *Service {
	return &Service{
		repo:    repo,
		authors: authors,
		recipes: recipes,
		log:     log.With("service", "Subscriptions"),
	}
}

// Toggle follows or unfollows an author. Adding returns the new
// subscription with at most recipesLimit recipes (negative means all).
func (s *Service) Toggle(ctx context.Context, action relation.Action, userID, authorID int64, recipesLimit int) (*Subscription, error) {
	if action == relation.Add && userID == authorID {
		return nil, ErrSelfSubscription
	}

	author, err := s.authors.FindByID(ctx, authorID)
	if err != nil {
		return nil, err
	}

	exists, err := s.repo.IsSubscribed(ctx, userID, authorID)
	if err != nil {
		return nil, fmt.Errorf("check subscription: %w", err)
	}
	if err := relation.Decide(action, relation.StateOf(exists)).Err(); err != nil {
		return nil, err
	}

	if action == relation.Remove {
		if err := s.repo.Unfollow(ctx, userID, authorID); err != nil {
			return nil, fmt.Errorf("unfollow: %w", err)
		}
		s.log.Info("unsubscribed", "user_id", userID, "author_id", authorID)
		return nil, nil
	}

	if err := s.repo.Follow(ctx, userID, authorID); err != nil {
		if errors.Is(err, ErrDuplicate) {
			return nil, relation.ErrAlreadyExists
		}
		return nil, fmt.Errorf("follow: %w", err)
	}
	s.log.Info("subscribed", "user_id", userID, "author_id", authorID)
	return s.view(ctx, author, recipesLimit)
}

// List returns the authors userID follows, in follow order.
func (s *Service) List(ctx context.Context, userID int64, recipesLimit, limit, offset int) ([]Subscription, int, error) {
	ids, total, err := s.repo.Authors(ctx, userID, limit, offset)
	if err != nil {
		return nil, 0, fmt.Errorf("list authors: %w", err)
	}
	users, err := s.authors.FindByIDs(ctx, ids)
	if err != nil {
		return nil, 0, fmt.Errorf("load authors: %w", err)
	}

	out := make([]Subscription, 0, len(ids))
	for _, id := range ids {
		u, ok := users[id]
		if !ok {
			continue
		}
		sub, err := s.view(ctx, u, recipesLimit)
		if err != nil {
			return nil, 0, err
		}
		out = append(out, *sub)
	}
	return out, total, nil
}

func (s *Service) view(ctx context.Context, author *auth.User, recipesLimit int) (*Subscription, error) {
	recipes, err := s.recipes.SummariesByAuthor(ctx, author.ID, recipesLimit)
	if err != nil {
		return nil, fmt.Errorf("author recipes: %w", err)
	}
	count, err := s.recipes.CountByAuthor(ctx, author.ID)
	if err != nil {
		return nil, fmt.Errorf("count author recipes: %w", err)
	}
	return &Subscription{
		Profile:      author.Profile(true),
		Recipes:      recipes,
		RecipesCount: count,
	}, nil
}
