package core

import "context"

// SubscriptionReader answers "does user follow author" for representations
// that embed an author.
type SubscriptionReader interface {
	IsSubscribed(ctx context.Context, userID, authorID int64) (bool, error)
	SubscribedAmong(ctx context.Context, userID int64, authorIDs []int64) (map[int64]bool, error)
}

// RecipeSummary is the short recipe form used inside subscription listings
// and relation responses.
type RecipeSummary struct {
	ID          int64  `json:"id"`
	Name        string `json:"name"`
	Image       string `json:"image"`
	CookingTime int    `json:"cooking_time"`
}

type RecipeSummaryReader interface {
	// SummariesByAuthor returns newest first; limit < 0 means no limit.
	SummariesByAuthor(ctx context.Context, authorID int64, limit int) ([]RecipeSummary, error)
	CountByAuthor(ctx context.Context, authorID int64) (int, error)
}
