package subscriptions

import (
	"context"
	"errors"

	"foodgram/internal/core"
)

var ErrDuplicate = errors.New("subscription already exists")

// Repository stores follow links between users. It also serves as the
// core.SubscriptionReader for every representation that embeds an author.
type Repository interface {
	core.SubscriptionReader

	Follow(ctx context.Context, userID, authorID int64) error
	Unfollow(ctx context.Context, userID, authorID int64) error
	// Authors returns followed author ids in follow order plus the total.
	Authors(ctx context.Context, userID int64, limit, offset int) ([]int64, int, error)
}
