package subscriptions

import (
	"context"
	"sync"
)

type follow struct {
	userID, authorID int64
}

// InMemoryRepository keeps follows in insertion order.
type InMemoryRepository struct {
	mu      sync.Mutex
	follows []follow
}

func NewInMemoryRepository() *InMemoryRepository {
	return &InMemoryRepository{}
}

func (r *InMemoryRepository) indexOf(userID, authorID int64) int {
	for i, f := range r.follows {
		if f.userID == userID && f.authorID == authorID {
			return i
		}
	}
	return -1
}

func (r *InMemoryRepository) IsSubscribed(ctx context.Context, userID, authorID int64) (bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.indexOf(userID, authorID) >= 0, nil
}

func (r *InMemoryRepository) SubscribedAmong(ctx context.Context, userID int64, authorIDs []int64) (map[int64]bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	out := make(map[int64]bool)
	for _, id := range authorIDs {
		if r.indexOf(userID, id) >= 0 {
			out[id] = true
		}
	}
	return out, nil
}

func (r *InMemoryRepository) Follow(ctx context.Context, userID, authorID int64) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.indexOf(userID, authorID) >= 0 {
		return ErrDuplicate
	}
	r.follows = append(r.follows, follow{userID: userID, authorID: authorID})
	return nil
}

func (r *InMemoryRepository) Unfollow(ctx context.Context, userID, authorID int64) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if i := r.indexOf(userID, authorID); i >= 0 {
		r.follows = append(r.follows[:i], r.follows[i+1:]...)
	}
	return nil
}

func (r *InMemoryRepository) Authors(ctx context.Context, userID int64, limit, offset int) ([]int64, int, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	var all []int64
	for _, f := range r.follows {
		if f.userID == userID {
			all = append(all, f.authorID)
		}
	}
	total := len(all)
	if offset >= total {
		return []int64{}, total, nil
	}
	end := offset + limit
	if end > total {
		end = total
	}
	return all[offset:end], total, nil
}
