package memory

import (
	"context"
	"sort"
	"strings"
	"sync"

	"github.com/cifrato/invoice-backend/internal/model"
)

// PUCRepository stores tenant chart-of-accounts sets.
type PUCRepository struct {
	mu      sync.RWMutex
	byOwner map[string][]*model.PUCAccount
}

func NewPUCRepository() *PUCRepository {
	return &PUCRepository{byOwner: make(map[string][]*model.PUCAccount)}
}

func (r *PUCRepository) AddBulk(_ context.Context, accounts []*model.PUCAccount) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	for _, acc := range accounts {
		r.byOwner[acc.OwnerID] = append(r.byOwner[acc.OwnerID], acc)
	}
	return nil
}

func (r *PUCRepository) ListByOwner(_ context.Context, ownerID, search string, limit, offset int) ([]*model.PUCAccount, int, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	matched := make([]*model.PUCAccount, 0, len(r.byOwner[ownerID]))
	needle := strings.ToLower(strings.TrimSpace(search))
	for _, acc := range r.byOwner[ownerID] {
		if needle == "" ||
			strings.Contains(strings.ToLower(acc.Codigo), needle) ||
			strings.Contains(strings.ToLower(acc.Nombre), needle) {
			matched = append(matched, acc)
		}
	}
	sort.Slice(matched, func(i, j int) bool { return matched[i].Codigo < matched[j].Codigo })

	total := len(matched)
	if offset >= total {
		return []*model.PUCAccount{}, total, nil
	}
	end := offset + limit
	if limit <= 0 || end > total {
		end = total
	}
	return matched[offset:end], total, nil
}

func (r *PUCRepository) DeleteAllByOwner(_ context.Context, ownerID string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	delete(r.byOwner, ownerID)
	return nil
}

func (r *PUCRepository) CountByOwner(_ context.Context, ownerID string) (int, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.byOwner[ownerID]), nil
}
