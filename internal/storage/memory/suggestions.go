package memory

import (
	"context"
	"sync"

	"github.com/cifrato/invoice-backend/internal/model"
)

// SuggestionRepository stores suggestion sets keyed by invoice id. The whole
// per-invoice slice is swapped under the lock, so a reader never observes a
// mix of old and new suggestions.
type SuggestionRepository struct {
	mu        sync.RWMutex
	byInvoice map[string][]model.AISuggestion
}

func NewSuggestionRepository() *SuggestionRepository {
	return &SuggestionRepository{byInvoice: make(map[string][]model.AISuggestion)}
}

func (r *SuggestionRepository) ListForInvoice(_ context.Context, invoiceID string) ([]model.AISuggestion, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	stored := r.byInvoice[invoiceID]
	suggestions := make([]model.AISuggestion, len(stored))
	copy(suggestions, stored)
	return suggestions, nil
}

func (r *SuggestionRepository) ReplaceForInvoice(_ context.Context, invoiceID string, suggestions []model.AISuggestion) error {
	fresh := make([]model.AISuggestion, len(suggestions))
	copy(fresh, suggestions)

	r.mu.Lock()
	defer r.mu.Unlock()
	if len(fresh) == 0 {
		delete(r.byInvoice, invoiceID)
		return nil
	}
	r.byInvoice[invoiceID] = fresh
	return nil
}
