package usecase

import (
	"context"
	"fmt"

	"github.com/cifrato/invoice-backend/internal/model"
)

// ResolveWinner picks the authoritative suggestion for one invoice:
//  1. an explicitly selected suggestion always wins;
//  2. else the highest confidence;
//  3. confidence ties break on the shortest rationale (documented proxy for
//     "most specific").
//
// Pure and deterministic: insertion order only matters through the tie-break
// rule. The second return is false when the set is empty.
func ResolveWinner(suggestions []model.AISuggestion) (model.AISuggestion, bool) {
	if len(suggestions) == 0 {
		return model.AISuggestion{}, false
	}

	for _, s := range suggestions {
		if s.IsSelected {
			return s, true
		}
	}

	winner := suggestions[0]
	for _, s := range suggestions[1:] {
		if s.Confidence > winner.Confidence {
			winner = s
			continue
		}
		if s.Confidence == winner.Confidence && len(s.Rationale) < len(winner.Rationale) {
			winner = s
		}
	}
	return winner, true
}

// applySelection returns a new suggestion set where, for the given line
// number, only the suggestion with the matching account code is selected.
// Selections on other lines are untouched. "At most one selected per line"
// holds by construction.
func applySelection(suggestions []model.AISuggestion, lineNumber int, accountCode string) []model.AISuggestion {
	result := make([]model.AISuggestion, len(suggestions))
	for i, s := range suggestions {
		if s.LineNumber == lineNumber {
			s.IsSelected = s.AccountCode == accountCode
		}
		result[i] = s
	}
	return result
}

// SelectSuggestion marks one stored suggestion as the user's choice for a
// line and persists the rewritten set.
type SelectSuggestion struct {
	invoices    InvoiceRepository
	suggestions SuggestionRepository
}

func NewSelectSuggestion(invoices InvoiceRepository, suggestions SuggestionRepository) *SelectSuggestion {
	return &SelectSuggestion{invoices: invoices, suggestions: suggestions}
}

func (uc *SelectSuggestion) Execute(ctx context.Context, ownerID, invoiceID string, lineNumber int, accountCode string) ([]model.AISuggestion, error) {
	invoice, err := uc.invoices.GetByID(ctx, invoiceID)
	if err != nil {
		return nil, err
	}
	if invoice == nil || invoice.OwnerID != ownerID {
		return nil, fmt.Errorf("%w: la factura no existe para el usuario indicado", model.ErrInvoiceNotFound)
	}

	stored, err := uc.suggestions.ListForInvoice(ctx, invoice.ID)
	if err != nil {
		return nil, err
	}

	updated := applySelection(stored, lineNumber, accountCode)
	if err := uc.suggestions.ReplaceForInvoice(ctx, invoice.ID, updated); err != nil {
		return nil, err
	}
	return updated, nil
}
