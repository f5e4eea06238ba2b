package usecase

import (
	"context"
	"fmt"
	"sort"

	"github.com/cifrato/invoice-backend/internal/model"
)

// ExportInvoices renders all of an owner's invoices into the two-sheet
// workbook, chronologically ordered for bookkeeping.
type ExportInvoices struct {
	invoices    InvoiceRepository
	suggestions SuggestionRepository
	builder     WorkbookBuilder
}

func NewExportInvoices(invoices InvoiceRepository, suggestions SuggestionRepository, builder WorkbookBuilder) *ExportInvoices {
	return &ExportInvoices{invoices: invoices, suggestions: suggestions, builder: builder}
}

func (uc *ExportInvoices) Execute(ctx context.Context, ownerID string) ([]byte, error) {
	invoices, err := uc.invoices.ListForUser(ctx, ownerID)
	if err != nil {
		return nil, err
	}
	if len(invoices) == 0 {
		return nil, fmt.Errorf("%w: no hay facturas para exportar", model.ErrNoInvoicesToExport)
	}

	// Ascending issue date; external id breaks ties so repeated exports of
	// the same data produce identical workbooks.
	sort.SliceStable(invoices, func(i, j int) bool {
		if invoices[i].IssueDate.Equal(invoices[j].IssueDate) {
			return invoices[i].ExternalID < invoices[j].ExternalID
		}
		return invoices[i].IssueDate.Before(invoices[j].IssueDate)
	})

	winners := make(map[string][]model.AISuggestion, len(invoices))
	for _, invoice := range invoices {
		suggestions, err := uc.suggestions.ListForInvoice(ctx, invoice.ID)
		if err != nil {
			return nil, err
		}
		if winner, ok := ResolveWinner(suggestions); ok {
			winners[invoice.ID] = []model.AISuggestion{winner}
		}
	}

	return uc.builder.Build(invoices, winners)
}
