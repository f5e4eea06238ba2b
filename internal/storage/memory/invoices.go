// Package memory provides mutex-guarded in-process implementations of the
// repository contracts. They back the server by default and double as test
// fixtures; a persistent engine can replace them behind the same interfaces.
package memory

import (
	"context"
	"sync"

	"github.com/cifrato/invoice-backend/internal/model"
)

// InvoiceRepository stores invoices by id and by (owner, external id).
type InvoiceRepository struct {
	mu      sync.RWMutex
	byID    map[string]*model.Invoice
	byOwner map[string]map[string]*model.Invoice
}

func NewInvoiceRepository() *InvoiceRepository {
	return &InvoiceRepository{
		byID:    make(map[string]*model.Invoice),
		byOwner: make(map[string]map[string]*model.Invoice),
	}
}

func (r *InvoiceRepository) GetByID(_ context.Context, invoiceID string) (*model.Invoice, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.byID[invoiceID], nil
}

func (r *InvoiceRepository) ListForUser(_ context.Context, ownerID string) ([]*model.Invoice, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	owned := r.byOwner[ownerID]
	invoices := make([]*model.Invoice, 0, len(owned))
	for _, invoice := range owned {
		invoices = append(invoices, invoice)
	}
	return invoices, nil
}

func (r *InvoiceRepository) Add(_ context.Context, invoice *model.Invoice) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.byID[invoice.ID] = invoice
	owned := r.byOwner[invoice.OwnerID]
	if owned == nil {
		owned = make(map[string]*model.Invoice)
		r.byOwner[invoice.OwnerID] = owned
	}
	owned[invoice.ExternalID] = invoice
	return nil
}

func (r *InvoiceRepository) FindByOwnerAndExternalID(_ context.Context, ownerID, externalID string) (*model.Invoice, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.byOwner[ownerID][externalID], nil
}
