package usecase

import (
	"context"
	"fmt"
	"sort"
	"strings"

	"github.com/cifrato/invoice-backend/internal/model"
)

// Derived invoice status values. Status is not persisted; it reflects
// whether any suggestion set is stored for the invoice.
const (
	StatusProcessed = "procesada"
	StatusPending   = "pendiente"
)

// UploadInvoice ingests a UBL XML document as a new invoice. Upload is
// create-only: re-uploading the same (owner, external id) is a conflict,
// never an upsert.
type UploadInvoice struct {
	invoices InvoiceRepository
	parser   InvoiceParser
}

func NewUploadInvoice(invoices InvoiceRepository, parser InvoiceParser) *UploadInvoice {
	return &UploadInvoice{invoices: invoices, parser: parser}
}

func (uc *UploadInvoice) Execute(ctx context.Context, ownerID, filename string, content []byte) (*model.Invoice, error) {
	if strings.TrimSpace(string(content)) == "" {
		return nil, fmt.Errorf("%w: el archivo está vacío", model.ErrInvalidInvoicePayload)
	}

	parsed, err := uc.parser.Parse(content)
	if err != nil {
		// Parser-internal error kinds are not leaked to callers.
		return nil, fmt.Errorf("%w: el XML de la factura no es válido: %v", model.ErrInvalidInvoicePayload, err)
	}

	externalID := strings.TrimSpace(parsed.ExternalID)
	if externalID == "" {
		return nil, fmt.Errorf("%w: no se pudo leer el identificador externo", model.ErrInvalidInvoicePayload)
	}

	// Read-then-write duplicate check. Two concurrent uploads of the same
	// external id can both pass this lookup; the window is accepted, the
	// storage layer enforces no uniqueness constraint.
	existing, err := uc.invoices.FindByOwnerAndExternalID(ctx, ownerID, externalID)
	if err != nil {
		return nil, err
	}
	if existing != nil {
		return nil, fmt.Errorf("%w: la factura ya fue cargada previamente", model.ErrInvoiceAlreadyExists)
	}

	invoice := model.NewInvoice(model.NewInvoiceParams{
		OwnerID:          ownerID,
		ExternalID:       externalID,
		IssueDate:        parsed.IssueDate,
		SupplierName:     parsed.SupplierName,
		SupplierTaxID:    parsed.SupplierTaxID,
		CustomerName:     parsed.CustomerName,
		CustomerTaxID:    parsed.CustomerTaxID,
		Currency:         parsed.Currency,
		TotalAmount:      parsed.TotalAmount,
		TaxAmount:        parsed.TaxAmount,
		Lines:            parsed.Lines,
		OriginalFilename: filename,
		RawXML:           parsed.RawXML,
	})

	if err := uc.invoices.Add(ctx, invoice); err != nil {
		return nil, err
	}
	return invoice, nil
}

// InvoiceListItem pairs an invoice with its derived processing status.
type InvoiceListItem struct {
	Invoice *model.Invoice
	Status  string
}

// InvoiceDetailItem carries an invoice, its status and the stored
// suggestion set.
type InvoiceDetailItem struct {
	Invoice     *model.Invoice
	Status      string
	Suggestions []model.AISuggestion
}

// ListInvoices returns the owner's invoices, most recent issue date first.
type ListInvoices struct {
	invoices    InvoiceRepository
	suggestions SuggestionRepository
}

func NewListInvoices(invoices InvoiceRepository, suggestions SuggestionRepository) *ListInvoices {
	return &ListInvoices{invoices: invoices, suggestions: suggestions}
}

func (uc *ListInvoices) Execute(ctx context.Context, ownerID string) ([]InvoiceListItem, error) {
	invoices, err := uc.invoices.ListForUser(ctx, ownerID)
	if err != nil {
		return nil, err
	}

	// Listing prioritizes recency; export uses the inverse order.
	sort.SliceStable(invoices, func(i, j int) bool {
		return invoices[i].IssueDate.After(invoices[j].IssueDate)
	})

	items := make([]InvoiceListItem, 0, len(invoices))
	for _, invoice := range invoices {
		suggestions, err := uc.suggestions.ListForInvoice(ctx, invoice.ID)
		if err != nil {
			return nil, err
		}
		items = append(items, InvoiceListItem{Invoice: invoice, Status: statusFor(suggestions)})
	}
	return items, nil
}

// GetInvoiceDetail resolves one invoice with ownership enforcement; a
// non-owner gets the same not-found as a missing id.
type GetInvoiceDetail struct {
	invoices    InvoiceRepository
	suggestions SuggestionRepository
}

func NewGetInvoiceDetail(invoices InvoiceRepository, suggestions SuggestionRepository) *GetInvoiceDetail {
	return &GetInvoiceDetail{invoices: invoices, suggestions: suggestions}
}

func (uc *GetInvoiceDetail) Execute(ctx context.Context, ownerID, invoiceID string) (*InvoiceDetailItem, error) {
	invoice, err := uc.invoices.GetByID(ctx, invoiceID)
	if err != nil {
		return nil, err
	}
	if invoice == nil || invoice.OwnerID != ownerID {
		return nil, fmt.Errorf("%w: la factura no existe para el usuario indicado", model.ErrInvoiceNotFound)
	}

	suggestions, err := uc.suggestions.ListForInvoice(ctx, invoice.ID)
	if err != nil {
		return nil, err
	}

	return &InvoiceDetailItem{
		Invoice:     invoice,
		Status:      statusFor(suggestions),
		Suggestions: suggestions,
	}, nil
}

func statusFor(suggestions []model.AISuggestion) string {
	if len(suggestions) > 0 {
		return StatusProcessed
	}
	return StatusPending
}
