// Package model contains the domain entities for invoice ingestion and
// accounting classification: the Invoice aggregate, AI suggestions and the
// tenant chart-of-accounts (PUC).
package model

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// InvoiceLine is a single line item of an invoice. Value type, never mutated
// after construction.
type InvoiceLine struct {
	LineID              string          `json:"line_id"`
	Description         string          `json:"description"`
	Quantity            decimal.Decimal `json:"quantity"`
	UnitPrice           decimal.Decimal `json:"unit_price"`
	LineExtensionAmount decimal.Decimal `json:"line_extension_amount"`
}

// Invoice is the aggregate root for an ingested electronic invoice.
// (OwnerID, ExternalID) is unique per owner; the check lives in the upload
// use case, not in the storage layer.
type Invoice struct {
	ID               string          `json:"id"`
	OwnerID          string          `json:"owner_id"`
	ExternalID       string          `json:"external_id"`
	IssueDate        time.Time       `json:"issue_date"`
	SupplierName     string          `json:"supplier_name"`
	SupplierTaxID    string          `json:"supplier_tax_id"`
	CustomerName     string          `json:"customer_name"`
	CustomerTaxID    string          `json:"customer_tax_id"`
	Currency         string          `json:"currency"`
	TotalAmount      decimal.Decimal `json:"total_amount"`
	TaxAmount        decimal.Decimal `json:"tax_amount"`
	Lines            []InvoiceLine   `json:"lines"`
	OriginalFilename string          `json:"original_filename"`
	RawXML           string          `json:"-"`
}

// NewInvoiceParams carries the fields required to construct an Invoice.
type NewInvoiceParams struct {
	OwnerID          string
	ExternalID       string
	IssueDate        time.Time
	SupplierName     string
	SupplierTaxID    string
	CustomerName     string
	CustomerTaxID    string
	Currency         string
	TotalAmount      decimal.Decimal
	TaxAmount        decimal.Decimal
	Lines            []InvoiceLine
	OriginalFilename string
	RawXML           string
}

// NewInvoice builds an Invoice with a server-generated identifier. The line
// slice is copied so the caller cannot alias the aggregate's collection.
func NewInvoice(p NewInvoiceParams) *Invoice {
	lines := make([]InvoiceLine, len(p.Lines))
	copy(lines, p.Lines)

	return &Invoice{
		ID:               uuid.NewString(),
		OwnerID:          p.OwnerID,
		ExternalID:       p.ExternalID,
		IssueDate:        p.IssueDate,
		SupplierName:     p.SupplierName,
		SupplierTaxID:    p.SupplierTaxID,
		CustomerName:     p.CustomerName,
		CustomerTaxID:    p.CustomerTaxID,
		Currency:         p.Currency,
		TotalAmount:      p.TotalAmount,
		TaxAmount:        p.TaxAmount,
		Lines:            lines,
		OriginalFilename: p.OriginalFilename,
		RawXML:           p.RawXML,
	}
}

// Subtotal is the invoice total net of taxes.
func (inv *Invoice) Subtotal() decimal.Decimal {
	return inv.TotalAmount.Sub(inv.TaxAmount)
}
