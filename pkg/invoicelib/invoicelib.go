// Package invoicelib is the public entry point for parsing Colombian DIAN
// electronic invoices (UBL 2.1) without running the full backend. It wraps
// the internal parser behind a stable, minimal surface.
package invoicelib

import (
	"io"

	"github.com/cifrato/invoice-backend/internal/parser/ubl"
)

// Invoice is the parsed representation of a DIAN electronic invoice.
type Invoice = ubl.ParsedInvoice

// Parse extracts invoice data from UBL XML bytes. Plain Invoice, CreditNote
// and AttachedDocument profiles are supported.
func Parse(xmlBytes []byte) (*Invoice, error) {
	return ubl.Parse(xmlBytes)
}

// ParseReader reads all of r and parses it as UBL XML.
func ParseReader(r io.Reader) (*Invoice, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, err
	}
	return ubl.Parse(data)
}
