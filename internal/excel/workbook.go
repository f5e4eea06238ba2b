// Package excel renders the invoice export workbook and reads tenant PUC
// catalogs. Two writers produce the same logical sheets: excelize for the
// regular path and a hand-built minimal OOXML writer kept as a dependency-free
// fallback. Both must stay observably equivalent at the row/column level.
package excel

import (
	"bytes"
	"fmt"

	"github.com/xuri/excelize/v2"

	"github.com/cifrato/invoice-backend/internal/model"
)

// Sheet and header layout. Column order is part of the export contract.
const (
	sheetResumen   = "Resumen"
	sheetProductos = "Productos"
)

var resumenHeader = []any{
	"Factura interna", "Consecutivo externo", "Fecha", "Proveedor", "NIT proveedor",
	"Cliente", "NIT cliente", "Moneda", "Subtotal", "Impuestos", "Total",
	"Código PUC", "Justificación", "Confianza",
}

var productosHeader = []any{
	"Factura interna", "Consecutivo externo", "ID producto", "Descripción",
	"Cantidad", "Precio unitario", "Subtotal",
}

// WorkbookBuilder renders invoices plus their winning suggestions into the
// two-sheet export.
type WorkbookBuilder struct {
	useMinimalWriter bool
}

// Option configures the builder.
type Option func(*WorkbookBuilder)

// WithMinimalWriter forces the hand-built OOXML writer.
func WithMinimalWriter() Option {
	return func(b *WorkbookBuilder) {
		b.useMinimalWriter = true
	}
}

func NewWorkbookBuilder(opts ...Option) *WorkbookBuilder {
	b := &WorkbookBuilder{}
	for _, opt := range opts {
		opt(b)
	}
	return b
}

// Build renders the workbook. suggestionsByInvoice holds at most the winning
// suggestion per invoice id; invoices without a winner get blank
// classification cells.
func (b *WorkbookBuilder) Build(invoices []*model.Invoice, suggestionsByInvoice map[string][]model.AISuggestion) ([]byte, error) {
	resumen := buildResumenRows(invoices, suggestionsByInvoice)
	productos := buildProductosRows(invoices)

	if b.useMinimalWriter {
		return writeMinimalWorkbook(resumen, productos)
	}
	return writeExcelizeWorkbook(resumen, productos)
}

// buildResumenRows assembles the summary sheet: one row per invoice with its
// classification. The header is row zero.
func buildResumenRows(invoices []*model.Invoice, suggestionsByInvoice map[string][]model.AISuggestion) [][]any {
	rows := [][]any{resumenHeader}
	for _, invoice := range invoices {
		code, rationale := "", ""
		var confidence any = ""
		if winners := suggestionsByInvoice[invoice.ID]; len(winners) > 0 {
			code = winners[0].AccountCode
			rationale = winners[0].Rationale
			confidence = winners[0].Confidence
		}

		rows = append(rows, []any{
			invoice.ID,
			invoice.ExternalID,
			invoice.IssueDate.Format("2006-01-02"),
			invoice.SupplierName,
			invoice.SupplierTaxID,
			invoice.CustomerName,
			invoice.CustomerTaxID,
			invoice.Currency,
			invoice.Subtotal().InexactFloat64(),
			invoice.TaxAmount.InexactFloat64(),
			invoice.TotalAmount.InexactFloat64(),
			code,
			rationale,
			confidence,
		})
	}
	return rows
}

// buildProductosRows assembles the detail sheet: one row per invoice line
// across all invoices.
func buildProductosRows(invoices []*model.Invoice) [][]any {
	rows := [][]any{productosHeader}
	for _, invoice := range invoices {
		for _, line := range invoice.Lines {
			rows = append(rows, []any{
				invoice.ID,
				invoice.ExternalID,
				line.LineID,
				line.Description,
				line.Quantity.InexactFloat64(),
				line.UnitPrice.InexactFloat64(),
				line.LineExtensionAmount.InexactFloat64(),
			})
		}
	}
	return rows
}

func writeExcelizeWorkbook(resumen, productos [][]any) ([]byte, error) {
	f := excelize.NewFile()
	defer f.Close()

	if err := f.SetSheetName(f.GetSheetName(0), sheetResumen); err != nil {
		return nil, fmt.Errorf("rename sheet: %w", err)
	}
	if _, err := f.NewSheet(sheetProductos); err != nil {
		return nil, fmt.Errorf("add sheet: %w", err)
	}

	if err := writeSheet(f, sheetResumen, resumen); err != nil {
		return nil, err
	}
	if err := writeSheet(f, sheetProductos, productos); err != nil {
		return nil, err
	}

	var buf bytes.Buffer
	if err := f.Write(&buf); err != nil {
		return nil, fmt.Errorf("write workbook: %w", err)
	}
	return buf.Bytes(), nil
}

func writeSheet(f *excelize.File, sheet string, rows [][]any) error {
	for i, row := range rows {
		ref, err := excelize.CoordinatesToCellName(1, i+1)
		if err != nil {
			return err
		}
		if err := f.SetSheetRow(sheet, ref, &row); err != nil {
			return fmt.Errorf("write row %d of %s: %w", i+1, sheet, err)
		}
	}
	return nil
}
