package excel

import (
	"bytes"
	"fmt"
	"strings"

	"github.com/xuri/excelize/v2"

	"github.com/cifrato/invoice-backend/internal/model"
)

// Spanish column headers as they appear in the tenant catalogs, with and
// without accents, mapped to the canonical field keys NewPUCAccount expects.
var pucColumnMapping = map[string]string{
	"código":               "codigo",
	"codigo":               "codigo",
	"nombre":               "nombre",
	"categoría":            "categoria",
	"categoria":            "categoria",
	"clase":                "clase",
	"relación con":         "relacion_con",
	"relacion con":         "relacion_con",
	"maneja vencimientos":  "maneja_vencimientos",
	"diferencia fiscal":    "diferencia_fiscal",
	"activo":               "activo",
	"nivel agrupación":     "nivel_agrupacion",
	"nivel agrupacion":     "nivel_agrupacion",
}

// Catalogs exported from accounting tools often carry title rows above the
// real header, so the header row is searched within this window.
const headerSearchRows = 20

// PUCWorkbookParser reads a spreadsheet of chart-of-accounts rows into
// domain accounts.
type PUCWorkbookParser struct{}

func NewPUCWorkbookParser() *PUCWorkbookParser {
	return &PUCWorkbookParser{}
}

// ParseWorkbook reads the first sheet, locates the header row by looking for a
// "Código" column, and converts every data row below it. Rows missing the
// code or name, and repeated header rows, are skipped rather than failing the
// whole upload.
func (p *PUCWorkbookParser) ParseWorkbook(content []byte, ownerID string) ([]*model.PUCAccount, error) {
	f, err := excelize.OpenReader(bytes.NewReader(content))
	if err != nil {
		return nil, fmt.Errorf("abrir el archivo de PUC: %w", err)
	}
	defer f.Close()

	sheets := f.GetSheetList()
	if len(sheets) == 0 {
		return nil, fmt.Errorf("el archivo no tiene hojas")
	}
	rows, err := f.GetRows(sheets[0])
	if err != nil {
		return nil, fmt.Errorf("leer la hoja %q: %w", sheets[0], err)
	}

	headerIdx, columns := findHeaderRow(rows)
	if headerIdx < 0 {
		return nil, fmt.Errorf("no se encontró la fila de encabezados: el archivo debe tener al menos las columnas 'Código' y 'Nombre'")
	}
	if _, ok := columns["codigo"]; !ok {
		return nil, fmt.Errorf("el archivo debe tener la columna 'Código'")
	}
	if _, ok := columns["nombre"]; !ok {
		return nil, fmt.Errorf("el archivo debe tener la columna 'Nombre'")
	}

	var accounts []*model.PUCAccount
	for _, row := range rows[headerIdx+1:] {
		if account := parsePUCRow(row, columns, ownerID); account != nil {
			accounts = append(accounts, account)
		}
	}
	return accounts, nil
}

// findHeaderRow scans the top of the sheet for a row containing a code
// column and returns its index plus the field-to-column mapping.
func findHeaderRow(rows [][]string) (int, map[string]int) {
	limit := len(rows)
	if limit > headerSearchRows {
		limit = headerSearchRows
	}
	for i := 0; i < limit; i++ {
		columns := make(map[string]int)
		hasCode := false
		for j, header := range rows[i] {
			normalized := strings.ToLower(strings.TrimSpace(header))
			if strings.Contains(normalized, "codigo") || strings.Contains(normalized, "código") {
				hasCode = true
			}
			if field, ok := pucColumnMapping[normalized]; ok {
				if _, seen := columns[field]; !seen {
					columns[field] = j
				}
			}
		}
		if hasCode {
			return i, columns
		}
	}
	return -1, nil
}

func parsePUCRow(row []string, columns map[string]int, ownerID string) *model.PUCAccount {
	fields := make(map[string]string, len(columns))
	for field, idx := range columns {
		if idx < len(row) {
			fields[field] = row[idx]
		}
	}

	codigo := strings.TrimSpace(fields["codigo"])
	nombre := strings.TrimSpace(fields["nombre"])
	if codigo == "" || nombre == "" {
		return nil
	}
	// A repeated header mid-sheet shows up as a row whose code cell says
	// "Código" again.
	if lower := strings.ToLower(codigo); lower == "codigo" || lower == "código" {
		return nil
	}
	return model.NewPUCAccount(ownerID, fields)
}
