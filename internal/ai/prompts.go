package ai

import (
	"fmt"
	"strings"
)

const systemPromptClassifier = `Eres un experto contador colombiano especializado en el Plan Único de Cuentas (PUC).

CONTEXTO: Factura Electrónica de Venta según DIAN 2.1 (UBL 2.1).
TAREA: Analiza cada línea de la factura y asigna el código PUC más apropiado del catálogo entregado.

Reglas:
1. SOLO usa códigos presentes en el catálogo entregado, no inventes códigos.
2. Elige el código MÁS ESPECÍFICO que coincida con la descripción de la línea.
3. Si hay duda, usa el código más genérico del grupo apropiado.

Responde ÚNICAMENTE con un array JSON (sin markdown, sin fences):
[
  {"line_number": 1, "account_code": "4135", "rationale": "Venta de mercancía - comercio", "confidence": 0.95}
]

- rationale debe explicar brevemente por qué se eligió ese código
- confidence debe ser un número entre 0 y 1`

// Fallback catalog when the tenant has not uploaded a PUC: class-4 income
// groups of the Colombian standard chart.
var defaultCatalog = []CatalogEntry{
	{Codigo: "4105", Nombre: "Agricultura, ganadería, caza y silvicultura", Clase: "Ingresos"},
	{Codigo: "4120", Nombre: "Industrias manufactureras", Clase: "Ingresos"},
	{Codigo: "4135", Nombre: "Comercio al por mayor y al por menor", Clase: "Ingresos"},
	{Codigo: "4140", Nombre: "Hoteles y restaurantes", Clase: "Ingresos"},
	{Codigo: "4145", Nombre: "Transporte, almacenamiento y comunicaciones", Clase: "Ingresos"},
	{Codigo: "4155", Nombre: "Actividades inmobiliarias, empresariales y de alquiler", Clase: "Ingresos"},
	{Codigo: "4160", Nombre: "Enseñanza", Clase: "Ingresos"},
	{Codigo: "4165", Nombre: "Servicios sociales y de salud", Clase: "Ingresos"},
	{Codigo: "4210", Nombre: "Financieros", Clase: "Ingresos"},
	{Codigo: "4220", Nombre: "Arrendamientos", Clase: "Ingresos"},
	{Codigo: "4230", Nombre: "Honorarios", Clase: "Ingresos"},
	{Codigo: "4235", Nombre: "Servicios", Clase: "Ingresos"},
	{Codigo: "4295", Nombre: "Diversos", Clase: "Ingresos"},
}

// maxPromptLines caps how many invoice lines go into the prompt.
const maxPromptLines = 15

func buildUserPrompt(payload InvoicePayload, catalog []CatalogEntry) string {
	if len(payload.Lines) == 0 {
		return ""
	}
	if len(catalog) == 0 {
		catalog = defaultCatalog
	}

	var b strings.Builder
	fmt.Fprintf(&b, "Vendedor: %s - NIT: %s\n", orNA(payload.SupplierName), orNA(payload.SupplierTaxID))
	fmt.Fprintf(&b, "Cliente: %s - NIT: %s\n", orNA(payload.CustomerName), orNA(payload.CustomerTaxID))
	fmt.Fprintf(&b, "Total factura: $%.2f %s\n\n", payload.TotalAmount, orDefault(payload.Currency, "COP"))

	b.WriteString("LÍNEAS DE PRODUCTOS/SERVICIOS:\n")
	for i, line := range payload.Lines {
		if i == maxPromptLines {
			break
		}
		fmt.Fprintf(&b, "%d. %q - $%.2f (x%.2f)\n", i+1, line.Description, line.Amount, line.Quantity)
	}

	b.WriteString("\nCATÁLOGO PUC (solo usar estos códigos):\n")
	for _, entry := range catalog {
		fmt.Fprintf(&b, "  %s: %s", entry.Codigo, entry.Nombre)
		if entry.Clase != "" {
			fmt.Fprintf(&b, " [%s]", entry.Clase)
		}
		b.WriteByte('\n')
	}

	return b.String()
}

func orNA(s string) string {
	return orDefault(s, "N/A")
}

func orDefault(s, fallback string) string {
	if s == "" {
		return fallback
	}
	return s
}
