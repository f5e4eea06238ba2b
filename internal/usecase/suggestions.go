package usecase

import (
	"context"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/rs/zerolog"

	"github.com/cifrato/invoice-backend/internal/ai"
	"github.com/cifrato/invoice-backend/internal/model"
)

// catalogLimit bounds how many tenant PUC accounts are handed to the model.
const catalogLimit = 10000

// GenerateAccountingSuggestions produces the suggestion set for one invoice.
// Policy: AI output wins when it yields at least one usable item; otherwise a
// single manual-review fallback is synthesized. The stored set is replaced
// wholesale either way, so regeneration is idempotent.
type GenerateAccountingSuggestions struct {
	invoices    InvoiceRepository
	suggestions SuggestionRepository
	puc         PUCRepository
	service     SuggestionService
	log         zerolog.Logger
	now         func() time.Time
}

func NewGenerateAccountingSuggestions(
	invoices InvoiceRepository,
	suggestions SuggestionRepository,
	puc PUCRepository,
	service SuggestionService,
	log zerolog.Logger,
) *GenerateAccountingSuggestions {
	return &GenerateAccountingSuggestions{
		invoices:    invoices,
		suggestions: suggestions,
		puc:         puc,
		service:     service,
		log:         log,
		now:         func() time.Time { return time.Now().UTC() },
	}
}

func (uc *GenerateAccountingSuggestions) Execute(ctx context.Context, ownerID, invoiceID string) ([]model.AISuggestion, error) {
	invoice, err := uc.invoices.GetByID(ctx, invoiceID)
	if err != nil {
		return nil, err
	}
	if invoice == nil || invoice.OwnerID != ownerID {
		return nil, fmt.Errorf("%w: la factura no existe para el usuario indicado", model.ErrInvoiceNotFound)
	}

	raw := uc.service.GenerateSuggestions(ctx, serializeInvoice(invoice), uc.catalogFor(ctx, ownerID))
	suggestions := uc.coerceSuggestions(raw)

	if len(suggestions) == 0 {
		uc.log.Info().Str("invoice_id", invoice.ID).Msg("ai returned no usable suggestions, using fallback")
		suggestions = []model.AISuggestion{uc.buildFallback(invoice)}
	}

	if err := uc.suggestions.ReplaceForInvoice(ctx, invoice.ID, suggestions); err != nil {
		return nil, err
	}
	return suggestions, nil
}

// catalogFor loads the tenant's uploaded PUC for prompt context. A missing
// or failing catalog never blocks generation.
func (uc *GenerateAccountingSuggestions) catalogFor(ctx context.Context, ownerID string) []ai.CatalogEntry {
	if uc.puc == nil {
		return nil
	}
	accounts, _, err := uc.puc.ListByOwner(ctx, ownerID, "", catalogLimit, 0)
	if err != nil {
		uc.log.Warn().Err(err).Str("owner_id", ownerID).Msg("could not load puc catalog for ai context")
		return nil
	}

	entries := make([]ai.CatalogEntry, 0, len(accounts))
	for _, acc := range accounts {
		entries = append(entries, ai.CatalogEntry{
			Codigo:    acc.Codigo,
			Nombre:    acc.Nombre,
			Categoria: acc.Categoria,
			Clase:     acc.Clase,
		})
	}
	return entries
}

// coerceSuggestions validates the model's loosely typed items in a single
// pass. Items without an account code are skipped; everything else is
// normalized into a typed suggestion.
func (uc *GenerateAccountingSuggestions) coerceSuggestions(raw []ai.RawSuggestion) []model.AISuggestion {
	now := uc.now()
	var suggestions []model.AISuggestion
	for _, item := range raw {
		if suggestion, ok := coerceRawSuggestion(item, now); ok {
			suggestions = append(suggestions, suggestion)
		}
	}
	return suggestions
}

func coerceRawSuggestion(item ai.RawSuggestion, now time.Time) (model.AISuggestion, bool) {
	code := strings.TrimSpace(asString(item.AccountCode))
	if code == "" {
		return model.AISuggestion{}, false
	}

	rationale := strings.TrimSpace(asString(item.Rationale))
	if rationale == "" {
		rationale = "Sugerencia generada por el modelo de IA"
	}

	lineNumber := asInt(item.LineNumber)
	if lineNumber > 0 {
		rationale = fmt.Sprintf("Línea %d: %s", lineNumber, rationale)
	}

	return model.AISuggestion{
		AccountCode: code,
		Rationale:   rationale,
		Confidence:  asFloat(item.Confidence, 0.5),
		Source:      model.SourceAI,
		GeneratedAt: now,
		IsSelected:  false,
		LineNumber:  lineNumber,
	}, true
}

// buildFallback synthesizes the single manual-review suggestion used when the
// AI yields nothing usable: empty code forces completion, zero confidence
// forces review.
func (uc *GenerateAccountingSuggestions) buildFallback(invoice *model.Invoice) model.AISuggestion {
	descriptions := make([]string, 0, 3)
	for i, line := range invoice.Lines {
		if i == 3 {
			break
		}
		descriptions = append(descriptions, line.Description)
	}

	return model.AISuggestion{
		AccountCode: "",
		Rationale: fmt.Sprintf(
			"Servicio de IA no disponible. Por favor, clasifique manualmente esta factura según su plan contable. "+
				"Proveedor: %s. Descripción de líneas: %s.",
			invoice.SupplierName, strings.Join(descriptions, ", ")),
		Confidence:  0.0,
		Source:      model.SourceFallback,
		GeneratedAt: uc.now(),
		IsSelected:  false,
	}
}

func serializeInvoice(invoice *model.Invoice) ai.InvoicePayload {
	lines := make([]ai.LinePayload, 0, len(invoice.Lines))
	for _, line := range invoice.Lines {
		lines = append(lines, ai.LinePayload{
			Description: line.Description,
			Amount:      line.LineExtensionAmount.InexactFloat64(),
			Quantity:    line.Quantity.InexactFloat64(),
		})
	}

	return ai.InvoicePayload{
		ExternalID:    invoice.ExternalID,
		SupplierName:  invoice.SupplierName,
		SupplierTaxID: invoice.SupplierTaxID,
		CustomerName:  invoice.CustomerName,
		CustomerTaxID: invoice.CustomerTaxID,
		Currency:      invoice.Currency,
		TotalAmount:   invoice.TotalAmount.InexactFloat64(),
		TaxAmount:     invoice.TaxAmount.InexactFloat64(),
		Lines:         lines,
	}
}

// Defensive accessors for the model's untyped reply fields.

func asString(v any) string {
	switch value := v.(type) {
	case string:
		return value
	case float64:
		return strconv.FormatFloat(value, 'f', -1, 64)
	case int:
		return strconv.Itoa(value)
	default:
		return ""
	}
}

func asFloat(v any, fallback float64) float64 {
	switch value := v.(type) {
	case float64:
		return value
	case int:
		return float64(value)
	case string:
		if parsed, err := strconv.ParseFloat(strings.TrimSpace(value), 64); err == nil {
			return parsed
		}
	}
	return fallback
}

func asInt(v any) int {
	switch value := v.(type) {
	case int:
		return value
	case float64:
		return int(value)
	case string:
		if parsed, err := strconv.Atoi(strings.TrimSpace(value)); err == nil {
			return parsed
		}
	}
	return 0
}
