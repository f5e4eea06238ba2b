package ai

// Only primitive types cross the AI boundary: the use case serializes the
// invoice into this payload, and the model's reply comes back as loosely
// typed RawSuggestion items that the use case coerces.

// LinePayload is one invoice line as presented to the model.
type LinePayload struct {
	Description string  `json:"description"`
	Amount      float64 `json:"amount"`
	Quantity    float64 `json:"quantity"`
}

// InvoicePayload is the plain-data projection of an invoice.
type InvoicePayload struct {
	ExternalID    string        `json:"external_id"`
	SupplierName  string        `json:"supplier_name"`
	SupplierTaxID string        `json:"supplier_tax_id"`
	CustomerName  string        `json:"customer_name"`
	CustomerTaxID string        `json:"customer_tax_id"`
	Currency      string        `json:"currency"`
	TotalAmount   float64       `json:"total_amount"`
	TaxAmount     float64       `json:"tax_amount"`
	Lines         []LinePayload `json:"lines"`
}

// CatalogEntry is a tenant PUC account offered to the model as context.
type CatalogEntry struct {
	Codigo    string `json:"codigo"`
	Nombre    string `json:"nombre"`
	Categoria string `json:"categoria"`
	Clase     string `json:"clase"`
}

// RawSuggestion mirrors one item of the model's JSON reply. Fields stay
// untyped on purpose: models return confidence as number or string, and
// line_number may be absent. Coercion happens in the generation use case.
type RawSuggestion struct {
	AccountCode any `json:"account_code"`
	Rationale   any `json:"rationale"`
	Confidence  any `json:"confidence"`
	LineNumber  any `json:"line_number"`
}
