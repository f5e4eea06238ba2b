package server

import (
	"time"

	"github.com/cifrato/invoice-backend/internal/model"
	"github.com/cifrato/invoice-backend/internal/usecase"
)

// Request payloads

type registerRequest struct {
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required,min=8"`
}

type loginRequest struct {
	Email    string `json:"email" binding:"required"`
	Password string `json:"password" binding:"required"`
}

type selectSuggestionRequest struct {
	LineNumber  int    `json:"line_number"`
	AccountCode string `json:"account_code" binding:"required"`
}

// Response payloads

type tokenResponse struct {
	AccessToken string `json:"access_token"`
	TokenType   string `json:"token_type"`
}

type userResponse struct {
	ID    string `json:"id"`
	Email string `json:"email"`
}

type invoiceLineResponse struct {
	LineID      string `json:"line_id"`
	Description string `json:"description"`
	Quantity    string `json:"quantity"`
	UnitPrice   string `json:"unit_price"`
	Subtotal    string `json:"subtotal"`
}

type invoiceResponse struct {
	ID               string                `json:"id"`
	ExternalID       string                `json:"external_id"`
	IssueDate        string                `json:"issue_date"`
	SupplierName     string                `json:"supplier_name"`
	SupplierTaxID    string                `json:"supplier_tax_id"`
	CustomerName     string                `json:"customer_name"`
	CustomerTaxID    string                `json:"customer_tax_id"`
	Currency         string                `json:"currency"`
	Subtotal         string                `json:"subtotal"`
	TaxAmount        string                `json:"tax_amount"`
	TotalAmount      string                `json:"total_amount"`
	Status           string                `json:"status"`
	OriginalFilename string                `json:"original_filename,omitempty"`
	Lines            []invoiceLineResponse `json:"lines"`
}

type suggestionResponse struct {
	AccountCode string    `json:"account_code"`
	Rationale   string    `json:"rationale"`
	Confidence  float64   `json:"confidence"`
	Source      string    `json:"source"`
	GeneratedAt time.Time `json:"generated_at"`
	IsSelected  bool      `json:"is_selected"`
	LineNumber  int       `json:"line_number"`
}

type invoiceDetailResponse struct {
	invoiceResponse
	Suggestions []suggestionResponse `json:"suggestions"`
}

type pucAccountResponse struct {
	Codigo    string `json:"codigo"`
	Nombre    string `json:"nombre"`
	Categoria string `json:"categoria,omitempty"`
	Clase     string `json:"clase,omitempty"`
}

type pucPageResponse struct {
	Accounts   []pucAccountResponse `json:"accounts"`
	Total      int                  `json:"total"`
	Page       int                  `json:"page"`
	PageSize   int                  `json:"page_size"`
	TotalPages int                  `json:"total_pages"`
}

type pucUploadResponse struct {
	TotalAccounts int `json:"total_accounts"`
}

type pucStatsResponse struct {
	TotalAccounts int  `json:"total_accounts"`
	HasPUC        bool `json:"has_puc"`
}

// Mapping helpers

func toInvoiceResponse(invoice *model.Invoice, status string) invoiceResponse {
	lines := make([]invoiceLineResponse, 0, len(invoice.Lines))
	for _, line := range invoice.Lines {
		lines = append(lines, invoiceLineResponse{
			LineID:      line.LineID,
			Description: line.Description,
			Quantity:    line.Quantity.String(),
			UnitPrice:   line.UnitPrice.String(),
			Subtotal:    line.LineExtensionAmount.String(),
		})
	}

	return invoiceResponse{
		ID:               invoice.ID,
		ExternalID:       invoice.ExternalID,
		IssueDate:        invoice.IssueDate.Format("2006-01-02"),
		SupplierName:     invoice.SupplierName,
		SupplierTaxID:    invoice.SupplierTaxID,
		CustomerName:     invoice.CustomerName,
		CustomerTaxID:    invoice.CustomerTaxID,
		Currency:         invoice.Currency,
		Subtotal:         invoice.Subtotal().String(),
		TaxAmount:        invoice.TaxAmount.String(),
		TotalAmount:      invoice.TotalAmount.String(),
		Status:           status,
		OriginalFilename: invoice.OriginalFilename,
		Lines:            lines,
	}
}

func toSuggestionResponses(suggestions []model.AISuggestion) []suggestionResponse {
	out := make([]suggestionResponse, 0, len(suggestions))
	for _, s := range suggestions {
		out = append(out, suggestionResponse{
			AccountCode: s.AccountCode,
			Rationale:   s.Rationale,
			Confidence:  s.Confidence,
			Source:      string(s.Source),
			GeneratedAt: s.GeneratedAt,
			IsSelected:  s.IsSelected,
			LineNumber:  s.LineNumber,
		})
	}
	return out
}

func toPUCPageResponse(page *usecase.PUCPage) pucPageResponse {
	accounts := make([]pucAccountResponse, 0, len(page.Accounts))
	for _, acc := range page.Accounts {
		accounts = append(accounts, pucAccountResponse{
			Codigo:    acc.Codigo,
			Nombre:    acc.Nombre,
			Categoria: acc.Categoria,
			Clase:     acc.Clase,
		})
	}
	return pucPageResponse{
		Accounts:   accounts,
		Total:      page.Total,
		Page:       page.Page,
		PageSize:   page.PageSize,
		TotalPages: page.TotalPages,
	}
}
