// Package usecase orchestrates the invoice ingestion and classification
// pipeline over narrow repository and service contracts. Persistence and AI
// transport are injected collaborators; everything here is synchronous,
// single-request-scoped logic.
package usecase

import (
	"context"

	"github.com/cifrato/invoice-backend/internal/ai"
	"github.com/cifrato/invoice-backend/internal/model"
	"github.com/cifrato/invoice-backend/internal/parser/ubl"
)

// InvoiceRepository persists invoice aggregates. Lookup methods return
// (nil, nil) when no matching invoice exists.
type InvoiceRepository interface {
	GetByID(ctx context.Context, invoiceID string) (*model.Invoice, error)
	ListForUser(ctx context.Context, ownerID string) ([]*model.Invoice, error)
	Add(ctx context.Context, invoice *model.Invoice) error
	FindByOwnerAndExternalID(ctx context.Context, ownerID, externalID string) (*model.Invoice, error)
}

// SuggestionRepository persists suggestion sets per invoice.
// ReplaceForInvoice is all-or-nothing: a concurrent reader must never see a
// partially replaced set.
type SuggestionRepository interface {
	ListForInvoice(ctx context.Context, invoiceID string) ([]model.AISuggestion, error)
	ReplaceForInvoice(ctx context.Context, invoiceID string, suggestions []model.AISuggestion) error
}

// PUCRepository persists the tenant chart-of-accounts, bulk-replaced as a
// unit on upload.
type PUCRepository interface {
	AddBulk(ctx context.Context, accounts []*model.PUCAccount) error
	ListByOwner(ctx context.Context, ownerID, search string, limit, offset int) ([]*model.PUCAccount, int, error)
	DeleteAllByOwner(ctx context.Context, ownerID string) error
	CountByOwner(ctx context.Context, ownerID string) (int, error)
}

// UserRepository persists tenant accounts.
type UserRepository interface {
	GetByID(ctx context.Context, userID string) (*model.User, error)
	GetByEmail(ctx context.Context, email string) (*model.User, error)
	Add(ctx context.Context, user *model.User) error
}

// InvoiceParser turns raw XML bytes into the parsed payload.
type InvoiceParser interface {
	Parse(xmlBytes []byte) (*ubl.ParsedInvoice, error)
}

// SuggestionService is the AI collaborator. It must never fail in a way that
// aborts the use case; an empty result is the "unavailable" signal.
type SuggestionService interface {
	GenerateSuggestions(ctx context.Context, payload ai.InvoicePayload, catalog []ai.CatalogEntry) []ai.RawSuggestion
}

// WorkbookBuilder renders the export spreadsheet.
type WorkbookBuilder interface {
	Build(invoices []*model.Invoice, suggestionsByInvoice map[string][]model.AISuggestion) ([]byte, error)
}

// PUCWorkbookParser reads a tenant chart-of-accounts from an Excel upload.
type PUCWorkbookParser interface {
	ParseWorkbook(content []byte, ownerID string) ([]*model.PUCAccount, error)
}

// PasswordHasher hashes and verifies user passwords.
type PasswordHasher interface {
	Hash(plain string) (string, error)
	Verify(plain, hashed string) bool
}

// TokenService issues and validates access tokens.
type TokenService interface {
	CreateAccessToken(subject string) (string, error)
	VerifyToken(token string) (string, error)
}
