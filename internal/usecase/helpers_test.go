package usecase

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"

	"github.com/cifrato/invoice-backend/internal/ai"
	"github.com/cifrato/invoice-backend/internal/model"
	"github.com/cifrato/invoice-backend/internal/parser/ubl"
	"github.com/cifrato/invoice-backend/internal/storage/memory"
)

// stubParser returns a canned parse result or error.
type stubParser struct {
	parsed *ubl.ParsedInvoice
	err    error
}

func (p *stubParser) Parse(_ []byte) (*ubl.ParsedInvoice, error) {
	return p.parsed, p.err
}

// stubSuggestionService records what it was called with and replies with a
// fixed raw set.
type stubSuggestionService struct {
	reply       []ai.RawSuggestion
	gotPayload  ai.InvoicePayload
	gotCatalog  []ai.CatalogEntry
	invocations int
}

func (s *stubSuggestionService) GenerateSuggestions(_ context.Context, payload ai.InvoicePayload, catalog []ai.CatalogEntry) []ai.RawSuggestion {
	s.invocations++
	s.gotPayload = payload
	s.gotCatalog = catalog
	return s.reply
}

// stubBuilder captures the arguments of the last Build call.
type stubBuilder struct {
	invoices []*model.Invoice
	winners  map[string][]model.AISuggestion
	err      error
}

func (b *stubBuilder) Build(invoices []*model.Invoice, winners map[string][]model.AISuggestion) ([]byte, error) {
	b.invoices = invoices
	b.winners = winners
	if b.err != nil {
		return nil, b.err
	}
	return []byte("workbook"), nil
}

type stubHasher struct{}

func (stubHasher) Hash(plain string) (string, error) {
	if plain == "" {
		return "", errors.New("empty password")
	}
	return "hashed:" + plain, nil
}

func (stubHasher) Verify(plain, hashed string) bool {
	return hashed == "hashed:"+plain
}

type stubTokens struct{}

func (stubTokens) CreateAccessToken(subject string) (string, error) { return "token-" + subject, nil }

func (stubTokens) VerifyToken(token string) (string, error) { return "", errors.New("not implemented") }

func parsedFixture(externalID string, issueDate time.Time) *ubl.ParsedInvoice {
	return &ubl.ParsedInvoice{
		ExternalID:    externalID,
		IssueDate:     issueDate,
		SupplierName:  "Comercializadora ABC S.A.S.",
		SupplierTaxID: "900123456",
		CustomerName:  "Cliente XYZ Ltda.",
		CustomerTaxID: "800654321",
		Currency:      "COP",
		TotalAmount:   decimal.NewFromInt(119000),
		TaxAmount:     decimal.NewFromInt(19000),
		Lines: []model.InvoiceLine{
			{LineID: "1", Description: "Resma de papel carta", Quantity: decimal.NewFromInt(10), UnitPrice: decimal.NewFromInt(10000), LineExtensionAmount: decimal.NewFromInt(100000)},
			{LineID: "2", Description: "Caja de esferos", Quantity: decimal.NewFromInt(5), UnitPrice: decimal.NewFromInt(2000), LineExtensionAmount: decimal.NewFromInt(10000)},
		},
		RawXML: "<Invoice/>",
	}
}

// storeInvoice uploads a parsed fixture through the real use case so tests
// exercise the same write path as production.
func storeInvoice(t *testing.T, invoices *memory.InvoiceRepository, ownerID, externalID string, issueDate time.Time) *model.Invoice {
	t.Helper()

	uc := NewUploadInvoice(invoices, &stubParser{parsed: parsedFixture(externalID, issueDate)})
	invoice, err := uc.Execute(context.Background(), ownerID, externalID+".xml", []byte("<Invoice/>"))
	require.NoError(t, err)
	return invoice
}
