package usecase

import (
	"context"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/cifrato/invoice-backend/internal/ai"
	"github.com/cifrato/invoice-backend/internal/model"
	"github.com/cifrato/invoice-backend/internal/storage/memory"
)

func newGenerateFixture(t *testing.T, reply []ai.RawSuggestion) (*GenerateAccountingSuggestions, *memory.SuggestionRepository, *stubSuggestionService, *model.Invoice) {
	t.Helper()

	invoices := memory.NewInvoiceRepository()
	suggestions := memory.NewSuggestionRepository()
	puc := memory.NewPUCRepository()
	service := &stubSuggestionService{reply: reply}
	invoice := storeInvoice(t, invoices, "owner-1", "SETP-990000001", time.Date(2024, 1, 15, 0, 0, 0, 0, time.UTC))

	uc := NewGenerateAccountingSuggestions(invoices, suggestions, puc, service, zerolog.Nop())
	return uc, suggestions, service, invoice
}

func TestGenerateAccountingSuggestions(t *testing.T) {
	uc, repo, service, invoice := newGenerateFixture(t, []ai.RawSuggestion{
		{AccountCode: "4135", Rationale: "Venta de mercancía", Confidence: 0.92},
		{AccountCode: "4175", Rationale: "Devoluciones", Confidence: 0.4, LineNumber: 2},
	})

	got, err := uc.Execute(context.Background(), "owner-1", invoice.ID)
	require.NoError(t, err)
	require.Len(t, got, 2)

	assert.Equal(t, "4135", got[0].AccountCode)
	assert.Equal(t, "Venta de mercancía", got[0].Rationale)
	assert.Equal(t, 0.92, got[0].Confidence)
	assert.Equal(t, model.SourceAI, got[0].Source)
	assert.False(t, got[0].IsSelected)
	assert.Zero(t, got[0].LineNumber)

	assert.Equal(t, 2, got[1].LineNumber)
	assert.Equal(t, "Línea 2: Devoluciones", got[1].Rationale)

	// The invoice, not the raw XML, is what the model sees.
	assert.Equal(t, "SETP-990000001", service.gotPayload.ExternalID)
	assert.Len(t, service.gotPayload.Lines, 2)

	stored, err := repo.ListForInvoice(context.Background(), invoice.ID)
	require.NoError(t, err)
	assert.Equal(t, got, stored)
}

func TestGenerateAccountingSuggestions_FallbackWhenAIYieldsNothing(t *testing.T) {
	for name, reply := range map[string][]ai.RawSuggestion{
		"nil reply":           nil,
		"items without codes": {{AccountCode: "   ", Rationale: "sin código"}, {Rationale: "tampoco"}},
	} {
		t.Run(name, func(t *testing.T) {
			uc, repo, _, invoice := newGenerateFixture(t, reply)

			got, err := uc.Execute(context.Background(), "owner-1", invoice.ID)
			require.NoError(t, err)

			// Exactly one manual-review placeholder, never zero suggestions.
			require.Len(t, got, 1)
			assert.Empty(t, got[0].AccountCode)
			assert.Equal(t, 0.0, got[0].Confidence)
			assert.Equal(t, model.SourceFallback, got[0].Source)
			assert.Contains(t, got[0].Rationale, "clasifique manualmente")
			assert.Contains(t, got[0].Rationale, "Comercializadora ABC S.A.S.")
			assert.Contains(t, got[0].Rationale, "Resma de papel carta")

			stored, err := repo.ListForInvoice(context.Background(), invoice.ID)
			require.NoError(t, err)
			require.Len(t, stored, 1)
		})
	}
}

func TestGenerateAccountingSuggestions_RegenerationReplacesSet(t *testing.T) {
	uc, repo, service, invoice := newGenerateFixture(t, []ai.RawSuggestion{
		{AccountCode: "4135", Rationale: "Primera pasada", Confidence: 0.8},
	})

	_, err := uc.Execute(context.Background(), "owner-1", invoice.ID)
	require.NoError(t, err)

	service.reply = []ai.RawSuggestion{
		{AccountCode: "4210", Rationale: "Segunda pasada", Confidence: 0.7},
	}
	_, err = uc.Execute(context.Background(), "owner-1", invoice.ID)
	require.NoError(t, err)

	// Wholesale replacement: no accumulation across runs.
	stored, err := repo.ListForInvoice(context.Background(), invoice.ID)
	require.NoError(t, err)
	require.Len(t, stored, 1)
	assert.Equal(t, "4210", stored[0].AccountCode)
}

func TestGenerateAccountingSuggestions_PassesTenantCatalog(t *testing.T) {
	invoices := memory.NewInvoiceRepository()
	suggestions := memory.NewSuggestionRepository()
	puc := memory.NewPUCRepository()
	service := &stubSuggestionService{}
	invoice := storeInvoice(t, invoices, "owner-1", "SETP-990000001", time.Date(2024, 1, 15, 0, 0, 0, 0, time.UTC))

	require.NoError(t, puc.AddBulk(context.Background(), []*model.PUCAccount{
		model.NewPUCAccount("owner-1", map[string]string{"codigo": "4135", "nombre": "Comercio", "clase": "4"}),
		model.NewPUCAccount("owner-2", map[string]string{"codigo": "9999", "nombre": "Ajena"}),
	}))

	uc := NewGenerateAccountingSuggestions(invoices, suggestions, puc, service, zerolog.Nop())
	_, err := uc.Execute(context.Background(), "owner-1", invoice.ID)
	require.NoError(t, err)

	require.Len(t, service.gotCatalog, 1)
	assert.Equal(t, "4135", service.gotCatalog[0].Codigo)
}

func TestGenerateAccountingSuggestions_OwnershipEnforced(t *testing.T) {
	uc, _, service, invoice := newGenerateFixture(t, nil)

	_, err := uc.Execute(context.Background(), "owner-2", invoice.ID)
	require.ErrorIs(t, err, model.ErrInvoiceNotFound)
	_, err = uc.Execute(context.Background(), "owner-1", "no-such-id")
	require.ErrorIs(t, err, model.ErrInvoiceNotFound)
	assert.Zero(t, service.invocations)
}

func TestCoerceRawSuggestion(t *testing.T) {
	now := time.Date(2024, 6, 1, 12, 0, 0, 0, time.UTC)

	t.Run("defaults applied", func(t *testing.T) {
		got, ok := coerceRawSuggestion(ai.RawSuggestion{AccountCode: "4135"}, now)
		require.True(t, ok)
		assert.Equal(t, "Sugerencia generada por el modelo de IA", got.Rationale)
		assert.Equal(t, 0.5, got.Confidence)
		assert.Equal(t, now, got.GeneratedAt)
	})

	t.Run("numeric code and string confidence", func(t *testing.T) {
		got, ok := coerceRawSuggestion(ai.RawSuggestion{AccountCode: 4135.0, Confidence: "0.8"}, now)
		require.True(t, ok)
		assert.Equal(t, "4135", got.AccountCode)
		assert.Equal(t, 0.8, got.Confidence)
	})

	t.Run("unparseable confidence falls back", func(t *testing.T) {
		got, ok := coerceRawSuggestion(ai.RawSuggestion{AccountCode: "4135", Confidence: "alta"}, now)
		require.True(t, ok)
		assert.Equal(t, 0.5, got.Confidence)
	})

	t.Run("line number prefixes rationale", func(t *testing.T) {
		got, ok := coerceRawSuggestion(ai.RawSuggestion{AccountCode: "4135", Rationale: "Papelería", LineNumber: 3.0}, now)
		require.True(t, ok)
		assert.Equal(t, 3, got.LineNumber)
		assert.Equal(t, "Línea 3: Papelería", got.Rationale)
	})

	t.Run("missing code is skipped", func(t *testing.T) {
		_, ok := coerceRawSuggestion(ai.RawSuggestion{Rationale: "sin código", Confidence: 0.9}, now)
		assert.False(t, ok)
	})
}
