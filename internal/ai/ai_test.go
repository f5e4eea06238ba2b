package ai

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewClient(t *testing.T) {
	client := NewClient("test-api-key")
	require.NotNil(t, client)
}

func TestNewClient_WithOptions(t *testing.T) {
	client := NewClient("test-api-key",
		WithBaseURL("https://custom.api.com/v1"),
		WithModel("openai/gpt-4o-mini"),
	)
	require.NotNil(t, client)
}

func TestExtractJSON(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		expected string
	}{
		{
			name:     "json code block",
			input:    "Aquí están las sugerencias:\n```json\n[{\"account_code\": \"4135\"}]\n```",
			expected: `[{"account_code": "4135"}]`,
		},
		{
			name:     "generic code block",
			input:    "```\n[{\"account_code\": \"4135\"}]\n```",
			expected: `[{"account_code": "4135"}]`,
		},
		{
			name:     "plain json",
			input:    `  [{"account_code": "4135"}]  `,
			expected: `[{"account_code": "4135"}]`,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, ExtractJSON(tt.input))
		})
	}
}

func TestParseReply_JSONArray(t *testing.T) {
	reply := `[
		{"line_number": 1, "account_code": "4135", "rationale": "Venta de mercancía", "confidence": 0.95},
		{"line_number": 2, "account_code": "4235", "rationale": "Servicios", "confidence": "0.8"}
	]`

	items := parseReply(reply)
	require.Len(t, items, 2)
	assert.Equal(t, "4135", items[0].AccountCode)
	assert.Equal(t, 0.95, items[0].Confidence)
	// Confidence may arrive as a string; coercion is the caller's concern.
	assert.Equal(t, "0.8", items[1].Confidence)
}

func TestParseReply_PipeSeparatedFallback(t *testing.T) {
	reply := "No pude responder en JSON, pero:\n- 4135 | Venta de mercancía | 0.9\n- 4235 | Servicios generales | 0.7\n"

	items := parseReply(reply)
	require.Len(t, items, 2)
	assert.Equal(t, "4135", items[0].AccountCode)
	assert.Equal(t, "Venta de mercancía", items[0].Rationale)
	assert.Equal(t, 0.9, items[0].Confidence)
}

func TestParseReply_Garbage(t *testing.T) {
	assert.Nil(t, parseReply("lo siento, no puedo clasificar esta factura"))
}

func TestBuildUserPrompt(t *testing.T) {
	payload := InvoicePayload{
		SupplierName: "Proveedor SAS",
		Currency:     "COP",
		TotalAmount:  119000,
		Lines: []LinePayload{
			{Description: "Cajas de archivo", Amount: 60000, Quantity: 2},
		},
	}

	prompt := buildUserPrompt(payload, nil)
	assert.Contains(t, prompt, "Proveedor SAS")
	assert.Contains(t, prompt, "Cajas de archivo")
	// With no tenant catalog, the standard class-4 codes are offered.
	assert.Contains(t, prompt, "4135")
}

func TestBuildUserPrompt_TenantCatalog(t *testing.T) {
	payload := InvoicePayload{
		Lines: []LinePayload{{Description: "Arriendo local", Amount: 2000000, Quantity: 1}},
	}
	catalog := []CatalogEntry{{Codigo: "42200501", Nombre: "Arrendamiento bodega", Clase: "Ingresos"}}

	prompt := buildUserPrompt(payload, catalog)
	assert.Contains(t, prompt, "42200501")
	assert.NotContains(t, prompt, "4140")
}

func TestBuildUserPrompt_CapsLines(t *testing.T) {
	payload := InvoicePayload{Lines: make([]LinePayload, 40)}
	for i := range payload.Lines {
		payload.Lines[i] = LinePayload{Description: "item", Amount: 1, Quantity: 1}
	}

	prompt := buildUserPrompt(payload, nil)
	assert.Equal(t, maxPromptLines, strings.Count(prompt, `"item"`))
}

func TestBuildUserPrompt_NoLines(t *testing.T) {
	assert.Empty(t, buildUserPrompt(InvoicePayload{}, nil))
}
