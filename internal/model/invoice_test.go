package model_test

import (
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/cifrato/invoice-backend/internal/model"
)

func TestNewInvoice(t *testing.T) {
	lines := []model.InvoiceLine{
		{
			LineID:              "1",
			Description:         "Servicio de consultoría",
			Quantity:            decimal.NewFromInt(1),
			UnitPrice:           decimal.NewFromInt(500000),
			LineExtensionAmount: decimal.NewFromInt(500000),
		},
	}

	inv := model.NewInvoice(model.NewInvoiceParams{
		OwnerID:       "owner-1",
		ExternalID:    "SETP990000001",
		IssueDate:     time.Date(2024, 3, 1, 0, 0, 0, 0, time.UTC),
		SupplierName:  "Proveedor SAS",
		SupplierTaxID: "900123456",
		CustomerName:  "Cliente SAS",
		CustomerTaxID: "800654321",
		Currency:      "COP",
		TotalAmount:   decimal.NewFromInt(595000),
		TaxAmount:     decimal.NewFromInt(95000),
		Lines:         lines,
	})

	require.NotEmpty(t, inv.ID)
	assert.Equal(t, "owner-1", inv.OwnerID)
	assert.Equal(t, "SETP990000001", inv.ExternalID)
	assert.Len(t, inv.Lines, 1)
	assert.True(t, inv.Subtotal().Equal(decimal.NewFromInt(500000)),
		"expected subtotal 500000, got %s", inv.Subtotal())
}

func TestNewInvoice_GeneratesUniqueIDs(t *testing.T) {
	a := model.NewInvoice(model.NewInvoiceParams{OwnerID: "o", ExternalID: "x"})
	b := model.NewInvoice(model.NewInvoiceParams{OwnerID: "o", ExternalID: "x"})
	assert.NotEqual(t, a.ID, b.ID)
}

func TestNewInvoice_CopiesLines(t *testing.T) {
	lines := []model.InvoiceLine{{LineID: "1", Description: "original"}}
	inv := model.NewInvoice(model.NewInvoiceParams{OwnerID: "o", ExternalID: "x", Lines: lines})

	lines[0].Description = "mutated"
	assert.Equal(t, "original", inv.Lines[0].Description)
}

func TestNewPUCAccount_TrimsFields(t *testing.T) {
	acc := model.NewPUCAccount("owner-1", map[string]string{
		"codigo": " 4135 ",
		"nombre": "Comercio al por mayor y al por menor ",
		"clase":  "Ingresos",
	})

	require.NotEmpty(t, acc.ID)
	assert.Equal(t, "4135", acc.Codigo)
	assert.Equal(t, "Comercio al por mayor y al por menor", acc.Nombre)
	assert.Equal(t, "Ingresos", acc.Clase)
	assert.False(t, acc.CreatedAt.IsZero())
}
