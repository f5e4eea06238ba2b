package invoicelib_test

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/cifrato/invoice-backend/pkg/invoicelib"
)

const sampleXML = `<?xml version="1.0" encoding="UTF-8"?>
<Invoice xmlns="urn:oasis:names:specification:ubl:schema:xsd:Invoice-2"
  xmlns:cac="urn:oasis:names:specification:ubl:schema:xsd:CommonAggregateComponents-2"
  xmlns:cbc="urn:oasis:names:specification:ubl:schema:xsd:CommonBasicComponents-2">
  <cbc:ID>SETP-990000001</cbc:ID>
  <cbc:IssueDate>2024-01-15</cbc:IssueDate>
  <cac:LegalMonetaryTotal>
    <cbc:PayableAmount currencyID="COP">119000</cbc:PayableAmount>
  </cac:LegalMonetaryTotal>
  <cac:InvoiceLine>
    <cbc:ID>1</cbc:ID>
    <cbc:InvoicedQuantity>10</cbc:InvoicedQuantity>
    <cbc:LineExtensionAmount>100000</cbc:LineExtensionAmount>
    <cac:Item><cbc:Description>Resma de papel carta</cbc:Description></cac:Item>
    <cac:Price><cbc:PriceAmount>10000</cbc:PriceAmount></cac:Price>
  </cac:InvoiceLine>
</Invoice>`

func TestParse(t *testing.T) {
	invoice, err := invoicelib.Parse([]byte(sampleXML))
	require.NoError(t, err)
	assert.Equal(t, "SETP-990000001", invoice.ExternalID)
	assert.Equal(t, "COP", invoice.Currency)
	require.Len(t, invoice.Lines, 1)
}

func TestParseReader(t *testing.T) {
	invoice, err := invoicelib.ParseReader(strings.NewReader(sampleXML))
	require.NoError(t, err)
	assert.Equal(t, "SETP-990000001", invoice.ExternalID)

	_, err = invoicelib.ParseReader(strings.NewReader("no es xml"))
	require.Error(t, err)
}
