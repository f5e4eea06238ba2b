// Package ubl parses Colombian DIAN electronic invoices (UBL 2.1) into a
// structured payload. It tolerates the document profiles seen in the wild:
// plain Invoice, CreditNote, and AttachedDocument with an embedded Invoice.
//
// Matching ignores namespace prefixes because DIAN emitters vary between
// prefixed and default-namespace documents. Optional party fields are
// extracted through ordered path candidates, first non-empty wins.
package ubl

import (
	"strconv"
	"strings"
	"time"

	"github.com/beevik/etree"
	"github.com/shopspring/decimal"

	amounts "github.com/cifrato/invoice-backend/internal/decimal"
	"github.com/cifrato/invoice-backend/internal/model"
)

// ParsedInvoice is the raw extraction result, not yet the Invoice aggregate.
// The calling use case hands it to the invoice factory.
type ParsedInvoice struct {
	ExternalID    string              `json:"external_id"`
	IssueDate     time.Time           `json:"issue_date"`
	SupplierName  string              `json:"supplier_name"`
	SupplierTaxID string              `json:"supplier_tax_id"`
	CustomerName  string              `json:"customer_name"`
	CustomerTaxID string              `json:"customer_tax_id"`
	Currency      string              `json:"currency"`
	TotalAmount   decimal.Decimal     `json:"total_amount"`
	TaxAmount     decimal.Decimal     `json:"tax_amount"`
	Lines         []model.InvoiceLine `json:"lines"`
	RawXML        string              `json:"-"`
}

// Ordered extraction candidates per field. Real DIAN documents differ in
// which party-identification elements are populated; single-path extraction
// would reject a large share of valid documents.
var (
	supplierNamePaths = []string{
		"cac:AccountingSupplierParty/cac:Party/cac:PartyName/cbc:Name",
		"cac:AccountingSupplierParty/cac:Party/cac:PartyLegalEntity/cbc:RegistrationName",
	}
	supplierTaxIDPaths = []string{
		"cac:AccountingSupplierParty/cac:Party/cac:PartyTaxScheme/cbc:CompanyID",
		"cac:AccountingSupplierParty/cac:Party/cac:PartyLegalEntity/cbc:CompanyID",
	}
	customerNamePaths = []string{
		"cac:AccountingCustomerParty/cac:Party/cac:PartyName/cbc:Name",
		"cac:AccountingCustomerParty/cac:Party/cac:PartyLegalEntity/cbc:RegistrationName",
	}
	customerTaxIDPaths = []string{
		"cac:AccountingCustomerParty/cac:Party/cac:PartyTaxScheme/cbc:CompanyID",
		"cac:AccountingCustomerParty/cac:Party/cac:PartyLegalEntity/cbc:CompanyID",
	}
	lineDescriptionPaths = []string{
		"cac:Item/cbc:Description",
		"cac:Item/cac:ItemIdentification/cbc:ID",
	}
	quantityPaths = []string{
		"cbc:InvoicedQuantity",
		"cbc:CreditedQuantity",
	}
	embeddedDocumentPaths = []string{
		"cac:Attachment/cac:ExternalReference/cbc:Description",
	}
)

// Line container element names per profile.
var lineElementNames = []string{"InvoiceLine", "CreditNoteLine"}

// Parse converts UBL XML bytes into a ParsedInvoice. All failures are
// *model.ParseError; business validation happens in the upload use case.
func Parse(xmlBytes []byte) (*ParsedInvoice, error) {
	return parse(xmlBytes, false)
}

// Parser adapts the package-level Parse function to the interface the upload
// use case consumes.
type Parser struct{}

func NewParser() *Parser {
	return &Parser{}
}

func (Parser) Parse(xmlBytes []byte) (*ParsedInvoice, error) {
	return Parse(xmlBytes)
}

func parse(xmlBytes []byte, unwrapped bool) (*ParsedInvoice, error) {
	doc := etree.NewDocument()
	if err := doc.ReadFromBytes(xmlBytes); err != nil {
		return nil, model.NewParseError("xml", "unreadable XML", err)
	}

	root := doc.Root()
	if root == nil {
		return nil, model.NewParseError("xml", "document has no root element", nil)
	}

	// AttachedDocument wraps the actual invoice as CDATA text; unwrap once.
	if root.Tag == "AttachedDocument" && !unwrapped {
		embedded := firstNonEmpty(root, embeddedDocumentPaths)
		if embedded == "" {
			return nil, model.NewParseError("attachment", "attached document has no embedded invoice", nil)
		}
		return parse([]byte(embedded), true)
	}

	result := &ParsedInvoice{
		ExternalID: findText(root, "cbc:ID"),
		RawXML:     string(xmlBytes),
	}

	dateText := findText(root, "cbc:IssueDate")
	if dateText == "" {
		return nil, model.NewParseError("issue_date", "issue date is missing", nil)
	}
	issueDate, err := time.Parse("2006-01-02", dateText)
	if err != nil {
		return nil, model.NewParseError("issue_date", "issue date is not an ISO-8601 calendar date", err)
	}
	result.IssueDate = issueDate

	result.SupplierName = firstNonEmpty(root, supplierNamePaths)
	result.SupplierTaxID = firstNonEmpty(root, supplierTaxIDPaths)
	result.CustomerName = firstNonEmpty(root, customerNamePaths)
	result.CustomerTaxID = firstNonEmpty(root, customerTaxIDPaths)

	payable := findElement(root, "cac:LegalMonetaryTotal/cbc:PayableAmount")
	if payable == nil || strings.TrimSpace(payable.Text()) == "" {
		return nil, model.NewParseError("total_amount", "payable amount is missing", nil)
	}
	result.TotalAmount, err = toDecimal("total_amount", payable.Text())
	if err != nil {
		return nil, err
	}

	result.Currency = payable.SelectAttrValue("currencyID", "")
	if result.Currency == "" {
		result.Currency = findText(root, "cbc:DocumentCurrencyCode")
	}

	// Minimal and test documents often omit the tax total; that is fine.
	result.TaxAmount = decimal.Zero
	if tax := findElement(root, "cac:TaxTotal/cbc:TaxAmount"); tax != nil && strings.TrimSpace(tax.Text()) != "" {
		result.TaxAmount, err = toDecimal("tax_amount", tax.Text())
		if err != nil {
			return nil, err
		}
	}

	lines, err := parseLines(root)
	if err != nil {
		return nil, err
	}
	if len(lines) == 0 {
		return nil, model.NewParseError("lines", "no invoice lines found", nil)
	}
	result.Lines = lines

	return result, nil
}

func parseLines(root *etree.Element) ([]model.InvoiceLine, error) {
	var lines []model.InvoiceLine
	for _, child := range root.ChildElements() {
		if !isLineElement(child.Tag) {
			continue
		}

		lineID := findText(child, "cbc:ID")
		if lineID == "" {
			lineID = strconv.Itoa(len(lines) + 1)
		}

		quantity, err := toDecimal("quantity", firstNonEmpty(child, quantityPaths))
		if err != nil {
			return nil, err
		}
		unitPrice, err := toDecimal("unit_price", findText(child, "cac:Price/cbc:PriceAmount"))
		if err != nil {
			return nil, err
		}
		lineTotal, err := toDecimal("line_extension_amount", findText(child, "cbc:LineExtensionAmount"))
		if err != nil {
			return nil, err
		}

		lines = append(lines, model.InvoiceLine{
			LineID:              lineID,
			Description:         firstNonEmpty(child, lineDescriptionPaths),
			Quantity:            quantity,
			UnitPrice:           unitPrice,
			LineExtensionAmount: lineTotal,
		})
	}
	return lines, nil
}

func isLineElement(tag string) bool {
	for _, name := range lineElementNames {
		if tag == name {
			return true
		}
	}
	return false
}

// findElement walks a slash-separated path matching children by local tag
// name only, so "cac:TaxTotal/cbc:TaxAmount" matches prefixed and
// default-namespace documents alike.
func findElement(el *etree.Element, path string) *etree.Element {
	current := el
	for _, step := range strings.Split(path, "/") {
		want := localName(step)
		var next *etree.Element
		for _, child := range current.ChildElements() {
			if child.Tag == want {
				next = child
				break
			}
		}
		if next == nil {
			return nil
		}
		current = next
	}
	return current
}

func findText(el *etree.Element, path string) string {
	node := findElement(el, path)
	if node == nil {
		return ""
	}
	return strings.TrimSpace(node.Text())
}

func firstNonEmpty(el *etree.Element, paths []string) string {
	for _, path := range paths {
		if value := findText(el, path); value != "" {
			return value
		}
	}
	return ""
}

func localName(step string) string {
	if i := strings.IndexByte(step, ':'); i >= 0 {
		return step[i+1:]
	}
	return step
}

func toDecimal(field, text string) (decimal.Decimal, error) {
	value, err := amounts.FromString(text)
	if err != nil {
		return amounts.Zero, model.NewParseError(field, "value is not numeric", err)
	}
	return value, nil
}
