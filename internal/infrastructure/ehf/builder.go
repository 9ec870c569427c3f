// Package ehf renders the canonical invoice into a Peppol BIS Billing 3.0
// (UBL 2.1) XML document, the Norwegian EHF profile.
//
// Known limitation: the document-level TaxSubtotal carries a single
// representative VAT rate (the first non-zero line rate). Invoices mixing
// several VAT rates are emitted with that one rate at document level; the
// per-line ClassifiedTaxCategory elements still carry each line's own rate.
package ehf

import (
	"bytes"
	"encoding/xml"
	"fmt"
	"strconv"

	"github.com/shopspring/decimal"

	"github.com/enkelfaktura/faktura-api/internal/domain/billing"
	"github.com/enkelfaktura/faktura-api/internal/domain/entity"
)

// UBL 2.1 namespaces and Peppol BIS Billing 3.0 identifiers.
const (
	NsInvoice = "urn:oasis:names:specification:ubl:schema:xsd:Invoice-2"
	NsCac     = "urn:oasis:names:specification:ubl:schema:xsd:CommonAggregateComponents-2"
	NsCbc     = "urn:oasis:names:specification:ubl:schema:xsd:CommonBasicComponents-2"

	CustomizationID = "urn:peppol.eu:bis:billing:3"
	ProfileID       = "urn:peppol.eu:profile:billing:01"

	// InvoiceTypeCode 380 = commercial invoice (UNCL1001).
	InvoiceTypeCode = "380"
	// PaymentMeansCreditTransfer = bank/credit transfer (UNCL4461 code 31).
	PaymentMeansCreditTransfer = "31"
	// UnitCodeEach = "one unit" (UN/ECE rec 20 code C62).
	UnitCodeEach = "C62"
	// TaxCategoryStandard = standard rate VAT category.
	TaxCategoryStandard = "S"

	// DefaultCurrency is assumed when the invoice carries no currency code.
	DefaultCurrency = "NOK"
)

// BuilderService assembles the EHF invoice document. Construction is pure
// string assembly in memory: it cannot fail for any invoice satisfying the
// domain invariants, the output is never partially written, and identical
// input always produces byte-identical output.
type BuilderService struct{}

// NewBuilderService creates the service.
func NewBuilderService() *BuilderService {
	return &BuilderService{}
}

// Filename returns the download name for the document.
func (s *BuilderService) Filename(inv *entity.Invoice) string {
	return "Faktura-" + inv.InvoiceNumber + ".xml"
}

// Build renders the invoice as a UTF-8 XML document.
//
// Element names carry their cac:/cbc: prefixes literally: the encoder treats
// them as opaque local names and the namespaces are declared once on the
// root, which keeps the conventional prefixed form on the wire while CharData
// tokens still escape every metacharacter in text nodes uniformly.
func (s *BuilderService) Build(inv *entity.Invoice) ([]byte, error) {
	if inv == nil || inv.Sender == nil || inv.Receiver == nil {
		return nil, fmt.Errorf("ehf: invoice, sender and receiver are required")
	}
	currency := inv.Currency
	if currency == "" {
		currency = DefaultCurrency
	}

	var buf bytes.Buffer
	buf.WriteString(xml.Header)
	enc := xml.NewEncoder(&buf)
	enc.Indent("", "  ")

	root := xml.StartElement{
		Name: xml.Name{Local: "Invoice"},
		Attr: []xml.Attr{
			{Name: xml.Name{Local: "xmlns"}, Value: NsInvoice},
			{Name: xml.Name{Local: "xmlns:cac"}, Value: NsCac},
			{Name: xml.Name{Local: "xmlns:cbc"}, Value: NsCbc},
		},
	}
	if err := enc.EncodeToken(root); err != nil {
		return nil, err
	}

	writeCbc(enc, "CustomizationID", CustomizationID)
	writeCbc(enc, "ProfileID", ProfileID)
	writeCbc(enc, "ID", inv.InvoiceNumber)
	writeCbcWithAttr(enc, "InvoiceTypeCode", InvoiceTypeCode, "listID", "UNCL1001")
	writeCbc(enc, "IssueDate", inv.IssueDate.Format("2006-01-02"))
	writeCbc(enc, "DueDate", inv.DueDate.Format("2006-01-02"))
	if inv.Reference != "" {
		writeCbc(enc, "BuyerReference", inv.Reference)
	}
	writeCbc(enc, "DocumentCurrencyCode", currency)

	s.writeParty(enc, "cac:AccountingSupplierParty", inv.Sender)
	s.writeParty(enc, "cac:AccountingCustomerParty", inv.Receiver)
	s.writePaymentMeans(enc, inv.Sender)
	s.writeTaxTotal(enc, inv, currency)
	s.writeLegalMonetaryTotal(enc, inv, currency)
	for i := range inv.Lines {
		s.writeInvoiceLine(enc, i+1, &inv.Lines[i], currency)
	}

	if err := enc.EncodeToken(root.End()); err != nil {
		return nil, err
	}
	if err := enc.Flush(); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// writeParty emits one supplier/customer block. The endpoint identifier
// scheme follows the party variant: organization numbers under scheme 0192,
// individuals by name under the generic ZZZ scheme.
func (s *BuilderService) writeParty(enc *xml.Encoder, label string, p *entity.Party) {
	open(enc, label)
	open(enc, "cac:Party")

	writeCbcWithAttr(enc, "EndpointID", billing.EndpointID(p), "schemeID", billing.EndpointScheme(p))

	if p.IsOrganization() {
		open(enc, "cac:PartyIdentification")
		writeCbcWithAttr(enc, "ID", p.OrgNumber, "schemeID", billing.SchemeOrgNumber)
		closeEl(enc, "cac:PartyIdentification")
	}

	open(enc, "cac:PartyLegalEntity")
	writeCbc(enc, "RegistrationName", p.Name)
	if p.IsOrganization() {
		writeCbcWithAttr(enc, "CompanyID", p.OrgNumber, "schemeID", billing.SchemeOrgNumber)
	}
	closeEl(enc, "cac:PartyLegalEntity")

	open(enc, "cac:PostalAddress")
	writeCbc(enc, "StreetName", p.Address.Street)
	writeCbc(enc, "CityName", p.Address.City)
	writeCbc(enc, "PostalZone", p.Address.PostalCode)
	writeCbc(enc, "CountrySubentity", p.Address.City)
	open(enc, "cac:Country")
	writeCbc(enc, "IdentificationCode", billing.CountryCode(p.Address.Country))
	closeEl(enc, "cac:Country")
	closeEl(enc, "cac:PostalAddress")

	if p.Email != "" {
		writeCbc(enc, "ElectronicMail", p.Email)
	}
	if p.Phone != "" {
		writeCbc(enc, "Telephone", p.Phone)
	}

	closeEl(enc, "cac:Party")
	closeEl(enc, label)
}

// writePaymentMeans is emitted only for organization senders carrying a bank
// account or IBAN. The payee account prefers IBAN over the domestic account.
func (s *BuilderService) writePaymentMeans(enc *xml.Encoder, sender *entity.Party) {
	if !sender.IsOrganization() || (sender.BankAccount == "" && sender.IBAN == "") {
		return
	}
	open(enc, "cac:PaymentMeans")
	writeCbc(enc, "PaymentMeansCode", PaymentMeansCreditTransfer)
	if sender.BankAccount != "" {
		writeCbc(enc, "PaymentID", sender.BankAccount)
	}
	account := sender.IBAN
	if account == "" {
		account = sender.BankAccount
	}
	open(enc, "cac:PayeeFinancialAccount")
	writeCbc(enc, "ID", account)
	closeEl(enc, "cac:PayeeFinancialAccount")
	closeEl(enc, "cac:PaymentMeans")
}

// writeTaxTotal emits the aggregate tax amount, plus exactly one TaxSubtotal
// when the invoice carries VAT. See the package comment for the
// single-category limitation.
func (s *BuilderService) writeTaxTotal(enc *xml.Encoder, inv *entity.Invoice, currency string) {
	open(enc, "cac:TaxTotal")
	writeCbcAmount(enc, "TaxAmount", formatAmount(inv.TotalVat), currency)
	if inv.TotalVat.IsPositive() {
		open(enc, "cac:TaxSubtotal")
		writeCbcAmount(enc, "TaxableAmount", formatAmount(inv.Subtotal), currency)
		writeCbcAmount(enc, "TaxAmount", formatAmount(inv.TotalVat), currency)
		s.writeTaxCategory(enc, "cac:TaxCategory", billing.RepresentativeVatRate(inv))
		closeEl(enc, "cac:TaxSubtotal")
	}
	closeEl(enc, "cac:TaxTotal")
}

func (s *BuilderService) writeTaxCategory(enc *xml.Encoder, label string, rate decimal.Decimal) {
	open(enc, label)
	writeCbc(enc, "ID", TaxCategoryStandard)
	writeCbc(enc, "Percent", formatAmount(rate))
	open(enc, "cac:TaxScheme")
	writeCbc(enc, "ID", "VAT")
	closeEl(enc, "cac:TaxScheme")
	closeEl(enc, label)
}

func (s *BuilderService) writeLegalMonetaryTotal(enc *xml.Encoder, inv *entity.Invoice, currency string) {
	open(enc, "cac:LegalMonetaryTotal")
	writeCbcAmount(enc, "LineExtensionAmount", formatAmount(inv.Subtotal), currency)
	writeCbcAmount(enc, "TaxExclusiveAmount", formatAmount(inv.Subtotal), currency)
	writeCbcAmount(enc, "TaxInclusiveAmount", formatAmount(inv.Total), currency)
	writeCbcAmount(enc, "PayableAmount", formatAmount(inv.Total), currency)
	closeEl(enc, "cac:LegalMonetaryTotal")
}

func (s *BuilderService) writeInvoiceLine(enc *xml.Encoder, lineNum int, line *entity.InvoiceLine, currency string) {
	open(enc, "cac:InvoiceLine")
	writeCbc(enc, "ID", strconv.Itoa(lineNum))
	writeCbcWithAttr(enc, "InvoicedQuantity", formatAmount(line.Quantity), "unitCode", UnitCodeEach)
	writeCbcAmount(enc, "LineExtensionAmount", formatAmount(line.Amount), currency)

	open(enc, "cac:Item")
	writeCbc(enc, "Description", line.Description)
	s.writeTaxCategory(enc, "cac:ClassifiedTaxCategory", line.VatRate)
	closeEl(enc, "cac:Item")

	open(enc, "cac:Price")
	writeCbcAmount(enc, "PriceAmount", formatAmount(line.UnitPrice), currency)
	closeEl(enc, "cac:Price")

	closeEl(enc, "cac:InvoiceLine")
}

// Token helpers.

func open(enc *xml.Encoder, name string) {
	_ = enc.EncodeToken(xml.StartElement{Name: xml.Name{Local: name}})
}

func closeEl(enc *xml.Encoder, name string) {
	_ = enc.EncodeToken(xml.EndElement{Name: xml.Name{Local: name}})
}

func writeCbc(enc *xml.Encoder, local, value string) {
	name := "cbc:" + local
	open(enc, name)
	_ = enc.EncodeToken(xml.CharData(value))
	closeEl(enc, name)
}

func writeCbcAmount(enc *xml.Encoder, local, value, currency string) {
	writeCbcWithAttr(enc, local, value, "currencyID", currency)
}

func writeCbcWithAttr(enc *xml.Encoder, local, value, attrLocal, attrValue string) {
	name := "cbc:" + local
	_ = enc.EncodeToken(xml.StartElement{
		Name: xml.Name{Local: name},
		Attr: []xml.Attr{{Name: xml.Name{Local: attrLocal}, Value: attrValue}},
	})
	_ = enc.EncodeToken(xml.CharData(value))
	closeEl(enc, name)
}

func formatAmount(d decimal.Decimal) string {
	return d.Round(2).StringFixed(2)
}
