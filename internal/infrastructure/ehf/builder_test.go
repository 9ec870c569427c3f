package ehf_test

import (
	"strings"
	"testing"
	"time"

	"github.com/beevik/etree"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/enkelfaktura/faktura-api/internal/domain/billing"
	"github.com/enkelfaktura/faktura-api/internal/domain/entity"
	"github.com/enkelfaktura/faktura-api/internal/infrastructure/ehf"
)

// referenceInvoice builds the documented end-to-end example: Firma AS invoices
// Ola Nordmann for 10 consulting hours at 1000 NOK with 25% VAT.
func referenceInvoice() *entity.Invoice {
	inv := &entity.Invoice{
		InvoiceNumber: "2024-001",
		IssueDate:     time.Date(2024, 3, 1, 0, 0, 0, 0, time.UTC),
		DueDate:       time.Date(2024, 3, 15, 0, 0, 0, 0, time.UTC),
		Currency:      "NOK",
		Language:      entity.LanguageNorwegian,
		Sender: &entity.Party{
			Kind:        entity.PartyOrganization,
			Name:        "Firma AS",
			OrgNumber:   "999999999",
			BankAccount: "12345678903",
			Address: entity.Address{
				Street: "Storgata 1", PostalCode: "0001", City: "Oslo", Country: "Norge",
			},
			Email: "post@firma.no",
		},
		Receiver: &entity.Party{
			Kind: entity.PartyIndividual,
			Name: "Ola Nordmann",
			Address: entity.Address{
				Street: "Lillegata 2", PostalCode: "0002", City: "Oslo", Country: "Norge",
			},
		},
		Lines: []entity.InvoiceLine{
			{
				Description: "Konsulenttjenester",
				Quantity:    decimal.NewFromInt(10),
				UnitPrice:   decimal.NewFromInt(1000),
				VatRate:     decimal.NewFromInt(25),
			},
		},
	}
	billing.Compute(inv)
	return inv
}

func parse(t *testing.T, out []byte) *etree.Document {
	t.Helper()
	doc := etree.NewDocument()
	require.NoError(t, doc.ReadFromBytes(out), "emitted document must be well-formed XML")
	return doc
}

func TestBuild_ReferenceInvoice(t *testing.T) {
	svc := ehf.NewBuilderService()
	out, err := svc.Build(referenceInvoice())
	require.NoError(t, err)

	assert.Contains(t, string(out),
		`<cbc:PayableAmount currencyID="NOK">12500.00</cbc:PayableAmount>`)

	doc := parse(t, out)
	root := doc.Root()
	require.NotNil(t, root)
	assert.Equal(t, "Invoice", root.Tag)

	assert.Equal(t, "urn:peppol.eu:bis:billing:3", root.FindElement("cbc:CustomizationID").Text())
	assert.Equal(t, "urn:peppol.eu:profile:billing:01", root.FindElement("cbc:ProfileID").Text())
	assert.Equal(t, "2024-001", root.FindElement("cbc:ID").Text())
	assert.Equal(t, "380", root.FindElement("cbc:InvoiceTypeCode").Text())
	assert.Equal(t, "2024-03-01", root.FindElement("cbc:IssueDate").Text())
	assert.Equal(t, "2024-03-15", root.FindElement("cbc:DueDate").Text())
	assert.Equal(t, "NOK", root.FindElement("cbc:DocumentCurrencyCode").Text())

	subtotals := root.FindElements("//cac:TaxSubtotal")
	require.Len(t, subtotals, 1, "exactly one TaxSubtotal for a taxed invoice")
	assert.Equal(t, "25.00", subtotals[0].FindElement("cac:TaxCategory/cbc:Percent").Text())
	assert.Equal(t, "10000.00", subtotals[0].FindElement("cbc:TaxableAmount").Text())
	assert.Equal(t, "2500.00", subtotals[0].FindElement("cbc:TaxAmount").Text())

	totals := root.FindElement("cac:LegalMonetaryTotal")
	require.NotNil(t, totals)
	assert.Equal(t, "10000.00", totals.FindElement("cbc:LineExtensionAmount").Text())
	assert.Equal(t, "10000.00", totals.FindElement("cbc:TaxExclusiveAmount").Text())
	assert.Equal(t, "12500.00", totals.FindElement("cbc:TaxInclusiveAmount").Text())

	lines := root.FindElements("cac:InvoiceLine")
	require.Len(t, lines, 1)
	assert.Equal(t, "1", lines[0].FindElement("cbc:ID").Text())
	qty := lines[0].FindElement("cbc:InvoicedQuantity")
	assert.Equal(t, "10.00", qty.Text())
	assert.Equal(t, "C62", qty.SelectAttrValue("unitCode", ""))
	assert.Equal(t, "Konsulenttjenester", lines[0].FindElement("cac:Item/cbc:Description").Text())
	assert.Equal(t, "1000.00", lines[0].FindElement("cac:Price/cbc:PriceAmount").Text())
}

func TestBuild_PartyEndpointSchemes(t *testing.T) {
	svc := ehf.NewBuilderService()
	out, err := svc.Build(referenceInvoice())
	require.NoError(t, err)
	doc := parse(t, out)

	supplier := doc.Root().FindElement("cac:AccountingSupplierParty/cac:Party")
	require.NotNil(t, supplier)
	ep := supplier.FindElement("cbc:EndpointID")
	assert.Equal(t, "0192", ep.SelectAttrValue("schemeID", ""))
	assert.Equal(t, "999999999", ep.Text())
	assert.Equal(t, "999999999",
		supplier.FindElement("cac:PartyIdentification/cbc:ID").Text())
	assert.Equal(t, "Firma AS",
		supplier.FindElement("cac:PartyLegalEntity/cbc:RegistrationName").Text())

	customer := doc.Root().FindElement("cac:AccountingCustomerParty/cac:Party")
	require.NotNil(t, customer)
	ep = customer.FindElement("cbc:EndpointID")
	assert.Equal(t, "ZZZ", ep.SelectAttrValue("schemeID", ""), "individuals use the generic scheme")
	assert.Equal(t, "Ola Nordmann", ep.Text())
	assert.Nil(t, customer.FindElement("cac:PartyIdentification"),
		"individuals carry no registry identification block")

	// Free-text country defaults to the local jurisdiction code.
	assert.Equal(t, "NO",
		supplier.FindElement("cac:PostalAddress/cac:Country/cbc:IdentificationCode").Text())
}

func TestBuild_EscapesTextNodes(t *testing.T) {
	inv := referenceInvoice()
	inv.Lines[0].Description = `A & B <test>`
	inv.Sender.Name = `O'Brien "AS" <Ltd>`
	billing.Compute(inv)

	svc := ehf.NewBuilderService()
	out, err := svc.Build(inv)
	require.NoError(t, err)

	assert.Contains(t, string(out), "A &amp; B &lt;test&gt;")
	assert.NotContains(t, string(out), "<test>", "raw metacharacters must never reach the output")

	// Still parses, and the values round-trip.
	doc := parse(t, out)
	assert.Equal(t, `A & B <test>`,
		doc.Root().FindElement("//cac:Item/cbc:Description").Text())
	assert.Equal(t, `O'Brien "AS" <Ltd>`,
		doc.Root().FindElement("//cac:PartyLegalEntity/cbc:RegistrationName").Text())
}

func TestBuild_NoTaxSubtotalWhenUntaxed(t *testing.T) {
	inv := referenceInvoice()
	inv.Lines[0].VatRate = decimal.Zero
	billing.Compute(inv)

	svc := ehf.NewBuilderService()
	out, err := svc.Build(inv)
	require.NoError(t, err)
	doc := parse(t, out)

	assert.Empty(t, doc.Root().FindElements("//cac:TaxSubtotal"),
		"totalVat == 0 must not emit a TaxSubtotal")
	assert.Equal(t, "0.00", doc.Root().FindElement("cac:TaxTotal/cbc:TaxAmount").Text(),
		"the aggregate TaxAmount is always present")
}

func TestBuild_PaymentMeansPresence(t *testing.T) {
	svc := ehf.NewBuilderService()

	// Organization sender with a bank account: block present, PaymentID set.
	out, err := svc.Build(referenceInvoice())
	require.NoError(t, err)
	doc := parse(t, out)
	pm := doc.Root().FindElement("cac:PaymentMeans")
	require.NotNil(t, pm)
	assert.Equal(t, "31", pm.FindElement("cbc:PaymentMeansCode").Text())
	assert.Equal(t, "12345678903", pm.FindElement("cbc:PaymentID").Text())
	assert.Equal(t, "12345678903", pm.FindElement("cac:PayeeFinancialAccount/cbc:ID").Text())

	// IBAN preferred as payee account when present.
	inv := referenceInvoice()
	inv.Sender.IBAN = "NO9386011117947"
	out, err = svc.Build(inv)
	require.NoError(t, err)
	doc = parse(t, out)
	assert.Equal(t, "NO9386011117947",
		doc.Root().FindElement("cac:PaymentMeans/cac:PayeeFinancialAccount/cbc:ID").Text())

	// Organization without any account: no block.
	inv = referenceInvoice()
	inv.Sender.BankAccount = ""
	inv.Sender.IBAN = ""
	out, err = svc.Build(inv)
	require.NoError(t, err)
	assert.Nil(t, parse(t, out).Root().FindElement("cac:PaymentMeans"))

	// Individual sender: no block even with nothing else changed.
	inv = referenceInvoice()
	inv.Sender.Kind = entity.PartyIndividual
	out, err = svc.Build(inv)
	require.NoError(t, err)
	assert.Nil(t, parse(t, out).Root().FindElement("cac:PaymentMeans"))
}

func TestBuild_OptionalFields(t *testing.T) {
	svc := ehf.NewBuilderService()

	inv := referenceInvoice()
	inv.Reference = "PO-4711"
	out, err := svc.Build(inv)
	require.NoError(t, err)
	assert.Equal(t, "PO-4711", parse(t, out).Root().FindElement("cbc:BuyerReference").Text())

	inv.Reference = ""
	out, err = svc.Build(inv)
	require.NoError(t, err)
	assert.Nil(t, parse(t, out).Root().FindElement("cbc:BuyerReference"))

	// Optional contact elements follow presence.
	doc := parse(t, out)
	assert.Equal(t, "post@firma.no",
		doc.Root().FindElement("cac:AccountingSupplierParty/cac:Party/cbc:ElectronicMail").Text())
	assert.Nil(t,
		doc.Root().FindElement("cac:AccountingCustomerParty/cac:Party/cbc:ElectronicMail"))
}

func TestBuild_Deterministic(t *testing.T) {
	svc := ehf.NewBuilderService()
	inv := referenceInvoice()

	a, err := svc.Build(inv)
	require.NoError(t, err)
	b, err := svc.Build(inv)
	require.NoError(t, err)
	assert.Equal(t, a, b, "identical input must produce byte-identical output")
}

func TestFilename(t *testing.T) {
	svc := ehf.NewBuilderService()
	inv := referenceInvoice()
	assert.Equal(t, "Faktura-2024-001.xml", svc.Filename(inv))
}

func TestBuild_MissingPartiesRejected(t *testing.T) {
	svc := ehf.NewBuilderService()
	inv := referenceInvoice()
	inv.Receiver = nil
	_, err := svc.Build(inv)
	assert.Error(t, err)

	_, err = svc.Build(nil)
	assert.Error(t, err)
}

func TestBuild_UTF8Header(t *testing.T) {
	svc := ehf.NewBuilderService()
	out, err := svc.Build(referenceInvoice())
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(string(out), `<?xml version="1.0" encoding="UTF-8"?>`))
}
