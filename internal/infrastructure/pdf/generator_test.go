package pdf_test

import (
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/enkelfaktura/faktura-api/internal/domain/entity"
	"github.com/enkelfaktura/faktura-api/internal/infrastructure/pdf"
)

func referenceInvoice() *entity.Invoice {
	sender := &entity.Party{
		Kind:        entity.PartyOrganization,
		Name:        "Firma AS",
		OrgNumber:   "999999999",
		BankAccount: "12345678903",
		Email:       "post@firma.no",
		Phone:       "+47 22 33 44 55",
		Address:     entity.Address{Street: "Storgata 1", PostalCode: "0001", City: "Oslo", Country: "Norge"},
	}
	receiver := &entity.Party{
		Kind:    entity.PartyIndividual,
		Name:    "Ola Nordmann",
		Address: entity.Address{Street: "Lillegata 2", PostalCode: "0002", City: "Oslo", Country: "Norge"},
	}
	return &entity.Invoice{
		InvoiceNumber: "1042",
		IssueDate:     time.Date(2025, 1, 15, 0, 0, 0, 0, time.UTC),
		DueDate:       time.Date(2025, 1, 29, 0, 0, 0, 0, time.UTC),
		Sender:        sender,
		Receiver:      receiver,
		Currency:      "NOK",
		Language:      entity.LanguageNorwegian,
		PaymentTerms:  "14 dager",
		Reference:     "Prosjekt Fjord",
		Notes:         "Takk for oppdraget! Beløpet betales til kontonummeret under.",
		Lines: []entity.InvoiceLine{
			{
				Description: "Konsulenttjenester",
				Quantity:    decimal.NewFromInt(10),
				UnitPrice:   decimal.NewFromInt(1000),
				VatRate:     decimal.NewFromInt(25),
				Amount:      decimal.NewFromInt(10000),
				VatAmount:   decimal.NewFromInt(2500),
			},
		},
		Subtotal: decimal.NewFromInt(10000),
		TotalVat: decimal.NewFromInt(2500),
		Total:    decimal.NewFromInt(12500),
	}
}

func TestGenerateProducesPDF(t *testing.T) {
	g := pdf.NewGenerator(pdf.DefaultLabels())

	out, err := g.Generate(referenceInvoice())
	require.NoError(t, err)
	require.NotEmpty(t, out)
	assert.Equal(t, "%PDF", string(out[:4]))
}

func TestGenerateIsDeterministic(t *testing.T) {
	g := pdf.NewGenerator(pdf.DefaultLabels())

	first, err := g.Generate(referenceInvoice())
	require.NoError(t, err)
	second, err := g.Generate(referenceInvoice())
	require.NoError(t, err)

	assert.Equal(t, first, second)
}

func TestGenerateEnglishLabels(t *testing.T) {
	g := pdf.NewGenerator(pdf.DefaultLabels())

	inv := referenceInvoice()
	inv.Language = entity.LanguageEnglish

	out, err := g.Generate(inv)
	require.NoError(t, err)
	assert.NotEmpty(t, out)
}

func TestGenerateIndividualSenderWithoutBankDetails(t *testing.T) {
	g := pdf.NewGenerator(pdf.DefaultLabels())

	inv := referenceInvoice()
	inv.Sender = &entity.Party{
		Kind:    entity.PartyIndividual,
		Name:    "Kari Nordmann",
		Address: entity.Address{Street: "Storgata 1", PostalCode: "0001", City: "Oslo", Country: "Norge"},
	}

	out, err := g.Generate(inv)
	require.NoError(t, err)
	assert.NotEmpty(t, out)
}

func TestGenerateRequiresParties(t *testing.T) {
	g := pdf.NewGenerator(pdf.DefaultLabels())

	_, err := g.Generate(nil)
	assert.Error(t, err)

	inv := referenceInvoice()
	inv.Sender = nil
	_, err = g.Generate(inv)
	assert.Error(t, err)

	inv = referenceInvoice()
	inv.Receiver = nil
	_, err = g.Generate(inv)
	assert.Error(t, err)
}

func TestFilename(t *testing.T) {
	g := pdf.NewGenerator(pdf.DefaultLabels())
	assert.Equal(t, "Faktura-1042.pdf", g.Filename(referenceInvoice()))
}
