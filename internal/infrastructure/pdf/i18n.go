package pdf

import "github.com/enkelfaktura/faktura-api/internal/domain/entity"

// Labels is the per-language label pack used by the renderer.
type Labels struct {
	Invoice       string
	InvoiceNumber string
	InvoiceDate   string
	DueDate       string
	From          string
	To            string
	OrgNr         string
	Description   string
	Quantity      string
	UnitPrice     string
	VatRate       string
	Amount        string
	Subtotal      string
	Vat           string
	Total         string
	PaymentTerms  string
	Reference     string
	Notes         string
	BankAccount   string
	IBAN          string
	SWIFT         string
}

// DefaultLabels returns the built-in label packs. The map is constructed
// fresh per call so callers can treat their copy as their own configuration.
func DefaultLabels() map[entity.Language]Labels {
	return map[entity.Language]Labels{
		entity.LanguageNorwegian: {
			Invoice:       "FAKTURA",
			InvoiceNumber: "Fakturanummer",
			InvoiceDate:   "Fakturadato",
			DueDate:       "Forfallsdato",
			From:          "Fra",
			To:            "Til",
			OrgNr:         "Org.nr",
			Description:   "Beskrivelse",
			Quantity:      "Antall",
			UnitPrice:     "Enhetspris",
			VatRate:       "MVA %",
			Amount:        "Beløp",
			Subtotal:      "Subtotal",
			Vat:           "MVA",
			Total:         "Totalt",
			PaymentTerms:  "Betalingsbetingelser",
			Reference:     "Referanse",
			Notes:         "Notater",
			BankAccount:   "Kontonummer",
			IBAN:          "IBAN",
			SWIFT:         "SWIFT",
		},
		entity.LanguageEnglish: {
			Invoice:       "INVOICE",
			InvoiceNumber: "Invoice Number",
			InvoiceDate:   "Invoice Date",
			DueDate:       "Due Date",
			From:          "From",
			To:            "To",
			OrgNr:         "Org.no",
			Description:   "Description",
			Quantity:      "Qty",
			UnitPrice:     "Unit Price",
			VatRate:       "VAT %",
			Amount:        "Amount",
			Subtotal:      "Subtotal",
			Vat:           "VAT",
			Total:         "Total",
			PaymentTerms:  "Payment Terms",
			Reference:     "Reference",
			Notes:         "Notes",
			BankAccount:   "Account Number",
			IBAN:          "IBAN",
			SWIFT:         "SWIFT",
		},
	}
}
