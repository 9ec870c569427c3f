package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// Language selects the label pack used by the PDF renderer.
type Language string

const (
	LanguageNorwegian Language = "no"
	LanguageEnglish   Language = "en"
)

// InvoiceLine is one billed position. Amount and VatAmount are derived from
// Quantity, UnitPrice and VatRate by billing.Compute and are never accepted
// as authoritative input; whatever a caller supplies is overwritten before
// the invoice reaches a serializer.
type InvoiceLine struct {
	ID          string
	Description string
	Quantity    decimal.Decimal
	UnitPrice   decimal.Decimal
	VatRate     decimal.Decimal // percentage, e.g. 25
	Amount      decimal.Decimal // derived: Quantity * UnitPrice
	VatAmount   decimal.Decimal // derived: Amount * VatRate / 100
}

// Invoice is the canonical in-memory invoice both serializers consume.
// Subtotal, TotalVat and Total are derived document totals; the invariants
// Subtotal = Σ line.Amount, TotalVat = Σ line.VatAmount and
// Total = Subtotal + TotalVat hold for every computed invoice.
type Invoice struct {
	ID            string
	OwnerID       string
	InvoiceNumber string
	IssueDate     time.Time
	DueDate       time.Time
	SenderID      string
	ReceiverID    string
	Sender        *Party // hydrated for document generation
	Receiver      *Party
	Lines         []InvoiceLine
	Currency      string // expected ISO 4217, not validated
	Language      Language
	Subtotal      decimal.Decimal
	TotalVat      decimal.Decimal
	Total         decimal.Decimal
	Notes         string
	PaymentTerms  string
	Reference     string
	CreatedAt     time.Time
	UpdatedAt     time.Time
}
