package dto

import "github.com/shopspring/decimal"

// CreateInvoiceRequest body for POST /api/invoices. Dates use ISO 8601
// (yyyy-mm-dd). Line amounts and totals are derived server side; any values
// sent by the client are ignored.
type CreateInvoiceRequest struct {
	InvoiceNumber string               `json:"invoice_number" validate:"required"`
	IssueDate     string               `json:"issue_date" validate:"required"`
	DueDate       string               `json:"due_date" validate:"required"`
	SenderID      string               `json:"sender_id" validate:"required,uuid"`
	ReceiverID    string               `json:"receiver_id" validate:"required,uuid"`
	Currency      string               `json:"currency,omitempty"`
	Language      string               `json:"language,omitempty" validate:"omitempty,oneof=no en"`
	Notes         string               `json:"notes,omitempty"`
	PaymentTerms  string               `json:"payment_terms,omitempty"`
	Reference     string               `json:"reference,omitempty"`
	Lines         []InvoiceLineRequest `json:"lines" validate:"required,min=1"`
}

// InvoiceLineRequest one invoice line in the request.
type InvoiceLineRequest struct {
	Description string          `json:"description" validate:"required"`
	Quantity    decimal.Decimal `json:"quantity"`
	UnitPrice   decimal.Decimal `json:"unit_price"`
	VatRate     decimal.Decimal `json:"vat_rate"`
}

// InvoiceResponse invoice with lines for GET /api/invoices/:id.
type InvoiceResponse struct {
	ID            string                `json:"id"`
	InvoiceNumber string                `json:"invoice_number"`
	IssueDate     string                `json:"issue_date"`
	DueDate       string                `json:"due_date"`
	SenderID      string                `json:"sender_id"`
	ReceiverID    string                `json:"receiver_id"`
	Currency      string                `json:"currency"`
	Language      string                `json:"language"`
	Subtotal      decimal.Decimal       `json:"subtotal"`
	TotalVat      decimal.Decimal       `json:"total_vat"`
	Total         decimal.Decimal       `json:"total"`
	Notes         string                `json:"notes,omitempty"`
	PaymentTerms  string                `json:"payment_terms,omitempty"`
	Reference     string                `json:"reference,omitempty"`
	Lines         []InvoiceLineResponse `json:"lines,omitempty"`
}

// InvoiceLineResponse one invoice line in responses, including the derived
// amounts.
type InvoiceLineResponse struct {
	ID          string          `json:"id"`
	Description string          `json:"description"`
	Quantity    decimal.Decimal `json:"quantity"`
	UnitPrice   decimal.Decimal `json:"unit_price"`
	VatRate     decimal.Decimal `json:"vat_rate"`
	Amount      decimal.Decimal `json:"amount"`
	VatAmount   decimal.Decimal `json:"vat_amount"`
}
