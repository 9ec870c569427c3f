package repository

import "github.com/enkelfaktura/faktura-api/internal/domain/entity"

// InvoiceRepository is the persistence port for Invoice headers and lines.
type InvoiceRepository interface {
	Create(invoice *entity.Invoice) error
	CreateLine(invoiceID string, line *entity.InvoiceLine) error
	// GetByID returns the header only; lines via GetLinesByInvoiceID.
	GetByID(id string) (*entity.Invoice, error)
	GetLinesByInvoiceID(invoiceID string) ([]*entity.InvoiceLine, error)
	ListByOwner(ownerID string, limit, offset int) ([]*entity.Invoice, error)
	Delete(id string) error
}
