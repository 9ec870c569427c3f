package billing

import (
	"context"

	"github.com/enkelfaktura/faktura-api/internal/domain/entity"
	"github.com/enkelfaktura/faktura-api/internal/domain/repository"
)

// TxRunner runs a function inside one transaction with repos bound to it.
// Invoice header and lines must land atomically.
type TxRunner interface {
	Run(ctx context.Context, fn func(
		partyRepo repository.PartyRepository,
		invoiceRepo repository.InvoiceRepository,
	) error) error
}

// EHFBuilder is the outbound port for the XML serializer.
type EHFBuilder interface {
	Build(inv *entity.Invoice) ([]byte, error)
	Filename(inv *entity.Invoice) string
}

// PDFGenerator is the outbound port for the PDF renderer.
type PDFGenerator interface {
	Generate(inv *entity.Invoice) ([]byte, error)
	Filename(inv *entity.Invoice) string
}
