package billing

import (
	"context"
	"fmt"

	"github.com/enkelfaktura/faktura-api/internal/domain"
	domainbilling "github.com/enkelfaktura/faktura-api/internal/domain/billing"
	"github.com/enkelfaktura/faktura-api/internal/domain/entity"
	"github.com/enkelfaktura/faktura-api/internal/domain/repository"
	"github.com/enkelfaktura/faktura-api/internal/infrastructure/ehf"
)

// Document is a generated invoice document ready for download.
type Document struct {
	Bytes       []byte
	Filename    string
	ContentType string
	// Fingerprint is the canonical SHA-256 of the document, set only for
	// XML documents.
	Fingerprint string
}

// DocumentUseCase loads an invoice with both parties and lines, recomputes
// the derived amounts and hands the result to a serializer. Recomputing on
// the way out means a document can never expose amounts that contradict the
// invoice's own lines, whatever is in the store.
type DocumentUseCase struct {
	invoiceRepo repository.InvoiceRepository
	partyRepo   repository.PartyRepository
	ehfBuilder  EHFBuilder
	pdfGen      PDFGenerator
}

// NewDocumentUseCase builds the use case with both serializers.
func NewDocumentUseCase(
	invoiceRepo repository.InvoiceRepository,
	partyRepo repository.PartyRepository,
	ehfBuilder EHFBuilder,
	pdfGen PDFGenerator,
) *DocumentUseCase {
	return &DocumentUseCase{
		invoiceRepo: invoiceRepo,
		partyRepo:   partyRepo,
		ehfBuilder:  ehfBuilder,
		pdfGen:      pdfGen,
	}
}

// DownloadEHF generates the Peppol BIS Billing 3.0 XML for the invoice. The
// returned document carries the canonical fingerprint of the bytes.
func (uc *DocumentUseCase) DownloadEHF(ctx context.Context, ownerID, invoiceID string) (*Document, error) {
	inv, err := uc.hydratedInvoice(ownerID, invoiceID)
	if err != nil {
		return nil, err
	}
	xmlBytes, err := uc.ehfBuilder.Build(inv)
	if err != nil {
		return nil, fmt.Errorf("ehf: build document: %w", err)
	}
	fingerprint, err := ehf.Fingerprint(xmlBytes)
	if err != nil {
		return nil, fmt.Errorf("ehf: fingerprint: %w", err)
	}
	return &Document{
		Bytes:       xmlBytes,
		Filename:    uc.ehfBuilder.Filename(inv),
		ContentType: "application/xml",
		Fingerprint: fingerprint,
	}, nil
}

// DownloadPDF renders the invoice as a paginated PDF.
func (uc *DocumentUseCase) DownloadPDF(ctx context.Context, ownerID, invoiceID string) (*Document, error) {
	inv, err := uc.hydratedInvoice(ownerID, invoiceID)
	if err != nil {
		return nil, err
	}
	pdfBytes, err := uc.pdfGen.Generate(inv)
	if err != nil {
		return nil, fmt.Errorf("pdf: generate document: %w", err)
	}
	return &Document{
		Bytes:       pdfBytes,
		Filename:    uc.pdfGen.Filename(inv),
		ContentType: "application/pdf",
	}, nil
}

// hydratedInvoice loads header, lines and both parties, checks ownership and
// recomputes the derived amounts.
func (uc *DocumentUseCase) hydratedInvoice(ownerID, invoiceID string) (*entity.Invoice, error) {
	inv, err := uc.invoiceRepo.GetByID(invoiceID)
	if err != nil {
		return nil, fmt.Errorf("document: get invoice: %w", err)
	}
	if inv == nil {
		return nil, domain.ErrNotFound
	}
	if inv.OwnerID != ownerID {
		return nil, domain.ErrForbidden
	}

	lines, err := uc.invoiceRepo.GetLinesByInvoiceID(invoiceID)
	if err != nil {
		return nil, fmt.Errorf("document: get lines: %w", err)
	}
	for _, l := range lines {
		inv.Lines = append(inv.Lines, *l)
	}

	sender, err := uc.partyRepo.GetByID(inv.SenderID)
	if err != nil || sender == nil {
		return nil, fmt.Errorf("document: get sender: %w", errOrNotFound(err))
	}
	receiver, err := uc.partyRepo.GetByID(inv.ReceiverID)
	if err != nil || receiver == nil {
		return nil, fmt.Errorf("document: get receiver: %w", errOrNotFound(err))
	}
	inv.Sender = sender
	inv.Receiver = receiver

	domainbilling.Compute(inv)
	return inv, nil
}

func errOrNotFound(err error) error {
	if err != nil {
		return err
	}
	return domain.ErrNotFound
}
