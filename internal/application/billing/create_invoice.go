package billing

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/enkelfaktura/faktura-api/internal/application/dto"
	"github.com/enkelfaktura/faktura-api/internal/domain"
	domainbilling "github.com/enkelfaktura/faktura-api/internal/domain/billing"
	"github.com/enkelfaktura/faktura-api/internal/domain/entity"
	"github.com/enkelfaktura/faktura-api/internal/domain/repository"
)

const requestDateLayout = "2006-01-02"

// InvoiceUseCase creates and serves invoices. Creation derives all line
// amounts and totals before anything is persisted, so stored invoices always
// satisfy the computed-totals invariants.
type InvoiceUseCase struct {
	txRunner    TxRunner
	partyRepo   repository.PartyRepository
	invoiceRepo repository.InvoiceRepository
}

// NewInvoiceUseCase builds the use case.
func NewInvoiceUseCase(txRunner TxRunner, partyRepo repository.PartyRepository, invoiceRepo repository.InvoiceRepository) *InvoiceUseCase {
	return &InvoiceUseCase{txRunner: txRunner, partyRepo: partyRepo, invoiceRepo: invoiceRepo}
}

// Create validates the request, recomputes amounts and totals and persists
// header plus lines in one transaction.
func (uc *InvoiceUseCase) Create(ctx context.Context, ownerID string, in dto.CreateInvoiceRequest) (*dto.InvoiceResponse, error) {
	if in.InvoiceNumber == "" || in.SenderID == "" || in.ReceiverID == "" || len(in.Lines) == 0 {
		return nil, domain.ErrInvalidInput
	}
	issueDate, err := time.Parse(requestDateLayout, in.IssueDate)
	if err != nil {
		return nil, fmt.Errorf("%w: issue_date must be yyyy-mm-dd", domain.ErrInvalidInput)
	}
	dueDate, err := time.Parse(requestDateLayout, in.DueDate)
	if err != nil {
		return nil, fmt.Errorf("%w: due_date must be yyyy-mm-dd", domain.ErrInvalidInput)
	}

	sender, err := uc.ownedParty(ownerID, in.SenderID)
	if err != nil {
		return nil, err
	}
	receiver, err := uc.ownedParty(ownerID, in.ReceiverID)
	if err != nil {
		return nil, err
	}

	language := entity.Language(in.Language)
	if language == "" {
		language = entity.LanguageNorwegian
	}
	if language != entity.LanguageNorwegian && language != entity.LanguageEnglish {
		return nil, domain.ErrInvalidInput
	}
	currency := in.Currency
	if currency == "" {
		currency = "NOK"
	}

	now := time.Now()
	inv := &entity.Invoice{
		ID:            uuid.New().String(),
		OwnerID:       ownerID,
		InvoiceNumber: in.InvoiceNumber,
		IssueDate:     issueDate,
		DueDate:       dueDate,
		SenderID:      sender.ID,
		ReceiverID:    receiver.ID,
		Currency:      currency,
		Language:      language,
		Notes:         in.Notes,
		PaymentTerms:  in.PaymentTerms,
		Reference:     in.Reference,
		CreatedAt:     now,
		UpdatedAt:     now,
	}
	for _, l := range in.Lines {
		if l.Description == "" {
			return nil, domain.ErrInvalidInput
		}
		inv.Lines = append(inv.Lines, entity.InvoiceLine{
			ID:          uuid.New().String(),
			Description: l.Description,
			Quantity:    l.Quantity,
			UnitPrice:   l.UnitPrice,
			VatRate:     l.VatRate,
		})
	}
	domainbilling.Compute(inv)

	err = uc.txRunner.Run(ctx, func(_ repository.PartyRepository, invoiceRepo repository.InvoiceRepository) error {
		if err := invoiceRepo.Create(inv); err != nil {
			return err
		}
		for i := range inv.Lines {
			if err := invoiceRepo.CreateLine(inv.ID, &inv.Lines[i]); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	resp := toInvoiceResponse(inv, true)
	return &resp, nil
}

// Get returns the owner's invoice with its lines.
func (uc *InvoiceUseCase) Get(ownerID, id string) (*dto.InvoiceResponse, error) {
	inv, err := uc.ownedInvoice(ownerID, id)
	if err != nil {
		return nil, err
	}
	lines, err := uc.invoiceRepo.GetLinesByInvoiceID(id)
	if err != nil {
		return nil, err
	}
	for _, l := range lines {
		inv.Lines = append(inv.Lines, *l)
	}
	resp := toInvoiceResponse(inv, true)
	return &resp, nil
}

// List returns the owner's invoice headers, newest first.
func (uc *InvoiceUseCase) List(ownerID string, page dto.PageRequest) ([]dto.InvoiceResponse, error) {
	page.DefaultPage()
	invoices, err := uc.invoiceRepo.ListByOwner(ownerID, page.Limit, page.Offset)
	if err != nil {
		return nil, err
	}
	out := make([]dto.InvoiceResponse, 0, len(invoices))
	for _, inv := range invoices {
		out = append(out, toInvoiceResponse(inv, false))
	}
	return out, nil
}

// Delete removes the owner's invoice and its lines.
func (uc *InvoiceUseCase) Delete(ownerID, id string) error {
	if _, err := uc.ownedInvoice(ownerID, id); err != nil {
		return err
	}
	return uc.invoiceRepo.Delete(id)
}

func (uc *InvoiceUseCase) ownedParty(ownerID, id string) (*entity.Party, error) {
	party, err := uc.partyRepo.GetByID(id)
	if err != nil {
		return nil, err
	}
	if party == nil {
		return nil, domain.ErrNotFound
	}
	if party.OwnerID != ownerID {
		return nil, domain.ErrForbidden
	}
	return party, nil
}

func (uc *InvoiceUseCase) ownedInvoice(ownerID, id string) (*entity.Invoice, error) {
	inv, err := uc.invoiceRepo.GetByID(id)
	if err != nil {
		return nil, err
	}
	if inv == nil {
		return nil, domain.ErrNotFound
	}
	if inv.OwnerID != ownerID {
		return nil, domain.ErrForbidden
	}
	return inv, nil
}

func toInvoiceResponse(inv *entity.Invoice, withLines bool) dto.InvoiceResponse {
	resp := dto.InvoiceResponse{
		ID:            inv.ID,
		InvoiceNumber: inv.InvoiceNumber,
		IssueDate:     inv.IssueDate.Format(requestDateLayout),
		DueDate:       inv.DueDate.Format(requestDateLayout),
		SenderID:      inv.SenderID,
		ReceiverID:    inv.ReceiverID,
		Currency:      inv.Currency,
		Language:      string(inv.Language),
		Subtotal:      inv.Subtotal,
		TotalVat:      inv.TotalVat,
		Total:         inv.Total,
		Notes:         inv.Notes,
		PaymentTerms:  inv.PaymentTerms,
		Reference:     inv.Reference,
	}
	if withLines {
		for i := range inv.Lines {
			l := &inv.Lines[i]
			resp.Lines = append(resp.Lines, dto.InvoiceLineResponse{
				ID:          l.ID,
				Description: l.Description,
				Quantity:    l.Quantity,
				UnitPrice:   l.UnitPrice,
				VatRate:     l.VatRate,
				Amount:      l.Amount,
				VatAmount:   l.VatAmount,
			})
		}
	}
	return resp
}
