package billing_test

import (
	"context"
	"strings"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/enkelfaktura/faktura-api/internal/application/billing"
	"github.com/enkelfaktura/faktura-api/internal/application/dto"
	"github.com/enkelfaktura/faktura-api/internal/domain"
	"github.com/enkelfaktura/faktura-api/internal/domain/entity"
	"github.com/enkelfaktura/faktura-api/internal/domain/repository"
	"github.com/enkelfaktura/faktura-api/internal/infrastructure/ehf"
	"github.com/enkelfaktura/faktura-api/internal/infrastructure/pdf"
)

const (
	ownerA = "owner-a"
	ownerB = "owner-b"
)

// In-memory repos backing the use cases under test.

type fakePartyRepo struct {
	parties map[string]*entity.Party
}

func newFakePartyRepo() *fakePartyRepo {
	return &fakePartyRepo{parties: make(map[string]*entity.Party)}
}

func (r *fakePartyRepo) Create(p *entity.Party) error {
	cp := *p
	r.parties[p.ID] = &cp
	return nil
}

func (r *fakePartyRepo) GetByID(id string) (*entity.Party, error) {
	p, ok := r.parties[id]
	if !ok {
		return nil, nil
	}
	cp := *p
	return &cp, nil
}

func (r *fakePartyRepo) ListByOwner(ownerID, role string, limit, offset int) ([]*entity.Party, error) {
	var out []*entity.Party
	for _, p := range r.parties {
		if p.OwnerID == ownerID && (role == "" || p.Role == role) {
			cp := *p
			out = append(out, &cp)
		}
	}
	return out, nil
}

func (r *fakePartyRepo) Update(p *entity.Party) error {
	cp := *p
	r.parties[p.ID] = &cp
	return nil
}

func (r *fakePartyRepo) Delete(id string) error {
	delete(r.parties, id)
	return nil
}

type fakeInvoiceRepo struct {
	invoices map[string]*entity.Invoice
	lines    map[string][]*entity.InvoiceLine
	failLine bool
}

func newFakeInvoiceRepo() *fakeInvoiceRepo {
	return &fakeInvoiceRepo{
		invoices: make(map[string]*entity.Invoice),
		lines:    make(map[string][]*entity.InvoiceLine),
	}
}

func (r *fakeInvoiceRepo) Create(inv *entity.Invoice) error {
	cp := *inv
	cp.Lines = nil
	cp.Sender, cp.Receiver = nil, nil
	r.invoices[inv.ID] = &cp
	return nil
}

func (r *fakeInvoiceRepo) CreateLine(invoiceID string, line *entity.InvoiceLine) error {
	if r.failLine {
		return assert.AnError
	}
	cp := *line
	r.lines[invoiceID] = append(r.lines[invoiceID], &cp)
	return nil
}

func (r *fakeInvoiceRepo) GetByID(id string) (*entity.Invoice, error) {
	inv, ok := r.invoices[id]
	if !ok {
		return nil, nil
	}
	cp := *inv
	return &cp, nil
}

func (r *fakeInvoiceRepo) GetLinesByInvoiceID(invoiceID string) ([]*entity.InvoiceLine, error) {
	return r.lines[invoiceID], nil
}

func (r *fakeInvoiceRepo) ListByOwner(ownerID string, limit, offset int) ([]*entity.Invoice, error) {
	var out []*entity.Invoice
	for _, inv := range r.invoices {
		if inv.OwnerID == ownerID {
			cp := *inv
			out = append(out, &cp)
		}
	}
	return out, nil
}

func (r *fakeInvoiceRepo) Delete(id string) error {
	delete(r.invoices, id)
	delete(r.lines, id)
	return nil
}

// fakeTxRunner hands the same repos back to the callback. A callback error
// discards everything written so far, approximating a rollback.
type fakeTxRunner struct {
	partyRepo   *fakePartyRepo
	invoiceRepo *fakeInvoiceRepo
}

func (r *fakeTxRunner) Run(ctx context.Context, fn func(repository.PartyRepository, repository.InvoiceRepository) error) error {
	snapInvoices := make(map[string]*entity.Invoice, len(r.invoiceRepo.invoices))
	for k, v := range r.invoiceRepo.invoices {
		snapInvoices[k] = v
	}
	snapLines := make(map[string][]*entity.InvoiceLine, len(r.invoiceRepo.lines))
	for k, v := range r.invoiceRepo.lines {
		snapLines[k] = v
	}
	if err := fn(r.partyRepo, r.invoiceRepo); err != nil {
		r.invoiceRepo.invoices = snapInvoices
		r.invoiceRepo.lines = snapLines
		return err
	}
	return nil
}

func seedParties(t *testing.T, repo *fakePartyRepo) (senderID, receiverID string) {
	t.Helper()
	sender := &entity.Party{
		ID:          "party-sender",
		OwnerID:     ownerA,
		Kind:        entity.PartyOrganization,
		Role:        entity.PartyRoleSender,
		Name:        "Firma AS",
		OrgNumber:   "999999999",
		BankAccount: "12345678903",
		Address:     entity.Address{Street: "Storgata 1", PostalCode: "0001", City: "Oslo", Country: "Norge"},
	}
	receiver := &entity.Party{
		ID:      "party-receiver",
		OwnerID: ownerA,
		Kind:    entity.PartyIndividual,
		Role:    entity.PartyRoleReceiver,
		Name:    "Ola Nordmann",
		Address: entity.Address{Street: "Lillegata 2", PostalCode: "0002", City: "Oslo", Country: "Norge"},
	}
	require.NoError(t, repo.Create(sender))
	require.NoError(t, repo.Create(receiver))
	return sender.ID, receiver.ID
}

func createRequest(senderID, receiverID string) dto.CreateInvoiceRequest {
	return dto.CreateInvoiceRequest{
		InvoiceNumber: "1042",
		IssueDate:     "2025-01-15",
		DueDate:       "2025-01-29",
		SenderID:      senderID,
		ReceiverID:    receiverID,
		Lines: []dto.InvoiceLineRequest{
			{
				Description: "Konsulenttjenester",
				Quantity:    decimal.NewFromInt(10),
				UnitPrice:   decimal.NewFromInt(1000),
				VatRate:     decimal.NewFromInt(25),
			},
		},
	}
}

func TestCreateInvoiceComputesTotals(t *testing.T) {
	partyRepo := newFakePartyRepo()
	invoiceRepo := newFakeInvoiceRepo()
	senderID, receiverID := seedParties(t, partyRepo)
	uc := billing.NewInvoiceUseCase(&fakeTxRunner{partyRepo, invoiceRepo}, partyRepo, invoiceRepo)

	resp, err := uc.Create(context.Background(), ownerA, createRequest(senderID, receiverID))
	require.NoError(t, err)

	assert.Equal(t, "10000", resp.Subtotal.String())
	assert.Equal(t, "2500", resp.TotalVat.String())
	assert.Equal(t, "12500", resp.Total.String())
	assert.Equal(t, "NOK", resp.Currency)
	assert.Equal(t, "no", resp.Language)
	require.Len(t, resp.Lines, 1)
	assert.Equal(t, "10000", resp.Lines[0].Amount.String())
	assert.Equal(t, "2500", resp.Lines[0].VatAmount.String())

	// Header and line are persisted.
	stored, err := invoiceRepo.GetByID(resp.ID)
	require.NoError(t, err)
	require.NotNil(t, stored)
	lines, err := invoiceRepo.GetLinesByInvoiceID(resp.ID)
	require.NoError(t, err)
	assert.Len(t, lines, 1)
}

func TestCreateInvoiceIgnoresClientAmounts(t *testing.T) {
	partyRepo := newFakePartyRepo()
	invoiceRepo := newFakeInvoiceRepo()
	senderID, receiverID := seedParties(t, partyRepo)
	uc := billing.NewInvoiceUseCase(&fakeTxRunner{partyRepo, invoiceRepo}, partyRepo, invoiceRepo)

	in := createRequest(senderID, receiverID)
	in.Lines[0].Quantity = decimal.NewFromInt(2)
	in.Lines[0].UnitPrice = decimal.RequireFromString("99.90")

	resp, err := uc.Create(context.Background(), ownerA, in)
	require.NoError(t, err)
	assert.Equal(t, "199.8", resp.Subtotal.String())
}

func TestCreateInvoiceRejectsForeignParties(t *testing.T) {
	partyRepo := newFakePartyRepo()
	invoiceRepo := newFakeInvoiceRepo()
	senderID, receiverID := seedParties(t, partyRepo)
	uc := billing.NewInvoiceUseCase(&fakeTxRunner{partyRepo, invoiceRepo}, partyRepo, invoiceRepo)

	_, err := uc.Create(context.Background(), ownerB, createRequest(senderID, receiverID))
	assert.ErrorIs(t, err, domain.ErrForbidden)
}

func TestCreateInvoiceRejectsBadDates(t *testing.T) {
	partyRepo := newFakePartyRepo()
	invoiceRepo := newFakeInvoiceRepo()
	senderID, receiverID := seedParties(t, partyRepo)
	uc := billing.NewInvoiceUseCase(&fakeTxRunner{partyRepo, invoiceRepo}, partyRepo, invoiceRepo)

	in := createRequest(senderID, receiverID)
	in.IssueDate = "15.01.2025"
	_, err := uc.Create(context.Background(), ownerA, in)
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
}

func TestCreateInvoiceRollsBackOnLineFailure(t *testing.T) {
	partyRepo := newFakePartyRepo()
	invoiceRepo := newFakeInvoiceRepo()
	invoiceRepo.failLine = true
	senderID, receiverID := seedParties(t, partyRepo)
	uc := billing.NewInvoiceUseCase(&fakeTxRunner{partyRepo, invoiceRepo}, partyRepo, invoiceRepo)

	_, err := uc.Create(context.Background(), ownerA, createRequest(senderID, receiverID))
	require.Error(t, err)
	assert.Empty(t, invoiceRepo.invoices)
}

func TestPartyUseCaseOwnership(t *testing.T) {
	partyRepo := newFakePartyRepo()
	senderID, _ := seedParties(t, partyRepo)
	uc := billing.NewPartyUseCase(partyRepo)

	_, err := uc.Get(ownerB, senderID)
	assert.ErrorIs(t, err, domain.ErrForbidden)

	err = uc.Delete(ownerB, senderID)
	assert.ErrorIs(t, err, domain.ErrForbidden)

	got, err := uc.Get(ownerA, senderID)
	require.NoError(t, err)
	assert.Equal(t, "Firma AS", got.Name)
}

func TestPartyUseCaseDropsOrgFieldsForIndividuals(t *testing.T) {
	partyRepo := newFakePartyRepo()
	uc := billing.NewPartyUseCase(partyRepo)

	resp, err := uc.Create(ownerA, dto.PartyRequest{
		Kind:        "individual",
		Role:        "receiver",
		Name:        "Kari Nordmann",
		OrgNumber:   "999999999",
		BankAccount: "12345678903",
	})
	require.NoError(t, err)
	assert.Empty(t, resp.OrgNumber)
	assert.Empty(t, resp.BankAccount)
}

func seedInvoice(t *testing.T, partyRepo *fakePartyRepo, invoiceRepo *fakeInvoiceRepo) string {
	t.Helper()
	senderID, receiverID := seedParties(t, partyRepo)
	uc := billing.NewInvoiceUseCase(&fakeTxRunner{partyRepo, invoiceRepo}, partyRepo, invoiceRepo)
	resp, err := uc.Create(context.Background(), ownerA, createRequest(senderID, receiverID))
	require.NoError(t, err)
	return resp.ID
}

func TestDownloadEHF(t *testing.T) {
	partyRepo := newFakePartyRepo()
	invoiceRepo := newFakeInvoiceRepo()
	invoiceID := seedInvoice(t, partyRepo, invoiceRepo)

	uc := billing.NewDocumentUseCase(invoiceRepo, partyRepo, ehf.NewBuilderService(), pdf.NewGenerator(pdf.DefaultLabels()))

	doc, err := uc.DownloadEHF(context.Background(), ownerA, invoiceID)
	require.NoError(t, err)
	assert.Equal(t, "Faktura-1042.xml", doc.Filename)
	assert.Equal(t, "application/xml", doc.ContentType)
	assert.Len(t, doc.Fingerprint, 64)
	assert.Contains(t, string(doc.Bytes), `<cbc:PayableAmount currencyID="NOK">12500.00</cbc:PayableAmount>`)
}

func TestDownloadPDF(t *testing.T) {
	partyRepo := newFakePartyRepo()
	invoiceRepo := newFakeInvoiceRepo()
	invoiceID := seedInvoice(t, partyRepo, invoiceRepo)

	uc := billing.NewDocumentUseCase(invoiceRepo, partyRepo, ehf.NewBuilderService(), pdf.NewGenerator(pdf.DefaultLabels()))

	doc, err := uc.DownloadPDF(context.Background(), ownerA, invoiceID)
	require.NoError(t, err)
	assert.Equal(t, "Faktura-1042.pdf", doc.Filename)
	assert.Equal(t, "application/pdf", doc.ContentType)
	assert.True(t, strings.HasPrefix(string(doc.Bytes), "%PDF"))
	assert.Empty(t, doc.Fingerprint)
}

func TestDownloadChecksOwnership(t *testing.T) {
	partyRepo := newFakePartyRepo()
	invoiceRepo := newFakeInvoiceRepo()
	invoiceID := seedInvoice(t, partyRepo, invoiceRepo)

	uc := billing.NewDocumentUseCase(invoiceRepo, partyRepo, ehf.NewBuilderService(), pdf.NewGenerator(pdf.DefaultLabels()))

	_, err := uc.DownloadEHF(context.Background(), ownerB, invoiceID)
	assert.ErrorIs(t, err, domain.ErrForbidden)

	_, err = uc.DownloadPDF(context.Background(), ownerB, "missing")
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

