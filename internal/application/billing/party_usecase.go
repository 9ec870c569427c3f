package billing

import (
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/enkelfaktura/faktura-api/internal/application/dto"
	"github.com/enkelfaktura/faktura-api/internal/domain"
	"github.com/enkelfaktura/faktura-api/internal/domain/entity"
	"github.com/enkelfaktura/faktura-api/internal/domain/repository"
)

// PartyUseCase CRUD for the user's senders and receivers.
type PartyUseCase struct {
	partyRepo repository.PartyRepository
}

// NewPartyUseCase builds the use case.
func NewPartyUseCase(partyRepo repository.PartyRepository) *PartyUseCase {
	return &PartyUseCase{partyRepo: partyRepo}
}

// Create validates and persists a party for the owner.
func (uc *PartyUseCase) Create(ownerID string, in dto.PartyRequest) (*dto.PartyResponse, error) {
	party, err := partyFromRequest(in)
	if err != nil {
		return nil, err
	}
	now := time.Now()
	party.ID = uuid.New().String()
	party.OwnerID = ownerID
	party.CreatedAt = now
	party.UpdatedAt = now
	if err := uc.partyRepo.Create(party); err != nil {
		return nil, err
	}
	resp := ToPartyResponse(party)
	return &resp, nil
}

// Get returns the owner's party by ID.
func (uc *PartyUseCase) Get(ownerID, id string) (*dto.PartyResponse, error) {
	party, err := uc.ownedParty(ownerID, id)
	if err != nil {
		return nil, err
	}
	resp := ToPartyResponse(party)
	return &resp, nil
}

// List returns the owner's parties, optionally filtered by role.
func (uc *PartyUseCase) List(ownerID, role string, page dto.PageRequest) ([]dto.PartyResponse, error) {
	page.DefaultPage()
	if role != "" && role != entity.PartyRoleSender && role != entity.PartyRoleReceiver {
		return nil, domain.ErrInvalidInput
	}
	parties, err := uc.partyRepo.ListByOwner(ownerID, role, page.Limit, page.Offset)
	if err != nil {
		return nil, err
	}
	out := make([]dto.PartyResponse, 0, len(parties))
	for _, p := range parties {
		out = append(out, ToPartyResponse(p))
	}
	return out, nil
}

// Update replaces the party's editable fields.
func (uc *PartyUseCase) Update(ownerID, id string, in dto.PartyRequest) (*dto.PartyResponse, error) {
	existing, err := uc.ownedParty(ownerID, id)
	if err != nil {
		return nil, err
	}
	updated, err := partyFromRequest(in)
	if err != nil {
		return nil, err
	}
	updated.ID = existing.ID
	updated.OwnerID = existing.OwnerID
	updated.CreatedAt = existing.CreatedAt
	updated.UpdatedAt = time.Now()
	if err := uc.partyRepo.Update(updated); err != nil {
		return nil, err
	}
	resp := ToPartyResponse(updated)
	return &resp, nil
}

// Delete removes the owner's party.
func (uc *PartyUseCase) Delete(ownerID, id string) error {
	if _, err := uc.ownedParty(ownerID, id); err != nil {
		return err
	}
	return uc.partyRepo.Delete(id)
}

func (uc *PartyUseCase) ownedParty(ownerID, id string) (*entity.Party, error) {
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

func partyFromRequest(in dto.PartyRequest) (*entity.Party, error) {
	name := strings.TrimSpace(in.Name)
	if name == "" {
		return nil, domain.ErrInvalidInput
	}
	kind := entity.PartyKind(in.Kind)
	if kind != entity.PartyOrganization && kind != entity.PartyIndividual {
		return nil, domain.ErrInvalidInput
	}
	if in.Role != entity.PartyRoleSender && in.Role != entity.PartyRoleReceiver {
		return nil, domain.ErrInvalidInput
	}
	party := &entity.Party{
		Kind: kind,
		Role: in.Role,
		Name: name,
		Address: entity.Address{
			Street:     in.Street,
			PostalCode: in.PostalCode,
			City:       in.City,
			Country:    in.Country,
		},
		Email: in.Email,
		Phone: in.Phone,
	}
	// Organization-only fields are dropped for individuals rather than
	// rejected, matching what the serializers would ignore anyway.
	if kind == entity.PartyOrganization {
		party.OrgNumber = in.OrgNumber
		party.BankAccount = in.BankAccount
		party.IBAN = in.IBAN
		party.SWIFT = in.SWIFT
	}
	return party, nil
}

// ToPartyResponse maps the entity to its response shape.
func ToPartyResponse(p *entity.Party) dto.PartyResponse {
	return dto.PartyResponse{
		ID:          p.ID,
		Kind:        string(p.Kind),
		Role:        p.Role,
		Name:        p.Name,
		Street:      p.Address.Street,
		PostalCode:  p.Address.PostalCode,
		City:        p.Address.City,
		Country:     p.Address.Country,
		Email:       p.Email,
		Phone:       p.Phone,
		OrgNumber:   p.OrgNumber,
		BankAccount: p.BankAccount,
		IBAN:        p.IBAN,
		SWIFT:       p.SWIFT,
	}
}
