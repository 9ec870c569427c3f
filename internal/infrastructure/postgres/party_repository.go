package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"github.com/enkelfaktura/faktura-api/internal/domain"
	"github.com/enkelfaktura/faktura-api/internal/domain/entity"
	"github.com/enkelfaktura/faktura-api/internal/domain/repository"
)

var _ repository.PartyRepository = (*PartyRepo)(nil)

// PartyRepo implements PartyRepository (usable with pool or tx).
type PartyRepo struct {
	q Querier
}

// NewPartyRepository builds the adapter. Pass a pool or a tx (Querier).
func NewPartyRepository(q Querier) *PartyRepo {
	return &PartyRepo{q: q}
}

const partyColumns = `id, owner_id, kind, role, name, street, postal_code, city, country,
		email, phone, org_number, bank_account, iban, swift, created_at, updated_at`

// Create persists a new party.
func (r *PartyRepo) Create(party *entity.Party) error {
	if party.ID == "" {
		party.ID = uuid.New().String()
	}
	query := `
		INSERT INTO parties (` + partyColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16, $17)`
	_, err := r.q.Exec(context.Background(), query,
		party.ID, party.OwnerID, party.Kind, party.Role, party.Name,
		party.Address.Street, party.Address.PostalCode, party.Address.City, party.Address.Country,
		nullIfEmpty(party.Email), nullIfEmpty(party.Phone), nullIfEmpty(party.OrgNumber),
		nullIfEmpty(party.BankAccount), nullIfEmpty(party.IBAN), nullIfEmpty(party.SWIFT),
		party.CreatedAt, party.UpdatedAt,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return domain.ErrDuplicate
		}
		return fmt.Errorf("insert party: %w", err)
	}
	return nil
}

// GetByID returns a party by ID, or nil when it does not exist.
func (r *PartyRepo) GetByID(id string) (*entity.Party, error) {
	query := `SELECT ` + partyColumns + ` FROM parties WHERE id = $1`
	p, err := scanParty(r.q.QueryRow(context.Background(), query, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get party: %w", err)
	}
	return p, nil
}

// ListByOwner lists the owner's parties with pagination. An empty role
// matches every role.
func (r *PartyRepo) ListByOwner(ownerID, role string, limit, offset int) ([]*entity.Party, error) {
	query := `
		SELECT ` + partyColumns + `
		FROM parties
		WHERE owner_id = $1 AND ($2 = '' OR role = $2)
		ORDER BY name LIMIT $3 OFFSET $4`
	rows, err := r.q.Query(context.Background(), query, ownerID, role, limit, offset)
	if err != nil {
		return nil, fmt.Errorf("list parties: %w", err)
	}
	defer rows.Close()
	var list []*entity.Party
	for rows.Next() {
		p, err := scanParty(rows)
		if err != nil {
			return nil, fmt.Errorf("scan party: %w", err)
		}
		list = append(list, p)
	}
	return list, rows.Err()
}

// Update persists changed party fields.
func (r *PartyRepo) Update(party *entity.Party) error {
	query := `
		UPDATE parties
		SET kind = $2, role = $3, name = $4, street = $5, postal_code = $6, city = $7,
		    country = $8, email = $9, phone = $10, org_number = $11,
		    bank_account = $12, iban = $13, swift = $14, updated_at = $15
		WHERE id = $1`
	_, err := r.q.Exec(context.Background(), query,
		party.ID, party.Kind, party.Role, party.Name,
		party.Address.Street, party.Address.PostalCode, party.Address.City, party.Address.Country,
		nullIfEmpty(party.Email), nullIfEmpty(party.Phone), nullIfEmpty(party.OrgNumber),
		nullIfEmpty(party.BankAccount), nullIfEmpty(party.IBAN), nullIfEmpty(party.SWIFT),
		party.UpdatedAt,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return domain.ErrDuplicate
		}
		return fmt.Errorf("update party: %w", err)
	}
	return nil
}

// Delete removes a party by ID.
func (r *PartyRepo) Delete(id string) error {
	_, err := r.q.Exec(context.Background(), `DELETE FROM parties WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("delete party: %w", err)
	}
	return nil
}

func scanParty(row pgx.Row) (*entity.Party, error) {
	var p entity.Party
	var email, phone, orgNumber, bankAccount, iban, swift *string
	err := row.Scan(
		&p.ID, &p.OwnerID, &p.Kind, &p.Role, &p.Name,
		&p.Address.Street, &p.Address.PostalCode, &p.Address.City, &p.Address.Country,
		&email, &phone, &orgNumber, &bankAccount, &iban, &swift,
		&p.CreatedAt, &p.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	p.Email = emptyIfNull(email)
	p.Phone = emptyIfNull(phone)
	p.OrgNumber = emptyIfNull(orgNumber)
	p.BankAccount = emptyIfNull(bankAccount)
	p.IBAN = emptyIfNull(iban)
	p.SWIFT = emptyIfNull(swift)
	return &p, nil
}
