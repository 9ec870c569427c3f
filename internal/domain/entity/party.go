package entity

import "time"

// PartyKind discriminates the two party variants. Serializers branch on it
// explicitly instead of probing for a non-empty organization number, so the
// compiler can check that both variants are handled.
type PartyKind string

const (
	PartyOrganization PartyKind = "organization"
	PartyIndividual   PartyKind = "individual"
)

// Party roles as stored with the record (mirrors the separate sender/receiver
// collections of the original UI).
const (
	PartyRoleSender   = "sender"
	PartyRoleReceiver = "receiver"
)

// Address is a postal address. Country is free text as entered by the user;
// callers needing a two-letter code must go through billing.CountryCode.
type Address struct {
	Street     string
	PostalCode string
	City       string
	Country    string
}

// Party is a sender or receiver of invoices. Once handed to document
// generation it is treated as an immutable snapshot.
//
// OrgNumber, BankAccount, IBAN and SWIFT are only meaningful for
// PartyOrganization and stay empty for individuals.
type Party struct {
	ID          string
	OwnerID     string
	Kind        PartyKind
	Role        string // sender | receiver
	Name        string
	Address     Address
	Email       string
	Phone       string
	OrgNumber   string
	BankAccount string
	IBAN        string
	SWIFT       string
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

// IsOrganization reports whether the party is the organization variant.
func (p *Party) IsOrganization() bool {
	return p.Kind == PartyOrganization
}

// HasBankDetails reports whether any payment detail is present. Only
// organization senders emit payment blocks downstream.
func (p *Party) HasBankDetails() bool {
	return p.IsOrganization() && (p.BankAccount != "" || p.IBAN != "" || p.SWIFT != "")
}
