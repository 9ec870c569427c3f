package dto

// PartyRequest body for POST/PUT /api/parties. Kind is "organization" or
// "individual"; role is "sender" or "receiver".
type PartyRequest struct {
	Kind        string `json:"kind" validate:"required,oneof=organization individual"`
	Role        string `json:"role" validate:"required,oneof=sender receiver"`
	Name        string `json:"name" validate:"required,min=1,max=200"`
	Street      string `json:"street"`
	PostalCode  string `json:"postal_code"`
	City        string `json:"city"`
	Country     string `json:"country"`
	Email       string `json:"email,omitempty" validate:"omitempty,email"`
	Phone       string `json:"phone,omitempty"`
	OrgNumber   string `json:"org_number,omitempty"`
	BankAccount string `json:"bank_account,omitempty"`
	IBAN        string `json:"iban,omitempty"`
	SWIFT       string `json:"swift,omitempty"`
}

// PartyResponse a party in responses.
type PartyResponse struct {
	ID          string `json:"id"`
	Kind        string `json:"kind"`
	Role        string `json:"role"`
	Name        string `json:"name"`
	Street      string `json:"street"`
	PostalCode  string `json:"postal_code"`
	City        string `json:"city"`
	Country     string `json:"country"`
	Email       string `json:"email,omitempty"`
	Phone       string `json:"phone,omitempty"`
	OrgNumber   string `json:"org_number,omitempty"`
	BankAccount string `json:"bank_account,omitempty"`
	IBAN        string `json:"iban,omitempty"`
	SWIFT       string `json:"swift,omitempty"`
}
