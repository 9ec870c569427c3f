package repository

import "github.com/enkelfaktura/faktura-api/internal/domain/entity"

// PartyRepository is the persistence port for Party (DIP).
type PartyRepository interface {
	Create(party *entity.Party) error
	GetByID(id string) (*entity.Party, error)
	ListByOwner(ownerID, role string, limit, offset int) ([]*entity.Party, error)
	Update(party *entity.Party) error
	Delete(id string) error
}
