package repositories

import "github.com/konditer/konditer/pkg/domain/entities"

// LotRepository provides access to the lot ledger.
type LotRepository interface {
	// GetLots returns all lots of an ingredient in FIFO order:
	// receipt date ascending, lot ID ascending on ties.
	GetLots(ingredientID entities.IngredientID) ([]*entities.Lot, error)
	GetLot(id string) (*entities.Lot, error)
	GetAllLots() ([]*entities.Lot, error)
	AddLot(lot *entities.Lot) error
	LoadLots(lots []*entities.Lot) error
}
