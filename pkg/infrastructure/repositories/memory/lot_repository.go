package memory

import (
	"fmt"
	"sort"

	"github.com/konditer/konditer/pkg/domain/entities"
	"github.com/konditer/konditer/pkg/domain/repositories"
)

// LotRepository provides in-memory lot ledger storage.
type LotRepository struct {
	lots []*entities.Lot
	byID map[string]*entities.Lot
}

// NewLotRepository creates a new in-memory lot repository.
func NewLotRepository() *LotRepository {
	return &LotRepository{byID: make(map[string]*entities.Lot)}
}

// Verify interface compliance
var _ repositories.LotRepository = (*LotRepository)(nil)

// LoadLots loads lots into the repository.
func (r *LotRepository) LoadLots(lots []*entities.Lot) error {
	for _, lot := range lots {
		if err := r.AddLot(lot); err != nil {
			return err
		}
	}
	return nil
}

// AddLot adds a lot to the ledger.
func (r *LotRepository) AddLot(lot *entities.Lot) error {
	if _, exists := r.byID[lot.ID]; exists {
		return fmt.Errorf("lot already exists: %s", lot.ID)
	}
	r.lots = append(r.lots, lot)
	r.byID[lot.ID] = lot
	return nil
}

// GetLots returns an ingredient's lots in FIFO order: receipt date
// ascending, lot ID ascending on equal dates so allocation stays
// deterministic.
func (r *LotRepository) GetLots(ingredientID entities.IngredientID) ([]*entities.Lot, error) {
	var lots []*entities.Lot
	for _, lot := range r.lots {
		if lot.IngredientID == ingredientID {
			lots = append(lots, lot)
		}
	}
	sort.Slice(lots, func(i, j int) bool {
		if !lots[i].ReceiptDate.Equal(lots[j].ReceiptDate) {
			return lots[i].ReceiptDate.Before(lots[j].ReceiptDate)
		}
		return lots[i].ID < lots[j].ID
	})
	return lots, nil
}

// GetLot returns the lot with the given id.
func (r *LotRepository) GetLot(id string) (*entities.Lot, error) {
	lot, exists := r.byID[id]
	if !exists {
		return nil, fmt.Errorf("lot not found: %s", id)
	}
	return lot, nil
}

// GetAllLots returns all lots in insertion order.
func (r *LotRepository) GetAllLots() ([]*entities.Lot, error) {
	out := make([]*entities.Lot, len(r.lots))
	copy(out, r.lots)
	return out, nil
}
