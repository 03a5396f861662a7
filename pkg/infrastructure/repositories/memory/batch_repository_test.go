package memory

import (
	"testing"
	"time"

	"github.com/shopspring/decimal"

	"github.com/konditer/konditer/pkg/domain/entities"
)

func mustBatch(t *testing.T, id string, recipeID entities.RecipeID, quantity int64, date time.Time) *entities.ProductionBatch {
	t.Helper()
	batch, err := entities.NewProductionBatch(id, recipeID, decimal.NewFromInt(quantity), date, decimal.NewFromInt(100), nil)
	if err != nil {
		t.Fatalf("NewProductionBatch failed: %v", err)
	}
	return batch
}

func TestBatchRepository_GetLiveBatchesFIFOOrder(t *testing.T) {
	repo := NewBatchRepository()

	mar := time.Date(2026, 3, 1, 0, 0, 0, 0, time.UTC)
	apr := time.Date(2026, 4, 1, 0, 0, 0, 0, time.UTC)

	exhausted := mustBatch(t, "B-OLD", "GANACHE", 5, mar)
	if err := exhausted.Consume(decimal.NewFromInt(5)); err != nil {
		t.Fatalf("Consume failed: %v", err)
	}

	if err := repo.LoadBatches([]*entities.ProductionBatch{
		mustBatch(t, "B-2", "GANACHE", 10, apr),
		exhausted,
		mustBatch(t, "B-1", "GANACHE", 10, apr),
		mustBatch(t, "B-3", "GANACHE", 10, mar),
		mustBatch(t, "B-4", "SPONGE", 10, mar),
	}); err != nil {
		t.Fatalf("LoadBatches failed: %v", err)
	}

	live, err := repo.GetLiveBatches("GANACHE")
	if err != nil {
		t.Fatalf("GetLiveBatches failed: %v", err)
	}

	want := []string{"B-3", "B-1", "B-2"}
	if len(live) != len(want) {
		t.Fatalf("expected %d live batches, got %d", len(want), len(live))
	}
	for i, id := range want {
		if live[i].ID != id {
			t.Errorf("position %d: expected %s, got %s", i, id, live[i].ID)
		}
	}
}

func TestBatchRepository_SaveBatchReplacesExisting(t *testing.T) {
	repo := NewBatchRepository()
	date := time.Date(2026, 3, 1, 0, 0, 0, 0, time.UTC)

	if err := repo.SaveBatch(mustBatch(t, "B1", "GANACHE", 10, date)); err != nil {
		t.Fatalf("SaveBatch failed: %v", err)
	}
	if err := repo.SaveBatch(mustBatch(t, "B1", "GANACHE", 4, date)); err != nil {
		t.Fatalf("SaveBatch replace failed: %v", err)
	}

	batch, err := repo.GetBatch("B1")
	if err != nil {
		t.Fatalf("GetBatch failed: %v", err)
	}
	if !batch.Quantity.Equal(decimal.NewFromInt(4)) {
		t.Errorf("expected replaced quantity 4, got %s", batch.Quantity)
	}

	all, err := repo.GetAllBatches()
	if err != nil {
		t.Fatalf("GetAllBatches failed: %v", err)
	}
	if len(all) != 1 {
		t.Errorf("expected a single stored batch after replace, got %d", len(all))
	}
}

func TestBatchRepository_DeleteBatch(t *testing.T) {
	repo := NewBatchRepository()
	date := time.Date(2026, 3, 1, 0, 0, 0, 0, time.UTC)

	if err := repo.SaveBatch(mustBatch(t, "B1", "GANACHE", 10, date)); err != nil {
		t.Fatalf("SaveBatch failed: %v", err)
	}
	if err := repo.DeleteBatch("B1"); err != nil {
		t.Fatalf("DeleteBatch failed: %v", err)
	}
	if _, err := repo.GetBatch("B1"); err == nil {
		t.Error("expected error after delete")
	}
	if err := repo.DeleteBatch("B1"); err == nil {
		t.Error("expected error deleting missing batch")
	}
}
