package entities

import (
	"testing"
	"time"

	"github.com/shopspring/decimal"
)

func testBatch(t *testing.T, quantity, cost int64) *ProductionBatch {
	t.Helper()
	batch, err := NewProductionBatch("B1", "GANACHE", decimal.NewFromInt(quantity),
		time.Date(2026, 3, 1, 0, 0, 0, 0, time.UTC), decimal.NewFromInt(cost), nil)
	if err != nil {
		t.Fatalf("NewProductionBatch failed: %v", err)
	}
	return batch
}

func TestProductionBatch_UnitCostFixedAtProduction(t *testing.T) {
	batch := testBatch(t, 10, 250)

	want := decimal.NewFromInt(25)
	if !batch.UnitCost().Equal(want) {
		t.Errorf("expected unit cost %s, got %s", want, batch.UnitCost())
	}

	if err := batch.Consume(decimal.NewFromInt(6)); err != nil {
		t.Fatalf("Consume failed: %v", err)
	}

	// Drawing down the batch must not change what a unit of it costs.
	if !batch.UnitCost().Equal(want) {
		t.Errorf("expected unit cost %s after partial consumption, got %s", want, batch.UnitCost())
	}
}

func TestProductionBatch_StateTransitions(t *testing.T) {
	batch := testBatch(t, 10, 100)

	if batch.State() != BatchActive {
		t.Errorf("expected Active, got %s", batch.State())
	}

	if err := batch.Consume(decimal.NewFromInt(4)); err != nil {
		t.Fatalf("Consume failed: %v", err)
	}
	if batch.State() != BatchPartiallyConsumed {
		t.Errorf("expected PartiallyConsumed, got %s", batch.State())
	}

	if err := batch.Consume(decimal.NewFromInt(6)); err != nil {
		t.Fatalf("Consume failed: %v", err)
	}
	if batch.State() != BatchExhausted {
		t.Errorf("expected Exhausted, got %s", batch.State())
	}
}

func TestProductionBatch_ConsumeOverRemaining(t *testing.T) {
	batch := testBatch(t, 5, 100)
	if err := batch.Consume(decimal.NewFromInt(6)); err == nil {
		t.Error("expected error consuming more than remaining")
	}
}

func TestProductionBatch_RestoreClampsAtOriginal(t *testing.T) {
	batch := testBatch(t, 10, 100)
	if err := batch.Consume(decimal.NewFromInt(4)); err != nil {
		t.Fatalf("Consume failed: %v", err)
	}

	restored, err := batch.Restore(decimal.NewFromInt(9))
	if err != nil {
		t.Fatalf("Restore failed: %v", err)
	}
	if !restored.Equal(decimal.NewFromInt(4)) {
		t.Errorf("expected restore clamped to 4, got %s", restored)
	}
	if !batch.Quantity.Equal(batch.OriginalQuantity) {
		t.Errorf("expected quantity back at %s, got %s", batch.OriginalQuantity, batch.Quantity)
	}
}

func TestConsumptionTrail_Clone(t *testing.T) {
	key := ResourceKey{Kind: ResourceIngredient, ID: "COCOA"}
	trail := ConsumptionTrail{
		key: {{SourceID: "L1", AmountUsed: decimal.NewFromInt(3), UnitPrice: decimal.NewFromInt(11)}},
	}

	clone := trail.Clone()
	clone[key][0].AmountUsed = decimal.NewFromInt(99)

	if !trail[key][0].AmountUsed.Equal(decimal.NewFromInt(3)) {
		t.Errorf("mutating the clone changed the original trail: %s", trail[key][0].AmountUsed)
	}
}
