package entities

import (
	"testing"
	"time"

	"github.com/shopspring/decimal"
)

func TestLot_ConsumeAndRestore(t *testing.T) {
	lot, err := NewLot("L1", "R1", "FLOUR", decimal.NewFromInt(10), decimal.NewFromInt(5),
		time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC), "")
	if err != nil {
		t.Fatalf("NewLot failed: %v", err)
	}

	if !lot.Remaining.Equal(decimal.NewFromInt(10)) {
		t.Errorf("expected fresh lot remaining 10, got %s", lot.Remaining)
	}

	if err := lot.Consume(decimal.NewFromInt(7)); err != nil {
		t.Fatalf("Consume failed: %v", err)
	}
	if !lot.Remaining.Equal(decimal.NewFromInt(3)) {
		t.Errorf("expected remaining 3, got %s", lot.Remaining)
	}
	if !lot.Consumed().Equal(decimal.NewFromInt(7)) {
		t.Errorf("expected consumed 7, got %s", lot.Consumed())
	}

	if err := lot.Consume(decimal.NewFromInt(4)); err == nil {
		t.Error("expected error consuming more than remaining")
	}

	restored, err := lot.Restore(decimal.NewFromInt(4))
	if err != nil {
		t.Fatalf("Restore failed: %v", err)
	}
	if !restored.Equal(decimal.NewFromInt(4)) {
		t.Errorf("expected restored 4, got %s", restored)
	}
	if !lot.Remaining.Equal(decimal.NewFromInt(7)) {
		t.Errorf("expected remaining 7, got %s", lot.Remaining)
	}
}

func TestLot_RestoreClampsAtOriginalQuantity(t *testing.T) {
	lot, err := NewLot("L1", "R1", "SUGAR", decimal.NewFromInt(10), decimal.NewFromInt(2),
		time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC), "")
	if err != nil {
		t.Fatalf("NewLot failed: %v", err)
	}
	if err := lot.Consume(decimal.NewFromInt(3)); err != nil {
		t.Fatalf("Consume failed: %v", err)
	}

	restored, err := lot.Restore(decimal.NewFromInt(100))
	if err != nil {
		t.Fatalf("Restore failed: %v", err)
	}
	if !restored.Equal(decimal.NewFromInt(3)) {
		t.Errorf("expected restore clamped to 3, got %s", restored)
	}
	if !lot.Remaining.Equal(lot.Quantity) {
		t.Errorf("expected remaining back at original %s, got %s", lot.Quantity, lot.Remaining)
	}
}

func TestNewLot_Validation(t *testing.T) {
	date := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)

	tests := []struct {
		name      string
		id        string
		quantity  decimal.Decimal
		unitPrice decimal.Decimal
	}{
		{"empty_id", "", decimal.NewFromInt(1), decimal.NewFromInt(1)},
		{"zero_quantity", "L1", decimal.Zero, decimal.NewFromInt(1)},
		{"negative_quantity", "L1", decimal.NewFromInt(-1), decimal.NewFromInt(1)},
		{"negative_price", "L1", decimal.NewFromInt(1), decimal.NewFromInt(-1)},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := NewLot(tt.id, "R1", "FLOUR", tt.quantity, tt.unitPrice, date, ""); err == nil {
				t.Error("expected validation error")
			}
		})
	}
}
