package events

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/konditer/konditer/pkg/domain/entities"
)

// Type names a production event.
type Type string

const (
	BatchProduced   Type = "batch_produced"
	BatchDeleted    Type = "batch_deleted"
	BatchResized    Type = "batch_resized"
	BatchShipped    Type = "batch_shipped"
	ReceiptRecorded Type = "receipt_recorded"
)

// Event is one recorded production operation. StreamID groups events that
// concern the same batch or receipt.
type Event struct {
	Type       Type
	StreamID   string
	OccurredAt time.Time
	Data       any
}

// BatchPayload describes a produced, resized or deleted batch.
type BatchPayload struct {
	BatchID  string
	RecipeID entities.RecipeID
	Quantity decimal.Decimal
	Cost     decimal.Decimal
}

// ShipmentPayload describes a shipment draw from a batch.
type ShipmentPayload struct {
	BatchID  string
	Quantity decimal.Decimal
}

// ReceiptPayload describes a recorded receipt.
type ReceiptPayload struct {
	ReceiptID string
	LotIDs    []string
}
