package dto

import (
	"github.com/shopspring/decimal"

	"github.com/konditer/konditer/pkg/domain/entities"
)

// CostComponent is one resource's share of a batch cost.
type CostComponent struct {
	Kind         entities.ResourceKind
	ResourceID   string
	ResourceName string
	Amount       decimal.Decimal
	Cost         decimal.Decimal
}

// ProduceResult is the complete output of a production run.
type ProduceResult struct {
	Batch *entities.ProductionBatch
	Cost  decimal.Decimal
	Trail entities.ConsumptionTrail

	// AutoProduced lists semi-final batches created on the fly to cover
	// shortfalls, in the order they were produced.
	AutoProduced []*entities.ProductionBatch

	// Breakdown attributes the total cost to the directly consumed
	// resources of the top-level recipe.
	Breakdown []CostComponent
}
