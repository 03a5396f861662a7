package main

import (
	"context"
	"fmt"
	"log"
	"time"

	"github.com/shopspring/decimal"

	"github.com/konditer/konditer/pkg/application/services/production"
	"github.com/konditer/konditer/pkg/infrastructure/events"
	scenario "github.com/konditer/konditer/pkg/infrastructure/testing"
)

func main() {
	ingredientRepo, lotRepo, recipeRepo, batchRepo := scenario.BuildConfectioneryScenario()

	service := production.NewService(ingredientRepo, lotRepo, recipeRepo, batchRepo)
	eventLog := events.NewLog()
	service.AttachEventLog(eventLog)

	ctx := context.Background()
	date := time.Date(2026, 3, 1, 0, 0, 0, 0, time.UTC)

	// Produce 40 truffle boxes, auto-producing the ganache shortfall.
	result, err := service.Produce(ctx, "TRUFFLE_BOX", decimal.NewFromInt(40), date, true)
	if err != nil {
		log.Fatalf("produce failed: %v", err)
	}

	fmt.Printf("Produced batch %s: %s boxes at total cost %s\n",
		result.Batch.ID, result.Batch.OriginalQuantity, result.Cost.StringFixed(2))
	for _, sub := range result.AutoProduced {
		fmt.Printf("  auto-produced %s: %s at cost %s\n",
			sub.RecipeID, sub.OriginalQuantity, sub.Cost.StringFixed(2))
	}
	for _, component := range result.Breakdown {
		fmt.Printf("  %-12s %-15s amount %-8s cost %s\n",
			component.Kind, component.ResourceName, component.Amount, component.Cost.StringFixed(2))
	}

	// Shrink the batch and watch the ledger follow.
	resized, err := service.RestoreForQuantityChange(ctx, result.Batch.ID, decimal.NewFromInt(20), true)
	if err != nil {
		log.Fatalf("quantity change failed: %v", err)
	}
	fmt.Printf("\nResized batch to %s boxes, new cost %s\n",
		resized.Batch.OriginalQuantity, resized.Cost.StringFixed(2))

	// Delete the batch; its consumption is reversed through the trail.
	if err := service.RestoreForDelete(ctx, resized.Batch.ID); err != nil {
		log.Fatalf("delete failed: %v", err)
	}

	sugar, err := ingredientRepo.GetIngredient("SUGAR")
	if err != nil {
		log.Fatal(err)
	}
	fmt.Printf("\nAfter delete, sugar on hand: %s %s\n", sugar.Quantity, sugar.Unit)
	fmt.Printf("Events recorded: %d\n", len(eventLog.All()))
}
