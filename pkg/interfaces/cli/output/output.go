package output

import (
	"encoding/json"
	"fmt"
	"time"

	"github.com/konditer/konditer/pkg/application/dto"
	"github.com/konditer/konditer/pkg/domain/entities"
)

// Config holds configuration for output generation.
type Config struct {
	Format   string
	Verbose  bool
	Duration time.Duration
}

// GenerateProduceResult renders a production result in the configured format.
func GenerateProduceResult(result *dto.ProduceResult, config Config) error {
	switch config.Format {
	case "text":
		return produceText(result, config)
	case "json":
		return produceJSON(result)
	default:
		return fmt.Errorf("unsupported output format: %s", config.Format)
	}
}

// GenerateAvailability renders an availability check result.
func GenerateAvailability(result *entities.AvailabilityResult, config Config) error {
	switch config.Format {
	case "text":
		return availabilityText(result)
	case "json":
		return printJSON(availabilityDocument(result))
	default:
		return fmt.Errorf("unsupported output format: %s", config.Format)
	}
}

func produceText(result *dto.ProduceResult, config Config) error {
	fmt.Printf("Production Result\n")
	fmt.Printf("=================\n\n")
	fmt.Printf("Batch:      %s\n", result.Batch.ID)
	fmt.Printf("Recipe:     %s\n", result.Batch.RecipeID)
	fmt.Printf("Quantity:   %s\n", result.Batch.OriginalQuantity)
	fmt.Printf("Total cost: %s\n", result.Cost.StringFixed(2))
	if config.Duration > 0 {
		fmt.Printf("Elapsed:    %v\n", config.Duration)
	}
	fmt.Println()

	if len(result.AutoProduced) > 0 {
		fmt.Printf("Auto-produced semi-finals:\n")
		for _, batch := range result.AutoProduced {
			fmt.Printf("  %-12s %-10s qty %-10s cost %s\n",
				batch.RecipeID, batch.ID[:8], batch.OriginalQuantity, batch.Cost.StringFixed(2))
		}
		fmt.Println()
	}

	fmt.Printf("Cost breakdown:\n")
	fmt.Printf("%-12s %-25s %-12s %-12s\n", "Kind", "Resource", "Amount", "Cost")
	fmt.Printf("%-12s %-25s %-12s %-12s\n", "------------", "-------------------------", "------------", "------------")
	for _, component := range result.Breakdown {
		fmt.Printf("%-12s %-25s %-12s %-12s\n",
			component.Kind, component.ResourceName, component.Amount, component.Cost.StringFixed(2))
	}

	if config.Verbose {
		fmt.Printf("\nConsumption trail:\n")
		for key, entries := range result.Trail {
			fmt.Printf("  %s %s:\n", key.Kind, key.ID)
			for _, entry := range entries {
				source := entry.SourceID
				if source == "" {
					source = "(fallback price)"
				}
				fmt.Printf("    %-22s used %-10s @ %s\n", source, entry.AmountUsed, entry.UnitPrice)
			}
		}
	}
	return nil
}

// jsonTrailEntry flattens trail map keys into a JSON-friendly shape.
type jsonTrailEntry struct {
	ResourceKind string `json:"resourceKind"`
	ResourceID   string `json:"resourceId"`
	SourceID     string `json:"sourceId,omitempty"`
	AmountUsed   string `json:"amountUsed"`
	UnitPrice    string `json:"unitPrice"`
}

func produceJSON(result *dto.ProduceResult) error {
	type jsonComponent struct {
		Kind         string `json:"kind"`
		ResourceID   string `json:"resourceId"`
		ResourceName string `json:"resourceName"`
		Amount       string `json:"amount"`
		Cost         string `json:"cost"`
	}
	type jsonBatch struct {
		ID       string `json:"id"`
		RecipeID string `json:"recipeId"`
		Quantity string `json:"quantity"`
		Date     string `json:"date"`
		Cost     string `json:"cost"`
	}
	doc := struct {
		Batch        jsonBatch        `json:"batch"`
		Cost         string           `json:"cost"`
		AutoProduced []jsonBatch      `json:"autoProduced,omitempty"`
		Breakdown    []jsonComponent  `json:"breakdown"`
		Trail        []jsonTrailEntry `json:"trail"`
	}{
		Batch: jsonBatch{
			ID:       result.Batch.ID,
			RecipeID: string(result.Batch.RecipeID),
			Quantity: result.Batch.OriginalQuantity.String(),
			Date:     result.Batch.Date.Format("2006-01-02"),
			Cost:     result.Batch.Cost.String(),
		},
		Cost: result.Cost.String(),
	}
	for _, batch := range result.AutoProduced {
		doc.AutoProduced = append(doc.AutoProduced, jsonBatch{
			ID:       batch.ID,
			RecipeID: string(batch.RecipeID),
			Quantity: batch.OriginalQuantity.String(),
			Date:     batch.Date.Format("2006-01-02"),
			Cost:     batch.Cost.String(),
		})
	}
	for _, component := range result.Breakdown {
		doc.Breakdown = append(doc.Breakdown, jsonComponent{
			Kind:         component.Kind.String(),
			ResourceID:   component.ResourceID,
			ResourceName: component.ResourceName,
			Amount:       component.Amount.String(),
			Cost:         component.Cost.String(),
		})
	}
	for key, entries := range result.Trail {
		for _, entry := range entries {
			doc.Trail = append(doc.Trail, jsonTrailEntry{
				ResourceKind: key.Kind.String(),
				ResourceID:   key.ID,
				SourceID:     entry.SourceID,
				AmountUsed:   entry.AmountUsed.String(),
				UnitPrice:    entry.UnitPrice.String(),
			})
		}
	}
	return printJSON(doc)
}

func availabilityText(result *entities.AvailabilityResult) error {
	if result.CanProduce {
		fmt.Println("Stock covers the requested production.")
		return nil
	}
	fmt.Println("Insufficient stock:")
	fmt.Printf("%-25s %-12s %-12s %-8s\n", "Resource", "Required", "Available", "Unit")
	fmt.Printf("%-25s %-12s %-12s %-8s\n", "-------------------------", "------------", "------------", "--------")
	for _, shortfall := range result.Shortfalls {
		fmt.Printf("%-25s %-12s %-12s %-8s\n",
			shortfall.ResourceName, shortfall.Required, shortfall.Available, shortfall.Unit)
	}
	return nil
}

func availabilityDocument(result *entities.AvailabilityResult) any {
	type jsonShortfall struct {
		ResourceName string `json:"resourceName"`
		Required     string `json:"required"`
		Available    string `json:"available"`
		Unit         string `json:"unit"`
	}
	doc := struct {
		CanProduce bool            `json:"canProduce"`
		Shortfalls []jsonShortfall `json:"shortfalls,omitempty"`
	}{CanProduce: result.CanProduce}
	for _, shortfall := range result.Shortfalls {
		doc.Shortfalls = append(doc.Shortfalls, jsonShortfall{
			ResourceName: shortfall.ResourceName,
			Required:     shortfall.Required.String(),
			Available:    shortfall.Available.String(),
			Unit:         shortfall.Unit,
		})
	}
	return doc
}

func printJSON(doc any) error {
	data, err := json.MarshalIndent(doc, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal JSON output: %w", err)
	}
	fmt.Println(string(data))
	return nil
}
