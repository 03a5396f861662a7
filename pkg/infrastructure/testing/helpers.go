package testing

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/konditer/konditer/pkg/domain/entities"
	"github.com/konditer/konditer/pkg/infrastructure/repositories/memory"
)

// BuildConfectioneryScenario builds the shared confectionery test scenario:
// five raw ingredients with two FIFO lots each, two semi-finished recipes
// and two finished recipes built on top of them. Aggregates are seeded
// consistent with the lot ledger.
func BuildConfectioneryScenario() (*memory.IngredientRepository, *memory.LotRepository, *memory.RecipeRepository, *memory.BatchRepository) {
	ingredientRepo := memory.NewIngredientRepository()
	lotRepo := memory.NewLotRepository()
	recipeRepo := memory.NewRecipeRepository()
	batchRepo := memory.NewBatchRepository()

	type ingredientSpec struct {
		id   entities.IngredientID
		name string
		unit string
		cost string
	}
	ingredientSpecs := []ingredientSpec{
		{"FLOUR", "Wheat flour", "kg", "1.20"},
		{"SUGAR", "White sugar", "kg", "0.90"},
		{"BUTTER", "Butter 82%", "kg", "7.50"},
		{"COCOA", "Cocoa mass", "kg", "11.00"},
		{"CREAM", "Cream 33%", "l", "3.80"},
	}
	for _, spec := range ingredientSpecs {
		ingredient, err := entities.NewIngredient(spec.id, spec.name, spec.unit, decimal.RequireFromString(spec.cost))
		if err != nil {
			panic(err)
		}
		if err := ingredientRepo.AddIngredient(ingredient); err != nil {
			panic(err)
		}
	}

	type lotSpec struct {
		id         string
		receiptID  string
		ingredient entities.IngredientID
		quantity   string
		unitPrice  string
		date       time.Time
	}
	jan5 := time.Date(2026, 1, 5, 0, 0, 0, 0, time.UTC)
	jan10 := time.Date(2026, 1, 10, 0, 0, 0, 0, time.UTC)
	jan20 := time.Date(2026, 1, 20, 0, 0, 0, 0, time.UTC)
	feb2 := time.Date(2026, 2, 2, 0, 0, 0, 0, time.UTC)
	feb5 := time.Date(2026, 2, 5, 0, 0, 0, 0, time.UTC)
	feb10 := time.Date(2026, 2, 10, 0, 0, 0, 0, time.UTC)

	lotSpecs := []lotSpec{
		{"L-FLOUR-1", "R-001", "FLOUR", "50", "1.10", jan5},
		{"L-FLOUR-2", "R-004", "FLOUR", "50", "1.30", feb2},
		{"L-SUGAR-1", "R-001", "SUGAR", "40", "0.85", jan5},
		{"L-SUGAR-2", "R-004", "SUGAR", "40", "0.95", feb2},
		{"L-BUTTER-1", "R-002", "BUTTER", "20", "7.00", jan10},
		{"L-BUTTER-2", "R-005", "BUTTER", "20", "8.00", feb5},
		{"L-COCOA-1", "R-002", "COCOA", "15", "10.50", jan10},
		{"L-COCOA-2", "R-005", "COCOA", "15", "11.50", feb5},
		{"L-CREAM-1", "R-003", "CREAM", "25", "3.60", jan20},
		{"L-CREAM-2", "R-006", "CREAM", "25", "4.00", feb10},
	}
	for _, spec := range lotSpecs {
		lot, err := entities.NewLot(spec.id, spec.receiptID, spec.ingredient,
			decimal.RequireFromString(spec.quantity), decimal.RequireFromString(spec.unitPrice), spec.date, "")
		if err != nil {
			panic(err)
		}
		if err := lotRepo.AddLot(lot); err != nil {
			panic(err)
		}
		ingredient, err := ingredientRepo.GetIngredient(spec.ingredient)
		if err != nil {
			panic(err)
		}
		ingredient.Quantity = ingredient.Quantity.Add(lot.Quantity)
	}

	mustIngredientLine := func(id entities.IngredientID, amount string) entities.RecipeLine {
		line, err := entities.NewIngredientLine(id, decimal.RequireFromString(amount))
		if err != nil {
			panic(err)
		}
		return *line
	}
	mustSubRecipeLine := func(id entities.RecipeID, amount string) entities.RecipeLine {
		line, err := entities.NewSubRecipeLine(id, decimal.RequireFromString(amount))
		if err != nil {
			panic(err)
		}
		return *line
	}

	recipes := []*entities.Recipe{
		{
			ID:   "GANACHE",
			Name: "Dark ganache",
			Items: []entities.RecipeLine{
				mustIngredientLine("COCOA", "3"),
				mustIngredientLine("BUTTER", "2"),
				mustIngredientLine("CREAM", "4"),
				mustIngredientLine("SUGAR", "2"),
			},
			Output:     decimal.RequireFromString("10"),
			OutputUnit: "kg",
			Category:   entities.SemiFinished,
		},
		{
			ID:   "SPONGE",
			Name: "Sponge base",
			Items: []entities.RecipeLine{
				mustIngredientLine("FLOUR", "4"),
				mustIngredientLine("SUGAR", "2"),
				mustIngredientLine("BUTTER", "1"),
			},
			Output:     decimal.RequireFromString("8"),
			OutputUnit: "kg",
			Category:   entities.SemiFinished,
		},
		{
			ID:   "TRUFFLE_BOX",
			Name: "Truffle box",
			Items: []entities.RecipeLine{
				mustSubRecipeLine("GANACHE", "5"),
				mustIngredientLine("SUGAR", "1"),
				mustIngredientLine("COCOA", "0.5"),
			},
			Output:     decimal.RequireFromString("20"),
			OutputUnit: "box",
			Category:   entities.Finished,
		},
		{
			ID:   "LAYER_CAKE",
			Name: "Layer cake",
			Items: []entities.RecipeLine{
				mustSubRecipeLine("SPONGE", "6"),
				mustSubRecipeLine("GANACHE", "3"),
				mustIngredientLine("SUGAR", "1"),
			},
			Output:     decimal.RequireFromString("4"),
			OutputUnit: "pc",
			Category:   entities.Finished,
		},
	}
	if err := recipeRepo.LoadRecipes(recipes); err != nil {
		panic(err)
	}

	return ingredientRepo, lotRepo, recipeRepo, batchRepo
}
