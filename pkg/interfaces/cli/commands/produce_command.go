package commands

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/shopspring/decimal"

	"github.com/konditer/konditer/pkg/application/services/production"
	"github.com/konditer/konditer/pkg/domain/entities"
	"github.com/konditer/konditer/pkg/domain/services"
	csvrepo "github.com/konditer/konditer/pkg/infrastructure/repositories/csv"
	"github.com/konditer/konditer/pkg/infrastructure/repositories/memory"
	"github.com/konditer/konditer/pkg/interfaces/cli/output"
)

// Config holds configuration for the produce command.
type Config struct {
	ScenarioDir string
	RecipeID    string
	Quantity    string
	Date        string
	AutoProduce bool
	CheckOnly   bool
	Format      string
	Verbose     bool
	Help        bool
}

// ProduceCommand loads a CSV scenario and runs an availability check or a
// production against it.
type ProduceCommand struct {
	config Config
}

// NewProduceCommand creates a new produce command with the given configuration.
func NewProduceCommand(config Config) *ProduceCommand {
	return &ProduceCommand{config: config}
}

// Execute runs the command.
func (c *ProduceCommand) Execute(ctx context.Context) error {
	if c.config.Help {
		c.showHelp()
		return nil
	}
	if err := c.validateInputs(); err != nil {
		return fmt.Errorf("validation error: %w", err)
	}

	quantity, err := decimal.NewFromString(c.config.Quantity)
	if err != nil {
		return fmt.Errorf("invalid quantity %q: %w", c.config.Quantity, err)
	}

	date := time.Now()
	if c.config.Date != "" {
		date, err = time.Parse("2006-01-02", c.config.Date)
		if err != nil {
			return fmt.Errorf("invalid date %q: %w", c.config.Date, err)
		}
	}

	service, err := c.loadScenario()
	if err != nil {
		return err
	}

	recipeID := entities.RecipeID(c.config.RecipeID)
	outputConfig := output.Config{Format: c.config.Format, Verbose: c.config.Verbose}

	if c.config.CheckOnly {
		requirements, err := service.ResolveRequirements(ctx, recipeID, quantity)
		if err != nil {
			return err
		}
		result, err := service.CheckAvailability(ctx, requirements, c.config.AutoProduce)
		if err != nil {
			return err
		}
		return output.GenerateAvailability(result, outputConfig)
	}

	started := time.Now()
	result, err := service.Produce(ctx, recipeID, quantity, date, c.config.AutoProduce)
	if err != nil {
		var insufficient *entities.InsufficientStockError
		if errors.As(err, &insufficient) {
			return output.GenerateAvailability(&entities.AvailabilityResult{
				CanProduce: false,
				Shortfalls: insufficient.Shortfalls,
			}, outputConfig)
		}
		return err
	}
	outputConfig.Duration = time.Since(started)

	return output.GenerateProduceResult(result, outputConfig)
}

// loadScenario reads the scenario directory into memory repositories and
// wires the production service over them.
func (c *ProduceCommand) loadScenario() (*production.Service, error) {
	loader := csvrepo.NewLoader()
	dir := c.config.ScenarioDir

	if c.config.Verbose {
		fmt.Printf("Loading scenario from %s...\n", dir)
	}

	ingredients, err := loader.LoadIngredients(filepath.Join(dir, "ingredients.csv"))
	if err != nil {
		return nil, fmt.Errorf("error loading ingredients: %w", err)
	}
	lots, err := loader.LoadLots(filepath.Join(dir, "lots.csv"))
	if err != nil {
		return nil, fmt.Errorf("error loading lots: %w", err)
	}
	recipes, err := loader.LoadRecipes(filepath.Join(dir, "recipes.csv"), filepath.Join(dir, "recipe_lines.csv"))
	if err != nil {
		return nil, fmt.Errorf("error loading recipes: %w", err)
	}

	var batches []*entities.ProductionBatch
	batchesFile := filepath.Join(dir, "batches.csv")
	if _, err := os.Stat(batchesFile); err == nil {
		batches, err = loader.LoadBatches(batchesFile)
		if err != nil {
			return nil, fmt.Errorf("error loading batches: %w", err)
		}
	}

	validation := services.NewRecipeValidator().ValidateRecipes(recipes)
	if !validation.Valid() {
		return nil, fmt.Errorf("invalid recipe set: %v", validation.Errors)
	}

	ingredientRepo := memory.NewIngredientRepository()
	if err := ingredientRepo.LoadIngredients(ingredients); err != nil {
		return nil, err
	}
	lotRepo := memory.NewLotRepository()
	if err := lotRepo.LoadLots(lots); err != nil {
		return nil, err
	}
	recipeRepo := memory.NewRecipeRepository()
	if err := recipeRepo.LoadRecipes(recipes); err != nil {
		return nil, err
	}
	batchRepo := memory.NewBatchRepository()
	if err := batchRepo.LoadBatches(batches); err != nil {
		return nil, err
	}

	if c.config.Verbose {
		fmt.Printf("Loaded %d ingredients, %d lots, %d recipes, %d batches\n\n",
			len(ingredients), len(lots), len(recipes), len(batches))
	}

	return production.NewService(ingredientRepo, lotRepo, recipeRepo, batchRepo), nil
}

func (c *ProduceCommand) validateInputs() error {
	if c.config.ScenarioDir == "" {
		return fmt.Errorf("scenario directory is required (-scenario)")
	}
	if c.config.RecipeID == "" {
		return fmt.Errorf("recipe id is required (-recipe)")
	}
	if c.config.Quantity == "" {
		return fmt.Errorf("quantity is required (-quantity)")
	}
	switch c.config.Format {
	case "text", "json":
	default:
		return fmt.Errorf("format must be text or json, got %q", c.config.Format)
	}
	return nil
}

func (c *ProduceCommand) showHelp() {
	fmt.Println(`konditer - FIFO lot costing for confectionery production

Usage:
  konditer -scenario DIR -recipe ID -quantity N [options]

Options:
  -scenario DIR    Directory with ingredients.csv, lots.csv, recipes.csv,
                   recipe_lines.csv and optionally batches.csv
  -recipe ID       Recipe to produce
  -quantity N      Target output quantity
  -date YYYY-MM-DD Production date (default: today)
  -auto            Auto-produce semi-final shortfalls recursively
  -check-only      Only run the availability check, mutate nothing
  -format FORMAT   Output format: text, json (default: text)
  -verbose         Verbose output, including the consumption trail
  -help            Show this help`)
}
