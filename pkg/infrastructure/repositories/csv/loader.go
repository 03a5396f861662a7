package csv

import (
	"encoding/csv"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/shopspring/decimal"

	"github.com/konditer/konditer/pkg/domain/entities"
)

// Loader reads a scenario from CSV files: ingredient catalog, lot ledger,
// recipes with their lines, and pre-existing production batches. Batches
// loaded from CSV carry no consumption trail, so reversing them takes the
// heuristic restoration path.
type Loader struct{}

// NewLoader creates a new CSV loader.
func NewLoader() *Loader {
	return &Loader{}
}

const dateLayout = "2006-01-02"

// LoadIngredients loads the ingredient catalog from a CSV file.
func (l *Loader) LoadIngredients(filename string) ([]*entities.Ingredient, error) {
	records, err := readRecords(filename, []string{"ingredient_id", "name", "unit", "cost", "quantity", "is_semi_final"})
	if err != nil {
		return nil, fmt.Errorf("ingredients CSV: %w", err)
	}

	var ingredients []*entities.Ingredient
	for i, record := range records {
		cost, err := decimal.NewFromString(record[3])
		if err != nil {
			return nil, fmt.Errorf("ingredients CSV row %d: bad cost %q: %w", i+2, record[3], err)
		}
		quantity, err := decimal.NewFromString(record[4])
		if err != nil {
			return nil, fmt.Errorf("ingredients CSV row %d: bad quantity %q: %w", i+2, record[4], err)
		}
		semiFinal, err := strconv.ParseBool(record[5])
		if err != nil {
			return nil, fmt.Errorf("ingredients CSV row %d: bad is_semi_final %q: %w", i+2, record[5], err)
		}

		ingredient, err := entities.NewIngredient(entities.IngredientID(record[0]), record[1], record[2], cost)
		if err != nil {
			return nil, fmt.Errorf("ingredients CSV row %d: %w", i+2, err)
		}
		ingredient.Quantity = quantity
		ingredient.IsSemiFinal = semiFinal
		ingredients = append(ingredients, ingredient)
	}
	return ingredients, nil
}

// LoadLots loads the lot ledger from a CSV file.
func (l *Loader) LoadLots(filename string) ([]*entities.Lot, error) {
	records, err := readRecords(filename, []string{"lot_id", "receipt_id", "ingredient_id", "quantity", "unit_price", "remaining", "receipt_date", "reference"})
	if err != nil {
		return nil, fmt.Errorf("lots CSV: %w", err)
	}

	var lots []*entities.Lot
	for i, record := range records {
		quantity, err := decimal.NewFromString(record[3])
		if err != nil {
			return nil, fmt.Errorf("lots CSV row %d: bad quantity %q: %w", i+2, record[3], err)
		}
		unitPrice, err := decimal.NewFromString(record[4])
		if err != nil {
			return nil, fmt.Errorf("lots CSV row %d: bad unit_price %q: %w", i+2, record[4], err)
		}
		remaining, err := decimal.NewFromString(record[5])
		if err != nil {
			return nil, fmt.Errorf("lots CSV row %d: bad remaining %q: %w", i+2, record[5], err)
		}
		receiptDate, err := time.Parse(dateLayout, record[6])
		if err != nil {
			return nil, fmt.Errorf("lots CSV row %d: bad receipt_date %q: %w", i+2, record[6], err)
		}
		if remaining.IsNegative() || remaining.GreaterThan(quantity) {
			return nil, fmt.Errorf("lots CSV row %d: remaining %s outside [0, %s]", i+2, remaining, quantity)
		}

		lot, err := entities.NewLot(record[0], record[1], entities.IngredientID(record[2]), quantity, unitPrice, receiptDate, record[7])
		if err != nil {
			return nil, fmt.Errorf("lots CSV row %d: %w", i+2, err)
		}
		lot.Remaining = remaining
		lots = append(lots, lot)
	}
	return lots, nil
}

// LoadRecipes loads recipe headers and lines from two CSV files.
func (l *Loader) LoadRecipes(recipesFile, linesFile string) ([]*entities.Recipe, error) {
	headerRecords, err := readRecords(recipesFile, []string{"recipe_id", "name", "output", "output_unit", "category"})
	if err != nil {
		return nil, fmt.Errorf("recipes CSV: %w", err)
	}
	lineRecords, err := readRecords(linesFile, []string{"recipe_id", "line_kind", "resource_id", "amount"})
	if err != nil {
		return nil, fmt.Errorf("recipe lines CSV: %w", err)
	}

	linesByRecipe := make(map[entities.RecipeID][]entities.RecipeLine)
	for i, record := range lineRecords {
		amount, err := decimal.NewFromString(record[3])
		if err != nil {
			return nil, fmt.Errorf("recipe lines CSV row %d: bad amount %q: %w", i+2, record[3], err)
		}

		var line *entities.RecipeLine
		switch record[1] {
		case "ingredient":
			line, err = entities.NewIngredientLine(entities.IngredientID(record[2]), amount)
		case "recipe":
			line, err = entities.NewSubRecipeLine(entities.RecipeID(record[2]), amount)
		default:
			return nil, fmt.Errorf("recipe lines CSV row %d: unknown line_kind %q", i+2, record[1])
		}
		if err != nil {
			return nil, fmt.Errorf("recipe lines CSV row %d: %w", i+2, err)
		}
		id := entities.RecipeID(record[0])
		linesByRecipe[id] = append(linesByRecipe[id], *line)
	}

	var recipes []*entities.Recipe
	for i, record := range headerRecords {
		output, err := decimal.NewFromString(record[2])
		if err != nil {
			return nil, fmt.Errorf("recipes CSV row %d: bad output %q: %w", i+2, record[2], err)
		}
		var category entities.RecipeCategory
		switch record[4] {
		case "semi-finished":
			category = entities.SemiFinished
		case "finished":
			category = entities.Finished
		default:
			return nil, fmt.Errorf("recipes CSV row %d: unknown category %q", i+2, record[4])
		}

		id := entities.RecipeID(record[0])
		recipe, err := entities.NewRecipe(id, record[1], linesByRecipe[id], output, record[3], category)
		if err != nil {
			return nil, fmt.Errorf("recipes CSV row %d: %w", i+2, err)
		}
		recipes = append(recipes, recipe)
	}
	return recipes, nil
}

// LoadBatches loads pre-existing production batches from a CSV file.
func (l *Loader) LoadBatches(filename string) ([]*entities.ProductionBatch, error) {
	records, err := readRecords(filename, []string{"batch_id", "recipe_id", "quantity", "original_quantity", "date", "cost"})
	if err != nil {
		return nil, fmt.Errorf("batches CSV: %w", err)
	}

	var batches []*entities.ProductionBatch
	for i, record := range records {
		quantity, err := decimal.NewFromString(record[2])
		if err != nil {
			return nil, fmt.Errorf("batches CSV row %d: bad quantity %q: %w", i+2, record[2], err)
		}
		original, err := decimal.NewFromString(record[3])
		if err != nil {
			return nil, fmt.Errorf("batches CSV row %d: bad original_quantity %q: %w", i+2, record[3], err)
		}
		date, err := time.Parse(dateLayout, record[4])
		if err != nil {
			return nil, fmt.Errorf("batches CSV row %d: bad date %q: %w", i+2, record[4], err)
		}
		cost, err := decimal.NewFromString(record[5])
		if err != nil {
			return nil, fmt.Errorf("batches CSV row %d: bad cost %q: %w", i+2, record[5], err)
		}
		if quantity.IsNegative() || quantity.GreaterThan(original) {
			return nil, fmt.Errorf("batches CSV row %d: quantity %s outside [0, %s]", i+2, quantity, original)
		}

		batch, err := entities.NewProductionBatch(record[0], entities.RecipeID(record[1]), original, date, cost, nil)
		if err != nil {
			return nil, fmt.Errorf("batches CSV row %d: %w", i+2, err)
		}
		batch.Quantity = quantity
		batches = append(batches, batch)
	}
	return batches, nil
}

// readRecords opens a CSV file, validates the header and returns the data
// rows.
func readRecords(filename string, expectedHeader []string) ([][]string, error) {
	file, err := os.Open(filename)
	if err != nil {
		return nil, fmt.Errorf("failed to open %s: %w", filename, err)
	}
	defer file.Close()

	reader := csv.NewReader(file)
	records, err := reader.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("failed to read %s: %w", filename, err)
	}
	if len(records) == 0 {
		return nil, fmt.Errorf("%s is empty, expected header %v", filename, expectedHeader)
	}
	if !headerMatches(records[0], expectedHeader) {
		return nil, fmt.Errorf("%s header mismatch, expected %v, got %v", filename, expectedHeader, records[0])
	}
	for i, record := range records[1:] {
		if len(record) != len(expectedHeader) {
			return nil, fmt.Errorf("%s row %d: expected %d columns, got %d", filename, i+2, len(expectedHeader), len(record))
		}
	}
	return records[1:], nil
}

func headerMatches(header, expected []string) bool {
	if len(header) != len(expected) {
		return false
	}
	for i, column := range expected {
		if strings.TrimSpace(header[i]) != column {
			return false
		}
	}
	return true
}
