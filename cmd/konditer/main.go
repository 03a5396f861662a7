package main

import (
	"context"
	"flag"
	"fmt"
	"os"

	"github.com/konditer/konditer/pkg/interfaces/cli/commands"
)

func main() {
	var (
		scenarioDir = flag.String("scenario", "", "Path to scenario directory containing CSV files")
		recipeID    = flag.String("recipe", "", "Recipe to produce")
		quantity    = flag.String("quantity", "", "Target output quantity")
		date        = flag.String("date", "", "Production date YYYY-MM-DD (default: today)")
		autoProduce = flag.Bool("auto", false, "Auto-produce semi-final shortfalls recursively")
		checkOnly   = flag.Bool("check-only", false, "Only run the availability check")
		format      = flag.String("format", "text", "Output format: text, json")
		verbose     = flag.Bool("verbose", false, "Enable verbose output")
		help        = flag.Bool("help", false, "Show help message")
	)

	flag.Parse()

	config := commands.Config{
		ScenarioDir: *scenarioDir,
		RecipeID:    *recipeID,
		Quantity:    *quantity,
		Date:        *date,
		AutoProduce: *autoProduce,
		CheckOnly:   *checkOnly,
		Format:      *format,
		Verbose:     *verbose,
		Help:        *help,
	}

	cmd := commands.NewProduceCommand(config)
	ctx := context.Background()

	if err := cmd.Execute(ctx); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}
