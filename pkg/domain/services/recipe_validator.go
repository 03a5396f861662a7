package services

import (
	"fmt"

	"github.com/konditer/konditer/pkg/domain/entities"
)

// RecipeValidator checks the structural integrity of a recipe set before it
// is handed to the production engine.
type RecipeValidator struct{}

// NewRecipeValidator creates a new recipe validator.
func NewRecipeValidator() *RecipeValidator {
	return &RecipeValidator{}
}

// ValidationResult contains the results of recipe graph validation.
type ValidationResult struct {
	HasCycles         bool
	CyclePaths        [][]entities.RecipeID
	DanglingRefs      []entities.RecipeID
	NonPositiveOutput []entities.RecipeID
	Errors            []string
}

// Valid reports whether no problems were found.
func (r *ValidationResult) Valid() bool {
	return len(r.Errors) == 0
}

// ValidateRecipes validates a set of recipes: every sub-recipe reference
// must resolve, every output must be positive, and the graph formed by
// sub-recipe lines must be acyclic.
func (v *RecipeValidator) ValidateRecipes(recipes []*entities.Recipe) *ValidationResult {
	result := &ValidationResult{
		CyclePaths:        make([][]entities.RecipeID, 0),
		DanglingRefs:      make([]entities.RecipeID, 0),
		NonPositiveOutput: make([]entities.RecipeID, 0),
		Errors:            make([]string, 0),
	}

	byID := make(map[entities.RecipeID]*entities.Recipe, len(recipes))
	for _, recipe := range recipes {
		byID[recipe.ID] = recipe
	}

	adjacency := make(map[entities.RecipeID][]entities.RecipeID)
	for _, recipe := range recipes {
		if !recipe.Output.IsPositive() {
			result.NonPositiveOutput = append(result.NonPositiveOutput, recipe.ID)
		}
		for _, line := range recipe.Items {
			if line.Kind != entities.SubRecipeLine {
				continue
			}
			if _, ok := byID[line.RecipeID]; !ok {
				result.DanglingRefs = append(result.DanglingRefs, line.RecipeID)
				continue
			}
			adjacency[recipe.ID] = append(adjacency[recipe.ID], line.RecipeID)
		}
	}

	result.CyclePaths = v.detectCycles(adjacency)
	result.HasCycles = len(result.CyclePaths) > 0

	for _, cycle := range result.CyclePaths {
		result.Errors = append(result.Errors, fmt.Sprintf("recipe cycle detected: %v", cycle))
	}
	for _, id := range result.DanglingRefs {
		result.Errors = append(result.Errors, fmt.Sprintf("sub-recipe reference to unknown recipe %s", id))
	}
	for _, id := range result.NonPositiveOutput {
		result.Errors = append(result.Errors, fmt.Sprintf("recipe %s has non-positive output", id))
	}

	return result
}

// detectCycles uses DFS with a recursion stack to find cycles in the
// sub-recipe graph.
func (v *RecipeValidator) detectCycles(adjacency map[entities.RecipeID][]entities.RecipeID) [][]entities.RecipeID {
	visited := make(map[entities.RecipeID]bool)
	onStack := make(map[entities.RecipeID]bool)
	cycles := make([][]entities.RecipeID, 0)

	for parent := range adjacency {
		if !visited[parent] {
			v.dfsDetectCycle(parent, adjacency, visited, onStack, nil, &cycles)
		}
	}

	return cycles
}

func (v *RecipeValidator) dfsDetectCycle(
	current entities.RecipeID,
	adjacency map[entities.RecipeID][]entities.RecipeID,
	visited map[entities.RecipeID]bool,
	onStack map[entities.RecipeID]bool,
	path []entities.RecipeID,
	cycles *[][]entities.RecipeID,
) {
	visited[current] = true
	onStack[current] = true
	path = append(path, current)

	for _, child := range adjacency[current] {
		if !visited[child] {
			v.dfsDetectCycle(child, adjacency, visited, onStack, path, cycles)
		} else if onStack[child] {
			cycleStart := -1
			for i, id := range path {
				if id == child {
					cycleStart = i
					break
				}
			}
			if cycleStart != -1 {
				cycle := make([]entities.RecipeID, 0, len(path)-cycleStart+1)
				cycle = append(cycle, path[cycleStart:]...)
				cycle = append(cycle, child)
				*cycles = append(*cycles, cycle)
			}
		}
	}

	onStack[current] = false
}
