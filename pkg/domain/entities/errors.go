package entities

import (
	"fmt"
	"strings"
)

// InvalidRecipeError reports a recipe that cannot be produced as defined:
// non-positive output or a dangling sub-recipe reference.
type InvalidRecipeError struct {
	RecipeID RecipeID
	Reason   string
}

func (e *InvalidRecipeError) Error() string {
	return fmt.Sprintf("invalid recipe %s: %s", e.RecipeID, e.Reason)
}

// InsufficientStockError carries the full shortfall list for a failed
// production attempt. No state has been mutated when it is returned.
type InsufficientStockError struct {
	Shortfalls []Shortfall
}

func (e *InsufficientStockError) Error() string {
	if len(e.Shortfalls) == 0 {
		return "insufficient stock"
	}
	parts := make([]string, 0, len(e.Shortfalls))
	for _, s := range e.Shortfalls {
		parts = append(parts, fmt.Sprintf("%s: need %s %s, have %s", s.ResourceName, s.Required, s.Unit, s.Available))
	}
	return "insufficient stock: " + strings.Join(parts, "; ")
}

// CyclicRecipeError reports a cycle in the recipe graph discovered while
// resolving a bill of materials.
type CyclicRecipeError struct {
	Path []RecipeID
}

func (e *CyclicRecipeError) Error() string {
	parts := make([]string, 0, len(e.Path))
	for _, id := range e.Path {
		parts = append(parts, string(id))
	}
	return "cyclic bill of materials: " + strings.Join(parts, " -> ")
}
