package production

import (
	"errors"
	"testing"

	"github.com/shopspring/decimal"

	"github.com/konditer/konditer/pkg/domain/entities"
	testhelpers "github.com/konditer/konditer/pkg/infrastructure/testing"
)

func TestResolver_Resolve_ScalesByOutputRatio(t *testing.T) {
	_, _, recipeRepo, _ := testhelpers.BuildConfectioneryScenario()
	resolver := NewResolver(recipeRepo)

	recipe, err := recipeRepo.GetRecipe("TRUFFLE_BOX")
	if err != nil {
		t.Fatalf("GetRecipe failed: %v", err)
	}

	// Output is 20 boxes, so 40 boxes doubles every line.
	requirements, err := resolver.Resolve(recipe, decimal.NewFromInt(40))
	if err != nil {
		t.Fatalf("Resolve failed: %v", err)
	}

	want := []struct {
		kind   entities.ResourceKind
		id     string
		amount string
	}{
		{entities.ResourceRecipe, "GANACHE", "10"},
		{entities.ResourceIngredient, "SUGAR", "2"},
		{entities.ResourceIngredient, "COCOA", "1"},
	}

	if len(requirements) != len(want) {
		t.Fatalf("expected %d requirements, got %d", len(want), len(requirements))
	}
	for i, w := range want {
		req := requirements[i]
		if req.Kind != w.kind || req.ResourceID != w.id {
			t.Errorf("requirement %d: expected %s %s, got %s %s", i, w.kind, w.id, req.Kind, req.ResourceID)
		}
		if !req.Amount.Equal(decimal.RequireFromString(w.amount)) {
			t.Errorf("requirement %d: expected amount %s, got %s", i, w.amount, req.Amount)
		}
	}
}

func TestResolver_Resolve_FractionalRatio(t *testing.T) {
	_, _, recipeRepo, _ := testhelpers.BuildConfectioneryScenario()
	resolver := NewResolver(recipeRepo)

	recipe, err := recipeRepo.GetRecipe("GANACHE")
	if err != nil {
		t.Fatalf("GetRecipe failed: %v", err)
	}

	// 6 kg out of a 10 kg yield scales every line by 0.6.
	requirements, err := resolver.Resolve(recipe, decimal.NewFromInt(6))
	if err != nil {
		t.Fatalf("Resolve failed: %v", err)
	}
	if !requirements[0].Amount.Equal(decimal.RequireFromString("1.8")) {
		t.Errorf("expected cocoa requirement 1.8, got %s", requirements[0].Amount)
	}
}

func TestResolver_Resolve_UnknownSubRecipe(t *testing.T) {
	_, _, recipeRepo, _ := testhelpers.BuildConfectioneryScenario()
	resolver := NewResolver(recipeRepo)

	line, err := entities.NewSubRecipeLine("MISSING", decimal.NewFromInt(1))
	if err != nil {
		t.Fatalf("NewSubRecipeLine failed: %v", err)
	}
	recipe, err := entities.NewRecipe("BROKEN", "Broken", []entities.RecipeLine{*line},
		decimal.NewFromInt(1), "kg", entities.Finished)
	if err != nil {
		t.Fatalf("NewRecipe failed: %v", err)
	}

	_, err = resolver.Resolve(recipe, decimal.NewFromInt(1))
	var invalidErr *entities.InvalidRecipeError
	if !errors.As(err, &invalidErr) {
		t.Fatalf("expected InvalidRecipeError, got %v", err)
	}
	if invalidErr.RecipeID != "BROKEN" {
		t.Errorf("expected error to name BROKEN, got %s", invalidErr.RecipeID)
	}
}

func TestResolver_Resolve_NonPositiveQuantity(t *testing.T) {
	_, _, recipeRepo, _ := testhelpers.BuildConfectioneryScenario()
	resolver := NewResolver(recipeRepo)

	recipe, err := recipeRepo.GetRecipe("GANACHE")
	if err != nil {
		t.Fatalf("GetRecipe failed: %v", err)
	}
	if _, err := resolver.Resolve(recipe, decimal.Zero); err == nil {
		t.Error("expected error for zero quantity")
	}
}
