package search

import (
	"errors"
	"testing"

	"menuscan/internal/menu"
)

func strPtr(s string) *string { return &s }

func floatPtr(f float64) *float64 { return &f }

func fixtures() []menu.MenuItem {
	return []menu.MenuItem{
		{
			DishName:    "Chicken Fried Rice",
			Ingredients: []string{"Chicken", "rice", "egg"},
			Allergens:   []string{"egg"},
			Price:       floatPtr(10),
			Category:    strPtr("Main"),
		},
		{
			DishName:    "Satay Chicken",
			Ingredients: []string{"chicken", "peanut sauce"},
			Allergens:   []string{"Peanuts"},
			Price:       floatPtr(9.5),
			Category:    strPtr("Appetizer"),
		},
		{
			DishName:    "Vegetable Rice Bowl",
			Ingredients: []string{"RICE", "tofu"},
			DietaryTags: []string{"Vegan", "gluten-free"},
			Price:       nil,
			Category:    strPtr("Main"),
		},
		{
			DishName:    "Pad Thai",
			Ingredients: []string{"noodles", "peanuts"},
			Allergens:   []string{"peanuts", "shellfish"},
			DietaryTags: []string{"vegan"},
			Price:       floatPtr(12),
			Category:    strPtr("main"),
		},
	}
}

func names(items []menu.MenuItem) []string {
	out := make([]string, len(items))
	for i, it := range items {
		out[i] = it.DishName
	}
	return out
}

func assertNames(t *testing.T, got []menu.MenuItem, want ...string) {
	t.Helper()
	g := names(got)
	if len(g) != len(want) {
		t.Fatalf("expected %v, got %v", want, g)
	}
	for i := range want {
		if g[i] != want[i] {
			t.Fatalf("expected %v, got %v", want, g)
		}
	}
}

func TestSearchMenuItems_Term(t *testing.T) {
	assertNames(t, SearchMenuItems(fixtures(), Query{Term: "chICKen"}),
		"Chicken Fried Rice", "Satay Chicken")

	// fuzzy has the same substring semantics
	assertNames(t, SearchMenuItems(fixtures(), Query{Term: "rice", Fuzzy: true}),
		"Chicken Fried Rice", "Vegetable Rice Bowl")

	if got := SearchMenuItems(fixtures(), Query{}); len(got) != 4 {
		t.Fatalf("expected empty query to match everything, got %d", len(got))
	}
}

func TestSearchMenuItems_AllergensExclude(t *testing.T) {
	got := SearchMenuItems(fixtures(), Query{Allergens: []string{"peanuts"}})
	for _, it := range got {
		for _, a := range it.Allergens {
			if a == "Peanuts" || a == "peanuts" {
				t.Fatalf("item %q carries excluded allergen", it.DishName)
			}
		}
	}
	// an item without allergens passes
	assertNames(t, got, "Chicken Fried Rice", "Vegetable Rice Bowl")
}

func TestSearchMenuItems_DietaryPreferencesAreConjunctive(t *testing.T) {
	assertNames(t, SearchMenuItems(fixtures(), Query{DietaryPreferences: []string{"VEGAN"}}),
		"Vegetable Rice Bowl", "Pad Thai")
	assertNames(t, SearchMenuItems(fixtures(), Query{DietaryPreferences: []string{"vegan", "Gluten-Free"}}),
		"Vegetable Rice Bowl")
}

func TestSearchMenuItems_CategoriesExact(t *testing.T) {
	assertNames(t, SearchMenuItems(fixtures(), Query{Categories: []string{"Main"}}),
		"Chicken Fried Rice", "Vegetable Rice Bowl")
	assertNames(t, SearchMenuItems(fixtures(), Query{Categories: []string{"Appetizer", "main"}}),
		"Satay Chicken", "Pad Thai")
}

func TestSearchMenuItems_MaxPriceBoundary(t *testing.T) {
	got := SearchMenuItems(fixtures(), Query{MaxPrice: floatPtr(10)})
	assertNames(t, got, "Chicken Fried Rice", "Satay Chicken")
}

func TestSearchMenuItems_FiltersCombine(t *testing.T) {
	got := SearchMenuItems(fixtures(), Query{
		Term:       "chicken",
		Categories: []string{"Main"},
		MaxPrice:   floatPtr(20),
		Allergens:  []string{"shellfish"},
	})
	assertNames(t, got, "Chicken Fried Rice")
}

func TestSearchByIngredients_MatchModes(t *testing.T) {
	all, err := SearchByIngredients(fixtures(), IngredientQuery{
		Ingredients: []string{"chicken", "rice"},
		MatchAll:    true,
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	assertNames(t, all, "Chicken Fried Rice")

	either, err := SearchByIngredients(fixtures(), IngredientQuery{
		Ingredients: []string{"Chicken", "rice"},
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	assertNames(t, either, "Chicken Fried Rice", "Satay Chicken", "Vegetable Rice Bowl")
}

func TestSearchByIngredients_ExcludeAndPrice(t *testing.T) {
	got, err := SearchByIngredients(fixtures(), IngredientQuery{
		Ingredients:      []string{"chicken", "peanuts", "rice"},
		ExcludeAllergens: []string{"PEANUTS"},
		MaxPrice:         floatPtr(10),
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	assertNames(t, got, "Chicken Fried Rice")
}

func TestSearchByIngredients_EmptyIsError(t *testing.T) {
	for _, in := range [][]string{nil, {}, {"  ", ""}} {
		if _, err := SearchByIngredients(fixtures(), IngredientQuery{Ingredients: in}); !errors.Is(err, ErrNoIngredients) {
			t.Fatalf("%v: expected ErrNoIngredients, got %v", in, err)
		}
	}
}
