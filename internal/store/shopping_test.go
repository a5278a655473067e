package store

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestShoppingList_SumsSharedIngredients(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()
	alice := mustUser(t, s, "alice")
	bob := mustUser(t, s, "bob")
	flour := mustIngredient(t, s, "flour", "g")
	salt := mustIngredient(t, s, "salt", "g")
	milk := mustIngredient(t, s, "milk", "ml")

	bread := mustRecipe(t, s, alice.ID, "Bread", nil, IngredientAmount{flour.ID, 500}, IngredientAmount{salt.ID, 10})
	pancakes := mustRecipe(t, s, alice.ID, "Pancakes", nil, IngredientAmount{flour.ID, 200}, IngredientAmount{milk.ID, 300})
	mustRecipe(t, s, alice.ID, "Unused", nil, IngredientAmount{flour.ID, 1000})

	_, err := s.AddToCart(ctx, bob.ID, bread.ID)
	require.NoError(t, err)
	_, err = s.AddToCart(ctx, bob.ID, pancakes.ID)
	require.NoError(t, err)

	items, err := s.ShoppingList(ctx, bob.ID)
	require.NoError(t, err)
	assert.Equal(t, []ShoppingItem{
		{Name: "flour", MeasurementUnit: "g", Amount: 700},
		{Name: "milk", MeasurementUnit: "ml", Amount: 300},
		{Name: "salt", MeasurementUnit: "g", Amount: 10},
	}, items)

	empty, err := s.ShoppingList(ctx, alice.ID)
	require.NoError(t, err)
	assert.Empty(t, empty)
}

func TestShoppingList_SameNameDifferentUnits(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()
	alice := mustUser(t, s, "alice")
	sugarG := mustIngredient(t, s, "sugar", "g")
	sugarSpoon := mustIngredient(t, s, "sugar", "tbsp")
	r := mustRecipe(t, s, alice.ID, "Tea", nil, IngredientAmount{sugarG.ID, 5}, IngredientAmount{sugarSpoon.ID, 2})
	_, err := s.AddToCart(ctx, alice.ID, r.ID)
	require.NoError(t, err)

	items, err := s.ShoppingList(ctx, alice.ID)
	require.NoError(t, err)
	require.Len(t, items, 2, "ingredients are grouped by id, not by name")
}

func TestFormatShoppingList(t *testing.T) {
	out := FormatShoppingList([]ShoppingItem{{Name: "flour", MeasurementUnit: "g", Amount: 700}})
	assert.Equal(t, "Your shopping list:\n-------------------\nflour (g) - 700\n-------------------\nHappy shopping!\n", out)

	assert.Equal(t, "Your shopping list:\n-------------------\n-------------------\nHappy shopping!\n", FormatShoppingList(nil))
}
