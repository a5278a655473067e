package store

import (
	"context"
	"fmt"
	"strings"

	"foodgram/internal/domain"
)

// ShoppingItem is one aggregated line of a shopping list
type ShoppingItem struct {
	Name            string
	MeasurementUnit string
	Amount          int64
}

// ShoppingList sums ingredient amounts over every recipe in userID's cart,
// one item per distinct ingredient, ordered by ingredient name.
func (s *Store) ShoppingList(ctx context.Context, userID uint) ([]ShoppingItem, error) {
	items := []ShoppingItem{}
	err := s.db.WithContext(ctx).Model(&domain.RecipeIngredient{}).
		Select("ingredients.name AS name, ingredients.measurement_unit AS measurement_unit, SUM(recipe_ingredients.amount) AS amount").
		Joins("JOIN ingredients ON ingredients.id = recipe_ingredients.ingredient_id").
		Joins("JOIN shopping_cart_entries ON shopping_cart_entries.recipe_id = recipe_ingredients.recipe_id").
		Where("shopping_cart_entries.user_id = ?", userID).
		Group("ingredients.id, ingredients.name, ingredients.measurement_unit").
		Order("ingredients.name").
		Order("ingredients.id").
		Scan(&items).Error
	if err != nil {
		return nil, err
	}
	return items, nil
}

const (
	shoppingListHeader = "Your shopping list:"
	shoppingListRule   = "-------------------"
	shoppingListFooter = "Happy shopping!"
)

// FormatShoppingList renders items as the downloadable plain-text list
func FormatShoppingList(items []ShoppingItem) string {
	var b strings.Builder
	b.WriteString(shoppingListHeader + "\n" + shoppingListRule + "\n")
	for _, item := range items {
		fmt.Fprintf(&b, "%s (%s) - %d\n", item.Name, item.MeasurementUnit, item.Amount)
	}
	b.WriteString(shoppingListRule + "\n" + shoppingListFooter + "\n")
	return b.String()
}
