package store

import (
	"context"
	"testing"

	"foodgram/internal/domain"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCreateRecipe_ReadBack(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()
	author := mustUser(t, s, "alice")
	flour := mustIngredient(t, s, "flour", "g")
	water := mustIngredient(t, s, "water", "ml")
	tag := mustTag(t, s, "breakfast")

	created := mustRecipe(t, s, author.ID, "Bread", []uint{tag.ID},
		IngredientAmount{IngredientID: water.ID, Amount: 300},
		IngredientAmount{IngredientID: flour.ID, Amount: 500},
	)

	got, err := s.GetRecipe(ctx, created.ID)
	require.NoError(t, err)
	assert.Equal(t, "Bread", got.Name)
	assert.Equal(t, author.ID, got.Author.ID)
	require.Len(t, got.Tags, 1)
	assert.Equal(t, "breakfast", got.Tags[0].Slug)

	require.Len(t, got.Ingredients, 2)
	amounts := map[string]int{}
	for _, ri := range got.Ingredients {
		amounts[ri.Ingredient.Name] = ri.Amount
	}
	assert.Equal(t, map[string]int{"flour": 500, "water": 300}, amounts)
}

func TestCreateRecipe_Validation(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()
	author := mustUser(t, s, "alice")
	flour := mustIngredient(t, s, "flour", "g")

	tests := []struct {
		name string
		in   RecipeInput
	}{
		{"zero cooking time", func() RecipeInput {
			in := recipeInput("Bread", nil, IngredientAmount{flour.ID, 1})
			in.CookingTime = ptr(0)
			return in
		}()},
		{"missing image", func() RecipeInput {
			in := recipeInput("Bread", nil, IngredientAmount{flour.ID, 1})
			in.Image = nil
			return in
		}()},
		{"no ingredients", recipeInput("Bread", nil)},
		{"empty ingredients", recipeInput("Bread", nil, []IngredientAmount{}...)},
		{"zero amount", recipeInput("Bread", nil, IngredientAmount{flour.ID, 0})},
		{"duplicate ingredient", recipeInput("Bread", nil, IngredientAmount{flour.ID, 1}, IngredientAmount{flour.ID, 2})},
		{"unknown ingredient", recipeInput("Bread", nil, IngredientAmount{flour.ID + 100, 1})},
		{"unknown tag", recipeInput("Bread", []uint{42}, IngredientAmount{flour.ID, 1})},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := s.CreateRecipe(ctx, author.ID, tt.in)
			require.ErrorIs(t, err, ErrValidation)
		})
	}

	var n int64
	require.NoError(t, s.DB().Model(&domain.Recipe{}).Count(&n).Error)
	assert.Zero(t, n, "failed writes must not leave rows behind")
}

func TestUpdateRecipe_ReplacesSets(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()
	author := mustUser(t, s, "alice")
	flour := mustIngredient(t, s, "flour", "g")
	sugar := mustIngredient(t, s, "sugar", "g")
	t1 := mustTag(t, s, "lunch")
	t2 := mustTag(t, s, "dinner")
	recipe := mustRecipe(t, s, author.ID, "Cake", []uint{t1.ID}, IngredientAmount{flour.ID, 200})

	updated, oldImage, err := s.UpdateRecipe(ctx, author.ID, recipe.ID, RecipeInput{
		CookingTime: ptr(45),
		TagIDs:      []uint{t2.ID},
		Ingredients: []IngredientAmount{{sugar.ID, 100}},
	})
	require.NoError(t, err)
	assert.Empty(t, oldImage)
	assert.Equal(t, "Cake", updated.Name, "absent fields keep their value")
	assert.Equal(t, 45, updated.CookingTime)
	require.Len(t, updated.Tags, 1)
	assert.Equal(t, t2.ID, updated.Tags[0].ID)
	require.Len(t, updated.Ingredients, 1)
	assert.Equal(t, "sugar", updated.Ingredients[0].Ingredient.Name)

	var rows int64
	require.NoError(t, s.DB().Model(&domain.RecipeIngredient{}).Where("recipe_id = ?", recipe.ID).Count(&rows).Error)
	assert.Equal(t, int64(1), rows)

	updated, oldImage, err = s.UpdateRecipe(ctx, author.ID, recipe.ID, RecipeInput{Image: ptr("recipes/images/new.png"), TagIDs: []uint{}})
	require.NoError(t, err)
	assert.Equal(t, recipe.Image, oldImage)
	assert.Empty(t, updated.Tags)
	assert.Len(t, updated.Ingredients, 1, "ingredients untouched when absent")
}

func TestUpdateRecipe_FailedWriteKeepsIngredients(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()
	author := mustUser(t, s, "alice")
	flour := mustIngredient(t, s, "flour", "g")
	recipe := mustRecipe(t, s, author.ID, "Cake", nil, IngredientAmount{flour.ID, 200})

	_, _, err := s.UpdateRecipe(ctx, author.ID, recipe.ID, RecipeInput{
		Ingredients: []IngredientAmount{{flour.ID + 99, 1}},
	})
	require.ErrorIs(t, err, ErrValidation)

	got, err := s.GetRecipe(ctx, recipe.ID)
	require.NoError(t, err)
	require.Len(t, got.Ingredients, 1)
	assert.Equal(t, 200, got.Ingredients[0].Amount)
}

func TestUpdateAndDeleteRecipe_Ownership(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()
	alice := mustUser(t, s, "alice")
	bob := mustUser(t, s, "bob")
	flour := mustIngredient(t, s, "flour", "g")
	recipe := mustRecipe(t, s, alice.ID, "Cake", nil, IngredientAmount{flour.ID, 200})

	_, _, err := s.UpdateRecipe(ctx, bob.ID, recipe.ID, RecipeInput{Name: ptr("Mine")})
	require.ErrorIs(t, err, ErrForbidden)
	_, err = s.DeleteRecipe(ctx, bob.ID, recipe.ID)
	require.ErrorIs(t, err, ErrForbidden)

	_, _, err = s.UpdateRecipe(ctx, alice.ID, recipe.ID+10, RecipeInput{Name: ptr("Gone")})
	require.ErrorIs(t, err, ErrNotFound)
}

func TestDeleteRecipe_Cascades(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()
	alice := mustUser(t, s, "alice")
	bob := mustUser(t, s, "bob")
	flour := mustIngredient(t, s, "flour", "g")
	tag := mustTag(t, s, "lunch")
	doomed := mustRecipe(t, s, alice.ID, "Cake", []uint{tag.ID}, IngredientAmount{flour.ID, 200})
	kept := mustRecipe(t, s, alice.ID, "Pie", []uint{tag.ID}, IngredientAmount{flour.ID, 300})

	_, err := s.AddFavorite(ctx, bob.ID, doomed.ID)
	require.NoError(t, err)
	_, err = s.AddToCart(ctx, bob.ID, doomed.ID)
	require.NoError(t, err)

	image, err := s.DeleteRecipe(ctx, alice.ID, doomed.ID)
	require.NoError(t, err)
	assert.Equal(t, doomed.Image, image)

	for _, model := range []any{&domain.FavoriteRecipe{}, &domain.ShoppingCartEntry{}, &domain.RecipeIngredient{}} {
		var n int64
		require.NoError(t, s.DB().Model(model).Where("recipe_id = ?", doomed.ID).Count(&n).Error)
		assert.Zero(t, n)
	}
	var links int64
	require.NoError(t, s.DB().Table("recipe_tags").Where("recipe_id = ?", doomed.ID).Count(&links).Error)
	assert.Zero(t, links)

	got, err := s.GetRecipe(ctx, kept.ID)
	require.NoError(t, err)
	assert.Len(t, got.Ingredients, 1)
	assert.Len(t, got.Tags, 1)
	_, err = s.GetUser(ctx, alice.ID)
	require.NoError(t, err)
}

func TestListRecipes_Filters(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()
	alice := mustUser(t, s, "alice")
	bob := mustUser(t, s, "bob")
	flour := mustIngredient(t, s, "flour", "g")
	breakfast := mustTag(t, s, "breakfast")
	lunch := mustTag(t, s, "lunch")
	dinner := mustTag(t, s, "dinner")

	both := mustRecipe(t, s, alice.ID, "Both", []uint{breakfast.ID, lunch.ID}, IngredientAmount{flour.ID, 1})
	onlyLunch := mustRecipe(t, s, bob.ID, "Lunch", []uint{lunch.ID}, IngredientAmount{flour.ID, 1})
	onlyDinner := mustRecipe(t, s, alice.ID, "Dinner", []uint{dinner.ID}, IngredientAmount{flour.ID, 1})

	ids := func(rs []domain.Recipe) []uint {
		out := make([]uint, len(rs))
		for i, r := range rs {
			out[i] = r.ID
		}
		return out
	}

	all, total, err := s.ListRecipes(ctx, RecipeFilter{}, Page{Limit: 10})
	require.NoError(t, err)
	assert.Equal(t, int64(3), total)
	assert.Equal(t, []uint{onlyDinner.ID, onlyLunch.ID, both.ID}, ids(all), "newest first")

	tagged, total, err := s.ListRecipes(ctx, RecipeFilter{TagSlugs: []string{"breakfast", "lunch"}}, Page{Limit: 10})
	require.NoError(t, err)
	assert.Equal(t, int64(2), total)
	assert.ElementsMatch(t, []uint{both.ID, onlyLunch.ID}, ids(tagged))

	byAuthor, _, err := s.ListRecipes(ctx, RecipeFilter{TagSlugs: []string{"lunch", "dinner"}, AuthorID: &alice.ID}, Page{Limit: 10})
	require.NoError(t, err)
	assert.ElementsMatch(t, []uint{both.ID, onlyDinner.ID}, ids(byAuthor))

	_, err = s.AddFavorite(ctx, bob.ID, onlyDinner.ID)
	require.NoError(t, err)
	_, err = s.AddToCart(ctx, bob.ID, both.ID)
	require.NoError(t, err)

	fav, _, err := s.ListRecipes(ctx, RecipeFilter{FavoritedBy: &bob.ID}, Page{Limit: 10})
	require.NoError(t, err)
	assert.Equal(t, []uint{onlyDinner.ID}, ids(fav))

	cart, _, err := s.ListRecipes(ctx, RecipeFilter{InCartOf: &bob.ID, TagSlugs: []string{"breakfast"}}, Page{Limit: 10})
	require.NoError(t, err)
	assert.Equal(t, []uint{both.ID}, ids(cart))

	page2, total, err := s.ListRecipes(ctx, RecipeFilter{}, Page{Offset: 2, Limit: 2})
	require.NoError(t, err)
	assert.Equal(t, int64(3), total)
	assert.Equal(t, []uint{both.ID}, ids(page2))
}

func TestRecipesByAuthorAndCounts(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()
	alice := mustUser(t, s, "alice")
	bob := mustUser(t, s, "bob")
	flour := mustIngredient(t, s, "flour", "g")
	for _, name := range []string{"A", "B", "C"} {
		mustRecipe(t, s, alice.ID, name, nil, IngredientAmount{flour.ID, 1})
	}

	limited, err := s.RecipesByAuthor(ctx, alice.ID, 2)
	require.NoError(t, err)
	assert.Len(t, limited, 2)
	assert.Equal(t, "C", limited[0].Name)

	all, err := s.RecipesByAuthor(ctx, alice.ID, -1)
	require.NoError(t, err)
	assert.Len(t, all, 3)

	counts, err := s.RecipeCounts(ctx, []uint{alice.ID, bob.ID})
	require.NoError(t, err)
	assert.Equal(t, int64(3), counts[alice.ID])
	assert.Zero(t, counts[bob.ID])
}
