package store

import (
	"context"
	"fmt"
	"testing"

	"foodgram/internal/db"
	"foodgram/internal/domain"

	"github.com/google/uuid"
	"github.com/stretchr/testify/require"
)

func newTestStore(t *testing.T) *Store {
	t.Helper()
	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared&_pragma=foreign_keys(1)", uuid.NewString())
	gdb, err := db.Open("sqlite", dsn, false)
	require.NoError(t, err)
	require.NoError(t, db.Migrate(gdb))
	t.Cleanup(func() {
		if sqlDB, err := gdb.DB(); err == nil {
			_ = sqlDB.Close()
		}
	})
	return New(gdb)
}

func mustUser(t *testing.T, s *Store, name string) *domain.User {
	t.Helper()
	u := &domain.User{Email: name + "@example.com", Username: name, FirstName: name, LastName: "Test", Password: "x"}
	require.NoError(t, s.CreateUser(context.Background(), u))
	return u
}

func mustIngredient(t *testing.T, s *Store, name, unit string) *domain.Ingredient {
	t.Helper()
	i := &domain.Ingredient{Name: name, MeasurementUnit: unit}
	require.NoError(t, s.DB().Create(i).Error)
	return i
}

func mustTag(t *testing.T, s *Store, slug string) *domain.Tag {
	t.Helper()
	tag := &domain.Tag{Name: slug, Color: "#ffffff", Slug: slug}
	require.NoError(t, s.CreateTag(context.Background(), tag))
	return tag
}

func ptr[T any](v T) *T { return &v }

func recipeInput(name string, tags []uint, items ...IngredientAmount) RecipeInput {
	return RecipeInput{
		Name:        ptr(name),
		Image:       ptr("recipes/images/" + name + ".png"),
		Text:        ptr("Mix and bake."),
		CookingTime: ptr(30),
		TagIDs:      tags,
		Ingredients: items,
	}
}

func mustRecipe(t *testing.T, s *Store, author uint, name string, tags []uint, items ...IngredientAmount) *domain.Recipe {
	t.Helper()
	r, err := s.CreateRecipe(context.Background(), author, recipeInput(name, tags, items...))
	require.NoError(t, err)
	return r
}
