package db

import (
	"testing"

	"foodgram/internal/domain"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestOpen_UnknownDriver(t *testing.T) {
	_, err := Open("oracle", "", false)
	require.Error(t, err)
}

func TestOpenAndMigrate_SQLite(t *testing.T) {
	gdb, err := Open("sqlite", "file:migrate_test?mode=memory&cache=shared&_pragma=foreign_keys(1)", false)
	require.NoError(t, err)

	require.NoError(t, Migrate(gdb))

	for _, model := range domain.Models() {
		assert.True(t, gdb.Migrator().HasTable(model))
	}
	assert.True(t, gdb.Migrator().HasTable("recipe_tags"))
	assert.True(t, gdb.Migrator().HasIndex(&domain.FavoriteRecipe{}, "idx_favorite_user_recipe"))
	assert.True(t, gdb.Migrator().HasIndex(&domain.ShoppingCartEntry{}, "idx_cart_user_recipe"))
	assert.True(t, gdb.Migrator().HasIndex(&domain.Subscription{}, "idx_subscription_user_target"))
}
