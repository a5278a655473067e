package domain

import "time"

// Recipe Model
type Recipe struct {
	ID          uint      `gorm:"primaryKey"`
	AuthorID    uint      `gorm:"not null;index"` // Foreign key to User
	Name        string    `gorm:"size:200;not null"`
	Image       string    `gorm:"size:255;not null"` // Storage key of the decoded image
	Text        string    `gorm:"type:text;not null"`
	CookingTime int       `gorm:"not null"`             // Minutes, at least 1
	CreatedAt   time.Time `gorm:"autoCreateTime;index"` // Listing order
	UpdatedAt   time.Time `gorm:"autoUpdateTime"`

	Author      User               `gorm:"foreignKey:AuthorID;constraint:OnUpdate:CASCADE,OnDelete:CASCADE;"`
	Tags        []Tag              `gorm:"many2many:recipe_tags;constraint:OnUpdate:CASCADE,OnDelete:CASCADE;"`
	Ingredients []RecipeIngredient `gorm:"foreignKey:RecipeID;constraint:OnUpdate:CASCADE,OnDelete:CASCADE;"`
}

// RecipeIngredient Model, join between Recipe and Ingredient carrying the amount
type RecipeIngredient struct {
	ID           uint `gorm:"primaryKey"`
	RecipeID     uint `gorm:"not null;index"`
	IngredientID uint `gorm:"not null;index"`
	Amount       int  `gorm:"not null"` // Positive amount in the ingredient's unit

	Ingredient Ingredient `gorm:"foreignKey:IngredientID;constraint:OnUpdate:CASCADE,OnDelete:CASCADE;"`
}

// FavoriteRecipe Model, at most one row per (user, recipe)
type FavoriteRecipe struct {
	ID        uint      `gorm:"primaryKey"`
	UserID    uint      `gorm:"not null;uniqueIndex:idx_favorite_user_recipe"`
	RecipeID  uint      `gorm:"not null;uniqueIndex:idx_favorite_user_recipe;index"`
	CreatedAt time.Time `gorm:"autoCreateTime"`

	User   User   `gorm:"foreignKey:UserID;constraint:OnUpdate:CASCADE,OnDelete:CASCADE;"`
	Recipe Recipe `gorm:"foreignKey:RecipeID;constraint:OnUpdate:CASCADE,OnDelete:CASCADE;"`
}

// ShoppingCartEntry Model, at most one row per (user, recipe)
type ShoppingCartEntry struct {
	ID        uint      `gorm:"primaryKey"`
	UserID    uint      `gorm:"not null;uniqueIndex:idx_cart_user_recipe"`
	RecipeID  uint      `gorm:"not null;uniqueIndex:idx_cart_user_recipe;index"`
	CreatedAt time.Time `gorm:"autoCreateTime"`

	User   User   `gorm:"foreignKey:UserID;constraint:OnUpdate:CASCADE,OnDelete:CASCADE;"`
	Recipe Recipe `gorm:"foreignKey:RecipeID;constraint:OnUpdate:CASCADE,OnDelete:CASCADE;"`
}

// Models lists every table in migration order
func Models() []any {
	return []any{
		&User{},
		&Tag{},
		&Ingredient{},
		&Recipe{},
		&RecipeIngredient{},
		&FavoriteRecipe{},
		&ShoppingCartEntry{},
		&Subscription{},
	}
}
