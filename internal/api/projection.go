package api

import (
	"foodgram/internal/domain"
	"foodgram/internal/media"
	"foodgram/internal/store"
)

// UserResponse is the public user summary
type UserResponse struct {
	Email        string `json:"email"`
	ID           uint   `json:"id"`
	Username     string `json:"username"`
	FirstName    string `json:"first_name"`
	LastName     string `json:"last_name"`
	IsSubscribed bool   `json:"is_subscribed"`
}

// RecipeIngredientResponse is one expanded ingredient line of a recipe read
type RecipeIngredientResponse struct {
	ID              uint   `json:"id"`
	Name            string `json:"name"`
	MeasurementUnit string `json:"measurement_unit"`
	Amount          int    `json:"amount"`
}

// RecipeResponse is the read shape of a recipe
type RecipeResponse struct {
	ID               uint                       `json:"id"`
	Tags             []domain.Tag               `json:"tags"`
	Author           UserResponse               `json:"author"`
	Ingredients      []RecipeIngredientResponse `json:"ingredients"`
	IsFavorited      bool                       `json:"is_favorited"`
	IsInShoppingCart bool                       `json:"is_in_shopping_cart"`
	Name             string                     `json:"name"`
	Image            string                     `json:"image"`
	Text             string                     `json:"text"`
	CookingTime      int                        `json:"cooking_time"`
}

// ShortRecipeResponse is the short-form projection used inside other payloads
type ShortRecipeResponse struct {
	ID          uint   `json:"id"`
	Name        string `json:"name"`
	Image       string `json:"image"`
	CookingTime int    `json:"cooking_time"`
}

// SubscriptionResponse is a followed user with a preview of their recipes
type SubscriptionResponse struct {
	UserResponse
	Recipes      []ShortRecipeResponse `json:"recipes"`
	RecipesCount int64                 `json:"recipes_count"`
}

func toUser(u domain.User, subscribed bool) UserResponse {
	return UserResponse{
		Email:        u.Email,
		ID:           u.ID,
		Username:     u.Username,
		FirstName:    u.FirstName,
		LastName:     u.LastName,
		IsSubscribed: subscribed,
	}
}

func toShortRecipe(r domain.Recipe, images media.Store) ShortRecipeResponse {
	return ShortRecipeResponse{ID: r.ID, Name: r.Name, Image: images.URL(r.Image), CookingTime: r.CookingTime}
}

func toShortRecipes(rs []domain.Recipe, images media.Store) []ShortRecipeResponse {
	out := make([]ShortRecipeResponse, len(rs))
	for i, r := range rs {
		out[i] = toShortRecipe(r, images)
	}
	return out
}

func toRecipe(r domain.Recipe, flags store.Flags, images media.Store) RecipeResponse {
	tags := r.Tags
	if tags == nil {
		tags = []domain.Tag{}
	}
	ingredients := make([]RecipeIngredientResponse, len(r.Ingredients))
	for i, ri := range r.Ingredients {
		ingredients[i] = RecipeIngredientResponse{
			ID:              ri.Ingredient.ID,
			Name:            ri.Ingredient.Name,
			MeasurementUnit: ri.Ingredient.MeasurementUnit,
			Amount:          ri.Amount,
		}
	}
	return RecipeResponse{
		ID:               r.ID,
		Tags:             tags,
		Author:           toUser(r.Author, flags.Subscribed[r.AuthorID]),
		Ingredients:      ingredients,
		IsFavorited:      flags.Favorited[r.ID],
		IsInShoppingCart: flags.InCart[r.ID],
		Name:             r.Name,
		Image:            images.URL(r.Image),
		Text:             r.Text,
		CookingTime:      r.CookingTime,
	}
}
