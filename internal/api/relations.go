package api

import (
	"context"  // Store calls
	"net/http" // HTTP status codes
	"strconv"  // recipes_limit parsing

	"foodgram/internal/domain"     // Recipe and user models
	"foodgram/internal/middleware" // Authenticated actor lookup

	"github.com/gin-gonic/gin"   // Gin web framework
	"github.com/sirupsen/logrus" // Structured logging
)

// Store operations on a (user, recipe) list
type (
	addRecipeFunc    func(ctx context.Context, userID, recipeID uint) (*domain.Recipe, error)
	removeRecipeFunc func(ctx context.Context, userID, recipeID uint) error
)

// AddRecipeLinkHandler adds the recipe to one of the actor's lists and answers
// with the short recipe projection
func AddRecipeLinkHandler(deps *Deps, add addRecipeFunc, list string) gin.HandlerFunc {
	return func(c *gin.Context) {
		userID, ok := actor(c)
		if !ok {
			return
		}
		recipeID, ok := pathID(c, "id")
		if !ok {
			return
		}
		recipe, err := add(c.Request.Context(), userID, recipeID)
		if err != nil {
			respondError(c, err, "add recipe to "+list)
			return
		}
		logrus.WithFields(logrus.Fields{
			"user_id":   userID,   // Actor
			"recipe_id": recipeID, // Target
			"list":      list,     // favorites or shopping_cart
		}).Info("Recipe added")
		c.JSON(http.StatusCreated, toShortRecipe(*recipe, deps.Media))
	}
}

// RemoveRecipeLinkHandler removes the recipe from one of the actor's lists
func RemoveRecipeLinkHandler(remove removeRecipeFunc, list string) gin.HandlerFunc {
	return func(c *gin.Context) {
		userID, ok := actor(c)
		if !ok {
			return
		}
		recipeID, ok := pathID(c, "id")
		if !ok {
			return
		}
		if err := remove(c.Request.Context(), userID, recipeID); err != nil {
			respondError(c, err, "remove recipe from "+list)
			return
		}
		logrus.WithFields(logrus.Fields{
			"user_id":   userID,
			"recipe_id": recipeID,
			"list":      list,
		}).Info("Recipe removed")
		c.Status(http.StatusNoContent)
	}
}

// parseRecipesLimit reads ?recipes_limit=, -1 meaning no limit
func parseRecipesLimit(c *gin.Context) (int, bool) {
	raw := c.Query("recipes_limit")
	if raw == "" {
		return -1, true
	}
	n, err := strconv.Atoi(raw)
	if err != nil || n < 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "recipes_limit must be a non-negative integer"})
		return 0, false
	}
	return n, true
}

// subscriptionView renders followed users with a preview of their recipes
func subscriptionView(ctx context.Context, deps *Deps, users []domain.User, limit int) ([]SubscriptionResponse, error) {
	ids := make([]uint, len(users))
	for i, u := range users {
		ids[i] = u.ID
	}
	counts, err := deps.Store.RecipeCounts(ctx, ids) // Uncapped totals
	if err != nil {
		return nil, err
	}
	out := make([]SubscriptionResponse, len(users))
	for i, u := range users {
		recipes, err := deps.Store.RecipesByAuthor(ctx, u.ID, limit)
		if err != nil {
			return nil, err
		}
		out[i] = SubscriptionResponse{
			UserResponse: toUser(u, true), // Every entry is followed by construction
			Recipes:      toShortRecipes(recipes, deps.Media),
			RecipesCount: counts[u.ID],
		}
	}
	return out, nil
}

// SubscribeHandler makes the actor follow the user in the path
func SubscribeHandler(deps *Deps) gin.HandlerFunc {
	return func(c *gin.Context) {
		userID, ok := actor(c)
		if !ok {
			return
		}
		targetID, ok := pathID(c, "id")
		if !ok {
			return
		}
		limit, ok := parseRecipesLimit(c)
		if !ok {
			return
		}
		ctx := c.Request.Context()
		target, err := deps.Store.Subscribe(ctx, userID, targetID)
		if err != nil {
			respondError(c, err, "subscribe")
			return
		}
		logrus.WithFields(logrus.Fields{
			"user_id":   userID,
			"target_id": targetID,
		}).Info("Subscribed")
		view, err := subscriptionView(ctx, deps, []domain.User{*target}, limit)
		if err != nil {
			respondError(c, err, "subscribe")
			return
		}
		c.JSON(http.StatusCreated, view[0])
	}
}

// UnsubscribeHandler removes the actor's subscription to the user in the path
func UnsubscribeHandler(deps *Deps) gin.HandlerFunc {
	return func(c *gin.Context) {
		userID, ok := actor(c)
		if !ok {
			return
		}
		targetID, ok := pathID(c, "id")
		if !ok {
			return
		}
		if err := deps.Store.Unsubscribe(c.Request.Context(), userID, targetID); err != nil {
			respondError(c, err, "unsubscribe")
			return
		}
		logrus.WithFields(logrus.Fields{
			"user_id":   userID,
			"target_id": targetID,
		}).Info("Unsubscribed")
		c.Status(http.StatusNoContent)
	}
}

// ListSubscriptionsHandler pages through the users the actor follows
func ListSubscriptionsHandler(deps *Deps) gin.HandlerFunc {
	return func(c *gin.Context) {
		userID := middleware.UserID(c) // Route requires auth
		p, ok := parsePagination(c, deps)
		if !ok {
			return
		}
		limit, ok := parseRecipesLimit(c)
		if !ok {
			return
		}
		ctx := c.Request.Context()
		users, total, err := deps.Store.ListSubscriptions(ctx, userID, p.window())
		if err != nil {
			respondError(c, err, "fetch subscriptions")
			return
		}
		view, err := subscriptionView(ctx, deps, users, limit)
		if err != nil {
			respondError(c, err, "fetch subscriptions")
			return
		}
		respondPage(c, p, total, view)
	}
}
