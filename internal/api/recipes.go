package api

import (
	"context"       // Cleanup of stored images
	"encoding/json" // Multipart recipe payload
	"io"            // Upload reading
	"net/http"      // HTTP status codes
	"path/filepath" // Upload extension
	"strconv"       // Query parsing
	"strings"       // Content type and flag parsing

	"foodgram/internal/media"      // Image decoding and storage
	"foodgram/internal/middleware" // Authenticated actor lookup
	"foodgram/internal/store"      // Entity store

	"foodgram/internal/domain" // Recipe model

	"github.com/gin-gonic/gin"         // Gin web framework
	"github.com/gin-gonic/gin/binding" // Struct validation for multipart payloads
	"github.com/sirupsen/logrus"       // Structured logging
)

// IngredientAmountRequest is one {id, amount} pair of a recipe write
type IngredientAmountRequest struct {
	ID     uint `json:"id" binding:"required"`           // Ingredient id
	Amount int  `json:"amount" binding:"required,min=1"` // Positive amount
}

// RecipeWriteRequest is the write shape of a recipe. Absent fields are nil.
type RecipeWriteRequest struct {
	Tags        []uint                    `json:"tags"`                                   // Tag ids
	Ingredients []IngredientAmountRequest `json:"ingredients" binding:"omitempty,dive"`   // Ingredient ids with amounts
	Name        *string                   `json:"name" binding:"omitempty,max=200"`       // Recipe name
	Image       *string                   `json:"image"`                                  // data:image/<ext>;base64,<payload>
	Text        *string                   `json:"text"`                                   // Description
	CookingTime *int                      `json:"cooking_time" binding:"omitempty,min=1"` // Minutes
}

// maxUploadSize bounds multipart image uploads
const maxUploadSize = 10 << 20

// bindRecipeWrite reads a recipe write either as JSON with an inline data URI
// image, or as multipart/form-data with the JSON in a "recipe" field and the
// image as a file in an "image" field.
func bindRecipeWrite(c *gin.Context) (*RecipeWriteRequest, *media.Image, error) {
	var req RecipeWriteRequest
	var upload *media.Image
	if strings.HasPrefix(c.ContentType(), "multipart/form-data") {
		if err := json.Unmarshal([]byte(c.PostForm("recipe")), &req); err != nil {
			return nil, nil, invalidRequest("recipe field must hold the recipe as JSON")
		}
		if err := binding.Validator.ValidateStruct(&req); err != nil {
			return nil, nil, invalidRequest(err.Error())
		}
		if fh, err := c.FormFile("image"); err == nil {
			if fh.Size > maxUploadSize {
				return nil, nil, invalidRequest("image is too large")
			}
			f, err := fh.Open()
			if err != nil {
				return nil, nil, err
			}
			defer f.Close()
			data, err := io.ReadAll(io.LimitReader(f, maxUploadSize))
			if err != nil {
				return nil, nil, err
			}
			upload, err = media.FromUpload(filepath.Ext(fh.Filename), data)
			if err != nil {
				return nil, nil, err
			}
		}
	} else if err := c.ShouldBindJSON(&req); err != nil {
		return nil, nil, invalidRequest(err.Error())
	}
	if upload == nil && req.Image != nil {
		img, err := media.DecodeDataURI(*req.Image)
		if err != nil {
			return nil, nil, err
		}
		upload = img
	}
	return &req, upload, nil
}

func (r *RecipeWriteRequest) input(imageKey string) store.RecipeInput {
	in := store.RecipeInput{
		Name:        r.Name,
		Text:        r.Text,
		CookingTime: r.CookingTime,
		TagIDs:      r.Tags,
	}
	if imageKey != "" {
		in.Image = &imageKey
	}
	if r.Ingredients != nil {
		in.Ingredients = make([]store.IngredientAmount, len(r.Ingredients))
		for i, item := range r.Ingredients {
			in.Ingredients[i] = store.IngredientAmount{IngredientID: item.ID, Amount: item.Amount}
		}
	}
	return in
}

// discardImage removes a stored image, logging failures
func discardImage(ctx context.Context, deps *Deps, key string) {
	if key == "" {
		return
	}
	if err := deps.Media.Delete(ctx, key); err != nil {
		logrus.WithFields(logrus.Fields{"image": key, "error": err.Error()}).Warn("Failed to delete image")
	}
}

// renderRecipe resolves viewer flags for a loaded recipe and writes the read shape
func renderRecipe(c *gin.Context, deps *Deps, status int, recipe *domain.Recipe) {
	flags, err := deps.Store.ViewerFlags(c.Request.Context(), middleware.UserID(c), []domain.Recipe{*recipe})
	if err != nil {
		respondError(c, err, "fetch recipe")
		return
	}
	c.JSON(status, toRecipe(*recipe, flags, deps.Media))
}

// CreateRecipeHandler creates a recipe authored by the current user
func CreateRecipeHandler(deps *Deps) gin.HandlerFunc {
	return func(c *gin.Context) {
		userID, ok := actor(c) // Author comes from the token, never the body
		if !ok {
			return
		}
		req, upload, err := bindRecipeWrite(c)
		if err != nil {
			respondError(c, err, "create recipe")
			return
		}
		if upload == nil {
			respondError(c, invalidRequest("image is required"), "create recipe")
			return
		}
		ctx := c.Request.Context()
		key, err := media.SaveImage(ctx, deps.Media, upload) // Store the decoded image
		if err != nil {
			respondError(c, err, "store image")
			return
		}
		recipe, err := deps.Store.CreateRecipe(ctx, userID, req.input(key))
		if err != nil {
			discardImage(ctx, deps, key) // Nothing references the image now
			respondError(c, err, "create recipe")
			return
		}
		logrus.WithFields(logrus.Fields{
			"user_id":   userID,    // Author
			"recipe_id": recipe.ID, // New recipe
		}).Info("Recipe created")
		renderRecipe(c, deps, http.StatusCreated, recipe) // Already loaded with relations
	}
}

// UpdateRecipeHandler applies a partial update by the recipe's author
func UpdateRecipeHandler(deps *Deps) gin.HandlerFunc {
	return func(c *gin.Context) {
		userID, ok := actor(c)
		if !ok {
			return
		}
		recipeID, ok := pathID(c, "id")
		if !ok {
			return
		}
		req, upload, err := bindRecipeWrite(c)
		if err != nil {
			respondError(c, err, "update recipe")
			return
		}
		ctx := c.Request.Context()
		var key string
		if upload != nil {
			if key, err = media.SaveImage(ctx, deps.Media, upload); err != nil {
				respondError(c, err, "store image")
				return
			}
		}
		recipe, oldImage, err := deps.Store.UpdateRecipe(ctx, userID, recipeID, req.input(key))
		if err != nil {
			discardImage(ctx, deps, key)
			respondError(c, err, "update recipe")
			return
		}
		discardImage(ctx, deps, oldImage) // Replaced image is unreferenced
		logrus.WithFields(logrus.Fields{
			"user_id":   userID,
			"recipe_id": recipeID,
		}).Info("Recipe updated")
		renderRecipe(c, deps, http.StatusOK, recipe)
	}
}

// DeleteRecipeHandler deletes a recipe owned by the current user
func DeleteRecipeHandler(deps *Deps) gin.HandlerFunc {
	return func(c *gin.Context) {
		userID, ok := actor(c)
		if !ok {
			return
		}
		recipeID, ok := pathID(c, "id")
		if !ok {
			return
		}
		ctx := c.Request.Context()
		image, err := deps.Store.DeleteRecipe(ctx, userID, recipeID)
		if err != nil {
			respondError(c, err, "delete recipe")
			return
		}
		discardImage(ctx, deps, image)
		logrus.WithFields(logrus.Fields{
			"user_id":   userID,
			"recipe_id": recipeID,
		}).Info("Recipe deleted")
		c.Status(http.StatusNoContent)
	}
}

// GetRecipeHandler returns the read shape of one recipe
func GetRecipeHandler(deps *Deps) gin.HandlerFunc {
	return func(c *gin.Context) {
		recipeID, ok := pathID(c, "id")
		if !ok {
			return
		}
		recipe, err := deps.Store.GetRecipe(c.Request.Context(), recipeID)
		if err != nil {
			respondError(c, err, "fetch recipe")
			return
		}
		renderRecipe(c, deps, http.StatusOK, recipe)
	}
}

// isTruthy interprets boolean-ish query flags
func isTruthy(v string) bool {
	switch strings.ToLower(strings.TrimSpace(v)) {
	case "1", "true", "yes", "on":
		return true
	}
	return false
}

// ListRecipesHandler lists recipes newest first with tag/author/favorite/cart filters
func ListRecipesHandler(deps *Deps) gin.HandlerFunc {
	return func(c *gin.Context) {
		p, ok := parsePagination(c, deps)
		if !ok {
			return
		}
		viewer := middleware.UserID(c)
		filter := store.RecipeFilter{TagSlugs: c.QueryArray("tags")}
		if raw := c.Query("author"); raw != "" {
			id, err := strconv.ParseUint(raw, 10, 64)
			if err != nil {
				c.JSON(http.StatusBadRequest, gin.H{"error": "author must be a user id"})
				return
			}
			author := uint(id)
			filter.AuthorID = &author
		}
		if isTruthy(c.Query("is_favorited")) {
			if _, ok := actor(c); !ok {
				return
			}
			filter.FavoritedBy = &viewer
		}
		if isTruthy(c.Query("is_in_shopping_cart")) {
			if _, ok := actor(c); !ok {
				return
			}
			filter.InCartOf = &viewer
		}

		ctx := c.Request.Context()
		recipes, total, err := deps.Store.ListRecipes(ctx, filter, p.window())
		if err != nil {
			respondError(c, err, "fetch recipes")
			return
		}
		flags, err := deps.Store.ViewerFlags(ctx, viewer, recipes)
		if err != nil {
			respondError(c, err, "fetch recipes")
			return
		}
		results := make([]RecipeResponse, len(recipes))
		for i, r := range recipes {
			results[i] = toRecipe(r, flags, deps.Media)
		}
		respondPage(c, p, total, results)
	}
}

// DownloadShoppingCartHandler returns the aggregated shopping list as a text attachment
func DownloadShoppingCartHandler(deps *Deps) gin.HandlerFunc {
	return func(c *gin.Context) {
		userID, ok := actor(c)
		if !ok {
			return
		}
		items, err := deps.Store.ShoppingList(c.Request.Context(), userID)
		if err != nil {
			respondError(c, err, "build shopping list")
			return
		}
		c.Header("Content-Disposition", `attachment; filename="sh_list.txt"`)
		c.Data(http.StatusOK, "text/plain; charset=utf-8", []byte(store.FormatShoppingList(items)))
	}
}
