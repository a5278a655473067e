package api

import (
	"net/http" // HTTP status codes
	"strconv"  // Cache key building
	"strings"  // Search normalisation

	"foodgram/internal/domain" // Tag and ingredient models
	"foodgram/internal/utils"  // Redis cache helpers

	"github.com/gin-gonic/gin"   // Gin web framework
	"github.com/sirupsen/logrus" // Structured logging
)

// cached serves key from Redis when present, otherwise loads it, caches it and
// writes it. Cache failures are logged and fall back to the store.
func cached[T any](c *gin.Context, deps *Deps, key, action string, load func() (T, error)) {
	ctx := c.Request.Context()
	var hit T
	found, err := utils.GetCache(ctx, deps.Redis, key, &hit) // Try to get cached response
	if err != nil {
		logrus.WithFields(logrus.Fields{"key": key, "error": err.Error()}).Warn("Cache read failed")
	} else if found {
		c.JSON(http.StatusOK, hit)
		return
	}
	value, err := load()
	if err != nil {
		respondError(c, err, action)
		return
	}
	// Cache the response for future requests
	if err := utils.SetCache(ctx, deps.Redis, key, value, deps.CacheTTL); err != nil {
		logrus.WithFields(logrus.Fields{"key": key, "error": err.Error()}).Warn("Cache write failed")
	}
	c.JSON(http.StatusOK, value)
}

// ListTagsHandler returns every tag, unpaginated
func ListTagsHandler(deps *Deps) gin.HandlerFunc {
	return func(c *gin.Context) {
		cached(c, deps, utils.TagCachePrefix+"all", "fetch tags", func() ([]domain.Tag, error) {
			return deps.Store.ListTags(c.Request.Context())
		})
	}
}

// GetTagHandler returns one tag
func GetTagHandler(deps *Deps) gin.HandlerFunc {
	return func(c *gin.Context) {
		id, ok := pathID(c, "id")
		if !ok {
			return
		}
		cached(c, deps, utils.TagCachePrefix+strconv.FormatUint(uint64(id), 10), "fetch tag", func() (*domain.Tag, error) {
			return deps.Store.GetTag(c.Request.Context(), id)
		})
	}
}

// ListIngredientsHandler returns ingredients whose name starts with ?search=,
// unpaginated. ?name= is accepted when search is absent.
func ListIngredientsHandler(deps *Deps) gin.HandlerFunc {
	return func(c *gin.Context) {
		prefix := strings.TrimSpace(c.Query("search"))
		if prefix == "" {
			prefix = strings.TrimSpace(c.Query("name")) // Older front-end builds
		}
		key := utils.IngredientCachePrefix + "search=" + strings.ToLower(prefix)
		cached(c, deps, key, "fetch ingredients", func() ([]domain.Ingredient, error) {
			return deps.Store.SearchIngredients(c.Request.Context(), prefix)
		})
	}
}

// GetIngredientHandler returns one ingredient
func GetIngredientHandler(deps *Deps) gin.HandlerFunc {
	return func(c *gin.Context) {
		id, ok := pathID(c, "id")
		if !ok {
			return
		}
		cached(c, deps, utils.IngredientCachePrefix+strconv.FormatUint(uint64(id), 10), "fetch ingredient", func() (*domain.Ingredient, error) {
			return deps.Store.GetIngredient(c.Request.Context(), id)
		})
	}
}
