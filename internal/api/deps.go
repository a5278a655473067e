package api

import (
	"net/http" // HTTP status codes
	"strconv"  // Path parameter parsing
	"time"     // Token and cache lifetimes

	"foodgram/internal/media"      // Image storage
	"foodgram/internal/middleware" // Authenticated actor lookup
	"foodgram/internal/store"      // Entity store

	"github.com/gin-gonic/gin"     // Gin web framework
	"github.com/redis/go-redis/v9" // Redis client
)

// Deps are the shared dependencies every handler closes over
type Deps struct {
	Store       *store.Store  // Entity store
	Redis       *redis.Client // Cache and token revocation list, may be nil
	Media       media.Store   // Recipe image storage
	JWTSecret   string        // Auth token signing key
	TokenTTL    time.Duration // Auth token lifetime
	CacheTTL    time.Duration // Reference data cache lifetime
	PageSize    int           // Default page size
	MaxPageSize int           // Upper bound for ?limit=
}

// pathID parses a numeric path parameter, answering 404 when it is not one
func pathID(c *gin.Context, name string) (uint, bool) {
	id, err := strconv.ParseUint(c.Param(name), 10, 64)
	if err != nil || id == 0 {
		c.JSON(http.StatusNotFound, gin.H{"error": "Not found"})
		return 0, false
	}
	return uint(id), true
}

// actor returns the authenticated user id, answering 401 for anonymous requests
func actor(c *gin.Context) (uint, bool) {
	userID := middleware.UserID(c)
	if userID == 0 {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Authentication credentials were not provided"})
		return 0, false
	}
	return userID, true
}
