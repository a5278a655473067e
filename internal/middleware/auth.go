package middleware

import (
	"foodgram/internal/utils" // JWT utility functions
	"net/http"                // HTTP status codes
	"strings"                 // String manipulation

	"github.com/gin-gonic/gin"     // Gin web framework
	"github.com/redis/go-redis/v9" // Redis client for the revocation list
	"github.com/sirupsen/logrus"   // Structured logging
)

// Context keys set by the auth middleware
const (
	ContextUserID = "userID"      // uint id of the authenticated actor
	ContextClaims = "tokenClaims" // *utils.Claims of the presented token
)

// tokenFromHeader accepts "Token <t>" and "Bearer <t>"
func tokenFromHeader(header string) (string, bool) {
	for _, scheme := range []string{"Token ", "Bearer "} {
		if strings.HasPrefix(header, scheme) {
			token := strings.TrimSpace(strings.TrimPrefix(header, scheme))
			return token, token != ""
		}
	}
	return "", false
}

// authenticate validates the Authorization header if present. It reports
// whether the request may proceed and aborts the request otherwise.
func authenticate(c *gin.Context, secret string, rdb *redis.Client, required bool) bool {
	authHeader := c.GetHeader("Authorization") // Get Authorization header
	if authHeader == "" {
		if required {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "Authentication credentials were not provided"})
			return false
		}
		return true // Anonymous request
	}
	tokenStr, ok := tokenFromHeader(authHeader) // Extract the token string
	if !ok {
		c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "Missing or invalid Authorization header"})
		return false
	}
	claims, err := utils.ParseJWT(tokenStr, secret) // Parse the JWT token
	if err != nil {
		c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "Invalid or expired token"})
		return false
	}
	revoked, err := utils.IsTokenRevoked(c.Request.Context(), rdb, claims.ID) // Logged out tokens are rejected
	if err != nil {
		logrus.WithFields(logrus.Fields{
			"user_id": claims.UserID,
			"error":   err.Error(),
		}).Error("Token revocation lookup failed")
		c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{"error": "Authentication unavailable"})
		return false
	}
	if revoked {
		c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "Invalid or expired token"})
		return false
	}
	c.Set(ContextUserID, claims.UserID) // Store userID in context
	c.Set(ContextClaims, claims)        // Store claims for logout
	return true
}

// RequireAuth rejects requests without a valid token
func RequireAuth(secret string, rdb *redis.Client) gin.HandlerFunc {
	return func(c *gin.Context) {
		if authenticate(c, secret, rdb, true) {
			c.Next() // Proceed to the next handler
		}
	}
}

// OptionalAuth lets anonymous requests through but still rejects bad tokens
func OptionalAuth(secret string, rdb *redis.Client) gin.HandlerFunc {
	return func(c *gin.Context) {
		if authenticate(c, secret, rdb, false) {
			c.Next()
		}
	}
}

// UserID returns the authenticated actor, or 0 for anonymous requests
func UserID(c *gin.Context) uint {
	if v, ok := c.Get(ContextUserID); ok {
		if id, ok := v.(uint); ok {
			return id
		}
	}
	return 0
}
