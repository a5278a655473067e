package api

import (
	"errors"   // Sentinel matching
	"net/http" // HTTP status codes
	"regexp"   // Username pattern
	"strings"  // Email normalisation
	"time"     // Revocation lifetime

	"foodgram/internal/domain"     // User model
	"foodgram/internal/middleware" // Token claims lookup
	"foodgram/internal/store"      // Store sentinel errors
	"foodgram/internal/utils"      // JWT and revocation helpers

	"github.com/gin-gonic/gin"   // Gin web framework
	"github.com/sirupsen/logrus" // Structured logging
	"golang.org/x/crypto/bcrypt" // Password hashing
)

// RegisterRequest is the registration payload
type RegisterRequest struct {
	Email     string `json:"email" binding:"required,email,max=254"` // Login identity
	Username  string `json:"username" binding:"required,max=150"`    // Public handle
	FirstName string `json:"first_name" binding:"required,max=150"`  // Given name
	LastName  string `json:"last_name" binding:"required,max=150"`   // Family name
	Password  string `json:"password" binding:"required"`            // Plain password, hashed before storage
}

// LoginRequest is the token login payload
type LoginRequest struct {
	Email    string `json:"email" binding:"required"`    // Login identity
	Password string `json:"password" binding:"required"` // Plain password
}

// SetPasswordRequest changes the actor's password
type SetPasswordRequest struct {
	NewPassword     string `json:"new_password" binding:"required"`     // Replacement password
	CurrentPassword string `json:"current_password" binding:"required"` // Must match the stored hash
}

// AuthResponse carries an issued token
type AuthResponse struct {
	Token string `json:"auth_token"` // JWT token
}

var usernamePattern = regexp.MustCompile(`^[\w.@+-]+$`)

// isValidUsername checks the username against the allowed character set
func isValidUsername(username string) bool {
	return usernamePattern.MatchString(username)
}

// isValidPassword checks if the password length is between 8 and 128 characters
func isValidPassword(password string) bool {
	return len(password) >= 8 && len(password) <= 128
}

// normalizeEmail lowercases the domain part, leaving the mailbox as typed
func normalizeEmail(email string) string {
	email = strings.TrimSpace(email)
	local, domainPart, ok := strings.Cut(email, "@")
	if !ok {
		return email
	}
	return local + "@" + strings.ToLower(domainPart)
}

// RegisterHandler creates a new user account
func RegisterHandler(deps *Deps) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req RegisterRequest // Bind JSON request to struct
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}
		if !isValidUsername(req.Username) {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Username may contain only letters, digits and @/./+/-/_"})
			return
		}
		if !isValidPassword(req.Password) {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Password must be 8-128 characters"})
			return
		}
		hash, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to hash password"})
			return
		}
		user := domain.User{
			Email:     normalizeEmail(req.Email),
			Username:  req.Username,
			FirstName: req.FirstName,
			LastName:  req.LastName,
			Password:  string(hash),
		}
		if err := deps.Store.CreateUser(c.Request.Context(), &user); err != nil {
			if errors.Is(err, store.ErrConflict) {
				c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()}) // Taken email or username is a form error
				return
			}
			respondError(c, err, "register user")
			return
		}
		logrus.WithFields(logrus.Fields{
			"user_id":  user.ID,
			"username": user.Username,
		}).Info("User registered")
		c.JSON(http.StatusCreated, gin.H{
			"email":      user.Email,
			"id":         user.ID,
			"username":   user.Username,
			"first_name": user.FirstName,
			"last_name":  user.LastName,
		})
	}
}

// LoginHandler authenticates by email and password and issues a token
func LoginHandler(deps *Deps) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req LoginRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request"})
			return
		}
		user, err := deps.Store.GetUserByEmail(c.Request.Context(), normalizeEmail(req.Email))
		if err != nil {
			if errors.Is(err, store.ErrNotFound) {
				c.JSON(http.StatusBadRequest, gin.H{"error": "Unable to log in with provided credentials"})
				return
			}
			respondError(c, err, "log in")
			return
		}
		// Compare provided password with stored hash
		if err := bcrypt.CompareHashAndPassword([]byte(user.Password), []byte(req.Password)); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Unable to log in with provided credentials"})
			return
		}
		token, err := utils.GenerateJWT(user.ID, deps.JWTSecret, deps.TokenTTL)
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to generate token"})
			return
		}
		logrus.WithField("user_id", user.ID).Info("User logged in")
		c.JSON(http.StatusCreated, AuthResponse{Token: token})
	}
}

// LogoutHandler revokes the presented token until it would expire. Revocation
// lives in Redis: without a Redis client logout answers 204 but the token
// stays valid until its exp.
func LogoutHandler(deps *Deps) gin.HandlerFunc {
	return func(c *gin.Context) {
		v, ok := c.Get(middleware.ContextClaims)
		claims, _ := v.(*utils.Claims)
		if !ok || claims == nil {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "Authentication credentials were not provided"})
			return
		}
		expiresAt := time.Now().Add(deps.TokenTTL) // Tokens without exp are remembered for a full lifetime
		if claims.ExpiresAt != nil {
			expiresAt = claims.ExpiresAt.Time
		}
		if err := utils.RevokeToken(c.Request.Context(), deps.Redis, claims.ID, expiresAt); err != nil {
			respondError(c, err, "log out")
			return
		}
		logrus.WithField("user_id", claims.UserID).Info("User logged out")
		c.Status(http.StatusNoContent)
	}
}

// SetPasswordHandler replaces the actor's password after checking the current one
func SetPasswordHandler(deps *Deps) gin.HandlerFunc {
	return func(c *gin.Context) {
		userID, ok := actor(c)
		if !ok {
			return
		}
		var req SetPasswordRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}
		ctx := c.Request.Context()
		user, err := deps.Store.GetUser(ctx, userID)
		if err != nil {
			respondError(c, err, "set password")
			return
		}
		if bcrypt.CompareHashAndPassword([]byte(user.Password), []byte(req.CurrentPassword)) != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid current password"})
			return
		}
		if !isValidPassword(req.NewPassword) {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Password must be 8-128 characters"})
			return
		}
		hash, err := bcrypt.GenerateFromPassword([]byte(req.NewPassword), bcrypt.DefaultCost)
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to hash password"})
			return
		}
		if err := deps.Store.SetPassword(ctx, userID, string(hash)); err != nil {
			respondError(c, err, "set password")
			return
		}
		logrus.WithField("user_id", userID).Info("Password changed")
		c.Status(http.StatusNoContent)
	}
}
