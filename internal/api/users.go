package api

import (
	"net/http" // HTTP status codes

	"foodgram/internal/domain"     // User model
	"foodgram/internal/middleware" // Viewer lookup

	"github.com/gin-gonic/gin"   // Gin web framework
	"github.com/sirupsen/logrus" // Structured logging
	"golang.org/x/crypto/bcrypt" // Password check on account deletion
)

// ListUsersHandler returns a page of users with the viewer's subscription markers
func ListUsersHandler(deps *Deps) gin.HandlerFunc {
	return func(c *gin.Context) {
		p, ok := parsePagination(c, deps)
		if !ok {
			return
		}
		ctx := c.Request.Context()
		users, total, err := deps.Store.ListUsers(ctx, p.window())
		if err != nil {
			respondError(c, err, "fetch users")
			return
		}
		ids := make([]uint, len(users))
		for i, u := range users {
			ids[i] = u.ID
		}
		subscribed, err := deps.Store.SubscribedTo(ctx, middleware.UserID(c), ids)
		if err != nil {
			respondError(c, err, "fetch users")
			return
		}
		resp := make([]UserResponse, len(users))
		for i, u := range users {
			resp[i] = toUser(u, subscribed[u.ID])
		}
		respondPage(c, p, total, resp)
	}
}

// renderUser writes one user summary relative to the viewer
func renderUser(c *gin.Context, deps *Deps, user *domain.User) {
	subscribed, err := deps.Store.SubscribedTo(c.Request.Context(), middleware.UserID(c), []uint{user.ID})
	if err != nil {
		respondError(c, err, "fetch user")
		return
	}
	c.JSON(http.StatusOK, toUser(*user, subscribed[user.ID]))
}

// GetUserHandler returns a user profile
func GetUserHandler(deps *Deps) gin.HandlerFunc {
	return func(c *gin.Context) {
		userID, ok := pathID(c, "id")
		if !ok {
			return
		}
		user, err := deps.Store.GetUser(c.Request.Context(), userID)
		if err != nil {
			respondError(c, err, "fetch user")
			return
		}
		renderUser(c, deps, user)
	}
}

// MeHandler returns the authenticated user
func MeHandler(deps *Deps) gin.HandlerFunc {
	return func(c *gin.Context) {
		userID, ok := actor(c)
		if !ok {
			return
		}
		user, err := deps.Store.GetUser(c.Request.Context(), userID)
		if err != nil {
			respondError(c, err, "fetch user")
			return
		}
		renderUser(c, deps, user)
	}
}

// DeleteMeRequest confirms account deletion
type DeleteMeRequest struct {
	CurrentPassword string `json:"current_password" binding:"required"`
}

// DeleteMeHandler deletes the authenticated account with everything it owns
func DeleteMeHandler(deps *Deps) gin.HandlerFunc {
	return func(c *gin.Context) {
		userID, ok := actor(c)
		if !ok {
			return
		}
		var req DeleteMeRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}
		ctx := c.Request.Context()
		user, err := deps.Store.GetUser(ctx, userID)
		if err != nil {
			respondError(c, err, "delete user")
			return
		}
		if bcrypt.CompareHashAndPassword([]byte(user.Password), []byte(req.CurrentPassword)) != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid current password"})
			return
		}
		images, err := deps.Store.DeleteUser(ctx, userID)
		if err != nil {
			respondError(c, err, "delete user")
			return
		}
		for _, key := range images {
			discardImage(ctx, deps, key) // Owned recipes are gone
		}
		logrus.WithFields(logrus.Fields{
			"user_id": userID,
			"images":  len(images),
		}).Info("User deleted")
		c.Status(http.StatusNoContent)
	}
}
