package api

import (
	"time" // CORS preflight cache

	"foodgram/internal/middleware" // Auth and request logging

	"github.com/gin-contrib/cors" // CORS middleware
	"github.com/gin-gonic/gin"    // Gin web framework
)

// RouterOptions configure the HTTP surface around the handlers
type RouterOptions struct {
	CORSOrigins []string // Allowed browser origins
	MediaURL    string   // Public prefix local images are served under
	MediaRoot   string   // Local image directory, empty when images live elsewhere
}

// NewRouter wires every endpoint onto a fresh gin engine
func NewRouter(deps *Deps, opts RouterOptions) *gin.Engine {
	r := gin.New()
	r.Use(gin.Recovery(), middleware.RequestLogger())
	if len(opts.CORSOrigins) > 0 {
		r.Use(cors.New(cors.Config{
			AllowOrigins:     opts.CORSOrigins,
			AllowMethods:     []string{"GET", "POST", "PATCH", "DELETE", "OPTIONS"},
			AllowHeaders:     []string{"Origin", "Content-Type", "Authorization"},
			ExposeHeaders:    []string{"Content-Disposition"},
			AllowCredentials: true,
			MaxAge:           12 * time.Hour,
		}))
	}
	if opts.MediaRoot != "" && opts.MediaURL != "" {
		r.Static(opts.MediaURL, opts.MediaRoot) // Serve locally stored images
	}

	api := r.Group("/api")
	// Anonymous access allowed, a presented token must still be valid
	public := api.Group("", middleware.OptionalAuth(deps.JWTSecret, deps.Redis))
	// Token required
	private := api.Group("", middleware.RequireAuth(deps.JWTSecret, deps.Redis))

	// Auth routes
	public.POST("/auth/token/login/", LoginHandler(deps))
	private.POST("/auth/token/logout/", LogoutHandler(deps))

	// User routes
	public.GET("/users/", ListUsersHandler(deps))
	public.POST("/users/", RegisterHandler(deps))
	private.GET("/users/me/", MeHandler(deps))
	private.DELETE("/users/me/", DeleteMeHandler(deps))
	private.POST("/users/set_password/", SetPasswordHandler(deps))
	private.GET("/users/subscriptions/", ListSubscriptionsHandler(deps))
	public.GET("/users/:id/", GetUserHandler(deps))
	private.POST("/users/:id/subscribe/", SubscribeHandler(deps))
	private.DELETE("/users/:id/subscribe/", UnsubscribeHandler(deps))

	// Reference data
	public.GET("/tags/", ListTagsHandler(deps))
	public.GET("/tags/:id/", GetTagHandler(deps))
	public.GET("/ingredients/", ListIngredientsHandler(deps))
	public.GET("/ingredients/:id/", GetIngredientHandler(deps))

	// Recipe routes
	public.GET("/recipes/", ListRecipesHandler(deps))
	private.POST("/recipes/", CreateRecipeHandler(deps))
	private.GET("/recipes/download_shopping_cart/", DownloadShoppingCartHandler(deps))
	public.GET("/recipes/:id/", GetRecipeHandler(deps))
	private.PATCH("/recipes/:id/", UpdateRecipeHandler(deps))
	private.DELETE("/recipes/:id/", DeleteRecipeHandler(deps))
	private.POST("/recipes/:id/favorite/", AddRecipeLinkHandler(deps, deps.Store.AddFavorite, "favorites"))
	private.DELETE("/recipes/:id/favorite/", RemoveRecipeLinkHandler(deps.Store.RemoveFavorite, "favorites"))
	private.POST("/recipes/:id/shopping_cart/", AddRecipeLinkHandler(deps, deps.Store.AddToCart, "shopping_cart"))
	private.DELETE("/recipes/:id/shopping_cart/", RemoveRecipeLinkHandler(deps.Store.RemoveFromCart, "shopping_cart"))

	return r
}
