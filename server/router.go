package server

import (
	"github.com/gin-gonic/gin"
	"github.com/mealmux/mealmux/server/api"
	"github.com/mealmux/mealmux/server/middlewares"
	"gorm.io/gorm"
)

// RegisterRoutes mounts the full REST surface. TokenAuth resolves the
// requester identity everywhere (reads stay open to anonymous requests);
// RequireUser guards the mutation and per-user endpoints.
func RegisterRoutes(router *gin.Engine, a *api.API, db *gorm.DB) {
	router.Use(middlewares.TokenAuth(db))

	// Public short-link resolver, outside the /api prefix.
	router.GET("/r/:code/", a.ResolveShortLink)

	apiGroup := router.Group("/api")

	recipes := apiGroup.Group("/recipes")
	recipes.GET("/", a.ListRecipes)
	recipes.GET("/download_shopping_cart/", middlewares.RequireUser(), a.DownloadShoppingCart)
	recipes.GET("/:id/", a.GetRecipe)
	recipes.GET("/:id/get-link/", a.GetShortLink)
	recipes.POST("/", middlewares.RequireUser(), a.CreateRecipe)
	recipes.PUT("/:id/", middlewares.RequireUser(), a.UpdateRecipe)
	recipes.PATCH("/:id/", middlewares.RequireUser(), a.UpdateRecipe)
	recipes.DELETE("/:id/", middlewares.RequireUser(), a.DeleteRecipe)
	recipes.POST("/:id/favorite/", middlewares.RequireUser(), a.AddFavorite)
	recipes.DELETE("/:id/favorite/", middlewares.RequireUser(), a.RemoveFavorite)
	recipes.POST("/:id/shopping_cart/", middlewares.RequireUser(), a.AddToShoppingCart)
	recipes.DELETE("/:id/shopping_cart/", middlewares.RequireUser(), a.RemoveFromShoppingCart)

	tags := apiGroup.Group("/tags")
	tags.GET("/", a.ListTags)
	tags.GET("/:id/", a.GetTag)

	ingredients := apiGroup.Group("/ingredients")
	ingredients.GET("/", a.ListIngredients)
	ingredients.GET("/:id/", a.GetIngredient)

	users := apiGroup.Group("/users")
	users.GET("/", a.ListUsers)
	users.GET("/me/", middlewares.RequireUser(), a.Me)
	users.PUT("/me/avatar/", middlewares.RequireUser(), a.SetAvatar)
	users.DELETE("/me/avatar/", middlewares.RequireUser(), a.DeleteAvatar)
	users.GET("/subscriptions/", middlewares.RequireUser(), a.Subscriptions)
	users.GET("/:id/", a.GetUser)
	users.POST("/:id/subscribe/", middlewares.RequireUser(), a.Subscribe)
	users.DELETE("/:id/subscribe/", middlewares.RequireUser(), a.Unsubscribe)
}
