package api

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

// relationAdd is the shared shape of POST /favorite/ and /shopping_cart/:
// 404 on a missing recipe, conflict on a duplicate add, and the short
// recipe representation on success.
func (a *API) relationAdd(c *gin.Context, add func(userID, recipeID string) error) {
	requesterID, _ := RequesterID(c)
	recipe, err := loadRecipeRow(a.DB, c.Param("id"))
	if err != nil {
		respondError(c, err)
		return
	}
	if err := add(requesterID, recipe.Id); err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, buildShortRecipeRep(recipe))
}

func (a *API) relationRemove(c *gin.Context, remove func(userID, recipeID string) error) {
	requesterID, _ := RequesterID(c)
	recipe, err := loadRecipeRow(a.DB, c.Param("id"))
	if err != nil {
		respondError(c, err)
		return
	}
	if err := remove(requesterID, recipe.Id); err != nil {
		respondError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

// AddFavorite handles POST /api/recipes/:id/favorite/.
func (a *API) AddFavorite(c *gin.Context) {
	a.relationAdd(c, func(userID, recipeID string) error {
		return addFavorite(a.DB, userID, recipeID)
	})
}

// RemoveFavorite handles DELETE /api/recipes/:id/favorite/.
func (a *API) RemoveFavorite(c *gin.Context) {
	a.relationRemove(c, func(userID, recipeID string) error {
		return removeFavorite(a.DB, userID, recipeID)
	})
}

// AddToShoppingCart handles POST /api/recipes/:id/shopping_cart/.
func (a *API) AddToShoppingCart(c *gin.Context) {
	a.relationAdd(c, func(userID, recipeID string) error {
		return addCartItem(a.DB, userID, recipeID)
	})
}

// RemoveFromShoppingCart handles DELETE /api/recipes/:id/shopping_cart/.
func (a *API) RemoveFromShoppingCart(c *gin.Context) {
	a.relationRemove(c, func(userID, recipeID string) error {
		return removeCartItem(a.DB, userID, recipeID)
	})
}

// DownloadShoppingCart handles GET /api/recipes/download_shopping_cart/.
func (a *API) DownloadShoppingCart(c *gin.Context) {
	requesterID, _ := RequesterID(c)
	lines, err := aggregateShoppingCart(a.DB, requesterID)
	if err != nil {
		respondError(c, err)
		return
	}
	c.Header("Content-Disposition", "attachment; filename=ingredients.txt")
	c.Data(http.StatusOK, "text/plain; charset=utf-8", []byte(renderShoppingList(lines)))
}
