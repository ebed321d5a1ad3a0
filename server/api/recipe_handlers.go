package api

import (
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/mealmux/mealmux/model"
	"github.com/mealmux/mealmux/utils/log"
	"github.com/pkg/errors"
	"gorm.io/gorm"
)

func parseRecipeFilters(c *gin.Context) RecipeFilters {
	return RecipeFilters{
		Author:        c.Query("author"),
		TagSlugs:      c.QueryArray("tags"),
		FavoritedOnly: c.Query("is_favorited") == "1",
		InCartOnly:    c.Query("is_in_shopping_cart") == "1",
	}
}

func (a *API) recipePageReps(c *gin.Context, requesterID string, recipes []*model.Recipe) ([]RecipeRep, error) {
	authorIDs := make([]string, 0, len(recipes))
	for _, recipe := range recipes {
		authorIDs = append(authorIDs, recipe.AuthorID)
	}
	followed, err := followedAuthorSet(a.DB, requesterID, authorIDs)
	if err != nil {
		return nil, err
	}
	reps := make([]RecipeRep, 0, len(recipes))
	for _, recipe := range recipes {
		reps = append(reps, buildRecipeRep(recipe, followed))
	}
	return reps, nil
}

// ListRecipes handles GET /api/recipes/.
func (a *API) ListRecipes(c *gin.Context) {
	requesterID, _ := RequesterID(c)
	page, limit := paginationParams(c)

	recipes, count, err := listRecipes(a.DB, requesterID, parseRecipeFilters(c), page, limit)
	if err != nil {
		log.Log.Error("list recipes failed: ", err)
		respondError(c, err)
		return
	}
	reps, err := a.recipePageReps(c, requesterID, recipes)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, buildPage(c, count, page, limit, reps))
}

// GetRecipe handles GET /api/recipes/:id/.
func (a *API) GetRecipe(c *gin.Context) {
	requesterID, _ := RequesterID(c)
	recipe, err := fetchRecipe(a.DB, requesterID, c.Param("id"))
	if err != nil {
		respondError(c, err)
		return
	}
	followed, err := followedAuthorSet(a.DB, requesterID, []string{recipe.AuthorID})
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, buildRecipeRep(recipe, followed))
}

// respondWithRecipe re-reads the written recipe through the annotated
// aggregation path, so write responses share the exact read shape.
func (a *API) respondWithRecipe(c *gin.Context, requesterID, recipeID string, status int) {
	recipe, err := fetchRecipe(a.DB, requesterID, recipeID)
	if err != nil {
		respondError(c, err)
		return
	}
	followed, err := followedAuthorSet(a.DB, requesterID, []string{recipe.AuthorID})
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(status, buildRecipeRep(recipe, followed))
}

// CreateRecipe handles POST /api/recipes/.
func (a *API) CreateRecipe(c *gin.Context) {
	requesterID, _ := RequesterID(c)

	var in RecipeInput
	if err := c.ShouldBindJSON(&in); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"detail": "Malformed recipe payload."})
		return
	}

	recipeID, err := createRecipe(a.DB, requesterID, &in)
	if err != nil {
		respondError(c, err)
		return
	}
	a.respondWithRecipe(c, requesterID, recipeID, http.StatusCreated)
}

// UpdateRecipe handles PATCH/PUT /api/recipes/:id/. Author only.
func (a *API) UpdateRecipe(c *gin.Context) {
	requesterID, _ := RequesterID(c)
	recipe, err := fetchRecipe(a.DB, requesterID, c.Param("id"))
	if err != nil {
		respondError(c, err)
		return
	}
	if recipe.AuthorID != requesterID {
		c.JSON(http.StatusForbidden, gin.H{"detail": "Only the author may modify this recipe."})
		return
	}

	var in RecipeInput
	if err := c.ShouldBindJSON(&in); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"detail": "Malformed recipe payload."})
		return
	}

	if err := updateRecipe(a.DB, recipe, &in); err != nil {
		respondError(c, err)
		return
	}
	a.respondWithRecipe(c, requesterID, recipe.Id, http.StatusOK)
}

// DeleteRecipe handles DELETE /api/recipes/:id/. Author only.
func (a *API) DeleteRecipe(c *gin.Context) {
	requesterID, _ := RequesterID(c)
	recipe, err := fetchRecipe(a.DB, requesterID, c.Param("id"))
	if err != nil {
		respondError(c, err)
		return
	}
	if recipe.AuthorID != requesterID {
		c.JSON(http.StatusForbidden, gin.H{"detail": "Only the author may delete this recipe."})
		return
	}
	if err := deleteRecipe(a.DB, recipe); err != nil {
		log.Log.Error("delete recipe failed: ", err)
		respondError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

// GetShortLink handles GET /api/recipes/:id/get-link/. The code is
// generated lazily on first request and immutable afterwards; the response
// always carries the full public URL built from the current host.
func (a *API) GetShortLink(c *gin.Context) {
	var recipe model.Recipe
	result := a.DB.Where("id = ?", c.Param("id")).First(&recipe)
	if result.RowsAffected != 1 {
		respondError(c, &NotFoundError{Message: "Recipe not found."})
		return
	}

	code, err := ensureShortLink(a.DB, &recipe)
	if err != nil {
		respondError(c, err)
		return
	}

	scheme := "http"
	if c.Request.TLS != nil {
		scheme = "https"
	}
	c.JSON(http.StatusOK, gin.H{
		"short-link": fmt.Sprintf("%s://%s/r/%s/", scheme, c.Request.Host, code),
	})
}

// ResolveShortLink handles the public GET /r/:code/ redirect. Unknown codes
// redirect to the generic not-found page; the response shape never reveals
// whether a code is well-formed but unassigned.
func (a *API) ResolveShortLink(c *gin.Context) {
	recipe, err := resolveShortLink(a.DB, c.Param("code"))
	if err != nil {
		c.Redirect(http.StatusFound, "/404")
		return
	}
	c.Redirect(http.StatusFound, fmt.Sprintf("/api/recipes/%s/", recipe.Id))
}

// loadRecipeRow is the lightweight lookup used by the relation endpoints,
// which only need the row to exist.
func loadRecipeRow(db *gorm.DB, id string) (*model.Recipe, error) {
	var recipe model.Recipe
	result := db.Where("id = ?", id).First(&recipe)
	if result.Error != nil && !errors.Is(result.Error, gorm.ErrRecordNotFound) {
		return nil, result.Error
	}
	if result.RowsAffected != 1 {
		return nil, &NotFoundError{Message: "Recipe not found."}
	}
	return &recipe, nil
}
