package api

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/mealmux/mealmux/model"
)

// The tag and ingredient catalogs are immutable after import, so full-list
// reads go through the redis read-through cache. Filtered ingredient
// searches hit the store directly; caching every prefix is not worth it at
// this scale.

const (
	tagCatalogCacheKey        = "catalog:tags"
	ingredientCatalogCacheKey = "catalog:ingredients"
)

// ListTags handles GET /api/tags/. Unpaginated by contract.
func (a *API) ListTags(c *gin.Context) {
	var tags []model.Tag
	if !a.Cache.GetCachedJSON(tagCatalogCacheKey, &tags) {
		if err := a.DB.Order("name").Find(&tags).Error; err != nil {
			respondError(c, err)
			return
		}
		a.Cache.SetCachedJSON(tagCatalogCacheKey, tags)
	}
	c.JSON(http.StatusOK, tags)
}

// GetTag handles GET /api/tags/:id/.
func (a *API) GetTag(c *gin.Context) {
	var tag model.Tag
	result := a.DB.Where("id = ?", c.Param("id")).First(&tag)
	if result.RowsAffected != 1 {
		respondError(c, &NotFoundError{Message: "Tag not found."})
		return
	}
	c.JSON(http.StatusOK, tag)
}

// ListIngredients handles GET /api/ingredients/?name=<prefix>. The name
// match is a case-insensitive prefix search; no pagination by contract.
func (a *API) ListIngredients(c *gin.Context) {
	prefix := c.Query("name")

	var ingredients []model.Ingredient
	if prefix == "" {
		if a.Cache.GetCachedJSON(ingredientCatalogCacheKey, &ingredients) {
			c.JSON(http.StatusOK, ingredients)
			return
		}
	}

	q := a.DB.Order("name")
	if prefix != "" {
		q = q.Where("lower(name) LIKE lower(?)", prefix+"%")
	}
	if err := q.Find(&ingredients).Error; err != nil {
		respondError(c, err)
		return
	}

	if prefix == "" {
		a.Cache.SetCachedJSON(ingredientCatalogCacheKey, ingredients)
	}
	c.JSON(http.StatusOK, ingredients)
}

// GetIngredient handles GET /api/ingredients/:id/.
func (a *API) GetIngredient(c *gin.Context) {
	var ingredient model.Ingredient
	result := a.DB.Where("id = ?", c.Param("id")).First(&ingredient)
	if result.RowsAffected != 1 {
		respondError(c, &NotFoundError{Message: "Ingredient not found."})
		return
	}
	c.JSON(http.StatusOK, ingredient)
}
