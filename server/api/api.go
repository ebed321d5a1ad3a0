// Package api implements the REST surface of the recipe service: the recipe
// aggregation engine, the user/recipe relation registry, the shopping-cart
// aggregator and the short-link generator/resolver, plus the thin catalog
// endpoints for tags and ingredients.
package api

import (
	"github.com/gin-gonic/gin"
	"github.com/mealmux/mealmux/server/middlewares"
	"github.com/mealmux/mealmux/utils"
	"gorm.io/gorm"
)

// API bundles the handlers' shared dependencies. Cache may be nil, every
// cached path degrades to a plain database read.
type API struct {
	DB    *gorm.DB
	Cache *utils.RedisClient
}

func NewAPI(db *gorm.DB, cache *utils.RedisClient) *API {
	return &API{DB: db, Cache: cache}
}

// RequesterID returns the authenticated user's id, or ok=false for an
// anonymous request.
func RequesterID(c *gin.Context) (string, bool) {
	v, ok := c.Get(middlewares.ContextUserKey)
	if !ok {
		return "", false
	}
	id, ok := v.(string)
	return id, ok && id != ""
}
