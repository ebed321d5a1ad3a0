package model

import "time"

/*

Recipe is a data model for a published recipe

Id: primary key, use to identify a recipe
CreatedAt: time when entity is created
AuthorID:
Author: user who published this recipe, "belongs-to" relation.
	Never client-supplied, always taken from the authenticated identity.
Name: recipe's display name (title)
Image: reference to the recipe's image, required at creation
Text: cooking instructions in plain text
CookingTime: cooking time in minutes, integer >= 1
ShortLink: 8 hex character short code, nil until the first get-link request,
	globally unique and immutable once assigned

Tags: categories this recipe is tagged with, "many-to-many" relation
IngredientLines: the recipe's ingredient lines, "has-many" relation to the
	explicit join row (see RecipeIngredient)

IsFavorited / IsInShoppingCart: per-request derived flags. They are never
stored, list and detail queries attach them with an EXISTS annotation and
gorm only reads them back from the result set.

*/
type Recipe struct {
	Id          string `json:"id" gorm:"primaryKey"`
	CreatedAt   time.Time
	AuthorID    string `json:"author_id"`
	Author      User   `json:"author" gorm:"constraint:OnUpdate:CASCADE,OnDelete:CASCADE;"`
	Name        string `json:"name" gorm:"size:256"`
	Image       string `json:"image"`
	Text        string `json:"text"`
	CookingTime int    `json:"cooking_time"`
	ShortLink   *string `json:"short_link" gorm:"size:8;uniqueIndex"`

	Tags            []*Tag             `json:"tags" gorm:"many2many:recipe_tags;constraint:OnDelete:CASCADE;"`
	IngredientLines []RecipeIngredient `json:"ingredient_lines" gorm:"foreignKey:RecipeID"`

	IsFavorited      bool `json:"is_favorited" gorm:"-:migration;<-:false"`
	IsInShoppingCart bool `json:"is_in_shopping_cart" gorm:"-:migration;<-:false"`
}
