package model

import "time"

/*

ShoppingCartItem is a "many-to-many" relation of a user placing a recipe
into their shopping cart

AuthorID: id of the cart's owner
RecipeID: id of the recipe in the cart
CreatedAt: time when relation is created

Same uniqueness contract as Favorite: one row per (author, recipe), the
insert's duplicated-key error is the conflict signal.

*/
type ShoppingCartItem struct {
	AuthorID  string `gorm:"primaryKey"`
	RecipeID  string `gorm:"primaryKey"`
	CreatedAt time.Time
}

// TableName keeps the table aligned with the cart aggregation join.
func (ShoppingCartItem) TableName() string {
	return "shopping_cart_items"
}
