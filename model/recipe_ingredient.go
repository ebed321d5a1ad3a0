package model

/*

RecipeIngredient binds a recipe to an ingredient with a quantity

RecipeID: recipe id, part of the composite primary key
IngredientID: ingredient id, part of the composite primary key
Amount: quantity in the ingredient's measurement unit, integer >= 1

The composite primary key guarantees at most one line per
(recipe, ingredient) pair. Lines are replaced wholesale together with their
parent recipe write: on update every existing line is deleted and the new
set is bulk-inserted inside the same transaction.

*/
type RecipeIngredient struct {
	RecipeID     string     `json:"recipe_id" gorm:"primaryKey"`
	IngredientID string     `json:"ingredient_id" gorm:"primaryKey"`
	Ingredient   Ingredient `json:"ingredient" gorm:"constraint:OnUpdate:CASCADE,OnDelete:CASCADE;"`
	Amount       int        `json:"amount"`
}
