package model

import "time"

/*

Favorite is a "many-to-many" relation of a user marking a recipe as favorite

AuthorID: id of the user who favorited
RecipeID: id of the favorited recipe
CreatedAt: time when relation is created

The composite primary key makes membership idempotent: a concurrent double
add surfaces as a duplicated-key error on the second insert, which the API
reports as "already exists".

*/
type Favorite struct {
	AuthorID  string `gorm:"primaryKey"`
	RecipeID  string `gorm:"primaryKey"`
	CreatedAt time.Time
}
