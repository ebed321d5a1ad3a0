package model

import "time"

/*

User is a data model for a registered account

Id: primary key, use to identify a user
CreatedAt: time when entity is created
Email: login identifier, globally unique
Username: public handle, globally unique, charset restricted to [\w.@+-]
FirstName / LastName: display names
Avatar: optional reference to the user's avatar image, nil when unset

Recipes: all recipes authored by this user, "has-many" relation.
Deleting the user cascades to the authored recipes and their lines.

*/
type User struct {
	Id        string `gorm:"primaryKey"`
	CreatedAt time.Time
	Email     string `gorm:"size:254;uniqueIndex"`
	Username  string `gorm:"size:150;uniqueIndex"`
	FirstName string `gorm:"size:150"`
	LastName  string `gorm:"size:150"`
	Avatar    *string

	Recipes []*Recipe `json:"recipes" gorm:"foreignKey:AuthorID;constraint:OnUpdate:CASCADE,OnDelete:CASCADE;"`
}
