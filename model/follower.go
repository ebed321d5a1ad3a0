package model

import "time"

/*

Follower is a "many-to-many" relation of a user following another user

FollowerID: id of the user who follows
FollowedID: id of the user being followed
CreatedAt: time when relation is created

Unique per (follower, followed) via the composite primary key. Self-follow
is rejected in the API layer before any insert is attempted.

*/
type Follower struct {
	FollowerID string `gorm:"primaryKey"`
	FollowedID string `gorm:"primaryKey"`
	CreatedAt  time.Time
}
