package api

import (
	"time"

	"github.com/mealmux/mealmux/model"
	"github.com/pkg/errors"
	"gorm.io/gorm"
)

// The relation registry: favorite, shopping cart and follow membership.
// Adds are a single insert; the composite primary key is the arbiter of
// uniqueness, so a duplicated-key error (even from a concurrent racer) is
// reported as "already exists" rather than pre-checked. Removes are a
// single delete with the affected-row count deciding between success and
// "not found".

func addRelation(db *gorm.DB, row interface{}, alreadyAddedMessage string) error {
	if err := db.Create(row).Error; err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return &ConflictError{Message: alreadyAddedMessage}
		}
		return errors.Wrap(err, "add relation")
	}
	return nil
}

func removeRelation(db *gorm.DB, query *gorm.DB, notFoundMessage string) error {
	if query.Error != nil {
		return errors.Wrap(query.Error, "remove relation")
	}
	if query.RowsAffected == 0 {
		return &NotFoundError{Message: notFoundMessage}
	}
	return nil
}

func addFavorite(db *gorm.DB, userID, recipeID string) error {
	return addRelation(db,
		&model.Favorite{AuthorID: userID, RecipeID: recipeID, CreatedAt: time.Now()},
		"Recipe is already in favorites.")
}

func removeFavorite(db *gorm.DB, userID, recipeID string) error {
	return removeRelation(db,
		db.Where("author_id = ? AND recipe_id = ?", userID, recipeID).Delete(&model.Favorite{}),
		"Recipe is not in favorites.")
}

func addCartItem(db *gorm.DB, userID, recipeID string) error {
	return addRelation(db,
		&model.ShoppingCartItem{AuthorID: userID, RecipeID: recipeID, CreatedAt: time.Now()},
		"Recipe is already in the shopping cart.")
}

func removeCartItem(db *gorm.DB, userID, recipeID string) error {
	return removeRelation(db,
		db.Where("author_id = ? AND recipe_id = ?", userID, recipeID).Delete(&model.ShoppingCartItem{}),
		"Recipe is not in the shopping cart.")
}

// addFollow rejects self-follow before touching the store.
func addFollow(db *gorm.DB, followerID, followedID string) error {
	if followerID == followedID {
		return &ConflictError{Message: "Cannot subscribe to yourself."}
	}
	return addRelation(db,
		&model.Follower{FollowerID: followerID, FollowedID: followedID, CreatedAt: time.Now()},
		"Already subscribed to this user.")
}

func removeFollow(db *gorm.DB, followerID, followedID string) error {
	return removeRelation(db,
		db.Where("follower_id = ? AND followed_id = ?", followerID, followedID).Delete(&model.Follower{}),
		"Not subscribed to this user.")
}
