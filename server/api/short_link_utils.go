package api

import (
	"crypto/md5"
	"fmt"

	"github.com/mealmux/mealmux/model"
	"github.com/pkg/errors"
	"gorm.io/gorm"
)

const (
	shortLinkLength      = 8
	shortLinkMaxAttempts = 5
)

// shortLinkCode derives the candidate code for a given attempt. The seed is
// stable per recipe so retrying the same recipe reproduces the same
// sequence of candidates; the attempt counter only perturbs the input after
// a collision.
func shortLinkCode(recipe *model.Recipe, attempt int) string {
	seed := fmt.Sprintf("%s-%s", recipe.Id, recipe.Name)
	if attempt > 0 {
		seed = fmt.Sprintf("%s-%d", seed, attempt)
	}
	return fmt.Sprintf("%x", md5.Sum([]byte(seed)))[:shortLinkLength]
}

// ensureShortLink returns the recipe's short code, generating and persisting
// one on first request. The unique index on recipes.short_link is the
// authoritative collision signal: the code is claimed with a guarded update
// and a duplicated-key error triggers a retry with a perturbed seed, up to
// the attempt budget. A code assigned earlier (or concurrently by another
// request) is returned as-is.
func ensureShortLink(db *gorm.DB, recipe *model.Recipe) (string, error) {
	if recipe.ShortLink != nil {
		return *recipe.ShortLink, nil
	}

	for attempt := 0; attempt < shortLinkMaxAttempts; attempt++ {
		code := shortLinkCode(recipe, attempt)
		result := db.Model(&model.Recipe{}).
			Where("id = ? AND short_link IS NULL", recipe.Id).
			Update("short_link", code)
		if result.Error != nil {
			if errors.Is(result.Error, gorm.ErrDuplicatedKey) {
				continue
			}
			return "", errors.Wrap(result.Error, "persist short link")
		}
		if result.RowsAffected == 0 {
			// Lost a race against a concurrent request for the same recipe;
			// the winner's code is the one to return.
			var current model.Recipe
			if err := db.Select("short_link").Where("id = ?", recipe.Id).First(&current).Error; err != nil {
				return "", errors.Wrap(err, "reload short link")
			}
			if current.ShortLink == nil {
				return "", errors.New("short link vanished after concurrent assignment")
			}
			recipe.ShortLink = current.ShortLink
			return *current.ShortLink, nil
		}
		recipe.ShortLink = &code
		return code, nil
	}

	return "", &ConflictError{Message: "Short link generation exhausted."}
}

// resolveShortLink looks up the recipe owning a short code.
func resolveShortLink(db *gorm.DB, code string) (*model.Recipe, error) {
	var recipe model.Recipe
	result := db.Where("short_link = ?", code).First(&recipe)
	if result.Error != nil && !errors.Is(result.Error, gorm.ErrRecordNotFound) {
		return nil, result.Error
	}
	if result.RowsAffected != 1 {
		return nil, &NotFoundError{Message: "Unknown short link."}
	}
	return &recipe, nil
}
