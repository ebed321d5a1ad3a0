package api

import (
	"sort"

	"github.com/jinzhu/copier"
	"github.com/mealmux/mealmux/model"
	"gorm.io/gorm"
)

// The canonical API representations. Write handlers respond with the exact
// same shapes the read path produces (built by re-reading through the
// annotated query), so create/update results never drift from list/detail
// results structurally.

type UserRep struct {
	Id           string  `json:"id"`
	Email        string  `json:"email"`
	Username     string  `json:"username"`
	FirstName    string  `json:"first_name"`
	LastName     string  `json:"last_name"`
	IsSubscribed bool    `json:"is_subscribed"`
	Avatar       *string `json:"avatar"`
}

type RecipeIngredientRep struct {
	Id              string `json:"id"`
	Name            string `json:"name"`
	MeasurementUnit string `json:"measurement_unit"`
	Amount          int    `json:"amount"`
}

type RecipeRep struct {
	Id               string                `json:"id"`
	Tags             []model.Tag           `json:"tags"`
	Author           UserRep               `json:"author"`
	Ingredients      []RecipeIngredientRep `json:"ingredients"`
	IsFavorited      bool                  `json:"is_favorited"`
	IsInShoppingCart bool                  `json:"is_in_shopping_cart"`
	Name             string                `json:"name"`
	Image            string                `json:"image"`
	Text             string                `json:"text"`
	CookingTime      int                   `json:"cooking_time"`
}

// ShortRecipeRep is the compact shape returned by relation adds and nested
// into subscription entries.
type ShortRecipeRep struct {
	Id          string `json:"id"`
	Name        string `json:"name"`
	Image       string `json:"image"`
	CookingTime int    `json:"cooking_time"`
}

// SubscriptionRep is a followed user together with their recent recipes.
type SubscriptionRep struct {
	UserRep
	Recipes      []ShortRecipeRep `json:"recipes"`
	RecipesCount int64            `json:"recipes_count"`
}

func buildUserRep(u *model.User, isSubscribed bool) UserRep {
	var rep UserRep
	copier.Copy(&rep, u)
	rep.IsSubscribed = isSubscribed
	return rep
}

func buildShortRecipeRep(r *model.Recipe) ShortRecipeRep {
	var rep ShortRecipeRep
	copier.Copy(&rep, r)
	return rep
}

// buildRecipeRep assembles the full nested representation from an annotated,
// preloaded recipe. followed answers "does the requester follow this author".
func buildRecipeRep(r *model.Recipe, followed map[string]bool) RecipeRep {
	var rep RecipeRep
	copier.Copy(&rep, r)
	rep.Author = buildUserRep(&r.Author, followed[r.AuthorID])

	rep.Tags = make([]model.Tag, 0, len(r.Tags))
	for _, tag := range r.Tags {
		rep.Tags = append(rep.Tags, *tag)
	}
	sort.Slice(rep.Tags, func(i, j int) bool { return rep.Tags[i].Name < rep.Tags[j].Name })

	rep.Ingredients = make([]RecipeIngredientRep, 0, len(r.IngredientLines))
	for _, line := range r.IngredientLines {
		rep.Ingredients = append(rep.Ingredients, RecipeIngredientRep{
			Id:              line.IngredientID,
			Name:            line.Ingredient.Name,
			MeasurementUnit: line.Ingredient.MeasurementUnit,
			Amount:          line.Amount,
		})
	}
	sort.Slice(rep.Ingredients, func(i, j int) bool {
		return rep.Ingredients[i].Name < rep.Ingredients[j].Name
	})

	return rep
}

// followedAuthorSet resolves which of the given authors the requester
// follows, in one set-based query for the whole collection. Anonymous
// requesters follow nobody.
func followedAuthorSet(db *gorm.DB, requesterID string, authorIDs []string) (map[string]bool, error) {
	followed := map[string]bool{}
	if requesterID == "" || len(authorIDs) == 0 {
		return followed, nil
	}
	var ids []string
	err := db.Model(&model.Follower{}).
		Where("follower_id = ? AND followed_id IN ?", requesterID, authorIDs).
		Pluck("followed_id", &ids).Error
	if err != nil {
		return nil, err
	}
	for _, id := range ids {
		followed[id] = true
	}
	return followed, nil
}
