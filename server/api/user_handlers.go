package api

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/mealmux/mealmux/model"
	"github.com/mealmux/mealmux/utils"
	"github.com/pkg/errors"
	"gorm.io/gorm"
)

func loadUserRow(db *gorm.DB, id string) (*model.User, error) {
	var user model.User
	result := db.Where("id = ?", id).First(&user)
	if result.Error != nil && !errors.Is(result.Error, gorm.ErrRecordNotFound) {
		return nil, result.Error
	}
	if result.RowsAffected != 1 {
		return nil, &NotFoundError{Message: "User not found."}
	}
	return &user, nil
}

const userOrdering = "first_name, last_name, username"

// ListUsers handles GET /api/users/.
func (a *API) ListUsers(c *gin.Context) {
	requesterID, _ := RequesterID(c)
	page, limit := paginationParams(c)

	var count int64
	if err := a.DB.Model(&model.User{}).Count(&count).Error; err != nil {
		respondError(c, err)
		return
	}

	var users []*model.User
	err := a.DB.Order(userOrdering).Limit(limit).Offset((page - 1) * limit).Find(&users).Error
	if err != nil {
		respondError(c, err)
		return
	}

	reps, err := a.userReps(requesterID, users)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, buildPage(c, count, page, limit, reps))
}

// userReps annotates a collection of users with is_subscribed in one
// set-based query.
func (a *API) userReps(requesterID string, users []*model.User) ([]UserRep, error) {
	ids := make([]string, 0, len(users))
	for _, user := range users {
		ids = append(ids, user.Id)
	}
	followed, err := followedAuthorSet(a.DB, requesterID, ids)
	if err != nil {
		return nil, err
	}
	reps := make([]UserRep, 0, len(users))
	for _, user := range users {
		reps = append(reps, buildUserRep(user, followed[user.Id]))
	}
	return reps, nil
}

// GetUser handles GET /api/users/:id/.
func (a *API) GetUser(c *gin.Context) {
	requesterID, _ := RequesterID(c)
	user, err := loadUserRow(a.DB, c.Param("id"))
	if err != nil {
		respondError(c, err)
		return
	}
	followed, err := followedAuthorSet(a.DB, requesterID, []string{user.Id})
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, buildUserRep(user, followed[user.Id]))
}

// Me handles GET /api/users/me/.
func (a *API) Me(c *gin.Context) {
	requesterID, _ := RequesterID(c)
	user, err := loadUserRow(a.DB, requesterID)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, buildUserRep(user, false))
}

type avatarInput struct {
	Avatar string `json:"avatar"`
}

// SetAvatar handles PUT /api/users/me/avatar/.
func (a *API) SetAvatar(c *gin.Context) {
	requesterID, _ := RequesterID(c)

	var in avatarInput
	if err := c.ShouldBindJSON(&in); err != nil || in.Avatar == "" {
		respondError(c, &FieldError{Field: "avatar", Message: "Avatar is required."})
		return
	}
	err := a.DB.Model(&model.User{Id: requesterID}).Update("avatar", in.Avatar).Error
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"avatar": in.Avatar})
}

// DeleteAvatar handles DELETE /api/users/me/avatar/.
func (a *API) DeleteAvatar(c *gin.Context) {
	requesterID, _ := RequesterID(c)
	err := a.DB.Model(&model.User{Id: requesterID}).Update("avatar", nil).Error
	if err != nil {
		respondError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

// Subscribe handles POST /api/users/:id/subscribe/.
func (a *API) Subscribe(c *gin.Context) {
	requesterID, _ := RequesterID(c)
	followed, err := loadUserRow(a.DB, c.Param("id"))
	if err != nil {
		respondError(c, err)
		return
	}
	if err := addFollow(a.DB, requesterID, followed.Id); err != nil {
		respondError(c, err)
		return
	}

	reps, err := a.subscriptionReps(requesterID, []*model.User{followed}, recipesLimitParam(c))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, reps[0])
}

// Unsubscribe handles DELETE /api/users/:id/subscribe/.
func (a *API) Unsubscribe(c *gin.Context) {
	requesterID, _ := RequesterID(c)
	followed, err := loadUserRow(a.DB, c.Param("id"))
	if err != nil {
		respondError(c, err)
		return
	}
	if err := removeFollow(a.DB, requesterID, followed.Id); err != nil {
		respondError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

// Subscriptions handles GET /api/users/subscriptions/: a paginated list of
// the users the requester follows, each with a capped list of their recipes
// and the total recipe count.
func (a *API) Subscriptions(c *gin.Context) {
	requesterID, _ := RequesterID(c)
	page, limit := paginationParams(c)

	followedQuery := func() *gorm.DB {
		return a.DB.Model(&model.User{}).
			Joins("JOIN followers ON followers.followed_id = users.id").
			Where("followers.follower_id = ?", requesterID)
	}

	var count int64
	if err := followedQuery().Count(&count).Error; err != nil {
		respondError(c, err)
		return
	}

	var users []*model.User
	err := followedQuery().Order(userOrdering).Limit(limit).Offset((page - 1) * limit).Find(&users).Error
	if err != nil {
		respondError(c, err)
		return
	}

	reps, err := a.subscriptionReps(requesterID, users, recipesLimitParam(c))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, buildPage(c, count, page, limit, reps))
}

func recipesLimitParam(c *gin.Context) int {
	limit, err := strconv.Atoi(c.Query("recipes_limit"))
	if err != nil || limit < 0 {
		return 0
	}
	return limit
}

// subscriptionReps assembles followed-user entries. The nested recipes and
// the per-author counts are each fetched with one query for the whole page,
// then grouped in memory; recipesLimit (0 = unlimited) caps the nested list
// per author.
func (a *API) subscriptionReps(requesterID string, users []*model.User, recipesLimit int) ([]SubscriptionRep, error) {
	userReps, err := a.userReps(requesterID, users)
	if err != nil {
		return nil, err
	}

	ids := make([]string, 0, len(users))
	for _, user := range users {
		ids = append(ids, user.Id)
	}

	var recipes []*model.Recipe
	if err := a.DB.Where("author_id IN ?", ids).Order("name").Find(&recipes).Error; err != nil {
		return nil, err
	}
	byAuthor := map[string][]ShortRecipeRep{}
	counts := map[string]int64{}
	for _, recipe := range recipes {
		counts[recipe.AuthorID]++
		byAuthor[recipe.AuthorID] = append(byAuthor[recipe.AuthorID], buildShortRecipeRep(recipe))
	}

	reps := make([]SubscriptionRep, 0, len(users))
	for i, user := range users {
		nested := byAuthor[user.Id]
		if nested == nil {
			nested = []ShortRecipeRep{}
		}
		if recipesLimit > 0 {
			nested = nested[:utils.Min(recipesLimit, len(nested))]
		}
		reps = append(reps, SubscriptionRep{
			UserRep:      userReps[i],
			Recipes:      nested,
			RecipesCount: counts[user.Id],
		})
	}
	return reps, nil
}
