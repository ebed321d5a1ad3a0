package api

import (
	"time"

	"github.com/google/uuid"
	"github.com/mealmux/mealmux/model"
	"github.com/pkg/errors"
	"gorm.io/gorm"
)

// RecipeIngredientInput is one requested ingredient line.
type RecipeIngredientInput struct {
	Id     string `json:"id"`
	Amount int    `json:"amount"`
}

// RecipeInput is the write payload for recipe create and update.
type RecipeInput struct {
	Name        string                  `json:"name"`
	Text        string                  `json:"text"`
	Image       string                  `json:"image"`
	CookingTime int                     `json:"cooking_time"`
	Tags        []string                `json:"tags"`
	Ingredients []RecipeIngredientInput `json:"ingredients"`
}

// RecipeFilters are the collection-query filters. They apply to list reads
// only, never to detail fetches.
type RecipeFilters struct {
	Author        string
	TagSlugs      []string
	FavoritedOnly bool
	InCartOnly    bool
}

// annotatedRecipeQuery is the single read path for recipes. It attaches
// is_favorited / is_in_shopping_cart as EXISTS annotations computed inside
// the collection query itself; there is deliberately no per-row lookup
// anywhere in this package. Anonymous requesters get constant false.
func annotatedRecipeQuery(db *gorm.DB, requesterID string) *gorm.DB {
	q := db.Model(&model.Recipe{}).
		Preload("Author").
		Preload("Tags").
		Preload("IngredientLines.Ingredient")
	if requesterID == "" {
		return q.Select("recipes.*, FALSE AS is_favorited, FALSE AS is_in_shopping_cart")
	}
	return q.Select(`recipes.*,
		EXISTS(SELECT 1 FROM favorites WHERE favorites.author_id = ? AND favorites.recipe_id = recipes.id) AS is_favorited,
		EXISTS(SELECT 1 FROM shopping_cart_items WHERE shopping_cart_items.author_id = ? AND shopping_cart_items.recipe_id = recipes.id) AS is_in_shopping_cart`,
		requesterID, requesterID)
}

// applyRecipeFilters narrows a recipe query. The tag filter goes through an
// IN-subquery over the join table: OR semantics across slugs, and a recipe
// matching several requested tags still appears exactly once.
func applyRecipeFilters(q *gorm.DB, db *gorm.DB, requesterID string, f RecipeFilters) *gorm.DB {
	if f.Author != "" {
		q = q.Where("recipes.author_id = ?", f.Author)
	}
	if len(f.TagSlugs) > 0 {
		q = q.Where("recipes.id IN (?)", db.Table("recipe_tags").
			Select("recipe_tags.recipe_id").
			Joins("JOIN tags ON tags.id = recipe_tags.tag_id").
			Where("tags.slug IN ?", f.TagSlugs))
	}
	if f.FavoritedOnly {
		q = q.Where("EXISTS(SELECT 1 FROM favorites WHERE favorites.author_id = ? AND favorites.recipe_id = recipes.id)", requesterID)
	}
	if f.InCartOnly {
		q = q.Where("EXISTS(SELECT 1 FROM shopping_cart_items WHERE shopping_cart_items.author_id = ? AND shopping_cart_items.recipe_id = recipes.id)", requesterID)
	}
	return q
}

// listRecipes returns one page of annotated recipes ordered by name, plus
// the unpaginated match count. A favorited-only or in-cart-only filter from
// an anonymous requester yields an empty result, not an error.
func listRecipes(db *gorm.DB, requesterID string, f RecipeFilters, page, limit int) ([]*model.Recipe, int64, error) {
	if requesterID == "" && (f.FavoritedOnly || f.InCartOnly) {
		return []*model.Recipe{}, 0, nil
	}

	var count int64
	countQuery := applyRecipeFilters(db.Model(&model.Recipe{}), db, requesterID, f)
	if err := countQuery.Count(&count).Error; err != nil {
		return nil, 0, errors.Wrap(err, "count recipes")
	}

	var recipes []*model.Recipe
	q := applyRecipeFilters(annotatedRecipeQuery(db, requesterID), db, requesterID, f).
		Order("recipes.name").
		Limit(limit).
		Offset((page - 1) * limit)
	if err := q.Find(&recipes).Error; err != nil {
		return nil, 0, errors.Wrap(err, "list recipes")
	}
	return recipes, count, nil
}

// fetchRecipe reads one annotated recipe through the same aggregation path
// the list uses.
func fetchRecipe(db *gorm.DB, requesterID string, id string) (*model.Recipe, error) {
	var recipe model.Recipe
	result := annotatedRecipeQuery(db, requesterID).Where("recipes.id = ?", id).First(&recipe)
	if result.Error != nil && !errors.Is(result.Error, gorm.ErrRecordNotFound) {
		return nil, result.Error
	}
	if result.RowsAffected != 1 {
		return nil, &NotFoundError{Message: "Recipe not found."}
	}
	return &recipe, nil
}

// validateRecipeInput enforces the write contract. Checks run in a fixed
// order and each failure is scoped to the offending field.
func validateRecipeInput(in *RecipeInput, requireImage bool) error {
	if len(in.Ingredients) == 0 {
		return &FieldError{Field: "ingredients", Message: "At least one ingredient is required."}
	}
	seenIngredients := map[string]bool{}
	for _, line := range in.Ingredients {
		if seenIngredients[line.Id] {
			return &FieldError{Field: "ingredients", Message: "Ingredients must not repeat."}
		}
		seenIngredients[line.Id] = true
	}
	if len(in.Tags) == 0 {
		return &FieldError{Field: "tags", Message: "At least one tag is required."}
	}
	seenTags := map[string]bool{}
	for _, id := range in.Tags {
		if seenTags[id] {
			return &FieldError{Field: "tags", Message: "Tags must not repeat."}
		}
		seenTags[id] = true
	}
	if in.CookingTime < 1 {
		return &FieldError{Field: "cooking_time", Message: "Cooking time must be at least 1 minute."}
	}
	for _, line := range in.Ingredients {
		if line.Amount < 1 {
			return &FieldError{Field: "amount", Message: "Ingredient amount must be at least 1."}
		}
	}
	if in.Name == "" || len(in.Name) > 256 {
		return &FieldError{Field: "name", Message: "Name is required and limited to 256 characters."}
	}
	if in.Text == "" {
		return &FieldError{Field: "text", Message: "Description text is required."}
	}
	if requireImage && in.Image == "" {
		return &FieldError{Field: "image", Message: "Image is required."}
	}
	return nil
}

func loadInputTags(tx *gorm.DB, ids []string) ([]*model.Tag, error) {
	var tags []*model.Tag
	if err := tx.Where("id IN ?", ids).Find(&tags).Error; err != nil {
		return nil, err
	}
	if len(tags) != len(ids) {
		return nil, &FieldError{Field: "tags", Message: "Unknown tag id."}
	}
	return tags, nil
}

func checkInputIngredients(tx *gorm.DB, lines []RecipeIngredientInput) error {
	ids := make([]string, 0, len(lines))
	for _, line := range lines {
		ids = append(ids, line.Id)
	}
	var count int64
	if err := tx.Model(&model.Ingredient{}).Where("id IN ?", ids).Count(&count).Error; err != nil {
		return err
	}
	if count != int64(len(ids)) {
		return &FieldError{Field: "ingredients", Message: "Unknown ingredient id."}
	}
	return nil
}

func buildIngredientLines(recipeID string, lines []RecipeIngredientInput) []model.RecipeIngredient {
	rows := make([]model.RecipeIngredient, 0, len(lines))
	for _, line := range lines {
		rows = append(rows, model.RecipeIngredient{
			RecipeID:     recipeID,
			IngredientID: line.Id,
			Amount:       line.Amount,
		})
	}
	return rows
}

// createRecipe persists a validated recipe, its tag associations and its
// ingredient lines as one atomic unit. Partial failure leaves no orphaned
// recipe or lines behind.
func createRecipe(db *gorm.DB, authorID string, in *RecipeInput) (string, error) {
	if err := validateRecipeInput(in, true); err != nil {
		return "", err
	}

	recipeID := uuid.New().String()
	err := db.Transaction(func(tx *gorm.DB) error {
		tags, err := loadInputTags(tx, in.Tags)
		if err != nil {
			return err
		}
		if err := checkInputIngredients(tx, in.Ingredients); err != nil {
			return err
		}

		recipe := model.Recipe{
			Id:          recipeID,
			CreatedAt:   time.Now(),
			AuthorID:    authorID,
			Name:        in.Name,
			Image:       in.Image,
			Text:        in.Text,
			CookingTime: in.CookingTime,
		}
		if err := tx.Create(&recipe).Error; err != nil {
			return errors.Wrap(err, "create recipe")
		}
		if err := tx.Model(&recipe).Association("Tags").Replace(tags); err != nil {
			return errors.Wrap(err, "set recipe tags")
		}
		lines := buildIngredientLines(recipeID, in.Ingredients)
		if err := tx.Create(&lines).Error; err != nil {
			return errors.Wrap(err, "create ingredient lines")
		}
		return nil
	})
	if err != nil {
		return "", err
	}
	return recipeID, nil
}

// updateRecipe applies replacement semantics: scalar fields are
// overwritten, tag associations are fully replaced, and the ingredient
// lines are cleared then recreated from the payload, all in one
// transaction so readers never observe the empty intermediate state.
func updateRecipe(db *gorm.DB, recipe *model.Recipe, in *RecipeInput) error {
	if err := validateRecipeInput(in, false); err != nil {
		return err
	}

	return db.Transaction(func(tx *gorm.DB) error {
		tags, err := loadInputTags(tx, in.Tags)
		if err != nil {
			return err
		}
		if err := checkInputIngredients(tx, in.Ingredients); err != nil {
			return err
		}

		updates := map[string]interface{}{
			"name":         in.Name,
			"text":         in.Text,
			"cooking_time": in.CookingTime,
		}
		if in.Image != "" {
			updates["image"] = in.Image
		}
		if err := tx.Model(&model.Recipe{Id: recipe.Id}).Updates(updates).Error; err != nil {
			return errors.Wrap(err, "update recipe")
		}

		if err := tx.Model(&model.Recipe{Id: recipe.Id}).Association("Tags").Replace(tags); err != nil {
			return errors.Wrap(err, "replace recipe tags")
		}

		if err := tx.Where("recipe_id = ?", recipe.Id).Delete(&model.RecipeIngredient{}).Error; err != nil {
			return errors.Wrap(err, "clear ingredient lines")
		}
		lines := buildIngredientLines(recipe.Id, in.Ingredients)
		if err := tx.Create(&lines).Error; err != nil {
			return errors.Wrap(err, "recreate ingredient lines")
		}
		return nil
	})
}

// deleteRecipe removes a recipe together with its lines, tag links and
// relation rows in one transaction.
func deleteRecipe(db *gorm.DB, recipe *model.Recipe) error {
	return db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("recipe_id = ?", recipe.Id).Delete(&model.RecipeIngredient{}).Error; err != nil {
			return err
		}
		if err := tx.Where("recipe_id = ?", recipe.Id).Delete(&model.Favorite{}).Error; err != nil {
			return err
		}
		if err := tx.Where("recipe_id = ?", recipe.Id).Delete(&model.ShoppingCartItem{}).Error; err != nil {
			return err
		}
		if err := tx.Model(&model.Recipe{Id: recipe.Id}).Association("Tags").Clear(); err != nil {
			return err
		}
		return tx.Delete(&model.Recipe{Id: recipe.Id}).Error
	})
}
