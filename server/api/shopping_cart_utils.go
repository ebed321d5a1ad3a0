package api

import (
	"fmt"
	"strings"

	"github.com/mealmux/mealmux/model"
	"github.com/pkg/errors"
	"gorm.io/gorm"
)

// cartLine is one aggregated row of the shopping list.
type cartLine struct {
	Name            string
	MeasurementUnit string
	TotalAmount     int
}

// aggregateShoppingCart merges every recipe in the user's cart into one
// deduplicated ingredient list: join the cart rows to the recipes'
// ingredient lines, group by (name, unit) and sum the amounts, sorted by
// ingredient name. One set-based query for the whole cart.
func aggregateShoppingCart(db *gorm.DB, userID string) ([]cartLine, error) {
	var lines []cartLine
	err := db.Model(&model.RecipeIngredient{}).
		Select("ingredients.name AS name, ingredients.measurement_unit AS measurement_unit, SUM(recipe_ingredients.amount) AS total_amount").
		Joins("JOIN ingredients ON ingredients.id = recipe_ingredients.ingredient_id").
		Joins("JOIN shopping_cart_items ON shopping_cart_items.recipe_id = recipe_ingredients.recipe_id").
		Where("shopping_cart_items.author_id = ?", userID).
		Group("ingredients.name, ingredients.measurement_unit").
		Order("ingredients.name, ingredients.measurement_unit").
		Scan(&lines).Error
	if err != nil {
		return nil, errors.Wrap(err, "aggregate shopping cart")
	}
	return lines, nil
}

// renderShoppingList formats the aggregated lines as the downloadable
// plain-text manifest. An empty cart renders as an empty payload.
func renderShoppingList(lines []cartLine) string {
	rendered := make([]string, 0, len(lines))
	for _, line := range lines {
		rendered = append(rendered, fmt.Sprintf("- %s %d %s", line.Name, line.TotalAmount, line.MeasurementUnit))
	}
	return strings.Join(rendered, "\n")
}
