package api

import (
	"testing"

	"github.com/mealmux/mealmux/model"
	"github.com/stretchr/testify/require"
)

func validRecipeInput(tagIDs []string, lines []RecipeIngredientInput) *RecipeInput {
	return &RecipeInput{
		Name:        "borscht",
		Text:        "long simmer",
		Image:       "recipes/images/borscht.png",
		CookingTime: 90,
		Tags:        tagIDs,
		Ingredients: lines,
	}
}

func TestValidateRecipeInputOrder(t *testing.T) {
	tests := []struct {
		name      string
		mutate    func(in *RecipeInput)
		wantField string
	}{
		{
			name:      "empty ingredients",
			mutate:    func(in *RecipeInput) { in.Ingredients = nil },
			wantField: "ingredients",
		},
		{
			name: "duplicate ingredient ids",
			mutate: func(in *RecipeInput) {
				in.Ingredients = append(in.Ingredients, in.Ingredients[0])
			},
			wantField: "ingredients",
		},
		{
			name:      "empty tags",
			mutate:    func(in *RecipeInput) { in.Tags = nil },
			wantField: "tags",
		},
		{
			name:      "duplicate tag ids",
			mutate:    func(in *RecipeInput) { in.Tags = append(in.Tags, in.Tags[0]) },
			wantField: "tags",
		},
		{
			name:      "zero cooking time",
			mutate:    func(in *RecipeInput) { in.CookingTime = 0 },
			wantField: "cooking_time",
		},
		{
			name: "zero ingredient amount",
			mutate: func(in *RecipeInput) {
				in.Ingredients[0].Amount = 0
			},
			wantField: "amount",
		},
		{
			name:      "missing name",
			mutate:    func(in *RecipeInput) { in.Name = "" },
			wantField: "name",
		},
		{
			name:      "missing image",
			mutate:    func(in *RecipeInput) { in.Image = "" },
			wantField: "image",
		},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			in := validRecipeInput([]string{"t1"}, []RecipeIngredientInput{{Id: "i1", Amount: 2}})
			tc.mutate(in)
			err := validateRecipeInput(in, true)
			require.Error(t, err)
			fieldErr, ok := err.(*FieldError)
			require.True(t, ok, "expected a field-scoped error, got %T", err)
			require.Equal(t, tc.wantField, fieldErr.Field)
		})
	}
}

func TestValidateRecipeInputDuplicateBeatsEmptyTags(t *testing.T) {
	// Duplicate ingredients must be reported before the missing tag list:
	// the checks run in a fixed order.
	in := validRecipeInput(nil, []RecipeIngredientInput{{Id: "i1", Amount: 1}, {Id: "i1", Amount: 2}})
	err := validateRecipeInput(in, true)
	fieldErr, ok := err.(*FieldError)
	require.True(t, ok)
	require.Equal(t, "ingredients", fieldErr.Field)
}

func TestCreateRecipeExposesAllLinesAndTags(t *testing.T) {
	db := newTestDB(t)
	author := seedUser(t, db, "chef")
	lunch := seedTag(t, db, "lunch", "lunch")
	dinner := seedTag(t, db, "dinner", "dinner")
	flour := seedIngredient(t, db, "flour", "g")
	milk := seedIngredient(t, db, "milk", "ml")
	eggs := seedIngredient(t, db, "eggs", "pcs")

	in := validRecipeInput(
		[]string{lunch.Id, dinner.Id},
		[]RecipeIngredientInput{
			{Id: flour.Id, Amount: 200},
			{Id: milk.Id, Amount: 300},
			{Id: eggs.Id, Amount: 2},
		})
	id, err := createRecipe(db, author.Id, in)
	require.NoError(t, err)

	recipe, err := fetchRecipe(db, author.Id, id)
	require.NoError(t, err)
	require.Len(t, recipe.IngredientLines, 3)
	require.Len(t, recipe.Tags, 2)
	require.Equal(t, author.Id, recipe.AuthorID)

	rep := buildRecipeRep(recipe, nil)
	require.Len(t, rep.Ingredients, 3)
	require.Len(t, rep.Tags, 2)

	// The write result and a subsequent detail read must produce the same
	// representation.
	again, err := fetchRecipe(db, author.Id, id)
	require.NoError(t, err)
	require.Equal(t, rep, buildRecipeRep(again, nil))
}

func TestCreateRecipeRejectsUnknownReferences(t *testing.T) {
	db := newTestDB(t)
	author := seedUser(t, db, "chef")
	tag := seedTag(t, db, "lunch", "lunch")
	flour := seedIngredient(t, db, "flour", "g")

	_, err := createRecipe(db, author.Id,
		validRecipeInput([]string{"no-such-tag"}, []RecipeIngredientInput{{Id: flour.Id, Amount: 1}}))
	fieldErr, ok := err.(*FieldError)
	require.True(t, ok)
	require.Equal(t, "tags", fieldErr.Field)

	_, err = createRecipe(db, author.Id,
		validRecipeInput([]string{tag.Id}, []RecipeIngredientInput{{Id: "no-such-ingredient", Amount: 1}}))
	fieldErr, ok = err.(*FieldError)
	require.True(t, ok)
	require.Equal(t, "ingredients", fieldErr.Field)

	// Failed writes must leave nothing behind.
	var count int64
	require.NoError(t, db.Model(&model.Recipe{}).Count(&count).Error)
	require.Zero(t, count)
	require.NoError(t, db.Model(&model.RecipeIngredient{}).Count(&count).Error)
	require.Zero(t, count)
}

func TestUpdateRecipeReplacesLinesAndTags(t *testing.T) {
	db := newTestDB(t)
	author := seedUser(t, db, "chef")
	lunch := seedTag(t, db, "lunch", "lunch")
	dinner := seedTag(t, db, "dinner", "dinner")
	flour := seedIngredient(t, db, "flour", "g")
	milk := seedIngredient(t, db, "milk", "ml")
	sugar := seedIngredient(t, db, "sugar", "g")

	recipe := seedRecipe(t, db, author, "pancakes", []*model.Tag{lunch},
		map[*model.Ingredient]int{flour: 200, milk: 300})

	in := &RecipeInput{
		Name:        "pancakes deluxe",
		Text:        "fry on both sides",
		CookingTime: 25,
		Tags:        []string{dinner.Id},
		Ingredients: []RecipeIngredientInput{
			{Id: milk.Id, Amount: 500},
			{Id: sugar.Id, Amount: 50},
		},
	}
	require.NoError(t, updateRecipe(db, recipe, in))

	updated, err := fetchRecipe(db, author.Id, recipe.Id)
	require.NoError(t, err)
	require.Equal(t, "pancakes deluxe", updated.Name)
	require.Equal(t, 25, updated.CookingTime)
	// Image was omitted from the update payload and must survive.
	require.Equal(t, recipe.Image, updated.Image)

	require.Len(t, updated.Tags, 1)
	require.Equal(t, dinner.Id, updated.Tags[0].Id)

	require.Len(t, updated.IngredientLines, 2)
	amounts := map[string]int{}
	for _, line := range updated.IngredientLines {
		amounts[line.IngredientID] = line.Amount
	}
	require.Equal(t, map[string]int{milk.Id: 500, sugar.Id: 50}, amounts)

	// The cleared line must be gone from the table, not just the preload.
	var count int64
	require.NoError(t, db.Model(&model.RecipeIngredient{}).
		Where("recipe_id = ? AND ingredient_id = ?", recipe.Id, flour.Id).
		Count(&count).Error)
	require.Zero(t, count)
}

func TestListRecipesAnnotatesDerivedFlags(t *testing.T) {
	db := newTestDB(t)
	author := seedUser(t, db, "chef")
	reader := seedUser(t, db, "reader")
	tag := seedTag(t, db, "lunch", "lunch")
	flour := seedIngredient(t, db, "flour", "g")

	first := seedRecipe(t, db, author, "alpha", []*model.Tag{tag}, map[*model.Ingredient]int{flour: 1})
	second := seedRecipe(t, db, author, "beta", []*model.Tag{tag}, map[*model.Ingredient]int{flour: 2})

	require.NoError(t, addFavorite(db, reader.Id, first.Id))
	require.NoError(t, addCartItem(db, reader.Id, second.Id))

	recipes, count, err := listRecipes(db, reader.Id, RecipeFilters{}, 1, defaultPageSize)
	require.NoError(t, err)
	require.EqualValues(t, 2, count)

	flags := map[string][2]bool{}
	for _, recipe := range recipes {
		flags[recipe.Id] = [2]bool{recipe.IsFavorited, recipe.IsInShoppingCart}
	}
	require.Equal(t, [2]bool{true, false}, flags[first.Id])
	require.Equal(t, [2]bool{false, true}, flags[second.Id])

	// Anonymous requesters always read false, regardless of relation rows.
	recipes, _, err = listRecipes(db, "", RecipeFilters{}, 1, defaultPageSize)
	require.NoError(t, err)
	for _, recipe := range recipes {
		require.False(t, recipe.IsFavorited)
		require.False(t, recipe.IsInShoppingCart)
	}
}

func TestListRecipesTagFilterUnionWithoutDuplicates(t *testing.T) {
	db := newTestDB(t)
	author := seedUser(t, db, "chef")
	lunch := seedTag(t, db, "lunch", "lunch")
	dinner := seedTag(t, db, "dinner", "dinner")
	breakfast := seedTag(t, db, "breakfast", "breakfast")
	flour := seedIngredient(t, db, "flour", "g")

	onlyLunch := seedRecipe(t, db, author, "soup", []*model.Tag{lunch}, map[*model.Ingredient]int{flour: 1})
	onlyDinner := seedRecipe(t, db, author, "stew", []*model.Tag{dinner}, map[*model.Ingredient]int{flour: 1})
	both := seedRecipe(t, db, author, "pie", []*model.Tag{lunch, dinner}, map[*model.Ingredient]int{flour: 1})
	seedRecipe(t, db, author, "porridge", []*model.Tag{breakfast}, map[*model.Ingredient]int{flour: 1})

	recipes, count, err := listRecipes(db, "", RecipeFilters{TagSlugs: []string{"lunch", "dinner"}}, 1, defaultPageSize)
	require.NoError(t, err)
	require.EqualValues(t, 3, count)

	seen := map[string]int{}
	for _, recipe := range recipes {
		seen[recipe.Id]++
	}
	require.Equal(t, map[string]int{onlyLunch.Id: 1, onlyDinner.Id: 1, both.Id: 1}, seen)
}

func TestListRecipesAuthorFilter(t *testing.T) {
	db := newTestDB(t)
	chef := seedUser(t, db, "chef")
	other := seedUser(t, db, "other")
	tag := seedTag(t, db, "lunch", "lunch")
	flour := seedIngredient(t, db, "flour", "g")

	mine := seedRecipe(t, db, chef, "soup", []*model.Tag{tag}, map[*model.Ingredient]int{flour: 1})
	seedRecipe(t, db, other, "stew", []*model.Tag{tag}, map[*model.Ingredient]int{flour: 1})

	recipes, count, err := listRecipes(db, "", RecipeFilters{Author: chef.Id}, 1, defaultPageSize)
	require.NoError(t, err)
	require.EqualValues(t, 1, count)
	require.Equal(t, mine.Id, recipes[0].Id)
}

func TestListRecipesMembershipFiltersFailOpenForAnonymous(t *testing.T) {
	db := newTestDB(t)
	author := seedUser(t, db, "chef")
	reader := seedUser(t, db, "reader")
	tag := seedTag(t, db, "lunch", "lunch")
	flour := seedIngredient(t, db, "flour", "g")

	recipe := seedRecipe(t, db, author, "soup", []*model.Tag{tag}, map[*model.Ingredient]int{flour: 1})
	require.NoError(t, addFavorite(db, reader.Id, recipe.Id))

	// Anonymous plus favorited-only is an empty page, not an error.
	recipes, count, err := listRecipes(db, "", RecipeFilters{FavoritedOnly: true}, 1, defaultPageSize)
	require.NoError(t, err)
	require.Zero(t, count)
	require.Empty(t, recipes)

	recipes, count, err = listRecipes(db, reader.Id, RecipeFilters{FavoritedOnly: true}, 1, defaultPageSize)
	require.NoError(t, err)
	require.EqualValues(t, 1, count)
	require.Equal(t, recipe.Id, recipes[0].Id)
}

func TestListRecipesOrderedByNameAndPaginated(t *testing.T) {
	db := newTestDB(t)
	author := seedUser(t, db, "chef")
	tag := seedTag(t, db, "lunch", "lunch")
	flour := seedIngredient(t, db, "flour", "g")

	for _, name := range []string{"waffles", "bread", "omelette"} {
		seedRecipe(t, db, author, name, []*model.Tag{tag}, map[*model.Ingredient]int{flour: 1})
	}

	recipes, count, err := listRecipes(db, "", RecipeFilters{}, 1, 2)
	require.NoError(t, err)
	require.EqualValues(t, 3, count)
	require.Len(t, recipes, 2)
	require.Equal(t, "bread", recipes[0].Name)
	require.Equal(t, "omelette", recipes[1].Name)

	recipes, _, err = listRecipes(db, "", RecipeFilters{}, 2, 2)
	require.NoError(t, err)
	require.Len(t, recipes, 1)
	require.Equal(t, "waffles", recipes[0].Name)
}

func TestFetchRecipeNotFound(t *testing.T) {
	db := newTestDB(t)
	_, err := fetchRecipe(db, "", "missing")
	require.Error(t, err)
	_, ok := err.(*NotFoundError)
	require.True(t, ok)
}

func TestDeleteRecipeRemovesDependentRows(t *testing.T) {
	db := newTestDB(t)
	author := seedUser(t, db, "chef")
	reader := seedUser(t, db, "reader")
	tag := seedTag(t, db, "lunch", "lunch")
	flour := seedIngredient(t, db, "flour", "g")

	recipe := seedRecipe(t, db, author, "soup", []*model.Tag{tag}, map[*model.Ingredient]int{flour: 1})
	require.NoError(t, addFavorite(db, reader.Id, recipe.Id))
	require.NoError(t, addCartItem(db, reader.Id, recipe.Id))

	require.NoError(t, deleteRecipe(db, recipe))

	for _, target := range []interface{}{
		&model.Recipe{}, &model.RecipeIngredient{}, &model.Favorite{}, &model.ShoppingCartItem{},
	} {
		var count int64
		require.NoError(t, db.Model(target).Count(&count).Error)
		require.Zero(t, count)
	}
}
