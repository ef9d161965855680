package models

import (
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

func setupTestDB(t *testing.T) *gorm.DB {
	db, err := gorm.Open(sqlite.Open("file:"+uuid.NewString()+"?mode=memory&cache=shared"), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)
	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)
	t.Cleanup(func() { sqlDB.Close() })

	require.NoError(t, db.AutoMigrate(All()...))
	return db
}

func newUser(t *testing.T, db *gorm.DB, username string) *User {
	u := &User{Username: username, Email: username + "@example.com", PasswordHash: "x"}
	require.NoError(t, db.Create(u).Error)
	return u
}

func TestBeforeCreateAssignsID(t *testing.T) {
	db := setupTestDB(t)
	u := newUser(t, db, "alice")
	assert.NotEqual(t, uuid.Nil, u.ID)

	fixed := uuid.New()
	tag := &Tag{ID: fixed, Name: "Breakfast", Slug: "breakfast", Color: "#E26C2D"}
	require.NoError(t, db.Create(tag).Error)
	assert.Equal(t, fixed, tag.ID)
}

func TestUniqueIndexes(t *testing.T) {
	db := setupTestDB(t)
	alice := newUser(t, db, "alice")
	bob := newUser(t, db, "bob")

	recipe := &Recipe{AuthorID: alice.ID, Name: "Soup", Text: "Boil.", CookingTime: 10}
	require.NoError(t, db.Create(recipe).Error)

	t.Run("favorite", func(t *testing.T) {
		require.NoError(t, db.Create(&Favorite{UserID: bob.ID, RecipeID: recipe.ID}).Error)
		assert.Error(t, db.Create(&Favorite{UserID: bob.ID, RecipeID: recipe.ID}).Error)
	})

	t.Run("shopping cart", func(t *testing.T) {
		require.NoError(t, db.Create(&ShoppingCart{UserID: bob.ID, RecipeID: recipe.ID}).Error)
		assert.Error(t, db.Create(&ShoppingCart{UserID: bob.ID, RecipeID: recipe.ID}).Error)
	})

	t.Run("follow", func(t *testing.T) {
		require.NoError(t, db.Create(&Follow{UserID: bob.ID, AuthorID: alice.ID}).Error)
		assert.Error(t, db.Create(&Follow{UserID: bob.ID, AuthorID: alice.ID}).Error)
		// the reverse direction is a different pair
		assert.NoError(t, db.Create(&Follow{UserID: alice.ID, AuthorID: bob.ID}).Error)
	})

	t.Run("recipe ingredient", func(t *testing.T) {
		salt := &Ingredient{Name: "Salt", MeasurementUnit: "g"}
		require.NoError(t, db.Create(salt).Error)
		require.NoError(t, db.Create(&RecipeIngredient{RecipeID: recipe.ID, IngredientID: salt.ID, Amount: 5}).Error)
		assert.Error(t, db.Create(&RecipeIngredient{RecipeID: recipe.ID, IngredientID: salt.ID, Amount: 7}).Error)
	})

	t.Run("tag slug", func(t *testing.T) {
		require.NoError(t, db.Create(&Tag{Name: "Lunch", Slug: "lunch", Color: "#49B64E"}).Error)
		assert.Error(t, db.Create(&Tag{Name: "Lunch 2", Slug: "lunch", Color: "#49B64E"}).Error)
	})

	t.Run("user email", func(t *testing.T) {
		assert.Error(t, db.Create(&User{Username: "alice2", Email: "alice@example.com", PasswordHash: "x"}).Error)
	})
}

func TestCheckConstraints(t *testing.T) {
	db := setupTestDB(t)
	alice := newUser(t, db, "alice")

	err := db.Create(&Recipe{AuthorID: alice.ID, Name: "Toast", Text: "Toast it.", CookingTime: 0}).Error
	assert.Error(t, err)
}

func TestRecipePreload(t *testing.T) {
	db := setupTestDB(t)
	alice := newUser(t, db, "alice")
	tomato := &Ingredient{Name: "Tomato", MeasurementUnit: "g"}
	tag := &Tag{Name: "Dinner", Slug: "dinner", Color: "#8775D2"}
	require.NoError(t, db.Create(tomato).Error)
	require.NoError(t, db.Create(tag).Error)

	recipe := &Recipe{AuthorID: alice.ID, Name: "Salad", Text: "Chop.", CookingTime: 5}
	require.NoError(t, db.Create(recipe).Error)
	require.NoError(t, db.Create(&RecipeIngredient{RecipeID: recipe.ID, IngredientID: tomato.ID, Amount: 100}).Error)
	require.NoError(t, db.Create(&RecipeTag{RecipeID: recipe.ID, TagID: tag.ID}).Error)

	var got Recipe
	require.NoError(t, db.Preload("Author").Preload("Ingredients.Ingredient").Preload("Tags").
		First(&got, "id = ?", recipe.ID).Error)

	assert.Equal(t, "alice", got.Author.Username)
	require.Len(t, got.Ingredients, 1)
	assert.Equal(t, "Tomato", got.Ingredients[0].Ingredient.Name)
	assert.Equal(t, 100, got.Ingredients[0].Amount)
	require.Len(t, got.Tags, 1)
	assert.Equal(t, "dinner", got.Tags[0].Slug)
}
