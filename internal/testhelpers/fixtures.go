package testhelpers

import (
	"testing"

	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"

	"github.com/foodgram/backend/internal/models"
)

// Password is the plain-text password of every user made by CreateUser.
const Password = "s3cret-pass"

var passwordHash []byte

// CreateUser inserts a user named username with email <username>@example.com.
func CreateUser(t *testing.T, db *gorm.DB, username string) *models.User {
	t.Helper()
	if passwordHash == nil {
		h, err := bcrypt.GenerateFromPassword([]byte(Password), bcrypt.MinCost)
		if err != nil {
			t.Fatalf("failed to hash password: %v", err)
		}
		passwordHash = h
	}
	u := &models.User{
		Email:        username + "@example.com",
		Username:     username,
		FirstName:    username,
		LastName:     "Tester",
		PasswordHash: string(passwordHash),
	}
	if err := db.Create(u).Error; err != nil {
		t.Fatalf("failed to create user %s: %v", username, err)
	}
	return u
}

func CreateIngredient(t *testing.T, db *gorm.DB, name, unit string) *models.Ingredient {
	t.Helper()
	i := &models.Ingredient{Name: name, MeasurementUnit: unit}
	if err := db.Create(i).Error; err != nil {
		t.Fatalf("failed to create ingredient %s: %v", name, err)
	}
	return i
}

func CreateTag(t *testing.T, db *gorm.DB, name, slug string) *models.Tag {
	t.Helper()
	tag := &models.Tag{Name: name, Slug: slug, Color: "#49B64E"}
	if err := db.Create(tag).Error; err != nil {
		t.Fatalf("failed to create tag %s: %v", name, err)
	}
	return tag
}

// Line is one ingredient line for CreateRecipe.
type Line struct {
	Ingredient *models.Ingredient
	Amount     int
}

// CreateRecipe inserts a recipe with its composition directly, bypassing
// the service layer.
func CreateRecipe(t *testing.T, db *gorm.DB, author *models.User, name string, tags []*models.Tag, lines ...Line) *models.Recipe {
	t.Helper()
	r := &models.Recipe{AuthorID: author.ID, Name: name, Text: name + " instructions", CookingTime: 15}
	err := db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Omit("Author", "Ingredients", "Tags").Create(r).Error; err != nil {
			return err
		}
		for _, l := range lines {
			ri := &models.RecipeIngredient{RecipeID: r.ID, IngredientID: l.Ingredient.ID, Amount: l.Amount}
			if err := tx.Create(ri).Error; err != nil {
				return err
			}
		}
		for _, tag := range tags {
			if err := tx.Create(&models.RecipeTag{RecipeID: r.ID, TagID: tag.ID}).Error; err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		t.Fatalf("failed to create recipe %s: %v", name, err)
	}
	return r
}
