package service_test

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/foodgram/backend/internal/models"
	"github.com/foodgram/backend/internal/service"
	"github.com/foodgram/backend/internal/testhelpers"
	"github.com/foodgram/backend/internal/validation"
)

func TestListIngredientsByPrefix(t *testing.T) {
	ctx := context.Background()
	db := testhelpers.NewSQLiteDB(t)
	catalog := service.NewCatalogService(db)

	n, err := catalog.LoadIngredients(ctx, []models.Ingredient{
		{Name: "sugar", MeasurementUnit: "g"},
		{Name: "Salt", MeasurementUnit: "g"},
		{Name: "salmon", MeasurementUnit: "g"},
		{Name: "Basil", MeasurementUnit: "bunch"},
		{Name: "50%_cream", MeasurementUnit: "ml"},
	})
	require.NoError(t, err)
	assert.Equal(t, 5, n)

	names := func(items []models.Ingredient) []string {
		out := make([]string, len(items))
		for i, it := range items {
			out[i] = it.Name
		}
		return out
	}

	all, err := catalog.ListIngredients(ctx, "")
	require.NoError(t, err)
	assert.Len(t, all, 5)

	sal, err := catalog.ListIngredients(ctx, "SAL")
	require.NoError(t, err)
	assert.ElementsMatch(t, []string{"Salt", "salmon"}, names(sal))

	// LIKE wildcards in the query are literal
	wild, err := catalog.ListIngredients(ctx, "50%_")
	require.NoError(t, err)
	assert.Equal(t, []string{"50%_cream"}, names(wild))
	none, err := catalog.ListIngredients(ctx, "_")
	require.NoError(t, err)
	assert.Empty(t, none)

	got, err := catalog.GetIngredient(ctx, sal[0].ID)
	require.NoError(t, err)
	assert.Equal(t, sal[0].Name, got.Name)

	_, err = catalog.GetIngredient(ctx, uuid.New())
	assert.ErrorIs(t, err, service.ErrNotFound)
}

func TestLoadRefusesNonEmptyTable(t *testing.T) {
	ctx := context.Background()
	db := testhelpers.NewSQLiteDB(t)
	catalog := service.NewCatalogService(db)
	testhelpers.CreateTag(t, db, "Dinner", "dinner")

	n, err := catalog.LoadTags(ctx, []models.Tag{{Name: "Lunch", Slug: "lunch", Color: "#49B64E"}})
	assert.ErrorIs(t, err, service.ErrCatalogNotEmpty)
	assert.ErrorIs(t, err, service.ErrConflict)
	assert.Zero(t, n)

	tags, err := catalog.ListTags(ctx)
	require.NoError(t, err)
	require.Len(t, tags, 1)

	got, err := catalog.GetTag(ctx, tags[0].ID)
	require.NoError(t, err)
	assert.Equal(t, "dinner", got.Slug)
}

func TestLoadValidatesEntries(t *testing.T) {
	ctx := context.Background()
	db := testhelpers.NewSQLiteDB(t)
	catalog := service.NewCatalogService(db)

	_, err := catalog.LoadTags(ctx, []models.Tag{
		{Name: "Lunch", Slug: "lunch", Color: "#49B64E"},
		{Name: "Dinner", Slug: "dinner", Color: "purple"},
	})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "tag #2")
	var verrs validation.Errors
	assert.ErrorAs(t, err, &verrs)

	_, err = catalog.LoadIngredients(ctx, []models.Ingredient{{Name: "", MeasurementUnit: "g"}})
	require.Error(t, err)

	tags, err := catalog.ListTags(ctx)
	require.NoError(t, err)
	assert.Empty(t, tags)
}

func TestLoadTagsDuplicateSlugRollsBack(t *testing.T) {
	ctx := context.Background()
	db := testhelpers.NewSQLiteDB(t)
	catalog := service.NewCatalogService(db)

	_, err := catalog.LoadTags(ctx, []models.Tag{
		{Name: "Lunch", Slug: "lunch", Color: "#49B64E"},
		{Name: "Lunch again", Slug: "lunch", Color: "#49B64E"},
	})
	require.Error(t, err)

	tags, err := catalog.ListTags(ctx)
	require.NoError(t, err)
	assert.Empty(t, tags)
}
