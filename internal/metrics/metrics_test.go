package metrics

import (
	"errors"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
)

func TestRecordHTTPRequest(t *testing.T) {
	before := testutil.ToFloat64(HTTPRequestsTotal.WithLabelValues("GET", "/api/recipes/", "200"))

	RecordHTTPRequest("GET", "/api/recipes/", 200, 15*time.Millisecond)

	after := testutil.ToFloat64(HTTPRequestsTotal.WithLabelValues("GET", "/api/recipes/", "200"))
	assert.Equal(t, before+1, after)
}

func TestRecordHTTPRequestUnmatchedRoute(t *testing.T) {
	before := testutil.ToFloat64(HTTPRequestsTotal.WithLabelValues("GET", "unmatched", "404"))

	RecordHTTPRequest("GET", "", 404, time.Millisecond)

	assert.Equal(t, before+1, testutil.ToFloat64(HTTPRequestsTotal.WithLabelValues("GET", "unmatched", "404")))
}

func TestTrackActiveRequest(t *testing.T) {
	start := testutil.ToFloat64(HTTPActiveRequests)

	TrackActiveRequest(true)
	TrackActiveRequest(true)
	assert.Equal(t, start+2, testutil.ToFloat64(HTTPActiveRequests))

	TrackActiveRequest(false)
	TrackActiveRequest(false)
	assert.Equal(t, start, testutil.ToFloat64(HTTPActiveRequests))
}

func TestRecordRecipeOperation(t *testing.T) {
	ok := testutil.ToFloat64(RecipeOperations.WithLabelValues("create", "success"))
	failed := testutil.ToFloat64(RecipeOperations.WithLabelValues("create", "error"))

	RecordRecipeOperation("create", nil)
	RecordRecipeOperation("create", errors.New("boom"))

	assert.Equal(t, ok+1, testutil.ToFloat64(RecipeOperations.WithLabelValues("create", "success")))
	assert.Equal(t, failed+1, testutil.ToFloat64(RecipeOperations.WithLabelValues("create", "error")))
}

func TestRecordRelationToggle(t *testing.T) {
	before := testutil.ToFloat64(RelationToggles.WithLabelValues("favorite", "add", "success"))

	RecordRelationToggle("favorite", "add", nil)

	assert.Equal(t, before+1, testutil.ToFloat64(RelationToggles.WithLabelValues("favorite", "add", "success")))
}

func TestShoppingListAndRateLimitCounters(t *testing.T) {
	downloads := testutil.ToFloat64(ShoppingListDownloads)
	rejected := testutil.ToFloat64(RateLimitRejections.WithLabelValues("recipe_create"))

	RecordShoppingListDownload()
	RecordRateLimitRejection("recipe_create")

	assert.Equal(t, downloads+1, testutil.ToFloat64(ShoppingListDownloads))
	assert.Equal(t, rejected+1, testutil.ToFloat64(RateLimitRejections.WithLabelValues("recipe_create")))
}
