package api

import (
	"fmt"
	"net/http"
	"net/url"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/foodgram/backend/internal/service"
)

// pathID parses the :id parameter. A malformed id cannot name any row so it
// is answered with 404.
func pathID(c *gin.Context) (uuid.UUID, bool) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusNotFound, ErrorResponse{Error: "not found", Code: "not_found"})
		return uuid.Nil, false
	}
	return id, true
}

func queryInt(c *gin.Context, name string, def int) int {
	v, err := strconv.Atoi(c.Query(name))
	if err != nil {
		return def
	}
	return v
}

// queryFlag reads a 0/1 style boolean filter. An absent parameter is nil.
func queryFlag(c *gin.Context, name string) (*bool, error) {
	raw, ok := c.GetQuery(name)
	if !ok {
		return nil, nil
	}
	b, err := strconv.ParseBool(raw)
	if err != nil {
		return nil, &service.ValidationError{
			Rule:    service.RuleInvalidFilter,
			Message: fmt.Sprintf("%s must be 0 or 1", name),
		}
	}
	return &b, nil
}

func pagination(c *gin.Context) service.Pagination {
	return service.Pagination{
		Page:  queryInt(c, "page", 1),
		Limit: queryInt(c, "limit", service.DefaultPageSize),
	}.Normalize()
}

// PageResponse is the envelope of every paginated listing
type PageResponse[T any] struct {
	Count    int64   `json:"count"`
	Next     *string `json:"next"`
	Previous *string `json:"previous"`
	Results  []T     `json:"results"`
}

func newPageResponse[S, T any](c *gin.Context, page *service.Page[S], convert func(S) T) PageResponse[T] {
	results := make([]T, len(page.Results))
	for i, r := range page.Results {
		results[i] = convert(r)
	}
	resp := PageResponse[T]{Count: page.Count, Results: results}
	if page.HasNext() {
		link := pageLink(c, page.Pagination.Page+1)
		resp.Next = &link
	}
	if page.HasPrevious() {
		link := pageLink(c, page.Pagination.Page-1)
		resp.Previous = &link
	}
	return resp
}

// pageLink rebuilds the request URL pointing at another page, keeping every
// other query parameter.
func pageLink(c *gin.Context, page int) string {
	scheme := "http"
	if c.Request.TLS != nil {
		scheme = "https"
	}
	if proto := c.GetHeader("X-Forwarded-Proto"); proto != "" {
		scheme = proto
	}

	q := c.Request.URL.Query()
	q.Set("page", strconv.Itoa(page))
	u := url.URL{
		Scheme:   scheme,
		Host:     c.Request.Host,
		Path:     c.Request.URL.Path,
		RawQuery: q.Encode(),
	}
	return u.String()
}
