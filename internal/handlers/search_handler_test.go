package handlers

import (
	"context"
	"encoding/json"
	"net/http"
	"regexp"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"

	"alumninet/backend/internal/lookup"
)

// fakeLookupProvider returns canned results or an error.
type fakeLookupProvider struct {
	results   []lookup.Result
	err       error
	lastQuery string
}

func (f *fakeLookupProvider) Search(ctx context.Context, query string) ([]lookup.Result, error) {
	f.lastQuery = query
	if f.err != nil {
		return nil, f.err
	}
	return f.results, nil
}

func searchRouter() *gin.Engine {
	r := gin.New()
	r.GET("/api/users/search", SearchUsersHandler)
	return r
}

func expectLocalSearch(total int64, userRows *sqlmock.Rows, handles ...string) {
	sqlMock.ExpectQuery(regexp.QuoteMeta(`SELECT count(*) FROM "users" WHERE name ILIKE $1`)).
		WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(total))

	sqlMock.ExpectQuery(`SELECT .* FROM "users" WHERE name ILIKE .* ORDER BY post_karma DESC`).
		WillReturnRows(userRows)

	handleRows := sqlmock.NewRows([]string{"linkedin_username"})
	for _, h := range handles {
		handleRows.AddRow(h)
	}
	sqlMock.ExpectQuery(regexp.QuoteMeta(`SELECT "linkedin_username" FROM "users" WHERE name ILIKE $1 AND linkedin_username <> ''`)).
		WillReturnRows(handleRows)
}

func localUserRows() *sqlmock.Rows {
	return sqlmock.NewRows([]string{"id", "username", "name", "role", "branch", "batch", "linkedin_username", "post_karma", "comment_karma", "avatar_exists", "avatar_image_link", "avatar_image_id"}).
		AddRow(uuid.New(), "jdoe", "Jane Doe", "Software Engineer", "CS", "2019", "jdoe", int64(12), int64(4), false, "", "")
}

func TestSearchUsersHandler_RequiresQuery(t *testing.T) {
	w := performRequest(searchRouter(), http.MethodGet, "/api/users/search", nil)
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestSearchUsersHandler_DeduplicatesExternalResults(t *testing.T) {
	provider := &fakeLookupProvider{results: []lookup.Result{
		{Title: "Jane Doe - Software Engineer", Link: "https://www.linkedin.com/in/jdoe", Snippet: "..."},
		{Title: "Jay Doe", Link: "https://www.linkedin.com/in/jdoe2", Snippet: "..."},
	}}
	lookup.DefaultProvider = provider
	defer func() { lookup.DefaultProvider = nil }()

	expectLocalSearch(1, localUserRows(), "jdoe")

	w := performRequest(searchRouter(), http.MethodGet, "/api/users/search?query=doe", nil)
	assert.Equal(t, http.StatusOK, w.Code)

	var resp SearchResponse
	assert.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))

	// jdoe is registered locally, so only jdoe2 survives in the external list.
	if assert.Len(t, resp.GoogleResults, 1) {
		assert.Equal(t, "https://www.linkedin.com/in/jdoe2", resp.GoogleResults[0].Link)
	}
	if assert.Len(t, resp.UserResults, 1) {
		assert.Equal(t, "jdoe", resp.UserResults[0].Username)
		assert.Equal(t, int64(16), resp.UserResults[0].Karma)
	}
	assert.Nil(t, resp.Previous)
	assert.Nil(t, resp.Next)

	// The outbound query is site-restricted and carries the institution keyword.
	assert.Contains(t, provider.lastQuery, "site:")
	assert.Contains(t, provider.lastQuery, `"doe"`)
}

func TestSearchUsersHandler_ExternalFailureIsSoft(t *testing.T) {
	lookup.DefaultProvider = &fakeLookupProvider{err: assert.AnError}
	defer func() { lookup.DefaultProvider = nil }()

	expectLocalSearch(1, localUserRows())

	w := performRequest(searchRouter(), http.MethodGet, "/api/users/search?query=doe", nil)
	assert.Equal(t, http.StatusOK, w.Code)

	var resp SearchResponse
	assert.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Len(t, resp.UserResults, 1)
	assert.Empty(t, resp.GoogleResults)
}

func TestSearchUsersHandler_NoProviderConfigured(t *testing.T) {
	lookup.DefaultProvider = nil

	expectLocalSearch(1, localUserRows())

	w := performRequest(searchRouter(), http.MethodGet, "/api/users/search?query=doe", nil)
	assert.Equal(t, http.StatusOK, w.Code)

	var resp SearchResponse
	assert.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Len(t, resp.UserResults, 1)
	assert.Empty(t, resp.GoogleResults)
}

func TestSearchUsersHandler_PaginationMarkers(t *testing.T) {
	lookup.DefaultProvider = nil

	// 25 matches, page 2 of 3 at limit 10: both markers present.
	expectLocalSearch(25, localUserRows())

	w := performRequest(searchRouter(), http.MethodGet, "/api/users/search?query=doe&page=2&limit=10", nil)
	assert.Equal(t, http.StatusOK, w.Code)

	var resp SearchResponse
	assert.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	if assert.NotNil(t, resp.Previous) {
		assert.Equal(t, 1, resp.Previous.Page)
		assert.Equal(t, 10, resp.Previous.Limit)
	}
	if assert.NotNil(t, resp.Next) {
		assert.Equal(t, 3, resp.Next.Page)
		assert.Equal(t, 10, resp.Next.Limit)
	}
}
