package handlers

import (
	"context"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"alumninet/backend/internal/database"
	"alumninet/backend/internal/lookup"
	"alumninet/backend/internal/models"
	"alumninet/backend/internal/search"
	"alumninet/backend/pkg/config"
	"alumninet/backend/pkg/features"
	applog "alumninet/backend/pkg/log"
	appmetrics "alumninet/backend/pkg/metrics"
)

// UserSearchResult is the projection of a local match returned by the search
// endpoint. Deliberately excludes email and phone number.
type UserSearchResult struct {
	ID               uuid.UUID     `json:"id"`
	Username         string        `json:"username"`
	Name             string        `json:"name"`
	Role             string        `json:"role"`
	Branch           string        `json:"branch"`
	Batch            string        `json:"batch"`
	LinkedinUsername string        `json:"linkedinUsername"`
	Avatar           models.Avatar `gorm:"embedded;embeddedPrefix:avatar_" json:"avatar"`
	PostKarma        int64         `json:"-"`
	CommentKarma     int64         `json:"-"`
	Karma            int64         `gorm:"-" json:"karma"`
}

// SearchResponse aggregates local and external matches. Previous and Next are
// omitted when there is no adjacent page.
type SearchResponse struct {
	Previous      *search.PageMarker `json:"previous,omitempty"`
	UserResults   []UserSearchResult `json:"userResults"`
	GoogleResults []lookup.Result    `json:"googleResults"`
	Next          *search.PageMarker `json:"next,omitempty"`
}

type externalOutcome struct {
	results []lookup.Result
	err     error
}

// SearchUsersHandler answers people-search queries: registered users matched
// by name substring, plus externally discovered alumni profiles. External
// lookup failures degrade to an empty external list, never an error response.
func SearchUsersHandler(c *gin.Context) {
	query := strings.TrimSpace(c.Query("query"))
	if query == "" {
		c.JSON(http.StatusBadRequest, gin.H{"message": "Query parameter 'query' is required."})
		return
	}
	page, limit := GetPaginationParams(c)

	db := database.GetDB()
	log := applog.L.Named("search")

	// Kick off the external lookup while the local queries run.
	externalCh := make(chan externalOutcome, 1)
	go func() {
		provider := lookup.DefaultProvider
		// External lookup is on unless FEATURE_EXTERNAL_SEARCH=false.
		if enabled, set := features.GetFeatureToggleState("EXTERNAL_SEARCH"); set && !enabled {
			provider = nil
		}
		if provider == nil {
			externalCh <- externalOutcome{}
			return
		}
		ctx, cancel := context.WithTimeout(c.Request.Context(), config.Cfg.LookupTimeout)
		defer cancel()
		results, err := provider.Search(ctx, lookup.BuildQuery(query))
		externalCh <- externalOutcome{results: results, err: err}
	}()

	nameFilter := db.Model(&models.User{}).Where("name ILIKE ?", "%"+query+"%")

	var total int64
	if err := nameFilter.Count(&total).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"message": "Failed to search users."})
		return
	}

	window := search.PaginationWindow(page, limit, int(total))

	var userResults []UserSearchResult
	err := db.Model(&models.User{}).
		Where("name ILIKE ?", "%"+query+"%").
		Order("post_karma DESC").
		Scopes(PaginateScope(page, limit)).
		Find(&userResults).Error
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"message": "Failed to search users."})
		return
	}
	for i := range userResults {
		userResults[i].Karma = userResults[i].PostKarma + userResults[i].CommentKarma
	}

	// Handles of every local match, not just the current page, so an external
	// duplicate cannot reappear on a later page.
	var localHandles []string
	err = db.Model(&models.User{}).
		Where("name ILIKE ?", "%"+query+"%").
		Where("linkedin_username <> ''").
		Pluck("linkedin_username", &localHandles).Error
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"message": "Failed to search users."})
		return
	}

	external := <-externalCh
	googleResults := []lookup.Result{}
	if external.err != nil {
		appmetrics.ExternalLookupFailures.Inc()
		log.Warn("External profile lookup failed, returning local results only",
			zap.Error(external.err), zap.String("query", query))
	} else if len(external.results) > 0 {
		googleResults = search.FilterExternal(external.results, localHandles)
	}

	if userResults == nil {
		userResults = []UserSearchResult{}
	}

	c.JSON(http.StatusOK, SearchResponse{
		Previous:      window.Previous,
		UserResults:   userResults,
		GoogleResults: googleResults,
		Next:          window.Next,
	})
}
