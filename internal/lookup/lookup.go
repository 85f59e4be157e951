// Package lookup is the client for the external people lookup: a web search
// restricted to a fixed site domain and institution keyword, used to surface
// alumni who have not registered locally.
package lookup

import (
	"context"
	"fmt"

	"alumninet/backend/internal/database"
	"alumninet/backend/internal/models"
	"alumninet/backend/pkg/config"
	applog "alumninet/backend/pkg/log"

	"go.uber.org/zap"
	"google.golang.org/api/customsearch/v1"
	"google.golang.org/api/option"
)

// Result is one external search hit.
type Result struct {
	Title   string `json:"title"`
	Link    string `json:"link"`
	Snippet string `json:"snippet"`
}

// Provider issues an external search. The result is tagged: a non-nil error
// always means the lookup failed, never "no results" — callers must not
// conflate the two.
type Provider interface {
	Search(ctx context.Context, query string) ([]Result, error)
}

// DefaultProvider is the provider used by the application. Nil when the
// lookup is not configured; tests replace it with a fake.
var DefaultProvider Provider

// GoogleCSEProvider implements Provider on the Google Custom Search JSON API.
type GoogleCSEProvider struct {
	svc      *customsearch.Service
	engineID string
}

// InitLookup initializes the default lookup provider. The API key and engine
// ID are read from the database settings first, with config as fallback.
func InitLookup() {
	log := applog.L.Named("InitLookup")
	db := database.GetDB()

	apiKey, errKey := models.GetSystemSetting(db, "GOOGLE_CSE_API_KEY")
	engineID, errEngine := models.GetSystemSetting(db, "GOOGLE_CSE_ENGINE_ID")
	if errKey != nil || apiKey == "" {
		apiKey = config.Cfg.GoogleCSEAPIKey
	}
	if errEngine != nil || engineID == "" {
		engineID = config.Cfg.GoogleCSEEngineID
	}

	if apiKey == "" || engineID == "" {
		log.Warn("Google Custom Search is not configured (missing GOOGLE_CSE_API_KEY or GOOGLE_CSE_ENGINE_ID). External people lookup disabled.")
		DefaultProvider = nil
		return
	}

	svc, err := customsearch.NewService(context.Background(), option.WithAPIKey(apiKey))
	if err != nil {
		log.Error("Failed to create Google Custom Search client. External people lookup disabled.", zap.Error(err))
		DefaultProvider = nil
		return
	}

	DefaultProvider = &GoogleCSEProvider{svc: svc, engineID: engineID}
	log.Info("Google Custom Search lookup initialized.")
}

// BuildQuery constrains a free-text query to the configured site domain and
// institution keyword.
func BuildQuery(query string) string {
	return fmt.Sprintf(`site:%s AND "%s" AND "%s"`,
		config.Cfg.SearchSiteDomain, query, config.Cfg.SearchInstitutionKeyword)
}

// Search issues the external search. The request inherits the caller's
// context, which carries the lookup timeout.
func (g *GoogleCSEProvider) Search(ctx context.Context, query string) ([]Result, error) {
	resp, err := g.svc.Cse.List().Q(query).Cx(g.engineID).Context(ctx).Do()
	if err != nil {
		return nil, fmt.Errorf("custom search request failed: %w", err)
	}

	results := make([]Result, 0, len(resp.Items))
	for _, item := range resp.Items {
		results = append(results, Result{
			Title:   item.Title,
			Link:    item.Link,
			Snippet: item.Snippet,
		})
	}
	return results, nil
}
