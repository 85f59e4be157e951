// Package search holds the pure logic of the people-search aggregation:
// offset pagination with previous/next markers, and de-duplication of
// external lookup hits against locally registered users.
package search

import (
	"strings"

	"alumninet/backend/internal/lookup"
)

// PageMarker points at an adjacent page of results.
type PageMarker struct {
	Page  int `json:"page"`
	Limit int `json:"limit"`
}

// Window is the pagination window for one request.
type Window struct {
	StartIndex int
	Previous   *PageMarker
	Next       *PageMarker
}

// PaginationWindow computes the offset window for a page/limit pair.
// Previous is present iff page > 1; Next is present iff another full or
// partial page exists beyond this one.
func PaginationWindow(page, limit, totalCount int) Window {
	if page < 1 {
		page = 1
	}
	if limit < 1 {
		limit = 1
	}

	w := Window{StartIndex: (page - 1) * limit}

	if page > 1 {
		w.Previous = &PageMarker{Page: page - 1, Limit: limit}
	}
	if w.StartIndex+limit < totalCount {
		w.Next = &PageMarker{Page: page + 1, Limit: limit}
	}
	return w
}

// HandleFromLink derives a profile handle from an external result link: the
// path segment after the final '/'. A link with no '/' yields the link
// itself; a trailing slash yields the empty string.
func HandleFromLink(link string) string {
	idx := strings.LastIndex(link, "/")
	if idx < 0 {
		return link
	}
	return link[idx+1:]
}

// FilterExternal drops external results whose derived handle byte-equals the
// handle of any local match. Comparison is case-sensitive; empty local
// handles never match anything.
func FilterExternal(results []lookup.Result, localHandles []string) []lookup.Result {
	known := make(map[string]struct{}, len(localHandles))
	for _, h := range localHandles {
		if h == "" {
			continue
		}
		known[h] = struct{}{}
	}

	filtered := make([]lookup.Result, 0, len(results))
	for _, r := range results {
		if _, dup := known[HandleFromLink(r.Link)]; dup {
			continue
		}
		filtered = append(filtered, r)
	}
	return filtered
}
