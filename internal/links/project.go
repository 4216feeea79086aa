package links

import (
	"sort"
	"strings"
)

// Project derives the display list for a filter and search query. Trashed
// items appear only under FilterTrash; every other filter excludes them before
// applying the read/unread restriction. The result is sorted newest first
// (stable, so equal timestamps keep their relative order). The input slice is
// not modified.
func Project(items []LinkItem, filter Filter, query string) []LinkItem {
	q := strings.ToLower(strings.TrimSpace(query))

	out := make([]LinkItem, 0, len(items))
	for _, item := range items {
		if !matchesQuery(item, q) {
			continue
		}
		if filter == FilterTrash {
			if item.IsDeleted {
				out = append(out, item)
			}
			continue
		}
		if item.IsDeleted {
			continue
		}
		switch filter {
		case FilterUnread:
			if item.IsRead {
				continue
			}
		case FilterRead:
			if !item.IsRead {
				continue
			}
		}
		out = append(out, item)
	}

	sort.SliceStable(out, func(i, j int) bool {
		return out[i].CreatedAt > out[j].CreatedAt
	})
	return out
}

// matchesQuery reports whether the query is a case-insensitive substring of
// the link's title or URL. An empty query matches everything.
func matchesQuery(item LinkItem, q string) bool {
	if q == "" {
		return true
	}
	return strings.Contains(strings.ToLower(item.Title), q) ||
		strings.Contains(strings.ToLower(item.URL), q)
}

// Count tallies the badge counts over the full collection, independent of any
// active filter or search.
func Count(items []LinkItem) Counts {
	var c Counts
	for _, item := range items {
		if item.IsDeleted {
			c.Trashed++
			continue
		}
		c.Total++
		if item.IsRead {
			c.Read++
		} else {
			c.Unread++
		}
	}
	return c
}
