package links

// LinkItem is one saved bookmark, scoped to a single account.
type LinkItem struct {
	ID          string `json:"id"`
	URL         string `json:"url"`
	Title       string `json:"title"`
	Description string `json:"description"`
	Summary     string `json:"summary"`
	IsRead      bool   `json:"is_read"`
	IsDeleted   bool   `json:"is_deleted"`
	CreatedAt   int64  `json:"created_at"` // epoch milliseconds
}

// Filter selects which bucket of links a view shows.
type Filter string

const (
	FilterAll    Filter = "all"
	FilterUnread Filter = "unread"
	FilterRead   Filter = "read"
	FilterTrash  Filter = "trash"
)

// ParseFilter maps a user-supplied string to a Filter, defaulting to all.
func ParseFilter(s string) Filter {
	switch Filter(s) {
	case FilterUnread, FilterRead, FilterTrash:
		return Filter(s)
	default:
		return FilterAll
	}
}

// Counts holds the per-bucket badge counts over a full collection.
// Total, Unread, and Read exclude trashed items.
type Counts struct {
	Total   int
	Unread  int
	Read    int
	Trashed int
}
