package links

import "testing"

func sample() []LinkItem {
	return []LinkItem{
		{ID: "1", URL: "https://example.com/cats", Title: "Categories", CreatedAt: 100},
		{ID: "2", URL: "https://example.com/dogs", Title: "Dogs", CreatedAt: 200},
		{ID: "3", URL: "https://news.site/cat-care", Title: "Pet care", CreatedAt: 300},
		{ID: "4", URL: "https://example.com/read", Title: "Done reading", IsRead: true, CreatedAt: 400},
		{ID: "5", URL: "https://example.com/old", Title: "Old stuff", IsDeleted: true, CreatedAt: 500},
	}
}

func ids(items []LinkItem) []string {
	out := make([]string, len(items))
	for i, item := range items {
		out[i] = item.ID
	}
	return out
}

func TestProjectFilters(t *testing.T) {
	cases := []struct {
		name   string
		filter Filter
		query  string
		want   []string
	}{
		{"all excludes trash", FilterAll, "", []string{"4", "3", "2", "1"}},
		{"unread", FilterUnread, "", []string{"3", "2", "1"}},
		{"read", FilterRead, "", []string{"4"}},
		{"trash only", FilterTrash, "", []string{"5"}},
		{"query matches title and url", FilterAll, "cat", []string{"3", "1"}},
		{"query is case-insensitive", FilterAll, "CAT", []string{"3", "1"}},
		{"query in trash", FilterTrash, "old", []string{"5"}},
		{"query excludes non-matches", FilterAll, "zebra", []string{}},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			got := ids(Project(sample(), tc.filter, tc.query))
			if len(got) != len(tc.want) {
				t.Fatalf("got %v, want %v", got, tc.want)
			}
			for i := range got {
				if got[i] != tc.want[i] {
					t.Fatalf("got %v, want %v", got, tc.want)
				}
			}
		})
	}
}

func TestProjectSortsNewestFirst(t *testing.T) {
	items := []LinkItem{
		{ID: "a", CreatedAt: 10},
		{ID: "b", CreatedAt: 30},
		{ID: "c", CreatedAt: 20},
	}
	got := Project(items, FilterAll, "")
	for i := 1; i < len(got); i++ {
		if got[i-1].CreatedAt < got[i].CreatedAt {
			t.Fatalf("not sorted descending: %v", ids(got))
		}
	}
	if got[0].ID != "b" || got[1].ID != "c" || got[2].ID != "a" {
		t.Fatalf("unexpected order: %v", ids(got))
	}
}

func TestProjectStableOnTies(t *testing.T) {
	items := []LinkItem{
		{ID: "first", CreatedAt: 50},
		{ID: "second", CreatedAt: 50},
	}
	got := Project(items, FilterAll, "")
	if got[0].ID != "first" || got[1].ID != "second" {
		t.Fatalf("tie order changed: %v", ids(got))
	}
}

func TestCounts(t *testing.T) {
	// 5 links: 3 active unread, 1 active read, 1 trashed.
	items := []LinkItem{
		{ID: "1"},
		{ID: "2"},
		{ID: "3"},
		{ID: "4", IsRead: true},
		{ID: "5", IsRead: true, IsDeleted: true},
	}
	c := Count(items)
	if c.Total != 4 || c.Unread != 3 || c.Read != 1 || c.Trashed != 1 {
		t.Fatalf("got %+v, want {Total:4 Unread:3 Read:1 Trashed:1}", c)
	}

	unread := Project(items, FilterUnread, "")
	if len(unread) != 3 {
		t.Fatalf("unread filter returned %d items, want 3", len(unread))
	}
}
