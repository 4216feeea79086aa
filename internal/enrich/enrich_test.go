package enrich

import (
	"context"
	"errors"
	"testing"
)

type stubClient struct {
	response string
	err      error
}

func (s *stubClient) generate(_ context.Context, _ string) (string, error) {
	return s.response, s.err
}

func TestFallbackDerivations(t *testing.T) {
	cases := []struct {
		name    string
		url     string
		want    Metadata
	}{
		{
			name: "path segment with hyphens",
			url:  "https://example.com/My-Great-Post",
			want: Metadata{Title: "My Great Post", Description: "Source: example.com", Summary: NoAISummary},
		},
		{
			name: "underscores and extension stripped",
			url:  "https://www.blog.net/posts/intro_to_go.html",
			want: Metadata{Title: "Intro to go", Description: "Source: blog.net", Summary: NoAISummary},
		},
		{
			name: "no path segments capitalizes hostname",
			url:  "https://example.com",
			want: Metadata{Title: "Example.com", Description: "Source: example.com", Summary: NoAISummary},
		},
		{
			name: "www stripped",
			url:  "https://www.example.com/",
			want: Metadata{Title: "Example.com", Description: "Source: example.com", Summary: NoAISummary},
		},
		{
			name: "short segment keeps hostname",
			url:  "https://example.com/ab",
			want: Metadata{Title: "example.com", Description: "Source: example.com", Summary: NoAISummary},
		},
		{
			name: "unparseable input",
			url:  "not a url at all",
			want: Metadata{Title: "Unknown Website", Description: "not a url at all", Summary: "Could not parse metadata."},
		},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			got := Fallback(tc.url)
			if got != tc.want {
				t.Fatalf("Fallback(%q) = %+v, want %+v", tc.url, got, tc.want)
			}
		})
	}
}

func TestResolveFallsBackOnModelError(t *testing.T) {
	r := &Resolver{client: &stubClient{err: errors.New("model unreachable")}}

	got := r.Resolve(context.Background(), "https://example.com/My-Great-Post")
	want := Metadata{Title: "My Great Post", Description: "Source: example.com", Summary: NoAISummary}
	if got != want {
		t.Fatalf("got %+v, want %+v", got, want)
	}
}

func TestResolveFallsBackOnMalformedResponse(t *testing.T) {
	r := &Resolver{client: &stubClient{response: "this is not json"}}

	got := r.Resolve(context.Background(), "https://example.com/My-Great-Post")
	if got.Summary != NoAISummary {
		t.Fatalf("expected heuristic metadata, got %+v", got)
	}
}

func TestResolveUsesModelResponse(t *testing.T) {
	r := &Resolver{client: &stubClient{
		response: `{"title":"Go Blog","description":"The Go programming language blog","summary":"Articles about Go."}`,
	}}

	got := r.Resolve(context.Background(), "https://go.dev/blog")
	if got.Title != "Go Blog" || got.Summary != "Articles about Go." {
		t.Fatalf("model metadata not used: %+v", got)
	}
}

func TestResolveSubstitutesMissingFields(t *testing.T) {
	r := &Resolver{client: &stubClient{response: `{"title":"Go Blog"}`}}

	got := r.Resolve(context.Background(), "https://go.dev/blog")
	if got.Title != "Go Blog" {
		t.Fatalf("title dropped: %+v", got)
	}
	if got.Description != "Source: go.dev" {
		t.Fatalf("description default wrong: %q", got.Description)
	}
	if got.Summary != "No summary provided." {
		t.Fatalf("summary default wrong: %q", got.Summary)
	}
}

func TestResolveHandlesFencedJSON(t *testing.T) {
	r := &Resolver{client: &stubClient{
		response: "```json\n{\"title\":\"T\",\"description\":\"D\",\"summary\":\"S\"}\n```",
	}}

	got := r.Resolve(context.Background(), "https://example.com/x")
	if got.Title != "T" || got.Description != "D" || got.Summary != "S" {
		t.Fatalf("fenced JSON not parsed: %+v", got)
	}
}

func TestResolverWithoutClientIsDeterministic(t *testing.T) {
	r := NewResolver("openai", "", "")
	a := r.Resolve(context.Background(), "https://example.com/My-Great-Post")
	b := r.Resolve(context.Background(), "https://example.com/My-Great-Post")
	if a != b {
		t.Fatalf("heuristic resolver not deterministic: %+v vs %+v", a, b)
	}
}
