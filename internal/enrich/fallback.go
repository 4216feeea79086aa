package enrich

import (
	"net/url"
	"strings"
	"unicode"
)

// Fallback derives metadata from the URL alone: the last non-empty path
// segment (hyphens and underscores become spaces, file extension dropped,
// first letter upper-cased), or the hostname when there is no usable segment.
// An unparseable URL yields the fixed unknown triple.
func Fallback(rawURL string) Metadata {
	u, err := url.Parse(rawURL)
	if err != nil || u.Hostname() == "" {
		return Metadata{
			Title:       unknownTitle,
			Description: rawURL,
			Summary:     unknownSummary,
		}
	}

	domain := strings.TrimPrefix(u.Hostname(), "www.")
	title := domain

	segments := nonEmptySegments(u.Path)
	if len(segments) > 0 {
		last := segments[len(segments)-1]
		last = strings.ReplaceAll(last, "-", " ")
		last = strings.ReplaceAll(last, "_", " ")
		last = strings.SplitN(last, ".", 2)[0]
		if len(last) > 2 {
			title = capitalize(last)
		}
	} else {
		title = capitalize(domain)
	}

	return Metadata{
		Title:       title,
		Description: "Source: " + domain,
		Summary:     NoAISummary,
	}
}

func nonEmptySegments(path string) []string {
	var out []string
	for _, p := range strings.Split(path, "/") {
		if p != "" {
			out = append(out, p)
		}
	}
	return out
}

func capitalize(s string) string {
	if s == "" {
		return s
	}
	r := []rune(s)
	r[0] = unicode.ToUpper(r[0])
	return string(r)
}
