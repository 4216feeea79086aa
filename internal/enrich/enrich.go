// Package enrich derives display metadata for a URL. A model-backed guess is
// tried first; on any failure the resolver falls back to deterministic
// URL-derived heuristics, so Resolve never fails outward.
package enrich

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"net/url"
	"strings"
)

// Metadata is the enrichment triple attached to every saved link.
type Metadata struct {
	Title       string `json:"title"`
	Description string `json:"description"`
	Summary     string `json:"summary"`
}

const (
	defaultTitle   = "New Link"
	defaultSummary = "No summary provided."

	// NoAISummary marks metadata produced by the URL heuristic alone.
	NoAISummary = "Metadata generated without AI."

	unknownTitle   = "Unknown Website"
	unknownSummary = "Could not parse metadata."
)

const promptFmt = "Analyze this URL: %s. Provide a professional title, a brief description, and a 1-sentence summary of what this website likely contains."

// modelClient is a single structured-metadata call against an LLM provider.
// Implementations return the raw JSON text of the response.
type modelClient interface {
	generate(ctx context.Context, prompt string) (string, error)
}

// Resolver produces metadata for URLs. A nil model client skips straight to
// the heuristic tier.
type Resolver struct {
	client modelClient
}

// NewResolver builds a Resolver for the given provider ("openai" or
// "anthropic"). An empty API key or unknown provider yields a heuristic-only
// resolver rather than an error.
func NewResolver(provider, model, apiKey string) *Resolver {
	if apiKey == "" {
		return &Resolver{}
	}
	switch provider {
	case "anthropic":
		return &Resolver{client: newAnthropicClient(model, apiKey)}
	case "openai", "":
		return &Resolver{client: newOpenAIClient(model, apiKey)}
	default:
		slog.Warn("unknown LLM provider, metadata will be heuristic only", "provider", provider)
		return &Resolver{}
	}
}

// Resolve returns a populated metadata triple for rawURL. It never fails:
// model errors fall back to the URL heuristic, and an unparseable URL yields
// a fixed unknown triple.
func (r *Resolver) Resolve(ctx context.Context, rawURL string) Metadata {
	if r.client != nil {
		md, err := r.fromModel(ctx, rawURL)
		if err == nil {
			return md
		}
		slog.Warn("model metadata extraction failed, using URL heuristic", "url", rawURL, "error", err)
	}
	return Fallback(rawURL)
}

func (r *Resolver) fromModel(ctx context.Context, rawURL string) (Metadata, error) {
	raw, err := r.client.generate(ctx, fmt.Sprintf(promptFmt, rawURL))
	if err != nil {
		return Metadata{}, err
	}

	var md Metadata
	if err := json.Unmarshal([]byte(stripFences(raw)), &md); err != nil {
		return Metadata{}, fmt.Errorf("malformed model response: %w", err)
	}

	if md.Title == "" {
		md.Title = defaultTitle
	}
	if md.Description == "" {
		md.Description = "Source: " + hostnameOf(rawURL)
	}
	if md.Summary == "" {
		md.Summary = defaultSummary
	}
	return md, nil
}

// stripFences removes a surrounding markdown code fence, which some providers
// wrap around JSON output.
func stripFences(s string) string {
	s = strings.TrimSpace(s)
	if strings.HasPrefix(s, "```") {
		s = strings.TrimPrefix(s, "```json")
		s = strings.TrimPrefix(s, "```")
		s = strings.TrimSuffix(strings.TrimSpace(s), "```")
	}
	return strings.TrimSpace(s)
}

func hostnameOf(rawURL string) string {
	u, err := url.Parse(rawURL)
	if err != nil || u.Hostname() == "" {
		return rawURL
	}
	return u.Hostname()
}
