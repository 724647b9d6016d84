package llm

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"strings"

	"github.com/talgya/touchline/internal/league"
	"github.com/talgya/touchline/internal/news"
)

const reporterSystem = `You are a football correspondent for "The Touchline Gazette". You are given one structured fact from the day's football and a plain draft. Rewrite it as a short news item in a lively tabloid-sports register. Use only the names and numbers in the fact. Reply with the headline on the first line, then a blank line, then at most three sentences of body text.`

// Reporter renders facts through the LLM, falling back to another
// renderer when the client is disabled or a call fails.
type Reporter struct {
	client   *Client
	fallback news.Renderer
}

// NewReporter creates a Reporter. A nil fallback means news.Templates.
func NewReporter(client *Client, fallback news.Renderer) *Reporter {
	if fallback == nil {
		fallback = news.Templates{}
	}
	return &Reporter{client: client, fallback: fallback}
}

// Render implements news.Renderer.
func (r *Reporter) Render(ctx context.Context, f news.Fact) (league.NewsItem, error) {
	item, err := r.fallback.Render(ctx, f)
	if err != nil {
		return item, err
	}
	if !r.client.Enabled() || !newsworthy(f) {
		return item, nil
	}

	payload, err := json.Marshal(f)
	if err != nil {
		return item, fmt.Errorf("marshal %s fact: %w", f.Kind(), err)
	}
	var b strings.Builder
	fmt.Fprintf(&b, "FACT (%s, %s):\n%s\n\n", f.Kind(), f.Day(), payload)
	fmt.Fprintf(&b, "DRAFT:\n%s\n%s\n", item.Headline, item.Body)

	text, err := r.client.Complete(ctx, reporterSystem, b.String(), 300)
	if err != nil {
		slog.Warn("reporter fell back to template", "kind", f.Kind(), "error", err)
		return item, nil
	}
	if headline, body := splitStory(text); headline != "" {
		item.Headline = headline
		if body != "" {
			item.Body = body
		}
	}
	return item, nil
}

// newsworthy limits API calls to the fact kinds readers care about.
func newsworthy(f news.Fact) bool {
	switch f.Kind() {
	case news.KindMatch, news.KindTransfer, news.KindCrisis, news.KindAward, news.KindSeasonEnd:
		return true
	}
	return false
}

func splitStory(text string) (string, string) {
	text = strings.TrimSpace(text)
	headline, body, _ := strings.Cut(text, "\n")
	headline = strings.Trim(strings.TrimSpace(headline), "#* ")
	return headline, strings.TrimSpace(body)
}
