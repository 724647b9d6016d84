package llm

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/talgya/touchline/internal/league"
)

// DigestData holds the raw material for a weekly round-up.
type DigestData struct {
	Date       string
	LeagueName string
	Standings  []StandingSummary
	Items      []league.NewsItem
}

// StandingSummary is one table row.
type StandingSummary struct {
	Name           string
	Played         int
	Points         int
	GoalDifference int
	Form           string
}

// Digest is a generated round-up.
type Digest struct {
	GeneratedAt time.Time `json:"generated_at"`
	Date        string    `json:"date"`
	Content     string    `json:"content"`
}

// GenerateDigest writes the week's round-up, falling back to a plain
// listing when the client is disabled or the call fails.
func GenerateDigest(ctx context.Context, client *Client, data *DigestData) *Digest {
	d := &Digest{GeneratedAt: time.Now(), Date: data.Date}
	if !client.Enabled() {
		d.Content = fallbackDigest(data)
		return d
	}

	system := `You are the editor of "The Touchline Gazette". Write the weekly league round-up: lead with the biggest story, summarise the table, and close with one line on what to watch next week. Keep it under 350 words. Use only the facts provided.`

	content, err := client.Complete(ctx, system, buildDigestPrompt(data), 700)
	if err != nil {
		d.Content = fallbackDigest(data)
		return d
	}
	d.Content = content
	return d
}

func buildDigestPrompt(data *DigestData) string {
	var b strings.Builder
	fmt.Fprintf(&b, "LEAGUE: %s\nDATE: %s\n\n", data.LeagueName, data.Date)
	writeTable(&b, data.Standings)
	if len(data.Items) > 0 {
		b.WriteString("THIS WEEK:\n")
		for i, it := range data.Items {
			if i >= 25 {
				break
			}
			fmt.Fprintf(&b, "- [%s] %s: %s\n", it.Kind, it.Headline, it.Body)
		}
	}
	return b.String()
}

func writeTable(b *strings.Builder, rows []StandingSummary) {
	if len(rows) == 0 {
		return
	}
	b.WriteString("TABLE:\n")
	for i, s := range rows {
		fmt.Fprintf(b, "%2d. %-22s P%-3d Pts %-3d GD %+d  %s\n", i+1, s.Name, s.Played, s.Points, s.GoalDifference, s.Form)
	}
	b.WriteString("\n")
}

func fallbackDigest(data *DigestData) string {
	var b strings.Builder
	fmt.Fprintf(&b, "THE TOUCHLINE GAZETTE | %s, %s\n\n", data.LeagueName, data.Date)
	writeTable(&b, data.Standings)
	for i, it := range data.Items {
		if i >= 10 {
			break
		}
		fmt.Fprintf(&b, "* %s\n", it.Headline)
	}
	if len(data.Items) == 0 {
		b.WriteString("A quiet week around the grounds.\n")
	}
	return b.String()
}
