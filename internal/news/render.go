package news

import (
	"context"
	"fmt"
	"strings"

	"github.com/dustin/go-humanize"

	"github.com/talgya/touchline/internal/league"
)

// Renderer turns a fact into a display item. The engine never reads the
// rendered text back.
type Renderer interface {
	Render(ctx context.Context, f Fact) (league.NewsItem, error)
}

// Money formats a currency amount with thousands separators.
func Money(v int64) string {
	return "£" + humanize.Comma(v)
}

// Templates renders facts from fixed templates.
type Templates struct{}

// Render picks a narrative category from the fact's numbers and fills it in.
func (Templates) Render(_ context.Context, f Fact) (league.NewsItem, error) {
	item := league.NewsItem{Date: f.Day(), Kind: string(f.Kind())}
	switch v := f.(type) {
	case MatchFact:
		item.Headline, item.Body = renderMatch(v)
	case TransferFact:
		item.Headline, item.Body = renderTransfer(v)
	case NegotiationFact:
		item.Headline = fmt.Sprintf("%s talks: %s", v.PlayerName, v.Phase.Status())
		item.Body = fmt.Sprintf("%s and %s over %s (%s).", v.Buyer.Name, v.Seller.Name, v.PlayerName, Money(v.Fee))
		if v.Reason != "" {
			item.Body += " " + v.Reason
		}
	case InjuryFact:
		if v.Returned {
			item.Headline = fmt.Sprintf("%s back in training", v.PlayerName)
			item.Body = fmt.Sprintf("%s have %s available again after a %s.", v.Club.Name, v.PlayerName, v.Injury)
		} else {
			item.Headline = fmt.Sprintf("Blow for %s as %s is injured", v.Club.Name, v.PlayerName)
			item.Body = fmt.Sprintf("%s suffered a %s and is expected to miss %d days.", v.PlayerName, v.Injury, v.Days)
		}
	case StreakFact:
		if v.Streak > 0 {
			item.Headline = fmt.Sprintf("%s on a %d-match winning run", v.Club.Name, v.Streak)
		} else {
			item.Headline = fmt.Sprintf("%s slump to %d straight defeats", v.Club.Name, -v.Streak)
		}
	case CrisisFact:
		item.Headline, item.Body = renderCrisis(v)
	case AwardFact:
		item.Headline = fmt.Sprintf("%s named %s player of the month", v.PlayerName, v.LeagueName)
		item.Body = fmt.Sprintf("The %s player averaged %.2f with %d goals in %s.", v.Club.Name, v.AverageRating, v.Goals, v.Month)
	case FacilityFact:
		item.Headline = fmt.Sprintf("%s complete %s upgrade", v.Club.Name, strings.ReplaceAll(string(v.Facility), "_", " "))
		item.Body = fmt.Sprintf("The facility now stands at level %d.", v.Level)
	case SeasonFact:
		item.Headline = fmt.Sprintf("%s season %d is over", v.LeagueName, v.Season)
		item.Body = fmt.Sprintf("%s finish top with %d points.", v.Leader.Name, v.Points)
	default:
		return item, fmt.Errorf("no template for fact kind %q", f.Kind())
	}
	return item, nil
}

func renderMatch(m MatchFact) (string, string) {
	score := fmt.Sprintf("%s %d-%d %s", m.Home.Name, m.HomeGoals, m.AwayGoals, m.Away.Name)
	var headline string
	switch {
	case m.Penalties:
		headline = fmt.Sprintf("Shootout drama: %s", score)
	case m.IsDerby:
		headline = fmt.Sprintf("Derby day: %s", score)
	case m.IsUpset:
		headline = fmt.Sprintf("Upset! %s", score)
	case m.Margin() >= 4:
		headline = fmt.Sprintf("Rout: %s", score)
	default:
		headline = score
	}
	var b strings.Builder
	fmt.Fprintf(&b, "%s", m.Competition)
	if m.Round != "" {
		fmt.Fprintf(&b, " %s", m.Round)
	}
	fmt.Fprintf(&b, " in front of %s.", humanize.Comma(int64(m.Attendance)))
	if len(m.Scorers) > 0 {
		fmt.Fprintf(&b, " Scorers: %s.", strings.Join(m.Scorers, ", "))
	}
	if m.ManOfMatch != "" {
		fmt.Fprintf(&b, " Man of the match: %s.", m.ManOfMatch)
	}
	return headline, b.String()
}

func renderTransfer(t TransferFact) (string, string) {
	var headline string
	switch {
	case t.IsChain:
		headline = fmt.Sprintf("%s move quickly to replace %s with %s", t.Buyer.Name, t.Replacing, t.PlayerName)
	case t.IsRecord:
		headline = fmt.Sprintf("Record deal: %s joins %s for %s", t.PlayerName, t.Buyer.Name, Money(t.Fee))
	case t.IsBargain:
		headline = fmt.Sprintf("Bargain: %s snap up %s", t.Buyer.Name, t.PlayerName)
	case t.IsProspect:
		headline = fmt.Sprintf("%s land highly rated %s", t.Buyer.Name, t.PlayerName)
	default:
		headline = fmt.Sprintf("%s signs for %s", t.PlayerName, t.Buyer.Name)
	}
	body := fmt.Sprintf("The %d-year-old %s (rated %d) leaves %s for %s, valued at %s.",
		t.Age, t.Position, t.Overall, t.Seller.Name, Money(t.Fee), Money(t.MarketValue))
	return headline, body
}

func renderCrisis(c CrisisFact) (string, string) {
	switch c.Crisis {
	case CrisisBudget:
		return fmt.Sprintf("%s in the red", c.Club.Name),
			fmt.Sprintf("The club's balance has fallen to %s.", Money(c.Value))
	case CrisisJobSecurity:
		return fmt.Sprintf("Board losing patience at %s", c.Club.Name),
			fmt.Sprintf("Job security has dropped to %d.", c.Value)
	case CrisisWinless:
		return fmt.Sprintf("%s without a win in %d", c.Club.Name, c.Value),
			"Pressure mounts after another winless outing."
	}
	return fmt.Sprintf("Trouble at %s", c.Club.Name), ""
}
