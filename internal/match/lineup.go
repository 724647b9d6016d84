package match

import (
	"strconv"
	"strings"

	"github.com/talgya/touchline/internal/entropy"
	"github.com/talgya/touchline/internal/league"
)

type shape struct {
	defenders, midfielders, forwards int
}

var defaultShape = shape{4, 4, 2}

// parseFormation reads "4-4-2" style strings. Anything that does not
// describe ten outfield players falls back to 4-4-2.
func parseFormation(s string) shape {
	parts := strings.Split(s, "-")
	if len(parts) < 2 {
		return defaultShape
	}
	nums := make([]int, len(parts))
	total := 0
	for i, part := range parts {
		n, err := strconv.Atoi(strings.TrimSpace(part))
		if err != nil || n < 0 {
			return defaultShape
		}
		nums[i] = n
		total += n
	}
	if total != 10 {
		return defaultShape
	}
	mids := 0
	for _, n := range nums[1 : len(nums)-1] {
		mids += n
	}
	return shape{defenders: nums[0], midfielders: mids, forwards: nums[len(nums)-1]}
}

// SelectLineup picks the best available eleven for the club's formation,
// filling gaps with the best remaining players regardless of position.
func SelectLineup(c *league.Club) []*league.Player {
	var avail []*league.Player
	for _, p := range c.Players {
		if !p.IsInjured() {
			avail = append(avail, p)
		}
	}
	league.SortByOverall(avail)

	sh := parseFormation(c.Tactics.Formation)
	slots := []struct {
		pos league.Position
		n   int
	}{
		{league.Goalkeeper, 1},
		{league.Defender, sh.defenders},
		{league.Midfielder, sh.midfielders},
		{league.Forward, sh.forwards},
	}

	used := make(map[league.PlayerID]bool)
	var xi []*league.Player
	for _, slot := range slots {
		taken := 0
		for _, p := range avail {
			if taken == slot.n {
				break
			}
			if !used[p.ID] && p.Position.Matches(slot.pos) {
				used[p.ID] = true
				xi = append(xi, p)
				taken++
			}
		}
	}
	for _, p := range avail {
		if len(xi) >= 11 {
			break
		}
		if !used[p.ID] {
			used[p.ID] = true
			xi = append(xi, p)
		}
	}
	return xi
}

// side is one team's live match state.
type side struct {
	club    *league.Club
	home    bool
	lineup  []*league.Player
	lines   map[league.PlayerID]*Line
	order   []league.PlayerID
	fatigue map[league.PlayerID]float64
	sentOff map[league.PlayerID]bool
	zone    float64
	goals   int
}

func newSide(c *league.Club, home bool) *side {
	sd := &side{
		club:    c,
		home:    home,
		lineup:  SelectLineup(c),
		lines:   make(map[league.PlayerID]*Line, len(c.Players)),
		fatigue: make(map[league.PlayerID]float64),
		sentOff: make(map[league.PlayerID]bool),
	}
	for _, p := range c.Players {
		sd.lines[p.ID] = &Line{PlayerID: p.ID, ClubID: c.ID, Position: p.Position}
		sd.order = append(sd.order, p.ID)
	}
	for _, p := range sd.lineup {
		l := sd.lines[p.ID]
		l.Appeared = true
		l.Rating = 6.0
		sd.fatigue[p.ID] = float64(100-p.Condition) / 250
	}
	return sd
}

func (sd *side) line(p *league.Player) *Line { return sd.lines[p.ID] }

func (sd *side) active() []*league.Player {
	out := make([]*league.Player, 0, len(sd.lineup))
	for _, p := range sd.lineup {
		if !sd.sentOff[p.ID] {
			out = append(out, p)
		}
	}
	return out
}

func (sd *side) outfield() []*league.Player {
	var out []*league.Player
	for _, p := range sd.active() {
		if p.Position != league.Goalkeeper {
			out = append(out, p)
		}
	}
	return out
}

// keeper is whoever is best placed to stand in goal.
func (sd *side) keeper() *league.Player {
	var best *league.Player
	for _, p := range sd.active() {
		if p.Position == league.Goalkeeper {
			return p
		}
		if best == nil || p.Attributes.Goalkeeping > best.Attributes.Goalkeeping {
			best = p
		}
	}
	return best
}

// sharpness scales a player's ratings down as fatigue builds.
func (sd *side) sharpness(p *league.Player) float64 {
	return 1 - 0.3*sd.fatigue[p.ID]
}

func attackWeight(p *league.Player) float64 {
	switch p.Position.Group() {
	case league.Forward:
		return 3
	case league.Midfielder:
		return 2
	}
	return 1
}

func defendWeight(p *league.Player) float64 {
	switch p.Position.Group() {
	case league.Defender:
		return 3
	case league.Midfielder:
		return 2
	}
	return 1
}

func pick(src entropy.Source, players []*league.Player, weight func(*league.Player) float64) *league.Player {
	if len(players) == 0 {
		return nil
	}
	total := 0.0
	for _, p := range players {
		total += weight(p)
	}
	r := src.Float64() * total
	for _, p := range players {
		r -= weight(p)
		if r < 0 {
			return p
		}
	}
	return players[len(players)-1]
}

func (sd *side) pickTeammate(src entropy.Source, not league.PlayerID) *league.Player {
	var mates []*league.Player
	for _, p := range sd.outfield() {
		if p.ID != not {
			mates = append(mates, p)
		}
	}
	if len(mates) == 0 {
		return nil
	}
	return mates[src.Intn(len(mates))]
}

// setPieceTaker is the active player with the best set pieces.
func (sd *side) setPieceTaker() *league.Player {
	var best *league.Player
	for _, p := range sd.outfield() {
		if best == nil || p.Attributes.SetPieces > best.Attributes.SetPieces {
			best = p
		}
	}
	return best
}
