package roles

import (
	"log/slog"

	"github.com/talgya/touchline/internal/league"
)

// Config holds the role caps.
type Config struct {
	Tier3Cap int   `yaml:"tier3_cap"`
	Caps     []Cap `yaml:"caps"`
}

// Cap bounds one aggregate effect field.
type Cap struct {
	Field   string  `yaml:"field"`
	Ceiling float64 `yaml:"ceiling"`
}

// DefaultConfig returns the standard cap policy.
func DefaultConfig() Config {
	return Config{
		Tier3Cap: 3,
		Caps: []Cap{
			{Field: "match_revenue", Ceiling: 0.50},
			{Field: "merchandise", Ceiling: 0.60},
			{Field: "growth", Ceiling: 0.50},
			{Field: "injury_resistance", Ceiling: 0.50},
			{Field: "morale", Ceiling: 10},
		},
	}
}

// Change is one grant or removal made by Evaluate.
type Change struct {
	PlayerID league.PlayerID
	Role     league.RoleID
	Granted  bool
}

// Evaluate re-runs eligibility for every rostered player. Age-sensitive
// roles are dropped once ineligible; the rest are sticky. Tier 3 grants stop
// at the club cap and the rarest role has at most one holder. Holdings
// above either limit, as after a transfer in, are trimmed from the
// lowest-rated holders. The club's aggregate effects are refreshed afterwards.
func Evaluate(c *league.Club, cfg Config) []Change {
	var changes []Change

	roster := make([]*league.Player, len(c.Players))
	copy(roster, c.Players)
	league.SortByOverall(roster)

	for _, p := range roster {
		for _, id := range append([]league.RoleID(nil), p.Roles...) {
			r, ok := Lookup(id)
			if ok && (!r.AgeSensitive || r.Eligible(p, c)) {
				continue
			}
			p.RemoveRole(id)
			changes = append(changes, Change{PlayerID: p.ID, Role: id})
		}
	}

	changes = append(changes, trimTier3(roster, cfg.Tier3Cap)...)
	tier3, rarest := countTier3(roster)

	for _, p := range roster {
		for _, r := range catalog {
			if p.HasRole(r.ID) || !r.Eligible(p, c) {
				continue
			}
			if r.Tier == Tier3 {
				if tier3 >= cfg.Tier3Cap {
					continue
				}
				if r.ID == Rarest && rarest >= 1 {
					continue
				}
				tier3++
				if r.ID == Rarest {
					rarest++
				}
			}
			p.AddRole(r.ID)
			changes = append(changes, Change{PlayerID: p.ID, Role: r.ID, Granted: true})
		}
	}

	c.RoleEffects = Aggregate(c, cfg.Caps)

	if len(changes) > 0 {
		slog.Debug("roles evaluated", "club", c.Name, "changes", len(changes))
	}
	return changes
}

// Enforce trims the club's Tier 3 holdings to the caps and refreshes its
// aggregate effects. Transfers call it when a player arrives.
func Enforce(c *league.Club, cfg Config) []Change {
	roster := make([]*league.Player, len(c.Players))
	copy(roster, c.Players)
	league.SortByOverall(roster)
	changes := trimTier3(roster, cfg.Tier3Cap)
	c.RoleEffects = Aggregate(c, cfg.Caps)
	return changes
}

// trimTier3 removes Tier 3 roles beyond the cap, walking roster best
// first so the strongest holders keep theirs.
func trimTier3(roster []*league.Player, limit int) []Change {
	var changes []Change
	tier3, rarest := 0, 0
	for _, p := range roster {
		for _, id := range append([]league.RoleID(nil), p.Roles...) {
			r, ok := Lookup(id)
			if !ok || r.Tier != Tier3 {
				continue
			}
			if tier3 >= limit || (id == Rarest && rarest >= 1) {
				p.RemoveRole(id)
				changes = append(changes, Change{PlayerID: p.ID, Role: id})
				continue
			}
			tier3++
			if id == Rarest {
				rarest++
			}
		}
	}
	return changes
}

func countTier3(players []*league.Player) (tier3, rarest int) {
	for _, p := range players {
		for _, id := range p.Roles {
			r, ok := Lookup(id)
			if !ok || r.Tier != Tier3 {
				continue
			}
			tier3++
			if id == Rarest {
				rarest++
			}
		}
	}
	return tier3, rarest
}

// Aggregate sums every held role's effect across the roster, then applies
// the cap list.
func Aggregate(c *league.Club, caps []Cap) league.RoleEffects {
	var total league.RoleEffects
	for _, p := range c.Players {
		add(&total, PlayerEffects(p))
	}
	for _, cp := range caps {
		if f := effectField(&total, cp.Field); f != nil && *f > cp.Ceiling {
			*f = cp.Ceiling
		}
	}
	return total
}

// PlayerEffects is the uncapped sum of one player's roles.
func PlayerEffects(p *league.Player) league.RoleEffects {
	var total league.RoleEffects
	for _, id := range p.Roles {
		if r, ok := Lookup(id); ok {
			add(&total, r.Effect(p))
		}
	}
	return total
}

func add(total *league.RoleEffects, e league.RoleEffects) {
	total.Growth += e.Growth
	total.InjuryResistance += e.InjuryResistance
	total.MatchRevenue += e.MatchRevenue
	total.Merchandise += e.Merchandise
	total.Morale += e.Morale
}

func effectField(e *league.RoleEffects, name string) *float64 {
	switch name {
	case "growth":
		return &e.Growth
	case "injury_resistance":
		return &e.InjuryResistance
	case "match_revenue":
		return &e.MatchRevenue
	case "merchandise":
		return &e.Merchandise
	case "morale":
		return &e.Morale
	}
	return nil
}
