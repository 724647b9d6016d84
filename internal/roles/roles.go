// Package roles classifies players into qualitative status tags and folds
// the tags' numeric effects into club-level bonuses.
package roles

import "github.com/talgya/touchline/internal/league"

// Role identifiers.
const (
	Wonderkid          league.RoleID = "wonderkid"
	Prospect           league.RoleID = "prospect"
	VeteranMentor      league.RoleID = "veteran_mentor"
	Workhorse          league.RoleID = "workhorse"
	IronMan            league.RoleID = "iron_man"
	SetPieceSpecialist league.RoleID = "set_piece_specialist"
	DressingRoomLeader league.RoleID = "dressing_room_leader"
	FanFavorite        league.RoleID = "fan_favorite"
	Superstar          league.RoleID = "superstar"
	ClubIcon           league.RoleID = "club_icon"
)

// Tier is a role's rarity. Tier 3 roles are capped per club.
type Tier int

const (
	Tier1 Tier = 1
	Tier2 Tier = 2
	Tier3 Tier = 3
)

// Role is one variant of the closed role enumeration.
type Role struct {
	ID   league.RoleID
	Name string
	Tier Tier

	// AgeSensitive roles are dropped when the predicate stops holding.
	// Every other role is kept once earned.
	AgeSensitive bool
	// ClubBound roles are lost when the player changes club.
	ClubBound bool

	Eligible func(p *league.Player, c *league.Club) bool
	Effect   func(p *league.Player) league.RoleEffects
}

// catalog is ordered by rarity, rarest last, so grants fill common roles first.
var catalog = []Role{
	{
		ID: Prospect, Name: "Prospect", Tier: Tier1, AgeSensitive: true,
		Eligible: func(p *league.Player, _ *league.Club) bool {
			return p.Age <= 21 && p.Potential-p.Overall >= 12
		},
		Effect: func(*league.Player) league.RoleEffects {
			return league.RoleEffects{Growth: 0.05}
		},
	},
	{
		ID: Workhorse, Name: "Workhorse", Tier: Tier1,
		Eligible: func(p *league.Player, _ *league.Club) bool {
			return p.Attributes.Physical >= 80 && p.Fitness >= 80
		},
		Effect: func(*league.Player) league.RoleEffects {
			return league.RoleEffects{InjuryResistance: 0.05}
		},
	},
	{
		ID: IronMan, Name: "Iron Man", Tier: Tier1,
		Eligible: func(p *league.Player, _ *league.Club) bool {
			return p.Stats.Season.Appearances >= 30 && !p.IsInjured()
		},
		Effect: func(*league.Player) league.RoleEffects {
			return league.RoleEffects{InjuryResistance: 0.08}
		},
	},
	{
		ID: SetPieceSpecialist, Name: "Set-Piece Specialist", Tier: Tier1,
		Eligible: func(p *league.Player, _ *league.Club) bool {
			return p.Attributes.SetPieces >= 82
		},
		Effect: func(*league.Player) league.RoleEffects {
			return league.RoleEffects{MatchRevenue: 0.01, Morale: 0.5}
		},
	},
	{
		ID: Wonderkid, Name: "Wonderkid", Tier: Tier2, AgeSensitive: true,
		Eligible: func(p *league.Player, _ *league.Club) bool {
			return p.Age <= 20 && p.Potential >= 85
		},
		Effect: func(p *league.Player) league.RoleEffects {
			return league.RoleEffects{
				Growth:      0.10 + float64(p.Potential-85)*0.01,
				Merchandise: 0.02,
			}
		},
	},
	{
		ID: VeteranMentor, Name: "Veteran Mentor", Tier: Tier2,
		Eligible: func(p *league.Player, _ *league.Club) bool {
			return p.Age >= 31 && p.Overall >= 70
		},
		Effect: func(*league.Player) league.RoleEffects {
			return league.RoleEffects{Growth: 0.04, Morale: 1}
		},
	},
	{
		ID: DressingRoomLeader, Name: "Dressing Room Leader", Tier: Tier2, ClubBound: true,
		Eligible: func(p *league.Player, c *league.Club) bool {
			return p.Attributes.Mental >= 80 && p.Age >= 26 && p.ClubAppearances >= 30
		},
		Effect: func(p *league.Player) league.RoleEffects {
			return league.RoleEffects{Morale: 2 + float64(p.Attributes.Mental-80)*0.1}
		},
	},
	{
		ID: FanFavorite, Name: "Fan Favorite", Tier: Tier2, ClubBound: true,
		Eligible: func(p *league.Player, _ *league.Club) bool {
			if p.ClubAppearances >= 60 {
				return true
			}
			return p.Stats.Season.Appearances >= 15 && p.Stats.Season.AverageRating() >= 7.2
		},
		Effect: func(*league.Player) league.RoleEffects {
			return league.RoleEffects{Merchandise: 0.05, MatchRevenue: 0.03, Morale: 1}
		},
	},
	{
		ID: Superstar, Name: "Superstar", Tier: Tier3,
		Eligible: func(p *league.Player, _ *league.Club) bool {
			return p.Overall >= 88
		},
		Effect: func(p *league.Player) league.RoleEffects {
			return league.RoleEffects{
				Merchandise:  0.15 + float64(p.Overall-88)*0.02,
				MatchRevenue: 0.10,
			}
		},
	},
	{
		ID: ClubIcon, Name: "Club Icon", Tier: Tier3, ClubBound: true,
		Eligible: func(p *league.Player, c *league.Club) bool {
			if p.ClubAppearances < 150 {
				return false
			}
			// Smaller clubs canonize lesser players.
			if c != nil && c.Reputation < 60 {
				return p.Overall >= 75
			}
			return p.Overall >= 82
		},
		Effect: func(*league.Player) league.RoleEffects {
			return league.RoleEffects{Merchandise: 0.20, MatchRevenue: 0.15, Morale: 3}
		},
	},
}

// Rarest is the role with a single club-wide holder.
const Rarest = ClubIcon

// All returns the role catalog.
func All() []Role { return catalog }

// Lookup finds a role by id.
func Lookup(id league.RoleID) (Role, bool) {
	for _, r := range catalog {
		if r.ID == id {
			return r, true
		}
	}
	return Role{}, false
}

// Classify returns every role whose predicate p currently satisfies at c.
// It ignores tier caps and stickiness.
func Classify(p *league.Player, c *league.Club) []league.RoleID {
	var out []league.RoleID
	for _, r := range catalog {
		if r.Eligible(p, c) {
			out = append(out, r.ID)
		}
	}
	return out
}

// DropClubBound removes roles that do not survive a move between clubs.
func DropClubBound(p *league.Player) {
	for _, id := range append([]league.RoleID(nil), p.Roles...) {
		if r, ok := Lookup(id); !ok || r.ClubBound {
			p.RemoveRole(id)
		}
	}
}
