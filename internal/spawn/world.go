// Package spawn creates the starting world: leagues, clubs with full
// squads, and each league's first fixture list.
package spawn

import (
	"fmt"
	"log/slog"
	"math"
	"strings"

	"github.com/dustin/go-humanize"

	"github.com/talgya/touchline/internal/calendar"
	"github.com/talgya/touchline/internal/engine"
	"github.com/talgya/touchline/internal/entropy"
	"github.com/talgya/touchline/internal/league"
)

// Config controls world generation.
type Config struct {
	Seed           int64
	Start          calendar.Date
	Leagues        int
	ClubsPerLeague int
	SquadSize      int
	HumanClub      string // club name; empty picks the weakest top-flight club
	Schedule       Scheduler
}

// Spawner builds a world from one seeded source.
type Spawner struct {
	src entropy.Source
	gs  *league.GameState
}

// NewSpawner creates a spawner with the given seed.
func NewSpawner(seed int64) *Spawner {
	return &Spawner{
		src: entropy.NewSeeded(seed + 300),
		gs:  &league.GameState{Seed: seed},
	}
}

// NewWorld generates a complete career state.
func NewWorld(cfg Config) (*league.GameState, error) {
	if cfg.Leagues < 1 {
		return nil, fmt.Errorf("need at least one league, got %d", cfg.Leagues)
	}
	if cfg.ClubsPerLeague < 2 || cfg.ClubsPerLeague%2 != 0 {
		return nil, fmt.Errorf("clubs per league must be even and at least 2, got %d", cfg.ClubsPerLeague)
	}
	if cfg.SquadSize < 16 {
		cfg.SquadSize = 16
	}

	s := NewSpawner(cfg.Seed)
	s.gs.Date = cfg.Start
	names := s.clubNames(cfg.Leagues * cfg.ClubsPerLeague)

	for tier := 0; tier < cfg.Leagues; tier++ {
		l := s.league(tier, cfg.Start)
		for i := 0; i < cfg.ClubsPerLeague; i++ {
			c := s.club(l, tier, i, names[tier*cfg.ClubsPerLeague+i])
			s.fillSquad(c, cfg.SquadSize, l, cfg.Start)
			l.Clubs = append(l.Clubs, c)
		}
		s.pairRivals(l)
		l.Fixtures = cfg.Schedule.Fixtures(l, cfg.Start)
		engine.EnterCompetitions(l)
		s.gs.Leagues = append(s.gs.Leagues, l)
	}

	human, err := s.humanClub(cfg.HumanClub)
	if err != nil {
		return nil, err
	}
	s.gs.HumanClubID = human.ID

	players := 0
	for _, l := range s.gs.Leagues {
		for _, c := range l.Clubs {
			players += len(c.Players)
		}
	}
	slog.Info("world generated",
		"seed", cfg.Seed,
		"leagues", len(s.gs.Leagues),
		"clubs", cfg.Leagues*cfg.ClubsPerLeague,
		"players", players,
		"human_club", human.Name,
		"budget", humanize.Comma(human.Budget),
	)
	return s.gs, nil
}

func (s *Spawner) league(tier int, start calendar.Date) *league.League {
	name := fmt.Sprintf("Division %d", tier+1)
	if tier < len(leagueNames) {
		name = leagueNames[tier]
	}
	return &league.League{
		ID:                  fmt.Sprintf("l%d", tier+1),
		Name:                name,
		Season:              1,
		SeasonStart:         start,
		SeasonEnd:           start.AddYears(1).AddDays(-1),
		EconomicCoefficient: math.Max(0.4, 1-0.15*float64(tier)),
		InflationRate:       0.02,
		Strictness:          entropy.Between(s.src, 0.85, 1.15),
	}
}

// clubNames draws n distinct "<town> <suffix>" names.
func (s *Spawner) clubNames(n int) []string {
	order := make([]string, len(towns))
	copy(order, towns)
	entropy.Shuffle(s.src, len(order), func(i, j int) { order[i], order[j] = order[j], order[i] })
	names := make([]string, n)
	for i := range names {
		town := order[i%len(order)]
		if i >= len(order) {
			town = fmt.Sprintf("%s %d", town, i/len(order)+1)
		}
		names[i] = town + " " + suffixes[s.src.Intn(len(suffixes))]
	}
	return names
}

func (s *Spawner) club(l *league.League, tier, rank int, name string) *league.Club {
	rep := 78 - 14*tier - rank*3/2 + s.src.Intn(8)
	if rep < 5 {
		rep = 5
	}
	facility := func() int {
		lvl := 1 + rep/30 + s.src.Intn(2)
		if lvl > league.MaxFacilityLevel {
			lvl = league.MaxFacilityLevel
		}
		return lvl
	}
	levels := []league.Level{league.Low, league.Medium, league.High}
	styles := []league.Style{league.Possession, league.Balanced, league.Direct, league.Counter}
	tackling := []league.Tackling{league.Cautious, league.Normal, league.Aggressive}

	budget := int64(rep*rep) * 6000
	var debt int64
	if s.src.Intn(3) == 0 {
		debt = budget / 2
	}
	return &league.Club{
		ID:              league.ClubID(s.gs.NewID("club")),
		Name:            name,
		LeagueID:        l.ID,
		Reputation:      rep,
		Budget:          budget,
		Debt:            debt,
		FanHappiness:    55 + s.src.Intn(16),
		JobSecurity:     60,
		Fanbase:         rep * 800,
		CommercialLevel: 1,
		Tactics: league.Tactics{
			Formation:  formations[s.src.Intn(len(formations))],
			Pressing:   levels[s.src.Intn(len(levels))],
			LineHeight: levels[s.src.Intn(len(levels))],
			Tempo:      levels[s.src.Intn(len(levels))],
			Style:      styles[s.src.Intn(len(styles))],
			Tackling:   tackling[s.src.Intn(len(tackling))],
		},
		Facilities: league.Facilities{
			YouthAcademy:   facility(),
			TrainingGround: facility(),
			MedicalCenter:  facility(),
			Stadium:        facility(),
		},
		Strategy: league.FinanceStrategy{
			TicketPricing:    league.Medium,
			DebtRepayment:    league.Medium,
			MerchandiseFocus: league.Medium,
		},
	}
}

// fillSquad gives c a squad in roughly 3:7:7:5 proportions.
func (s *Spawner) fillSquad(c *league.Club, size int, l *league.League, start calendar.Date) {
	gks := max(2, size*3/22)
	defs := size * 7 / 22
	mids := size * 7 / 22
	fwds := size - gks - defs - mids
	base := 44 + float64(c.Reputation)*0.32

	for i := 0; i < gks; i++ {
		c.AddPlayer(s.player(league.Goalkeeper, base, l, start))
	}
	for i := 0; i < defs; i++ {
		c.AddPlayer(s.player(league.Defender, base, l, start))
	}
	for i := 0; i < mids; i++ {
		c.AddPlayer(s.player(league.Midfielder, base, l, start))
	}
	for i := 0; i < fwds; i++ {
		pos := league.Forward
		if i%3 == 2 {
			pos = league.Striker
		}
		c.AddPlayer(s.player(pos, base, l, start))
	}
}

func (s *Spawner) player(pos league.Position, base float64, l *league.League, start calendar.Date) *league.Player {
	age := int(math.Round(25 + s.src.NormFloat64()*4))
	age = min(max(age, 17), 35)
	level := base + s.src.NormFloat64()*6

	p := &league.Player{
		ID:        league.PlayerID(s.gs.NewID("player")),
		Name:      firstNames[s.src.Intn(len(firstNames))] + " " + lastNames[s.src.Intn(len(lastNames))],
		Position:  pos,
		Age:       age,
		Potential: league.MaxRating,
		Condition: 100,
		Fitness:   85 + s.src.Intn(16),
		Morale:    55 + s.src.Intn(21),
		Form:      6.5,
	}
	key := make(map[league.Attribute]bool)
	for _, a := range league.KeyAttributes(pos) {
		key[a] = true
	}
	for _, a := range league.AllAttributes {
		switch {
		case key[a]:
			p.Attributes.Set(a, int(math.Round(level+s.src.NormFloat64()*5)))
		case a == league.Goalkeeping:
			p.Attributes.Set(a, 10+s.src.Intn(15))
		default:
			p.Attributes.Set(a, int(math.Round(level-15+s.src.NormFloat64()*6)))
		}
	}
	p.Recalculate()

	headroom := s.src.Intn(3)
	switch {
	case age < 21:
		headroom = 8 + s.src.Intn(15)
	case age < 25:
		headroom = 3 + s.src.Intn(8)
	}
	p.Potential = league.ClampRating(p.Overall + headroom)

	p.Salary = int64(float64(p.Overall*p.Overall) * 150 * l.WageCoefficient())
	p.MarketValue = MarketValue(p)
	p.ContractEnd = start.AddYears(1 + s.src.Intn(4))
	return p
}

// MarketValue estimates what a player is worth from ability and age.
func MarketValue(p *league.Player) int64 {
	v := 400_000 * math.Pow(1.1, float64(p.Overall-50))
	switch {
	case p.Age < 24:
		v *= 1.3
	case p.Age > 30:
		v *= 0.6
	}
	if p.Potential-p.Overall >= 10 {
		v *= 1.2
	}
	return int64(v/10_000) * 10_000
}

// pairRivals makes neighbouring clubs in a shuffled order mutual rivals.
func (s *Spawner) pairRivals(l *league.League) {
	order := make([]*league.Club, len(l.Clubs))
	copy(order, l.Clubs)
	entropy.Shuffle(s.src, len(order), func(i, j int) { order[i], order[j] = order[j], order[i] })
	for i := 0; i+1 < len(order); i += 2 {
		a, b := order[i], order[i+1]
		a.Rivals = append(a.Rivals, b.ID)
		b.Rivals = append(b.Rivals, a.ID)
	}
}

func (s *Spawner) humanClub(name string) (*league.Club, error) {
	if name != "" {
		for _, l := range s.gs.Leagues {
			for _, c := range l.Clubs {
				if strings.EqualFold(c.Name, name) {
					return c, nil
				}
			}
		}
		return nil, fmt.Errorf("human club %q not found", name)
	}
	top := s.gs.Leagues[0].Clubs
	weakest := top[0]
	for _, c := range top[1:] {
		if c.Reputation < weakest.Reputation {
			weakest = c
		}
	}
	return weakest, nil
}
