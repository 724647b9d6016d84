// Package progression advances players one day: condition and fitness
// recovery, injuries, youth growth and veteran decline.
package progression

import (
	"log/slog"
	"time"

	"github.com/talgya/touchline/internal/calendar"
	"github.com/talgya/touchline/internal/entropy"
	"github.com/talgya/touchline/internal/league"
	"github.com/talgya/touchline/internal/news"
	"github.com/talgya/touchline/internal/roles"
)

// Config tunes daily progression.
type Config struct {
	YouthAge            int     `yaml:"youth_age"`
	VeteranAge          int     `yaml:"veteran_age"`
	BaseGrowthChance    float64 `yaml:"base_growth_chance"`
	BaseDeclineChance   float64 `yaml:"base_decline_chance"`
	LongInjuryDays      int     `yaml:"long_injury_days"`
	RecalcEvery         int     `yaml:"recalc_every"`
	BaseInjuryChance    float64 `yaml:"base_injury_chance"`
	FatigueThreshold    int     `yaml:"fatigue_threshold"`
	FatigueMultiplier   float64 `yaml:"fatigue_multiplier"`
	RestCondition       int     `yaml:"rest_condition"`
	RestFitness         int     `yaml:"rest_fitness"`
	MinMentorAge        int     `yaml:"min_mentor_age"`
	MentorBonus         float64 `yaml:"mentor_bonus"`
	MaxInjuryResistance float64 `yaml:"max_injury_resistance"`
}

// DefaultConfig returns standard progression rates.
func DefaultConfig() Config {
	return Config{
		YouthAge:            23,
		VeteranAge:          31,
		BaseGrowthChance:    0.03,
		BaseDeclineChance:   0.004,
		LongInjuryDays:      60,
		RecalcEvery:         3,
		BaseInjuryChance:    0.002,
		FatigueThreshold:    60,
		FatigueMultiplier:   4,
		RestCondition:       8,
		RestFitness:         2,
		MinMentorAge:        30,
		MentorBonus:         1.25,
		MaxInjuryResistance: 0.8,
	}
}

// DayContext describes the day for one club.
type DayContext struct {
	Date   calendar.Date
	Played map[league.PlayerID]bool // players who appeared in a match today
}

type injuryKind struct {
	name     string
	min, max int
}

var injuryTable = []injuryKind{
	{"ankle sprain", 5, 14},
	{"hamstring strain", 7, 21},
	{"concussion", 5, 10},
	{"calf tear", 14, 35},
	{"groin strain", 10, 28},
	{"broken metatarsal", 40, 80},
	{"knee ligament damage", 45, 120},
}

// Progressor applies daily player development.
type Progressor struct {
	cfg Config
}

// New creates a Progressor.
func New(cfg Config) *Progressor {
	return &Progressor{cfg: cfg}
}

// Advance runs one day for every player at club c and returns injury facts.
func (pr *Progressor) Advance(c *league.Club, day DayContext, src entropy.Source) []news.Fact {
	var facts []news.Fact
	weekly := day.Date.Weekday() == time.Monday

	for _, p := range c.Players {
		if !day.Played[p.ID] {
			p.Condition = league.Clamp100(p.Condition + pr.cfg.RestCondition)
			p.Fitness = league.Clamp100(p.Fitness + pr.cfg.RestFitness)
		}

		if p.IsInjured() {
			if f := pr.heal(c, p, day, src); f != nil {
				facts = append(facts, f)
			}
		} else if f := pr.maybeInjure(c, p, day, src); f != nil {
			facts = append(facts, f)
		}

		if p.Age < pr.cfg.YouthAge && p.Potential > p.Overall {
			pr.grow(c, p, src)
		}
		if p.Age > pr.cfg.VeteranAge || (p.Injury != nil && p.Injury.DaysRemaining > pr.cfg.LongInjuryDays) {
			pr.decline(p, src)
		}

		if weekly && p.GrowthSinceRecalc > 0 {
			p.Recalculate()
		}

		pr.driftMorale(c, p)
	}
	return facts
}

func (pr *Progressor) heal(c *league.Club, p *league.Player, day DayContext, src entropy.Source) news.Fact {
	p.Injury.DaysRemaining--
	if entropy.Chance(src, 0.1*float64(c.Facilities.MedicalCenter)) {
		p.Injury.DaysRemaining--
	}
	if p.Injury.DaysRemaining > 0 {
		return nil
	}
	kind := p.Injury.Type
	p.Injury = nil
	return news.InjuryFact{
		Date: day.Date, PlayerID: p.ID, PlayerName: p.Name,
		Club: news.Ref(c), Injury: kind, Returned: true,
	}
}

// InjuryChance is the daily probability of a new injury for p at c.
func (pr *Progressor) InjuryChance(c *league.Club, p *league.Player) float64 {
	chance := pr.cfg.BaseInjuryChance
	if p.Fitness < pr.cfg.FatigueThreshold {
		chance *= pr.cfg.FatigueMultiplier
	}
	chance *= 1 - 0.08*float64(c.Facilities.MedicalCenter)
	resist := c.RoleEffects.InjuryResistance + roles.PlayerEffects(p).InjuryResistance
	if resist > pr.cfg.MaxInjuryResistance {
		resist = pr.cfg.MaxInjuryResistance
	}
	return chance * (1 - resist)
}

func (pr *Progressor) maybeInjure(c *league.Club, p *league.Player, day DayContext, src entropy.Source) news.Fact {
	if !entropy.Chance(src, pr.InjuryChance(c, p)) {
		return nil
	}
	kind := injuryTable[src.Intn(len(injuryTable))]
	days := kind.min + src.Intn(kind.max-kind.min+1)
	days = int(float64(days) * (1 - 0.05*float64(c.Facilities.MedicalCenter)))
	if days < 1 {
		days = 1
	}
	p.Injury = &league.Injury{Type: kind.name, DaysRemaining: days}
	p.Morale = league.Clamp100(p.Morale - 5)
	slog.Debug("player injured", "player", p.Name, "club", c.Name, "injury", kind.name, "days", days)
	return news.InjuryFact{
		Date: day.Date, PlayerID: p.ID, PlayerName: p.Name,
		Club: news.Ref(c), Injury: kind.name, Days: days,
	}
}

// GrowthChance is the daily probability that a young player gains a point.
func (pr *Progressor) GrowthChance(c *league.Club, p *league.Player) float64 {
	chance := pr.cfg.BaseGrowthChance
	chance *= 0.6 + 0.15*float64(c.Facilities.TrainingGround)
	chance *= 1 + c.RoleEffects.Growth
	if p.Age <= 19 {
		chance *= 1 + 0.05*float64(c.Facilities.YouthAcademy)
	}
	if pr.hasMentor(c, p) {
		chance *= pr.cfg.MentorBonus
	}
	chance *= 0.8 + p.Form/25
	chance *= 0.75 + float64(p.Morale)/200
	return chance
}

func (pr *Progressor) hasMentor(c *league.Club, p *league.Player) bool {
	if p.MentorID == "" {
		return false
	}
	m, ok := c.Player(p.MentorID)
	if !ok || m.Age < pr.cfg.MinMentorAge {
		p.MentorID = ""
		return false
	}
	return true
}

func (pr *Progressor) grow(c *league.Club, p *league.Player, src entropy.Source) {
	if !entropy.Chance(src, pr.GrowthChance(c, p)) {
		return
	}
	keys := league.KeyAttributes(p.Position)
	attr := keys[src.Intn(len(keys))]
	if v := p.Attributes.Get(attr); v < league.MaxRating {
		p.Attributes.Set(attr, v+1)
		p.GrowthSinceRecalc++
	}
	if p.GrowthSinceRecalc >= pr.cfg.RecalcEvery {
		p.Recalculate()
	}
}

func (pr *Progressor) decline(p *league.Player, src entropy.Source) {
	chance := pr.cfg.BaseDeclineChance
	if over := p.Age - pr.cfg.VeteranAge; over > 0 {
		chance *= float64(over)
	}
	if !entropy.Chance(src, chance) {
		return
	}
	attr := league.PhysicalAttributes[src.Intn(len(league.PhysicalAttributes))]
	if v := p.Attributes.Get(attr); v > league.MinRating {
		p.Attributes.Set(attr, v-1)
		p.GrowthSinceRecalc++
	}
}

func (pr *Progressor) driftMorale(c *league.Club, p *league.Player) {
	target := 55 + int(c.RoleEffects.Morale)
	switch {
	case p.Morale < target:
		p.Morale++
	case p.Morale > target:
		p.Morale--
	}
}
