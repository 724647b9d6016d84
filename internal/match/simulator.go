// Package match simulates a single fixture minute by minute.
//
// Each side gets a zone-control score from its midfield, tactics and
// morale. Every minute a momentum-biased roll decides who has the ball,
// and a second roll decides whether an attack happens. Attacks resolve
// as a duel, then a shot against the keeper. Fouls can produce cards and
// free kicks. All randomness comes from the entropy.Source passed in.
package match

import (
	"math"

	"github.com/talgya/touchline/internal/entropy"
	"github.com/talgya/touchline/internal/league"
)

// Minutes in regulation time.
const Minutes = 90

// Simulator runs matches with a fixed configuration.
type Simulator struct {
	cfg Config
}

// New creates a Simulator.
func New(cfg Config) *Simulator {
	return &Simulator{cfg: cfg}
}

// Simulate plays home against away. The clubs are read, never written.
func (s *Simulator) Simulate(home, away *league.Club, opts Options, src entropy.Source) *Result {
	w := opts.Weather
	if w.Passing == 0 || w.Stamina == 0 {
		w = Clear
	}
	h := newSide(home, true)
	a := newSide(away, false)
	h.zone = zoneControl(h, w) + s.cfg.HomeZoneBonus
	a.zone = zoneControl(a, w)
	homeMod := chanceModifier(h, a)
	awayMod := chanceModifier(a, h)

	r := &Result{HomeID: home.ID, AwayID: away.ID, Weather: w.Condition}
	momentum := 0.0
	possession := 0.0
	for minute := 1; minute <= Minutes; minute++ {
		momentum *= s.cfg.MomentumDecay
		p := clamp(h.zone/(h.zone+a.zone)+momentum*0.02, 0.25, 0.75)
		possession += p

		att, def, mod := h, a, homeMod
		if src.Float64() >= p {
			att, def, mod = a, h, awayMod
		}
		chance := s.cfg.BaseActionChance * mod
		if minute > Minutes-10 && h.goals == a.goals {
			chance *= s.cfg.LateTieBoost
		}
		if !entropy.Chance(src, chance) {
			continue
		}
		if s.attack(minute, att, def, opts, w, src, r) {
			swing := s.cfg.GoalMomentum
			if !att.home {
				swing = -swing
			}
			momentum = clamp(momentum+swing, -10, 10)
		}
	}

	r.HomeGoals, r.AwayGoals = h.goals, a.goals
	r.Possession = possession / Minutes
	s.finish(r, h, a)
	if opts.Knockout && r.HomeGoals == r.AwayGoals {
		resolvePenalties(r, src)
	}
	return r
}

// attack resolves one attacking action and reports whether it scored.
func (s *Simulator) attack(minute int, att, def *side, opts Options, w Weather, src entropy.Source, r *Result) bool {
	attacker := pick(src, att.outfield(), attackWeight)
	defender := pick(src, def.outfield(), defendWeight)
	if attacker == nil {
		return false
	}
	if defender == nil {
		return s.shoot(minute, att, def, attacker, shotRating(att, attacker), s.cfg.ShotOffset, src, r)
	}
	s.tire(att, attacker, w)
	s.tire(def, defender, w)

	tackle := tacklingFactor(def.club.Tactics.Tackling)
	if entropy.Chance(src, s.cfg.FoulChance*tackle) {
		strict := opts.Strictness
		if strict <= 0 {
			strict = 1
		}
		s.foul(minute, def, defender, strict*tackle, src, r)
		if entropy.Chance(src, s.cfg.FreeKickChance) {
			return s.freeKick(minute, att, def, src, r)
		}
		return false
	}

	at := attacker.Attributes
	dt := defender.Attributes
	attScore := float64(at.Dribbling+at.Pace+at.Mental) / 3 * att.sharpness(attacker)
	defScore := float64(dt.Defending+dt.Physical+dt.Mental) / 3 * def.sharpness(defender)
	if att.home {
		attScore += s.cfg.HomeDuelBonus
	} else {
		defScore += s.cfg.HomeDuelBonus
	}
	if !entropy.Chance(src, sigmoid((attScore-defScore)/8)) {
		def.line(defender).Rating += 0.1
		return false
	}
	att.line(attacker).Rating += 0.1
	return s.shoot(minute, att, def, attacker, shotRating(att, attacker), s.cfg.ShotOffset, src, r)
}

func shotRating(sd *side, p *league.Player) float64 {
	return float64(p.Attributes.Shooting+p.Attributes.Mental) / 2 * sd.sharpness(p)
}

func (s *Simulator) shoot(minute int, att, def *side, shooter *league.Player, rating, offset float64, src entropy.Source, r *Result) bool {
	keeper := def.keeper()
	save := 20.0
	if keeper != nil {
		save = float64(keeper.Attributes.Goalkeeping)
	}
	save += src.NormFloat64() * s.cfg.KeeperNoise

	if !entropy.Chance(src, sigmoid((rating-save)/10-offset)) {
		if keeper == nil {
			return false
		}
		kl := def.line(keeper)
		kl.Saves++
		kl.Rating += 0.2
		if entropy.Chance(src, s.cfg.SaveReportChance) {
			r.Events = append(r.Events, league.MatchEvent{
				Minute: minute, Kind: league.EventSave, ClubID: def.club.ID,
				PlayerID: keeper.ID, Detail: shooter.Name,
			})
		}
		return false
	}

	att.goals++
	ev := league.MatchEvent{Minute: minute, Kind: league.EventGoal, ClubID: att.club.ID, PlayerID: shooter.ID}
	sl := att.line(shooter)
	sl.Goals++
	sl.Rating++
	if entropy.Chance(src, s.cfg.AssistChance) {
		if mate := att.pickTeammate(src, shooter.ID); mate != nil {
			ev.AssistID = mate.ID
			ml := att.line(mate)
			ml.Assists++
			ml.Rating += 0.5
		}
	}
	r.Events = append(r.Events, ev)
	return true
}

func (s *Simulator) foul(minute int, def *side, offender *league.Player, severity float64, src entropy.Source, r *Result) {
	if !entropy.Chance(src, s.cfg.CardChance*severity) {
		return
	}
	l := def.line(offender)
	red := entropy.Chance(src, s.cfg.RedCardShare)
	if !red {
		l.YellowCards++
		l.Rating -= 0.5
		r.Events = append(r.Events, league.MatchEvent{Minute: minute, Kind: league.EventYellow, ClubID: def.club.ID, PlayerID: offender.ID})
		if l.YellowCards < 2 {
			return
		}
	}
	l.RedCard = true
	l.Rating -= 1.5
	def.sentOff[offender.ID] = true
	detail := ""
	if !red {
		detail = "second yellow"
	}
	r.Events = append(r.Events, league.MatchEvent{Minute: minute, Kind: league.EventRed, ClubID: def.club.ID, PlayerID: offender.ID, Detail: detail})
}

func (s *Simulator) freeKick(minute int, att, def *side, src entropy.Source, r *Result) bool {
	taker := att.setPieceTaker()
	if taker == nil {
		return false
	}
	r.Events = append(r.Events, league.MatchEvent{Minute: minute, Kind: league.EventFreeKick, ClubID: att.club.ID, PlayerID: taker.ID})
	rating := float64(taker.Attributes.SetPieces) * att.sharpness(taker)
	return s.shoot(minute, att, def, taker, rating, s.cfg.FreeKickOffset, src, r)
}

func (s *Simulator) tire(sd *side, p *league.Player, w Weather) {
	f := sd.fatigue[p.ID] + s.cfg.FatiguePerAction*w.Stamina*(1-float64(p.Attributes.Physical)/200)
	sd.fatigue[p.ID] = math.Min(f, s.cfg.MaxFatigue)
}

// finish applies result and clean-sheet adjustments, clamps ratings and
// names the man of the match. Penalties are not counted here.
func (s *Simulator) finish(r *Result, h, a *side) {
	for _, pair := range [][2]*side{{h, a}, {a, h}} {
		sd, opp := pair[0], pair[1]
		for _, p := range sd.lineup {
			l := sd.lines[p.ID]
			switch {
			case sd.goals > opp.goals:
				l.Rating += 0.5
			case sd.goals < opp.goals:
				l.Rating -= 0.3
			}
			if opp.goals == 0 && (p.Position == league.Goalkeeper || p.Position == league.Defender) {
				l.CleanSheet = true
				l.Rating += s.cfg.CleanSheetBonus
			}
			l.Rating = clamp(l.Rating, 1, 10)
			l.Fatigue = sd.fatigue[p.ID]
		}
	}

	for _, sd := range []*side{h, a} {
		for _, id := range sd.order {
			r.Lines = append(r.Lines, *sd.lines[id])
		}
	}
	best := -1
	for i, l := range r.Lines {
		if l.Appeared && (best < 0 || l.Rating > r.Lines[best].Rating) {
			best = i
		}
	}
	if best >= 0 {
		r.Lines[best].MOTM = true
	}
}

// resolvePenalties settles a drawn knockout tie with a coin flip, adding
// one goal to the winner.
func resolvePenalties(r *Result, src entropy.Source) {
	r.Penalties = true
	if src.Float64() < 0.5 {
		r.HomeGoals++
		r.PenaltyWinner = r.HomeID
	} else {
		r.AwayGoals++
		r.PenaltyWinner = r.AwayID
	}
	r.Events = append(r.Events, league.MatchEvent{
		Minute: Minutes, Kind: league.EventPenalties, ClubID: r.PenaltyWinner, Detail: "won on penalties",
	})
}

func zoneControl(sd *side, w Weather) float64 {
	var mids []*league.Player
	for _, p := range sd.lineup {
		if p.Position == league.Midfielder {
			mids = append(mids, p)
		}
	}
	if len(mids) == 0 {
		mids = sd.outfield()
	}
	if len(mids) == 0 {
		return 1
	}
	sum := 0.0
	for _, p := range mids {
		at := p.Attributes
		sum += (float64(at.Passing)*w.Passing + float64(at.Mental) + float64(at.Physical)) / 3
	}
	t := sd.club.Tactics
	z := sum/float64(len(mids)) + pressingBonus(t.Pressing) + lineBonus(t.LineHeight)
	z += (sd.club.AverageMorale() - 50) / 10
	return math.Max(z, 1)
}

func pressingBonus(l league.Level) float64 {
	switch l {
	case league.High:
		return 4
	case league.Low:
		return -3
	}
	return 0
}

func lineBonus(l league.Level) float64 {
	switch l {
	case league.High:
		return 3
	case league.Low:
		return -2
	}
	return 0
}

// chanceModifier scales how often att creates an attack against def. The
// matchup table punishes a high line against direct or counter play, and
// high pressing against slow possession.
func chanceModifier(att, def *side) float64 {
	t, dt := att.club.Tactics, def.club.Tactics
	mod := 1.0
	switch t.Tempo {
	case league.High:
		mod *= 1.15
	case league.Low:
		mod *= 0.85
	}
	switch t.Style {
	case league.Direct:
		mod *= 1.05
	case league.Possession:
		mod *= 0.95
	}
	if dt.LineHeight == league.High && (t.Style == league.Direct || t.Style == league.Counter) {
		mod *= 1.25
	}
	if dt.Pressing == league.High && t.Style == league.Possession && t.Tempo == league.Low {
		mod *= 1.2
	}
	return mod
}

func tacklingFactor(t league.Tackling) float64 {
	switch t {
	case league.Cautious:
		return 0.7
	case league.Aggressive:
		return 1.4
	}
	return 1
}

func sigmoid(x float64) float64 { return 1 / (1 + math.Exp(-x)) }

func clamp(v, lo, hi float64) float64 { return math.Max(lo, math.Min(hi, v)) }
