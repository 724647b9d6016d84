package match

// Config tunes the match engine. The defaults are calibrated with
// cmd/calibrate so that balanced sides average a little over two goals.
type Config struct {
	BaseActionChance float64 `yaml:"base_action_chance"`
	LateTieBoost     float64 `yaml:"late_tie_boost"`
	HomeZoneBonus    float64 `yaml:"home_zone_bonus"`
	HomeDuelBonus    float64 `yaml:"home_duel_bonus"`
	FoulChance       float64 `yaml:"foul_chance"`
	CardChance       float64 `yaml:"card_chance"`
	RedCardShare     float64 `yaml:"red_card_share"`
	FreeKickChance   float64 `yaml:"free_kick_chance"`
	AssistChance     float64 `yaml:"assist_chance"`
	SaveReportChance float64 `yaml:"save_report_chance"`
	ShotOffset       float64 `yaml:"shot_offset"`
	FreeKickOffset   float64 `yaml:"free_kick_offset"`
	KeeperNoise      float64 `yaml:"keeper_noise"`
	GoalMomentum     float64 `yaml:"goal_momentum"`
	MomentumDecay    float64 `yaml:"momentum_decay"`
	FatiguePerAction float64 `yaml:"fatigue_per_action"`
	MaxFatigue       float64 `yaml:"max_fatigue"`
	CleanSheetBonus  float64 `yaml:"clean_sheet_bonus"`
}

// DefaultConfig returns the calibrated match constants.
func DefaultConfig() Config {
	return Config{
		BaseActionChance: 0.22,
		LateTieBoost:     1.3,
		HomeZoneBonus:    4,
		HomeDuelBonus:    2,
		FoulChance:       0.12,
		CardChance:       0.35,
		RedCardShare:     0.08,
		FreeKickChance:   0.2,
		AssistChance:     0.7,
		SaveReportChance: 0.5,
		ShotOffset:       0.9,
		FreeKickOffset:   2.1,
		KeeperNoise:      5,
		GoalMomentum:     4,
		MomentumDecay:    0.9,
		FatiguePerAction: 0.015,
		MaxFatigue:       0.5,
		CleanSheetBonus:  0.5,
	}
}

// Weather carries the conditions that modify play.
type Weather struct {
	Condition string  `json:"condition"`
	Passing   float64 `json:"passing"` // multiplier on passing accuracy
	Stamina   float64 `json:"stamina"` // multiplier on fatigue drain
}

// Clear is neutral weather.
var Clear = Weather{Condition: "clear", Passing: 1, Stamina: 1}

// Options are the per-fixture inputs besides the two clubs.
type Options struct {
	Strictness float64 // referee card multiplier, 0 means 1.0
	Knockout   bool
	Weather    Weather
}
