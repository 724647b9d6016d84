// Package weather generates match-day conditions from layered simplex
// noise and maps them to match modifiers. The same seed, date and venue
// always give the same weather.
package weather

import (
	"hash/fnv"
	"math"

	opensimplex "github.com/ojrac/opensimplex-go"

	"github.com/talgya/touchline/internal/calendar"
	"github.com/talgya/touchline/internal/match"
)

// Conditions is the weather at one venue on one day.
type Conditions struct {
	Temp        float64 `json:"temp"`         // Celsius
	Description string  `json:"description"`
	WindSpeed   float64 `json:"wind_speed"`   // m/s
	IsStorm     bool    `json:"is_storm"`
	IsSnow      bool    `json:"is_snow"`
	IsRain      bool    `json:"is_rain"`
}

// Generator samples independent temperature, rain and wind fields.
type Generator struct {
	temp opensimplex.Noise
	rain opensimplex.Noise
	wind opensimplex.Noise
}

// NewGenerator creates a generator for a career seed.
func NewGenerator(seed int64) *Generator {
	return &Generator{
		temp: opensimplex.NewNormalized(seed),
		rain: opensimplex.NewNormalized(seed + 1),
		wind: opensimplex.NewNormalized(seed + 2),
	}
}

// For returns the conditions at venue on date d.
func (g *Generator) For(d calendar.Date, venue string) Conditions {
	x := float64(d.Ordinal()) / 6
	y := venueOffset(venue)

	// Seasonal baseline peaks in mid July.
	seasonal := 11 + 9*math.Cos(2*math.Pi*float64(d.YearDay()-196)/365)

	c := Conditions{
		Temp:      seasonal + (octaveNoise(g.temp, x, y, 3, 0.5, 0.5)-0.5)*14,
		WindSpeed: octaveNoise(g.wind, x, y, 2, 0.8, 0.5) * 22,
	}
	rain := octaveNoise(g.rain, x, y, 3, 0.7, 0.5)
	c.IsRain = rain > 0.62
	c.IsSnow = c.IsRain && c.Temp < 1
	c.IsStorm = (c.IsRain && rain > 0.8) || c.WindSpeed > 15
	c.Description = describe(c)
	return c
}

// MapToMatch converts conditions to match modifiers.
func MapToMatch(c Conditions) match.Weather {
	w := match.Weather{Condition: c.Description, Passing: 1, Stamina: 1}
	switch {
	case c.IsStorm:
		w.Passing = 0.85
		w.Stamina = 1.15
	case c.IsSnow:
		w.Passing = 0.88
		w.Stamina = 1.1
	case c.IsRain:
		w.Passing = 0.93
		w.Stamina = 1.05
	}
	switch {
	case c.Temp > 28:
		w.Stamina *= 1.25
	case c.Temp > 24:
		w.Stamina *= 1.1
	case c.Temp < 0:
		w.Stamina *= 1.05
	}
	return w
}

func describe(c Conditions) string {
	switch {
	case c.IsStorm && c.IsRain:
		return "storm"
	case c.IsStorm:
		return "gale"
	case c.IsSnow:
		return "snow"
	case c.IsRain:
		return "rain"
	case c.Temp > 24:
		return "hot"
	case c.Temp < 2:
		return "frost"
	}
	return "clear"
}

func venueOffset(venue string) float64 {
	h := fnv.New32a()
	h.Write([]byte(venue))
	return float64(h.Sum32()%1000) * 3.7
}

// octaveNoise layers several frequencies of a normalized noise field.
func octaveNoise(noise opensimplex.Noise, x, y float64, octaves int, frequency, persistence float64) float64 {
	total := 0.0
	amplitude := 1.0
	maxVal := 0.0

	for i := 0; i < octaves; i++ {
		total += noise.Eval2(x*frequency, y*frequency) * amplitude
		maxVal += amplitude
		amplitude *= persistence
		frequency *= 2
	}

	return total / maxVal
}
