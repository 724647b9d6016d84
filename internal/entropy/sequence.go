package entropy

// Sequence replays a scripted list of Float64 draws, cycling when it runs
// out. NormFloat64 always returns 0 so noise terms vanish in scripted runs.
type Sequence struct {
	values []float64
	pos    int
}

// NewSequence returns a source that yields values in order.
func NewSequence(values ...float64) *Sequence {
	if len(values) == 0 {
		values = []float64{0.5}
	}
	return &Sequence{values: values}
}

func (s *Sequence) Float64() float64 {
	v := s.values[s.pos%len(s.values)]
	s.pos++
	return v
}

func (s *Sequence) Intn(n int) int {
	v := int(s.Float64() * float64(n))
	if v >= n {
		v = n - 1
	}
	if v < 0 {
		v = 0
	}
	return v
}

func (s *Sequence) NormFloat64() float64 { return 0 }

// Draws returns how many values have been consumed.
func (s *Sequence) Draws() int { return s.pos }
