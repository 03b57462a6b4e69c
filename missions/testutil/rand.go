package testutil

// StubRand replays scripted draws. Uniform cycles over Uniforms, IntN cycles
// over Ints (modulo n), Shuffle leaves order untouched so tier sampling takes
// the catalog-order prefix.
type StubRand struct {
	Uniforms []float64
	Ints     []int

	ui int
	ii int
}

func (s *StubRand) Uniform() float64 {
	if len(s.Uniforms) == 0 {
		return 0
	}
	v := s.Uniforms[s.ui%len(s.Uniforms)]
	s.ui++
	return v
}

func (s *StubRand) IntN(n int) int {
	if len(s.Ints) == 0 {
		return 0
	}
	v := s.Ints[s.ii%len(s.Ints)] % n
	s.ii++
	return v
}

func (s *StubRand) Shuffle(n int, swap func(i, j int)) {}
