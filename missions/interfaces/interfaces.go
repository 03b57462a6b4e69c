// Package interfaces defines the collaborator contracts the engine consumes.
// The host application injects its own implementations; the defaults here are
// used by the ops CLI and by production wiring.
package interfaces

import (
	"math/rand"
	"sync"
	"time"
)

// Clock abstracts wall-clock access so day-boundary logic is testable.
type Clock interface {
	Now() time.Time
	// Today returns the current calendar date, truncated to local midnight.
	Today() time.Time
}

// RandomSource abstracts randomness so rarity and selection logic is
// reproducible in tests.
type RandomSource interface {
	// Uniform returns a uniform draw in [0,1).
	Uniform() float64
	// IntN returns a uniform integer in [0,n).
	IntN(n int) int
	// Shuffle performs a uniform Fisher-Yates shuffle over n elements.
	Shuffle(n int, swap func(i, j int))
}

// NotificationSink receives fire-and-forget engine notifications. The engine
// never awaits or depends on their outcome.
type NotificationSink interface {
	MissionsRefreshed(playerID string)
	MissionCompleted(playerID string, missionTitle string)
}

type systemClock struct{}

// SystemClock returns a Clock backed by time.Now in the local zone.
func SystemClock() Clock { return systemClock{} }

func (systemClock) Now() time.Time { return time.Now() }

func (systemClock) Today() time.Time {
	now := time.Now()
	return time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, now.Location())
}

type systemRand struct{}

// SystemRand returns a RandomSource backed by the shared math/rand source,
// which is safe for concurrent use.
func SystemRand() RandomSource { return systemRand{} }

func (systemRand) Uniform() float64 { return rand.Float64() }

func (systemRand) IntN(n int) int { return rand.Intn(n) }

func (systemRand) Shuffle(n int, swap func(i, j int)) { rand.Shuffle(n, swap) }

// SeededRand is a RandomSource with a fixed seed, guarded by a mutex so it can
// be shared across goroutines in simulations and tests.
type SeededRand struct {
	mu sync.Mutex
	r  *rand.Rand
}

func NewSeededRand(seed int64) *SeededRand {
	return &SeededRand{r: rand.New(rand.NewSource(seed))}
}

func (s *SeededRand) Uniform() float64 {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.r.Float64()
}

func (s *SeededRand) IntN(n int) int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.r.Intn(n)
}

func (s *SeededRand) Shuffle(n int, swap func(i, j int)) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.r.Shuffle(n, swap)
}
