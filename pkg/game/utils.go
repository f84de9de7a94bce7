package game

import (
	"fmt"
	"sort"

	"github.com/cbodonnell/suitcase/pkg/game/types"
)

// Rand is the random source the modes draw codes and checkpoints from.
// *rand.Rand satisfies it.
type Rand interface {
	Intn(n int) int
}

// GenerateCode draws length symbols uniformly, with replacement, from
// alphabet. It returns "" for a non-positive length.
func GenerateCode(rng Rand, alphabet string, length int) (string, error) {
	if length <= 0 {
		return "", nil
	}
	if alphabet == "" {
		return "", fmt.Errorf("alphabet must contain at least one symbol")
	}
	code := make([]byte, length)
	for i := range code {
		code[i] = alphabet[rng.Intn(len(alphabet))]
	}
	return string(code), nil
}

// ReentryTargets returns the remaining-time checkpoints for a bomb round,
// sorted descending: none on easy, one on medium, two distinct on hard,
// each within [lo, hi].
func ReentryTargets(rng Rand, difficulty types.Difficulty, lo, hi int) []int {
	count := 0
	switch difficulty {
	case types.DifficultyMedium:
		count = 1
	case types.DifficultyHard:
		count = 2
	}
	span := hi - lo + 1
	if span < count {
		count = span
	}
	if count <= 0 {
		return []int{}
	}

	targets := make([]int, 0, count)
	seen := make(map[int]bool, count)
	for len(targets) < count {
		v := lo + rng.Intn(span)
		if seen[v] {
			continue
		}
		seen[v] = true
		targets = append(targets, v)
	}
	sort.Sort(sort.Reverse(sort.IntSlice(targets)))
	return targets
}

// FormatClock renders seconds as mm:ss. Negative values render as 00:00.
func FormatClock(seconds int) string {
	if seconds < 0 {
		seconds = 0
	}
	return fmt.Sprintf("%02d:%02d", seconds/60, seconds%60)
}

// NextDevSkip returns the first target strictly below remaining.
func NextDevSkip(remaining int, targets []int) (int, bool) {
	for _, t := range targets {
		if t < remaining {
			return t, true
		}
	}
	return 0, false
}

func phaseForIndex(i int) (types.Phase, bool) {
	if i < 1 || i > len(types.Games) {
		return types.PhaseMenu, false
	}
	return types.Games[i-1], true
}

func difficultyForIndex(i int) (types.Difficulty, bool) {
	if i < 1 || i > len(types.Difficulties) {
		return types.DifficultyEasy, false
	}
	return types.Difficulties[i-1], true
}
