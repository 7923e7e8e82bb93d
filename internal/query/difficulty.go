package query

// fallbackReadyMinutes is assumed when a recipe carries no usable timing
// data, so classification stays total.
const fallbackReadyMinutes = 30

// Difficulty thresholds in minutes. Exactly 15 is easy, exactly 35 is hard.
const (
	easyMaxMinutes = 15
	hardMinMinutes = 35
)

// ResolveReadyMinutes resolves a recipe's effective ready time with a fixed
// precedence order: explicit ready time, then cooking time, then total time,
// then the sum of prep and cook, else the fallback constant.
func ResolveReadyMinutes(r Recipe) int {
	switch {
	case r.ReadyInMinutes > 0:
		return r.ReadyInMinutes
	case r.CookingMinutes > 0:
		return r.CookingMinutes
	case r.TotalMinutes > 0:
		return r.TotalMinutes
	case r.PrepMinutes > 0 || r.CookMinutes > 0:
		return r.PrepMinutes + r.CookMinutes
	default:
		return fallbackReadyMinutes
	}
}

// DeriveDifficulty classifies a ready time in minutes. It is pure and total:
// a non-positive value means the timing data was absent and classifies via
// the fallback constant rather than failing.
func DeriveDifficulty(minutes int) Difficulty {
	if minutes <= 0 {
		minutes = fallbackReadyMinutes
	}
	switch {
	case minutes <= easyMaxMinutes:
		return DifficultyEasy
	case minutes < hardMinMinutes:
		return DifficultyMedium
	default:
		return DifficultyHard
	}
}

// RecipeDifficulty derives the difficulty for a recipe. Every display surface
// must go through this one function so the classification never drifts
// between call sites.
func RecipeDifficulty(r Recipe) Difficulty {
	return DeriveDifficulty(ResolveReadyMinutes(r))
}

// maxReadyMinutesFor translates a difficulty facet into an upstream
// max-ready-time bound. Hard has no natural upper bound upstream, so it
// returns 0 and relies on the in-memory recompute filter.
func maxReadyMinutesFor(d Difficulty) int {
	switch d {
	case DifficultyEasy:
		return easyMaxMinutes
	case DifficultyMedium:
		return hardMinMinutes - 1
	default:
		return 0
	}
}
