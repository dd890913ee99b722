// Package progress computes completion fractions for questionnaire
// answering and for section generation.
package progress

import "math"

// Questionnaire returns the questionnaire completion percentage with
// two-decimal precision, clamped to [0,100]. A questionnaire with no
// required answers is 0% complete.
func Questionnaire(answered, required int) float64 {
	if required <= 0 {
		return 0
	}
	pct := float64(answered) / float64(required) * 100
	return clamp(math.Round(pct*100) / 100)
}

// Generation returns the section generation percentage, clamped to [0,100].
func Generation(completed, total int) float64 {
	if total <= 0 {
		return 0
	}
	pct := float64(completed) / float64(total) * 100
	return clamp(math.Round(pct*100) / 100)
}

func clamp(pct float64) float64 {
	if pct < 0 {
		return 0
	}
	if pct > 100 {
		return 100
	}
	return pct
}
