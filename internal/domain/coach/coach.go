// Package coach turns corner comparisons and model predictions into ranked
// coaching opportunities.
package coach

import (
	"math"

	"github.com/grcup/apexcoach/internal/domain/model"
)

// Diagnosis thresholds, taken from telemetry engineering practice: a brake
// pressure delta past 20 points dominates the corner; apex throttle deltas
// past 5% separate early and late power application.
const (
	brakeDeltaThreshold    = 20.0
	throttleDeltaThreshold = 5.0
)

// Diagnose names the dominant issue behind a corner's deltas.
func Diagnose(c model.CornerComparison) string {
	switch {
	case math.Abs(c.BrakeDelta) > brakeDeltaThreshold:
		if c.BrakeDelta > 0 {
			return "Over-braking"
		}
		return "Under-braking"
	case math.Abs(c.ApexThrottleDelta) > throttleDeltaThreshold:
		if c.ApexThrottleDelta < 0 {
			return "Late throttle application"
		}
		return "Too aggressive on throttle"
	default:
		return "Inconsistent corner speed"
	}
}

// Advise produces the coaching advice for a corner's deltas.
func Advise(c model.CornerComparison) string {
	switch {
	case c.BrakeDelta > brakeDeltaThreshold:
		return "Brake lighter, carry more speed"
	case c.BrakeDelta < -brakeDeltaThreshold:
		return "Brake harder and later"
	case c.ApexThrottleDelta < -throttleDeltaThreshold:
		return "Get on throttle earlier at apex"
	case c.ApexThrottleDelta > throttleDeltaThreshold:
		return "Smoother throttle application"
	default:
		return "Focus on entry consistency"
	}
}
