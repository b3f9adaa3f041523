// Package scoring holds the score banding rules shared by the analytics.
package scoring

import (
	"math"

	"github.com/okian/perfscope/internal/domain/model"
)

// Band thresholds, in points.
const (
	topPerformerMin  = 95
	highPerformerMin = 85
	averageMin       = 70
	needsImproveMin  = 60

	lowRiskMin    = 80
	mediumRiskMin = 65

	excellentMin = 90
	goodMin      = 80

	// AttentionBelow marks scores that call for an individual plan.
	AttentionBelow = 70

	maxIndex = 100
)

// Level bands an overall score into a performance level.
func Level(score float64) model.PerformanceLevel {
	switch {
	case score >= topPerformerMin:
		return model.LevelTopPerformer
	case score >= highPerformerMin:
		return model.LevelHighPerformer
	case score >= averageMin:
		return model.LevelAverage
	case score >= needsImproveMin:
		return model.LevelNeedsImprovement
	default:
		return model.LevelCritical
	}
}

// Risk bands a score into a retention risk. The area is accepted for
// per-area policies but the banding is currently the same for all areas.
func Risk(score float64, _ string) model.RiskLevel {
	switch {
	case score >= lowRiskMin:
		return model.RiskLow
	case score >= mediumRiskMin:
		return model.RiskMedium
	default:
		return model.RiskHigh
	}
}

// Distribute adds score to the matching band of d.
func Distribute(d *model.ScoreDistribution, score float64) {
	switch {
	case score >= excellentMin:
		d.Excellent++
	case score >= goodMin:
		d.Good++
	case score >= averageMin:
		d.Average++
	default:
		d.Poor++
	}
}

// Mean returns the arithmetic mean of vals, or 0 for none.
func Mean(vals []float64) float64 {
	if len(vals) == 0 {
		return 0
	}
	var sum float64
	for _, v := range vals {
		sum += v
	}
	return sum / float64(len(vals))
}

// Rate returns part as a percentage of total, or 0 when total is 0.
func Rate(part, total int) float64 {
	if total == 0 {
		return 0
	}
	return float64(part) / float64(total) * 100
}

// Index re-expresses a score as a 0-100 index.
func Index(score float64) float64 {
	return math.Max(0, math.Min(maxIndex, score))
}
