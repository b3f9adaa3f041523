package analytics

import (
	"fmt"

	"github.com/okian/perfscope/internal/domain/model"
)

const (
	followUpBelow        = 80
	typeReminderBelow    = 70
	managerCoachingBelow = 70
)

// typeOrder fixes the order in which per-type rules are evaluated.
var typeOrder = []model.EvaluationType{
	model.TypeSelf, model.TypeDownward, model.TypeUpward, model.TypePeer,
}

// Insights generates narrative observations from threshold rules.
func Insights(res model.AnalyticsResults) []string {
	out := []string{}
	overall := res.CompletionMetrics.Overall
	if overall.Total > 0 && overall.CompletionRate < followUpBelow {
		out = append(out, fmt.Sprintf(
			"La tasa de completitud general es del %.1f%%, se recomienda hacer seguimiento para mejorar la participación.",
			overall.CompletionRate))
	}
	if len(res.AreaComparisons) > 0 {
		best := res.AreaComparisons[0]
		out = append(out, fmt.Sprintf("%s es el área con mejor desempeño promedio (%.1f puntos).", best.Area, best.AverageScore))
	}

	var top, critical int
	for _, e := range res.TalentHeatMap {
		switch e.PerformanceLevel {
		case model.LevelTopPerformer:
			top++
		case model.LevelCritical:
			critical++
		}
	}
	if top > 0 {
		out = append(out, fmt.Sprintf("Se identificaron %d top performers en la organización.", top))
	}
	if critical > 0 {
		out = append(out, fmt.Sprintf("%d empleados requieren atención inmediata por bajo desempeño.", critical))
	}
	return out
}

// Recommendations generates actions from threshold rules followed by the
// standing recommendations.
func Recommendations(res model.AnalyticsResults) []string {
	out := []string{}
	for _, t := range typeOrder {
		c, ok := res.CompletionMetrics.ByType[t]
		if !ok || c.Total == 0 || c.CompletionRate >= typeReminderBelow {
			continue
		}
		out = append(out, fmt.Sprintf("Implementar recordatorios y seguimiento para evaluaciones %s (%.1f%% completitud).", t, c.CompletionRate))
	}

	coaching := 0
	for _, fb := range res.UpwardFeedback {
		if fb.AverageScore < managerCoachingBelow {
			coaching++
		}
	}
	if coaching > 0 {
		out = append(out, fmt.Sprintf("%d líderes necesitan coaching en habilidades de liderazgo.", coaching))
	}

	return append(out,
		"Implementar planes de desarrollo individualizados basados en los resultados de competencias.",
		"Establecer programas de mentoring entre top performers y empleados en desarrollo.",
	)
}
