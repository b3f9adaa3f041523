// Package analytics derives descriptive metrics from a processed dataset.
// Every function is pure: the same dataset always yields the same results.
package analytics

import (
	"sort"

	"github.com/okian/perfscope/internal/domain/model"
	"github.com/okian/perfscope/internal/domain/scoring"
)

// AnonymousEvaluator names peer evaluators that were left blank.
const AnonymousEvaluator = "Anónimo"

const maxCompetencyHighlights = 3

// Analyze computes all analytics for data.
func Analyze(data model.ProcessedData) model.AnalyticsResults {
	res := model.AnalyticsResults{
		CompletionMetrics: Completion(data),
		AreaComparisons:   AreaComparisons(data),
		TalentHeatMap:     TalentHeatMap(data),
		UpwardFeedback:    UpwardFeedback(data),
		PeerMatrix:        PeerMatrix(data),
	}
	res.Insights = Insights(res)
	res.Recommendations = Recommendations(res)
	return res
}

// Completion counts finished versus outstanding evaluations overall, per
// type and per area.
func Completion(data model.ProcessedData) model.CompletionMetrics {
	m := model.CompletionMetrics{
		ByType: make(map[model.EvaluationType]model.Completion),
		ByArea: make(map[string]model.Completion),
	}
	for _, ev := range data.Evaluations {
		m.ByType[ev.Type] = tally(m.ByType[ev.Type], ev)
		m.ByArea[ev.EvaluatedArea] = tally(m.ByArea[ev.EvaluatedArea], ev)
		m.Overall = tally(m.Overall, ev)
	}
	for k, c := range m.ByType {
		m.ByType[k] = withRate(c)
	}
	for k, c := range m.ByArea {
		m.ByArea[k] = withRate(c)
	}
	m.Overall = withRate(m.Overall)
	return m
}

func tally(c model.Completion, ev model.Evaluation) model.Completion {
	switch {
	case ev.Finished():
		c.Completed++
	case ev.Outstanding():
		c.Pending++
	}
	c.Total = c.Completed + c.Pending
	return c
}

func withRate(c model.Completion) model.Completion {
	c.CompletionRate = scoring.Rate(c.Completed, c.Total)
	return c
}

// AreaComparisons ranks areas with at least one scored employee by their
// mean final score, highest first.
func AreaComparisons(data model.ProcessedData) []model.AreaComparison {
	var order []string
	byArea := make(map[string][]model.Employee)
	for _, e := range data.Employees {
		if _, ok := byArea[e.Area]; !ok {
			order = append(order, e.Area)
		}
		byArea[e.Area] = append(byArea[e.Area], e)
	}

	comps := competencyMeans(data)
	out := []model.AreaComparison{}
	for _, area := range order {
		employees := byArea[area]
		var (
			scores []float64
			dist   model.ScoreDistribution
			top    *model.Employee
			ids    []string
		)
		for i := range employees {
			e := &employees[i]
			ids = append(ids, e.ID)
			if !e.HasScore() {
				continue
			}
			scores = append(scores, e.Score())
			scoring.Distribute(&dist, e.Score())
			if top == nil || e.Score() > top.Score() {
				top = e
			}
		}
		if len(scores) == 0 {
			continue
		}
		strengths, weaknesses := highlights(comps.of(ids...))
		out = append(out, model.AreaComparison{
			Area:                 area,
			EmployeeCount:        len(employees),
			AverageScore:         scoring.Mean(scores),
			ScoreDistribution:    dist,
			TopPerformer:         model.Performer{Name: top.Name, Score: top.Score()},
			CompetencyStrengths:  strengths,
			CompetencyWeaknesses: weaknesses,
		})
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].AverageScore > out[j].AverageScore })
	return out
}

// TalentHeatMap lists every scored employee, highest score first.
func TalentHeatMap(data model.ProcessedData) []model.TalentHeatMapEntry {
	comps := competencyMeans(data)
	out := []model.TalentHeatMapEntry{}
	for _, e := range data.Employees {
		if !e.HasScore() {
			continue
		}
		score := e.Score()
		recs := []string{}
		if score < scoring.AttentionBelow {
			recs = append(recs, "Requiere plan de mejora inmediato", "Asignar mentor senior")
		}
		scores := make(map[string]float64)
		for _, c := range comps.of(e.ID) {
			scores[c.name] = c.mean()
		}
		out = append(out, model.TalentHeatMapEntry{
			Employee:         e.Name,
			Area:             e.Area,
			OverallScore:     score,
			PerformanceLevel: scoring.Level(score),
			CompetencyScores: scores,
			RiskLevel:        scoring.Risk(score, e.Area),
			Recommendations:  recs,
		})
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].OverallScore > out[j].OverallScore })
	return out
}

// UpwardFeedback rolls up upward evaluations per rated manager, highest
// mean first.
func UpwardFeedback(data model.ProcessedData) []model.UpwardFeedback {
	employees := make(map[string]model.Employee, len(data.Employees))
	for _, e := range data.Employees {
		employees[e.ID] = e
	}

	var order []string
	groups := make(map[string][]model.Evaluation)
	for _, ev := range data.Evaluations {
		if ev.Type != model.TypeUpward {
			continue
		}
		if _, ok := groups[ev.EvaluatedID]; !ok {
			order = append(order, ev.EvaluatedID)
		}
		groups[ev.EvaluatedID] = append(groups[ev.EvaluatedID], ev)
	}

	out := []model.UpwardFeedback{}
	for _, id := range order {
		evs := groups[id]
		var scores []float64
		for _, ev := range evs {
			if ev.TotalScore != nil {
				scores = append(scores, *ev.TotalScore)
			}
		}
		// Managers without any scored feedback are not ranked.
		if len(scores) == 0 {
			continue
		}

		first := evs[0]
		fb := model.UpwardFeedback{
			ManagerID:           id,
			ManagerName:         first.EvaluatedName,
			Area:                first.EvaluatedArea,
			FeedbackCount:       len(evs),
			CompetencyBreakdown: make(map[string]model.CompetencyFeedback),
		}
		if e, ok := employees[first.EmployeeID]; ok {
			fb.ManagerName = e.Name
			fb.Area = e.Area
		}

		comps := newCompetencyAcc()
		for _, ev := range evs {
			comps.add(id, ev.Competencies)
		}
		fb.AverageScore = scoring.Mean(scores)
		fb.TeamSatisfaction = scoring.Index(fb.AverageScore)

		breakdown := comps.of(id)
		for _, c := range breakdown {
			fb.CompetencyBreakdown[c.name] = model.CompetencyFeedback{Score: c.mean(), FeedbackCount: len(c.vals)}
		}
		fb.Strengths, fb.ImprovementAreas = highlights(breakdown)
		out = append(out, fb)
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].AverageScore > out[j].AverageScore })
	return out
}

// PeerMatrix projects peer evaluations and measures coverage and
// reciprocity. Evaluator and evaluated are compared by display name.
func PeerMatrix(data model.ProcessedData) model.PeerMatrix {
	m := model.PeerMatrix{Evaluations: []model.PeerEvaluation{}}
	type pair struct{ from, to string }
	pairs := make(map[pair]struct{})

	for _, ev := range data.Evaluations {
		if ev.Type != model.TypePeer {
			continue
		}
		evaluator := ev.EvaluatorName
		if evaluator == "" {
			evaluator = AnonymousEvaluator
		}
		var score float64
		if ev.TotalScore != nil {
			score = *ev.TotalScore
		}
		pe := model.PeerEvaluation{
			Evaluator: evaluator,
			Evaluated: ev.EvaluatedName,
			Area:      ev.EvaluatedArea,
			Score:     score,
			Completed: ev.Finished(),
		}
		m.Evaluations = append(m.Evaluations, pe)
		pairs[pair{pe.Evaluator, pe.Evaluated}] = struct{}{}
		m.Coverage.Requested++
		if pe.Completed {
			m.Coverage.Completed++
		}
	}
	m.Coverage.CompletionRate = scoring.Rate(m.Coverage.Completed, m.Coverage.Requested)

	reciprocated := 0
	for _, pe := range m.Evaluations {
		if pe.Evaluator == AnonymousEvaluator || pe.Evaluator == pe.Evaluated {
			continue
		}
		if _, ok := pairs[pair{pe.Evaluated, pe.Evaluator}]; ok {
			reciprocated++
		}
	}
	m.Reciprocity = model.Reciprocity{
		Mutual: reciprocated / 2,
		OneWay: len(m.Evaluations) - reciprocated,
	}
	return m
}

// highlights splits competencies into those at or above the mean of all
// of them and those below, keeping at most three of each.
func highlights(cs []competencyMean) (strengths, weaknesses []string) {
	strengths, weaknesses = []string{}, []string{}
	if len(cs) == 0 {
		return strengths, weaknesses
	}
	ranked := append([]competencyMean{}, cs...)
	sort.SliceStable(ranked, func(i, j int) bool {
		if ranked[i].mean() != ranked[j].mean() {
			return ranked[i].mean() > ranked[j].mean()
		}
		return ranked[i].name < ranked[j].name
	})
	means := make([]float64, len(ranked))
	for i, c := range ranked {
		means[i] = c.mean()
	}
	pivot := scoring.Mean(means)

	for _, c := range ranked {
		if c.mean() >= pivot && len(strengths) < maxCompetencyHighlights {
			strengths = append(strengths, c.name)
		}
	}
	for i := len(ranked) - 1; i >= 0; i-- {
		if c := ranked[i]; c.mean() < pivot && len(weaknesses) < maxCompetencyHighlights {
			weaknesses = append(weaknesses, c.name)
		}
	}
	return strengths, weaknesses
}
