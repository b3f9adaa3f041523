package analytics

import (
	"github.com/okian/perfscope/internal/domain/model"
	"github.com/okian/perfscope/internal/domain/scoring"
)

// competencyMean collects the averages observed for one competency.
type competencyMean struct {
	name string
	vals []float64
}

func (c competencyMean) mean() float64 { return scoring.Mean(c.vals) }

// competencyAcc groups competency averages by owner, in order of first
// appearance.
type competencyAcc struct {
	byOwner map[string][]competencyMean
}

func newCompetencyAcc() competencyAcc {
	return competencyAcc{byOwner: make(map[string][]competencyMean)}
}

func (a competencyAcc) add(owner string, scores []model.CompetencyScore) {
	list := a.byOwner[owner]
	for _, s := range scores {
		found := false
		for i := range list {
			if list[i].name == s.CompetencyName {
				list[i].vals = append(list[i].vals, s.AverageScore)
				found = true
				break
			}
		}
		if !found {
			list = append(list, competencyMean{name: s.CompetencyName, vals: []float64{s.AverageScore}})
		}
	}
	a.byOwner[owner] = list
}

// of merges the competencies of the given owners.
func (a competencyAcc) of(owners ...string) []competencyMean {
	if len(owners) == 1 {
		return a.byOwner[owners[0]]
	}
	merged := newCompetencyAcc()
	for _, o := range owners {
		for _, c := range a.byOwner[o] {
			for _, v := range c.vals {
				merged.add("", []model.CompetencyScore{{CompetencyName: c.name, AverageScore: v}})
			}
		}
	}
	return merged.byOwner[""]
}

// competencyMeans groups every evaluation's competency scores by the
// employee evaluated.
func competencyMeans(data model.ProcessedData) competencyAcc {
	acc := newCompetencyAcc()
	for _, ev := range data.Evaluations {
		acc.add(ev.EmployeeID, ev.Competencies)
	}
	return acc
}
