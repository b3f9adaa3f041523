package analytics

import "github.com/okian/perfscope/internal/domain/model"

// Filter narrows a dataset to employees matching every non-blank field.
type Filter struct {
	Area     string `json:"area,omitempty"`
	SubArea  string `json:"subArea,omitempty"`
	Location string `json:"location,omitempty"`
}

// Empty reports whether the filter keeps everything.
func (f Filter) Empty() bool {
	return f.Area == "" && f.SubArea == "" && f.Location == ""
}

// Keeps reports whether e passes the filter.
func (f Filter) Keeps(e model.Employee) bool {
	return (f.Area == "" || e.Area == f.Area) &&
		(f.SubArea == "" || e.SubArea == f.SubArea) &&
		(f.Location == "" || e.Location == f.Location)
}

// Apply returns a new dataset holding the employees that pass the filter
// and their evaluations. The input is not modified.
func (f Filter) Apply(data model.ProcessedData) model.ProcessedData {
	if f.Empty() {
		return data
	}

	kept := make(map[string]struct{})
	out := model.ProcessedData{
		Employees:       []model.Employee{},
		Evaluations:     []model.Evaluation{},
		Competencies:    data.Competencies,
		SheetStructures: data.SheetStructures,
	}
	areas := []string{}
	seenArea := make(map[string]struct{})
	for _, e := range data.Employees {
		if !f.Keeps(e) {
			continue
		}
		kept[e.ID] = struct{}{}
		out.Employees = append(out.Employees, e)
		if _, ok := seenArea[e.Area]; !ok {
			seenArea[e.Area] = struct{}{}
			areas = append(areas, e.Area)
		}
	}

	types := []model.EvaluationType{}
	seenType := make(map[model.EvaluationType]struct{})
	for _, ev := range data.Evaluations {
		if _, ok := kept[ev.EmployeeID]; !ok {
			continue
		}
		out.Evaluations = append(out.Evaluations, ev)
		if _, ok := seenType[ev.Type]; !ok {
			seenType[ev.Type] = struct{}{}
			types = append(types, ev.Type)
		}
	}

	out.Metadata = model.Metadata{
		TotalEmployees:   len(out.Employees),
		TotalEvaluations: len(out.Evaluations),
		EvaluationTypes:  types,
		Areas:            areas,
		CompetencyNames:  data.Metadata.CompetencyNames,
	}
	return out
}
