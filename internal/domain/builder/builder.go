// Package builder turns detected evaluation sheets into the normalized
// dataset: one evaluation per data row and a deduplicated employee roster.
package builder

import (
	"fmt"

	"github.com/okian/perfscope/internal/adapters/workbook"
	"github.com/okian/perfscope/internal/domain/identity"
	"github.com/okian/perfscope/internal/domain/model"
	"github.com/okian/perfscope/internal/domain/scoring"
)

// rosterKey identifies an employee within one run.
type rosterKey struct {
	name string
	area string
}

// SheetStats counts the rows of one sheet.
type SheetStats struct {
	Evaluations int
	Skipped     int
}

// Builder accumulates one run. It is not safe for concurrent use and must
// not be reused across uploads.
type Builder struct {
	resolver *identity.Resolver

	employees   []model.Employee
	roster      map[rosterKey]int
	evaluations []model.Evaluation
	evalIDs     map[string]struct{}

	competencies []model.Competency
	compIndex    map[string]int

	structures []model.SheetStructure
	types      []model.EvaluationType
	seenTypes  map[model.EvaluationType]struct{}
}

// New creates a Builder. The resolver must already hold the complete
// segmentation directory.
func New(resolver *identity.Resolver) *Builder {
	if resolver == nil {
		resolver = identity.New(nil)
	}
	return &Builder{
		resolver:  resolver,
		roster:    make(map[rosterKey]int),
		evalIDs:   make(map[string]struct{}),
		compIndex: make(map[string]int),
		seenTypes: make(map[model.EvaluationType]struct{}),
	}
}

// AddSheet emits an evaluation for every usable data row of sheet and
// upserts the roster.
func (b *Builder) AddSheet(st model.SheetStructure, sheet workbook.Sheet) SheetStats {
	var stats SheetStats
	b.structures = append(b.structures, st)
	b.addCompetencies(st)

	for r := st.DataStartRow; r < len(sheet.Rows); r++ {
		ev, ok := b.evaluation(st, sheet, r)
		if !ok {
			stats.Skipped++
			continue
		}
		b.evaluations = append(b.evaluations, ev)
		if _, seen := b.seenTypes[ev.Type]; !seen {
			b.seenTypes[ev.Type] = struct{}{}
			b.types = append(b.types, ev.Type)
		}
		stats.Evaluations++
	}
	return stats
}

func (b *Builder) evaluation(st model.SheetStructure, sheet workbook.Sheet, r int) (model.Evaluation, bool) {
	if workbook.IsBlank(sheet.Rows[r]) {
		return model.Evaluation{}, false
	}
	cols := st.Columns
	raw := sheet.Cell(r, cols.EvaluatedName)
	if raw == "" {
		return model.Evaluation{}, false
	}

	who := b.resolver.Resolve(raw)
	area := sheet.Cell(r, cols.EvaluatedArea)
	if who.Matched() && who.Segmentation.Area != "" {
		area = who.Segmentation.Area
	}
	if area == "" {
		area = model.UnknownArea
	}

	ev := model.Evaluation{
		ID:            b.evaluationID(st.Type, r),
		EvaluatedID:   who.Email,
		EvaluatedName: who.Name,
		EvaluatedArea: area,
		Type:          st.Type,
		Status:        NormalizeStatus(sheet.Cell(r, cols.Status)),
		Competencies:  competencyScores(st.CompetencyColumns, sheet, r),
	}
	if cols.TotalScore != nil {
		ev.TotalScore = ParseScore(sheet.Cell(r, *cols.TotalScore))
	}
	if cols.EvaluatorName != nil && st.Type != model.TypeSelf {
		if rawEvaluator := sheet.Cell(r, *cols.EvaluatorName); rawEvaluator != "" {
			evaluator := b.resolver.Resolve(rawEvaluator)
			ev.EvaluatorID = evaluator.Email
			ev.EvaluatorName = evaluator.Name
		}
	}

	ev.EmployeeID = b.upsert(who, area, ev)
	return ev, true
}

// upsert returns the id of the employee keyed by (name, area), creating it
// on first sight. A later evaluation only raises the final score.
func (b *Builder) upsert(who identity.Identity, area string, ev model.Evaluation) string {
	key := rosterKey{name: who.Name, area: area}
	if i, ok := b.roster[key]; ok {
		emp := &b.employees[i]
		if ev.TotalScore != nil && (emp.FinalScore == nil || *ev.TotalScore > *emp.FinalScore) {
			emp.FinalScore = model.Float(*ev.TotalScore)
		}
		if emp.Manager == "" && ev.Type == model.TypeDownward {
			emp.Manager = ev.EvaluatorName
		}
		return emp.ID
	}

	emp := model.Employee{
		ID:          fmt.Sprintf("emp_%d", len(b.employees)+1),
		Email:       who.Email,
		Name:        who.Name,
		Area:        area,
		Status:      EmployeeStatus(ev.Status),
		ShareStatus: model.ShareNotShared,
	}
	if ev.TotalScore != nil {
		emp.FinalScore = model.Float(*ev.TotalScore)
	}
	if who.Matched() {
		emp.SubArea = who.Segmentation.SubArea
		emp.Location = who.Segmentation.Location
	}
	if ev.Type == model.TypeDownward {
		emp.Manager = ev.EvaluatorName
	}
	b.roster[key] = len(b.employees)
	b.employees = append(b.employees, emp)
	return emp.ID
}

// evaluationID derives an id from the evaluation type and row. A second
// sheet of the same type gets a numeric suffix.
func (b *Builder) evaluationID(t model.EvaluationType, row int) string {
	id := fmt.Sprintf("eval_%s_%d", t, row)
	for n := 2; ; n++ {
		if _, taken := b.evalIDs[id]; !taken {
			break
		}
		id = fmt.Sprintf("eval_%s_%d_%d", t, row, n)
	}
	b.evalIDs[id] = struct{}{}
	return id
}

func (b *Builder) addCompetencies(st model.SheetStructure) {
	for _, cc := range st.CompetencyColumns {
		i, ok := b.compIndex[cc.Name]
		if !ok {
			i = len(b.competencies)
			b.compIndex[cc.Name] = i
			b.competencies = append(b.competencies, model.Competency{
				ID:        fmt.Sprintf("comp_%d", i+1),
				Name:      cc.Name,
				Questions: []model.Question{},
			})
		}
		comp := &b.competencies[i]
		for _, h := range cc.Headers {
			if hasQuestion(comp.Questions, h) {
				continue
			}
			comp.Questions = append(comp.Questions, model.Question{
				ID:   fmt.Sprintf("%s_q%d", comp.ID, len(comp.Questions)+1),
				Text: h,
			})
		}
	}
}

func hasQuestion(qs []model.Question, text string) bool {
	for _, q := range qs {
		if q.Text == text {
			return true
		}
	}
	return false
}

// competencyScores reads the numeric competency cells of row r. A
// competency without any numeric cell is left out.
func competencyScores(ccs []model.CompetencyColumns, sheet workbook.Sheet, r int) []model.CompetencyScore {
	out := []model.CompetencyScore{}
	for _, cc := range ccs {
		var (
			questions []model.QuestionScore
			vals      []float64
		)
		for j, c := range cc.Columns {
			v := ParseScore(sheet.Cell(r, c))
			if v == nil {
				continue
			}
			questions = append(questions, model.QuestionScore{QuestionText: cc.Headers[j], Score: *v})
			vals = append(vals, *v)
		}
		if len(vals) == 0 {
			continue
		}
		out = append(out, model.CompetencyScore{
			CompetencyName: cc.Name,
			Questions:      questions,
			AverageScore:   scoring.Mean(vals),
		})
	}
	return out
}

// Build returns the accumulated dataset.
func (b *Builder) Build() model.ProcessedData {
	employees := make([]model.Employee, len(b.employees))
	copy(employees, b.employees)

	areas := []string{}
	seenArea := make(map[string]struct{})
	for _, e := range employees {
		if _, ok := seenArea[e.Area]; ok {
			continue
		}
		seenArea[e.Area] = struct{}{}
		areas = append(areas, e.Area)
	}

	names := make([]string, len(b.competencies))
	for i, c := range b.competencies {
		names[i] = c.Name
	}

	return model.ProcessedData{
		Employees:       employees,
		Evaluations:     append([]model.Evaluation{}, b.evaluations...),
		Competencies:    append([]model.Competency{}, b.competencies...),
		SheetStructures: append([]model.SheetStructure{}, b.structures...),
		Metadata: model.Metadata{
			TotalEmployees:   len(employees),
			TotalEvaluations: len(b.evaluations),
			EvaluationTypes:  append([]model.EvaluationType{}, b.types...),
			Areas:            areas,
			CompetencyNames:  names,
		},
	}
}
