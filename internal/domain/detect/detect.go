// Package detect infers the structure of evaluation sheets: their type,
// header row, column mapping and the competencies named in the header.
package detect

import (
	"fmt"
	"regexp"
	"strings"

	"github.com/okian/perfscope/internal/domain/model"
	"github.com/okian/perfscope/internal/domain/rules"
)

const (
	defaultHeaderScanRows = 10
	minHeaderCells        = 3
)

// numberedCompetency captures "Name" from headers like "1. Name: question".
var numberedCompetency = regexp.MustCompile(`^\s*\d+\.\s*([^:]+)`)

// Option applies a configuration option to the Detector.
type Option func(*Detector)

// WithHeaderScanRows bounds how many leading rows are searched for headers.
func WithHeaderScanRows(n int) Option {
	return func(d *Detector) {
		if n > 0 {
			d.headerScanRows = n
		}
	}
}

// Detector infers SheetStructures. It holds configuration only.
type Detector struct {
	headerScanRows int
}

// New creates a Detector.
func New(opts ...Option) *Detector {
	d := &Detector{headerScanRows: defaultHeaderScanRows}
	for _, opt := range opts {
		opt(d)
	}
	return d
}

// Detect analyses one sheet. A nil error means the sheet is a usable
// evaluation sheet; otherwise the error wraps one of the package sentinels.
func (d *Detector) Detect(name string, rows [][]string) (model.SheetStructure, error) {
	kind, ok := rules.SheetKinds.Match(name)
	if ok && kind == rules.SheetRoster {
		return model.SheetStructure{}, fmt.Errorf("%q: %w", name, ErrRosterSheet)
	}

	switch len(rows) {
	case 0:
		return model.SheetStructure{}, fmt.Errorf("%q: %w", name, ErrEmptySheet)
	case 1:
		return model.SheetStructure{}, fmt.Errorf("%q: %w", name, ErrHeadersOnly)
	}

	if !ok {
		return model.SheetStructure{}, fmt.Errorf("%q: %w", name, ErrUnknownType)
	}
	evalType := model.EvaluationType(kind)

	header := d.HeaderRow(rows)
	if header < 0 {
		return model.SheetStructure{}, fmt.Errorf("%q: %w", name, ErrNoHeaderRow)
	}
	if header == len(rows)-1 {
		return model.SheetStructure{}, fmt.Errorf("%q: %w", name, ErrHeadersOnly)
	}

	columns := MapColumns(rows[header], evalType)
	if columns.EvaluatedName < 0 {
		return model.SheetStructure{}, fmt.Errorf("%q: %w", name, ErrNoNameColumn)
	}

	competencies := ExtractCompetencies(rows[header], reserved(columns))
	names := make([]string, len(competencies))
	for i, c := range competencies {
		names[i] = c.Name
	}

	return model.SheetStructure{
		Name:              name,
		Type:              evalType,
		Columns:           columns,
		HeaderRow:         header,
		DataStartRow:      header + 1,
		Competencies:      names,
		CompetencyColumns: competencies,
	}, nil
}

// HeaderRow returns the index of the first qualifying header row within the
// scan window, or -1.
func (d *Detector) HeaderRow(rows [][]string) int {
	limit := min(len(rows), d.headerScanRows)
	for i := 0; i < limit; i++ {
		if IsHeaderRow(rows[i]) {
			return i
		}
	}
	return -1
}

// IsHeaderRow reports whether row has at least three cells and mentions a
// header indicator.
func IsHeaderRow(row []string) bool {
	if len(row) < minHeaderCells {
		return false
	}
	return rules.Contains(strings.Join(row, " "), rules.HeaderIndicators...)
}

// MapColumns assigns each field to the first header matching its rule.
// The evaluator column is only mapped for evaluations with an evaluator.
func MapColumns(header []string, evalType model.EvaluationType) model.ColumnMapping {
	m := model.ColumnMapping{EvaluatedName: -1, EvaluatedArea: -1, Status: -1}
	assigned := make(map[rules.Field]bool, len(rules.Columns))

	for i, cell := range header {
		text := strings.TrimSpace(cell)
		if text == "" {
			continue
		}
		for _, rule := range rules.Columns {
			if assigned[rule.Category] || !rule.Matches(text) {
				continue
			}
			switch rule.Category {
			case rules.FieldEvaluatedName:
				m.EvaluatedName = i
			case rules.FieldArea:
				m.EvaluatedArea = i
			case rules.FieldEvaluator:
				if evalType == model.TypeSelf {
					continue
				}
				m.EvaluatorName = model.Index(i)
			case rules.FieldStatus:
				m.Status = i
			case rules.FieldTotalScore:
				m.TotalScore = model.Index(i)
			}
			assigned[rule.Category] = true
		}
	}
	return m
}

// ExtractCompetencies collects the competencies named in header and the
// columns scoring each. A keyword already covered by a collected name is
// skipped, so near-duplicate headers fold into the first competency. Columns
// in skip are never treated as competency columns.
func ExtractCompetencies(header []string, skip map[int]bool) []model.CompetencyColumns {
	var out []model.CompetencyColumns

	covered := func(kw rules.Keyword) bool {
		term := rules.Fold(kw.Term)
		for _, c := range out {
			if strings.Contains(rules.Fold(c.Name), term) {
				return true
			}
		}
		return false
	}

	for i, cell := range header {
		text := strings.TrimSpace(cell)
		if text == "" || skip[i] {
			continue
		}
		if kw, ok := rules.FirstKeyword(text, rules.Competencies, covered); ok {
			name := CompetencyName(text, kw)
			if idx := indexOf(out, name); idx >= 0 {
				out[idx].Columns = append(out[idx].Columns, i)
				out[idx].Headers = append(out[idx].Headers, text)
				continue
			}
			out = append(out, model.CompetencyColumns{Name: name, Columns: []int{i}, Headers: []string{text}})
			continue
		}
		// Every keyword present is already covered: attach the column to the
		// competency that covers the first of them.
		if kw, ok := rules.FirstKeyword(text, rules.Competencies, nil); ok {
			if idx := coveringIndex(out, kw); idx >= 0 {
				out[idx].Columns = append(out[idx].Columns, i)
				out[idx].Headers = append(out[idx].Headers, text)
			}
		}
	}
	return out
}

// CompetencyName derives a display name from a header, preferring a leading
// "<n>. <name>:" segment over the keyword's canonical label.
func CompetencyName(header string, kw rules.Keyword) string {
	if m := numberedCompetency.FindStringSubmatch(header); m != nil {
		if name := strings.TrimSpace(m[1]); name != "" {
			return name
		}
	}
	return kw.Label
}

func indexOf(cs []model.CompetencyColumns, name string) int {
	for i, c := range cs {
		if c.Name == name {
			return i
		}
	}
	return -1
}

func coveringIndex(cs []model.CompetencyColumns, kw rules.Keyword) int {
	term := rules.Fold(kw.Term)
	for i, c := range cs {
		if strings.Contains(rules.Fold(c.Name), term) {
			return i
		}
	}
	return -1
}

func reserved(m model.ColumnMapping) map[int]bool {
	out := map[int]bool{m.EvaluatedName: true}
	if m.EvaluatedArea >= 0 {
		out[m.EvaluatedArea] = true
	}
	if m.Status >= 0 {
		out[m.Status] = true
	}
	if m.EvaluatorName != nil {
		out[*m.EvaluatorName] = true
	}
	if m.TotalScore != nil {
		out[*m.TotalScore] = true
	}
	return out
}
