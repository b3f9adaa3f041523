// Package report renders analytics as a narrative Markdown document and
// converts it to HTML.
package report

import (
	"bytes"
	"fmt"
	"html"
	"sort"
	"strings"

	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/extension"

	"github.com/okian/perfscope/internal/domain/model"
)

const maxHeatMapRows = 20

// Input is what a report is rendered from.
type Input struct {
	Title     string
	Metadata  model.Metadata
	Analytics model.AnalyticsResults
	// Filter describes the active filter, or is empty.
	Filter string
}

// Renderer converts reports to HTML. It is safe for concurrent use.
type Renderer struct {
	md goldmark.Markdown
}

// New creates a Renderer with GFM tables enabled.
func New() *Renderer {
	return &Renderer{md: goldmark.New(goldmark.WithExtensions(extension.Table))}
}

// Markdown renders in as Markdown.
func Markdown(in Input) string {
	var b strings.Builder
	title := in.Title
	if title == "" {
		title = "Reporte de desempeño"
	}
	fmt.Fprintf(&b, "# %s\n\n", escape(title))
	if in.Filter != "" {
		fmt.Fprintf(&b, "_Filtro: %s_\n\n", escape(in.Filter))
	}

	m := in.Metadata
	fmt.Fprintf(&b, "**Empleados:** %d · **Evaluaciones:** %d · **Áreas:** %d\n\n",
		m.TotalEmployees, m.TotalEvaluations, len(m.Areas))

	writeCompletion(&b, in.Analytics.CompletionMetrics)
	writeList(&b, "Hallazgos", in.Analytics.Insights)
	writeList(&b, "Recomendaciones", in.Analytics.Recommendations)
	writeAreas(&b, in.Analytics.AreaComparisons)
	writeHeatMap(&b, in.Analytics.TalentHeatMap)
	writeUpward(&b, in.Analytics.UpwardFeedback)
	writePeers(&b, in.Analytics.PeerMatrix)
	return b.String()
}

// HTML renders in as a standalone HTML document.
func (r *Renderer) HTML(in Input) ([]byte, error) {
	var body bytes.Buffer
	if err := r.md.Convert([]byte(Markdown(in)), &body); err != nil {
		return nil, fmt.Errorf("render report: %w", err)
	}
	title := in.Title
	if title == "" {
		title = "Reporte de desempeño"
	}
	var out bytes.Buffer
	fmt.Fprintf(&out, "<!doctype html>\n<html lang=\"es\">\n<head><meta charset=\"utf-8\"><title>%s</title></head>\n<body>\n",
		html.EscapeString(title))
	out.Write(body.Bytes())
	out.WriteString("</body>\n</html>\n")
	return out.Bytes(), nil
}

func writeCompletion(b *strings.Builder, c model.CompletionMetrics) {
	b.WriteString("## Completitud\n\n")
	fmt.Fprintf(b, "General: %.1f%% (%d de %d)\n\n", c.Overall.CompletionRate, c.Overall.Completed, c.Overall.Total)
	if len(c.ByType) == 0 {
		return
	}
	b.WriteString("| Tipo | Completadas | Pendientes | % |\n|---|---:|---:|---:|\n")
	types := make([]string, 0, len(c.ByType))
	for t := range c.ByType {
		types = append(types, string(t))
	}
	sort.Strings(types)
	for _, t := range types {
		v := c.ByType[model.EvaluationType(t)]
		fmt.Fprintf(b, "| %s | %d | %d | %.1f |\n", t, v.Completed, v.Pending, v.CompletionRate)
	}
	b.WriteString("\n")
}

func writeList(b *strings.Builder, title string, items []string) {
	if len(items) == 0 {
		return
	}
	fmt.Fprintf(b, "## %s\n\n", title)
	for _, it := range items {
		fmt.Fprintf(b, "- %s\n", escape(it))
	}
	b.WriteString("\n")
}

func writeAreas(b *strings.Builder, areas []model.AreaComparison) {
	if len(areas) == 0 {
		return
	}
	b.WriteString("## Ranking de áreas\n\n| # | Área | Empleados | Promedio | Top performer |\n|---:|---|---:|---:|---|\n")
	for i, a := range areas {
		fmt.Fprintf(b, "| %d | %s | %d | %.1f | %s (%.1f) |\n",
			i+1, cell(a.Area), a.EmployeeCount, a.AverageScore, cell(a.TopPerformer.Name), a.TopPerformer.Score)
	}
	b.WriteString("\n")
}

func writeHeatMap(b *strings.Builder, entries []model.TalentHeatMapEntry) {
	if len(entries) == 0 {
		return
	}
	b.WriteString("## Mapa de talento\n\n| Empleado | Área | Puntaje | Nivel | Riesgo |\n|---|---|---:|---|---|\n")
	for i, e := range entries {
		if i == maxHeatMapRows {
			fmt.Fprintf(b, "\n_… y %d empleados más._\n", len(entries)-maxHeatMapRows)
			break
		}
		fmt.Fprintf(b, "| %s | %s | %.1f | %s | %s |\n",
			cell(e.Employee), cell(e.Area), e.OverallScore, e.PerformanceLevel, e.RiskLevel)
	}
	b.WriteString("\n")
}

func writeUpward(b *strings.Builder, fbs []model.UpwardFeedback) {
	if len(fbs) == 0 {
		return
	}
	b.WriteString("## Feedback ascendente\n\n| Líder | Área | Respuestas | Promedio | Fortalezas | A mejorar |\n|---|---|---:|---:|---|---|\n")
	for _, f := range fbs {
		fmt.Fprintf(b, "| %s | %s | %d | %.1f | %s | %s |\n",
			cell(f.ManagerName), cell(f.Area), f.FeedbackCount, f.AverageScore,
			cell(strings.Join(f.Strengths, ", ")), cell(strings.Join(f.ImprovementAreas, ", ")))
	}
	b.WriteString("\n")
}

func writePeers(b *strings.Builder, m model.PeerMatrix) {
	if m.Coverage.Requested == 0 {
		return
	}
	b.WriteString("## Evaluación de pares\n\n")
	fmt.Fprintf(b, "Cobertura: %d de %d (%.1f%%). Recíprocas: %d, unidireccionales: %d.\n\n",
		m.Coverage.Completed, m.Coverage.Requested, m.Coverage.CompletionRate,
		m.Reciprocity.Mutual, m.Reciprocity.OneWay)
}

var mdEscaper = strings.NewReplacer(`\`, `\\`, "*", `\*`, "_", `\_`, "`", "\\`", "<", "&lt;", ">", "&gt;")

// escape neutralises Markdown and HTML in user-supplied text.
func escape(s string) string { return mdEscaper.Replace(s) }

// cell escapes s for use inside a table cell.
func cell(s string) string { return strings.ReplaceAll(escape(s), "|", `\|`) }
