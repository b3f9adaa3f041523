package report_test

import (
	"strings"
	"testing"

	"github.com/okian/perfscope/internal/adapters/report"
	"github.com/okian/perfscope/internal/domain/model"
	. "github.com/smartystreets/goconvey/convey"
)

func input() report.Input {
	return report.Input{
		Title:    "Ciclo 2026",
		Metadata: model.Metadata{TotalEmployees: 2, TotalEvaluations: 3, Areas: []string{"Finance"}},
		Analytics: model.AnalyticsResults{
			CompletionMetrics: model.CompletionMetrics{
				ByType:  map[model.EvaluationType]model.Completion{model.TypeSelf: {Completed: 1, Pending: 1, Total: 2, CompletionRate: 50}},
				Overall: model.Completion{Completed: 1, Pending: 1, Total: 2, CompletionRate: 50},
			},
			AreaComparisons: []model.AreaComparison{{Area: "Finance", EmployeeCount: 1, AverageScore: 88, TopPerformer: model.Performer{Name: "Ana | Gómez", Score: 88}}},
			TalentHeatMap:   []model.TalentHeatMapEntry{{Employee: "<b>Ana</b>", Area: "Finance", OverallScore: 88, PerformanceLevel: model.LevelHighPerformer, RiskLevel: model.RiskLow}},
			Insights:        []string{"Finance es el área con mejor desempeño promedio (88.0 puntos)."},
			Recommendations: []string{"Implementar planes de desarrollo individualizados basados en los resultados de competencias."},
		},
	}
}

func TestMarkdown(t *testing.T) {
	Convey("Given analytics results", t, func() {
		md := report.Markdown(input())

		Convey("Then the report carries the narrative sections", func() {
			So(md, ShouldStartWith, "# Ciclo 2026")
			So(md, ShouldContainSubstring, "## Hallazgos")
			So(md, ShouldContainSubstring, "## Recomendaciones")
			So(md, ShouldContainSubstring, "General: 50.0% (1 de 2)")
			So(md, ShouldContainSubstring, "| autoevaluacion | 1 | 1 | 50.0 |")
		})

		Convey("Then table cells are escaped", func() {
			So(md, ShouldContainSubstring, `Ana \| Gómez`)
			So(md, ShouldNotContainSubstring, "<b>")
		})

		Convey("Then empty sections are omitted", func() {
			So(md, ShouldNotContainSubstring, "Feedback ascendente")
			So(md, ShouldNotContainSubstring, "Evaluación de pares")
		})
	})
}

func TestHTML(t *testing.T) {
	Convey("Given a renderer", t, func() {
		out, err := report.New().HTML(input())

		Convey("Then a standalone HTML document is produced", func() {
			So(err, ShouldBeNil)
			doc := string(out)
			So(doc, ShouldStartWith, "<!doctype html>")
			So(doc, ShouldContainSubstring, "<title>Ciclo 2026</title>")
			So(doc, ShouldContainSubstring, "<h1>Ciclo 2026</h1>")
			So(doc, ShouldContainSubstring, "<table>")
			So(strings.Count(doc, "<li>"), ShouldEqual, 2)
		})
	})
}
