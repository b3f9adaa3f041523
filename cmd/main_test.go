package main

import (
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/smartystreets/goconvey/convey"
	"github.com/xuri/excelize/v2"
)

func writeWorkbook(t *testing.T, dir, name, sheet string, rows [][]interface{}) string {
	f := excelize.NewFile()
	defer func() { _ = f.Close() }()
	convey.So(f.SetSheetName("Sheet1", sheet), convey.ShouldBeNil)
	for i, row := range rows {
		cell, err := excelize.CoordinatesToCellName(1, i+1)
		convey.So(err, convey.ShouldBeNil)
		convey.So(f.SetSheetRow(sheet, cell, &row), convey.ShouldBeNil)
	}
	path := filepath.Join(dir, name)
	convey.So(f.SaveAs(path), convey.ShouldBeNil)
	return path
}

func execute(args ...string) (string, string, error) {
	var stdout, stderr bytes.Buffer
	root := newRootCmd()
	root.SetOut(&stdout)
	root.SetErr(&stderr)
	root.SetArgs(args)
	err := root.Execute()
	return stdout.String(), stderr.String(), err
}

func TestAnalyzeCommand(t *testing.T) {
	convey.Convey("Given an evaluation and a segmentation workbook on disk", t, func() {
		dir := t.TempDir()
		evals := writeWorkbook(t, dir, "evals.xlsx", "Autoevaluación", [][]interface{}{
			{"Nombre", "Área", "Estado", "Puntaje"},
			{"Ana Gómez", "Ventas", "Finalizada", 88},
			{"Luis Paz", "Ventas", "Pendiente", ""},
		})
		segs := writeWorkbook(t, dir, "users.xlsx", "Usuarios", [][]interface{}{
			{"Email", "Nombre", "Apellido", "Área"},
			{"ana@acme.com", "Ana", "Gómez", "Finance"},
		})

		convey.Convey("When analyzed as JSON", func() {
			out, _, err := execute("analyze", "-e", evals, "-s", segs)
			convey.So(err, convey.ShouldBeNil)

			convey.Convey("Then the envelope and analytics are printed", func() {
				var doc struct {
					ID     string `json:"id"`
					Result struct {
						Success bool `json:"success"`
					} `json:"result"`
					Analytics struct {
						AreaComparisons []struct {
							Area string `json:"area"`
						} `json:"areaComparisons"`
					} `json:"analytics"`
				}
				convey.So(json.Unmarshal([]byte(out), &doc), convey.ShouldBeNil)
				convey.So(doc.ID, convey.ShouldNotBeBlank)
				convey.So(doc.Result.Success, convey.ShouldBeTrue)
				convey.So(doc.Analytics.AreaComparisons, convey.ShouldHaveLength, 1)
				convey.So(doc.Analytics.AreaComparisons[0].Area, convey.ShouldEqual, "Finance")
			})
		})

		convey.Convey("When analyzed as Markdown with a filter", func() {
			out, _, err := execute("analyze", "-e", evals, "--format", "md", "--area", "Ventas")
			convey.So(err, convey.ShouldBeNil)
			convey.So(out, convey.ShouldStartWith, "# Reporte de desempeño: evals.xlsx")
			convey.So(out, convey.ShouldContainSubstring, "área = Ventas")
		})

		convey.Convey("When the evaluation file is not a workbook", func() {
			bad := filepath.Join(dir, "bad.xlsx")
			convey.So(os.WriteFile(bad, []byte("nope"), 0o600), convey.ShouldBeNil)
			out, _, err := execute("analyze", "-e", bad, "-f", "md")

			convey.Convey("Then the failed envelope is printed", func() {
				convey.So(err, convey.ShouldBeNil)
				convey.So(out, convey.ShouldContainSubstring, `"success": false`)
				convey.So(out, convey.ShouldContainSubstring, "No se pudo leer el archivo")
			})
		})

		convey.Convey("When the format is unknown", func() {
			_, _, err := execute("analyze", "-e", evals, "-f", "pdf")
			convey.So(err, convey.ShouldNotBeNil)
			convey.So(strings.Contains(err.Error(), "unknown output format"), convey.ShouldBeTrue)
		})

		convey.Convey("When the evaluation file is missing", func() {
			_, _, err := execute("analyze", "-e", filepath.Join(dir, "missing.xlsx"))
			convey.So(err, convey.ShouldNotBeNil)
		})

		convey.Convey("When the required flag is omitted", func() {
			_, _, err := execute("analyze")
			convey.So(err, convey.ShouldNotBeNil)
		})
	})
}

func TestServeCommand(t *testing.T) {
	convey.Convey("Given the root command", t, func() {
		root := newRootCmd()

		convey.Convey("Then it exposes serve with an addr flag", func() {
			serve, _, err := root.Find([]string{"serve"})
			convey.So(err, convey.ShouldBeNil)
			convey.So(serve.Name(), convey.ShouldEqual, "serve")
			convey.So(serve.Flags().Lookup("addr"), convey.ShouldNotBeNil)
		})

		convey.Convey("Then serve fails fast on an invalid configuration", func() {
			t.Setenv("PERFSCOPE_LOG_FORMAT", "xml")
			_, _, err := execute("serve")
			convey.So(err, convey.ShouldNotBeNil)
		})
	})
}
