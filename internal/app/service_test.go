package service_test

import (
	"bytes"
	"context"
	"testing"

	"github.com/xuri/excelize/v2"

	service "github.com/okian/perfscope/internal/app"
	"github.com/okian/perfscope/internal/adapters/repository"
	"github.com/okian/perfscope/internal/domain/analytics"
	"github.com/okian/perfscope/internal/domain/model"
	"github.com/okian/perfscope/pkg/logger"
	. "github.com/smartystreets/goconvey/convey"
)

type sheetData struct {
	name string
	rows [][]interface{}
}

func buildXLSX(sheets ...sheetData) []byte {
	f := excelize.NewFile()
	defer func() { _ = f.Close() }()
	for i, s := range sheets {
		if i == 0 {
			So(f.SetSheetName("Sheet1", s.name), ShouldBeNil)
		} else {
			_, err := f.NewSheet(s.name)
			So(err, ShouldBeNil)
		}
		for r, row := range s.rows {
			cell, err := excelize.CoordinatesToCellName(1, r+1)
			So(err, ShouldBeNil)
			So(f.SetSheetRow(s.name, cell, &row), ShouldBeNil)
		}
	}
	buf, err := f.WriteToBuffer()
	So(err, ShouldBeNil)
	return buf.Bytes()
}

func evaluations() []byte {
	return buildXLSX(sheetData{name: "Autoevaluación", rows: [][]interface{}{
		{"Nombre", "Área", "Estado", "Puntaje"},
		{"Ana Gómez", "Ventas", "Finalizada", 88},
		{"Luis Paz", "Ventas", "Pendiente", ""},
	}})
}

func segmentations() []byte {
	return buildXLSX(sheetData{name: "Usuarios", rows: [][]interface{}{
		{"Email", "Nombre", "Apellido", "Área"},
		{"ana@acme.com", "Ana", "Gómez", "Finance"},
	}})
}

func started() *service.Service {
	svc := service.New(service.WithLogger(logger.Discard()))
	So(svc.Start(context.Background()), ShouldBeNil)
	return svc
}

func TestService_Lifecycle(t *testing.T) {
	Convey("Given a new service", t, func() {
		svc := service.New(service.WithLogger(logger.Discard()), service.WithSessionCapacity(4))

		Convey("Then operations fail before it is started", func() {
			_, err := svc.Session(context.Background(), "x")
			So(err, ShouldEqual, service.ErrNotStarted)
			So(svc.Sessions(context.Background()), ShouldBeEmpty)
			So(svc.GetStats()["started"], ShouldEqual, false)
		})

		Convey("When started and stopped", func() {
			So(svc.Start(context.Background()), ShouldBeNil)
			So(svc.Start(context.Background()), ShouldBeNil)
			stats := svc.GetStats()
			So(stats["started"], ShouldEqual, true)
			So(stats["sessionCapacity"], ShouldEqual, 4)
			So(stats["sessions"], ShouldEqual, 0)

			svc.Stop()
			So(svc.GetStats()["started"], ShouldEqual, false)
		})
	})
}

func TestService_Process(t *testing.T) {
	Convey("Given a started service", t, func() {
		svc := started()
		defer svc.Stop()
		ctx := context.Background()

		Convey("When both workbooks are uploaded", func() {
			sess, err := svc.Process(ctx, service.Upload{
				Evaluations:       bytes.NewReader(evaluations()),
				EvaluationsName:   "evals.xlsx",
				Segmentations:     bytes.NewReader(segmentations()),
				SegmentationsName: "users.xlsx",
			})
			So(err, ShouldBeNil)

			Convey("Then the session carries the dataset and analytics", func() {
				So(sess.ID, ShouldNotBeBlank)
				So(sess.Result.Success, ShouldBeTrue)
				So(sess.Result.Data.Metadata.TotalEmployees, ShouldEqual, 2)
				So(sess.Analytics, ShouldNotBeNil)
				So(sess.Analytics.CompletionMetrics.Overall.CompletionRate, ShouldEqual, 50)
				So(sess.Files.Segmentations, ShouldEqual, "users.xlsx")
				So(sess.Segments.Users, ShouldEqual, 1)
				So(sess.Segments.Values[model.DimensionArea], ShouldResemble, []string{"Finance"})
			})

			Convey("Then it can be fetched and listed", func() {
				got, err := svc.Session(ctx, sess.ID)
				So(err, ShouldBeNil)
				So(got.ID, ShouldEqual, sess.ID)

				list := svc.Sessions(ctx)
				So(list, ShouldHaveLength, 1)
				So(list[0].Employees, ShouldEqual, 2)
				So(svc.GetStats()["sessions"], ShouldEqual, 1)
			})

			Convey("Then filtered analytics narrow the dataset", func() {
				res, err := svc.Analytics(ctx, sess.ID, analytics.Filter{Area: "Ventas"})
				So(err, ShouldBeNil)
				So(res.CompletionMetrics.Overall.Total, ShouldEqual, 1)
				So(res.CompletionMetrics.Overall.Completed, ShouldEqual, 0)

				all, err := svc.Analytics(ctx, sess.ID, analytics.Filter{})
				So(err, ShouldBeNil)
				So(all.CompletionMetrics.Overall.Total, ShouldEqual, 2)
			})

			Convey("Then reports render in both formats", func() {
				md, ct, err := svc.Report(ctx, sess.ID, analytics.Filter{Area: "Ventas"}, service.FormatMarkdown)
				So(err, ShouldBeNil)
				So(ct, ShouldStartWith, "text/markdown")
				So(string(md), ShouldStartWith, "# Reporte de desempeño: evals.xlsx")
				So(string(md), ShouldContainSubstring, "área = Ventas")

				page, ct, err := svc.Report(ctx, sess.ID, analytics.Filter{}, service.FormatHTML)
				So(err, ShouldBeNil)
				So(ct, ShouldStartWith, "text/html")
				So(string(page), ShouldContainSubstring, "<h1>")
			})

			Convey("Then segmentation users can be listed per value", func() {
				users, err := svc.SegmentUsers(ctx, sess.ID, model.DimensionArea, "Finance")
				So(err, ShouldBeNil)
				So(users, ShouldHaveLength, 1)
				So(users[0].ID, ShouldEqual, "ana@acme.com")

				users, err = svc.SegmentUsers(ctx, sess.ID, model.DimensionLocation, "Lima")
				So(err, ShouldBeNil)
				So(users, ShouldBeEmpty)

				_, err = svc.SegmentUsers(ctx, sess.ID, model.Dimension("team"), "x")
				So(err, ShouldEqual, service.ErrUnknownDimension)
			})

			Convey("Then it can be deleted", func() {
				So(svc.DeleteSession(ctx, sess.ID), ShouldBeNil)
				_, err := svc.Session(ctx, sess.ID)
				So(err, ShouldEqual, repository.ErrNotFound)
			})
		})

		Convey("When the evaluation workbook is not a spreadsheet", func() {
			sess, err := svc.Process(ctx, service.Upload{
				Evaluations:     bytes.NewReader([]byte("not a zip")),
				EvaluationsName: "evals.txt",
			})
			So(err, ShouldBeNil)

			Convey("Then a failed session is stored", func() {
				So(sess.Result.Success, ShouldBeFalse)
				So(sess.Result.Errors, ShouldHaveLength, 1)
				So(sess.Result.Errors[0].Field, ShouldEqual, service.RoleEvaluations)
				So(sess.Analytics, ShouldBeNil)
			})

			Convey("Then analytics report that there is no data", func() {
				_, err := svc.Analytics(ctx, sess.ID, analytics.Filter{})
				So(err, ShouldEqual, service.ErrNoData)
				_, _, err = svc.Report(ctx, sess.ID, analytics.Filter{}, service.FormatHTML)
				So(err, ShouldEqual, service.ErrNoData)
			})
		})

		Convey("When only the segmentation workbook is unreadable", func() {
			sess, err := svc.Process(ctx, service.Upload{
				Evaluations:   bytes.NewReader(evaluations()),
				Segmentations: bytes.NewReader([]byte("garbage")),
			})
			So(err, ShouldBeNil)

			Convey("Then the failure names the segmentation workbook", func() {
				So(sess.Result.Success, ShouldBeFalse)
				So(sess.Result.Errors[0].Field, ShouldEqual, service.RoleSegmentations)
			})
		})

		Convey("When no evaluation workbook is given", func() {
			_, err := svc.Process(ctx, service.Upload{})
			So(err, ShouldEqual, service.ErrNoUpload)
		})

		Convey("When the session is unknown", func() {
			_, err := svc.Analytics(ctx, "missing", analytics.Filter{})
			So(err, ShouldEqual, repository.ErrNotFound)
		})
	})
}

func TestService_ReportUsesStoredAnalytics(t *testing.T) {
	Convey("Given a stored session whose analytics were computed at upload", t, func() {
		store := repository.NewMemoryStore()
		svc := service.New(service.WithLogger(logger.Discard()), service.WithStore(store))
		So(svc.Start(context.Background()), ShouldBeNil)
		defer svc.Stop()
		ctx := context.Background()

		sess, err := svc.Process(ctx, service.Upload{Evaluations: bytes.NewReader(evaluations())})
		So(err, ShouldBeNil)
		cached := *sess.Analytics
		cached.Insights = []string{"Resultado almacenado en la sesión."}
		sess.Analytics = &cached
		So(store.Save(ctx, sess), ShouldBeNil)

		Convey("When the report is not filtered", func() {
			md, _, err := svc.Report(ctx, sess.ID, analytics.Filter{}, service.FormatMarkdown)
			So(err, ShouldBeNil)

			Convey("Then it renders the stored analytics", func() {
				So(string(md), ShouldContainSubstring, "Resultado almacenado en la sesión.")
				So(string(md), ShouldContainSubstring, "**Empleados:** 2")
			})
		})

		Convey("When the report is filtered", func() {
			md, _, err := svc.Report(ctx, sess.ID, analytics.Filter{Area: "Ventas"}, service.FormatMarkdown)
			So(err, ShouldBeNil)

			Convey("Then the analytics are recomputed", func() {
				So(string(md), ShouldNotContainSubstring, "Resultado almacenado en la sesión.")
			})
		})
	})
}
