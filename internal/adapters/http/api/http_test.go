package api_test

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/xuri/excelize/v2"

	"github.com/okian/perfscope/internal/adapters/http/api"
	"github.com/okian/perfscope/internal/adapters/repository"
	service "github.com/okian/perfscope/internal/app"
	"github.com/okian/perfscope/internal/domain/model"
	"github.com/okian/perfscope/pkg/logger"
	. "github.com/smartystreets/goconvey/convey"
)

type mockStats struct{}

func (mockStats) GetStats() map[string]interface{} {
	return map[string]interface{}{"started": true, "sessions": 0}
}

// failingDeps wraps a real service and fails uploads.
type failingDeps struct {
	*service.Service
}

func (failingDeps) Process(context.Context, service.Upload) (repository.Session, error) {
	return repository.Session{}, errors.New("store unavailable")
}

func workbookBytes(rows [][]interface{}) []byte {
	f := excelize.NewFile()
	defer func() { _ = f.Close() }()
	So(f.SetSheetName("Sheet1", "Evaluación de Pares"), ShouldBeNil)
	for i, row := range rows {
		cell, err := excelize.CoordinatesToCellName(1, i+1)
		So(err, ShouldBeNil)
		So(f.SetSheetRow("Evaluación de Pares", cell, &row), ShouldBeNil)
	}
	buf, err := f.WriteToBuffer()
	So(err, ShouldBeNil)
	return buf.Bytes()
}

func peerWorkbook() []byte {
	return workbookBytes([][]interface{}{
		{"Evaluado", "Área", "Evaluador", "Estado", "Puntaje"},
		{"Ana Gómez", "Ventas", "Luis Paz", "Finalizada", 90},
		{"Luis Paz", "Ventas", "Ana Gómez", "Finalizada", 65},
		{"Marta Ruiz", "IT", "Ana Gómez", "Pendiente", ""},
	})
}

func multipartBody(files map[string][]byte) (*bytes.Buffer, string) {
	var body bytes.Buffer
	mw := multipart.NewWriter(&body)
	for field, data := range files {
		part, err := mw.CreateFormFile(field, field+".xlsx")
		So(err, ShouldBeNil)
		_, err = part.Write(data)
		So(err, ShouldBeNil)
	}
	So(mw.Close(), ShouldBeNil)
	return &body, mw.FormDataContentType()
}

func newMux(deps api.Dependencies, maxBytes int64) *http.ServeMux {
	mux := http.NewServeMux()
	api.NewServer(deps, mockStats{}, maxBytes).Register(context.Background(), mux)
	return mux
}

func do(mux *http.ServeMux, method, target string, body *bytes.Buffer, contentType string) *httptest.ResponseRecorder {
	var req *http.Request
	if body == nil {
		req = httptest.NewRequest(method, target, http.NoBody)
	} else {
		req = httptest.NewRequest(method, target, body)
	}
	if contentType != "" {
		req.Header.Set("Content-Type", contentType)
	}
	w := httptest.NewRecorder()
	mux.ServeHTTP(w, req)
	return w
}

func TestServer_Uploads(t *testing.T) {
	Convey("Given an API server backed by a started service", t, func() {
		svc := service.New(service.WithLogger(logger.Discard()))
		So(svc.Start(context.Background()), ShouldBeNil)
		defer svc.Stop()
		mux := newMux(svc, 1<<20)

		Convey("When an evaluation workbook is uploaded", func() {
			body, ct := multipartBody(map[string][]byte{"evaluations": peerWorkbook()})
			w := do(mux, http.MethodPost, "/uploads", body, ct)

			So(w.Code, ShouldEqual, http.StatusCreated)
			var sess repository.Session
			So(json.Unmarshal(w.Body.Bytes(), &sess), ShouldBeNil)

			Convey("Then the stored session is returned", func() {
				So(sess.ID, ShouldNotBeBlank)
				So(sess.Result.Success, ShouldBeTrue)
				So(sess.Result.Data.Metadata.TotalEvaluations, ShouldEqual, 3)
				So(sess.Files.Evaluations, ShouldEqual, "evaluations.xlsx")
			})

			Convey("Then the session can be read back and listed", func() {
				w := do(mux, http.MethodGet, "/uploads/"+sess.ID, nil, "")
				So(w.Code, ShouldEqual, http.StatusOK)

				w = do(mux, http.MethodGet, "/uploads", nil, "")
				So(w.Code, ShouldEqual, http.StatusOK)
				var list []repository.Summary
				So(json.Unmarshal(w.Body.Bytes(), &list), ShouldBeNil)
				So(list, ShouldHaveLength, 1)
			})

			Convey("Then analytics honour the area filter", func() {
				w := do(mux, http.MethodGet, "/uploads/"+sess.ID+"/analytics?area=Ventas", nil, "")
				So(w.Code, ShouldEqual, http.StatusOK)
				var res model.AnalyticsResults
				So(json.Unmarshal(w.Body.Bytes(), &res), ShouldBeNil)
				So(res.CompletionMetrics.Overall.Total, ShouldEqual, 2)
				So(res.PeerMatrix.Reciprocity.Mutual, ShouldEqual, 1)
			})

			Convey("Then reports are served as HTML and Markdown", func() {
				w := do(mux, http.MethodGet, "/uploads/"+sess.ID+"/report", nil, "")
				So(w.Code, ShouldEqual, http.StatusOK)
				So(w.Header().Get("Content-Type"), ShouldStartWith, "text/html")

				w = do(mux, http.MethodGet, "/uploads/"+sess.ID+"/report?format=md", nil, "")
				So(w.Code, ShouldEqual, http.StatusOK)
				So(w.Body.String(), ShouldStartWith, "# Reporte de desempeño")

				w = do(mux, http.MethodGet, "/uploads/"+sess.ID+"/report?format=pdf", nil, "")
				So(w.Code, ShouldEqual, http.StatusBadRequest)
			})

			Convey("Then segments are summarised", func() {
				w := do(mux, http.MethodGet, "/uploads/"+sess.ID+"/segments", nil, "")
				So(w.Code, ShouldEqual, http.StatusOK)
				So(w.Body.String(), ShouldContainSubstring, `"users":0`)

				w = do(mux, http.MethodGet, "/uploads/"+sess.ID+"/segments?dimension=area&value=IT", nil, "")
				So(w.Code, ShouldEqual, http.StatusOK)
				So(w.Body.String(), ShouldContainSubstring, `"users":[]`)

				w = do(mux, http.MethodGet, "/uploads/"+sess.ID+"/segments?dimension=team&value=x", nil, "")
				So(w.Code, ShouldEqual, http.StatusBadRequest)

				w = do(mux, http.MethodGet, "/uploads/"+sess.ID+"/segments?dimension=area", nil, "")
				So(w.Code, ShouldEqual, http.StatusBadRequest)
			})

			Convey("Then it can be deleted", func() {
				w := do(mux, http.MethodDelete, "/uploads/"+sess.ID, nil, "")
				So(w.Code, ShouldEqual, http.StatusNoContent)

				w = do(mux, http.MethodGet, "/uploads/"+sess.ID, nil, "")
				So(w.Code, ShouldEqual, http.StatusNotFound)
			})
		})

		Convey("When an unreadable workbook is uploaded", func() {
			body, ct := multipartBody(map[string][]byte{"evaluations": []byte("plain text")})
			w := do(mux, http.MethodPost, "/uploads", body, ct)

			Convey("Then a failed session is stored and analytics are unavailable", func() {
				So(w.Code, ShouldEqual, http.StatusCreated)
				var sess repository.Session
				So(json.Unmarshal(w.Body.Bytes(), &sess), ShouldBeNil)
				So(sess.Result.Success, ShouldBeFalse)

				w = do(mux, http.MethodGet, "/uploads/"+sess.ID+"/analytics", nil, "")
				So(w.Code, ShouldEqual, http.StatusUnprocessableEntity)
			})
		})

		Convey("When the evaluations part is missing", func() {
			body, ct := multipartBody(map[string][]byte{"segmentations": []byte("x")})
			w := do(mux, http.MethodPost, "/uploads", body, ct)
			So(w.Code, ShouldEqual, http.StatusBadRequest)
			So(w.Body.String(), ShouldContainSubstring, "bad_request")
		})

		Convey("When the body is not multipart", func() {
			w := do(mux, http.MethodPost, "/uploads", bytes.NewBufferString("{}"), "application/json")
			So(w.Code, ShouldEqual, http.StatusBadRequest)
		})

		Convey("When the session does not exist", func() {
			w := do(mux, http.MethodGet, "/uploads/missing/analytics", nil, "")
			So(w.Code, ShouldEqual, http.StatusNotFound)
			So(w.Body.String(), ShouldContainSubstring, "not_found")
		})
	})
}

func TestServer_Limits(t *testing.T) {
	Convey("Given a server with a tiny upload limit", t, func() {
		svc := service.New(service.WithLogger(logger.Discard()))
		So(svc.Start(context.Background()), ShouldBeNil)
		defer svc.Stop()
		mux := newMux(svc, 16)

		Convey("When the upload exceeds it", func() {
			body, ct := multipartBody(map[string][]byte{"evaluations": bytes.Repeat([]byte("a"), 4096)})
			w := do(mux, http.MethodPost, "/uploads", body, ct)

			Convey("Then it is rejected as too large", func() {
				So(w.Code, ShouldEqual, http.StatusRequestEntityTooLarge)
				So(w.Body.String(), ShouldContainSubstring, "too_large")
			})
		})
	})

	Convey("Given a service whose uploads fail", t, func() {
		svc := service.New(service.WithLogger(logger.Discard()))
		So(svc.Start(context.Background()), ShouldBeNil)
		defer svc.Stop()
		mux := newMux(failingDeps{svc}, 1<<20)

		Convey("When an upload is posted", func() {
			body, ct := multipartBody(map[string][]byte{"evaluations": []byte("x")})
			w := do(mux, http.MethodPost, "/uploads", body, ct)

			Convey("Then the server reports an internal error", func() {
				So(w.Code, ShouldEqual, http.StatusInternalServerError)
				So(w.Body.String(), ShouldContainSubstring, "store unavailable")
			})
		})
	})
}

func TestServer_Operational(t *testing.T) {
	Convey("Given a registered server", t, func() {
		svc := service.New(service.WithLogger(logger.Discard()))
		So(svc.Start(context.Background()), ShouldBeNil)
		defer svc.Stop()
		mux := newMux(svc, 1<<20)

		Convey("Then stats are served as JSON", func() {
			w := do(mux, http.MethodGet, "/stats", nil, "")
			So(w.Code, ShouldEqual, http.StatusOK)
			So(w.Body.String(), ShouldContainSubstring, `"service":{`)
			So(w.Body.String(), ShouldContainSubstring, `"started":true`)
			So(w.Body.String(), ShouldContainSubstring, `"maxUploadBytes":1048576`)
		})

		Convey("Then health exposes Prometheus metrics", func() {
			do(mux, http.MethodGet, "/stats", nil, "")
			w := do(mux, http.MethodGet, "/healthz", nil, "")
			So(w.Code, ShouldEqual, http.StatusOK)
			So(w.Body.String(), ShouldContainSubstring, "perfscope_")
		})

		Convey("Then wrong methods are rejected", func() {
			w := do(mux, http.MethodPut, "/uploads", nil, "")
			So(w.Code, ShouldEqual, http.StatusMethodNotAllowed)
		})
	})
}

func TestErrorHelpers(t *testing.T) {
	Convey("Given the error helpers", t, func() {
		cause := errors.New("boom")

		Convey("Then kinds and causes are both matchable", func() {
			err := api.WrapKind("op", api.ErrBadRequest, cause)
			So(errors.Is(err, api.ErrBadRequest), ShouldBeTrue)
			So(errors.Is(err, cause), ShouldBeTrue)
			So(err.Error(), ShouldEqual, "op: bad request: boom")
		})

		Convey("Then nil causes are handled", func() {
			So(api.Wrap("op", nil), ShouldBeNil)
			So(errors.Is(api.WrapKind("op", api.ErrTooLarge, nil), api.ErrTooLarge), ShouldBeTrue)
			So(strings.HasPrefix(api.NewKind("op", api.ErrUnknownFormat).Error(), "op: "), ShouldBeTrue)
		})
	})
}
