package api

import (
	"errors"
	"net/http"
	"strings"

	service "github.com/okian/perfscope/internal/app"
	"github.com/okian/perfscope/internal/domain/model"
)

// Multipart form field names.
const (
	fieldEvaluations   = "evaluations"
	fieldSegmentations = "segmentations"
)

// multipartMemory is how much of a multipart body is kept in memory before
// spilling to temporary files.
const multipartMemory = 8 << 20

// UploadsHandler handles upload and session requests.
type UploadsHandler struct {
	deps     Dependencies
	maxBytes int64
}

// NewUploadsHandler creates a new uploads handler.
func NewUploadsHandler(deps Dependencies, maxBytes int64) *UploadsHandler {
	return &UploadsHandler{deps: deps, maxBytes: maxBytes}
}

// segmentsResponse is the reply of GET /uploads/{id}/segments.
type segmentsResponse struct {
	Headers []string                     `json:"headers"`
	Users   int                          `json:"users"`
	Values  map[model.Dimension][]string `json:"values"`
}

// segmentUsersResponse is the reply of GET /uploads/{id}/segments with a
// dimension and value.
type segmentUsersResponse struct {
	Dimension model.Dimension          `json:"dimension"`
	Value     string                   `json:"value"`
	Users     []model.UserSegmentation `json:"users"`
}

// HandleCreate handles POST /uploads requests. The evaluations part is
// required and the segmentations part is optional.
func (h *UploadsHandler) HandleCreate(w http.ResponseWriter, r *http.Request) {
	const op = "api.create_upload"
	if h.maxBytes > 0 {
		r.Body = http.MaxBytesReader(w, r.Body, h.maxBytes)
	}
	if err := r.ParseMultipartForm(multipartMemory); err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			writeError(w, http.StatusRequestEntityTooLarge, "too_large", WrapKind(op, ErrTooLarge, err))
			return
		}
		writeError(w, http.StatusBadRequest, "bad_request", WrapKind(op, ErrBadRequest, err))
		return
	}
	defer func() { _ = r.MultipartForm.RemoveAll() }()

	evals, evalsHdr, err := r.FormFile(fieldEvaluations)
	if err != nil {
		writeError(w, http.StatusBadRequest, "bad_request", WrapKind(op, ErrMissingFile, err))
		return
	}
	defer func() { _ = evals.Close() }()

	up := service.Upload{Evaluations: evals, EvaluationsName: evalsHdr.Filename}

	segs, segsHdr, err := r.FormFile(fieldSegmentations)
	switch {
	case errors.Is(err, http.ErrMissingFile):
	case err != nil:
		writeError(w, http.StatusBadRequest, "bad_request", WrapKind(op, ErrBadRequest, err))
		return
	default:
		defer func() { _ = segs.Close() }()
		up.Segmentations = segs
		up.SegmentationsName = segsHdr.Filename
	}

	sess, err := h.deps.Process(r.Context(), up)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "internal_error", Wrap(op, err))
		return
	}
	writeJSON(w, http.StatusCreated, sess)
}

// HandleList handles GET /uploads requests.
func (h *UploadsHandler) HandleList(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, h.deps.Sessions(r.Context()))
}

// HandleGet handles GET /uploads/{id} requests.
func (h *UploadsHandler) HandleGet(w http.ResponseWriter, r *http.Request) {
	sess, err := h.deps.Session(r.Context(), r.PathValue("id"))
	if err != nil {
		writeLookupError(w, Wrap("api.get_upload", err))
		return
	}
	writeJSON(w, http.StatusOK, sess)
}

// HandleDelete handles DELETE /uploads/{id} requests.
func (h *UploadsHandler) HandleDelete(w http.ResponseWriter, r *http.Request) {
	if err := h.deps.DeleteSession(r.Context(), r.PathValue("id")); err != nil {
		writeLookupError(w, Wrap("api.delete_upload", err))
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// HandleSegments handles GET /uploads/{id}/segments requests. Without a
// query it returns the segmentation summary; with ?dimension=&value= it
// returns the users holding that value.
func (h *UploadsHandler) HandleSegments(w http.ResponseWriter, r *http.Request) {
	const op = "api.segments"
	id := r.PathValue("id")
	q := r.URL.Query()
	dim := strings.TrimSpace(q.Get("dimension"))
	if dim == "" {
		sess, err := h.deps.Session(r.Context(), id)
		if err != nil {
			writeLookupError(w, Wrap(op, err))
			return
		}
		writeJSON(w, http.StatusOK, segmentsResponse(sess.Segments))
		return
	}

	value := strings.TrimSpace(q.Get("value"))
	if value == "" {
		writeError(w, http.StatusBadRequest, "bad_request", WrapKind(op, ErrBadRequest, errors.New("missing value")))
		return
	}
	users, err := h.deps.SegmentUsers(r.Context(), id, model.Dimension(dim), value)
	if err != nil {
		writeLookupError(w, Wrap(op, err))
		return
	}
	writeJSON(w, http.StatusOK, segmentUsersResponse{Dimension: model.Dimension(dim), Value: value, Users: users})
}
