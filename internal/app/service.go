// Package service provides the core business service that implements
// the dependencies required by the HTTP API and the CLI.
package service

import (
	"context"
	"errors"
	"fmt"
	"io"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"

	"github.com/okian/perfscope/internal/adapters/report"
	"github.com/okian/perfscope/internal/adapters/repository"
	"github.com/okian/perfscope/internal/adapters/workbook"
	"github.com/okian/perfscope/internal/domain/analytics"
	"github.com/okian/perfscope/internal/domain/ingest"
	"github.com/okian/perfscope/internal/domain/model"
	"github.com/okian/perfscope/internal/domain/segmentation"
	"github.com/okian/perfscope/pkg/logger"
	"github.com/okian/perfscope/pkg/metrics"
)

// Workbook roles, used as diagnostic fields and metric labels.
const (
	RoleEvaluations   = "evaluations"
	RoleSegmentations = "segmentations"
)

// Report formats.
const (
	FormatHTML     = "html"
	FormatMarkdown = "md"
)

// Upload is one pair of workbooks to process. Segmentations may be nil.
type Upload struct {
	Evaluations       io.Reader
	EvaluationsName   string
	Segmentations     io.Reader
	SegmentationsName string
}

// Service implements the API dependencies for upload processing.
type Service struct {
	mu sync.RWMutex

	// Core components
	store     repository.Store
	processor *ingest.Processor
	renderer  *report.Renderer

	// Configuration
	sessionCapacity   int
	headerScanRows    int
	placeholderDomain string

	// State
	started bool

	// Logging
	logger logger.Logger
}

// New constructs a new Service with default configuration.
func New(opts ...Option) *Service {
	s := &Service{
		sessionCapacity:   32,
		headerScanRows:    10,
		placeholderDomain: "empresa.com",
		logger:            nil, // Will be replaced when service starts
	}

	// Apply all options
	for _, opt := range opts {
		opt(s)
	}

	return s
}

// Start initializes the service components.
func (s *Service) Start(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.started {
		return nil
	}

	// Initialize logger if not already set
	if s.logger == nil {
		s.logger = logger.Get()
	}

	if s.store == nil {
		s.store = repository.NewMemoryStore(repository.WithCapacity(s.sessionCapacity))
	}
	s.processor = ingest.New(
		ingest.WithLogger(s.logger.Named("ingest")),
		ingest.WithHeaderScanRows(s.headerScanRows),
		ingest.WithPlaceholderDomain(s.placeholderDomain),
	)
	s.renderer = report.New()

	s.started = true
	s.logger.Info(ctx, "perfscope service started",
		logger.Int("sessionCapacity", s.sessionCapacity),
		logger.Int("headerScanRows", s.headerScanRows),
		logger.String("placeholderDomain", s.placeholderDomain),
	)
	return nil
}

// Stop shuts the service down. Sessions are kept only in memory and are
// lost.
func (s *Service) Stop() {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.started {
		return
	}
	s.started = false
	s.logger.Info(context.Background(), "perfscope service stopped")
}

// readError names the workbook that failed to decode.
type readError struct {
	role string
	err  error
}

func (e *readError) Error() string { return e.role + ": " + e.err.Error() }
func (e *readError) Unwrap() error { return e.err }

// Process decodes both workbooks concurrently, runs the pipeline, stores
// the session and returns it. Unreadable workbooks produce a stored session
// with a failed result rather than an error.
func (s *Service) Process(ctx context.Context, up Upload) (repository.Session, error) {
	if err := s.ready(); err != nil {
		return repository.Session{}, err
	}
	if up.Evaluations == nil {
		return repository.Session{}, ErrNoUpload
	}
	start := time.Now()

	var evals, segs *workbook.Workbook
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		wb, err := s.read(gctx, RoleEvaluations, up.Evaluations)
		evals = wb
		return err
	})
	if up.Segmentations != nil {
		g.Go(func() error {
			wb, err := s.read(gctx, RoleSegmentations, up.Segmentations)
			segs = wb
			return err
		})
	}

	sess := repository.Session{
		ID:        uuid.NewString(),
		CreatedAt: time.Now().UTC(),
		Files:     repository.Files{Evaluations: up.EvaluationsName, Segmentations: up.SegmentationsName},
		Segments:  repository.Segments{Headers: []string{}, Values: map[model.Dimension][]string{}},
	}

	if err := g.Wait(); err != nil {
		if ctxErr := ctx.Err(); ctxErr != nil {
			return repository.Session{}, ctxErr
		}
		var re *readError
		role := RoleEvaluations
		if errors.As(err, &re) {
			role = re.role
		}
		s.logger.Warn(ctx, "workbook unreadable", logger.String("workbook", role), logger.Error(err))
		metrics.RecordErrorByComponent("workbook", role)
		sess.Result = ingest.Fatal(role, err)
	} else {
		out := s.processor.Process(ctx, evals, segs)
		sess.Result = out.Result
		sess.Segments = segments(out.Directory, out.Segmentations)
		sess.Directory = out.Directory
		if out.Result.Success && out.Result.Data != nil {
			res := analytics.Analyze(*out.Result.Data)
			sess.Analytics = &res
			metrics.RecordDataset(out.Result.Data.Metadata.TotalEmployees, out.Result.Data.Metadata.TotalEvaluations)
		}
	}

	if err := s.store.Save(ctx, sess); err != nil {
		return repository.Session{}, fmt.Errorf("save session: %w", err)
	}

	outcome := metrics.OutcomeFailure
	if sess.Result.Success {
		outcome = metrics.OutcomeSuccess
	}
	elapsed := time.Since(start)
	metrics.RecordUpload(outcome)
	metrics.RecordProcessingLatency(float64(elapsed.Milliseconds()))
	s.logger.Info(ctx, "upload stored",
		logger.String("session", sess.ID),
		logger.Bool("success", sess.Result.Success),
		logger.Int("warnings", len(sess.Result.Warnings)),
		logger.Duration("took", elapsed),
	)
	return sess, nil
}

func (s *Service) read(ctx context.Context, role string, r io.Reader) (*workbook.Workbook, error) {
	start := time.Now()
	wb, err := workbook.Read(ctx, r)
	metrics.RecordWorkbookReadLatency(role, float64(time.Since(start).Milliseconds()))
	if err != nil {
		return nil, &readError{role: role, err: err}
	}
	return wb, nil
}

func segments(dir *segmentation.Directory, headers []string) repository.Segments {
	seg := repository.Segments{
		Headers: append([]string{}, headers...),
		Users:   dir.Len(),
		Values:  make(map[model.Dimension][]string, len(model.Dimensions)),
	}
	for _, d := range model.Dimensions {
		seg.Values[d] = dir.Values(d)
	}
	return seg
}

// Session returns a stored session.
func (s *Service) Session(ctx context.Context, id string) (repository.Session, error) {
	if err := s.ready(); err != nil {
		return repository.Session{}, err
	}
	return s.store.Get(ctx, id)
}

// Sessions lists stored sessions, newest first.
func (s *Service) Sessions(ctx context.Context) []repository.Summary {
	if s.ready() != nil {
		return []repository.Summary{}
	}
	return s.store.List(ctx)
}

// DeleteSession drops a stored session.
func (s *Service) DeleteSession(ctx context.Context, id string) error {
	if err := s.ready(); err != nil {
		return err
	}
	return s.store.Delete(ctx, id)
}

// SegmentUsers lists the segmentation users of a session whose dimension
// equals value.
func (s *Service) SegmentUsers(ctx context.Context, id string, dim model.Dimension, value string) ([]model.UserSegmentation, error) {
	sess, err := s.Session(ctx, id)
	if err != nil {
		return nil, err
	}
	if !validDimension(dim) {
		return nil, ErrUnknownDimension
	}
	users := sess.Directory.Filter(dim, value)
	if users == nil {
		users = []model.UserSegmentation{}
	}
	return users, nil
}

func validDimension(dim model.Dimension) bool {
	for _, d := range model.Dimensions {
		if d == dim {
			return true
		}
	}
	return false
}

// Analytics returns the analytics of a session narrowed by filter. An
// empty filter returns the results computed at upload time.
func (s *Service) Analytics(ctx context.Context, id string, filter analytics.Filter) (model.AnalyticsResults, error) {
	sess, data, err := s.dataset(ctx, id)
	if err != nil {
		return model.AnalyticsResults{}, err
	}
	if filter.Empty() && sess.Analytics != nil {
		return *sess.Analytics, nil
	}
	return analytics.Analyze(filter.Apply(*data)), nil
}

// Report renders the analytics of a session as HTML or Markdown. It returns
// the body and its content type.
func (s *Service) Report(ctx context.Context, id string, filter analytics.Filter, format string) ([]byte, string, error) {
	sess, data, err := s.dataset(ctx, id)
	if err != nil {
		return nil, "", err
	}
	meta := data.Metadata
	var res model.AnalyticsResults
	if filter.Empty() && sess.Analytics != nil {
		res = *sess.Analytics
	} else {
		filtered := filter.Apply(*data)
		meta = filtered.Metadata
		res = analytics.Analyze(filtered)
	}

	in := report.Input{
		Title:     "Reporte de desempeño",
		Metadata:  meta,
		Analytics: res,
		Filter:    describe(filter),
	}
	if sess.Files.Evaluations != "" {
		in.Title += ": " + sess.Files.Evaluations
	}

	if format == FormatMarkdown {
		return []byte(report.Markdown(in)), "text/markdown; charset=utf-8", nil
	}
	body, err := s.renderer.HTML(in)
	if err != nil {
		return nil, "", err
	}
	return body, "text/html; charset=utf-8", nil
}

func (s *Service) dataset(ctx context.Context, id string) (repository.Session, *model.ProcessedData, error) {
	sess, err := s.Session(ctx, id)
	if err != nil {
		return repository.Session{}, nil, err
	}
	if !sess.Result.Success || sess.Result.Data == nil {
		return repository.Session{}, nil, ErrNoData
	}
	return sess, sess.Result.Data, nil
}

func describe(f analytics.Filter) string {
	var parts []string
	if f.Area != "" {
		parts = append(parts, "área = "+f.Area)
	}
	if f.SubArea != "" {
		parts = append(parts, "subárea = "+f.SubArea)
	}
	if f.Location != "" {
		parts = append(parts, "ubicación = "+f.Location)
	}
	return strings.Join(parts, ", ")
}

// GetStats reports service state for the stats endpoint.
func (s *Service) GetStats() map[string]interface{} {
	s.mu.RLock()
	defer s.mu.RUnlock()

	stats := map[string]interface{}{
		"started":         s.started,
		"sessionCapacity": s.sessionCapacity,
		"headerScanRows":  s.headerScanRows,
	}
	if s.started {
		n := s.store.Count(context.Background())
		stats["sessions"] = n
		metrics.UpdateSessionsStored(n)
	}
	return stats
}

func (s *Service) ready() error {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if !s.started {
		return ErrNotStarted
	}
	return nil
}
