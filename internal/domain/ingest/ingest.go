// Package ingest runs one upload through the pipeline: segmentation
// extraction, identity resolution, sheet detection and record building.
package ingest

import (
	"context"
	"errors"
	"fmt"

	"github.com/okian/perfscope/internal/adapters/workbook"
	"github.com/okian/perfscope/internal/domain/builder"
	"github.com/okian/perfscope/internal/domain/detect"
	"github.com/okian/perfscope/internal/domain/identity"
	"github.com/okian/perfscope/internal/domain/model"
	"github.com/okian/perfscope/internal/domain/segmentation"
	"github.com/okian/perfscope/pkg/logger"
	"github.com/okian/perfscope/pkg/metrics"
)

// Sheet detection outcomes, as reported to metrics.
const (
	sheetProcessed = "processed"
	sheetRoster    = "roster"
	sheetSkipped   = "skipped"
	sheetFailed    = "failed"
)

// Outcome is everything one run produces.
type Outcome struct {
	Result model.ProcessingResult
	// Directory is the segmentation directory used for resolution.
	Directory     *segmentation.Directory
	Segmentations []string
	Stats         Stats
}

// Stats counts what happened to sheets and rows.
type Stats struct {
	SheetsProcessed int
	SheetsIgnored   int
	SheetsSkipped   int
	SheetsFailed    int
	RowsSkipped     int
}

// Processor is stateless between runs; Process may be called concurrently.
type Processor struct {
	log          logger.Logger
	detectOpts   []detect.Option
	identityOpts []identity.Option
}

// New creates a Processor.
func New(opts ...Option) *Processor {
	p := &Processor{log: logger.Discard()}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

// Process builds the dataset for one upload. segs may be nil, in which case
// identities are resolved without a directory. The diagnostics accumulator
// lives on the stack of this call.
func (p *Processor) Process(ctx context.Context, evals, segs *workbook.Workbook) Outcome {
	var diags model.Diagnostics
	if evals == nil {
		diags.Error("evaluations", ErrNoEvaluationWorkbook.Error())
		return Outcome{Result: model.Failed(diags), Directory: segmentation.NewDirectory()}
	}

	out := Outcome{Directory: segmentation.NewDirectory()}
	if segs != nil {
		seg := segmentation.Extract(segs)
		out.Directory = seg.Directory
		out.Segmentations = seg.Segmentations
		diags.Merge(seg.Diagnostics)
		diags.Info("segmentations", fmt.Sprintf("Se cargaron %d usuarios de segmentación", seg.Directory.Len()))
	}

	resolver := identity.New(out.Directory, p.identityOpts...)
	det := detect.New(p.detectOpts...)
	b := builder.New(resolver)

	for _, sheet := range evals.Sheets {
		if err := ctx.Err(); err != nil {
			diags.Error("evaluations", fmt.Sprintf("Procesamiento cancelado: %v", err))
			return p.finish(ctx, out, diags, nil)
		}
		p.processSheet(ctx, det, b, sheet, &diags, &out.Stats)
	}

	if out.Stats.SheetsProcessed == 0 {
		diags.Error("evaluations", "No se encontraron hojas de evaluación válidas en el archivo")
		return p.finish(ctx, out, diags, nil)
	}

	data := b.Build()
	diags.Info("evaluations", fmt.Sprintf("Se procesaron %d hojas con %d evaluaciones de %d empleados",
		out.Stats.SheetsProcessed, data.Metadata.TotalEvaluations, data.Metadata.TotalEmployees))
	return p.finish(ctx, out, diags, &data)
}

// processSheet detects and builds one sheet. A panic inside the sheet is
// turned into an error diagnostic naming it so later sheets still run.
func (p *Processor) processSheet(ctx context.Context, det *detect.Detector, b *builder.Builder, sheet workbook.Sheet, diags *model.Diagnostics, stats *Stats) {
	defer func() {
		if r := recover(); r != nil {
			stats.SheetsFailed++
			metrics.RecordSheet(sheetFailed)
			metrics.RecordErrorByComponent("ingest", "sheet_panic")
			p.log.Error(ctx, "sheet processing failed", logger.String("sheet", sheet.Name), logger.Any("panic", r))
			diags.Error(sheet.Name, fmt.Sprintf("Error procesando la hoja %q: %v", sheet.Name, r))
		}
	}()

	st, err := det.Detect(sheet.Name, sheet.Rows)
	if err != nil {
		if detect.Silent(err) {
			stats.SheetsIgnored++
			metrics.RecordSheet(sheetRoster)
			p.log.Debug(ctx, "roster sheet ignored", logger.String("sheet", sheet.Name))
			return
		}
		stats.SheetsSkipped++
		metrics.RecordSheet(sheetSkipped)
		p.log.Warn(ctx, "sheet skipped", logger.String("sheet", sheet.Name), logger.Error(err))
		diags.Warn(sheet.Name, SkipMessage(sheet.Name, err))
		return
	}

	s := b.AddSheet(st, sheet)
	stats.SheetsProcessed++
	stats.RowsSkipped += s.Skipped
	metrics.RecordSheet(sheetProcessed)
	p.log.Debug(ctx, "sheet processed",
		logger.String("sheet", sheet.Name),
		logger.String("type", string(st.Type)),
		logger.Int("evaluations", s.Evaluations),
		logger.Int("skipped_rows", s.Skipped),
	)
}

func (p *Processor) finish(ctx context.Context, out Outcome, diags model.Diagnostics, data *model.ProcessedData) Outcome {
	metrics.RecordRowsSkipped(out.Stats.RowsSkipped)
	metrics.RecordDiagnostics(string(model.SeverityError), len(diags.Errors))
	metrics.RecordDiagnostics(string(model.SeverityWarning), len(diags.Warnings))
	metrics.RecordDiagnostics(string(model.SeverityInfo), len(diags.Infos))

	if data == nil {
		out.Result = model.Failed(diags)
	} else {
		out.Result = model.Succeeded(data, diags)
	}
	p.log.Info(ctx, "upload processed",
		logger.Bool("success", out.Result.Success),
		logger.Int("sheets_processed", out.Stats.SheetsProcessed),
		logger.Int("sheets_skipped", out.Stats.SheetsSkipped),
		logger.Int("warnings", len(diags.Warnings)),
		logger.Int("errors", len(diags.Errors)),
	)
	return out
}

// Fatal builds the envelope for a workbook that could not be read at all.
func Fatal(field string, err error) model.ProcessingResult {
	var diags model.Diagnostics
	diags.Error(field, fmt.Sprintf("No se pudo leer el archivo: %v", err))
	return model.Failed(diags)
}

// SkipMessage renders the warning for a skipped sheet.
func SkipMessage(sheet string, err error) string {
	switch {
	case errors.Is(err, detect.ErrEmptySheet):
		return fmt.Sprintf("La hoja %q está vacía", sheet)
	case errors.Is(err, detect.ErrHeadersOnly):
		return fmt.Sprintf("La hoja %q solo contiene encabezados, sin datos", sheet)
	case errors.Is(err, detect.ErrUnknownType):
		return fmt.Sprintf("No se pudo determinar el tipo de evaluación de la hoja %q", sheet)
	case errors.Is(err, detect.ErrNoHeaderRow):
		return fmt.Sprintf("No se encontró la fila de encabezados en la hoja %q", sheet)
	case errors.Is(err, detect.ErrNoNameColumn):
		return fmt.Sprintf("No se encontró la columna de evaluado en la hoja %q", sheet)
	default:
		return fmt.Sprintf("La hoja %q no pudo procesarse: %v", sheet, err)
	}
}
