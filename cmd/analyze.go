package main

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	app "github.com/okian/perfscope/internal/app"
	"github.com/okian/perfscope/internal/domain/analytics"
	"github.com/okian/perfscope/pkg/logger"
)

// Output formats of the analyze command.
const formatJSON = "json"

var errUnknownFormat = errors.New("unknown output format")

type analyzeFlags struct {
	evaluations   string
	segmentations string
	format        string
	filter        analytics.Filter
}

func newAnalyzeCmd() *cobra.Command {
	var f analyzeFlags
	cmd := &cobra.Command{
		Use:   "analyze",
		Short: "Process a workbook pair from disk and print the results",
		Long: "Process an evaluation workbook, and optionally a segmentation workbook, and print " +
			"the processing envelope with analytics as JSON, or the narrative report as Markdown or HTML.",
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runAnalyze(cmd.Context(), f, cmd.OutOrStdout(), cmd.ErrOrStderr())
		},
	}
	cmd.Flags().StringVarP(&f.evaluations, "evaluations", "e", "", "Path to the evaluation workbook (.xlsx)")
	cmd.Flags().StringVarP(&f.segmentations, "segmentations", "s", "", "Path to the segmentation workbook (.xlsx)")
	cmd.Flags().StringVarP(&f.format, "format", "f", formatJSON, "Output format: json, md or html")
	cmd.Flags().StringVar(&f.filter.Area, "area", "", "Only analyze this area")
	cmd.Flags().StringVar(&f.filter.SubArea, "sub-area", "", "Only analyze this sub-area")
	cmd.Flags().StringVar(&f.filter.Location, "location", "", "Only analyze this location")
	_ = cmd.MarkFlagRequired("evaluations")
	return cmd
}

// analyzeOutput is the JSON document printed by analyze.
type analyzeOutput struct {
	ID        string      `json:"id"`
	Result    interface{} `json:"result"`
	Analytics interface{} `json:"analytics,omitempty"`
}

func runAnalyze(ctx context.Context, f analyzeFlags, stdout, stderr io.Writer) error {
	if ctx == nil {
		ctx = context.Background()
	}
	switch f.format {
	case formatJSON, app.FormatMarkdown, app.FormatHTML:
	default:
		return fmt.Errorf("%w: %s", errUnknownFormat, f.format)
	}

	cfg, err := setup(ctx, logger.WithOutput(stderr))
	if err != nil {
		return err
	}
	svc := newService(cfg)
	if err := svc.Start(ctx); err != nil {
		return fmt.Errorf("start service: %w", err)
	}
	defer svc.Stop()

	evals, err := os.Open(f.evaluations)
	if err != nil {
		return fmt.Errorf("open evaluations: %w", err)
	}
	defer func() { _ = evals.Close() }()
	up := app.Upload{Evaluations: evals, EvaluationsName: filepath.Base(f.evaluations)}

	if f.segmentations != "" {
		segs, err := os.Open(f.segmentations)
		if err != nil {
			return fmt.Errorf("open segmentations: %w", err)
		}
		defer func() { _ = segs.Close() }()
		up.Segmentations = segs
		up.SegmentationsName = filepath.Base(f.segmentations)
	}

	sess, err := svc.Process(ctx, up)
	if err != nil {
		return err
	}

	if f.format != formatJSON {
		if !sess.Result.Success {
			return printJSON(stdout, analyzeOutput{ID: sess.ID, Result: sess.Result})
		}
		body, _, err := svc.Report(ctx, sess.ID, f.filter, f.format)
		if err != nil {
			return err
		}
		_, err = stdout.Write(body)
		return err
	}

	out := analyzeOutput{ID: sess.ID, Result: sess.Result}
	if sess.Result.Success {
		res, err := svc.Analytics(ctx, sess.ID, f.filter)
		if err != nil {
			return err
		}
		out.Analytics = res
	}
	return printJSON(stdout, out)
}

func printJSON(w io.Writer, v interface{}) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}
