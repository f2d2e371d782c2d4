package report

import (
	"crypto/sha256"
	"errors"
	"os"
	"path/filepath"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

// Options locate the inputs and outputs of Generate.
type Options struct {
	Title      string
	Results    []string
	ReportsDir string
	// HTMLDir and TracesDir default to cucumber-html-report/ and traces/
	// under ReportsDir.
	HTMLDir    string
	TracesDir  string
	JUnitFile  string
	Artifacts  string
	RunID      string
	Now        func() time.Time
}

// Output is what Generate produced.
type Output struct {
	Summary Summary
	Traces  []Trace
	Files   []string
}

// Generate loads the results and writes every report. Missing results give
// empty reports rather than an error; write failures are collected and
// returned together after all reports were attempted.
func Generate(log *zap.Logger, opts Options) (Output, error) {
	if opts.Title == "" {
		opts.Title = "E2E test report"
	}
	files := expand(log, opts.Results)
	if opts.RunID == "" || opts.Now == nil {
		id, at := stamp(files)
		if opts.RunID == "" {
			opts.RunID = id
		}
		if opts.Now == nil {
			opts.Now = func() time.Time { return at }
		}
	}
	meta := Meta{
		Title:       opts.Title,
		RunID:       opts.RunID,
		GeneratedAt: opts.Now(),
		Artifacts:   opts.Artifacts,
	}

	out := Output{Summary: Summarize(Load(log, files...))}

	tracesDir := opts.TracesDir
	if tracesDir == "" {
		tracesDir = filepath.Join(opts.ReportsDir, "traces")
	}
	traces, err := ListTraces(tracesDir)
	if err != nil {
		log.Warn("could not list traces", zap.Error(err))
	}
	out.Traces = traces

	var errs []error
	write := func(path string, fn func() error) {
		if err := fn(); err != nil {
			log.Warn("could not write report", zap.String("path", path), zap.Error(err))
			errs = append(errs, err)
			return
		}
		out.Files = append(out.Files, path)
	}

	index := filepath.Join(opts.ReportsDir, "index.html")
	write(index, func() error { return WriteIndex(index, meta, out.Summary, traces) })

	featureDir := opts.HTMLDir
	if featureDir == "" {
		featureDir = filepath.Join(opts.ReportsDir, "cucumber-html-report")
	}
	write(filepath.Join(featureDir, "index.html"), func() error { return WriteFeatureReport(featureDir, meta, out.Summary) })

	write(filepath.Join(tracesDir, "index.html"), func() error { return WriteTraceIndex(tracesDir, traces) })

	if opts.JUnitFile != "" {
		write(opts.JUnitFile, func() error { return WriteJUnit(opts.JUnitFile, opts.Title, out.Summary) })
	}

	log.Info("reports generated",
		zap.String("runID", opts.RunID),
		zap.Int("scenarios", out.Summary.Total),
		zap.Int("passed", out.Summary.Passed),
		zap.Int("failed", out.Summary.Failed),
		zap.Int("pending", out.Summary.Pending),
		zap.Int("traces", len(traces)))

	return out, errors.Join(errs...)
}

// stamp derives the run id from the content of the result files and the
// report time from their newest modification, so that the same results
// always give the same report. Without results the time is zero.
func stamp(files []string) (string, time.Time) {
	h := sha256.New()
	var newest time.Time
	for _, path := range files {
		data, err := os.ReadFile(path)
		if err != nil {
			continue
		}
		h.Write(data)
		if info, err := os.Stat(path); err == nil && info.ModTime().After(newest) {
			newest = info.ModTime()
		}
	}
	return uuid.NewSHA1(uuid.NameSpaceURL, h.Sum(nil)).String(), newest.UTC()
}
