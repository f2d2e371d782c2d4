package report

import (
	"bytes"
	"embed"
	"encoding/base64"
	"fmt"
	"html/template"
	"path/filepath"
	"strings"
	"time"
)

//go:embed templates/*.html.tmpl
var templateFS embed.FS

var templates = template.Must(template.New("").Funcs(template.FuncMap{
	"duration": formatDuration,
	"percent":  func(f float64) string { return fmt.Sprintf("%.1f%%", f) },
	"dataURL": func(e Embedding) template.URL {
		return template.URL("data:" + e.MimeType + ";base64," + base64.StdEncoding.EncodeToString(e.Data))
	},
	"lower": strings.ToLower,
}).ParseFS(templateFS, "templates/*.html.tmpl"))

// Meta describes the run a report was generated for.
type Meta struct {
	Title       string
	RunID       string
	GeneratedAt time.Time
	Artifacts   string
}

type indexData struct {
	Meta
	Summary
	FailedScenarios []Scenario
	Traces          []Trace
}

// WriteIndex writes the landing page of a run: counts, failures and links
// to the detailed report and the artifact directories.
func WriteIndex(path string, meta Meta, s Summary, traces []Trace) error {
	return render(path, "index.html.tmpl", indexData{
		Meta:            meta,
		Summary:         s,
		FailedScenarios: s.Failures(),
		Traces:          traces,
	})
}

type featuresData struct {
	Meta
	Summary
}

// WriteFeatureReport writes the per feature report with steps, errors and
// embedded screenshots.
func WriteFeatureReport(dir string, meta Meta, s Summary) error {
	return render(filepath.Join(dir, "index.html"), "features.html.tmpl", featuresData{Meta: meta, Summary: s})
}

func render(path, name string, data any) error {
	var buf bytes.Buffer
	if err := templates.ExecuteTemplate(&buf, name, data); err != nil {
		return fmt.Errorf("failed to render %s: %w", name, err)
	}
	return writeFile(path, buf.Bytes())
}

func formatDuration(d time.Duration) string {
	if d < time.Second {
		return fmt.Sprintf("%dms", d.Milliseconds())
	}
	return d.Truncate(time.Millisecond).String()
}
